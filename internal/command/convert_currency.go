package command

import (
	"errors"

	"github.com/spf13/cobra"

	"github.com/georgemunganga/bizdesk-backend/internal/modules/currency"
	"github.com/georgemunganga/bizdesk-backend/internal/modules/settings"
)

// NewConvertCurrencyCommand rewrites every stored amount from one currency to another.
// With --update-settings the base currency in settings.json changes too, the same way
// a settings update through the API does.
func NewConvertCurrencyCommand() *cobra.Command {
	var (
		from, to       string
		updateSettings bool
	)
	cmd := &cobra.Command{
		Use:   "convert-currency",
		Short: "Convert every stored amount to another currency",
		Long: `Rewrites the monetary fields of sales, orders, inventory, customers and reports.
Collections are rewritten independently: if one fails, the others keep their converted values.`,
		Example: "  bizctl convert-currency --from USD --to EUR\n  bizctl convert-currency --to EUR --update-settings",
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			env, err := EnvFrom(cmd.Context())
			if err != nil {
				return err
			}
			ctx := cmd.Context()
			dst, err := currency.Parse(to)
			if err != nil {
				return err
			}
			normalizer := currency.NewNormalizer(env.DB, env.Log)

			if updateSettings {
				base, err := currency.Parse(env.Config.DefaultCurrency)
				if err != nil {
					return err
				}
				svc := settings.NewService(settings.NewStore(env.DB, settings.Defaults(base)), normalizer, settings.NewBroker(env.Log), env.Log)
				current, err := svc.Load(ctx)
				if err != nil {
					return err
				}
				if from != "" {
					src, err := currency.Parse(from)
					if err != nil {
						return err
					}
					if src != current.Currency {
						return errors.New("--from must match the current base currency " + string(current.Currency) + " when --update-settings is set")
					}
				}
				code := string(dst)
				if _, err := svc.Update(ctx, settings.UpdateRequest{Currency: &code}); err != nil {
					return err
				}
				env.Printer.Successf("converted stored amounts %s -> %s and updated settings", current.Currency, dst)
				return nil
			}

			src, err := currency.Parse(from)
			if err != nil {
				return err
			}
			if err := normalizer.ConvertAll(ctx, src, dst); err != nil {
				return err
			}
			env.Printer.Successf("converted stored amounts %s -> %s (settings unchanged)", src, dst)
			return nil
		},
	}
	cmd.Flags().StringVar(&from, "from", "", "current currency of the stored amounts")
	cmd.Flags().StringVar(&to, "to", "", "target currency code")
	cmd.Flags().BoolVar(&updateSettings, "update-settings", false, "also change the base currency in settings.json")
	_ = cmd.MarkFlagRequired("to")
	return cmd
}

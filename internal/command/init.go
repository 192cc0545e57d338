package command

import (
	"encoding/json"

	"github.com/spf13/cobra"

	"github.com/georgemunganga/bizdesk-backend/internal/jsonstore"
	"github.com/georgemunganga/bizdesk-backend/internal/modules/currency"
	"github.com/georgemunganga/bizdesk-backend/internal/modules/settings"
)

// NewInitCommand creates every collection file and settings.json when missing.
// Existing files are left untouched.
func NewInitCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "init",
		Short: "Bootstrap every collection file in the data directory",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			env, err := EnvFrom(cmd.Context())
			if err != nil {
				return err
			}
			ctx := cmd.Context()
			for _, c := range collections {
				if _, err := jsonstore.NewCollection[json.RawMessage](env.DB, c.File).Count(ctx); err != nil {
					return err
				}
			}

			base, err := currency.Parse(env.Config.DefaultCurrency)
			if err != nil {
				return err
			}
			store := settings.NewStore(env.DB, settings.Defaults(base))
			loaded, err := store.Load(ctx)
			if err != nil {
				return err
			}
			// Writes the merged defaults so settings.json is complete on disk.
			if err := store.Save(ctx, loaded); err != nil {
				return err
			}
			env.Printer.Successf("initialised %d collections in %s (currency %s)", len(collections), env.DB.Dir(), loaded.Currency)
			return nil
		},
	}
}

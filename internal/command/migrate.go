package command

import (
	"github.com/spf13/cobra"

	"github.com/georgemunganga/bizdesk-backend/internal/modules/sale"
)

// NewMigrateCommand upgrades stored records to the current schema. The API does the
// same at startup.
func NewMigrateCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "migrate",
		Short: "Upgrade legacy sale records to the current schema",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			env, err := EnvFrom(cmd.Context())
			if err != nil {
				return err
			}
			// Only the repository is needed; stock and customers are not touched by a migration.
			n, err := sale.NewService(sale.NewStore(env.DB), nil, nil, env.Log).Migrate(cmd.Context())
			if err != nil {
				return err
			}
			env.Printer.Successf("migrated %d sale records to schema version %d", n, sale.CurrentSchema)
			return nil
		},
	}
}

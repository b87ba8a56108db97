package migrate

import (
	"fmt"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/evermart/ordertables/internal/conf"
	"github.com/evermart/ordertables/internal/engine"
	"github.com/evermart/ordertables/internal/order"
)

// Command creates the migrate command, which moves legacy records into their
// normalized tables batch by batch.
func Command(settings *conf.Settings) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "migrate",
		Short: "Migrate legacy order records to the normalized tables",
		Long:  "Move every pending order and refund record from legacy attribute storage into its normalized table, in bounded batches, newest first.",
		RunE: func(cmd *cobra.Command, args []string) error {
			summary, err := engine.Migrate(cmd.Context(), settings)
			if err != nil {
				return err
			}
			fmt.Printf("%d orders were migrated\n", summary.Migrated[order.TypeOrder])
			if refunds := summary.Migrated[order.TypeRefund]; refunds > 0 {
				fmt.Printf("%d refunds were migrated\n", refunds)
			}
			if summary.Skipped > 0 {
				fmt.Printf("%d records failed to load and were skipped\n", summary.Skipped)
			}
			return nil
		},
	}

	setupFlags(cmd, settings)

	return cmd
}

func setupFlags(cmd *cobra.Command, settings *conf.Settings) {
	cmd.Flags().IntVar(&settings.Migration.BatchSize, "batch-size", viper.GetInt("migration.batchsize"), "Number of records to fetch per batch")
}

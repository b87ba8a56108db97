package backfill

import (
	"fmt"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/evermart/ordertables/internal/conf"
	"github.com/evermart/ordertables/internal/engine"
)

// Command creates the backfill command, which copies normalized rows back
// into legacy attribute storage.
func Command(settings *conf.Settings) *cobra.Command {
	var (
		startPage  int
		deleteMeta bool
	)

	cmd := &cobra.Command{
		Use:   "backfill",
		Short: "Copy normalized rows back to legacy attribute storage",
		Long:  "Walk the normalized tables page by page and write each row's values back as legacy attributes, optionally deleting the mapped attributes afterwards.",
		RunE: func(cmd *cobra.Command, args []string) error {
			summary, err := engine.Backfill(cmd.Context(), settings, startPage, deleteMeta)
			if err != nil {
				return err
			}
			fmt.Printf("%d rows were copied back\n", summary.Processed)
			if summary.Skipped > 0 {
				fmt.Printf("%d rows vanished mid-run and were skipped\n", summary.Skipped)
			}
			return nil
		},
	}

	cmd.Flags().IntVar(&settings.Migration.BatchSize, "batch-size", viper.GetInt("migration.batchsize"), "Number of rows to fetch per batch")
	cmd.Flags().IntVar(&startPage, "batch", 0, "Page number to start from")
	cmd.Flags().BoolVar(&deleteMeta, "delete-meta", false, "Delete mapped legacy attributes after copying")

	return cmd
}

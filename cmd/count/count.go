package count

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/evermart/ordertables/internal/conf"
	"github.com/evermart/ordertables/internal/engine"
)

// Command creates the count command, which reports how many records still
// lack a normalized row.
func Command(settings *conf.Settings) *cobra.Command {
	return &cobra.Command{
		Use:   "count",
		Short: "Count records pending migration",
		RunE: func(cmd *cobra.Command, args []string) error {
			pending, err := engine.CountPending(cmd.Context(), settings)
			if err != nil {
				return err
			}
			fmt.Println(pending)
			return nil
		},
	}
}

package inspect

import (
	"fmt"
	"slices"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/evermart/ordertables/internal/conf"
	"github.com/evermart/ordertables/internal/engine"
	"github.com/evermart/ordertables/internal/order"
)

// Command creates the inspect command, which loads one record through the
// dual-read path and prints its column values.
func Command(settings *conf.Settings) *cobra.Command {
	var refund bool

	cmd := &cobra.Command{
		Use:   "inspect [record-id]",
		Short: "Load one record and print its column values",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := strconv.ParseUint(args[0], 10, 64)
			if err != nil {
				return fmt.Errorf("invalid record ID %q: %w", args[0], err)
			}

			recordType := order.TypeOrder
			if refund {
				recordType = order.TypeRefund
			}

			cols, migrated, err := engine.Inspect(cmd.Context(), settings, recordType, id)
			if err != nil {
				return err
			}

			source := "legacy attributes"
			if migrated {
				source = "normalized table"
			}
			fmt.Printf("record %d (%s), read from %s\n", id, recordType, source)

			names := make([]string, 0, len(cols))
			for name := range cols {
				names = append(names, name)
			}
			slices.Sort(names)
			for _, name := range names {
				fmt.Printf("  %s = %q\n", name, cols[name])
			}
			return nil
		},
	}

	cmd.Flags().BoolVar(&refund, "refund", false, "Inspect a refund record instead of an order")

	return cmd
}

package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/evermart/ordertables/cmd/backfill"
	"github.com/evermart/ordertables/cmd/count"
	"github.com/evermart/ordertables/cmd/inspect"
	"github.com/evermart/ordertables/cmd/migrate"
	"github.com/evermart/ordertables/internal/conf"
)

// RootCommand creates and returns the root command
func RootCommand(settings *conf.Settings) *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   "ordertables",
		Short: "Order table migration CLI",
		Long:  "Migrate order records from legacy attribute storage to normalized tables and back.",
	}

	// Set up the global flags for the root command.
	if err := setupFlags(rootCmd, settings); err != nil {
		cobra.CheckErr(err)
	}

	rootCmd.AddCommand(
		count.Command(settings),
		migrate.Command(settings),
		backfill.Command(settings),
		inspect.Command(settings),
	)

	rootCmd.SilenceUsage = true

	return rootCmd
}

// setupFlags defines flags that are global to the command line interface.
func setupFlags(rootCmd *cobra.Command, settings *conf.Settings) error {
	rootCmd.PersistentFlags().BoolVarP(&settings.Debug, "debug", "d", viper.GetBool("debug"), "Enable debug output")

	if err := viper.BindPFlags(rootCmd.PersistentFlags()); err != nil {
		return fmt.Errorf("error binding flags: %v", err)
	}

	return nil
}

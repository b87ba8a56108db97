// conf/defaults.go default values for settings
package conf

import (
	"github.com/spf13/viper"
)

// DefaultBatchSize is the number of records the migration drivers process
// per batch unless overridden by config or the --batch-size flag.
const DefaultBatchSize = 100

// Sets default values for the configuration.
func setDefaultConfig() {
	viper.SetDefault("debug", false)

	viper.SetDefault("database.sqlite.enabled", true)
	viper.SetDefault("database.sqlite.path", "ordertables.db")

	viper.SetDefault("database.mysql.enabled", false)
	viper.SetDefault("database.mysql.username", "ordertables")
	viper.SetDefault("database.mysql.password", "")
	viper.SetDefault("database.mysql.database", "ordertables")
	viper.SetDefault("database.mysql.host", "localhost")
	viper.SetDefault("database.mysql.port", "3306")

	viper.SetDefault("migration.batchsize", DefaultBatchSize)
	viper.SetDefault("migration.autobackfill", true)
	viper.SetDefault("migration.logpath", "")
}

package cmd

import (
	"github.com/paulvitic/hotel-booking/hotel/adapter/sqlDb"
	"github.com/spf13/cobra"
)

var migrateCmd = &cobra.Command{
	Use:       "migrate up|down",
	Short:     "Apply or revert the SQL registry schema",
	Long:      `Apply (up) or revert (down) the schema of the database named by sql.driver and sql.dsn.`,
	Args:      cobra.MatchAll(cobra.ExactArgs(1), cobra.OnlyValidArgs),
	ValidArgs: []string{string(sqlDb.Up), string(sqlDb.Down)},
	RunE: func(cmd *cobra.Command, args []string) error {
		props, logger, err := loadProperties()
		if err != nil {
			return err
		}
		return sqlDb.Migrate(props.Sql.Driver, props.Sql.Dsn, sqlDb.Direction(args[0]), logger)
	},
}

package commands

import (
	"blogcms/config"
	"blogcms/database"

	"github.com/spf13/cobra"
)

var migrateCmd = &cobra.Command{
	Use:   "migrate",
	Short: "Create or update the users, categories and posts tables",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := config.Load()
		if err != nil {
			return err
		}
		applyLogLevel(cmd, cfg)

		db, err := database.Connect(cfg)
		if err != nil {
			return err
		}
		defer database.Close(db)

		return database.Migrate(db)
	},
}

func init() {
	rootCmd.AddCommand(migrateCmd)
}

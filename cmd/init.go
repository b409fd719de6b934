// cmd/init.go
package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/rcampos/vendahub/internal/db"
)

var initCmd = &cobra.Command{
	Use:   "init",
	Short: "Initialize a new VendaHub database",
	Long:  `Creates a new SQLite database with the full application schema.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		dbPath, _ := cmd.Flags().GetString("db")

		if _, err := os.Stat(dbPath); err == nil {
			return fmt.Errorf("database already exists at %s", dbPath)
		}

		database, err := db.New(dbPath)
		if err != nil {
			return fmt.Errorf("failed to create database: %w", err)
		}
		defer database.Close()

		if err := database.RunMigrations(); err != nil {
			return fmt.Errorf("failed to run migrations: %w", err)
		}

		fmt.Printf("Initialized database at %s\n", dbPath)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(initCmd)
	initCmd.Flags().String("db", "vendahub.db", "Path to database file")
}

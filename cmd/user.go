// cmd/user.go
package cmd

import (
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/rcampos/vendahub/internal/auth"
	"github.com/rcampos/vendahub/internal/db"
)

var userCmd = &cobra.Command{
	Use:   "user",
	Short: "Manage users",
	Long:  `Commands for managing seller and admin accounts.`,
}

var userCreateCmd = &cobra.Command{
	Use:   "create",
	Short: "Create a new user",
	Long: `Create a new user with the specified email. The password is read
from --password or prompted interactively.

Examples:
  # Create a seller, prompting for the password
  vendahub user create --email seller@example.com

  # Create an admin
  vendahub user create --email admin@example.com --role admin`,
	RunE: func(cmd *cobra.Command, args []string) error {
		email, _ := cmd.Flags().GetString("email")
		password, _ := cmd.Flags().GetString("password")
		role, _ := cmd.Flags().GetString("role")
		dbPath, _ := cmd.Flags().GetString("db")

		if email == "" {
			return fmt.Errorf("--email is required")
		}

		if password == "" {
			fmt.Print("Password: ")
			raw, err := term.ReadPassword(int(os.Stdin.Fd()))
			fmt.Println()
			if err != nil {
				return fmt.Errorf("failed to read password: %w", err)
			}
			password = string(raw)
		}
		if len(password) < 6 {
			return fmt.Errorf("password must be at least 6 characters")
		}

		if _, err := os.Stat(dbPath); os.IsNotExist(err) {
			return fmt.Errorf("database not found at %s. Run 'vendahub init' first", dbPath)
		}

		database, err := db.New(dbPath)
		if err != nil {
			return fmt.Errorf("failed to open database: %w", err)
		}
		defer database.Close()

		service := auth.NewService(database, "not-needed-for-create")
		user, err := service.CreateUser(email, password, "", "")
		if err != nil {
			return fmt.Errorf("failed to create user: %w", err)
		}

		if role != "" && role != auth.RoleSeller {
			if err := service.SetRole(user.ID, role); err != nil {
				return fmt.Errorf("failed to set role: %w", err)
			}
			user.Role = role
		}

		fmt.Printf("Created user: %s (ID: %s, role: %s)\n", user.Email, user.ID, user.Role)
		return nil
	},
}

var userListCmd = &cobra.Command{
	Use:   "list",
	Short: "List all users",
	RunE: func(cmd *cobra.Command, args []string) error {
		dbPath, _ := cmd.Flags().GetString("db")

		if _, err := os.Stat(dbPath); os.IsNotExist(err) {
			return fmt.Errorf("database not found at %s. Run 'vendahub init' first", dbPath)
		}

		database, err := db.New(dbPath)
		if err != nil {
			return fmt.Errorf("failed to open database: %w", err)
		}
		defer database.Close()

		rows, err := database.Query(`SELECT id, email, role, created_at FROM users ORDER BY created_at`)
		if err != nil {
			return fmt.Errorf("failed to query users: %w", err)
		}
		defer rows.Close()

		w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
		fmt.Fprintln(w, "ID\tEMAIL\tROLE\tCREATED")

		count := 0
		for rows.Next() {
			var id, email, role, createdAt string
			if err := rows.Scan(&id, &email, &role, &createdAt); err != nil {
				continue
			}
			fmt.Fprintf(w, "%s\t%s\t%s\t%s\n", id, email, role, createdAt)
			count++
		}
		w.Flush()

		if count == 0 {
			fmt.Println("No users found")
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(userCmd)
	userCmd.AddCommand(userCreateCmd)
	userCmd.AddCommand(userListCmd)

	userCreateCmd.Flags().String("email", "", "Email address for the new user")
	userCreateCmd.Flags().String("password", "", "Password (prompted when omitted)")
	userCreateCmd.Flags().String("role", "", "Role: seller or admin (default seller)")
	userCreateCmd.Flags().String("db", "vendahub.db", "Path to database file")

	userListCmd.Flags().String("db", "vendahub.db", "Path to database file")
}

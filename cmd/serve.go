// cmd/serve.go
package cmd

import (
	"fmt"
	"os"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"github.com/rcampos/vendahub/internal/db"
	"github.com/rcampos/vendahub/internal/log"
	"github.com/rcampos/vendahub/internal/meli"
	"github.com/rcampos/vendahub/internal/server"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the VendaHub server",
	Long:  `Starts the HTTP server with auth, catalog, sales, pricing, content, and marketplace integration endpoints.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		// Load .env if present; real environment wins over file values.
		godotenv.Load()

		dbPath, _ := cmd.Flags().GetString("db")
		port, _ := cmd.Flags().GetInt("port")
		host, _ := cmd.Flags().GetString("host")
		logLevel, _ := cmd.Flags().GetString("log-level")
		logFormat, _ := cmd.Flags().GetString("log-format")

		log.Init(&log.Config{Level: logLevel, Format: logFormat})

		jwtSecret := os.Getenv("VENDAHUB_JWT_SECRET")
		if jwtSecret == "" {
			jwtSecret = "super-secret-jwt-key-please-change-in-production"
			fmt.Println("Warning: Using default JWT secret. Set VENDAHUB_JWT_SECRET in production.")
		}

		if _, err := os.Stat(dbPath); os.IsNotExist(err) {
			return fmt.Errorf("database not found at %s. Run 'vendahub init' first", dbPath)
		}

		database, err := db.New(dbPath)
		if err != nil {
			return fmt.Errorf("failed to open database: %w", err)
		}
		defer database.Close()

		// Run migrations in case schema is outdated
		if err := database.RunMigrations(); err != nil {
			return fmt.Errorf("failed to run migrations: %w", err)
		}

		meliConfig, err := meli.ConfigFromEnv()
		if err != nil {
			return fmt.Errorf("failed to read Mercado Livre configuration: %w", err)
		}
		if err := meliConfig.Validate(); err != nil {
			fmt.Println("Warning: Mercado Livre integration not configured. Set MELI_CLIENT_ID, MELI_CLIENT_SECRET and MELI_REDIRECT_URI to enable it.")
		}

		openaiKey := os.Getenv("OPENAI_API_KEY")
		if openaiKey == "" {
			fmt.Println("Note: OPENAI_API_KEY not set. Content generation needs the openai_api_key admin setting.")
		}

		srv := server.New(database, server.Config{
			JWTSecret:    jwtSecret,
			Meli:         meliConfig,
			OpenAIKey:    openaiKey,
			ContentModel: os.Getenv("VENDAHUB_CONTENT_MODEL"),
		})

		addr := fmt.Sprintf("%s:%d", host, port)
		fmt.Printf("Starting VendaHub on %s\n", addr)
		fmt.Printf("  Auth API:         http://%s/auth/v1\n", addr)
		fmt.Printf("  Dashboard API:    http://%s/api/v1\n", addr)
		fmt.Printf("  Integrations API: http://%s/integrations/v1\n", addr)

		return srv.ListenAndServe(addr)
	},
}

func init() {
	rootCmd.AddCommand(serveCmd)
	serveCmd.Flags().String("db", "vendahub.db", "Path to database file")
	serveCmd.Flags().IntP("port", "p", 8080, "Port to listen on")
	serveCmd.Flags().String("host", "0.0.0.0", "Host to bind to")
	serveCmd.Flags().String("log-level", "info", "Log level: debug, info, warn, error")
	serveCmd.Flags().String("log-format", "text", "Log format: text or json")
}

package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

// Version information set via ldflags at build time
var (
	Version   = "dev"
	BuildTime = ""
	GitCommit = ""
)

var rootCmd = &cobra.Command{
	Use:     "vendahub",
	Short:   "VendaHub - marketplace seller dashboard backend",
	Long:    `A single-binary backend for Brazilian marketplace sellers: catalog, sales, pricing, AI listing copy, and Mercado Livre account connection over OAuth2 with PKCE.`,
	Version: Version,
}

func init() {
	rootCmd.SetVersionTemplate("vendahub version {{.Version}}\n")
}

func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

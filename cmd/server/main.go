package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

// rootCmd runs the server when no subcommand is given.
var rootCmd = &cobra.Command{
	Use:   "carlton",
	Short: "Carlton Madagascar website and content admin",
	Long: `Serves the Carlton Madagascar public site and the admin API.

Configuration is read from config.yml and CARLTON_* environment variables.
Without a database DSN the public pages are served from the built-in content
and the admin API answers 503.`,
	SilenceUsage: true,
	RunE:         runServe,
}

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the HTTP server",
	RunE:  runServe,
}

var migrateCmd = &cobra.Command{
	Use:   "migrate",
	Short: "Apply database migrations and exit",
	RunE:  runMigrate,
}

var createAdminCmd = &cobra.Command{
	Use:   "create-admin",
	Short: "Create an admin account",
	Long: `Create an admin account for the content admin.

The password is read from --password or the CARLTON_ADMIN_PASSWORD variable.`,
	RunE: runCreateAdmin,
}

func init() {
	createAdminCmd.Flags().String("email", "", "email address of the account")
	createAdminCmd.Flags().String("name", "Administrator", "display name")
	createAdminCmd.Flags().String("password", "", "password (at least 8 characters)")
	_ = createAdminCmd.MarkFlagRequired("email")

	rootCmd.AddCommand(serveCmd, migrateCmd, createAdminCmd)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

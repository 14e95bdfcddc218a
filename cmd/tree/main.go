package main

import (
	"context"
	"fmt"
	"log"
	"time"

	"github.com/spf13/cobra"

	"github.com/sageverse/tree/internal/app"
	"github.com/sageverse/tree/internal/version"
)

const migrateTimeout = time.Minute

var rootCmd = &cobra.Command{
	Use:           "tree",
	Short:         "Sageverse Tree link-in-bio server",
	SilenceUsage:  true,
	SilenceErrors: true,
	RunE:          runServe,
}

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the HTTP server (default)",
	Long: `Run the HTTP server.

Configuration comes from TREE_* environment variables, optionally loaded
from a .env file in the working directory. The schema is created on start.`,
	RunE: runServe,
}

var migrateCmd = &cobra.Command{
	Use:   "migrate",
	Short: "Create the database schema and exit",
	RunE: func(cmd *cobra.Command, _ []string) error {
		ctx, cancel := context.WithTimeout(cmd.Context(), migrateTimeout)
		defer cancel()
		return app.Migrate(ctx)
	},
}

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print build information",
	Run: func(cmd *cobra.Command, _ []string) {
		fmt.Fprintln(cmd.OutOrStdout(), version.String())
	},
}

func runServe(cmd *cobra.Command, _ []string) error {
	a, err := app.New(cmd.Context())
	if err != nil {
		return err
	}
	return a.Run()
}

func main() {
	rootCmd.AddCommand(serveCmd, migrateCmd, versionCmd)
	if err := rootCmd.ExecuteContext(context.Background()); err != nil {
		log.Fatalf("❌ tree failed: %v", err)
	}
}

// Package main is the entry point for the facesheet service.
package main

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	facesheet "github.com/0xalexb/facesheet"
	"github.com/0xalexb/facesheet/config"
	"github.com/0xalexb/facesheet/mapping"
	"github.com/0xalexb/facesheet/mapping/loader"
)

var (
	cfgFile  string
	logLevel string
)

var rootCmd = &cobra.Command{
	Use:   "facesheet",
	Short: "Render tenant-mapped face sheets from source records",
	Long: `facesheet serves face-sheet documents: it resolves per-tenant
field-mapping configurations, projects source records onto them, and
renders the result as HTML or PDF.`,
	SilenceUsage: true,
}

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the HTTP service",
	RunE: func(_ *cobra.Command, _ []string) error {
		app, err := facesheet.NewApp(
			facesheet.WithConfigPath(cfgFile),
			facesheet.WithLogLevel(logLevel),
		)
		if err != nil {
			return err
		}

		app.Run()

		return nil
	},
}

// checkCmd loads and resolves every mapping document and reports what the
// registry would serve. Operators run it before rolling out configuration
// changes; resolution diagnostics (missing parents, cycles) surface here
// instead of at request time.
var checkCmd = &cobra.Command{
	Use:   "check",
	Short: "Load and resolve all mapping documents, then report",
	RunE: func(cmd *cobra.Command, _ []string) error {
		cfg, err := config.Load(cfgFile)
		if err != nil {
			return err
		}

		ld, err := loader.New(cfg.MappingDir)()
		if err != nil {
			return err
		}

		resolved := mapping.ResolveAll(ld.Documents())

		hasDefault := false

		for _, doc := range resolved {
			fmt.Fprintf(cmd.OutOrStdout(), "%s: %d sections", doc.Name, len(doc.Sections))

			if doc.Default {
				hasDefault = true

				fmt.Fprint(cmd.OutOrStdout(), " [default]")
			}

			fmt.Fprintln(cmd.OutOrStdout())
		}

		if !hasDefault {
			slog.Warn("check: no document is flagged as default; lookups will fall back to the built-in mapping")
		}

		return nil
	},
}

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print version information",
	Run: func(cmd *cobra.Command, _ []string) {
		fmt.Fprintf(cmd.OutOrStdout(), "facesheet %s (built %s)\n",
			facesheet.Version, facesheet.CompiledAt)
	},
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&cfgFile, "config", "c", "facesheet.yaml",
		"service configuration file")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "",
		"override the configured log level (debug, info, warn, error)")

	rootCmd.AddCommand(serveCmd, checkCmd, versionCmd)
}

func main() {
	err := rootCmd.Execute()
	if err != nil {
		os.Exit(1)
	}
}

// Package cmd contains all the CLI commands for the application,
// built using the Cobra library.
package cmd

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/cockroachdb/errors"
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/naka-gawa/github-kpi/internal/config"
	"github.com/naka-gawa/github-kpi/internal/logging"
)

var rootCmd = &cobra.Command{
	Use:   "github-kpi",
	Short: "A CLI tool to compute code review KPIs of a GitHub repository.",
	Long: `github-kpi computes review KPIs (merged pull requests, review comments,
lines added and removed) for a GitHub repository over a merge date range.
The GITHUB_TOKEN environment variable must hold a personal access token.`,
}

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main(). It only needs to happen once to the rootCmd.
func Execute() {
	err := rootCmd.Execute()
	if err != nil {
		os.Exit(1)
	}
}

func init() {
	// Add a persistent flag for verbose output, available to all commands.
	rootCmd.PersistentFlags().BoolP("verbose", "v", false, "Enable verbose/debug logging")
}

// addWindowFlags registers the flags describing the query window.
func addWindowFlags(cmd *cobra.Command) {
	cmd.Flags().StringP("repo", "r", "", "Target repository as owner/name")
	cmd.Flags().String("from", "", "Start of the merge date range (YYYY-MM-DD)")
	cmd.Flags().String("to", "", "End of the merge date range (YYYY-MM-DD)")
}

// loadConfig merges flags, key=value arguments and environment variables.
func loadConfig(cmd *cobra.Command, args []string) (*config.Config, error) {
	v := config.NewViper()
	bindings := map[string]string{
		config.KeyRepo:               "repo",
		config.KeyFrom:               "from",
		config.KeyTo:                 "to",
		config.KeyFormat:             "format",
		config.KeySummary:            "summary",
		config.KeySecondaryLimitWait: "secondary-limit-wait",
	}
	for key, flagName := range bindings {
		if flag := cmd.Flags().Lookup(flagName); flag != nil {
			if err := v.BindPFlag(key, flag); err != nil {
				return nil, errors.Wrapf(err, "failed to bind flag %s", flagName)
			}
		}
	}
	if err := config.ApplyKeyValueArgs(v, args); err != nil {
		return nil, err
	}
	return config.Load(v)
}

// newLogger builds the diagnostics logger according to --verbose.
func newLogger(cmd *cobra.Command) zerolog.Logger {
	verbose, _ := cmd.Flags().GetBool("verbose")
	return logging.New(os.Stderr, verbose)
}

// fail prints err on a single line and exits with status 1.
func fail(w io.Writer, err error) {
	fmt.Fprintln(w, failureLine(err))
	os.Exit(1)
}

// failureLine renders err followed by its hints, all on one line.
func failureLine(err error) string {
	line := "Error: " + err.Error()
	if hints := errors.FlattenHints(err); hints != "" {
		if !strings.HasSuffix(line, ".") {
			line += "."
		}
		line += " " + strings.Join(strings.Fields(hints), " ")
	}
	return line
}

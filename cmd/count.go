package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/naka-gawa/github-kpi/internal/gateway"
	"github.com/naka-gawa/github-kpi/internal/logging"
)

var countCmd = &cobra.Command{
	Use:   "count [repo=owner/name from=YYYY-MM-DD to=YYYY-MM-DD]",
	Short: "Prints the number of merged pull requests",
	Long: `Prints the number of pull requests merged in the date range using a single
GraphQL query. Unlike stats, the count is not limited to 1000.`,
	Run: func(cmd *cobra.Command, args []string) {
		stderr := cmd.ErrOrStderr()

		cfg, err := loadConfig(cmd, args)
		if err != nil {
			fail(stderr, err)
		}
		logger := newLogger(cmd)

		githubGateway, err := gateway.NewGitHubGateway(cfg.Token, gateway.Options{}, logging.WithComponent(logger, "gateway"))
		if err != nil {
			fail(stderr, err)
		}

		count, err := githubGateway.CountMergedPRs(cmd.Context(), cfg.Window)
		if err != nil {
			fail(stderr, err)
		}
		fmt.Fprintln(cmd.OutOrStdout(), count)
	},
}

func init() {
	rootCmd.AddCommand(countCmd)
	addWindowFlags(countCmd)
}

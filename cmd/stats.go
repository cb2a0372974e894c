package cmd

import (
	"github.com/spf13/cobra"

	"github.com/naka-gawa/github-kpi/internal/config"
	"github.com/naka-gawa/github-kpi/internal/gateway"
	"github.com/naka-gawa/github-kpi/internal/logging"
	"github.com/naka-gawa/github-kpi/internal/output"
	"github.com/naka-gawa/github-kpi/internal/usecase"
)

var statsCmd = &cobra.Command{
	Use:   "stats [repo=owner/name from=YYYY-MM-DD to=YYYY-MM-DD]",
	Short: "Computes review KPIs of merged pull requests",
	Long: `Computes the number of merged pull requests, their review comments and the
lines they added and removed for a repository and merge date range.

At most 1000 pull requests are counted, the limit of GitHub's search API.`,
	Example: `  github-kpi stats --repo owner/name --from 2024-01-01 --to 2024-03-31
  github-kpi stats repo=owner/name from=2024-01-01 to=2024-03-31`,
	Run: func(cmd *cobra.Command, args []string) {
		ctx := cmd.Context()
		stderr := cmd.ErrOrStderr()

		cfg, err := loadConfig(cmd, args)
		if err != nil {
			fail(stderr, err)
		}
		logger := newLogger(cmd)

		// Inject dependencies and run the main business logic.
		githubGateway, err := gateway.NewGitHubGateway(cfg.Token, gateway.Options{SecondaryLimitWait: cfg.SecondaryLimitWait}, logging.WithComponent(logger, "gateway"))
		if err != nil {
			fail(stderr, err)
		}
		aggregator := usecase.NewAggregator(logging.WithComponent(logger, "aggregator"), cfg.Summary)
		pipeline := usecase.NewPipeline(githubGateway, aggregator, cmd.OutOrStdout(), logging.WithComponent(logger, "pipeline"))

		report, err := pipeline.Run(ctx, cfg.Window)
		if err != nil {
			fail(stderr, err)
		}

		if err := output.Render(cmd.OutOrStdout(), report, cfg.Format); err != nil {
			fail(stderr, err)
		}
	},
}

func init() {
	rootCmd.AddCommand(statsCmd)
	addWindowFlags(statsCmd)
	statsCmd.Flags().StringP("format", "f", config.FormatJSON, "Output format: json or table")
	statsCmd.Flags().Bool("summary", false, "Add per pull request mean, median and p90 figures")
	statsCmd.Flags().Duration("secondary-limit-wait", 0, "Longest single wait on a GitHub secondary rate limit; 0 reports the limit as is, a positive value sleeps and retries instead")
}

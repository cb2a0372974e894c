// Package output renders a Report for the terminal.
package output

import (
	"encoding/json"
	"fmt"
	"io"
	"strconv"

	"github.com/cockroachdb/errors"
	"github.com/olekukonko/tablewriter"
	"github.com/olekukonko/tablewriter/tw"

	"github.com/naka-gawa/github-kpi/internal/config"
	"github.com/naka-gawa/github-kpi/internal/domain"
)

// Render writes report to w in the given format (config.FormatJSON or config.FormatTable).
func Render(w io.Writer, report *domain.Report, format string) error {
	switch format {
	case config.FormatJSON:
		return renderJSON(w, report)
	case config.FormatTable:
		return renderTable(w, report)
	default:
		return errors.Newf("unsupported format %q", format)
	}
}

func renderJSON(w io.Writer, report *domain.Report) error {
	jsonData, err := json.MarshalIndent(report, "", "  ")
	if err != nil {
		return errors.Wrap(err, "failed to marshal report to JSON")
	}
	_, err = fmt.Fprintln(w, string(jsonData))
	return err
}

func renderTable(w io.Writer, report *domain.Report) error {
	table := tablewriter.NewTable(w,
		tablewriter.WithConfig(tablewriter.Config{
			Row: tw.CellConfig{
				Formatting: tw.CellFormatting{AutoWrap: tw.WrapNone},
				Alignment:  tw.CellAlignment{Global: tw.AlignLeft},
			},
		}),
	)
	table.Header([]string{"metric", "value"})
	rows := [][]string{
		{"number_prs", strconv.Itoa(report.NumberOfPRs)},
		{"comments", strconv.Itoa(report.Comments)},
		{"additions", strconv.Itoa(report.Additions)},
		{"deletions", strconv.Itoa(report.Deletions)},
	}
	if s := report.Summary; s != nil {
		rows = append(rows,
			[]string{"comments mean / median / p90 / max", formatDistribution(s.Comments)},
			[]string{"changed lines mean / median / p90 / max", formatDistribution(s.ChangedLines)},
		)
	}
	if err := table.Bulk(rows); err != nil {
		return errors.Wrap(err, "failed to build report table")
	}
	return table.Render()
}

func formatDistribution(d domain.Distribution) string {
	return fmt.Sprintf("%.1f / %.1f / %.1f / %.0f", d.Mean, d.Median, d.Percentile90, d.Max)
}

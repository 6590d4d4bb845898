package cmd

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log"
	"os"
	"path/filepath"

	"github.com/google/subcommands"
	"github.com/yclin/twreport"
	"github.com/yclin/twreport/fetch"
	"github.com/yclin/twreport/gnews"
	"github.com/yclin/twreport/renderer"
	"github.com/yclin/twreport/tpex"
	"github.com/yclin/twreport/twse"
)

// reportCmd values the portfolio and writes the daily documents.
type reportCmd struct {
	date      string
	outputDir string
	noNews    bool
}

func (*reportCmd) Name() string     { return "report" }
func (*reportCmd) Synopsis() string { return "generate the daily portfolio report" }
func (*reportCmd) Usage() string {
	return `twr report [-d <date>] [-o <dir>] [-no-news]

  Resolves a closing price for every holding (listed market first, then the
  over-the-counter snapshot), aggregates valuation and P&L, and writes the
  report as markdown and HTML documents.
`
}

func (c *reportCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&c.date, "d", "", "Date for the report (defaults to yesterday)")
	f.StringVar(&c.outputDir, "o", "reports", "Directory for the generated documents")
	f.BoolVar(&c.noNews, "no-news", false, "Skip the news enrichment")
}

func (c *reportCmd) Execute(_ context.Context, _ *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	target := twreport.Today().Add(-1)
	if c.date != "" {
		var err error
		target, err = twreport.ParseDate(c.date)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error parsing date: %v\n", err)
			return subcommands.ExitUsageError
		}
	}

	report, err := buildReport(target, !c.noNews)
	if errors.Is(err, twreport.ErrEmptyLedger) {
		fmt.Fprintln(os.Stderr, "No holdings found. Use: twr add <code> <lots> <price>")
		return subcommands.ExitFailure
	}
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return subcommands.ExitFailure
	}

	markdown := renderer.ReportMarkdown(report)
	page, err := renderer.ReportHTML(report, markdown)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return subcommands.ExitFailure
	}

	htmlPath, err := c.write(report, markdown, page)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error writing report: %v\n", err)
		return subcommands.ExitFailure
	}

	printMarkdown(markdown)
	fmt.Printf("Report generated: %s\n", htmlPath)
	return subcommands.ExitSuccess
}

// write saves the dated documents plus the "latest" aliases.
func (c *reportCmd) write(report *twreport.Report, markdown, page string) (string, error) {
	if err := os.MkdirAll(c.outputDir, 0755); err != nil {
		return "", err
	}
	tag := report.Date.String()
	files := map[string]string{
		tag + ".md":   markdown,
		tag + ".html": page,
		"latest.md":   markdown,
		"latest.html": page,
	}
	for name, content := range files {
		if err := os.WriteFile(filepath.Join(c.outputDir, name), []byte(content), 0644); err != nil {
			return "", err
		}
	}
	return filepath.Join(c.outputDir, tag+".html"), nil
}

// buildReport wires the sources and runs the aggregation for a target date.
// The snapshot is fetched once here, never per symbol.
func buildReport(target twreport.Date, withNews bool) (*twreport.Report, error) {
	ledger, err := DecodeHoldings()
	if err != nil {
		return nil, err
	}

	var snapshot twreport.SnapshotSource
	if snap, err := tpex.Fetch(fetch.NewDailyCachingClient(), ""); err != nil {
		log.Printf("tpex snapshot unavailable (ignored): %v", err)
	} else {
		snapshot = snap
	}

	var news twreport.NewsSource
	if withNews {
		news = gnews.NewClient()
	}

	return twreport.BuildReport(ledger, twse.NewClient(), snapshot, news, target)
}

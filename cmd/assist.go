package cmd

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"os"
	"strings"

	"github.com/google/subcommands"
	"github.com/yclin/twreport"
	"github.com/yclin/twreport/advisor"
	"github.com/yclin/twreport/renderer"
	"google.golang.org/genai"
)

// assistCmd starts an interactive session with the AI assistant, primed
// with the day's report.
type assistCmd struct{}

func (*assistCmd) Name() string     { return "assist" }
func (*assistCmd) Synopsis() string { return "start an interactive session with the AI assistant" }
func (*assistCmd) Usage() string {
	return `twr assist [initial question]

  Generates the daily report and starts a chat about it. Requires a Gemini
  API key in the environment (GEMINI_API_KEY).
`
}

func (*assistCmd) SetFlags(_ *flag.FlagSet) {}

func (c *assistCmd) Execute(ctx context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	var prompts []string
	if f.NArg() > 0 {
		prompts = append(prompts, strings.Join(f.Args(), " "))
	}

	report, err := buildReport(twreport.Today().Add(-1), false)
	if errors.Is(err, twreport.ErrEmptyLedger) {
		fmt.Fprintln(os.Stderr, "No holdings found. Use: twr add <code> <lots> <price>")
		return subcommands.ExitFailure
	}
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return subcommands.ExitFailure
	}

	client, err := genai.NewClient(ctx, nil)
	if err != nil {
		fmt.Fprintln(os.Stderr, "Error initializing Gemini's client:", err)
		return subcommands.ExitFailure
	}

	briefing := renderer.ReportMarkdown(report)
	if err := advisor.Run(ctx, client, briefing, os.Stdout, os.Stdin, prompts...); err != nil {
		fmt.Fprintln(os.Stderr, "Assistant failed:", err)
		return subcommands.ExitFailure
	}
	return subcommands.ExitSuccess
}

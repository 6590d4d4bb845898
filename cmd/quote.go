package cmd

import (
	"context"
	"flag"
	"fmt"
	"os"

	"github.com/google/subcommands"
	"github.com/yclin/twreport/fetch"
	"github.com/yclin/twreport/twse"
)

// quoteCmd prints the last intraday price for one or more symbols.
type quoteCmd struct{}

func (*quoteCmd) Name() string     { return "quote" }
func (*quoteCmd) Synopsis() string { return "print the last intraday price for a symbol" }
func (*quoteCmd) Usage() string {
	return `twr quote <code> [<code>...]

  Fetches the latest intraday trade price from the real-time feed. This is
  a convenience lookup; the daily report always uses closing prices.
`
}

func (*quoteCmd) SetFlags(_ *flag.FlagSet) {}

func (c *quoteCmd) Execute(_ context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	if f.NArg() == 0 {
		fmt.Fprint(os.Stderr, c.Usage())
		return subcommands.ExitUsageError
	}
	client := fetch.NewClient()
	status := subcommands.ExitSuccess
	for _, code := range f.Args() {
		val, err := twse.Intraday(client, code)
		if err != nil {
			fmt.Fprintf(os.Stderr, "%s: %v\n", code, err)
			status = subcommands.ExitFailure
			continue
		}
		fmt.Printf("%s\t%.2f\n", code, val)
	}
	return status
}

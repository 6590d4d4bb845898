package cmd

import (
	"context"
	"flag"
	"fmt"
	"os"

	"github.com/google/subcommands"
	"github.com/shopspring/decimal"
	"github.com/yclin/twreport"
)

// addCmd records a single trade on the holdings file.
type addCmd struct{}

func (*addCmd) Name() string     { return "add" }
func (*addCmd) Synopsis() string { return "record a trade and update the average cost" }
func (*addCmd) Usage() string {
	return `twr add <code> <lots> <price>

  Records a trade of <lots> board lots at <price> per share. The position's
  average cost is blended with the trade; a negative <lots> reduces the
  position and re-bases the cost when it crosses zero.

Usage Examples:
$ twr add 2330 2 580.5
`
}

func (*addCmd) SetFlags(_ *flag.FlagSet) {}

func (c *addCmd) Execute(_ context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	if f.NArg() != 3 {
		fmt.Fprint(os.Stderr, c.Usage())
		return subcommands.ExitUsageError
	}
	lots, err := decimal.NewFromString(f.Arg(1))
	if err != nil {
		fmt.Fprintf(os.Stderr, "Invalid lots %q: %v\n", f.Arg(1), err)
		return subcommands.ExitUsageError
	}
	price, err := decimal.NewFromString(f.Arg(2))
	if err != nil {
		fmt.Fprintf(os.Stderr, "Invalid price %q: %v\n", f.Arg(2), err)
		return subcommands.ExitUsageError
	}

	ledger, err := DecodeHoldings()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error loading holdings: %v\n", err)
		return subcommands.ExitFailure
	}
	ledger.Apply(f.Arg(0), twreport.Q(lots), twreport.TWD(price))
	if err := EncodeHoldings(ledger); err != nil {
		fmt.Fprintf(os.Stderr, "Error saving holdings: %v\n", err)
		return subcommands.ExitFailure
	}
	fmt.Println("OK")
	return subcommands.ExitSuccess
}

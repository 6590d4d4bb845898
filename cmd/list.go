package cmd

import (
	"context"
	"flag"
	"fmt"
	"os"

	"github.com/google/subcommands"
)

// listCmd prints the ledger as-is.
type listCmd struct{}

func (*listCmd) Name() string     { return "list" }
func (*listCmd) Synopsis() string { return "list the current holdings" }
func (*listCmd) Usage() string {
	return `twr list

  Prints every position in the holdings file, in ledger order.
`
}

func (*listCmd) SetFlags(_ *flag.FlagSet) {}

func (c *listCmd) Execute(_ context.Context, _ *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	ledger, err := DecodeHoldings()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error loading holdings: %v\n", err)
		return subcommands.ExitFailure
	}
	for pos := range ledger.Positions() {
		fmt.Printf("%s\t%s\t%s\n", pos.Symbol, pos.Lots, pos.AvgCost)
	}
	return subcommands.ExitSuccess
}

package cmd

import (
	"bufio"
	"context"
	"flag"
	"fmt"
	"os"
	"regexp"
	"strings"
	"unicode"

	"github.com/google/subcommands"
	"github.com/shopspring/decimal"
	"github.com/yclin/twreport"
)

// inputCmd enters holdings interactively, one trade per line.
type inputCmd struct{}

func (*inputCmd) Name() string     { return "input" }
func (*inputCmd) Synopsis() string { return "enter holdings interactively, one per line" }
func (*inputCmd) Usage() string {
	return `twr input

  Reads trades from stdin, one per line as "<code> <lots> <price>".
  An empty line finishes the session; the holdings file is written once
  at the end.
`
}

func (*inputCmd) SetFlags(_ *flag.FlagSet) {}

var numberRE = regexp.MustCompile(`[0-9]+(?:\.[0-9]+)?`)

func (c *inputCmd) Execute(_ context.Context, _ *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	ledger, err := DecodeHoldings()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error loading holdings: %v\n", err)
		return subcommands.ExitFailure
	}

	fmt.Println("Enter holdings, one per line: <code> <lots> <price>")
	fmt.Println("Example: 2330 2 580.5")
	fmt.Println("Press Enter on an empty line to finish.")

	count := 0
	scanner := bufio.NewScanner(os.Stdin)
	for {
		fmt.Print("> ")
		if !scanner.Scan() {
			break
		}
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			break
		}
		// Normalize full-width separators and strip non-printable chars,
		// pasted lines are rarely clean.
		line = strings.ReplaceAll(line, "，", ",")
		line = strings.ReplaceAll(line, "　", " ")
		line = strings.Map(func(r rune) rune {
			if unicode.IsPrint(r) {
				return r
			}
			return -1
		}, line)

		parts := numberRE.FindAllString(line, -1)
		if len(parts) < 3 {
			fmt.Println("Invalid format. Use: <code> <lots> <price>")
			continue
		}
		lots, err := decimal.NewFromString(parts[1])
		if err != nil {
			fmt.Println("Invalid number for lots.")
			continue
		}
		price, err := decimal.NewFromString(parts[2])
		if err != nil {
			fmt.Println("Invalid number for price.")
			continue
		}
		ledger.Apply(parts[0], twreport.Q(lots), twreport.TWD(price))
		count++
	}

	if err := EncodeHoldings(ledger); err != nil {
		fmt.Fprintf(os.Stderr, "Error saving holdings: %v\n", err)
		return subcommands.ExitFailure
	}
	fmt.Printf("Saved %d holding(s).\n", count)
	return subcommands.ExitSuccess
}

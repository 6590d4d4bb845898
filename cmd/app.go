// Package cmd implements the CLI application to manage the portfolio.
package cmd

import (
	"errors"
	"flag"
	"io/fs"
	"log"
	"os"
	"path/filepath"

	"github.com/google/subcommands"
	"github.com/yclin/twreport"
)

// as a CLI application, it has a very short lived lifecycle, so it is ok to use global variables.

var holdingsFile = flag.String("holdings-file", filepath.Join("data", "holdings.csv"), "Path to the holdings file (CSV format)")

// Commands lists the subcommands; a main package registers them all and
// executes the user-selected one.
var Commands = []subcommands.Command{
	&addCmd{},
	&inputCmd{},
	&listCmd{},
	&reportCmd{},
	&quoteCmd{},
	&assistCmd{},
}

// DecodeHoldings loads the ledger from the app holdings file, exactly once
// at the start of a run.
func DecodeHoldings() (*twreport.Ledger, error) {
	f, err := os.Open(*holdingsFile)
	if errors.Is(err, fs.ErrNotExist) {
		log.Println("warning, holdings file does not exist, starting with an empty ledger")
		return twreport.NewLedger(), nil
	}
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return twreport.DecodeHoldings(f)
}

// EncodeHoldings saves the whole ledger back to the app holdings file,
// exactly once at the end of a mutating run.
func EncodeHoldings(ledger *twreport.Ledger) error {
	if dir := filepath.Dir(*holdingsFile); dir != "." {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return err
		}
	}
	f, err := os.Create(*holdingsFile)
	if err != nil {
		return err
	}
	defer f.Close()
	return twreport.EncodeHoldings(f, ledger)
}

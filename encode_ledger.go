package twreport

import (
	"encoding/csv"
	"fmt"
	"io"

	"github.com/shopspring/decimal"
)

// The holdings file is a small CSV with a header row, one position per line.
// Only round-trip fidelity of symbol, lots and average cost matters here;
// everything else about persistence is the caller's concern.

var holdingsHeader = []string{"code", "lots", "avg_cost"}

// DecodeHoldings reads a holdings CSV into a ledger, preserving row order.
func DecodeHoldings(r io.Reader) (*Ledger, error) {
	cr := csv.NewReader(r)
	cr.TrimLeadingSpace = true
	records, err := cr.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("cannot read holdings: %w", err)
	}
	ledger := NewLedger()
	if len(records) == 0 {
		return ledger, nil
	}

	// Columns are found by header label, not by fixed position.
	index := make(map[string]int, len(records[0]))
	for i, label := range records[0] {
		index[label] = i
	}
	for _, label := range holdingsHeader {
		if _, ok := index[label]; !ok {
			return nil, fmt.Errorf("holdings header is missing column %q", label)
		}
	}

	for n, row := range records[1:] {
		code := row[index["code"]]
		lots, err := decimal.NewFromString(row[index["lots"]])
		if err != nil {
			return nil, fmt.Errorf("holdings row %d: invalid lots %q: %w", n+2, row[index["lots"]], err)
		}
		avg, err := decimal.NewFromString(row[index["avg_cost"]])
		if err != nil {
			return nil, fmt.Errorf("holdings row %d: invalid avg_cost %q: %w", n+2, row[index["avg_cost"]], err)
		}
		// Loading is not a trade: positions are restored verbatim, the
		// weighted-average rule only applies to Apply.
		p := &Position{Symbol: code, Lots: Q(lots), AvgCost: TWD(avg)}
		ledger.positions = append(ledger.positions, p)
		ledger.index[code] = p
	}
	return ledger, nil
}

// EncodeHoldings writes the ledger as a holdings CSV, in ledger order.
func EncodeHoldings(w io.Writer, ledger *Ledger) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(holdingsHeader); err != nil {
		return err
	}
	for pos := range ledger.Positions() {
		row := []string{pos.Symbol, pos.Lots.value.String(), pos.AvgCost.value.String()}
		if err := cw.Write(row); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}

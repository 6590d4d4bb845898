package twreport

import (
	"errors"
	"log"
	"time"

	"github.com/shopspring/decimal"
)

// SharesPerLot is the number of shares in one board lot.
const SharesPerLot = 1000

// ErrEmptyLedger reports a run with no holdings to value.
var ErrEmptyLedger = errors.New("no holdings in ledger")

// PositionReport is the valuation of a single position for the report date.
//
// When no source could resolve a price the report is degraded: Quote is nil
// and the derived monetary fields are suppressed rather than zeroed, so a
// missing price never looks like a flat P&L.
type PositionReport struct {
	Symbol  string
	Name    string
	Source  Source
	Quote   *Quote // nil when the position is unresolved
	Lots    Quantity
	AvgCost Money

	// Derived fields, meaningful only when Resolved reports true.
	DayPct      Percent
	HasDayPct   bool
	MarketValue Money
	CostBasis   Money
	Unrealized  Money
	DayPNL      Money

	News []NewsItem
}

// Resolved reports whether a closing price was found for this position.
func (r *PositionReport) Resolved() bool { return r.Source != Unresolved }

// Totals is the additive sum over the resolvable positions. Unresolved
// positions contribute nothing to it, they are not zeros.
type Totals struct {
	MarketValue Money
	CostBasis   Money
	Unrealized  Money
	DayPNL      Money
}

// Report is the outcome of valuing the whole ledger on a given date.
type Report struct {
	// Date is the latest trading date actually resolved across all
	// positions, falling back to the requested target date when nothing
	// resolved. It reflects "the last date the market reported", which can
	// lag the date asked for.
	Date        Date
	GeneratedAt time.Time
	Positions   []*PositionReport
	Totals      Totals
}

// BuildReport values every ledger position for the target date.
//
// Per symbol the primary daily source is consulted first; when it yields no
// usable close the once-fetched snapshot is consulted; when both fail the
// position is reported as unresolved and excluded from the totals. One bad
// symbol never aborts the run.
func BuildReport(ledger *Ledger, primary DailySource, snapshot SnapshotSource, news NewsSource, target Date) (*Report, error) {
	if ledger == nil || ledger.Len() == 0 {
		return nil, ErrEmptyLedger
	}

	report := &Report{Date: target, GeneratedAt: time.Now()}
	var latest Date

	for pos := range ledger.Positions() {
		pr := resolvePosition(pos, primary, snapshot, target)
		report.Positions = append(report.Positions, pr)
		if !pr.Resolved() {
			continue
		}

		if !pr.Quote.Date.IsZero() && latest.Before(pr.Quote.Date) {
			latest = pr.Quote.Date
		}

		report.Totals.MarketValue = report.Totals.MarketValue.Add(pr.MarketValue)
		report.Totals.CostBasis = report.Totals.CostBasis.Add(pr.CostBasis)
		report.Totals.Unrealized = report.Totals.Unrealized.Add(pr.Unrealized)
		report.Totals.DayPNL = report.Totals.DayPNL.Add(pr.DayPNL)

		if news != nil {
			items, err := news.Search(pos.Symbol, pr.Name, 5)
			if err != nil {
				log.Printf("%s: news lookup failed (ignored): %v", pos.Symbol, err)
			} else {
				pr.News = items
			}
		}
	}

	if !latest.IsZero() {
		report.Date = latest
	}
	return report, nil
}

// resolvePosition finds the best available quote for one position and
// derives its valuation. Every failure ends in the unresolved state, never
// in an error.
func resolvePosition(pos *Position, primary DailySource, snapshot SnapshotSource, target Date) *PositionReport {
	pr := &PositionReport{Symbol: pos.Symbol, Lots: pos.Lots, AvgCost: pos.AvgCost}

	var quote *Quote
	if primary != nil {
		q, err := primary.Resolve(pos.Symbol, target)
		if err != nil {
			log.Printf("%s: primary source failed, falling back: %v", pos.Symbol, err)
		} else if q != nil && q.Close.Valid {
			quote = q
		}
	}
	if quote == nil && snapshot != nil {
		if q, ok := snapshot.Lookup(pos.Symbol); ok && q.Close.Valid {
			quote = q
		}
	}
	if quote == nil {
		return pr
	}

	pr.Quote = quote
	pr.Source = quote.Source
	pr.Name = quote.Name

	shares := pos.Lots.Mul(Q(SharesPerLot))
	close := M(quote.Close.Decimal, DefaultCurrency)

	// The same share conversion feeds both sides so that
	// Unrealized == MarketValue - CostBasis holds exactly.
	pr.MarketValue = close.Mul(shares)
	pr.CostBasis = pos.AvgCost.Mul(shares)
	pr.Unrealized = pr.MarketValue.Sub(pr.CostBasis)

	change := TWD(0)
	if quote.Change.Valid {
		change = M(quote.Change.Decimal, DefaultCurrency)
	}
	pr.DayPNL = change.Mul(shares)

	// The percentage needs a strictly positive implied previous close:
	// halted or newly listed symbols simply have no day change.
	if quote.Change.Valid && !quote.Change.Decimal.IsZero() {
		prev := quote.Close.Decimal.Sub(quote.Change.Decimal)
		if prev.IsPositive() {
			pct := quote.Change.Decimal.Div(prev).Mul(decimal.NewFromInt(100))
			pr.DayPct = Percent(pct.InexactFloat64())
			pr.HasDayPct = true
		}
	}
	return pr
}

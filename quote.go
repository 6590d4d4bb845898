package twreport

import (
	"strings"

	"github.com/shopspring/decimal"
)

// Source identifies the market feed that resolved a quote.
type Source int

const (
	// Unresolved means no feed could provide a closing price.
	Unresolved Source = iota
	// TWSE is the listed market, queried one month of daily rows per symbol.
	TWSE
	// TPEX is the over-the-counter market, queried as one full-market snapshot per run.
	TPEX
)

func (s Source) String() string {
	switch s {
	case TWSE:
		return "TWSE"
	case TPEX:
		return "TPEx"
	default:
		return "-"
	}
}

// Quote is the resolved closing price of one symbol.
//
// Close and Change carry the exchange's own figures: the change is never
// recomputed from two closes. A field the exchange reported as a placeholder
// (no trade) is carried as an invalid NullDecimal, not as zero.
type Quote struct {
	Symbol string
	Source Source
	Name   string // display name supplied by the feed, may be empty
	Date   Date   // trading date, zero when the feed has no per-row date
	Close  decimal.NullDecimal
	Change decimal.NullDecimal
}

// NewsItem is one headline attached to a position report.
type NewsItem struct {
	Title     string
	Link      string
	Published string
	Origin    string
}

// DailySource resolves the latest known close at or before a target date.
type DailySource interface {
	Resolve(symbol string, target Date) (*Quote, error)
}

// SnapshotSource looks a symbol up in a full-market end-of-day table
// fetched once per run.
type SnapshotSource interface {
	Lookup(symbol string) (*Quote, bool)
}

// NewsSource searches recent headlines for a symbol. Purely decorative:
// absent news never affects resolution or totals.
type NewsSource interface {
	Search(symbol, name string, limit int) ([]NewsItem, error)
}

// ParseReported parses a numeric field the way the exchanges report them:
// comma-grouped digits, and "--", "-" or the empty string as a no-trade
// placeholder. Placeholders and malformed values parse to an invalid
// NullDecimal so they stay distinguishable from a true zero.
func ParseReported(s string) decimal.NullDecimal {
	s = strings.ReplaceAll(strings.TrimSpace(s), ",", "")
	if s == "--" || s == "-" || s == "" {
		return decimal.NullDecimal{}
	}
	d, err := decimal.NewFromString(s)
	if err != nil {
		return decimal.NullDecimal{}
	}
	return decimal.NullDecimal{Decimal: d, Valid: true}
}

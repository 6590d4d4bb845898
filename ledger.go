package twreport

import (
	"iter"
	"slices"
	"strings"
)

// Position is a single holding: a stock code, the number of board lots held,
// and the average cost per share.
type Position struct {
	Symbol  string
	Lots    Quantity
	AvgCost Money
}

// Ledger represents the portfolio holdings.
//
// In a Ledger positions are kept in insertion order: the order in which
// symbols were first mentioned is the order they are reported in. A position
// whose quantity dropped to zero or below stays in the ledger.
type Ledger struct {
	positions []*Position
	index     map[string]*Position // index positions by symbol
}

// NewLedger creates an empty ledger.
func NewLedger() *Ledger {
	return &Ledger{
		positions: make([]*Position, 0),
		index:     make(map[string]*Position),
	}
}

// Position returns the position held for this symbol, or nil if unknown.
func (l *Ledger) Position(symbol string) *Position {
	return l.index[symbol]
}

// Len returns the number of positions in the ledger.
func (l *Ledger) Len() int { return len(l.positions) }

// Positions iterates over all positions in insertion order.
func (l *Ledger) Positions() iter.Seq[*Position] {
	return slices.Values(l.positions)
}

// Apply records a trade of `lots` lots at `price` per share for a symbol.
//
// On the first mention of a symbol a position is created as-is. Afterwards
// the average cost is the quantity-weighted blend of the existing stake and
// the new trade, so the final state depends on the order of the trades, as
// it does in real life. When the resulting quantity is zero or negative the
// position is re-based: the average cost is reset to this trade's price.
func (l *Ledger) Apply(symbol string, lots Quantity, price Money) *Position {
	symbol = strings.TrimSpace(symbol)
	p := l.index[symbol]
	if p == nil {
		p = &Position{Symbol: symbol, Lots: lots, AvgCost: price}
		l.positions = append(l.positions, p)
		l.index[symbol] = p
		return p
	}
	newLots := p.Lots.Add(lots)
	if newLots.IsPositive() {
		p.AvgCost = p.AvgCost.Mul(p.Lots).Add(price.Mul(lots)).Div(newLots)
		p.Lots = newLots
	} else {
		// flat or short transition: no error, the cost basis is re-based.
		p.Lots = newLots
		p.AvgCost = price
	}
	return p
}

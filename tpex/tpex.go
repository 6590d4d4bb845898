// Package tpex fetches the over-the-counter market's latest full-market
// end-of-day snapshot.
package tpex

import (
	"encoding/csv"
	"fmt"
	"net/http"
	"strings"

	"github.com/yclin/twreport"
	"github.com/yclin/twreport/fetch"
)

// DefaultURL is the daily close quotes endpoint, a delimited table with a
// header row covering the whole market in one response.
const DefaultURL = "https://www.tpex.org.tw/web/stock/aftertrading/DAILY_CLOSE_quotes/stk_quote_result.php?l=zh-tw&o=data"

// Column labels looked up in the snapshot header. The column order is not
// stable across time, only the labels are.
const (
	colCode   = "代號"
	colName   = "名稱"
	colClose  = "收盤"
	colChange = "漲跌"
)

// Snapshot is the once-per-run table of latest closes. It is read-only
// after construction and safe to reuse across all lookups of a run.
type Snapshot struct {
	header map[string]int // label to column index
	rows   [][]string
}

// Fetch downloads and parses the snapshot. A table without a header row is
// unusable and reported as an error.
func Fetch(client *http.Client, addr string) (*Snapshot, error) {
	if addr == "" {
		addr = DefaultURL
	}
	raw, err := fetch.Bytes(client, addr)
	if err != nil {
		return nil, fmt.Errorf("tpex snapshot: %w", err)
	}
	return Parse(string(raw))
}

// Parse builds a snapshot from the raw delimited text. The first non-empty
// row is the header.
func Parse(text string) (*Snapshot, error) {
	cr := csv.NewReader(strings.NewReader(text))
	cr.FieldsPerRecord = -1
	records, err := cr.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("tpex snapshot: %w", err)
	}

	s := &Snapshot{}
	for _, r := range records {
		if len(r) == 0 || (len(r) == 1 && strings.TrimSpace(r[0]) == "") {
			continue
		}
		if s.header == nil {
			s.header = make(map[string]int, len(r))
			for i, label := range r {
				s.header[strings.TrimSpace(label)] = i
			}
			continue
		}
		s.rows = append(s.rows, r)
	}
	if s.header == nil {
		return nil, fmt.Errorf("tpex snapshot: no header row")
	}
	return s, nil
}

// Len returns the number of data rows in the snapshot.
func (s *Snapshot) Len() int { return len(s.rows) }

// field returns the row's value for a labelled column, or absent when the
// label is unknown to this snapshot's header. Failing closed here is what
// keeps a reshuffled or truncated table from ever producing a wrong value.
func (s *Snapshot) field(row []string, label string) (string, bool) {
	i, ok := s.header[label]
	if !ok || i >= len(row) {
		return "", false
	}
	return row[i], true
}

// Lookup scans for the row whose code column equals symbol exactly. The
// second value is false when the symbol is not in the table.
func (s *Snapshot) Lookup(symbol string) (*twreport.Quote, bool) {
	if _, ok := s.header[colCode]; !ok {
		return nil, false
	}
	for _, row := range s.rows {
		code, ok := s.field(row, colCode)
		if !ok {
			// a truncated row cannot match, the rest of the table still can
			continue
		}
		if strings.TrimSpace(code) != symbol {
			continue
		}
		q := &twreport.Quote{Symbol: symbol, Source: twreport.TPEX}
		if v, ok := s.field(row, colClose); ok {
			q.Close = twreport.ParseReported(v)
		}
		if v, ok := s.field(row, colChange); ok {
			q.Change = twreport.ParseReported(v)
		}
		if v, ok := s.field(row, colName); ok {
			q.Name = strings.TrimSpace(v)
		}
		return q, true
	}
	return nil, false
}

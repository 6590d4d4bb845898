// Package twse fetches daily closing prices from the listed market's
// monthly time series endpoint.
package twse

import (
	"fmt"
	"net/http"
	"net/url"
	"regexp"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/shopspring/decimal"
	"github.com/yclin/twreport"
	"github.com/yclin/twreport/fetch"
)

// DefaultBaseURL is the monthly daily-trading endpoint.
const DefaultBaseURL = "https://www.twse.com.tw/exchangeReport/STOCK_DAY"

// Row is one daily trading row of the monthly series. Close and Change are
// invalid when the exchange reported a no-trade placeholder for that day.
type Row struct {
	Date   twreport.Date
	Close  decimal.NullDecimal
	Change decimal.NullDecimal
}

// Month is one calendar month of daily rows for a symbol.
type Month struct {
	Name string // display name extracted from the payload title, may be empty
	Rows []Row
}

// Client queries the monthly series. The zero BaseURL means the exchange's
// public endpoint; tests point it at a local server.
type Client struct {
	HTTP    *http.Client
	BaseURL string
}

// NewClient returns a client backed by the shared transport. Closing prices
// do not change within a day, so responses are served from the daily cache.
func NewClient() *Client {
	return &Client{HTTP: fetch.NewDailyCachingClient(), BaseURL: DefaultBaseURL}
}

// Month fetches the calendar month of daily rows containing `on`.
//
// A malformed numeric field degrades to an absent value for that field
// only; a payload whose stat is not OK is an error for the whole month.
func (c *Client) Month(symbol string, on twreport.Date) (*Month, error) {
	addr := fmt.Sprintf("%s?response=json&date=%s01&stockNo=%s",
		c.BaseURL, on.Format("200601"), url.QueryEscape(symbol))

	var payload struct {
		Stat  string     `json:"stat"`
		Title string     `json:"title"`
		Data  [][]string `json:"data"`
	}
	if err := fetch.JSON(c.HTTP, addr, &payload); err != nil {
		return nil, fmt.Errorf("twse %s: %w", symbol, err)
	}
	if payload.Stat != "OK" {
		return nil, fmt.Errorf("twse %s: unexpected stat %q", symbol, payload.Stat)
	}

	m := &Month{Name: extractName(payload.Title, symbol)}
	for _, r := range payload.Data {
		// row layout: date, volume, turnover, open, high, low, close, change, count
		if len(r) < 8 {
			continue
		}
		d, ok := parseROCDate(r[0])
		if !ok {
			continue
		}
		m.Rows = append(m.Rows, Row{
			Date:   d,
			Close:  twreport.ParseReported(r[6]),
			Change: twreport.ParseReported(r[7]),
		})
	}
	return m, nil
}

// Latest returns the row with the maximum date at or before target, plus the
// row just before it as a reference. Nil when no row qualifies.
func (m *Month) Latest(target twreport.Date) (latest, prev *Row) {
	rows := make([]Row, 0, len(m.Rows))
	for _, r := range m.Rows {
		if !r.Date.After(target) {
			rows = append(rows, r)
		}
	}
	if len(rows) == 0 {
		return nil, nil
	}
	sort.Slice(rows, func(i, j int) bool { return rows[i].Date.Before(rows[j].Date) })
	latest = &rows[len(rows)-1]
	if len(rows) >= 2 {
		prev = &rows[len(rows)-2]
	}
	return latest, prev
}

// Resolve returns the latest known quote at or before the target date.
//
// When the target month has no usable row (first days of a month, or a
// month the market has not reported yet) it retries exactly once against
// the previous calendar month. A still-empty window resolves to nil, not
// an error: the symbol is simply not known to this source.
//
// Close and change are the exchange's own figures; the change is never
// recomputed from two closes, the reference row is kept only as a fallback.
func (c *Client) Resolve(symbol string, target twreport.Date) (*twreport.Quote, error) {
	month, err := c.Month(symbol, target)
	if err != nil {
		return nil, err
	}
	latest, _ := month.Latest(target)
	if latest == nil {
		month, err = c.Month(symbol, target.StartOfMonth().AddMonth(-1))
		if err != nil {
			return nil, err
		}
		latest, _ = month.Latest(target)
	}
	if latest == nil {
		return nil, nil
	}
	return &twreport.Quote{
		Symbol: symbol,
		Source: twreport.TWSE,
		Name:   month.Name,
		Date:   latest.Date,
		Close:  latest.Close,
		Change: latest.Change,
	}, nil
}

var rocDateRE = regexp.MustCompile(`^(\d+)/(\d+)/(\d+)`)

// parseROCDate converts a Minguo date like "113/02/01" where the year is
// offset by 1911 from the calendar year.
func parseROCDate(s string) (twreport.Date, bool) {
	m := rocDateRE.FindStringSubmatch(strings.TrimSpace(s))
	if m == nil {
		return twreport.Date{}, false
	}
	y, _ := strconv.Atoi(m[1])
	mo, _ := strconv.Atoi(m[2])
	d, _ := strconv.Atoi(m[3])
	return twreport.NewDate(y+1911, time.Month(mo), d), true
}

// extractName pulls the display name out of a payload title like
// "114年02月 2330 台積電 各日成交資訊". Failure is non-fatal.
func extractName(title, symbol string) string {
	re, err := regexp.Compile(`\b` + regexp.QuoteMeta(symbol) + `\b\s+(.+?)\s+各日成交資訊`)
	if err != nil {
		return ""
	}
	m := re.FindStringSubmatch(title)
	if m == nil {
		return ""
	}
	return strings.TrimSpace(m[1])
}

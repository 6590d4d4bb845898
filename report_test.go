package twreport

import (
	"errors"
	"testing"
	"time"

	"github.com/shopspring/decimal"
)

func nd(f float64) decimal.NullDecimal {
	return decimal.NullDecimal{Decimal: decimal.NewFromFloat(f), Valid: true}
}

type stubDaily struct {
	quotes map[string]*Quote
	err    error
	calls  int
}

func (s *stubDaily) Resolve(symbol string, _ Date) (*Quote, error) {
	s.calls++
	if s.err != nil {
		return nil, s.err
	}
	return s.quotes[symbol], nil
}

type stubSnapshot struct {
	quotes map[string]*Quote
	calls  int
}

func (s *stubSnapshot) Lookup(symbol string) (*Quote, bool) {
	s.calls++
	q, ok := s.quotes[symbol]
	return q, ok
}

type stubNews struct{ calls int }

func (s *stubNews) Search(symbol, name string, limit int) ([]NewsItem, error) {
	s.calls++
	return []NewsItem{{Title: "headline for " + symbol}}, nil
}

// setupLedger creates the three-position ledger used across the tests.
func setupLedger(t *testing.T) *Ledger {
	t.Helper()
	ledger := NewLedger()
	ledger.Apply("1111", Q(2), TWD(100)) // resolves on the primary source
	ledger.Apply("2222", Q(1), TWD(50))  // resolves on the snapshot
	ledger.Apply("3333", Q(3), TWD(10))  // resolves nowhere
	return ledger
}

func TestBuildReport_EmptyLedger(t *testing.T) {
	_, err := BuildReport(NewLedger(), &stubDaily{}, &stubSnapshot{}, nil, MustParse("2025-06-10"))
	if !errors.Is(err, ErrEmptyLedger) {
		t.Errorf("BuildReport() error = %v, want ErrEmptyLedger", err)
	}
}

func TestBuildReport_FallbackOrdering(t *testing.T) {
	ledger := NewLedger()
	ledger.Apply("1111", Q(2), TWD(100))

	primary := &stubDaily{quotes: map[string]*Quote{
		"1111": {Symbol: "1111", Source: TWSE, Date: MustParse("2025-06-10"), Close: nd(120), Change: nd(2)},
	}}
	snapshot := &stubSnapshot{}

	report, err := BuildReport(ledger, primary, snapshot, nil, MustParse("2025-06-10"))
	if err != nil {
		t.Fatalf("BuildReport() failed: %v", err)
	}
	if snapshot.calls != 0 {
		t.Errorf("snapshot consulted %d times, want 0 when the primary source resolves", snapshot.calls)
	}
	if got := report.Positions[0].Source; got != TWSE {
		t.Errorf("Source = %v, want TWSE", got)
	}
}

func TestBuildReport_TotalsExcludeUnresolved(t *testing.T) {
	ledger := setupLedger(t)

	primary := &stubDaily{quotes: map[string]*Quote{
		"1111": {Symbol: "1111", Source: TWSE, Date: MustParse("2025-06-10"), Close: nd(120), Change: nd(2)},
	}}
	snapshot := &stubSnapshot{quotes: map[string]*Quote{
		"2222": {Symbol: "2222", Source: TPEX, Close: nd(60), Change: nd(-1)},
	}}

	report, err := BuildReport(ledger, primary, snapshot, nil, MustParse("2025-06-10"))
	if err != nil {
		t.Fatalf("BuildReport() failed: %v", err)
	}
	if len(report.Positions) != 3 {
		t.Fatalf("got %d positions, want 3 (unresolved ones stay in the output)", len(report.Positions))
	}

	unresolved := report.Positions[2]
	if unresolved.Resolved() {
		t.Error("3333 should be unresolved")
	}
	if unresolved.Quote != nil {
		t.Error("unresolved position must not carry a quote")
	}

	// 1111: 2 lots = 2000 shares at 120 vs cost 100.
	// 2222: 1 lot = 1000 shares at 60 vs cost 50.
	wantMV := TWD(120*2000 + 60*1000)
	wantCB := TWD(100*2000 + 50*1000)
	wantPNL := TWD(20*2000 + 10*1000)
	wantDay := TWD(2*2000 + -1*1000)
	if !report.Totals.MarketValue.Equal(wantMV) {
		t.Errorf("Totals.MarketValue = %s, want %s", report.Totals.MarketValue, wantMV)
	}
	if !report.Totals.CostBasis.Equal(wantCB) {
		t.Errorf("Totals.CostBasis = %s, want %s", report.Totals.CostBasis, wantCB)
	}
	if !report.Totals.Unrealized.Equal(wantPNL) {
		t.Errorf("Totals.Unrealized = %s, want %s", report.Totals.Unrealized, wantPNL)
	}
	if !report.Totals.DayPNL.Equal(wantDay) {
		t.Errorf("Totals.DayPNL = %s, want %s", report.Totals.DayPNL, wantDay)
	}
}

func TestBuildReport_PNLIdentity(t *testing.T) {
	ledger := setupLedger(t)

	primary := &stubDaily{quotes: map[string]*Quote{
		"1111": {Symbol: "1111", Source: TWSE, Date: MustParse("2025-06-10"), Close: nd(117.35), Change: nd(0.15)},
	}}
	snapshot := &stubSnapshot{quotes: map[string]*Quote{
		"2222": {Symbol: "2222", Source: TPEX, Close: nd(61.37), Change: nd(-0.42)},
	}}

	report, err := BuildReport(ledger, primary, snapshot, nil, MustParse("2025-06-10"))
	if err != nil {
		t.Fatalf("BuildReport() failed: %v", err)
	}
	for _, pr := range report.Positions {
		if !pr.Resolved() {
			continue
		}
		want := pr.MarketValue.Sub(pr.CostBasis)
		if !pr.Unrealized.Equal(want) {
			t.Errorf("%s: Unrealized = %s, want MarketValue-CostBasis = %s", pr.Symbol, pr.Unrealized, want)
		}
	}
}

func TestBuildReport_DayChangeGuard(t *testing.T) {
	testCases := []struct {
		name    string
		close   decimal.NullDecimal
		change  decimal.NullDecimal
		wantPct bool
		want    Percent
	}{
		{
			name:    "regular change",
			close:   nd(120),
			change:  nd(2),
			wantPct: true,
			want:    Percent(2.0 / 118.0 * 100),
		},
		{
			name:    "change equals close, implied prior close is zero",
			close:   nd(15),
			change:  nd(15),
			wantPct: false,
		},
		{
			name:    "change absent",
			close:   nd(15),
			wantPct: false,
		},
		{
			name:    "zero change",
			close:   nd(15),
			change:  nd(0),
			wantPct: false,
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			ledger := NewLedger()
			ledger.Apply("1111", Q(1), TWD(10))
			primary := &stubDaily{quotes: map[string]*Quote{
				"1111": {Symbol: "1111", Source: TWSE, Date: MustParse("2025-06-10"), Close: tc.close, Change: tc.change},
			}}
			report, err := BuildReport(ledger, primary, nil, nil, MustParse("2025-06-10"))
			if err != nil {
				t.Fatalf("BuildReport() failed: %v", err)
			}
			pr := report.Positions[0]
			if pr.HasDayPct != tc.wantPct {
				t.Fatalf("HasDayPct = %v, want %v", pr.HasDayPct, tc.wantPct)
			}
			if tc.wantPct && !pr.DayPct.Equal(tc.want) {
				t.Errorf("DayPct = %s, want %s", pr.DayPct, tc.want)
			}
		})
	}
}

func TestBuildReport_AbsentChangeCountsAsZeroDayPNL(t *testing.T) {
	ledger := NewLedger()
	ledger.Apply("1111", Q(2), TWD(100))
	primary := &stubDaily{quotes: map[string]*Quote{
		"1111": {Symbol: "1111", Source: TWSE, Date: MustParse("2025-06-10"), Close: nd(120)},
	}}
	report, err := BuildReport(ledger, primary, nil, nil, MustParse("2025-06-10"))
	if err != nil {
		t.Fatalf("BuildReport() failed: %v", err)
	}
	if !report.Positions[0].DayPNL.IsZero() {
		t.Errorf("DayPNL = %s, want zero for an absent change", report.Positions[0].DayPNL)
	}
	if !report.Totals.MarketValue.Equal(TWD(120 * 2000)) {
		t.Errorf("position with an absent change must still contribute to totals")
	}
}

func TestBuildReport_ReportDate(t *testing.T) {
	target := MustParse("2025-06-10")

	t.Run("max resolved trading date", func(t *testing.T) {
		ledger := NewLedger()
		ledger.Apply("1111", Q(1), TWD(10))
		ledger.Apply("2222", Q(1), TWD(10))
		primary := &stubDaily{quotes: map[string]*Quote{
			"1111": {Symbol: "1111", Source: TWSE, Date: MustParse("2025-06-06"), Close: nd(1)},
			"2222": {Symbol: "2222", Source: TWSE, Date: MustParse("2025-06-09"), Close: nd(1)},
		}}
		report, err := BuildReport(ledger, primary, nil, nil, target)
		if err != nil {
			t.Fatalf("BuildReport() failed: %v", err)
		}
		if want := MustParse("2025-06-09"); report.Date != want {
			t.Errorf("Date = %s, want %s", report.Date, want)
		}
	})

	t.Run("falls back to the target date", func(t *testing.T) {
		ledger := NewLedger()
		ledger.Apply("3333", Q(1), TWD(10))
		report, err := BuildReport(ledger, &stubDaily{}, &stubSnapshot{}, nil, target)
		if err != nil {
			t.Fatalf("BuildReport() failed: %v", err)
		}
		if report.Date != target {
			t.Errorf("Date = %s, want target %s", report.Date, target)
		}
	})
}

func TestBuildReport_PrimaryFailureFallsThrough(t *testing.T) {
	ledger := NewLedger()
	ledger.Apply("2222", Q(1), TWD(50))

	primary := &stubDaily{err: errors.New("boom")}
	snapshot := &stubSnapshot{quotes: map[string]*Quote{
		"2222": {Symbol: "2222", Source: TPEX, Close: nd(60)},
	}}

	report, err := BuildReport(ledger, primary, snapshot, nil, MustParse("2025-06-10"))
	if err != nil {
		t.Fatalf("a failing primary source must not abort the run: %v", err)
	}
	if got := report.Positions[0].Source; got != TPEX {
		t.Errorf("Source = %v, want TPEx after the primary failure", got)
	}
}

func TestBuildReport_NewsOnlyForResolved(t *testing.T) {
	ledger := setupLedger(t)
	primary := &stubDaily{quotes: map[string]*Quote{
		"1111": {Symbol: "1111", Source: TWSE, Date: MustParse("2025-06-10"), Close: nd(120)},
	}}
	snapshot := &stubSnapshot{quotes: map[string]*Quote{
		"2222": {Symbol: "2222", Source: TPEX, Close: nd(60)},
	}}
	news := &stubNews{}

	report, err := BuildReport(ledger, primary, snapshot, news, MustParse("2025-06-10"))
	if err != nil {
		t.Fatalf("BuildReport() failed: %v", err)
	}
	if news.calls != 2 {
		t.Errorf("news consulted %d times, want 2 (only for the resolved positions)", news.calls)
	}
	if len(report.Positions[2].News) != 0 {
		t.Error("unresolved position must not carry news")
	}
	if report.GeneratedAt.IsZero() || time.Since(report.GeneratedAt) > time.Minute {
		t.Error("GeneratedAt should be the time of the run")
	}
}

package tpex

import (
	"testing"

	"github.com/yclin/twreport"
)

const sample = `代號,名稱,收盤,漲跌,開盤,最高,最低
3105,穩懋,152.50,+2.50,150.00,153.00,149.50
4966,譜瑞-KY,1070.00,-10.00,1080.00,1085.00,1065.00
8069,元太,--,--,--,--,--
`

func TestParse_Lookup(t *testing.T) {
	s, err := Parse(sample)
	if err != nil {
		t.Fatalf("Parse() failed: %v", err)
	}
	if s.Len() != 3 {
		t.Fatalf("Len() = %d, want 3", s.Len())
	}

	q, ok := s.Lookup("4966")
	if !ok {
		t.Fatal("Lookup(4966) not found")
	}
	if q.Source != twreport.TPEX {
		t.Errorf("Source = %v, want TPEx", q.Source)
	}
	if q.Name != "譜瑞-KY" {
		t.Errorf("Name = %q, want 譜瑞-KY", q.Name)
	}
	if !q.Close.Valid || q.Close.Decimal.String() != "1070" {
		t.Errorf("Close = %v, want 1070", q.Close)
	}
	if !q.Change.Valid || q.Change.Decimal.String() != "-10" {
		t.Errorf("Change = %v, want -10", q.Change)
	}
}

func TestParse_ReorderedColumns(t *testing.T) {
	// The table's column order changes over time; only the labels are
	// contractual.
	const reordered = `名稱,收盤,代號,漲跌
穩懋,152.50,3105,+2.50
`
	s, err := Parse(reordered)
	if err != nil {
		t.Fatalf("Parse() failed: %v", err)
	}
	q, ok := s.Lookup("3105")
	if !ok {
		t.Fatal("Lookup(3105) not found")
	}
	if q.Name != "穩懋" {
		t.Errorf("Name = %q, want 穩懋", q.Name)
	}
	if !q.Close.Valid || q.Close.Decimal.String() != "152.5" {
		t.Errorf("Close = %v, want 152.5", q.Close)
	}
}

func TestParse_NoHeader(t *testing.T) {
	for _, text := range []string{"", "\n\n"} {
		if _, err := Parse(text); err == nil {
			t.Errorf("Parse(%q) = nil error, want a no-header error", text)
		}
	}
}

func TestLookup_Miss(t *testing.T) {
	s, err := Parse(sample)
	if err != nil {
		t.Fatalf("Parse() failed: %v", err)
	}
	if q, ok := s.Lookup("2330"); ok {
		t.Errorf("Lookup(2330) = %v, want not found: listed symbols are not in this table", q)
	}
}

func TestLookup_PlaceholderClose(t *testing.T) {
	s, err := Parse(sample)
	if err != nil {
		t.Fatalf("Parse() failed: %v", err)
	}
	q, ok := s.Lookup("8069")
	if !ok {
		t.Fatal("Lookup(8069) not found")
	}
	if q.Close.Valid || q.Change.Valid {
		t.Error("placeholder fields must parse to absent, not zero")
	}
}

func TestLookup_SkipsTruncatedRows(t *testing.T) {
	// The code column sits last here, so the short row does not reach it.
	// One bad row must not hide the rest of the table.
	const truncated = `名稱,收盤,漲跌,代號
壞列
穩懋,152.50,+2.50,3105
`
	s, err := Parse(truncated)
	if err != nil {
		t.Fatalf("Parse() failed: %v", err)
	}
	q, ok := s.Lookup("3105")
	if !ok {
		t.Fatal("Lookup(3105) not found, a truncated earlier row hid it")
	}
	if !q.Close.Valid || q.Close.Decimal.String() != "152.5" {
		t.Errorf("Close = %v, want 152.5", q.Close)
	}
}

func TestLookup_MissingCodeColumn(t *testing.T) {
	const noCode = `名稱,收盤,漲跌
穩懋,152.50,+2.50
`
	s, err := Parse(noCode)
	if err != nil {
		t.Fatalf("Parse() failed: %v", err)
	}
	if _, ok := s.Lookup("3105"); ok {
		t.Error("Lookup must fail closed when the code column is missing")
	}
}

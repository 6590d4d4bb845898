package twreport

import "testing"

func TestParseReported(t *testing.T) {
	testCases := []struct {
		in        string
		wantValid bool
		want      string
	}{
		{"985.00", true, "985"},
		{"1,070.00", true, "1070"},
		{" 12.5 ", true, "12.5"},
		{"-0.35", true, "-0.35"},
		{"+1.5", true, "1.5"},
		{"--", false, ""},
		{"-", false, ""},
		{"", false, ""},
		{"X12", false, ""},
	}
	for _, tc := range testCases {
		t.Run(tc.in, func(t *testing.T) {
			got := ParseReported(tc.in)
			if got.Valid != tc.wantValid {
				t.Fatalf("ParseReported(%q).Valid = %v, want %v", tc.in, got.Valid, tc.wantValid)
			}
			if tc.wantValid && got.Decimal.String() != tc.want {
				t.Errorf("ParseReported(%q) = %s, want %s", tc.in, got.Decimal, tc.want)
			}
		})
	}
}

func TestSource_String(t *testing.T) {
	if TWSE.String() != "TWSE" || TPEX.String() != "TPEx" || Unresolved.String() != "-" {
		t.Errorf("unexpected source labels: %s %s %s", TWSE, TPEX, Unresolved)
	}
}

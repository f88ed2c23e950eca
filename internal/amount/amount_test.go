package amount

import (
	"errors"
	"math/big"
	"testing"
)

func base(t *testing.T, s string) *big.Int {
	t.Helper()
	v, ok := new(big.Int).SetString(s, 10)
	if !ok {
		t.Fatalf("bad test literal %q", s)
	}
	return v
}

func TestToBaseUnits(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"0", "0"},
		{"1", "1000000000000000000"},
		{"100", "100000000000000000000"},
		{"40.5", "40500000000000000000"},
		{".25", "250000000000000000"},
		{" 7 ", "7000000000000000000"},
		{"0.000000000000000001", "1"},
		{"123456789012345678901234567890", "123456789012345678901234567890000000000000000000"},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := ToBaseUnits(tt.in)
			if err != nil {
				t.Fatalf("ToBaseUnits(%q) error: %v", tt.in, err)
			}
			if got.Cmp(base(t, tt.want)) != 0 {
				t.Errorf("ToBaseUnits(%q) = %s, want %s", tt.in, got, tt.want)
			}
		})
	}
}

func TestToBaseUnitsRejects(t *testing.T) {
	for _, in := range []string{"", "-1", "1e18", "abc", "1.", ".", "1.2.3", "0.0000000000000000001", "+5", "1,5"} {
		_, err := ToBaseUnits(in)
		if !errors.Is(err, ErrInvalidAmount) {
			t.Errorf("ToBaseUnits(%q) error = %v, want ErrInvalidAmount", in, err)
		}
	}
}

func TestRoundTripAtFullPrecision(t *testing.T) {
	for _, s := range []string{
		"0",
		"1",
		"1.5",
		"40",
		"0.000000000000000001",
		"99.999999999999999999",
		"123456789012345678901234567890.123456789012345678",
	} {
		v, err := ToBaseUnits(s)
		if err != nil {
			t.Fatalf("ToBaseUnits(%q): %v", s, err)
		}
		if got := FromBaseUnits(v, Decimals); got != s {
			t.Errorf("round trip %q -> %s -> %q", s, v, got)
		}
	}
}

func TestRoundTripCanonicalizes(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"1.50", "1.5"},
		{".5", "0.5"},
		{"007", "7"},
		{"0.000", "0"},
		{"10.0", "10"},
		{" 2 ", "2"},
	}

	for _, tt := range tests {
		v, err := ToBaseUnits(tt.in)
		if err != nil {
			t.Fatalf("ToBaseUnits(%q): %v", tt.in, err)
		}
		got := FromBaseUnits(v, Decimals)
		if got != tt.want {
			t.Errorf("round trip %q = %q, want %q", tt.in, got, tt.want)
		}
		again, err := ToBaseUnits(got)
		if err != nil || again.Cmp(v) != 0 {
			t.Errorf("canonical %q does not parse back to %s", got, v)
		}
	}
}

func TestFromBaseUnitsTruncates(t *testing.T) {
	v := base(t, "1999999999999999999") // 1.999999999999999999
	if got := FromBaseUnits(v, 2); got != "1.99" {
		t.Errorf("FromBaseUnits(_, 2) = %q, want 1.99", got)
	}
	if got := FromBaseUnits(v, 0); got != "1" {
		t.Errorf("FromBaseUnits(_, 0) = %q, want 1", got)
	}
	if got := FromBaseUnits(nil, 2); got != "0" {
		t.Errorf("FromBaseUnits(nil) = %q, want 0", got)
	}
	neg := base(t, "-2500000000000000000")
	if got := FromBaseUnits(neg, 18); got != "-2.5" {
		t.Errorf("FromBaseUnits(negative) = %q, want -2.5", got)
	}
}

func TestDisplay(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"0", "0.00"},
		{"40000000000000000000", "40.00"},
		{"1234500000000000000", "1.23"},
		{"1235000000000000000", "1.24"},
	}
	for _, tt := range tests {
		if got := Display(base(t, tt.in)); got != tt.want {
			t.Errorf("Display(%s) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

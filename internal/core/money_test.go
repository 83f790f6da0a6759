package core

import (
	"encoding/json"
	"errors"
	"testing"
)

func TestParseDecimalToCents(t *testing.T) {
	cases := []struct {
		in  string
		out int64
		ok  bool
	}{
		{"1", 100, true},
		{"1.0", 100, true},
		{"1.23", 123, true},
		{"1,23", 123, true},
		{"0.01", 1, true},
		{"1.005", 101, true}, // half-up rounding
		{"12.344", 1234, true},
		{" 2.50 ", 250, true},
		{"250000", 25000000, true},
		{"-1", 0, false},
		{"+1", 0, false},
		{"1e3", 0, false},
		{"0", 0, false},
		{"0.004", 0, false}, // rounds to zero
		{"abc", 0, false},
		{"1.2.3", 0, false},
		{"", 0, false},
	}
	for _, tc := range cases {
		got, err := ParseDecimalToCents(tc.in)
		if tc.ok {
			if err != nil || got != tc.out {
				t.Fatalf("%q expected %d, got %d (err=%v)", tc.in, tc.out, got, err)
			}
		} else {
			if !errors.Is(err, ErrInvalidAmount) {
				t.Fatalf("%q expected ErrInvalidAmount, got %v", tc.in, err)
			}
		}
	}
}

func TestMoneyJSON(t *testing.T) {
	cases := []struct {
		m    Money
		json string
	}{
		{Money{Cents: 100}, "1"},
		{Money{Cents: 150}, "1.5"},
		{Money{Cents: 1}, "0.01"},
		{Money{Cents: -250}, "-2.5"},
	}
	for _, tc := range cases {
		b, err := json.Marshal(tc.m)
		if err != nil || string(b) != tc.json {
			t.Fatalf("marshal %d: got %s err=%v", tc.m.Cents, b, err)
		}
		var back Money
		if err := json.Unmarshal(b, &back); err != nil || back != tc.m {
			t.Fatalf("unmarshal %s: got %d err=%v", b, back.Cents, err)
		}
	}

	var m Money
	if err := json.Unmarshal([]byte(`"42.10"`), &m); err != nil || m.Cents != 4210 {
		t.Fatalf("string amount: got %d err=%v", m.Cents, err)
	}
	if err := json.Unmarshal([]byte(`"lots"`), &m); err == nil {
		t.Fatalf("expected error for non-numeric amount")
	}
}

func TestMoneyUnmarshalOutOfRange(t *testing.T) {
	for _, in := range []string{"1e30", "-1e30", "92233720368547758.08"} {
		var m Money
		err := json.Unmarshal([]byte(in), &m)
		if !errors.Is(err, ErrInvalidAmount) {
			t.Fatalf("%s: expected ErrInvalidAmount, got cents=%d err=%v", in, m.Cents, err)
		}
	}
	var m Money
	if err := json.Unmarshal([]byte("92233720368547758.07"), &m); err != nil || m.Cents != 9223372036854775807 {
		t.Fatalf("max amount: got %d err=%v", m.Cents, err)
	}
}

func TestMoneyArithmetic(t *testing.T) {
	a, b := Money{Cents: 1000}, Money{Cents: 250}
	if a.Add(b).Cents != 1250 || a.Sub(b).Cents != 750 {
		t.Fatalf("unexpected arithmetic")
	}
	if b.Sub(a).Cents != -750 {
		t.Fatalf("expected negative difference")
	}
	if got := a.Decimal().String(); got != "10" {
		t.Fatalf("expected 10 rupees, got %s", got)
	}
}

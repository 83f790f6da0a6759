package core

import (
	"testing"
	"time"
)

func TestMonthOf(t *testing.T) {
	ts := time.Date(2026, time.March, 9, 23, 59, 0, 0, time.UTC)
	if got := MonthOf(ts); got != "2026-03" {
		t.Fatalf("MonthOf=%s", got)
	}
}

func TestParseMonthKey(t *testing.T) {
	cases := []struct {
		in string
		ok bool
	}{
		{"2026-10", true},
		{"1999-01", true},
		{"2026-13", false},
		{"2026-1", false},
		{"26-10", false},
		{"", false},
		{"2026-10-01", false},
	}
	for _, tc := range cases {
		k, err := ParseMonthKey(tc.in)
		if tc.ok && (err != nil || string(k) != tc.in) {
			t.Fatalf("%q expected ok, got %q err=%v", tc.in, k, err)
		}
		if !tc.ok && err == nil {
			t.Fatalf("%q expected error", tc.in)
		}
	}
}

func TestMonthKeyDaysIn(t *testing.T) {
	cases := map[MonthKey]int{
		"2024-02": 29,
		"2025-02": 28,
		"1900-02": 28,
		"2000-02": 29,
		"2026-04": 30,
		"2026-12": 31,
		"bogus":   0,
	}
	for k, want := range cases {
		if got := k.DaysIn(); got != want {
			t.Fatalf("%s: DaysIn=%d want %d", k, got, want)
		}
	}
}

func TestMonthKeyNavigation(t *testing.T) {
	k := MonthKey("2026-01")
	if k.Prev() != "2025-12" || k.Next() != "2026-02" {
		t.Fatalf("prev=%s next=%s", k.Prev(), k.Next())
	}
	if k.Year() != 2026 || k.Month() != time.January {
		t.Fatalf("year=%d month=%v", k.Year(), k.Month())
	}
	if k.Label() != "January 2026" {
		t.Fatalf("label=%q", k.Label())
	}
	if !k.Valid() || MonthKey("2026-00").Valid() {
		t.Fatalf("validity check failed")
	}
}

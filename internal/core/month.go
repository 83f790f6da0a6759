package core

import (
	"errors"
	"fmt"
	"time"
)

const monthLayout = "2006-01"

// MonthKey is a zero-padded "YYYY-MM" grouping key. Lexicographic order is
// chronological order.
type MonthKey string

var ErrInvalidMonthKey = errors.New("invalid month key")

// MonthOf returns the key of the month t falls in, in t's own location.
func MonthOf(t time.Time) MonthKey {
	return MonthKey(t.Format(monthLayout))
}

// ParseMonthKey validates s as "YYYY-MM".
func ParseMonthKey(s string) (MonthKey, error) {
	t, err := time.Parse(monthLayout, s)
	if err != nil || len(s) != len(monthLayout) {
		return "", fmt.Errorf("%w: %q", ErrInvalidMonthKey, s)
	}
	return MonthOf(t), nil
}

func (k MonthKey) String() string { return string(k) }

func (k MonthKey) first() time.Time {
	t, err := time.Parse(monthLayout, string(k))
	if err != nil {
		return time.Time{}
	}
	return t
}

// Valid reports whether k parses as a month key.
func (k MonthKey) Valid() bool {
	_, err := ParseMonthKey(string(k))
	return err == nil
}

func (k MonthKey) Year() int {
	return k.first().Year()
}

func (k MonthKey) Month() time.Month {
	return k.first().Month()
}

// DaysIn returns the number of calendar days in the month, leap years included.
func (k MonthKey) DaysIn() int {
	t := k.first()
	if t.IsZero() {
		return 0
	}
	return time.Date(t.Year(), t.Month()+1, 0, 0, 0, 0, 0, time.UTC).Day()
}

// Label renders the key for humans, e.g. "October 2026".
func (k MonthKey) Label() string {
	t := k.first()
	if t.IsZero() {
		return string(k)
	}
	return t.Format("January 2006")
}

func (k MonthKey) Prev() MonthKey {
	return MonthOf(k.first().AddDate(0, -1, 0))
}

func (k MonthKey) Next() MonthKey {
	return MonthOf(k.first().AddDate(0, 1, 0))
}

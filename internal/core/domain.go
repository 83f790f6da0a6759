package core

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"
	"unicode/utf8"
)

const (
	Needs ExpenseType = "needs"
	Wants ExpenseType = "wants"
)

const dateLayout = "2006-01-02"

// MaxDescriptionLength bounds descriptions, counted in characters.
const MaxDescriptionLength = 200

type (
	ExpenseType string

	Date struct {
		time.Time
	}

	Money struct {
		Cents int64
	}

	// Entry holds the fields shared by every tracked record.
	Entry struct {
		ID          string   `json:"id"`
		Amount      Money    `json:"amount"`
		Description string   `json:"description"`
		Date        Date     `json:"date"`
		Month       MonthKey `json:"month"`
	}

	Expense struct {
		Entry
		Category string      `json:"category"`
		Type     ExpenseType `json:"type"`
	}

	Income struct {
		Entry
		Source string `json:"source"`
	}

	Investment struct {
		Entry
		Type string `json:"type"` // investment vehicle, unrelated to ExpenseType
	}

	// Collections is a point-in-time copy of the three record collections,
	// newest record first.
	Collections struct {
		Expenses    []Expense    `json:"expenses"`
		Incomes     []Income     `json:"income"`
		Investments []Investment `json:"investments"`
	}
)

// Record is implemented by Expense, Income and Investment. Group returns the
// classifier used for breakdowns: category, source or vehicle.
type Record interface {
	Base() Entry
	Group() string
}

var (
	ErrInvalidDate        = errors.New("date cannot be zero")
	ErrInvalidAmount      = errors.New("invalid amount")
	ErrMissingField       = errors.New("missing required field")
	ErrInvalidExpenseType = errors.New("invalid expense type")
	ErrMonthMismatch      = errors.New("month does not match date")
	ErrDescriptionTooLong = errors.New("description too long (max 200 characters)")
)

// FieldError lists the required fields that were empty on submission.
type FieldError struct {
	Fields []string
}

func (e *FieldError) Error() string {
	return fmt.Sprintf("%s: %s", ErrMissingField, strings.Join(e.Fields, ", "))
}

func (e *FieldError) Unwrap() error {
	return ErrMissingField
}

func (t ExpenseType) IsValid() bool {
	return t == Needs || t == Wants
}

func (d Date) Validate() error {
	if d.IsZero() {
		return ErrInvalidDate
	}
	return nil
}

// NewDate creates a new Date from year, month, day
func NewDate(year, month, day int) Date {
	return Date{Time: time.Date(year, time.Month(month), day, 0, 0, 0, 0, time.UTC)}
}

// DateOf truncates t to its calendar date in t's own location.
func DateOf(t time.Time) Date {
	return NewDate(t.Year(), int(t.Month()), t.Day())
}

func (d Date) String() string {
	return d.Format(dateLayout)
}

func (d Date) MarshalJSON() ([]byte, error) {
	return json.Marshal(d.Format(dateLayout))
}

// UnmarshalJSON accepts "YYYY-MM-DD" and full RFC 3339 timestamps.
func (d *Date) UnmarshalJSON(b []byte) error {
	var s string
	if err := json.Unmarshal(b, &s); err != nil {
		return fmt.Errorf("date: %w", err)
	}
	if len(s) > len(dateLayout) {
		s = s[:len(dateLayout)]
	}
	t, err := time.Parse(dateLayout, s)
	if err != nil {
		return fmt.Errorf("date %q: %w", s, err)
	}
	d.Time = t
	return nil
}

func (m Money) Validate() error {
	if m.Cents <= 0 {
		return ErrInvalidAmount
	}
	return nil
}

func (e Entry) Base() Entry { return e }

func (e Entry) Validate() error {
	if strings.TrimSpace(e.ID) == "" {
		return &FieldError{Fields: []string{"id"}}
	}
	if err := e.Date.Validate(); err != nil {
		return err
	}
	if len(strings.TrimSpace(e.Description)) == 0 {
		return &FieldError{Fields: []string{"description"}}
	}
	if utf8.RuneCountInString(e.Description) > MaxDescriptionLength {
		return ErrDescriptionTooLong
	}
	if err := e.Amount.Validate(); err != nil {
		return err
	}
	if e.Month != MonthOf(e.Date.Time) {
		return ErrMonthMismatch
	}
	return nil
}

func (e Expense) Group() string { return e.Category }

func (e Expense) Validate() error {
	if err := e.Entry.Validate(); err != nil {
		return err
	}
	if strings.TrimSpace(e.Category) == "" {
		return &FieldError{Fields: []string{"category"}}
	}
	if !e.Type.IsValid() {
		return ErrInvalidExpenseType
	}
	return nil
}

func (i Income) Group() string { return i.Source }

func (i Income) Validate() error {
	if err := i.Entry.Validate(); err != nil {
		return err
	}
	if strings.TrimSpace(i.Source) == "" {
		return &FieldError{Fields: []string{"source"}}
	}
	return nil
}

func (i Investment) Group() string { return i.Type }

func (i Investment) Validate() error {
	if err := i.Entry.Validate(); err != nil {
		return err
	}
	if strings.TrimSpace(i.Type) == "" {
		return &FieldError{Fields: []string{"type"}}
	}
	return nil
}

// Clone returns a copy whose slices do not alias c.
func (c Collections) Clone() Collections {
	return Collections{
		Expenses:    append([]Expense(nil), c.Expenses...),
		Incomes:     append([]Income(nil), c.Incomes...),
		Investments: append([]Investment(nil), c.Investments...),
	}
}

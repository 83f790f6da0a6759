package core

import (
	"errors"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
)

var validate = validator.New()

// ExpenseInput carries an expense form submission before validation.
type ExpenseInput struct {
	Amount      string `json:"amount" validate:"required"`
	Description string `json:"description" validate:"required,max=200"`
	Category    string `json:"category" validate:"required"`
	Type        string `json:"type" validate:"required"`
}

type IncomeInput struct {
	Amount      string `json:"amount" validate:"required"`
	Description string `json:"description" validate:"required,max=200"`
	Source      string `json:"source" validate:"required"`
}

type InvestmentInput struct {
	Amount      string `json:"amount" validate:"required"`
	Description string `json:"description" validate:"required,max=200"`
	Type        string `json:"type" validate:"required"`
}

// Normalize trims every field and strips control characters.
func (in ExpenseInput) Normalize() ExpenseInput {
	return ExpenseInput{
		Amount:      clean(in.Amount),
		Description: clean(in.Description),
		Category:    clean(in.Category),
		Type:        strings.ToLower(clean(in.Type)),
	}
}

func (in IncomeInput) Normalize() IncomeInput {
	return IncomeInput{
		Amount:      clean(in.Amount),
		Description: clean(in.Description),
		Source:      clean(in.Source),
	}
}

func (in InvestmentInput) Normalize() InvestmentInput {
	return InvestmentInput{
		Amount:      clean(in.Amount),
		Description: clean(in.Description),
		Type:        clean(in.Type),
	}
}

// Validate reports missing fields first, then the amount, then the type.
func (in ExpenseInput) Validate() error {
	n := in.Normalize()
	if err := checkStruct(n); err != nil {
		return err
	}
	if _, err := ParseDecimalToCents(n.Amount); err != nil {
		return err
	}
	if !ExpenseType(n.Type).IsValid() {
		return ErrInvalidExpenseType
	}
	return nil
}

func (in IncomeInput) Validate() error {
	n := in.Normalize()
	if err := checkStruct(n); err != nil {
		return err
	}
	_, err := ParseDecimalToCents(n.Amount)
	return err
}

func (in InvestmentInput) Validate() error {
	n := in.Normalize()
	if err := checkStruct(n); err != nil {
		return err
	}
	_, err := ParseDecimalToCents(n.Amount)
	return err
}

// Build validates the input, stamps it with id and the calendar date of now,
// and checks the resulting record.
func (in ExpenseInput) Build(id string, now time.Time) (Expense, error) {
	if err := in.Validate(); err != nil {
		return Expense{}, err
	}
	n := in.Normalize()
	cents, _ := ParseDecimalToCents(n.Amount)
	e := Expense{
		Entry:    newEntry(id, cents, n.Description, now),
		Category: n.Category,
		Type:     ExpenseType(n.Type),
	}
	if err := e.Validate(); err != nil {
		return Expense{}, err
	}
	return e, nil
}

func (in IncomeInput) Build(id string, now time.Time) (Income, error) {
	if err := in.Validate(); err != nil {
		return Income{}, err
	}
	n := in.Normalize()
	cents, _ := ParseDecimalToCents(n.Amount)
	inc := Income{
		Entry:  newEntry(id, cents, n.Description, now),
		Source: n.Source,
	}
	if err := inc.Validate(); err != nil {
		return Income{}, err
	}
	return inc, nil
}

func (in InvestmentInput) Build(id string, now time.Time) (Investment, error) {
	if err := in.Validate(); err != nil {
		return Investment{}, err
	}
	n := in.Normalize()
	cents, _ := ParseDecimalToCents(n.Amount)
	inv := Investment{
		Entry: newEntry(id, cents, n.Description, now),
		Type:  n.Type,
	}
	if err := inv.Validate(); err != nil {
		return Investment{}, err
	}
	return inv, nil
}

func newEntry(id string, cents int64, desc string, now time.Time) Entry {
	d := DateOf(now)
	return Entry{
		ID:          id,
		Amount:      Money{Cents: cents},
		Description: desc,
		Date:        d,
		Month:       MonthOf(d.Time),
	}
}

// checkStruct runs the tag rules and folds empty fields into a FieldError.
func checkStruct(v any) error {
	err := validate.Struct(v)
	if err == nil {
		return nil
	}
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return err
	}
	var missing []string
	for _, fe := range verrs {
		switch fe.Tag() {
		case "required":
			missing = append(missing, strings.ToLower(fe.Field()))
		case "max":
			return ErrDescriptionTooLong
		default:
			return err
		}
	}
	return &FieldError{Fields: missing}
}

func clean(s string) string {
	s = strings.Map(func(r rune) rune {
		if r < 32 && r != '\t' {
			return -1
		}
		return r
	}, s)
	return strings.TrimSpace(s)
}

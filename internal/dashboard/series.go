package dashboard

import (
	"sort"

	"github.com/shopspring/decimal"

	"paisa/internal/core"
)

// MonthlyData holds the per-month totals. Savings is always
// Income - Expenses - Investments.
type MonthlyData struct {
	Month       core.MonthKey `json:"month"`
	Income      core.Money    `json:"income"`
	Expenses    core.Money    `json:"expenses"`
	Investments core.Money    `json:"investments"`
	Savings     core.Money    `json:"savings"`
}

func (m *MonthlyData) settle() {
	m.Savings = m.Income.Sub(m.Expenses).Sub(m.Investments)
}

// SavingsRate returns savings as a percentage of income, or 0 without income.
func (m MonthlyData) SavingsRate() float64 {
	if m.Income.Cents == 0 {
		return 0
	}
	return decimal.NewFromInt(m.Savings.Cents).
		Mul(decimal.NewFromInt(100)).
		Div(decimal.NewFromInt(m.Income.Cents)).
		Round(1).
		InexactFloat64()
}

// BuildSeries groups all records by month in a single pass over each
// collection and returns one entry per month present, sorted ascending.
func BuildSeries(incomes []core.Income, expenses []core.Expense, investments []core.Investment) []MonthlyData {
	buckets := make(map[core.MonthKey]*MonthlyData)
	bucket := func(k core.MonthKey) *MonthlyData {
		b, ok := buckets[k]
		if !ok {
			b = &MonthlyData{Month: k}
			buckets[k] = b
		}
		return b
	}
	for _, r := range incomes {
		b := bucket(r.Month)
		b.Income = b.Income.Add(r.Amount)
	}
	for _, r := range expenses {
		b := bucket(r.Month)
		b.Expenses = b.Expenses.Add(r.Amount)
	}
	for _, r := range investments {
		b := bucket(r.Month)
		b.Investments = b.Investments.Add(r.Amount)
	}

	out := make([]MonthlyData, 0, len(buckets))
	for _, b := range buckets {
		b.settle()
		out = append(out, *b)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Month < out[j].Month })
	return out
}

// Summarize returns the totals for a single month.
func Summarize(c core.Collections, month core.MonthKey) MonthlyData {
	m := MonthlyData{
		Month:       month,
		Income:      Total(FilterByMonth(c.Incomes, month)),
		Expenses:    Total(FilterByMonth(c.Expenses, month)),
		Investments: Total(FilterByMonth(c.Investments, month)),
	}
	m.settle()
	return m
}

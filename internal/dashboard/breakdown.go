package dashboard

import (
	"sort"

	"github.com/shopspring/decimal"

	"paisa/internal/core"
)

// CategoryTotal is one row of a breakdown.
type CategoryTotal struct {
	Name       string     `json:"name"`
	Amount     core.Money `json:"amount"`
	Percentage float64    `json:"percentage"`
}

// SpendingSplit totals the needs and wants partitions.
type SpendingSplit struct {
	Needs core.Money `json:"needs"`
	Wants core.Money `json:"wants"`
	Total core.Money `json:"total"`
}

// Breakdown groups items by classifier and sums each group. Rows are ordered
// by amount descending; equal amounts keep the order in which the classifier
// was first seen. Percentages are all zero when the grand total is zero.
func Breakdown[T core.Record](items []T) []CategoryTotal {
	index := make(map[string]int)
	rows := make([]CategoryTotal, 0)
	var total core.Money
	for _, it := range items {
		name := it.Group()
		amt := it.Base().Amount
		total = total.Add(amt)
		i, ok := index[name]
		if !ok {
			i = len(rows)
			index[name] = i
			rows = append(rows, CategoryTotal{Name: name})
		}
		rows[i].Amount = rows[i].Amount.Add(amt)
	}

	sort.SliceStable(rows, func(a, b int) bool {
		return rows[a].Amount.Cents > rows[b].Amount.Cents
	})

	if total.Cents != 0 {
		grand := decimal.NewFromInt(total.Cents)
		for i := range rows {
			rows[i].Percentage = decimal.NewFromInt(rows[i].Amount.Cents).
				Mul(decimal.NewFromInt(100)).
				Div(grand).
				InexactFloat64()
		}
	}
	return rows
}

// SplitByType totals expenses per needs/wants partition.
func SplitByType(expenses []core.Expense) SpendingSplit {
	var s SpendingSplit
	for _, e := range expenses {
		switch e.Type {
		case core.Needs:
			s.Needs = s.Needs.Add(e.Amount)
		case core.Wants:
			s.Wants = s.Wants.Add(e.Amount)
		}
		s.Total = s.Total.Add(e.Amount)
	}
	return s
}

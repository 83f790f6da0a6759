// Package dashboard derives every aggregate view from the record collections.
// All functions are pure; callers recompute views after each mutation or
// month change.
package dashboard

import "paisa/internal/core"

// FilterByMonth returns the records whose month key equals month exactly.
// Input order is preserved.
func FilterByMonth[T core.Record](items []T, month core.MonthKey) []T {
	out := make([]T, 0, len(items))
	for _, it := range items {
		if it.Base().Month == month {
			out = append(out, it)
		}
	}
	return out
}

// FilterByType returns the expenses of one needs/wants partition.
func FilterByType(expenses []core.Expense, t core.ExpenseType) []core.Expense {
	out := make([]core.Expense, 0, len(expenses))
	for _, e := range expenses {
		if e.Type == t {
			out = append(out, e)
		}
	}
	return out
}

// Total sums the amounts of items.
func Total[T core.Record](items []T) core.Money {
	var sum core.Money
	for _, it := range items {
		sum = sum.Add(it.Base().Amount)
	}
	return sum
}

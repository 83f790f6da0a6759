package dashboard

import (
	"time"

	"paisa/internal/core"
)

// MonthView bundles every derived view shown for a selected month.
type MonthView struct {
	Month    core.MonthKey   `json:"month"`
	Current  bool            `json:"current"`
	Summary  MonthlyData     `json:"summary"`
	Split    SpendingSplit   `json:"split"`
	Needs    []CategoryTotal `json:"needs"`
	Wants    []CategoryTotal `json:"wants"`
	Sources  []CategoryTotal `json:"income_sources"`
	Vehicles []CategoryTotal `json:"investment_types"`

	Expenses    []core.Expense    `json:"expenses"`
	Incomes     []core.Income     `json:"income"`
	Investments []core.Investment `json:"investments"`

	Projection Projection    `json:"projection"`
	Series     []MonthlyData `json:"series"`
}

// Compose derives the view of month from c as seen at now.
func Compose(c core.Collections, month core.MonthKey, now time.Time) MonthView {
	expenses := FilterByMonth(c.Expenses, month)
	incomes := FilterByMonth(c.Incomes, month)
	investments := FilterByMonth(c.Investments, month)

	summary := Summarize(c, month)
	return MonthView{
		Month:       month,
		Current:     core.MonthOf(now) == month,
		Summary:     summary,
		Split:       SplitByType(expenses),
		Needs:       Breakdown(FilterByType(expenses, core.Needs)),
		Wants:       Breakdown(FilterByType(expenses, core.Wants)),
		Sources:     Breakdown(incomes),
		Vehicles:    Breakdown(investments),
		Expenses:    expenses,
		Incomes:     incomes,
		Investments: investments,
		Projection:  Project(summary, now),
		Series:      BuildSeries(c.Incomes, c.Expenses, c.Investments),
	}
}

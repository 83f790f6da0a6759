package dashboard

import (
	"time"

	"github.com/shopspring/decimal"

	"paisa/internal/core"
)

// Decimal amounts serialize as JSON numbers, matching core.Money.
func init() {
	decimal.MarshalJSONWithoutQuotes = true
}

// Outlook classifies projected savings.
type Outlook string

const (
	OutlookSave      Outlook = "save"
	OutlookOverspend Outlook = "overspend"
	OutlookBreakEven Outlook = "break_even"
)

// Message is the short display text for the outlook.
func (o Outlook) Message() string {
	switch o {
	case OutlookSave:
		return "On track to save"
	case OutlookOverspend:
		return "On track to overspend"
	default:
		return "Break even"
	}
}

// Projection extrapolates month-end totals from the run rate so far.
// Amounts are in currency units; projected amounts are rounded to cents.
type Projection struct {
	Month         core.MonthKey `json:"month"`
	Historical    bool          `json:"historical"`
	DaysElapsed   int           `json:"days_elapsed"`
	DaysInMonth   int           `json:"days_in_month"`
	DaysRemaining int           `json:"days_remaining"`

	DailyIncome      decimal.Decimal `json:"daily_income"`
	DailyExpenses    decimal.Decimal `json:"daily_expenses"`
	DailyInvestments decimal.Decimal `json:"daily_investments"`

	ProjectedIncome      decimal.Decimal `json:"projected_income"`
	ProjectedExpenses    decimal.Decimal `json:"projected_expenses"`
	ProjectedInvestments decimal.Decimal `json:"projected_investments"`
	ProjectedSavings     decimal.Decimal `json:"projected_savings"`

	Outlook Outlook `json:"outlook"`
}

// Project extrapolates totals for the month they belong to, as seen at now.
//
// For the month containing now, each metric is scaled by daysInMonth /
// daysElapsed where daysElapsed is now's day of month. Any other month is
// reported as final: projections equal the actual totals and no days remain.
// Investments are subtracted from projected savings in both cases.
func Project(totals MonthlyData, now time.Time) Projection {
	days := totals.Month.DaysIn()
	p := Projection{
		Month:       totals.Month,
		DaysInMonth: days,
	}

	elapsed := days
	if core.MonthOf(now) == totals.Month {
		elapsed = now.Day()
	} else {
		p.Historical = true
	}
	if elapsed < 1 {
		// unparsable month key; nothing to extrapolate
		elapsed = 1
	}
	p.DaysElapsed = elapsed
	p.DaysRemaining = days - elapsed
	if p.DaysRemaining < 0 {
		p.DaysRemaining = 0
	}

	e := decimal.NewFromInt(int64(elapsed))
	d := decimal.NewFromInt(int64(days))
	project := func(m core.Money) (daily, projected decimal.Decimal) {
		amt := m.Decimal()
		if p.Historical {
			return amt.Div(e), amt
		}
		return amt.Div(e), amt.Mul(d).Div(e).Round(2)
	}

	p.DailyIncome, p.ProjectedIncome = project(totals.Income)
	p.DailyExpenses, p.ProjectedExpenses = project(totals.Expenses)
	p.DailyInvestments, p.ProjectedInvestments = project(totals.Investments)
	p.ProjectedSavings = p.ProjectedIncome.Sub(p.ProjectedExpenses).Sub(p.ProjectedInvestments)

	switch p.ProjectedSavings.Sign() {
	case 1:
		p.Outlook = OutlookSave
	case -1:
		p.Outlook = OutlookOverspend
	default:
		p.Outlook = OutlookBreakEven
	}
	return p
}

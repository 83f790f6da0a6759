package http

import (
	"net/http"

	"paisa/internal/dashboard"
)

// handleAPIMonth returns the full month view as JSON.
func (s *Server) handleAPIMonth(w http.ResponseWriter, r *http.Request) {
	if resp := RequireMethod(r, http.MethodGet); resp != nil {
		resp.Write(w)
		return
	}
	month := ParseMonthParam(r, s.ledger.Now())
	NewHTMXResponse().BodyJSON(s.monthView(month)).Write(w)
}

// handleAPISeries returns every month with records, oldest first, for charts.
func (s *Server) handleAPISeries(w http.ResponseWriter, r *http.Request) {
	if resp := RequireMethod(r, http.MethodGet); resp != nil {
		resp.Write(w)
		return
	}
	snap := s.ledger.Snapshot()
	series := dashboard.BuildSeries(snap.Incomes, snap.Expenses, snap.Investments)

	type point struct {
		dashboard.MonthlyData
		Label       string  `json:"label"`
		SavingsRate float64 `json:"savings_rate"`
	}
	out := make([]point, 0, len(series))
	for _, m := range series {
		out = append(out, point{MonthlyData: m, Label: m.Month.Label(), SavingsRate: m.SavingsRate()})
	}
	NewHTMXResponse().BodyJSON(out).Write(w)
}

func (s *Server) handleAPIProjection(w http.ResponseWriter, r *http.Request) {
	if resp := RequireMethod(r, http.MethodGet); resp != nil {
		resp.Write(w)
		return
	}
	month := ParseMonthParam(r, s.ledger.Now())
	totals := dashboard.Summarize(s.ledger.Snapshot(), month)
	p := dashboard.Project(totals, s.ledger.Now())

	NewHTMXResponse().BodyJSON(struct {
		dashboard.Projection
		Message string `json:"message"`
	}{p, p.Outlook.Message()}).Write(w)
}

func (s *Server) handleAPITaxonomy(w http.ResponseWriter, r *http.Request) {
	if resp := RequireMethod(r, http.MethodGet); resp != nil {
		resp.Write(w)
		return
	}
	NewHTMXResponse().BodyJSON(s.taxonomy).Write(w)
}

package http

import (
	"context"
	"net/http"
	"strings"

	"paisa/internal/core"
	"paisa/internal/log"
	"paisa/internal/services"
)

func (s *Server) handleCreateExpense(w http.ResponseWriter, r *http.Request) {
	p, resp := s.readSubmission(r)
	if resp != nil {
		resp.Negotiate(r).Write(w)
		return
	}
	in := core.ExpenseInput{
		Amount:      p.Get("amount"),
		Description: p.Get("description"),
		Category:    p.Get("category"),
		Type:        p.Get("type"),
	}
	rec, _, err := s.ledger.AddExpense(r.Context(), in)
	s.respondCreated(w, r, services.KindExpense, rec, err)
}

func (s *Server) handleCreateIncome(w http.ResponseWriter, r *http.Request) {
	p, resp := s.readSubmission(r)
	if resp != nil {
		resp.Negotiate(r).Write(w)
		return
	}
	in := core.IncomeInput{
		Amount:      p.Get("amount"),
		Description: p.Get("description"),
		Source:      p.Get("source"),
	}
	rec, _, err := s.ledger.AddIncome(r.Context(), in)
	s.respondCreated(w, r, services.KindIncome, rec, err)
}

func (s *Server) handleCreateInvestment(w http.ResponseWriter, r *http.Request) {
	p, resp := s.readSubmission(r)
	if resp != nil {
		resp.Negotiate(r).Write(w)
		return
	}
	in := core.InvestmentInput{
		Amount:      p.Get("amount"),
		Description: p.Get("description"),
		Type:        p.Get("type"),
	}
	rec, _, err := s.ledger.AddInvestment(r.Context(), in)
	s.respondCreated(w, r, services.KindInvestment, rec, err)
}

func (s *Server) readSubmission(r *http.Request) (*RequestBodyParser, *HTMXResponseBuilder) {
	if resp := RequirePOST(r); resp != nil {
		return nil, resp
	}
	return ParseBodyOrFail(r)
}

// respondCreated answers a create request. JSON callers get the record
// back; HTMX callers get a confirmation fragment and refresh triggers.
func (s *Server) respondCreated(w http.ResponseWriter, r *http.Request, kind string, rec core.Record, err error) {
	if err != nil {
		s.respondLedgerError(w, r, kind, err)
		return
	}
	s.countCreated()
	e := rec.Base()

	resp := NewHTMXResponse().
		TriggerRecordCreated(kind, e.Month).
		TriggerOverviewRefresh(e.Month).
		TriggerFormReset()
	if wantsJSON(r) {
		resp.BodyJSON(map[string]interface{}{"kind": kind, "record": rec}).Write(w)
		return
	}
	resp.TriggerSuccessNotification("Saved " + e.Description + " (" + formatRupees(e.Amount.Cents) + ")").
		BodyHTML(`<div class="success">Saved</div>`).
		Write(w)
}

func (s *Server) handleDeleteExpense(w http.ResponseWriter, r *http.Request) {
	s.handleDelete(w, r, services.KindExpense, s.ledger.DeleteExpense)
}

func (s *Server) handleDeleteIncome(w http.ResponseWriter, r *http.Request) {
	s.handleDelete(w, r, services.KindIncome, s.ledger.DeleteIncome)
}

func (s *Server) handleDeleteInvestment(w http.ResponseWriter, r *http.Request) {
	s.handleDelete(w, r, services.KindInvestment, s.ledger.DeleteInvestment)
}

type deleteFunc func(ctx context.Context, id string) (bool, core.Collections, error)

// handleDelete removes a record by id. Unknown ids succeed without effect.
func (s *Server) handleDelete(w http.ResponseWriter, r *http.Request, kind string, del deleteFunc) {
	if resp := RequireDeleteOrPOST(r); resp != nil {
		resp.Write(w)
		return
	}
	p, resp := ParseBodyOrFail(r)
	if resp != nil {
		resp.Negotiate(r).Write(w)
		return
	}
	id := RecordID(r, p)
	if id == "" {
		s.countRejected()
		UnprocessableEntityError("Missing record id").Negotiate(r).Write(w)
		return
	}

	removed, _, err := del(r.Context(), id)
	if err != nil {
		s.respondLedgerError(w, r, kind, err)
		return
	}
	if removed {
		s.countDeleted()
	}

	month := ParseMonthParam(r, s.ledger.Now())
	out := NewHTMXResponse().
		TriggerRecordDeleted(kind, id).
		TriggerOverviewRefresh(month)
	if wantsJSON(r) {
		out.BodyJSON(map[string]interface{}{"kind": kind, "id": id, "removed": removed}).Write(w)
		return
	}
	out.Write(w)
}

func (s *Server) respondLedgerError(w http.ResponseWriter, r *http.Request, kind string, err error) {
	resp := DomainError(err)
	if resp.statusCode >= http.StatusInternalServerError {
		log.FromContext(r.Context()).ErrorContext(r.Context(), "Ledger operation failed",
			log.FieldError, err,
			log.FieldRecordKind, kind,
			log.FieldPath, r.URL.Path)
	} else {
		s.countRejected()
		log.FromContext(r.Context()).InfoContext(r.Context(), "Submission rejected",
			log.FieldError, err,
			log.FieldRecordKind, kind)
	}
	resp.Negotiate(r).Write(w)
}

// wantsJSON reports whether the caller is an API client rather than HTMX.
func wantsJSON(r *http.Request) bool {
	if r.Header.Get("HX-Request") != "" {
		return false
	}
	return strings.Contains(r.Header.Get("Accept"), "application/json") ||
		strings.Contains(r.Header.Get("Content-Type"), "application/json")
}

// Package services holds the Ledger, the single owner of the record
// collections. Every mutation rewrites the affected collection in the
// configured storage.KV before it becomes visible.
package services

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"paisa/internal/core"
	"paisa/internal/dashboard"
	"paisa/internal/log"
	"paisa/internal/storage"
)

// Record kinds, used in logs and routes.
const (
	KindExpense    = "expense"
	KindIncome     = "income"
	KindInvestment = "investment"
)

// Ledger serializes access to the three collections.
type Ledger struct {
	mu      sync.Mutex
	kv      storage.KV
	data    core.Collections
	version uint64

	now    func() time.Time
	newID  func() string
	loc    *time.Location
	logger *log.Logger
	events *log.StructuredLogger
}

// Option configures a Ledger.
type Option func(*Ledger)

// WithClock overrides the time source used for record dates and projections.
func WithClock(now func() time.Time) Option {
	return func(l *Ledger) { l.now = now }
}

// WithIDGenerator overrides record id generation.
func WithIDGenerator(gen func() string) Option {
	return func(l *Ledger) { l.newID = gen }
}

// WithLocation sets the calendar "today" is taken from.
func WithLocation(loc *time.Location) Option {
	return func(l *Ledger) {
		if loc != nil {
			l.loc = loc
		}
	}
}

func WithLogger(logger *log.Logger) Option {
	return func(l *Ledger) {
		if logger != nil {
			l.logger = logger
		}
	}
}

// NewLedger returns an empty ledger backed by kv. Call Load to read
// previously persisted collections.
func NewLedger(kv storage.KV, opts ...Option) *Ledger {
	l := &Ledger{
		kv:     kv,
		now:    time.Now,
		newID:  newRecordID,
		loc:    time.Local,
		logger: log.Discard(),
	}
	for _, opt := range opts {
		opt(l)
	}
	l.logger = l.logger.WithComponent(log.ComponentLedger)
	l.events = log.NewStructuredLogger(l.logger)
	return l
}

// newRecordID returns a time-ordered UUID, falling back to a random one.
func newRecordID() string {
	id, err := uuid.NewV7()
	if err != nil {
		return uuid.NewString()
	}
	return id.String()
}

// Now returns the current time in the ledger's location.
func (l *Ledger) Now() time.Time {
	return l.now().In(l.loc)
}

// CurrentMonth returns the month key of Now.
func (l *Ledger) CurrentMonth() core.MonthKey {
	return core.MonthOf(l.Now())
}

// Load replaces the in-memory collections with the persisted ones. Absent
// keys load as empty collections; undecodable values are an error and leave
// the ledger unchanged.
func (l *Ledger) Load(ctx context.Context) error {
	var loaded core.Collections
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		loaded.Expenses, err = storage.LoadCollection[core.Expense](gctx, l.kv, storage.KeyExpenses)
		return err
	})
	g.Go(func() error {
		var err error
		loaded.Incomes, err = storage.LoadCollection[core.Income](gctx, l.kv, storage.KeyIncome)
		return err
	})
	g.Go(func() error {
		var err error
		loaded.Investments, err = storage.LoadCollection[core.Investment](gctx, l.kv, storage.KeyInvestments)
		return err
	})
	if err := g.Wait(); err != nil {
		l.events.LogError(ctx, "Failed to load collections", err, log.ComponentLedger, log.OpLoad, nil)
		return fmt.Errorf("load ledger: %w", err)
	}

	l.mu.Lock()
	l.data = loaded
	l.version++
	l.mu.Unlock()

	l.logger.InfoContext(ctx, "Ledger loaded",
		"expenses", len(loaded.Expenses),
		"income", len(loaded.Incomes),
		"investments", len(loaded.Investments))
	return nil
}

// Snapshot returns a copy of all collections, newest record first.
func (l *Ledger) Snapshot() core.Collections {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.data.Clone()
}

// Version increases on every successful load or mutation. Views derived at
// the same version and on the same day are identical.
func (l *Ledger) Version() uint64 {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.version
}

// View derives the dashboard for month as of Now.
func (l *Ledger) View(month core.MonthKey) dashboard.MonthView {
	return dashboard.Compose(l.Snapshot(), month, l.Now())
}

func (l *Ledger) AddExpense(ctx context.Context, in core.ExpenseInput) (core.Expense, core.Collections, error) {
	return add(ctx, l, KindExpense, storage.KeyExpenses, &l.data.Expenses, in.Build)
}

func (l *Ledger) AddIncome(ctx context.Context, in core.IncomeInput) (core.Income, core.Collections, error) {
	return add(ctx, l, KindIncome, storage.KeyIncome, &l.data.Incomes, in.Build)
}

func (l *Ledger) AddInvestment(ctx context.Context, in core.InvestmentInput) (core.Investment, core.Collections, error) {
	return add(ctx, l, KindInvestment, storage.KeyInvestments, &l.data.Investments, in.Build)
}

// DeleteExpense removes the expense with id. An unknown id reports
// removed=false and writes nothing.
func (l *Ledger) DeleteExpense(ctx context.Context, id string) (bool, core.Collections, error) {
	return remove(ctx, l, KindExpense, storage.KeyExpenses, &l.data.Expenses, id)
}

func (l *Ledger) DeleteIncome(ctx context.Context, id string) (bool, core.Collections, error) {
	return remove(ctx, l, KindIncome, storage.KeyIncome, &l.data.Incomes, id)
}

func (l *Ledger) DeleteInvestment(ctx context.Context, id string) (bool, core.Collections, error) {
	return remove(ctx, l, KindInvestment, storage.KeyInvestments, &l.data.Investments, id)
}

// add builds a record, prepends it to *slot and persists the collection.
// slot must point into l.data; it is only touched while l.mu is held.
func add[T core.Record](ctx context.Context, l *Ledger, kind, key string, slot *[]T, build func(string, time.Time) (T, error)) (T, core.Collections, error) {
	rec, err := build(l.newID(), l.Now())
	if err != nil {
		var zero T
		return zero, core.Collections{}, err
	}

	l.mu.Lock()
	defer l.mu.Unlock()

	prev := *slot
	next := make([]T, 0, len(prev)+1)
	next = append(next, rec)
	next = append(next, prev...)

	if err := storage.SaveCollection(ctx, l.kv, key, next); err != nil {
		l.events.LogError(ctx, "Failed to persist new record", err, log.ComponentLedger, log.OpPersist,
			log.NewFields().WithRecord(kind, rec.Base().ID, rec.Base().Amount.Cents, rec.Group(), rec.Base().Month.String()))
		var zero T
		return zero, core.Collections{}, fmt.Errorf("add %s: %w", kind, err)
	}
	*slot = next
	l.version++

	base := rec.Base()
	l.events.LogRecordCreated(ctx, kind, base.ID, base.Amount.Cents, rec.Group(), base.Month.String())
	return rec, l.data.Clone(), nil
}

// remove drops the record with id from *slot and persists the collection.
func remove[T core.Record](ctx context.Context, l *Ledger, kind, key string, slot *[]T, id string) (bool, core.Collections, error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	prev := *slot
	idx := -1
	for i, rec := range prev {
		if rec.Base().ID == id {
			idx = i
			break
		}
	}
	if idx < 0 {
		l.events.LogRecordDeleted(ctx, kind, id, false)
		return false, l.data.Clone(), nil
	}

	next := make([]T, 0, len(prev)-1)
	next = append(next, prev[:idx]...)
	next = append(next, prev[idx+1:]...)

	if err := storage.SaveCollection(ctx, l.kv, key, next); err != nil {
		l.events.LogError(ctx, "Failed to persist deletion", err, log.ComponentLedger, log.OpPersist,
			log.NewFields().WithRecord(kind, id, 0, "", ""))
		return false, core.Collections{}, fmt.Errorf("delete %s: %w", kind, err)
	}
	*slot = next
	l.version++

	l.events.LogRecordDeleted(ctx, kind, id, true)
	return true, l.data.Clone(), nil
}

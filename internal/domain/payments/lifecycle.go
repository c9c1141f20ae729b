package payments

import (
	"context"
	"log/slog"
	"time"
)

// Store is the slice of the entity store the lifecycle controller needs.
// UpdateFields has partial-update semantics: only the supplied columns
// change. Implementations broadcast a fresh snapshot to realtime
// subscribers after every successful write.
type Store interface {
	ListByProject(ctx context.Context, projectID string) ([]Payment, error)
	ListAll(ctx context.Context) ([]Payment, error)
	GetByID(ctx context.Context, id string) (*Payment, error)
	Create(ctx context.Context, p *Payment) error
	UpdateFields(ctx context.Context, id string, fields map[string]interface{}) error
	Delete(ctx context.Context, id string) error
}

// Controller drives the payment lifecycle: creation with an engine-derived
// initial status, the authoritative mark-as-paid transition, and the
// periodic sweep that keeps persisted statuses in step with wall-clock time.
type Controller struct {
	store    Store
	interval time.Duration
	now      func() time.Time
}

// Option configures a Controller.
type Option func(*Controller)

// WithInterval overrides the sweep cadence (default one minute).
func WithInterval(d time.Duration) Option {
	return func(c *Controller) { c.interval = d }
}

// WithClock overrides the clock, for tests.
func WithClock(now func() time.Time) Option {
	return func(c *Controller) { c.now = now }
}

func NewController(store Store, opts ...Option) *Controller {
	c := &Controller{
		store:    store,
		interval: time.Minute,
		now:      time.Now,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

func (c *Controller) Store() Store { return c.store }

// RefreshAll recomputes the status of every record against a single now.
// Pure: the input slice is not touched, DueDate and PaidAt are never
// changed. Records the engine rejects keep their stored status.
func RefreshAll(records []Payment, now time.Time) []Payment {
	out := make([]Payment, len(records))
	for i, p := range records {
		status, err := EvaluateStatus(p, now)
		if err == nil {
			p.Status = status
		}
		out[i] = p
	}
	return out
}

// Create validates the payment, derives the due date for recurring
// payments, and stamps the initial engine-computed status before persisting.
func (c *Controller) Create(ctx context.Context, p *Payment) error {
	now := c.now()
	if p.IsRecurring && p.RecurringDay != nil && p.DueDate == "" {
		p.DueDate = InitialDueDate(now, *p.RecurringDay)
	}
	if err := p.Validate(); err != nil {
		return err
	}
	status, err := EvaluateStatus(*p, now)
	if err != nil {
		return err
	}
	p.Status = status
	return c.store.Create(ctx, p)
}

// MarkPaid is the authoritative *->paid transition. For recurring payments
// it also advances DueDate to the next cycle so later evaluations measure
// against the upcoming obligation.
//
// Guarded: if the record already evaluates to paid for the current cycle the
// call is a no-op, so a double click or a webhook retry cannot re-advance
// DueDate or overwrite PaidAt. On a store error the returned record is the
// input, unchanged; nothing is applied locally until the write confirms.
func (c *Controller) MarkPaid(ctx context.Context, p Payment, now time.Time) (Payment, error) {
	current, err := EvaluateStatus(p, now)
	if err != nil {
		return p, err
	}
	if current == StatusPaid {
		return p, nil
	}

	paidAt := now.UnixMilli()
	fields := map[string]interface{}{
		"status":  StatusPaid,
		"paid_at": paidAt,
	}
	var nextDue string
	if p.IsRecurring && p.RecurringDay != nil {
		nextDue = NextDueDate(now, *p.RecurringDay)
		fields["due_date"] = nextDue
	}

	if err := c.store.UpdateFields(ctx, p.ID, fields); err != nil {
		return p, err
	}

	p.Status = StatusPaid
	p.PaidAt = &paidAt
	if nextDue != "" {
		p.DueDate = nextDue
	}
	return p, nil
}

// Run sweeps all payments on a fixed interval until ctx is canceled.
func (c *Controller) Run(ctx context.Context) {
	ticker := time.NewTicker(c.interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if _, err := c.Sweep(ctx, c.now()); err != nil {
				// Background refresh fails silently; next tick retries.
				slog.Warn("payment sweep skipped", "error", err)
			}
		}
	}
}

// Sweep recomputes every payment against one captured now and persists only
// the records whose stored status went stale. Each write re-broadcasts
// through the store, so subscribers see pending->overdue and paid->overdue
// transitions without any user action.
func (c *Controller) Sweep(ctx context.Context, now time.Time) (int, error) {
	records, err := c.store.ListAll(ctx)
	if err != nil {
		return 0, err
	}

	updated := 0
	for _, p := range records {
		status, err := EvaluateStatus(p, now)
		if err != nil {
			slog.Warn("skipping malformed payment", "id", p.ID, "error", err)
			continue
		}
		if status == p.Status {
			continue
		}
		if err := c.store.UpdateFields(ctx, p.ID, map[string]interface{}{"status": status}); err != nil {
			slog.Warn("failed to persist payment status", "id", p.ID, "error", err)
			continue
		}
		updated++
	}
	return updated, nil
}

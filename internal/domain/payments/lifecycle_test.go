package payments

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"
)

// fakeStore is an in-memory Store that can be told to fail writes.
type fakeStore struct {
	records  map[string]Payment
	writes   int
	failWith error
}

func newFakeStore(records ...Payment) *fakeStore {
	s := &fakeStore{records: make(map[string]Payment)}
	for _, p := range records {
		s.records[p.ID] = p
	}
	return s
}

func (s *fakeStore) ListByProject(ctx context.Context, projectID string) ([]Payment, error) {
	var out []Payment
	for _, p := range s.records {
		if p.ProjectID == projectID {
			out = append(out, p)
		}
	}
	return out, nil
}

func (s *fakeStore) ListAll(ctx context.Context) ([]Payment, error) {
	if s.failWith != nil {
		return nil, s.failWith
	}
	var out []Payment
	for _, p := range s.records {
		out = append(out, p)
	}
	return out, nil
}

func (s *fakeStore) GetByID(ctx context.Context, id string) (*Payment, error) {
	p, ok := s.records[id]
	if !ok {
		return nil, errors.New("not found")
	}
	return &p, nil
}

func (s *fakeStore) Create(ctx context.Context, p *Payment) error {
	if s.failWith != nil {
		return s.failWith
	}
	if p.ID == "" {
		p.ID = "generated"
	}
	s.records[p.ID] = *p
	s.writes++
	return nil
}

func (s *fakeStore) UpdateFields(ctx context.Context, id string, fields map[string]interface{}) error {
	if s.failWith != nil {
		return s.failWith
	}
	p, ok := s.records[id]
	if !ok {
		return errors.New("not found")
	}
	for k, v := range fields {
		switch k {
		case "status":
			p.Status = v.(Status)
		case "paid_at":
			ms := v.(int64)
			p.PaidAt = &ms
		case "due_date":
			p.DueDate = v.(string)
		}
	}
	s.records[id] = p
	s.writes++
	return nil
}

func (s *fakeStore) Delete(ctx context.Context, id string) error {
	delete(s.records, id)
	return nil
}

func TestMarkPaidNonRecurring(t *testing.T) {
	store := newFakeStore(Payment{ID: "p1", Title: "Sprint 1", DueDate: "2024-05-30"})
	ctrl := NewController(store)
	now := date(2024, time.June, 2)

	got, err := ctrl.MarkPaid(context.Background(), store.records["p1"], now)
	if err != nil {
		t.Fatalf("MarkPaid: %v", err)
	}
	if got.Status != StatusPaid {
		t.Errorf("status: got %q, want %q", got.Status, StatusPaid)
	}
	if got.PaidAt == nil || *got.PaidAt != now.UnixMilli() {
		t.Errorf("paidAt not stamped with now")
	}
	if got.DueDate != "2024-05-30" {
		t.Errorf("dueDate changed for non-recurring payment: %q", got.DueDate)
	}
	if store.records["p1"].Status != StatusPaid {
		t.Errorf("store not updated")
	}
}

func TestMarkPaidRecurringAdvancesDueDate(t *testing.T) {
	store := newFakeStore(Payment{
		ID: "p1", Title: "Server rent", DueDate: "2024-03-04",
		IsRecurring: true, RecurringDay: intPtr(4),
	})
	ctrl := NewController(store)
	now := date(2024, time.March, 4)

	got, err := ctrl.MarkPaid(context.Background(), store.records["p1"], now)
	if err != nil {
		t.Fatalf("MarkPaid: %v", err)
	}
	if got.Status != StatusPaid {
		t.Errorf("status: got %q", got.Status)
	}
	if got.DueDate != "2024-04-04" {
		t.Errorf("dueDate: got %q, want 2024-04-04", got.DueDate)
	}

	// Status evolves exactly as the cycle dictates from here.
	if s := mustEvaluate(t, got, date(2024, time.March, 10)); s != StatusPaid {
		t.Errorf("2024-03-10: got %q, want paid", s)
	}
	if s := mustEvaluate(t, got, date(2024, time.April, 4)); s != StatusOverdue {
		t.Errorf("2024-04-04: got %q, want overdue", s)
	}
}

func TestMarkPaidAlwaysLandsInLaterMonth(t *testing.T) {
	for month := time.January; month <= time.December; month++ {
		store := newFakeStore(Payment{
			ID: "p1", Title: "Retainer", DueDate: "2024-01-15",
			IsRecurring: true, RecurringDay: intPtr(15),
		})
		ctrl := NewController(store)
		now := date(2024, month, 20)

		got, err := ctrl.MarkPaid(context.Background(), store.records["p1"], now)
		if err != nil {
			t.Fatalf("%s: MarkPaid: %v", month, err)
		}
		due, err := time.Parse(DateLayout, got.DueDate)
		if err != nil {
			t.Fatalf("%s: bad due date %q", month, got.DueDate)
		}
		if due.Year()*12+int(due.Month()) <= now.Year()*12+int(now.Month()) {
			t.Errorf("%s: due date %q not in a later month", month, got.DueDate)
		}
	}
}

func TestMarkPaidDecemberRollsYear(t *testing.T) {
	store := newFakeStore(Payment{
		ID: "p1", Title: "Hosting", DueDate: "2024-12-04",
		IsRecurring: true, RecurringDay: intPtr(4),
	})
	ctrl := NewController(store)

	got, err := ctrl.MarkPaid(context.Background(), store.records["p1"], date(2024, time.December, 4))
	if err != nil {
		t.Fatalf("MarkPaid: %v", err)
	}
	if got.DueDate != "2025-01-04" {
		t.Errorf("dueDate: got %q, want 2025-01-04", got.DueDate)
	}
}

func TestMarkPaidAlreadyPaidIsNoop(t *testing.T) {
	store := newFakeStore(Payment{
		ID: "p1", Title: "Server rent", DueDate: "2024-03-04",
		IsRecurring: true, RecurringDay: intPtr(4),
	})
	ctrl := NewController(store)
	now := date(2024, time.March, 4)

	first, err := ctrl.MarkPaid(context.Background(), store.records["p1"], now)
	if err != nil {
		t.Fatalf("first MarkPaid: %v", err)
	}
	writesAfterFirst := store.writes

	second, err := ctrl.MarkPaid(context.Background(), first, now.Add(2*time.Second))
	if err != nil {
		t.Fatalf("second MarkPaid: %v", err)
	}
	if store.writes != writesAfterFirst {
		t.Errorf("second call wrote to the store")
	}
	if second.DueDate != first.DueDate {
		t.Errorf("dueDate re-advanced: %q -> %q", first.DueDate, second.DueDate)
	}
	if *second.PaidAt != *first.PaidAt {
		t.Errorf("paidAt overwritten")
	}
}

func TestMarkPaidStoreFailureLeavesRecordUntouched(t *testing.T) {
	original := Payment{ID: "p1", Title: "Hosting", DueDate: "2024-03-04",
		IsRecurring: true, RecurringDay: intPtr(4)}
	store := newFakeStore(original)
	store.failWith = errors.New("connection refused")
	ctrl := NewController(store)

	got, err := ctrl.MarkPaid(context.Background(), original, date(2024, time.March, 4))
	if err == nil {
		t.Fatal("expected error from failing store")
	}
	if got.Status != original.Status || got.DueDate != original.DueDate || got.PaidAt != nil {
		t.Errorf("record mutated despite failed write: %+v", got)
	}
}

func TestControllerCreateRecurring(t *testing.T) {
	store := newFakeStore()
	now := date(2024, time.March, 2)
	ctrl := NewController(store, WithClock(func() time.Time { return now }))

	p := Payment{ProjectID: "proj", Title: "Hosting", IsRecurring: true, RecurringDay: intPtr(4)}
	if err := ctrl.Create(context.Background(), &p); err != nil {
		t.Fatalf("Create: %v", err)
	}
	if p.DueDate != "2024-03-04" {
		t.Errorf("dueDate: got %q, want 2024-03-04", p.DueDate)
	}
	if p.Status != StatusPending {
		t.Errorf("status: got %q, want pending", p.Status)
	}
}

func TestControllerCreateRejectsInvalid(t *testing.T) {
	ctrl := NewController(newFakeStore())

	err := ctrl.Create(context.Background(), &Payment{ProjectID: "proj", Title: "x", IsRecurring: true})
	if !errors.Is(err, ErrInvalidRecurringDay) {
		t.Errorf("got %v, want ErrInvalidRecurringDay", err)
	}

	err = ctrl.Create(context.Background(), &Payment{ProjectID: "proj", DueDate: "2024-05-01"})
	if !errors.Is(err, ErrTitleRequired) {
		t.Errorf("got %v, want ErrTitleRequired", err)
	}
}

func TestRefreshAllIsPure(t *testing.T) {
	paidAt := date(2024, time.February, 10).UnixMilli()
	in := []Payment{
		{ID: "a", Title: "a", DueDate: "2024-05-30", Status: StatusPending},
		{ID: "b", Title: "b", DueDate: "2024-03-04", Status: StatusPaid, PaidAt: &paidAt},
	}
	now := date(2024, time.June, 1)

	out := RefreshAll(in, now)

	if in[0].Status != StatusPending {
		t.Errorf("input slice mutated")
	}
	if out[0].Status != StatusOverdue {
		t.Errorf("a: got %q, want overdue", out[0].Status)
	}
	if out[1].Status != StatusPaid {
		t.Errorf("b: got %q, want paid", out[1].Status)
	}
	if out[0].DueDate != in[0].DueDate || out[1].PaidAt != in[1].PaidAt {
		t.Errorf("RefreshAll touched dueDate or paidAt")
	}
}

func TestRefreshAllKeepsStoredStatusOnMalformedRecord(t *testing.T) {
	in := []Payment{{ID: "a", Title: "a", DueDate: "garbage", Status: StatusPending}}
	out := RefreshAll(in, date(2024, time.June, 1))
	if out[0].Status != StatusPending {
		t.Errorf("malformed record defaulted to %q", out[0].Status)
	}
}

func TestSweepPersistsOnlyStaleStatuses(t *testing.T) {
	store := newFakeStore(
		Payment{ID: "stale", Title: "a", DueDate: "2024-05-01", Status: StatusPending},
		Payment{ID: "fresh", Title: "b", DueDate: "2030-01-01", Status: StatusPending},
		Payment{ID: "broken", Title: "c", DueDate: "not-a-date", Status: StatusPending},
	)
	ctrl := NewController(store)

	updated, err := ctrl.Sweep(context.Background(), date(2024, time.June, 1))
	if err != nil {
		t.Fatalf("Sweep: %v", err)
	}
	if updated != 1 {
		t.Errorf("updated: got %d, want 1", updated)
	}
	if store.records["stale"].Status != StatusOverdue {
		t.Errorf("stale record not refreshed")
	}
	if store.records["fresh"].Status != StatusPending {
		t.Errorf("fresh record rewritten")
	}
	if store.records["broken"].Status != StatusPending {
		t.Errorf("broken record should keep its stored status")
	}
}

func TestSweepRolloverReturnsPaidToOverdue(t *testing.T) {
	paidAt := date(2024, time.March, 4).UnixMilli()
	store := newFakeStore(Payment{
		ID: "p1", Title: "Server rent", DueDate: "2024-04-04", Status: StatusPaid,
		IsRecurring: true, RecurringDay: intPtr(4), PaidAt: &paidAt,
	})
	ctrl := NewController(store)

	if _, err := ctrl.Sweep(context.Background(), date(2024, time.April, 4)); err != nil {
		t.Fatalf("Sweep: %v", err)
	}
	if got := store.records["p1"].Status; got != StatusOverdue {
		t.Errorf("got %q, want overdue after cycle rollover", got)
	}
}

func TestRunStopsOnCancel(t *testing.T) {
	store := newFakeStore()
	ctrl := NewController(store, WithInterval(5*time.Millisecond))

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		ctrl.Run(ctx)
		close(done)
	}()

	time.Sleep(20 * time.Millisecond)
	cancel()

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("Run did not stop after cancel")
	}
}

func TestStatusStringsMatchWireFormat(t *testing.T) {
	for _, s := range []Status{StatusPending, StatusPaid, StatusOverdue} {
		if strings.ToLower(string(s)) != string(s) {
			t.Errorf("status %q not lowercase", s)
		}
	}
}

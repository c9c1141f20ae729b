package payments

import (
	"errors"
	"testing"
	"time"
)

func date(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func intPtr(v int) *int { return &v }

func millisPtr(t time.Time) *int64 {
	ms := t.UnixMilli()
	return &ms
}

func mustEvaluate(t *testing.T, p Payment, now time.Time) Status {
	t.Helper()
	status, err := EvaluateStatus(p, now)
	if err != nil {
		t.Fatalf("EvaluateStatus: %v", err)
	}
	return status
}

func TestEvaluateStatusNonRecurring(t *testing.T) {
	p := Payment{Title: "Final invoice", DueDate: "2024-05-30"}

	tests := []struct {
		name string
		now  time.Time
		want Status
	}{
		{"day before due", date(2024, time.May, 29), StatusPending},
		{"due day itself", date(2024, time.May, 30), StatusOverdue},
		{"after due day", date(2024, time.June, 1), StatusOverdue},
		{"due day late evening", time.Date(2024, time.May, 30, 23, 59, 0, 0, time.UTC), StatusOverdue},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := mustEvaluate(t, p, tt.now); got != tt.want {
				t.Errorf("got %q, want %q", got, tt.want)
			}
		})
	}
}

func TestEvaluateStatusRecurringUnpaid(t *testing.T) {
	p := Payment{
		Title:        "Hosting",
		DueDate:      "2024-03-04",
		IsRecurring:  true,
		RecurringDay: intPtr(4),
	}

	if got := mustEvaluate(t, p, date(2024, time.March, 3)); got != StatusPending {
		t.Errorf("day before trigger: got %q, want %q", got, StatusPending)
	}
	if got := mustEvaluate(t, p, date(2024, time.March, 4)); got != StatusOverdue {
		t.Errorf("trigger day: got %q, want %q", got, StatusOverdue)
	}
	if got := mustEvaluate(t, p, date(2024, time.March, 20)); got != StatusOverdue {
		t.Errorf("after trigger day: got %q, want %q", got, StatusOverdue)
	}
}

func TestEvaluateStatusRecurringIgnoresDueDateWhileUnpaid(t *testing.T) {
	// The stored due date is display-only for unpaid recurring payments;
	// only the day-of-month comparison decides.
	p := Payment{
		Title:        "Retainer",
		DueDate:      "2030-01-15",
		IsRecurring:  true,
		RecurringDay: intPtr(10),
	}
	if got := mustEvaluate(t, p, date(2024, time.June, 12)); got != StatusOverdue {
		t.Errorf("got %q, want %q", got, StatusOverdue)
	}
}

func TestEvaluateStatusPaidNonRecurringNeverReverts(t *testing.T) {
	paidAt := date(2024, time.February, 1)
	p := Payment{
		Title:   "Sprint 3",
		DueDate: "2024-02-01",
		Status:  StatusPaid,
		PaidAt:  millisPtr(paidAt),
	}
	for _, now := range []time.Time{
		date(2024, time.February, 2),
		date(2024, time.March, 1),
		date(2030, time.December, 31),
	} {
		if got := mustEvaluate(t, p, now); got != StatusPaid {
			t.Errorf("at %s: got %q, want %q", now.Format(DateLayout), got, StatusPaid)
		}
	}
}

func TestEvaluateStatusRecurringRollover(t *testing.T) {
	paidAt := date(2024, time.March, 4)
	p := Payment{
		Title:        "Server rent",
		DueDate:      "2024-04-04",
		Status:       StatusPaid,
		IsRecurring:  true,
		RecurringDay: intPtr(4),
		PaidAt:       millisPtr(paidAt),
	}

	tests := []struct {
		name string
		now  time.Time
		want Status
	}{
		{"later same month", date(2024, time.March, 10), StatusPaid},
		{"next month before trigger", date(2024, time.April, 3), StatusPaid},
		{"next month on trigger", date(2024, time.April, 4), StatusOverdue},
		{"next month after trigger", date(2024, time.April, 20), StatusOverdue},
		{"same day next year", date(2025, time.March, 4), StatusOverdue},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := mustEvaluate(t, p, tt.now); got != tt.want {
				t.Errorf("got %q, want %q", got, tt.want)
			}
		})
	}
}

func TestEvaluateStatusIdempotent(t *testing.T) {
	now := date(2024, time.May, 30)
	records := []Payment{
		{Title: "a", DueDate: "2024-05-30"},
		{Title: "b", DueDate: "2024-06-15"},
		{Title: "c", DueDate: "2024-04-04", IsRecurring: true, RecurringDay: intPtr(4)},
		{Title: "d", DueDate: "2024-06-04", IsRecurring: true, RecurringDay: intPtr(4),
			Status: StatusPaid, PaidAt: millisPtr(date(2024, time.May, 4))},
	}
	for _, p := range records {
		first := mustEvaluate(t, p, now)
		p.Status = first
		second := mustEvaluate(t, p, now)
		if first != second {
			t.Errorf("%s: first %q, second %q", p.Title, first, second)
		}
	}
}

func TestEvaluateStatusMonotonicNonRecurring(t *testing.T) {
	p := Payment{Title: "one-off", DueDate: "2024-05-10"}
	seen := false
	for day := 1; day <= 28; day++ {
		got := mustEvaluate(t, p, date(2024, time.May, day))
		if got == StatusOverdue {
			seen = true
		}
		if seen && got == StatusPending {
			t.Fatalf("day %d: reverted from overdue to pending", day)
		}
	}
	if !seen {
		t.Fatal("payment never became overdue")
	}
}

func TestRecurringDay31SkipsShortMonth(t *testing.T) {
	// A trigger day of 31 never arrives in a 30-day month; the whole cycle
	// stays pending. Known gap, deliberately not clamped.
	p := Payment{
		Title:        "End-of-month invoice",
		DueDate:      "2024-05-31",
		IsRecurring:  true,
		RecurringDay: intPtr(31),
	}
	for day := 1; day <= 30; day++ {
		if got := mustEvaluate(t, p, date(2024, time.April, day)); got != StatusPending {
			t.Fatalf("April %d: got %q, want %q", day, got, StatusPending)
		}
	}
	if got := mustEvaluate(t, p, date(2024, time.May, 31)); got != StatusOverdue {
		t.Errorf("May 31: got %q, want %q", got, StatusOverdue)
	}
}

func TestEvaluateStatusMalformed(t *testing.T) {
	_, err := EvaluateStatus(Payment{Title: "bad", DueDate: "30/05/2024"}, date(2024, time.May, 1))
	if !errors.Is(err, ErrInvalidDueDate) {
		t.Errorf("got %v, want ErrInvalidDueDate", err)
	}

	_, err = EvaluateStatus(Payment{Title: "bad", IsRecurring: true}, date(2024, time.May, 1))
	if !errors.Is(err, ErrInvalidRecurringDay) {
		t.Errorf("missing day: got %v, want ErrInvalidRecurringDay", err)
	}

	_, err = EvaluateStatus(Payment{Title: "bad", IsRecurring: true, RecurringDay: intPtr(32)}, date(2024, time.May, 1))
	if !errors.Is(err, ErrInvalidRecurringDay) {
		t.Errorf("day out of range: got %v, want ErrInvalidRecurringDay", err)
	}
}

func TestInitialDueDate(t *testing.T) {
	tests := []struct {
		name string
		now  time.Time
		day  int
		want string
	}{
		{"trigger still ahead", date(2024, time.March, 2), 4, "2024-03-04"},
		{"trigger day today", date(2024, time.March, 4), 4, "2024-04-04"},
		{"trigger already passed", date(2024, time.March, 20), 4, "2024-04-04"},
		{"december rolls year", date(2024, time.December, 10), 4, "2025-01-04"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := InitialDueDate(tt.now, tt.day); got != tt.want {
				t.Errorf("got %q, want %q", got, tt.want)
			}
		})
	}
}

func TestNextDueDate(t *testing.T) {
	tests := []struct {
		name string
		now  time.Time
		day  int
		want string
	}{
		{"mid-year", date(2024, time.March, 4), 4, "2024-04-04"},
		{"december to january", date(2024, time.December, 15), 4, "2025-01-04"},
		{"day overflows february", date(2025, time.January, 31), 31, "2025-03-03"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := NextDueDate(tt.now, tt.day); got != tt.want {
				t.Errorf("got %q, want %q", got, tt.want)
			}
		})
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		payment Payment
		wantErr error
	}{
		{"valid one-off", Payment{Title: "x", DueDate: "2024-05-30"}, nil},
		{"valid recurring", Payment{Title: "x", IsRecurring: true, RecurringDay: intPtr(15)}, nil},
		{"missing title", Payment{DueDate: "2024-05-30"}, ErrTitleRequired},
		{"recurring without day", Payment{Title: "x", IsRecurring: true}, ErrInvalidRecurringDay},
		{"day zero", Payment{Title: "x", IsRecurring: true, RecurringDay: intPtr(0)}, ErrInvalidRecurringDay},
		{"bad date", Payment{Title: "x", DueDate: "soon"}, ErrInvalidDueDate},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.payment.Validate()
			if tt.wantErr == nil && err != nil {
				t.Errorf("unexpected error: %v", err)
			}
			if tt.wantErr != nil && !errors.Is(err, tt.wantErr) {
				t.Errorf("got %v, want %v", err, tt.wantErr)
			}
		})
	}
}

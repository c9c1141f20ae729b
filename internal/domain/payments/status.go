package payments

import (
	"fmt"
	"time"
)

// EvaluateStatus computes the current status of a payment as a pure function
// of its stored fields and now. It never mutates the record.
//
// Recurring payments are driven by day-of-month comparison against
// RecurringDay, not by the stored DueDate (which is informational while
// unpaid). The comparison is >=, so the trigger day itself already counts as
// overdue. A RecurringDay of 31 can never trigger in a 30-day month; such a
// cycle is skipped. That gap is intentional: clamping to the last day of the
// month would silently change the billing day.
func EvaluateStatus(p Payment, now time.Time) (Status, error) {
	if p.IsRecurring && (p.RecurringDay == nil || *p.RecurringDay < 1 || *p.RecurringDay > 31) {
		return "", ErrInvalidRecurringDay
	}

	if p.Status == StatusPaid {
		// A paid non-recurring payment stays paid forever. A paid recurring
		// payment rolls over to overdue once the trigger day arrives in a
		// month other than the one it was paid in.
		if p.IsRecurring && p.PaidAt != nil {
			paid := time.UnixMilli(*p.PaidAt).In(now.Location())
			sameCycle := now.Month() == paid.Month() && now.Year() == paid.Year()
			if now.Day() >= *p.RecurringDay && !sameCycle {
				return StatusOverdue, nil
			}
		}
		return StatusPaid, nil
	}

	if p.IsRecurring {
		if now.Day() >= *p.RecurringDay {
			return StatusOverdue, nil
		}
		return StatusPending, nil
	}

	due, err := time.Parse(DateLayout, p.DueDate)
	if err != nil {
		return "", fmt.Errorf("%w: %q", ErrInvalidDueDate, p.DueDate)
	}
	today := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC)
	if !today.Before(due) {
		return StatusOverdue, nil
	}
	return StatusPending, nil
}

// InitialDueDate picks the first due date for a new recurring payment: the
// trigger day this month if it has not arrived yet, otherwise next month's.
func InitialDueDate(now time.Time, day int) string {
	year, month := now.Year(), now.Month()
	if now.Day() >= day {
		month++
	}
	return time.Date(year, month, day, 0, 0, 0, 0, time.UTC).Format(DateLayout)
}

// NextDueDate advances a recurring payment's due date to the trigger day in
// the month after now, rolling the year over at December. A day that
// overflows a short month normalizes forward into the following month.
func NextDueDate(now time.Time, day int) string {
	return time.Date(now.Year(), now.Month()+1, day, 0, 0, 0, 0, time.UTC).Format(DateLayout)
}

package payments

import (
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

type Status string

const (
	StatusPending Status = "pending"
	StatusPaid    Status = "paid"
	StatusOverdue Status = "overdue"
)

// DateLayout is the wire format for due dates: calendar date, no
// time-of-day, no timezone. All due-date comparisons are date-only.
const DateLayout = "2006-01-02"

var (
	ErrInvalidDueDate      = errors.New("invalid due date")
	ErrInvalidRecurringDay = errors.New("recurring day must be between 1 and 31")
	ErrTitleRequired       = errors.New("title is required")
)

// Payment is a scheduled monetary obligation tied to a project, either
// one-off or monthly-recurring.
//
// Status is derived, not authoritative: it is recomputed from the other
// fields and the current time by EvaluateStatus, then persisted as a cache
// for filtering. PaidAt and CreatedAt are epoch milliseconds.
type Payment struct {
	ID           string           `json:"id" gorm:"type:uuid;primaryKey"`
	ProjectID    string           `json:"projectId" gorm:"type:uuid;index;not null"`
	Title        string           `json:"title" gorm:"not null"`
	DueDate      string           `json:"dueDate" gorm:"type:varchar(10);not null"`
	Amount       *decimal.Decimal `json:"amount,omitempty" gorm:"type:numeric(12,2)"`
	Currency     string           `json:"currency,omitempty"`
	Status       Status           `json:"status" gorm:"type:varchar(10);not null;default:'pending'"`
	IsRecurring  bool             `json:"isRecurring"`
	RecurringDay *int             `json:"recurringDay,omitempty"`
	Notes        string           `json:"notes,omitempty"`
	PaidAt       *int64           `json:"paidAt,omitempty"`
	CreatedAt    int64            `json:"createdAt" gorm:"autoCreateTime:milli"`
}

func (p *Payment) BeforeCreate(tx *gorm.DB) error {
	if p.ID == "" {
		p.ID = uuid.NewString()
	}
	return nil
}

// Validate rejects malformed payments at the boundary so the status engine
// never has to deal with them.
func (p *Payment) Validate() error {
	if p.Title == "" {
		return ErrTitleRequired
	}
	if p.IsRecurring {
		if p.RecurringDay == nil || *p.RecurringDay < 1 || *p.RecurringDay > 31 {
			return ErrInvalidRecurringDay
		}
		return nil
	}
	if _, err := time.Parse(DateLayout, p.DueDate); err != nil {
		return fmt.Errorf("%w: %q", ErrInvalidDueDate, p.DueDate)
	}
	return nil
}

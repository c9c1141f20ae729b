package payments

import (
	"github.com/shopspring/decimal"
)

type createPaymentInput struct {
	Title        string           `json:"title" binding:"required"`
	DueDate      string           `json:"dueDate"`
	Amount       *decimal.Decimal `json:"amount"`
	Currency     string           `json:"currency"`
	IsRecurring  bool             `json:"isRecurring"`
	RecurringDay *int             `json:"recurringDay"`
	Notes        string           `json:"notes"`
}

// updatePaymentInput uses pointers so only supplied fields are touched
// (partial-update semantics at the API edge too).
type updatePaymentInput struct {
	Title        *string          `json:"title"`
	DueDate      *string          `json:"dueDate"`
	Amount       *decimal.Decimal `json:"amount"`
	Currency     *string          `json:"currency"`
	IsRecurring  *bool            `json:"isRecurring"`
	RecurringDay *int             `json:"recurringDay"`
	Notes        *string          `json:"notes"`
}

package payments

import (
	"errors"
	"net/http"
	"time"

	"opsdash/internal/domain/payments"
	"opsdash/internal/store"

	"github.com/gin-gonic/gin"
)

var ctrl *payments.Controller

// Init wires the lifecycle controller. Called once from main.
func Init(c *payments.Controller) { ctrl = c }

func isValidationErr(err error) bool {
	return errors.Is(err, payments.ErrTitleRequired) ||
		errors.Is(err, payments.ErrInvalidDueDate) ||
		errors.Is(err, payments.ErrInvalidRecurringDay)
}

// ListByProject returns the project's payments with statuses recomputed
// against a single now. The persisted status is only a cache; what goes out
// is always the live evaluation.
func ListByProject(c *gin.Context) {
	records, err := ctrl.Store().ListByProject(c.Request.Context(), c.Param("id"))
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to load payments"})
		return
	}
	c.JSON(http.StatusOK, payments.RefreshAll(records, time.Now()))
}

func CreatePayment(c *gin.Context) {
	var input createPaymentInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	p := payments.Payment{
		ProjectID:    c.Param("id"),
		Title:        input.Title,
		DueDate:      input.DueDate,
		Amount:       input.Amount,
		Currency:     input.Currency,
		IsRecurring:  input.IsRecurring,
		RecurringDay: input.RecurringDay,
		Notes:        input.Notes,
	}

	if err := ctrl.Create(c.Request.Context(), &p); err != nil {
		if isValidationErr(err) {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create payment"})
		return
	}
	c.JSON(http.StatusCreated, p)
}

func UpdatePayment(c *gin.Context) {
	var input updatePaymentInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	record, err := ctrl.Store().GetByID(c.Request.Context(), c.Param("id"))
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Payment not found"})
		return
	}

	fields := map[string]interface{}{}
	if input.Title != nil {
		record.Title = *input.Title
		fields["title"] = *input.Title
	}
	if input.DueDate != nil {
		record.DueDate = *input.DueDate
		fields["due_date"] = *input.DueDate
	}
	if input.Amount != nil {
		record.Amount = input.Amount
		fields["amount"] = *input.Amount
	}
	if input.Currency != nil {
		record.Currency = *input.Currency
		fields["currency"] = *input.Currency
	}
	if input.IsRecurring != nil {
		record.IsRecurring = *input.IsRecurring
		fields["is_recurring"] = *input.IsRecurring
	}
	if input.RecurringDay != nil {
		record.RecurringDay = input.RecurringDay
		fields["recurring_day"] = *input.RecurringDay
	}
	if input.Notes != nil {
		record.Notes = *input.Notes
		fields["notes"] = *input.Notes
	}

	now := time.Now()
	if record.IsRecurring && record.RecurringDay != nil && input.DueDate == nil {
		// Editing the recurrence re-derives the due date, same as creation.
		record.DueDate = payments.InitialDueDate(now, *record.RecurringDay)
		fields["due_date"] = record.DueDate
	}
	if err := record.Validate(); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	// Status is never taken from input; it is always re-derived.
	status, err := payments.EvaluateStatus(*record, now)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	record.Status = status
	fields["status"] = status

	if err := ctrl.Store().UpdateFields(c.Request.Context(), record.ID, fields); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update payment"})
		return
	}
	c.JSON(http.StatusOK, record)
}

func DeletePayment(c *gin.Context) {
	if err := ctrl.Store().Delete(c.Request.Context(), c.Param("id")); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Payment not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to delete payment"})
		return
	}
	c.Status(http.StatusNoContent)
}

// MarkPaid is the explicit user transition to paid. For recurring payments
// the due date advances to the next cycle in the same write.
func MarkPaid(c *gin.Context) {
	record, err := ctrl.Store().GetByID(c.Request.Context(), c.Param("id"))
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Payment not found"})
		return
	}

	updated, err := ctrl.MarkPaid(c.Request.Context(), *record, time.Now())
	if err != nil {
		if isValidationErr(err) {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to mark payment as paid"})
		return
	}
	c.JSON(http.StatusOK, updated)
}

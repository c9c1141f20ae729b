package stripewebhooks

import (
	"errors"
	"fmt"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stripe/stripe-go/v75"
)

// handleCheckoutSessionCompleted settles the payment named in the session's
// metadata through the same MarkPaid transition as the manual button, so a
// Stripe settlement advances recurring due dates exactly like a hand-marked
// one. MarkPaid is guarded, which makes webhook retries harmless.
func handleCheckoutSessionCompleted(c *gin.Context, session *stripe.CheckoutSession) error {
	paymentID := ""
	if session.Metadata != nil {
		paymentID = session.Metadata["payment_id"]
	}
	if paymentID == "" {
		return errors.New("checkout session missing payment_id metadata")
	}

	record, err := ctrl.Store().GetByID(c.Request.Context(), paymentID)
	if err != nil {
		return fmt.Errorf("payment %s not found: %w", paymentID, err)
	}

	if _, err := ctrl.MarkPaid(c.Request.Context(), *record, time.Now()); err != nil {
		return fmt.Errorf("failed to mark payment %s as paid: %w", paymentID, err)
	}
	return nil
}

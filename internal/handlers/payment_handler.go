package handlers

import (
	"encoding/json"
	"io"
	"net/http"
	"os"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/nadhifr/karcis/internal/helpers"
	"github.com/nadhifr/karcis/internal/middleware"
)

type paymentCallback struct {
	OrderID    uuid.UUID `json:"order_id"`
	PaymentRef string    `json:"payment_ref"`
	Status     string    `json:"status"`
}

// PaymentCallback is the provider's confirmation webhook. The body is
// HMAC-signed by the provider; a verified "paid" callback flips the order
// from pending to completed. Confirmation is idempotent: replaying a
// callback for an already-completed order changes nothing and still
// returns 200, so the provider stops retrying.
func PaymentCallback(c *gin.Context) {
	body, err := io.ReadAll(c.Request.Body)
	if err != nil {
		helpers.RespondWithError(c, http.StatusBadRequest, "Failed to read request body.")
		return
	}

	secret := os.Getenv("CALLBACK_SECRET")
	if secret == "" {
		// Without a configured secret every signature would verify against
		// an empty key anyone can compute.
		helpers.RespondWithError(c, http.StatusServiceUnavailable, "Payment callbacks are not configured.")
		return
	}

	verifier := helpers.NewCallbackVerifier(secret)
	if !verifier.Verify(body, c.GetHeader("Signature")) {
		helpers.RespondWithError(c, http.StatusForbidden, "Invalid callback signature.")
		return
	}

	var callback paymentCallback
	if err := json.Unmarshal(body, &callback); err != nil {
		helpers.RespondWithError(c, http.StatusBadRequest, "Invalid callback payload.")
		return
	}

	if callback.Status != "paid" {
		// Failed or expired payments are left pending for the customer to
		// retry; an out-of-scope job expires stale orders.
		c.JSON(http.StatusOK, gin.H{"message": "Callback acknowledged."})
		return
	}

	orderService := middleware.GetOrderService(c)
	if orderService == nil {
		helpers.RespondWithError(c, http.StatusInternalServerError, "Order service not available.")
		return
	}

	order, err := orderService.ConfirmPayment(c.Request.Context(), callback.OrderID, callback.PaymentRef)
	if err != nil {
		helpers.RespondWithOrderError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message":  "Payment confirmed.",
		"order_id": order.ID,
		"status":   order.Status,
	})
}

package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/BruksfildServices01/booking-api/internal/httperr"
	ucAppointment "github.com/BruksfildServices01/booking-api/internal/usecase/appointment"
)

type PaymentWebhookHandler struct {
	confirm *ucAppointment.ConfirmPayment
}

func NewPaymentWebhookHandler(confirm *ucAppointment.ConfirmPayment) *PaymentWebhookHandler {
	return &PaymentWebhookHandler{confirm: confirm}
}

type webhookNotification struct {
	Type string `json:"type"`
	Data struct {
		ID string `json:"id"`
	} `json:"data"`
}

// MercadoPago sends the type and id either as query parameters or in a
// JSON body. Only the id is used; the payment is fetched back from the
// gateway before anything changes.
func (h *PaymentWebhookHandler) MercadoPago(c *gin.Context) {
	var body webhookNotification
	_ = c.ShouldBindJSON(&body)

	typ := firstNonEmpty(c.Query("type"), c.Query("topic"), body.Type)
	id := firstNonEmpty(c.Query("data.id"), c.Query("id"), body.Data.ID)

	if typ != "payment" {
		c.JSON(http.StatusOK, gin.H{"status": "ignored"})
		return
	}
	if id == "" {
		httperr.Respond(c, httperr.ErrField("payment_id_required", "data.id", "payment id is required"))
		return
	}

	ap, err := h.confirm.Execute(c.Request.Context(), id)
	if err != nil {
		httperr.Respond(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"status":         "processed",
		"appointment_id": ap.ID,
		"is_paid":        ap.IsPaid,
	})
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}

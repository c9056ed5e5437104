package handlers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"

	"github.com/BruksfildServices01/booking-api/internal/httperr"
	"github.com/BruksfildServices01/booking-api/internal/httpresp"
	ucAppointment "github.com/BruksfildServices01/booking-api/internal/usecase/appointment"
)

// ======================================================
// HANDLER
// ======================================================

type AppointmentHandler struct {
	create  *ucAppointment.CreateAppointment
	list    *ucAppointment.ListAppointments
	status  *ucAppointment.UpdateStatus
	review  *ucAppointment.SubmitReview
	payment *ucAppointment.ProcessPayment
	loc     *time.Location
}

func NewAppointmentHandler(
	create *ucAppointment.CreateAppointment,
	list *ucAppointment.ListAppointments,
	status *ucAppointment.UpdateStatus,
	review *ucAppointment.SubmitReview,
	payment *ucAppointment.ProcessPayment,
	loc *time.Location,
) *AppointmentHandler {
	return &AppointmentHandler{
		create:  create,
		list:    list,
		status:  status,
		review:  review,
		payment: payment,
		loc:     loc,
	}
}

// ======================================================
// REQUESTS
// ======================================================

type CreateAppointmentRequest struct {
	ClientID      *uint            `json:"client_id"`
	EmployerID    uint             `json:"employer_id" binding:"required"`
	ServiceID     *uint            `json:"service_id"`
	Date          string           `json:"date" binding:"required"`
	Description   string           `json:"description" binding:"max=1000"`
	PaymentMethod string           `json:"payment_method" binding:"omitempty,oneof=card cash"`
	TotalAmount   *decimal.Decimal `json:"total_amount"`
}

type UpdateStatusRequest struct {
	Status string `json:"status" binding:"required"`
}

type ReviewRequest struct {
	Feedback string `json:"feedback" binding:"max=2000"`
	Rating   *int   `json:"rating" binding:"required"`
}

type PaymentRequest struct {
	PaymentMethod string `json:"payment_method" binding:"required"`
}

// ======================================================
// CREATE
// ======================================================

func (h *AppointmentHandler) Create(c *gin.Context) {
	p, ok := principal(c)
	if !ok {
		return
	}

	var req CreateAppointmentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httperr.Respond(c, httperr.FromBinding(err))
		return
	}

	date, ok := parseInstant(req.Date, h.loc)
	if !ok {
		httperr.Respond(c, httperr.ErrField("invalid_date", "date", "must be an ISO-8601 date-time"))
		return
	}

	ap, err := h.create.Execute(c.Request.Context(), p, ucAppointment.CreateAppointmentInput{
		ClientID:      req.ClientID,
		EmployerID:    req.EmployerID,
		ServiceID:     req.ServiceID,
		Date:          date,
		Description:   req.Description,
		PaymentMethod: req.PaymentMethod,
		TotalAmount:   req.TotalAmount,
	})
	if err != nil {
		httperr.Respond(c, err)
		return
	}

	c.JSON(http.StatusCreated, ap)
}

// ======================================================
// LIST
// ======================================================

func (h *AppointmentHandler) List(c *gin.Context) {
	p, ok := principal(c)
	if !ok {
		return
	}

	items, err := h.list.Execute(c.Request.Context(), p, c.Query("status"))
	if err != nil {
		httperr.Respond(c, err)
		return
	}

	httpresp.List(c, items)
}

// ======================================================
// STATUS
// ======================================================

func (h *AppointmentHandler) UpdateStatus(c *gin.Context) {
	p, ok := principal(c)
	if !ok {
		return
	}
	id, ok := idParam(c, "id")
	if !ok {
		return
	}

	var req UpdateStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httperr.Respond(c, httperr.FromBinding(err))
		return
	}

	ap, err := h.status.Execute(c.Request.Context(), p, id, req.Status)
	if err != nil {
		httperr.Respond(c, err)
		return
	}

	httpresp.OK(c, ap)
}

// ======================================================
// REVIEW
// ======================================================

func (h *AppointmentHandler) Review(c *gin.Context) {
	p, ok := principal(c)
	if !ok {
		return
	}
	id, ok := idParam(c, "id")
	if !ok {
		return
	}

	var req ReviewRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httperr.Respond(c, httperr.FromBinding(err))
		return
	}

	ap, err := h.review.Execute(c.Request.Context(), p, id, ucAppointment.ReviewInput{
		Feedback: req.Feedback,
		Rating:   *req.Rating,
	})
	if err != nil {
		httperr.Respond(c, err)
		return
	}

	httpresp.OK(c, ap)
}

// ======================================================
// PAYMENT
// ======================================================

func (h *AppointmentHandler) Payment(c *gin.Context) {
	p, ok := principal(c)
	if !ok {
		return
	}
	id, ok := idParam(c, "id")
	if !ok {
		return
	}

	var req PaymentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httperr.Respond(c, httperr.FromBinding(err))
		return
	}

	ap, err := h.payment.Execute(c.Request.Context(), p, id, req.PaymentMethod)
	if err != nil {
		httperr.Respond(c, err)
		return
	}

	httpresp.OK(c, ap)
}

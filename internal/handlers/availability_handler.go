package handlers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/BruksfildServices01/booking-api/internal/httperr"
	"github.com/BruksfildServices01/booking-api/internal/httpresp"
	"github.com/BruksfildServices01/booking-api/internal/usecase/availability"
)

type AvailabilityHandler struct {
	windows *availability.Windows
	checker *availability.Checker
	loc     *time.Location
}

func NewAvailabilityHandler(
	windows *availability.Windows,
	checker *availability.Checker,
	loc *time.Location,
) *AvailabilityHandler {
	return &AvailabilityHandler{windows: windows, checker: checker, loc: loc}
}

type AvailabilityRequest struct {
	DayOfWeek   *int   `json:"day_of_week" binding:"required,min=0,max=6"`
	StartTime   string `json:"start_time" binding:"required,hhmm"`
	EndTime     string `json:"end_time" binding:"required,hhmm"`
	IsAvailable *bool  `json:"is_available"`
}

type AvailabilityToggleRequest struct {
	IsAvailable *bool `json:"is_available" binding:"required"`
}

// GET /employers/:id/availabilities
func (h *AvailabilityHandler) List(c *gin.Context) {
	employerID, ok := idParam(c, "id")
	if !ok {
		return
	}

	rows, err := h.windows.List(c.Request.Context(), employerID)
	if err != nil {
		httperr.Respond(c, err)
		return
	}

	httpresp.List(c, rows)
}

// GET /employers/:id/availability?at=
func (h *AvailabilityHandler) Check(c *gin.Context) {
	employerID, ok := idParam(c, "id")
	if !ok {
		return
	}

	at, ok := parseInstant(c.Query("at"), h.loc)
	if !ok {
		httperr.Respond(c, httperr.ErrField("invalid_date", "at", "must be an ISO-8601 date-time"))
		return
	}

	available, err := h.checker.AvailableAt(c.Request.Context(), employerID, at)
	if err != nil {
		httperr.Respond(c, err)
		return
	}

	httpresp.OK(c, gin.H{
		"employer_id": employerID,
		"at":          at,
		"available":   available,
	})
}

// POST /me/availabilities
func (h *AvailabilityHandler) Add(c *gin.Context) {
	p, ok := principal(c)
	if !ok {
		return
	}

	var req AvailabilityRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httperr.Respond(c, httperr.FromBinding(err))
		return
	}

	row, err := h.windows.Add(c.Request.Context(), p, availability.WindowInput{
		DayOfWeek:   *req.DayOfWeek,
		StartTime:   req.StartTime,
		EndTime:     req.EndTime,
		IsAvailable: req.IsAvailable,
	})
	if err != nil {
		httperr.Respond(c, err)
		return
	}

	c.JSON(http.StatusCreated, row)
}

// PATCH /me/availabilities/:id
func (h *AvailabilityHandler) Update(c *gin.Context) {
	p, ok := principal(c)
	if !ok {
		return
	}
	id, ok := idParam(c, "id")
	if !ok {
		return
	}

	var req AvailabilityToggleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httperr.Respond(c, httperr.FromBinding(err))
		return
	}

	row, err := h.windows.SetAvailable(c.Request.Context(), p, id, *req.IsAvailable)
	if err != nil {
		httperr.Respond(c, err)
		return
	}

	httpresp.OK(c, row)
}

// DELETE /me/availabilities/:id
func (h *AvailabilityHandler) Remove(c *gin.Context) {
	p, ok := principal(c)
	if !ok {
		return
	}
	id, ok := idParam(c, "id")
	if !ok {
		return
	}

	if err := h.windows.Remove(c.Request.Context(), p, id); err != nil {
		httperr.Respond(c, err)
		return
	}

	c.Status(http.StatusNoContent)
}

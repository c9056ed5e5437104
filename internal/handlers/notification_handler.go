package handlers

import (
	"github.com/gin-gonic/gin"

	"github.com/BruksfildServices01/booking-api/internal/httperr"
	"github.com/BruksfildServices01/booking-api/internal/httpresp"
	ucNotification "github.com/BruksfildServices01/booking-api/internal/usecase/notification"
)

type NotificationHandler struct {
	dispatcher *ucNotification.Dispatcher
}

func NewNotificationHandler(d *ucNotification.Dispatcher) *NotificationHandler {
	return &NotificationHandler{dispatcher: d}
}

func (h *NotificationHandler) List(c *gin.Context) {
	p, ok := principal(c)
	if !ok {
		return
	}

	items, err := h.dispatcher.List(c.Request.Context(), p, c.Query("unread") == "true")
	if err != nil {
		httperr.Respond(c, err)
		return
	}

	httpresp.List(c, items)
}

func (h *NotificationHandler) UnreadCount(c *gin.Context) {
	p, ok := principal(c)
	if !ok {
		return
	}

	n, err := h.dispatcher.UnreadCount(c.Request.Context(), p)
	if err != nil {
		httperr.Respond(c, err)
		return
	}

	httpresp.OK(c, gin.H{"unread": n})
}

func (h *NotificationHandler) MarkRead(c *gin.Context) {
	p, ok := principal(c)
	if !ok {
		return
	}
	id, ok := idParam(c, "id")
	if !ok {
		return
	}

	n, err := h.dispatcher.MarkRead(c.Request.Context(), p, id)
	if err != nil {
		httperr.Respond(c, err)
		return
	}

	httpresp.OK(c, n)
}

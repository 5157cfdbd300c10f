package handler

import (
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	"pulseboard/internal/realtime"
)

// EventsHandler streams dashboard mutation events to clients as
// server-sent events.
type EventsHandler struct {
	hub *realtime.Hub
	log *zap.Logger
}

// NewEventsHandler creates a new events handler.
func NewEventsHandler(hub *realtime.Hub, log *zap.Logger) *EventsHandler {
	return &EventsHandler{hub: hub, log: log}
}

// Stream godoc
// @Summary Subscribe to a dashboard's event stream
// @Tags dashboards
// @Produce text/event-stream
// @Security BearerAuth
// @Param id path string true "Dashboard ID"
// @Success 200 {string} string "SSE stream"
// @Failure 401 {object} errors.ErrorResponse
// @Router /dashboards/{id}/events [get]
func (h *EventsHandler) Stream(c echo.Context) error {
	ident, err := currentIdentity(c)
	if err != nil {
		return err
	}

	dashboardID := c.Param("id")
	// Only the owner (or an admin) may watch a dashboard.
	if !ident.IsAdmin() && dashboardID != ident.ID.String() {
		return unauthorized()
	}

	res := c.Response()
	res.Header().Set(echo.HeaderContentType, "text/event-stream")
	res.Header().Set("Cache-Control", "no-cache")
	res.Header().Set("Connection", "keep-alive")
	res.WriteHeader(http.StatusOK)
	res.Flush()

	sub := h.hub.Subscribe(dashboardID)
	defer sub.Close()

	h.log.Debug("subscriber attached", zap.String("dashboard", dashboardID))

	for {
		select {
		case <-c.Request().Context().Done():
			return nil
		case ev, ok := <-sub.C:
			if !ok {
				return nil
			}
			if err := writeSSE(res, ev); err != nil {
				return nil
			}
			res.Flush()
		}
	}
}

func writeSSE(res *echo.Response, ev realtime.Event) error {
	data, err := json.Marshal(ev)
	if err != nil {
		return err
	}
	_, err = fmt.Fprintf(res, "event: %s\ndata: %s\n\n", ev.Topic(), data)
	return err
}

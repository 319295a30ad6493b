package handlers

import (
	"net/http"
	"strconv"

	"github.com/juliebook/juliebook-be/internal/apierr"
	"github.com/juliebook/juliebook-be/internal/services"
)

// EventHandler handles HTTP requests for the activity log.
type EventHandler struct {
	eventService services.EventServiceProvider
}

// NewEventHandler creates a new EventHandler.
func NewEventHandler(eventService services.EventServiceProvider) *EventHandler {
	return &EventHandler{eventService: eventService}
}

// GetRecent retrieves the latest activity entries. Accepts ?limit=N, capped at 100.
func (h *EventHandler) GetRecent(w http.ResponseWriter, r *http.Request) {
	limit := 20
	if s := r.URL.Query().Get("limit"); s != "" {
		n, err := strconv.Atoi(s)
		if err != nil || n <= 0 {
			apierr.Respond(w, r, apierr.Validation("limit must be a positive integer"))
			return
		}
		limit = n
	}
	if limit > 100 {
		limit = 100
	}

	events, err := h.eventService.GetRecentEvents(limit)
	if err != nil {
		apierr.Respond(w, r, apierr.Internal(err))
		return
	}
	respondJSON(w, http.StatusOK, events)
}

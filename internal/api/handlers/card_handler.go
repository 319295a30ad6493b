package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"
	validation "github.com/go-ozzo/ozzo-validation"
	"github.com/go-ozzo/ozzo-validation/is"
	"github.com/juliebook/juliebook-be/internal/apierr"
	"github.com/juliebook/juliebook-be/internal/auth"
	"github.com/juliebook/juliebook-be/internal/services"
	ws "github.com/juliebook/juliebook-be/internal/websocket"
	"github.com/rs/zerolog/log"
)

// CardHandler handles HTTP requests for the card feed.
type CardHandler struct {
	cardService  services.CardServiceProvider
	eventService services.EventServiceProvider
	hub          *ws.Hub
}

// NewCardHandler creates a new CardHandler.
func NewCardHandler(cardService services.CardServiceProvider, eventService services.EventServiceProvider, hub *ws.Hub) *CardHandler {
	return &CardHandler{cardService: cardService, eventService: eventService, hub: hub}
}

// CardPayload defines the structure for card creation requests.
type CardPayload struct {
	Name string `json:"name"`
	Link string `json:"link"`
}

// Validate checks the card fields against the original length limits.
func (p CardPayload) Validate() error {
	return validation.ValidateStruct(&p,
		validation.Field(&p.Name, validation.Required, validation.Length(2, 30)),
		validation.Field(&p.Link, validation.Required, is.URL),
	)
}

// GetAll handles retrieving the full card feed.
func (h *CardHandler) GetAll(w http.ResponseWriter, r *http.Request) {
	cards, err := h.cardService.GetAll()
	if err != nil {
		apierr.Respond(w, r, err)
		return
	}
	respondJSON(w, http.StatusOK, cards)
}

// Create handles adding a new card owned by the authenticated user.
func (h *CardHandler) Create(w http.ResponseWriter, r *http.Request) {
	userID, ok := auth.UserIDFromContext(r.Context())
	if !ok {
		apierr.Respond(w, r, apierr.Unauthenticated("missing auth token"))
		return
	}

	var payload CardPayload
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		apierr.Respond(w, r, apierr.Validation("invalid request body"))
		return
	}
	if err := payload.Validate(); err != nil {
		apierr.Respond(w, r, apierr.Validation(err.Error()))
		return
	}

	card, err := h.cardService.Create(userID, payload.Name, payload.Link)
	if err != nil {
		log.Error().Err(err).Str("user_id", userID).Msg("Failed to create card")
		apierr.Respond(w, r, err)
		return
	}

	h.eventService.CreateEvent(services.EventCardCreated, "info", "Card created: "+card.Name, &userID)
	h.hub.Broadcast <- ws.Encode(ws.ActionCardCreated, card)
	respondJSON(w, http.StatusCreated, card)
}

// Delete handles removing a card. Only the owner may delete it.
func (h *CardHandler) Delete(w http.ResponseWriter, r *http.Request) {
	userID, ok := auth.UserIDFromContext(r.Context())
	if !ok {
		apierr.Respond(w, r, apierr.Unauthenticated("missing auth token"))
		return
	}

	id := chi.URLParam(r, "id")
	if err := h.cardService.Delete(id, userID); err != nil {
		apierr.Respond(w, r, err)
		return
	}

	h.eventService.CreateEvent(services.EventCardDeleted, "info", "Card deleted", &userID)
	h.hub.Broadcast <- ws.Encode(ws.ActionCardDeleted, map[string]string{"id": id})
	w.WriteHeader(http.StatusNoContent)
}

// Like handles recording the authenticated user's like on a card.
func (h *CardHandler) Like(w http.ResponseWriter, r *http.Request) {
	userID, ok := auth.UserIDFromContext(r.Context())
	if !ok {
		apierr.Respond(w, r, apierr.Unauthenticated("missing auth token"))
		return
	}

	id := chi.URLParam(r, "id")
	card, err := h.cardService.Like(id, userID)
	if err != nil {
		apierr.Respond(w, r, err)
		return
	}

	h.eventService.CreateEvent(services.EventCardLiked, "info", "Card liked: "+card.Name, &userID)
	h.hub.Broadcast <- ws.Encode(ws.ActionCardLiked, card)
	respondJSON(w, http.StatusOK, card)
}

// Unlike handles removing the authenticated user's like from a card.
func (h *CardHandler) Unlike(w http.ResponseWriter, r *http.Request) {
	userID, ok := auth.UserIDFromContext(r.Context())
	if !ok {
		apierr.Respond(w, r, apierr.Unauthenticated("missing auth token"))
		return
	}

	id := chi.URLParam(r, "id")
	card, err := h.cardService.Unlike(id, userID)
	if err != nil {
		apierr.Respond(w, r, err)
		return
	}

	h.eventService.CreateEvent(services.EventCardUnliked, "info", "Card unliked: "+card.Name, &userID)
	h.hub.Broadcast <- ws.Encode(ws.ActionCardUnliked, card)
	respondJSON(w, http.StatusOK, card)
}

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
	"github.com/rs/zerolog/log"
)

// UserHandler handles HTTP requests for accounts and profiles.
type UserHandler struct {
	userService  services.UserServiceProvider
	eventService services.EventServiceProvider
	tokens       *auth.TokenIssuer
}

// NewUserHandler creates a new UserHandler.
func NewUserHandler(userService services.UserServiceProvider, eventService services.EventServiceProvider, tokens *auth.TokenIssuer) *UserHandler {
	return &UserHandler{userService: userService, eventService: eventService, tokens: tokens}
}

// RegisterPayload defines the structure for registration requests.
type RegisterPayload struct {
	Email    string `json:"email"`
	Password string `json:"password"`
	Name     string `json:"name"`
	About    string `json:"about"`
	Avatar   string `json:"avatar"`
}

// Validate checks the payload shape before any business logic runs.
func (p RegisterPayload) Validate() error {
	return validation.ValidateStruct(&p,
		validation.Field(&p.Email, validation.Required, is.Email),
		validation.Field(&p.Password, validation.Required, validation.Length(8, 72)),
		validation.Field(&p.Name, validation.Length(2, 30)),
		validation.Field(&p.About, validation.Length(2, 30)),
		validation.Field(&p.Avatar, is.URL),
	)
}

// LoginPayload defines the structure for login requests.
type LoginPayload struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// Validate checks that both credentials are present.
func (p LoginPayload) Validate() error {
	return validation.ValidateStruct(&p,
		validation.Field(&p.Email, validation.Required, is.Email),
		validation.Field(&p.Password, validation.Required),
	)
}

// ProfilePayload defines the structure for profile update requests.
type ProfilePayload struct {
	Name  string `json:"name"`
	About string `json:"about"`
}

// Validate checks the profile fields against the original length limits.
func (p ProfilePayload) Validate() error {
	return validation.ValidateStruct(&p,
		validation.Field(&p.Name, validation.Required, validation.Length(2, 30)),
		validation.Field(&p.About, validation.Required, validation.Length(2, 30)),
	)
}

// AvatarPayload defines the structure for avatar update requests.
type AvatarPayload struct {
	Avatar string `json:"avatar"`
}

// Validate checks that the avatar link is a URL.
func (p AvatarPayload) Validate() error {
	return validation.ValidateStruct(&p,
		validation.Field(&p.Avatar, validation.Required, is.URL),
	)
}

// Register handles new user registration.
func (h *UserHandler) Register(w http.ResponseWriter, r *http.Request) {
	var payload RegisterPayload
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		apierr.Respond(w, r, apierr.Validation("invalid request body"))
		return
	}
	if err := payload.Validate(); err != nil {
		apierr.Respond(w, r, apierr.Validation(err.Error()))
		return
	}

	user, err := h.userService.Register(payload.Email, payload.Password, payload.Name, payload.About, payload.Avatar)
	if err != nil {
		log.Warn().Err(err).Str("email", payload.Email).Msg("Failed to register user")
		apierr.Respond(w, r, err)
		return
	}

	h.eventService.CreateEvent(services.EventUserRegistered, "info", "New user registered", &user.ID)
	respondJSON(w, http.StatusCreated, user)
}

// Login handles user authentication and token issuance.
func (h *UserHandler) Login(w http.ResponseWriter, r *http.Request) {
	var payload LoginPayload
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		apierr.Respond(w, r, apierr.Validation("invalid request body"))
		return
	}
	if err := payload.Validate(); err != nil {
		apierr.Respond(w, r, apierr.Validation(err.Error()))
		return
	}

	user, err := h.userService.Authenticate(payload.Email, payload.Password)
	if err != nil {
		// The detailed cause stays in the server log; the response is the
		// same for an unknown email and a wrong password.
		log.Warn().Err(err).Str("email", payload.Email).Msg("Failed authentication attempt")
		apierr.Respond(w, r, err)
		return
	}

	token, err := h.tokens.Issue(user.ID)
	if err != nil {
		apierr.Respond(w, r, err)
		return
	}

	h.eventService.CreateEvent(services.EventUserLogin, "info", "User signed in", &user.ID)
	respondJSON(w, http.StatusOK, map[string]string{"token": token})
}

// GetMe retrieves the currently authenticated user.
func (h *UserHandler) GetMe(w http.ResponseWriter, r *http.Request) {
	userID, ok := auth.UserIDFromContext(r.Context())
	if !ok {
		apierr.Respond(w, r, apierr.Unauthenticated("missing auth token"))
		return
	}

	user, err := h.userService.GetUserByID(userID)
	if err != nil {
		log.Warn().Err(err).Str("user_id", userID).Msg("User from token not found")
		apierr.Respond(w, r, err)
		return
	}
	respondJSON(w, http.StatusOK, user)
}

// Get handles retrieving a user by their ID.
func (h *UserHandler) Get(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	user, err := h.userService.GetUserByID(id)
	if err != nil {
		apierr.Respond(w, r, err)
		return
	}
	respondJSON(w, http.StatusOK, user)
}

// UpdateProfile handles updating the authenticated user's name and about.
func (h *UserHandler) UpdateProfile(w http.ResponseWriter, r *http.Request) {
	userID, ok := auth.UserIDFromContext(r.Context())
	if !ok {
		apierr.Respond(w, r, apierr.Unauthenticated("missing auth token"))
		return
	}

	var payload ProfilePayload
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		apierr.Respond(w, r, apierr.Validation("invalid request body"))
		return
	}
	if err := payload.Validate(); err != nil {
		apierr.Respond(w, r, apierr.Validation(err.Error()))
		return
	}

	user, err := h.userService.UpdateProfile(userID, payload.Name, payload.About)
	if err != nil {
		log.Error().Err(err).Str("user_id", userID).Msg("Failed to update profile")
		apierr.Respond(w, r, err)
		return
	}
	respondJSON(w, http.StatusOK, user)
}

// UpdateAvatar handles updating the authenticated user's avatar URL.
func (h *UserHandler) UpdateAvatar(w http.ResponseWriter, r *http.Request) {
	userID, ok := auth.UserIDFromContext(r.Context())
	if !ok {
		apierr.Respond(w, r, apierr.Unauthenticated("missing auth token"))
		return
	}

	var payload AvatarPayload
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		apierr.Respond(w, r, apierr.Validation("invalid request body"))
		return
	}
	if err := payload.Validate(); err != nil {
		apierr.Respond(w, r, apierr.Validation(err.Error()))
		return
	}

	user, err := h.userService.UpdateAvatar(userID, payload.Avatar)
	if err != nil {
		log.Error().Err(err).Str("user_id", userID).Msg("Failed to update avatar")
		apierr.Respond(w, r, err)
		return
	}
	respondJSON(w, http.StatusOK, user)
}

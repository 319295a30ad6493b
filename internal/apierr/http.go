package apierr

import (
	"encoding/json"
	"net/http"

	"github.com/rs/zerolog/log"
)

// errorResponse is the JSON body written for every failed request.
type errorResponse struct {
	Message string `json:"message"`
}

// Respond writes err as a JSON error response. Internal errors are logged
// with their cause and sanitized to a generic message.
func Respond(w http.ResponseWriter, r *http.Request, err error) {
	kind := KindOf(err)
	if kind == KindInternal {
		log.Error().Err(err).Str("path", r.URL.Path).Msg("Internal error")
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(kind.HTTPStatus())
	json.NewEncoder(w).Encode(errorResponse{Message: ClientMessage(err)})
}

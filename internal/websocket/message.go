package websocket

import "encoding/json"

// Message defines the structure for websocket messages.
type Message struct {
	Action  string      `json:"action"`
	Payload interface{} `json:"payload"`
}

// Feed actions pushed to connected clients.
const (
	ActionCardCreated = "card_created"
	ActionCardDeleted = "card_deleted"
	ActionCardLiked   = "card_liked"
	ActionCardUnliked = "card_unliked"
	ActionHostStats   = "host_stats"
)

// Encode marshals a message for broadcast, swallowing the error for the
// hot path; payloads here are always marshalable structs.
func Encode(action string, payload interface{}) []byte {
	b, _ := json.Marshal(Message{Action: action, Payload: payload})
	return b
}

package models

import "time"

// Profile defaults applied when a registration omits the optional fields.
const (
	DefaultName   = "Jacques Cousteau"
	DefaultAbout  = "Explorer"
	DefaultAvatar = "https://pictures.s3.yandex.net/resources/avatar_1604080799.jpg"
)

// User represents a user account in the system.
type User struct {
	ID           string    `json:"id"`
	Email        string    `json:"email"`
	PasswordHash string    `json:"-"` // Never expose this to the client
	Name         string    `json:"name"`
	About        string    `json:"about"`
	Avatar       string    `json:"avatar"`
	CreatedAt    time.Time `json:"createdAt"`
}

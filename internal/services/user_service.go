package services

import (
	"database/sql"
	"errors"
	"strings"

	"github.com/google/uuid"
	"github.com/juliebook/juliebook-be/internal/apierr"
	"github.com/juliebook/juliebook-be/internal/auth"
	"github.com/juliebook/juliebook-be/internal/models"
)

// UserServiceProvider defines the interface for user services.
type UserServiceProvider interface {
	Register(email, password, name, about, avatar string) (models.User, error)
	Authenticate(email, password string) (models.User, error)
	GetUserByID(id string) (models.User, error)
	UpdateProfile(id, name, about string) (models.User, error)
	UpdateAvatar(id, avatar string) (models.User, error)
}

// UserService provides business logic for user accounts.
type UserService struct {
	db *sql.DB
}

// NewUserService creates a new UserService.
func NewUserService(db *sql.DB) *UserService {
	return &UserService{db: db}
}

// Register creates a new user with a hashed password. Optional profile fields
// fall back to their defaults. A duplicate email yields Conflict; uniqueness
// is enforced by the storage constraint, so concurrent registrations race
// safely (first writer wins).
func (s *UserService) Register(email, password, name, about, avatar string) (models.User, error) {
	hashed, err := auth.HashPassword(password)
	if err != nil {
		return models.User{}, err
	}

	if name == "" {
		name = models.DefaultName
	}
	if about == "" {
		about = models.DefaultAbout
	}
	if avatar == "" {
		avatar = models.DefaultAvatar
	}

	user := models.User{
		ID:           uuid.New().String(),
		Email:        email,
		PasswordHash: hashed,
		Name:         name,
		About:        about,
		Avatar:       avatar,
	}

	stmt, err := s.db.Prepare("INSERT INTO users(id, email, password_hash, name, about, avatar) VALUES(?, ?, ?, ?, ?, ?)")
	if err != nil {
		return models.User{}, apierr.Internal(err)
	}
	defer stmt.Close()

	_, err = stmt.Exec(user.ID, user.Email, user.PasswordHash, user.Name, user.About, user.Avatar)
	if err != nil {
		if isUniqueViolation(err) {
			return models.User{}, apierr.Conflict("email already registered")
		}
		return models.User{}, apierr.Internal(err)
	}

	// Return user without password hash
	user.PasswordHash = ""
	return s.GetUserByID(user.ID)
}

// Authenticate verifies a user's credentials. An unknown email and a wrong
// password both come back as the same WrongCredentials error so callers
// cannot probe which emails are registered.
func (s *UserService) Authenticate(email, password string) (models.User, error) {
	var user models.User
	row := s.db.QueryRow("SELECT id, email, password_hash, name, about, avatar, created_at FROM users WHERE email = ?", email)
	err := row.Scan(&user.ID, &user.Email, &user.PasswordHash, &user.Name, &user.About, &user.Avatar, &user.CreatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return models.User{}, apierr.WrongCredentials()
		}
		return models.User{}, apierr.Internal(err)
	}

	ok, err := auth.VerifyPassword(password, user.PasswordHash)
	if err != nil {
		return models.User{}, err
	}
	if !ok {
		return models.User{}, apierr.WrongCredentials()
	}

	// Don't send the password hash to the client
	user.PasswordHash = ""
	return user, nil
}

// GetUserByID retrieves a single user by their ID. The password hash is never
// selected on this path.
func (s *UserService) GetUserByID(id string) (models.User, error) {
	var user models.User
	row := s.db.QueryRow("SELECT id, email, name, about, avatar, created_at FROM users WHERE id = ?", id)
	err := row.Scan(&user.ID, &user.Email, &user.Name, &user.About, &user.Avatar, &user.CreatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return models.User{}, apierr.NotFound("user not found")
		}
		return models.User{}, apierr.Internal(err)
	}
	return user, nil
}

// UpdateProfile updates a user's name and about fields.
func (s *UserService) UpdateProfile(id, name, about string) (models.User, error) {
	res, err := s.db.Exec("UPDATE users SET name = ?, about = ? WHERE id = ?", name, about, id)
	if err != nil {
		return models.User{}, apierr.Internal(err)
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return models.User{}, apierr.NotFound("user not found")
	}
	return s.GetUserByID(id)
}

// UpdateAvatar updates a user's avatar URL.
func (s *UserService) UpdateAvatar(id, avatar string) (models.User, error) {
	res, err := s.db.Exec("UPDATE users SET avatar = ? WHERE id = ?", avatar, id)
	if err != nil {
		return models.User{}, apierr.Internal(err)
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return models.User{}, apierr.NotFound("user not found")
	}
	return s.GetUserByID(id)
}

// isUniqueViolation reports whether err is a sqlite UNIQUE constraint failure.
func isUniqueViolation(err error) bool {
	return err != nil && strings.Contains(err.Error(), "UNIQUE constraint failed")
}

package services

import (
	"database/sql"
	"errors"

	"github.com/google/uuid"
	"github.com/juliebook/juliebook-be/internal/apierr"
	"github.com/juliebook/juliebook-be/internal/models"
)

// CardServiceProvider defines the interface for card services.
type CardServiceProvider interface {
	GetAll() ([]models.Card, error)
	GetByID(id string) (models.Card, error)
	Create(ownerID, name, link string) (models.Card, error)
	Delete(cardID, requesterID string) error
	Like(cardID, userID string) (models.Card, error)
	Unlike(cardID, userID string) (models.Card, error)
}

// CardService provides business logic for the shared card feed.
type CardService struct {
	db *sql.DB
}

// NewCardService creates a new CardService.
func NewCardService(db *sql.DB) *CardService {
	return &CardService{db: db}
}

// GetAll retrieves every card in the feed, newest first, with its like set.
func (s *CardService) GetAll() ([]models.Card, error) {
	rows, err := s.db.Query("SELECT id, name, link, owner_id, created_at FROM cards ORDER BY created_at DESC")
	if err != nil {
		return nil, apierr.Internal(err)
	}
	defer rows.Close()

	cards := []models.Card{}
	for rows.Next() {
		var card models.Card
		if err := rows.Scan(&card.ID, &card.Name, &card.Link, &card.OwnerID, &card.CreatedAt); err != nil {
			return nil, apierr.Internal(err)
		}
		cards = append(cards, card)
	}
	if err := rows.Err(); err != nil {
		return nil, apierr.Internal(err)
	}

	for i := range cards {
		likes, err := s.likesFor(cards[i].ID)
		if err != nil {
			return nil, err
		}
		cards[i].Likes = likes
	}
	return cards, nil
}

// GetByID retrieves a single card with its like set.
func (s *CardService) GetByID(id string) (models.Card, error) {
	var card models.Card
	row := s.db.QueryRow("SELECT id, name, link, owner_id, created_at FROM cards WHERE id = ?", id)
	err := row.Scan(&card.ID, &card.Name, &card.Link, &card.OwnerID, &card.CreatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return models.Card{}, apierr.NotFound("card not found")
		}
		return models.Card{}, apierr.Internal(err)
	}

	likes, err := s.likesFor(card.ID)
	if err != nil {
		return models.Card{}, err
	}
	card.Likes = likes
	return card, nil
}

// Create adds a new card owned by the given user.
func (s *CardService) Create(ownerID, name, link string) (models.Card, error) {
	card := models.Card{
		ID:      uuid.New().String(),
		Name:    name,
		Link:    link,
		OwnerID: ownerID,
		Likes:   []string{},
	}

	stmt, err := s.db.Prepare("INSERT INTO cards(id, name, link, owner_id) VALUES(?, ?, ?, ?)")
	if err != nil {
		return models.Card{}, apierr.Internal(err)
	}
	defer stmt.Close()

	if _, err := stmt.Exec(card.ID, card.Name, card.Link, card.OwnerID); err != nil {
		return models.Card{}, apierr.Internal(err)
	}
	return s.GetByID(card.ID)
}

// Delete removes a card. Only its owner may delete it.
func (s *CardService) Delete(cardID, requesterID string) error {
	card, err := s.GetByID(cardID)
	if err != nil {
		return err
	}
	if card.OwnerID != requesterID {
		return apierr.Forbidden("cannot delete another user's card")
	}

	if _, err := s.db.Exec("DELETE FROM cards WHERE id = ?", cardID); err != nil {
		return apierr.Internal(err)
	}
	return nil
}

// Like records a like for a card. Liking an already-liked card is a no-op.
func (s *CardService) Like(cardID, userID string) (models.Card, error) {
	if _, err := s.GetByID(cardID); err != nil {
		return models.Card{}, err
	}
	_, err := s.db.Exec("INSERT OR IGNORE INTO card_likes(card_id, user_id) VALUES(?, ?)", cardID, userID)
	if err != nil {
		return models.Card{}, apierr.Internal(err)
	}
	return s.GetByID(cardID)
}

// Unlike removes a user's like from a card. Removing an absent like is a no-op.
func (s *CardService) Unlike(cardID, userID string) (models.Card, error) {
	if _, err := s.GetByID(cardID); err != nil {
		return models.Card{}, err
	}
	_, err := s.db.Exec("DELETE FROM card_likes WHERE card_id = ? AND user_id = ?", cardID, userID)
	if err != nil {
		return models.Card{}, apierr.Internal(err)
	}
	return s.GetByID(cardID)
}

func (s *CardService) likesFor(cardID string) ([]string, error) {
	rows, err := s.db.Query("SELECT user_id FROM card_likes WHERE card_id = ? ORDER BY created_at", cardID)
	if err != nil {
		return nil, apierr.Internal(err)
	}
	defer rows.Close()

	likes := []string{}
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, apierr.Internal(err)
		}
		likes = append(likes, id)
	}
	if err := rows.Err(); err != nil {
		return nil, apierr.Internal(err)
	}
	return likes, nil
}

// Package store persists items. Postgres is the production backend; Memory
// backs tests and local runs without a database.
package store

import (
	"context"
	"errors"
	"strings"
	"time"

	"item-tracker/internal/models"

	"github.com/google/uuid"
)

var (
	ErrValidation = errors.New("item name is required")
	ErrNotFound   = errors.New("item not found")
	ErrInvalidID  = errors.New("invalid item id")
)

// Store is the persistence boundary used by the HTTP handlers.
type Store interface {
	// Create persists a new item. Name and description are trimmed; a blank
	// name fails with ErrValidation and a blank description is dropped.
	Create(ctx context.Context, name string, description *string) (models.Item, error)

	// List returns every item, most recent first. It never returns nil on success.
	List(ctx context.Context) ([]models.Item, error)

	// DeleteByID removes the item and returns it as it was stored.
	DeleteByID(ctx context.Context, id string) (models.Item, error)

	Ping(ctx context.Context) error
	Close()
}

// newItem builds the record a backend will persist.
func newItem(name string, description *string, now time.Time) (models.Item, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return models.Item{}, ErrValidation
	}
	return models.Item{
		ID:          uuid.NewString(),
		Name:        name,
		Description: normalizeDescription(description),
		// Postgres keeps microseconds; both backends round the same way.
		Date: now.UTC().Truncate(time.Microsecond),
	}, nil
}

func normalizeDescription(description *string) *string {
	if description == nil {
		return nil
	}
	d := strings.TrimSpace(*description)
	if d == "" {
		return nil
	}
	return &d
}

// parseID validates the identifier format shared by both backends.
func parseID(id string) (uuid.UUID, error) {
	u, err := uuid.Parse(strings.TrimSpace(id))
	if err != nil {
		return uuid.Nil, ErrInvalidID
	}
	return u, nil
}

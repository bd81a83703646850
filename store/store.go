package store

import (
	"context"
	"errors"

	"placebook-server/models"
)

// ErrNotFound is returned when a document does not exist in the store.
var ErrNotFound = errors.New("store: document not found")

// ErrDuplicate is returned when a write would violate a uniqueness
// constraint, such as the unique index on user emails.
var ErrDuplicate = errors.New("store: duplicate key")

// PlaceStore persists place documents.
type PlaceStore interface {
	FindByID(ctx context.Context, id string) (*models.Place, error)
	FindByCreator(ctx context.Context, userID string) ([]models.Place, error)
	// Save inserts or replaces a place, assigning an id when empty.
	Save(ctx context.Context, place *models.Place) error
	Remove(ctx context.Context, id string) error
}

// UserStore persists user documents.
type UserStore interface {
	FindByID(ctx context.Context, id string) (*models.User, error)
	FindByEmail(ctx context.Context, email string) (*models.User, error)
	FindAll(ctx context.Context) ([]models.User, error)
	// Save inserts or replaces a user, assigning an id when empty.
	Save(ctx context.Context, user *models.User) error
}

// Store groups the document collections and the transaction primitive.
// Writes issued with the context passed to fn join the transaction and
// commit together or not at all.
type Store interface {
	Places() PlaceStore
	Users() UserStore
	WithTransaction(ctx context.Context, fn func(ctx context.Context) error) error
}

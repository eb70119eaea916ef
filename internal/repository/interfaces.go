package repository

import (
	"context"
	"errors"
	"time"

	"github.com/Kerhoff/homepage/internal/models"
)

var (
	// ErrNotFound is returned when the addressed row does not exist
	ErrNotFound = errors.New("not found")
	// ErrAlreadyReserved is returned when reserving an item somebody already claimed
	ErrAlreadyReserved = errors.New("already reserved")
)

// Reservation carries the fields written when an item is claimed
type Reservation struct {
	By      string
	Contact *string
	Note    *string
	At      time.Time
}

// WishItemRepository defines the interface for wishlist data operations.
// GetByID returns nil, nil for a missing row.
type WishItemRepository interface {
	Create(ctx context.Context, item *models.WishItem) (*models.WishItem, error)
	GetByID(ctx context.Context, id int64) (*models.WishItem, error)
	List(ctx context.Context) ([]*models.WishItem, error)
	Update(ctx context.Context, item *models.WishItem) (*models.WishItem, error)
	Delete(ctx context.Context, id int64) error
	Reserve(ctx context.Context, id int64, r Reservation) error
	Release(ctx context.Context, id int64) error
}

// PostRepository defines the interface for blog post data operations.
// GetByID returns nil, nil for a missing row.
type PostRepository interface {
	Create(ctx context.Context, post *models.Post) (*models.Post, error)
	GetByID(ctx context.Context, id int64) (*models.Post, error)
	List(ctx context.Context) ([]*models.Post, error)
	Update(ctx context.Context, post *models.Post) (*models.Post, error)
	Delete(ctx context.Context, id int64) error
}

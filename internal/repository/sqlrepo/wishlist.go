package sqlrepo

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/Kerhoff/homepage/internal/models"
	"github.com/Kerhoff/homepage/internal/repository"
)

const wishItemColumns = `id, title, description, link, price, image_path,
	reserved_by, reserved_contact, reserved_note, reserved_at, created_at`

type wishItemRepository struct {
	db *sql.DB
}

// NewWishItemRepository creates a new wishlist repository
func NewWishItemRepository(db *sql.DB) repository.WishItemRepository {
	return &wishItemRepository{db: db}
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanWishItem(row rowScanner) (*models.WishItem, error) {
	item := &models.WishItem{}
	err := row.Scan(
		&item.ID,
		&item.Title,
		&item.Description,
		&item.Link,
		&item.Price,
		&item.ImagePath,
		&item.ReservedBy,
		&item.ReservedContact,
		&item.ReservedNote,
		&item.ReservedAt,
		&item.CreatedAt,
	)
	return item, err
}

func (r *wishItemRepository) Create(ctx context.Context, item *models.WishItem) (*models.WishItem, error) {
	query := `
		INSERT INTO wish_items (title, description, link, price, image_path, created_at)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING id`

	item.CreatedAt = time.Now().UTC()

	err := r.db.QueryRowContext(ctx, query,
		item.Title,
		item.Description,
		item.Link,
		item.Price,
		item.ImagePath,
		item.CreatedAt,
	).Scan(&item.ID)

	if err != nil {
		return nil, fmt.Errorf("failed to create wish item: %w", err)
	}

	return item, nil
}

func (r *wishItemRepository) GetByID(ctx context.Context, id int64) (*models.WishItem, error) {
	query := `SELECT ` + wishItemColumns + ` FROM wish_items WHERE id = $1`

	item, err := scanWishItem(r.db.QueryRowContext(ctx, query, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get wish item: %w", err)
	}

	return item, nil
}

func (r *wishItemRepository) List(ctx context.Context) ([]*models.WishItem, error) {
	query := `SELECT ` + wishItemColumns + ` FROM wish_items ORDER BY created_at DESC, id DESC`

	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to query wish items: %w", err)
	}
	defer rows.Close()

	items := []*models.WishItem{}
	for rows.Next() {
		item, err := scanWishItem(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan wish item: %w", err)
		}
		items = append(items, item)
	}

	return items, rows.Err()
}

// Update writes the editable fields. Reservation fields are left alone so a
// concurrent reserve is never overwritten.
func (r *wishItemRepository) Update(ctx context.Context, item *models.WishItem) (*models.WishItem, error) {
	query := `
		UPDATE wish_items
		SET title = $2, description = $3, link = $4, price = $5, image_path = $6
		WHERE id = $1`

	result, err := r.db.ExecContext(ctx, query,
		item.ID,
		item.Title,
		item.Description,
		item.Link,
		item.Price,
		item.ImagePath,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to update wish item: %w", err)
	}
	if err := expectRow(result, "wish item", item.ID); err != nil {
		return nil, err
	}

	return item, nil
}

func (r *wishItemRepository) Delete(ctx context.Context, id int64) error {
	query := `DELETE FROM wish_items WHERE id = $1`

	result, err := r.db.ExecContext(ctx, query, id)
	if err != nil {
		return fmt.Errorf("failed to delete wish item: %w", err)
	}

	return expectRow(result, "wish item", id)
}

// Reserve claims the item only while reserved_by is NULL, so at most one
// concurrent caller wins.
func (r *wishItemRepository) Reserve(ctx context.Context, id int64, res repository.Reservation) error {
	query := `
		UPDATE wish_items
		SET reserved_by = $2, reserved_contact = $3, reserved_note = $4, reserved_at = $5
		WHERE id = $1 AND reserved_by IS NULL`

	result, err := r.db.ExecContext(ctx, query, id, res.By, res.Contact, res.Note, res.At.UTC())
	if err != nil {
		return fmt.Errorf("failed to reserve wish item: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if rowsAffected == 1 {
		return nil
	}

	exists, err := r.exists(ctx, id)
	if err != nil {
		return err
	}
	if !exists {
		return fmt.Errorf("wish item with ID %d: %w", id, repository.ErrNotFound)
	}
	return fmt.Errorf("wish item with ID %d: %w", id, repository.ErrAlreadyReserved)
}

func (r *wishItemRepository) Release(ctx context.Context, id int64) error {
	query := `
		UPDATE wish_items
		SET reserved_by = NULL, reserved_contact = NULL, reserved_note = NULL, reserved_at = NULL
		WHERE id = $1`

	result, err := r.db.ExecContext(ctx, query, id)
	if err != nil {
		return fmt.Errorf("failed to release wish item: %w", err)
	}

	return expectRow(result, "wish item", id)
}

func (r *wishItemRepository) exists(ctx context.Context, id int64) (bool, error) {
	var one int
	err := r.db.QueryRowContext(ctx, `SELECT 1 FROM wish_items WHERE id = $1`, id).Scan(&one)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return false, nil
		}
		return false, fmt.Errorf("failed to check wish item: %w", err)
	}
	return true, nil
}

// expectRow turns a zero-row write into ErrNotFound
func expectRow(result sql.Result, entity string, id int64) error {
	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}

	if rowsAffected == 0 {
		return fmt.Errorf("%s with ID %d: %w", entity, id, repository.ErrNotFound)
	}

	return nil
}

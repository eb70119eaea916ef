package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/Kerhoff/homepage/internal/media"
	"github.com/Kerhoff/homepage/internal/models"
	"github.com/Kerhoff/homepage/internal/repository"
)

// WishItemInput is the create/update command for a wish item. Nil fields
// are not supplied; on update they keep their stored value.
type WishItemInput struct {
	Title       *string
	Description *string
	Link        *string
	Price       *string
}

// ReserveInput is the anonymous reservation command
type ReserveInput struct {
	Name    string
	Contact *string
	Note    *string
}

// WishlistService manages wish items and their reservation state
type WishlistService struct {
	repo     repository.WishItemRepository
	media    *media.Store
	notifier ReservationNotifier
	now      func() time.Time
	logger   *logrus.Logger
}

// List returns every item, newest first
func (s *WishlistService) List(ctx context.Context) ([]models.WishItemPublic, error) {
	items, err := s.repo.List(ctx)
	if err != nil {
		return nil, err
	}
	out := make([]models.WishItemPublic, 0, len(items))
	for _, item := range items {
		out = append(out, item.Public(media.Root))
	}
	return out, nil
}

// Create validates the input, stores the optional image and inserts the row.
// Nothing is written when validation fails.
func (s *WishlistService) Create(ctx context.Context, in WishItemInput, upload *media.Upload) (models.WishItemPublic, error) {
	if in.Title == nil || strings.TrimSpace(*in.Title) == "" {
		return models.WishItemPublic{}, invalid("title", "title is required")
	}
	if err := checkUpload(upload); err != nil {
		return models.WishItemPublic{}, err
	}

	item := &models.WishItem{
		Title:       strings.TrimSpace(*in.Title),
		Description: optional(in.Description),
		Link:        optional(in.Link),
		Price:       optional(in.Price),
	}

	if upload != nil {
		rel, err := s.media.Save(media.WishlistDir, upload)
		if err != nil {
			return models.WishItemPublic{}, fmt.Errorf("failed to store image: %w", err)
		}
		item.ImagePath = &rel
	}

	created, err := s.repo.Create(ctx, item)
	if err != nil {
		if item.ImagePath != nil {
			if rmErr := s.media.Remove(*item.ImagePath); rmErr != nil {
				s.logger.WithError(rmErr).Warn("failed to clean up image after insert error")
			}
		}
		return models.WishItemPublic{}, err
	}

	s.logger.WithFields(logrus.Fields{"item_id": created.ID, "title": created.Title}).Info("Created wish item")
	return created.Public(media.Root), nil
}

// Update overwrites the supplied fields. A new image replaces the stored
// path; the previous file stays on disk.
func (s *WishlistService) Update(ctx context.Context, id int64, in WishItemInput, upload *media.Upload) (models.WishItemPublic, error) {
	item, err := s.get(ctx, id)
	if err != nil {
		return models.WishItemPublic{}, err
	}

	if in.Title != nil {
		title := strings.TrimSpace(*in.Title)
		if title == "" {
			return models.WishItemPublic{}, invalid("title", "title must not be empty")
		}
		item.Title = title
	}
	if err := checkUpload(upload); err != nil {
		return models.WishItemPublic{}, err
	}
	if in.Description != nil {
		item.Description = optional(in.Description)
	}
	if in.Link != nil {
		item.Link = optional(in.Link)
	}
	if in.Price != nil {
		item.Price = optional(in.Price)
	}

	if upload != nil {
		rel, err := s.media.Save(media.WishlistDir, upload)
		if err != nil {
			return models.WishItemPublic{}, fmt.Errorf("failed to store image: %w", err)
		}
		item.ImagePath = &rel
	}

	if _, err := s.repo.Update(ctx, item); err != nil {
		return models.WishItemPublic{}, mapRepoError(err)
	}

	// Re-read so a reservation that landed meanwhile is reflected.
	return s.view(ctx, id)
}

// Delete removes the row. The image file, if any, is left behind.
func (s *WishlistService) Delete(ctx context.Context, id int64) error {
	if err := s.repo.Delete(ctx, id); err != nil {
		return mapRepoError(err)
	}
	s.logger.WithField("item_id", id).Info("Deleted wish item")
	return nil
}

// Reserve moves a free item to reserved. Reserving a reserved item fails
// with ErrConflict and leaves the existing reservation untouched.
func (s *WishlistService) Reserve(ctx context.Context, id int64, in ReserveInput) (models.WishItemPublic, error) {
	name := strings.TrimSpace(in.Name)
	if name == "" {
		return models.WishItemPublic{}, invalid("name", "name is required")
	}

	err := s.repo.Reserve(ctx, id, repository.Reservation{
		By:      name,
		Contact: in.Contact,
		Note:    in.Note,
		At:      s.now().UTC(),
	})
	if err != nil {
		return models.WishItemPublic{}, mapRepoError(err)
	}

	item, err := s.get(ctx, id)
	if err != nil {
		return models.WishItemPublic{}, err
	}

	s.logger.WithFields(logrus.Fields{"item_id": id, "reserved_by": name}).Info("Wish item reserved")
	if err := s.notifier.NotifyReserved(ctx, item); err != nil {
		s.logger.WithError(err).WithField("item_id", id).Warn("failed to send reservation notification")
	}

	return item.Public(media.Root), nil
}

// Release clears the reservation. Releasing a free item is a no-op success.
func (s *WishlistService) Release(ctx context.Context, id int64) (models.WishItemPublic, error) {
	if err := s.repo.Release(ctx, id); err != nil {
		return models.WishItemPublic{}, mapRepoError(err)
	}
	s.logger.WithField("item_id", id).Info("Wish item released")
	return s.view(ctx, id)
}

func (s *WishlistService) get(ctx context.Context, id int64) (*models.WishItem, error) {
	item, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if item == nil {
		return nil, fmt.Errorf("wish item %d: %w", id, ErrNotFound)
	}
	return item, nil
}

func (s *WishlistService) view(ctx context.Context, id int64) (models.WishItemPublic, error) {
	item, err := s.get(ctx, id)
	if err != nil {
		return models.WishItemPublic{}, err
	}
	return item.Public(media.Root), nil
}

func checkUpload(upload *media.Upload) error {
	if upload == nil {
		return nil
	}
	if !upload.IsImage() {
		return invalid("image", "an image file is required")
	}
	return nil
}

// mapRepoError translates storage sentinels into service errors
func mapRepoError(err error) error {
	switch {
	case errors.Is(err, repository.ErrNotFound):
		return fmt.Errorf("%w: %w", ErrNotFound, err)
	case errors.Is(err, repository.ErrAlreadyReserved):
		return fmt.Errorf("%w: %w", ErrConflict, err)
	default:
		return err
	}
}

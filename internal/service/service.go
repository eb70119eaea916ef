package service

import (
	"context"
	"strings"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/Kerhoff/homepage/internal/media"
	"github.com/Kerhoff/homepage/internal/models"
	"github.com/Kerhoff/homepage/internal/repository"
)

// ReservationNotifier is told about every successful reservation
type ReservationNotifier interface {
	NotifyReserved(ctx context.Context, item *models.WishItem) error
}

type nopNotifier struct{}

func (nopNotifier) NotifyReserved(context.Context, *models.WishItem) error { return nil }

// Service is the business logic layer in front of the repositories.
// It is built once at startup and shared by all request handlers.
type Service struct {
	Wishlist *WishlistService
	Posts    *PostService
}

// Option customizes a Service
type Option func(*options)

type options struct {
	notifier ReservationNotifier
	now      func() time.Time
}

// WithNotifier sends reservation events to n
func WithNotifier(n ReservationNotifier) Option {
	return func(o *options) {
		if n != nil {
			o.notifier = n
		}
	}
}

// WithClock overrides the time source used for timestamps
func WithClock(now func() time.Time) Option {
	return func(o *options) {
		o.now = now
	}
}

// New creates a new Service with all required dependencies.
func New(logger *logrus.Logger,
	wishItems repository.WishItemRepository,
	posts repository.PostRepository,
	mediaStore *media.Store,
	opts ...Option,
) *Service {
	o := options{notifier: nopNotifier{}, now: time.Now}
	for _, opt := range opts {
		opt(&o)
	}

	return &Service{
		Wishlist: &WishlistService{
			repo:     wishItems,
			media:    mediaStore,
			notifier: o.notifier,
			now:      o.now,
			logger:   logger,
		},
		Posts: &PostService{repo: posts},
	}
}

// optional trims a supplied value; blank values collapse to nil
func optional(v *string) *string {
	if v == nil {
		return nil
	}
	s := strings.TrimSpace(*v)
	if s == "" {
		return nil
	}
	return &s
}

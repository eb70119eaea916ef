package sqlrepo

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Kerhoff/homepage/internal/models"
	"github.com/Kerhoff/homepage/internal/repository"
)

func TestWishItemCreateAndGet(t *testing.T) {
	ctx := context.Background()
	repo := NewWishItemRepository(openTestDB(t))

	created, err := repo.Create(ctx, &models.WishItem{
		Title:     "Dron",
		Price:     strPtr("~500 EUR"),
		ImagePath: strPtr("wishlist/abc.jpg"),
	})
	require.NoError(t, err)
	assert.NotZero(t, created.ID)

	got, err := repo.GetByID(ctx, created.ID)
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, "Dron", got.Title)
	assert.Nil(t, got.Description)
	require.NotNil(t, got.Price)
	assert.Equal(t, "~500 EUR", *got.Price)
	require.NotNil(t, got.ImagePath)
	assert.Equal(t, "wishlist/abc.jpg", *got.ImagePath)
	assert.False(t, got.IsReserved())
	assert.Nil(t, got.ReservedAt)
	assert.WithinDuration(t, created.CreatedAt, got.CreatedAt, time.Second)

	missing, err := repo.GetByID(ctx, 999)
	require.NoError(t, err)
	assert.Nil(t, missing)
}

func TestWishItemListNewestFirst(t *testing.T) {
	ctx := context.Background()
	repo := NewWishItemRepository(openTestDB(t))

	for _, title := range []string{"first", "second", "third"} {
		_, err := repo.Create(ctx, &models.WishItem{Title: title})
		require.NoError(t, err)
	}

	items, err := repo.List(ctx)
	require.NoError(t, err)
	require.Len(t, items, 3)
	assert.Equal(t, "third", items[0].Title)
	assert.Equal(t, "first", items[2].Title)
}

func TestWishItemListEmpty(t *testing.T) {
	items, err := NewWishItemRepository(openTestDB(t)).List(context.Background())
	require.NoError(t, err)
	assert.NotNil(t, items)
	assert.Empty(t, items)
}

func TestWishItemUpdateAndDelete(t *testing.T) {
	ctx := context.Background()
	repo := NewWishItemRepository(openTestDB(t))

	item, err := repo.Create(ctx, &models.WishItem{Title: "old"})
	require.NoError(t, err)

	item.Title = "new"
	item.Link = strPtr("https://example.com")
	_, err = repo.Update(ctx, item)
	require.NoError(t, err)

	got, err := repo.GetByID(ctx, item.ID)
	require.NoError(t, err)
	assert.Equal(t, "new", got.Title)
	assert.Equal(t, "https://example.com", *got.Link)

	_, err = repo.Update(ctx, &models.WishItem{ID: 999, Title: "x"})
	assert.ErrorIs(t, err, repository.ErrNotFound)

	require.NoError(t, repo.Delete(ctx, item.ID))
	assert.ErrorIs(t, repo.Delete(ctx, item.ID), repository.ErrNotFound)
}

func TestWishItemReserveAndRelease(t *testing.T) {
	ctx := context.Background()
	repo := NewWishItemRepository(openTestDB(t))

	item, err := repo.Create(ctx, &models.WishItem{Title: "Dron"})
	require.NoError(t, err)

	at := time.Now().UTC()
	require.NoError(t, repo.Reserve(ctx, item.ID, repository.Reservation{By: "Anna", Contact: strPtr("@anna"), At: at}))

	err = repo.Reserve(ctx, item.ID, repository.Reservation{By: "Bob", At: at})
	assert.ErrorIs(t, err, repository.ErrAlreadyReserved)

	got, err := repo.GetByID(ctx, item.ID)
	require.NoError(t, err)
	require.NotNil(t, got.ReservedBy)
	assert.Equal(t, "Anna", *got.ReservedBy)
	assert.Equal(t, "@anna", *got.ReservedContact)
	assert.Nil(t, got.ReservedNote)
	require.NotNil(t, got.ReservedAt)
	assert.WithinDuration(t, at, *got.ReservedAt, time.Second)

	require.NoError(t, repo.Release(ctx, item.ID))
	require.NoError(t, repo.Release(ctx, item.ID))

	got, err = repo.GetByID(ctx, item.ID)
	require.NoError(t, err)
	assert.False(t, got.IsReserved())
	assert.Nil(t, got.ReservedContact)
	assert.Nil(t, got.ReservedNote)
	assert.Nil(t, got.ReservedAt)

	assert.ErrorIs(t, repo.Reserve(ctx, 999, repository.Reservation{By: "x", At: at}), repository.ErrNotFound)
	assert.ErrorIs(t, repo.Release(ctx, 999), repository.ErrNotFound)
}

func TestWishItemReserveSingleWinner(t *testing.T) {
	ctx := context.Background()
	repo := NewWishItemRepository(openTestDB(t))

	item, err := repo.Create(ctx, &models.WishItem{Title: "Dron"})
	require.NoError(t, err)

	const callers = 10
	var (
		wg   sync.WaitGroup
		mu   sync.Mutex
		wins int
	)
	for i := 0; i < callers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			err := repo.Reserve(ctx, item.ID, repository.Reservation{By: "guest", At: time.Now()})
			if err == nil {
				mu.Lock()
				wins++
				mu.Unlock()
				return
			}
			assert.ErrorIs(t, err, repository.ErrAlreadyReserved)
		}()
	}
	wg.Wait()

	assert.Equal(t, 1, wins)
}

package sqlrepo

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Kerhoff/homepage/internal/models"
	"github.com/Kerhoff/homepage/internal/repository"
)

func TestPostCRUD(t *testing.T) {
	ctx := context.Background()
	repo := NewPostRepository(openTestDB(t))

	post, err := repo.Create(ctx, &models.Post{
		Title:   "Hello",
		Summary: "first post",
		Body:    "body",
		Tags:    models.TagsToText([]string{"go", "drones"}),
	})
	require.NoError(t, err)
	assert.NotZero(t, post.ID)

	got, err := repo.GetByID(ctx, post.ID)
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, []string{"go", "drones"}, models.TagsFromText(got.Tags))

	got.Title = "Hello again"
	got.Tags = nil
	_, err = repo.Update(ctx, got)
	require.NoError(t, err)

	got, err = repo.GetByID(ctx, post.ID)
	require.NoError(t, err)
	assert.Equal(t, "Hello again", got.Title)
	assert.Nil(t, got.Tags)

	_, err = repo.Create(ctx, &models.Post{Title: "Second", Summary: "s", Body: "b"})
	require.NoError(t, err)

	posts, err := repo.List(ctx)
	require.NoError(t, err)
	require.Len(t, posts, 2)
	assert.Equal(t, "Second", posts[0].Title)

	require.NoError(t, repo.Delete(ctx, post.ID))
	assert.ErrorIs(t, repo.Delete(ctx, post.ID), repository.ErrNotFound)

	missing, err := repo.GetByID(ctx, post.ID)
	require.NoError(t, err)
	assert.Nil(t, missing)

	_, err = repo.Update(ctx, &models.Post{ID: 999, Title: "x", Summary: "x", Body: "x"})
	assert.ErrorIs(t, err, repository.ErrNotFound)
}

package service

import (
	"context"
	"fmt"
	"strings"

	"github.com/Kerhoff/homepage/internal/models"
	"github.com/Kerhoff/homepage/internal/repository"
)

// PostInput is the create/update command for a post. On update nil fields
// are left as stored; a non-nil Tags (even empty) replaces the tags.
type PostInput struct {
	Title   *string
	Summary *string
	Body    *string
	Tags    *[]string
}

// PostService manages blog posts
type PostService struct {
	repo repository.PostRepository
}

// List returns every post, newest first
func (s *PostService) List(ctx context.Context) ([]models.PostPublic, error) {
	posts, err := s.repo.List(ctx)
	if err != nil {
		return nil, err
	}
	out := make([]models.PostPublic, 0, len(posts))
	for _, p := range posts {
		out = append(out, p.Public())
	}
	return out, nil
}

// Create requires title, summary and body
func (s *PostService) Create(ctx context.Context, in PostInput) (models.PostPublic, error) {
	post := &models.Post{}
	for _, f := range []struct {
		name string
		in   *string
		dst  *string
	}{
		{"title", in.Title, &post.Title},
		{"summary", in.Summary, &post.Summary},
		{"body", in.Body, &post.Body},
	} {
		if f.in == nil || strings.TrimSpace(*f.in) == "" {
			return models.PostPublic{}, invalid(f.name, f.name+" is required")
		}
		*f.dst = *f.in
	}
	if in.Tags != nil {
		post.Tags = models.TagsToText(*in.Tags)
	}

	created, err := s.repo.Create(ctx, post)
	if err != nil {
		return models.PostPublic{}, err
	}
	return created.Public(), nil
}

// Update overwrites the supplied fields
func (s *PostService) Update(ctx context.Context, id int64, in PostInput) (models.PostPublic, error) {
	post, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return models.PostPublic{}, err
	}
	if post == nil {
		return models.PostPublic{}, fmt.Errorf("post %d: %w", id, ErrNotFound)
	}

	for _, f := range []struct {
		name string
		in   *string
		dst  *string
	}{
		{"title", in.Title, &post.Title},
		{"summary", in.Summary, &post.Summary},
		{"body", in.Body, &post.Body},
	} {
		if f.in == nil {
			continue
		}
		if strings.TrimSpace(*f.in) == "" {
			return models.PostPublic{}, invalid(f.name, f.name+" must not be empty")
		}
		*f.dst = *f.in
	}
	if in.Tags != nil {
		post.Tags = models.TagsToText(*in.Tags)
	}

	updated, err := s.repo.Update(ctx, post)
	if err != nil {
		return models.PostPublic{}, mapRepoError(err)
	}
	return updated.Public(), nil
}

// Delete removes the post
func (s *PostService) Delete(ctx context.Context, id int64) error {
	return mapRepoError(s.repo.Delete(ctx, id))
}

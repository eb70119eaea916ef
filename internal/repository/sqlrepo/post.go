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

type postRepository struct {
	db *sql.DB
}

// NewPostRepository creates a new blog post repository
func NewPostRepository(db *sql.DB) repository.PostRepository {
	return &postRepository{db: db}
}

func (r *postRepository) Create(ctx context.Context, post *models.Post) (*models.Post, error) {
	query := `INSERT INTO posts (title, summary, body, tags, created_at)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id`
	post.CreatedAt = time.Now().UTC()
	err := r.db.QueryRowContext(ctx, query,
		post.Title, post.Summary, post.Body, post.Tags, post.CreatedAt,
	).Scan(&post.ID)
	if err != nil {
		return nil, fmt.Errorf("failed to create post: %w", err)
	}
	return post, nil
}

func (r *postRepository) GetByID(ctx context.Context, id int64) (*models.Post, error) {
	query := `SELECT id, title, summary, body, tags, created_at FROM posts WHERE id = $1`
	post := &models.Post{}
	err := r.db.QueryRowContext(ctx, query, id).Scan(
		&post.ID, &post.Title, &post.Summary, &post.Body, &post.Tags, &post.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get post: %w", err)
	}
	return post, nil
}

func (r *postRepository) List(ctx context.Context) ([]*models.Post, error) {
	query := `SELECT id, title, summary, body, tags, created_at
		FROM posts ORDER BY created_at DESC, id DESC`

	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to query posts: %w", err)
	}
	defer rows.Close()

	posts := []*models.Post{}
	for rows.Next() {
		post := &models.Post{}
		if err := rows.Scan(
			&post.ID, &post.Title, &post.Summary, &post.Body, &post.Tags, &post.CreatedAt,
		); err != nil {
			return nil, fmt.Errorf("failed to scan post: %w", err)
		}
		posts = append(posts, post)
	}
	return posts, rows.Err()
}

func (r *postRepository) Update(ctx context.Context, post *models.Post) (*models.Post, error) {
	query := `UPDATE posts SET title = $2, summary = $3, body = $4, tags = $5 WHERE id = $1`
	result, err := r.db.ExecContext(ctx, query,
		post.ID, post.Title, post.Summary, post.Body, post.Tags,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to update post: %w", err)
	}
	if err := expectRow(result, "post", post.ID); err != nil {
		return nil, err
	}
	return post, nil
}

func (r *postRepository) Delete(ctx context.Context, id int64) error {
	result, err := r.db.ExecContext(ctx, `DELETE FROM posts WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("failed to delete post: %w", err)
	}
	return expectRow(result, "post", id)
}

package models

import "time"

// Post represents a blog entry. Tags holds the stored comma-joined form.
type Post struct {
	ID        int64     `json:"id" db:"id"`
	Title     string    `json:"title" db:"title"`
	Summary   string    `json:"summary" db:"summary"`
	Body      string    `json:"body" db:"body"`
	Tags      *string   `json:"tags" db:"tags"`
	CreatedAt time.Time `json:"created_at" db:"created_at"`
}

// PostPublic is the shape returned by the API
type PostPublic struct {
	ID        int64     `json:"id"`
	Title     string    `json:"title"`
	Summary   string    `json:"summary"`
	Body      string    `json:"body"`
	Tags      []string  `json:"tags"`
	CreatedAt time.Time `json:"created_at"`
}

// Public expands the stored tags into a list
func (p *Post) Public() PostPublic {
	return PostPublic{
		ID:        p.ID,
		Title:     p.Title,
		Summary:   p.Summary,
		Body:      p.Body,
		Tags:      TagsFromText(p.Tags),
		CreatedAt: p.CreatedAt,
	}
}

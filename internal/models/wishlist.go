package models

import "time"

// WishItem represents a gift suggestion on the wishlist
type WishItem struct {
	ID              int64      `json:"id" db:"id"`
	Title           string     `json:"title" db:"title"`
	Description     *string    `json:"description" db:"description"`
	Link            *string    `json:"link" db:"link"`
	Price           *string    `json:"price" db:"price"`
	ImagePath       *string    `json:"image_path" db:"image_path"`
	ReservedBy      *string    `json:"reserved_by" db:"reserved_by"`
	ReservedContact *string    `json:"reserved_contact" db:"reserved_contact"`
	ReservedNote    *string    `json:"reserved_note" db:"reserved_note"`
	ReservedAt      *time.Time `json:"reserved_at" db:"reserved_at"`
	CreatedAt       time.Time  `json:"created_at" db:"created_at"`
}

// IsReserved returns true if somebody has claimed the item
func (w *WishItem) IsReserved() bool {
	return w.ReservedBy != nil
}

// WishItemPublic is the shape returned by the API
type WishItemPublic struct {
	ID              int64      `json:"id"`
	Title           string     `json:"title"`
	Description     *string    `json:"description"`
	Link            *string    `json:"link"`
	Price           *string    `json:"price"`
	Reserved        bool       `json:"reserved"`
	ReservedBy      *string    `json:"reserved_by"`
	ReservedContact *string    `json:"reserved_contact"`
	ReservedNote    *string    `json:"reserved_note"`
	ReservedAt      *time.Time `json:"reserved_at"`
	ImageURL        *string    `json:"image_url"`
	CreatedAt       time.Time  `json:"created_at"`
}

// Public projects the item into its API view. mediaRoot is prefixed to the
// stored image path.
func (w *WishItem) Public(mediaRoot string) WishItemPublic {
	var imageURL *string
	if w.ImagePath != nil && *w.ImagePath != "" {
		u := mediaRoot + "/" + *w.ImagePath
		imageURL = &u
	}
	return WishItemPublic{
		ID:              w.ID,
		Title:           w.Title,
		Description:     w.Description,
		Link:            w.Link,
		Price:           w.Price,
		Reserved:        w.IsReserved(),
		ReservedBy:      w.ReservedBy,
		ReservedContact: w.ReservedContact,
		ReservedNote:    w.ReservedNote,
		ReservedAt:      w.ReservedAt,
		ImageURL:        imageURL,
		CreatedAt:       w.CreatedAt,
	}
}

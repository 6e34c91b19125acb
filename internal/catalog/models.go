package catalog

import "time"

type Category struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	Slug      string    `json:"slug"`
	CreatedAt time.Time `json:"created_at"`
}

type Product struct {
	ID            string    `json:"id"`
	Name          string    `json:"name"`
	Description   string    `json:"description"`
	Price         int64     `json:"price"`
	OriginalPrice *int64    `json:"original_price,omitempty"`
	Stock         int       `json:"stock"`
	ImageURL      *string   `json:"image_url,omitempty"`
	IsFeatured    bool      `json:"is_featured"`
	CategoryID    *string   `json:"category_id,omitempty"`
	CreatedAt     time.Time `json:"created_at"`
	Category      *Category `json:"category,omitempty"`
}

// ProductInput carries the writable fields for admin create/update.
type ProductInput struct {
	Name          string  `json:"name"`
	Description   string  `json:"description"`
	Price         int64   `json:"price"`
	OriginalPrice *int64  `json:"original_price"`
	Stock         int     `json:"stock"`
	ImageURL      *string `json:"image_url"`
	IsFeatured    bool    `json:"is_featured"`
	CategoryID    *string `json:"category_id"`
}

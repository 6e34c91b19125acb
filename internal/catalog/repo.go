package catalog

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

var ErrNotFound = errors.New("not found")

type Repo struct{ DB *pgxpool.Pool }

const productColumns = `
	p.id, p.name, p.description, p.price, p.original_price, p.stock,
	p.image_url, p.is_featured, p.category_id, p.created_at,
	c.id, c.name, c.slug, c.created_at`

func scanProduct(row pgx.Row) (Product, error) {
	var (
		p     Product
		cID   *string
		cName *string
		cSlug *string
		cDate *time.Time
	)
	err := row.Scan(&p.ID, &p.Name, &p.Description, &p.Price, &p.OriginalPrice,
		&p.Stock, &p.ImageURL, &p.IsFeatured, &p.CategoryID, &p.CreatedAt,
		&cID, &cName, &cSlug, &cDate)
	if err != nil {
		return Product{}, err
	}
	if cID != nil {
		p.Category = &Category{ID: *cID, Name: *cName, Slug: *cSlug, CreatedAt: *cDate}
	}
	return p, nil
}

func (r *Repo) ListCategories(ctx context.Context) ([]Category, error) {
	rows, err := r.DB.Query(ctx, `SELECT id, name, slug, created_at FROM categories ORDER BY name`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []Category
	for rows.Next() {
		var c Category
		if err := rows.Scan(&c.ID, &c.Name, &c.Slug, &c.CreatedAt); err != nil {
			return nil, err
		}
		out = append(out, c)
	}
	return out, rows.Err()
}

// ListProducts returns products newest first, optionally filtered by category
// slug. An unknown slug yields an empty list, not an error.
func (r *Repo) ListProducts(ctx context.Context, categorySlug string) ([]Product, error) {
	q := `SELECT ` + productColumns + `
	      FROM products p LEFT JOIN categories c ON c.id = p.category_id`
	args := []any{}
	if categorySlug != "" {
		q += ` WHERE c.slug = $1`
		args = append(args, categorySlug)
	}
	q += ` ORDER BY p.created_at DESC`

	rows, err := r.DB.Query(ctx, q, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []Product
	for rows.Next() {
		p, err := scanProduct(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, p)
	}
	return out, rows.Err()
}

func (r *Repo) ListFeatured(ctx context.Context) ([]Product, error) {
	rows, err := r.DB.Query(ctx, `SELECT `+productColumns+`
		FROM products p LEFT JOIN categories c ON c.id = p.category_id
		WHERE p.is_featured ORDER BY p.created_at DESC LIMIT 8`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []Product
	for rows.Next() {
		p, err := scanProduct(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, p)
	}
	return out, rows.Err()
}

func (r *Repo) GetProduct(ctx context.Context, id string) (Product, error) {
	row := r.DB.QueryRow(ctx, `SELECT `+productColumns+`
		FROM products p LEFT JOIN categories c ON c.id = p.category_id
		WHERE p.id = $1`, id)
	p, err := scanProduct(row)
	if errors.Is(err, pgx.ErrNoRows) {
		return Product{}, ErrNotFound
	}
	return p, err
}

func (r *Repo) CreateProduct(ctx context.Context, in ProductInput) (Product, error) {
	id := uuid.NewString()
	_, err := r.DB.Exec(ctx, `
		INSERT INTO products(id, name, description, price, original_price, stock,
		                     image_url, is_featured, category_id)
		VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9)`,
		id, in.Name, in.Description, in.Price, in.OriginalPrice, in.Stock,
		in.ImageURL, in.IsFeatured, in.CategoryID)
	if err != nil {
		return Product{}, err
	}
	return r.GetProduct(ctx, id)
}

func (r *Repo) UpdateProduct(ctx context.Context, id string, in ProductInput) (Product, error) {
	ct, err := r.DB.Exec(ctx, `
		UPDATE products SET name=$2, description=$3, price=$4, original_price=$5,
		                    stock=$6, image_url=$7, is_featured=$8, category_id=$9
		WHERE id=$1`,
		id, in.Name, in.Description, in.Price, in.OriginalPrice, in.Stock,
		in.ImageURL, in.IsFeatured, in.CategoryID)
	if err != nil {
		return Product{}, err
	}
	if ct.RowsAffected() == 0 {
		return Product{}, ErrNotFound
	}
	return r.GetProduct(ctx, id)
}

func (r *Repo) DeleteProduct(ctx context.Context, id string) error {
	ct, err := r.DB.Exec(ctx, `DELETE FROM products WHERE id=$1`, id)
	if err != nil {
		return err
	}
	if ct.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *Repo) CreateCategory(ctx context.Context, name string) (Category, error) {
	id := uuid.NewString()
	slug := Slugify(name)
	var c Category
	err := r.DB.QueryRow(ctx, `
		INSERT INTO categories(id, name, slug) VALUES ($1,$2,$3)
		RETURNING id, name, slug, created_at`, id, name, slug).
		Scan(&c.ID, &c.Name, &c.Slug, &c.CreatedAt)
	return c, err
}

func (r *Repo) DeleteCategory(ctx context.Context, id string) error {
	ct, err := r.DB.Exec(ctx, `DELETE FROM categories WHERE id=$1`, id)
	if err != nil {
		return err
	}
	if ct.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

// Slugify lowercases and hyphenates a category name for use in URLs.
func Slugify(name string) string {
	s := strings.ToLower(strings.TrimSpace(name))
	var b strings.Builder
	prevDash := false
	for _, r := range s {
		switch {
		case r >= 'a' && r <= 'z', r >= '0' && r <= '9':
			b.WriteRune(r)
			prevDash = false
		default:
			if !prevDash && b.Len() > 0 {
				b.WriteByte('-')
				prevDash = true
			}
		}
	}
	return strings.TrimSuffix(b.String(), "-")
}

package httpx

import (
	"context"
	"sort"
	"strconv"
	"sync"

	"github.com/enkhjin/monshop/internal/catalog"
)

var _ CatalogStore = (*fakeStore)(nil)

type fakeStore struct {
	mu         sync.Mutex
	nextID     int
	products   map[string]catalog.Product
	categories map[string]catalog.Category
}

func newFakeStore() *fakeStore {
	return &fakeStore{
		products:   map[string]catalog.Product{},
		categories: map[string]catalog.Category{},
	}
}

func (f *fakeStore) add(p catalog.Product) catalog.Product {
	f.mu.Lock()
	defer f.mu.Unlock()
	if p.ID == "" {
		f.nextID++
		p.ID = "p" + strconv.Itoa(f.nextID)
	}
	f.products[p.ID] = p
	return p
}

func (f *fakeStore) ListCategories(ctx context.Context) ([]catalog.Category, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []catalog.Category
	for _, c := range f.categories {
		out = append(out, c)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out, nil
}

func (f *fakeStore) ListProducts(ctx context.Context, categorySlug string) ([]catalog.Product, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []catalog.Product
	for _, p := range f.products {
		if categorySlug == "" || (p.Category != nil && p.Category.Slug == categorySlug) {
			out = append(out, p)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (f *fakeStore) ListFeatured(ctx context.Context) ([]catalog.Product, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []catalog.Product
	for _, p := range f.products {
		if p.IsFeatured {
			out = append(out, p)
		}
	}
	return out, nil
}

func (f *fakeStore) GetProduct(ctx context.Context, id string) (catalog.Product, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	p, ok := f.products[id]
	if !ok {
		return catalog.Product{}, catalog.ErrNotFound
	}
	return p, nil
}

func (f *fakeStore) CreateProduct(ctx context.Context, in catalog.ProductInput) (catalog.Product, error) {
	return f.add(catalog.Product{
		Name: in.Name, Description: in.Description, Price: in.Price,
		OriginalPrice: in.OriginalPrice, Stock: in.Stock, ImageURL: in.ImageURL,
		IsFeatured: in.IsFeatured, CategoryID: in.CategoryID,
	}), nil
}

func (f *fakeStore) UpdateProduct(ctx context.Context, id string, in catalog.ProductInput) (catalog.Product, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	p, ok := f.products[id]
	if !ok {
		return catalog.Product{}, catalog.ErrNotFound
	}
	p.Name, p.Price, p.Stock = in.Name, in.Price, in.Stock
	f.products[id] = p
	return p, nil
}

func (f *fakeStore) DeleteProduct(ctx context.Context, id string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if _, ok := f.products[id]; !ok {
		return catalog.ErrNotFound
	}
	delete(f.products, id)
	return nil
}

func (f *fakeStore) CreateCategory(ctx context.Context, name string) (catalog.Category, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.nextID++
	c := catalog.Category{ID: "c" + strconv.Itoa(f.nextID), Name: name, Slug: catalog.Slugify(name)}
	f.categories[c.ID] = c
	return c, nil
}

func (f *fakeStore) DeleteCategory(ctx context.Context, id string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if _, ok := f.categories[id]; !ok {
		return catalog.ErrNotFound
	}
	delete(f.categories, id)
	return nil
}

type fakeTokens struct {
	mu     sync.Mutex
	tokens map[string]bool
}

func newFakeTokens() *fakeTokens { return &fakeTokens{tokens: map[string]bool{}} }

func (f *fakeTokens) Put(ctx context.Context, token string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.tokens[token] = true
	return nil
}

func (f *fakeTokens) Check(ctx context.Context, token string) bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.tokens[token]
}

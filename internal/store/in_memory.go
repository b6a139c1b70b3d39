package store

import (
	"context"
	"sort"
	"sync"

	perrors "github.com/abgdnv/catalog/internal/errors"
)

// inMemory implements ProductStore using an in-memory map.
type inMemory struct {
	mu       sync.RWMutex
	products map[int64]Product
	nextID   int64
}

// NewInMemoryStore creates a new instance of ProductStore
func NewInMemoryStore() ProductStore {
	return &inMemory{
		products: make(map[int64]Product),
		nextID:   1,
	}
}

// FindByID retrieves a product by its ID.
func (s *inMemory) FindByID(_ context.Context, id int64) (*Product, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	p, ok := s.products[id]
	if !ok {
		return nil, perrors.ErrProductNotFound
	}
	return &p, nil
}

// FindPage retrieves one window of products ordered by ascending ID.
func (s *inMemory) FindPage(_ context.Context, offset, limit int32) ([]Product, int64, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	all := make([]Product, 0, len(s.products))
	for _, p := range s.products {
		all = append(all, p)
	}
	sort.Slice(all, func(i, j int) bool { return all[i].ID < all[j].ID })

	total := int64(len(all))
	start := int(offset)
	if start < 0 {
		start = 0
	}
	if start > len(all) {
		start = len(all)
	}
	end := start + int(limit)
	if end > len(all) {
		end = len(all)
	}
	return all[start:end], total, nil
}

// Create creates a new product and returns it.
func (s *inMemory) Create(_ context.Context, params CreateParams) (*Product, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	product := Product{
		ID:          s.nextID,
		Name:        params.Name,
		Description: params.Description,
		Price:       params.Price,
		ImageURL:    params.ImageURL,
	}
	s.nextID++
	s.products[product.ID] = product

	return &product, nil
}

// Update applies the non-nil fields of params to an existing product.
func (s *inMemory) Update(_ context.Context, id int64, params UpdateParams) (*Product, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	product, ok := s.products[id]
	if !ok {
		return nil, perrors.ErrProductNotFound
	}
	if params.Name != nil {
		product.Name = *params.Name
	}
	if params.Description != nil {
		product.Description = *params.Description
	}
	if params.Price != nil {
		product.Price = *params.Price
	}
	if params.ImageURL != nil {
		product.ImageURL = *params.ImageURL
	}
	s.products[id] = product

	return &product, nil
}

// DeleteByID deletes a product by its ID.
func (s *inMemory) DeleteByID(_ context.Context, id int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.products[id]; !exists {
		return perrors.ErrProductNotFound
	}
	delete(s.products, id)
	return nil
}

// Package store provides an interface for product storage operations.
package store

import "context"

// Product is a single catalog row.
type Product struct {
	ID          int64
	Name        string
	Description string
	Price       float64
	ImageURL    string
}

// CreateParams carries the fields of a new product. All of them are required;
// the store assigns the ID.
type CreateParams struct {
	Name        string
	Description string
	Price       float64
	ImageURL    string
}

// UpdateParams carries a partial update. A nil field keeps its stored value.
type UpdateParams struct {
	Name        *string
	Description *string
	Price       *float64
	ImageURL    *string
}

// ProductStore is an interface for product storage operations.
// It abstracts the underlying data store, allowing for different implementations (e.g., in-memory, database).
// Mutating operations are atomic: they either commit fully or leave no trace.
type ProductStore interface {
	// FindByID retrieves a single product by its unique identifier.
	// Returns ErrProductNotFound if no product exists with the given ID.
	FindByID(ctx context.Context, id int64) (*Product, error)

	// FindPage returns one window of products ordered by ascending ID,
	// together with the total row count taken from the same snapshot.
	FindPage(ctx context.Context, offset, limit int32) ([]Product, int64, error)

	// Create adds a new product and returns it with its assigned ID.
	Create(ctx context.Context, params CreateParams) (*Product, error)

	// Update applies the non-nil fields of params to an existing product.
	// Returns ErrProductNotFound if no product exists with the given ID.
	Update(ctx context.Context, id int64, params UpdateParams) (*Product, error)

	// DeleteByID removes a product by its ID.
	// Returns ErrProductNotFound if no product exists with the given ID.
	DeleteByID(ctx context.Context, id int64) error
}

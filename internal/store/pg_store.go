package store

import (
	"context"
	"errors"
	"fmt"

	perrors "github.com/abgdnv/catalog/internal/errors"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

const productColumns = "id, name, description, price, image_url"

// PgStore implements ProductStore using PostgreSQL as the data store.
type PgStore struct {
	db *pgxpool.Pool
}

// NewPgStore creates a new instance of ProductStore using a PostgreSQL connection pool.
func NewPgStore(dbp *pgxpool.Pool) *PgStore {
	return &PgStore{db: dbp}
}

// FindByID retrieves a product by its unique identifier.
// Returns ErrProductNotFound if no product exists with the given ID.
func (p *PgStore) FindByID(ctx context.Context, id int64) (*Product, error) {
	row := p.db.QueryRow(ctx, "SELECT "+productColumns+" FROM products WHERE id = $1", id)
	product, err := scanProduct(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, perrors.ErrProductNotFound
		}
		return nil, fmt.Errorf("failed to find product by ID: %w", err)
	}
	return product, nil
}

// FindPage retrieves one window of products ordered by ascending ID, plus the
// total row count. Both reads run in one transaction so the pair is consistent.
func (p *PgStore) FindPage(ctx context.Context, offset, limit int32) ([]Product, int64, error) {
	var products []Product
	var total int64

	txErr := p.withTransaction(ctx, func(tx pgx.Tx) error {
		if err := tx.QueryRow(ctx, "SELECT count(*) FROM products").Scan(&total); err != nil {
			return fmt.Errorf("failed to count products: %w", err)
		}
		rows, err := tx.Query(ctx,
			"SELECT "+productColumns+" FROM products ORDER BY id LIMIT $1 OFFSET $2", limit, offset)
		if err != nil {
			return fmt.Errorf("failed to find products: %w", err)
		}
		defer rows.Close()

		// Size the slice by the rows the window can actually hold, not by the
		// caller-controlled limit.
		capHint := total - int64(offset)
		if capHint > int64(limit) {
			capHint = int64(limit)
		}
		if capHint < 0 {
			capHint = 0
		}
		products = make([]Product, 0, capHint)
		for rows.Next() {
			var product Product
			if err := rows.Scan(&product.ID, &product.Name, &product.Description, &product.Price, &product.ImageURL); err != nil {
				return fmt.Errorf("failed to scan product: %w", err)
			}
			products = append(products, product)
		}
		return rows.Err()
	})

	if txErr != nil {
		return nil, 0, txErr
	}

	return products, total, nil
}

// Create adds a new product to the system.
// Returns an error if the product cannot be created.
func (p *PgStore) Create(ctx context.Context, params CreateParams) (*Product, error) {
	var created *Product

	txErr := p.withTransaction(ctx, func(tx pgx.Tx) error {
		row := tx.QueryRow(ctx,
			"INSERT INTO products (name, description, price, image_url) VALUES ($1, $2, $3, $4) RETURNING "+productColumns,
			params.Name, params.Description, params.Price, params.ImageURL)
		product, err := scanProduct(row)
		if err != nil {
			return fmt.Errorf("failed to create product: %w", err)
		}
		created = product
		return nil
	})

	if txErr != nil {
		return nil, txErr
	}

	return created, nil
}

// Update applies the non-nil fields of params to an existing product.
// Returns ErrProductNotFound if no product exists with the given ID.
func (p *PgStore) Update(ctx context.Context, id int64, params UpdateParams) (*Product, error) {
	var updated *Product

	txErr := p.withTransaction(ctx, func(tx pgx.Tx) error {
		row := tx.QueryRow(ctx,
			`UPDATE products
			    SET name        = COALESCE($2, name),
			        description = COALESCE($3, description),
			        price       = COALESCE($4, price),
			        image_url   = COALESCE($5, image_url)
			  WHERE id = $1
			  RETURNING `+productColumns,
			id, params.Name, params.Description, params.Price, params.ImageURL)
		product, err := scanProduct(row)
		if err != nil {
			if errors.Is(err, pgx.ErrNoRows) {
				return perrors.ErrProductNotFound
			}
			return fmt.Errorf("failed to update product: %w", err)
		}
		updated = product
		return nil
	})

	if txErr != nil {
		return nil, txErr
	}

	return updated, nil
}

// DeleteByID removes a product by its unique identifier.
// Returns ErrProductNotFound if no product exists with the given ID.
func (p *PgStore) DeleteByID(ctx context.Context, id int64) error {
	return p.withTransaction(ctx, func(tx pgx.Tx) error {
		tag, err := tx.Exec(ctx, "DELETE FROM products WHERE id = $1", id)
		if err != nil {
			return fmt.Errorf("failed to delete product by ID: %w", err)
		}
		if tag.RowsAffected() == 0 {
			return perrors.ErrProductNotFound
		}
		return nil
	})
}

// withTransaction runs fn inside a transaction, rolling back on any error
// before surfacing it and committing otherwise.
func (p *PgStore) withTransaction(ctx context.Context, fn func(tx pgx.Tx) error) error {
	tx, err := p.db.Begin(ctx)
	if err != nil {
		return fmt.Errorf("%w: %v", perrors.ErrTransactionBegin, err)
	}

	err = fn(tx)
	if err != nil {
		if rbErr := tx.Rollback(ctx); rbErr != nil && !errors.Is(rbErr, pgx.ErrTxClosed) {
			return fmt.Errorf("%w: %v", perrors.ErrTransactionRollback, rbErr)
		}
		return err
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("%w: %v", perrors.ErrTransactionCommit, err)
	}

	return nil
}

func scanProduct(row pgx.Row) (*Product, error) {
	var p Product
	if err := row.Scan(&p.ID, &p.Name, &p.Description, &p.Price, &p.ImageURL); err != nil {
		return nil, err
	}
	return &p, nil
}

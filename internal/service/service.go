// Package service implements the product repository: it owns field validation
// and translates catalog operations into store calls.
package service

import (
	"context"
	"errors"
	"fmt"
	"reflect"
	"strings"

	perrors "github.com/abgdnv/catalog/internal/errors"
	"github.com/abgdnv/catalog/internal/pagination"
	"github.com/abgdnv/catalog/internal/store"
	"github.com/go-playground/validator/v10"
)

// ProductService defines the methods for managing products.
// It abstracts the underlying business logic and data access.
type ProductService interface {
	// Add validates and creates a new product.
	// Returns *errors.ValidationError when a required field is missing.
	Add(ctx context.Context, product ProductCreateDto) (*ProductDto, error)

	// Update applies the set fields of product to an existing product.
	// Returns ErrProductNotFound if no product exists with the given ID.
	Update(ctx context.Context, id int64, product ProductUpdateDto) (*ProductDto, error)

	// DeleteByID removes a product by its ID.
	// Returns ErrProductNotFound if no product exists with the given ID.
	DeleteByID(ctx context.Context, id int64) error

	// List returns one page of products plus the computed page window.
	// Returns *errors.ValidationError when page or perPage is not positive.
	List(ctx context.Context, page, perPage int32) (*ProductListDto, error)
}

// Service implements ProductService and provides methods to manage products.
type Service struct {
	repository store.ProductStore
	validate   *validator.Validate
}

// NewService creates a new instance of ProductService with the provided repository.
func NewService(repo store.ProductStore) *Service {
	v := validator.New()
	// Report fields under their json names so validation messages match the wire format.
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})
	return &Service{
		repository: repo,
		validate:   v,
	}
}

// ProductCreateDto represents the data transfer object for creating a new product.
// Price is a pointer so that an explicit zero passes the required check.
type ProductCreateDto struct {
	Name        string   `json:"name"        validate:"required"`
	Description string   `json:"description" validate:"required"`
	Price       *float64 `json:"price"       validate:"required"`
	ImageURL    string   `json:"image_url"   validate:"required"`
}

// ProductUpdateDto represents a partial update. Unset fields keep their stored values.
type ProductUpdateDto struct {
	Name        *string  `json:"name"`
	Description *string  `json:"description"`
	Price       *float64 `json:"price"`
	ImageURL    *string  `json:"image_url"`
}

// ProductDto represents the data transfer object for a product.
type ProductDto struct {
	ID          int64   `json:"id"`
	Name        string  `json:"name"`
	Description string  `json:"description"`
	ImageURL    string  `json:"image_url"`
	Price       float64 `json:"price"`
}

// ProductListDto is one page of products plus its window description.
type ProductListDto struct {
	Products []ProductDto
	Page     pagination.Page
}

// Add validates the input and creates a new product.
// Returns *errors.ValidationError naming the failed fields, or a
// *errors.StorageError when the store rejects the write.
func (s *Service) Add(ctx context.Context, product ProductCreateDto) (*ProductDto, error) {
	if err := s.validate.Struct(product); err != nil {
		var validationErrors validator.ValidationErrors
		if errors.As(err, &validationErrors) {
			fields := make([]string, 0, len(validationErrors))
			for _, fieldErr := range validationErrors {
				fields = append(fields, fieldErr.Field())
			}
			return nil, perrors.NewValidationError(fields...)
		}
		return nil, fmt.Errorf("failed to validate product: %w", err)
	}

	created, err := s.repository.Create(ctx, store.CreateParams{
		Name:        product.Name,
		Description: product.Description,
		Price:       *product.Price,
		ImageURL:    product.ImageURL,
	})
	if err != nil {
		return nil, &perrors.StorageError{Err: err}
	}

	return toDto(created), nil
}

// Update applies the set fields of product to an existing product.
// Returns ErrProductNotFound if no product exists with the given ID.
func (s *Service) Update(ctx context.Context, id int64, product ProductUpdateDto) (*ProductDto, error) {
	updated, err := s.repository.Update(ctx, id, store.UpdateParams{
		Name:        product.Name,
		Description: product.Description,
		Price:       product.Price,
		ImageURL:    product.ImageURL,
	})
	if err != nil {
		if errors.Is(err, perrors.ErrProductNotFound) {
			return nil, err
		}
		return nil, &perrors.StorageError{Err: err}
	}

	return toDto(updated), nil
}

// DeleteByID deletes a product by its ID.
// Returns ErrProductNotFound if no product exists with the given ID.
func (s *Service) DeleteByID(ctx context.Context, id int64) error {
	if err := s.repository.DeleteByID(ctx, id); err != nil {
		if errors.Is(err, perrors.ErrProductNotFound) {
			return err
		}
		return &perrors.StorageError{Err: err}
	}
	return nil
}

// List returns one page of products ordered by ascending ID. A page beyond the
// last one yields an empty slice, not an error.
func (s *Service) List(ctx context.Context, page, perPage int32) (*ProductListDto, error) {
	fields := make([]string, 0, 2)
	if page < 1 {
		fields = append(fields, "page")
	}
	if perPage < 1 {
		fields = append(fields, "per_page")
	}
	if len(fields) > 0 {
		return nil, perrors.NewValidationError(fields...)
	}

	offset, limit := pagination.Window(page, perPage)
	products, total, err := s.repository.FindPage(ctx, offset, limit)
	if err != nil {
		return nil, &perrors.StorageError{Err: err}
	}

	productDTOs := make([]ProductDto, len(products))
	for i, item := range products {
		productDTOs[i] = *toDto(&item)
	}

	return &ProductListDto{
		Products: productDTOs,
		Page:     pagination.Compute(page, perPage, total),
	}, nil
}

// toDto converts a store.Product to a ProductDto.
func toDto(product *store.Product) *ProductDto {
	return &ProductDto{
		ID:          product.ID,
		Name:        product.Name,
		Description: product.Description,
		ImageURL:    product.ImageURL,
		Price:       product.Price,
	}
}

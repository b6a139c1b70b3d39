// Package rest provides HTTP handlers for catalog operations.
package rest

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strconv"

	caterrors "github.com/abgdnv/catalog/internal/errors"
	"github.com/abgdnv/catalog/internal/service"
	"github.com/abgdnv/catalog/pkg/web"
	"github.com/go-chi/chi/v5"
)

const (
	defaultPage    = 1
	defaultPerPage = 3
)

type Handler struct {
	service service.ProductService
	logger  *slog.Logger
}

// NewHandler creates a new instance of the catalog API with the provided service.
func NewHandler(service service.ProductService, logger *slog.Logger) *Handler {
	return &Handler{
		service: service,
		logger:  logger.With("component", "rest"),
	}
}

// RegisterRoutes registers the HTTP routes for the catalog service.
func (h *Handler) RegisterRoutes(r *chi.Mux) {
	r.Get("/get_products", h.List)
	r.Post("/add_product", h.Add)
	r.Put("/update_product/{id}", h.Update)
	r.Delete("/delete_product/{id}", h.DeleteByID)

	r.Get("/healthz", h.HealthCheck)
	r.NotFound(h.NotFound)
}

// productListResponse is the body of GET /get_products. The link fields are
// null when there is no corresponding page.
type productListResponse struct {
	Products []service.ProductDto `json:"products"`
	NextPage *string              `json:"next_page"`
	PrevPage *string              `json:"prev_page"`
}

// List returns one page of products. Malformed or missing query parameters
// fall back to the defaults instead of erroring.
func (h *Handler) List(w http.ResponseWriter, r *http.Request) {
	mLogger := h.loggerWithReqID(r)
	page := web.QueryPositiveInt(r, "page", defaultPage)
	perPage := web.QueryPositiveInt(r, "per_page", defaultPerPage)

	mLogger.DebugContext(r.Context(), "Received request to list products", "page", page, "per_page", perPage)
	list, err := h.service.List(r.Context(), page, perPage)
	if err != nil {
		mLogger.ErrorContext(r.Context(), "Error retrieving product list", "error", err)
		h.respondServiceError(w, mLogger, err)
		return
	}

	resp := productListResponse{Products: list.Products}
	if list.Page.HasNext {
		link := pageLink(list.Page.Next)
		resp.NextPage = &link
	}
	if list.Page.HasPrev {
		link := pageLink(list.Page.Prev)
		resp.PrevPage = &link
	}
	mLogger.DebugContext(r.Context(), "Successfully retrieved product list", "count", len(list.Products))
	web.RespondJSON(w, mLogger, http.StatusOK, resp)
}

// Add handles the creation of a new product.
func (h *Handler) Add(w http.ResponseWriter, r *http.Request) {
	mLogger := h.loggerWithReqID(r)
	var productCreateDto service.ProductCreateDto
	if !h.decodeBody(w, r, mLogger, &productCreateDto) {
		return
	}

	mLogger.DebugContext(r.Context(), "Received request to add product", "name", productCreateDto.Name)
	newProduct, err := h.service.Add(r.Context(), productCreateDto)
	if err != nil {
		mLogger.ErrorContext(r.Context(), "Error adding product", "error", err)
		h.respondServiceError(w, mLogger, err)
		return
	}
	mLogger.InfoContext(r.Context(), "Product added successfully", "ID", newProduct.ID, "Name", newProduct.Name)
	web.RespondMessage(w, mLogger, http.StatusCreated, "Product added successfully")
}

// Update applies a partial update to an existing product.
func (h *Handler) Update(w http.ResponseWriter, r *http.Request) {
	mLogger := h.loggerWithReqID(r)
	id, ok := h.parseID(w, r, mLogger)
	if !ok {
		return
	}
	var productUpdateDto service.ProductUpdateDto
	if !h.decodeBody(w, r, mLogger, &productUpdateDto) {
		return
	}

	mLogger.DebugContext(r.Context(), "Received request to update product", "ID", id)
	updated, err := h.service.Update(r.Context(), id, productUpdateDto)
	if err != nil {
		if errors.Is(err, caterrors.ErrProductNotFound) {
			mLogger.WarnContext(r.Context(), "Product not found for update", "ID", id)
			web.RespondError(w, mLogger, http.StatusNotFound, "Product not found")
			return
		}
		mLogger.ErrorContext(r.Context(), "Error updating product", "ID", id, "error", err)
		h.respondServiceError(w, mLogger, err)
		return
	}
	mLogger.InfoContext(r.Context(), "Product updated successfully", "ID", updated.ID, "Name", updated.Name)
	web.RespondMessage(w, mLogger, http.StatusOK, "Product updated successfully")
}

// DeleteByID deletes a product by its ID.
func (h *Handler) DeleteByID(w http.ResponseWriter, r *http.Request) {
	mLogger := h.loggerWithReqID(r)
	id, ok := h.parseID(w, r, mLogger)
	if !ok {
		return
	}

	mLogger.DebugContext(r.Context(), "Received request to delete product", "ID", id)
	if err := h.service.DeleteByID(r.Context(), id); err != nil {
		if errors.Is(err, caterrors.ErrProductNotFound) {
			mLogger.WarnContext(r.Context(), "Product not found for deletion", "ID", id)
			web.RespondError(w, mLogger, http.StatusNotFound, "Product not found")
			return
		}
		mLogger.ErrorContext(r.Context(), "Error deleting product", "ID", id, "error", err)
		h.respondServiceError(w, mLogger, err)
		return
	}
	mLogger.InfoContext(r.Context(), "Product deleted successfully", "ID", id)
	web.RespondMessage(w, mLogger, http.StatusOK, "Product deleted successfully")
}

// HealthCheck is a simple health check endpoint.
func (h *Handler) HealthCheck(w http.ResponseWriter, _ *http.Request) {
	w.WriteHeader(http.StatusOK)
}

// NotFound is the router-level fallback for unknown paths.
func (h *Handler) NotFound(w http.ResponseWriter, _ *http.Request) {
	web.RespondError(w, h.logger, http.StatusNotFound, "Not Found")
}

// Unauthorized and Forbidden are fallback handlers kept for operators to mount
// in front of protected routes. No route requires authentication today.
func (h *Handler) Unauthorized(w http.ResponseWriter, _ *http.Request) {
	web.RespondError(w, h.logger, http.StatusUnauthorized, "Unauthorized")
}

func (h *Handler) Forbidden(w http.ResponseWriter, _ *http.Request) {
	web.RespondError(w, h.logger, http.StatusForbidden, "Forbidden")
}

// respondServiceError translates a service error into a status code and JSON
// body. This is the only place error kinds are mapped to statuses.
func (h *Handler) respondServiceError(w http.ResponseWriter, logger *slog.Logger, err error) {
	var validationErr *caterrors.ValidationError
	if errors.As(err, &validationErr) {
		web.RespondError(w, logger, http.StatusBadRequest, validationErr.Error())
		return
	}
	web.RespondError(w, logger, http.StatusInternalServerError, err.Error())
}

// decodeBody decodes the request body into dst. An empty body, a body that is
// not a JSON object, or an empty object yields 400 "Invalid input"; the boolean
// reports whether decoding succeeded.
func (h *Handler) decodeBody(w http.ResponseWriter, r *http.Request, logger *slog.Logger, dst any) bool {
	body, err := io.ReadAll(r.Body)
	if err != nil {
		logger.ErrorContext(r.Context(), "Error reading request body", "error", err)
		web.RespondError(w, logger, http.StatusBadRequest, "Invalid input")
		return false
	}

	var raw map[string]json.RawMessage
	if err := json.Unmarshal(body, &raw); err != nil || len(raw) == 0 {
		logger.WarnContext(r.Context(), "Empty or malformed request body")
		web.RespondError(w, logger, http.StatusBadRequest, "Invalid input")
		return false
	}
	if err := json.Unmarshal(body, dst); err != nil {
		logger.WarnContext(r.Context(), "Error decoding request body", "error", err)
		web.RespondError(w, logger, http.StatusBadRequest, "Invalid input")
		return false
	}
	return true
}

// parseID extracts the numeric product ID from the request path. A value the
// route would never have matched in the first place reads as an unknown product.
func (h *Handler) parseID(w http.ResponseWriter, r *http.Request, logger *slog.Logger) (int64, bool) {
	pathValueID := chi.URLParam(r, "id")
	id, err := strconv.ParseInt(pathValueID, 10, 64)
	if err != nil {
		logger.WarnContext(r.Context(), "Invalid product ID in path", "id", pathValueID)
		web.RespondError(w, logger, http.StatusNotFound, "Product not found")
		return 0, false
	}
	return id, true
}

// pageLink renders the link string for a page of the product list.
func pageLink(page int32) string {
	return fmt.Sprintf("/get_products?page=%d", page)
}

// loggerWithReqID creates a logger with the request ID from the context.
func (h *Handler) loggerWithReqID(r *http.Request) *slog.Logger {
	reqID, _ := web.GetRequestID(r.Context())
	return h.logger.With("request_id", reqID)
}

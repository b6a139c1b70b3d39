package rest

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	caterrors "github.com/abgdnv/catalog/internal/errors"
	"github.com/abgdnv/catalog/internal/pagination"
	"github.com/abgdnv/catalog/internal/service"
	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// mockProductService is a mock implementation of the ProductService interface.
type mockProductService struct {
	list *service.ProductListDto
	dto  *service.ProductDto
	err  error

	lastPage    int32
	lastPerPage int32
	lastID      int64
	lastUpdate  service.ProductUpdateDto
}

func (m *mockProductService) Add(_ context.Context, _ service.ProductCreateDto) (*service.ProductDto, error) {
	if m.err != nil {
		return nil, m.err
	}
	return m.dto, nil
}

func (m *mockProductService) Update(_ context.Context, id int64, product service.ProductUpdateDto) (*service.ProductDto, error) {
	m.lastID = id
	m.lastUpdate = product
	if m.err != nil {
		return nil, m.err
	}
	return m.dto, nil
}

func (m *mockProductService) DeleteByID(_ context.Context, id int64) error {
	m.lastID = id
	return m.err
}

func (m *mockProductService) List(_ context.Context, page, perPage int32) (*service.ProductListDto, error) {
	m.lastPage = page
	m.lastPerPage = perPage
	if m.err != nil {
		return nil, m.err
	}
	return m.list, nil
}

// newTestMux wires the handler into a chi router the way the app does.
func newTestMux(svc service.ProductService) *chi.Mux {
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	mux := chi.NewRouter()
	NewHandler(svc, logger).RegisterRoutes(mux)
	return mux
}

func doRequest(t *testing.T, mux *chi.Mux, method, target, body string) *httptest.ResponseRecorder {
	t.Helper()
	var reader io.Reader
	if body != "" {
		reader = strings.NewReader(body)
	}
	req := httptest.NewRequest(method, target, reader)
	rec := httptest.NewRecorder()
	mux.ServeHTTP(rec, req)
	return rec
}

func Test_Handler_List(t *testing.T) {
	products := []service.ProductDto{
		{ID: 4, Name: "Pen", Description: "Blue pen", ImageURL: "http://img/pen", Price: 1.5},
	}
	testCases := []struct {
		name            string
		mockService     *mockProductService
		target          string
		expectedCode    int
		expectedBody    string
		expectedPage    int32
		expectedPerPage int32
	}{
		{
			name: "Success - middle page has both links",
			mockService: &mockProductService{
				list: &service.ProductListDto{Products: products, Page: pagination.Compute(2, 3, 10)},
			},
			target:       "/get_products?page=2&per_page=3",
			expectedCode: http.StatusOK,
			expectedBody: `{"products":[{"id":4,"name":"Pen","description":"Blue pen","image_url":"http://img/pen","price":1.5}],"next_page":"/get_products?page=3","prev_page":"/get_products?page=1"}`,
			expectedPage: 2, expectedPerPage: 3,
		},
		{
			name: "Success - empty store has null links",
			mockService: &mockProductService{
				list: &service.ProductListDto{Products: []service.ProductDto{}, Page: pagination.Compute(1, 3, 0)},
			},
			target:       "/get_products?page=1&per_page=3",
			expectedCode: http.StatusOK,
			expectedBody: `{"products":[],"next_page":null,"prev_page":null}`,
			expectedPage: 1, expectedPerPage: 3,
		},
		{
			name: "Malformed query parameters fall back to defaults",
			mockService: &mockProductService{
				list: &service.ProductListDto{Products: []service.ProductDto{}, Page: pagination.Compute(1, 3, 0)},
			},
			target:       "/get_products?page=abc&per_page=-5",
			expectedCode: http.StatusOK,
			expectedBody: `{"products":[],"next_page":null,"prev_page":null}`,
			expectedPage: 1, expectedPerPage: 3,
		},
		{
			name:         "Storage failure yields 500 with the message",
			mockService:  &mockProductService{err: &caterrors.StorageError{Err: errors.New("store offline")}},
			target:       "/get_products",
			expectedCode: http.StatusInternalServerError,
			expectedBody: `{"error":"store offline"}`,
			expectedPage: 1, expectedPerPage: 3,
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			mux := newTestMux(tc.mockService)
			rec := doRequest(t, mux, http.MethodGet, tc.target, "")
			assert.Equal(t, tc.expectedCode, rec.Code)
			assert.JSONEq(t, tc.expectedBody, rec.Body.String())
			assert.Equal(t, tc.expectedPage, tc.mockService.lastPage)
			assert.Equal(t, tc.expectedPerPage, tc.mockService.lastPerPage)
		})
	}
}

func Test_Handler_Add(t *testing.T) {
	testCases := []struct {
		name         string
		mockService  *mockProductService
		body         string
		expectedCode int
		expectedBody string
	}{
		{
			name:         "Success",
			mockService:  &mockProductService{dto: &service.ProductDto{ID: 1, Name: "Pen"}},
			body:         `{"name":"Pen","description":"Blue pen","price":1.5,"image_url":"http://img/pen"}`,
			expectedCode: http.StatusCreated,
			expectedBody: `{"message":"Product added successfully"}`,
		},
		{
			name:         "Missing body",
			mockService:  &mockProductService{},
			body:         "",
			expectedCode: http.StatusBadRequest,
			expectedBody: `{"error":"Invalid input"}`,
		},
		{
			name:         "Empty object body",
			mockService:  &mockProductService{},
			body:         `{}`,
			expectedCode: http.StatusBadRequest,
			expectedBody: `{"error":"Invalid input"}`,
		},
		{
			name:         "Malformed JSON body",
			mockService:  &mockProductService{},
			body:         `{"name":`,
			expectedCode: http.StatusBadRequest,
			expectedBody: `{"error":"Invalid input"}`,
		},
		{
			name:         "Validation failure names the missing fields",
			mockService:  &mockProductService{err: caterrors.NewValidationError("description", "price", "image_url")},
			body:         `{"name":"Pen"}`,
			expectedCode: http.StatusBadRequest,
			expectedBody: `{"error":"invalid input: description, price, image_url"}`,
		},
		{
			name:         "Storage failure yields 500 with the message",
			mockService:  &mockProductService{err: &caterrors.StorageError{Err: errors.New("unique violation")}},
			body:         `{"name":"Pen","description":"Blue pen","price":1.5,"image_url":"http://img/pen"}`,
			expectedCode: http.StatusInternalServerError,
			expectedBody: `{"error":"unique violation"}`,
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			mux := newTestMux(tc.mockService)
			rec := doRequest(t, mux, http.MethodPost, "/add_product", tc.body)
			assert.Equal(t, tc.expectedCode, rec.Code)
			assert.JSONEq(t, tc.expectedBody, rec.Body.String())
		})
	}
}

func Test_Handler_Update(t *testing.T) {
	testCases := []struct {
		name         string
		mockService  *mockProductService
		target       string
		body         string
		expectedCode int
		expectedBody string
	}{
		{
			name:         "Success",
			mockService:  &mockProductService{dto: &service.ProductDto{ID: 1, Name: "Pen", Price: 2.0}},
			target:       "/update_product/1",
			body:         `{"price":2.0}`,
			expectedCode: http.StatusOK,
			expectedBody: `{"message":"Product updated successfully"}`,
		},
		{
			name:         "Unknown id yields 404",
			mockService:  &mockProductService{err: caterrors.ErrProductNotFound},
			target:       "/update_product/999",
			body:         `{"price":2.0}`,
			expectedCode: http.StatusNotFound,
			expectedBody: `{"error":"Product not found"}`,
		},
		{
			name:         "Non-numeric id yields 404",
			mockService:  &mockProductService{},
			target:       "/update_product/abc",
			body:         `{"price":2.0}`,
			expectedCode: http.StatusNotFound,
			expectedBody: `{"error":"Product not found"}`,
		},
		{
			name:         "Missing body yields 400",
			mockService:  &mockProductService{},
			target:       "/update_product/1",
			body:         "",
			expectedCode: http.StatusBadRequest,
			expectedBody: `{"error":"Invalid input"}`,
		},
		{
			name:         "Empty object body yields 400",
			mockService:  &mockProductService{},
			target:       "/update_product/1",
			body:         `{}`,
			expectedCode: http.StatusBadRequest,
			expectedBody: `{"error":"Invalid input"}`,
		},
		{
			name:         "Storage failure yields 500 with the message",
			mockService:  &mockProductService{err: &caterrors.StorageError{Err: errors.New("deadlock detected")}},
			target:       "/update_product/1",
			body:         `{"price":2.0}`,
			expectedCode: http.StatusInternalServerError,
			expectedBody: `{"error":"deadlock detected"}`,
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			mux := newTestMux(tc.mockService)
			rec := doRequest(t, mux, http.MethodPut, tc.target, tc.body)
			assert.Equal(t, tc.expectedCode, rec.Code)
			assert.JSONEq(t, tc.expectedBody, rec.Body.String())
		})
	}
}

func Test_Handler_Update_PartialBodyForwarded(t *testing.T) {
	mock := &mockProductService{dto: &service.ProductDto{ID: 7, Name: "Pen", Price: 2.0}}
	mux := newTestMux(mock)

	rec := doRequest(t, mux, http.MethodPut, "/update_product/7", `{"price":2.0}`)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, int64(7), mock.lastID)
	require.NotNil(t, mock.lastUpdate.Price)
	assert.Equal(t, 2.0, *mock.lastUpdate.Price)
	assert.Nil(t, mock.lastUpdate.Name)
	assert.Nil(t, mock.lastUpdate.Description)
	assert.Nil(t, mock.lastUpdate.ImageURL)
}

func Test_Handler_DeleteByID(t *testing.T) {
	testCases := []struct {
		name         string
		mockService  *mockProductService
		target       string
		expectedCode int
		expectedBody string
	}{
		{
			name:         "Success",
			mockService:  &mockProductService{},
			target:       "/delete_product/1",
			expectedCode: http.StatusOK,
			expectedBody: `{"message":"Product deleted successfully"}`,
		},
		{
			name:         "Unknown id yields 404",
			mockService:  &mockProductService{err: caterrors.ErrProductNotFound},
			target:       "/delete_product/999",
			expectedCode: http.StatusNotFound,
			expectedBody: `{"error":"Product not found"}`,
		},
		{
			name:         "Non-numeric id yields 404",
			mockService:  &mockProductService{},
			target:       "/delete_product/abc",
			expectedCode: http.StatusNotFound,
			expectedBody: `{"error":"Product not found"}`,
		},
		{
			name:         "Storage failure yields 500 with the message",
			mockService:  &mockProductService{err: &caterrors.StorageError{Err: errors.New("connection reset")}},
			target:       "/delete_product/1",
			expectedCode: http.StatusInternalServerError,
			expectedBody: `{"error":"connection reset"}`,
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			mux := newTestMux(tc.mockService)
			rec := doRequest(t, mux, http.MethodDelete, tc.target, "")
			assert.Equal(t, tc.expectedCode, rec.Code)
			assert.JSONEq(t, tc.expectedBody, rec.Body.String())
		})
	}
}

func Test_Handler_Fallbacks(t *testing.T) {
	mux := newTestMux(&mockProductService{})

	rec := doRequest(t, mux, http.MethodGet, "/no_such_route", "")
	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.JSONEq(t, `{"error":"Not Found"}`, rec.Body.String())

	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	h := NewHandler(&mockProductService{}, logger)

	rec = httptest.NewRecorder()
	h.Unauthorized(rec, httptest.NewRequest(http.MethodGet, "/", nil))
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.JSONEq(t, `{"error":"Unauthorized"}`, rec.Body.String())

	rec = httptest.NewRecorder()
	h.Forbidden(rec, httptest.NewRequest(http.MethodGet, "/", nil))
	assert.Equal(t, http.StatusForbidden, rec.Code)
	assert.JSONEq(t, `{"error":"Forbidden"}`, rec.Body.String())
}

func Test_Handler_ListResponseShape(t *testing.T) {
	// The list body always carries the three keys, links as JSON null when absent.
	mock := &mockProductService{
		list: &service.ProductListDto{Products: []service.ProductDto{}, Page: pagination.Compute(1, 3, 0)},
	}
	mux := newTestMux(mock)

	rec := doRequest(t, mux, http.MethodGet, "/get_products", "")
	require.Equal(t, http.StatusOK, rec.Code)

	var decoded map[string]json.RawMessage
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &decoded))
	assert.Contains(t, decoded, "products")
	assert.Contains(t, decoded, "next_page")
	assert.Contains(t, decoded, "prev_page")
	assert.Equal(t, "null", string(decoded["next_page"]))
	assert.Equal(t, "null", string(decoded["prev_page"]))
}

package http

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"Bookstore_API/internal/auth"
	"Bookstore_API/internal/cache"
	httpMocks "Bookstore_API/internal/http/mocks"
	"Bookstore_API/internal/mocks"
	"Bookstore_API/internal/models"

	"github.com/gorilla/mux"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type handlerFixture struct {
	handler   *Handler
	catalog   *httpMocks.MockCatalogService
	cart      *httpMocks.MockCartService
	orders    *httpMocks.MockOrderService
	users     *httpMocks.MockUserService
	dashboard *httpMocks.MockDashboardService
	queries   *mocks.MockCache
	carts     *mocks.MockCache
	logger    *mocks.MockLogger
}

func newHandlerFixture() *handlerFixture {
	f := &handlerFixture{
		catalog:   &httpMocks.MockCatalogService{},
		cart:      &httpMocks.MockCartService{},
		orders:    &httpMocks.MockOrderService{},
		users:     &httpMocks.MockUserService{},
		dashboard: &httpMocks.MockDashboardService{},
		queries:   &mocks.MockCache{},
		carts:     &mocks.MockCache{},
		logger:    mocks.NewQuietLogger(),
	}
	f.handler = NewHandler(Services{
		Catalog:   f.catalog,
		Cart:      f.cart,
		Orders:    f.orders,
		Users:     f.users,
		Dashboard: f.dashboard,
		Stores:    map[string]cache.Service{"query": f.queries, "cart": f.carts},
	}, f.logger)
	return f
}

func withIdentity(req *http.Request, userID, role string) *http.Request {
	return req.WithContext(auth.WithIdentity(req.Context(), &auth.Identity{UserID: userID, Role: role}))
}

func decodeError(t *testing.T, w *httptest.ResponseRecorder) ErrorResponse {
	t.Helper()
	var response ErrorResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &response))
	return response
}

func TestHandler_HealthCheck(t *testing.T) {
	f := newHandlerFixture()

	req := httptest.NewRequest(http.MethodGet, "/health", nil)
	w := httptest.NewRecorder()

	f.handler.HealthCheck(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	var response HealthResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &response))
	assert.Equal(t, "healthy", response.Status)
	assert.NotEmpty(t, w.Header().Get("X-Request-ID"))
}

func TestHandler_ListBooks_ParsesFilter(t *testing.T) {
	// Arrange
	f := newHandlerFixture()
	minPrice := 5.0
	inStock := true
	expected := models.BookFilter{
		ListParams: models.ListParams{Page: 2, Limit: 10, Search: "dune", SortBy: "price", SortOrder: "desc"},
		CategoryID: "c1",
		MinPrice:   &minPrice,
		InStock:    &inStock,
	}
	page := &models.Page[models.Book]{
		Data:       []models.Book{{ID: "b1", Title: "Dune"}},
		Pagination: models.NewPagination(2, 10, 11),
	}
	f.catalog.On("ListBooks", mock.Anything, expected).Return(page, nil)

	req := httptest.NewRequest(http.MethodGet, "/api/books?page=2&limit=10&search=dune&sortBy=price&sortOrder=DESC&categoryId=c1&minPrice=5&inStock=true", nil)
	w := httptest.NewRecorder()

	// Act
	f.handler.ListBooks(w, req)

	// Assert
	assert.Equal(t, http.StatusOK, w.Code)
	var response models.Page[models.Book]
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &response))
	assert.Len(t, response.Data, 1)
	assert.Equal(t, 2, response.Pagination.TotalPages)
	f.catalog.AssertExpectations(t)
}

func TestHandler_ListBooks_InvalidQuery(t *testing.T) {
	tests := []struct {
		name  string
		query string
	}{
		{name: "negative page", query: "page=-1"},
		{name: "non-numeric limit", query: "limit=ten"},
		{name: "bad sort order", query: "sortOrder=sideways"},
		{name: "bad price", query: "minPrice=cheap"},
		{name: "bad inStock", query: "inStock=maybe"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newHandlerFixture()

			req := httptest.NewRequest(http.MethodGet, "/api/books?"+tt.query, nil)
			w := httptest.NewRecorder()

			f.handler.ListBooks(w, req)

			assert.Equal(t, http.StatusBadRequest, w.Code)
			assert.Equal(t, "bad request", decodeError(t, w).Error)
			f.catalog.AssertNotCalled(t, "ListBooks", mock.Anything, mock.Anything)
		})
	}
}

func TestHandler_GetBook_StatusMapping(t *testing.T) {
	tests := []struct {
		name       string
		err        error
		statusCode int
	}{
		{name: "not found", err: models.NewEntityError("book", "b1", "not found", models.ErrNotFound), statusCode: http.StatusNotFound},
		{name: "invalid", err: fmt.Errorf("%w: bad id", models.ErrInvalidInput), statusCode: http.StatusBadRequest},
		{name: "unexpected", err: errors.New("connection refused"), statusCode: http.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newHandlerFixture()
			f.catalog.On("GetBook", mock.Anything, "b1").Return(nil, tt.err)

			req := httptest.NewRequest(http.MethodGet, "/api/books/b1", nil)
			req = mux.SetURLVars(req, map[string]string{"id": "b1"})
			w := httptest.NewRecorder()

			f.handler.GetBook(w, req)

			assert.Equal(t, tt.statusCode, w.Code)
			if tt.statusCode == http.StatusInternalServerError {
				assert.NotContains(t, w.Body.String(), "connection refused")
			}
		})
	}
}

func TestHandler_CreateBook(t *testing.T) {
	f := newHandlerFixture()
	body := `{"title":"Dune","isbn":"9780441013593","price":9.99,"stock":3,` +
		`"authorId":"7f1c1d8e-2f1b-4a51-9d4e-0a6f3c2b1a10",` +
		`"categoryId":"5b2f5a64-8a7e-4d7c-9a7f-1c2d3e4f5a6b",` +
		`"publisherId":"0e6b9c3a-1d2e-4f5a-8b7c-9d0e1f2a3b4c"}`

	f.catalog.On("CreateBook", mock.Anything, mock.MatchedBy(func(input models.BookInput) bool {
		return input.Title == "Dune" && input.Stock == 3
	})).Return(&models.Book{ID: "b1", Title: "Dune"}, nil)

	req := httptest.NewRequest(http.MethodPost, "/api/admin/books", strings.NewReader(body))
	w := httptest.NewRecorder()

	f.handler.CreateBook(w, req)

	assert.Equal(t, http.StatusCreated, w.Code)
	f.catalog.AssertExpectations(t)
}

func TestHandler_CreateBook_RejectsInvalidBodies(t *testing.T) {
	tests := []struct {
		name    string
		body    string
		message string
	}{
		{name: "malformed json", body: `{"title":`, message: "malformed request body"},
		{name: "unknown field", body: `{"title":"x","isbn":"1","nope":true}`, message: "malformed request body"},
		{name: "missing required", body: `{"isbn":"1"}`, message: "title must satisfy required"},
		{name: "negative price", body: `{"title":"x","isbn":"1","price":-1}`, message: "price must satisfy gte=0"},
		{name: "bad author id", body: `{"title":"x","isbn":"1","authorId":"abc"}`, message: "authorId must satisfy uuid"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newHandlerFixture()

			req := httptest.NewRequest(http.MethodPost, "/api/admin/books", strings.NewReader(tt.body))
			w := httptest.NewRecorder()

			f.handler.CreateBook(w, req)

			assert.Equal(t, http.StatusBadRequest, w.Code)
			assert.Contains(t, decodeError(t, w).Message, tt.message)
			f.catalog.AssertNotCalled(t, "CreateBook", mock.Anything, mock.Anything)
		})
	}
}

func TestHandler_CreateBook_BodyTooLarge(t *testing.T) {
	f := newHandlerFixture()
	body := `{"title":"` + strings.Repeat("x", maxBodyBytes) + `"}`

	req := httptest.NewRequest(http.MethodPost, "/api/admin/books", strings.NewReader(body))
	w := httptest.NewRecorder()

	f.handler.CreateBook(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestHandler_DeleteBook(t *testing.T) {
	f := newHandlerFixture()
	f.catalog.On("DeleteBook", mock.Anything, "b1").Return(nil)

	req := httptest.NewRequest(http.MethodDelete, "/api/admin/books/b1", nil)
	req = mux.SetURLVars(req, map[string]string{"id": "b1"})
	w := httptest.NewRecorder()

	f.handler.DeleteBook(w, req)

	assert.Equal(t, http.StatusNoContent, w.Code)
}

func TestHandler_ListReferences(t *testing.T) {
	t.Run("paginated", func(t *testing.T) {
		f := newHandlerFixture()
		params := models.ListParams{Page: 1, Limit: models.DefaultLimit}
		f.catalog.On("ListReferences", mock.Anything, models.KindAuthor, params).
			Return(&models.Page[models.Reference]{Data: []models.Reference{{ID: "a1"}}}, nil)

		req := httptest.NewRequest(http.MethodGet, "/api/authors", nil)
		req = mux.SetURLVars(req, map[string]string{"kind": "authors"})
		w := httptest.NewRecorder()

		f.handler.ListReferences(w, req)

		assert.Equal(t, http.StatusOK, w.Code)
		f.catalog.AssertExpectations(t)
	})

	t.Run("all", func(t *testing.T) {
		f := newHandlerFixture()
		f.catalog.On("AllReferences", mock.Anything, models.KindCategory).
			Return([]models.Reference{{ID: "c1"}, {ID: "c2"}}, nil)

		req := httptest.NewRequest(http.MethodGet, "/api/categories?all=true", nil)
		req = mux.SetURLVars(req, map[string]string{"kind": "categories"})
		w := httptest.NewRecorder()

		f.handler.ListReferences(w, req)

		assert.Equal(t, http.StatusOK, w.Code)
		var refs []models.Reference
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &refs))
		assert.Len(t, refs, 2)
		f.catalog.AssertNotCalled(t, "ListReferences", mock.Anything, mock.Anything, mock.Anything)
	})
}

func TestHandler_UpdateReference(t *testing.T) {
	f := newHandlerFixture()
	input := models.ReferenceInput{Name: "Frank Herbert"}
	f.catalog.On("UpdateReference", mock.Anything, models.KindAuthor, "a1", input).
		Return(&models.Reference{ID: "a1", Name: "Frank Herbert"}, nil)

	req := httptest.NewRequest(http.MethodPut, "/api/admin/authors/a1", strings.NewReader(`{"name":"Frank Herbert"}`))
	req = mux.SetURLVars(req, map[string]string{"kind": "authors", "id": "a1"})
	w := httptest.NewRecorder()

	f.handler.UpdateReference(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	f.catalog.AssertExpectations(t)
}

func TestHandler_Cart_RequiresIdentity(t *testing.T) {
	f := newHandlerFixture()

	req := httptest.NewRequest(http.MethodGet, "/api/cart", nil)
	w := httptest.NewRecorder()

	f.handler.GetCart(w, req)

	assert.Equal(t, http.StatusUnauthorized, w.Code)
	f.cart.AssertNotCalled(t, "GetCart", mock.Anything, mock.Anything)
}

func TestHandler_AddCartItem(t *testing.T) {
	f := newHandlerFixture()
	input := models.CartItemInput{BookID: "7f1c1d8e-2f1b-4a51-9d4e-0a6f3c2b1a10", Quantity: 2}
	f.cart.On("AddItem", mock.Anything, "u1", input).Return(&models.Cart{UserID: "u1", ItemCount: 2, Total: 19.98}, nil)

	body, _ := json.Marshal(input)
	req := withIdentity(httptest.NewRequest(http.MethodPost, "/api/cart/items", bytes.NewReader(body)), "u1", models.RoleCustomer)
	w := httptest.NewRecorder()

	f.handler.AddCartItem(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	var cart models.Cart
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &cart))
	assert.Equal(t, 2, cart.ItemCount)
}

func TestHandler_AddCartItem_InsufficientStock(t *testing.T) {
	f := newHandlerFixture()
	f.cart.On("AddItem", mock.Anything, "u1", mock.Anything).
		Return(nil, models.NewEntityError("book", "b1", "only 1 left, 3 requested", models.ErrInsufficientStock))

	body := `{"bookId":"7f1c1d8e-2f1b-4a51-9d4e-0a6f3c2b1a10","quantity":3}`
	req := withIdentity(httptest.NewRequest(http.MethodPost, "/api/cart/items", strings.NewReader(body)), "u1", models.RoleCustomer)
	w := httptest.NewRecorder()

	f.handler.AddCartItem(w, req)

	assert.Equal(t, http.StatusConflict, w.Code)
	assert.Contains(t, decodeError(t, w).Message, "only 1 left")
}

func TestHandler_UpdateCartItem_ValidatesQuantity(t *testing.T) {
	f := newHandlerFixture()

	req := withIdentity(httptest.NewRequest(http.MethodPut, "/api/cart/items/b1", strings.NewReader(`{"quantity":0}`)), "u1", models.RoleCustomer)
	req = mux.SetURLVars(req, map[string]string{"bookId": "b1"})
	w := httptest.NewRecorder()

	f.handler.UpdateCartItem(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)
	f.cart.AssertNotCalled(t, "UpdateItem", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func TestHandler_Checkout(t *testing.T) {
	t.Run("created", func(t *testing.T) {
		f := newHandlerFixture()
		f.orders.On("Checkout", mock.Anything, "u1", models.CheckoutRequest{ShippingAddress: "1 Main St"}).
			Return(&models.Order{ID: "o1", Status: models.OrderPending}, nil)

		req := withIdentity(httptest.NewRequest(http.MethodPost, "/api/orders", strings.NewReader(`{"shippingAddress":"1 Main St"}`)), "u1", models.RoleCustomer)
		w := httptest.NewRecorder()

		f.handler.Checkout(w, req)

		assert.Equal(t, http.StatusCreated, w.Code)
	})

	t.Run("empty cart", func(t *testing.T) {
		f := newHandlerFixture()
		f.orders.On("Checkout", mock.Anything, "u1", mock.Anything).Return(nil, models.ErrEmptyCart)

		req := withIdentity(httptest.NewRequest(http.MethodPost, "/api/orders", strings.NewReader(`{"shippingAddress":"1 Main St"}`)), "u1", models.RoleCustomer)
		w := httptest.NewRecorder()

		f.handler.Checkout(w, req)

		assert.Equal(t, http.StatusConflict, w.Code)
	})
}

func TestHandler_GetOrder_OwnerScope(t *testing.T) {
	tests := []struct {
		name    string
		role    string
		ownerID string
	}{
		{name: "customer sees own orders only", role: models.RoleCustomer, ownerID: "u1"},
		{name: "admin sees any order", role: models.RoleAdmin, ownerID: ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newHandlerFixture()
			f.orders.On("GetOrder", mock.Anything, "o1", tt.ownerID).Return(&models.Order{ID: "o1"}, nil)

			req := withIdentity(httptest.NewRequest(http.MethodGet, "/api/orders/o1", nil), "u1", tt.role)
			req = mux.SetURLVars(req, map[string]string{"id": "o1"})
			w := httptest.NewRecorder()

			f.handler.GetOrder(w, req)

			assert.Equal(t, http.StatusOK, w.Code)
			f.orders.AssertExpectations(t)
		})
	}
}

func TestHandler_ListAllOrders_Filter(t *testing.T) {
	f := newHandlerFixture()
	expected := models.OrderFilter{
		ListParams: models.ListParams{Page: 1, Limit: models.DefaultLimit},
		UserID:     "u7",
		Status:     models.OrderShipped,
	}
	f.orders.On("ListOrders", mock.Anything, expected).Return(&models.Page[models.Order]{Data: []models.Order{}}, nil)

	req := httptest.NewRequest(http.MethodGet, "/api/admin/orders?status=shipped&userId=u7", nil)
	w := httptest.NewRecorder()

	f.handler.ListAllOrders(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	f.orders.AssertExpectations(t)
}

func TestHandler_UpdateOrderStatus(t *testing.T) {
	f := newHandlerFixture()
	f.orders.On("UpdateStatus", mock.Anything, "o1", models.OrderPaid).Return(&models.Order{ID: "o1", Status: models.OrderPaid}, nil)

	req := httptest.NewRequest(http.MethodPut, "/api/admin/orders/o1/status", strings.NewReader(`{"status":"paid"}`))
	req = mux.SetURLVars(req, map[string]string{"id": "o1"})
	w := httptest.NewRecorder()

	f.handler.UpdateOrderStatus(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
}

func TestHandler_UpdateUser_ValidatesRole(t *testing.T) {
	f := newHandlerFixture()

	req := httptest.NewRequest(http.MethodPut, "/api/admin/users/u1", strings.NewReader(`{"role":"superuser"}`))
	req = mux.SetURLVars(req, map[string]string{"id": "u1"})
	w := httptest.NewRecorder()

	f.handler.UpdateUser(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, decodeError(t, w).Message, "role must satisfy oneof")
}

func TestHandler_Dashboard(t *testing.T) {
	f := newHandlerFixture()
	f.dashboard.On("GetStats", mock.Anything).Return(&models.DashboardStats{TotalBooks: 12}, nil)

	req := httptest.NewRequest(http.MethodGet, "/api/admin/dashboard", nil)
	w := httptest.NewRecorder()

	f.handler.Dashboard(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	var stats models.DashboardStats
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &stats))
	assert.Equal(t, 12, stats.TotalBooks)
}

func TestHandler_CacheAdmin(t *testing.T) {
	t.Run("stats", func(t *testing.T) {
		f := newHandlerFixture()
		f.queries.On("Stats", mock.Anything).Return(cache.Stats{TotalEntries: 4, ValidEntries: 3, ExpiredEntries: 1}, nil)
		f.carts.On("Stats", mock.Anything).Return(cache.Stats{TotalEntries: 1, ValidEntries: 1}, nil)

		w := httptest.NewRecorder()
		f.handler.CacheStats(w, httptest.NewRequest(http.MethodGet, "/api/admin/cache/stats", nil))

		assert.Equal(t, http.StatusOK, w.Code)
		var response CacheStatsResponse
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &response))
		assert.Equal(t, 3, response.Stores["query"].ValidEntries)
		assert.Equal(t, 1, response.Stores["cart"].TotalEntries)
	})

	t.Run("clear", func(t *testing.T) {
		f := newHandlerFixture()
		f.queries.On("Clear", mock.Anything).Return(nil).Once()
		f.carts.On("Clear", mock.Anything).Return(nil).Once()

		w := httptest.NewRecorder()
		f.handler.ClearCache(w, httptest.NewRequest(http.MethodPost, "/api/admin/cache/clear", nil))

		assert.Equal(t, http.StatusNoContent, w.Code)
		f.queries.AssertExpectations(t)
		f.carts.AssertExpectations(t)
	})

	t.Run("sweep", func(t *testing.T) {
		f := newHandlerFixture()
		f.queries.On("SweepExpired", mock.Anything).Return(5, nil)
		f.carts.On("SweepExpired", mock.Anything).Return(0, nil)

		w := httptest.NewRecorder()
		f.handler.SweepCache(w, httptest.NewRequest(http.MethodPost, "/api/admin/cache/sweep", nil))

		assert.Equal(t, http.StatusOK, w.Code)
		var response CacheSweepResponse
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &response))
		assert.Equal(t, map[string]int{"query": 5, "cart": 0}, response.Removed)
	})

	t.Run("store failure", func(t *testing.T) {
		f := newHandlerFixture()
		f.carts.On("Stats", mock.Anything).Return(cache.Stats{}, errors.New("redis: connection refused"))

		w := httptest.NewRecorder()
		f.handler.CacheStats(w, httptest.NewRequest(http.MethodGet, "/api/admin/cache/stats", nil))

		assert.Equal(t, http.StatusInternalServerError, w.Code)
	})
}

func TestStatusCodeForError(t *testing.T) {
	tests := []struct {
		err        error
		statusCode int
	}{
		{err: models.ErrInvalidInput, statusCode: http.StatusBadRequest},
		{err: models.ErrUnauthorized, statusCode: http.StatusUnauthorized},
		{err: models.ErrForbidden, statusCode: http.StatusForbidden},
		{err: models.NewEntityError("user", "u1", "not found", models.ErrNotFound), statusCode: http.StatusNotFound},
		{err: models.ErrInsufficientStock, statusCode: http.StatusConflict},
		{err: models.ErrEmptyCart, statusCode: http.StatusConflict},
		{err: models.ErrRateLimitExceeded, statusCode: http.StatusTooManyRequests},
		{err: context.DeadlineExceeded, statusCode: http.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(tt.err.Error(), func(t *testing.T) {
			assert.Equal(t, tt.statusCode, statusCodeForError(tt.err))
		})
	}
}

func decodeBody(t *testing.T, w *httptest.ResponseRecorder, dst interface{}) {
	t.Helper()
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), dst))
}

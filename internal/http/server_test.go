package http

import (
	"context"
	"net"
	"net/http"
	"net/http/httptest"
	"strconv"
	"strings"
	"testing"
	"time"

	"Bookstore_API/internal/auth"
	httpMocks "Bookstore_API/internal/http/mocks"
	"Bookstore_API/internal/metrics"
	"Bookstore_API/internal/mocks"
	"Bookstore_API/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type serverFixture struct {
	*handlerFixture
	server  *Server
	auth    *mocks.MockAuth
	limiter *httpMocks.MockRateLimiter
}

func newServerFixture(t *testing.T) *serverFixture {
	t.Helper()

	f := &serverFixture{
		handlerFixture: newHandlerFixture(),
		auth:           &mocks.MockAuth{},
		limiter:        &httpMocks.MockRateLimiter{},
	}
	f.limiter.On("Allow", mock.Anything).Return(true).Maybe()
	f.auth.On("Authenticate", mock.Anything, "customer-token").Return(&auth.Identity{UserID: "u1", Role: models.RoleCustomer}, nil).Maybe()
	f.auth.On("Authenticate", mock.Anything, "admin-token").Return(&auth.Identity{UserID: "a1", Role: models.RoleAdmin}, nil).Maybe()

	f.server = NewServer("localhost:0", f.handler, f.logger, f.limiter, f.auth, metrics.NewCollector("test"), 10*time.Second, 10*time.Second)
	return f
}

func (f *serverFixture) do(method, path, token, body string) *httptest.ResponseRecorder {
	var req *http.Request
	if body != "" {
		req = httptest.NewRequest(method, path, strings.NewReader(body))
	} else {
		req = httptest.NewRequest(method, path, nil)
	}
	req.RemoteAddr = "192.168.1.1:12345"
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	w := httptest.NewRecorder()
	f.server.server.Handler.ServeHTTP(w, req)
	return w
}

func TestServer_PublicRoutesNeedNoToken(t *testing.T) {
	f := newServerFixture(t)
	f.catalog.On("ListBooks", mock.Anything, mock.Anything).Return(&models.Page[models.Book]{Data: []models.Book{}}, nil)
	f.catalog.On("GetBook", mock.Anything, "b1").Return(&models.Book{ID: "b1"}, nil)
	f.catalog.On("AllReferences", mock.Anything, models.KindPublisher).Return([]models.Reference{}, nil)

	for _, path := range []string{"/health", "/api/books", "/api/books/b1", "/api/publishers?all=1", "/metrics", "/"} {
		t.Run(path, func(t *testing.T) {
			w := f.do(http.MethodGet, path, "", "")
			assert.Equal(t, http.StatusOK, w.Code)
			assert.Equal(t, "*", w.Header().Get("Access-Control-Allow-Origin"))
		})
	}
	f.auth.AssertNotCalled(t, "Authenticate", mock.Anything, mock.Anything)
}

func TestServer_CustomerRoutes(t *testing.T) {
	f := newServerFixture(t)
	f.cart.On("GetCart", mock.Anything, "u1").Return(&models.Cart{UserID: "u1", Items: []models.CartItem{}}, nil)

	w := f.do(http.MethodGet, "/api/cart", "", "")
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	w = f.do(http.MethodGet, "/api/cart", "customer-token", "")
	assert.Equal(t, http.StatusOK, w.Code)
	assert.NotEmpty(t, w.Header().Get("X-Request-ID"))
}

func TestServer_AdminRoutesRequireAdminRole(t *testing.T) {
	f := newServerFixture(t)
	f.dashboard.On("GetStats", mock.Anything).Return(&models.DashboardStats{}, nil)

	tests := []struct {
		token      string
		statusCode int
	}{
		{token: "", statusCode: http.StatusUnauthorized},
		{token: "customer-token", statusCode: http.StatusForbidden},
		{token: "admin-token", statusCode: http.StatusOK},
	}

	for _, tt := range tests {
		t.Run("token="+tt.token, func(t *testing.T) {
			w := f.do(http.MethodGet, "/api/admin/dashboard", tt.token, "")
			assert.Equal(t, tt.statusCode, w.Code)
		})
	}
	f.dashboard.AssertNumberOfCalls(t, "GetStats", 1)
}

func TestServer_RouteTable(t *testing.T) {
	f := newServerFixture(t)
	f.catalog.On("DeleteReference", mock.Anything, models.KindCategory, "c1").Return(nil)
	f.cart.On("RemoveItem", mock.Anything, "a1", "b1").Return(&models.Cart{}, nil)
	f.orders.On("ListOrders", mock.Anything, mock.Anything).Return(&models.Page[models.Order]{}, nil)
	f.orders.On("UpdateStatus", mock.Anything, "o1", models.OrderShipped).Return(&models.Order{ID: "o1"}, nil)
	f.users.On("GetUser", mock.Anything, "u9").Return(&models.User{ID: "u9"}, nil)
	f.queries.On("SweepExpired", mock.Anything).Return(0, nil)
	f.carts.On("SweepExpired", mock.Anything).Return(0, nil)

	tests := []struct {
		method     string
		path       string
		body       string
		statusCode int
	}{
		{method: http.MethodDelete, path: "/api/admin/categories/c1", statusCode: http.StatusNoContent},
		{method: http.MethodDelete, path: "/api/cart/items/b1", statusCode: http.StatusOK},
		{method: http.MethodGet, path: "/api/admin/orders", statusCode: http.StatusOK},
		{method: http.MethodPut, path: "/api/admin/orders/o1/status", body: `{"status":"shipped"}`, statusCode: http.StatusOK},
		{method: http.MethodGet, path: "/api/admin/users/u9", statusCode: http.StatusOK},
		{method: http.MethodPost, path: "/api/admin/cache/sweep", statusCode: http.StatusOK},
		{method: http.MethodGet, path: "/api/widgets", statusCode: http.StatusNotFound},
		{method: http.MethodPost, path: "/api/books", statusCode: http.StatusMethodNotAllowed},
	}

	for _, tt := range tests {
		t.Run(tt.method+" "+tt.path, func(t *testing.T) {
			w := f.do(tt.method, tt.path, "admin-token", tt.body)
			assert.Equal(t, tt.statusCode, w.Code)
		})
	}
}

func TestServer_Preflight(t *testing.T) {
	f := newServerFixture(t)

	for _, path := range []string{"/api/books", "/api/cart", "/api/cart/items", "/api/orders", "/api/orders/o1", "/api/admin/books", "/api/admin/cache/stats"} {
		t.Run(path, func(t *testing.T) {
			w := f.do(http.MethodOptions, path, "", "")

			assert.Equal(t, http.StatusOK, w.Code)
			assert.Equal(t, "*", w.Header().Get("Access-Control-Allow-Origin"))
			assert.Contains(t, w.Header().Get("Access-Control-Allow-Methods"), "DELETE")
			assert.Contains(t, w.Header().Get("Access-Control-Allow-Headers"), "Authorization")
		})
	}
	f.auth.AssertNotCalled(t, "Authenticate", mock.Anything, mock.Anything)
}

func TestServer_MethodNotAllowedOnProtectedRoutes(t *testing.T) {
	f := newServerFixture(t)

	tests := []struct {
		method string
		path   string
	}{
		{method: http.MethodPut, path: "/api/cart"},
		{method: http.MethodGet, path: "/api/cart/items"},
		{method: http.MethodDelete, path: "/api/orders"},
		{method: http.MethodPost, path: "/api/admin/dashboard"},
		{method: http.MethodGet, path: "/api/admin/cache/clear"},
	}

	for _, tt := range tests {
		t.Run(tt.method+" "+tt.path, func(t *testing.T) {
			w := f.do(tt.method, tt.path, "", "")

			assert.Equal(t, http.StatusMethodNotAllowed, w.Code)
			assert.Equal(t, "*", w.Header().Get("Access-Control-Allow-Origin"))
			assert.Equal(t, "method not allowed", decodeError(t, w).Error)
		})
	}
	f.auth.AssertNotCalled(t, "Authenticate", mock.Anything, mock.Anything)
}

func TestServer_UnknownPathsStayNotFound(t *testing.T) {
	f := newServerFixture(t)

	for _, method := range []string{http.MethodGet, http.MethodPost, http.MethodOptions} {
		t.Run(method, func(t *testing.T) {
			w := f.do(method, "/api/admin/widgets", "admin-token", "")
			assert.Equal(t, http.StatusNotFound, w.Code)
		})
	}
}

func TestServer_RateLimited(t *testing.T) {
	f := newServerFixture(t)
	f.limiter.ExpectedCalls = nil
	f.limiter.On("Allow", "192.168.1.1").Return(false)

	w := f.do(http.MethodGet, "/api/books", "", "")

	assert.Equal(t, http.StatusTooManyRequests, w.Code)
	f.catalog.AssertNotCalled(t, "ListBooks", mock.Anything, mock.Anything)
}

func TestServer_StartWithInvalidAddr(t *testing.T) {
	mockLogger := &mocks.MockLogger{}
	f := newHandlerFixture()
	server := NewServer("invalid-address:99999", f.handler, mockLogger, &httpMocks.MockRateLimiter{}, &mocks.MockAuth{}, metrics.NewCollector("test"), time.Second, time.Second)

	mockLogger.On("LogInfo", mock.Anything, "server_start", "Starting HTTP server", mock.MatchedBy(func(metadata map[string]interface{}) bool {
		return metadata["addr"] == "invalid-address:99999"
	})).Return()

	err := server.Start()

	assert.Error(t, err)
	mockLogger.AssertExpectations(t)
}

func TestServer_StartWithPortInUse(t *testing.T) {
	listener, err := net.Listen("tcp", "localhost:0")
	require.NoError(t, err)
	defer listener.Close()

	usedAddr := "localhost:" + strconv.Itoa(listener.Addr().(*net.TCPAddr).Port)

	f := newHandlerFixture()
	server := NewServer(usedAddr, f.handler, f.logger, &httpMocks.MockRateLimiter{}, &mocks.MockAuth{}, metrics.NewCollector("test"), time.Second, time.Second)

	assert.Error(t, server.Start())
}

func TestServer_Shutdown(t *testing.T) {
	mockLogger := &mocks.MockLogger{}
	f := newHandlerFixture()
	server := NewServer("localhost:0", f.handler, mockLogger, &httpMocks.MockRateLimiter{}, &mocks.MockAuth{}, metrics.NewCollector("test"), time.Second, time.Second)

	mockLogger.On("LogInfo", mock.Anything, "server_shutdown", "Shutting down HTTP server", mock.Anything).Return()

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	assert.NoError(t, server.Shutdown(ctx))
	mockLogger.AssertExpectations(t)
}

package http

import (
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"Bookstore_API/internal/auth"
	httpMocks "Bookstore_API/internal/http/mocks"
	"Bookstore_API/internal/logger"
	"Bookstore_API/internal/metrics"
	"Bookstore_API/internal/mocks"
	"Bookstore_API/internal/models"

	"github.com/gorilla/mux"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func TestLoggingMiddleware_Success(t *testing.T) {
	// Arrange
	mockLogger := &mocks.MockLogger{}

	testHandler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		logEvent := logger.GetLogEvent(r.Context())
		assert.Equal(t, models.ProcessTypeRequest, logEvent.ProcessType)
		assert.Equal(t, "192.168.1.1", logEvent.ClientIP)

		w.WriteHeader(http.StatusOK)
		w.Write([]byte("success"))
	})

	mockLogger.On("LogInfo", mock.Anything, "http_request_start", "HTTP request received", mock.Anything).Return()
	mockLogger.On("LogInfo", mock.Anything, "http_request_complete", "HTTP request processed", mock.MatchedBy(func(metadata map[string]interface{}) bool {
		return metadata["method"] == "GET" &&
			metadata["path"] == "/api/books" &&
			metadata["status_code"] == 200 &&
			metadata["client_ip"] == "192.168.1.1"
	})).Return()

	handler := loggingMiddleware(mockLogger)(testHandler)

	req := httptest.NewRequest(http.MethodGet, "/api/books", nil)
	req.RemoteAddr = "192.168.1.1:12345"
	w := httptest.NewRecorder()

	// Act
	handler.ServeHTTP(w, req)

	// Assert
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "success", w.Body.String())
	mockLogger.AssertExpectations(t)
}

func TestLoggingMiddleware_PreservesBodyAndTruncatesLog(t *testing.T) {
	mockLogger := &mocks.MockLogger{}
	payload := strings.Repeat("a", 1500)

	testHandler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		body, err := io.ReadAll(r.Body)
		require.NoError(t, err)
		assert.Equal(t, payload, string(body))
		w.WriteHeader(http.StatusCreated)
	})

	mockLogger.On("LogInfo", mock.Anything, "http_request_start", "HTTP request received", mock.MatchedBy(func(metadata map[string]interface{}) bool {
		body, ok := metadata["body"].(string)
		return ok && strings.HasSuffix(body, "... (truncated)") && len(body) == maxLoggedBody+len("... (truncated)")
	})).Return()
	mockLogger.On("LogInfo", mock.Anything, "http_request_complete", "HTTP request processed", mock.MatchedBy(func(metadata map[string]interface{}) bool {
		return metadata["status_code"] == http.StatusCreated
	})).Return()

	handler := loggingMiddleware(mockLogger)(testHandler)

	req := httptest.NewRequest(http.MethodPost, "/api/admin/books", strings.NewReader(payload))
	w := httptest.NewRecorder()

	handler.ServeHTTP(w, req)

	assert.Equal(t, http.StatusCreated, w.Code)
	mockLogger.AssertExpectations(t)
}

func TestCorsMiddleware(t *testing.T) {
	nextCalled := false
	handler := corsMiddleware()(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		nextCalled = true
	}))

	t.Run("preflight", func(t *testing.T) {
		nextCalled = false
		w := httptest.NewRecorder()
		handler.ServeHTTP(w, httptest.NewRequest(http.MethodOptions, "/api/cart", nil))

		assert.Equal(t, http.StatusOK, w.Code)
		assert.Contains(t, w.Header().Get("Access-Control-Allow-Methods"), "PUT")
		assert.Contains(t, w.Header().Get("Access-Control-Allow-Headers"), "Authorization")
		assert.False(t, nextCalled)
	})

	t.Run("regular", func(t *testing.T) {
		nextCalled = false
		w := httptest.NewRecorder()
		handler.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/books", nil))

		assert.Equal(t, "*", w.Header().Get("Access-Control-Allow-Origin"))
		assert.True(t, nextCalled)
	})
}

func TestRecoveryMiddleware_Panic(t *testing.T) {
	mockLogger := &mocks.MockLogger{}
	mockLogger.On("LogError", mock.Anything, "panic_recovery", "", "Panic recovered in HTTP handler", mock.Anything, models.LogSeverityHigh, mock.Anything).Return()

	handler := recoveryMiddleware(mockLogger)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		panic("boom")
	}))

	w := httptest.NewRecorder()
	handler.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/books", nil))

	assert.Equal(t, http.StatusInternalServerError, w.Code)
	assert.Equal(t, "internal server error", decodeError(t, w).Error)
	mockLogger.AssertExpectations(t)
}

func TestRateLimitingMiddleware(t *testing.T) {
	tests := []struct {
		name       string
		allowed    bool
		statusCode int
	}{
		{name: "allowed", allowed: true, statusCode: http.StatusOK},
		{name: "limited", allowed: false, statusCode: http.StatusTooManyRequests},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mockLimiter := &httpMocks.MockRateLimiter{}
			mockLogger := mocks.NewQuietLogger()
			mockLimiter.On("Allow", "10.1.1.1").Return(tt.allowed)

			next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(http.StatusOK)
			})
			handler := loggingMiddleware(mockLogger)(rateLimitingMiddleware(mockLimiter, mockLogger)(next))

			req := httptest.NewRequest(http.MethodGet, "/api/books", nil)
			req.RemoteAddr = "10.1.1.1:5000"
			w := httptest.NewRecorder()

			handler.ServeHTTP(w, req)

			assert.Equal(t, tt.statusCode, w.Code)
			if !tt.allowed {
				assert.Equal(t, "1", w.Header().Get("X-RateLimit-Retry-After"))
				assert.Equal(t, "rate limit exceeded", decodeError(t, w).Error)
			}
			mockLimiter.AssertExpectations(t)
		})
	}
}

func TestAuthMiddleware(t *testing.T) {
	tests := []struct {
		name       string
		header     string
		authErr    error
		statusCode int
	}{
		{name: "valid token", header: "Bearer good", statusCode: http.StatusOK},
		{name: "lowercase scheme", header: "bearer good", statusCode: http.StatusOK},
		{name: "missing header", header: "", statusCode: http.StatusUnauthorized},
		{name: "wrong scheme", header: "Basic dXNlcjpwYXNz", statusCode: http.StatusUnauthorized},
		{name: "empty token", header: "Bearer   ", statusCode: http.StatusUnauthorized},
		{name: "rejected token", header: "Bearer bad", authErr: models.ErrUnauthorized, statusCode: http.StatusUnauthorized},
		{name: "role lookup failure", header: "Bearer bad", authErr: errors.New("failed to resolve role"), statusCode: http.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mockAuth := &mocks.MockAuth{}
			mockLogger := mocks.NewQuietLogger()
			if tt.authErr != nil {
				mockAuth.On("Authenticate", mock.Anything, "bad").Return(nil, tt.authErr)
			}
			mockAuth.On("Authenticate", mock.Anything, "good").Return(&auth.Identity{UserID: "u1", Role: models.RoleCustomer}, nil).Maybe()

			var seen *auth.Identity
			var loggedUser string
			next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				seen, _ = auth.FromContext(r.Context())
				loggedUser = logger.GetLogEvent(r.Context()).UserID
				w.WriteHeader(http.StatusOK)
			})
			handler := loggingMiddleware(mockLogger)(authMiddleware(mockAuth, mockLogger)(next))

			req := httptest.NewRequest(http.MethodGet, "/api/cart", nil)
			if tt.header != "" {
				req.Header.Set("Authorization", tt.header)
			}
			w := httptest.NewRecorder()

			handler.ServeHTTP(w, req)

			assert.Equal(t, tt.statusCode, w.Code)
			if tt.statusCode == http.StatusOK {
				require.NotNil(t, seen)
				assert.Equal(t, "u1", seen.UserID)
				assert.Equal(t, "u1", loggedUser)
			} else {
				assert.Nil(t, seen)
			}
		})
	}
}

func TestRequireAdmin(t *testing.T) {
	tests := []struct {
		name       string
		identity   *auth.Identity
		statusCode int
	}{
		{name: "admin", identity: &auth.Identity{UserID: "a1", Role: models.RoleAdmin}, statusCode: http.StatusOK},
		{name: "customer", identity: &auth.Identity{UserID: "u1", Role: models.RoleCustomer}, statusCode: http.StatusForbidden},
		{name: "anonymous", identity: nil, statusCode: http.StatusForbidden},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			handler := requireAdmin(mocks.NewQuietLogger())(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(http.StatusOK)
			}))

			req := httptest.NewRequest(http.MethodGet, "/api/admin/dashboard", nil)
			if tt.identity != nil {
				req = req.WithContext(auth.WithIdentity(req.Context(), tt.identity))
			}
			w := httptest.NewRecorder()

			handler.ServeHTTP(w, req)

			assert.Equal(t, tt.statusCode, w.Code)
		})
	}
}

func TestMetricsMiddleware_RecordsRouteTemplate(t *testing.T) {
	collector := metrics.NewCollector("test")
	router := mux.NewRouter()
	router.Use(metricsMiddleware(collector))
	router.HandleFunc("/api/books/{id}", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	})

	for _, id := range []string{"b1", "b2", "b3"} {
		router.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/api/books/"+id, nil))
	}

	body := scrapeMetrics(t, collector)
	assert.Contains(t, body, `test_http_requests_total{method="GET",route="/api/books/{id}",status="404"} 3`)
}

func TestGetClientIP(t *testing.T) {
	tests := []struct {
		name       string
		headers    map[string]string
		remoteAddr string
		expected   string
	}{
		{name: "x-forwarded-for", headers: map[string]string{"X-Forwarded-For": "10.0.0.5, 192.168.1.1"}, remoteAddr: "1.1.1.1:80", expected: "10.0.0.5"},
		{name: "x-real-ip", headers: map[string]string{"X-Real-IP": "10.0.0.9"}, remoteAddr: "1.1.1.1:80", expected: "10.0.0.9"},
		{name: "remote addr", remoteAddr: "192.168.1.7:4242", expected: "192.168.1.7"},
		{name: "remote addr without port", remoteAddr: "192.168.1.8", expected: "192.168.1.8"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/", nil)
			req.RemoteAddr = tt.remoteAddr
			for k, v := range tt.headers {
				req.Header.Set(k, v)
			}
			assert.Equal(t, tt.expected, getClientIP(req))
		})
	}
}

func TestResponseWriter_CapturesStatus(t *testing.T) {
	w := httptest.NewRecorder()
	rw := &responseWriter{ResponseWriter: w, statusCode: http.StatusOK}

	rw.WriteHeader(http.StatusConflict)

	assert.Equal(t, http.StatusConflict, rw.statusCode)
	assert.Equal(t, http.StatusConflict, w.Code)
}

func scrapeMetrics(t *testing.T, collector *metrics.Collector) string {
	t.Helper()
	w := httptest.NewRecorder()
	collector.Handler().ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	require.Equal(t, http.StatusOK, w.Code)
	return w.Body.String()
}

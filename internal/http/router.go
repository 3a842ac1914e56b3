package http

import (
	"context"
	"net/http"
	"time"

	"Bookstore_API/internal/auth"
	"Bookstore_API/internal/logger"
	"Bookstore_API/internal/metrics"
	"Bookstore_API/internal/ratelimit"

	"github.com/gorilla/mux"
)

const referenceKinds = "{kind:authors|categories|publishers}"

// Server represents the HTTP server with all dependencies
type Server struct {
	handler   *Handler
	logger    logger.Service
	auth      auth.Service
	collector *metrics.Collector
	server    *http.Server
}

// NewServer creates a new HTTP server
func NewServer(
	addr string,
	handler *Handler,
	logger logger.Service,
	rateLimiter ratelimit.Service,
	authService auth.Service,
	collector *metrics.Collector,
	readTimeout, writeTimeout time.Duration,
) *Server {
	router := mux.NewRouter()

	srv := &Server{
		handler:   handler,
		logger:    logger,
		auth:      authService,
		collector: collector,
		server: &http.Server{
			Addr:         addr,
			Handler:      router,
			ReadTimeout:  readTimeout,
			WriteTimeout: writeTimeout,
		},
	}

	// Order matters: logging -> metrics -> rate limiting -> cors -> recovery
	router.Use(loggingMiddleware(logger))
	router.Use(metricsMiddleware(collector))
	router.Use(rateLimitingMiddleware(rateLimiter, logger))
	router.Use(corsMiddleware())
	router.Use(recoveryMiddleware(logger))

	srv.registerRoutes(router)

	return srv
}

// registerRoutes sets up all API routes. Every route lives on the top-level
// router so a known path requested with another method (a CORS preflight
// included) reaches MethodNotAllowedHandler instead of NotFoundHandler.
func (s *Server) registerRoutes(router *mux.Router) {
	h := s.handler

	router.NotFoundHandler = http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_ = writeError(w, r, http.StatusNotFound, "not found", "no route for "+r.URL.Path)
	})
	// A preflight request for a known path arrives here as a method mismatch
	router.MethodNotAllowedHandler = corsMiddleware()(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_ = writeError(w, r, http.StatusMethodNotAllowed, "method not allowed", r.Method+" is not supported on "+r.URL.Path)
	}))

	router.HandleFunc("/health", h.HealthCheck).Methods(http.MethodGet)
	router.Handle("/metrics", s.collector.Handler()).Methods(http.MethodGet)

	// Public catalog
	router.HandleFunc("/api/books", h.ListBooks).Methods(http.MethodGet)
	router.HandleFunc("/api/books/{id}", h.GetBook).Methods(http.MethodGet)
	router.HandleFunc("/api/"+referenceKinds, h.ListReferences).Methods(http.MethodGet)
	router.HandleFunc("/api/"+referenceKinds+"/{id}", h.GetReference).Methods(http.MethodGet)

	// Admin
	router.Handle("/api/admin/books", s.admin(h.CreateBook)).Methods(http.MethodPost)
	router.Handle("/api/admin/books/{id}", s.admin(h.UpdateBook)).Methods(http.MethodPut)
	router.Handle("/api/admin/books/{id}", s.admin(h.DeleteBook)).Methods(http.MethodDelete)
	router.Handle("/api/admin/"+referenceKinds, s.admin(h.CreateReference)).Methods(http.MethodPost)
	router.Handle("/api/admin/"+referenceKinds+"/{id}", s.admin(h.UpdateReference)).Methods(http.MethodPut)
	router.Handle("/api/admin/"+referenceKinds+"/{id}", s.admin(h.DeleteReference)).Methods(http.MethodDelete)
	router.Handle("/api/admin/orders", s.admin(h.ListAllOrders)).Methods(http.MethodGet)
	router.Handle("/api/admin/orders/{id}/status", s.admin(h.UpdateOrderStatus)).Methods(http.MethodPut)
	router.Handle("/api/admin/users", s.admin(h.ListUsers)).Methods(http.MethodGet)
	router.Handle("/api/admin/users/{id}", s.admin(h.GetUser)).Methods(http.MethodGet)
	router.Handle("/api/admin/users/{id}", s.admin(h.UpdateUser)).Methods(http.MethodPut)
	router.Handle("/api/admin/dashboard", s.admin(h.Dashboard)).Methods(http.MethodGet)
	router.Handle("/api/admin/cache/stats", s.admin(h.CacheStats)).Methods(http.MethodGet)
	router.Handle("/api/admin/cache/clear", s.admin(h.ClearCache)).Methods(http.MethodPost)
	router.Handle("/api/admin/cache/sweep", s.admin(h.SweepCache)).Methods(http.MethodPost)

	// Signed-in customer
	router.Handle("/api/cart", s.customer(h.GetCart)).Methods(http.MethodGet)
	router.Handle("/api/cart", s.customer(h.ClearCart)).Methods(http.MethodDelete)
	router.Handle("/api/cart/items", s.customer(h.AddCartItem)).Methods(http.MethodPost)
	router.Handle("/api/cart/items/{bookId}", s.customer(h.UpdateCartItem)).Methods(http.MethodPut)
	router.Handle("/api/cart/items/{bookId}", s.customer(h.RemoveCartItem)).Methods(http.MethodDelete)
	router.Handle("/api/orders", s.customer(h.Checkout)).Methods(http.MethodPost)
	router.Handle("/api/orders", s.customer(h.ListMyOrders)).Methods(http.MethodGet)
	router.Handle("/api/orders/{id}", s.customer(h.GetOrder)).Methods(http.MethodGet)

	router.HandleFunc("/", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte(`{"message":"Bookstore API","version":"1.0.0","endpoints":["/health","/metrics","/api/books","/api/cart","/api/orders","/api/admin"]}`))
	}).Methods(http.MethodGet)
}

// customer requires a valid bearer token
func (s *Server) customer(next http.HandlerFunc) http.Handler {
	return authMiddleware(s.auth, s.logger)(next)
}

// admin requires a valid bearer token carrying the admin role
func (s *Server) admin(next http.HandlerFunc) http.Handler {
	return authMiddleware(s.auth, s.logger)(requireAdmin(s.logger)(next))
}

// Start starts the HTTP server
func (s *Server) Start() error {
	s.logger.LogInfo(context.Background(), logger.OpServerStart, "Starting HTTP server", map[string]interface{}{
		"addr": s.server.Addr,
	})

	return s.server.ListenAndServe()
}

// Shutdown gracefully shuts down the server
func (s *Server) Shutdown(ctx context.Context) error {
	s.logger.LogInfo(ctx, logger.OpServerShutdown, "Shutting down HTTP server", nil)
	return s.server.Shutdown(ctx)
}

package http

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"reflect"
	"strings"
	"time"

	"Bookstore_API/internal/auth"
	"Bookstore_API/internal/cache"
	"Bookstore_API/internal/cart"
	"Bookstore_API/internal/catalog"
	"Bookstore_API/internal/dashboard"
	"Bookstore_API/internal/logger"
	"Bookstore_API/internal/models"
	"Bookstore_API/internal/orders"
	"Bookstore_API/internal/users"

	"github.com/go-playground/validator/v10"
)

const maxBodyBytes = 1 << 20

// Services groups the domain services the handlers delegate to
type Services struct {
	Catalog   catalog.CatalogService
	Cart      cart.CartService
	Orders    orders.OrderService
	Users     users.UserService
	Dashboard dashboard.DashboardService
	// Stores are the cache stores exposed to cache administration, by name
	Stores map[string]cache.Service
}

// Handler contains the HTTP handlers for the API
type Handler struct {
	catalog   catalog.CatalogService
	carts     cart.CartService
	orders    orders.OrderService
	users     users.UserService
	dashboard dashboard.DashboardService
	stores    map[string]cache.Service
	logger    logger.Service
	validate  *validator.Validate
}

// NewHandler creates a new HTTP handler
func NewHandler(services Services, logger logger.Service) *Handler {
	return &Handler{
		catalog:   services.Catalog,
		carts:     services.Cart,
		orders:    services.Orders,
		users:     services.Users,
		dashboard: services.Dashboard,
		stores:    services.Stores,
		logger:    logger,
		validate:  newValidator(),
	}
}

// ErrorResponse represents an error response
type ErrorResponse struct {
	Error     string    `json:"error"`
	Message   string    `json:"message"`
	Timestamp time.Time `json:"timestamp"`
}

// HealthResponse represents a health check response
type HealthResponse struct {
	Status    string    `json:"status"`
	Timestamp time.Time `json:"timestamp"`
	Version   string    `json:"version"`
}

// HealthCheck handles GET /health
func (h *Handler) HealthCheck(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	response := HealthResponse{
		Status:    "healthy",
		Timestamp: time.Now().UTC(),
		Version:   "1.0.0",
	}

	if err := h.writeJSONResponse(w, r, http.StatusOK, response); err != nil {
		h.logger.LogError(ctx, logger.OpHealthCheck, "", "Failed to encode health response", err, models.LogSeverityLow, nil)
		return
	}

	h.logger.LogInfo(ctx, logger.OpHealthCheck, "Health check performed successfully", nil)
}

// writeJSONResponse writes a JSON response with standard headers including X-Request-ID
func (h *Handler) writeJSONResponse(w http.ResponseWriter, r *http.Request, statusCode int, data interface{}) error {
	return writeJSON(w, r, statusCode, data)
}

// writeErrorResponse writes a standardized error response
func (h *Handler) writeErrorResponse(w http.ResponseWriter, r *http.Request, statusCode int, error, message string) {
	if err := writeError(w, r, statusCode, error, message); err != nil {
		h.logger.LogError(r.Context(), "response_encoding", "", "Failed to encode error response", err, models.LogSeverityLow, nil)
	}
}

// writeServiceError maps a service error onto a status code and writes it.
// Unexpected errors are logged and their text is not sent to the client.
func (h *Handler) writeServiceError(w http.ResponseWriter, r *http.Request, operation string, err error) {
	statusCode := statusCodeForError(err)
	if statusCode == http.StatusInternalServerError {
		h.logger.LogError(r.Context(), operation, "", "Request failed", err, models.LogSeverityHigh, map[string]interface{}{
			"path":   r.URL.Path,
			"method": r.Method,
		})
		h.writeErrorResponse(w, r, statusCode, "internal server error", "An unexpected error occurred")
		return
	}
	h.writeErrorResponse(w, r, statusCode, strings.ToLower(http.StatusText(statusCode)), err.Error())
}

// respond writes a successful result, logging encoding failures
func (h *Handler) respond(w http.ResponseWriter, r *http.Request, operation string, statusCode int, data interface{}) {
	if err := h.writeJSONResponse(w, r, statusCode, data); err != nil {
		h.logger.LogError(r.Context(), operation, "", "Failed to encode response", err, models.LogSeverityLow, nil)
	}
}

// decodeBody reads a JSON body into dst and validates it
func (h *Handler) decodeBody(w http.ResponseWriter, r *http.Request, dst interface{}) error {
	decoder := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	decoder.DisallowUnknownFields()

	if err := decoder.Decode(dst); err != nil {
		return fmt.Errorf("%w: malformed request body: %v", models.ErrInvalidInput, err)
	}
	if err := h.validate.Struct(dst); err != nil {
		return fmt.Errorf("%w: %s", models.ErrInvalidInput, describeValidation(err))
	}
	return nil
}

// identity returns the authenticated caller set by the auth middleware
func (h *Handler) identity(w http.ResponseWriter, r *http.Request) (*auth.Identity, bool) {
	identity, ok := auth.FromContext(r.Context())
	if !ok {
		h.writeErrorResponse(w, r, http.StatusUnauthorized, "unauthorized", "authentication required")
	}
	return identity, ok
}

// statusCodeForError determines the appropriate HTTP status code for an error
func statusCodeForError(err error) int {
	switch {
	case errors.Is(err, models.ErrInvalidInput):
		return http.StatusBadRequest
	case errors.Is(err, models.ErrUnauthorized):
		return http.StatusUnauthorized
	case errors.Is(err, models.ErrForbidden):
		return http.StatusForbidden
	case errors.Is(err, models.ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, models.ErrInsufficientStock), errors.Is(err, models.ErrEmptyCart):
		return http.StatusConflict
	case errors.Is(err, models.ErrRateLimitExceeded):
		return http.StatusTooManyRequests
	default:
		return http.StatusInternalServerError
	}
}

// newValidator reports fields by their JSON names
func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	v.RegisterTagNameFunc(func(field reflect.StructField) string {
		name := strings.SplitN(field.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})
	return v
}

func describeValidation(err error) string {
	var validationErrors validator.ValidationErrors
	if !errors.As(err, &validationErrors) {
		return err.Error()
	}

	problems := make([]string, 0, len(validationErrors))
	for _, fe := range validationErrors {
		if fe.Param() != "" {
			problems = append(problems, fmt.Sprintf("%s must satisfy %s=%s", fe.Field(), fe.Tag(), fe.Param()))
		} else {
			problems = append(problems, fmt.Sprintf("%s must satisfy %s", fe.Field(), fe.Tag()))
		}
	}
	return strings.Join(problems, "; ")
}

package http

import (
	"encoding/json"
	"net/http"
	"time"

	"Bookstore_API/internal/logger"
)

// writeJSON writes data as JSON with the request id header
func writeJSON(w http.ResponseWriter, r *http.Request, statusCode int, data interface{}) error {
	logEvent := logger.GetLogEvent(r.Context())

	w.Header().Set("Content-Type", "application/json")
	w.Header().Set("X-Request-ID", logEvent.ProcessID)
	w.WriteHeader(statusCode)

	return json.NewEncoder(w).Encode(data)
}

func writeError(w http.ResponseWriter, r *http.Request, statusCode int, error, message string) error {
	return writeJSON(w, r, statusCode, ErrorResponse{
		Error:     error,
		Message:   message,
		Timestamp: time.Now().UTC(),
	})
}

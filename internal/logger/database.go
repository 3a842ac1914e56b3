package logger

import (
	"context"
	"encoding/json"
	"fmt"

	"Bookstore_API/internal/models"

	"github.com/jackc/pgx/v5/pgxpool"
)

// PostgresLogStore implements LogStore on the application_logs table
type PostgresLogStore struct {
	pool *pgxpool.Pool
}

// NewPostgresLogStore creates the log table if needed and returns a store on pool.
// The pool is shared with the rest of the service, so Close leaves it open.
func NewPostgresLogStore(ctx context.Context, pool *pgxpool.Pool) (LogStore, error) {
	store := &PostgresLogStore{pool: pool}
	if err := store.createTableIfNotExists(ctx); err != nil {
		return nil, fmt.Errorf("failed to create logs table: %w", err)
	}
	return store, nil
}

// createTableIfNotExists creates the logs table if it doesn't exist
func (s *PostgresLogStore) createTableIfNotExists(ctx context.Context) error {
	query := `
		CREATE TABLE IF NOT EXISTS application_logs (
			id UUID PRIMARY KEY DEFAULT gen_random_uuid(),
			timestamp TIMESTAMP WITH TIME ZONE NOT NULL DEFAULT NOW(),
			severity VARCHAR(10) CHECK (severity IN ('low', 'medium', 'high')),
			message TEXT NOT NULL,
			operation VARCHAR(100) NOT NULL,
			target_name VARCHAR(255),
			process_id UUID NOT NULL,
			process_type VARCHAR(20) NOT NULL CHECK (process_type IN ('request', 'internal')),
			client_ip INET,
			user_id UUID,
			error_details TEXT,
			metadata JSONB,
			created_at TIMESTAMP WITH TIME ZONE DEFAULT NOW()
		);

		CREATE INDEX IF NOT EXISTS idx_application_logs_timestamp ON application_logs(timestamp DESC);
		CREATE INDEX IF NOT EXISTS idx_application_logs_severity ON application_logs(severity) WHERE severity IS NOT NULL;
		CREATE INDEX IF NOT EXISTS idx_application_logs_operation ON application_logs(operation);
		CREATE INDEX IF NOT EXISTS idx_application_logs_process_id ON application_logs(process_id);
		CREATE INDEX IF NOT EXISTS idx_application_logs_user_id ON application_logs(user_id) WHERE user_id IS NOT NULL;
	`

	_, err := s.pool.Exec(ctx, query)
	return err
}

// InsertLog inserts a log entry
func (s *PostgresLogStore) InsertLog(ctx context.Context, entry *models.LogEntry) error {
	query := `
		INSERT INTO application_logs
		(id, timestamp, severity, message, operation, target_name, process_id, process_type, client_ip, user_id, error_details, metadata)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)
	`

	var metadata interface{}
	if len(entry.Metadata) > 0 {
		jsonBytes, err := json.Marshal(entry.Metadata)
		if err != nil {
			return fmt.Errorf("failed to marshal metadata to JSON: %w", err)
		}
		metadata = string(jsonBytes)
	}

	_, err := s.pool.Exec(
		ctx, query,
		entry.ID,
		entry.Timestamp,
		nullable(string(entry.Severity)),
		entry.Message,
		entry.Operation,
		nullable(entry.TargetName),
		entry.ProcessID,
		string(entry.ProcessType),
		nullable(entry.ClientIP),
		nullable(entry.UserID),
		nullable(entry.Error),
		metadata,
	)
	if err != nil {
		return fmt.Errorf("failed to insert log entry: %w", err)
	}

	return nil
}

// Close is a no-op; the pool belongs to the caller
func (s *PostgresLogStore) Close() error {
	return nil
}

// nullable maps "" to SQL NULL
func nullable(s string) interface{} {
	if s == "" {
		return nil
	}
	return s
}

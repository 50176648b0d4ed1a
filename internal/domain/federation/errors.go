package federation

import (
	"fmt"

	"github.com/procurehub/backend/internal/domain/shared"
)

// ErrNotFound is returned when no row exists for a requested id, regardless
// of whether the lookup went to the local store or a tenant database.
var ErrNotFound = shared.ErrNotFound

// ConfigurationError indicates that external mode was requested but the
// tenant's data source configuration is incomplete. It fails fast: no
// connection attempt is made.
type ConfigurationError struct {
	TenantID string
	Reason   string
}

func (e *ConfigurationError) Error() string {
	return fmt.Sprintf("tenant %s: invalid data source configuration: %s", e.TenantID, e.Reason)
}

// ConnectionError indicates that pool acquisition exhausted its retries or an
// ad-hoc test connection failed. Callers surface it as "external database
// unavailable"; there is no silent fallback to the internal store.
type ConnectionError struct {
	TenantID string
	Attempts int
	Err      error
}

func (e *ConnectionError) Error() string {
	return fmt.Sprintf("tenant %s: external database unavailable after %d attempts: %v", e.TenantID, e.Attempts, e.Err)
}

func (e *ConnectionError) Unwrap() error {
	return e.Err
}

// QueryError indicates malformed SQL or an unexpected row shape on the
// tenant's external database.
type QueryError struct {
	TenantID string
	Err      error
}

func (e *QueryError) Error() string {
	return fmt.Sprintf("tenant %s: external query failed: %v", e.TenantID, e.Err)
}

func (e *QueryError) Unwrap() error {
	return e.Err
}

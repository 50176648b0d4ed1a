// Package extdb manages the per-tenant connection pools to external MySQL
// databases the platform does not control. Each tenant gets one bounded pool,
// created lazily, replaced when the tenant's connection settings change, and
// reaped after a period of inactivity.
package extdb

import (
	"context"
	"database/sql"
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	"github.com/go-sql-driver/mysql"
	"github.com/procurehub/backend/internal/domain/federation"
	"go.uber.org/zap"
	"golang.org/x/sync/singleflight"
)

const (
	defaultMaxOpenConns   = 10
	defaultConnectTimeout = 10 * time.Second
	defaultRetryAttempts  = 3
	defaultBackoffBase    = time.Second
	defaultIdleTTL        = 5 * time.Minute
	defaultSweepInterval  = 60 * time.Second
)

// Opener opens a database handle for the given connection parameters.
// Injectable so tests can substitute a mocked driver.
type Opener func(params federation.ConnParams) (*sql.DB, error)

// Manager owns one connection pool per tenant. Pool creation is guarded by a
// per-tenant singleflight group so concurrent cold-start requests cannot each
// create a pool and leak one.
type Manager struct {
	mu    sync.Mutex
	pools map[string]*poolEntry
	group singleflight.Group

	open           Opener
	maxOpenConns   int
	connectTimeout time.Duration
	retryAttempts  int
	backoffBase    time.Duration
	idleTTL        time.Duration
	sweepEvery     time.Duration
	logger         *zap.Logger

	stopCh  chan struct{}
	stopped int32
	wg      sync.WaitGroup
}

type poolEntry struct {
	db        *sql.DB
	params    federation.ConnParams
	createdAt time.Time
	lastUsed  int64 // unix nanos, atomic
}

func (e *poolEntry) touch() {
	atomic.StoreInt64(&e.lastUsed, time.Now().UnixNano())
}

func (e *poolEntry) lastUsedAt() time.Time {
	return time.Unix(0, atomic.LoadInt64(&e.lastUsed))
}

// ManagerOption is a functional option for configuring the manager
type ManagerOption func(*Manager)

// WithOpener substitutes the database opener, used by tests
func WithOpener(open Opener) ManagerOption {
	return func(m *Manager) {
		m.open = open
	}
}

// WithMaxOpenConns bounds each tenant pool's concurrency
func WithMaxOpenConns(n int) ManagerOption {
	return func(m *Manager) {
		m.maxOpenConns = n
	}
}

// WithConnectTimeout sets the driver connect timeout
func WithConnectTimeout(d time.Duration) ManagerOption {
	return func(m *Manager) {
		m.connectTimeout = d
	}
}

// WithRetry configures acquisition retry attempts and the exponential backoff
// base delay
func WithRetry(attempts int, backoffBase time.Duration) ManagerOption {
	return func(m *Manager) {
		if attempts > 0 {
			m.retryAttempts = attempts
		}
		if backoffBase > 0 {
			m.backoffBase = backoffBase
		}
	}
}

// WithIdleTTL sets how long an unused pool survives before the sweep closes it
func WithIdleTTL(d time.Duration) ManagerOption {
	return func(m *Manager) {
		m.idleTTL = d
	}
}

// WithSweepInterval sets how often the idle sweep runs
func WithSweepInterval(d time.Duration) ManagerOption {
	return func(m *Manager) {
		m.sweepEvery = d
	}
}

// WithLogger sets the logger for the manager
func WithLogger(logger *zap.Logger) ManagerOption {
	return func(m *Manager) {
		m.logger = logger
	}
}

// NewManager creates a pool manager and starts its idle sweep
func NewManager(opts ...ManagerOption) *Manager {
	m := &Manager{
		pools:          make(map[string]*poolEntry),
		maxOpenConns:   defaultMaxOpenConns,
		connectTimeout: defaultConnectTimeout,
		retryAttempts:  defaultRetryAttempts,
		backoffBase:    defaultBackoffBase,
		idleTTL:        defaultIdleTTL,
		sweepEvery:     defaultSweepInterval,
		logger:         zap.NewNop(),
		stopCh:         make(chan struct{}),
	}
	for _, opt := range opts {
		opt(m)
	}
	if m.open == nil {
		m.open = m.mysqlOpener()
	}

	m.wg.Add(1)
	go m.sweepLoop()

	return m
}

func (m *Manager) mysqlOpener() Opener {
	return func(params federation.ConnParams) (*sql.DB, error) {
		cfg := mysql.NewConfig()
		cfg.User = params.Username
		cfg.Passwd = params.Password
		cfg.Net = "tcp"
		cfg.Addr = fmt.Sprintf("%s:%d", params.Host, params.Port)
		cfg.DBName = params.Database
		cfg.Timeout = m.connectTimeout
		cfg.ParseTime = true
		return sql.Open("mysql", cfg.FormatDSN())
	}
}

// Acquire returns a connection from the tenant's pool, creating the pool if
// absent or recreating it if params differ from the stored snapshot.
// Acquisition failures are retried with exponential backoff (1s, 2s by
// default); exhaustion yields a ConnectionError.
func (m *Manager) Acquire(ctx context.Context, tenantID string, params federation.ConnParams) (*sql.Conn, error) {
	var lastErr error
	for attempt := 1; attempt <= m.retryAttempts; attempt++ {
		if attempt > 1 {
			delay := m.backoffBase << (attempt - 2)
			m.logger.Warn("Retrying external connection acquisition",
				zap.String("tenant_id", tenantID),
				zap.Int("attempt", attempt),
				zap.Duration("delay", delay),
				zap.Error(lastErr))
			select {
			case <-ctx.Done():
				return nil, &federation.ConnectionError{TenantID: tenantID, Attempts: attempt - 1, Err: ctx.Err()}
			case <-time.After(delay):
			}
		}

		entry, err := m.pool(tenantID, params)
		if err != nil {
			lastErr = err
			continue
		}
		conn, err := entry.db.Conn(ctx)
		if err != nil {
			lastErr = err
			continue
		}
		entry.touch()
		return conn, nil
	}
	return nil, &federation.ConnectionError{TenantID: tenantID, Attempts: m.retryAttempts, Err: lastErr}
}

// pool returns the live pool entry for a tenant, creating or replacing it as
// needed. Creation runs inside a per-tenant singleflight call so concurrent
// first-time requests share one pool.
func (m *Manager) pool(tenantID string, params federation.ConnParams) (*poolEntry, error) {
	m.mu.Lock()
	if entry, ok := m.pools[tenantID]; ok && entry.params == params {
		m.mu.Unlock()
		return entry, nil
	}
	m.mu.Unlock()

	v, err, _ := m.group.Do(tenantID, func() (any, error) {
		m.mu.Lock()
		if entry, ok := m.pools[tenantID]; ok && entry.params == params {
			m.mu.Unlock()
			return entry, nil
		}
		stale := m.pools[tenantID]
		delete(m.pools, tenantID)
		m.mu.Unlock()

		if stale != nil {
			m.logger.Info("Recreating external pool after config change",
				zap.String("tenant_id", tenantID),
				zap.String("host", params.Host),
				zap.String("database", params.Database))
			if err := stale.db.Close(); err != nil {
				m.logger.Warn("Error draining stale pool",
					zap.String("tenant_id", tenantID),
					zap.Error(err))
			}
		}

		db, err := m.open(params)
		if err != nil {
			return nil, err
		}
		db.SetMaxOpenConns(m.maxOpenConns)
		db.SetMaxIdleConns(m.maxOpenConns)
		db.SetConnMaxIdleTime(m.idleTTL)

		entry := &poolEntry{
			db:        db,
			params:    params,
			createdAt: time.Now(),
		}
		entry.touch()

		m.mu.Lock()
		m.pools[tenantID] = entry
		m.mu.Unlock()

		m.logger.Info("Created external pool",
			zap.String("tenant_id", tenantID),
			zap.String("host", params.Host),
			zap.String("database", params.Database),
			zap.Int("max_open_conns", m.maxOpenConns))
		return entry, nil
	})
	if err != nil {
		return nil, err
	}
	return v.(*poolEntry), nil
}

// ExecuteQuery acquires a connection, runs the query, and releases the
// connection in all cases. Rows come back as column-name keyed maps with
// []byte values decoded to strings.
func (m *Manager) ExecuteQuery(ctx context.Context, tenantID string, params federation.ConnParams, query string, args ...any) ([]map[string]any, error) {
	conn, err := m.Acquire(ctx, tenantID, params)
	if err != nil {
		return nil, err
	}
	defer func() { _ = conn.Close() }()

	rows, err := conn.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, &federation.QueryError{TenantID: tenantID, Err: err}
	}
	defer func() { _ = rows.Close() }()

	result, err := scanRows(rows)
	if err != nil {
		return nil, &federation.QueryError{TenantID: tenantID, Err: err}
	}
	return result, nil
}

func scanRows(rows *sql.Rows) ([]map[string]any, error) {
	columns, err := rows.Columns()
	if err != nil {
		return nil, err
	}

	var result []map[string]any
	for rows.Next() {
		values := make([]any, len(columns))
		pointers := make([]any, len(columns))
		for i := range values {
			pointers[i] = &values[i]
		}
		if err := rows.Scan(pointers...); err != nil {
			return nil, err
		}
		row := make(map[string]any, len(columns))
		for i, col := range columns {
			if b, ok := values[i].([]byte); ok {
				row[col] = string(b)
			} else {
				row[col] = values[i]
			}
		}
		result = append(result, row)
	}
	return result, rows.Err()
}

// Refresh forces pool recreation regardless of whether params changed, used
// after administrative config edits.
func (m *Manager) Refresh(ctx context.Context, tenantID string, params federation.ConnParams) error {
	m.Close(tenantID)
	_, err := m.pool(tenantID, params)
	return err
}

// Close drains and removes a tenant's pool; idempotent when absent
func (m *Manager) Close(tenantID string) {
	m.mu.Lock()
	entry, ok := m.pools[tenantID]
	delete(m.pools, tenantID)
	m.mu.Unlock()

	if !ok {
		return
	}
	if err := entry.db.Close(); err != nil {
		m.logger.Warn("Error closing external pool",
			zap.String("tenant_id", tenantID),
			zap.Error(err))
	} else {
		m.logger.Info("Closed external pool", zap.String("tenant_id", tenantID))
	}
}

// TestConnection opens one ad-hoc connection, runs a trivial query, and
// closes the connection whether the query succeeds or fails. The persistent
// pool is untouched, so configuration validation has no side effects.
func (m *Manager) TestConnection(ctx context.Context, params federation.ConnParams) error {
	db, err := m.open(params)
	if err != nil {
		return &federation.ConnectionError{Attempts: 1, Err: err}
	}
	defer func() { _ = db.Close() }()

	ctx, cancel := context.WithTimeout(ctx, m.connectTimeout)
	defer cancel()

	var one int
	if err := db.QueryRowContext(ctx, "SELECT 1").Scan(&one); err != nil {
		return &federation.ConnectionError{Attempts: 1, Err: err}
	}
	return nil
}

// PoolStats is a diagnostic snapshot of one tenant's pool
type PoolStats struct {
	TenantID        string    `json:"tenantId"`
	Host            string    `json:"host"`
	Database        string    `json:"database"`
	OpenConnections int       `json:"openConnections"`
	InUse           int       `json:"inUse"`
	Idle            int       `json:"idle"`
	WaitCount       int64     `json:"waitCount"`
	CreatedAt       time.Time `json:"createdAt"`
	LastUsedAt      time.Time `json:"lastUsedAt"`
}

// Stats returns a snapshot of every live pool
func (m *Manager) Stats() []PoolStats {
	m.mu.Lock()
	defer m.mu.Unlock()

	stats := make([]PoolStats, 0, len(m.pools))
	for tenantID, entry := range m.pools {
		s := entry.db.Stats()
		stats = append(stats, PoolStats{
			TenantID:        tenantID,
			Host:            entry.params.Host,
			Database:        entry.params.Database,
			OpenConnections: s.OpenConnections,
			InUse:           s.InUse,
			Idle:            s.Idle,
			WaitCount:       s.WaitCount,
			CreatedAt:       entry.createdAt,
			LastUsedAt:      entry.lastUsedAt(),
		})
	}
	return stats
}

// PoolCount returns the number of live pools
func (m *Manager) PoolCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.pools)
}

// Shutdown cancels the idle sweep and synchronously drains every pool
func (m *Manager) Shutdown(ctx context.Context) error {
	if atomic.CompareAndSwapInt32(&m.stopped, 0, 1) {
		close(m.stopCh)
	}
	m.wg.Wait()

	m.mu.Lock()
	pools := m.pools
	m.pools = make(map[string]*poolEntry)
	m.mu.Unlock()

	var firstErr error
	for tenantID, entry := range pools {
		if err := entry.db.Close(); err != nil && firstErr == nil {
			firstErr = err
		}
		m.logger.Info("Drained external pool on shutdown", zap.String("tenant_id", tenantID))

		select {
		case <-ctx.Done():
			return ctx.Err()
		default:
		}
	}
	return firstErr
}

func (m *Manager) sweepLoop() {
	defer m.wg.Done()

	ticker := time.NewTicker(m.sweepEvery)
	defer ticker.Stop()

	for {
		select {
		case <-m.stopCh:
			return
		case <-ticker.C:
			m.sweepIdle()
		}
	}
}

func (m *Manager) sweepIdle() {
	cutoff := time.Now().Add(-m.idleTTL)

	m.mu.Lock()
	var expired []string
	for tenantID, entry := range m.pools {
		if entry.lastUsedAt().Before(cutoff) {
			expired = append(expired, tenantID)
		}
	}
	m.mu.Unlock()

	for _, tenantID := range expired {
		m.logger.Info("Closing idle external pool", zap.String("tenant_id", tenantID))
		m.Close(tenantID)
	}
}

package cache

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"
	"time"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

const (
	defaultInvalidationChannel = "federation:tenant-invalidation"
	defaultCloseTimeout        = 5 * time.Second
)

// InvalidationMessage announces that a tenant's data source configuration
// changed and every instance must drop its cached entries and pool for that
// tenant.
type InvalidationMessage struct {
	TenantID  string `json:"tenantId"`
	Timestamp int64  `json:"timestamp"`
}

// TenantInvalidator fans tenant invalidations out to all horizontally scaled
// instances over Redis Pub/Sub. The TTL cache is process-local; without the
// fan-out a config edit on one instance would leave stale pools and cache
// entries alive on the others.
type TenantInvalidator struct {
	client     *redis.Client
	ownsClient bool
	channel    string
	logger     *zap.Logger
	cancelFn   context.CancelFunc
	doneCh     chan struct{}
	doneOnce   sync.Once
	mu         sync.Mutex
	isRunning  bool
}

// TenantInvalidatorOption is a functional option for configuring the invalidator
type TenantInvalidatorOption func(*TenantInvalidator)

// WithInvalidatorChannel sets the Pub/Sub channel name
func WithInvalidatorChannel(channel string) TenantInvalidatorOption {
	return func(i *TenantInvalidator) {
		i.channel = channel
	}
}

// WithInvalidatorLogger sets the logger for the invalidator
func WithInvalidatorLogger(logger *zap.Logger) TenantInvalidatorOption {
	return func(i *TenantInvalidator) {
		i.logger = logger
	}
}

// NewTenantInvalidator creates an invalidator with its own Redis client
func NewTenantInvalidator(addr, password string, db int, opts ...TenantInvalidatorOption) (*TenantInvalidator, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     addr,
		Password: password,
		DB:       db,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := client.Ping(ctx).Err(); err != nil {
		return nil, fmt.Errorf("failed to connect to Redis: %w", err)
	}

	inv := &TenantInvalidator{
		client:     client,
		ownsClient: true,
		channel:    defaultInvalidationChannel,
		logger:     zap.NewNop(),
		doneCh:     make(chan struct{}),
	}
	for _, opt := range opts {
		opt(inv)
	}
	return inv, nil
}

// NewTenantInvalidatorWithClient creates an invalidator with an existing
// Redis client. The caller retains ownership of the client.
func NewTenantInvalidatorWithClient(client *redis.Client, opts ...TenantInvalidatorOption) *TenantInvalidator {
	inv := &TenantInvalidator{
		client:     client,
		ownsClient: false,
		channel:    defaultInvalidationChannel,
		logger:     zap.NewNop(),
		doneCh:     make(chan struct{}),
	}
	for _, opt := range opts {
		opt(inv)
	}
	return inv
}

// Publish announces a tenant invalidation to all subscribers
func (i *TenantInvalidator) Publish(ctx context.Context, tenantID string) error {
	msg := InvalidationMessage{
		TenantID:  tenantID,
		Timestamp: time.Now().UnixNano(),
	}
	data, err := json.Marshal(msg)
	if err != nil {
		return fmt.Errorf("failed to marshal invalidation message: %w", err)
	}
	if err := i.client.Publish(ctx, i.channel, data).Err(); err != nil {
		i.logger.Error("Failed to publish tenant invalidation",
			zap.String("tenant_id", tenantID),
			zap.String("channel", i.channel),
			zap.Error(err))
		return fmt.Errorf("failed to publish invalidation: %w", err)
	}
	i.logger.Debug("Published tenant invalidation", zap.String("tenant_id", tenantID))
	return nil
}

// Subscribe starts consuming invalidation messages, invoking handler for each
// one. It returns immediately; consumption happens on a background goroutine
// until Close is called.
func (i *TenantInvalidator) Subscribe(handler func(tenantID string)) error {
	i.mu.Lock()
	defer i.mu.Unlock()
	if i.isRunning {
		return fmt.Errorf("invalidator already subscribed")
	}

	ctx, cancel := context.WithCancel(context.Background())
	i.cancelFn = cancel
	i.isRunning = true

	pubsub := i.client.Subscribe(ctx, i.channel)

	go func() {
		defer i.doneOnce.Do(func() { close(i.doneCh) })
		defer func() { _ = pubsub.Close() }()

		ch := pubsub.Channel()
		for {
			select {
			case <-ctx.Done():
				return
			case msg, ok := <-ch:
				if !ok {
					return
				}
				var payload InvalidationMessage
				if err := json.Unmarshal([]byte(msg.Payload), &payload); err != nil {
					i.logger.Warn("Ignoring malformed invalidation message", zap.Error(err))
					continue
				}
				if payload.TenantID == "" {
					continue
				}
				i.logger.Info("Received tenant invalidation",
					zap.String("tenant_id", payload.TenantID))
				handler(payload.TenantID)
			}
		}
	}()

	return nil
}

// Close stops the subscriber and releases the Redis client when owned
func (i *TenantInvalidator) Close() error {
	i.mu.Lock()
	if i.cancelFn != nil {
		i.cancelFn()
	}
	running := i.isRunning
	i.isRunning = false
	i.mu.Unlock()

	if running {
		select {
		case <-i.doneCh:
		case <-time.After(defaultCloseTimeout):
			i.logger.Warn("Timed out waiting for invalidation subscriber to stop")
		}
	}

	if i.ownsClient {
		return i.client.Close()
	}
	return nil
}

package archive

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync"

	"github.com/redis/go-redis/v9"

	"github.com/jj-oyna/glass-pos/internal/order"
)

// ErrNotFound indicates the requested order is not in the archive.
var ErrNotFound = errors.New("archive: order not found")

// Store is the newest-first log of finalized orders. Orders are
// append-only: there is no update or delete. The whole list is persisted
// to a single redis key on every mutation, so archived orders survive
// restarts and later catalog changes.
type Store struct {
	client *redis.Client
	key    string

	mu     sync.Mutex
	orders []order.SavedOrder
}

// New constructs a store persisting under the given key.
func New(client *redis.Client, key string) *Store {
	if key == "" {
		key = "glasspos:archive"
	}
	return &Store{client: client, key: key}
}

// Load reads the persisted archive blob. A missing key yields an empty
// archive.
func (s *Store) Load(ctx context.Context) error {
	if s.client == nil {
		return errors.New("archive: redis client not configured")
	}
	data, err := s.client.Get(ctx, s.key).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil
		}
		return fmt.Errorf("archive: load blob: %w", err)
	}
	var orders []order.SavedOrder
	if err := json.Unmarshal(data, &orders); err != nil {
		return fmt.Errorf("archive: decode blob: %w", err)
	}
	s.mu.Lock()
	s.orders = orders
	s.mu.Unlock()
	return nil
}

// Prepend inserts the order at the front and rewrites the whole blob.
// The in-memory entry is committed before the write, so a persistence
// failure leaves the business record in place; the error tells the caller
// durability is behind. The mutex is held across the SET so concurrent
// prepends cannot land their snapshots out of order and persist a stale
// blob over a newer one.
func (s *Store) Prepend(ctx context.Context, o order.SavedOrder) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.orders = append([]order.SavedOrder{o}, s.orders...)
	data, err := json.Marshal(s.orders)
	if err != nil {
		return fmt.Errorf("archive: encode blob: %w", err)
	}
	if s.client == nil {
		return errors.New("archive: redis client not configured")
	}
	if err := s.client.Set(ctx, s.key, data, 0).Err(); err != nil {
		return fmt.Errorf("archive: persist blob: %w", err)
	}
	return nil
}

// All returns the full sequence, newest first. The slice is a copy for
// read-only iteration and is never nil, so an empty archive serializes
// as an empty JSON array.
func (s *Store) All() []order.SavedOrder {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]order.SavedOrder, 0, len(s.orders))
	return append(out, s.orders...)
}

// Get looks up one archived order by id.
func (s *Store) Get(id string) (order.SavedOrder, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, o := range s.orders {
		if o.ID == id {
			return o, nil
		}
	}
	return order.SavedOrder{}, ErrNotFound
}

// Len returns the number of archived orders.
func (s *Store) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.orders)
}

// PingRedis probes the backing store for readiness checks.
func (s *Store) PingRedis(ctx context.Context) error {
	if s.client == nil {
		return errors.New("archive: redis client not configured")
	}
	return s.client.Ping(ctx).Err()
}

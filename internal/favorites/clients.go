package favorites

import (
	"sync"

	"github.com/MrSnakeDoc/ruangkopi/internal/logger"
)

// Clients hands out one Store per client so that mutations for the same
// client are serialized inside this process.
type Clients struct {
	mu     sync.Mutex
	kv     KV
	logger logger.Logger
	opts   []Option
	stores map[string]*Store
}

// NewClients creates a per-client store registry over a shared KV
func NewClients(kv KV, log logger.Logger, opts ...Option) *Clients {
	return &Clients{
		kv:     kv,
		logger: log,
		opts:   opts,
		stores: make(map[string]*Store),
	}
}

// For returns the store of client, creating it on first use.
func (c *Clients) For(client string) *Store {
	key := Key(client)

	c.mu.Lock()
	defer c.mu.Unlock()

	if s, ok := c.stores[key]; ok {
		return s
	}
	s := NewStore(c.kv, key, c.logger, c.opts...)
	c.stores[key] = s
	return s
}

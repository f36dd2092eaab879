package servicetest

import (
	"context"
	"fmt"
	"sync"
	"time"

	"gadget-rental/internal/redisclient"
)

// Cache stands in for Redis
type Cache struct {
	mu        sync.Mutex
	sessions  map[string]int64
	locks     map[string]string
	idem      map[string]string
	reminders map[int64]bool
}

func NewCache() *Cache {
	return &Cache{
		sessions:  map[string]int64{},
		locks:     map[string]string{},
		idem:      map[string]string{},
		reminders: map[int64]bool{},
	}
}

func (c *Cache) CreateSession(_ context.Context, token string, userID int64, _ time.Duration) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.sessions[token] = userID
	return nil
}

func (c *Cache) GetSession(_ context.Context, token string) (int64, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	id, ok := c.sessions[token]
	if !ok {
		return 0, redisclient.ErrSessionNotFound
	}
	return id, nil
}

func (c *Cache) DeleteSession(_ context.Context, token string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	delete(c.sessions, token)
	return nil
}

func (c *Cache) AcquireLock(_ context.Context, key, token string, _ time.Duration) (bool, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if _, held := c.locks[key]; held {
		return false, nil
	}
	c.locks[key] = token
	return true, nil
}

func (c *Cache) ReleaseLock(_ context.Context, key, token string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.locks[key] == token {
		delete(c.locks, key)
	}
	return nil
}

func (c *Cache) SetIdempotencyKey(_ context.Context, key string, value interface{}, _ time.Duration) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.idem[key] = fmt.Sprint(value)
	return nil
}

func (c *Cache) GetIdempotencyKey(_ context.Context, key string) (string, bool, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	v, ok := c.idem[key]
	return v, ok, nil
}

func (c *Cache) MarkReminderSent(_ context.Context, userID int64, _ time.Duration) (bool, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.reminders[userID] {
		return false, nil
	}
	c.reminders[userID] = true
	return true, nil
}

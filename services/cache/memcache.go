package cache

import (
	"time"

	"github.com/bradfitz/gomemcache/memcache"

	"dealradar/dealworker/pkg/errors"
)

// MemcacheService implements CacheService using memcache. It backs the
// worker's seen-post dedup keys and its rate limit block keys.
type MemcacheService struct {
	client *memcache.Client
}

// NewMemcacheService creates a new memcache service
func NewMemcacheService(serverAddr string) *MemcacheService {
	return &MemcacheService{
		client: memcache.New(serverAddr),
	}
}

// Get retrieves a value from memcache. A miss is returned as-is so
// callers can keep treating "no error" as "key exists"; every other
// failure is wrapped as a cache error.
func (m *MemcacheService) Get(key string) ([]byte, error) {
	item, err := m.client.Get(key)
	if err == memcache.ErrCacheMiss {
		return nil, err
	}
	if err != nil {
		return nil, errors.NewCache(key, "memcache get failed", err)
	}
	return item.Value, nil
}

// Set stores a value in memcache with an expiration time
func (m *MemcacheService) Set(key string, value []byte, expiration time.Duration) error {
	err := m.client.Set(&memcache.Item{
		Key:        key,
		Value:      value,
		Expiration: int32(expiration.Seconds()),
	})
	if err != nil {
		return errors.NewCache(key, "memcache set failed", err)
	}
	return nil
}

// Delete removes a value from memcache. Deleting an absent key is not an
// error; dedup and block keys expire on their own.
func (m *MemcacheService) Delete(key string) error {
	err := m.client.Delete(key)
	if err != nil && err != memcache.ErrCacheMiss {
		return errors.NewCache(key, "memcache delete failed", err)
	}
	return nil
}

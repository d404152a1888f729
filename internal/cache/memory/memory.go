package memory

import (
	"time"

	gocache "github.com/patrickmn/go-cache"
	"github.com/zeroends/skinhub/internal/cache"
)

type Mem struct{ c *gocache.Cache }

// New creates an in-process cache with the given default TTL.
// A janitor compacts expired entries every minute.
func New(defaultTTL time.Duration) cache.Cache {
	return &Mem{c: gocache.New(defaultTTL, time.Minute)}
}

func (m *Mem) Get(k string) ([]byte, bool) {
	v, ok := m.c.Get(k)
	if !ok {
		return nil, false
	}
	b, _ := v.([]byte)
	return b, true
}

func (m *Mem) Set(k string, v []byte, ttl time.Duration) { m.c.Set(k, v, ttl) }

func (m *Mem) Add(k string, v []byte, ttl time.Duration) error {
	if err := m.c.Add(k, v, ttl); err != nil {
		return cache.ErrExists
	}
	return nil
}

func (m *Mem) Delete(k string) { m.c.Delete(k) }

package catalog

import (
	"context"
	"sync"
	"time"

	"github.com/MarcGrol/phoneloom/lib/mytime"
)

// ProductCache holds the last fetched catalog together with the moment it was fetched
type ProductCache struct {
	sync.Mutex
	value     []Phone
	fetchedAt time.Time
	ttl       time.Duration
	nower     mytime.Nower
}

func NewProductCache(ttl time.Duration, nower mytime.Nower) *ProductCache {
	return &ProductCache{
		ttl:   ttl,
		nower: nower,
	}
}

func (pc *ProductCache) isFresh(now time.Time) bool {
	return pc.value != nil && now.Sub(pc.fetchedAt) < pc.ttl
}

// Get returns the cached catalog when it is fresh, otherwise it calls fetch and remembers the outcome.
// A failed fetch leaves the cache untouched.
func (pc *ProductCache) Get(c context.Context, forceRefresh bool, fetch func(c context.Context) ([]Phone, error)) ([]Phone, error) {
	pc.Lock()
	defer pc.Unlock()

	now := pc.nower.Now()
	if !forceRefresh && pc.isFresh(now) {
		return pc.value, nil
	}

	phones, err := fetch(c)
	if err != nil {
		return nil, err
	}
	if phones == nil {
		phones = []Phone{}
	}
	pc.value = phones
	pc.fetchedAt = now

	return pc.value, nil
}

func (pc *ProductCache) Clear() {
	pc.Lock()
	defer pc.Unlock()

	pc.value = nil
	pc.fetchedAt = time.Time{}
}

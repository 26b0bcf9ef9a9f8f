package cart

import (
	"context"
	"time"

	"github.com/MarcGrol/phoneloom/lib/mystore"
	"github.com/MarcGrol/phoneloom/lib/mytime"
)

// SessionStore keeps one cart per shopper session for a limited time.
// Carts handed out share no state with the stored ones.
type SessionStore interface {
	Get(c context.Context, sessionUID string) (Cart, bool, error)
	Put(c context.Context, cart Cart) error
	Delete(c context.Context, sessionUID string) error
	// Update applies mutate to the stored cart and stores the outcome atomically.
	// mutate is not called when the cart does not exist; when it fails nothing is stored.
	Update(c context.Context, sessionUID string, mutate func(cart *Cart) error) (Cart, bool, error)
}

type storedCart struct {
	Cart      Cart
	ExpiresAt time.Time
}

type inMemorySessionStore struct {
	store mystore.Store[storedCart]
	nower mytime.Nower
	ttl   time.Duration
}

func newInMemorySessionStore(c context.Context, nower mytime.Nower, ttl time.Duration) (SessionStore, func(), error) {
	store, cleanup, err := mystore.NewInMemoryStore[storedCart](c)
	if err != nil {
		return nil, nil, err
	}
	return &inMemorySessionStore{
		store: store,
		nower: nower,
		ttl:   ttl,
	}, cleanup, nil
}

func (s *inMemorySessionStore) Get(c context.Context, sessionUID string) (Cart, bool, error) {
	return s.get(c, sessionUID, s.nower.Now())
}

func (s *inMemorySessionStore) get(c context.Context, sessionUID string, now time.Time) (Cart, bool, error) {
	stored, found, err := s.store.Get(c, sessionUID)
	if err != nil {
		return Cart{}, false, err
	}
	if !found {
		return Cart{}, false, nil
	}
	if !now.Before(stored.ExpiresAt) {
		return Cart{}, false, s.store.Delete(c, sessionUID)
	}
	return stored.Cart.Clone(), true, nil
}

func (s *inMemorySessionStore) Put(c context.Context, cart Cart) error {
	return s.put(c, cart, s.nower.Now())
}

func (s *inMemorySessionStore) put(c context.Context, cart Cart, now time.Time) error {
	return s.store.Put(c, cart.SessionUID, storedCart{
		Cart:      cart.Clone(),
		ExpiresAt: now.Add(s.ttl),
	})
}

func (s *inMemorySessionStore) Update(c context.Context, sessionUID string, mutate func(cart *Cart) error) (Cart, bool, error) {
	var updated Cart
	var found bool
	err := s.store.RunInTransaction(c, func(c context.Context) error {
		now := s.nower.Now()

		cart, exists, err := s.get(c, sessionUID, now)
		if err != nil || !exists {
			return err
		}

		err = mutate(&cart)
		if err != nil {
			return err
		}

		err = s.put(c, cart, now)
		if err != nil {
			return err
		}
		updated, found = cart, true
		return nil
	})
	if err != nil {
		return Cart{}, false, err
	}
	return updated, found, nil
}

func (s *inMemorySessionStore) Delete(c context.Context, sessionUID string) error {
	return s.store.Delete(c, sessionUID)
}

// NewSessionStore picks redis when an address is configured
func NewSessionStore(c context.Context, redisAddr string, redisPassword string, nower mytime.Nower, ttl time.Duration) (SessionStore, func(), error) {
	if redisAddr != "" {
		return NewRedisSessionStore(c, redisAddr, redisPassword, ttl)
	}
	return newInMemorySessionStore(c, nower, ttl)
}

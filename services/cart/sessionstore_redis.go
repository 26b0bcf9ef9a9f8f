package cart

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

const (
	redisKeyPrefix         = "phoneloom:cart:"
	maxRedisUpdateAttempts = 10
)

type redisSessionStore struct {
	client *redis.Client
	ttl    time.Duration
}

func NewRedisSessionStore(c context.Context, addr string, password string, ttl time.Duration) (SessionStore, func(), error) {
	client := redis.NewClient(&redis.Options{
		Addr:     addr,
		Password: password,
	})
	err := client.Ping(c).Err()
	if err != nil {
		client.Close()
		return nil, nil, fmt.Errorf("error connecting to redis at %s: %w", addr, err)
	}

	return &redisSessionStore{
			client: client,
			ttl:    ttl,
		}, func() {
			client.Close()
		}, nil
}

func redisKey(sessionUID string) string {
	return redisKeyPrefix + sessionUID
}

func (s *redisSessionStore) Get(c context.Context, sessionUID string) (Cart, bool, error) {
	val, err := s.client.Get(c, redisKey(sessionUID)).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return Cart{}, false, nil
		}
		return Cart{}, false, fmt.Errorf("error fetching cart %s: %w", sessionUID, err)
	}

	cart := Cart{}
	err = json.Unmarshal(val, &cart)
	if err != nil {
		return Cart{}, false, fmt.Errorf("error parsing cart %s: %w", sessionUID, err)
	}
	return cart, true, nil
}

// Put refreshes the expiry on every write, so active sessions stay alive
func (s *redisSessionStore) Put(c context.Context, cart Cart) error {
	jsonData, err := json.Marshal(cart)
	if err != nil {
		return fmt.Errorf("error serializing cart %s: %w", cart.SessionUID, err)
	}
	err = s.client.Set(c, redisKey(cart.SessionUID), jsonData, s.ttl).Err()
	if err != nil {
		return fmt.Errorf("error storing cart %s: %w", cart.SessionUID, err)
	}
	return nil
}

func (s *redisSessionStore) Delete(c context.Context, sessionUID string) error {
	err := s.client.Del(c, redisKey(sessionUID)).Err()
	if err != nil {
		return fmt.Errorf("error deleting cart %s: %w", sessionUID, err)
	}
	return nil
}

// Update retries when the cart changes between reading and writing it
func (s *redisSessionStore) Update(c context.Context, sessionUID string, mutate func(cart *Cart) error) (Cart, bool, error) {
	key := redisKey(sessionUID)

	var updated Cart
	var found bool
	txf := func(tx *redis.Tx) error {
		found = false

		val, err := tx.Get(c, key).Bytes()
		if err != nil {
			if errors.Is(err, redis.Nil) {
				return nil
			}
			return fmt.Errorf("error fetching cart %s: %w", sessionUID, err)
		}

		cart := Cart{}
		err = json.Unmarshal(val, &cart)
		if err != nil {
			return fmt.Errorf("error parsing cart %s: %w", sessionUID, err)
		}

		err = mutate(&cart)
		if err != nil {
			return err
		}

		jsonData, err := json.Marshal(cart)
		if err != nil {
			return fmt.Errorf("error serializing cart %s: %w", sessionUID, err)
		}
		_, err = tx.TxPipelined(c, func(pipe redis.Pipeliner) error {
			pipe.Set(c, key, jsonData, s.ttl)
			return nil
		})
		if err != nil {
			return err
		}

		updated, found = cart, true
		return nil
	}

	for attempt := 0; attempt < maxRedisUpdateAttempts; attempt++ {
		err := s.client.Watch(c, txf, key)
		if errors.Is(err, redis.TxFailedErr) {
			continue
		}
		if err != nil {
			return Cart{}, false, err
		}
		return updated, found, nil
	}

	return Cart{}, false, fmt.Errorf("cart %s kept changing, gave up after %d attempts", sessionUID, maxRedisUpdateAttempts)
}

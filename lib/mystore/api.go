package mystore

import (
	"context"
	"os"
)

type ctxTransactionKey struct{}

// Filter narrows a Query. Compare is one of "=", "<", "<=", ">" or ">=".
type Filter struct {
	Field   string
	Compare string
	Value   any
}

// Store persists one kind of entity by uid. Calls made with the context handed to
// RunInTransaction take part in that transaction.
//
//go:generate mockgen -source=api.go -package mystore -destination store_mock.go Store
type Store[T any] interface {
	RunInTransaction(c context.Context, f func(c context.Context) error) error
	Put(c context.Context, uid string, value T) error
	Get(c context.Context, uid string) (T, bool, error)
	Delete(c context.Context, uid string) error
	List(c context.Context) ([]T, error)
	Query(c context.Context, filters []Filter, orderByField string) ([]T, error)
}

// New picks Datastore when running in a Google Cloud project and memory otherwise
func New[T any](c context.Context) (Store[T], func(), error) {
	if os.Getenv("GOOGLE_CLOUD_PROJECT") != "" {
		return newGcloudStore[T](c)
	}

	return NewInMemoryStore[T](c)
}

package mystore

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

type Handset struct {
	UID         string
	Brand       string
	Stock       int
	ReleaseDate time.Time
}

var (
	released = time.Date(2024, time.March, 1, 0, 0, 0, 0, time.UTC)
	handset  = Handset{UID: "123", Brand: "Nokia", Stock: 4, ReleaseDate: released}
)

func TestStore(t *testing.T) {
	c := context.TODO()
	ps, cleanup, err := NewInMemoryStore[Handset](c)
	assert.NoError(t, err)
	defer cleanup()

	t.Run("Get not found", func(t *testing.T) {
		_, found, err := ps.Get(c, handset.UID)
		assert.NoError(t, err)
		assert.False(t, found)
	})

	t.Run("Put", func(t *testing.T) {
		err = ps.Put(c, handset.UID, handset)
		assert.NoError(t, err)
	})

	t.Run("Get found", func(t *testing.T) {
		p, found, err := ps.Get(c, handset.UID)
		assert.NoError(t, err)
		assert.True(t, found)
		assert.Equal(t, Handset{UID: "123", Brand: "Nokia", Stock: 4, ReleaseDate: released}, p)
	})

	t.Run("List", func(t *testing.T) {
		all, err := ps.List(c)
		assert.NoError(t, err)
		assert.Equal(t, []Handset{handset}, all)
	})

	t.Run("Delete", func(t *testing.T) {
		err := ps.Delete(c, handset.UID)
		assert.NoError(t, err)

		_, found, err := ps.Get(c, handset.UID)
		assert.NoError(t, err)
		assert.False(t, found)
	})
}

func TestTransactionRollback(t *testing.T) {
	c := context.TODO()
	ps, _, err := NewInMemoryStore[Handset](c)
	assert.NoError(t, err)

	err = ps.RunInTransaction(c, func(c context.Context) error {
		err := ps.Put(c, handset.UID, handset)
		assert.NoError(t, err)
		return fmt.Errorf("abort")
	})
	assert.Error(t, err)

	_, found, err := ps.Get(c, handset.UID)
	assert.NoError(t, err)
	assert.False(t, found)

	err = ps.RunInTransaction(c, func(c context.Context) error {
		return ps.Put(c, handset.UID, handset)
	})
	assert.NoError(t, err)

	_, found, err = ps.Get(c, handset.UID)
	assert.NoError(t, err)
	assert.True(t, found)
}

func TestQuery(t *testing.T) {
	c := context.TODO()
	ps, _, err := NewInMemoryStore[Handset](c)
	assert.NoError(t, err)

	for _, h := range []Handset{
		{UID: "1", Brand: "Nokia", Stock: 0, ReleaseDate: released},
		{UID: "2", Brand: "Nokia", Stock: 3, ReleaseDate: released.AddDate(0, 1, 0)},
		{UID: "3", Brand: "Apple", Stock: 8, ReleaseDate: released.AddDate(0, 2, 0)},
	} {
		assert.NoError(t, ps.Put(c, h.UID, h))
	}

	t.Run("equality and order descending", func(t *testing.T) {
		found, err := ps.Query(c, []Filter{{Field: "Brand", Compare: "=", Value: "Nokia"}}, "-ReleaseDate")
		assert.NoError(t, err)
		assert.Len(t, found, 2)
		assert.Equal(t, "2", found[0].UID)
		assert.Equal(t, "1", found[1].UID)
	})

	t.Run("range", func(t *testing.T) {
		found, err := ps.Query(c, []Filter{{Field: "Stock", Compare: ">", Value: 0}}, "Stock")
		assert.NoError(t, err)
		assert.Len(t, found, 2)
		assert.Equal(t, "2", found[0].UID)
		assert.Equal(t, "3", found[1].UID)
	})

	t.Run("unknown field", func(t *testing.T) {
		_, err := ps.Query(c, []Filter{{Field: "Color", Compare: "=", Value: "red"}}, "")
		assert.Error(t, err)
	})
}

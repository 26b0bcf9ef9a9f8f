package myevents

import (
	"bytes"
	"encoding/json"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type orderPlaced struct {
	OrderUID string
}

func (e orderPlaced) GetEventTypeName() string { return "order.placed" }
func (e orderPlaced) GetAggregateName() string { return e.OrderUID }

func TestParseEventEnvelope(t *testing.T) {
	t.Run("roundtrip through push request", func(t *testing.T) {
		req, err := NewPushRequest("order", "order-catalog", orderPlaced{OrderUID: "o1"})
		require.NoError(t, err)
		body, err := json.Marshal(req)
		require.NoError(t, err)

		envelope, err := ParseEventEnvelope(bytes.NewReader(body))
		require.NoError(t, err)

		assert.Equal(t, "order", envelope.Topic)
		assert.Equal(t, "o1", envelope.AggregateUID)
		assert.Equal(t, "order.placed", envelope.EventTypeName)
		assert.JSONEq(t, `{"OrderUID":"o1"}`, envelope.EventPayload)
		assert.Equal(t, "order.order.placed.o1", envelope.String())
	})

	t.Run("invalid body", func(t *testing.T) {
		_, err := ParseEventEnvelope(strings.NewReader("{"))
		assert.Error(t, err)
	})
}

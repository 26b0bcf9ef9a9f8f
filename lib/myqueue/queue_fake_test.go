package myqueue

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestFakeQueueDispatchesTask(t *testing.T) {
	received := make(chan string, 1)
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		body, _ := io.ReadAll(r.Body)
		assert.Equal(t, http.MethodPut, r.Method)
		received <- r.URL.Path + ":" + string(body)
	}))
	defer server.Close()

	q := &fakeTaskQueue{baseURL: server.URL, client: server.Client()}

	err := q.Enqueue(context.TODO(), Task{UID: "t1", WebhookURLPath: "/pubsub/order/t1", Payload: []byte("x")})
	assert.NoError(t, err)

	select {
	case got := <-received:
		assert.Equal(t, "/pubsub/order/t1:x", got)
	case <-time.After(3 * time.Second):
		t.Fatal("task not dispatched")
	}
}

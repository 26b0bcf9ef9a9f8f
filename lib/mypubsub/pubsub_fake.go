package mypubsub

import (
	"bytes"
	"context"
	"encoding/json"
	"log"
	"net/http"
	"os"
	"sync"

	"github.com/MarcGrol/phoneloom/lib/myevents"
)

// fakePubSub delivers messages in-process by posting them to the subscribed urls,
// so local runs without a google cloud project still see their events arrive.
type fakePubSub struct {
	sync.Mutex
	subscriptions map[string][]string
	client        *http.Client
}

func init() {
	if os.Getenv("GOOGLE_CLOUD_PROJECT") == "" {
		New = newFakePubSub
	}
}

func newFakePubSub(c context.Context) (PubSub, func(), error) {
	return &fakePubSub{
			subscriptions: map[string][]string{},
			client:        http.DefaultClient,
		}, func() {
		}, nil
}

func (ps *fakePubSub) Subscribe(c context.Context, topic string, pushURL string) error {
	ps.Lock()
	defer ps.Unlock()

	ps.subscriptions[topic] = append(ps.subscriptions[topic], pushURL)
	return nil
}

func (ps *fakePubSub) CreateTopic(c context.Context, topic string) error {
	return nil
}

func (ps *fakePubSub) Publish(c context.Context, topic string, data string) error {
	ps.Lock()
	urls := append([]string{}, ps.subscriptions[topic]...)
	ps.Unlock()

	for _, url := range urls {
		body, err := json.Marshal(myevents.PushRequest{
			Message:      myevents.PushMessage{Data: []byte(data)},
			Subscription: topic,
		})
		if err != nil {
			return err
		}
		go ps.deliver(url, body)
	}
	return nil
}

func (ps *fakePubSub) deliver(url string, body []byte) {
	resp, err := ps.client.Post(url, "application/json", bytes.NewReader(body))
	if err != nil {
		log.Printf("error delivering message to %s: %s", url, err)
		return
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 300 {
		log.Printf("subscriber %s responded with status %d", url, resp.StatusCode)
	}
}

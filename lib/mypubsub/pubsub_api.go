package mypubsub

import "context"

// PubSub carries domain events between services. Subscribers receive them as push requests.
//
//go:generate mockgen -source=pubsub_api.go -package mypubsub -destination pubsub_mock.go PubSub
type PubSub interface {
	Publish(c context.Context, topic string, data string) error
	CreateTopic(c context.Context, topic string) error
	Subscribe(c context.Context, topic string, pushURL string) error
}

var New func(c context.Context) (PubSub, func(), error)

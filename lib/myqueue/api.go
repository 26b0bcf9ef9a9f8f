package myqueue

import (
	"context"
	"fmt"
)

type Task struct {
	UID            string
	WebhookURLPath string
	Payload        []byte
}

// Location identifies the Cloud Tasks queue that receives outbox triggers
type Location struct {
	ProjectID  string
	LocationID string
	QueueName  string
}

func (l Location) path() string {
	return fmt.Sprintf("projects/%s/locations/%s/queues/%s", l.ProjectID, l.LocationID, l.QueueName)
}

var New func(c context.Context, location Location) (TaskQueuer, func(), error)

//go:generate mockgen -source=api.go -package myqueue -destination queuer_mock.go TaskQueuer
type TaskQueuer interface {
	Enqueue(c context.Context, task Task) error
	IsLastAttempt(c context.Context, taskUID string) (int32, int32)
}

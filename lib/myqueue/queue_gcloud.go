package myqueue

import (
	"context"
	"fmt"
	"log"
	"os"
	"time"

	cloudtasks "cloud.google.com/go/cloudtasks/apiv2"
	taskspb "cloud.google.com/go/cloudtasks/apiv2/cloudtaskspb"
	grpcCodes "google.golang.org/grpc/codes"
	grpcStatus "google.golang.org/grpc/status"
	"google.golang.org/protobuf/types/known/timestamppb"
)

const dispatchDelay = 2 * time.Second

type gcloudTaskQueue struct {
	client    *cloudtasks.Client
	queuePath string
}

func init() {
	if os.Getenv("GOOGLE_CLOUD_PROJECT") != "" {
		New = newGcloudQueue
	}
}

func newGcloudQueue(c context.Context, location Location) (TaskQueuer, func(), error) {
	if location.ProjectID == "" || location.LocationID == "" {
		return nil, nil, fmt.Errorf("queue location incomplete: project %q, location %q", location.ProjectID, location.LocationID)
	}
	if location.QueueName == "" {
		location.QueueName = "default"
	}
	cloudTaskClient, err := cloudtasks.NewClient(c)
	if err != nil {
		return nil, nil, fmt.Errorf("error creating cloudtask-client: %w", err)
	}
	return &gcloudTaskQueue{
			client:    cloudTaskClient,
			queuePath: location.path(),
		}, func() {
			cloudTaskClient.Close()
		}, nil
}

func (q *gcloudTaskQueue) Enqueue(c context.Context, task Task) error {
	taskName := q.taskName(task.UID)
	_, err := q.client.CreateTask(c, &taskspb.CreateTaskRequest{
		Parent: q.queuePath,
		Task: &taskspb.Task{
			Name:         taskName, // outbox batch uid de-duplicates
			ScheduleTime: timestamppb.New(time.Now().Add(dispatchDelay)),
			MessageType: &taskspb.Task_AppEngineHttpRequest{
				AppEngineHttpRequest: &taskspb.AppEngineHttpRequest{
					HttpMethod:  taskspb.HttpMethod_PUT,
					RelativeUri: task.WebhookURLPath,
					Body:        task.Payload,
				},
			},
			View: taskspb.Task_FULL,
		},
	})
	if err != nil {
		rsp, ok := grpcStatus.FromError(err)
		if ok && rsp.Code() == grpcCodes.AlreadyExists {
			log.Printf("Outbox task %s already queued", taskName)
			return nil
		}
		return fmt.Errorf("error submitting task %s to queue: %w", taskName, err)
	}
	return nil
}

func (q *gcloudTaskQueue) taskName(taskUID string) string {
	return fmt.Sprintf("%s/tasks/%s", q.queuePath, taskUID)
}

func (q *gcloudTaskQueue) IsLastAttempt(c context.Context, taskUID string) (int32, int32) {
	var dispatchCount int32
	var maxAttempts int32 = -1

	queue, err := q.getQueue(c)
	if err != nil {
		return dispatchCount, maxAttempts
	}
	if queue.RetryConfig != nil {
		maxAttempts = queue.RetryConfig.MaxAttempts
	}

	task, err := q.getTask(c, taskUID)
	if err != nil {
		return dispatchCount, maxAttempts
	}
	return task.DispatchCount, maxAttempts
}

func (q *gcloudTaskQueue) getQueue(c context.Context) (*taskspb.Queue, error) {
	queue, err := q.client.GetQueue(c, &taskspb.GetQueueRequest{
		Name: q.queuePath,
	})
	if err != nil {
		return nil, fmt.Errorf("error getting queue %s: %w", q.queuePath, err)
	}
	return queue, nil
}

func (q *gcloudTaskQueue) getTask(c context.Context, taskUID string) (*taskspb.Task, error) {
	task, err := q.client.GetTask(c, &taskspb.GetTaskRequest{
		Name: q.taskName(taskUID),
	})
	if err != nil {
		return nil, fmt.Errorf("error getting outbox task %s: %w", taskUID, err)
	}
	return task, nil
}

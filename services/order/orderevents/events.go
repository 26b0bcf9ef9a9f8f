package orderevents

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"time"

	"github.com/MarcGrol/phoneloom/lib/myerrors"
	"github.com/MarcGrol/phoneloom/lib/myevents"
)

const (
	TopicName          = "order"
	orderSubmittedName = TopicName + ".submitted"
	orderStatusChanged = TopicName + ".status.changed"
)

const (
	StatusPending   = "pending"
	StatusConfirmed = "confirmed"
	StatusShipped   = "shipped"
	StatusDelivered = "delivered"
	StatusCancelled = "cancelled"
)

var Statuses = []string{StatusPending, StatusConfirmed, StatusShipped, StatusDelivered, StatusCancelled}

type OrderEventService interface {
	Subscribe(c context.Context) error
	OnOrderSubmitted(c context.Context, topic string, event OrderSubmitted) error
	OnOrderStatusChanged(c context.Context, topic string, event OrderStatusChanged) error
}

func DispatchEvent(c context.Context, reader io.Reader, service OrderEventService) error {
	envelope, err := myevents.ParseEventEnvelope(reader)
	if err != nil {
		return myerrors.NewInvalidInputError(err)
	}

	switch envelope.EventTypeName {
	case orderSubmittedName:
		{
			event := OrderSubmitted{}
			err := json.Unmarshal([]byte(envelope.EventPayload), &event)
			if err != nil {
				return myerrors.NewInvalidInputError(err)
			}
			return service.OnOrderSubmitted(c, envelope.Topic, event)
		}
	case orderStatusChanged:
		{
			event := OrderStatusChanged{}
			err := json.Unmarshal([]byte(envelope.EventPayload), &event)
			if err != nil {
				return myerrors.NewInvalidInputError(err)
			}
			return service.OnOrderStatusChanged(c, envelope.Topic, event)
		}
	default:
		return myerrors.NewNotImplementedError(fmt.Errorf("unknown event type %s", envelope.EventTypeName))
	}
}

// OrderLine is the stock relevant part of an order item
type OrderLine struct {
	PhoneUID string
	Brand    string
	Quantity int
}

type OrderSubmitted struct {
	OrderUID   string
	ShopperUID string
	Lines      []OrderLine
	TotalPrice float64
	CreatedAt  time.Time
}

func (e OrderSubmitted) GetEventTypeName() string {
	return orderSubmittedName
}

func (e OrderSubmitted) GetAggregateName() string {
	return e.OrderUID
}

type OrderStatusChanged struct {
	OrderUID  string
	OldStatus string
	NewStatus string
	Lines     []OrderLine
}

func (e OrderStatusChanged) GetEventTypeName() string {
	return orderStatusChanged
}

func (e OrderStatusChanged) GetAggregateName() string {
	return e.OrderUID
}

package catalog

import (
	"context"
	"fmt"

	"github.com/MarcGrol/phoneloom/lib/myerrors"
	"github.com/MarcGrol/phoneloom/lib/myhttp"
	"github.com/MarcGrol/phoneloom/lib/mylog"
	"github.com/MarcGrol/phoneloom/services/order/orderevents"
)

const (
	movementReserved = "reserved"
	movementRestored = "restored"
)

func (s *service) Subscribe(c context.Context) error {
	err := s.pubsub.Subscribe(c, orderevents.TopicName, myhttp.GuessHostnameWithScheme()+"/api/phones/event")
	if err != nil {
		return fmt.Errorf("error subscribing to topic %s: %w", orderevents.TopicName, err)
	}

	return nil
}

func (s *service) OnOrderSubmitted(c context.Context, topic string, event orderevents.OrderSubmitted) error {
	s.logger.Log(c, event.OrderUID, mylog.SeverityInfo, "Reserving stock for order %s", event.OrderUID)

	return s.applyStockMovement(c, event.OrderUID, movementReserved, event.Lines, -1)
}

func (s *service) OnOrderStatusChanged(c context.Context, topic string, event orderevents.OrderStatusChanged) error {
	if event.NewStatus != orderevents.StatusCancelled || event.OldStatus == orderevents.StatusCancelled {
		return nil
	}

	s.logger.Log(c, event.OrderUID, mylog.SeverityInfo, "Restocking cancelled order %s", event.OrderUID)

	return s.applyStockMovement(c, event.OrderUID, movementRestored, event.Lines, +1)
}

// applyStockMovement adjusts stock at most once per order and kind, since events can be delivered more than once
func (s *service) applyStockMovement(c context.Context, orderUID string, kind string, lines []orderevents.OrderLine, sign int) error {
	movementUID := orderUID + "." + kind

	err := s.phoneStore.RunInTransaction(c, func(c context.Context) error {
		_, alreadyApplied, err := s.movementStore.Get(c, movementUID)
		if err != nil {
			return myerrors.NewInternalError(err)
		}
		if alreadyApplied {
			s.logger.Log(c, orderUID, mylog.SeverityInfo, "Stock movement %s already applied", movementUID)
			return nil
		}

		now := s.nower.Now()
		for _, line := range lines {
			phone, found, err := s.phoneStore.Get(c, line.PhoneUID)
			if err != nil {
				return myerrors.NewInternalError(err)
			}
			if !found {
				s.logger.Log(c, orderUID, mylog.SeverityWarn, "Phone %s of order %s no longer exists", line.PhoneUID, orderUID)
				continue
			}

			phone.Stock = max(0, phone.Stock+sign*line.Quantity)
			phone.LastModified = &now
			err = s.phoneStore.Put(c, phone.UID, phone)
			if err != nil {
				return myerrors.NewInternalError(err)
			}
		}

		err = s.movementStore.Put(c, movementUID, StockMovement{
			UID:       movementUID,
			OrderUID:  orderUID,
			Kind:      kind,
			AppliedAt: now,
		})
		if err != nil {
			return myerrors.NewInternalError(err)
		}
		return nil
	})
	if err != nil {
		return err
	}

	s.cache.Clear()

	return nil
}

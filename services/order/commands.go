package order

import (
	"context"
	"fmt"
	"slices"
	"sort"

	"github.com/stripe/stripe-go/v74"

	"github.com/MarcGrol/phoneloom/lib/myerrors"
	"github.com/MarcGrol/phoneloom/lib/mylog"
	"github.com/MarcGrol/phoneloom/lib/mystore"
	"github.com/MarcGrol/phoneloom/services/catalog"
	"github.com/MarcGrol/phoneloom/services/order/orderevents"
	"github.com/MarcGrol/phoneloom/services/orderapi"
	"github.com/MarcGrol/phoneloom/services/pricing"
)

const currency = "eur"

func validateRequest(req orderapi.SubmitOrderRequest) error {
	if len(req.OrderItems) == 0 {
		return myerrors.NewInvalidInputError(fmt.Errorf("order has no items"))
	}
	if !req.ShippingAddress.IsComplete() {
		return myerrors.NewInvalidInputError(fmt.Errorf("incomplete shipping address"))
	}
	if req.PaymentMethod != orderapi.PaymentMethodCard && req.PaymentMethod != orderapi.PaymentMethodCashOnDelivery {
		return myerrors.NewInvalidInputError(fmt.Errorf("unsupported payment method '%s'", req.PaymentMethod))
	}
	return nil
}

// priceItems resolves every item against the current catalog and prices it server side.
// Lines of the same phone in different variants share its stock.
func (s *service) priceItems(c context.Context, requested []orderapi.OrderItem) ([]Item, error) {
	phones := map[string]catalog.Phone{}
	requestedPerPhone := map[string]int{}
	items := make([]Item, 0, len(requested))
	for _, r := range requested {
		phone, fetched := phones[r.Phone]
		if !fetched {
			var found bool
			var err error
			phone, found, err = s.products.GetPhone(c, r.Phone)
			if err != nil {
				return nil, err
			}
			if !found {
				return nil, myerrors.NewInvalidInputError(fmt.Errorf("phone %s does not exist", r.Phone))
			}
			phones[r.Phone] = phone
		}
		if r.Quantity < 1 || r.Quantity > pricing.MaxQuantity(phone.Stock) {
			return nil, myerrors.NewInvalidInputError(fmt.Errorf("quantity %d of phone %s not available (stock %d)", r.Quantity, r.Phone, phone.Stock))
		}
		requestedPerPhone[r.Phone] += r.Quantity
		if requestedPerPhone[r.Phone] > phone.Stock {
			return nil, myerrors.NewInvalidInputError(fmt.Errorf("total quantity %d of phone %s not available (stock %d)", requestedPerPhone[r.Phone], r.Phone, phone.Stock))
		}

		items = append(items, Item{
			PhoneUID:        phone.UID,
			Brand:           phone.Brand,
			Model:           phone.Model,
			Image:           phone.Image,
			Quantity:        r.Quantity,
			SelectedColor:   r.SelectedColor,
			SelectedStorage: r.SelectedStorage,
			SelectedRam:     r.SelectedRam,
			UnitPrice:       pricing.CalculatePrice(phone.Price, phone.DiscountPercentage, phone.Storage, r.SelectedStorage, phone.RAM, r.SelectedRam),
		})
	}
	return items, nil
}

func (s *service) submitOrder(c context.Context, hostname string, shopperUID string, req orderapi.SubmitOrderRequest) (Order, error) {
	if shopperUID == "" {
		return Order{}, myerrors.NewInvalidInputError(fmt.Errorf("missing shopper"))
	}
	err := validateRequest(req)
	if err != nil {
		return Order{}, err
	}

	items, err := s.priceItems(c, req.OrderItems)
	if err != nil {
		return Order{}, err
	}

	totals := []float64{}
	quantity := 0
	for _, item := range items {
		totals = append(totals, pricing.LineTotal(item.UnitPrice, item.Quantity))
		quantity += item.Quantity
	}
	itemsPrice := pricing.Sum(totals...)
	shippingPrice := pricing.ShippingFee(quantity)

	orderUID := s.uuider.Create()
	now := s.nower.Now()

	if req.ShippingPrice != shippingPrice {
		s.logger.Log(c, orderUID, mylog.SeverityWarn, "Shipping price %.2f supplied by client differs from %.2f", req.ShippingPrice, shippingPrice)
	}

	order := Order{
		UID:             orderUID,
		ShopperUID:      shopperUID,
		CartSessionUID:  req.CartSessionUID,
		Items:           items,
		ShippingAddress: req.ShippingAddress,
		PaymentMethod:   req.PaymentMethod,
		PaymentStatus:   PaymentStatusOnDelivery,
		ReturnURL:       req.ReturnURL,
		ItemsPrice:      itemsPrice,
		ShippingPrice:   shippingPrice,
		TotalPrice:      pricing.Sum(itemsPrice, shippingPrice),
		Status:          orderevents.StatusPending,
		CreatedAt:       now,
	}

	s.logger.Log(c, orderUID, mylog.SeverityInfo, "Submitting order %s of shopper %s for %.2f", orderUID, shopperUID, order.TotalPrice)

	if order.PaymentMethod == orderapi.PaymentMethodCard {
		session, err := s.payer.CreateCheckoutSession(c, checkoutSessionParams(hostname, order))
		if err != nil {
			return Order{}, err
		}
		order.PaymentStatus = PaymentStatusPending
		order.PaymentSessionID = session.ID
		order.PaymentRedirectURL = session.URL
	}

	err = s.orderStore.RunInTransaction(c, func(c context.Context) error {
		err := s.orderStore.Put(c, orderUID, order)
		if err != nil {
			return myerrors.NewInternalError(err)
		}

		err = s.publisher.Publish(c, orderevents.TopicName, orderevents.OrderSubmitted{
			OrderUID:   orderUID,
			ShopperUID: shopperUID,
			Lines:      order.lines(),
			TotalPrice: order.TotalPrice,
			CreatedAt:  now,
		})
		if err != nil {
			return myerrors.NewInternalError(err)
		}

		return nil
	})
	if err != nil {
		if order.PaymentSessionID != "" {
			s.expireOrphanedSession(c, order)
		}
		return Order{}, err
	}

	return order, nil
}

// expireOrphanedSession closes the payment session of an order that was never stored
func (s *service) expireOrphanedSession(c context.Context, order Order) {
	err := s.payer.ExpireCheckoutSession(c, order.PaymentSessionID)
	if err != nil {
		s.logger.Log(c, order.UID, mylog.SeverityError, "Payment session %s of unstored order %s is still open: %s", order.PaymentSessionID, order.UID, err)
		return
	}
	s.logger.Log(c, order.UID, mylog.SeverityWarn, "Expired payment session %s of unstored order %s", order.PaymentSessionID, order.UID)
}

func checkoutSessionParams(hostname string, order Order) stripe.CheckoutSessionParams {
	lineItems := []*stripe.CheckoutSessionLineItemParams{}
	for _, item := range order.Items {
		lineItems = append(lineItems, &stripe.CheckoutSessionLineItemParams{
			PriceData: &stripe.CheckoutSessionLineItemPriceDataParams{
				Currency: stripe.String(currency),
				ProductData: &stripe.CheckoutSessionLineItemPriceDataProductDataParams{
					Name:        stripe.String(fmt.Sprintf("%s %s", item.Brand, item.Model)),
					Description: stripe.String(fmt.Sprintf("%s %s %s", item.SelectedColor, item.SelectedStorage, item.SelectedRam)),
				},
				UnitAmount: stripe.Int64(pricing.Cents(item.UnitPrice)),
			},
			Quantity: stripe.Int64(int64(item.Quantity)),
		})
	}
	lineItems = append(lineItems, &stripe.CheckoutSessionLineItemParams{
		PriceData: &stripe.CheckoutSessionLineItemPriceDataParams{
			Currency: stripe.String(currency),
			ProductData: &stripe.CheckoutSessionLineItemPriceDataProductDataParams{
				Name: stripe.String("Shipping"),
			},
			UnitAmount: stripe.Int64(pricing.Cents(order.ShippingPrice)),
		},
		Quantity: stripe.Int64(1),
	})

	return stripe.CheckoutSessionParams{
		SuccessURL:         stripe.String(fmt.Sprintf("%s/api/orders/%s/payment/success", hostname, order.UID)),
		CancelURL:          stripe.String(fmt.Sprintf("%s/api/orders/%s/payment/cancel", hostname, order.UID)),
		ClientReferenceID:  stripe.String(order.UID),
		LineItems:          lineItems,
		Mode:               stripe.String(string(stripe.CheckoutSessionModePayment)),
		Currency:           stripe.String(currency),
		PaymentMethodTypes: stripe.StringSlice([]string{"card", "ideal"}),
	}
}

func (s *service) getOrder(c context.Context, orderUID string) (Order, error) {
	order, found, err := s.orderStore.Get(c, orderUID)
	if err != nil {
		return Order{}, myerrors.NewInternalError(err)
	}
	if !found {
		return Order{}, myerrors.NewNotFoundError(fmt.Errorf("order with uid %s not found", orderUID))
	}
	return order, nil
}

func (s *service) listShopperOrders(c context.Context, shopperUID string) ([]Order, error) {
	if shopperUID == "" {
		return nil, myerrors.NewInvalidInputError(fmt.Errorf("missing shopper"))
	}

	orders, err := s.orderStore.Query(c, []mystore.Filter{{Field: "ShopperUID", Compare: "=", Value: shopperUID}}, "-CreatedAt")
	if err != nil {
		return nil, myerrors.NewInternalError(err)
	}
	return orders, nil
}

func (s *service) listOrders(c context.Context, status string) ([]Order, error) {
	filters := []mystore.Filter{}
	if status != "" {
		if !slices.Contains(orderevents.Statuses, status) {
			return nil, myerrors.NewInvalidInputError(fmt.Errorf("unknown status '%s'", status))
		}
		filters = append(filters, mystore.Filter{Field: "Status", Compare: "=", Value: status})
	}

	orders, err := s.orderStore.Query(c, filters, "")
	if err != nil {
		return nil, myerrors.NewInternalError(err)
	}

	sort.SliceStable(orders, func(i, j int) bool {
		return orders[i].CreatedAt.After(orders[j].CreatedAt)
	})
	return orders, nil
}

// changeStatus moves an order to a new status. A cancelled order is final.
func (s *service) changeStatus(c context.Context, orderUID string, status string) (Order, error) {
	if !slices.Contains(orderevents.Statuses, status) {
		return Order{}, myerrors.NewInvalidInputError(fmt.Errorf("unknown status '%s'", status))
	}

	now := s.nower.Now()

	var order Order
	err := s.orderStore.RunInTransaction(c, func(c context.Context) error {
		var err error
		order, err = s.getOrder(c, orderUID)
		if err != nil {
			return err
		}
		if order.Status == status {
			return nil
		}
		if order.Status == orderevents.StatusCancelled {
			return myerrors.NewInvalidInputError(fmt.Errorf("order %s is cancelled", orderUID))
		}

		oldStatus := order.Status
		order.Status = status
		order.LastModified = &now

		err = s.orderStore.Put(c, orderUID, order)
		if err != nil {
			return myerrors.NewInternalError(err)
		}

		err = s.publisher.Publish(c, orderevents.TopicName, orderevents.OrderStatusChanged{
			OrderUID:  orderUID,
			OldStatus: oldStatus,
			NewStatus: status,
			Lines:     order.lines(),
		})
		if err != nil {
			return myerrors.NewInternalError(err)
		}

		s.logger.Log(c, orderUID, mylog.SeverityInfo, "Order %s: %s -> %s", orderUID, oldStatus, status)

		return nil
	})
	if err != nil {
		return Order{}, err
	}

	return order, nil
}

// paymentReturned records the outcome reported when the shopper returns from the payment page
func (s *service) paymentReturned(c context.Context, orderUID string, outcome string) (Order, error) {
	paymentStatus := ""
	switch outcome {
	case "success":
		paymentStatus = PaymentStatusPaid
	case "cancel":
		paymentStatus = PaymentStatusCancelled
	default:
		return Order{}, myerrors.NewInvalidInputError(fmt.Errorf("unknown payment outcome '%s'", outcome))
	}

	s.logger.Log(c, orderUID, mylog.SeverityInfo, "Redirect: payment of order %s -> %s", orderUID, outcome)

	now := s.nower.Now()

	var order Order
	err := s.orderStore.RunInTransaction(c, func(c context.Context) error {
		// must be idempotent
		var err error
		order, err = s.getOrder(c, orderUID)
		if err != nil {
			return err
		}
		if order.PaymentMethod != orderapi.PaymentMethodCard || order.PaymentStatus == PaymentStatusPaid {
			return nil
		}

		order.PaymentStatus = paymentStatus
		order.LastModified = &now

		err = s.orderStore.Put(c, orderUID, order)
		if err != nil {
			return myerrors.NewInternalError(err)
		}
		return nil
	})
	if err != nil {
		return Order{}, err
	}

	return order, nil
}

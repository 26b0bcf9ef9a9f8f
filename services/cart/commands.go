package cart

import (
	"context"
	"fmt"
	"net/http"

	"github.com/MarcGrol/phoneloom/lib/myerrors"
	"github.com/MarcGrol/phoneloom/lib/mylog"
	"github.com/MarcGrol/phoneloom/services/orderapi"
)

func (s *service) createCart(c context.Context) (Cart, error) {
	sessionUID := s.uuider.Create()

	s.logger.Log(c, sessionUID, mylog.SeverityInfo, "Creating new cart for session %s", sessionUID)

	cart := New(sessionUID)
	err := s.sessionStore.Put(c, *cart)
	if err != nil {
		return Cart{}, myerrors.NewInternalError(err)
	}

	return *cart, nil
}

func (s *service) getCart(c context.Context, sessionUID string) (Cart, error) {
	cart, found, err := s.sessionStore.Get(c, sessionUID)
	if err != nil {
		return Cart{}, myerrors.NewInternalError(err)
	}
	if !found {
		return Cart{}, myerrors.NewNotFoundError(fmt.Errorf("cart with session uid %s not found", sessionUID))
	}
	if cart.Lines == nil {
		cart.Lines = []Line{}
	}

	return cart, nil
}

// updateCart applies the mutation to the cart of the session as one atomic step in the session store
func (s *service) updateCart(c context.Context, sessionUID string, mutate func(cart *Cart) error) (Cart, error) {
	var mutateErr error
	cart, found, err := s.sessionStore.Update(c, sessionUID, func(cart *Cart) error {
		if cart.Lines == nil {
			cart.Lines = []Line{}
		}
		mutateErr = mutate(cart)
		return mutateErr
	})
	if mutateErr != nil {
		return Cart{}, mutateErr
	}
	if err != nil {
		return Cart{}, myerrors.NewInternalError(err)
	}
	if !found {
		return Cart{}, myerrors.NewNotFoundError(fmt.Errorf("cart with session uid %s not found", sessionUID))
	}

	return cart, nil
}

func (s *service) fetchProduct(c context.Context, phoneUID string) (Product, error) {
	phone, found, err := s.products.GetPhone(c, phoneUID)
	if err != nil {
		return Product{}, err
	}
	if !found {
		return Product{}, myerrors.NewNotFoundError(fmt.Errorf("phone with uid %s not found", phoneUID))
	}
	return productFromPhone(phone), nil
}

func (s *service) addLine(c context.Context, sessionUID string, phoneUID string, variant Variant) (Cart, error) {
	if phoneUID == "" {
		return Cart{}, myerrors.NewInvalidInputError(fmt.Errorf("missing phone"))
	}

	// Fetch before loading the cart: the product is a snapshot and never re-fetched during the mutation
	product, err := s.fetchProduct(c, phoneUID)
	if err != nil {
		return Cart{}, err
	}

	return s.updateCart(c, sessionUID, func(cart *Cart) error {
		cart.AddLine(product, variant)

		key := CompositeKey(product.UID, variant)
		if _, exists := cart.Line(key); !exists {
			s.logger.Log(c, sessionUID, mylog.SeverityWarn, "Phone %s is out of stock, no line added", product.UID)
			return nil
		}
		s.logger.Log(c, sessionUID, mylog.SeverityInfo, "Added %s to cart", key)
		return nil
	})
}

func (s *service) getLine(c context.Context, sessionUID string, key string) (Line, error) {
	cart, err := s.getCart(c, sessionUID)
	if err != nil {
		return Line{}, err
	}

	line, found := cart.Line(key)
	if !found {
		return Line{}, myerrors.NewNotFoundError(fmt.Errorf("cart line %s not found", key))
	}
	return line, nil
}

func (s *service) setQuantity(c context.Context, sessionUID string, key string, quantity int) (Cart, error) {
	return s.updateCart(c, sessionUID, func(cart *Cart) error {
		cart.SetQuantity(key, quantity)
		return nil
	})
}

func (s *service) reconfigureLine(c context.Context, sessionUID string, key string, update VariantUpdate) (Cart, error) {
	return s.updateCart(c, sessionUID, func(cart *Cart) error {
		dropped := cart.ReconfigureLine(key, update)
		if dropped > 0 {
			s.logger.Log(c, sessionUID, mylog.SeverityWarn, "Merging line %s dropped %d unit(s) above the line maximum", key, dropped)
		}
		return nil
	})
}

func (s *service) removeLine(c context.Context, sessionUID string, key string) (Cart, error) {
	return s.updateCart(c, sessionUID, func(cart *Cart) error {
		cart.RemoveLine(key)
		return nil
	})
}

func (s *service) clearCart(c context.Context, sessionUID string) (Cart, error) {
	return s.updateCart(c, sessionUID, func(cart *Cart) error {
		cart.Clear()
		return nil
	})
}

func (s *service) setOpen(c context.Context, sessionUID string, isOpen bool) (Cart, error) {
	return s.updateCart(c, sessionUID, func(cart *Cart) error {
		cart.SetOpen(isOpen)
		return nil
	})
}

// restoreCart replays an order payload. Phones that cannot be fetched are reported as skipped.
func (s *service) restoreCart(c context.Context, sessionUID string, items []orderapi.OrderItem) (Cart, []orderapi.OrderItem, error) {
	products := map[string]Product{}
	for _, item := range items {
		if _, exists := products[item.Phone]; exists {
			continue
		}
		product, err := s.fetchProduct(c, item.Phone)
		if err != nil {
			if myerrors.GetHTTPStatus(err) >= http.StatusInternalServerError {
				return Cart{}, nil, err
			}
			s.logger.Log(c, sessionUID, mylog.SeverityWarn, "Skipping phone %s on restore: %s", item.Phone, err)
			continue
		}
		products[item.Phone] = product
	}

	var skipped []orderapi.OrderItem
	cart, err := s.updateCart(c, sessionUID, func(cart *Cart) error {
		skipped = cart.RestoreLines(items, products)
		return nil
	})
	if err != nil {
		return Cart{}, nil, err
	}

	return cart, skipped, nil
}

type checkoutRequest struct {
	ShippingAddress orderapi.ShippingAddress `form:"shippingAddress"`
	PaymentMethod   string                   `form:"paymentMethod"`
	ReturnURL       string                   `form:"returnUrl"`
}

// checkout assembles the order payload from the cart and empties the cart once the order is accepted
func (s *service) checkout(c context.Context, sessionUID string, shopperUID string, req checkoutRequest) (orderapi.SubmitOrderResponse, error) {
	cart, err := s.getCart(c, sessionUID)
	if err != nil {
		return orderapi.SubmitOrderResponse{}, err
	}
	if cart.IsEmpty() {
		return orderapi.SubmitOrderResponse{}, myerrors.NewInvalidInputError(fmt.Errorf("cart of session %s is empty", sessionUID))
	}

	s.logger.Log(c, sessionUID, mylog.SeverityInfo, "Checking out %d item(s) for shopper %s", cart.ItemCount(), shopperUID)

	resp, err := s.orders.SubmitOrder(c, shopperUID, orderapi.SubmitOrderRequest{
		CartSessionUID:  sessionUID,
		OrderItems:      cart.OrderItems(),
		ShippingAddress: req.ShippingAddress,
		PaymentMethod:   req.PaymentMethod,
		ShippingPrice:   cart.ShippingFee,
		ReturnURL:       req.ReturnURL,
	})
	if err != nil {
		return orderapi.SubmitOrderResponse{}, err
	}

	_, err = s.updateCart(c, sessionUID, func(cart *Cart) error {
		cart.Clear()
		cart.SetOpen(false)
		return nil
	})
	if err != nil {
		return orderapi.SubmitOrderResponse{}, err
	}

	return resp, nil
}

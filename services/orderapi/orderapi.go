// Package orderapi holds the order submission contract shared by the cart and the order service.
package orderapi

import (
	"fmt"
	"net/http"
	"net/url"

	formcodec "github.com/go-playground/form/v4"

	"github.com/MarcGrol/phoneloom/lib/myerrors"
)

// ShopperUIDHeader identifies the shopper on order related requests
const ShopperUIDHeader = "X-Shopper-Uid"

const (
	PaymentMethodCard           = "card"
	PaymentMethodCashOnDelivery = "cod"
)

type SubmitOrderRequest struct {
	CartSessionUID  string          `form:"cartSessionUid" json:"cartSessionUid,omitempty"`
	OrderItems      []OrderItem     `form:"orderItems" json:"orderItems"`
	ShippingAddress ShippingAddress `form:"shippingAddress" json:"shippingAddress"`
	PaymentMethod   string          `form:"paymentMethod" json:"paymentMethod"`
	ShippingPrice   float64         `form:"shippingPrice" json:"shippingPrice"`
	ReturnURL       string          `form:"returnUrl" json:"returnUrl,omitempty"`
}

// OrderItem is one cart line as handed over to order submission
type OrderItem struct {
	Phone           string `form:"phone" json:"phone"`
	Quantity        int    `form:"quantity" json:"quantity"`
	SelectedColor   string `form:"selectedColor" json:"selectedColor"`
	SelectedStorage string `form:"selectedStorage" json:"selectedStorage"`
	SelectedRam     string `form:"selectedRam" json:"selectedRam"`
}

type ShippingAddress struct {
	Address    string `form:"address" json:"address"`
	City       string `form:"city" json:"city"`
	PostalCode string `form:"postalCode" json:"postalCode"`
	Country    string `form:"country" json:"country"`
}

func (a ShippingAddress) IsComplete() bool {
	return a.Address != "" && a.City != "" && a.PostalCode != "" && a.Country != ""
}

type SubmitOrderResponse struct {
	OrderUID           string  `json:"orderUid"`
	Status             string  `json:"status"`
	ItemsPrice         float64 `json:"itemsPrice"`
	ShippingPrice      float64 `json:"shippingPrice"`
	TotalPrice         float64 `json:"totalPrice"`
	PaymentRedirectURL string  `json:"paymentRedirectUrl,omitempty"`
}

func NewFromRequest(r *http.Request) (SubmitOrderRequest, error) {
	err := r.ParseForm()
	if err != nil {
		return SubmitOrderRequest{}, myerrors.NewInvalidInputError(err)
	}
	return NewFromValues(r.Form)
}

func NewFromValues(values url.Values) (SubmitOrderRequest, error) {
	req := SubmitOrderRequest{}
	err := formcodec.NewDecoder().Decode(&req, values)
	if err != nil {
		return req, myerrors.NewInvalidInputError(fmt.Errorf("error decoding form: %w", err))
	}

	return req, nil
}

func (r SubmitOrderRequest) ToForm() (url.Values, error) {
	values, err := formcodec.NewEncoder().Encode(r)
	if err != nil {
		return nil, fmt.Errorf("error encoding form: %w", err)
	}

	return values, nil
}

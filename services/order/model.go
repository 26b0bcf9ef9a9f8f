package order

import (
	"time"

	"github.com/MarcGrol/phoneloom/services/order/orderevents"
	"github.com/MarcGrol/phoneloom/services/orderapi"
)

const (
	PaymentStatusOnDelivery = "on_delivery"
	PaymentStatusPending    = "pending"
	PaymentStatusPaid       = "paid"
	PaymentStatusCancelled  = "cancelled"
)

type Order struct {
	UID                string                   `json:"id"`
	ShopperUID         string                   `json:"shopperUid"`
	CartSessionUID     string                   `json:"cartSessionUid,omitempty"`
	Items              []Item                   `json:"orderItems"`
	ShippingAddress    orderapi.ShippingAddress `json:"shippingAddress"`
	PaymentMethod      string                   `json:"paymentMethod"`
	PaymentStatus      string                   `json:"paymentStatus"`
	PaymentSessionID   string                   `json:"-"`
	PaymentRedirectURL string                   `json:"paymentRedirectUrl,omitempty" datastore:",noindex"`
	ReturnURL          string                   `json:"-" datastore:",noindex"`
	ItemsPrice         float64                  `json:"itemsPrice"`
	ShippingPrice      float64                  `json:"shippingPrice"`
	TotalPrice         float64                  `json:"totalPrice"`
	Status             string                   `json:"status"`
	CreatedAt          time.Time                `json:"createdAt"`
	LastModified       *time.Time               `json:"lastModified,omitempty"`
}

// Item is an order line priced by the server at submission
type Item struct {
	PhoneUID        string  `json:"phone"`
	Brand           string  `json:"brand"`
	Model           string  `json:"model"`
	Image           string  `json:"image,omitempty" datastore:",noindex"`
	Quantity        int     `json:"quantity"`
	SelectedColor   string  `json:"selectedColor"`
	SelectedStorage string  `json:"selectedStorage"`
	SelectedRam     string  `json:"selectedRam"`
	UnitPrice       float64 `json:"unitPrice"`
}

func (o Order) lines() []orderevents.OrderLine {
	lines := make([]orderevents.OrderLine, 0, len(o.Items))
	for _, item := range o.Items {
		lines = append(lines, orderevents.OrderLine{
			PhoneUID: item.PhoneUID,
			Brand:    item.Brand,
			Quantity: item.Quantity,
		})
	}
	return lines
}

func (o Order) response() orderapi.SubmitOrderResponse {
	return orderapi.SubmitOrderResponse{
		OrderUID:           o.UID,
		Status:             o.Status,
		ItemsPrice:         o.ItemsPrice,
		ShippingPrice:      o.ShippingPrice,
		TotalPrice:         o.TotalPrice,
		PaymentRedirectURL: o.PaymentRedirectURL,
	}
}

type MonthlySales struct {
	Month   string  `json:"month"`
	Orders  int     `json:"orders"`
	Revenue float64 `json:"revenue"`
}

type BrandSales struct {
	Brand string `json:"brand"`
	Units int    `json:"units"`
}

type Overview struct {
	OrderCount   int     `json:"orderCount"`
	Revenue      float64 `json:"revenue"`
	PendingCount int     `json:"pendingCount"`
}

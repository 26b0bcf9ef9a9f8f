package cart

import "github.com/MarcGrol/phoneloom/services/orderapi"

// View is the read model of a cart as returned to the shopper
type View struct {
	SessionUID  string     `json:"sessionUid"`
	Lines       []LineView `json:"lines"`
	ItemCount   int        `json:"itemCount"`
	TotalPrice  float64    `json:"totalPrice"`
	ShippingFee float64    `json:"shippingFee"`
	GrandTotal  float64    `json:"grandTotal"`
	IsOpen      bool       `json:"isOpen"`
}

type LineView struct {
	Line
	Total float64 `json:"total"`
}

// RestoreView reports which items of a replayed payload could not be turned into lines
type RestoreView struct {
	View
	Skipped []orderapi.OrderItem `json:"skipped"`
}

func newView(cart Cart) View {
	lines := make([]LineView, 0, len(cart.Lines))
	for _, l := range cart.Lines {
		lines = append(lines, LineView{
			Line:  l,
			Total: l.Total(),
		})
	}
	return View{
		SessionUID:  cart.SessionUID,
		Lines:       lines,
		ItemCount:   cart.ItemCount(),
		TotalPrice:  cart.TotalPrice(),
		ShippingFee: cart.ShippingFee,
		GrandTotal:  cart.GrandTotal(),
		IsOpen:      cart.IsOpen,
	}
}

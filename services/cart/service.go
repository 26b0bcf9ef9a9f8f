package cart

import (
	"context"

	"github.com/MarcGrol/phoneloom/lib/mylog"
	"github.com/MarcGrol/phoneloom/lib/myuuid"
	"github.com/MarcGrol/phoneloom/services/catalog"
	"github.com/MarcGrol/phoneloom/services/orderapi"
)

//go:generate mockgen -source=service.go -package cart -destination collaborators_mock.go ProductFetcher OrderSubmitter

// ProductFetcher provides a point in time snapshot of a phone
type ProductFetcher interface {
	GetPhone(c context.Context, phoneUID string) (catalog.Phone, bool, error)
}

type OrderSubmitter interface {
	SubmitOrder(c context.Context, shopperUID string, req orderapi.SubmitOrderRequest) (orderapi.SubmitOrderResponse, error)
}

type service struct {
	sessionStore SessionStore
	products     ProductFetcher
	orders       OrderSubmitter
	uuider       myuuid.UUIDer
	logger       mylog.Logger
}

// Use dependency injection to isolate the infrastructure and easy testing
func newService(sessionStore SessionStore, products ProductFetcher, orders OrderSubmitter, uuider myuuid.UUIDer, logger mylog.Logger) *service {
	return &service{
		sessionStore: sessionStore,
		products:     products,
		orders:       orders,
		uuider:       uuider,
		logger:       logger,
	}
}

func productFromPhone(p catalog.Phone) Product {
	return Product{
		UID:                p.UID,
		Brand:              p.Brand,
		Model:              p.Model,
		Image:              p.Image,
		Price:              p.Price,
		DiscountPercentage: p.DiscountPercentage,
		Stock:              p.Stock,
		Colors:             p.Colors,
		Storage:            p.Storage,
		RAM:                p.RAM,
	}
}

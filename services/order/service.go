package order

import (
	"context"

	"github.com/MarcGrol/phoneloom/lib/mylog"
	"github.com/MarcGrol/phoneloom/lib/mypublisher"
	"github.com/MarcGrol/phoneloom/lib/mystore"
	"github.com/MarcGrol/phoneloom/lib/mytime"
	"github.com/MarcGrol/phoneloom/lib/myuuid"
	"github.com/MarcGrol/phoneloom/services/catalog"
)

//go:generate mockgen -source=service.go -package order -destination productfetcher_mock.go ProductFetcher
type ProductFetcher interface {
	GetPhone(c context.Context, phoneUID string) (catalog.Phone, bool, error)
}

type service struct {
	orderStore mystore.Store[Order]
	products   ProductFetcher
	payer      Payer
	publisher  mypublisher.Publisher
	nower      mytime.Nower
	uuider     myuuid.UUIDer
	logger     mylog.Logger
}

// Use dependency injection to isolate the infrastructure and easy testing
func newService(orderStore mystore.Store[Order], products ProductFetcher, payer Payer, publisher mypublisher.Publisher, nower mytime.Nower, uuider myuuid.UUIDer, logger mylog.Logger) *service {
	return &service{
		orderStore: orderStore,
		products:   products,
		payer:      payer,
		publisher:  publisher,
		nower:      nower,
		uuider:     uuider,
		logger:     logger,
	}
}

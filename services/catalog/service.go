package catalog

import (
	"github.com/MarcGrol/phoneloom/lib/mylog"
	"github.com/MarcGrol/phoneloom/lib/mypubsub"
	"github.com/MarcGrol/phoneloom/lib/mystore"
	"github.com/MarcGrol/phoneloom/lib/mytime"
)

type service struct {
	phoneStore    mystore.Store[Phone]
	movementStore mystore.Store[StockMovement]
	cache         *ProductCache
	pubsub        mypubsub.PubSub
	nower         mytime.Nower
	logger        mylog.Logger
}

// Use dependency injection to isolate the infrastructure and easy testing
func newService(phoneStore mystore.Store[Phone], movementStore mystore.Store[StockMovement], cache *ProductCache, pubsub mypubsub.PubSub, nower mytime.Nower, logger mylog.Logger) *service {
	return &service{
		phoneStore:    phoneStore,
		movementStore: movementStore,
		cache:         cache,
		pubsub:        pubsub,
		nower:         nower,
		logger:        logger,
	}
}

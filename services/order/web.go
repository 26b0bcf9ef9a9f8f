package order

import (
	"context"
	"fmt"
	"net/http"
	"net/url"

	"github.com/gorilla/mux"

	"github.com/MarcGrol/phoneloom/lib/mycontext"
	"github.com/MarcGrol/phoneloom/lib/myhttp"
	"github.com/MarcGrol/phoneloom/lib/mylog"
	"github.com/MarcGrol/phoneloom/lib/mypublisher"
	"github.com/MarcGrol/phoneloom/lib/mystore"
	"github.com/MarcGrol/phoneloom/lib/mytime"
	"github.com/MarcGrol/phoneloom/lib/myuuid"
	"github.com/MarcGrol/phoneloom/services/order/orderevents"
	"github.com/MarcGrol/phoneloom/services/orderapi"
)

type webService struct {
	logger    mylog.Logger
	adminKey  string
	publisher mypublisher.Publisher
	service   *service
}

// Use dependency injection to isolate the infrastructure and easy testing
func NewWebService(orderStore mystore.Store[Order], products ProductFetcher, payer Payer, publisher mypublisher.Publisher, nower mytime.Nower, uuider myuuid.UUIDer, adminKey string) *webService {
	logger := mylog.New("order")
	return &webService{
		logger:    logger,
		adminKey:  adminKey,
		publisher: publisher,
		service:   newService(orderStore, products, payer, publisher, nower, uuider, logger),
	}
}

func (s *webService) RegisterEndpoints(c context.Context, router *mux.Router) error {
	err := s.publisher.CreateTopic(c, orderevents.TopicName)
	if err != nil {
		return fmt.Errorf("error creating topic %s: %w", orderevents.TopicName, err)
	}

	router.HandleFunc("/api/orders", s.submitOrderPage()).Methods("POST")
	router.HandleFunc("/api/orders/mine", s.myOrdersPage()).Methods("GET")
	router.HandleFunc("/api/orders/{orderUID}/payment/{outcome}", s.paymentReturnedPage()).Methods("GET")

	admin := router.PathPrefix("/api/admin/orders").Subrouter()
	admin.Use(myhttp.AdminGuard(s.adminKey, s.logger))
	admin.HandleFunc("", s.listOrdersPage()).Methods("GET")
	admin.HandleFunc("/{orderUID}", s.getOrderPage()).Methods("GET")
	admin.HandleFunc("/{orderUID}/status/{status}", s.changeStatusPage()).Methods("PUT")

	stats := router.PathPrefix("/api/admin/stats").Subrouter()
	stats.Use(myhttp.AdminGuard(s.adminKey, s.logger))
	stats.HandleFunc("/sales", s.salesPage()).Methods("GET")
	stats.HandleFunc("/brands", s.brandsPage()).Methods("GET")
	stats.HandleFunc("/overview", s.overviewPage()).Methods("GET")

	return nil
}

// SubmitOrder lets the cart hand over its content without a round trip over http
func (s *webService) SubmitOrder(c context.Context, shopperUID string, req orderapi.SubmitOrderRequest) (orderapi.SubmitOrderResponse, error) {
	order, err := s.service.submitOrder(c, myhttp.GuessHostnameWithScheme(), shopperUID, req)
	if err != nil {
		return orderapi.SubmitOrderResponse{}, err
	}
	return order.response(), nil
}

func (s *webService) submitOrderPage() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		c := mycontext.ContextFromHTTPRequest(r)
		errorWriter := myhttp.NewWriter(s.logger)

		req, err := orderapi.NewFromRequest(r)
		if err != nil {
			errorWriter.WriteError(c, w, 1, err)
			return
		}

		order, err := s.service.submitOrder(c, myhttp.HostnameWithScheme(r), r.Header.Get(orderapi.ShopperUIDHeader), req)
		if err != nil {
			errorWriter.WriteError(c, w, 2, err)
			return
		}

		errorWriter.Write(c, w, http.StatusCreated, order.response())
	}
}

func (s *webService) myOrdersPage() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		c := mycontext.ContextFromHTTPRequest(r)
		errorWriter := myhttp.NewWriter(s.logger)

		orders, err := s.service.listShopperOrders(c, r.Header.Get(orderapi.ShopperUIDHeader))
		if err != nil {
			errorWriter.WriteError(c, w, 1, err)
			return
		}

		errorWriter.Write(c, w, http.StatusOK, orders)
	}
}

func (s *webService) paymentReturnedPage() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		c := mycontext.ContextFromHTTPRequest(r)
		errorWriter := myhttp.NewWriter(s.logger)

		order, err := s.service.paymentReturned(c, mux.Vars(r)["orderUID"], mux.Vars(r)["outcome"])
		if err != nil {
			errorWriter.WriteError(c, w, 1, err)
			return
		}

		if order.ReturnURL != "" {
			redirectURL := fmt.Sprintf("%s?order=%s&payment=%s", order.ReturnURL, url.QueryEscape(order.UID), url.QueryEscape(order.PaymentStatus))
			http.Redirect(w, r, redirectURL, http.StatusSeeOther)
			return
		}

		errorWriter.Write(c, w, http.StatusOK, order)
	}
}

func (s *webService) listOrdersPage() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		c := mycontext.ContextFromHTTPRequest(r)
		errorWriter := myhttp.NewWriter(s.logger)

		orders, err := s.service.listOrders(c, r.URL.Query().Get("status"))
		if err != nil {
			errorWriter.WriteError(c, w, 1, err)
			return
		}

		errorWriter.Write(c, w, http.StatusOK, orders)
	}
}

func (s *webService) getOrderPage() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		c := mycontext.ContextFromHTTPRequest(r)
		errorWriter := myhttp.NewWriter(s.logger)

		order, err := s.service.getOrder(c, mux.Vars(r)["orderUID"])
		if err != nil {
			errorWriter.WriteError(c, w, 1, err)
			return
		}

		errorWriter.Write(c, w, http.StatusOK, order)
	}
}

func (s *webService) changeStatusPage() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		c := mycontext.ContextFromHTTPRequest(r)
		errorWriter := myhttp.NewWriter(s.logger)

		order, err := s.service.changeStatus(c, mux.Vars(r)["orderUID"], mux.Vars(r)["status"])
		if err != nil {
			errorWriter.WriteError(c, w, 1, err)
			return
		}

		errorWriter.Write(c, w, http.StatusOK, order)
	}
}

func (s *webService) salesPage() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		c := mycontext.ContextFromHTTPRequest(r)
		errorWriter := myhttp.NewWriter(s.logger)

		sales, err := s.service.salesByMonth(c)
		if err != nil {
			errorWriter.WriteError(c, w, 1, err)
			return
		}

		errorWriter.Write(c, w, http.StatusOK, sales)
	}
}

func (s *webService) brandsPage() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		c := mycontext.ContextFromHTTPRequest(r)
		errorWriter := myhttp.NewWriter(s.logger)

		brands, err := s.service.brandSales(c)
		if err != nil {
			errorWriter.WriteError(c, w, 1, err)
			return
		}

		errorWriter.Write(c, w, http.StatusOK, brands)
	}
}

func (s *webService) overviewPage() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		c := mycontext.ContextFromHTTPRequest(r)
		errorWriter := myhttp.NewWriter(s.logger)

		overview, err := s.service.overview(c)
		if err != nil {
			errorWriter.WriteError(c, w, 1, err)
			return
		}

		errorWriter.Write(c, w, http.StatusOK, overview)
	}
}

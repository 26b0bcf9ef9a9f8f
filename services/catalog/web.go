package catalog

import (
	"context"
	"fmt"
	"net/http"
	"strconv"

	formcodec "github.com/go-playground/form/v4"
	"github.com/gorilla/mux"

	"github.com/MarcGrol/phoneloom/lib/mycontext"
	"github.com/MarcGrol/phoneloom/lib/myerrors"
	"github.com/MarcGrol/phoneloom/lib/myhttp"
	"github.com/MarcGrol/phoneloom/lib/mylog"
	"github.com/MarcGrol/phoneloom/lib/mypubsub"
	"github.com/MarcGrol/phoneloom/lib/mystore"
	"github.com/MarcGrol/phoneloom/lib/mytime"
	"github.com/MarcGrol/phoneloom/services/order/orderevents"
)

type webService struct {
	logger   mylog.Logger
	adminKey string
	service  *service
}

// Use dependency injection to isolate the infrastructure and easy testing
func NewWebService(phoneStore mystore.Store[Phone], movementStore mystore.Store[StockMovement], cache *ProductCache, pubsub mypubsub.PubSub, nower mytime.Nower, adminKey string) *webService {
	logger := mylog.New("catalog")
	return &webService{
		logger:   logger,
		adminKey: adminKey,
		service:  newService(phoneStore, movementStore, cache, pubsub, nower, logger),
	}
}

func (s *webService) RegisterEndpoints(c context.Context, router *mux.Router) error {
	err := s.service.Subscribe(c)
	if err != nil {
		return err
	}

	router.HandleFunc("/api/phones", s.listPhonesPage()).Methods("GET")
	router.HandleFunc("/api/phones/trending", s.trendingPhonesPage()).Methods("GET")
	router.HandleFunc("/api/phones/event", s.handleEventEnvelopePage()).Methods("POST")
	router.HandleFunc("/api/phones/{phoneUID}", s.getPhonePage()).Methods("GET")
	router.HandleFunc("/api/phones/{phoneUID}/price", s.quotePricePage()).Methods("GET")

	admin := router.PathPrefix("/api/admin/phones").Subrouter()
	admin.Use(myhttp.AdminGuard(s.adminKey, s.logger))
	admin.HandleFunc("", s.createPhonePage()).Methods("POST")
	admin.HandleFunc("/cache", s.clearCachePage()).Methods("DELETE")
	admin.HandleFunc("/{phoneUID}", s.updatePhonePage()).Methods("PUT")
	admin.HandleFunc("/{phoneUID}", s.deletePhonePage()).Methods("DELETE")

	return nil
}

// GetPhone gives other services access to the current state of a single phone
func (s *webService) GetPhone(c context.Context, phoneUID string) (Phone, bool, error) {
	return s.service.getPhone(c, phoneUID)
}

// Preload fills the catalog cache and returns the number of phones
func (s *webService) Preload(c context.Context) (int, error) {
	phones, err := s.service.allPhones(c, true)
	if err != nil {
		return 0, err
	}
	return len(phones), nil
}

func (s *webService) Seed(c context.Context) (int, error) {
	return s.service.seedIfEmpty(c)
}

func (s *webService) listPhonesPage() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		c := mycontext.ContextFromHTTPRequest(r)
		errorWriter := myhttp.NewWriter(s.logger)

		query, err := parseListQuery(r.URL.Query())
		if err != nil {
			errorWriter.WriteError(c, w, 1, err)
			return
		}
		forceRefresh, _ := strconv.ParseBool(r.URL.Query().Get("refresh"))

		page, err := s.service.listPhones(c, query, forceRefresh)
		if err != nil {
			errorWriter.WriteError(c, w, 2, err)
			return
		}

		errorWriter.Write(c, w, http.StatusOK, page)
	}
}

func (s *webService) trendingPhonesPage() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		c := mycontext.ContextFromHTTPRequest(r)
		errorWriter := myhttp.NewWriter(s.logger)

		phones, err := s.service.trendingPhones(c)
		if err != nil {
			errorWriter.WriteError(c, w, 1, err)
			return
		}

		errorWriter.Write(c, w, http.StatusOK, phones)
	}
}

func (s *webService) getPhonePage() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		c := mycontext.ContextFromHTTPRequest(r)
		errorWriter := myhttp.NewWriter(s.logger)

		phone, err := s.service.getExistingPhone(c, mux.Vars(r)["phoneUID"])
		if err != nil {
			errorWriter.WriteError(c, w, 1, err)
			return
		}

		errorWriter.Write(c, w, http.StatusOK, phone)
	}
}

func (s *webService) quotePricePage() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		c := mycontext.ContextFromHTTPRequest(r)
		errorWriter := myhttp.NewWriter(s.logger)

		query := r.URL.Query()
		quote, err := s.service.quotePrice(c, mux.Vars(r)["phoneUID"], query.Get("storage"), query.Get("ram"))
		if err != nil {
			errorWriter.WriteError(c, w, 1, err)
			return
		}

		errorWriter.Write(c, w, http.StatusOK, quote)
	}
}

func parsePhoneForm(r *http.Request) (PhoneForm, error) {
	err := r.ParseForm()
	if err != nil {
		return PhoneForm{}, myerrors.NewInvalidInputError(err)
	}
	form := PhoneForm{}
	err = formcodec.NewDecoder().Decode(&form, r.Form)
	if err != nil {
		return PhoneForm{}, myerrors.NewInvalidInputError(fmt.Errorf("error decoding form: %w", err))
	}
	return form, nil
}

func (s *webService) createPhonePage() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		c := mycontext.ContextFromHTTPRequest(r)
		errorWriter := myhttp.NewWriter(s.logger)

		form, err := parsePhoneForm(r)
		if err != nil {
			errorWriter.WriteError(c, w, 1, err)
			return
		}

		phone, err := s.service.createPhone(c, form)
		if err != nil {
			errorWriter.WriteError(c, w, 2, err)
			return
		}

		errorWriter.Write(c, w, http.StatusCreated, phone)
	}
}

func (s *webService) updatePhonePage() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		c := mycontext.ContextFromHTTPRequest(r)
		errorWriter := myhttp.NewWriter(s.logger)

		form, err := parsePhoneForm(r)
		if err != nil {
			errorWriter.WriteError(c, w, 1, err)
			return
		}

		phone, err := s.service.updatePhone(c, mux.Vars(r)["phoneUID"], form)
		if err != nil {
			errorWriter.WriteError(c, w, 2, err)
			return
		}

		errorWriter.Write(c, w, http.StatusOK, phone)
	}
}

func (s *webService) deletePhonePage() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		c := mycontext.ContextFromHTTPRequest(r)
		errorWriter := myhttp.NewWriter(s.logger)

		phoneUID := mux.Vars(r)["phoneUID"]
		err := s.service.deletePhone(c, phoneUID)
		if err != nil {
			errorWriter.WriteError(c, w, 1, err)
			return
		}

		errorWriter.Write(c, w, http.StatusOK, myhttp.SuccessResponse{
			Message: fmt.Sprintf("Phone %s removed", phoneUID),
		})
	}
}

func (s *webService) clearCachePage() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		c := mycontext.ContextFromHTTPRequest(r)
		errorWriter := myhttp.NewWriter(s.logger)

		s.service.cache.Clear()

		errorWriter.Write(c, w, http.StatusOK, myhttp.SuccessResponse{
			Message: "Catalog cache cleared",
		})
	}
}

func (s *webService) handleEventEnvelopePage() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		c := mycontext.ContextFromHTTPRequest(r)
		errorWriter := myhttp.NewWriter(s.logger)

		err := orderevents.DispatchEvent(c, r.Body, s.service)
		if err != nil {
			errorWriter.WriteError(c, w, 1, err)
			return
		}

		errorWriter.Write(c, w, http.StatusOK, myhttp.SuccessResponse{
			Message: "Successfully processed event",
		})
	}
}

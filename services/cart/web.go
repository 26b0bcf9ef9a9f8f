package cart

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
	"github.com/MarcGrol/phoneloom/lib/myuuid"
	"github.com/MarcGrol/phoneloom/services/orderapi"
)

type webService struct {
	logger  mylog.Logger
	service *service
}

// Use dependency injection to isolate the infrastructure and easy testing
func NewWebService(sessionStore SessionStore, products ProductFetcher, orders OrderSubmitter, uuider myuuid.UUIDer) *webService {
	logger := mylog.New("cart")
	return &webService{
		logger:  logger,
		service: newService(sessionStore, products, orders, uuider, logger),
	}
}

func (s *webService) RegisterEndpoints(c context.Context, router *mux.Router) error {
	router.HandleFunc("/api/cart", s.createCartPage()).Methods("POST")
	router.HandleFunc("/api/cart/{sessionUID}", s.getCartPage()).Methods("GET")
	router.HandleFunc("/api/cart/{sessionUID}/lines", s.addLinePage()).Methods("POST")
	router.HandleFunc("/api/cart/{sessionUID}/lines", s.clearCartPage()).Methods("DELETE")
	router.HandleFunc("/api/cart/{sessionUID}/lines/{key}", s.getLinePage()).Methods("GET")
	router.HandleFunc("/api/cart/{sessionUID}/lines/{key}", s.reconfigureLinePage()).Methods("PUT")
	router.HandleFunc("/api/cart/{sessionUID}/lines/{key}", s.removeLinePage()).Methods("DELETE")
	router.HandleFunc("/api/cart/{sessionUID}/lines/{key}/quantity", s.setQuantityPage()).Methods("PUT")
	router.HandleFunc("/api/cart/{sessionUID}/open/{isOpen}", s.setOpenPage()).Methods("PUT")
	router.HandleFunc("/api/cart/{sessionUID}/restore", s.restorePage()).Methods("POST")
	router.HandleFunc("/api/cart/{sessionUID}/checkout", s.checkoutPage()).Methods("POST")

	return nil
}

func decodeForm(r *http.Request, target any) error {
	err := r.ParseForm()
	if err != nil {
		return myerrors.NewInvalidInputError(err)
	}
	err = formcodec.NewDecoder().Decode(target, r.Form)
	if err != nil {
		return myerrors.NewInvalidInputError(fmt.Errorf("error decoding form: %w", err))
	}
	return nil
}

func (s *webService) createCartPage() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		c := mycontext.ContextFromHTTPRequest(r)
		errorWriter := myhttp.NewWriter(s.logger)

		cart, err := s.service.createCart(c)
		if err != nil {
			errorWriter.WriteError(c, w, 1, err)
			return
		}

		errorWriter.Write(c, w, http.StatusCreated, newView(cart))
	}
}

func (s *webService) getCartPage() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		c := mycontext.ContextFromHTTPRequest(r)
		errorWriter := myhttp.NewWriter(s.logger)

		cart, err := s.service.getCart(c, mux.Vars(r)["sessionUID"])
		if err != nil {
			errorWriter.WriteError(c, w, 1, err)
			return
		}

		errorWriter.Write(c, w, http.StatusOK, newView(cart))
	}
}

type addLineRequest struct {
	Phone   string `form:"phone"`
	Color   string `form:"color"`
	Storage string `form:"storage"`
	RAM     string `form:"ram"`
}

func (s *webService) addLinePage() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		c := mycontext.ContextFromHTTPRequest(r)
		errorWriter := myhttp.NewWriter(s.logger)

		req := addLineRequest{}
		err := decodeForm(r, &req)
		if err != nil {
			errorWriter.WriteError(c, w, 1, err)
			return
		}

		cart, err := s.service.addLine(c, mux.Vars(r)["sessionUID"], req.Phone, Variant{
			Color:   req.Color,
			Storage: req.Storage,
			RAM:     req.RAM,
		})
		if err != nil {
			errorWriter.WriteError(c, w, 2, err)
			return
		}

		errorWriter.Write(c, w, http.StatusOK, newView(cart))
	}
}

func (s *webService) getLinePage() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		c := mycontext.ContextFromHTTPRequest(r)
		errorWriter := myhttp.NewWriter(s.logger)

		line, err := s.service.getLine(c, mux.Vars(r)["sessionUID"], mux.Vars(r)["key"])
		if err != nil {
			errorWriter.WriteError(c, w, 1, err)
			return
		}

		errorWriter.Write(c, w, http.StatusOK, LineView{Line: line, Total: line.Total()})
	}
}

func (s *webService) setQuantityPage() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		c := mycontext.ContextFromHTTPRequest(r)
		errorWriter := myhttp.NewWriter(s.logger)

		quantity, err := strconv.Atoi(r.FormValue("quantity"))
		if err != nil {
			errorWriter.WriteError(c, w, 1, myerrors.NewInvalidInputError(fmt.Errorf("invalid quantity: %w", err)))
			return
		}

		cart, err := s.service.setQuantity(c, mux.Vars(r)["sessionUID"], mux.Vars(r)["key"], quantity)
		if err != nil {
			errorWriter.WriteError(c, w, 2, err)
			return
		}

		errorWriter.Write(c, w, http.StatusOK, newView(cart))
	}
}

func (s *webService) reconfigureLinePage() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		c := mycontext.ContextFromHTTPRequest(r)
		errorWriter := myhttp.NewWriter(s.logger)

		update := VariantUpdate{}
		err := decodeForm(r, &update)
		if err != nil {
			errorWriter.WriteError(c, w, 1, err)
			return
		}

		cart, err := s.service.reconfigureLine(c, mux.Vars(r)["sessionUID"], mux.Vars(r)["key"], update)
		if err != nil {
			errorWriter.WriteError(c, w, 2, err)
			return
		}

		errorWriter.Write(c, w, http.StatusOK, newView(cart))
	}
}

func (s *webService) removeLinePage() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		c := mycontext.ContextFromHTTPRequest(r)
		errorWriter := myhttp.NewWriter(s.logger)

		cart, err := s.service.removeLine(c, mux.Vars(r)["sessionUID"], mux.Vars(r)["key"])
		if err != nil {
			errorWriter.WriteError(c, w, 1, err)
			return
		}

		errorWriter.Write(c, w, http.StatusOK, newView(cart))
	}
}

func (s *webService) clearCartPage() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		c := mycontext.ContextFromHTTPRequest(r)
		errorWriter := myhttp.NewWriter(s.logger)

		cart, err := s.service.clearCart(c, mux.Vars(r)["sessionUID"])
		if err != nil {
			errorWriter.WriteError(c, w, 1, err)
			return
		}

		errorWriter.Write(c, w, http.StatusOK, newView(cart))
	}
}

func (s *webService) setOpenPage() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		c := mycontext.ContextFromHTTPRequest(r)
		errorWriter := myhttp.NewWriter(s.logger)

		isOpen, err := strconv.ParseBool(mux.Vars(r)["isOpen"])
		if err != nil {
			errorWriter.WriteError(c, w, 1, myerrors.NewInvalidInputError(fmt.Errorf("invalid open flag: %w", err)))
			return
		}

		cart, err := s.service.setOpen(c, mux.Vars(r)["sessionUID"], isOpen)
		if err != nil {
			errorWriter.WriteError(c, w, 2, err)
			return
		}

		errorWriter.Write(c, w, http.StatusOK, newView(cart))
	}
}

func (s *webService) restorePage() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		c := mycontext.ContextFromHTTPRequest(r)
		errorWriter := myhttp.NewWriter(s.logger)

		req, err := orderapi.NewFromRequest(r)
		if err != nil {
			errorWriter.WriteError(c, w, 1, err)
			return
		}

		cart, skipped, err := s.service.restoreCart(c, mux.Vars(r)["sessionUID"], req.OrderItems)
		if err != nil {
			errorWriter.WriteError(c, w, 2, err)
			return
		}

		errorWriter.Write(c, w, http.StatusOK, RestoreView{
			View:    newView(cart),
			Skipped: skipped,
		})
	}
}

func (s *webService) checkoutPage() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		c := mycontext.ContextFromHTTPRequest(r)
		errorWriter := myhttp.NewWriter(s.logger)

		sessionUID := mux.Vars(r)["sessionUID"]

		req := checkoutRequest{}
		err := decodeForm(r, &req)
		if err != nil {
			errorWriter.WriteError(c, w, 1, err)
			return
		}
		if req.ReturnURL == "" {
			req.ReturnURL = myhttp.HostnameWithScheme(r)
		}

		// Guests check out under their session
		shopperUID := r.Header.Get(orderapi.ShopperUIDHeader)
		if shopperUID == "" {
			shopperUID = sessionUID
		}

		resp, err := s.service.checkout(c, sessionUID, shopperUID, req)
		if err != nil {
			errorWriter.WriteError(c, w, 2, err)
			return
		}

		errorWriter.Write(c, w, http.StatusCreated, resp)
	}
}

package cart

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/mux"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"github.com/MarcGrol/phoneloom/lib/myerrors"
	"github.com/MarcGrol/phoneloom/lib/mytime"
	"github.com/MarcGrol/phoneloom/lib/myuuid"
	"github.com/MarcGrol/phoneloom/services/catalog"
	"github.com/MarcGrol/phoneloom/services/orderapi"
)

const sessionUID = "session-1"

var galaxy = catalog.Phone{
	UID:                "65a1f0c2e4b0a1b2c3d4e5f6",
	Brand:              "Samsung",
	Model:              "Galaxy S24",
	Price:              100,
	DiscountPercentage: 20,
	Stock:              3,
	Colors:             []string{"Black", "Violet"},
	Storage:            []string{"64GB", "128GB", "256GB"},
	RAM:                []string{"4GB", "8GB"},
}

func TestCartService(t *testing.T) {
	black128Key := CompositeKey(galaxy.UID, black128)

	t.Run("Create cart", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		defer ctrl.Finish()

		// setup
		router, _, uuider, _, _ := setup(t, ctrl)

		// given
		uuider.EXPECT().Create().Return(sessionUID)

		// when
		response := doRequest(router, http.MethodPost, "/api/cart", nil, nil)

		// then
		assert.Equal(t, http.StatusCreated, response.Code)
		view := decodeView(t, response)
		assert.Equal(t, sessionUID, view.SessionUID)
		assert.Empty(t, view.Lines)
		assert.Equal(t, 0, view.ItemCount)
		assert.Equal(t, 0.0, view.ShippingFee)
	})

	t.Run("Get cart not exists", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		defer ctrl.Finish()

		// given
		router, _, _, _, _ := setup(t, ctrl)

		// when
		response := doRequest(router, http.MethodGet, "/api/cart/unknown", nil, nil)

		// then
		assert.Equal(t, http.StatusNotFound, response.Code)
	})

	t.Run("Add line", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		defer ctrl.Finish()

		// given
		router, store, _, products, _ := setup(t, ctrl)
		givenCart(t, store)
		products.EXPECT().GetPhone(gomock.Any(), galaxy.UID).Return(galaxy, true, nil)

		// when
		response := doRequest(router, http.MethodPost, "/api/cart/"+sessionUID+"/lines", url.Values{
			"phone":   {galaxy.UID},
			"color":   {"Black"},
			"storage": {"128GB"},
			"ram":     {"8GB"},
		}, nil)

		// then
		assert.Equal(t, http.StatusOK, response.Code)
		view := decodeView(t, response)
		require.Len(t, view.Lines, 1)
		assert.Equal(t, black128Key, view.Lines[0].Key)
		assert.Equal(t, 180.0, view.Lines[0].UnitPrice)
		assert.Equal(t, 1, view.ItemCount)
		assert.Equal(t, 180.0, view.TotalPrice)
		assert.Equal(t, 5.99, view.ShippingFee)
		assert.Equal(t, 185.99, view.GrandTotal)
	})

	t.Run("Add line of unknown phone", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		defer ctrl.Finish()

		// given
		router, store, _, products, _ := setup(t, ctrl)
		givenCart(t, store)
		products.EXPECT().GetPhone(gomock.Any(), galaxy.UID).Return(catalog.Phone{}, false, nil)

		// when
		response := doRequest(router, http.MethodPost, "/api/cart/"+sessionUID+"/lines", url.Values{"phone": {galaxy.UID}}, nil)

		// then
		assert.Equal(t, http.StatusNotFound, response.Code)
	})

	t.Run("Add line with malformed phone id", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		defer ctrl.Finish()

		// given
		router, store, _, products, _ := setup(t, ctrl)
		givenCart(t, store)
		products.EXPECT().GetPhone(gomock.Any(), "xyz").Return(catalog.Phone{}, false, myerrors.NewInvalidInputError(fmt.Errorf("Invalid ID format")))

		// when
		response := doRequest(router, http.MethodPost, "/api/cart/"+sessionUID+"/lines", url.Values{"phone": {"xyz"}}, nil)

		// then
		assert.Equal(t, http.StatusBadRequest, response.Code)
	})

	t.Run("Add line of phone out of stock", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		defer ctrl.Finish()

		// given
		router, store, _, products, _ := setup(t, ctrl)
		givenCart(t, store)
		soldOut := galaxy
		soldOut.Stock = 0
		products.EXPECT().GetPhone(gomock.Any(), galaxy.UID).Return(soldOut, true, nil)

		// when
		response := doRequest(router, http.MethodPost, "/api/cart/"+sessionUID+"/lines", url.Values{"phone": {galaxy.UID}}, nil)

		// then
		assert.Equal(t, http.StatusOK, response.Code)
		assert.Empty(t, decodeView(t, response).Lines)
	})

	t.Run("Get line", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		defer ctrl.Finish()

		// given
		router, store, _, _, _ := setup(t, ctrl)
		givenCart(t, store, black128)

		// when
		response := doRequest(router, http.MethodGet, "/api/cart/"+sessionUID+"/lines/"+url.PathEscape(black128Key), nil, nil)

		// then
		assert.Equal(t, http.StatusOK, response.Code)
		line := LineView{}
		require.NoError(t, json.Unmarshal(response.Body.Bytes(), &line))
		assert.Equal(t, black128, line.Variant)
		assert.Equal(t, 180.0, line.Total)
	})

	t.Run("Get line not exists", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		defer ctrl.Finish()

		// given
		router, store, _, _, _ := setup(t, ctrl)
		givenCart(t, store)

		// when
		response := doRequest(router, http.MethodGet, "/api/cart/"+sessionUID+"/lines/"+url.PathEscape(black128Key), nil, nil)

		// then
		assert.Equal(t, http.StatusNotFound, response.Code)
	})

	t.Run("Set quantity is clamped to stock", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		defer ctrl.Finish()

		// given
		router, store, _, _, _ := setup(t, ctrl)
		givenCart(t, store, black128)

		// when
		response := doRequest(router, http.MethodPut, "/api/cart/"+sessionUID+"/lines/"+url.PathEscape(black128Key)+"/quantity", url.Values{"quantity": {"5"}}, nil)

		// then
		assert.Equal(t, http.StatusOK, response.Code)
		view := decodeView(t, response)
		assert.Equal(t, 3, view.ItemCount)
		assert.Equal(t, 8.99, view.ShippingFee)
	})

	t.Run("Set quantity to zero removes the line", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		defer ctrl.Finish()

		// given
		router, store, _, _, _ := setup(t, ctrl)
		givenCart(t, store, black128)

		// when
		response := doRequest(router, http.MethodPut, "/api/cart/"+sessionUID+"/lines/"+url.PathEscape(black128Key)+"/quantity", url.Values{"quantity": {"0"}}, nil)

		// then
		assert.Equal(t, http.StatusOK, response.Code)
		view := decodeView(t, response)
		assert.Empty(t, view.Lines)
		assert.Equal(t, 0.0, view.ShippingFee)
	})

	t.Run("Set quantity not a number", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		defer ctrl.Finish()

		// given
		router, store, _, _, _ := setup(t, ctrl)
		givenCart(t, store, black128)

		// when
		response := doRequest(router, http.MethodPut, "/api/cart/"+sessionUID+"/lines/"+url.PathEscape(black128Key)+"/quantity", url.Values{"quantity": {"many"}}, nil)

		// then
		assert.Equal(t, http.StatusBadRequest, response.Code)
	})

	t.Run("Reconfigure line reprices it", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		defer ctrl.Finish()

		// given
		router, store, _, _, _ := setup(t, ctrl)
		givenCart(t, store, black128)

		// when
		response := doRequest(router, http.MethodPut, "/api/cart/"+sessionUID+"/lines/"+url.PathEscape(black128Key), url.Values{"storage": {"256GB"}}, nil)

		// then
		assert.Equal(t, http.StatusOK, response.Code)
		view := decodeView(t, response)
		require.Len(t, view.Lines, 1)
		assert.Equal(t, CompositeKey(galaxy.UID, black256), view.Lines[0].Key)
		assert.Equal(t, 230.0, view.Lines[0].UnitPrice)
	})

	t.Run("Reconfigure line merges into existing line", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		defer ctrl.Finish()

		// given
		router, store, _, _, _ := setup(t, ctrl)
		givenCart(t, store, black128, black256)

		// when
		response := doRequest(router, http.MethodPut, "/api/cart/"+sessionUID+"/lines/"+url.PathEscape(black128Key), url.Values{"storage": {"256GB"}}, nil)

		// then
		assert.Equal(t, http.StatusOK, response.Code)
		view := decodeView(t, response)
		require.Len(t, view.Lines, 1)
		assert.Equal(t, 2, view.Lines[0].Quantity)
		assert.Equal(t, 460.0, view.TotalPrice)
	})

	t.Run("Remove unknown line is a no-op", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		defer ctrl.Finish()

		// given
		router, store, _, _, _ := setup(t, ctrl)
		givenCart(t, store, black128)

		// when
		response := doRequest(router, http.MethodDelete, "/api/cart/"+sessionUID+"/lines/"+url.PathEscape("unknown|key"), nil, nil)

		// then
		assert.Equal(t, http.StatusOK, response.Code)
		assert.Len(t, decodeView(t, response).Lines, 1)
	})

	t.Run("Remove line", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		defer ctrl.Finish()

		// given
		router, store, _, _, _ := setup(t, ctrl)
		givenCart(t, store, black128, black256)

		// when
		response := doRequest(router, http.MethodDelete, "/api/cart/"+sessionUID+"/lines/"+url.PathEscape(black128Key), nil, nil)

		// then
		assert.Equal(t, http.StatusOK, response.Code)
		view := decodeView(t, response)
		require.Len(t, view.Lines, 1)
		assert.Equal(t, black256, view.Lines[0].Variant)
	})

	t.Run("Clear cart", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		defer ctrl.Finish()

		// given
		router, store, _, _, _ := setup(t, ctrl)
		givenCart(t, store, black128, black256)

		// when
		response := doRequest(router, http.MethodDelete, "/api/cart/"+sessionUID+"/lines", nil, nil)

		// then
		assert.Equal(t, http.StatusOK, response.Code)
		view := decodeView(t, response)
		assert.Empty(t, view.Lines)
		assert.Equal(t, 0.0, view.ShippingFee)
	})

	t.Run("Open cart", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		defer ctrl.Finish()

		// given
		router, store, _, _, _ := setup(t, ctrl)
		givenCart(t, store)

		// when
		response := doRequest(router, http.MethodPut, "/api/cart/"+sessionUID+"/open/true", nil, nil)

		// then
		assert.Equal(t, http.StatusOK, response.Code)
		assert.True(t, decodeView(t, response).IsOpen)
	})

	t.Run("Open cart with invalid flag", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		defer ctrl.Finish()

		// given
		router, store, _, _, _ := setup(t, ctrl)
		givenCart(t, store)

		// when
		response := doRequest(router, http.MethodPut, "/api/cart/"+sessionUID+"/open/maybe", nil, nil)

		// then
		assert.Equal(t, http.StatusBadRequest, response.Code)
	})

	t.Run("Restore cart", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		defer ctrl.Finish()

		// given
		router, store, _, products, _ := setup(t, ctrl)
		givenCart(t, store)
		products.EXPECT().GetPhone(gomock.Any(), galaxy.UID).Return(galaxy, true, nil)
		products.EXPECT().GetPhone(gomock.Any(), "65a1f0c2e4b0a1b2c3d4e5ff").Return(catalog.Phone{}, false, nil)

		// when
		response := doRequest(router, http.MethodPost, "/api/cart/"+sessionUID+"/restore", url.Values{
			"orderItems[0].phone":           {galaxy.UID},
			"orderItems[0].quantity":        {"2"},
			"orderItems[0].selectedColor":   {"Black"},
			"orderItems[0].selectedStorage": {"128GB"},
			"orderItems[0].selectedRam":     {"8GB"},
			"orderItems[1].phone":           {"65a1f0c2e4b0a1b2c3d4e5ff"},
			"orderItems[1].quantity":        {"1"},
		}, nil)

		// then
		assert.Equal(t, http.StatusOK, response.Code)
		restored := RestoreView{}
		require.NoError(t, json.Unmarshal(response.Body.Bytes(), &restored))
		require.Len(t, restored.Lines, 1)
		assert.Equal(t, black128Key, restored.Lines[0].Key)
		assert.Equal(t, 2, restored.Lines[0].Quantity)
		require.Len(t, restored.Skipped, 1)
		assert.Equal(t, "65a1f0c2e4b0a1b2c3d4e5ff", restored.Skipped[0].Phone)
	})

	t.Run("Checkout empty cart", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		defer ctrl.Finish()

		// given
		router, store, _, _, _ := setup(t, ctrl)
		givenCart(t, store)

		// when
		response := doRequest(router, http.MethodPost, "/api/cart/"+sessionUID+"/checkout", checkoutForm(), nil)

		// then
		assert.Equal(t, http.StatusBadRequest, response.Code)
	})

	t.Run("Checkout", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		defer ctrl.Finish()

		// given
		router, store, _, _, orders := setup(t, ctrl)
		givenCart(t, store, black128, black128)
		orders.EXPECT().SubmitOrder(gomock.Any(), "shopper-1", orderapi.SubmitOrderRequest{
			CartSessionUID: sessionUID,
			OrderItems: []orderapi.OrderItem{
				{Phone: galaxy.UID, Quantity: 2, SelectedColor: "Black", SelectedStorage: "128GB", SelectedRam: "8GB"},
			},
			ShippingAddress: orderapi.ShippingAddress{Address: "Damrak 1", City: "Amsterdam", PostalCode: "1012LG", Country: "NL"},
			PaymentMethod:   orderapi.PaymentMethodCashOnDelivery,
			ShippingPrice:   7.49,
			ReturnURL:       "http://example.com",
		}).Return(orderapi.SubmitOrderResponse{
			OrderUID:      "order-1",
			Status:        "pending",
			ItemsPrice:    360,
			ShippingPrice: 7.49,
			TotalPrice:    367.49,
		}, nil)

		// when
		response := doRequest(router, http.MethodPost, "/api/cart/"+sessionUID+"/checkout", checkoutForm(), map[string]string{
			orderapi.ShopperUIDHeader: "shopper-1",
		})

		// then
		assert.Equal(t, http.StatusCreated, response.Code)
		resp := orderapi.SubmitOrderResponse{}
		require.NoError(t, json.Unmarshal(response.Body.Bytes(), &resp))
		assert.Equal(t, "order-1", resp.OrderUID)

		cart, found, err := store.Get(context.TODO(), sessionUID)
		assert.NoError(t, err)
		assert.True(t, found)
		assert.True(t, cart.IsEmpty())
	})

	t.Run("Checkout rejected keeps cart", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		defer ctrl.Finish()

		// given
		router, store, _, _, orders := setup(t, ctrl)
		givenCart(t, store, black128)
		orders.EXPECT().SubmitOrder(gomock.Any(), sessionUID, gomock.Any()).
			Return(orderapi.SubmitOrderResponse{}, myerrors.NewInvalidInputError(fmt.Errorf("incomplete shipping address")))

		// when
		response := doRequest(router, http.MethodPost, "/api/cart/"+sessionUID+"/checkout", url.Values{"paymentMethod": {"cod"}}, nil)

		// then
		assert.Equal(t, http.StatusBadRequest, response.Code)
		cart, _, err := store.Get(context.TODO(), sessionUID)
		assert.NoError(t, err)
		assert.Len(t, cart.Lines, 1)
	})
}

func setup(t *testing.T, ctrl *gomock.Controller) (*mux.Router, SessionStore, *myuuid.MockUUIDer, *MockProductFetcher, *MockOrderSubmitter) {
	c := context.TODO()

	nower := mytime.NewMockNower(ctrl)
	nower.EXPECT().Now().Return(mytime.ExampleTime).AnyTimes()
	store, _, err := newInMemorySessionStore(c, nower, 24*time.Hour)
	require.NoError(t, err)

	uuider := myuuid.NewMockUUIDer(ctrl)
	products := NewMockProductFetcher(ctrl)
	orders := NewMockOrderSubmitter(ctrl)

	sut := NewWebService(store, products, orders, uuider)
	router := mux.NewRouter()
	err = sut.RegisterEndpoints(c, router)
	require.NoError(t, err)

	return router, store, uuider, products, orders
}

func givenCart(t *testing.T, store SessionStore, variants ...Variant) {
	cart := New(sessionUID)
	for _, v := range variants {
		cart.AddLine(productFromPhone(galaxy), v)
	}
	require.NoError(t, store.Put(context.TODO(), *cart))
}

func checkoutForm() url.Values {
	return url.Values{
		"shippingAddress.address":    {"Damrak 1"},
		"shippingAddress.city":       {"Amsterdam"},
		"shippingAddress.postalCode": {"1012LG"},
		"shippingAddress.country":    {"NL"},
		"paymentMethod":              {"cod"},
	}
}

func doRequest(router *mux.Router, method string, path string, form url.Values, headers map[string]string) *httptest.ResponseRecorder {
	body := ""
	if form != nil {
		body = form.Encode()
	}
	request := httptest.NewRequest(method, path, strings.NewReader(body))
	if form != nil {
		request.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	}
	for k, v := range headers {
		request.Header.Set(k, v)
	}
	response := httptest.NewRecorder()
	router.ServeHTTP(response, request)
	return response
}

func decodeView(t *testing.T, response *httptest.ResponseRecorder) View {
	view := View{}
	require.NoError(t, json.Unmarshal(response.Body.Bytes(), &view))
	return view
}

package catalog

import (
	"context"
	"encoding/json"
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

	"github.com/MarcGrol/phoneloom/lib/myevents"
	"github.com/MarcGrol/phoneloom/lib/myhttp"
	"github.com/MarcGrol/phoneloom/lib/mypubsub"
	"github.com/MarcGrol/phoneloom/lib/mystore"
	"github.com/MarcGrol/phoneloom/lib/mytime"
	"github.com/MarcGrol/phoneloom/services/order/orderevents"
)

const (
	adminKey = "s3cr3t"
	pixelUID = "65f1a0000000000000000004"
)

var pixel = Phone{
	UID:                pixelUID,
	Brand:              "Google",
	Model:              "Pixel 8a",
	Price:              500,
	DiscountPercentage: 10,
	Storage:            []string{"128GB", "256GB"},
	Colors:             []string{"Obsidian", "Bay"},
	RAM:                []string{"8GB", "12GB"},
	Stock:              4,
	ReleaseDate:        time.Date(2024, time.May, 14, 0, 0, 0, 0, time.UTC),
}

func TestCatalogService(t *testing.T) {

	t.Run("List phones", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		defer ctrl.Finish()

		// setup
		ctx, router, phoneStore, _, nower := setup(t, ctrl)

		// given
		nower.EXPECT().Now().Return(mytime.ExampleTime).AnyTimes()
		require.NoError(t, phoneStore.Put(ctx, pixel.UID, pixel))

		// when
		response := doRequest(router, http.MethodGet, "/api/phones?brand=google", nil, "")

		// then
		assert.Equal(t, http.StatusOK, response.Code)
		page := PhonePage{}
		require.NoError(t, json.Unmarshal(response.Body.Bytes(), &page))
		assert.Equal(t, 1, page.TotalCount)
		assert.Equal(t, pixelUID, page.Phones[0].UID)
	})

	t.Run("List phones with invalid query", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		defer ctrl.Finish()

		// given
		_, router, _, _, _ := setup(t, ctrl)

		// when
		response := doRequest(router, http.MethodGet, "/api/phones?sort=cheapest", nil, "")

		// then
		assert.Equal(t, http.StatusBadRequest, response.Code)
	})

	t.Run("Trending phones", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		defer ctrl.Finish()

		// given
		ctx, router, phoneStore, _, nower := setup(t, ctrl)
		nower.EXPECT().Now().Return(mytime.ExampleTime).AnyTimes()
		require.NoError(t, phoneStore.Put(ctx, pixel.UID, pixel))

		// when
		response := doRequest(router, http.MethodGet, "/api/phones/trending", nil, "")

		// then
		assert.Equal(t, http.StatusOK, response.Code)
		assert.Contains(t, response.Body.String(), pixelUID)
	})

	t.Run("Get phone", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		defer ctrl.Finish()

		// given
		ctx, router, phoneStore, _, _ := setup(t, ctrl)
		require.NoError(t, phoneStore.Put(ctx, pixel.UID, pixel))

		// when
		response := doRequest(router, http.MethodGet, "/api/phones/"+pixelUID, nil, "")

		// then
		assert.Equal(t, http.StatusOK, response.Code)
		got := Phone{}
		require.NoError(t, json.Unmarshal(response.Body.Bytes(), &got))
		assert.Equal(t, pixel, got)
	})

	t.Run("Get phone with malformed id", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		defer ctrl.Finish()

		// given
		_, router, _, _, _ := setup(t, ctrl)

		// when
		response := doRequest(router, http.MethodGet, "/api/phones/not-an-object-id", nil, "")

		// then
		assert.Equal(t, http.StatusBadRequest, response.Code)
		assert.Contains(t, response.Body.String(), "Invalid ID format")
	})

	t.Run("Get phone not exists", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		defer ctrl.Finish()

		// given
		_, router, _, _, _ := setup(t, ctrl)

		// when
		response := doRequest(router, http.MethodGet, "/api/phones/"+pixelUID, nil, "")

		// then
		assert.Equal(t, http.StatusNotFound, response.Code)
	})

	t.Run("Quote price", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		defer ctrl.Finish()

		// given
		ctx, router, phoneStore, _, _ := setup(t, ctrl)
		require.NoError(t, phoneStore.Put(ctx, pixel.UID, pixel))

		// when
		response := doRequest(router, http.MethodGet, "/api/phones/"+pixelUID+"/price?storage=256GB&ram=12GB", nil, "")

		// then
		assert.Equal(t, http.StatusOK, response.Code)
		quote := PriceQuote{}
		require.NoError(t, json.Unmarshal(response.Body.Bytes(), &quote))
		assert.Equal(t, 550.0, quote.Price)
		assert.Equal(t, 600.0, quote.OriginalPrice)
	})

	t.Run("Create phone", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		defer ctrl.Finish()

		// given
		ctx, router, phoneStore, _, nower := setup(t, ctrl)
		nower.EXPECT().Now().Return(mytime.ExampleTime)
		form := url.Values{
			"brand":       {"Fairphone"},
			"model":       {"5"},
			"description": {"Repairable phone"},
			"price":       {"699"},
			"stock":       {"7"},
			"storage":     {"256GB"},
			"colors":      {"Matte Black", "Sky Blue"},
			"ramSize":     {"8GB"},
			"releaseDate": {"2023-08-30"},
		}

		// when
		response := doRequest(router, http.MethodPost, "/api/admin/phones", form, adminKey)

		// then
		assert.Equal(t, http.StatusCreated, response.Code)
		created := Phone{}
		require.NoError(t, json.Unmarshal(response.Body.Bytes(), &created))
		assert.Len(t, created.UID, 24)
		assert.Equal(t, []string{"Matte Black", "Sky Blue"}, created.Colors)

		stored, found, err := phoneStore.Get(ctx, created.UID)
		assert.NoError(t, err)
		assert.True(t, found)
		assert.Equal(t, 7, stored.Stock)
		assert.Equal(t, mytime.ExampleTime, stored.CreatedAt)
	})

	t.Run("Create phone with missing fields", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		defer ctrl.Finish()

		// given
		_, router, _, _, _ := setup(t, ctrl)

		// when
		response := doRequest(router, http.MethodPost, "/api/admin/phones", url.Values{"brand": {"Fairphone"}}, adminKey)

		// then
		assert.Equal(t, http.StatusBadRequest, response.Code)
		assert.Contains(t, response.Body.String(), "model, description, price, stock")
	})

	t.Run("Create phone without admin key", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		defer ctrl.Finish()

		// given
		_, router, _, _, _ := setup(t, ctrl)

		// when
		response := doRequest(router, http.MethodPost, "/api/admin/phones", url.Values{"brand": {"Fairphone"}}, "")

		// then
		assert.Equal(t, http.StatusForbidden, response.Code)
	})

	t.Run("Update phone keeps unspecified fields", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		defer ctrl.Finish()

		// given
		ctx, router, phoneStore, _, nower := setup(t, ctrl)
		require.NoError(t, phoneStore.Put(ctx, pixel.UID, pixel))
		nower.EXPECT().Now().Return(mytime.ExampleTime)

		// when
		response := doRequest(router, http.MethodPut, "/api/admin/phones/"+pixelUID, url.Values{"price": {"449"}, "stock": {"0"}}, adminKey)

		// then
		assert.Equal(t, http.StatusOK, response.Code)
		stored, _, err := phoneStore.Get(ctx, pixelUID)
		assert.NoError(t, err)
		assert.Equal(t, 449.0, stored.Price)
		assert.Equal(t, 0, stored.Stock)
		assert.Equal(t, "Pixel 8a", stored.Model)
		assert.Equal(t, []string{"Obsidian", "Bay"}, stored.Colors)
		assert.Equal(t, mytime.ExampleTime, *stored.LastModified)
	})

	t.Run("Update phone not exists", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		defer ctrl.Finish()

		// given
		_, router, _, _, _ := setup(t, ctrl)

		// when
		response := doRequest(router, http.MethodPut, "/api/admin/phones/"+pixelUID, url.Values{"price": {"449"}}, adminKey)

		// then
		assert.Equal(t, http.StatusNotFound, response.Code)
	})

	t.Run("Delete phone clears cache", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		defer ctrl.Finish()

		// given
		ctx, router, phoneStore, _, nower := setup(t, ctrl)
		nower.EXPECT().Now().Return(mytime.ExampleTime).AnyTimes()
		require.NoError(t, phoneStore.Put(ctx, pixel.UID, pixel))
		assert.Contains(t, doRequest(router, http.MethodGet, "/api/phones", nil, "").Body.String(), pixelUID)

		// when
		response := doRequest(router, http.MethodDelete, "/api/admin/phones/"+pixelUID, nil, adminKey)

		// then
		assert.Equal(t, http.StatusOK, response.Code)
		assert.NotContains(t, doRequest(router, http.MethodGet, "/api/phones", nil, "").Body.String(), pixelUID)
	})

	t.Run("Order submitted reserves stock once", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		defer ctrl.Finish()

		// given
		ctx, router, phoneStore, movementStore, nower := setup(t, ctrl)
		nower.EXPECT().Now().Return(mytime.ExampleTime).AnyTimes()
		require.NoError(t, phoneStore.Put(ctx, pixel.UID, pixel))
		event := orderevents.OrderSubmitted{
			OrderUID: "order-1",
			Lines:    []orderevents.OrderLine{{PhoneUID: pixelUID, Brand: "Google", Quantity: 3}},
		}

		// when
		first := doPushRequest(t, router, event)
		second := doPushRequest(t, router, event)

		// then
		assert.Equal(t, http.StatusOK, first.Code)
		assert.Equal(t, http.StatusOK, second.Code)
		stored, _, err := phoneStore.Get(ctx, pixelUID)
		assert.NoError(t, err)
		assert.Equal(t, 1, stored.Stock)
		_, found, err := movementStore.Get(ctx, "order-1.reserved")
		assert.NoError(t, err)
		assert.True(t, found)
	})

	t.Run("Order submitted never drives stock negative", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		defer ctrl.Finish()

		// given
		ctx, router, phoneStore, _, nower := setup(t, ctrl)
		nower.EXPECT().Now().Return(mytime.ExampleTime).AnyTimes()
		require.NoError(t, phoneStore.Put(ctx, pixel.UID, pixel))

		// when
		response := doPushRequest(t, router, orderevents.OrderSubmitted{
			OrderUID: "order-2",
			Lines:    []orderevents.OrderLine{{PhoneUID: pixelUID, Quantity: 9}},
		})

		// then
		assert.Equal(t, http.StatusOK, response.Code)
		stored, _, err := phoneStore.Get(ctx, pixelUID)
		assert.NoError(t, err)
		assert.Equal(t, 0, stored.Stock)
	})

	t.Run("Cancelled order restocks", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		defer ctrl.Finish()

		// given
		ctx, router, phoneStore, _, nower := setup(t, ctrl)
		nower.EXPECT().Now().Return(mytime.ExampleTime).AnyTimes()
		require.NoError(t, phoneStore.Put(ctx, pixel.UID, pixel))

		// when
		response := doPushRequest(t, router, orderevents.OrderStatusChanged{
			OrderUID:  "order-3",
			OldStatus: orderevents.StatusPending,
			NewStatus: orderevents.StatusCancelled,
			Lines:     []orderevents.OrderLine{{PhoneUID: pixelUID, Quantity: 2}},
		})

		// then
		assert.Equal(t, http.StatusOK, response.Code)
		stored, _, err := phoneStore.Get(ctx, pixelUID)
		assert.NoError(t, err)
		assert.Equal(t, 6, stored.Stock)
	})

	t.Run("Other status changes leave stock alone", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		defer ctrl.Finish()

		// given
		ctx, router, phoneStore, _, _ := setup(t, ctrl)
		require.NoError(t, phoneStore.Put(ctx, pixel.UID, pixel))

		// when
		response := doPushRequest(t, router, orderevents.OrderStatusChanged{
			OrderUID:  "order-4",
			OldStatus: orderevents.StatusPending,
			NewStatus: orderevents.StatusShipped,
			Lines:     []orderevents.OrderLine{{PhoneUID: pixelUID, Quantity: 2}},
		})

		// then
		assert.Equal(t, http.StatusOK, response.Code)
		stored, _, err := phoneStore.Get(ctx, pixelUID)
		assert.NoError(t, err)
		assert.Equal(t, 4, stored.Stock)
	})
}

func TestSeed(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	c := context.TODO()
	phoneStore, _, _ := mystore.NewInMemoryStore[Phone](c)
	movementStore, _, _ := mystore.NewInMemoryStore[StockMovement](c)
	nower := mytime.NewMockNower(ctrl)
	nower.EXPECT().Now().Return(mytime.ExampleTime)

	sut := NewWebService(phoneStore, movementStore, NewProductCache(time.Minute, nower), nil, nower, adminKey)

	seeded, err := sut.Seed(c)
	assert.NoError(t, err)
	assert.Equal(t, len(demoPhones), seeded)

	seeded, err = sut.Seed(c)
	assert.NoError(t, err)
	assert.Equal(t, 0, seeded)

	phones, err := phoneStore.List(c)
	assert.NoError(t, err)
	assert.Len(t, phones, len(demoPhones))
}

func setup(t *testing.T, ctrl *gomock.Controller) (context.Context, *mux.Router, mystore.Store[Phone], mystore.Store[StockMovement], *mytime.MockNower) {
	t.Setenv("BASE_URL", "")
	t.Setenv("PORT", "8080")

	c := context.TODO()
	phoneStore, _, _ := mystore.NewInMemoryStore[Phone](c)
	movementStore, _, _ := mystore.NewInMemoryStore[StockMovement](c)
	nower := mytime.NewMockNower(ctrl)
	subscriber := mypubsub.NewMockPubSub(ctrl)

	sut := NewWebService(phoneStore, movementStore, NewProductCache(5*time.Minute, nower), subscriber, nower, adminKey)
	router := mux.NewRouter()

	// These are called by the following call to RegisterEndpoints()
	subscriber.EXPECT().Subscribe(c, orderevents.TopicName, "http://localhost:8080/api/phones/event").Return(nil)

	err := sut.RegisterEndpoints(c, router)
	assert.NoError(t, err)

	return c, router, phoneStore, movementStore, nower
}

func doRequest(router *mux.Router, method string, path string, form url.Values, key string) *httptest.ResponseRecorder {
	var body *strings.Reader
	if form != nil {
		body = strings.NewReader(form.Encode())
	} else {
		body = strings.NewReader("")
	}
	request, _ := http.NewRequest(method, path, body)
	if form != nil {
		request.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	}
	if key != "" {
		request.Header.Set(myhttp.AdminKeyHeader, key)
	}
	response := httptest.NewRecorder()
	router.ServeHTTP(response, request)
	return response
}

func doPushRequest(t *testing.T, router *mux.Router, event myevents.Event) *httptest.ResponseRecorder {
	req, err := myevents.NewPushRequest(orderevents.TopicName, "catalog", event)
	require.NoError(t, err)
	body, err := json.Marshal(req)
	require.NoError(t, err)

	request, err := http.NewRequest(http.MethodPost, "/api/phones/event", strings.NewReader(string(body)))
	require.NoError(t, err)
	response := httptest.NewRecorder()
	router.ServeHTTP(response, request)
	return response
}

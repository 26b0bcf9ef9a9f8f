package warmup

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gorilla/mux"
	"github.com/stretchr/testify/assert"
	"go.uber.org/mock/gomock"

	"github.com/MarcGrol/phoneloom/lib/myerrors"
)

func TestWarmup(t *testing.T) {
	t.Run("Preloads catalog", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		defer ctrl.Finish()

		// given
		router, preloader := setup(ctrl)
		preloader.EXPECT().Preload(gomock.Any()).Return(5, nil)

		// when
		response := httptest.NewRecorder()
		router.ServeHTTP(response, httptest.NewRequest(http.MethodGet, "/_ah/warmup", nil))

		// then
		assert.Equal(t, http.StatusOK, response.Code)
		assert.Contains(t, response.Body.String(), "5 phones cached")
	})

	t.Run("Preload fails", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		defer ctrl.Finish()

		// given
		router, preloader := setup(ctrl)
		preloader.EXPECT().Preload(gomock.Any()).Return(0, myerrors.NewInternalError(fmt.Errorf("datastore down")))

		// when
		response := httptest.NewRecorder()
		router.ServeHTTP(response, httptest.NewRequest(http.MethodGet, "/_ah/warmup", nil))

		// then
		assert.Equal(t, http.StatusInternalServerError, response.Code)
	})
}

func setup(ctrl *gomock.Controller) (*mux.Router, *MockPreloader) {
	preloader := NewMockPreloader(ctrl)
	router := mux.NewRouter()
	NewService(preloader).RegisterEndpoints(context.TODO(), router)
	return router, preloader
}

package warmup

import (
	"context"
	"fmt"
	"net/http"

	"github.com/gorilla/mux"

	"github.com/MarcGrol/phoneloom/lib/mycontext"
	"github.com/MarcGrol/phoneloom/lib/myhttp"
	"github.com/MarcGrol/phoneloom/lib/mylog"
)

//go:generate mockgen -source=web.go -package warmup -destination preloader_mock.go Preloader
type Preloader interface {
	Preload(c context.Context) (int, error)
}

type webService struct {
	logger    mylog.Logger
	preloader Preloader
}

// Use dependency injection to isolate the infrastructure and ease testing
func NewService(preloader Preloader) *webService {
	logger := mylog.New("warmup")
	return &webService{
		logger:    logger,
		preloader: preloader,
	}
}

func (s webService) RegisterEndpoints(c context.Context, router *mux.Router) {
	router.HandleFunc("/_ah/warmup", s.warmupPage()).Methods("GET")
}

func (s *webService) warmupPage() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		c := mycontext.ContextFromHTTPRequest(r)
		errorWriter := myhttp.NewWriter(s.logger)

		count, err := s.preloader.Preload(c)
		if err != nil {
			errorWriter.WriteError(c, w, 1, err)
			return
		}

		errorWriter.Write(c, w, http.StatusOK, myhttp.SuccessResponse{
			Message: fmt.Sprintf("Successfully processed warmup request: %d phones cached", count),
		})
	}
}

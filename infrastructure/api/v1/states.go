package v1

import (
	"log/slog"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/campuslist/campuslist"
	"github.com/campuslist/campuslist/infrastructure/api/middleware"
	"github.com/campuslist/campuslist/infrastructure/api/v1/dto"
)

// StatesRouter serves administrative area aggregates.
type StatesRouter struct {
	client *campuslist.Client
	logger *slog.Logger
}

// NewStatesRouter creates a new StatesRouter.
func NewStatesRouter(client *campuslist.Client) *StatesRouter {
	return &StatesRouter{
		client: client,
		logger: client.Logger(),
	}
}

// Routes returns the chi router for state endpoints.
func (s *StatesRouter) Routes() chi.Router {
	router := chi.NewRouter()
	router.Get("/", s.List)
	return router
}

// List handles GET /api/v1/states: distinct administrative areas with
// institution counts, optionally restricted by region_code.
func (s *StatesRouter) List(w http.ResponseWriter, req *http.Request) {
	regionCode := strings.ToUpper(req.URL.Query().Get("region_code"))

	counts, err := s.client.Universities.StateCounts(req.Context(), regionCode)
	if err != nil {
		middleware.WriteError(w, req, err, s.logger)
		return
	}

	middleware.WriteJSON(w, http.StatusOK, dto.StateListResponse{Data: dto.FromStateCounts(counts)})
}

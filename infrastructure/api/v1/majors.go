package v1

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/campuslist/campuslist"
	"github.com/campuslist/campuslist/domain/major"
	"github.com/campuslist/campuslist/domain/store"
	"github.com/campuslist/campuslist/infrastructure/api/middleware"
	"github.com/campuslist/campuslist/infrastructure/api/v1/dto"
)

// MajorsRouter handles major API endpoints.
type MajorsRouter struct {
	client *campuslist.Client
	logger *slog.Logger
}

// NewMajorsRouter creates a new MajorsRouter.
func NewMajorsRouter(client *campuslist.Client) *MajorsRouter {
	return &MajorsRouter{
		client: client,
		logger: client.Logger(),
	}
}

// Routes returns the chi router for major endpoints.
func (m *MajorsRouter) Routes() chi.Router {
	router := chi.NewRouter()

	router.Get("/", m.List)
	router.Get("/{slug}", m.Get)

	return router
}

// List handles GET /api/v1/majors. Each major carries the number of
// institutions offering it.
func (m *MajorsRouter) List(w http.ResponseWriter, req *http.Request) {
	ctx := req.Context()

	majors, err := m.client.Majors.Find(ctx, store.WithOrderAsc("name"))
	if err != nil {
		middleware.WriteError(w, req, err, m.logger)
		return
	}

	ids := make([]int64, 0, len(majors))
	for _, record := range majors {
		ids = append(ids, record.ID())
	}
	counts, err := m.client.Majors.CountUniversities(ctx, ids)
	if err != nil {
		middleware.WriteError(w, req, err, m.logger)
		return
	}

	data := make([]dto.MajorData, 0, len(majors))
	for _, record := range majors {
		data = append(data, dto.FromMajor(record, counts[record.ID()]))
	}

	middleware.WriteJSON(w, http.StatusOK, dto.MajorListResponse{Data: data})
}

// Get handles GET /api/v1/majors/{slug}, returning the major and the
// institutions offering it.
func (m *MajorsRouter) Get(w http.ResponseWriter, req *http.Request) {
	ctx := req.Context()
	slug := chi.URLParam(req, "slug")

	record, err := m.client.Majors.FindOne(ctx, major.WithSlug(slug))
	if err != nil {
		middleware.WriteError(w, req, err, m.logger)
		return
	}

	ids, err := m.client.Majors.UniversityIDs(ctx, slug, false)
	if err != nil {
		middleware.WriteError(w, req, err, m.logger)
		return
	}

	response := dto.MajorDetailsResponse{
		Data:         dto.FromMajor(record, int64(len(ids))),
		Universities: []dto.UniversityData{},
	}
	if len(ids) > 0 {
		universities, findErr := m.client.Universities.Find(ctx, store.WithIDIn(ids), store.WithOrderAsc("name"))
		if findErr != nil {
			middleware.WriteError(w, req, findErr, m.logger)
			return
		}
		response.Universities = dto.FromUniversities(universities)
	}

	middleware.WriteJSON(w, http.StatusOK, response)
}

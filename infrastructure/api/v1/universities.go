package v1

import (
	"log/slog"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/campuslist/campuslist"
	"github.com/campuslist/campuslist/domain/media"
	"github.com/campuslist/campuslist/domain/store"
	"github.com/campuslist/campuslist/domain/university"
	"github.com/campuslist/campuslist/infrastructure/api/middleware"
	"github.com/campuslist/campuslist/infrastructure/api/v1/dto"
)

// sortColumns whitelists sortable columns. Ranking data is a JSON blob,
// so both ranking and rating sort on the scalar place rating.
var sortColumns = map[string]string{
	"name":                  "name",
	"founded":               "founded",
	"acceptance_rate":       "acceptance_rate",
	"enrollment_total":      "enrollment_total",
	"tuition_undergraduate": "tuition_undergraduate",
	"ranking":               "rating",
	"rating":                "rating",
	"created_at":            "created_at",
}

// UniversitiesRouter handles institution API endpoints.
type UniversitiesRouter struct {
	client *campuslist.Client
	logger *slog.Logger
}

// NewUniversitiesRouter creates a new UniversitiesRouter.
func NewUniversitiesRouter(client *campuslist.Client) *UniversitiesRouter {
	return &UniversitiesRouter{
		client: client,
		logger: client.Logger(),
	}
}

// Routes returns the chi router for institution endpoints.
func (u *UniversitiesRouter) Routes() chi.Router {
	router := chi.NewRouter()

	router.Get("/", u.List)
	router.Get("/{idOrSlug}", u.Get)
	router.Get("/{idOrSlug}/media", u.ListMedia)

	return router
}

// List handles GET /api/v1/universities.
func (u *UniversitiesRouter) List(w http.ResponseWriter, req *http.Request) {
	ctx := req.Context()
	pagination := ParsePagination(req)

	filters, empty, err := u.filters(req)
	if err != nil {
		middleware.WriteError(w, req, err, u.logger)
		return
	}
	if empty {
		middleware.WriteJSON(w, http.StatusOK, dto.UniversityListResponse{
			Data:  []dto.UniversityData{},
			Meta:  PaginationMeta(pagination, 0),
			Links: PaginationLinks(req, pagination, 0),
		})
		return
	}

	total, err := u.client.Universities.Count(ctx, filters...)
	if err != nil {
		middleware.WriteError(w, req, err, u.logger)
		return
	}

	options := append(filters, sortOption(req))
	options = append(options, pagination.Options()...)
	universities, err := u.client.Universities.Find(ctx, options...)
	if err != nil {
		middleware.WriteError(w, req, err, u.logger)
		return
	}

	middleware.WriteJSON(w, http.StatusOK, dto.UniversityListResponse{
		Data:  dto.FromUniversities(universities),
		Meta:  PaginationMeta(pagination, total),
		Links: PaginationLinks(req, pagination, total),
	})
}

// Get handles GET /api/v1/universities/{idOrSlug}. The response carries
// the institution's majors and score alongside the record itself.
func (u *UniversitiesRouter) Get(w http.ResponseWriter, req *http.Request) {
	ctx := req.Context()

	record, err := u.lookup(req)
	if err != nil {
		middleware.WriteError(w, req, err, u.logger)
		return
	}

	tagged, err := u.client.Majors.ForUniversity(ctx, record.ID())
	if err != nil {
		middleware.WriteError(w, req, err, u.logger)
		return
	}
	majors := make([]dto.UniversityMajorData, 0, len(tagged))
	for _, tm := range tagged {
		majors = append(majors, dto.UniversityMajorData{
			Name:    tm.Major.Name(),
			Slug:    tm.Major.Slug(),
			Notable: tm.Notable,
		})
	}

	response := dto.UniversityDetailsResponse{
		Data:   dto.FromUniversity(record),
		Majors: majors,
	}
	if sc, err := u.client.Scores.ForUniversity(ctx, record.ID()); err == nil {
		response.Score = dto.FromScore(sc)
	}

	middleware.WriteJSON(w, http.StatusOK, response)
}

// ListMedia handles GET /api/v1/universities/{idOrSlug}/media.
func (u *UniversitiesRouter) ListMedia(w http.ResponseWriter, req *http.Request) {
	ctx := req.Context()

	record, err := u.lookup(req)
	if err != nil {
		middleware.WriteError(w, req, err, u.logger)
		return
	}

	records, err := u.client.Media.Find(ctx, media.WithUniversityID(record.ID()))
	if err != nil {
		middleware.WriteError(w, req, err, u.logger)
		return
	}

	middleware.WriteJSON(w, http.StatusOK, dto.MediaListResponse{Data: dto.FromMediaList(records)})
}

// lookup resolves {idOrSlug} to a record: numeric values look up by id,
// anything else by slug.
func (u *UniversitiesRouter) lookup(req *http.Request) (university.University, error) {
	idOrSlug := chi.URLParam(req, "idOrSlug")
	if id, err := strconv.ParseInt(idOrSlug, 10, 64); err == nil {
		return u.client.Universities.FindOne(req.Context(), store.WithID(id))
	}
	return u.client.Universities.FindOne(req.Context(), university.WithSlug(idOrSlug))
}

// filters translates list query parameters into store options. empty is
// true when a join filter matched nothing, so the caller can skip the
// query entirely.
func (u *UniversitiesRouter) filters(req *http.Request) (options []store.Option, empty bool, err error) {
	q := req.URL.Query()

	if search := strings.TrimSpace(q.Get("search")); search != "" {
		like := "%" + strings.ToLower(search) + "%"
		options = append(options, store.WithWhere(
			"(LOWER(name) LIKE ? OR LOWER(place_title) LIKE ? OR LOWER(location) LIKE ? OR LOWER(overview) LIKE ?)",
			like, like, like, like,
		))
	}
	if location := strings.TrimSpace(q.Get("location")); location != "" {
		options = append(options, store.WithWhere("LOWER(location) LIKE ?", "%"+strings.ToLower(location)+"%"))
	}
	if v := q.Get("region_code"); v != "" {
		options = append(options, store.WithCondition("region_code", strings.ToUpper(v)))
	}
	if v := q.Get("administrative_area"); v != "" {
		options = append(options, store.WithWhere("LOWER(administrative_area) = ?", strings.ToLower(v)))
	}
	if v := q.Get("locality"); v != "" {
		options = append(options, store.WithWhere("LOWER(locality) = ?", strings.ToLower(v)))
	}
	if v := q.Get("type"); v != "" {
		options = append(options, store.WithWhere("LOWER(type) = ?", strings.ToLower(v)))
	}

	ranges := []struct {
		param  string
		clause string
	}{
		{"acceptance_rate_min", "acceptance_rate >= ?"},
		{"acceptance_rate_max", "acceptance_rate <= ?"},
		{"enrollment_min", "enrollment_total >= ?"},
		{"enrollment_max", "enrollment_total <= ?"},
		{"tuition_min", "tuition_undergraduate >= ?"},
		{"tuition_max", "tuition_undergraduate <= ?"},
		// Score thresholds select institutions an applicant with the
		// given numbers can reach: requirement at or below the score.
		{"gpa_min", "requirement_gpa_min <= ?"},
		{"sat_min", "requirement_sat <= ?"},
		{"act_min", "requirement_act <= ?"},
	}
	for _, rng := range ranges {
		raw := q.Get(rng.param)
		if raw == "" {
			continue
		}
		value, parseErr := strconv.ParseFloat(raw, 64)
		if parseErr != nil {
			return nil, false, middleware.NewBadRequestError("invalid "+rng.param, parseErr)
		}
		options = append(options, store.WithWhere(rng.clause, value))
	}

	if v := q.Get("tuition_currency"); v != "" {
		options = append(options, store.WithCondition("tuition_currency", strings.ToUpper(v)))
	}

	for _, bound := range []struct {
		param  string
		clause string
		shift  int
	}{
		{"founded_min", "founded >= ?", 0},
		{"founded_max", "founded < ?", 1},
	} {
		raw := q.Get(bound.param)
		if raw == "" {
			continue
		}
		year, parseErr := strconv.Atoi(raw)
		if parseErr != nil {
			return nil, false, middleware.NewBadRequestError("invalid "+bound.param, parseErr)
		}
		cutoff := time.Date(year+bound.shift, 1, 1, 0, 0, 0, 0, time.UTC)
		options = append(options, store.WithWhere(bound.clause, cutoff))
	}

	majorSlug, notableOnly := q.Get("major"), false
	if v := q.Get("notable_major"); v != "" {
		majorSlug, notableOnly = v, true
	}
	if majorSlug != "" {
		ids, idsErr := u.client.Majors.UniversityIDs(req.Context(), majorSlug, notableOnly)
		if idsErr != nil {
			return nil, false, idsErr
		}
		if len(ids) == 0 {
			return nil, true, nil
		}
		options = append(options, store.WithIDIn(ids))
	}

	return options, false, nil
}

// sortOption parses the sort parameter against the whitelist. A leading
// "-" sorts descending; unknown columns fall back to name ascending.
func sortOption(req *http.Request) store.Option {
	raw := req.URL.Query().Get("sort")
	desc := strings.HasPrefix(raw, "-")
	column, ok := sortColumns[strings.TrimPrefix(raw, "-")]
	if !ok {
		return store.WithOrderAsc("name")
	}
	if desc {
		return store.WithOrderDesc(column)
	}
	return store.WithOrderAsc(column)
}

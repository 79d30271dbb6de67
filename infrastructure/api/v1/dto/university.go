package dto

import (
	"time"

	"github.com/campuslist/campuslist/domain/score"
	"github.com/campuslist/campuslist/domain/university"
)

// UniversityData is the wire form of one institution.
type UniversityData struct {
	ID              int64  `json:"id"`
	Name            string `json:"name"`
	Slug            string `json:"slug,omitempty"`
	MetaDescription string `json:"meta_description,omitempty"`

	Location           *string        `json:"location,omitempty"`
	Website            *string        `json:"website,omitempty"`
	Phone              *string        `json:"phone,omitempty"`
	MapsLink           *string        `json:"maps_link,omitempty"`
	Latitude           *float64       `json:"latitude,omitempty"`
	Longitude          *float64       `json:"longitude,omitempty"`
	OpenState          *string        `json:"open_state,omitempty"`
	Hours              map[string]any `json:"hours,omitempty"`
	AdministrativeArea *string        `json:"administrative_area,omitempty"`
	Locality           *string        `json:"locality,omitempty"`
	RegionCode         *string        `json:"region_code,omitempty"`
	Rating             *float64       `json:"rating,omitempty"`
	RatingCount        *int           `json:"rating_count,omitempty"`

	Founded        *int           `json:"founded,omitempty"`
	Type           *string        `json:"type,omitempty"`
	Overview       *string        `json:"overview,omitempty"`
	AcceptanceRate *float64       `json:"acceptance_rate,omitempty"`
	Ranking        map[string]any `json:"ranking,omitempty"`

	Enrollment              map[string]any `json:"enrollment,omitempty"`
	EnrollmentTotal         *int           `json:"enrollment_total,omitempty"`
	EnrollmentUndergraduate *int           `json:"enrollment_undergraduate,omitempty"`
	EnrollmentGraduate      *int           `json:"enrollment_graduate,omitempty"`

	Tuition              map[string]any `json:"tuition,omitempty"`
	TuitionUndergraduate *float64       `json:"tuition_undergraduate,omitempty"`
	TuitionGraduate      *float64       `json:"tuition_graduate,omitempty"`
	TuitionInternational *float64       `json:"tuition_international,omitempty"`
	TuitionCurrency      *string        `json:"tuition_currency,omitempty"`

	Requirements map[string]any `json:"requirements,omitempty"`
	Deadlines    map[string]any `json:"deadlines,omitempty"`
	Scholarships []any          `json:"scholarships,omitempty"`
	Housing      map[string]any `json:"housing,omitempty"`
	CampusLife   map[string]any `json:"campus_life,omitempty"`
	Contact      map[string]any `json:"contact,omitempty"`
	FAQ          []any          `json:"faq,omitempty"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// UniversityMajorData is one major attached to an institution.
type UniversityMajorData struct {
	Name    string `json:"name"`
	Slug    string `json:"slug"`
	Notable bool   `json:"notable"`
}

// ScoreData is the wire form of a quality score.
type ScoreData struct {
	OverallGrade string         `json:"overall_grade"`
	Ratings      map[string]any `json:"ratings,omitempty"`
}

// UniversityListResponse is the paginated list envelope.
type UniversityListResponse struct {
	Data  []UniversityData `json:"data"`
	Meta  Meta             `json:"meta"`
	Links Links            `json:"links"`
}

// UniversityDetailsResponse is the single-institution envelope with its
// majors and score.
type UniversityDetailsResponse struct {
	Data   UniversityData        `json:"data"`
	Majors []UniversityMajorData `json:"majors"`
	Score  *ScoreData            `json:"score,omitempty"`
}

// FromUniversity maps a domain university onto the wire form.
func FromUniversity(u university.University) UniversityData {
	attrs := u.Attributes()

	var founded *int
	if attrs.Founded != nil {
		year := attrs.Founded.Year()
		founded = &year
	}

	return UniversityData{
		ID:              u.ID(),
		Name:            u.Name(),
		Slug:            u.Slug(),
		MetaDescription: u.MetaDescription(),

		Location:           attrs.Location,
		Website:            attrs.Website,
		Phone:              attrs.Phone,
		MapsLink:           attrs.MapsLink,
		Latitude:           attrs.Latitude,
		Longitude:          attrs.Longitude,
		OpenState:          attrs.OpenState,
		Hours:              attrs.Hours,
		AdministrativeArea: attrs.AdministrativeArea,
		Locality:           attrs.Locality,
		RegionCode:         attrs.RegionCode,
		Rating:             attrs.Rating,
		RatingCount:        attrs.RatingCount,

		Founded:        founded,
		Type:           attrs.Type,
		Overview:       attrs.Overview,
		AcceptanceRate: attrs.AcceptanceRate,
		Ranking:        attrs.Ranking,

		Enrollment:              attrs.Enrollment,
		EnrollmentTotal:         attrs.EnrollmentTotal,
		EnrollmentUndergraduate: attrs.EnrollmentUndergraduate,
		EnrollmentGraduate:      attrs.EnrollmentGraduate,

		Tuition:              attrs.Tuition,
		TuitionUndergraduate: attrs.TuitionUndergraduate,
		TuitionGraduate:      attrs.TuitionGraduate,
		TuitionInternational: attrs.TuitionInternational,
		TuitionCurrency:      attrs.TuitionCurrency,

		Requirements: attrs.Requirements,
		Deadlines:    attrs.Deadlines,
		Scholarships: attrs.Scholarships,
		Housing:      attrs.Housing,
		CampusLife:   attrs.CampusLife,
		Contact:      attrs.Contact,
		FAQ:          attrs.FAQ,

		CreatedAt: u.CreatedAt(),
		UpdatedAt: u.UpdatedAt(),
	}
}

// FromUniversities maps a slice of domain universities.
func FromUniversities(us []university.University) []UniversityData {
	data := make([]UniversityData, 0, len(us))
	for _, u := range us {
		data = append(data, FromUniversity(u))
	}
	return data
}

// FromScore maps a domain score onto the wire form.
func FromScore(s score.Score) *ScoreData {
	return &ScoreData{
		OverallGrade: s.OverallGrade(),
		Ratings:      s.Ratings(),
	}
}

package persistence

import (
	"encoding/json"

	"github.com/campuslist/campuslist/domain/media"
	"github.com/campuslist/campuslist/domain/score"
	"github.com/campuslist/campuslist/domain/university"
	"gorm.io/datatypes"
)

// UniversityMapper converts between university.University and
// UniversityModel.
type UniversityMapper struct{}

// ToDomain converts a model to a domain entity.
func (UniversityMapper) ToDomain(m UniversityModel) university.University {
	attrs := university.Attributes{
		PlaceTitle:         m.PlaceTitle,
		Location:           m.Location,
		Website:            m.Website,
		Phone:              m.Phone,
		MapsLink:           m.MapsLink,
		Latitude:           m.Latitude,
		Longitude:          m.Longitude,
		OpenState:          m.OpenState,
		Hours:              jsonToMap(m.Hours),
		AdministrativeArea: m.AdministrativeArea,
		Locality:           m.Locality,
		RegionCode:         m.RegionCode,
		Rating:             m.Rating,
		RatingCount:        m.RatingCount,
		PlaceRaw:           jsonToMap(m.PlaceRaw),

		Founded:        m.Founded,
		Type:           m.Type,
		Overview:       m.Overview,
		AcceptanceRate: m.AcceptanceRate,
		Ranking:        jsonToMap(m.Ranking),

		Enrollment:              jsonToMap(m.Enrollment),
		EnrollmentTotal:         m.EnrollmentTotal,
		EnrollmentUndergraduate: m.EnrollmentUndergraduate,
		EnrollmentGraduate:      m.EnrollmentGraduate,

		Tuition:              jsonToMap(m.Tuition),
		TuitionUndergraduate: m.TuitionUndergraduate,
		TuitionGraduate:      m.TuitionGraduate,
		TuitionInternational: m.TuitionInternational,
		TuitionCurrency:      m.TuitionCurrency,

		Requirements:     jsonToMap(m.Requirements),
		RequirementGPA:   m.RequirementGPA,
		RequirementSAT:   m.RequirementSAT,
		RequirementACT:   m.RequirementACT,
		RequirementTOEFL: m.RequirementTOEFL,
		RequirementIELTS: m.RequirementIELTS,

		Deadlines:    jsonToMap(m.Deadlines),
		Scholarships: jsonToSlice(m.Scholarships),
		Housing:      jsonToMap(m.Housing),
		CampusLife:   jsonToMap(m.CampusLife),
		Contact:      jsonToMap(m.Contact),
		FAQ:          jsonToSlice(m.FAQ),
	}

	return university.Reconstruct(
		m.ID,
		m.Query,
		strValue(m.Name),
		strValue(m.Slug),
		strValue(m.MetaDescription),
		attrs,
		m.CreatedAt,
		m.UpdatedAt,
	)
}

// ToModel converts a domain entity to a model.
func (UniversityMapper) ToModel(u university.University) UniversityModel {
	a := u.Attributes()
	return UniversityModel{
		ID:              u.ID(),
		Query:           u.Query(),
		Name:            strPtr(u.Name()),
		Slug:            strPtr(u.Slug()),
		MetaDescription: strPtr(u.MetaDescription()),

		PlaceTitle:         a.PlaceTitle,
		Location:           a.Location,
		Website:            a.Website,
		Phone:              a.Phone,
		MapsLink:           a.MapsLink,
		Latitude:           a.Latitude,
		Longitude:          a.Longitude,
		OpenState:          a.OpenState,
		Hours:              mapToJSON(a.Hours),
		AdministrativeArea: a.AdministrativeArea,
		Locality:           a.Locality,
		RegionCode:         a.RegionCode,
		Rating:             a.Rating,
		RatingCount:        a.RatingCount,
		PlaceRaw:           mapToJSON(a.PlaceRaw),

		Founded:        a.Founded,
		Type:           a.Type,
		Overview:       a.Overview,
		AcceptanceRate: a.AcceptanceRate,
		Ranking:        mapToJSON(a.Ranking),

		Enrollment:              mapToJSON(a.Enrollment),
		EnrollmentTotal:         a.EnrollmentTotal,
		EnrollmentUndergraduate: a.EnrollmentUndergraduate,
		EnrollmentGraduate:      a.EnrollmentGraduate,

		Tuition:              mapToJSON(a.Tuition),
		TuitionUndergraduate: a.TuitionUndergraduate,
		TuitionGraduate:      a.TuitionGraduate,
		TuitionInternational: a.TuitionInternational,
		TuitionCurrency:      a.TuitionCurrency,

		Requirements:     mapToJSON(a.Requirements),
		RequirementGPA:   a.RequirementGPA,
		RequirementSAT:   a.RequirementSAT,
		RequirementACT:   a.RequirementACT,
		RequirementTOEFL: a.RequirementTOEFL,
		RequirementIELTS: a.RequirementIELTS,

		Deadlines:    mapToJSON(a.Deadlines),
		Scholarships: sliceToJSON(a.Scholarships),
		Housing:      mapToJSON(a.Housing),
		CampusLife:   mapToJSON(a.CampusLife),
		Contact:      mapToJSON(a.Contact),
		FAQ:          sliceToJSON(a.FAQ),

		CreatedAt: u.CreatedAt(),
		UpdatedAt: u.UpdatedAt(),
	}
}

// MajorMapper converts between major.Major and MajorModel.
type MajorMapper struct{}

// MediaMapper converts between media.Media and MediaModel.
type MediaMapper struct{}

// ToDomain converts a model to a domain entity.
func (MediaMapper) ToDomain(m MediaModel) media.Media {
	return media.Reconstruct(
		m.ID,
		m.UniversityID,
		m.Directory,
		m.FileName,
		m.MimeType,
		m.Size,
		m.OriginalName,
		jsonToMap(m.Meta),
		m.CreatedAt,
	)
}

// ToModel converts a domain entity to a model.
func (MediaMapper) ToModel(d media.Media) MediaModel {
	return MediaModel{
		ID:           d.ID(),
		UniversityID: d.UniversityID(),
		PhotoName:    d.PhotoName(),
		Directory:    d.Directory(),
		FileName:     d.FileName(),
		MimeType:     d.MimeType(),
		Size:         d.Size(),
		OriginalName: d.OriginalName(),
		Meta:         mapToJSON(d.Meta()),
		CreatedAt:    d.CreatedAt(),
	}
}

// ScoreMapper converts between score.Score and ScoreModel.
type ScoreMapper struct{}

// ToDomain converts a model to a domain entity.
func (ScoreMapper) ToDomain(m ScoreModel) score.Score {
	return score.Reconstruct(
		m.ID,
		m.UniversityID,
		m.OverallGrade,
		jsonToMap(m.Ratings),
		jsonToMap(m.ResponseRaw),
		m.CreatedAt,
		m.UpdatedAt,
	)
}

// ToModel converts a domain entity to a model.
func (ScoreMapper) ToModel(s score.Score) ScoreModel {
	return ScoreModel{
		ID:           s.ID(),
		UniversityID: s.UniversityID(),
		OverallGrade: s.OverallGrade(),
		Ratings:      mapToJSON(s.Ratings()),
		ResponseRaw:  mapToJSON(s.ResponseRaw()),
		CreatedAt:    s.CreatedAt(),
		UpdatedAt:    s.UpdatedAt(),
	}
}

func strPtr(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}

func strValue(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}

func mapToJSON(m map[string]any) datatypes.JSON {
	if len(m) == 0 {
		return nil
	}
	b, err := json.Marshal(m)
	if err != nil {
		return nil
	}
	return datatypes.JSON(b)
}

func sliceToJSON(s []any) datatypes.JSON {
	if len(s) == 0 {
		return nil
	}
	b, err := json.Marshal(s)
	if err != nil {
		return nil
	}
	return datatypes.JSON(b)
}

func jsonToMap(j datatypes.JSON) map[string]any {
	if len(j) == 0 {
		return nil
	}
	var m map[string]any
	if err := json.Unmarshal(j, &m); err != nil {
		return nil
	}
	return m
}

func jsonToSlice(j datatypes.JSON) []any {
	if len(j) == 0 {
		return nil
	}
	var s []any
	if err := json.Unmarshal(j, &s); err != nil {
		return nil
	}
	return s
}

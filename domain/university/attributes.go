package university

import "time"

// Attributes bundles the nullable institution attributes sourced from
// place lookups and AI fact passes. Pointer fields distinguish "absent"
// from zero values; composite facts keep both an opaque blob (persisted
// as JSON) and flattened scalars used for filtering.
type Attributes struct {
	// Place-sourced.
	PlaceTitle         *string
	Location           *string
	Website            *string
	Phone              *string
	MapsLink           *string
	Latitude           *float64
	Longitude          *float64
	OpenState          *string
	Hours              map[string]any
	AdministrativeArea *string
	Locality           *string
	RegionCode         *string
	Rating             *float64
	RatingCount        *int
	PlaceRaw           map[string]any

	// AI-sourced.
	Founded        *time.Time
	Type           *string
	Overview       *string
	AcceptanceRate *float64
	Ranking        map[string]any

	Enrollment              map[string]any
	EnrollmentTotal         *int
	EnrollmentUndergraduate *int
	EnrollmentGraduate      *int

	Tuition              map[string]any
	TuitionUndergraduate *float64
	TuitionGraduate      *float64
	TuitionInternational *float64
	TuitionCurrency      *string

	Requirements   map[string]any
	RequirementGPA *float64
	RequirementSAT *int
	RequirementACT *int
	RequirementTOEFL *int
	RequirementIELTS *float64

	Deadlines    map[string]any
	Scholarships []any
	Housing      map[string]any
	CampusLife   map[string]any
	Contact      map[string]any
	FAQ          []any
}

// Merge combines incoming over a. With overwrite true, every non-empty
// incoming value replaces the current one; with overwrite false, only
// currently-empty fields are filled. Empty incoming values never erase
// existing data in either mode.
func (a Attributes) Merge(in Attributes, overwrite bool) Attributes {
	mergeStr(&a.PlaceTitle, in.PlaceTitle, overwrite)
	mergeStr(&a.Location, in.Location, overwrite)
	mergeStr(&a.Website, in.Website, overwrite)
	mergeStr(&a.Phone, in.Phone, overwrite)
	mergeStr(&a.MapsLink, in.MapsLink, overwrite)
	mergeFloat(&a.Latitude, in.Latitude, overwrite)
	mergeFloat(&a.Longitude, in.Longitude, overwrite)
	mergeStr(&a.OpenState, in.OpenState, overwrite)
	mergeMap(&a.Hours, in.Hours, overwrite)
	mergeStr(&a.AdministrativeArea, in.AdministrativeArea, overwrite)
	mergeStr(&a.Locality, in.Locality, overwrite)
	mergeStr(&a.RegionCode, in.RegionCode, overwrite)
	mergeFloat(&a.Rating, in.Rating, overwrite)
	mergeInt(&a.RatingCount, in.RatingCount, overwrite)
	mergeMap(&a.PlaceRaw, in.PlaceRaw, overwrite)

	mergeTime(&a.Founded, in.Founded, overwrite)
	mergeStr(&a.Type, in.Type, overwrite)
	mergeStr(&a.Overview, in.Overview, overwrite)
	mergeFloat(&a.AcceptanceRate, in.AcceptanceRate, overwrite)
	mergeMap(&a.Ranking, in.Ranking, overwrite)

	mergeMap(&a.Enrollment, in.Enrollment, overwrite)
	mergeInt(&a.EnrollmentTotal, in.EnrollmentTotal, overwrite)
	mergeInt(&a.EnrollmentUndergraduate, in.EnrollmentUndergraduate, overwrite)
	mergeInt(&a.EnrollmentGraduate, in.EnrollmentGraduate, overwrite)

	mergeMap(&a.Tuition, in.Tuition, overwrite)
	mergeFloat(&a.TuitionUndergraduate, in.TuitionUndergraduate, overwrite)
	mergeFloat(&a.TuitionGraduate, in.TuitionGraduate, overwrite)
	mergeFloat(&a.TuitionInternational, in.TuitionInternational, overwrite)
	mergeStr(&a.TuitionCurrency, in.TuitionCurrency, overwrite)

	mergeMap(&a.Requirements, in.Requirements, overwrite)
	mergeFloat(&a.RequirementGPA, in.RequirementGPA, overwrite)
	mergeInt(&a.RequirementSAT, in.RequirementSAT, overwrite)
	mergeInt(&a.RequirementACT, in.RequirementACT, overwrite)
	mergeInt(&a.RequirementTOEFL, in.RequirementTOEFL, overwrite)
	mergeFloat(&a.RequirementIELTS, in.RequirementIELTS, overwrite)

	mergeMap(&a.Deadlines, in.Deadlines, overwrite)
	mergeSlice(&a.Scholarships, in.Scholarships, overwrite)
	mergeMap(&a.Housing, in.Housing, overwrite)
	mergeMap(&a.CampusLife, in.CampusLife, overwrite)
	mergeMap(&a.Contact, in.Contact, overwrite)
	mergeSlice(&a.FAQ, in.FAQ, overwrite)

	return a
}

// HasPlace reports whether a raw place payload is attached.
func (a Attributes) HasPlace() bool {
	return len(a.PlaceRaw) > 0
}

// MissingCoreFacts reports whether any of the AI-sourced core fields is
// still empty. Used to pick fact-fill candidates.
func (a Attributes) MissingCoreFacts() bool {
	return a.Founded == nil ||
		a.Overview == nil ||
		a.AcceptanceRate == nil ||
		a.EnrollmentTotal == nil ||
		a.TuitionUndergraduate == nil
}

func mergeStr(dst **string, in *string, overwrite bool) {
	if in == nil || *in == "" {
		return
	}
	if *dst == nil || **dst == "" || overwrite {
		v := *in
		*dst = &v
	}
}

func mergeInt(dst **int, in *int, overwrite bool) {
	if in == nil {
		return
	}
	if *dst == nil || overwrite {
		v := *in
		*dst = &v
	}
}

func mergeFloat(dst **float64, in *float64, overwrite bool) {
	if in == nil {
		return
	}
	if *dst == nil || overwrite {
		v := *in
		*dst = &v
	}
}

func mergeTime(dst **time.Time, in *time.Time, overwrite bool) {
	if in == nil {
		return
	}
	if *dst == nil || overwrite {
		v := *in
		*dst = &v
	}
}

func mergeMap(dst *map[string]any, in map[string]any, overwrite bool) {
	if len(in) == 0 {
		return
	}
	if len(*dst) == 0 || overwrite {
		*dst = in
	}
}

func mergeSlice(dst *[]any, in []any, overwrite bool) {
	if len(in) == 0 {
		return
	}
	if len(*dst) == 0 || overwrite {
		*dst = in
	}
}

// Ptr returns a pointer to v. Convenience for building Attributes.
func Ptr[T any](v T) *T {
	return &v
}

// Package persistence implements the domain store contracts with GORM.
package persistence

import (
	"time"

	"gorm.io/datatypes"
)

// UniversityModel is the GORM model for institutions. Composite facts
// are persisted twice: as JSON blobs and as flattened scalar columns the
// REST filters run against.
type UniversityModel struct {
	ID              int64   `gorm:"primaryKey;autoIncrement"`
	Query           string  `gorm:"column:query;index;size:512"`
	Name            *string `gorm:"column:name;uniqueIndex;size:512"`
	Slug            *string `gorm:"column:slug;uniqueIndex;size:512"`
	MetaDescription *string `gorm:"column:meta_description;size:512"`

	PlaceTitle         *string        `gorm:"column:place_title;index;size:512"`
	Location           *string        `gorm:"column:location;size:1024"`
	Website            *string        `gorm:"column:website;size:1024"`
	Phone              *string        `gorm:"column:phone;size:64"`
	MapsLink           *string        `gorm:"column:maps_link;size:1024"`
	Latitude           *float64       `gorm:"column:latitude"`
	Longitude          *float64       `gorm:"column:longitude"`
	OpenState          *string        `gorm:"column:open_state;size:64"`
	Hours              datatypes.JSON `gorm:"column:hours"`
	AdministrativeArea *string        `gorm:"column:administrative_area;index;size:255"`
	Locality           *string        `gorm:"column:locality;index;size:255"`
	RegionCode         *string        `gorm:"column:region_code;index;size:8"`
	Rating             *float64       `gorm:"column:rating"`
	RatingCount        *int           `gorm:"column:rating_count"`
	PlaceRaw           datatypes.JSON `gorm:"column:place_raw"`

	Founded        *time.Time     `gorm:"column:founded"`
	Type           *string        `gorm:"column:type;index;size:255"`
	Overview       *string        `gorm:"column:overview;type:text"`
	AcceptanceRate *float64       `gorm:"column:acceptance_rate;index"`
	Ranking        datatypes.JSON `gorm:"column:ranking"`

	Enrollment              datatypes.JSON `gorm:"column:enrollment"`
	EnrollmentTotal         *int           `gorm:"column:enrollment_total;index"`
	EnrollmentUndergraduate *int           `gorm:"column:enrollment_undergraduate"`
	EnrollmentGraduate      *int           `gorm:"column:enrollment_graduate"`

	Tuition              datatypes.JSON `gorm:"column:tuition"`
	TuitionUndergraduate *float64       `gorm:"column:tuition_undergraduate;index"`
	TuitionGraduate      *float64       `gorm:"column:tuition_graduate"`
	TuitionInternational *float64       `gorm:"column:tuition_international"`
	TuitionCurrency      *string        `gorm:"column:tuition_currency;size:3"`

	Requirements     datatypes.JSON `gorm:"column:requirements"`
	RequirementGPA   *float64       `gorm:"column:requirement_gpa_min"`
	RequirementSAT   *int           `gorm:"column:requirement_sat"`
	RequirementACT   *int           `gorm:"column:requirement_act"`
	RequirementTOEFL *int           `gorm:"column:requirement_toefl"`
	RequirementIELTS *float64       `gorm:"column:requirement_ielts"`

	Deadlines    datatypes.JSON `gorm:"column:deadlines"`
	Scholarships datatypes.JSON `gorm:"column:scholarships"`
	Housing      datatypes.JSON `gorm:"column:housing"`
	CampusLife   datatypes.JSON `gorm:"column:campus_life"`
	Contact      datatypes.JSON `gorm:"column:contact"`
	FAQ          datatypes.JSON `gorm:"column:faq"`

	CreatedAt time.Time
	UpdatedAt time.Time
}

// TableName returns the table name for universities.
func (UniversityModel) TableName() string { return "universities" }

// MajorModel is the GORM model for majors.
type MajorModel struct {
	ID        int64  `gorm:"primaryKey;autoIncrement"`
	Name      string `gorm:"column:name;uniqueIndex;size:255"`
	Slug      string `gorm:"column:slug;uniqueIndex;size:255"`
	CreatedAt time.Time
}

// TableName returns the table name for majors.
func (MajorModel) TableName() string { return "majors" }

// UniversityMajorModel is the join row between universities and majors.
type UniversityMajorModel struct {
	UniversityID int64 `gorm:"column:university_id;primaryKey;autoIncrement:false"`
	MajorID      int64 `gorm:"column:major_id;primaryKey;autoIncrement:false"`
	IsNotable    bool  `gorm:"column:is_notable"`
}

// TableName returns the join table name.
func (UniversityMajorModel) TableName() string { return "university_majors" }

// MediaModel is the GORM model for stored photos. PhotoName duplicates
// the provider photo resource name out of the meta blob so the
// de-duplication lookup stays a plain indexed column query.
type MediaModel struct {
	ID           int64          `gorm:"primaryKey;autoIncrement"`
	UniversityID int64          `gorm:"column:university_id;index:idx_media_photo"`
	PhotoName    string         `gorm:"column:photo_name;index:idx_media_photo;size:1024"`
	Directory    string         `gorm:"column:directory;size:1024"`
	FileName     string         `gorm:"column:file_name;size:512"`
	MimeType     string         `gorm:"column:mime_type;size:128"`
	Size         int64          `gorm:"column:size"`
	OriginalName string         `gorm:"column:original_name;size:512"`
	Meta         datatypes.JSON `gorm:"column:meta"`
	CreatedAt    time.Time
}

// TableName returns the table name for media.
func (MediaModel) TableName() string { return "media" }

// ScoreModel is the GORM model for university scores.
type ScoreModel struct {
	ID           int64          `gorm:"primaryKey;autoIncrement"`
	UniversityID int64          `gorm:"column:university_id;uniqueIndex"`
	OverallGrade string         `gorm:"column:overall_grade;size:8"`
	Ratings      datatypes.JSON `gorm:"column:ratings"`
	ResponseRaw  datatypes.JSON `gorm:"column:response_raw"`
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// TableName returns the table name for scores.
func (ScoreModel) TableName() string { return "university_scores" }

// ChainLockModel is the cluster lease row for the scheduled chain.
type ChainLockModel struct {
	Name       string    `gorm:"column:name;primaryKey;size:255"`
	Holder     string    `gorm:"column:holder;size:255"`
	AcquiredAt time.Time `gorm:"column:acquired_at"`
	ExpiresAt  time.Time `gorm:"column:expires_at"`
}

// TableName returns the table name for chain leases.
func (ChainLockModel) TableName() string { return "chain_locks" }

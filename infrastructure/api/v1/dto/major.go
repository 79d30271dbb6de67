package dto

import (
	"github.com/campuslist/campuslist/domain/major"
)

// MajorData is the wire form of one major.
type MajorData struct {
	ID           int64  `json:"id"`
	Name         string `json:"name"`
	Slug         string `json:"slug"`
	Universities int64  `json:"universities"`
}

// MajorListResponse is the majors list envelope.
type MajorListResponse struct {
	Data []MajorData `json:"data"`
}

// MajorDetailsResponse is one major with the institutions offering it.
type MajorDetailsResponse struct {
	Data         MajorData        `json:"data"`
	Universities []UniversityData `json:"universities"`
}

// FromMajor maps a domain major onto the wire form.
func FromMajor(m major.Major, universities int64) MajorData {
	return MajorData{
		ID:           m.ID(),
		Name:         m.Name(),
		Slug:         m.Slug(),
		Universities: universities,
	}
}

package dto

import (
	"fmt"
	"time"

	"github.com/campuslist/campuslist/domain/media"
	"github.com/campuslist/campuslist/domain/university"
)

// MediaData is the wire form of one stored photo.
type MediaData struct {
	ID           int64     `json:"id"`
	UniversityID int64     `json:"university_id"`
	URL          string    `json:"url"`
	MimeType     string    `json:"mime_type"`
	Size         int64     `json:"size"`
	Width        any       `json:"width,omitempty"`
	Height       any       `json:"height,omitempty"`
	Attribution  any       `json:"attribution,omitempty"`
	CreatedAt    time.Time `json:"created_at"`
}

// MediaListResponse is the media list envelope.
type MediaListResponse struct {
	Data []MediaData `json:"data"`
}

// StateData is one administrative area aggregate.
type StateData struct {
	AdministrativeArea string `json:"administrative_area"`
	RegionCode         string `json:"region_code,omitempty"`
	Universities       int64  `json:"universities"`
}

// StateListResponse is the states list envelope.
type StateListResponse struct {
	Data []StateData `json:"data"`
}

// FromMedia maps a domain media record onto the wire form. The URL
// points at the image endpoint so clients get resize support for free.
func FromMedia(m media.Media) MediaData {
	meta := m.Meta()
	return MediaData{
		ID:           m.ID(),
		UniversityID: m.UniversityID(),
		URL:          fmt.Sprintf("/img/%d", m.ID()),
		MimeType:     m.MimeType(),
		Size:         m.Size(),
		Width:        meta[media.MetaWidthPx],
		Height:       meta[media.MetaHeightPx],
		Attribution:  meta[media.MetaAttribution],
		CreatedAt:    m.CreatedAt(),
	}
}

// FromMediaList maps a slice of media records.
func FromMediaList(ms []media.Media) []MediaData {
	data := make([]MediaData, 0, len(ms))
	for _, m := range ms {
		data = append(data, FromMedia(m))
	}
	return data
}

// FromStateCounts maps administrative area aggregates.
func FromStateCounts(counts []university.StateCount) []StateData {
	data := make([]StateData, 0, len(counts))
	for _, c := range counts {
		data = append(data, StateData{
			AdministrativeArea: c.AdministrativeArea,
			RegionCode:         c.RegionCode,
			Universities:       c.Count,
		})
	}
	return data
}

package university

import (
	"strings"

	"github.com/campuslist/campuslist/domain/place"
)

// AttributesFromPlace maps a place payload into Attributes. Missing
// payload fields stay nil so a later merge never erases known values.
func AttributesFromPlace(d place.Details) Attributes {
	a := Attributes{PlaceRaw: d.Raw()}

	if v, ok := d.Title(); ok {
		a.PlaceTitle = &v
	}
	if v, ok := d.PrimaryType(); ok {
		t := strings.ToLower(v)
		a.Type = &t
	}
	if v, ok := d.Address(); ok {
		a.Location = &v
	}
	if v, ok := d.Website(); ok {
		a.Website = &v
	}
	if v, ok := d.Phone(); ok {
		a.Phone = &v
	}
	if v, ok := d.MapsLink(); ok {
		a.MapsLink = &v
	}
	if v, ok := d.OpenState(); ok {
		a.OpenState = &v
	}
	if v, ok := d.AdministrativeArea(); ok {
		a.AdministrativeArea = &v
	}
	if v, ok := d.Locality(); ok {
		a.Locality = &v
	}
	if v, ok := d.RegionCode(); ok {
		a.RegionCode = &v
	}
	if v, ok := d.Rating(); ok {
		a.Rating = &v
	}
	if v, ok := d.RatingCount(); ok {
		a.RatingCount = &v
	}
	if lat, lon, ok := d.Coordinates(); ok {
		a.Latitude = &lat
		a.Longitude = &lon
	}
	if hours, ok := d.Hours(); ok {
		a.Hours = hours
	}

	return a
}

// Package place models the normalized result of a place-provider lookup.
//
// Provider payloads are loosely typed: every field is optional and the
// shape is owned by the provider, not by us. Details therefore wraps the
// raw payload map and exposes fallible typed accessors instead of a
// struct with assumed-present fields. The raw map is preserved intact so
// it can be persisted and later re-read without loss.
package place

// Payload keys produced by the place resolver's transform.
const (
	keyTitle              = "title"
	keyAddress            = "address"
	keyShortAddress       = "short_address"
	keyWebsite            = "website"
	keyPhone              = "phone"
	keyMapsLink           = "maps_link"
	keyGPS                = "gps_coordinates"
	keyLatitude           = "latitude"
	keyLongitude          = "longitude"
	keyBusinessStatus     = "business_status"
	keyOpenState          = "open_state"
	keyHours              = "hours"
	keyType               = "type"
	keyRating             = "rating"
	keyRatingCount        = "rating_count"
	keyPhotos             = "photos"
	keyAdministrativeArea = "administrative_area"
	keyLocality           = "locality"
	keyRegionCode         = "region_code"
)

// Photo describes one provider photo resource. Name is the provider's
// photo resource id, used both to resolve a download URL and to
// de-duplicate stored media.
type Photo struct {
	Name        string
	WidthPx     int
	HeightPx    int
	Attribution string
}

// Details is a normalized place payload.
type Details struct {
	raw map[string]any
}

// FromRaw wraps a raw payload map. A nil map yields a zero Details.
func FromRaw(raw map[string]any) Details {
	return Details{raw: raw}
}

// IsZero reports whether no payload is present.
func (d Details) IsZero() bool {
	return len(d.raw) == 0
}

// Raw returns the underlying payload map.
func (d Details) Raw() map[string]any {
	return d.raw
}

// Title returns the display title.
func (d Details) Title() (string, bool) {
	return d.str(keyTitle)
}

// Address returns the formatted address.
func (d Details) Address() (string, bool) {
	return d.str(keyAddress)
}

// ShortAddress returns the short formatted address.
func (d Details) ShortAddress() (string, bool) {
	return d.str(keyShortAddress)
}

// Website returns the website URI.
func (d Details) Website() (string, bool) {
	return d.str(keyWebsite)
}

// Phone returns the phone number.
func (d Details) Phone() (string, bool) {
	return d.str(keyPhone)
}

// MapsLink returns the provider maps URI.
func (d Details) MapsLink() (string, bool) {
	return d.str(keyMapsLink)
}

// PrimaryType returns the first provider type tag.
func (d Details) PrimaryType() (string, bool) {
	return d.str(keyType)
}

// BusinessStatus returns the provider business status.
func (d Details) BusinessStatus() (string, bool) {
	return d.str(keyBusinessStatus)
}

// OpenState returns the open/closed descriptor.
func (d Details) OpenState() (string, bool) {
	return d.str(keyOpenState)
}

// AdministrativeArea returns the state or province name.
func (d Details) AdministrativeArea() (string, bool) {
	return d.str(keyAdministrativeArea)
}

// Locality returns the city name.
func (d Details) Locality() (string, bool) {
	return d.str(keyLocality)
}

// RegionCode returns the country/region code.
func (d Details) RegionCode() (string, bool) {
	return d.str(keyRegionCode)
}

// Rating returns the provider rating.
func (d Details) Rating() (float64, bool) {
	return d.num(keyRating)
}

// RatingCount returns the number of ratings.
func (d Details) RatingCount() (int, bool) {
	n, ok := d.num(keyRatingCount)
	if !ok {
		return 0, false
	}
	return int(n), true
}

// Coordinates returns the latitude/longitude pair. Both components must
// be present or the coordinates are treated as absent.
func (d Details) Coordinates() (lat, lon float64, ok bool) {
	gps, found := d.raw[keyGPS].(map[string]any)
	if !found {
		return 0, 0, false
	}
	lat, latOK := toFloat(gps[keyLatitude])
	lon, lonOK := toFloat(gps[keyLongitude])
	if !latOK || !lonOK {
		return 0, 0, false
	}
	return lat, lon, true
}

// GPS returns the raw coordinates sub-map, if present.
func (d Details) GPS() (map[string]any, bool) {
	gps, ok := d.raw[keyGPS].(map[string]any)
	return gps, ok
}

// Hours returns the structured weekday hours, if present.
func (d Details) Hours() (map[string]any, bool) {
	h, ok := d.raw[keyHours].(map[string]any)
	return h, ok
}

// Photos returns the photo descriptors, in provider order. Entries
// without a resource name are dropped.
func (d Details) Photos() []Photo {
	list, ok := d.raw[keyPhotos].([]any)
	if !ok {
		return nil
	}
	photos := make([]Photo, 0, len(list))
	for _, item := range list {
		entry, ok := item.(map[string]any)
		if !ok {
			continue
		}
		name, _ := entry["name"].(string)
		if name == "" {
			continue
		}
		p := Photo{Name: name}
		if w, ok := toFloat(entry["width_px"]); ok {
			p.WidthPx = int(w)
		}
		if h, ok := toFloat(entry["height_px"]); ok {
			p.HeightPx = int(h)
		}
		p.Attribution, _ = entry["attribution"].(string)
		photos = append(photos, p)
	}
	return photos
}

func (d Details) str(key string) (string, bool) {
	s, ok := d.raw[key].(string)
	if !ok || s == "" {
		return "", false
	}
	return s, true
}

func (d Details) num(key string) (float64, bool) {
	return toFloat(d.raw[key])
}

// toFloat accepts the numeric shapes JSON decoding produces.
func toFloat(v any) (float64, bool) {
	switch n := v.(type) {
	case float64:
		return n, true
	case float32:
		return float64(n), true
	case int:
		return float64(n), true
	case int64:
		return float64(n), true
	default:
		return 0, false
	}
}

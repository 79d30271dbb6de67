package provider

import (
	"context"
	"net/http"
	"testing"

	"github.com/campuslist/campuslist/internal/config"
	"github.com/jarcoal/httpmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func placesTestClient(t *testing.T) (*PlacesClient, *http.Client) {
	t.Helper()
	client := mockClient(t)
	c := NewPlacesClient(
		config.NewPlacesConfig().WithAPIKey("k"),
		WithPlacesHTTPClient(client),
	)
	return c, client
}

func TestPlacesSearchText(t *testing.T) {
	c, _ := placesTestClient(t)
	httpmock.RegisterResponder(http.MethodPost, "https://places.googleapis.com/v1/places:searchText",
		func(req *http.Request) (*http.Response, error) {
			assert.Equal(t, "k", req.Header.Get("X-Goog-Api-Key"))
			assert.Equal(t, searchFieldMask, req.Header.Get("X-Goog-FieldMask"))
			return httpmock.NewStringResponse(200, `{
				"places": [
					{"id": "p1", "displayName": {"text": "MIT"}, "formattedAddress": "Cambridge, MA", "types": ["university"]},
					{"id": "p2", "displayName": {"text": "MIT Museum"}, "types": ["museum"]}
				]
			}`), nil
		})

	candidates, err := c.SearchText(context.Background(), "mit")
	require.NoError(t, err)
	require.Len(t, candidates, 2)
	assert.Equal(t, "p1", candidates[0].ID)
	assert.Equal(t, "MIT", candidates[0].DisplayName)
	assert.Equal(t, []string{"university"}, candidates[0].Types)
}

func TestPlacesDetailsNormalization(t *testing.T) {
	c, _ := placesTestClient(t)
	httpmock.RegisterResponder(http.MethodGet, "https://places.googleapis.com/v1/places/p1",
		httpmock.NewStringResponder(200, `{
			"displayName": {"text": "Massachusetts Institute of Technology"},
			"formattedAddress": "77 Massachusetts Ave, Cambridge, MA 02139, USA",
			"shortFormattedAddress": "77 Massachusetts Ave, Cambridge",
			"websiteUri": "https://web.mit.edu/",
			"nationalPhoneNumber": "(617) 253-1000",
			"googleMapsUri": "https://maps.google.com/?cid=1",
			"location": {"latitude": 42.36, "longitude": -71.09},
			"businessStatus": "OPERATIONAL",
			"primaryType": "university",
			"rating": 4.7,
			"userRatingCount": 1500,
			"currentOpeningHours": {"openNow": true},
			"regularOpeningHours": {"weekdayDescriptions": ["Monday: 8 AM-5 PM", "Tuesday: 8 AM-5 PM"]},
			"photos": [
				{"name": "places/p1/photos/a", "widthPx": 4000, "heightPx": 3000,
				 "authorAttributions": [{"displayName": "A Visitor"}]},
				{"widthPx": 100}
			],
			"addressComponents": [
				{"longText": "Cambridge", "types": ["locality"]},
				{"longText": "Massachusetts", "shortText": "MA", "types": ["administrative_area_level_1"]},
				{"longText": "United States", "shortText": "US", "types": ["country"]}
			]
		}`))

	details, err := c.Details(context.Background(), "p1")
	require.NoError(t, err)

	title, ok := details.Title()
	require.True(t, ok)
	assert.Equal(t, "Massachusetts Institute of Technology", title)

	lat, lon, ok := details.Coordinates()
	require.True(t, ok)
	assert.Equal(t, 42.36, lat)
	assert.Equal(t, -71.09, lon)

	openState, ok := details.OpenState()
	require.True(t, ok)
	assert.Equal(t, "Open", openState)

	hours, ok := details.Hours()
	require.True(t, ok)
	assert.Equal(t, "8 AM-5 PM", hours["monday"])

	area, ok := details.AdministrativeArea()
	require.True(t, ok)
	assert.Equal(t, "Massachusetts", area)

	region, ok := details.RegionCode()
	require.True(t, ok)
	assert.Equal(t, "US", region)

	photos := details.Photos()
	require.Len(t, photos, 1, "photos without a name are dropped")
	assert.Equal(t, "places/p1/photos/a", photos[0].Name)
	assert.Equal(t, 4000, photos[0].WidthPx)
	assert.Equal(t, "A Visitor", photos[0].Attribution)
}

func TestPlacesPhotoURI(t *testing.T) {
	c, _ := placesTestClient(t)
	httpmock.RegisterResponder(http.MethodGet,
		`=~^https://places\.googleapis\.com/v1/places/p1/photos/a/media`,
		func(req *http.Request) (*http.Response, error) {
			assert.Equal(t, "1600", req.URL.Query().Get("maxWidthPx"))
			assert.Equal(t, "true", req.URL.Query().Get("skipHttpRedirect"))
			return httpmock.NewStringResponse(200, `{"name": "places/p1/photos/a", "photoUri": "https://lh3.example/photo.jpg"}`), nil
		})

	uri, err := c.PhotoURI(context.Background(), "places/p1/photos/a")
	require.NoError(t, err)
	assert.Equal(t, "https://lh3.example/photo.jpg", uri)
}

func TestPlacesRetriesServerErrors(t *testing.T) {
	c, _ := placesTestClient(t)
	calls := 0
	httpmock.RegisterResponder(http.MethodPost, "https://places.googleapis.com/v1/places:searchText",
		func(*http.Request) (*http.Response, error) {
			calls++
			if calls < 3 {
				return httpmock.NewStringResponse(503, "unavailable"), nil
			}
			return httpmock.NewStringResponse(200, `{"places": []}`), nil
		})

	candidates, err := c.SearchText(context.Background(), "mit")
	require.NoError(t, err)
	assert.Empty(t, candidates)
	assert.Equal(t, 3, calls)
}

func TestPlacesDoesNotRetryClientErrors(t *testing.T) {
	c, _ := placesTestClient(t)
	calls := 0
	httpmock.RegisterResponder(http.MethodPost, "https://places.googleapis.com/v1/places:searchText",
		func(*http.Request) (*http.Response, error) {
			calls++
			return httpmock.NewStringResponse(400, "bad field mask"), nil
		})

	_, err := c.SearchText(context.Background(), "mit")
	require.Error(t, err)
	assert.Equal(t, 1, calls)
}

package api_test

import (
	"bytes"
	"context"
	"image"
	"image/color"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strconv"
	"testing"

	"github.com/disintegration/imaging"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/campuslist/campuslist"
	"github.com/campuslist/campuslist/domain/media"
	"github.com/campuslist/campuslist/domain/university"
	"github.com/campuslist/campuslist/infrastructure/api"
)

func newTestClient(t *testing.T, opts ...campuslist.Option) *campuslist.Client {
	t.Helper()
	tmpDir := t.TempDir()
	base := []campuslist.Option{
		campuslist.WithSQLite(filepath.Join(tmpDir, "test.db")),
		campuslist.WithDataDir(tmpDir),
		campuslist.WithSchedulerDisabled(),
		campuslist.WithLogger(slog.New(slog.NewTextHandler(io.Discard, nil))),
	}
	client, err := campuslist.New(append(base, opts...)...)
	require.NoError(t, err)
	t.Cleanup(func() { _ = client.Close() })
	return client
}

func TestAPIServer_Health(t *testing.T) {
	handler := api.NewAPIServer(newTestClient(t)).Handler()

	for _, path := range []string{"/health", "/healthz"} {
		req := httptest.NewRequest(http.MethodGet, path, nil)
		w := httptest.NewRecorder()
		handler.ServeHTTP(w, req)

		assert.Equal(t, http.StatusOK, w.Code, path)
		assert.JSONEq(t, `{"status":"healthy"}`, w.Body.String())
	}
}

func TestAPIServer_OpenWithoutKeys(t *testing.T) {
	handler := api.NewAPIServer(newTestClient(t)).Handler()

	req := httptest.NewRequest(http.MethodGet, "/api/v1/universities", nil)
	w := httptest.NewRecorder()
	handler.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
}

func TestAPIServer_KeysProtectAPIRoutes(t *testing.T) {
	client := newTestClient(t, campuslist.WithAPIKeys("secret"))
	handler := api.NewAPIServer(client).Handler()

	req := httptest.NewRequest(http.MethodGet, "/api/v1/universities", nil)
	w := httptest.NewRecorder()
	handler.ServeHTTP(w, req)
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	req = httptest.NewRequest(http.MethodGet, "/api/v1/universities", nil)
	req.Header.Set("X-API-Key", "secret")
	w = httptest.NewRecorder()
	handler.ServeHTTP(w, req)
	assert.Equal(t, http.StatusOK, w.Code)

	// Health stays open even with keys configured.
	req = httptest.NewRequest(http.MethodGet, "/health", nil)
	w = httptest.NewRecorder()
	handler.ServeHTTP(w, req)
	assert.Equal(t, http.StatusOK, w.Code)
}

func seedPhoto(t *testing.T, client *campuslist.Client) media.Media {
	t.Helper()
	ctx := context.Background()

	u, err := client.Universities.Save(ctx, university.New("mit", "MIT", university.Attributes{}))
	require.NoError(t, err)

	img := image.NewRGBA(image.Rect(0, 0, 200, 100))
	for x := 0; x < 200; x++ {
		for y := 0; y < 100; y++ {
			img.Set(x, y, color.RGBA{R: uint8(x), G: uint8(y), B: 128, A: 255})
		}
	}
	var buf bytes.Buffer
	require.NoError(t, imaging.Encode(&buf, img, imaging.JPEG))

	directory := "universities/mit/photos"
	fileName := "campus.jpg"
	absDir := filepath.Join(client.MediaDir(), directory)
	require.NoError(t, os.MkdirAll(absDir, 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(absDir, fileName), buf.Bytes(), 0o644))

	saved, err := client.Media.Save(ctx, media.New(u.ID(), directory, fileName, "image/jpeg", int64(buf.Len()), "campus.jpg", map[string]any{
		media.MetaPhotoName: "places/abc/photos/def",
	}))
	require.NoError(t, err)
	return saved
}

func TestAPIServer_ImageOriginal(t *testing.T) {
	client := newTestClient(t)
	photo := seedPhoto(t, client)
	handler := api.NewAPIServer(client).Handler()

	req := httptest.NewRequest(http.MethodGet, "/img/"+itoa(photo.ID()), nil)
	w := httptest.NewRecorder()
	handler.ServeHTTP(w, req)

	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "image/jpeg", w.Header().Get("Content-Type"))
	assert.Contains(t, w.Header().Get("Cache-Control"), "immutable")

	img, err := imaging.Decode(bytes.NewReader(w.Body.Bytes()))
	require.NoError(t, err)
	assert.Equal(t, 200, img.Bounds().Dx())
}

func TestAPIServer_ImageResized(t *testing.T) {
	client := newTestClient(t)
	photo := seedPhoto(t, client)
	handler := api.NewAPIServer(client).Handler()

	req := httptest.NewRequest(http.MethodGet, "/img/"+itoa(photo.ID())+"?w=50&h=50&fit=cover", nil)
	w := httptest.NewRecorder()
	handler.ServeHTTP(w, req)

	require.Equal(t, http.StatusOK, w.Code)
	img, err := imaging.Decode(bytes.NewReader(w.Body.Bytes()))
	require.NoError(t, err)
	assert.Equal(t, 50, img.Bounds().Dx())
	assert.Equal(t, 50, img.Bounds().Dy())
}

func TestAPIServer_ImageWebP(t *testing.T) {
	client := newTestClient(t)
	photo := seedPhoto(t, client)
	handler := api.NewAPIServer(client).Handler()

	req := httptest.NewRequest(http.MethodGet, "/img/"+itoa(photo.ID())+"?w=40&fm=webp", nil)
	w := httptest.NewRecorder()
	handler.ServeHTTP(w, req)

	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "image/webp", w.Header().Get("Content-Type"))
}

func TestAPIServer_ImageErrors(t *testing.T) {
	client := newTestClient(t)
	photo := seedPhoto(t, client)
	handler := api.NewAPIServer(client).Handler()

	tests := []struct {
		name string
		path string
		want int
	}{
		{"unknown id", "/img/999", http.StatusNotFound},
		{"bad id", "/img/abc", http.StatusBadRequest},
		{"bad width", "/img/" + itoa(photo.ID()) + "?w=-1", http.StatusBadRequest},
		{"bad format", "/img/" + itoa(photo.ID()) + "?fm=gif", http.StatusBadRequest},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, tt.path, nil)
			w := httptest.NewRecorder()
			handler.ServeHTTP(w, req)
			assert.Equal(t, tt.want, w.Code)
		})
	}
}

func itoa(id int64) string {
	return strconv.FormatInt(id, 10)
}

package service

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"io"
	"log/slog"
	"mime"
	"net/http"
	"os"
	"path"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/campuslist/campuslist/domain/media"
	"github.com/campuslist/campuslist/domain/place"
)

const (
	mediaUserAgent      = "CampusListBot/1.0"
	mediaFetchTimeout   = 30 * time.Second
	defaultPhotoExt     = ".jpg"
	universityPhotosDir = "universities"
)

// MediaLibrary downloads photo bytes and stores them on disk alongside a
// Media row. Files live under <media root>/universities/<slug>/photos/.
type MediaLibrary struct {
	store      media.Store
	root       string
	httpClient *http.Client
	logger     *slog.Logger
}

// NewMediaLibrary creates a MediaLibrary rooted at mediaRoot.
func NewMediaLibrary(store media.Store, mediaRoot string, logger *slog.Logger) *MediaLibrary {
	return &MediaLibrary{
		store: store,
		root:  mediaRoot,
		httpClient: &http.Client{
			Timeout: mediaFetchTimeout,
		},
		logger: logger,
	}
}

// WithHTTPClient replaces the HTTP client (for testing).
func (l *MediaLibrary) WithHTTPClient(client *http.Client) *MediaLibrary {
	l.httpClient = client
	return l
}

// Exists reports whether the provider photo was already stored for the
// university.
func (l *MediaLibrary) Exists(ctx context.Context, universityID int64, photoName string) (bool, error) {
	return l.store.ExistsForPhoto(ctx, universityID, photoName)
}

// StoreFromURL downloads the photo at url and persists it for the
// university under the given slug directory.
func (l *MediaLibrary) StoreFromURL(ctx context.Context, universityID int64, slug, url string, photo place.Photo) (media.Media, error) {
	body, mimeType, err := l.fetch(ctx, url)
	if err != nil {
		return media.Media{}, err
	}

	directory := path.Join(universityPhotosDir, slug, "photos")
	fileName := l.fileName(photo.Name, mimeType)

	absDir := filepath.Join(l.root, filepath.FromSlash(directory))
	if err := os.MkdirAll(absDir, 0o755); err != nil {
		return media.Media{}, fmt.Errorf("create media directory: %w", err)
	}
	absPath := filepath.Join(absDir, fileName)
	if err := os.WriteFile(absPath, body, 0o644); err != nil {
		return media.Media{}, fmt.Errorf("write media file: %w", err)
	}

	meta := map[string]any{
		media.MetaUniversityID: universityID,
		media.MetaPhotoName:    photo.Name,
	}
	if photo.WidthPx > 0 {
		meta[media.MetaWidthPx] = photo.WidthPx
	}
	if photo.HeightPx > 0 {
		meta[media.MetaHeightPx] = photo.HeightPx
	}
	if photo.Attribution != "" {
		meta[media.MetaAttribution] = photo.Attribution
	}

	record := media.New(universityID, directory, fileName, mimeType, int64(len(body)), path.Base(photo.Name), meta)
	saved, err := l.store.Save(ctx, record)
	if err != nil {
		// Orphaned bytes on disk are preferable to a row without bytes.
		_ = os.Remove(absPath)
		return media.Media{}, err
	}

	l.logger.Debug("photo stored",
		slog.Int64("university_id", universityID),
		slog.String("file", path.Join(directory, fileName)),
		slog.Int("bytes", len(body)),
	)
	return saved, nil
}

// AbsolutePath returns the on-disk location of a media record.
func (l *MediaLibrary) AbsolutePath(m media.Media) string {
	return filepath.Join(l.root, filepath.FromSlash(m.Directory()), m.FileName())
}

func (l *MediaLibrary) fetch(ctx context.Context, url string) ([]byte, string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, "", fmt.Errorf("create photo request: %w", err)
	}
	req.Header.Set("User-Agent", mediaUserAgent)

	resp, err := l.httpClient.Do(req)
	if err != nil {
		return nil, "", fmt.Errorf("fetch photo: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusOK {
		return nil, "", fmt.Errorf("fetch photo: unexpected status %d", resp.StatusCode)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, "", fmt.Errorf("read photo body: %w", err)
	}
	if len(body) == 0 {
		return nil, "", fmt.Errorf("fetch photo: empty body")
	}

	mimeType := resp.Header.Get("Content-Type")
	if idx := strings.Index(mimeType, ";"); idx >= 0 {
		mimeType = strings.TrimSpace(mimeType[:idx])
	}
	if mimeType == "" {
		mimeType = "image/jpeg"
	}
	return body, mimeType, nil
}

// fileName builds a collision-free name: a fresh UUID plus a short hash
// of the provider photo name, with an extension derived from the mime
// type.
func (l *MediaLibrary) fileName(photoName, mimeType string) string {
	sum := sha256.Sum256([]byte(photoName))
	ext := extensionFor(mimeType)
	return uuid.NewString() + "-" + hex.EncodeToString(sum[:4]) + ext
}

func extensionFor(mimeType string) string {
	switch mimeType {
	case "image/jpeg":
		return ".jpg"
	case "image/png":
		return ".png"
	case "image/webp":
		return ".webp"
	}
	if exts, err := mime.ExtensionsByType(mimeType); err == nil && len(exts) > 0 {
		return exts[0]
	}
	return defaultPhotoExt
}

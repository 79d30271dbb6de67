package api

import (
	"net/http"
	"os"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/campuslist/campuslist/domain/store"
	"github.com/campuslist/campuslist/infrastructure/api/middleware"
	"github.com/campuslist/campuslist/infrastructure/images"
)

// imageCacheControl marks stored photos as immutable: a media record is
// never rewritten under the same id.
const imageCacheControl = "public, max-age=31536000, immutable"

// imageHandler serves GET /img/{mediaID}. Without parameters it streams
// the original file; with w/h/fit/q/fm it resizes and re-encodes.
func (a *APIServer) imageHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := strconv.ParseInt(chi.URLParam(r, "mediaID"), 10, 64)
		if err != nil {
			middleware.WriteError(w, r, middleware.NewBadRequestError("invalid media id", err), a.logger)
			return
		}

		record, err := a.client.Media.FindOne(r.Context(), store.WithID(id))
		if err != nil {
			middleware.WriteError(w, r, err, a.logger)
			return
		}

		data, err := os.ReadFile(a.client.Library.AbsolutePath(record))
		if err != nil {
			middleware.WriteError(w, r, middleware.NewNotFoundError("media file missing"), a.logger)
			return
		}

		opts, err := images.ParseOptions(r.URL.Query())
		if err != nil {
			middleware.WriteError(w, r, middleware.NewBadRequestError(err.Error(), err), a.logger)
			return
		}

		if opts.IsZero() {
			w.Header().Set("Content-Type", record.MimeType())
			w.Header().Set("Cache-Control", imageCacheControl)
			_, _ = w.Write(data)
			return
		}

		encoded, contentType, err := images.Transform(data, opts)
		if err != nil {
			middleware.WriteError(w, r, err, a.logger)
			return
		}

		w.Header().Set("Content-Type", contentType)
		w.Header().Set("Cache-Control", imageCacheControl)
		_, _ = w.Write(encoded)
	}
}

package api

import (
	"context"
	"errors"
	"io"
	"net/http"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/rpupo63/unified-admin-dashboard/errs"
	"github.com/rpupo63/unified-admin-dashboard/models"
)

const maxUploadSize = 10 << 20 // 10MB

type objectStore interface {
	Upload(ctx context.Context, dir, name string, body io.Reader, contentType string) (models.Thumbnail, error)
	Delete(ctx context.Context, objectPath string) error
}

type uploadHandler struct {
	responder Responder
	logger    zerolog.Logger
	store     objectStore
}

func newUploadHandler(store objectStore) uploadHandler {
	logger := log.With().Str("handlerName", "uploadHandler").Logger()
	return uploadHandler{
		responder: NewResponder(logger),
		logger:    logger,
		store:     store,
	}
}

// uploadImage stores the multipart "file" under the bucket directory and
// returns its public URL and storage path
// @Accept multipart/form-data
// @Param dir path string true "blog-thumbnails, project-thumbnails, experience-thumbnails, ride-thumbnails or ride-images"
// @Success 201 {object} models.Thumbnail
// @Failure 415 {object} ErrorResponse "Unsupported Media Type - Not an image"
// @Router /uploads/{dir} [post]
func (h uploadHandler) uploadImage() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		dir, err := idParam(r, "dir")
		if err != nil {
			h.responder.WriteError(w, err)
			return
		}

		r.Body = http.MaxBytesReader(w, r.Body, maxUploadSize)
		file, header, err := r.FormFile("file")
		if err != nil {
			var maxErr *http.MaxBytesError
			if errors.As(err, &maxErr) {
				h.responder.WriteError(w, errs.NewMaxBodySizeExceededError(maxUploadSize))
				return
			}
			h.responder.WriteError(w, errs.NewMissingRequiredFieldError("file"))
			return
		}
		defer file.Close()

		thumbnail, err := h.store.Upload(r.Context(), dir, header.Filename, file, header.Header.Get("Content-Type"))
		if err != nil {
			h.responder.WriteError(w, err)
			return
		}
		h.logger.Info().Str("path", thumbnail.Path).Msg("image uploaded")
		h.responder.WriteCreated(w, thumbnail)
	}
}

// deleteImage removes an uploaded object by its storage path
// @Param path query string true "storage path returned by the upload"
// @Router /uploads [delete]
func (h uploadHandler) deleteImage() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		objectPath := r.URL.Query().Get("path")
		if objectPath == "" {
			h.responder.WriteError(w, errs.NewMissingRequiredFieldError("path"))
			return
		}
		if err := h.store.Delete(r.Context(), objectPath); err != nil {
			h.responder.WriteError(w, err)
			return
		}
		h.responder.WriteSuccess(w, "image deleted successfully")
	}
}

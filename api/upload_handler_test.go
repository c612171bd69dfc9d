package api

import (
	"bytes"
	"context"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rpupo63/unified-admin-dashboard/models"
)

type memObjects struct {
	objects map[string][]byte
}

func (m *memObjects) Upload(_ context.Context, dir, name string, body io.Reader, contentType string) (models.Thumbnail, error) {
	data, err := io.ReadAll(body)
	if err != nil {
		return models.Thumbnail{}, err
	}
	path := dir + "/" + name
	m.objects[path] = data
	return models.Thumbnail{URL: "https://cdn.example.com/" + path, Path: path}, nil
}

func (m *memObjects) Delete(_ context.Context, objectPath string) error {
	delete(m.objects, objectPath)
	return nil
}

func uploadRouter(store *memObjects) http.Handler {
	h := newUploadHandler(store)
	r := chi.NewRouter()
	r.Post("/uploads/{dir}", h.uploadImage())
	r.Delete("/uploads", h.deleteImage())
	return r
}

func multipartBody(t *testing.T, field, name string, data []byte) (*bytes.Buffer, string) {
	t.Helper()
	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	fw, err := mw.CreateFormFile(field, name)
	require.NoError(t, err)
	_, err = fw.Write(data)
	require.NoError(t, err)
	require.NoError(t, mw.Close())
	return &buf, mw.FormDataContentType()
}

func TestUploadAndDeleteImage(t *testing.T) {
	store := &memObjects{objects: map[string][]byte{}}
	router := uploadRouter(store)

	body, contentType := multipartBody(t, "file", "cover.png", []byte("png-bytes"))
	req := httptest.NewRequest(http.MethodPost, "/uploads/rides", body)
	req.Header.Set("Content-Type", contentType)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	thumb := decodeBody[models.Thumbnail](t, rec)
	assert.Equal(t, "rides/cover.png", thumb.Path)
	assert.Equal(t, []byte("png-bytes"), store.objects["rides/cover.png"])

	rec = httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodDelete, "/uploads?path=rides/cover.png", nil))
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Empty(t, store.objects)

	rec = httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodDelete, "/uploads", nil))
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestUploadRequiresFileField(t *testing.T) {
	store := &memObjects{objects: map[string][]byte{}}
	router := uploadRouter(store)

	body, contentType := multipartBody(t, "image", "cover.png", []byte("png-bytes"))
	req := httptest.NewRequest(http.MethodPost, "/uploads/rides", body)
	req.Header.Set("Content-Type", contentType)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "file", decodeBody[ErrorResponse](t, rec).Field)
	assert.Empty(t, store.objects)
}

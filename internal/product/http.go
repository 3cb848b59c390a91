package product

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"mime"
	"mime/multipart"
	"net/http"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"ProductBoard/pkg/kit"
)

const (
	// Parts beyond this spill to temp files; there is no cap on upload size.
	multipartMemory = 32 << 20

	msgReadFailed   = "Failed to read database"
	msgSaveFailed   = "Failed to save product"
	msgDeleteFailed = "Failed to delete product"
)

var errBadJSON = errors.New("bad json")

type Server struct {
	Products *Service
	Log      *zap.Logger
}

func (s *Server) logger() *zap.Logger {
	if s.Log == nil {
		return zap.NewNop()
	}
	return s.Log
}

func (s *Server) list(w http.ResponseWriter, r *http.Request) {
	products, err := s.Products.List(r.Context())
	if err != nil {
		s.logger().Error("list products failed", zap.Error(err))
		kit.WriteError(w, r, http.StatusInternalServerError, msgReadFailed, nil)
		return
	}
	kit.WriteJSON(w, http.StatusOK, products)
}

func (s *Server) create(w http.ResponseWriter, r *http.Request) {
	in, form, err := decodeCreateRequest(r)
	if form != nil {
		defer func() { _ = form.RemoveAll() }()
	}
	if errors.Is(err, errBadJSON) {
		kit.WriteError(w, r, http.StatusBadRequest, "bad json", map[string]any{"cause": err.Error()})
		return
	}
	if err != nil {
		s.logger().Error("parse create request failed", zap.Error(err))
		kit.WriteError(w, r, http.StatusInternalServerError, msgSaveFailed, nil)
		return
	}

	p, err := s.Products.Create(r.Context(), in, form)
	if err != nil {
		s.logger().Error("create product failed", zap.Error(err))
		kit.WriteError(w, r, http.StatusInternalServerError, msgSaveFailed, nil)
		return
	}
	kit.WriteJSON(w, http.StatusCreated, p)
}

func (s *Server) delete(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	if _, err := s.Products.Delete(r.Context(), id); err != nil {
		s.logger().Error("delete product failed", zap.Error(err), zap.String("id", id))
		kit.WriteError(w, r, http.StatusInternalServerError, msgDeleteFailed, nil)
		return
	}
	kit.WriteSuccess(w)
}

// decodeCreateRequest accepts multipart forms (with an optional image) and
// JSON bodies. Other bodies are read as url-encoded forms; missing fields
// stay empty.
func decodeCreateRequest(r *http.Request) (NewProduct, *multipart.Form, error) {
	mediaType, _, _ := mime.ParseMediaType(r.Header.Get("Content-Type"))

	switch mediaType {
	case "application/json":
		var in NewProduct
		err := json.NewDecoder(r.Body).Decode(&in)
		if err != nil && !errors.Is(err, io.EOF) {
			return NewProduct{}, nil, fmt.Errorf("%w: %v", errBadJSON, err)
		}
		return in, nil, nil

	case "multipart/form-data":
		if err := r.ParseMultipartForm(multipartMemory); err != nil {
			return NewProduct{}, nil, fmt.Errorf("%w: parse multipart: %v", ErrUpload, err)
		}
		form := r.MultipartForm
		return NewProduct{
			Name:        firstValue(form.Value, "name"),
			Category:    firstValue(form.Value, "category"),
			Description: firstValue(form.Value, "description"),
		}, form, nil

	default:
		if err := r.ParseForm(); err != nil {
			return NewProduct{}, nil, err
		}
		return NewProduct{
			Name:        r.PostForm.Get("name"),
			Category:    r.PostForm.Get("category"),
			Description: r.PostForm.Get("description"),
		}, nil, nil
	}
}

func firstValue(values map[string][]string, key string) string {
	if vs := values[key]; len(vs) > 0 {
		return vs[0]
	}
	return ""
}

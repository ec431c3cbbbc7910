// Package blobstore stores patient documents (scanned ID cards,
// insurance papers, lab results) behind a BlobStore interface, with an
// in-memory implementation and echo handlers for multipart upload and
// download.
package blobstore

import (
	"bytes"
	"context"
	"crypto/sha256"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"

	"github.com/hayaletadmin/hasta-randevu-klinik-panel-sub000/internal/platform/auth"
	"github.com/hayaletadmin/hasta-randevu-klinik-panel-sub000/pkg/pagination"
)

var (
	ErrDocumentNotFound   = errors.New("document not found")
	ErrFileTooLarge       = errors.New("file exceeds maximum allowed size")
	ErrInvalidContentType = errors.New("content type is not allowed")
	ErrInvalidCategory    = errors.New("document category is not allowed")
	ErrMissingFileName    = errors.New("file name is required")
)

// MaxFileSize is the maximum allowed document size in bytes (20 MB).
const MaxFileSize = 20 * 1024 * 1024

// AllowedCategories lists valid document category values.
var AllowedCategories = map[string]bool{
	"identity-card": true,
	"insurance":     true,
	"lab-result":    true,
	"prescription":  true,
	"referral":      true,
	"other":         true,
}

// AllowedContentTypes lists the file MIME types the panel accepts.
var AllowedContentTypes = map[string]bool{
	"image/png":       true,
	"image/jpeg":      true,
	"application/pdf": true,
	"text/plain":      true,
}

// Document describes a stored patient document.
type Document struct {
	ID          string    `json:"id"`
	FileName    string    `json:"file_name"`
	ContentType string    `json:"content_type"`
	Size        int64     `json:"size"`
	PatientID   string    `json:"patient_id"`
	Category    string    `json:"category"`
	Hash        string    `json:"hash"`
	CreatedAt   time.Time `json:"created_at"`
	CreatedBy   string    `json:"created_by"`
}

// BlobStore defines the contract for document storage backends.
type BlobStore interface {
	Upload(ctx context.Context, doc Document, content io.Reader) (*Document, error)
	Download(ctx context.Context, id string) (io.ReadCloser, *Document, error)
	Delete(ctx context.Context, id string) error
	GetMetadata(ctx context.Context, id string) (*Document, error)
	ListByPatient(ctx context.Context, patientID, category string, limit, offset int) ([]*Document, int, error)
}

type storedDocument struct {
	meta    Document
	content []byte
}

// InMemoryBlobStore is a thread-safe, in-memory BlobStore for
// development and tests.
type InMemoryBlobStore struct {
	mu   sync.RWMutex
	docs map[string]*storedDocument
}

func NewInMemoryBlobStore() *InMemoryBlobStore {
	return &InMemoryBlobStore{docs: make(map[string]*storedDocument)}
}

// Upload validates the document, computes a SHA-256 hash and stores
// the content in memory.
func (s *InMemoryBlobStore) Upload(_ context.Context, doc Document, content io.Reader) (*Document, error) {
	if doc.FileName == "" {
		return nil, ErrMissingFileName
	}
	if doc.PatientID == "" {
		return nil, fmt.Errorf("patient id is required")
	}
	if !AllowedCategories[doc.Category] {
		return nil, ErrInvalidCategory
	}
	if !AllowedContentTypes[normalizeContentType(doc.ContentType)] {
		return nil, ErrInvalidContentType
	}

	data, err := io.ReadAll(io.LimitReader(content, MaxFileSize+1))
	if err != nil {
		return nil, fmt.Errorf("reading content: %w", err)
	}
	if int64(len(data)) > MaxFileSize {
		return nil, ErrFileTooLarge
	}

	h := sha256.Sum256(data)
	doc.ID = uuid.New().String()
	doc.Size = int64(len(data))
	doc.Hash = fmt.Sprintf("%x", h)
	doc.CreatedAt = time.Now().UTC()

	s.mu.Lock()
	s.docs[doc.ID] = &storedDocument{meta: doc, content: data}
	s.mu.Unlock()

	out := doc
	return &out, nil
}

func (s *InMemoryBlobStore) Download(_ context.Context, id string) (io.ReadCloser, *Document, error) {
	s.mu.RLock()
	stored, ok := s.docs[id]
	s.mu.RUnlock()
	if !ok {
		return nil, nil, ErrDocumentNotFound
	}
	meta := stored.meta
	return io.NopCloser(bytes.NewReader(stored.content)), &meta, nil
}

func (s *InMemoryBlobStore) Delete(_ context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.docs[id]; !ok {
		return ErrDocumentNotFound
	}
	delete(s.docs, id)
	return nil
}

func (s *InMemoryBlobStore) GetMetadata(_ context.Context, id string) (*Document, error) {
	s.mu.RLock()
	stored, ok := s.docs[id]
	s.mu.RUnlock()
	if !ok {
		return nil, ErrDocumentNotFound
	}
	meta := stored.meta
	return &meta, nil
}

func (s *InMemoryBlobStore) ListByPatient(_ context.Context, patientID, category string, limit, offset int) ([]*Document, int, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var matched []*Document
	for _, d := range s.docs {
		if d.meta.PatientID != patientID {
			continue
		}
		if category != "" && d.meta.Category != category {
			continue
		}
		m := d.meta
		matched = append(matched, &m)
	}

	total := len(matched)
	if offset > len(matched) {
		offset = len(matched)
	}
	end := offset + limit
	if end > len(matched) {
		end = len(matched)
	}
	return matched[offset:end], total, nil
}

func normalizeContentType(ct string) string {
	if i := strings.Index(ct, ";"); i >= 0 {
		ct = ct[:i]
	}
	return strings.TrimSpace(strings.ToLower(ct))
}

// Handler provides echo HTTP handlers for patient documents.
type Handler struct {
	store BlobStore
}

func NewHandler(store BlobStore) *Handler {
	return &Handler{store: store}
}

func (h *Handler) RegisterRoutes(api *echo.Group) {
	staff := api.Group("", auth.RequireRole(auth.RoleReceptionist, auth.RoleDoctor))
	staff.POST("/documents", h.Upload)
	staff.GET("/documents/:id", h.Download)
	staff.GET("/documents/:id/metadata", h.GetMetadata)
	staff.DELETE("/documents/:id", h.Delete)
	staff.GET("/patients/:id/documents", h.ListByPatient)
}

func (h *Handler) Upload(c echo.Context) error {
	file, err := c.FormFile("file")
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "file is required")
	}
	src, err := file.Open()
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, "failed to open uploaded file")
	}
	defer src.Close()

	doc := Document{
		FileName:    file.Filename,
		ContentType: normalizeContentType(file.Header.Get("Content-Type")),
		PatientID:   c.FormValue("patient_id"),
		Category:    c.FormValue("category"),
		CreatedBy:   auth.UserIDFromContext(c.Request().Context()),
	}

	result, err := h.store.Upload(c.Request().Context(), doc, src)
	if err != nil {
		switch {
		case errors.Is(err, ErrFileTooLarge):
			return echo.NewHTTPError(http.StatusRequestEntityTooLarge, err.Error())
		case errors.Is(err, ErrInvalidContentType):
			return echo.NewHTTPError(http.StatusUnsupportedMediaType, err.Error())
		case errors.Is(err, ErrMissingFileName), errors.Is(err, ErrInvalidCategory):
			return echo.NewHTTPError(http.StatusBadRequest, err.Error())
		default:
			return echo.NewHTTPError(http.StatusBadRequest, err.Error())
		}
	}
	return c.JSON(http.StatusCreated, result)
}

func (h *Handler) Download(c echo.Context) error {
	rc, meta, err := h.store.Download(c.Request().Context(), c.Param("id"))
	if err != nil {
		if errors.Is(err, ErrDocumentNotFound) {
			return echo.NewHTTPError(http.StatusNotFound, err.Error())
		}
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	defer rc.Close()

	c.Response().Header().Set(echo.HeaderContentDisposition, fmt.Sprintf(`attachment; filename=%q`, meta.FileName))
	return c.Stream(http.StatusOK, meta.ContentType, rc)
}

func (h *Handler) GetMetadata(c echo.Context) error {
	meta, err := h.store.GetMetadata(c.Request().Context(), c.Param("id"))
	if err != nil {
		if errors.Is(err, ErrDocumentNotFound) {
			return echo.NewHTTPError(http.StatusNotFound, err.Error())
		}
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	return c.JSON(http.StatusOK, meta)
}

func (h *Handler) Delete(c echo.Context) error {
	if err := h.store.Delete(c.Request().Context(), c.Param("id")); err != nil {
		if errors.Is(err, ErrDocumentNotFound) {
			return echo.NewHTTPError(http.StatusNotFound, err.Error())
		}
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	return c.NoContent(http.StatusNoContent)
}

func (h *Handler) ListByPatient(c echo.Context) error {
	pg := pagination.FromContext(c)
	items, total, err := h.store.ListByPatient(c.Request().Context(),
		c.Param("id"), c.QueryParam("category"), pg.Limit, pg.Offset)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	if items == nil {
		items = []*Document{}
	}
	return c.JSON(http.StatusOK, pagination.NewResponse(items, total, pg.Limit, pg.Offset))
}

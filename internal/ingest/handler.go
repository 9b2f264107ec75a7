package ingest

import (
	"errors"
	"io"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"aideo-backend/internal/ocr"
	"aideo-backend/internal/shared/server/middleware"
	"aideo-backend/internal/shared/server/respond"
	"aideo-backend/internal/shared/util"
)

// Handler serves the scan upload route.
type Handler struct {
	Pipeline *Pipeline
	MaxBytes int64
}

// NewHandler constructs a Handler with the given upload size cap.
func NewHandler(pipeline *Pipeline, maxBytes int64) *Handler {
	if maxBytes <= 0 {
		maxBytes = 10 << 20
	}
	return &Handler{Pipeline: pipeline, MaxBytes: maxBytes}
}

// RegisterRoutes attaches the scan route to the router group.
func (h *Handler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.POST("/documents/scan", h.scan)
}

func (h *Handler) scan(c *gin.Context) {
	userID := middleware.UserIDFromContext(c)

	c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, h.MaxBytes)

	file, header, err := c.Request.FormFile("file")
	if err != nil {
		if isTooLarge(err) {
			respond.Error(c, http.StatusRequestEntityTooLarge, "payload_too_large", "uploaded file exceeds the size limit", nil)
			return
		}
		respond.Error(c, http.StatusBadRequest, "validation_error", "multipart field 'file' is required", nil)
		return
	}
	defer file.Close()

	fileName, err := util.SanitizeFileName(header.Filename)
	if err != nil {
		respond.Error(c, http.StatusBadRequest, "validation_error", "invalid file name", nil)
		return
	}

	data, err := io.ReadAll(file)
	if err != nil {
		if isTooLarge(err) {
			respond.Error(c, http.StatusRequestEntityTooLarge, "payload_too_large", "uploaded file exceeds the size limit", nil)
			return
		}
		respond.Error(c, http.StatusBadRequest, "validation_error", "failed to read uploaded file", nil)
		return
	}
	if len(data) == 0 {
		respond.Error(c, http.StatusBadRequest, "validation_error", "uploaded file is empty", nil)
		return
	}

	result, err := h.Pipeline.Run(c.Request.Context(), Input{
		OwnerID:     userID,
		FileName:    fileName,
		ContentType: header.Header.Get("Content-Type"),
		Data:        data,
	})
	if err != nil {
		if errors.Is(err, ocr.ErrUnsupportedMedia) {
			respond.Error(c, http.StatusBadRequest, "unsupported_media_type", "only images and PDF documents can be scanned", nil)
			return
		}
		respond.Error(c, http.StatusInternalServerError, "internal_error", "failed to scan document", nil)
		return
	}

	respond.OK(c, result)
}

func isTooLarge(err error) bool {
	var maxBytesErr *http.MaxBytesError
	if errors.As(err, &maxBytesErr) {
		return true
	}
	// Multipart parsing can flatten the MaxBytesReader error into a string.
	return err != nil && strings.Contains(err.Error(), "request body too large")
}

package ocr

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/ledongthuc/pdf"
	"golang.org/x/sync/semaphore"
)

const mimePDF = "application/pdf"

var (
	// ErrUnsupportedMedia reports a content type no extractor handles.
	ErrUnsupportedMedia = errors.New("unsupported media type")
	// ErrEngineUnavailable reports that the OCR engine itself is broken,
	// typically missing tesseract language data.
	ErrEngineUnavailable = errors.New("ocr engine unavailable")
	// ErrExtraction reports that the engine failed on an otherwise supported payload.
	ErrExtraction = errors.New("text extraction failed")
)

// Recognizer runs character recognition on an image payload.
type Recognizer interface {
	Recognize(ctx context.Context, data []byte) (string, error)
}

// Extractor routes uploads to the right text extraction backend.
// Images go through the OCR engine, PDFs through their text layer.
// Recognition is CPU-bound, so concurrent image jobs are capped.
type Extractor struct {
	images Recognizer
	sem    *semaphore.Weighted
}

// New builds an Extractor backed by Tesseract for the given languages.
func New(languages string, workers int) *Extractor {
	return NewWithRecognizer(NewTesseract(languages), workers)
}

// NewWithRecognizer builds an Extractor around a custom recognizer.
func NewWithRecognizer(r Recognizer, workers int) *Extractor {
	if workers < 1 {
		workers = 1
	}
	return &Extractor{images: r, sem: semaphore.NewWeighted(int64(workers))}
}

// Supported reports whether Extract can handle the content type.
func Supported(contentType string) bool {
	normalized := normalizeMediaType(contentType)
	return normalized == mimePDF || strings.HasPrefix(normalized, "image/")
}

// Extract returns the plain text of an uploaded payload. An empty string
// with a nil error means the payload carried no recognizable text.
func (e *Extractor) Extract(ctx context.Context, data []byte, contentType string) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}

	normalized := normalizeMediaType(contentType)
	switch {
	case strings.HasPrefix(normalized, "image/"):
		return e.recognizeImage(ctx, data)
	case normalized == mimePDF:
		return extractPDF(data)
	default:
		return "", fmt.Errorf("%w: %s", ErrUnsupportedMedia, normalized)
	}
}

func (e *Extractor) recognizeImage(ctx context.Context, data []byte) (string, error) {
	if err := e.sem.Acquire(ctx, 1); err != nil {
		return "", err
	}
	defer e.sem.Release(1)

	text, err := e.images.Recognize(ctx, data)
	if err != nil {
		if errors.Is(err, ErrEngineUnavailable) {
			return "", err
		}
		return "", fmt.Errorf("%w: %v", ErrExtraction, err)
	}
	return strings.TrimSpace(text), nil
}

func extractPDF(data []byte) (string, error) {
	reader := bytes.NewReader(data)
	pdfReader, err := pdf.NewReader(reader, int64(len(data)))
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrExtraction, err)
	}
	plain, err := pdfReader.GetPlainText()
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrExtraction, err)
	}
	var buf bytes.Buffer
	if _, err := io.Copy(&buf, plain); err != nil {
		return "", fmt.Errorf("%w: %v", ErrExtraction, err)
	}
	return strings.TrimSpace(buf.String()), nil
}

func normalizeMediaType(contentType string) string {
	return strings.ToLower(strings.TrimSpace(strings.Split(contentType, ";")[0]))
}

package ocr

import (
	"context"
	"fmt"
	"strings"

	"github.com/otiai10/gosseract/v2"
)

// Tesseract recognizes text in images through the native Tesseract engine.
// A fresh client is created per call because gosseract clients are not
// safe for concurrent use.
type Tesseract struct {
	languages []string
}

// NewTesseract builds a recognizer for the given comma-separated languages.
func NewTesseract(languages string) *Tesseract {
	var langs []string
	for _, l := range strings.Split(languages, ",") {
		if l = strings.TrimSpace(l); l != "" {
			langs = append(langs, l)
		}
	}
	if len(langs) == 0 {
		langs = []string{"fra"}
	}
	return &Tesseract{languages: langs}
}

func (t *Tesseract) Recognize(ctx context.Context, data []byte) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}

	client := gosseract.NewClient()
	defer client.Close()

	// A language error means the traineddata is missing, not a bad image.
	if err := client.SetLanguage(t.languages...); err != nil {
		return "", fmt.Errorf("%w: %v", ErrEngineUnavailable, err)
	}
	if err := client.SetImageFromBytes(data); err != nil {
		return "", err
	}
	return client.Text()
}

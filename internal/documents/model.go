package documents

import (
	"time"

	"aideo-backend/internal/ai"
)

// Document is one scanned administrative document with its OCR text and
// AI reading.
type Document struct {
	ID          int64
	OwnerID     string
	FileName    string
	ContentType string
	// FileURL is the stored object's locator, empty when no blob exists.
	FileURL    string
	RawText    string
	AIType     string
	AIResume   string
	AIActions  []string
	AIDates    []ai.DateDetail
	AIMontants []ai.AmountDetail
	CreatedAt  time.Time
}

// View is the API representation of a Document. DownloadURL carries a
// short-lived presigned link, or null when none could be produced.
type View struct {
	ID          int64             `json:"id"`
	FileName    string            `json:"file_name"`
	ContentType string            `json:"content_type"`
	DownloadURL *string           `json:"download_url"`
	RawText     string            `json:"raw_text"`
	AIType      *string           `json:"ai_type"`
	AIResume    *string           `json:"ai_resume"`
	AIActions   []string          `json:"ai_actions"`
	AIDates     []ai.DateDetail   `json:"ai_dates"`
	AIMontants  []ai.AmountDetail `json:"ai_montants"`
	CreatedAt   time.Time         `json:"created_at"`
}

func view(doc Document, downloadURL *string) View {
	v := View{
		ID:          doc.ID,
		FileName:    doc.FileName,
		ContentType: doc.ContentType,
		DownloadURL: downloadURL,
		RawText:     doc.RawText,
		AIType:      nullable(doc.AIType),
		AIResume:    nullable(doc.AIResume),
		AIActions:   doc.AIActions,
		AIDates:     doc.AIDates,
		AIMontants:  doc.AIMontants,
		CreatedAt:   doc.CreatedAt,
	}
	if v.AIActions == nil {
		v.AIActions = []string{}
	}
	if v.AIDates == nil {
		v.AIDates = []ai.DateDetail{}
	}
	if v.AIMontants == nil {
		v.AIMontants = []ai.AmountDetail{}
	}
	return v
}

func nullable(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}

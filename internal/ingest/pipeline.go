package ingest

import (
	"context"
	"fmt"
	"time"

	"aideo-backend/internal/ai"
	"aideo-backend/internal/documents"
	"aideo-backend/internal/ocr"
	"aideo-backend/internal/shared/metrics"
	"aideo-backend/internal/shared/storage/object"
	"aideo-backend/internal/shared/telemetry"
	"aideo-backend/internal/users"
)

// Scan outcome statuses.
const (
	StatusSuccess = "success"
	StatusFail    = "fail"
)

// Input is one upload to ingest.
type Input struct {
	OwnerID     string
	FileName    string
	ContentType string
	Data        []byte
}

// ScanResult reports what ingestion did with an upload. Status is "fail"
// when no text could be extracted; the blob stays stored for manual review
// but no document row is created.
type ScanResult struct {
	DocumentID int64  `json:"document_id,omitempty"`
	FileName   string `json:"filename"`
	Status     string `json:"status"`
	Message    string `json:"message,omitempty"`
}

// TextExtractor pulls plain text out of an upload.
type TextExtractor interface {
	Extract(ctx context.Context, data []byte, contentType string) (string, error)
}

// Pipeline runs the scan flow: store the blob, extract its text, structure
// it with AI and persist the document.
type Pipeline struct {
	Store object.ObjectStore
	OCR   TextExtractor
	AI    *ai.Structurer
	Docs  documents.Repo
	Users users.Repo
}

// NewPipeline constructs a Pipeline.
func NewPipeline(store object.ObjectStore, extractor TextExtractor, structurer *ai.Structurer, docs documents.Repo, userRepo users.Repo) *Pipeline {
	return &Pipeline{Store: store, OCR: extractor, AI: structurer, Docs: docs, Users: userRepo}
}

// Run ingests one upload. Content type validation happens before any side
// effect, so a rejected upload leaves no blob and no row behind. A storage
// or extraction failure is terminal; extraction failures also remove the
// just-stored blob so storage and database stay consistent.
func (p *Pipeline) Run(ctx context.Context, in Input) (ScanResult, error) {
	start := time.Now()
	metrics.IncScanStarted()

	if !ocr.Supported(in.ContentType) {
		metrics.IncScanFailed()
		return ScanResult{}, fmt.Errorf("%w: %s", ocr.ErrUnsupportedMedia, in.ContentType)
	}

	if err := p.Users.EnsureExists(ctx, in.OwnerID); err != nil {
		metrics.IncScanFailed()
		return ScanResult{}, fmt.Errorf("ensure owner %s: %w", in.OwnerID, err)
	}

	locator, err := p.Store.Put(ctx, in.OwnerID, in.FileName, in.ContentType, in.Data)
	if err != nil {
		metrics.IncScanFailed()
		return ScanResult{}, fmt.Errorf("store upload: %w", err)
	}

	text, err := p.OCR.Extract(ctx, in.Data, in.ContentType)
	if err != nil {
		p.compensate(ctx, locator)
		metrics.IncScanFailed()
		return ScanResult{}, fmt.Errorf("extract text: %w", err)
	}

	if text == "" {
		telemetry.Info("ingest.empty_extraction", map[string]any{
			"owner_id":  in.OwnerID,
			"file_name": in.FileName,
		})
		metrics.IncScanEmpty()
		return ScanResult{
			FileName: in.FileName,
			Status:   StatusFail,
			Message:  "no text could be extracted from the document",
		}, nil
	}

	res := p.AI.Structure(ctx, text)
	if res.Degraded {
		metrics.IncAIDegraded()
	}

	doc := documents.Document{
		OwnerID:     in.OwnerID,
		FileName:    in.FileName,
		ContentType: in.ContentType,
		FileURL:     locator,
		RawText:     text,
		AIType:      res.Analysis.Type,
		AIResume:    res.Analysis.Resume,
		AIActions:   res.Analysis.Actions,
		AIDates:     res.Analysis.Dates,
		AIMontants:  res.Analysis.Montants,
		CreatedAt:   time.Now().UTC(),
	}

	id, err := p.Docs.Create(ctx, doc)
	if err != nil {
		p.compensate(ctx, locator)
		metrics.IncScanFailed()
		return ScanResult{}, fmt.Errorf("persist document: %w", err)
	}

	metrics.IncScanSucceeded()
	metrics.ObserveScanDurationMs(float64(time.Since(start).Milliseconds()))
	telemetry.Info("ingest.scanned", map[string]any{
		"document_id": id,
		"owner_id":    in.OwnerID,
		"degraded":    res.Degraded,
	})

	return ScanResult{
		DocumentID: id,
		FileName:   in.FileName,
		Status:     StatusSuccess,
	}, nil
}

// compensate removes a stored blob after a terminal failure further down
// the pipeline. Best effort: a leaked blob is logged, not fatal.
func (p *Pipeline) compensate(ctx context.Context, locator string) {
	if err := p.Store.Delete(ctx, locator); err != nil {
		telemetry.Warn("ingest.compensate_failed", map[string]any{
			"locator": locator,
			"error":   err.Error(),
		})
	}
}

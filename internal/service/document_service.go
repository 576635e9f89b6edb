package service

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"path/filepath"
	"slices"
	"strings"

	"golang.org/x/sync/errgroup"

	"allma-client/internal/backend"
	"allma-client/internal/state"
)

// SupportedExtensions lists the document types the backend can ingest.
var SupportedExtensions = []string{".txt", ".pdf", ".md", ".docx", ".html", ".json", ".csv"}

// Document is a file to hand to the ingestion endpoint.
type Document struct {
	Name    string
	Size    int64
	Content io.Reader
}

// IngestResult reports the outcome for one document.
type IngestResult struct {
	Name          string `json:"name"`
	Success       bool   `json:"success"`
	ChunksCreated int    `json:"chunks_created"`
	Message       string `json:"message,omitempty"`
	Error         string `json:"error,omitempty"`
}

// DocumentService uploads documents to the backend knowledge base.
type DocumentService struct {
	client      backend.Client
	prefs       *state.Preferences
	concurrency int
	maxBytes    int64
}

func NewDocumentService(client backend.Client, prefs *state.Preferences, concurrency int, maxFileSizeMB int) *DocumentService {
	if concurrency <= 0 {
		concurrency = 1
	}
	return &DocumentService{
		client:      client,
		prefs:       prefs,
		concurrency: concurrency,
		maxBytes:    int64(maxFileSizeMB) << 20,
	}
}

// Ingest uploads each document independently. A failed document is logged
// and reported in its result; it never stops the others. Results keep the
// order of docs.
func (s *DocumentService) Ingest(ctx context.Context, docs []Document) []IngestResult {
	apiURL := s.prefs.Settings().APIURL
	results := make([]IngestResult, len(docs))

	var g errgroup.Group
	g.SetLimit(s.concurrency)
	for i, doc := range docs {
		g.Go(func() error {
			results[i] = s.ingestOne(ctx, apiURL, doc)
			return nil
		})
	}
	_ = g.Wait()
	return results
}

func (s *DocumentService) ingestOne(ctx context.Context, apiURL string, doc Document) IngestResult {
	result := IngestResult{Name: doc.Name}
	if err := s.check(doc); err != nil {
		slog.Warn("Rejected document", "name", doc.Name, "error", err)
		result.Error = err.Error()
		return result
	}

	resp, err := s.client.Ingest(ctx, apiURL, filepath.Base(doc.Name), doc.Content)
	if err != nil {
		slog.Error("Failed to ingest document", "name", doc.Name, "api_url", apiURL, "error", err)
		result.Error = err.Error()
		return result
	}
	slog.Info("Ingested document", "name", doc.Name, "chunks_created", resp.ChunksCreated)
	result.Success = resp.Success
	result.ChunksCreated = resp.ChunksCreated
	result.Message = resp.Message
	if !resp.Success {
		result.Error = resp.Message
	}
	return result
}

func (s *DocumentService) check(doc Document) error {
	ext := strings.ToLower(filepath.Ext(doc.Name))
	if !slices.Contains(SupportedExtensions, ext) {
		return fmt.Errorf("unsupported file type %q", ext)
	}
	if doc.Size > s.maxBytes {
		return fmt.Errorf("file is %d bytes, the limit is %d", doc.Size, s.maxBytes)
	}
	return nil
}

package expense

import (
	"context"
	"fmt"
	"log/slog"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"golang.org/x/sync/semaphore"

	"github.com/BajorskiPatrick/SmartReceipt/internal/extraction"
)

// Parser runs the structured extraction protocol over a receipt image.
type Parser interface {
	Parse(ctx context.Context, image []byte, contentType string) extraction.Result
}

// Categorizer returns one category per product name, aligned by index;
// nil means unclassified.
type Categorizer interface {
	Categorize(ctx context.Context, names []string) ([]*string, error)
}

// Visualizer renders a debug summary of raw versus final items. Best-effort
// only; it runs off the request path.
type Visualizer interface {
	CreateSummary(originalPath string, raw, final []LineItem, outputPath string) error
}

// IDGenerator generates request identifiers.
type IDGenerator interface {
	Generate() string
}

// TimeSource provides the current time.
type TimeSource interface {
	Now() time.Time
}

// defaultIDGenerator derives a short token from a v4 UUID.
type defaultIDGenerator struct{}

func (g *defaultIDGenerator) Generate() string {
	return uuid.NewString()[:8]
}

type defaultTimeSource struct{}

func (t *defaultTimeSource) Now() time.Time {
	return time.Now()
}

// summaryJob carries one visualization request to the worker.
type summaryJob struct {
	requestID    string
	originalPath string
	outputPath   string
	raw          []LineItem
	final        []LineItem
}

// Service orchestrates the per-request pipeline: admission, persistence,
// extraction, categorization, visualization, journaling.
type Service struct {
	parser      Parser
	categorizer Categorizer
	storage     Storage
	journal     Journal
	visualizer  Visualizer

	// sem is the sole backpressure mechanism: at most its capacity of
	// requests run the pipeline at once, the rest suspend at entry.
	sem *semaphore.Weighted

	idGenerator IDGenerator
	timeSource  TimeSource

	jobs chan summaryJob
	wg   sync.WaitGroup
}

// NewService creates a Service with default ID generator and time source.
// maxConcurrent bounds the number of requests inside the pipeline; use 1 for
// single-GPU model deployments.
func NewService(parser Parser, categorizer Categorizer, storage Storage, journal Journal, visualizer Visualizer, maxConcurrent int64) *Service {
	return NewServiceWithDeps(parser, categorizer, storage, journal, visualizer, maxConcurrent, &defaultIDGenerator{}, &defaultTimeSource{})
}

// NewServiceWithDeps creates a Service with custom dependencies for testing.
func NewServiceWithDeps(parser Parser, categorizer Categorizer, storage Storage, journal Journal, visualizer Visualizer, maxConcurrent int64, idGen IDGenerator, timeSrc TimeSource) *Service {
	if maxConcurrent < 1 {
		maxConcurrent = 1
	}
	s := &Service{
		parser:      parser,
		categorizer: categorizer,
		storage:     storage,
		journal:     journal,
		visualizer:  visualizer,
		sem:         semaphore.NewWeighted(maxConcurrent),
		idGenerator: idGen,
		timeSource:  timeSrc,
		jobs:        make(chan summaryJob, 16),
	}

	s.wg.Add(1)
	go s.runVisualizer()

	return s
}

// runVisualizer consumes summary jobs. It is the only consumer, so a
// visualization failure structurally cannot affect any request outcome.
func (s *Service) runVisualizer() {
	defer s.wg.Done()
	for job := range s.jobs {
		if err := s.visualizer.CreateSummary(job.originalPath, job.raw, job.final, job.outputPath); err != nil {
			slog.Warn("Visualization failed", "request_id", job.requestID, "error", err)
		}
	}
}

// Close drains the visualization worker. Call after the HTTP server stops.
func (s *Service) Close() {
	close(s.jobs)
	s.wg.Wait()
}

// Ready reports whether the model-backed collaborators are wired, for the
// health endpoint.
func (s *Service) Ready() (parser, categorizer bool) {
	return s.parser != nil, s.categorizer != nil
}

// ProcessReceipt runs one uploaded receipt through the pipeline and returns
// the final item list. A receipt that yields no extractable items is a
// successful empty result; an error return means the request itself failed.
func (s *Service) ProcessReceipt(ctx context.Context, filename string, data []byte, contentType string) ([]LineItem, error) {
	if err := s.sem.Acquire(ctx, 1); err != nil {
		return nil, fmt.Errorf("acquiring pipeline slot: %w", err)
	}
	defer s.sem.Release(1)

	id := s.idGenerator.Generate()
	start := s.timeSource.Now()

	ext := strings.ToLower(filepath.Ext(filename))
	if ext == "" {
		ext = ".jpg"
	}
	storedName := fmt.Sprintf("%s_%s%s", start.Format("20060102_150405"), id, ext)

	slog.Info("Processing receipt", "request_id", id, "filename", filename, "stored_as", storedName, "size", len(data))

	// Persist the upload first so the original is recoverable even when
	// extraction fails.
	storedPath, err := s.storage.Save(storedName, data)
	if err != nil {
		slog.Error("Failed to persist upload", "request_id", id, "error", err)
		s.record(id, start, filename, storedName, nil, "", err)
		return nil, fmt.Errorf("saving upload: %w", err)
	}

	result := s.parser.Parse(ctx, data, contentType)
	slog.Info("Extraction finished", "request_id", id, "reason", result.Reason, "items", len(result.Items))

	items := make([]LineItem, len(result.Items))
	for i, it := range result.Items {
		items[i] = LineItem{ProductName: it.ProductName, Price: it.Price, Quantity: it.Quantity}
	}

	// Pre-categorization snapshot for the debug summary.
	raw := make([]LineItem, len(items))
	copy(raw, items)

	if len(items) > 0 {
		names := make([]string, len(items))
		for i, it := range items {
			names[i] = it.ProductName
		}

		slog.Info("Categorizing items", "request_id", id, "count", len(items))
		categories, err := s.categorizer.Categorize(ctx, names)
		if err != nil {
			slog.Error("Categorization failed", "request_id", id, "error", err)
			s.record(id, start, filename, storedName, nil, result.Reason, err)
			return nil, fmt.Errorf("categorizing items: %w", err)
		}
		for i := range items {
			items[i].CategoryName = categories[i]
		}
	}

	summaryName := fmt.Sprintf("%s_%s_summary.txt", start.Format("20060102_150405"), id)
	s.emitSummary(id, storedPath, raw, items, s.storage.Path(summaryName))

	s.record(id, start, filename, storedName, items, result.Reason, nil)
	return items, nil
}

// emitSummary hands a visualization job to the worker without blocking; a
// full queue drops the job.
func (s *Service) emitSummary(id, originalPath string, raw, final []LineItem, outputPath string) {
	job := summaryJob{
		requestID:    id,
		originalPath: originalPath,
		outputPath:   outputPath,
		raw:          raw,
		final:        final,
	}
	select {
	case s.jobs <- job:
	default:
		slog.Warn("Visualization queue full, dropping summary", "request_id", id)
	}
}

// record appends the journal entry for a finished request. Journal failures
// are logged only; the journal is a debug aid, not part of the result.
func (s *Service) record(id string, start time.Time, sourceFile, storedFile string, items []LineItem, reason extraction.Reason, failure error) {
	entry := &JournalEntry{
		ID:         id,
		ReceivedAt: start,
		SourceFile: sourceFile,
		StoredFile: storedFile,
		ItemCount:  len(items),
		DurationMS: s.timeSource.Now().Sub(start).Milliseconds(),
		Status:     StatusCompleted,
	}
	if reason != "" && reason != extraction.ReasonOK {
		entry.Extraction = string(reason)
	}
	if failure != nil {
		entry.Status = StatusFailed
		entry.Failure = failure.Error()
	}

	if err := s.journal.Append(entry); err != nil {
		slog.Warn("Failed to append journal entry", "request_id", id, "error", err)
	}
}

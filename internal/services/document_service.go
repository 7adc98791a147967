package services

import (
	"archive/zip"
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sort"
	"strconv"
	"strings"
	"sync"

	"lab-reception/internal/backend"
	"lab-reception/internal/metrics"
	"lab-reception/internal/selection"

	"go.uber.org/zap"
)

const bulkWorkers = 5

// ErrNoPDF is returned for document kinds without a PDF rendering.
var ErrNoPDF = errors.New("Este documento no tiene versión PDF.")

// Archiver keeps a copy of every downloaded document.
type Archiver interface {
	Put(ctx context.Context, name string, data []byte, contentType string) (string, error)
}

// Document is a downloaded PDF.
type Document struct {
	SampleID int
	Filename string
	Data     []byte
	// ArchiveKey is the object key of the archived copy, empty when not archived.
	ArchiveKey string
}

type DocumentService struct {
	Backend  *backend.Client
	Archiver Archiver
	audit    audit
	logger   *zap.Logger
}

// NewDocumentService builds the service. archiver may be nil.
func NewDocumentService(client *backend.Client, archiver Archiver, recorder ActionRecorder, logger *zap.Logger) *DocumentService {
	if logger == nil {
		logger = zap.NewNop()
	}
	logger = logger.Named("documents")
	return &DocumentService{
		Backend:  client,
		Archiver: archiver,
		audit:    audit{recorder: recorder, logger: logger},
		logger:   logger,
	}
}

// PDF downloads a document of one sample and names it after the sample code.
func (s *DocumentService) PDF(ctx context.Context, kind backend.DocumentKind, sampleID int) (*Document, error) {
	if !kind.Downloadable() {
		return nil, ErrNoPDF
	}
	doc, err := s.download(ctx, kind, sampleID)
	s.audit.record(ctx, "download", string(kind), sampleID, "", err)
	if err != nil {
		metrics.ExportsTotal.WithLabelValues(string(kind), "pdf", metrics.OutcomeError).Inc()
		return nil, err
	}
	metrics.ExportsTotal.WithLabelValues(string(kind), "pdf", metrics.OutcomeOK).Inc()
	s.archive(ctx, doc)
	return doc, nil
}

func (s *DocumentService) download(ctx context.Context, kind backend.DocumentKind, sampleID int) (*Document, error) {
	data, err := s.Backend.DocumentPDF(ctx, kind, sampleID)
	if err != nil {
		return nil, err
	}
	code := ""
	if m, err := s.Backend.GetSample(ctx, sampleID); err == nil {
		code = m.SampleCode
	} else {
		s.logger.Debug("sample code unavailable, naming by id", zap.Int("sample_id", sampleID), zap.Error(err))
	}
	return &Document{SampleID: sampleID, Filename: kind.Filename(sampleID, code), Data: data}, nil
}

// archive stores a copy; failures are logged and never fail the download.
func (s *DocumentService) archive(ctx context.Context, doc *Document) {
	if s.Archiver == nil {
		return
	}
	key, err := s.Archiver.Put(ctx, doc.Filename, doc.Data, "application/pdf")
	if err != nil {
		s.logger.Warn("document archive failed", zap.String("filename", doc.Filename), zap.Error(err))
		return
	}
	doc.ArchiveKey = key
}

// Data returns the JSON data behind a document.
func (s *DocumentService) Data(ctx context.Context, kind backend.DocumentKind, sampleID int) (json.RawMessage, error) {
	return s.Backend.Document(ctx, kind, sampleID)
}

// BulkZip downloads the document of every sample in parallel and packs the
// successful ones into a ZIP. Repeated ids are downloaded once. Samples whose
// download failed are returned by id.
func (s *DocumentService) BulkZip(ctx context.Context, kind backend.DocumentKind, sampleIDs []int) ([]byte, []int, error) {
	if !kind.Downloadable() {
		return nil, nil, ErrNoPDF
	}
	sampleIDs = selection.New(sampleIDs...).IDs()
	if len(sampleIDs) == 0 {
		return nil, nil, fmt.Errorf("no samples selected")
	}

	type pdfResult struct {
		id  int
		doc *Document
		err error
	}

	jobs := make(chan int, len(sampleIDs))
	results := make(chan pdfResult, len(sampleIDs))

	var wg sync.WaitGroup
	workers := bulkWorkers
	if len(sampleIDs) < workers {
		workers = len(sampleIDs)
	}
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for id := range jobs {
				doc, err := s.download(ctx, kind, id)
				results <- pdfResult{id: id, doc: doc, err: err}
			}
		}()
	}

	for _, id := range sampleIDs {
		jobs <- id
	}
	close(jobs)

	go func() {
		wg.Wait()
		close(results)
	}()

	var (
		docs   []*Document
		failed []int
	)
	for r := range results {
		if r.err != nil {
			s.logger.Warn("bulk document failed", zap.Int("sample_id", r.id), zap.Error(r.err))
			failed = append(failed, r.id)
			continue
		}
		docs = append(docs, r.doc)
	}
	sort.Ints(failed)
	sort.Slice(docs, func(i, j int) bool {
		if docs[i].Filename != docs[j].Filename {
			return docs[i].Filename < docs[j].Filename
		}
		return docs[i].SampleID < docs[j].SampleID
	})

	if len(docs) == 0 {
		metrics.ExportsTotal.WithLabelValues(string(kind), "zip", metrics.OutcomeError).Inc()
		return nil, failed, fmt.Errorf("no document could be downloaded")
	}

	var buf bytes.Buffer
	zw := zip.NewWriter(&buf)
	names := make(map[string]struct{}, len(docs))
	for _, d := range docs {
		if _, taken := names[d.Filename]; taken {
			d.Filename = strings.TrimSuffix(d.Filename, ".pdf") + "_" + strconv.Itoa(d.SampleID) + ".pdf"
		}
		names[d.Filename] = struct{}{}
		fw, err := zw.Create(d.Filename)
		if err != nil {
			return nil, failed, fmt.Errorf("zip %s: %w", d.Filename, err)
		}
		if _, err := fw.Write(d.Data); err != nil {
			return nil, failed, fmt.Errorf("zip %s: %w", d.Filename, err)
		}
	}
	if err := zw.Close(); err != nil {
		return nil, failed, err
	}
	metrics.ExportsTotal.WithLabelValues(string(kind), "zip", metrics.OutcomeOK).Inc()
	s.audit.record(ctx, "bulk_download", string(kind), 0, fmt.Sprintf("%d documents", len(docs)), nil)
	return buf.Bytes(), failed, nil
}

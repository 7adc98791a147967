package services

import (
	"context"
	"fmt"
	"regexp"
	"sort"
	"strconv"
	"strings"
	"time"

	"lab-reception/internal/backend"
	"lab-reception/internal/icons"
	"lab-reception/internal/lifecycle"
	"lab-reception/internal/models"
	"lab-reception/internal/selection"
	"lab-reception/internal/summary"
	"lab-reception/internal/timeutil"
	"lab-reception/internal/validate"

	"go.uber.org/zap"
)

// Sample list views
const (
	SampleViewActive   = "active"
	SampleViewArchived = "archived"
	SampleViewAll      = "all"
)

var sampleCodeRegex = regexp.MustCompile(`^LAB-(\d{4})-(\d+)$`)

// ActionButton is a row action with its icon class.
type ActionButton struct {
	Action lifecycle.Action `json:"action"`
	Icon   string           `json:"icon"`
}

// SampleRow is a sample as rendered in the list and detail views.
type SampleRow struct {
	models.Sample
	Classification  lifecycle.Classification `json:"classification"`
	Actions         []ActionButton           `json:"actions"`
	CollectionLabel string                   `json:"collection_label"`
}

type SampleListView = ListView[SampleRow, summary.SampleCounts]

// HistoryEntry is one step of a sample's traceability timeline.
type HistoryEntry struct {
	StatusID lifecycle.StatusID `json:"status_id"`
	Label    string             `json:"label"`
	Date     string             `json:"date"`
	Comments string             `json:"comments,omitempty"`
}

// SampleHistory is the status summary of one sample.
type SampleHistory struct {
	Sample             SampleRow      `json:"sample"`
	Entries            []HistoryEntry `json:"entries"`
	TotalStatusChanges int            `json:"total_status_changes"`
	GeneratedDate      string         `json:"generated_date"`
}

type SampleService struct {
	Backend *backend.Client
	Catalog *CatalogService
	audit   audit
	logger  *zap.Logger
	now     func() time.Time
}

func NewSampleService(client *backend.Client, catalog *CatalogService, recorder ActionRecorder, logger *zap.Logger) *SampleService {
	if logger == nil {
		logger = zap.NewNop()
	}
	logger = logger.Named("samples")
	return &SampleService{
		Backend: client,
		Catalog: catalog,
		audit:   audit{recorder: recorder, logger: logger},
		logger:  logger,
		now:     timeutil.Now,
	}
}

func newSampleRow(s models.Sample, typeNames map[int]string) SampleRow {
	if s.SampleTypeName == "" {
		if name, ok := typeNames[s.SampleTypeID]; ok {
			s.SampleTypeName = name
		} else {
			s.SampleTypeName = unknownName
		}
	}
	c := lifecycle.Classify(s.CurrentStatusID, s.IsDeleted.BoolPtr())
	actions := c.Actions()
	buttons := make([]ActionButton, 0, len(actions))
	for _, a := range actions {
		buttons = append(buttons, ActionButton{Action: a, Icon: icons.ForAction(a)})
	}
	return SampleRow{
		Sample:          s,
		Classification:  c,
		Actions:         buttons,
		CollectionLabel: timeutil.FormatDisplay(s.CollectionDate),
	}
}

func (s *SampleService) typeNames(ctx context.Context) map[int]string {
	names, err := s.Catalog.sampleTypeNames(ctx)
	if err != nil {
		s.logger.Warn("sample types unavailable", zap.Error(err))
	}
	return names
}

// List reloads the samples and builds the list page.
func (s *SampleService) List(ctx context.Context, q ListQuery) (*SampleListView, error) {
	samples, err := s.Backend.ListSamples(ctx)
	if err != nil {
		return nil, fmt.Errorf("list samples: %w", err)
	}
	unique := summary.Dedupe(samples, func(m models.Sample) int { return m.SampleID })
	names := s.typeNames(ctx)

	rows := make([]SampleRow, 0, len(unique))
	ids := make([]int, 0, len(unique))
	for _, m := range unique {
		row := newSampleRow(m, names)
		if !sampleVisible(row, q.View) {
			continue
		}
		if !matches(q.Search, row.SampleCode, row.CollectionLocation, row.SampleTypeName, row.Classification.StatusLabel) {
			continue
		}
		rows = append(rows, row)
		ids = append(ids, row.SampleID)
	}
	sort.SliceStable(rows, func(i, j int) bool { return rows[i].SampleID > rows[j].SampleID })

	sel := selection.Reconcile(q.Selected, q.Fingerprint, ids)
	counts := summary.Samples(unique, len(sel.Selected))
	return &SampleListView{Items: rows, Counts: counts, Cards: counts.Cards(), Selection: sel}, nil
}

func sampleVisible(row SampleRow, view string) bool {
	switch view {
	case SampleViewAll:
		return true
	case SampleViewArchived:
		return row.Classification.IsArchived
	default:
		return !row.Classification.IsArchived
	}
}

// Get returns one sample with its classification.
func (s *SampleService) Get(ctx context.Context, id int) (*SampleRow, error) {
	m, err := s.Backend.GetSample(ctx, id)
	if err != nil {
		return nil, err
	}
	row := newSampleRow(*m, s.typeNames(ctx))
	return &row, nil
}

// NextSampleCode returns LAB-{year}-{NNN}, one past the highest number used this year.
func NextSampleCode(samples []models.Sample, year int) string {
	highest := 0
	for _, m := range samples {
		match := sampleCodeRegex.FindStringSubmatch(strings.TrimSpace(m.SampleCode))
		if match == nil || match[1] != strconv.Itoa(year) {
			continue
		}
		if n, err := strconv.Atoi(match[2]); err == nil && n > highest {
			highest = n
		}
	}
	return fmt.Sprintf("LAB-%d-%03d", year, highest+1)
}

func normalizeSample(in models.SampleInput) models.SampleInput {
	in.SampleCode = strings.TrimSpace(in.SampleCode)
	in.CollectionDate = timeutil.DateOnly(strings.TrimSpace(in.CollectionDate))
	in.CollectionLocation = strings.TrimSpace(in.CollectionLocation)
	return in
}

// Create registers a sample, generating the code when none is given, and reloads the list.
func (s *SampleService) Create(ctx context.Context, in models.SampleInput, q ListQuery) (*models.Sample, *SampleListView, error) {
	in = normalizeSample(in)
	if err := validate.Sample(in); err != nil {
		return nil, nil, err
	}
	if in.SampleCode == "" {
		existing, err := s.Backend.ListSamples(ctx)
		if err != nil {
			return nil, nil, fmt.Errorf("generate sample code: %w", err)
		}
		in.SampleCode = NextSampleCode(existing, s.now().Year())
	}

	created, err := s.Backend.CreateSample(ctx, in)
	s.audit.record(ctx, "create", "sample", createdID(created), in.SampleCode, err)
	if err != nil {
		return nil, nil, err
	}
	view, err := s.List(ctx, q)
	return created, view, err
}

func createdID(m *models.Sample) int {
	if m == nil {
		return 0
	}
	return m.SampleID
}

func (s *SampleService) Update(ctx context.Context, id int, in models.SampleInput, q ListQuery) (*SampleListView, error) {
	in = normalizeSample(in)
	if err := validate.Sample(in); err != nil {
		return nil, err
	}
	err := s.Backend.UpdateSample(ctx, id, in)
	s.audit.record(ctx, "update", "sample", id, in.SampleCode, err)
	if err != nil {
		return nil, err
	}
	return s.List(ctx, q)
}

// require fetches the sample and checks the action is offered in its current state.
func (s *SampleService) require(ctx context.Context, id int, action lifecycle.Action) error {
	m, err := s.Backend.GetSample(ctx, id)
	if err != nil {
		return err
	}
	if !lifecycle.Classify(m.CurrentStatusID, m.IsDeleted.BoolPtr()).Allows(action) {
		return ErrActionNotAllowed
	}
	return nil
}

// MarkAnalyzed moves a pending sample to ANALIZADA.
func (s *SampleService) MarkAnalyzed(ctx context.Context, id int, comments string, q ListQuery) (*SampleListView, error) {
	if err := s.require(ctx, id, lifecycle.ActionMarkAnalyzed); err != nil {
		return nil, err
	}
	err := s.Backend.MarkSampleAnalyzed(ctx, id, strings.TrimSpace(comments))
	s.audit.record(ctx, "mark_analyzed", "sample", id, "", err)
	if err != nil {
		return nil, err
	}
	return s.List(ctx, q)
}

// Archive is the soft delete of a sample.
func (s *SampleService) Archive(ctx context.Context, id int, comments string, q ListQuery) (*SampleListView, error) {
	if err := s.require(ctx, id, lifecycle.ActionDelete); err != nil {
		return nil, err
	}
	err := s.Backend.ArchiveSample(ctx, id, strings.TrimSpace(comments))
	s.audit.record(ctx, "archive", "sample", id, strings.TrimSpace(comments), err)
	if err != nil {
		return nil, err
	}
	return s.List(ctx, q)
}

// Restore returns an archived sample to REGISTRADA. The backend decides
// whether the sample is archived and reports the reason when it is not.
func (s *SampleService) Restore(ctx context.Context, id int, q ListQuery) (*SampleListView, error) {
	err := s.Backend.RestoreSample(ctx, id)
	s.audit.record(ctx, "restore", "sample", id, "", err)
	if err != nil {
		return nil, err
	}
	return s.List(ctx, q)
}

// History returns the traceability timeline of a sample.
func (s *SampleService) History(ctx context.Context, id int) (*SampleHistory, error) {
	var doc models.StatusSummary
	if err := s.Backend.DocumentInto(ctx, backend.StatusSummary, id, &doc); err != nil {
		return nil, err
	}
	if doc.Sample == nil {
		m, err := s.Backend.GetSample(ctx, id)
		if err != nil {
			return nil, err
		}
		doc.Sample = m
	}

	entries := make([]HistoryEntry, 0, len(doc.Traceability))
	for _, ch := range doc.Traceability {
		status := lifecycle.StatusID(ch.SampleStatusID)
		entries = append(entries, HistoryEntry{
			StatusID: status,
			Label:    status.Label(),
			Date:     ch.Date(),
			Comments: ch.Comments,
		})
	}
	total := doc.TotalStatusChanges
	if total == 0 {
		total = len(entries)
	}
	return &SampleHistory{
		Sample:             newSampleRow(*doc.Sample, s.typeNames(ctx)),
		Entries:            entries,
		TotalStatusChanges: total,
		GeneratedDate:      doc.GeneratedDate,
	}, nil
}

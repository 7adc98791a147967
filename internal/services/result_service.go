package services

import (
	"context"
	"fmt"
	"sort"
	"strconv"
	"strings"
	"time"

	"lab-reception/internal/backend"
	"lab-reception/internal/models"
	"lab-reception/internal/selection"
	"lab-reception/internal/summary"
	"lab-reception/internal/timeutil"
	"lab-reception/internal/validate"

	"go.uber.org/zap"
)

// ResultRow is an analysis result as rendered in the list.
type ResultRow struct {
	models.AnalysisResult
	ValueLabel string `json:"value_label"`
	DateLabel  string `json:"date_label"`
}

type ResultListView = ListView[ResultRow, summary.ResultCounts]

type ResultService struct {
	Backend *backend.Client
	Catalog *CatalogService
	audit   audit
	logger  *zap.Logger
	now     func() time.Time
}

func NewResultService(client *backend.Client, catalog *CatalogService, recorder ActionRecorder, logger *zap.Logger) *ResultService {
	if logger == nil {
		logger = zap.NewNop()
	}
	logger = logger.Named("results")
	return &ResultService{
		Backend: client,
		Catalog: catalog,
		audit:   audit{recorder: recorder, logger: logger},
		logger:  logger,
		now:     timeutil.Now,
	}
}

// valueLabel renders result_value, which the backend may send as number or string.
func valueLabel(v any) string {
	switch t := v.(type) {
	case nil:
		return ""
	case string:
		return t
	case float64:
		return strconv.FormatFloat(t, 'f', -1, 64)
	default:
		return fmt.Sprint(t)
	}
}

func newResultRow(r models.AnalysisResult, params map[int]models.AnalysisParameter) ResultRow {
	if p, ok := params[r.AnalysisParameterID]; ok {
		if r.ParameterName == "" {
			r.ParameterName = p.ParameterName
		}
		if r.Unit == "" {
			r.Unit = p.Unit
		}
	}
	if r.ParameterName == "" {
		r.ParameterName = unknownName
	}
	return ResultRow{
		AnalysisResult: r,
		ValueLabel:     valueLabel(r.ResultValue),
		DateLabel:      timeutil.FormatDisplay(r.AnalysisDate),
	}
}

// List reloads every result, deleted ones included, so the counters can
// report them. Deleted rows are shown only with q.IncludeDeleted.
func (s *ResultService) List(ctx context.Context, q ListQuery) (*ResultListView, error) {
	results, err := s.Backend.ListResults(ctx, true)
	if err != nil {
		return nil, fmt.Errorf("list results: %w", err)
	}
	unique := summary.Dedupe(results, func(r models.AnalysisResult) int { return r.AnalysisResultID })
	params, err := s.Catalog.parametersByID(ctx)
	if err != nil {
		s.logger.Warn("analysis parameters unavailable", zap.Error(err))
	}

	rows := make([]ResultRow, 0, len(unique))
	ids := make([]int, 0, len(unique))
	for _, r := range unique {
		if bool(r.IsDeleted) && !q.IncludeDeleted {
			continue
		}
		row := newResultRow(r, params)
		if !matches(q.Search, row.ParameterName, row.ValueLabel, strconv.Itoa(row.SampleID)) {
			continue
		}
		rows = append(rows, row)
		ids = append(ids, r.AnalysisResultID)
	}
	sort.SliceStable(rows, func(i, j int) bool { return rows[i].AnalysisResultID > rows[j].AnalysisResultID })

	sel := selection.Reconcile(q.Selected, q.Fingerprint, ids)
	counts := summary.Results(unique, len(sel.Selected), s.now())
	return &ResultListView{Items: rows, Counts: counts, Cards: counts.Cards(), Selection: sel}, nil
}

func normalizeResult(in models.AnalysisResultInput) models.AnalysisResultInput {
	in.ResultValue = strings.TrimSpace(in.ResultValue)
	in.AnalysisDate = timeutil.DateOnly(strings.TrimSpace(in.AnalysisDate))
	in.Comments = strings.TrimSpace(in.Comments)
	return in
}

func (s *ResultService) Create(ctx context.Context, in models.AnalysisResultInput, q ListQuery) (*models.AnalysisResult, *ResultListView, error) {
	in = normalizeResult(in)
	if err := validate.Result(in); err != nil {
		return nil, nil, err
	}
	created, err := s.Backend.CreateResult(ctx, in)
	id := 0
	if created != nil {
		id = created.AnalysisResultID
	}
	s.audit.record(ctx, "create", "result", id, fmt.Sprintf("sample %d", in.SampleID), err)
	if err != nil {
		return nil, nil, err
	}
	view, err := s.List(ctx, q)
	return created, view, err
}

func (s *ResultService) Update(ctx context.Context, id int, in models.AnalysisResultInput, q ListQuery) (*ResultListView, error) {
	in = normalizeResult(in)
	if err := validate.Result(in); err != nil {
		return nil, err
	}
	err := s.Backend.UpdateResult(ctx, id, in)
	s.audit.record(ctx, "update", "result", id, "", err)
	if err != nil {
		return nil, err
	}
	return s.List(ctx, q)
}

// Delete marks the result deleted. The comment is optional.
func (s *ResultService) Delete(ctx context.Context, id int, comments string, q ListQuery) (*ResultListView, error) {
	comments = strings.TrimSpace(comments)
	err := s.Backend.DeleteResult(ctx, id, comments)
	s.audit.record(ctx, "delete", "result", id, comments, err)
	if err != nil {
		return nil, err
	}
	return s.List(ctx, q)
}

func (s *ResultService) Restore(ctx context.Context, id int, q ListQuery) (*ResultListView, error) {
	err := s.Backend.RestoreResult(ctx, id)
	s.audit.record(ctx, "restore", "result", id, "", err)
	if err != nil {
		return nil, err
	}
	return s.List(ctx, q)
}

// BySample returns the live results of one sample.
func (s *ResultService) BySample(ctx context.Context, sampleID int) ([]ResultRow, error) {
	results, err := s.Backend.ListResultsBySample(ctx, sampleID, false)
	if err != nil {
		return nil, err
	}
	params, err := s.Catalog.parametersByID(ctx)
	if err != nil {
		s.logger.Warn("analysis parameters unavailable", zap.Error(err))
	}
	rows := make([]ResultRow, 0, len(results))
	for _, r := range summary.Dedupe(results, func(r models.AnalysisResult) int { return r.AnalysisResultID }) {
		if r.IsDeleted {
			continue
		}
		rows = append(rows, newResultRow(r, params))
	}
	return rows, nil
}

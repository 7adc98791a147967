package services

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"lab-reception/internal/backend"
	"lab-reception/internal/cache"
	"lab-reception/internal/models"
	"lab-reception/internal/validate"

	"go.uber.org/zap"
)

// Catalog kinds, also used as cache key suffixes and URL segments.
const (
	CatalogSampleTypes        = "sample-types"
	CatalogServiceTypes       = "service-types"
	CatalogSampleStatuses     = "sample-statuses"
	CatalogAnalysisParameters = "analysis-parameters"
)

// ErrUnknownCatalog is returned for a kind outside the four reference catalogs.
var ErrUnknownCatalog = errors.New("catálogo desconocido")

// CatalogService serves the reference catalogs through the cache.
type CatalogService struct {
	Backend *backend.Client
	audit   audit
}

func NewCatalogService(client *backend.Client, recorder ActionRecorder, logger *zap.Logger) *CatalogService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &CatalogService{
		Backend: client,
		audit:   audit{recorder: recorder, logger: logger.Named("catalog")},
	}
}

// cachedList returns the cached catalog or loads and caches it.
func cachedList[T any](ctx context.Context, kind string, fetch func(context.Context) ([]T, error)) ([]T, error) {
	var out []T
	if cache.GetJSON(ctx, cache.CatalogKey(kind), &out) {
		return out, nil
	}
	out, err := fetch(ctx)
	if err != nil {
		return nil, fmt.Errorf("load %s: %w", kind, err)
	}
	if out == nil {
		out = []T{}
	}
	cache.SetJSON(ctx, cache.CatalogKey(kind), out)
	return out, nil
}

func (s *CatalogService) SampleTypes(ctx context.Context) ([]models.SampleType, error) {
	return cachedList(ctx, CatalogSampleTypes, s.Backend.ListSampleTypes)
}

func (s *CatalogService) ServiceTypes(ctx context.Context) ([]models.ServiceType, error) {
	return cachedList(ctx, CatalogServiceTypes, s.Backend.ListServiceTypes)
}

// ActiveServiceTypes drops service types explicitly marked inactive.
func (s *CatalogService) ActiveServiceTypes(ctx context.Context) ([]models.ServiceType, error) {
	all, err := s.ServiceTypes(ctx)
	if err != nil {
		return nil, err
	}
	active := make([]models.ServiceType, 0, len(all))
	for _, st := range all {
		if st.IsActive == nil || *st.IsActive {
			active = append(active, st)
		}
	}
	return active, nil
}

func (s *CatalogService) SampleStatuses(ctx context.Context) ([]models.SampleStatus, error) {
	return cachedList(ctx, CatalogSampleStatuses, s.Backend.ListSampleStatuses)
}

func (s *CatalogService) AnalysisParameters(ctx context.Context) ([]models.AnalysisParameter, error) {
	return cachedList(ctx, CatalogAnalysisParameters, s.Backend.ListAnalysisParameters)
}

// Get returns one catalog by kind.
func (s *CatalogService) Get(ctx context.Context, kind string) (any, error) {
	switch kind {
	case CatalogSampleTypes:
		return s.SampleTypes(ctx)
	case CatalogServiceTypes:
		return s.ServiceTypes(ctx)
	case CatalogSampleStatuses:
		return s.SampleStatuses(ctx)
	case CatalogAnalysisParameters:
		return s.AnalysisParameters(ctx)
	}
	return nil, ErrUnknownCatalog
}

// sampleTypeNames maps sample_type_id to type_name.
func (s *CatalogService) sampleTypeNames(ctx context.Context) (map[int]string, error) {
	types, err := s.SampleTypes(ctx)
	if err != nil {
		return map[int]string{}, err
	}
	names := make(map[int]string, len(types))
	for _, t := range types {
		names[t.SampleTypeID] = t.TypeName
	}
	return names, nil
}

func (s *CatalogService) serviceTypesByID(ctx context.Context) (map[int]models.ServiceType, error) {
	types, err := s.ServiceTypes(ctx)
	if err != nil {
		return map[int]models.ServiceType{}, err
	}
	byID := make(map[int]models.ServiceType, len(types))
	for _, t := range types {
		byID[t.ServiceTypeID] = t
	}
	return byID, nil
}

func (s *CatalogService) parametersByID(ctx context.Context) (map[int]models.AnalysisParameter, error) {
	params, err := s.AnalysisParameters(ctx)
	if err != nil {
		return map[int]models.AnalysisParameter{}, err
	}
	byID := make(map[int]models.AnalysisParameter, len(params))
	for _, p := range params {
		byID[p.AnalysisParameterID] = p
	}
	return byID, nil
}

// RegisterPreWarm registers every catalog with the cache pre-warmer.
func (s *CatalogService) RegisterPreWarm() {
	for _, kind := range []string{CatalogSampleTypes, CatalogServiceTypes, CatalogSampleStatuses, CatalogAnalysisParameters} {
		cache.RegisterPreWarm(cache.CatalogKey(kind), s.fetcher(kind))
	}
}

// fetcher loads a catalog straight from the backend, bypassing the cache.
func (s *CatalogService) fetcher(kind string) cache.PreWarmCallback {
	return func(ctx context.Context) ([]byte, error) {
		var (
			v   any
			err error
		)
		switch kind {
		case CatalogSampleTypes:
			v, err = s.Backend.ListSampleTypes(ctx)
		case CatalogServiceTypes:
			v, err = s.Backend.ListServiceTypes(ctx)
		case CatalogSampleStatuses:
			v, err = s.Backend.ListSampleStatuses(ctx)
		case CatalogAnalysisParameters:
			v, err = s.Backend.ListAnalysisParameters(ctx)
		default:
			return nil, ErrUnknownCatalog
		}
		if err != nil {
			return nil, err
		}
		return json.Marshal(v)
	}
}

// mutate runs a catalog mutation, then drops the cached catalog and reloads it.
func (s *CatalogService) mutate(ctx context.Context, kind, action string, id int, call func() error) (any, error) {
	err := call()
	s.audit.record(ctx, action, kind, id, "catalog "+action, err)
	if err != nil {
		return nil, err
	}
	cache.InvalidateCatalogCaches(ctx, kind)
	return s.Get(ctx, kind)
}

func (s *CatalogService) SaveSampleType(ctx context.Context, id int, in models.SampleType) (any, error) {
	if err := validate.SampleType(in); err != nil {
		return nil, err
	}
	if id == 0 {
		return s.mutate(ctx, CatalogSampleTypes, "create", 0, func() error { return s.Backend.CreateSampleType(ctx, in) })
	}
	return s.mutate(ctx, CatalogSampleTypes, "update", id, func() error { return s.Backend.UpdateSampleType(ctx, id, in) })
}

func (s *CatalogService) DeleteSampleType(ctx context.Context, id int) (any, error) {
	return s.mutate(ctx, CatalogSampleTypes, "delete", id, func() error { return s.Backend.DeleteSampleType(ctx, id) })
}

func (s *CatalogService) SaveServiceType(ctx context.Context, id int, in models.ServiceType) (any, error) {
	if err := validate.ServiceType(in); err != nil {
		return nil, err
	}
	if id == 0 {
		return s.mutate(ctx, CatalogServiceTypes, "create", 0, func() error { return s.Backend.CreateServiceType(ctx, in) })
	}
	return s.mutate(ctx, CatalogServiceTypes, "update", id, func() error { return s.Backend.UpdateServiceType(ctx, id, in) })
}

func (s *CatalogService) SetServiceTypeActive(ctx context.Context, id int, active bool) (any, error) {
	action := "deactivate"
	if active {
		action = "activate"
	}
	return s.mutate(ctx, CatalogServiceTypes, action, id, func() error { return s.Backend.SetServiceTypeActive(ctx, id, active) })
}

func (s *CatalogService) SaveAnalysisParameter(ctx context.Context, id int, in models.AnalysisParameter) (any, error) {
	if err := validate.AnalysisParameter(in); err != nil {
		return nil, err
	}
	if id == 0 {
		return s.mutate(ctx, CatalogAnalysisParameters, "create", 0, func() error { return s.Backend.CreateAnalysisParameter(ctx, in) })
	}
	return s.mutate(ctx, CatalogAnalysisParameters, "update", id, func() error { return s.Backend.UpdateAnalysisParameter(ctx, id, in) })
}

func (s *CatalogService) DeleteAnalysisParameter(ctx context.Context, id int) (any, error) {
	return s.mutate(ctx, CatalogAnalysisParameters, "delete", id, func() error { return s.Backend.DeleteAnalysisParameter(ctx, id) })
}

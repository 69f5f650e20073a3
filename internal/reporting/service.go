// Package reporting turns a report request into a validated, cached and
// archived report envelope.
package reporting

import (
	"context"
	"encoding/json"
	"math/rand/v2"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/samber/lo"
	"go.opentelemetry.io/otel/attribute"

	"placement-analytics/internal/analytics"
	"placement-analytics/internal/common/errors"
	"placement-analytics/internal/common/logger"
	"placement-analytics/internal/common/metrics"
	"placement-analytics/internal/common/observability"
	"placement-analytics/internal/common/validation"
	"placement-analytics/internal/models"
)

// MaxComparisonLimit caps how many drives a comparison may include.
const MaxComparisonLimit = 50

type DatasetLoader interface {
	Load(ctx context.Context, scope models.Scope) (*models.Dataset, error)
}

type Cache interface {
	Get(ctx context.Context, kind models.ReportKind, scope models.Scope) (*models.ReportEnvelope, bool, error)
	Put(ctx context.Context, env *models.ReportEnvelope) error
}

type SnapshotWriter interface {
	Put(ctx context.Context, env *models.ReportEnvelope) error
}

// Options carries the optional collaborators of a Service. Nil Cache,
// Snapshots or Schemas switch that step off.
type Options struct {
	Cache           Cache
	Snapshots       SnapshotWriter
	Schemas         *validation.SchemaSet
	Observability   *observability.Observability
	Clock           func() time.Time
	TrendSeed       int64
	ComparisonLimit int
}

type Service struct {
	loader          DatasetLoader
	cache           Cache
	snapshots       SnapshotWriter
	schemas         *validation.SchemaSet
	obs             *observability.Observability
	clock           func() time.Time
	trendSeed       int64
	comparisonLimit int
	logger          logger.Logger
}

// Request asks for one report. Refresh bypasses the cache lookup; the fresh
// report still replaces the cached one.
type Request struct {
	Kind    models.ReportKind
	Scope   models.Scope
	Refresh bool
}

func NewService(loader DatasetLoader, log logger.Logger, opts Options) *Service {
	s := &Service{
		loader:          loader,
		cache:           opts.Cache,
		snapshots:       opts.Snapshots,
		schemas:         opts.Schemas,
		obs:             opts.Observability,
		clock:           opts.Clock,
		trendSeed:       opts.TrendSeed,
		comparisonLimit: opts.ComparisonLimit,
		logger:          log.WithFields(map[string]interface{}{"component": "reporting"}),
	}
	if s.obs == nil {
		s.obs = observability.NewNoop()
	}
	if s.clock == nil {
		s.clock = time.Now
	}
	if s.comparisonLimit <= 0 {
		s.comparisonLimit = analytics.DefaultComparisonLimit
	}
	return s
}

// Company reports cover every drive of the company. A non-empty instituteID
// restricts them to the drives run at that institute.
func (s *Service) CompanyAnalytics(ctx context.Context, companyID, instituteID string, refresh bool) (*models.ReportEnvelope, error) {
	return s.Generate(ctx, Request{Kind: models.ReportCompanyAnalytics, Scope: models.Scope{CompanyID: companyID, InstituteID: instituteID}, Refresh: refresh})
}

func (s *Service) HiringTrends(ctx context.Context, companyID, instituteID string, refresh bool) (*models.ReportEnvelope, error) {
	return s.Generate(ctx, Request{Kind: models.ReportHiringTrends, Scope: models.Scope{CompanyID: companyID, InstituteID: instituteID}, Refresh: refresh})
}

func (s *Service) SkillDemand(ctx context.Context, companyID, instituteID string, refresh bool) (*models.ReportEnvelope, error) {
	return s.Generate(ctx, Request{Kind: models.ReportSkillDemand, Scope: models.Scope{CompanyID: companyID, InstituteID: instituteID}, Refresh: refresh})
}

func (s *Service) CandidateSources(ctx context.Context, companyID, instituteID string, refresh bool) (*models.ReportEnvelope, error) {
	return s.Generate(ctx, Request{Kind: models.ReportCandidateSources, Scope: models.Scope{CompanyID: companyID, InstituteID: instituteID}, Refresh: refresh})
}

func (s *Service) DriveAnalytics(ctx context.Context, driveID string, refresh bool) (*models.ReportEnvelope, error) {
	return s.Generate(ctx, Request{Kind: models.ReportDriveAnalytics, Scope: models.Scope{DriveID: driveID}, Refresh: refresh})
}

// ComparativeDrives compares an institute's drives. year 0 keeps every year
// and limit 0 uses the configured default.
func (s *Service) ComparativeDrives(ctx context.Context, instituteID string, year, limit int, refresh bool) (*models.ReportEnvelope, error) {
	return s.Generate(ctx, Request{
		Kind:    models.ReportComparativeDrives,
		Scope:   models.Scope{InstituteID: instituteID, Year: year, Limit: limit},
		Refresh: refresh,
	})
}

func (s *Service) InstituteAnalytics(ctx context.Context, instituteID string, refresh bool) (*models.ReportEnvelope, error) {
	return s.Generate(ctx, Request{Kind: models.ReportInstituteAnalytics, Scope: models.Scope{InstituteID: instituteID}, Refresh: refresh})
}

// Generate serves a report from the cache or computes it. Cache and snapshot
// failures are logged and never fail the report.
func (s *Service) Generate(ctx context.Context, req Request) (env *models.ReportEnvelope, err error) {
	start := time.Now()
	kind := req.Kind

	ctx, span := s.obs.StartSpan(ctx, "report.generate",
		attribute.String("report.kind", string(kind)),
		attribute.Bool("report.refresh", req.Refresh),
	)
	defer func() {
		observability.EndSpan(span, err)
		if err != nil {
			metrics.ReportsFailed.WithLabelValues(string(kind), string(errors.Normalize(err).Code)).Inc()
		}
	}()

	scope, err := s.normalizeScope(kind, req.Scope)
	if err != nil {
		return nil, err
	}
	log := s.logger.WithFields(map[string]interface{}{"kind": string(kind), "scope": scope.CacheKey()})

	if !req.Refresh {
		if cached := s.lookup(ctx, log, kind, scope); cached != nil {
			s.record(ctx, kind, metrics.SourceCache, start)
			return cached, nil
		}
	}

	now := s.clock().UTC()
	payload, err := s.compute(ctx, kind, scope, now)
	if err != nil {
		log.Warn("report generation failed", map[string]interface{}{"error": err.Error()})
		return nil, err
	}
	if err := s.validate(kind, payload); err != nil {
		log.Error("report failed schema validation", map[string]interface{}{"error": err.Error()})
		return nil, err
	}

	env = &models.ReportEnvelope{
		ReportID:    uuid.NewString(),
		Kind:        kind,
		Scope:       scope,
		GeneratedAt: now,
		Report:      payload,
	}
	s.persist(ctx, log, env)
	s.record(ctx, kind, metrics.SourceComputed, start)

	log.Info("report generated", map[string]interface{}{
		"reportId":   env.ReportID,
		"durationMs": time.Since(start).Milliseconds(),
	})
	return env, nil
}

// normalizeScope keeps only the fields that select a kind's records, so
// equal requests share a cache key.
func (s *Service) normalizeScope(kind models.ReportKind, scope models.Scope) (models.Scope, error) {
	required := func(name, value string) error {
		if strings.TrimSpace(value) == "" {
			return errors.NewInvalidScopeError(name + " is required for " + string(kind))
		}
		return nil
	}

	switch kind {
	case models.ReportCompanyAnalytics, models.ReportHiringTrends, models.ReportSkillDemand, models.ReportCandidateSources:
		if err := required("companyId", scope.CompanyID); err != nil {
			return models.Scope{}, err
		}
		return models.Scope{CompanyID: scope.CompanyID, InstituteID: strings.TrimSpace(scope.InstituteID)}, nil

	case models.ReportDriveAnalytics:
		if err := required("driveId", scope.DriveID); err != nil {
			return models.Scope{}, err
		}
		return models.Scope{DriveID: scope.DriveID}, nil

	case models.ReportComparativeDrives:
		if err := required("instituteId", scope.InstituteID); err != nil {
			return models.Scope{}, err
		}
		if scope.Year < 0 {
			return models.Scope{}, errors.NewInvalidScopeError("year must not be negative")
		}
		if scope.Limit < 0 || scope.Limit > MaxComparisonLimit {
			return models.Scope{}, errors.NewInvalidScopeError("limit must be between 1 and 50")
		}
		limit := scope.Limit
		if limit == 0 {
			limit = s.comparisonLimit
		}
		return models.Scope{InstituteID: scope.InstituteID, Year: scope.Year, Limit: limit}, nil

	case models.ReportInstituteAnalytics:
		if err := required("instituteId", scope.InstituteID); err != nil {
			return models.Scope{}, err
		}
		return models.Scope{InstituteID: scope.InstituteID}, nil
	}
	return models.Scope{}, errors.NewInvalidReportKindError(string(kind))
}

func (s *Service) compute(ctx context.Context, kind models.ReportKind, scope models.Scope, now time.Time) (json.RawMessage, error) {
	ds, err := s.loader.Load(ctx, scope)
	if err != nil {
		return nil, err
	}

	var report interface{}
	switch kind {
	case models.ReportCompanyAnalytics:
		report = analytics.BuildCompanyReport(ds, now)

	case models.ReportHiringTrends:
		report = analytics.HiringTrendsFor(ds.Applications)

	case models.ReportSkillDemand:
		hired := analytics.HiredCandidates(ds.Candidates, ds.Applications)
		report = analytics.SkillDemandFor(ds.Drives, hired, now, s.trendRand(now))

	case models.ReportCandidateSources:
		report = analytics.CandidateSourcesFor(ds.Applications, ds.Candidates, ds.Institutes)

	case models.ReportDriveAnalytics:
		drive, ok := lo.Find(ds.Drives, func(d models.Drive) bool { return d.ID == scope.DriveID })
		if !ok {
			return nil, errors.NewResourceNotFoundError("drive", scope.DriveID)
		}
		report = analytics.BuildDriveReport(drive, ds.Applications, ds.Candidates)

	case models.ReportComparativeDrives:
		drives := analytics.SelectComparisonDrives(ds.Drives, scope.Year, scope.Limit)
		if len(drives) == 0 {
			return nil, errors.NewResourceNotFoundError("institute drives", scope.InstituteID)
		}
		report = analytics.BuildComparativeReport(drives, ds.Applications, ds.Companies)

	case models.ReportInstituteAnalytics:
		institute, ok := lo.Find(ds.Institutes, func(i models.Institute) bool { return i.ID == scope.InstituteID })
		if !ok {
			return nil, errors.NewResourceNotFoundError("institute", scope.InstituteID)
		}
		report = analytics.BuildInstituteReport(institute, ds)

	default:
		return nil, errors.NewInvalidReportKindError(string(kind))
	}

	payload, err := json.Marshal(report)
	if err != nil {
		return nil, errors.NewInternalError("encode report", err)
	}
	return payload, nil
}

// trendRand seeds the synthetic skill trend. A zero seed draws a fresh
// sequence per report.
func (s *Service) trendRand(now time.Time) *rand.Rand {
	if s.trendSeed != 0 {
		return rand.New(rand.NewPCG(uint64(s.trendSeed), 0))
	}
	return rand.New(rand.NewPCG(uint64(now.UnixNano()), rand.Uint64()))
}

func (s *Service) validate(kind models.ReportKind, payload json.RawMessage) error {
	if s.schemas == nil {
		return nil
	}
	result, err := s.schemas.ValidateReport(kind, payload)
	if err != nil {
		return errors.NewInternalError("validate report", err)
	}
	if !result.Valid {
		return errors.NewReportValidationFailedError(string(kind), strings.Join(result.GetErrorMessages(), "; "))
	}
	return nil
}

func (s *Service) lookup(ctx context.Context, log logger.Logger, kind models.ReportKind, scope models.Scope) *models.ReportEnvelope {
	if s.cache == nil {
		return nil
	}
	env, found, err := s.cache.Get(ctx, kind, scope)
	if err != nil {
		log.Warn("report cache lookup failed", map[string]interface{}{"error": err.Error()})
		return nil
	}
	if !found {
		return nil
	}
	log.Debug("report served from cache", map[string]interface{}{"reportId": env.ReportID})
	return env
}

func (s *Service) persist(ctx context.Context, log logger.Logger, env *models.ReportEnvelope) {
	if s.cache != nil {
		if err := s.cache.Put(ctx, env); err != nil {
			log.Warn("report cache write failed", map[string]interface{}{"error": err.Error()})
		}
	}
	if s.snapshots != nil {
		if err := s.snapshots.Put(ctx, env); err != nil {
			log.Warn("report snapshot failed", map[string]interface{}{"error": err.Error()})
		}
	}
}

func (s *Service) record(ctx context.Context, kind models.ReportKind, source string, start time.Time) {
	elapsed := time.Since(start)
	metrics.ReportsGenerated.WithLabelValues(string(kind), source).Inc()
	metrics.ReportDuration.WithLabelValues(string(kind)).Observe(elapsed.Seconds())
	s.obs.RecordReport(ctx, string(kind), source, elapsed)
}

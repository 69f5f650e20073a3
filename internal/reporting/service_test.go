package reporting

import (
	"context"
	"encoding/json"
	stderrors "errors"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"

	"placement-analytics/internal/analytics"
	"placement-analytics/internal/cache"
	"placement-analytics/internal/common/errors"
	"placement-analytics/internal/common/logger"
	"placement-analytics/internal/common/metrics"
	"placement-analytics/internal/common/validation"
	"placement-analytics/internal/dataset"
	"placement-analytics/internal/models"
	"placement-analytics/pkg/registry"
)

var fixedNow = time.Date(2024, 7, 1, 12, 0, 0, 0, time.UTC)

func newLoader(t *testing.T) *dataset.Loader {
	t.Helper()
	store, err := dataset.LoadFileStore("../dataset/testdata/dataset.json")
	require.NoError(t, err)
	return dataset.NewLoader(store, time.Second, logger.NewNoOpLogger())
}

func loadSchemas(t *testing.T) *validation.SchemaSet {
	t.Helper()
	reg, err := registry.LoadRegistry("../../configs/activity-registry.json")
	require.NoError(t, err)
	schemas, err := validation.NewSchemaSet(reg)
	require.NoError(t, err)
	return schemas
}

func newCache(t *testing.T) (*cache.ReportCache, *miniredis.Miniredis) {
	t.Helper()
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr(), MaxRetries: -1})
	t.Cleanup(func() { client.Close() })
	return cache.New(client, time.Hour), mr
}

func observedLogger() (logger.Logger, *observer.ObservedLogs) {
	core, logs := observer.New(zapcore.DebugLevel)
	return logger.NewZapAdapter(zap.New(core)), logs
}

type recordingSnapshots struct {
	stored []*models.ReportEnvelope
	err    error
}

func (r *recordingSnapshots) Put(_ context.Context, env *models.ReportEnvelope) error {
	if r.err != nil {
		return r.err
	}
	r.stored = append(r.stored, env)
	return nil
}

func decode[T any](t *testing.T, env *models.ReportEnvelope) T {
	t.Helper()
	var out T
	require.NoError(t, json.Unmarshal(env.Report, &out))
	return out
}

// ==========================
// Report kinds
// ==========================

func TestService_Generate(t *testing.T) {
	tests := []struct {
		name           string
		request        Request
		validateOutput func(t *testing.T, env *models.ReportEnvelope)
	}{
		{
			name:    "company analytics",
			request: Request{Kind: models.ReportCompanyAnalytics, Scope: models.Scope{CompanyID: "c1"}},
			validateOutput: func(t *testing.T, env *models.ReportEnvelope) {
				report := decode[analytics.CompanyReport](t, env)
				assert.Equal(t, 2, report.Overview.TotalDrives)
				assert.Equal(t, 5, report.Overview.TotalApplicants)
				assert.Equal(t, 2, report.Overview.TotalHired)
				assert.InDelta(t, 40.0, report.Overview.OverallAcceptanceRate, 1e-9)
			},
		},
		{
			name:    "company analytics restricted to an institute",
			request: Request{Kind: models.ReportCompanyAnalytics, Scope: models.Scope{CompanyID: "c1", InstituteID: "i1"}},
			validateOutput: func(t *testing.T, env *models.ReportEnvelope) {
				assert.Equal(t, models.Scope{CompanyID: "c1", InstituteID: "i1"}, env.Scope)
				report := decode[analytics.CompanyReport](t, env)
				assert.Equal(t, 2, report.Overview.TotalDrives)
				assert.Equal(t, 5, report.Overview.TotalApplicants)
			},
		},
		{
			name:    "company analytics at an institute the company never visited",
			request: Request{Kind: models.ReportCompanyAnalytics, Scope: models.Scope{CompanyID: "c1", InstituteID: "i2"}},
			validateOutput: func(t *testing.T, env *models.ReportEnvelope) {
				report := decode[analytics.CompanyReport](t, env)
				assert.Zero(t, report.Overview.TotalDrives)
				assert.Zero(t, report.Overview.TotalApplicants)
			},
		},
		{
			name:    "hiring trends",
			request: Request{Kind: models.ReportHiringTrends, Scope: models.Scope{CompanyID: "c1"}},
			validateOutput: func(t *testing.T, env *models.ReportEnvelope) {
				report := decode[analytics.HiringTrends](t, env)
				var total int
				for _, y := range report.Yearly {
					total += y.Applications
				}
				assert.Equal(t, 5, total)
			},
		},
		{
			name:    "skill demand",
			request: Request{Kind: models.ReportSkillDemand, Scope: models.Scope{CompanyID: "c1"}},
			validateOutput: func(t *testing.T, env *models.ReportEnvelope) {
				report := decode[analytics.SkillDemandReport](t, env)
				assert.True(t, report.TrendsAreSynthetic)
				assert.NotEmpty(t, report.TopSkills)
			},
		},
		{
			name:    "candidate sources",
			request: Request{Kind: models.ReportCandidateSources, Scope: models.Scope{CompanyID: "c1"}},
			validateOutput: func(t *testing.T, env *models.ReportEnvelope) {
				report := decode[analytics.CandidateSources](t, env)
				assert.Len(t, report.HiringCycleTimes, 5)
				assert.Equal(t, 2, report.TotalHired)
				require.Len(t, report.InstituteSources, 1)
				assert.Equal(t, "i1", report.InstituteSources[0].ID)
			},
		},
		{
			name:    "drive analytics",
			request: Request{Kind: models.ReportDriveAnalytics, Scope: models.Scope{DriveID: "d1", CompanyID: "ignored"}},
			validateOutput: func(t *testing.T, env *models.ReportEnvelope) {
				assert.Equal(t, models.Scope{DriveID: "d1"}, env.Scope)
				report := decode[analytics.DriveReport](t, env)
				assert.Equal(t, "d1", report.DriveID)
				assert.Equal(t, 3, report.AppliedCandidates)
				assert.Equal(t, 1, report.HiredCandidates)
			},
		},
		{
			name:    "comparative drives uses the default limit",
			request: Request{Kind: models.ReportComparativeDrives, Scope: models.Scope{InstituteID: "i1"}},
			validateOutput: func(t *testing.T, env *models.ReportEnvelope) {
				assert.Equal(t, analytics.DefaultComparisonLimit, env.Scope.Limit)
				report := decode[analytics.ComparativeReport](t, env)
				require.Len(t, report.Drives, 2)
				assert.Equal(t, "d2", report.Drives[0].DriveID, "newest drive first")
				assert.Equal(t, "Acme Labs", report.Drives[0].Company)
				assert.Equal(t, 5, report.OverallStats.TotalApplicants)
			},
		},
		{
			name:    "comparative drives filtered by year",
			request: Request{Kind: models.ReportComparativeDrives, Scope: models.Scope{InstituteID: "i1", Year: 2024, Limit: 1}},
			validateOutput: func(t *testing.T, env *models.ReportEnvelope) {
				report := decode[analytics.ComparativeReport](t, env)
				require.Len(t, report.Drives, 1)
				assert.Equal(t, 1, report.OverallStats.TotalDrives)
			},
		},
		{
			name:    "institute analytics",
			request: Request{Kind: models.ReportInstituteAnalytics, Scope: models.Scope{InstituteID: "i1"}},
			validateOutput: func(t *testing.T, env *models.ReportEnvelope) {
				report := decode[analytics.InstituteReport](t, env)
				assert.Equal(t, "North Campus Institute of Technology", report.BasicStats.InstituteName)
				assert.Equal(t, 2, report.BasicStats.TotalDrives)
				assert.Equal(t, 4, report.BasicStats.TotalCandidates)
				assert.Equal(t, 1, report.BasicStats.TotalPendingCandidates)
			},
		},
	}

	schemas := loadSchemas(t)
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc := NewService(newLoader(t), logger.NewTestLogger(t), Options{
				Schemas:   schemas,
				Clock:     func() time.Time { return fixedNow },
				TrendSeed: 7,
			})

			env, err := svc.Generate(context.Background(), tt.request)
			require.NoError(t, err)
			assert.NotEmpty(t, env.ReportID)
			assert.Equal(t, tt.request.Kind, env.Kind)
			assert.Equal(t, fixedNow, env.GeneratedAt)
			assert.False(t, env.Cached)
			tt.validateOutput(t, env)
		})
	}
}

func TestService_GenerateErrors(t *testing.T) {
	tests := []struct {
		name         string
		request      Request
		expectedCode errors.ErrorCode
	}{
		{"unknown kind", Request{Kind: "placement_forecast", Scope: models.Scope{CompanyID: "c1"}}, errors.ErrCodeInvalidReportKind},
		{"company kind without company", Request{Kind: models.ReportHiringTrends, Scope: models.Scope{InstituteID: "i1"}}, errors.ErrCodeInvalidScope},
		{"blank drive id", Request{Kind: models.ReportDriveAnalytics, Scope: models.Scope{DriveID: "  "}}, errors.ErrCodeInvalidScope},
		{"comparison limit too large", Request{Kind: models.ReportComparativeDrives, Scope: models.Scope{InstituteID: "i1", Limit: 51}}, errors.ErrCodeInvalidScope},
		{"negative year", Request{Kind: models.ReportComparativeDrives, Scope: models.Scope{InstituteID: "i1", Year: -1}}, errors.ErrCodeInvalidScope},
		{"unknown drive", Request{Kind: models.ReportDriveAnalytics, Scope: models.Scope{DriveID: "d404"}}, errors.ErrCodeResourceNotFound},
		{"unknown institute", Request{Kind: models.ReportInstituteAnalytics, Scope: models.Scope{InstituteID: "i404"}}, errors.ErrCodeResourceNotFound},
		{"no drives in year", Request{Kind: models.ReportComparativeDrives, Scope: models.Scope{InstituteID: "i1", Year: 2019}}, errors.ErrCodeResourceNotFound},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc := NewService(newLoader(t), logger.NewTestLogger(t), Options{})

			env, err := svc.Generate(context.Background(), tt.request)
			require.Error(t, err)
			assert.Nil(t, env)
			assert.True(t, errors.HasCode(err, tt.expectedCode), "got %v", err)
		})
	}
}

func TestService_ReportFailsSchemaValidation(t *testing.T) {
	reg := &registry.ActivityRegistry{Activities: []registry.Activity{{
		TaskType:   "company-hiring-trends",
		ReportKind: string(models.ReportHiringTrends),
		ReportSchema: map[string]interface{}{
			"type":     "object",
			"required": []interface{}{"forecast"},
		},
	}}}
	schemas, err := validation.NewSchemaSet(reg)
	require.NoError(t, err)

	svc := NewService(newLoader(t), logger.NewTestLogger(t), Options{Schemas: schemas})
	_, err = svc.HiringTrends(context.Background(), "c1", "", false)
	require.Error(t, err)
	assert.True(t, errors.HasCode(err, errors.ErrCodeReportValidationFailed))
}

// ==========================
// Cache and snapshots
// ==========================

func TestService_CachesReports(t *testing.T) {
	reportCache, _ := newCache(t)
	snapshots := &recordingSnapshots{}
	svc := NewService(newLoader(t), logger.NewTestLogger(t), Options{
		Cache:     reportCache,
		Snapshots: snapshots,
		Clock:     func() time.Time { return fixedNow },
	})
	ctx := context.Background()
	servedFromCache := metrics.ReportsGenerated.WithLabelValues(string(models.ReportHiringTrends), metrics.SourceCache)
	before := testutil.ToFloat64(servedFromCache)

	first, err := svc.HiringTrends(ctx, "c1", "", false)
	require.NoError(t, err)
	assert.False(t, first.Cached)

	second, err := svc.HiringTrends(ctx, "c1", "", false)
	require.NoError(t, err)
	assert.True(t, second.Cached)
	assert.Equal(t, first.ReportID, second.ReportID)
	assert.JSONEq(t, string(first.Report), string(second.Report))
	assert.Equal(t, before+1, testutil.ToFloat64(servedFromCache))

	refreshed, err := svc.HiringTrends(ctx, "c1", "", true)
	require.NoError(t, err)
	assert.False(t, refreshed.Cached)
	assert.NotEqual(t, first.ReportID, refreshed.ReportID)

	third, err := svc.HiringTrends(ctx, "c1", "", false)
	require.NoError(t, err)
	assert.Equal(t, refreshed.ReportID, third.ReportID, "refresh replaces the cached report")

	require.Len(t, snapshots.stored, 2, "only computed reports are archived")
	assert.Equal(t, first.ReportID, snapshots.stored[0].ReportID)
}

func TestService_CacheAndSnapshotFailuresDegrade(t *testing.T) {
	reportCache, mr := newCache(t)
	mr.Close()
	log, logs := observedLogger()

	svc := NewService(newLoader(t), log, Options{
		Cache:     reportCache,
		Snapshots: &recordingSnapshots{err: stderrors.New("cluster red")},
	})

	env, err := svc.CandidateSources(context.Background(), "c1", "", false)
	require.NoError(t, err)
	assert.NotNil(t, env)

	assert.Equal(t, 1, logs.FilterMessage("report cache lookup failed").Len())
	assert.Equal(t, 1, logs.FilterMessage("report cache write failed").Len())
	snapshotLogs := logs.FilterMessage("report snapshot failed").All()
	require.Len(t, snapshotLogs, 1)
	assert.Equal(t, zapcore.WarnLevel, snapshotLogs[0].Level)
	assert.Equal(t, "cluster red", snapshotLogs[0].ContextMap()["error"])
	assert.Equal(t, "reporting", snapshotLogs[0].ContextMap()["component"])
}

func TestService_SkillTrendSeed(t *testing.T) {
	generate := func(seed int64) analytics.SkillDemandReport {
		svc := NewService(newLoader(t), logger.NewTestLogger(t), Options{
			Clock:     func() time.Time { return fixedNow },
			TrendSeed: seed,
		})
		env, err := svc.SkillDemand(context.Background(), "c1", "", false)
		require.NoError(t, err)
		return decode[analytics.SkillDemandReport](t, env)
	}

	first, second := generate(42), generate(42)
	assert.Equal(t, first.SkillTrends, second.SkillTrends)

	for skill, points := range first.SkillTrends {
		require.Len(t, points, 3, skill)
		current := points[len(points)-1].Percentage
		for _, p := range points[:len(points)-1] {
			assert.GreaterOrEqual(t, p.Percentage, current*analytics.TrendDampeningMin-0.01, skill)
			assert.Less(t, p.Percentage, current*analytics.TrendDampeningMax+0.01, skill)
		}
	}
}

func TestService_ComparativeScopeKeepsOnlySelectors(t *testing.T) {
	svc := NewService(newLoader(t), logger.NewTestLogger(t), Options{ComparisonLimit: 3})

	env, err := svc.ComparativeDrives(context.Background(), "i1", 0, 0, false)
	require.NoError(t, err)
	assert.Equal(t, models.Scope{InstituteID: "i1", Limit: 3}, env.Scope)
}

func TestService_InstituteFilterSeparatesCacheEntries(t *testing.T) {
	reportCache, _ := newCache(t)
	svc := NewService(newLoader(t), logger.NewTestLogger(t), Options{Cache: reportCache})
	ctx := context.Background()

	all, err := svc.CompanyAnalytics(ctx, "c1", "", false)
	require.NoError(t, err)
	filtered, err := svc.CompanyAnalytics(ctx, "c1", "i2", false)
	require.NoError(t, err)

	assert.False(t, filtered.Cached)
	assert.NotEqual(t, all.ReportID, filtered.ReportID)
	assert.Equal(t, 2, decode[analytics.CompanyReport](t, all).Overview.TotalDrives)
	assert.Zero(t, decode[analytics.CompanyReport](t, filtered).Overview.TotalDrives)
}

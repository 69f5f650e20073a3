// internal/dataset/loader.go
package dataset

import (
	"context"
	stderrors "errors"
	"time"

	"github.com/samber/lo"
	"golang.org/x/sync/errgroup"

	"placement-analytics/internal/common/errors"
	"placement-analytics/internal/common/logger"
	"placement-analytics/internal/common/metrics"
	"placement-analytics/internal/models"
)

// Loader resolves a report scope into a Dataset. Drives are read first,
// then their applications, then the candidates, institutes and companies
// they reference. The last phase runs concurrently.
type Loader struct {
	store   Store
	timeout time.Duration
	logger  logger.Logger
}

func NewLoader(store Store, timeout time.Duration, log logger.Logger) *Loader {
	return &Loader{
		store:   store,
		timeout: timeout,
		logger:  log.WithFields(map[string]interface{}{"component": "dataset-loader", "store": store.Name()}),
	}
}

func (l *Loader) Load(ctx context.Context, scope models.Scope) (*models.Dataset, error) {
	if l.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, l.timeout)
		defer cancel()
	}

	drives, err := fetch(ctx, l, CollectionDrives, func(ctx context.Context) ([]models.Drive, error) {
		return l.store.Drives(ctx, FilterFor(scope))
	})
	if err != nil {
		return nil, err
	}
	if scope.DriveID != "" && len(drives) == 0 {
		return nil, errors.NewResourceNotFoundError("drive", scope.DriveID)
	}

	driveIDs := lo.Map(drives, func(d models.Drive, _ int) string { return d.ID })
	apps, err := fetch(ctx, l, CollectionApplications, func(ctx context.Context) ([]models.Application, error) {
		return l.store.Applications(ctx, driveIDs)
	})
	if err != nil {
		return nil, err
	}

	ds := &models.Dataset{Drives: drives, Applications: apps}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		userIDs := lo.Uniq(lo.FilterMap(apps, func(a models.Application, _ int) (string, bool) {
			return a.User, a.User != ""
		}))
		candidates, err := fetch(gctx, l, CollectionCandidates, func(ctx context.Context) ([]models.Candidate, error) {
			return l.store.Candidates(ctx, userIDs)
		})
		if err != nil {
			return err
		}
		ds.Candidates = candidates

		instituteIDs := referencedInstitutes(scope, drives, candidates)
		ds.Institutes, err = fetch(gctx, l, CollectionInstitutes, func(ctx context.Context) ([]models.Institute, error) {
			return l.store.Institutes(ctx, instituteIDs)
		})
		return err
	})
	g.Go(func() error {
		companyIDs := lo.Uniq(lo.FilterMap(drives, func(d models.Drive, _ int) (string, bool) {
			return d.Company, d.Company != ""
		}))
		var err error
		ds.Companies, err = fetch(gctx, l, CollectionCompanies, func(ctx context.Context) ([]models.Company, error) {
			return l.store.Companies(ctx, companyIDs)
		})
		return err
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}

	l.logger.Debug("dataset loaded", map[string]interface{}{
		"scope":        scope.CacheKey(),
		"drives":       len(ds.Drives),
		"applications": len(ds.Applications),
		"candidates":   len(ds.Candidates),
		"institutes":   len(ds.Institutes),
		"companies":    len(ds.Companies),
	})
	return ds, nil
}

func referencedInstitutes(scope models.Scope, drives []models.Drive, candidates []models.Candidate) []string {
	ids := make([]string, 0, len(drives)+len(candidates)+1)
	if scope.InstituteID != "" {
		ids = append(ids, scope.InstituteID)
	}
	for _, d := range drives {
		ids = append(ids, d.Institute)
	}
	for _, c := range candidates {
		ids = append(ids, c.Institute)
	}
	return lo.Uniq(lo.Compact(ids))
}

// fetch times one collection read and maps its failure to a dataset error.
func fetch[T any](ctx context.Context, l *Loader, collection string, read func(context.Context) ([]T, error)) ([]T, error) {
	start := time.Now()
	out, err := read(ctx)
	metrics.DatasetLoadDuration.WithLabelValues(l.store.Name(), collection).Observe(time.Since(start).Seconds())
	if err == nil {
		return out, nil
	}

	l.logger.Error("dataset read failed", map[string]interface{}{
		"collection": collection,
		"error":      err.Error(),
	})
	if stdErr, ok := errors.AsStandardError(err); ok {
		return nil, datasetError(collection, stdErr)
	}
	if stderrors.Is(err, context.DeadlineExceeded) || stderrors.Is(ctx.Err(), context.DeadlineExceeded) {
		return nil, errors.NewDatasetTimeoutError(collection)
	}
	return nil, errors.NewDatasetLoadFailedError(collection, err)
}

// datasetError folds database codes raised by a store into the dataset codes
// the workflows model. The store's own code is kept as metadata.
func datasetError(collection string, stdErr *errors.StandardError) *errors.StandardError {
	var mapped *errors.StandardError
	switch stdErr.Code {
	case errors.ErrCodeQueryTimeout:
		mapped = errors.NewDatasetTimeoutError(collection)
	case errors.ErrCodeDatabaseConnectionFailed, errors.ErrCodeQueryExecutionFailed:
		mapped = errors.NewDatasetLoadFailedError(collection, stdErr)
	default:
		return stdErr
	}
	return mapped.WithMetadata("storeErrorCode", string(stdErr.Code))
}

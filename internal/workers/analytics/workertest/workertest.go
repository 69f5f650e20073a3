// Package workertest wires analytics workers against the fixture dataset
// for handler tests.
package workertest

import (
	"path/filepath"
	"runtime"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"placement-analytics/internal/common/camunda"
	"placement-analytics/internal/common/logger"
	"placement-analytics/internal/common/validation"
	"placement-analytics/internal/dataset"
	"placement-analytics/internal/reporting"
	"placement-analytics/pkg/registry"
)

// Now is the report clock of every fixture service.
var Now = time.Date(2024, 7, 1, 12, 0, 0, 0, time.UTC)

func repoRoot() string {
	_, file, _, _ := runtime.Caller(0)
	return filepath.Join(filepath.Dir(file), "..", "..", "..", "..")
}

func Schemas(t testing.TB) *validation.SchemaSet {
	t.Helper()
	reg, err := registry.LoadRegistry(filepath.Join(repoRoot(), "configs", "activity-registry.json"))
	require.NoError(t, err)
	schemas, err := validation.NewSchemaSet(reg)
	require.NoError(t, err)
	return schemas
}

func Store(t testing.TB) *dataset.FileStore {
	t.Helper()
	store, err := dataset.LoadFileStore(filepath.Join(repoRoot(), "internal", "dataset", "testdata", "dataset.json"))
	require.NoError(t, err)
	return store
}

// ReportService serves reports over store, or the fixture dataset when store
// is nil.
func ReportService(t testing.TB, store dataset.Store) *reporting.Service {
	t.Helper()
	if store == nil {
		store = Store(t)
	}
	loader := dataset.NewLoader(store, time.Second, logger.NewNoOpLogger())
	return reporting.NewService(loader, logger.NewTestLogger(t), reporting.Options{
		Schemas:   Schemas(t),
		Clock:     func() time.Time { return Now },
		TrendSeed: 1,
	})
}

func Deps(t testing.TB) camunda.Deps {
	return camunda.Deps{
		Schemas: Schemas(t),
		Logger:  logger.NewTestLogger(t),
	}
}

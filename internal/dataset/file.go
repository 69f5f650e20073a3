// internal/dataset/file.go
package dataset

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"slices"

	"github.com/samber/lo"

	"placement-analytics/internal/models"
)

// FileStore serves a dataset held in memory, typically decoded from a JSON
// export of the collections.
type FileStore struct {
	data models.Dataset
}

func NewFileStore(data models.Dataset) *FileStore {
	return &FileStore{data: data}
}

// LoadFileStore reads a JSON document shaped like models.Dataset.
func LoadFileStore(path string) (*FileStore, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read dataset %s: %w", path, err)
	}
	var data models.Dataset
	if err := json.Unmarshal(raw, &data); err != nil {
		return nil, fmt.Errorf("parse dataset %s: %w", path, err)
	}
	return NewFileStore(data), nil
}

func (s *FileStore) Name() string { return "file" }

func (s *FileStore) Drives(ctx context.Context, filter DriveFilter) ([]models.Drive, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return lo.Filter(s.data.Drives, func(d models.Drive, _ int) bool {
		return filter.Matches(d)
	}), nil
}

func (s *FileStore) Applications(ctx context.Context, driveIDs []string) ([]models.Application, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return lo.Filter(s.data.Applications, func(a models.Application, _ int) bool {
		return slices.Contains(driveIDs, a.Drive)
	}), nil
}

func (s *FileStore) Candidates(ctx context.Context, ids []string) ([]models.Candidate, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return lo.Filter(s.data.Candidates, func(c models.Candidate, _ int) bool {
		return slices.Contains(ids, c.ID)
	}), nil
}

func (s *FileStore) Institutes(ctx context.Context, ids []string) ([]models.Institute, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return lo.Filter(s.data.Institutes, func(i models.Institute, _ int) bool {
		return slices.Contains(ids, i.ID)
	}), nil
}

func (s *FileStore) Companies(ctx context.Context, ids []string) ([]models.Company, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return lo.Filter(s.data.Companies, func(c models.Company, _ int) bool {
		return slices.Contains(ids, c.ID)
	}), nil
}

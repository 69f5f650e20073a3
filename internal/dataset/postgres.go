// internal/dataset/postgres.go
package dataset

import (
	"context"
	"database/sql"
	"database/sql/driver"
	"encoding/json"
	stderrors "errors"
	"net"
	"time"

	"github.com/lib/pq"

	"placement-analytics/internal/common/errors"
	"placement-analytics/internal/common/logger"
	"placement-analytics/internal/models"
)

// PostgresStore reads the collections from relational tables. Nested
// documents (workflow, scores, education, experience, skills) live in jsonb
// columns; id lists in text[] columns.
type PostgresStore struct {
	db     *sql.DB
	logger logger.Logger
}

func NewPostgresStore(db *sql.DB, log logger.Logger) *PostgresStore {
	if log == nil {
		log = logger.NewNoOpLogger()
	}
	return &PostgresStore{
		db:     db,
		logger: log.WithFields(map[string]interface{}{"component": "dataset-store", "store": "postgres"}),
	}
}

func (s *PostgresStore) Name() string { return "postgres" }

const drivesQuery = `
	SELECT id, institute_id, company_id, title, type, openings,
	       salary_min, salary_max, salary_currency,
	       application_start, application_end,
	       skills, workflow, candidates, hired_candidates,
	       published, published_on, has_ended, created_at, updated_at
	FROM drives
	WHERE ($1 = '' OR company_id = $1)
	  AND ($2 = '' OR institute_id = $2)
	  AND ($3 = '' OR id = $3)
	ORDER BY created_at`

func (s *PostgresStore) Drives(ctx context.Context, filter DriveFilter) ([]models.Drive, error) {
	rows, err := s.db.QueryContext(ctx, drivesQuery, filter.CompanyID, filter.InstituteID, filter.DriveID)
	if err != nil {
		return nil, queryError(ctx, CollectionDrives, err)
	}
	defer rows.Close()

	var drives []models.Drive
	for rows.Next() {
		var (
			d                            models.Drive
			driveType, currency          sql.NullString
			openings                     sql.NullInt64
			salaryMin, salaryMax         sql.NullFloat64
			appStart, appEnd             sql.NullTime
			publishedOn, created, update sql.NullTime
			workflow                     []byte
		)
		err := rows.Scan(
			&d.ID, &d.Institute, &d.Company, &d.Title, &driveType, &openings,
			&salaryMin, &salaryMax, &currency,
			&appStart, &appEnd,
			pq.Array(&d.Skills), &workflow, pq.Array(&d.Candidates), pq.Array(&d.HiredCandidates),
			&d.Published, &publishedOn, &d.HasEnded, &created, &update,
		)
		if err != nil {
			return nil, queryError(ctx, CollectionDrives, err)
		}

		d.Type = models.DriveType(driveType.String)
		d.Openings = int(openings.Int64)
		if salaryMin.Valid || salaryMax.Valid || currency.Valid {
			d.Salary = &models.SalaryRange{
				Min:      floatPtr(salaryMin),
				Max:      floatPtr(salaryMax),
				Currency: currency.String,
			}
		}
		if appStart.Valid || appEnd.Valid {
			d.ApplicationRange = &models.DateRange{Start: timePtr(appStart), End: timePtr(appEnd)}
		}
		if wf, ok := decodeNested[models.Workflow](s, CollectionDrives, d.ID, "workflow", workflow); ok {
			d.Workflow = &wf
		}
		d.PublishedOn = timePtr(publishedOn)
		d.CreatedAt = timePtr(created)
		d.UpdatedAt = timePtr(update)
		drives = append(drives, d)
	}
	if err := rows.Err(); err != nil {
		return nil, queryError(ctx, CollectionDrives, err)
	}
	return drives, nil
}

const applicationsQuery = `
	SELECT id, drive_id, user_id, status, salary, disqualified_stage, scores, created_at, updated_at
	FROM applied_drives
	WHERE drive_id = ANY($1)
	ORDER BY created_at`

func (s *PostgresStore) Applications(ctx context.Context, driveIDs []string) ([]models.Application, error) {
	if len(driveIDs) == 0 {
		return nil, nil
	}
	rows, err := s.db.QueryContext(ctx, applicationsQuery, pq.Array(driveIDs))
	if err != nil {
		return nil, queryError(ctx, CollectionApplications, err)
	}
	defer rows.Close()

	var apps []models.Application
	for rows.Next() {
		var (
			a                models.Application
			status           string
			salary           sql.NullFloat64
			disqualified     sql.NullString
			scores           []byte
			created, updated sql.NullTime
		)
		if err := rows.Scan(&a.ID, &a.Drive, &a.User, &status, &salary, &disqualified, &scores, &created, &updated); err != nil {
			return nil, queryError(ctx, CollectionApplications, err)
		}
		a.Status = models.ApplicationStatus(status)
		a.Salary = floatPtr(salary)
		a.DisqualifiedStage = disqualified.String
		a.Scores, _ = decodeNested[[]models.StageScore](s, CollectionApplications, a.ID, "scores", scores)
		a.CreatedAt = timePtr(created)
		a.UpdatedAt = timePtr(updated)
		apps = append(apps, a)
	}
	if err := rows.Err(); err != nil {
		return nil, queryError(ctx, CollectionApplications, err)
	}
	return apps, nil
}

const candidatesQuery = `
	SELECT id, name, email, gender, institute_id, education, work_experience, technical_skills
	FROM candidates
	WHERE id = ANY($1)`

func (s *PostgresStore) Candidates(ctx context.Context, ids []string) ([]models.Candidate, error) {
	if len(ids) == 0 {
		return nil, nil
	}
	rows, err := s.db.QueryContext(ctx, candidatesQuery, pq.Array(ids))
	if err != nil {
		return nil, queryError(ctx, CollectionCandidates, err)
	}
	defer rows.Close()

	var candidates []models.Candidate
	for rows.Next() {
		var (
			c                       models.Candidate
			gender, institute       sql.NullString
			education, work, skills []byte
		)
		if err := rows.Scan(&c.ID, &c.Name, &c.Email, &gender, &institute, &education, &work, &skills); err != nil {
			return nil, queryError(ctx, CollectionCandidates, err)
		}
		c.Gender = gender.String
		c.Institute = institute.String
		c.Education, _ = decodeNested[[]models.Education](s, CollectionCandidates, c.ID, "education", education)
		c.WorkExperience, _ = decodeNested[[]models.WorkExperience](s, CollectionCandidates, c.ID, "work_experience", work)
		c.TechnicalSkills, _ = decodeNested[[]models.TechnicalSkill](s, CollectionCandidates, c.ID, "technical_skills", skills)
		candidates = append(candidates, c)
	}
	if err := rows.Err(); err != nil {
		return nil, queryError(ctx, CollectionCandidates, err)
	}
	return candidates, nil
}

func (s *PostgresStore) Institutes(ctx context.Context, ids []string) ([]models.Institute, error) {
	if len(ids) == 0 {
		return nil, nil
	}
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, name, candidates, pending_candidates
		FROM institutes
		WHERE id = ANY($1)`, pq.Array(ids))
	if err != nil {
		return nil, queryError(ctx, CollectionInstitutes, err)
	}
	defer rows.Close()

	var institutes []models.Institute
	for rows.Next() {
		var i models.Institute
		if err := rows.Scan(&i.ID, &i.Name, pq.Array(&i.Candidates), pq.Array(&i.PendingCandidates)); err != nil {
			return nil, queryError(ctx, CollectionInstitutes, err)
		}
		institutes = append(institutes, i)
	}
	if err := rows.Err(); err != nil {
		return nil, queryError(ctx, CollectionInstitutes, err)
	}
	return institutes, nil
}

func (s *PostgresStore) Companies(ctx context.Context, ids []string) ([]models.Company, error) {
	if len(ids) == 0 {
		return nil, nil
	}
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, name
		FROM companies
		WHERE id = ANY($1)`, pq.Array(ids))
	if err != nil {
		return nil, queryError(ctx, CollectionCompanies, err)
	}
	defer rows.Close()

	var companies []models.Company
	for rows.Next() {
		var c models.Company
		if err := rows.Scan(&c.ID, &c.Name); err != nil {
			return nil, queryError(ctx, CollectionCompanies, err)
		}
		companies = append(companies, c)
	}
	if err := rows.Err(); err != nil {
		return nil, queryError(ctx, CollectionCompanies, err)
	}
	return companies, nil
}

// decodeNested unmarshals one jsonb column. A malformed document is logged
// and reported as absent so the row itself is kept.
func decodeNested[T any](s *PostgresStore, collection, id, field string, raw []byte) (T, bool) {
	var out T
	if len(raw) == 0 || string(raw) == "null" {
		return out, false
	}
	if err := json.Unmarshal(raw, &out); err != nil {
		s.logger.Warn("skipping malformed nested field", map[string]interface{}{
			"collection": collection,
			"id":         id,
			"field":      field,
			"error":      err.Error(),
		})
		var zero T
		return zero, false
	}
	return out, true
}

// queryError classifies a database failure as a timeout, a lost connection
// or a failed query.
func queryError(ctx context.Context, collection string, err error) error {
	switch {
	case stderrors.Is(err, context.DeadlineExceeded) || stderrors.Is(ctx.Err(), context.DeadlineExceeded):
		return errors.NewQueryTimeoutError(collection)
	case isConnectionError(err):
		return errors.NewDatabaseConnectionFailedError(err)
	default:
		return errors.NewQueryExecutionFailedError(collection, err)
	}
}

func isConnectionError(err error) bool {
	if stderrors.Is(err, driver.ErrBadConn) || stderrors.Is(err, sql.ErrConnDone) {
		return true
	}
	var netErr net.Error
	if stderrors.As(err, &netErr) {
		return true
	}
	// class 08 is connection exception
	var pqErr *pq.Error
	return stderrors.As(err, &pqErr) && pqErr.Code.Class() == "08"
}

func floatPtr(v sql.NullFloat64) *float64 {
	if !v.Valid {
		return nil
	}
	f := v.Float64
	return &f
}

func timePtr(v sql.NullTime) *time.Time {
	if !v.Valid {
		return nil
	}
	t := v.Time
	return &t
}

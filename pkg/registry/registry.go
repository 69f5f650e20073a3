// pkg/registry/registry.go
package registry

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"strconv"
	"time"

	"github.com/xeipuuv/gojsonschema"
)

var (
	activityIDPattern = regexp.MustCompile(`^[a-z]+\.[a-z]+\.[a-z]+$`)
	taskTypePattern   = regexp.MustCompile(`^[a-z]+(-[a-z]+)+$`)
)

func LoadRegistry(path string) (*ActivityRegistry, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read registry %s: %w", path, err)
	}
	return Parse(data)
}

func Parse(data []byte) (*ActivityRegistry, error) {
	var reg ActivityRegistry
	if err := json.Unmarshal(data, &reg); err != nil {
		return nil, fmt.Errorf("parse registry: %w", err)
	}
	return &reg, nil
}

// Activity looks an activity up by its task type.
func (r *ActivityRegistry) Activity(taskType string) (*Activity, bool) {
	for i := range r.Activities {
		if r.Activities[i].TaskType == taskType {
			return &r.Activities[i], true
		}
	}
	return nil, false
}

// ForReportKind returns the activity producing the given report kind.
func (r *ActivityRegistry) ForReportKind(kind string) (*Activity, bool) {
	for i := range r.Activities {
		if r.Activities[i].ReportKind == kind {
			return &r.Activities[i], true
		}
	}
	return nil, false
}

// Validate reports every structural problem in the registry: naming,
// duplicate task types or report kinds, bad timeouts and schemas that do
// not compile.
func (r *ActivityRegistry) Validate() error {
	var errs []error
	taskTypes := map[string]bool{}
	kinds := map[string]bool{}

	for _, a := range r.Activities {
		if !activityIDPattern.MatchString(a.ID) {
			errs = append(errs, fmt.Errorf("activity %q: id must follow domain.subdomain.action", a.ID))
		}
		if !taskTypePattern.MatchString(a.TaskType) {
			errs = append(errs, fmt.Errorf("activity %q: task type %q must be kebab-case", a.ID, a.TaskType))
		}
		if taskTypes[a.TaskType] {
			errs = append(errs, fmt.Errorf("activity %q: duplicate task type %q", a.ID, a.TaskType))
		}
		taskTypes[a.TaskType] = true

		if a.ReportKind != "" {
			if kinds[a.ReportKind] {
				errs = append(errs, fmt.Errorf("activity %q: duplicate report kind %q", a.ID, a.ReportKind))
			}
			kinds[a.ReportKind] = true
			if a.ReportSchema == nil {
				errs = append(errs, fmt.Errorf("activity %q: report kind %q has no reportSchema", a.ID, a.ReportKind))
			}
		}

		if _, err := a.TimeoutDuration(); err != nil {
			errs = append(errs, fmt.Errorf("activity %q: bad timeout: %w", a.ID, err))
		}

		for name, schema := range map[string]map[string]interface{}{
			"inputSchema":  a.InputSchema,
			"outputSchema": a.OutputSchema,
			"reportSchema": a.ReportSchema,
		} {
			if schema == nil {
				continue
			}
			if _, err := gojsonschema.NewSchema(gojsonschema.NewGoLoader(schema)); err != nil {
				errs = append(errs, fmt.Errorf("activity %q: %s does not compile: %w", a.ID, name, err))
			}
		}
	}
	return errors.Join(errs...)
}

// Set updates one editable field of the activity serving taskType and stamps
// LastUpdated.
func (r *ActivityRegistry) Set(taskType, field, value string, now time.Time) error {
	a, ok := r.Activity(taskType)
	if !ok {
		return fmt.Errorf("no activity with task type %q", taskType)
	}
	switch field {
	case "status":
		a.ImplementationStatus = value
	case "version":
		a.Version = value
	case "displayName":
		a.DisplayName = value
	case "description":
		a.Description = value
	case "timeout":
		if _, err := time.ParseDuration(value); err != nil {
			return fmt.Errorf("invalid timeout %q: %w", value, err)
		}
		a.Timeout = value
	case "retries":
		retries, err := strconv.Atoi(value)
		if err != nil || retries < 0 {
			return fmt.Errorf("invalid retries value %q", value)
		}
		a.Retries = retries
	default:
		return fmt.Errorf("field %q cannot be set", field)
	}
	r.LastUpdated = now.Format("2006-01-02")
	return nil
}

// Save writes the registry as indented JSON.
func (r *ActivityRegistry) Save(path string) error {
	data, err := json.MarshalIndent(r, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal registry: %w", err)
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("create registry dir: %w", err)
	}
	if err := os.WriteFile(path, append(data, '\n'), 0o644); err != nil {
		return fmt.Errorf("write registry %s: %w", path, err)
	}
	return nil
}

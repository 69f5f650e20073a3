// internal/common/validation/schema.go
package validation

import (
	"fmt"
	"strings"

	"github.com/xeipuuv/gojsonschema"

	"placement-analytics/internal/models"
	"placement-analytics/pkg/registry"
)

const rootField = "(root)"

type ValidationResult struct {
	Valid  bool              `json:"valid"`
	Errors []ValidationError `json:"errors,omitempty"`
}

type ValidationError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
	Code    string `json:"code,omitempty"`
}

// SchemaSet holds the compiled job input schemas and report schemas
// declared in the activity registry.
type SchemaSet struct {
	inputs  map[string]*gojsonschema.Schema
	reports map[models.ReportKind]*gojsonschema.Schema
}

func NewSchemaSet(reg *registry.ActivityRegistry) (*SchemaSet, error) {
	set := &SchemaSet{
		inputs:  make(map[string]*gojsonschema.Schema),
		reports: make(map[models.ReportKind]*gojsonschema.Schema),
	}
	for _, activity := range reg.Activities {
		if activity.InputSchema != nil {
			schema, err := gojsonschema.NewSchema(gojsonschema.NewGoLoader(activity.InputSchema))
			if err != nil {
				return nil, fmt.Errorf("compile input schema for %s: %w", activity.TaskType, err)
			}
			set.inputs[activity.TaskType] = schema
		}
		if activity.ReportKind != "" && activity.ReportSchema != nil {
			schema, err := gojsonschema.NewSchema(gojsonschema.NewGoLoader(activity.ReportSchema))
			if err != nil {
				return nil, fmt.Errorf("compile report schema for %s: %w", activity.ReportKind, err)
			}
			set.reports[models.ReportKind(activity.ReportKind)] = schema
		}
	}
	return set, nil
}

// ValidateInput checks job variables against the task type's input schema.
// Task types without a schema always validate.
func (s *SchemaSet) ValidateInput(taskType string, vars map[string]interface{}) (*ValidationResult, error) {
	schema, ok := s.inputs[taskType]
	if !ok {
		return &ValidationResult{Valid: true}, nil
	}
	return validate(schema, gojsonschema.NewGoLoader(vars))
}

// ValidateReport checks a marshalled report payload against its kind's schema.
func (s *SchemaSet) ValidateReport(kind models.ReportKind, payload []byte) (*ValidationResult, error) {
	schema, ok := s.reports[kind]
	if !ok {
		return &ValidationResult{Valid: true}, nil
	}
	return validate(schema, gojsonschema.NewBytesLoader(payload))
}

func (s *SchemaSet) HasReportSchema(kind models.ReportKind) bool {
	_, ok := s.reports[kind]
	return ok
}

func validate(schema *gojsonschema.Schema, doc gojsonschema.JSONLoader) (*ValidationResult, error) {
	result, err := schema.Validate(doc)
	if err != nil {
		return nil, fmt.Errorf("validate document: %w", err)
	}

	out := &ValidationResult{Valid: result.Valid()}
	for _, re := range result.Errors() {
		out.Errors = append(out.Errors, ValidationError{
			Field:   fieldOf(re),
			Message: re.Description(),
			Code:    strings.ToUpper(re.Type()),
		})
	}
	return out, nil
}

// fieldOf resolves the offending field, folding the "property" detail of
// required errors into the path.
func fieldOf(re gojsonschema.ResultError) string {
	field := re.Field()
	property, ok := re.Details()["property"].(string)
	if !ok || property == "" || strings.HasSuffix(field, property) {
		return field
	}
	if field == rootField || field == "" {
		return property
	}
	return field + "." + property
}

// GetErrorMessages returns a simple list of error messages
func (vr *ValidationResult) GetErrorMessages() []string {
	messages := make([]string, len(vr.Errors))
	for i, err := range vr.Errors {
		messages[i] = fmt.Sprintf("%s: %s", err.Field, err.Message)
	}
	return messages
}

// HasErrors checks if validation has errors for specific field
func (vr *ValidationResult) HasErrors(field string) bool {
	for _, err := range vr.Errors {
		if err.Field == field {
			return true
		}
	}
	return false
}

// GetErrorsForField returns errors for a field and everything nested under it.
func (vr *ValidationResult) GetErrorsForField(field string) []ValidationError {
	var fieldErrors []ValidationError
	for _, err := range vr.Errors {
		if err.Field == field || strings.HasPrefix(err.Field, field+".") {
			fieldErrors = append(fieldErrors, err)
		}
	}
	return fieldErrors
}

// internal/models/drive.go
package models

import "time"

type DriveType string

const (
	DriveTypeFullTime   DriveType = "full_time"
	DriveTypePartTime   DriveType = "part_time"
	DriveTypeInternship DriveType = "internship"
	DriveTypeContract   DriveType = "contract"
	DriveTypeTemporary  DriveType = "temporary"
)

type SalaryRange struct {
	Min      *float64 `json:"min,omitempty" bson:"min,omitempty"`
	Max      *float64 `json:"max,omitempty" bson:"max,omitempty"`
	Currency string   `json:"currency,omitempty" bson:"currency,omitempty"`
}

type DateRange struct {
	Start *time.Time `json:"start,omitempty" bson:"start,omitempty"`
	End   *time.Time `json:"end,omitempty" bson:"end,omitempty"`
}

type Schedule struct {
	StartTime *time.Time `json:"startTime,omitempty" bson:"startTime,omitempty"`
	EndTime   *time.Time `json:"endTime,omitempty" bson:"endTime,omitempty"`
}

// WorkflowStep is one ordered hiring stage of a drive.
type WorkflowStep struct {
	ID       string    `json:"id" bson:"_id"`
	Name     string    `json:"name" bson:"name"`
	Type     string    `json:"type,omitempty" bson:"type,omitempty"`
	Schedule *Schedule `json:"schedule,omitempty" bson:"schedule,omitempty"`
}

type Workflow struct {
	Steps []WorkflowStep `json:"steps" bson:"steps"`
}

// Drive is a hiring campaign run by a company at an institute.
type Drive struct {
	ID               string       `json:"id" bson:"_id"`
	Institute        string       `json:"institute" bson:"institute"`
	Company          string       `json:"company" bson:"company"`
	Title            string       `json:"title" bson:"title"`
	Type             DriveType    `json:"type,omitempty" bson:"type,omitempty"`
	Openings         int          `json:"openings,omitempty" bson:"openings,omitempty"`
	Salary           *SalaryRange `json:"salary,omitempty" bson:"salary,omitempty"`
	ApplicationRange *DateRange   `json:"applicationRange,omitempty" bson:"applicationRange,omitempty"`
	Skills           []string     `json:"skills,omitempty" bson:"skills,omitempty"`
	Workflow         *Workflow    `json:"workflow,omitempty" bson:"workflow,omitempty"`
	Candidates       []string     `json:"candidates,omitempty" bson:"candidates,omitempty"`
	HiredCandidates  []string     `json:"hiredCandidates,omitempty" bson:"hiredCandidates,omitempty"`
	Published        bool         `json:"published" bson:"published"`
	PublishedOn      *time.Time   `json:"publishedOn,omitempty" bson:"publishedOn,omitempty"`
	HasEnded         bool         `json:"hasEnded" bson:"hasEnded"`
	CreatedAt        *time.Time   `json:"createdAt,omitempty" bson:"createdAt,omitempty"`
	UpdatedAt        *time.Time   `json:"updatedAt,omitempty" bson:"updatedAt,omitempty"`
}

// Steps returns the drive's workflow steps, or nil when it has no workflow.
func (d *Drive) Steps() []WorkflowStep {
	if d.Workflow == nil {
		return nil
	}
	return d.Workflow.Steps
}

// internal/models/application.go
package models

import "time"

type ApplicationStatus string

const (
	StatusInProgress ApplicationStatus = "inprogress"
	StatusRejected   ApplicationStatus = "rejected"
	StatusHired      ApplicationStatus = "hired"
)

type StageScore struct {
	StageID string   `json:"stageId" bson:"stageId"`
	Score   *float64 `json:"score,omitempty" bson:"score,omitempty"`
}

// Application is one candidate's participation in one drive.
type Application struct {
	ID                string            `json:"id" bson:"_id"`
	Drive             string            `json:"drive" bson:"drive"`
	User              string            `json:"user" bson:"user"`
	Status            ApplicationStatus `json:"status" bson:"status"`
	Salary            *float64          `json:"salary,omitempty" bson:"salary,omitempty"`
	DisqualifiedStage string            `json:"disqualifiedStage,omitempty" bson:"disqualifiedStage,omitempty"`
	Scores            []StageScore      `json:"scores,omitempty" bson:"scores,omitempty"`
	CreatedAt         *time.Time        `json:"createdAt,omitempty" bson:"createdAt,omitempty"`
	UpdatedAt         *time.Time        `json:"updatedAt,omitempty" bson:"updatedAt,omitempty"`
}

func (a *Application) IsHired() bool {
	return a.Status == StatusHired
}

// PositiveSalary returns the salary when it is set and greater than zero.
func (a *Application) PositiveSalary() (float64, bool) {
	if a.Salary == nil || *a.Salary <= 0 {
		return 0, false
	}
	return *a.Salary, true
}

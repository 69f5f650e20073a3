// internal/models/candidate.go
package models

import "time"

type Education struct {
	School     string   `json:"school,omitempty" bson:"school,omitempty"`
	Degree     string   `json:"degree,omitempty" bson:"degree,omitempty"`
	Branch     string   `json:"branch,omitempty" bson:"branch,omitempty"`
	Percentage *float64 `json:"percentage,omitempty" bson:"percentage,omitempty"`
	StartYear  *int     `json:"startYear,omitempty" bson:"startYear,omitempty"`
	EndYear    *int     `json:"endYear,omitempty" bson:"endYear,omitempty"`
	Current    bool     `json:"current,omitempty" bson:"current,omitempty"`
}

type WorkExperience struct {
	Company   string     `json:"company,omitempty" bson:"company,omitempty"`
	Type      string     `json:"type,omitempty" bson:"type,omitempty"`
	StartDate *time.Time `json:"startDate,omitempty" bson:"startDate,omitempty"`
	EndDate   *time.Time `json:"endDate,omitempty" bson:"endDate,omitempty"`
	Current   bool       `json:"current,omitempty" bson:"current,omitempty"`
}

type TechnicalSkill struct {
	Skill       string `json:"skill" bson:"skill"`
	Proficiency *int   `json:"proficiency,omitempty" bson:"proficiency,omitempty"`
}

type Candidate struct {
	ID              string           `json:"id" bson:"_id"`
	Name            string           `json:"name" bson:"name"`
	Email           string           `json:"email" bson:"email"`
	Gender          string           `json:"gender,omitempty" bson:"gender,omitempty"`
	Institute       string           `json:"institute,omitempty" bson:"institute,omitempty"`
	Education       []Education      `json:"education,omitempty" bson:"education,omitempty"`
	WorkExperience  []WorkExperience `json:"workExperience,omitempty" bson:"workExperience,omitempty"`
	TechnicalSkills []TechnicalSkill `json:"technicalSkills,omitempty" bson:"technicalSkills,omitempty"`
}

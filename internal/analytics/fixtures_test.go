package analytics

import (
	"time"

	"placement-analytics/internal/models"
)

// ==========================
// Test Helper Functions
// ==========================

var testNow = time.Date(2024, time.June, 15, 12, 0, 0, 0, time.UTC)

func at(year int, month time.Month, day int) *time.Time {
	t := time.Date(year, month, day, 10, 0, 0, 0, time.UTC)
	return &t
}

func f64(v float64) *float64 { return &v }

func intp(v int) *int { return &v }

func createApplication(id, drive, user string, status models.ApplicationStatus, created *time.Time) models.Application {
	return models.Application{
		ID:        id,
		Drive:     drive,
		User:      user,
		Status:    status,
		CreatedAt: created,
		UpdatedAt: created,
	}
}

func withSalary(app models.Application, salary float64) models.Application {
	app.Salary = f64(salary)
	return app
}

func withScores(app models.Application, scores map[string]float64) models.Application {
	for stage, score := range scores {
		app.Scores = append(app.Scores, models.StageScore{StageID: stage, Score: f64(score)})
	}
	return app
}

func createWorkflowDrive(id string, stages ...string) models.Drive {
	steps := make([]models.WorkflowStep, 0, len(stages))
	for _, s := range stages {
		steps = append(steps, models.WorkflowStep{ID: id + "-" + s, Name: s})
	}
	return models.Drive{
		ID:       id,
		Title:    "Software Engineer",
		Company:  "company-1",
		Workflow: &models.Workflow{Steps: steps},
	}
}

func createCandidate(id, institute string, skills ...string) models.Candidate {
	c := models.Candidate{
		ID:        id,
		Name:      "Candidate " + id,
		Email:     id + "@example.com",
		Institute: institute,
	}
	for _, s := range skills {
		c.TechnicalSkills = append(c.TechnicalSkills, models.TechnicalSkill{Skill: s})
	}
	return c
}

// createCompanyDataset builds a small but complete company dataset spanning
// two years, two institutes and a three-stage workflow.
func createCompanyDataset() *models.Dataset {
	driveA := createWorkflowDrive("drive-a", "Aptitude", "Technical", "HR")
	driveA.Institute = "inst-1"
	driveA.Type = models.DriveTypeFullTime
	driveA.Skills = []string{"Go", "SQL", "Docker"}
	driveA.ApplicationRange = &models.DateRange{Start: at(2023, time.January, 1), End: at(2023, time.January, 31)}

	driveB := createWorkflowDrive("drive-b", "Aptitude", "Technical", "HR")
	driveB.Institute = "inst-2"
	driveB.Type = models.DriveTypeInternship
	driveB.Title = "Data Analyst"
	driveB.Skills = []string{"Python", "SQL"}
	driveB.ApplicationRange = &models.DateRange{Start: at(2024, time.May, 1), End: at(2024, time.July, 1)}

	apps := []models.Application{
		withSalary(createApplication("app-1", "drive-a", "cand-1", models.StatusHired, at(2023, time.January, 5)), 1200000),
		withSalary(createApplication("app-2", "drive-a", "cand-2", models.StatusHired, at(2023, time.January, 6)), 800000),
		createApplication("app-3", "drive-a", "cand-3", models.StatusRejected, at(2023, time.January, 7)),
		createApplication("app-4", "drive-b", "cand-4", models.StatusInProgress, at(2024, time.May, 10)),
		withSalary(createApplication("app-5", "drive-b", "cand-5", models.StatusHired, at(2024, time.May, 12)), 600000),
	}
	apps[2].DisqualifiedStage = "Technical"
	apps[0] = withScores(apps[0], map[string]float64{"drive-a-Aptitude": 90, "drive-a-Technical": 80})
	apps[3] = withScores(apps[3], map[string]float64{"drive-b-Aptitude": 70})
	apps[1].UpdatedAt = at(2023, time.January, 16)

	c1 := createCandidate("cand-1", "inst-1", "Go", "Docker")
	c1.Education = []models.Education{
		{School: "City School", Degree: "HSC", EndYear: intp(2018), Percentage: f64(88)},
		{School: "Tech University", Degree: "B.Tech", Branch: "CSE", EndYear: intp(2022), Percentage: f64(82)},
	}
	c1.WorkExperience = []models.WorkExperience{
		{Company: "Acme", Type: "internship", StartDate: at(2021, time.January, 1), EndDate: at(2022, time.January, 1)},
	}
	c2 := createCandidate("cand-2", "inst-1", "Python")
	c2.Education = []models.Education{{School: "Tech University", Degree: "B.Tech", Branch: "ECE", Percentage: f64(76)}}

	return &models.Dataset{
		Drives:       []models.Drive{driveA, driveB},
		Applications: apps,
		Candidates: []models.Candidate{
			c1, c2,
			createCandidate("cand-3", "inst-1", "Java"),
			createCandidate("cand-4", "inst-2", "SQL"),
			createCandidate("cand-5", "inst-2", "Python", "SQL"),
		},
		Institutes: []models.Institute{
			{ID: "inst-1", Name: "Institute of Technology"},
			{ID: "inst-2", Name: "College of Science"},
		},
		Companies: []models.Company{{ID: "company-1", Name: "Globex"}},
	}
}

package analytics

import "strings"

const OtherCategory = "Other"

type skillCategory struct {
	Name     string
	Keywords []string
}

// skillCategories is scanned in order; the first category with a keyword
// contained in the skill name (case-insensitive) wins.
var skillCategories = []skillCategory{
	{
		Name: "Programming Languages",
		Keywords: []string{"JavaScript", "Python", "Java", "C++", "C#", "Ruby", "PHP",
			"Swift", "Kotlin", "Go", "Rust", "TypeScript"},
	},
	{
		Name: "Web Development",
		Keywords: []string{"HTML", "CSS", "React", "Angular", "Vue", "Node.js", "Express.js",
			"Django", "Flask", "Ruby on Rails", "Bootstrap", "Tailwind CSS"},
	},
	{
		Name: "Data Science",
		Keywords: []string{"SQL", "R", "Pandas", "NumPy", "SciPy", "TensorFlow", "PyTorch",
			"Machine Learning", "Deep Learning", "Data Analysis", "Data Visualization"},
	},
	{
		Name: "DevOps",
		Keywords: []string{"AWS", "Azure", "GCP", "Docker", "Kubernetes", "Jenkins", "CI/CD",
			"Git", "GitHub", "GitLab", "Terraform", "Ansible"},
	},
	{
		Name:     "Mobile Development",
		Keywords: []string{"Android", "iOS", "React Native", "Flutter", "Swift", "Kotlin", "Xamarin"},
	},
	{
		Name: "Database",
		Keywords: []string{"SQL", "MySQL", "PostgreSQL", "MongoDB", "Firebase", "Redis", "Oracle",
			"DynamoDB", "Cassandra", "Neo4j", "SQLite"},
	},
}

// CategorizeSkill maps a skill name onto its category, or Other.
func CategorizeSkill(skill string) string {
	lower := strings.ToLower(skill)
	for _, c := range skillCategories {
		for _, kw := range c.Keywords {
			if strings.Contains(lower, strings.ToLower(kw)) {
				return c.Name
			}
		}
	}
	return OtherCategory
}

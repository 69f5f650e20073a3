// internal/models/institute.go
package models

type Institute struct {
	ID                string   `json:"id" bson:"_id"`
	Name              string   `json:"name" bson:"name"`
	Candidates        []string `json:"candidates,omitempty" bson:"candidates,omitempty"`
	PendingCandidates []string `json:"pendingCandidates,omitempty" bson:"pendingCandidates,omitempty"`
}

type Company struct {
	ID   string `json:"id" bson:"_id"`
	Name string `json:"name" bson:"name"`
}

package models

// SearchParams are the optional filters of the faculty search endpoint.
// Empty fields are not sent.
type SearchParams struct {
	Query       string
	FirstName   string
	LastName    string
	Department  string
	Institution string
}

// SearchResult is one row of a faculty search.
type SearchResult struct {
	FacultyID       string `json:"faculty_id"`
	FirstName       string `json:"first_name"`
	LastName        string `json:"last_name"`
	DepartmentName  string `json:"department_name"`
	InstitutionName string `json:"institution_name"`
}

type Institution struct {
	InstitutionID string `json:"institution_id"`
	Name          string `json:"name"`
	City          string `json:"city"`
}

// Recommendation is a suggested collaborator for a faculty member.
type Recommendation struct {
	FacultyID          string  `json:"faculty_id"`
	FirstName          string  `json:"first_name"`
	LastName           string  `json:"last_name"`
	Biography          string  `json:"biography"`
	InstitutionName    string  `json:"institution_name"`
	DepartmentName     string  `json:"department_name"`
	MatchScore         float64 `json:"match_score"`
	RecommendationType string  `json:"recommendation_type"`
	RecommendationText string  `json:"recommendation_text"`
}

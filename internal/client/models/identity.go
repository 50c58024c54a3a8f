package models

// IdentityClaim is the name and institution a user asserts in the first
// signup step.
type IdentityClaim struct {
	FirstName       string `json:"first_name"`
	LastName        string `json:"last_name"`
	InstitutionName string `json:"institution_name"`
}

// MatchType classifies how a claim relates to an existing record.
type MatchType string

const (
	MatchNone     MatchType = ""
	MatchPerfect  MatchType = "perfect"
	MatchNameOnly MatchType = "name_only"
)

// MatchResult is the outcome of identity reconciliation. Faculty is nil and
// MatchType is MatchNone when Exists is false.
type MatchResult struct {
	Exists    bool
	Faculty   *Faculty
	MatchType MatchType
}

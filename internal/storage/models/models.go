package models

import "time"

type Faculty struct {
	FacultyID        string
	FirstName        string
	LastName         string
	Biography        string
	ORCID            string
	GoogleScholarURL string
	ResearchGateURL  string
	ScrapedFrom      string
	CreatedAt        time.Time
}

// FacultyProfile is the full aggregate served by the API: the base record
// plus every multi-valued attribute set and the current institution.
type FacultyProfile struct {
	Faculty
	Emails          []string
	Phones          []string
	Departments     []string
	Titles          []string
	InstitutionName string
}

type Institution struct {
	InstitutionID string
	Name          string
	StreetAddr    string
	City          string
	State         string
	Country       string
	Zip           string
	WebsiteURL    string
	Type          string
}

type Keyword struct {
	KeywordID string
	Name      string
}

type Publication struct {
	PublicationID string
	Title         string
	Abstract      string
	Year          int
}

type Grant struct {
	GrantID string
	Title   string
	Agency  string
}

// AffinityScore is one row of the pairwise recommendation counter table,
// keyed by (FacultyA, FacultyB, Signal). Totals are derived by summing a
// pair's rows across signals at read time.
type AffinityScore struct {
	FacultyA string
	FacultyB string
	Signal   string
	Score    int
}

// GenerationRecord is the audit row behind the keyword-generation rate
// limit. It is written inside the generation transaction and rolled back
// when the extraction fails, so only successful generations consume budget.
type GenerationRecord struct {
	GenerationID string
	FacultyID    string
	CreatedAt    time.Time
}

type Credentials struct {
	FacultyID    string
	Username     string
	PasswordHash string
	CreatedAt    time.Time
}

type Session struct {
	SessionID string
	FacultyID string
	TokenHash string
	ExpiresAt time.Time
	Revoked   bool
	CreatedAt time.Time
}

// SearchResult is a faculty row as returned by search, carrying the
// keyword-overlap score attached during reranking.
type SearchResult struct {
	FacultyID       string  `json:"faculty_id"`
	FirstName       string  `json:"first_name"`
	LastName        string  `json:"last_name"`
	Biography       string  `json:"biography,omitempty"`
	DepartmentName  string  `json:"department_name,omitempty"`
	InstitutionName string  `json:"institution_name,omitempty"`
	KeywordScore    int     `json:"keyword_score"`
}

// Recommendation is a ranked collaborator suggestion for one faculty member.
type Recommendation struct {
	FacultyID       string `json:"faculty_id"`
	FirstName       string `json:"first_name"`
	LastName        string `json:"last_name"`
	Biography       string `json:"biography,omitempty"`
	DepartmentName  string `json:"department_name,omitempty"`
	InstitutionName string `json:"institution_name,omitempty"`
	Score           int    `json:"score"`
}

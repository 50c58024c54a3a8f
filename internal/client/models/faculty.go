// Package models defines the faculty directory records exchanged with the
// backend and the identity types used during signup.
package models

import "strings"

// Faculty is a full faculty profile. Slice order is meaningful: the first
// entry of Emails, Phones, Departments and Titles is the primary one.
type Faculty struct {
	FacultyID        string   `json:"faculty_id,omitempty"`
	FirstName        string   `json:"first_name"`
	LastName         string   `json:"last_name"`
	InstitutionName  string   `json:"institution_name"`
	Emails           []string `json:"emails"`
	Phones           []string `json:"phones"`
	Departments      []string `json:"departments"`
	Titles           []string `json:"titles"`
	Biography        string   `json:"biography"`
	ORCID            string   `json:"orcid"`
	GoogleScholarURL string   `json:"google_scholar_url"`
	ResearchGateURL  string   `json:"research_gate_url"`
}

// FullName returns "First Last".
func (f *Faculty) FullName() string {
	return strings.TrimSpace(f.FirstName + " " + f.LastName)
}

// Clone returns a deep copy so that a working draft never aliases the
// record it was prefilled from.
func (f *Faculty) Clone() *Faculty {
	if f == nil {
		return nil
	}
	c := *f
	c.Emails = cloneStrings(f.Emails)
	c.Phones = cloneStrings(f.Phones)
	c.Departments = cloneStrings(f.Departments)
	c.Titles = cloneStrings(f.Titles)
	return &c
}

// Cleaned returns a copy with every scalar trimmed and blank entries dropped
// from the multi-valued fields. Nil slices become empty ones, so the record
// always marshals arrays rather than null.
func (f *Faculty) Cleaned() *Faculty {
	if f == nil {
		return nil
	}
	return &Faculty{
		FacultyID:        strings.TrimSpace(f.FacultyID),
		FirstName:        strings.TrimSpace(f.FirstName),
		LastName:         strings.TrimSpace(f.LastName),
		InstitutionName:  strings.TrimSpace(f.InstitutionName),
		Emails:           compact(f.Emails),
		Phones:           compact(f.Phones),
		Departments:      compact(f.Departments),
		Titles:           compact(f.Titles),
		Biography:        strings.TrimSpace(f.Biography),
		ORCID:            strings.TrimSpace(f.ORCID),
		GoogleScholarURL: strings.TrimSpace(f.GoogleScholarURL),
		ResearchGateURL:  strings.TrimSpace(f.ResearchGateURL),
	}
}

func cloneStrings(s []string) []string {
	if s == nil {
		return nil
	}
	out := make([]string, len(s))
	copy(out, s)
	return out
}

func compact(s []string) []string {
	out := make([]string, 0, len(s))
	for _, v := range s {
		if v = strings.TrimSpace(v); v != "" {
			out = append(out, v)
		}
	}
	return out
}

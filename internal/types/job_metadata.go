package types

import (
	"strings"
	"time"
)

// RoleLevel is the seniority of a posting.
type RoleLevel string

// Recognized role levels. Anything else normalizes to RoleLevelNotSpecified.
const (
	RoleLevelEntry        RoleLevel = "Entry"
	RoleLevelMid          RoleLevel = "Mid"
	RoleLevelSenior       RoleLevel = "Senior"
	RoleLevelStaff        RoleLevel = "Staff"
	RoleLevelPrincipal    RoleLevel = "Principal"
	RoleLevelLead         RoleLevel = "Lead"
	RoleLevelManager      RoleLevel = "Manager"
	RoleLevelDirector     RoleLevel = "Director"
	RoleLevelVP           RoleLevel = "VP"
	RoleLevelCLevel       RoleLevel = "C-Level"
	RoleLevelNotSpecified RoleLevel = "Not Specified"
)

// JobType is the employment type of a posting.
type JobType string

// Recognized job types.
const (
	JobTypeFullTime   JobType = "Full-time"
	JobTypePartTime   JobType = "Part-time"
	JobTypeContract   JobType = "Contract"
	JobTypeInternship JobType = "Internship"
)

// RemotePolicy describes where the work happens.
type RemotePolicy string

// Recognized remote policies.
const (
	RemotePolicyRemote RemotePolicy = "Remote"
	RemotePolicyHybrid RemotePolicy = "Hybrid"
	RemotePolicyOnsite RemotePolicy = "Onsite"
)

// JobMetadata holds structured metadata extracted from a job posting.
// Sponsorship is free text because postings phrase it in many ways; "No"
// (case-insensitive) is the only value treated as a hard blocker.
type JobMetadata struct {
	Title         string       `json:"title"`
	Company       string       `json:"company"`
	RoleLevel     RoleLevel    `json:"role_level"`
	Sponsorship   string       `json:"sponsorship"`
	PostedDate    *time.Time   `json:"posted_date,omitempty"`
	PostedDateRaw string       `json:"posted_date_raw,omitempty"`
	Location      string       `json:"location,omitempty"`
	JobType       JobType      `json:"job_type,omitempty"`
	RemotePolicy  RemotePolicy `json:"remote_policy,omitempty"`
	SalaryRange   string       `json:"salary_range,omitempty"`
	JobURL        string       `json:"job_url"`
}

// Normalize canonicalizes enum-ish fields after LLM extraction.
func (m *JobMetadata) Normalize() {
	m.RoleLevel = normalizeRoleLevel(string(m.RoleLevel))
	if m.Sponsorship == "" {
		m.Sponsorship = "Not Specified"
	}
	if m.PostedDate == nil && m.PostedDateRaw != "" {
		if parsed, err := parsePostedDate(m.PostedDateRaw); err == nil {
			m.PostedDate = &parsed
		}
	}
}

// SponsorshipDenied reports whether the posting explicitly refuses sponsorship.
func (m *JobMetadata) SponsorshipDenied() bool {
	return strings.EqualFold(strings.TrimSpace(m.Sponsorship), "no")
}

func normalizeRoleLevel(raw string) RoleLevel {
	switch RoleLevel(strings.TrimSpace(raw)) {
	case RoleLevelEntry, RoleLevelMid, RoleLevelSenior, RoleLevelStaff,
		RoleLevelPrincipal, RoleLevelLead, RoleLevelManager,
		RoleLevelDirector, RoleLevelVP, RoleLevelCLevel:
		return RoleLevel(strings.TrimSpace(raw))
	default:
		return RoleLevelNotSpecified
	}
}

// postedDateLayouts lists the date formats postings commonly use.
var postedDateLayouts = []string{
	"2006-01-02",
	"January 2, 2006",
	"Jan 2, 2006",
	"01/02/2006",
}

func parsePostedDate(raw string) (time.Time, error) {
	raw = strings.TrimSpace(raw)
	var lastErr error
	for _, layout := range postedDateLayouts {
		parsed, err := time.Parse(layout, raw)
		if err == nil {
			return parsed, nil
		}
		lastErr = err
	}
	return time.Time{}, lastErr
}

package types

import "strings"

// RoleSection is one work-experience entry in the pointer bank: a role
// heading and its achievement bullets, in document order.
type RoleSection struct {
	Role    string   `json:"role"`
	Bullets []string `json:"bullets"`
}

// PointerBank is the candidate's achievement inventory loaded from the
// pointer source. Section order is preserved from the source document.
type PointerBank struct {
	Sections []RoleSection `json:"sections"`
	Skills   []string      `json:"skills,omitempty"`
}

// IsEmpty reports whether the bank contains no usable bullets.
func (b *PointerBank) IsEmpty() bool {
	if b == nil {
		return true
	}
	for _, s := range b.Sections {
		if len(s.Bullets) > 0 {
			return false
		}
	}
	return true
}

// BulletCount returns the total number of bullets across all sections.
func (b *PointerBank) BulletCount() int {
	n := 0
	for _, s := range b.Sections {
		n += len(s.Bullets)
	}
	return n
}

// RewrittenBullets holds the tailored bullets per role, in the same section
// order as the source bank.
type RewrittenBullets struct {
	Sections []RoleSection `json:"sections"`
}

// ForRole returns the rewritten bullets for a role, matching case-insensitively.
func (r *RewrittenBullets) ForRole(role string) ([]string, bool) {
	if r == nil {
		return nil, false
	}
	for _, s := range r.Sections {
		if strings.EqualFold(s.Role, role) {
			return s.Bullets, true
		}
	}
	return nil, false
}

// AllText joins every rewritten bullet into one newline-separated string,
// used for coverage scoring.
func (r *RewrittenBullets) AllText() string {
	if r == nil {
		return ""
	}
	var sb strings.Builder
	for _, s := range r.Sections {
		for _, b := range s.Bullets {
			sb.WriteString(b)
			sb.WriteByte('\n')
		}
	}
	return sb.String()
}

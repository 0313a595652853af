package models

import "strings"

// SearchSpec pins the search parameters a mirror was built from. The
// parameters that define the result set (base DN, scope, filter,
// attribute list) are persisted alongside the mirror; reusing a mirror
// with a conflicting spec would silently blend two different result sets,
// so the store rejects it. Host and bind identity are not part of the
// spec and may change between runs.
type SearchSpec struct {
	BaseDN string   `json:"base_dn"`
	Scope  string   `json:"scope"`
	Filter string   `json:"filter"`
	Attrs  []string `json:"attrs"`
}

// ConflictsWith reports whether other describes a different result set.
func (s SearchSpec) ConflictsWith(other SearchSpec) bool {
	if !strings.EqualFold(s.BaseDN, other.BaseDN) {
		return true
	}
	if s.Scope != other.Scope || s.Filter != other.Filter {
		return true
	}
	if len(s.Attrs) != len(other.Attrs) {
		return true
	}
	for i := range s.Attrs {
		if !strings.EqualFold(s.Attrs[i], other.Attrs[i]) {
			return true
		}
	}
	return false
}

// Package scope decides which organizational units a request may see and
// turns that decision into query filters.
package scope

import (
	"gorm.io/gorm"
)

// Scope set of unit ids a query is restricted to.
//
// The zero value is the explicitly empty scope: every scoped query returns
// no rows. Unscoped() is the only way to lift the filter.
type Scope struct {
	unscoped bool
	ids      []string
}

// Unscoped the sentinel for global queries
func Unscoped() Scope { return Scope{unscoped: true} }

// Of an explicit set; no arguments gives the empty scope.
func Of(ids ...string) Scope {
	seen := make(map[string]struct{}, len(ids))
	out := make([]string, 0, len(ids))
	for _, id := range ids {
		if id == "" {
			continue
		}
		if _, dup := seen[id]; dup {
			continue
		}
		seen[id] = struct{}{}
		out = append(out, id)
	}
	return Scope{ids: out}
}

// IsUnscoped reports the global sentinel.
func (s Scope) IsUnscoped() bool { return s.unscoped }

// IsEmpty reports an explicit scope with no units.
func (s Scope) IsEmpty() bool { return !s.unscoped && len(s.ids) == 0 }

// IDs copy of the unit ids; nil when unscoped.
func (s Scope) IDs() []string {
	if s.unscoped {
		return nil
	}
	out := make([]string, len(s.ids))
	copy(out, s.ids)
	return out
}

// Contains reports whether unitID passes the filter.
func (s Scope) Contains(unitID string) bool {
	if s.unscoped {
		return true
	}
	for _, id := range s.ids {
		if id == unitID {
			return true
		}
	}
	return false
}

// Apply returns a GORM scope filtering column by the unit set.
func (s Scope) Apply(column string) func(*gorm.DB) *gorm.DB {
	return func(db *gorm.DB) *gorm.DB {
		switch {
		case s.unscoped:
			return db
		case len(s.ids) == 0:
			return db.Where("1 = 0")
		default:
			return db.Where(column+" IN ?", s.ids)
		}
	}
}

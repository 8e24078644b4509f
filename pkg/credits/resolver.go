// Package credits classifies modules into credit categories and aggregates
// their weights against program requirements.
package credits

import (
	"strings"

	"github.com/creditscope/creditscope/pkg/catalog"
	"github.com/creditscope/creditscope/pkg/module"
	"github.com/creditscope/creditscope/pkg/program"
	"github.com/creditscope/creditscope/pkg/semester"
)

const (
	// PracticumPrefix starts the short name of every practicum module.
	PracticumPrefix = "BPRAXIS"
	// TutoringMarker appears in the short name of tutoring modules.
	TutoringMarker = "_TUT"
)

// Overrides supplies user-chosen categories keyed by module full id.
// settings.Settings implements it.
type Overrides interface {
	TypeOverride(fullID string) (module.Type, bool)
}

// Resolver decides the credit category of modules.
type Resolver struct {
	Catalog   *catalog.Catalog
	Overrides Overrides
}

// NewResolver returns a resolver backed by the given catalog and overrides.
// Either may be nil.
func NewResolver(c *catalog.Catalog, o Overrides) Resolver {
	return Resolver{Catalog: c, Overrides: o}
}

// Resolve returns the category of m as seen from the viewing semester.
//
// A user override wins unconditionally. Practicum and tutoring modules are
// recognized by name before any reference data is consulted. Otherwise the
// catalog decides, with unknown modules defaulting to Extension, and a
// catalog entry offered to the chosen major is promoted to Major.
func (r Resolver) Resolve(viewing semester.Semester, m module.Module, p program.Program, major *program.Major) module.Type {
	if r.Overrides != nil {
		if t, ok := r.Overrides.TypeOverride(m.FullID); ok {
			return t
		}
	}

	if strings.HasPrefix(m.ShortName, PracticumPrefix) {
		return module.Extension
	}
	if strings.Contains(m.ShortName, TutoringMarker) {
		return module.Misc
	}

	entry, ok := r.Catalog.Lookup(viewing, m.Semester, m.ShortName, p)
	if !ok {
		return module.Extension
	}
	return promote(entry, major)
}

func promote(entry catalog.Entry, major *program.Major) module.Type {
	if major != nil && entry.EligibleFor(*major) {
		return module.Major
	}
	return entry.Type
}

// Offering is a catalog module with its category resolved for a student.
type Offering struct {
	catalog.Offering
	Type module.Type
}

// Offerings lists the modules a program offers in sem, with the major
// promotion applied.
func (r Resolver) Offerings(sem semester.Semester, p program.Program, major *program.Major) []Offering {
	if r.Catalog == nil {
		return nil
	}
	listed := r.Catalog.Offered(sem, p)
	out := make([]Offering, 0, len(listed))
	for _, o := range listed {
		out = append(out, Offering{Offering: o, Type: promote(o.Entry, major)})
	}
	return out
}

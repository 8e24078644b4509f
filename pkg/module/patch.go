package module

import "github.com/creditscope/creditscope/pkg/semester"

// Patch is a sparse set of field overrides for a module. Unset fields leave
// the underlying value alone. ECTS and Grade may be set to nil to clear them.
type Patch struct {
	ShortName Optional[string]            `json:"shortName,omitzero"`
	ECTS      Optional[*float64]          `json:"ects,omitzero"`
	State     Optional[State]             `json:"state,omitzero"`
	Grade     Optional[*string]           `json:"grade,omitzero"`
	Semester  Optional[semester.Semester] `json:"semester,omitzero"`
	Type      Optional[Type]              `json:"type,omitzero"`
}

// Empty reports whether the patch overrides nothing.
func (p Patch) Empty() bool {
	return !p.ShortName.Set && !p.ECTS.Set && !p.State.Set &&
		!p.Grade.Set && !p.Semester.Set && !p.Type.Set
}

// Over merges p on top of older: fields set in p win, the remaining fields
// are taken from older.
func (p Patch) Over(older Patch) Patch {
	return Patch{
		ShortName: p.ShortName.Or(older.ShortName),
		ECTS:      p.ECTS.Or(older.ECTS),
		State:     p.State.Or(older.State),
		Grade:     p.Grade.Or(older.Grade),
		Semester:  p.Semester.Or(older.Semester),
		Type:      p.Type.Or(older.Type),
	}
}

// Apply returns a copy of m with the patch's fields overriding m's values.
// The category is not a module field and is consulted by the classifier.
func (p Patch) Apply(m Module) Module {
	m.ShortName = p.ShortName.ValueOr(m.ShortName)
	m.ECTS = p.ECTS.ValueOr(m.ECTS)
	m.State = p.State.ValueOr(m.State)
	m.Grade = p.Grade.ValueOr(m.Grade)
	m.Semester = p.Semester.ValueOr(m.Semester)
	return m
}

// Package settings holds the user's persisted corrections and preferences
// and reconciles them with the module list fetched from the campus.
package settings

import (
	"time"

	"github.com/creditscope/creditscope/pkg/module"
	"github.com/creditscope/creditscope/pkg/program"
	"github.com/creditscope/creditscope/pkg/semester"
	"github.com/google/uuid"
)

// ManualPrefix starts the full id of modules created by the user.
const ManualPrefix = "manual-"

// NewManualID returns a fresh full id for a user-created module.
func NewManualID() string {
	return ManualPrefix + uuid.NewString()
}

// ModuleEdit is a sparse patch for the module with the given full id.
type ModuleEdit struct {
	FullID string       `json:"fullId"`
	Edits  module.Patch `json:"edits"`
}

// Settings is the persisted user state. Values are treated as immutable:
// every change produces a new Settings.
type Settings struct {
	ModuleEdits []ModuleEdit `json:"moduleEdits"`
	// Semester overrides the viewing semester; nil means the current one.
	Semester *semester.Semester `json:"semester"`
	// Program and Major override what the campus study page reports.
	Program *program.Program `json:"bachelor"`
	Major   *program.Major   `json:"major"`
}

// Edit returns the edit stored for fullID.
func (s Settings) Edit(fullID string) (ModuleEdit, bool) {
	for _, e := range s.ModuleEdits {
		if e.FullID == fullID {
			return e, true
		}
	}
	return ModuleEdit{}, false
}

// TypeOverride reports the category the user assigned to a module.
func (s Settings) TypeOverride(fullID string) (module.Type, bool) {
	e, ok := s.Edit(fullID)
	if !ok {
		return 0, false
	}
	return e.Edits.Type.Get()
}

func (s Settings) withEdits(edits []ModuleEdit) Settings {
	s.ModuleEdits = edits
	return s
}

func (s Settings) editsExcept(fullID string) []ModuleEdit {
	out := make([]ModuleEdit, 0, len(s.ModuleEdits)+1)
	for _, e := range s.ModuleEdits {
		if e.FullID != fullID {
			out = append(out, e)
		}
	}
	return out
}

// WithEdit returns settings containing edit merged over any existing edit
// for the same module. Fields the new edit leaves unset keep their earlier
// value, so there is never more than one edit per module.
func (s Settings) WithEdit(edit ModuleEdit) Settings {
	if existing, ok := s.Edit(edit.FullID); ok {
		edit.Edits = edit.Edits.Over(existing.Edits)
	}
	return s.withEdits(append(s.editsExcept(edit.FullID), edit))
}

// WithoutEdit returns settings without the edit for fullID.
func (s Settings) WithoutEdit(fullID string) Settings {
	return s.withEdits(s.editsExcept(fullID))
}

// Pruned drops plans for semesters that have already started. An edit is a
// stale plan when it sets the Planned state together with a semester at or
// before current. The boolean reports whether anything was removed.
func (s Settings) Pruned(current semester.Semester) (Settings, bool) {
	kept := make([]ModuleEdit, 0, len(s.ModuleEdits))
	for _, e := range s.ModuleEdits {
		state, hasState := e.Edits.State.Get()
		sem, hasSem := e.Edits.Semester.Get()
		if hasState && state == module.Planned && hasSem && !sem.After(current) {
			continue
		}
		kept = append(kept, e)
	}
	if len(kept) == len(s.ModuleEdits) {
		return s, false
	}
	return s.withEdits(kept), true
}

// ViewingSemester is the semester statistics are computed for.
func (s Settings) ViewingSemester(now time.Time) semester.Semester {
	if s.Semester != nil {
		return *s.Semester
	}
	return semester.FromDate(now)
}

// LocalData is the cached result of the last campus sync.
type LocalData struct {
	Modules   []module.Module `json:"modules"`
	Program   program.Program `json:"bachelor"`
	Major     *program.Major  `json:"major"`
	PartTime  bool            `json:"partTime"`
	FetchedAt time.Time       `json:"fetchedAt"`
}

// EffectiveProgram prefers the user's override over the detected program.
func (s Settings) EffectiveProgram(local LocalData) program.Program {
	if s.Program != nil {
		return *s.Program
	}
	return local.Program
}

// EffectiveMajor prefers the user's override over the detected major.
func (s Settings) EffectiveMajor(local LocalData) *program.Major {
	if s.Major != nil {
		return s.Major
	}
	return local.Major
}

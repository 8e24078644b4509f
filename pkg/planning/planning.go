// Package planning computes which future semesters a student can still
// plan modules for.
package planning

import (
	"errors"

	"github.com/creditscope/creditscope/pkg/module"
	"github.com/creditscope/creditscope/pkg/semester"
)

// Durations is the regular study length in semesters per study mode.
type Durations struct {
	FullTime int
	PartTime int
}

func DefaultDurations() Durations {
	return Durations{FullTime: 6, PartTime: 10}
}

func (d Durations) total(partTime bool) int {
	def := DefaultDurations()
	if partTime {
		if d.PartTime > 0 {
			return d.PartTime
		}
		return def.PartTime
	}
	if d.FullTime > 0 {
		return d.FullTime
	}
	return def.FullTime
}

// End is the last semester of a regular study that began in start.
func (d Durations) End(start semester.Semester, partTime bool) semester.Semester {
	return start.Steps(d.total(partTime) - 1)
}

// UpcomingSemesters lists the semesters after current up to and including
// the regular end of a study that began in start. The list is empty once
// current has reached the end.
func UpcomingSemesters(current semester.Semester, partTime bool, start semester.Semester, d Durations) []semester.Semester {
	end := d.End(start, partTime)
	if !current.Before(end) {
		return nil
	}
	return semester.Range(current.Next(), end)
}

// ErrNoModules is returned by StartingSemester for an empty module list.
var ErrNoModules = errors.New("planning: no modules to derive a starting semester from")

// StartingSemester guesses when the study began: the earliest semester of
// a module that carries credits, or of any module if none does.
func StartingSemester(modules []module.Module) (semester.Semester, error) {
	if len(modules) == 0 {
		return semester.Semester{}, ErrNoModules
	}

	var (
		earliest, earliestCredited semester.Semester
		credited                   bool
	)
	for i, m := range modules {
		if i == 0 || m.Semester.Before(earliest) {
			earliest = m.Semester
		}
		if m.ECTS == nil {
			continue
		}
		if !credited || m.Semester.Before(earliestCredited) {
			earliestCredited = m.Semester
			credited = true
		}
	}
	if credited {
		return earliestCredited, nil
	}
	return earliest, nil
}

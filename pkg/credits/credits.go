package credits

import (
	"fmt"

	"github.com/creditscope/creditscope/pkg/module"
	"github.com/creditscope/creditscope/pkg/program"
	"github.com/creditscope/creditscope/pkg/semester"
)

// Credits accumulates weights per category. Major credits are also counted
// as extension credits but only once in Total.
type Credits struct {
	Core      float64 `json:"core"`
	Project   float64 `json:"project"`
	Extension float64 `json:"extension"`
	Misc      float64 `json:"misc"`
	Major     float64 `json:"major"`
	Total     float64 `json:"total"`
}

func (c *Credits) add(t module.Type, amount float64) {
	switch t {
	case module.Core:
		c.Core += amount
	case module.Project:
		c.Project += amount
	case module.Major:
		c.Major += amount
		c.Extension += amount
	case module.Extension:
		c.Extension += amount
	case module.Misc:
		c.Misc += amount
	default:
		panic(fmt.Sprintf("credits: invalid module type %d", int(t)))
	}
	c.Total += amount
}

// Get returns the bucket for category t.
func (c Credits) Get(t module.Type) float64 {
	switch t {
	case module.Core:
		return c.Core
	case module.Project:
		return c.Project
	case module.Extension:
		return c.Extension
	case module.Misc:
		return c.Misc
	case module.Major:
		return c.Major
	default:
		panic(fmt.Sprintf("credits: invalid module type %d", int(t)))
	}
}

// Plus returns the bucket-wise sum of c and o.
func (c Credits) Plus(o Credits) Credits {
	return Credits{
		Core:      c.Core + o.Core,
		Project:   c.Project + o.Project,
		Extension: c.Extension + o.Extension,
		Misc:      c.Misc + o.Misc,
		Major:     c.Major + o.Major,
		Total:     c.Total + o.Total,
	}
}

// Statistic splits credits into finished modules (Done) and finished plus
// currently running modules (Ongoing).
type Statistic struct {
	Done    Credits `json:"done"`
	Ongoing Credits `json:"ongoing"`
}

// Statistics aggregates the credits of passed and ongoing modules. Modules
// without a credit weight are skipped; planned, failed and not applicable
// modules never contribute.
func (r Resolver) Statistics(modules []module.Module, viewing semester.Semester, p program.Program, major *program.Major) Statistic {
	var stat Statistic
	for _, m := range modules {
		if !m.Counts() {
			continue
		}

		t := r.Resolve(viewing, m, p, major)
		passed := m.State == module.Passed
		if passed {
			stat.Done.add(t, m.Credits())
		}
		if passed || m.State == module.Ongoing {
			stat.Ongoing.add(t, m.Credits())
		}
	}
	return stat
}

// PlannedStatistic extends Statistic with the credits of modules planned up
// to a given semester.
type PlannedStatistic struct {
	Statistic
	Planned Credits `json:"planned"`
}

// IncludingPlanned aggregates like Statistics and additionally sums every
// planned module whose semester is not after the planned semester.
func (r Resolver) IncludingPlanned(modules []module.Module, planned, viewing semester.Semester, p program.Program, major *program.Major) PlannedStatistic {
	stat := PlannedStatistic{Statistic: r.Statistics(modules, viewing, p, major)}
	for _, m := range modules {
		if !m.Counts() || m.State != module.Planned || m.Semester.After(planned) {
			continue
		}
		stat.Planned.add(r.Resolve(viewing, m, p, major), m.Credits())
	}
	return stat
}

// Projected combines existing and planned credits for the planned semester.
// Planning the running semester builds on finished modules only, later
// semesters assume the running modules will be passed.
func (s PlannedStatistic) Projected(planned, current semester.Semester) Credits {
	base := s.Ongoing
	if planned.Equal(current) {
		base = s.Done
	}
	return base.Plus(s.Planned)
}

package credits

import (
	"github.com/creditscope/creditscope/pkg/module"
	"github.com/creditscope/creditscope/pkg/program"
)

// Gap describes a requirement that is not met yet.
type Gap struct {
	Category string
	Required float64
	Actual   float64
}

// Missing is the number of credits still needed.
func (g Gap) Missing() float64 {
	return g.Required - g.Actual
}

// Row pairs a requirement category with the achieved credits. Required is
// nil when the category does not apply to the program.
type Row struct {
	Category string
	Required *float64
	Actual   float64
}

// Rows lays out credits against the requirement in display order:
// core, project, major, extension, misc, total.
func Rows(req program.Requirement, c Credits) []Row {
	total := req.Total
	return []Row{
		{Category: module.Core.String(), Required: req.Core, Actual: c.Core},
		{Category: module.Project.String(), Required: req.Project, Actual: c.Project},
		{Category: module.Major.String(), Required: req.Major, Actual: c.Major},
		{Category: module.Extension.String(), Required: req.Extension, Actual: c.Extension},
		{Category: module.Misc.String(), Required: req.Misc, Actual: c.Misc},
		{Category: "Total", Required: &total, Actual: c.Total},
	}
}

// Gaps returns every applicable category whose credits fall short.
func Gaps(req program.Requirement, c Credits) []Gap {
	var gaps []Gap
	for _, row := range Rows(req, c) {
		if row.Required == nil || row.Actual >= *row.Required {
			continue
		}
		gaps = append(gaps, Gap{Category: row.Category, Required: *row.Required, Actual: row.Actual})
	}
	return gaps
}

// Fulfilled reports whether c satisfies every credit minimum of req.
func Fulfilled(req program.Requirement, c Credits) bool {
	return len(Gaps(req, c)) == 0
}

// MissingMandatory returns the mandatory module codes of req that have no
// passed module among modules.
func MissingMandatory(req program.Requirement, modules []module.Module) []string {
	passed := map[string]bool{}
	for _, m := range modules {
		if m.State == module.Passed {
			passed[m.ShortName] = true
		}
	}

	var missing []string
	for _, code := range req.MandatoryModules {
		if !passed[code] {
			missing = append(missing, code)
		}
	}
	return missing
}

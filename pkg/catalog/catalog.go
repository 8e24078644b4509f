// Package catalog is the static reference data declaring, per semester and
// program, the category and major eligibility of each module.
package catalog

import (
	_ "embed"
	"fmt"
	"os"
	"sort"

	"github.com/creditscope/creditscope/pkg/module"
	"github.com/creditscope/creditscope/pkg/program"
	"github.com/creditscope/creditscope/pkg/semester"
	"github.com/tidwall/gjson"
)

//go:embed data/modules.json
var embedded []byte

// Entry is the reference data for one module in one program.
type Entry struct {
	ECTS      *float64
	Type      module.Type
	Mandatory bool
	Majors    []program.Major
}

// EligibleFor reports whether the module counts as a major module for m.
func (e Entry) EligibleFor(m program.Major) bool {
	for _, candidate := range e.Majors {
		if candidate == m {
			return true
		}
	}
	return false
}

// Offering is a module listed for a program in a given semester.
type Offering struct {
	ShortName string
	Semester  semester.Semester
	Entry     Entry
}

type offers map[program.Program]Entry

// Catalog is read-only after construction and safe for concurrent use.
type Catalog struct {
	semesters map[semester.Semester]map[string]offers
}

// Default returns the catalog bundled with the binary.
func Default() (*Catalog, error) {
	return Parse(embedded)
}

// Load reads a catalog from a JSON file.
func Load(path string) (*Catalog, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading catalog: %w", err)
	}
	return Parse(data)
}

// Parse decodes catalog JSON of the form
//
//	{"HS24": {"OOP": {"ComputerScience": {"type": "Core", "obligatory": true, "majors": [...], "ects": 6}}}}
//
// Unknown semester codes, programs, majors or types are rejected: the
// reference data is expected to be self-consistent.
func Parse(data []byte) (*Catalog, error) {
	if !gjson.ValidBytes(data) {
		return nil, fmt.Errorf("catalog is not valid JSON")
	}

	c := &Catalog{semesters: map[semester.Semester]map[string]offers{}}
	var perr error

	gjson.ParseBytes(data).ForEach(func(semKey, modules gjson.Result) bool {
		sem, err := semester.Parse(semKey.String())
		if err != nil {
			perr = fmt.Errorf("catalog: %w", err)
			return false
		}
		bySemester := map[string]offers{}
		c.semesters[sem] = bySemester

		modules.ForEach(func(shortName, programs gjson.Result) bool {
			o := offers{}
			programs.ForEach(func(progKey, raw gjson.Result) bool {
				p, err := program.Parse(progKey.String())
				if err != nil {
					perr = fmt.Errorf("catalog %s/%s: %w", sem, shortName.String(), err)
					return false
				}
				entry, err := parseEntry(raw)
				if err != nil {
					perr = fmt.Errorf("catalog %s/%s/%s: %w", sem, shortName.String(), p, err)
					return false
				}
				o[p] = entry
				return true
			})
			bySemester[shortName.String()] = o
			return perr == nil
		})
		return perr == nil
	})

	if perr != nil {
		return nil, perr
	}
	return c, nil
}

func parseEntry(raw gjson.Result) (Entry, error) {
	typ, err := module.ParseType(raw.Get("type").String())
	if err != nil {
		return Entry{}, err
	}

	entry := Entry{
		Type:      typ,
		Mandatory: raw.Get("obligatory").Bool(),
	}
	if ects := raw.Get("ects"); ects.Exists() && ects.Type == gjson.Number {
		entry.ECTS = module.ECTS(ects.Float())
	}
	for _, name := range raw.Get("majors").Array() {
		m, err := program.ParseMajor(name.String())
		if err != nil {
			return Entry{}, err
		}
		entry.Majors = append(entry.Majors, m)
	}
	return entry, nil
}

func (c *Catalog) get(sem semester.Semester, shortName string, p program.Program) (Entry, bool) {
	entry, ok := c.semesters[sem][shortName][p]
	return entry, ok
}

// Lookup finds the entry for a module, first in the viewing semester and then
// in the module's own semester. Modules dropped from the offering of the
// viewed semester are still found through the semester they were taken in.
func (c *Catalog) Lookup(viewing, own semester.Semester, shortName string, p program.Program) (Entry, bool) {
	if c == nil {
		return Entry{}, false
	}
	if entry, ok := c.get(viewing, shortName, p); ok {
		return entry, true
	}
	return c.get(own, shortName, p)
}

// Semesters returns every semester the catalog has data for, ascending.
func (c *Catalog) Semesters() []semester.Semester {
	out := make([]semester.Semester, 0, len(c.semesters))
	for s := range c.semesters {
		out = append(out, s)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Before(out[j]) })
	return out
}

// Offered lists the modules a program offers in a semester, sorted by short name.
func (c *Catalog) Offered(sem semester.Semester, p program.Program) []Offering {
	var out []Offering
	for shortName, o := range c.semesters[sem] {
		if entry, ok := o[p]; ok {
			out = append(out, Offering{ShortName: shortName, Semester: sem, Entry: entry})
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ShortName < out[j].ShortName })
	return out
}

// Latest returns the most recent semester not after sem that has catalog
// data. ok is false when there is none.
func (c *Catalog) Latest(sem semester.Semester) (semester.Semester, bool) {
	all := c.Semesters()
	for i := len(all) - 1; i >= 0; i-- {
		if !all[i].After(sem) {
			return all[i], true
		}
	}
	return semester.Semester{}, false
}

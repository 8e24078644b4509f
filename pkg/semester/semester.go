package semester

import (
	"fmt"
	"strconv"
	"strings"
	"time"
)

// Part is the half of the academic year a semester belongs to.
type Part int

const (
	// Fall is the autumn semester (Herbstsemester), September to January.
	Fall Part = iota
	// Spring is the spring semester (Frühlingssemester), February to August.
	Spring
)

func (p Part) String() string {
	switch p {
	case Fall:
		return "HS"
	case Spring:
		return "FS"
	default:
		return fmt.Sprintf("Part(%d)", int(p))
	}
}

// Semester is one academic half-year. Fall of year y precedes Spring of y+1.
type Semester struct {
	Year int
	Part Part
}

// New returns the semester for the given year and part.
func New(year int, part Part) Semester {
	return Semester{Year: year, Part: part}
}

// FromDate maps a calendar date to the semester running on it.
// February to August is spring, September to January is fall. A January date
// belongs to the fall semester that started the year before.
func FromDate(t time.Time) Semester {
	year := t.Year()
	month := t.Month()

	if month >= time.February && month <= time.August {
		return Semester{Year: year, Part: Spring}
	}
	if month == time.January {
		year--
	}
	return Semester{Year: year, Part: Fall}
}

// Current returns the semester running right now.
func Current() Semester {
	return FromDate(time.Now())
}

// index linearizes semesters so that consecutive semesters differ by one.
// Spring of year y is the continuation of fall of year y-1.
func (s Semester) index() int {
	if s.Part == Spring {
		return 2*s.Year - 1
	}
	return 2 * s.Year
}

func fromIndex(i int) Semester {
	if i%2 == 0 {
		return Semester{Year: i / 2, Part: Fall}
	}
	return Semester{Year: (i + 1) / 2, Part: Spring}
}

// Compare returns a negative number when a is before b, zero when they are
// equal and a positive number when a is after b.
func Compare(a, b Semester) int {
	return a.index() - b.index()
}

func (s Semester) Before(o Semester) bool { return Compare(s, o) < 0 }
func (s Semester) After(o Semester) bool  { return Compare(s, o) > 0 }
func (s Semester) Equal(o Semester) bool  { return Compare(s, o) == 0 }

// Next returns the semester following s.
func (s Semester) Next() Semester {
	if s.Part == Spring {
		return Semester{Year: s.Year, Part: Fall}
	}
	return Semester{Year: s.Year + 1, Part: Spring}
}

// Previous returns the semester preceding s.
func (s Semester) Previous() Semester {
	if s.Part == Fall {
		return Semester{Year: s.Year, Part: Spring}
	}
	return Semester{Year: s.Year - 1, Part: Fall}
}

// Steps moves n semesters forward, or backward when n is negative.
func (s Semester) Steps(n int) Semester {
	return fromIndex(s.index() + n)
}

// Between returns the number of steps from a to b.
func Between(a, b Semester) int {
	return b.index() - a.index()
}

// Range returns every semester from 'from' up to and including 'to'.
// It is empty when to is before from.
func Range(from, to Semester) []Semester {
	n := Between(from, to)
	if n < 0 {
		return nil
	}
	out := make([]Semester, 0, n+1)
	for s := from; !s.After(to); s = s.Next() {
		out = append(out, s)
	}
	return out
}

// String formats the semester as its canonical code, e.g. "HS24" or "FS25".
func (s Semester) String() string {
	return fmt.Sprintf("%s%02d", s.Part, s.Year%100)
}

// Parse reads a semester code produced by String. Two-digit years map to 20yy.
func Parse(code string) (Semester, error) {
	code = strings.ToUpper(strings.TrimSpace(code))
	if len(code) != 4 {
		return Semester{}, fmt.Errorf("invalid semester code %q", code)
	}

	var part Part
	switch code[:2] {
	case "HS":
		part = Fall
	case "FS":
		part = Spring
	default:
		return Semester{}, fmt.Errorf("invalid semester part in %q", code)
	}

	yy, err := strconv.Atoi(code[2:])
	if err != nil || yy < 0 {
		return Semester{}, fmt.Errorf("invalid semester year in %q", code)
	}

	return Semester{Year: 2000 + yy, Part: part}, nil
}

// MustParse is like Parse but panics on malformed input. Intended for
// literals in tests and static tables.
func MustParse(code string) Semester {
	s, err := Parse(code)
	if err != nil {
		panic(err)
	}
	return s
}

func (s Semester) MarshalText() ([]byte, error) {
	return []byte(s.String()), nil
}

func (s *Semester) UnmarshalText(text []byte) error {
	parsed, err := Parse(string(text))
	if err != nil {
		return err
	}
	*s = parsed
	return nil
}

// Package module holds the course module model shared by the classifier,
// the edit overlay and the campus client.
package module

import (
	"fmt"
	"strings"

	"github.com/creditscope/creditscope/pkg/semester"
)

// State is the lifecycle state of a module enrollment.
type State int

const (
	Ongoing State = iota
	Planned
	Passed
	Failed
	NotApplicable

	stateCount
)

var stateNames = [stateCount]string{
	Ongoing:       "Ongoing",
	Planned:       "Planned",
	Passed:        "Passed",
	Failed:        "Failed",
	NotApplicable: "NotApplicable",
}

func (s State) Valid() bool { return s >= 0 && s < stateCount }

func (s State) String() string {
	if !s.Valid() {
		return fmt.Sprintf("State(%d)", int(s))
	}
	return stateNames[s]
}

// ParseState resolves a state name, ignoring case.
func ParseState(s string) (State, error) {
	for i, name := range stateNames {
		if strings.EqualFold(name, strings.TrimSpace(s)) {
			return State(i), nil
		}
	}
	return 0, fmt.Errorf("unknown module state %q", s)
}

func (s State) MarshalText() ([]byte, error) {
	if !s.Valid() {
		return nil, fmt.Errorf("invalid module state %d", int(s))
	}
	return []byte(s.String()), nil
}

func (s *State) UnmarshalText(text []byte) error {
	parsed, err := ParseState(string(text))
	if err != nil {
		return err
	}
	*s = parsed
	return nil
}

// Module is one course enrollment tracked for credit purposes.
// A nil or zero ECTS value means the module does not count toward credits.
type Module struct {
	FullID    string            `json:"fullId"`
	ShortName string            `json:"shortName"`
	ECTS      *float64          `json:"ects"`
	State     State             `json:"state"`
	Grade     *string           `json:"grade"`
	Semester  semester.Semester `json:"semester"`
	Manual    bool              `json:"manual,omitempty"`
}

// Credits returns the credit weight, or zero when the module carries none.
func (m Module) Credits() float64 {
	if m.ECTS == nil {
		return 0
	}
	return *m.ECTS
}

// Counts reports whether the module carries a non-zero credit weight.
func (m Module) Counts() bool {
	return m.ECTS != nil && *m.ECTS != 0
}

// ECTS returns a pointer to v, for building modules and patches.
func ECTS(v float64) *float64 { return &v }

// Grade returns a pointer to g.
func Grade(g string) *string { return &g }

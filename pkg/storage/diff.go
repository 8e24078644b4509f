package storage

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/creditscope/creditscope/pkg/module"
)

// DiffModules compares two sync results by full id. Added and updated
// modules follow the order of next, removed ones the order of prev.
func DiffModules(prev, next []module.Module, now time.Time) []Change {
	old := make(map[string]module.Module, len(prev))
	for _, m := range prev {
		old[m.FullID] = m
	}

	var changes []Change
	seen := make(map[string]bool, len(next))
	for _, m := range next {
		if seen[m.FullID] {
			continue
		}
		seen[m.FullID] = true

		before, existed := old[m.FullID]
		if !existed {
			changes = append(changes, newChange(m, ChangeAdded, "", now))
			continue
		}
		if detail := describe(before, m); detail != "" {
			changes = append(changes, newChange(m, ChangeUpdated, detail, now))
		}
	}
	for _, m := range prev {
		if !seen[m.FullID] {
			seen[m.FullID] = true
			changes = append(changes, newChange(m, ChangeRemoved, "", now))
		}
	}
	return changes
}

func newChange(m module.Module, changeType, detail string, now time.Time) Change {
	return Change{
		OccurredAt: now,
		FullID:     m.FullID,
		ShortName:  m.ShortName,
		Semester:   m.Semester.String(),
		ChangeType: changeType,
		Detail:     detail,
	}
}

// describe lists the fields that differ, e.g. "state: Ongoing -> Passed".
func describe(a, b module.Module) string {
	var parts []string
	field := func(name, before, after string) {
		if before != after {
			parts = append(parts, fmt.Sprintf("%s: %s -> %s", name, before, after))
		}
	}
	field("name", a.ShortName, b.ShortName)
	field("ects", formatECTS(a.ECTS), formatECTS(b.ECTS))
	field("state", a.State.String(), b.State.String())
	field("grade", formatGrade(a.Grade), formatGrade(b.Grade))
	field("semester", a.Semester.String(), b.Semester.String())
	return strings.Join(parts, ", ")
}

func formatECTS(v *float64) string {
	if v == nil {
		return "-"
	}
	return strconv.FormatFloat(*v, 'f', -1, 64)
}

func formatGrade(g *string) string {
	if g == nil || *g == "" {
		return "-"
	}
	return *g
}

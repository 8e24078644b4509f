package campus

import (
	"strconv"
	"strings"

	"github.com/creditscope/creditscope/pkg/module"
	"github.com/creditscope/creditscope/pkg/semester"
	"github.com/tidwall/gjson"
)

// RawModule is one listing item as delivered by the portal.
type RawModule struct {
	FullID string
	// ECTS is the credit value as text, nil when the portal sends null.
	ECTS    *string
	Grade   *string
	Comment string
}

func rawFromJSON(item gjson.Result) RawModule {
	return RawModule{
		FullID:  item.Get("anlassnumber").String(),
		ECTS:    nullableString(item.Get("ects")),
		Grade:   nullableString(item.Get("note")),
		Comment: item.Get("prop1.0.text").String(),
	}
}

func nullableString(v gjson.Result) *string {
	if !v.Exists() || v.Type == gjson.Null {
		return nil
	}
	s := v.String()
	return &s
}

// Normalize converts a listing item into a module. The state is derived
// from the free-text comment first and from the module's semester second:
//
//	"...erfolgreich..."      Passed, or Failed if it also says "nicht"
//	"...testat..."           Ongoing if the module ran last semester
//	module runs now          Ongoing
//	module runs next         Planned
//	otherwise                NotApplicable
//
// ok is false when the identifier cannot be parsed.
func Normalize(raw RawModule, current semester.Semester) (m module.Module, ok bool) {
	id, ok := module.ParseID(raw.FullID)
	if !ok {
		return module.Module{}, false
	}

	m = module.Module{
		FullID:    raw.FullID,
		ShortName: id.ShortName,
		ECTS:      parseECTS(raw.ECTS),
		Grade:     raw.Grade,
		Semester:  id.Semester,
		State:     module.NotApplicable,
	}

	comment := strings.ToLower(raw.Comment)
	switch {
	case strings.Contains(comment, "erfolgreich"):
		m.State = module.Passed
		if strings.Contains(comment, "nicht") {
			m.State = module.Failed
		}
	case strings.Contains(comment, "testat"):
		if id.Semester.Equal(current.Previous()) {
			m.State = module.Ongoing
		}
	}

	if m.State == module.NotApplicable {
		switch {
		case id.Semester.Equal(current):
			m.State = module.Ongoing
		case id.Semester.Equal(current.Next()):
			m.State = module.Planned
		}
	}
	return m, true
}

func parseECTS(s *string) *float64 {
	if s == nil {
		return nil
	}
	v, err := strconv.ParseFloat(strings.TrimSpace(*s), 64)
	if err != nil {
		return nil
	}
	return &v
}

package module

import (
	"regexp"
	"strconv"

	"github.com/creditscope/creditscope/pkg/semester"
)

// ID is the information carried by a course offering identifier such as
// "I.BA_AISAFE.H2401" or "I.BPRAXIS1_K.F2502".
type ID struct {
	ShortName string
	Semester  semester.Semester
	// Suffix is the optional K/E tag after the short name. It is extracted
	// but not used for classification.
	Suffix string
}

var idRegex = regexp.MustCompile(`^[^.]+\.(?:[^_.]+_)?([^.]+?)(?:_([KE]))?\.([FH])?(\d\d)\d\d$`)

// ParseID extracts the short name and semester from a full offering
// identifier. ok is false when the identifier does not describe a trackable
// module; callers skip such records.
func ParseID(full string) (id ID, ok bool) {
	match := idRegex.FindStringSubmatch(full)
	if match == nil {
		return ID{}, false
	}

	yy, err := strconv.Atoi(match[4])
	if err != nil {
		return ID{}, false
	}

	part := semester.Fall
	if match[3] == "F" {
		part = semester.Spring
	}

	return ID{
		ShortName: match[1],
		Semester:  semester.New(2000+yy, part),
		Suffix:    match[2],
	}, true
}

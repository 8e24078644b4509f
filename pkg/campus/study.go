package campus

import (
	"fmt"
	"io"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/creditscope/creditscope/pkg/program"
)

// programNames are matched against the study page in order. Anything
// unmatched is Informatik.
var programNames = []struct {
	name    string
	program program.Program
}{
	{"artificial intelligence & machine learning", program.ArtificialIntelligence},
	{"information & cyber security", program.CyberSecurity},
	{"wirtschaftsinformatik", program.Economics},
	{"digital ideation", program.DigitalIdeation},
}

const partTimeMarker = "berufsbegleitend"

// ParseStudyInfo detects program, major and study mode from the page body.
func ParseStudyInfo(r io.Reader) (StudyInfo, error) {
	doc, err := goquery.NewDocumentFromReader(r)
	if err != nil {
		return StudyInfo{}, fmt.Errorf("parsing study page: %w", err)
	}
	return DetectStudyInfo(doc.Find("body").Text()), nil
}

// DetectStudyInfo works on the visible page text.
func DetectStudyInfo(text string) StudyInfo {
	text = strings.ToLower(text)

	info := StudyInfo{
		Program:  program.ComputerScience,
		PartTime: strings.Contains(text, partTimeMarker),
	}
	for _, candidate := range programNames {
		if strings.Contains(text, candidate.name) {
			info.Program = candidate.program
			break
		}
	}
	for _, major := range info.Program.Majors() {
		if strings.Contains(text, strings.ToLower(major.Name())) {
			m := major
			info.Major = &m
			break
		}
	}
	return info
}

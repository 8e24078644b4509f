// Package program describes the bachelor programs, their specializations
// (majors) and the credit requirements each program imposes.
package program

import (
	"fmt"
	"strings"
)

// Program is a bachelor degree track.
type Program int

const (
	CyberSecurity Program = iota
	ComputerScience
	Economics
	ArtificialIntelligence
	DigitalIdeation

	programCount
)

// All lists every program in declaration order.
func All() []Program {
	out := make([]Program, 0, programCount)
	for p := Program(0); p < programCount; p++ {
		out = append(out, p)
	}
	return out
}

// identifiers are the keys used in reference data and persisted settings.
var programIdentifiers = [programCount]string{
	CyberSecurity:          "CyberSecurity",
	ComputerScience:        "ComputerScience",
	Economics:              "Economics",
	ArtificialIntelligence: "ArtificialIntelligence",
	DigitalIdeation:        "DigitalIdeation",
}

var programNames = [programCount]string{
	CyberSecurity:          "Information & Cyber-Security",
	ComputerScience:        "Informatik",
	Economics:              "Wirtschaftsinformatik",
	ArtificialIntelligence: "Artificial Intelligence & Machine Learning",
	DigitalIdeation:        "Digital Ideation",
}

func (p Program) Valid() bool { return p >= 0 && p < programCount }

// String returns the stable identifier, e.g. "ComputerScience".
func (p Program) String() string {
	if !p.Valid() {
		return fmt.Sprintf("Program(%d)", int(p))
	}
	return programIdentifiers[p]
}

// Name returns the official display name of the program.
func (p Program) Name() string {
	if !p.Valid() {
		return p.String()
	}
	return programNames[p]
}

// Parse resolves a program identifier. Matching ignores case.
func Parse(s string) (Program, error) {
	for p, id := range programIdentifiers {
		if strings.EqualFold(id, strings.TrimSpace(s)) {
			return Program(p), nil
		}
	}
	return 0, fmt.Errorf("unknown program %q", s)
}

func (p Program) MarshalText() ([]byte, error) {
	if !p.Valid() {
		return nil, fmt.Errorf("invalid program %d", int(p))
	}
	return []byte(p.String()), nil
}

func (p *Program) UnmarshalText(text []byte) error {
	parsed, err := Parse(string(text))
	if err != nil {
		return err
	}
	*p = parsed
	return nil
}

// Majors returns the specializations available within the program.
func (p Program) Majors() []Major {
	if !p.Valid() {
		return nil
	}
	return programMajors[p]
}

// HasMajor reports whether m can be chosen within the program.
func (p Program) HasMajor(m Major) bool {
	for _, candidate := range p.Majors() {
		if candidate == m {
			return true
		}
	}
	return false
}

var programMajors = [programCount][]Major{
	CyberSecurity: {
		InformationSecurityTechnologie,
		InformationSecurityManagement,
		DigitalForensic,
		AttackPentester,
		CloudMobileIot,
	},
	ComputerScience: {
		ArtificialIntelligenceVisualComputing,
		ArtificialIntelligenceRobotics,
		SoftwareDevelopment,
		SoftwareEngineeringDevops,
		AugmentedVirtualReality,
		DataScienceDataEngineering,
		HumanComputerInteractionDesign,
		ItOperationSecurity,
	},
	Economics: {
		BusinessAnalysis,
		DigitalBusiness,
		AugmentedVirtualReality,
		DataScienceDataEngineering,
		HumanComputerInteractionDesign,
		ItOperationSecurity,
	},
	ArtificialIntelligence: {
		InformationCyberSecurity,
		SoftwareEngineering,
		MedtechHealthcare,
		ArtificialIntelligenceRoboticsMinor,
	},
	DigitalIdeation: {},
}

package program

import (
	"fmt"
	"strings"
)

// Major is an optional specialization within a program. Modules offered to a
// major count as major modules for students who chose it.
type Major int

const (
	// Artificial Intelligence & Machine Learning
	InformationCyberSecurity Major = iota
	SoftwareEngineering
	MedtechHealthcare
	ArtificialIntelligenceRoboticsMinor

	// Informatik
	ArtificialIntelligenceVisualComputing
	ArtificialIntelligenceRobotics
	SoftwareDevelopment
	SoftwareEngineeringDevops

	// Information & Cyber-Security
	InformationSecurityTechnologie
	InformationSecurityManagement
	DigitalForensic
	AttackPentester
	CloudMobileIot

	// Wirtschaftsinformatik
	BusinessAnalysis
	DigitalBusiness

	// Informatik and Wirtschaftsinformatik
	AugmentedVirtualReality
	DataScienceDataEngineering
	HumanComputerInteractionDesign
	ItOperationSecurity

	majorCount
)

var majorIdentifiers = [majorCount]string{
	InformationCyberSecurity:              "InformationCyberSecurity",
	SoftwareEngineering:                   "SoftwareEngineering",
	MedtechHealthcare:                     "MedtechHealthcare",
	ArtificialIntelligenceRoboticsMinor:   "ArtificialIntelligenceRoboticsMinor",
	ArtificialIntelligenceVisualComputing: "ArtificialIntelligenceVisualComputing",
	ArtificialIntelligenceRobotics:        "ArtificialIntelligenceRobotics",
	SoftwareDevelopment:                   "SoftwareDevelopment",
	SoftwareEngineeringDevops:             "SoftwareEngineeringDevops",
	InformationSecurityTechnologie:        "InformationSecurityTechnologie",
	InformationSecurityManagement:         "InformationSecurityManagement",
	DigitalForensic:                       "DigitalForensic",
	AttackPentester:                       "AttackPentester",
	CloudMobileIot:                        "CloudMobileIot",
	BusinessAnalysis:                      "BusinessAnalysis",
	DigitalBusiness:                       "DigitalBusiness",
	AugmentedVirtualReality:               "AugmentedVirtualReality",
	DataScienceDataEngineering:            "DataScienceDataEngineering",
	HumanComputerInteractionDesign:        "HumanComputerInteractionDesign",
	ItOperationSecurity:                   "ItOperationSecurity",
}

var majorNames = [majorCount]string{
	InformationCyberSecurity:              "Information & Cyber-Security",
	SoftwareEngineering:                   "Software Engineering",
	MedtechHealthcare:                     "Medtech & Healthcare",
	ArtificialIntelligenceRoboticsMinor:   "Robotics",
	ArtificialIntelligenceVisualComputing: "Artificial Intelligence & Visual Computing",
	ArtificialIntelligenceRobotics:        "Robotics",
	SoftwareDevelopment:                   "Software Development",
	SoftwareEngineeringDevops:             "Software Engineering & Devops",
	InformationSecurityTechnologie:        "Information Security Technologie",
	InformationSecurityManagement:         "Information Security Management",
	DigitalForensic:                       "Digital Forensic & Incident Response",
	AttackPentester:                       "Attack Specialist & Penetration Testing",
	CloudMobileIot:                        "Security of Cloud, Mobile & IoT",
	BusinessAnalysis:                      "Business Analysis",
	DigitalBusiness:                       "Digital Business",
	AugmentedVirtualReality:               "Augmented & Virtual Reality",
	DataScienceDataEngineering:            "Data Engineering & Data Science",
	HumanComputerInteractionDesign:        "Human Computer Interaction Design",
	ItOperationSecurity:                   "IT Operation & Security",
}

func (m Major) Valid() bool { return m >= 0 && m < majorCount }

func (m Major) String() string {
	if !m.Valid() {
		return fmt.Sprintf("Major(%d)", int(m))
	}
	return majorIdentifiers[m]
}

// Name returns the display name as printed on the study overview page.
func (m Major) Name() string {
	if !m.Valid() {
		return m.String()
	}
	return majorNames[m]
}

// ParseMajor resolves a major identifier. Matching ignores case.
func ParseMajor(s string) (Major, error) {
	for m, id := range majorIdentifiers {
		if strings.EqualFold(id, strings.TrimSpace(s)) {
			return Major(m), nil
		}
	}
	return 0, fmt.Errorf("unknown major %q", s)
}

func (m Major) MarshalText() ([]byte, error) {
	if !m.Valid() {
		return nil, fmt.Errorf("invalid major %d", int(m))
	}
	return []byte(m.String()), nil
}

func (m *Major) UnmarshalText(text []byte) error {
	parsed, err := ParseMajor(string(text))
	if err != nil {
		return err
	}
	*m = parsed
	return nil
}

package program

// TotalCredits is the credit total every bachelor requires.
const TotalCredits = 180

// Requirement holds the minimum credits a program demands per category.
// A nil minimum means the category does not apply to the program.
type Requirement struct {
	Core      *float64
	Project   *float64
	Extension *float64
	Misc      *float64
	Major     *float64
	Total     float64

	MandatoryModules []string
}

func credits(v float64) *float64 { return &v }

var requirements = [programCount]Requirement{
	CyberSecurity: {
		Core:      credits(69),
		Project:   credits(42),
		Extension: credits(51),
		Misc:      credits(6),
		Major:     credits(24),
		Total:     TotalCredits,
	},
	ComputerScience: {
		Core:      credits(66),
		Project:   credits(42),
		Extension: credits(57),
		Misc:      credits(9),
		Major:     credits(24),
		Total:     TotalCredits,
	},
	Economics: {
		Core:      credits(60),
		Project:   credits(42),
		Extension: credits(57),
		Misc:      credits(9),
		Major:     credits(24),
		Total:     TotalCredits,
	},
	ArtificialIntelligence: {
		Core:      credits(105),
		Project:   credits(39),
		Extension: credits(24),
		Misc:      credits(6),
		Major:     credits(15),
		Total:     TotalCredits,
	},
	DigitalIdeation: {
		Total: TotalCredits,
	},
}

// Requirements returns the credit requirements of the program.
func (p Program) Requirements() Requirement {
	if !p.Valid() {
		return Requirement{Total: TotalCredits}
	}
	return requirements[p]
}

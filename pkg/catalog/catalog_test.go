package catalog

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/creditscope/creditscope/pkg/module"
	"github.com/creditscope/creditscope/pkg/program"
	"github.com/creditscope/creditscope/pkg/semester"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const fixture = `{
  "HS24": {
    "OOP":  {"ComputerScience": {"type": "Core", "obligatory": true, "ects": 6}},
    "SWDE": {"ComputerScience": {"type": "Extension", "obligatory": false, "majors": ["SoftwareDevelopment"]}},
    "CV":   {"ComputerScience": {"type": "Extension", "obligatory": false}}
  },
  "FS25": {
    "OOP":  {"ComputerScience": {"type": "Core", "obligatory": true}},
    "SWDE": {"ComputerScience": {"type": "Project", "obligatory": false}}
  }
}`

func mustParse(t *testing.T, data string) *Catalog {
	t.Helper()
	c, err := Parse([]byte(data))
	require.NoError(t, err)
	return c
}

func TestLookupViewingSemesterFirst(t *testing.T) {
	c := mustParse(t, fixture)

	entry, ok := c.Lookup(semester.MustParse("FS25"), semester.MustParse("HS24"), "SWDE", program.ComputerScience)
	require.True(t, ok)
	assert.Equal(t, module.Project, entry.Type)
}

func TestLookupFallsBackToOwnSemester(t *testing.T) {
	c := mustParse(t, fixture)

	entry, ok := c.Lookup(semester.MustParse("FS25"), semester.MustParse("HS24"), "CV", program.ComputerScience)
	require.True(t, ok)
	assert.Equal(t, module.Extension, entry.Type)
}

func TestLookupStopsAfterTwoAttempts(t *testing.T) {
	c := mustParse(t, fixture)

	// CV exists in HS24 only; neither FS25 nor HS25 should find it.
	_, ok := c.Lookup(semester.MustParse("FS25"), semester.MustParse("HS25"), "CV", program.ComputerScience)
	assert.False(t, ok)

	_, ok = c.Lookup(semester.MustParse("HS24"), semester.MustParse("HS24"), "OOP", program.Economics)
	assert.False(t, ok)
}

func TestEntryFields(t *testing.T) {
	c := mustParse(t, fixture)
	hs24 := semester.MustParse("HS24")

	oop, ok := c.Lookup(hs24, hs24, "OOP", program.ComputerScience)
	require.True(t, ok)
	assert.True(t, oop.Mandatory)
	require.NotNil(t, oop.ECTS)
	assert.Equal(t, 6.0, *oop.ECTS)

	swde, ok := c.Lookup(hs24, hs24, "SWDE", program.ComputerScience)
	require.True(t, ok)
	assert.Nil(t, swde.ECTS)
	assert.True(t, swde.EligibleFor(program.SoftwareDevelopment))
	assert.False(t, swde.EligibleFor(program.SoftwareEngineeringDevops))
}

func TestParseRejectsInconsistentData(t *testing.T) {
	bad := []string{
		`{"XX24": {}}`,
		`{"HS24": {"OOP": {"Medicine": {"type": "Core"}}}}`,
		`{"HS24": {"OOP": {"ComputerScience": {"type": "Elective"}}}}`,
		`{"HS24": {"OOP": {"ComputerScience": {"type": "Core", "majors": ["Juggling"]}}}}`,
		`not json`,
	}
	for _, data := range bad {
		_, err := Parse([]byte(data))
		assert.Error(t, err, data)
	}
}

func TestSemestersAndOffered(t *testing.T) {
	c := mustParse(t, fixture)

	assert.Equal(t, []semester.Semester{semester.MustParse("HS24"), semester.MustParse("FS25")}, c.Semesters())

	offered := c.Offered(semester.MustParse("HS24"), program.ComputerScience)
	require.Len(t, offered, 3)
	assert.Equal(t, "CV", offered[0].ShortName)
	assert.Equal(t, "OOP", offered[1].ShortName)
	assert.Equal(t, "SWDE", offered[2].ShortName)

	assert.Empty(t, c.Offered(semester.MustParse("HS24"), program.CyberSecurity))
}

func TestLatest(t *testing.T) {
	c := mustParse(t, fixture)

	got, ok := c.Latest(semester.MustParse("HS26"))
	require.True(t, ok)
	assert.Equal(t, semester.MustParse("FS25"), got)

	_, ok = c.Latest(semester.MustParse("FS24"))
	assert.False(t, ok)
}

func TestDefaultCatalogLoads(t *testing.T) {
	c, err := Default()
	require.NoError(t, err)
	assert.NotEmpty(t, c.Semesters())
}

func TestLoadFromFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "modules.json")
	require.NoError(t, os.WriteFile(path, []byte(fixture), 0o644))

	c, err := Load(path)
	require.NoError(t, err)
	assert.Len(t, c.Semesters(), 2)

	_, err = Load(filepath.Join(t.TempDir(), "missing.json"))
	assert.Error(t, err)
}

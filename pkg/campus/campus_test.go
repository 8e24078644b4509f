package campus

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/creditscope/creditscope/pkg/module"
	"github.com/creditscope/creditscope/pkg/program"
	"github.com/creditscope/creditscope/pkg/semester"
	"github.com/creditscope/creditscope/pkg/whttp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func str(s string) *string { return &s }

func TestNormalizeStates(t *testing.T) {
	current := semester.MustParse("FS25")

	cases := []struct {
		name string
		raw  RawModule
		want module.State
	}{
		{"passed", RawModule{FullID: "I.BA_OOP.H2401", Comment: "Erfolgreich teilgenommen"}, module.Passed},
		{"failed", RawModule{FullID: "I.BA_OOP.H2401", Comment: "Nicht erfolgreich teilgenommen"}, module.Failed},
		{"testat last semester", RawModule{FullID: "I.BA_AD.H2401", Comment: "Testat erteilt"}, module.Ongoing},
		{"testat older", RawModule{FullID: "I.BA_AD.F2401", Comment: "Testat erteilt"}, module.NotApplicable},
		{"running now", RawModule{FullID: "I.BA_WIPRO.F2501"}, module.Ongoing},
		{"next semester", RawModule{FullID: "I.BA_DBS.H2501"}, module.Planned},
		{"past without comment", RawModule{FullID: "I.BA_DBS.F2401"}, module.NotApplicable},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			m, ok := Normalize(tc.raw, current)
			require.True(t, ok)
			assert.Equal(t, tc.want, m.State)
		})
	}
}

func TestNormalizeFields(t *testing.T) {
	m, ok := Normalize(RawModule{FullID: "I.BA_OOP_E.H2401", ECTS: str("6"), Grade: str("5.5")}, semester.MustParse("FS25"))
	require.True(t, ok)
	assert.Equal(t, "OOP", m.ShortName)
	assert.Equal(t, semester.MustParse("HS24"), m.Semester)
	assert.Equal(t, 6.0, *m.ECTS)
	assert.Equal(t, "5.5", *m.Grade)

	m, ok = Normalize(RawModule{FullID: "I.BA_OOP.H2401", ECTS: str("n/a")}, semester.MustParse("FS25"))
	require.True(t, ok)
	assert.Nil(t, m.ECTS)
	assert.Nil(t, m.Grade)

	_, ok = Normalize(RawModule{FullID: "garbage"}, semester.MustParse("FS25"))
	assert.False(t, ok)
}

func newTestClient(srv *httptest.Server, token string) *Client {
	httpClient := whttp.NewClient(0)
	return NewClient(Config{
		ModulesURL: srv.URL + "/api/anlasslist/load/?datasourceid=abc&per_page=50",
		StudyURL:   srv.URL + "/meine-daten/",
		Token:      token,
	}, WithHTTPClient(httpClient), WithClock(func() time.Time {
		return time.Date(2025, time.March, 15, 0, 0, 0, 0, time.UTC)
	}))
}

func TestFetchModulesPaginates(t *testing.T) {
	pages := map[string]string{
		"1": `{"numPages":2,"items":[
			{"anlassnumber":"I.BA_OOP.H2401","ects":"6","note":"5.0","prop1":[{"text":"Erfolgreich teilgenommen"}]},
			{"anlassnumber":"not-a-module","ects":null,"note":null,"prop1":[]}
		]}`,
		"2": `{"numPages":2,"items":[
			{"anlassnumber":"I.BA_WIPRO.F2501","ects":"6","note":null,"prop1":[]}
		]}`,
	}
	var requested []string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		c, err := r.Cookie(DefaultCookieName)
		if err != nil || c.Value != "secret" {
			w.WriteHeader(http.StatusUnauthorized)
			return
		}
		if r.URL.Query().Get("datasourceid") != "abc" {
			t.Errorf("original query lost: %s", r.URL.RawQuery)
		}
		page := r.URL.Query().Get("page")
		requested = append(requested, page)
		w.Header().Set("Content-Type", "application/json")
		fmt.Fprint(w, pages[page])
	}))
	defer srv.Close()

	modules, err := newTestClient(srv, "secret").FetchModules(context.Background())
	require.NoError(t, err)
	assert.Equal(t, []string{"1", "2"}, requested)
	require.Len(t, modules, 2)

	assert.Equal(t, "OOP", modules[0].ShortName)
	assert.Equal(t, module.Passed, modules[0].State)
	assert.Equal(t, "5.0", *modules[0].Grade)

	assert.Equal(t, "WIPRO", modules[1].ShortName)
	assert.Equal(t, module.Ongoing, modules[1].State)
	assert.Nil(t, modules[1].Grade)
}

func TestFetchModulesUnauthorized(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
	}))
	defer srv.Close()

	_, err := newTestClient(srv, "").FetchModules(context.Background())
	assert.True(t, errors.Is(err, ErrUnauthorized))
}

func TestFetchModulesLoginPage(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/html")
		fmt.Fprint(w, "<html><head><title>Login</title></head></html>")
	}))
	defer srv.Close()

	_, err := newTestClient(srv, "expired").FetchModules(context.Background())
	assert.ErrorIs(t, err, ErrUnauthorized)
}

func TestFetchModulesServerError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer srv.Close()

	_, err := newTestClient(srv, "x").FetchModules(context.Background())
	require.Error(t, err)
	assert.NotErrorIs(t, err, ErrUnauthorized)
}

const studyPage = `<html><head><title>Meine Daten</title></head><body>
<div><h2>Studium</h2><p>Bachelor Information &amp; Cyber Security</p>
<p>Vertiefung: Digital Forensic &amp; Incident Response</p>
<p>Studienform: Berufsbegleitend</p></div></body></html>`

func TestStudyInfo(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		fmt.Fprint(w, studyPage)
	}))
	defer srv.Close()

	info, err := newTestClient(srv, "x").StudyInfo(context.Background())
	require.NoError(t, err)
	assert.Equal(t, program.CyberSecurity, info.Program)
	require.NotNil(t, info.Major)
	assert.Equal(t, program.DigitalForensic, *info.Major)
	assert.True(t, info.PartTime)
}

func TestStudyInfoLoginRedirect(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/html")
		fmt.Fprint(w, "<html><head><title>Anmelden - MyCampus</title></head><body></body></html>")
	}))
	defer srv.Close()

	_, err := newTestClient(srv, "x").StudyInfo(context.Background())
	assert.ErrorIs(t, err, ErrUnauthorized)
}

func TestDetectStudyInfoDefaults(t *testing.T) {
	info := DetectStudyInfo("Bachelor Informatik, Vollzeit")
	assert.Equal(t, program.ComputerScience, info.Program)
	assert.Nil(t, info.Major)
	assert.False(t, info.PartTime)

	info = DetectStudyInfo("Wirtschaftsinformatik mit Vertiefung Software Development")
	assert.Equal(t, program.Economics, info.Program)
	assert.Nil(t, info.Major, "major outside the program is ignored")
}

func TestParseStudyInfoIgnoresMarkup(t *testing.T) {
	info, err := ParseStudyInfo(strings.NewReader(`<html><body><span>Digital</span> <span>Ideation</span></body></html>`))
	require.NoError(t, err)
	assert.Equal(t, program.DigitalIdeation, info.Program)
}

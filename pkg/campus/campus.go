// Package campus fetches the enrolled modules and the study overview from
// the campus portal and turns them into module records.
package campus

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/creditscope/creditscope/pkg/module"
	"github.com/creditscope/creditscope/pkg/program"
	"github.com/creditscope/creditscope/pkg/semester"
	"github.com/creditscope/creditscope/pkg/whttp"
	"github.com/hashicorp/go-retryablehttp"
	"github.com/tidwall/gjson"
)

const (
	DefaultModulesURL = "https://mycampus.hslu.ch/de-ch/api/anlasslist/load/?datasourceid=5158ceaf-061f-49aa-b270-fc309c1a5f69&per_page=50"
	DefaultStudyURL   = "https://mycampus.hslu.ch/de-ch/stud-i/mein-studium/meine-daten/"
	DefaultCookieName = ".AspNet.Cookies"

	// maxPages stops a misbehaving server from paging forever.
	maxPages = 200
)

// ErrUnauthorized means the portal answered with its login page.
var ErrUnauthorized = errors.New("campus: session expired or missing, update campus.token")

// Logger abstracts logging so callers can use logrus, stdlib log, or any
// other logger that satisfies this interface.
type Logger interface {
	Infof(format string, args ...interface{})
	Warnf(format string, args ...interface{})
	Errorf(format string, args ...interface{})
	Debugf(format string, args ...interface{})
}

type nopLogger struct{}

func (nopLogger) Infof(string, ...interface{})  {}
func (nopLogger) Warnf(string, ...interface{})  {}
func (nopLogger) Errorf(string, ...interface{}) {}
func (nopLogger) Debugf(string, ...interface{}) {}

// Source is what a sync needs from the portal.
type Source interface {
	FetchModules(ctx context.Context) ([]module.Module, error)
	StudyInfo(ctx context.Context) (StudyInfo, error)
}

// StudyInfo is what the study overview page reveals about the student.
type StudyInfo struct {
	Program  program.Program
	Major    *program.Major
	PartTime bool
}

type Config struct {
	ModulesURL string
	StudyURL   string
	// Token is the value of the session cookie named CookieName.
	Token      string
	CookieName string
	// PerPage overrides the page size of the module listing when > 0.
	PerPage int
}

func DefaultConfig() Config {
	return Config{
		ModulesURL: DefaultModulesURL,
		StudyURL:   DefaultStudyURL,
		CookieName: DefaultCookieName,
	}
}

type Client struct {
	cfg  Config
	http *retryablehttp.Client
	log  Logger
	now  func() time.Time
}

var _ Source = (*Client)(nil)

type Option func(*Client)

func WithHTTPClient(c *retryablehttp.Client) Option {
	return func(cl *Client) { cl.http = c }
}

func WithLogger(l Logger) Option {
	return func(cl *Client) {
		if l != nil {
			cl.log = l
		}
	}
}

// WithClock replaces time.Now, which decides the current semester.
func WithClock(now func() time.Time) Option {
	return func(cl *Client) { cl.now = now }
}

func NewClient(cfg Config, opts ...Option) *Client {
	if cfg.CookieName == "" {
		cfg.CookieName = DefaultCookieName
	}
	c := &Client{cfg: cfg, http: whttp.GetDefaultClient(), log: nopLogger{}, now: time.Now}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

func (c *Client) get(ctx context.Context, rawURL string) (*whttp.WHTTPRes, error) {
	req := &whttp.WHTTPReq{
		Method:  http.MethodGet,
		URL:     rawURL,
		Headers: []whttp.WHTTPHeader{{Name: "Accept", Value: "application/json, text/html"}},
	}
	if c.cfg.Token != "" {
		req.Cookies = []*http.Cookie{{Name: c.cfg.CookieName, Value: c.cfg.Token}}
	}

	res, err := whttp.SendHTTPRequest(ctx, req, c.http)
	if err != nil {
		return nil, fmt.Errorf("requesting %s: %w", rawURL, err)
	}
	if res.StatusCode == http.StatusUnauthorized || res.StatusCode == http.StatusForbidden {
		return nil, ErrUnauthorized
	}
	if res.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("requesting %s: unexpected status %d", rawURL, res.StatusCode)
	}
	return res, nil
}

func (c *Client) pageURL(page int) (string, error) {
	u, err := url.Parse(c.cfg.ModulesURL)
	if err != nil {
		return "", fmt.Errorf("invalid modules URL: %w", err)
	}
	q := u.Query()
	q.Set("page", strconv.Itoa(page))
	if c.cfg.PerPage > 0 {
		q.Set("per_page", strconv.Itoa(c.cfg.PerPage))
	}
	u.RawQuery = q.Encode()
	return u.String(), nil
}

// FetchModules walks every page of the module listing. Records with an
// unparseable identifier are skipped.
func (c *Client) FetchModules(ctx context.Context) ([]module.Module, error) {
	var raws []RawModule
	numPages := 1
	for page := 1; page <= numPages && page <= maxPages; page++ {
		pageURL, err := c.pageURL(page)
		if err != nil {
			return nil, err
		}
		res, err := c.get(ctx, pageURL)
		if err != nil {
			return nil, err
		}
		if res.IsHTML() {
			c.log.Debugf("Got HTML page %q instead of module list", res.HTTPTitle)
			return nil, ErrUnauthorized
		}
		if !gjson.Valid(res.BodyString) {
			return nil, fmt.Errorf("module list page %d: invalid JSON", page)
		}

		body := gjson.Parse(res.BodyString)
		numPages = int(body.Get("numPages").Int())
		items := body.Get("items").Array()
		for _, item := range items {
			raws = append(raws, rawFromJSON(item))
		}
		c.log.Debugf("Fetched module page %d/%d (%d items)", page, numPages, len(items))
	}

	current := semester.FromDate(c.now())
	modules := make([]module.Module, 0, len(raws))
	for _, raw := range raws {
		m, ok := Normalize(raw, current)
		if !ok {
			c.log.Debugf("Skipping module with unparseable id %q", raw.FullID)
			continue
		}
		modules = append(modules, m)
	}
	c.log.Infof("Fetched %d modules", len(modules))
	return modules, nil
}

// StudyInfo scrapes the study overview page.
func (c *Client) StudyInfo(ctx context.Context) (StudyInfo, error) {
	res, err := c.get(ctx, c.cfg.StudyURL)
	if err != nil {
		return StudyInfo{}, err
	}
	if isLoginPage(res.HTTPTitle) {
		c.log.Debugf("Study page redirected to %q", res.HTTPTitle)
		return StudyInfo{}, ErrUnauthorized
	}
	return ParseStudyInfo(strings.NewReader(res.BodyString))
}

func isLoginPage(title string) bool {
	title = strings.ToLower(title)
	for _, marker := range []string{"login", "anmelden", "sign in"} {
		if strings.Contains(title, marker) {
			return true
		}
	}
	return false
}

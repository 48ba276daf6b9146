// Package connector implements one fetch-and-normalize client per supported
// ATS provider. Connectors only map provider payloads into canonical
// postings; classification, fingerprinting, and persistence happen in the
// run loop that consumes them.
package connector

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"regexp"
	"strings"
	"time"
	"unicode/utf8"

	"golang.org/x/time/rate"

	"github.com/job-radar/internal/models"
	"github.com/job-radar/internal/types"
)

// EmitFunc receives each normalized posting. A non-nil return aborts the
// current fetch immediately and is propagated unchanged, so fatal sink
// errors (a dead store) stop the run instead of being swallowed.
type EmitFunc func(models.Posting) error

// Connector fetches and normalizes every posting of one company board.
// Fetched counts all items seen on the wire, including ones dropped for a
// missing title or URL; only normalizable items reach emit.
type Connector interface {
	Provider() types.Provider
	Fetch(ctx context.Context, source models.Source, emit EmitFunc) (fetched int, err error)
}

// Options tune the shared HTTP behavior of all connectors.
type Options struct {
	Timeout          time.Duration // per-request timeout
	RequestDelay     time.Duration // minimum spacing between requests to one provider
	DescriptionLimit int           // stored description bound, bytes
}

func (o Options) withDefaults() Options {
	if o.Timeout <= 0 {
		o.Timeout = 20 * time.Second
	}
	if o.RequestDelay <= 0 {
		o.RequestDelay = 500 * time.Millisecond
	}
	if o.DescriptionLimit <= 0 {
		o.DescriptionLimit = 16 * 1024
	}
	return o
}

// All builds every provider connector with a shared option set. The
// Workday connector memoizes resolved career sites in the given cache;
// a nil cache disables memoization.
func All(opts Options, sites *SiteCache) []Connector {
	opts = opts.withDefaults()
	return []Connector{
		NewGreenhouse(opts),
		NewLever(opts),
		NewAshby(opts),
		NewWorkable(opts),
		NewRecruitee(opts),
		NewSmartRecruiters(opts),
		NewWorkday(opts, sites),
	}
}

// ByProvider indexes connectors by their provider tag.
func ByProvider(connectors []Connector) map[types.Provider]Connector {
	m := make(map[types.Provider]Connector, len(connectors))
	for _, c := range connectors {
		m[c.Provider()] = c
	}
	return m
}

// StatusError reports a non-success HTTP response from a provider.
type StatusError struct {
	URL  string
	Code int
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("unexpected status %d from %s", e.Code, e.URL)
}

// client is the HTTP plumbing shared by all connectors: one pooled
// http.Client plus a token-bucket limiter spacing requests so a long board
// list does not hammer the provider.
type client struct {
	http      *http.Client
	limiter   *rate.Limiter
	descLimit int
}

func newClient(opts Options) *client {
	return &client{
		http:      &http.Client{Timeout: opts.Timeout},
		limiter:   rate.NewLimiter(rate.Every(opts.RequestDelay), 1),
		descLimit: opts.DescriptionLimit,
	}
}

func (c *client) do(ctx context.Context, req *http.Request) ([]byte, error) {
	if err := c.limiter.Wait(ctx); err != nil {
		return nil, err
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("http %s %s: %w", req.Method, req.URL, err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read body from %s: %w", req.URL, err)
	}
	if resp.StatusCode != http.StatusOK {
		return nil, &StatusError{URL: req.URL.String(), Code: resp.StatusCode}
	}
	return body, nil
}

// getJSON fetches a URL and unmarshals the response into out.
func (c *client) getJSON(ctx context.Context, url string, out interface{}) error {
	body, err := c.getRaw(ctx, url)
	if err != nil {
		return err
	}
	if err := json.Unmarshal(body, out); err != nil {
		return fmt.Errorf("decode response from %s: %w", url, err)
	}
	return nil
}

// getRaw fetches a URL and returns the raw body for lenient parsing.
func (c *client) getRaw(ctx context.Context, url string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, err
	}
	return c.do(ctx, req)
}

// postRaw sends a JSON body and returns the raw response body.
func (c *client) postRaw(ctx context.Context, url string, payload interface{}) ([]byte, error) {
	body, err := json.Marshal(payload)
	if err != nil {
		return nil, err
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/json")
	return c.do(ctx, req)
}

// description bounds free text to the configured limit. Truncation backs
// up to a rune boundary so the stored value stays valid UTF-8.
func (c *client) description(s string) *string {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil
	}
	if len(s) > c.descLimit {
		cut := c.descLimit
		for cut > 0 && !utf8.RuneStart(s[cut]) {
			cut--
		}
		s = s[:cut]
		if s == "" {
			return nil
		}
	}
	return &s
}

var remotePattern = regexp.MustCompile(`(?i)\b(remote|anywhere)\b`)

// looksRemote reports whether any of the text fragments hints at remote
// work. Connectors OR this with the provider's explicit remote flag.
func looksRemote(parts ...string) bool {
	for _, p := range parts {
		if remotePattern.MatchString(p) {
			return true
		}
	}
	return false
}

// strPtr returns nil for blank strings so absent provider fields stay null.
func strPtr(s string) *string {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil
	}
	return &s
}

var timeLayouts = []string{
	time.RFC3339,
	"2006-01-02T15:04:05.000Z0700",
	"2006-01-02 15:04:05",
	"2006-01-02",
}

// parseTime turns a provider timestamp into *time.Time, nil when absent or
// unparseable; a bad date must not drop the posting.
func parseTime(s string) *time.Time {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil
	}
	for _, layout := range timeLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return &t
		}
	}
	return nil
}

// firstTime returns the first non-nil timestamp.
func firstTime(ts ...*time.Time) *time.Time {
	for _, t := range ts {
		if t != nil {
			return t
		}
	}
	return nil
}

// parseEpochMillis converts epoch milliseconds (Lever, some Workday
// tenants) into *time.Time.
func parseEpochMillis(ms int64) *time.Time {
	if ms <= 0 {
		return nil
	}
	t := time.UnixMilli(ms).UTC()
	return &t
}

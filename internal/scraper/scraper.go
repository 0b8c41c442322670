package scraper

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/cenkalti/backoff/v4"

	"github.com/amfb-notifier/amfb-notifier/internal/fixture"
	"github.com/amfb-notifier/amfb-notifier/internal/logger"
	"github.com/amfb-notifier/amfb-notifier/internal/team"
)

const (
	ScheduleURL = "https://www.amfb.ro/program"
	UserAgent   = "amfb-notifier/1.0 (+https://github.com/amfb-notifier/amfb-notifier)"
	Timeout     = 30 * time.Second

	maxBodyBytes = 8 << 20
)

// Config configures a Scraper. Zero values fall back to package defaults.
type Config struct {
	URL            string
	UserAgent      string
	Timeout        time.Duration
	MaxRetries     uint64
	IncludeUndated bool
	SplitFallback  bool
}

// Scraper fetches the schedule page and extracts fixtures from it.
type Scraper struct {
	client     *http.Client
	url        string
	userAgent  string
	maxRetries uint64
	extractor  *Extractor
	log        *logger.Logger
}

// Result is one extraction run. Available is false when the page could not
// be fetched; ByTeam then holds an empty list for every requested team.
type Result struct {
	ByTeam    map[string][]fixture.Fixture
	Available bool
}

// New creates a Scraper for cfg.
func New(cfg Config) *Scraper {
	if cfg.URL == "" {
		cfg.URL = ScheduleURL
	}
	if cfg.UserAgent == "" {
		cfg.UserAgent = UserAgent
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = Timeout
	}

	extractor := NewExtractor()
	extractor.IncludeUndated = cfg.IncludeUndated
	if cfg.SplitFallback {
		extractor.Matcher = team.SplitFallback{Inner: team.CatalogMatcher{}}
	}

	return &Scraper{
		client:     &http.Client{Timeout: cfg.Timeout},
		url:        cfg.URL,
		userAgent:  cfg.UserAgent,
		maxRetries: cfg.MaxRetries,
		extractor:  extractor,
		log:        logger.Default().With(logger.Fields{"component": "scraper"}),
	}
}

// WithLogger replaces the scraper's logger.
func (s *Scraper) WithLogger(l *logger.Logger) *Scraper {
	s.log = l
	s.extractor.log = l
	return s
}

// Extractor exposes the extractor so callers can adjust the clock or catalog.
func (s *Scraper) Extractor() *Extractor {
	return s.extractor
}

// Fetch downloads the schedule page. Network errors and 5xx responses are
// retried with exponential backoff; other non-2xx responses fail at once.
func (s *Scraper) Fetch(ctx context.Context) ([]byte, error) {
	var body []byte

	operation := func() error {
		req, err := http.NewRequestWithContext(ctx, http.MethodGet, s.url, nil)
		if err != nil {
			return backoff.Permanent(fmt.Errorf("creating request: %w", err))
		}
		req.Header.Set("User-Agent", s.userAgent)

		resp, err := s.client.Do(req)
		if err != nil {
			return fmt.Errorf("fetching page: %w", err)
		}
		defer resp.Body.Close()

		if resp.StatusCode < 200 || resp.StatusCode > 299 {
			err := fmt.Errorf("unexpected status code: %d", resp.StatusCode)
			if resp.StatusCode >= 500 {
				return err
			}
			return backoff.Permanent(err)
		}

		body, err = io.ReadAll(io.LimitReader(resp.Body, maxBodyBytes))
		if err != nil {
			return fmt.Errorf("reading body: %w", err)
		}
		return nil
	}

	policy := backoff.WithContext(
		backoff.WithMaxRetries(backoff.NewExponentialBackOff(), s.maxRetries), ctx)
	notify := func(err error, wait time.Duration) {
		s.log.Warn("fetch failed, retrying", logger.Fields{"error": err.Error(), "wait": wait.String()})
	}
	if err := backoff.RetryNotify(operation, policy, notify); err != nil {
		return nil, err
	}
	if len(bytes.TrimSpace(body)) == 0 {
		return nil, fmt.Errorf("empty page")
	}
	return body, nil
}

// Fixtures fetches the page and extracts the upcoming fixtures of teams. A
// fetch failure is not an error: the result is marked unavailable instead.
func (s *Scraper) Fixtures(ctx context.Context, teams []string) Result {
	empty := make(map[string][]fixture.Fixture, len(teams))
	for _, t := range teams {
		empty[t] = []fixture.Fixture{}
	}

	body, err := s.Fetch(ctx)
	if err != nil {
		s.log.Warn("schedule page unavailable", logger.Fields{"url": s.url, "error": err.Error()})
		return Result{ByTeam: empty}
	}

	lines, err := Normalize(bytes.NewReader(body))
	if err != nil {
		s.log.Warn("parsing schedule page", logger.Fields{"error": err.Error()})
		return Result{ByTeam: empty}
	}

	byTeam := s.extractor.Extract(lines, teams)
	total := 0
	for _, list := range byTeam {
		total += len(list)
	}
	s.log.Info("extracted fixtures", logger.Fields{"teams": len(teams), "fixtures": total, "lines": len(lines)})
	return Result{ByTeam: byTeam, Available: true}
}

// DiscoverTeams returns the catalog names mentioned on the page, falling back
// to the catalog when the page is unavailable or mentions none.
func (s *Scraper) DiscoverTeams(ctx context.Context) []string {
	fallback := team.KnownTeams()
	team.Sort(fallback)

	body, err := s.Fetch(ctx)
	if err != nil {
		s.log.Warn("team discovery failed, using catalog", logger.Fields{"error": err.Error()})
		return fallback
	}
	lines, err := Normalize(bytes.NewReader(body))
	if err != nil {
		return fallback
	}

	found := team.Discover(strings.Join(lines, "\n"), s.extractor.Catalog)
	if len(found) == 0 {
		return fallback
	}
	return found
}

package scrape

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"golang.org/x/sync/errgroup"
	"golang.org/x/time/rate"

	"github.com/lysyi3m/gradcafe-comb/app/applicant"
)

const DefaultListingURL = "https://www.thegradcafe.com/survey/index.php"

type Config struct {
	ListingURL string
	Pages      int
	Workers    int
	Delay      time.Duration // minimum spacing between page requests
	Timeout    time.Duration
	UserAgent  string
}

// Scraper fetches the newest listing pages and parses them into raw records.
type Scraper struct {
	client    *http.Client
	base      *url.URL
	pages     int
	workers   int
	limiter   *rate.Limiter
	userAgent string
}

func New(cfg Config, client *http.Client) (*Scraper, error) {
	if cfg.ListingURL == "" {
		cfg.ListingURL = DefaultListingURL
	}
	base, err := url.Parse(cfg.ListingURL)
	if err != nil {
		return nil, fmt.Errorf("invalid listing URL: %w", err)
	}
	if cfg.Pages <= 0 {
		return nil, fmt.Errorf("pages must be positive")
	}
	if cfg.Workers <= 0 {
		cfg.Workers = 1
	}
	if client == nil {
		client = &http.Client{Timeout: cfg.Timeout}
	}

	limit := rate.Inf
	if cfg.Delay > 0 {
		limit = rate.Every(cfg.Delay)
	}

	return &Scraper{
		client:    client,
		base:      base,
		pages:     cfg.Pages,
		workers:   cfg.Workers,
		limiter:   rate.NewLimiter(limit, 1),
		userAgent: cfg.UserAgent,
	}, nil
}

// Fetch returns the entries of pages 1..N in page order. The result stops at
// the first page that is empty or fails; only a failure of the first page is
// reported as an error.
func (s *Scraper) Fetch(ctx context.Context) ([]applicant.RawRecord, error) {
	pages := make([][]applicant.RawRecord, s.pages)
	errs := make([]error, s.pages)

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(s.workers)

	for i := range s.pages {
		g.Go(func() error {
			if err := s.limiter.Wait(gctx); err != nil {
				errs[i] = err
				return nil
			}
			pages[i], errs[i] = s.fetchPage(gctx, i+1)
			return nil
		})
	}
	g.Wait()

	var records []applicant.RawRecord
	for i := range pages {
		if errs[i] != nil {
			if i == 0 {
				return nil, fmt.Errorf("page 1: %w", errs[i])
			}
			slog.Warn("Listing page failed, keeping earlier pages", "page", i+1, "error", errs[i])
			break
		}
		if len(pages[i]) == 0 {
			slog.Debug("Listing exhausted", "page", i+1)
			break
		}
		records = append(records, pages[i]...)
	}

	slog.Debug("Listing fetched", "entries", len(records))
	return records, nil
}

func (s *Scraper) fetchPage(ctx context.Context, page int) ([]applicant.RawRecord, error) {
	pageURL := *s.base
	q := pageURL.Query()
	q.Set("page", strconv.Itoa(page))
	q.Set("sort", "newest")
	pageURL.RawQuery = q.Encode()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, pageURL.String(), nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	if s.userAgent != "" {
		req.Header.Set("User-Agent", s.userAgent)
	}

	resp, err := s.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch page: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusNotFound {
		return nil, nil
	}
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("HTTP error: %d %s", resp.StatusCode, resp.Status)
	}

	return ParsePage(resp.Body, s.base)
}

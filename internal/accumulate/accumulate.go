// Package accumulate follows pagination links until the remote result set is
// exhausted.
package accumulate

import (
	"context"
	"errors"
	"fmt"

	"github.com/sirupsen/logrus"
	"golang.org/x/time/rate"

	"github.com/salesboard-dev/salesboard/internal/logging"
	"github.com/salesboard-dev/salesboard/internal/model"
)

var (
	// ErrPaginationLoop is returned when a next link points at a page already
	// fetched in the same cycle.
	ErrPaginationLoop = errors.New("pagination loop")
	// ErrTooManyPages is returned when a cycle exceeds the page limit.
	ErrTooManyPages = errors.New("too many pages")
)

// PageFetcher retrieves individual pages.
type PageFetcher interface {
	FirstPageURL(query string) string
	Resolve(link string) (string, error)
	Page(ctx context.Context, pageURL string) (model.Page, error)
}

// Options configures an Accumulator.
type Options struct {
	MaxPages          int     // 0 = unlimited
	RequestsPerSecond float64 // 0 = unpaced
	Logger            *logrus.Entry
}

// Accumulator collects every transaction matching a query.
type Accumulator struct {
	pages    PageFetcher
	maxPages int
	limiter  *rate.Limiter
	log      *logrus.Entry
}

// New creates an Accumulator reading pages from f.
func New(f PageFetcher, opts Options) *Accumulator {
	limit := rate.Inf
	if opts.RequestsPerSecond > 0 {
		limit = rate.Limit(opts.RequestsPerSecond)
	}
	log := opts.Logger
	if log == nil {
		log = logging.Discard()
	}
	return &Accumulator{
		pages:    f,
		maxPages: opts.MaxPages,
		limiter:  rate.NewLimiter(limit, 1),
		log:      log,
	}
}

// FetchAll requests the first page for query and follows next links, one
// page at a time, until none remain. Results keep server order. Each call
// builds its own result set; any error discards the partial set.
func (a *Accumulator) FetchAll(ctx context.Context, query string) ([]model.Transaction, error) {
	pageURL := a.pages.FirstPageURL(query)
	seen := make(map[string]bool)
	txns := []model.Transaction{}

	for n := 1; ; n++ {
		if a.maxPages > 0 && n > a.maxPages {
			return nil, fmt.Errorf("%w: stopped after %d pages", ErrTooManyPages, a.maxPages)
		}
		if seen[pageURL] {
			return nil, fmt.Errorf("%w: page %d repeats %s", ErrPaginationLoop, n, pageURL)
		}
		seen[pageURL] = true

		if err := a.limiter.Wait(ctx); err != nil {
			return nil, fmt.Errorf("waiting for page %d: %w", n, err)
		}
		page, err := a.pages.Page(ctx, pageURL)
		if err != nil {
			return nil, fmt.Errorf("fetching page %d: %w", n, err)
		}
		txns = append(txns, page.Results...)

		next, ok := page.NextLink()
		if !ok {
			a.log.WithFields(logrus.Fields{"pages": n, "transactions": len(txns)}).Debug("pagination complete")
			return txns, nil
		}
		pageURL, err = a.pages.Resolve(next)
		if err != nil {
			return nil, fmt.Errorf("following page %d: %w", n, err)
		}
	}
}

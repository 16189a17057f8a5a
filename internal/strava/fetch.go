package strava

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"sync"
)

const (
	// maxEagerPages is how many pages are requested up front before
	// falling back to sequential probing.
	maxEagerPages = 10
	// fetchWorkers bounds the number of in-flight page requests.
	fetchWorkers = 5
)

// FetchError is a failed page request during a bulk fetch. The whole
// fetch is aborted; the accumulated records are returned alongside it so
// callers that tolerate partial results can still use them, but they are
// never passed off as complete.
type FetchError struct {
	Page int
	Err  error
}

func (e *FetchError) Error() string {
	if e.Page > 0 {
		return fmt.Sprintf("fetching activities page %d: %v", e.Page, e.Err)
	}
	return fmt.Sprintf("fetching activities: %v", e.Err)
}

func (e *FetchError) Unwrap() error { return e.Err }

// FetchAll retrieves the athlete's complete activity history, most
// recent first.
//
// The listing endpoint does not report a total count, so the end of the
// collection is discovered by requesting until a short or empty page.
// The first maxEagerPages pages are requested concurrently with a
// bounded fan-out; if all of them came back full, fetching continues
// sequentially until exhausted. Pages complete in arbitrary order, so a
// final sort by local start timestamp (descending) establishes the
// output ordering.
func (c *Client) FetchAll(ctx context.Context) ([]RawActivity, error) {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	type pageResult struct {
		page       int
		activities []RawActivity
		err        error
	}

	results := make(chan pageResult, maxEagerPages)
	sem := make(chan struct{}, fetchWorkers)

	var wg sync.WaitGroup
	for page := 1; page <= maxEagerPages; page++ {
		wg.Add(1)
		go func(page int) {
			defer wg.Done()
			select {
			case sem <- struct{}{}:
			case <-ctx.Done():
				results <- pageResult{page: page, err: ctx.Err()}
				return
			}
			defer func() { <-sem }()

			activities, err := c.ListActivities(ctx, page, PerPage)
			if err != nil {
				// Abandon the remaining pages; the batch is unusable.
				cancel()
			}
			results <- pageResult{page: page, activities: activities, err: err}
		}(page)
	}

	go func() {
		wg.Wait()
		close(results)
	}()

	var all []RawActivity
	var fetchErr error
	sawEnd := false
	for res := range results {
		if res.err != nil {
			if fetchErr == nil && !errors.Is(res.err, context.Canceled) {
				fetchErr = &FetchError{Page: res.page, Err: res.err}
			}
			continue
		}
		if len(res.activities) < PerPage {
			sawEnd = true
		}
		all = append(all, res.activities...)
	}
	if fetchErr == nil && ctx.Err() != nil {
		fetchErr = &FetchError{Err: ctx.Err()}
	}

	// All eager pages were full, so more pages may exist.
	if fetchErr == nil && !sawEnd {
		for page := maxEagerPages + 1; ; page++ {
			activities, err := c.ListActivities(ctx, page, PerPage)
			if err != nil {
				fetchErr = &FetchError{Page: page, Err: err}
				break
			}
			if len(activities) == 0 {
				break
			}
			all = append(all, activities...)
			if len(activities) < PerPage {
				break
			}
		}
	}

	sortByStartDateDesc(all)
	if fetchErr != nil {
		return all, fetchErr
	}
	return all, nil
}

// sortByStartDateDesc orders records most recent first. start_date_local
// is RFC3339, which sorts correctly as a plain string.
func sortByStartDateDesc(activities []RawActivity) {
	sort.SliceStable(activities, func(i, j int) bool {
		return activities[i].String("start_date_local") > activities[j].String("start_date_local")
	})
}

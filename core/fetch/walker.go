package fetch

import (
	"net/url"
	"strconv"
)

// PageParam is the query parameter used to address pages beyond the first.
const PageParam = "p"

// PageTargets derives the ordered list of page targets 1..pages from the
// base target. Page 1 is the base target itself; later pages carry the page
// query parameter. Pre-existing query parameters of the base are preserved.
// Pure function; performs no network access.
func PageTargets(base string, pages int) []string {
	if pages < 1 {
		pages = 1
	}
	targets := make([]string, 0, pages)
	targets = append(targets, base)

	u, err := url.Parse(base)
	if err != nil {
		// Malformed bases still walk: the fetcher rejects each target.
		for page := 2; page <= pages; page++ {
			targets = append(targets, base)
		}
		return targets
	}

	for page := 2; page <= pages; page++ {
		q := u.Query()
		q.Set(PageParam, strconv.Itoa(page))
		paged := *u
		paged.RawQuery = q.Encode()
		targets = append(targets, paged.String())
	}
	return targets
}

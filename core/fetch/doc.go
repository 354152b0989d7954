// Package fetch provides the HTTP transport for harvesting thread pages.
//
// # Fetcher
//
// Fetcher wraps a Resty client configured with a bounded retry budget and
// exponential backoff (base delay doubling per attempt). Only transient
// failures are retried: timeouts, connection errors, 5xx responses and 429.
// A malformed target fails immediately with ErrBadTarget. Exhausting the
// budget surfaces ErrUnreachable rather than panicking; the caller decides
// whether that is fatal (first page) or one failed page.
//
// # Page Walker
//
// PageTargets turns a discovered page count into the ordered, finite,
// restartable sequence of page targets: the base target for page 1 and
// base + "?p=N" for pages beyond it.
package fetch

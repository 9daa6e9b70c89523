// Package credits establishes per-account generation quota before any
// prompt is spent on an account.
//
// oracle.go defines the Oracle interface and the QuotaResult type shared by
// every implementation. The scheduler probes each account exactly once,
// immediately before first use; implementations may retry internally but
// the scheduler never re-probes.
package credits

import (
	"context"

	"github.com/LinkuDev/dreamina/account"
)

// QuotaResult is the outcome of one oracle probe.
type QuotaResult struct {
	// Available reports whether the account answered at all. When false
	// the account is unusable for the rest of the run.
	Available bool
	// Units is the remaining credit balance. Meaningful only when
	// Available is true.
	Units int
	// Reason explains an unavailable result (auth failure, transport
	// error, malformed body).
	Reason string
}

// Available builds a usable probe outcome with the given unit balance.
func Available(units int) QuotaResult {
	return QuotaResult{Available: true, Units: units}
}

// Unavailable builds a failed probe outcome with a human-readable reason.
func Unavailable(reason string) QuotaResult {
	return QuotaResult{Reason: reason}
}

// Oracle answers "how many credit units does this account hold right now".
//
// Probe never returns an error: an unreachable or unparseable answer is an
// Unavailable result, which the scheduler turns into an unusable account.
type Oracle interface {
	Probe(ctx context.Context, acct *account.Account) QuotaResult
}

// Package scheduler drives a generation run across accounts in fixed order.
//
// state.go defines the lifecycle an account moves through within one run
// and the per-account slice of the run summary.
package scheduler

// AccountState tracks where an account sits in its run lifecycle.
//
// The lifecycle is Pending → QuotaChecked → Active → Exhausted. Unusable
// is reached from Pending when the probe reports unavailability, or from
// QuotaChecked when the balance cannot cover a single generation.
// Exhausted and Unusable are terminal for the rest of the run.
type AccountState int

const (
	// StatePending: loaded but not yet activated.
	StatePending AccountState = iota
	// StateQuotaChecked: the oracle answered with a balance.
	StateQuotaChecked
	// StateActive: allocation granted, prompts being dispatched.
	StateActive
	// StateExhausted: the allocated batch was fully dispatched.
	StateExhausted
	// StateUnusable: the probe failed, or the balance covers nothing.
	StateUnusable
)

// String returns the lifecycle name used in logs and reports.
func (s AccountState) String() string {
	switch s {
	case StatePending:
		return "pending"
	case StateQuotaChecked:
		return "quota_checked"
	case StateActive:
		return "active"
	case StateExhausted:
		return "exhausted"
	case StateUnusable:
		return "unusable"
	default:
		return "unknown"
	}
}

// AccountRun is one account's slice of the run summary.
type AccountRun struct {
	// Name is the account identity.
	Name string
	// State is the lifecycle state the account ended the run in. An
	// account still Active at the end was interrupted mid-batch.
	State AccountState
	// Quota is the probed credit balance, zero when the probe failed.
	Quota int
	// Reason explains why an unusable account was skipped.
	Reason string
	// Allocated is how many prompts the account was granted.
	Allocated int
	// Attempted is how many prompts were actually dispatched to it.
	Attempted int
	// Succeeded is how many attempts landed at least one image.
	Succeeded int
	// Images is how many artifacts the account's attempts downloaded.
	Images int
}

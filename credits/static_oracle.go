package credits

import (
	"context"

	"github.com/LinkuDev/dreamina/account"
)

// StaticOracle reports the same fixed balance for every account. Used for
// dry runs and offline development where the commerce endpoint is out of
// reach; pair it with a stub provider to rehearse a batch end to end.
type StaticOracle struct {
	units int
}

// NewStaticOracle creates a StaticOracle. Negative balances clamp to zero.
func NewStaticOracle(units int) *StaticOracle {
	if units < 0 {
		units = 0
	}
	return &StaticOracle{units: units}
}

// Probe returns the configured balance regardless of the account.
func (o *StaticOracle) Probe(_ context.Context, _ *account.Account) QuotaResult {
	return Available(o.units)
}

// Ensure StaticOracle implements Oracle at compile time.
var _ Oracle = (*StaticOracle)(nil)

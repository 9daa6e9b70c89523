// Package scheduler drives a generation run across accounts in fixed order.
//
// allocate.go holds the pure allocation arithmetic: how many of the
// remaining prompts an account's probed credit can pay for.
package scheduler

// Allocate computes how many of the remaining prompts an account may take
// given its available credit units and the fixed per-generation cost.
//
// The result is min(remainingPrompts, availableUnits/costPerGeneration),
// never negative. The cost is charged once per prompt attempt regardless
// of how many images that attempt requests: asking for four images does
// not cost four times as much as asking for one.
func Allocate(availableUnits, costPerGeneration, remainingPrompts int) int {
	if availableUnits <= 0 || costPerGeneration <= 0 || remainingPrompts <= 0 {
		return 0
	}

	affordable := availableUnits / costPerGeneration
	if affordable > remainingPrompts {
		return remainingPrompts
	}
	return affordable
}

// capAllocation applies the per-account prompt ceiling. A limit of zero
// or less means no ceiling.
func capAllocation(allocation, limit int) int {
	if limit > 0 && allocation > limit {
		return limit
	}
	return allocation
}

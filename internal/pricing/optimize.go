package pricing

import (
	"errors"
	"fmt"
	"math"
	"sort"

	"github.com/xtding233/capturesim/internal/capture"
)

// ErrUnreachable means no combination of options can reach the target.
var ErrUnreachable = errors.New("target confidence is unreachable with the given options")

// unitsPerNat discretizes -ln(1-p). Each throw contributes floor(-ln(1-p)*unitsPerNat)
// units, so a plan's real confidence is never below the one the DP believes.
const unitsPerNat = 10000

// MaxBudgetSteps caps the budget planner's table: budget divided by the GCD of
// the variant prices must not exceed it.
const MaxBudgetSteps = 1 << 22

// sureUnits stands for a throw with p >= 1.
var sureUnits = int(math.Ceil(-math.Log(1e-12) * unitsPerNat))

func unitsFor(p float64) int {
	if p >= 1 {
		return sureUnits
	}
	if p <= 0 {
		return 0
	}
	return int(math.Floor(-math.Log1p(-p) * unitsPerNat))
}

type variant struct {
	id     string
	bundle bool
	throws int
	units  int
	price  int
	p      float64
}

// variants expands every option into a single-throw variant and, when the
// option sells bundles, a bundle variant.
func variants(options []Option) []variant {
	var out []variant
	for _, o := range options {
		u := unitsFor(o.Probability)
		if u == 0 || o.Price.Unit < 0 {
			continue
		}
		if o.Price.BundleSize > 1 && o.Price.BundlePrice > 0 {
			out = append(out, variant{
				id:     o.DeviceID,
				bundle: true,
				throws: o.Price.BundleSize,
				units:  u * o.Price.BundleSize,
				price:  o.Price.BundlePrice,
				p:      o.Probability,
			})
		}
		out = append(out, variant{id: o.DeviceID, throws: 1, units: u, price: o.Price.Unit, p: o.Probability})
	}
	return out
}

// MinCostForConfidence finds the cheapest set of throws, across devices, whose
// chance of at least one capture is >= target. Throws are independent, so the
// combined miss probability is the product of per-throw miss probabilities.
func MinCostForConfidence(options []Option, target float64) (Plan, error) {
	if target <= 0 {
		return Plan{}, nil
	}
	effs := variants(options)
	if len(effs) == 0 {
		return Plan{}, ErrUnreachable
	}
	need := sureUnits
	if target < 1 {
		need = int(math.Ceil(-math.Log1p(-target) * unitsPerNat))
	} else if !anySure(effs) {
		// stacked uncertain throws approach certainty without reaching it
		return Plan{}, ErrUnreachable
	}

	maxUnits := 0
	for _, e := range effs {
		if e.units > maxUnits {
			maxUnits = e.units
		}
	}
	limit := need + maxUnits

	const inf = int(^uint(0) >> 1)
	dp := make([]int, limit+1)   // min cost to reach exactly t units
	pr := make([]int, limit+1)   // chosen variant index
	prev := make([]int, limit+1) // previous t
	for t := range dp {
		dp[t] = inf
		pr[t] = -1
		prev[t] = -1
	}
	dp[0] = 0

	for t := 0; t <= limit; t++ {
		if dp[t] == inf {
			continue
		}
		for i, e := range effs {
			nt := t + e.units
			if nt > limit {
				nt = limit
			}
			cost := dp[t] + e.price
			if cost < dp[nt] {
				dp[nt] = cost
				pr[nt] = i
				prev[nt] = t
			}
		}
	}

	bestT, bestCost := -1, inf
	for t := need; t <= limit; t++ {
		if dp[t] < bestCost {
			bestT, bestCost = t, dp[t]
		}
	}
	if bestT < 0 {
		return Plan{}, ErrUnreachable
	}

	counts := map[int]int{}
	for t := bestT; t > 0 && pr[t] != -1; t = prev[t] {
		counts[pr[t]]++
	}
	return buildPlan(effs, counts), nil
}

// MaxConfidenceUnderBudget finds the throw set with the highest chance of at
// least one capture whose total cost stays within budget. The cost axis is
// counted in steps of the GCD of the prices; more than MaxBudgetSteps steps is
// rejected with capture.ErrInvalidArgument.
func MaxConfidenceUnderBudget(options []Option, budget int) (Plan, error) {
	if budget <= 0 {
		return Plan{}, nil
	}
	var effs []variant
	for _, e := range variants(options) {
		if e.price > 0 {
			effs = append(effs, e)
		}
	}
	if len(effs) == 0 {
		return Plan{}, nil
	}
	g := 0
	for _, e := range effs {
		g = gcd(g, e.price)
	}
	steps := budget / g
	if steps > MaxBudgetSteps {
		return Plan{}, fmt.Errorf("budget %d needs %d price steps, max %d: %w",
			budget, steps, MaxBudgetSteps, capture.ErrInvalidArgument)
	}

	// dp[c] = max units with cost exactly c*g
	dp := make([]int, steps+1)
	choose := make([]int, steps+1)
	for c := range choose {
		choose[c] = -1
	}
	for c := 0; c <= steps; c++ {
		if c > 0 && choose[c] == -1 {
			continue
		}
		for i, e := range effs {
			nc := c + e.price/g
			if nc <= steps {
				val := dp[c] + e.units
				if val > dp[nc] {
					dp[nc] = val
					choose[nc] = i
				}
			}
		}
	}
	bestC := 0
	for c := 0; c <= steps; c++ {
		if dp[c] > dp[bestC] {
			bestC = c
		}
	}

	counts := map[int]int{}
	for c := bestC; c > 0 && choose[c] != -1; c -= effs[choose[c]].price / g {
		counts[choose[c]]++
	}
	return buildPlan(effs, counts), nil
}

func anySure(effs []variant) bool {
	for _, e := range effs {
		if e.p >= 1 {
			return true
		}
	}
	return false
}

func gcd(a, b int) int {
	for b != 0 {
		a, b = b, a%b
	}
	return a
}

func buildPlan(effs []variant, counts map[int]int) Plan {
	var plan Plan
	miss := 1.0
	for i, qty := range counts {
		e := effs[i]
		sub := e.price * qty
		plan.Purchases = append(plan.Purchases, Purchase{
			DeviceID:  e.id,
			Bundle:    e.bundle,
			Qty:       qty,
			UnitPrice: e.price,
			Throws:    e.throws,
			Subtotal:  sub,
		})
		plan.TotalCost += sub
		plan.Throws += e.throws * qty
		miss *= math.Pow(1-math.Min(e.p, 1), float64(e.throws*qty))
	}
	if len(counts) > 0 {
		plan.Probability = 1 - miss
	}
	sort.Slice(plan.Purchases, func(i, j int) bool {
		a, b := plan.Purchases[i], plan.Purchases[j]
		if a.DeviceID != b.DeviceID {
			return a.DeviceID < b.DeviceID
		}
		return a.Bundle && !b.Bundle
	})
	return plan
}

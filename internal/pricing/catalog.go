package pricing

import "math"

// Price is what one device kind costs at the shop.
type Price struct {
	Unit        int // price of a single device
	BundleSize  int // optional; devices per bundle, 0 or 1 disables bundles
	BundlePrice int // price of one bundle
}

// Option is a device the planner may buy, with its per-throw capture probability
// against the target being planned for.
type Option struct {
	DeviceID    string
	Probability float64
	Price       Price
}

// Plan summarizes a purchase plan.
type Plan struct {
	Purchases   []Purchase `json:"purchases"`
	TotalCost   int        `json:"total_cost"`
	Throws      int        `json:"throws"`
	Probability float64    `json:"probability"` // chance that at least one throw captures
}

// Purchase is one line item in the plan.
type Purchase struct {
	DeviceID  string `json:"device"`
	Bundle    bool   `json:"bundle"` // true if this line buys bundles
	Qty       int    `json:"qty"`    // number of units (bundles or singles) bought
	UnitPrice int    `json:"unit_price"`
	Throws    int    `json:"throws"` // devices obtained per unit
	Subtotal  int    `json:"subtotal"`
}

// ExpectedThrows is the mean number of throws until the first capture
// (geometric distribution). p <= 0 gives +Inf.
func ExpectedThrows(p float64) float64 {
	if p <= 0 {
		return math.Inf(1)
	}
	if p > 1 {
		p = 1
	}
	return 1 / p
}

// ExpectedCostPerCapture is unitCost / p. p <= 0 gives +Inf.
func ExpectedCostPerCapture(unitCost int, p float64) float64 {
	return float64(unitCost) * ExpectedThrows(p)
}

// SuccessWithin is the chance that at least one of n throws at p captures.
func SuccessWithin(p float64, n int) float64 {
	if n <= 0 || p <= 0 {
		return 0
	}
	if p >= 1 {
		return 1
	}
	return 1 - math.Pow(1-p, float64(n))
}

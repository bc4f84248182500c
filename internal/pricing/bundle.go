package pricing

// ForThrows returns the cheapest cost of buying at least n devices, mixing
// bundles and singles.
func (p Price) ForThrows(n int) int {
	if n <= 0 {
		return 0
	}
	singles := n * p.Unit
	if p.BundleSize <= 1 || p.BundlePrice <= 0 {
		return singles
	}
	bundles := n / p.BundleSize
	rem := n % p.BundleSize
	mixed := bundles*p.BundlePrice + rem*p.Unit
	// rounding the remainder up to one more bundle can be cheaper
	if rem > 0 && (bundles+1)*p.BundlePrice < mixed {
		mixed = (bundles + 1) * p.BundlePrice
	}
	if mixed < singles {
		return mixed
	}
	return singles
}

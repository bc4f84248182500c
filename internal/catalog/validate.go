package catalog

import (
	"fmt"
	"sort"
	"strings"

	"github.com/xtding233/capturesim/internal/capture"
)

const (
	minCatchRate = 1
	maxCatchRate = 255
)

// idSeparator joins ids into experiment keys, so ids must not contain it.
const idSeparator = "/"

// ValidateRaw checks semantic constraints of a RawCatalog and reports every
// violation at once.
func ValidateRaw(raw RawCatalog) error {
	var errs []string

	if len(raw.Species) == 0 {
		errs = append(errs, "species catalog is empty")
	}
	if len(raw.Devices) == 0 {
		errs = append(errs, "device catalog is empty")
	}

	for _, id := range sortedKeys(raw.Species) {
		r := raw.Species[id]
		if strings.TrimSpace(id) == "" {
			errs = append(errs, "species id must not be blank")
		} else if strings.Contains(id, idSeparator) {
			errs = append(errs, fmt.Sprintf("species %s: id must not contain %q", id, idSeparator))
		}
		if r.CatchRate == nil {
			errs = append(errs, fmt.Sprintf("species %s: catch_rate is required", id))
		} else if *r.CatchRate < minCatchRate || *r.CatchRate > maxCatchRate {
			errs = append(errs, fmt.Sprintf("species %s: catch_rate must be in [%d,%d]", id, minCatchRate, maxCatchRate))
		}
		if len(r.Stats) < statDefense+1 {
			errs = append(errs, fmt.Sprintf("species %s: stats needs at least hp, attack, defense", id))
		}
		for i, v := range r.Stats {
			if v <= 0 {
				errs = append(errs, fmt.Sprintf("species %s: stats[%d] must be > 0", id, i))
			}
		}
		if len(r.Stats) > statCount {
			errs = append(errs, fmt.Sprintf("species %s: stats has %d values, at most %d", id, len(r.Stats), statCount))
		}
		types := 0
		for _, name := range r.Types {
			if isPadding(name) {
				continue
			}
			if _, err := capture.ParseType(name); err != nil {
				errs = append(errs, fmt.Sprintf("species %s: unknown type %q", id, name))
				continue
			}
			types++
		}
		if types == 0 {
			errs = append(errs, fmt.Sprintf("species %s: at least one type is required", id))
		}
		if r.Weight != nil && *r.Weight < 0 {
			errs = append(errs, fmt.Sprintf("species %s: weight must be >= 0", id))
		}
	}

	for _, id := range sortedKeys(raw.Devices) {
		r := raw.Devices[id]
		if strings.TrimSpace(id) == "" {
			errs = append(errs, "device id must not be blank")
		} else if strings.Contains(id, idSeparator) {
			errs = append(errs, fmt.Sprintf("device %s: id must not contain %q", id, idSeparator))
		}
		if r.Multiplier == nil {
			errs = append(errs, fmt.Sprintf("device %s: multiplier is required", id))
		} else if *r.Multiplier <= 0 {
			errs = append(errs, fmt.Sprintf("device %s: multiplier must be > 0", id))
		}
		if r.Cost != nil && *r.Cost < 0 {
			errs = append(errs, fmt.Sprintf("device %s: cost must be >= 0", id))
		}
		if r.Bundle != nil {
			if r.Bundle.Size < 1 {
				errs = append(errs, fmt.Sprintf("device %s: bundle.size must be >= 1", id))
			}
			if r.Bundle.Price < 0 {
				errs = append(errs, fmt.Sprintf("device %s: bundle.price must be >= 0", id))
			}
		}
	}

	if len(errs) > 0 {
		return fmt.Errorf("catalog validation failed: %s: %w", strings.Join(errs, "; "), capture.ErrInvalidArgument)
	}
	return nil
}

func isPadding(typeName string) bool {
	n := strings.ToLower(strings.TrimSpace(typeName))
	return n == "" || n == "none"
}

func sortedKeys[T any](m map[string]T) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

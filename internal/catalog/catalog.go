package catalog

import (
	"github.com/xtding233/capturesim/internal/capture"
	"github.com/xtding233/capturesim/internal/pricing"
)

// Catalog is an immutable, validated snapshot of species and devices. It is
// safe for concurrent use without locking.
type Catalog struct {
	species    map[string]*capture.Species
	devices    map[string]capture.Device
	prices     map[string]pricing.Price
	speciesIDs []string
	deviceIDs  []string
}

// Build validates raw records and converts them to the capture model.
func Build(raw RawCatalog) (*Catalog, error) {
	if err := ValidateRaw(raw); err != nil {
		return nil, err
	}
	c := &Catalog{
		species:    make(map[string]*capture.Species, len(raw.Species)),
		devices:    make(map[string]capture.Device, len(raw.Devices)),
		prices:     make(map[string]pricing.Price, len(raw.Devices)),
		speciesIDs: sortedKeys(raw.Species),
		deviceIDs:  sortedKeys(raw.Devices),
	}

	for id, r := range raw.Species {
		sp := &capture.Species{
			ID:        id,
			CatchRate: *r.CatchRate,
			Base: capture.BaseStats{
				HP:      r.Stats[statHP],
				Attack:  r.Stats[statAttack],
				Defense: r.Stats[statDefense],
			},
		}
		if len(r.Stats) > statSpeed {
			sp.Base.Speed = r.Stats[statSpeed]
		}
		for _, name := range r.Types {
			if isPadding(name) {
				continue
			}
			t, _ := capture.ParseType(name) // validated above
			sp.Types = append(sp.Types, t)
		}
		if r.Weight != nil {
			sp.Weight = *r.Weight
		}
		c.species[id] = sp
	}

	for id, r := range raw.Devices {
		d := capture.Device{ID: id, Multiplier: *r.Multiplier}
		if r.Cost != nil {
			d.Cost = *r.Cost
		}
		c.devices[id] = d

		p := pricing.Price{Unit: d.Cost}
		if r.Bundle != nil {
			p.BundleSize = r.Bundle.Size
			p.BundlePrice = r.Bundle.Price
		}
		c.prices[id] = p
	}
	return c, nil
}

// Species implements capture.SpeciesLookup.
func (c *Catalog) Species(id string) (*capture.Species, bool) {
	s, ok := c.species[id]
	return s, ok
}

// Device implements capture.DeviceLookup.
func (c *Catalog) Device(id string) (capture.Device, bool) {
	d, ok := c.devices[id]
	return d, ok
}

// Price returns the shop price of a device kind.
func (c *Catalog) Price(id string) (pricing.Price, bool) {
	p, ok := c.prices[id]
	return p, ok
}

// SpeciesIDs returns all species ids, sorted.
func (c *Catalog) SpeciesIDs() []string { return append([]string(nil), c.speciesIDs...) }

// DeviceIDs returns all device kinds, sorted.
func (c *Catalog) DeviceIDs() []string { return append([]string(nil), c.deviceIDs...) }

// StrongestDevice returns the device with the largest multiplier.
func (c *Catalog) StrongestDevice() capture.Device {
	var best capture.Device
	for _, id := range c.deviceIDs {
		if d := c.devices[id]; d.Multiplier > best.Multiplier {
			best = d
		}
	}
	return best
}

// Package catalog loads the species and device record sets consumed by the
// capture model. Files are JSON or YAML objects keyed by id.
package catalog

// SpeciesRecord mirrors one entry of pokemon.json.
//
//	"jolteon": {"type": ["electric", "none"], "stats": [65, 65, 60, 110, 95, 130], "catch_rate": 45, "weight": 24.5}
//
// stats follow the [hp, attack, defense, sp. attack, sp. defense, speed] order;
// a "none" type is padding and ignored.
type SpeciesRecord struct {
	PokedexNumber *int     `yaml:"pokedex_number,omitempty"`
	Types         []string `yaml:"type,omitempty"`
	Stats         []int    `yaml:"stats,omitempty"`
	CatchRate     *float64 `yaml:"catch_rate"`
	Weight        *float64 `yaml:"weight,omitempty"`
}

// DeviceRecord mirrors one entry of pokeball.json.
//
//	"ultraball": {"multiplier": 2, "cost": 800, "bundle": {"size": 10, "price": 7600}}
type DeviceRecord struct {
	Multiplier *float64      `yaml:"multiplier"`
	Cost       *int          `yaml:"cost"`
	Bundle     *BundleRecord `yaml:"bundle,omitempty"`
}

type BundleRecord struct {
	Size  int `yaml:"size"`
	Price int `yaml:"price"`
}

// RawCatalog is the merged, not yet validated, record set.
type RawCatalog struct {
	Species map[string]SpeciesRecord
	Devices map[string]DeviceRecord
}

const (
	statHP = iota
	statAttack
	statDefense
	statSpAttack
	statSpDefense
	statSpeed
	statCount
)

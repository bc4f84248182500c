package capture

import (
	"fmt"
	"strings"
)

// Type is an elemental type.
type Type string

const (
	TypeNormal   Type = "normal"
	TypeFire     Type = "fire"
	TypeWater    Type = "water"
	TypeElectric Type = "electric"
	TypeGrass    Type = "grass"
	TypeIce      Type = "ice"
	TypeFighting Type = "fighting"
	TypePoison   Type = "poison"
	TypeGround   Type = "ground"
	TypeFlying   Type = "flying"
	TypePsychic  Type = "psychic"
	TypeBug      Type = "bug"
	TypeRock     Type = "rock"
	TypeGhost    Type = "ghost"
	TypeDragon   Type = "dragon"
	TypeDark     Type = "dark"
	TypeSteel    Type = "steel"
	TypeFairy    Type = "fairy"
)

var knownTypes = map[Type]bool{
	TypeNormal: true, TypeFire: true, TypeWater: true, TypeElectric: true, TypeGrass: true,
	TypeIce: true, TypeFighting: true, TypePoison: true, TypeGround: true, TypeFlying: true,
	TypePsychic: true, TypeBug: true, TypeRock: true, TypeGhost: true, TypeDragon: true,
	TypeDark: true, TypeSteel: true, TypeFairy: true,
}

// ParseType normalizes a type name and rejects unknown ones.
func ParseType(name string) (Type, error) {
	t := Type(strings.ToLower(strings.TrimSpace(name)))
	if !knownTypes[t] {
		return "", fmt.Errorf("type %q: %w", name, ErrNotFound)
	}
	return t, nil
}

// BaseStats is a species' base stat block.
type BaseStats struct {
	HP      int
	Attack  int
	Defense int
	Speed   int
}

// Species is one immutable catalog entry. Creatures borrow it by pointer;
// nothing mutates it after the catalog is built.
type Species struct {
	ID string
	// CatchRate is the classic 1..255 catch rate: higher is easier to capture.
	CatchRate float64
	Base      BaseStats
	Types     []Type
	Weight    float64 // kg, informational
}

// Device is a capture device kind. Cost feeds pricing only, never the formula.
type Device struct {
	ID         string
	Multiplier float64
	Cost       int
}

// SpeciesLookup resolves species ids. Implementations must be safe for
// concurrent reads.
type SpeciesLookup interface {
	Species(id string) (*Species, bool)
}

// DeviceLookup resolves device kinds.
type DeviceLookup interface {
	Device(id string) (Device, bool)
}

// SpeciesTable is a map-backed SpeciesLookup.
type SpeciesTable map[string]*Species

func (t SpeciesTable) Species(id string) (*Species, bool) {
	s, ok := t[id]
	return s, ok
}

// DeviceTable is a map-backed DeviceLookup.
type DeviceTable map[string]Device

func (t DeviceTable) Device(id string) (Device, bool) {
	d, ok := t[id]
	return d, ok
}

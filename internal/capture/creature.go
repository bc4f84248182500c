package capture

import "math"

// IV used for every derived stat; EVs are zero.
const IV = 31

// HPFormula derives maximum HP from base HP and level. It must be
// non-decreasing in level.
type HPFormula func(baseHP, level int) int

// ClassicMaxHP is floor((2*base + IV) * level / 100) + level + 10.
func ClassicMaxHP(baseHP, level int) int {
	return (2*baseHP+IV)*level/100 + level + 10
}

// ClassicStat is floor((2*base + IV) * level / 100) + 5, for non-HP stats.
func ClassicStat(base, level int) int {
	return (2*base+IV)*level/100 + 5
}

// Stats are the level-scaled stats of a Creature.
type Stats struct {
	Attack  int
	Defense int
	Speed   int
}

// Creature is an immutable snapshot built by Factory.Create.
// Invariant: 0 <= CurrentHP() <= MaxHP().
type Creature struct {
	species   *Species
	level     int
	status    Status
	maxHP     int
	currentHP int
	stats     Stats
}

func (c Creature) Species() *Species { return c.species }
func (c Creature) Level() int        { return c.level }
func (c Creature) Status() Status    { return c.status }
func (c Creature) MaxHP() int        { return c.maxHP }
func (c Creature) CurrentHP() int    { return c.currentHP }
func (c Creature) Stats() Stats      { return c.stats }

// HealthFraction is CurrentHP / MaxHP after rounding.
func (c Creature) HealthFraction() float64 {
	if c.maxHP == 0 {
		return 0
	}
	return float64(c.currentHP) / float64(c.maxHP)
}

// currentHPFor rounds half away from zero and keeps the invariant.
func currentHPFor(maxHP int, fraction float64) int {
	hp := int(math.Round(float64(maxHP) * fraction))
	if hp < 0 {
		return 0
	}
	if hp > maxHP {
		return maxHP
	}
	return hp
}

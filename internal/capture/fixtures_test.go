package capture

func testSpecies() SpeciesTable {
	return SpeciesTable{
		"jolteon":  {ID: "jolteon", CatchRate: 45, Base: BaseStats{HP: 65, Attack: 65, Defense: 60, Speed: 130}, Types: []Type{TypeElectric}, Weight: 24.5},
		"caterpie": {ID: "caterpie", CatchRate: 255, Base: BaseStats{HP: 45, Attack: 30, Defense: 35, Speed: 45}, Types: []Type{TypeBug}, Weight: 2.9},
		"snorlax":  {ID: "snorlax", CatchRate: 25, Base: BaseStats{HP: 160, Attack: 110, Defense: 65, Speed: 30}, Types: []Type{TypeNormal}, Weight: 460},
		"onix":     {ID: "onix", CatchRate: 45, Base: BaseStats{HP: 35, Attack: 45, Defense: 160, Speed: 70}, Types: []Type{TypeRock, TypeGround}, Weight: 210},
		"mewtwo":   {ID: "mewtwo", CatchRate: 3, Base: BaseStats{HP: 106, Attack: 110, Defense: 90, Speed: 130}, Types: []Type{TypePsychic}, Weight: 122},
	}
}

func testDevices() DeviceTable {
	return DeviceTable{
		"pokeball":   {ID: "pokeball", Multiplier: 1, Cost: 200},
		"fastball":   {ID: "fastball", Multiplier: 1.5, Cost: 300},
		"heavyball":  {ID: "heavyball", Multiplier: 1.5, Cost: 300},
		"ultraball":  {ID: "ultraball", Multiplier: 2, Cost: 800},
		"masterball": {ID: "masterball", Multiplier: 255, Cost: 100000},
	}
}

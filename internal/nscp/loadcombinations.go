package nscp

import "fmt"

// LoadCombination is a set of strength design load factors
// (NSCP 2015 Section 203.3). Self-weight uses the Dead factor.
type LoadCombination struct {
	ID          string
	Description string

	Dead       float64 // D - Dead load
	Live       float64 // L - Live load
	Roof       float64 // Lr - Roof live load
	Wind       float64 // W - Wind load
	Earthquake float64 // E - Earthquake load
	Rain       float64 // R - Rain load
}

// LoadCombinations lists NSCP 2015 Section 203.3.1 basic combinations.
// Where a combination reads "Lr or R" both factors are carried.
var LoadCombinations = []LoadCombination{
	{ID: "1", Description: "1.4D", Dead: 1.4},
	{ID: "2", Description: "1.2D + 1.6L + 0.5(Lr or R)", Dead: 1.2, Live: 1.6, Roof: 0.5, Rain: 0.5},
	{ID: "3", Description: "1.2D + 1.6(Lr or R) + (1.0L or 0.5W)", Dead: 1.2, Live: 1.0, Roof: 1.6, Rain: 1.6, Wind: 0.5},
	{ID: "4", Description: "1.2D + 1.0W + 1.0L + 0.5(Lr or R)", Dead: 1.2, Live: 1.0, Wind: 1.0, Roof: 0.5, Rain: 0.5},
	{ID: "5", Description: "1.2D + 1.0E + 1.0L", Dead: 1.2, Live: 1.0, Earthquake: 1.0},
	{ID: "6", Description: "0.9D + 1.0W", Dead: 0.9, Wind: 1.0},
	{ID: "7", Description: "0.9D + 1.0E", Dead: 0.9, Earthquake: 1.0},
}

// Service is the unfactored combination D, used when no factoring is wanted
var Service = LoadCombination{ID: "0", Description: "1.0D", Dead: 1.0}

// Combination looks up a combination by ID. "0" is the unfactored service case.
func Combination(id string) (LoadCombination, error) {
	if id == Service.ID {
		return Service, nil
	}
	for _, c := range LoadCombinations {
		if c.ID == id {
			return c, nil
		}
	}
	return LoadCombination{}, fmt.Errorf("unknown load combination %q", id)
}

// Factored applies the combination factors to unfactored load effects
func (lc LoadCombination) Factored(effects LoadEffects) float64 {
	return lc.Dead*effects.Dead +
		lc.Live*effects.Live +
		lc.Roof*effects.Roof +
		lc.Wind*effects.Wind +
		lc.Earthquake*effects.Earthquake +
		lc.Rain*effects.Rain
}

// LoadEffects holds unfactored effects from different load types, such as
// distributed loads or moments
type LoadEffects struct {
	Dead       float64
	Live       float64
	Roof       float64
	Wind       float64
	Earthquake float64
	Rain       float64
}

/*
Copyright © 2026 the NPZD authors.
This file is part of NPZD.

NPZD is free software: you can redistribute it and/or modify
it under the terms of the GNU General Public License as published by
the Free Software Foundation, either version 3 of the License, or
(at your option) any later version.

NPZD is distributed in the hope that it will be useful,
but WITHOUT ANY WARRANTY; without even the implied warranty of
MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.  See the
GNU General Public License for more details.

You should have received a copy of the GNU General Public License
along with NPZD.  If not, see <http://www.gnu.org/licenses/>.
*/

package npzd

import "fmt"

const daysPerSecond = 1. / 3600. / 24.

// Parameters holds the kinetic rate constants of the NPZD mechanism.
// All rates are stored per second. Parameters are validated when a
// Model is created and are immutable afterwards.
type Parameters struct {
	PhotosyntheticSlope    float64 `desc:"Initial photosynthetic slope (α)" units:"m²/W/s"`
	MaxGrowthRate          float64 `desc:"Base maximum phytoplankton growth rate (μ₀)" units:"1/s"`
	NutrientHalfSaturation float64 `desc:"Nutrient uptake half-saturation (kN)" units:"mmol N/m³"`
	PhytoMetabolicLoss     float64 `desc:"Base phytoplankton metabolic loss rate" units:"1/s"`
	PhytoMortality         float64 `desc:"Base phytoplankton mortality rate" units:"1/s"`
	MaxGrazingRate         float64 `desc:"Maximum zooplankton grazing rate (g)" units:"1/s"`
	GrazingHalfSaturation  float64 `desc:"Grazing half-saturation (kP)" units:"mmol N/m³"`
	AssimilationEfficiency float64 `desc:"Zooplankton assimilation efficiency (β)" units:"fraction"`
	ZooMetabolicLoss       float64 `desc:"Base zooplankton excretion rate" units:"1/s"`
	ZooMortality           float64 `desc:"Base zooplankton quadratic mortality rate" units:"m³/mmol N/s"`
	Remineralization       float64 `desc:"Detritus remineralization rate" units:"1/s"`
}

// DefaultParameters returns the published rate constants for the NPZD
// mechanism, converted from their customary per-day values.
func DefaultParameters() Parameters {
	return Parameters{
		PhotosyntheticSlope:    0.1953 * daysPerSecond,
		MaxGrowthRate:          0.6989 * daysPerSecond,
		NutrientHalfSaturation: 2.3868,
		PhytoMetabolicLoss:     0.066 * daysPerSecond,
		PhytoMortality:         0.0101 * daysPerSecond,
		MaxGrazingRate:         2.1522 * daysPerSecond,
		GrazingHalfSaturation:  0.5573,
		AssimilationEfficiency: 0.9116,
		ZooMetabolicLoss:       0.0102 * daysPerSecond,
		ZooMortality:           0.3395 * daysPerSecond,
		Remineralization:       0.1213 * daysPerSecond,
	}
}

// Check returns an error if any rate constant is out of its physical
// range. The half-saturation constants must be strictly positive so the
// limitation terms stay defined at zero concentration.
func (p Parameters) Check() error {
	rates := []struct {
		name string
		val  float64
	}{
		{"PhotosyntheticSlope", p.PhotosyntheticSlope},
		{"MaxGrowthRate", p.MaxGrowthRate},
		{"PhytoMetabolicLoss", p.PhytoMetabolicLoss},
		{"PhytoMortality", p.PhytoMortality},
		{"MaxGrazingRate", p.MaxGrazingRate},
		{"ZooMetabolicLoss", p.ZooMetabolicLoss},
		{"ZooMortality", p.ZooMortality},
		{"Remineralization", p.Remineralization},
	}
	for _, r := range rates {
		if r.val < 0 {
			return fmt.Errorf("npzd: parameter %s is %g but must be non-negative", r.name, r.val)
		}
	}
	if p.NutrientHalfSaturation <= 0 {
		return fmt.Errorf("npzd: parameter NutrientHalfSaturation is %g but must be positive", p.NutrientHalfSaturation)
	}
	if p.GrazingHalfSaturation <= 0 {
		return fmt.Errorf("npzd: parameter GrazingHalfSaturation is %g but must be positive", p.GrazingHalfSaturation)
	}
	if p.AssimilationEfficiency < 0 || p.AssimilationEfficiency > 1 {
		return fmt.Errorf("npzd: parameter AssimilationEfficiency is %g but must be within [0, 1]", p.AssimilationEfficiency)
	}
	return nil
}

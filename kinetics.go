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

import "math"

// q10Base is the multiplicative change in biological rates for a 10 °C
// temperature increase.
const q10Base = 1.88

// q10 is the temperature scaling factor applied to all
// temperature-dependent rates.
func q10(temperature float64) float64 {
	return math.Pow(q10Base, temperature/10.)
}

// saturation is the Michaelis-Menten saturating function x/(k+x).
// It is used directly for nutrient uptake, and with squared arguments
// for the grazing functional response.
func saturation(x, k float64) float64 {
	return x / (k + x)
}

// lightLimitation is the smooth saturating light response
// α·PAR/√(μ²+α²·PAR²), where μ is the temperature-scaled maximum growth
// rate. It is bounded within [0, 1) for PAR ≥ 0 and has a continuous
// derivative at all light levels.
func (p *Parameters) lightLimitation(par, temperature float64) float64 {
	α := p.PhotosyntheticSlope
	μ := p.MaxGrowthRate * q10(temperature)
	denom := math.Sqrt(μ*μ + α*α*par*par)
	if denom == 0 {
		return 0
	}
	return α * par / denom
}

// sourceTerms holds the process rates shared among the four tracer
// derivatives. Every loss from one tracer appears as a gain in exactly
// one other, so the derivatives conserve mass by construction.
type sourceTerms struct {
	growth           float64 // nutrient- and light-limited phytoplankton growth
	grazing          float64 // type-III zooplankton grazing on phytoplankton
	phytoMetabolic   float64 // phytoplankton metabolic loss to nutrient
	phytoMortality   float64 // phytoplankton mortality to detritus
	zooMetabolic     float64 // zooplankton excretion to nutrient
	zooMortality     float64 // quadratic zooplankton mortality to detritus
	remineralization float64 // detritus decay back to nutrient
}

// terms evaluates the process rates at state s. It is pure and total:
// it is defined for all real-valued inputs and never fails.
func (p *Parameters) terms(s LocalState) sourceTerms {
	f := q10(s.Temperature)
	kp := p.GrazingHalfSaturation
	return sourceTerms{
		growth: p.MaxGrowthRate * f *
			saturation(s.N, p.NutrientHalfSaturation) *
			p.lightLimitation(s.PAR, s.Temperature) * s.P,
		grazing:          p.MaxGrazingRate * saturation(s.P*s.P, kp*kp) * s.Z,
		phytoMetabolic:   p.PhytoMetabolicLoss * f * s.P,
		phytoMortality:   p.PhytoMortality * f * s.P,
		zooMetabolic:     p.ZooMetabolicLoss * f * s.Z,
		zooMortality:     p.ZooMortality * f * s.Z * s.Z,
		remineralization: p.Remineralization * s.D,
	}
}

func (t sourceTerms) dN() float64 {
	return t.phytoMetabolic + t.zooMetabolic + t.remineralization - t.growth
}

func (t sourceTerms) dP() float64 {
	return t.growth - t.grazing - t.phytoMetabolic - t.phytoMortality
}

func (t sourceTerms) dZ(β float64) float64 {
	return β*t.grazing - t.zooMetabolic - t.zooMortality
}

func (t sourceTerms) dD(β float64) float64 {
	return t.phytoMortality + (1-β)*t.grazing + t.zooMortality - t.remineralization
}

// SourceTerms evaluates all four coupled tracer derivatives at state s,
// in mmol N/m³/s. The four derivatives sum to zero: the reaction
// network is a closed system in nitrogen currency.
func (m *Model) SourceTerms(s LocalState) (dN, dP, dZ, dD float64) {
	t := m.params.terms(s)
	β := m.params.AssimilationEfficiency
	return t.dN(), t.dP(), t.dZ(β), t.dD(β)
}

// Rate evaluates the derivative of a single tracer at state s, in
// mmol N/m³/s. The rate for Temperature is zero: temperature is
// externally supplied, not advanced by this model. Rate never fails;
// negative concentrations produced by the host's numerical integration
// are to be corrected by the host's positivity scheme, not here.
func (m *Model) Rate(tracer Tracer, s LocalState) float64 {
	if tracer == TracerTemperature {
		return 0
	}
	t := m.params.terms(s)
	β := m.params.AssimilationEfficiency
	switch tracer {
	case TracerN:
		return t.dN()
	case TracerP:
		return t.dP()
	case TracerZ:
		return t.dZ(β)
	case TracerD:
		return t.dD(β)
	}
	return 0
}

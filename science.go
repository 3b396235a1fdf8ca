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

import "github.com/ctessum/atmos/advect"

// Sources returns a function that applies the NPZD source and sink
// terms to a cell with a forward-Euler update.
func (m *Model) Sources() CellManipulator {
	return func(c *Cell, Δt float64) {
		dN, dP, dZ, dD := m.SourceTerms(c.localState())
		c.Cf[TracerN] += dN * Δt
		c.Cf[TracerP] += dP * Δt
		c.Cf[TracerZ] += dZ * Δt
		c.Cf[TracerD] += dD * Δt
	}
}

// Sinking returns a function that applies vertical sinking transport to
// a cell for every configured sinking tracer, using each tracer's
// configured advection scheme. Mass that sinks through the domain floor
// is handed to the sediment collaborator.
func (m *Model) Sinking() CellManipulator {
	return func(c *Cell, Δt float64) {
		for t, e := range m.sinking {
			wBot := e.Velocity.Elements[c.Layer]
			wTop := e.Velocity.Elements[c.Layer+1]
			ci := c.Ci[t]

			var fluxBot float64
			if b := c.below; b != nil {
				switch e.Scheme {
				case SchemeUpwind:
					fluxBot = advect.UpwindFlux(wBot, b.Ci[t], ci, c.Dz)
				default:
					fluxBot = wBot * (b.Ci[t] + ci) / 2 / c.Dz
				}
			} else {
				// Domain floor: nothing enters from below; with an
				// un-tapered velocity, mass leaves to the sediment.
				fluxBot = advect.UpwindFlux(wBot, 0, ci, c.Dz)
				if fluxBot < 0 {
					m.sediment.Deposit(t, -fluxBot*c.Dz, Δt)
				}
			}

			var fluxTop float64
			if a := c.above; a != nil {
				switch e.Scheme {
				case SchemeUpwind:
					fluxTop = advect.UpwindFlux(wTop, ci, a.Ci[t], c.Dz)
				default:
					fluxTop = wTop * (ci + a.Ci[t]) / 2 / c.Dz
				}
			} else {
				// Sea surface: no sinking flux crosses it.
				fluxTop = 0
			}

			c.Cf[t] += (fluxBot - fluxTop) * Δt
		}
	}
}

// VerticalMixing returns a function that calculates diffusive exchange
// with the cells above and below, using harmonic-mean staggered-grid
// diffusivities. No diffusive flux crosses the surface or the floor.
func VerticalMixing() CellManipulator {
	return func(c *Cell, Δt float64) {
		for ii := range c.Cf {
			if a := c.above; a != nil {
				c.Cf[ii] += 1. / c.Dz * (harmonicMean(c.Kz, a.Kz) *
					(a.Ci[ii] - c.Ci[ii]) / ((c.Dz + a.Dz) / 2)) * Δt
			}
			if b := c.below; b != nil {
				c.Cf[ii] += 1. / c.Dz * (harmonicMean(c.Kz, b.Kz) *
					(b.Ci[ii] - c.Ci[ii]) / ((c.Dz + b.Dz) / 2)) * Δt
			}
		}
	}
}

func harmonicMean(a, b float64) float64 {
	if a+b == 0 {
		return 0
	}
	return 2. * a * b / (a + b)
}

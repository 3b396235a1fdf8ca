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

// Sediment receives the tracer mass that sinks through the domain
// floor. It is an optional collaborator slot; a model without one uses
// NoSediment.
type Sediment interface {
	// Deposit records a mass flux through the domain floor
	// [mmol N/m²/s] of tracer t over a time step of Δt seconds.
	Deposit(t Tracer, flux, Δt float64)
}

// NoSediment discards bottom fluxes.
type NoSediment struct{}

// Deposit implements Sediment as a no-op.
func (NoSediment) Deposit(Tracer, float64, float64) {}

// MassSediment accumulates deposited mass per tracer [mmol N/m²]. It
// is a minimal accounting sediment useful for budget closure when
// running with an un-tapered bottom boundary.
type MassSediment struct {
	Deposited [nPrognostic]float64
}

// Deposit implements Sediment.
func (s *MassSediment) Deposit(t Tracer, flux, Δt float64) {
	if t.Prognostic() {
		s.Deposited[t] += flux * Δt
	}
}

// ParticleModel is an optional collaborator slot for Lagrangian
// particle submodels. It is stepped once per time step after the
// auxiliary fields have been refreshed.
type ParticleModel interface {
	Update(col *Column) error
}

// NoParticles is the no-op default ParticleModel.
type NoParticles struct{}

// Update implements ParticleModel as a no-op.
func (NoParticles) Update(col *Column) error { return nil }

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

// LightModel computes the PAR auxiliary field for a column. The model
// core does not compute light attenuation itself; it delegates to a
// LightModel once per time step, before rate evaluations.
type LightModel interface {
	UpdatePAR(col *Column) error
}

// NoLight leaves the PAR field exactly as the host set it. It is the
// default collaborator and the right choice when PAR comes from
// external forcing, as in box-model runs.
type NoLight struct{}

// UpdatePAR implements LightModel as a no-op.
func (NoLight) UpdatePAR(col *Column) error { return nil }

// ExponentialLight attenuates downwelling surface irradiance through
// the water column with a constant water attenuation coefficient plus
// phytoplankton self-shading.
type ExponentialLight struct {
	// SurfacePAR gives the downwelling photosynthetically available
	// radiation at the sea surface [W/m²] at simulation time t [s].
	SurfacePAR func(t float64) float64

	KWater float64 // attenuation by water [1/m]
	KPhyto float64 // attenuation per unit phytoplankton [m²/mmol N]
}

// UpdatePAR implements LightModel. PAR is attenuated cell by cell from
// the surface downward, evaluating each cell's value at its center.
func (l ExponentialLight) UpdatePAR(col *Column) error {
	cells := col.Cells()
	par := l.SurfacePAR(col.Time)
	for i := len(cells) - 1; i >= 0; i-- {
		c := cells[i]
		c.Lock()
		k := l.KWater + l.KPhyto*c.Ci[TracerP]
		c.PAR = par * math.Exp(-k*c.Dz/2)
		par *= math.Exp(-k * c.Dz)
		c.Unlock()
	}
	return nil
}

// BoxForcing supplies temperature and PAR as functions of time only,
// for well-mixed box runs where no vertical structure exists. Nil
// functions leave the corresponding field untouched.
type BoxForcing struct {
	PAR         func(t float64) float64 // [W/m²]
	Temperature func(t float64) float64 // [°C]
}

// Apply returns a manipulator that overwrites every cell's forcing
// fields from the box forcing functions. It belongs at the front of the
// RunFuncs list, in the auxiliary-field phase of the step.
func (f BoxForcing) Apply() ColumnManipulator {
	return func(col *Column) error {
		for _, c := range col.Cells() {
			c.Lock()
			if f.PAR != nil {
				c.PAR = f.PAR(col.Time)
			}
			if f.Temperature != nil {
				c.Temperature = f.Temperature(col.Time)
			}
			c.Unlock()
		}
		return nil
	}
}

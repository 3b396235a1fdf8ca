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

import (
	"fmt"
	"math"

	"github.com/ctessum/sparse"
)

// AdvectionScheme tags the discretization the host transport operator
// should use for a sinking tracer.
type AdvectionScheme int

const (
	// SchemeCentered is a second-order centered-difference flux. It is
	// the default scheme for sinking tracers.
	SchemeCentered AdvectionScheme = iota
	// SchemeUpwind is a first-order upwind flux.
	SchemeUpwind
)

func (s AdvectionScheme) String() string {
	switch s {
	case SchemeCentered:
		return "centered"
	case SchemeUpwind:
		return "upwind"
	}
	return fmt.Sprintf("AdvectionScheme(%d)", int(s))
}

// ParseAdvectionScheme converts a scheme name to an AdvectionScheme.
func ParseAdvectionScheme(name string) (AdvectionScheme, error) {
	switch name {
	case "centered", "":
		return SchemeCentered, nil
	case "upwind":
		return SchemeUpwind, nil
	}
	return -1, fmt.Errorf("npzd: '%s' is not a valid advection scheme; valid options are centered and upwind", name)
}

// VerticalGrid describes the vertical cell-face layout of the host
// domain. Faces returns the face heights in meters, zero at the sea
// surface and negative below it, ordered from the domain floor upward.
// A grid with n cells has n+1 faces.
type VerticalGrid interface {
	Faces() []float64
}

// ColumnGrid is a uniformly spaced water column of the given depth.
type ColumnGrid struct {
	Depth  float64 // water column depth [m]
	Levels int     // number of vertical cells
}

// Faces implements VerticalGrid.
func (g ColumnGrid) Faces() []float64 {
	f := make([]float64, g.Levels+1)
	dz := g.Depth / float64(g.Levels)
	for i := range f {
		f[i] = -g.Depth + dz*float64(i)
	}
	f[g.Levels] = 0
	return f
}

// SinkingEntry is the per-tracer vertical transport configuration
// consumed by the host advection solver. Velocity holds one value per
// vertical cell face in the solver's sign convention (downward is
// negative), ordered from the domain floor upward.
type SinkingEntry struct {
	Velocity *sparse.DenseArray
	Scheme   AdvectionScheme
}

// SinkingSpec configures the sinking tracers by name. Speeds are
// positive downward magnitudes in m/s. Schemes are optional per-tracer
// overrides of the default centered scheme. If OpenBottom is true the
// velocity is smoothly tapered to zero near the domain floor so no
// tracer mass sinks out of the domain; if false the velocity is uniform
// down to the boundary and the host's bottom boundary condition
// determines whether mass is lost.
type SinkingSpec struct {
	Speeds     map[string]float64
	Schemes    map[string]string
	OpenBottom bool
}

// taperLength is the number of bottom cell heights over which sinking
// velocity decays to zero when the bottom taper is active.
const taperLength = 2.

// buildSinking converts scalar sinking speeds to face-valued velocity
// profiles on grid g. The returned map is fixed for the lifetime of the
// model.
func buildSinking(spec SinkingSpec, g VerticalGrid) (map[Tracer]*SinkingEntry, error) {
	if len(spec.Speeds) == 0 {
		return nil, nil
	}
	faces := g.Faces()
	if len(faces) < 2 {
		return nil, fmt.Errorf("npzd: sinking requires a grid with at least two vertical faces; got %d", len(faces))
	}
	zBottom := faces[0]
	ℓ := taperLength * (faces[1] - faces[0])

	entries := make(map[Tracer]*SinkingEntry, len(spec.Speeds))
	for name, w := range spec.Speeds {
		t, err := ParseTracer(name)
		if err != nil {
			return nil, err
		}
		if !t.Prognostic() {
			return nil, fmt.Errorf("npzd: tracer %s cannot sink; valid sinking tracers are N, P, Z, and D", t)
		}
		if w < 0 {
			return nil, fmt.Errorf("npzd: sinking speed for tracer %s is %g but must be a non-negative downward magnitude", t, w)
		}
		scheme, err := ParseAdvectionScheme(spec.Schemes[name])
		if err != nil {
			return nil, err
		}
		v := sparse.ZerosDense(len(faces))
		for i, z := range faces {
			vv := -w // downward magnitudes become negative velocities
			if spec.OpenBottom {
				vv *= -math.Expm1(-(z - zBottom) / ℓ)
			}
			v.Elements[i] = vv
		}
		entries[t] = &SinkingEntry{Velocity: v, Scheme: scheme}
	}
	return entries, nil
}

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

import "github.com/ctessum/sparse"

// Biogeochemistry is an interface for ocean biogeochemical reaction
// mechanisms hosted by a transport solver.
type Biogeochemistry interface {
	// Sources returns a function that applies the mechanism's
	// source and sink terms to a cell.
	Sources() CellManipulator

	// DriftVelocity returns the face-valued sinking velocity for the
	// given tracer in the solver sign convention (down = negative),
	// or ok=false if the tracer does not sink.
	DriftVelocity(t Tracer) (v *sparse.DenseArray, ok bool)

	// AdvectionScheme returns the advection scheme the transport
	// operator should use for the given tracer, or ok=false if the
	// tracer does not sink.
	AdvectionScheme(t Tracer) (s AdvectionScheme, ok bool)

	// UpdateState refreshes the mechanism's auxiliary fields (such as
	// PAR). It must complete before any rate evaluations in the same
	// time step.
	UpdateState(col *Column) error

	// Species returns the names of the tracers advanced by this
	// mechanism.
	Species() []string

	// Value returns the concentration value of the given variable in
	// the given Cell. It returns an error if given an invalid
	// variable name.
	Value(c *Cell, variable string) (float64, error)

	// Units returns the units of the given variable, or an error if
	// the variable name is invalid.
	Units(variable string) (string, error)

	// Len returns the number of tracers advanced by this mechanism.
	Len() int
}

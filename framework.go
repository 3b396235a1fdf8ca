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
	"sync"
)

// Cell holds the state of a single water-column grid cell.
type Cell struct {
	Z  float64 `desc:"Cell center height" units:"m"`
	Dz float64 `desc:"Cell height" units:"m"`

	Temperature float64 `desc:"Water temperature" units:"°C"`
	PAR         float64 `desc:"Photosynthetically available radiation" units:"W/m²"`
	Kz          float64 `desc:"Vertical tracer diffusivity" units:"m²/s"`

	Ci []float64 // concentrations at beginning of time step [mmol N/m³]
	Cf []float64 // concentrations at end of time step [mmol N/m³]

	Layer int     // vertical cell index; 0 is the bottom cell
	Time  float64 `desc:"Simulation time at start of step" units:"s"`

	above, below *Cell

	sync.RWMutex // Avoid a cell being written by one subroutine and read by another at the same time.
}

func (c *Cell) prepare() {
	c.Ci = make([]float64, nPrognostic)
	c.Cf = make([]float64, nPrognostic)
}

// Above returns the neighboring cell toward the surface, or nil for the
// topmost cell.
func (c *Cell) Above() *Cell { return c.above }

// Below returns the neighboring cell toward the domain floor, or nil
// for the bottom cell.
func (c *Cell) Below() *Cell { return c.below }

// localState assembles the kernel input from the cell's start-of-step
// state.
func (c *Cell) localState() LocalState {
	return LocalState{
		N:           c.Ci[TracerN],
		P:           c.Ci[TracerP],
		Z:           c.Ci[TracerZ],
		D:           c.Ci[TracerD],
		Temperature: c.Temperature,
		PAR:         c.PAR,
		Depth:       -c.Z,
		Time:        c.Time,
	}
}

// ColumnManipulator is a function that modifies a whole column, for
// example by initializing it or running one part of a time step.
type ColumnManipulator func(col *Column) error

// CellManipulator is a function that applies one science process to a
// single cell over time step Δt seconds.
type CellManipulator func(c *Cell, Δt float64)

// Column is a 1-D water-column simulation domain. InitFuncs are run
// once by Init; RunFuncs are run once per time step, in order, by Run
// until one of them sets Done. The per-step ordering is two-phase:
// auxiliary fields (PAR, forcing) must be refreshed by the leading
// RunFuncs before any rate evaluations later in the list.
type Column struct {
	Dt   float64 // time step [s]
	Time float64 // simulated time [s]
	Done bool

	InitFuncs []ColumnManipulator
	RunFuncs  []ColumnManipulator

	cells []*Cell
	faces []float64
}

// Cells returns the column cells ordered from the domain floor upward.
func (col *Column) Cells() []*Cell { return col.cells }

// Faces returns the vertical cell-face heights, ordered from the domain
// floor upward.
func (col *Column) Faces() []float64 { return col.faces }

// Init initializes the column.
func (col *Column) Init() error {
	for _, f := range col.InitFuncs {
		if err := f(col); err != nil {
			return err
		}
	}
	if len(col.cells) == 0 {
		return fmt.Errorf("npzd: column has no cells after initialization")
	}
	return nil
}

// Run advances the column in time until a RunFunc sets Done. At the
// start of each step the end-of-step concentrations of the previous
// step become the current concentrations.
func (col *Column) Run() error {
	for !col.Done {
		for _, c := range col.cells {
			copy(c.Ci, c.Cf)
			c.Time = col.Time
		}
		for _, f := range col.RunFuncs {
			if err := f(col); err != nil {
				return err
			}
		}
		col.Time += col.Dt
	}
	return nil
}

// InitialProfile gives the initial tracer concentrations and
// temperature at height z (z ≤ 0, zero at the surface).
type InitialProfile func(z float64) LocalState

// BuildColumn creates the column cells on grid g with initial
// conditions from profile.
func BuildColumn(g VerticalGrid, profile InitialProfile) ColumnManipulator {
	return func(col *Column) error {
		faces := g.Faces()
		if len(faces) < 2 {
			return fmt.Errorf("npzd: grid must have at least two vertical faces; got %d", len(faces))
		}
		col.faces = faces
		col.cells = make([]*Cell, len(faces)-1)
		for i := range col.cells {
			c := &Cell{
				Z:     (faces[i] + faces[i+1]) / 2,
				Dz:    faces[i+1] - faces[i],
				Layer: i,
			}
			c.prepare()
			s := profile(c.Z)
			c.Cf[TracerN] = s.N
			c.Cf[TracerP] = s.P
			c.Cf[TracerZ] = s.Z
			c.Cf[TracerD] = s.D
			c.Temperature = s.Temperature
			c.PAR = s.PAR
			copy(c.Ci, c.Cf)
			col.cells[i] = c
		}
		for i, c := range col.cells {
			if i > 0 {
				c.below = col.cells[i-1]
			}
			if i < len(col.cells)-1 {
				c.above = col.cells[i+1]
			}
		}
		return nil
	}
}

// SetDiffusivity sets a uniform vertical tracer diffusivity [m²/s].
func SetDiffusivity(kz float64) ColumnManipulator {
	return func(col *Column) error {
		if kz < 0 {
			return fmt.Errorf("npzd: diffusivity is %g but must be non-negative", kz)
		}
		for _, c := range col.cells {
			c.Kz = kz
		}
		return nil
	}
}

// SetTimestep sets a fixed time step in seconds.
func SetTimestep(Δt float64) ColumnManipulator {
	return func(col *Column) error {
		if Δt <= 0 {
			return fmt.Errorf("npzd: time step is %g but must be positive", Δt)
		}
		col.Dt = Δt
		return nil
	}
}

// SetTimestepCFL sets the time step using the Courant–Friedrichs–Lewy
// condition for sinking advection and the Von Neumann stability limit
// for vertical diffusion, whichever yields the smaller step.
func SetTimestepCFL(b Biogeochemistry) ColumnManipulator {
	const Cmax = 1.
	return func(col *Column) error {
		wMax := 0.
		for _, t := range []Tracer{TracerN, TracerP, TracerZ, TracerD} {
			v, ok := b.DriftVelocity(t)
			if !ok {
				continue
			}
			for _, w := range v.Elements {
				wMax = math.Max(wMax, math.Abs(w))
			}
		}
		dt := math.Inf(1)
		for _, c := range col.cells {
			if wMax > 0 {
				dt = math.Min(dt, Cmax*c.Dz/wMax)
			}
			if c.Kz > 0 {
				dt = math.Min(dt, Cmax*c.Dz*c.Dz/2./c.Kz)
			}
		}
		if math.IsInf(dt, 1) {
			return fmt.Errorf("npzd: cannot set CFL time step without sinking or diffusion; use SetTimestep instead")
		}
		col.Dt = dt
		return nil
	}
}

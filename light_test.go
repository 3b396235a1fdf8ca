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
	"math"
	"testing"
)

func lightColumn(t *testing.T, profile InitialProfile) *Column {
	col := &Column{
		InitFuncs: []ColumnManipulator{
			BuildColumn(ColumnGrid{Depth: 10, Levels: 2}, profile),
		},
	}
	if err := col.Init(); err != nil {
		t.Fatal(err)
	}
	return col
}

func TestExponentialLight(t *testing.T) {
	const testTolerance = 1.e-12

	col := lightColumn(t, func(z float64) LocalState {
		return LocalState{N: 10}
	})
	l := ExponentialLight{
		SurfacePAR: func(t float64) float64 { return 100 },
		KWater:     0.1,
	}
	if err := l.UpdatePAR(col); err != nil {
		t.Fatal(err)
	}
	cells := col.Cells()
	// dz = 5 m; cell centers sit half a cell below the light entering
	// from above.
	if want := 100 * math.Exp(-0.25); different(cells[1].PAR, want, testTolerance) {
		t.Errorf("surface cell PAR: have %v, want %v", cells[1].PAR, want)
	}
	if want := 100 * math.Exp(-0.75); different(cells[0].PAR, want, testTolerance) {
		t.Errorf("bottom cell PAR: have %v, want %v", cells[0].PAR, want)
	}
}

func TestExponentialLightSelfShading(t *testing.T) {
	const testTolerance = 1.e-12

	col := lightColumn(t, func(z float64) LocalState {
		if z > -5 {
			return LocalState{P: 2} // phytoplankton only in the surface cell
		}
		return LocalState{}
	})
	l := ExponentialLight{
		SurfacePAR: func(t float64) float64 { return 100 },
		KWater:     0.1,
		KPhyto:     0.05,
	}
	if err := l.UpdatePAR(col); err != nil {
		t.Fatal(err)
	}
	cells := col.Cells()
	// Surface cell: k = 0.1 + 0.05·2 = 0.2 m⁻¹.
	if want := 100 * math.Exp(-0.5); different(cells[1].PAR, want, testTolerance) {
		t.Errorf("surface cell PAR: have %v, want %v", cells[1].PAR, want)
	}
	// Bottom cell: shaded through the full surface cell, then clear
	// water to its own center.
	if want := 100 * math.Exp(-1.0) * math.Exp(-0.25); different(cells[0].PAR, want, testTolerance) {
		t.Errorf("bottom cell PAR: have %v, want %v", cells[0].PAR, want)
	}
}

func TestExponentialLightTimeDependence(t *testing.T) {
	col := lightColumn(t, func(z float64) LocalState { return LocalState{} })
	l := ExponentialLight{
		SurfacePAR: func(t float64) float64 { return t / 100 },
		KWater:     0.1,
	}
	col.Time = 5000
	if err := l.UpdatePAR(col); err != nil {
		t.Fatal(err)
	}
	if want := 50 * math.Exp(-0.25); col.Cells()[1].PAR != want {
		t.Errorf("have %v, want %v", col.Cells()[1].PAR, want)
	}
}

func TestBoxForcingNilFunctions(t *testing.T) {
	col := lightColumn(t, func(z float64) LocalState {
		return LocalState{PAR: 33, Temperature: 12}
	})
	f := BoxForcing{Temperature: func(t float64) float64 { return 18 }}
	if err := f.Apply()(col); err != nil {
		t.Fatal(err)
	}
	for _, c := range col.Cells() {
		if c.PAR != 33 {
			t.Errorf("PAR changed by nil forcing: have %v, want 33", c.PAR)
		}
		if c.Temperature != 18 {
			t.Errorf("Temperature: have %v, want 18", c.Temperature)
		}
	}
}

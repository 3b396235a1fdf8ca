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

func testProfile(z float64) LocalState {
	return LocalState{
		N: 10, P: 0.5, Z: 0.2, D: 1,
		Temperature: 15 + z/20, // warmer toward the surface
		PAR:         50,
	}
}

func testColumn(t *testing.T, m *Model, extraRun ...ColumnManipulator) *Column {
	grid := ColumnGrid{Depth: 50, Levels: 10}
	col := &Column{
		InitFuncs: []ColumnManipulator{
			BuildColumn(grid, testProfile),
			SetDiffusivity(1.e-4),
			SetTimestep(1800),
		},
		RunFuncs: append([]ColumnManipulator{
			m.StateUpdate(),
			Calculations(m.Sources(), m.Sinking(), VerticalMixing()),
		}, extraRun...),
	}
	if err := col.Init(); err != nil {
		t.Fatal(err)
	}
	return col
}

// With a tapered bottom boundary the column is closed: reactions,
// sinking, and mixing move nitrogen around but the depth-integrated
// total must not change.
func TestColumnMassConservation(t *testing.T) {
	const testTolerance = 1.e-10

	m, err := New(Config{
		Parameters: DefaultParameters(),
		Sinking: SinkingSpec{
			Speeds:     map[string]float64{"P": wP, "D": wD},
			Schemes:    map[string]string{"D": "upwind"},
			OpenBottom: true,
		},
		Grid: ColumnGrid{Depth: 50, Levels: 10},
	})
	if err != nil {
		t.Fatal(err)
	}
	col := testColumn(t, m, ConvergenceCheck(96)) // two simulated days

	before := col.TotalMass()
	if err := col.Run(); err != nil {
		t.Fatal(err)
	}
	// Mass is accounted at the start of a step; fold in the final Cf.
	for _, c := range col.Cells() {
		copy(c.Ci, c.Cf)
	}
	after := col.TotalMass()
	if different(before, after, testTolerance) {
		t.Errorf("mass not conserved: have %v, want %v", after, before)
	}
}

// Without the taper, sinking mass leaves through the domain floor.
// The budget must still close once the sediment deposit is counted.
func TestColumnSedimentBudget(t *testing.T) {
	const testTolerance = 1.e-8

	sed := &MassSediment{}
	m, err := New(Config{
		Parameters: DefaultParameters(),
		Sinking: SinkingSpec{
			Speeds:     map[string]float64{"P": wP, "D": wD},
			OpenBottom: false,
		},
		Grid:     ColumnGrid{Depth: 50, Levels: 10},
		Sediment: sed,
	})
	if err != nil {
		t.Fatal(err)
	}
	col := testColumn(t, m, ConvergenceCheck(96))

	before := col.TotalMass()
	if err := col.Run(); err != nil {
		t.Fatal(err)
	}
	for _, c := range col.Cells() {
		copy(c.Ci, c.Cf)
	}
	deposited := 0.
	for _, d := range sed.Deposited {
		deposited += d
	}
	if deposited <= 0 {
		t.Error("expected sinking deposition through the open floor, got none")
	}
	if after := col.TotalMass() + deposited; different(before, after, testTolerance) {
		t.Errorf("budget not closed: have %v, want %v", after, before)
	}
}

// A single well-mixed cell with time-only forcing: the box-model
// operating mode. Phytoplankton must bloom under constant light, and
// the nitrogen pool must stay closed.
func TestBoxModel(t *testing.T) {
	const testTolerance = 1.e-10

	m := testModel(t)
	forcing := BoxForcing{
		PAR:         func(t float64) float64 { return 100 },
		Temperature: func(t float64) float64 { return 20 },
	}
	col := &Column{
		InitFuncs: []ColumnManipulator{
			BuildColumn(ColumnGrid{Depth: 10, Levels: 1}, func(z float64) LocalState {
				return LocalState{N: 10, P: 0.1, Z: 0.05}
			}),
			SetTimestep(3600),
		},
		RunFuncs: []ColumnManipulator{
			forcing.Apply(),
			m.StateUpdate(),
			Calculations(m.Sources()),
			RunUntil(5 * secondsPerDay),
		},
	}
	if err := col.Init(); err != nil {
		t.Fatal(err)
	}
	before := col.TotalMass()
	if err := col.Run(); err != nil {
		t.Fatal(err)
	}

	c := col.Cells()[0]
	if c.PAR != 100 || c.Temperature != 20 {
		t.Errorf("forcing not applied: PAR=%v, T=%v", c.PAR, c.Temperature)
	}
	if c.Cf[TracerP] <= 0.1 {
		t.Errorf("phytoplankton did not grow: have %v, started at 0.1", c.Cf[TracerP])
	}
	if c.Cf[TracerN] >= 10 {
		t.Errorf("nutrient was not consumed: have %v, started at 10", c.Cf[TracerN])
	}
	copy(c.Ci, c.Cf)
	if after := col.TotalMass(); different(before, after, testTolerance) {
		t.Errorf("mass not conserved: have %v, want %v", after, before)
	}
}

func TestTracerPositivity(t *testing.T) {
	m := testModel(t)
	col := testColumn(t, m)
	c := col.Cells()[3]
	c.Cf[TracerP] = -0.25
	if err := TracerPositivity()(col); err != nil {
		t.Fatal(err)
	}
	if c.Cf[TracerP] != 0 {
		t.Errorf("have %v, want 0", c.Cf[TracerP])
	}
	if c.Cf[TracerN] != 10 {
		t.Errorf("positive concentration changed: have %v, want 10", c.Cf[TracerN])
	}
}

func TestSetTimestepCFL(t *testing.T) {
	const testTolerance = 1.e-12

	m, err := New(Config{
		Parameters: DefaultParameters(),
		Sinking:    SinkingSpec{Speeds: map[string]float64{"D": wD}},
		Grid:       ColumnGrid{Depth: 50, Levels: 10},
	})
	if err != nil {
		t.Fatal(err)
	}
	col := &Column{
		InitFuncs: []ColumnManipulator{
			BuildColumn(ColumnGrid{Depth: 50, Levels: 10}, testProfile),
			SetDiffusivity(1.e-4),
			SetTimestepCFL(m),
		},
	}
	if err := col.Init(); err != nil {
		t.Fatal(err)
	}
	// dz = 5 m; the advective limit dz/w and the diffusive limit
	// dz²/(2·Kz), whichever is smaller.
	want := math.Min(5/wD, 5*5/2./1.e-4)
	if different(col.Dt, want, testTolerance) {
		t.Errorf("Dt: have %v, want %v", col.Dt, want)
	}
}

// Without sinking or diffusion there is no stability limit to derive a
// step from; SetTimestepCFL must refuse rather than guess.
func TestSetTimestepCFLUnbounded(t *testing.T) {
	m := testModel(t)
	col := &Column{
		InitFuncs: []ColumnManipulator{
			BuildColumn(ColumnGrid{Depth: 50, Levels: 10}, testProfile),
			SetTimestepCFL(m),
		},
	}
	if err := col.Init(); err == nil {
		t.Error("expected error, got none")
	}
}

func TestConvergenceCheckIterations(t *testing.T) {
	m := testModel(t)
	col := testColumn(t, m, ConvergenceCheck(3))
	if err := col.Run(); err != nil {
		t.Fatal(err)
	}
	if want := 3 * col.Dt; col.Time != want {
		t.Errorf("time after 3 iterations: have %v, want %v", col.Time, want)
	}
}

func TestCalculationsVisitsEveryCell(t *testing.T) {
	m := testModel(t)
	col := testColumn(t, m)
	bump := Calculations(func(c *Cell, Δt float64) {
		c.Cf[TracerN] += 1
	})
	if err := bump(col); err != nil {
		t.Fatal(err)
	}
	for _, c := range col.Cells() {
		if c.Cf[TracerN] != 11 {
			t.Errorf("layer %d: have %v, want 11", c.Layer, c.Cf[TracerN])
		}
	}
}

// Mixing alone must redistribute but conserve mass, and must smooth the
// profile toward uniformity.
func TestVerticalMixing(t *testing.T) {
	const testTolerance = 1.e-10

	col := &Column{
		InitFuncs: []ColumnManipulator{
			BuildColumn(ColumnGrid{Depth: 20, Levels: 4}, func(z float64) LocalState {
				if z > -5 { // all tracer mass starts in the surface cell
					return LocalState{N: 8}
				}
				return LocalState{}
			}),
			SetDiffusivity(1.e-3),
			SetTimestep(1000),
		},
		RunFuncs: []ColumnManipulator{
			Calculations(VerticalMixing()),
			ConvergenceCheck(10),
		},
	}
	if err := col.Init(); err != nil {
		t.Fatal(err)
	}
	before := col.Mass(TracerN)
	if err := col.Run(); err != nil {
		t.Fatal(err)
	}
	for _, c := range col.Cells() {
		copy(c.Ci, c.Cf)
	}
	if after := col.Mass(TracerN); different(before, after, testTolerance) {
		t.Errorf("mass not conserved: have %v, want %v", after, before)
	}
	cells := col.Cells()
	if cells[0].Cf[TracerN] <= 0 {
		t.Error("mixing did not reach the bottom cell")
	}
	if cells[3].Cf[TracerN] <= cells[0].Cf[TracerN] {
		t.Error("gradient direction lost: surface should still hold more tracer")
	}
}

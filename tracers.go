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

// Tracer identifies one of the model state variables. The first four
// tracers are prognostic concentrations advanced by the host solver;
// Temperature is externally supplied and never advanced by this model.
type Tracer int

// The model tracers, in storage order.
const (
	TracerN Tracer = iota // dissolved inorganic nutrient
	TracerP               // phytoplankton
	TracerZ               // zooplankton
	TracerD               // detritus
	TracerTemperature
)

// nPrognostic is the number of tracers held in cell concentration arrays.
const nPrognostic = 4

// tracerNames are the accepted names of the model tracers, in storage order.
var tracerNames = []string{"N", "P", "Z", "D", "T"}

func (t Tracer) String() string {
	if t < TracerN || t > TracerTemperature {
		return fmt.Sprintf("Tracer(%d)", int(t))
	}
	return tracerNames[t]
}

// Prognostic reports whether t is advanced by the source terms of this
// model, as opposed to being externally supplied.
func (t Tracer) Prognostic() bool {
	return t >= TracerN && t <= TracerD
}

// ParseTracer converts a tracer name to a Tracer.
func ParseTracer(name string) (Tracer, error) {
	for i, n := range tracerNames {
		if n == name {
			return Tracer(i), nil
		}
	}
	return -1, fmt.Errorf("npzd: '%s' is not a valid tracer; valid options are N, P, Z, D, and T", name)
}

// TracerUnits gives the measurement units of each tracer.
func TracerUnits(t Tracer) string {
	if t == TracerTemperature {
		return "°C"
	}
	return "mmol N/m³"
}

// LocalState holds the local water-column state needed for one rate
// evaluation. It is constructed fresh by the caller for every
// evaluation; the kinetics read it and never hold on to it.
type LocalState struct {
	N float64 // nutrient concentration [mmol N/m³]
	P float64 // phytoplankton concentration [mmol N/m³]
	Z float64 // zooplankton concentration [mmol N/m³]
	D float64 // detritus concentration [mmol N/m³]

	Temperature float64 // [°C]
	PAR         float64 // photosynthetically available radiation [W/m²]

	// Position and time are passed through for interface uniformity.
	// The kinetics themselves do not use them.
	X, Y, Depth float64 // [m]
	Time        float64 // [s]
}

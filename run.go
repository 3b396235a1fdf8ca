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
	"io"
	"math"
	"runtime"
	"sync"
	"time"

	"gonum.org/v1/gonum/floats"
)

const secondsPerDay = 3600. * 24.

// Calculations returns a function that concurrently runs a series of
// calculations on all of the column cells. The cell science processes
// are independent between cells within a step, so the cells are
// partitioned among GOMAXPROCS workers.
func Calculations(calculators ...CellManipulator) ColumnManipulator {
	nprocs := runtime.GOMAXPROCS(0)
	var wg sync.WaitGroup

	return func(col *Column) error {
		cells := col.cells
		wg.Add(nprocs)
		for pp := 0; pp < nprocs; pp++ {
			go func(pp int) {
				for ii := pp; ii < len(cells); ii += nprocs {
					c := cells[ii]
					c.Lock()
					for _, f := range calculators {
						f(c, col.Dt)
					}
					c.Unlock()
				}
				wg.Done()
			}(pp)
		}
		wg.Wait()
		return nil
	}
}

// TracerPositivity clamps concentrations driven negative by numerical
// integration error back to zero. It stands in for the host solver's
// tracer-positivity scheme and must run after transport and diffusion,
// before the next round of rate evaluations.
func TracerPositivity() ColumnManipulator {
	return func(col *Column) error {
		for _, c := range col.cells {
			c.Lock()
			for ii, v := range c.Cf {
				if v < 0 {
					c.Cf[ii] = 0
				}
			}
			c.Unlock()
		}
		return nil
	}
}

// Mass returns the depth-integrated amount of tracer t at the start of
// the current step [mmol N/m²].
func (col *Column) Mass(t Tracer) float64 {
	m := make([]float64, len(col.cells))
	for i, c := range col.cells {
		c.RLock()
		m[i] = c.Ci[t] * c.Dz
		c.RUnlock()
	}
	return floats.Sum(m)
}

// TotalMass returns the depth-integrated nitrogen content over all four
// prognostic tracers [mmol N/m²].
func (col *Column) TotalMass() float64 {
	m := make([]float64, nPrognostic)
	for _, t := range []Tracer{TracerN, TracerP, TracerZ, TracerD} {
		m[t] = col.Mass(t)
	}
	return floats.Sum(m)
}

// RunUntil finishes the simulation when the given amount of simulated
// time, in seconds, has elapsed.
func RunUntil(seconds float64) ColumnManipulator {
	return func(col *Column) error {
		if col.Time+col.Dt >= seconds {
			col.Done = true
		}
		return nil
	}
}

// ConvergenceCheck finishes the simulation after numIterations steps,
// or, if numIterations < 1, when the depth-integrated mass of every
// tracer has changed by less than 0.5% since the last check.
func ConvergenceCheck(numIterations int) ColumnManipulator {
	const tolerance = 0.005
	const checkPeriod = secondsPerDay // seconds between convergence checks

	oldMass := make([]float64, nPrognostic)
	timeSinceLastCheck := 0.
	iteration := 0

	return func(col *Column) error {
		timeSinceLastCheck += col.Dt
		iteration++

		if numIterations > 0 {
			if iteration >= numIterations {
				col.Done = true
			}
		} else if timeSinceLastCheck >= checkPeriod {
			timeSinceLastCheck = 0
			converged := true
			for _, t := range []Tracer{TracerN, TracerP, TracerZ, TracerD} {
				mass := col.Mass(t)
				bias := (mass - oldMass[t]) / oldMass[t]
				if math.Abs(bias) > tolerance || math.IsInf(bias, 0) {
					converged = false
				}
				oldMass[t] = mass
			}
			if converged {
				col.Done = true
			}
		}
		return nil
	}
}

// Log writes simulation status messages to w.
func Log(w io.Writer) ColumnManipulator {
	startTime := time.Now()
	timeStepTime := time.Now()
	iteration := 0

	return func(col *Column) error {
		iteration++
		fmt.Fprintf(w, "Iteration %-4d  walltime=%6.3gh  Δwalltime=%4.2gs  "+
			"timestep=%2.0fs  day=%.3g\n",
			iteration, time.Since(startTime).Hours(),
			time.Since(timeStepTime).Seconds(), col.Dt,
			col.Time/secondsPerDay)
		timeStepTime = time.Now()
		return nil
	}
}

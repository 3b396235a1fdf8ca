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

// Package npzd implements the source and sink terms and the sinking
// transport configuration of a Nutrient-Phytoplankton-Zooplankton-
// Detritus ocean ecosystem model, together with a reference
// water-column host that exercises them.
package npzd

import (
	"fmt"
	"math"

	"github.com/ctessum/sparse"
)

// Config assembles everything needed to create a Model. Parameters and
// Sinking are validated at construction; the collaborator slots may be
// left nil, in which case no-op defaults are used.
type Config struct {
	Parameters Parameters
	Sinking    SinkingSpec
	Grid       VerticalGrid // required when sinking speeds are configured

	Light     LightModel
	Sediment  Sediment
	Particles ParticleModel
}

// Model is the NPZD biogeochemistry mechanism. It owns its parameters
// and sinking configuration and holds references to the light,
// sediment, and particle collaborators. It satisfies the
// Biogeochemistry interface.
type Model struct {
	params  Parameters
	sinking map[Tracer]*SinkingEntry

	light     LightModel
	sediment  Sediment
	particles ParticleModel
}

// New creates a Model from cfg. Construction fails fast: an invalid
// parameter or sinking configuration returns an error and no partial
// model.
func New(cfg Config) (*Model, error) {
	if err := cfg.Parameters.Check(); err != nil {
		return nil, err
	}
	var sinking map[Tracer]*SinkingEntry
	if len(cfg.Sinking.Speeds) > 0 {
		if cfg.Grid == nil {
			return nil, fmt.Errorf("npzd: sinking speeds are configured but no vertical grid is given")
		}
		var err error
		sinking, err = buildSinking(cfg.Sinking, cfg.Grid)
		if err != nil {
			return nil, err
		}
	}
	m := &Model{
		params:    cfg.Parameters,
		sinking:   sinking,
		light:     cfg.Light,
		sediment:  cfg.Sediment,
		particles: cfg.Particles,
	}
	if m.light == nil {
		m.light = NoLight{}
	}
	if m.sediment == nil {
		m.sediment = NoSediment{}
	}
	if m.particles == nil {
		m.particles = NoParticles{}
	}
	return m, nil
}

// Parameters returns a copy of the model's rate constants.
func (m *Model) Parameters() Parameters { return m.params }

// DriftVelocity returns the configured face-valued sinking velocity for
// tracer t (down = negative), or ok=false for non-sinking tracers.
func (m *Model) DriftVelocity(t Tracer) (*sparse.DenseArray, bool) {
	e, ok := m.sinking[t]
	if !ok {
		return nil, false
	}
	return e.Velocity, true
}

// AdvectionScheme returns the advection scheme configured for tracer t,
// or ok=false for non-sinking tracers.
func (m *Model) AdvectionScheme(t Tracer) (AdvectionScheme, bool) {
	e, ok := m.sinking[t]
	if !ok {
		return 0, false
	}
	return e.Scheme, true
}

// UpdateState refreshes the auxiliary state for the next round of rate
// evaluations: it recomputes PAR through the light collaborator and
// steps the particle collaborator. It is the one ordered side effect of
// the model and must complete before any Rate or Sources evaluation in
// the same time step.
func (m *Model) UpdateState(col *Column) error {
	if err := m.light.UpdatePAR(col); err != nil {
		return fmt.Errorf("npzd: updating PAR: %v", err)
	}
	if err := m.particles.Update(col); err != nil {
		return fmt.Errorf("npzd: updating particles: %v", err)
	}
	return nil
}

// StateUpdate wraps UpdateState as a column manipulator for the
// auxiliary-field phase of the host's step loop.
func (m *Model) StateUpdate() ColumnManipulator {
	return func(col *Column) error { return m.UpdateState(col) }
}

// Species returns the names of the tracers advanced by this mechanism.
func (m *Model) Species() []string {
	return []string{"N", "P", "Z", "D"}
}

// Len returns the number of tracers advanced by this mechanism (4).
func (m *Model) Len() int { return nPrognostic }

// Value returns the concentration of the given variable in the given
// Cell. In addition to the tracer names, "TotalN" gives the summed
// nitrogen content of all four tracers.
func (m *Model) Value(c *Cell, variable string) (float64, error) {
	if variable == "TotalN" {
		var v float64
		for _, cc := range c.Cf {
			v += cc
		}
		return v, nil
	}
	t, err := ParseTracer(variable)
	if err != nil {
		return math.NaN(), err
	}
	if t == TracerTemperature {
		return c.Temperature, nil
	}
	return c.Cf[t], nil
}

// Units returns the units of the given variable, or an error if the
// variable name is invalid.
func (m *Model) Units(variable string) (string, error) {
	if variable == "TotalN" {
		return "mmol N/m³", nil
	}
	t, err := ParseTracer(variable)
	if err != nil {
		return "", err
	}
	return TracerUnits(t), nil
}

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

package npzdutil

import (
	"fmt"
	"os"
	"strings"

	"github.com/BurntSushi/toml"
	"github.com/ctessum/unit"
	"github.com/spf13/cast"

	"github.com/oceanmodel/npzd"
)

// secPerDay is used to convert the customary per-day rates and m/day
// speeds of the configuration file to the SI units the model uses.
var secPerDay = unit.New(86400., unit.Second)

// Config specifies a column or box simulation. Rates and sinking speeds
// in the file are given in their customary per-day units and are
// converted to SI when the model is built.
type Config struct {
	// OutputFile is the path the final tracer profiles are written to
	// in CSV format. It can include environment variables.
	OutputFile string

	// Days is the simulated duration.
	Days float64

	// Dt is the time step in seconds. If zero, the time step is set
	// from the CFL condition.
	Dt float64

	// Kz is the uniform vertical tracer diffusivity [m²/s].
	Kz float64

	// Box, if true, runs a single well-mixed cell with the surface
	// forcing applied directly, instead of a resolved column.
	Box bool

	Grid struct {
		Depth  float64 // [m]
		Levels int
	}

	// Parameters holds per-day overrides of the default rate
	// constants, keyed by parameter field name.
	Parameters map[string]float64

	Sinking struct {
		Speeds     map[string]float64 // [m/day], positive downward
		Schemes    map[string]string
		OpenBottom bool
	}

	Light struct {
		SurfacePAR float64 // noon clear-sky surface PAR [W/m²]
		KWater     float64 // [1/m]
		KPhyto     float64 // [m²/mmol N]
		Diel       bool    // sinusoidal daylight cycle instead of constant light
	}

	Initial struct {
		N, P, Z, D  float64 // [mmol N/m³]
		Temperature float64 // [°C]
	}
}

// DefaultConfig returns a runnable configuration: a 200 m column with
// 50 levels, the published kinetic constants, and the customary P and D
// sinking speeds with a tapered bottom boundary.
func DefaultConfig() *Config {
	c := new(Config)
	c.OutputFile = "npzd_output.csv"
	c.Days = 365
	c.Kz = 1.e-4
	c.Grid.Depth = 200
	c.Grid.Levels = 50
	c.Sinking.Speeds = map[string]float64{"P": 0.2551, "D": 2.7489}
	c.Sinking.OpenBottom = true
	c.Light.SurfacePAR = 700
	c.Light.KWater = 0.1
	c.Light.KPhyto = 0.02
	c.Light.Diel = true
	c.Initial.N = 10
	c.Initial.P = 0.1
	c.Initial.Z = 0.05
	c.Initial.D = 0
	c.Initial.Temperature = 15
	return c
}

// LoadConfig reads a TOML configuration file, applying defaults for
// anything the file leaves unset.
func LoadConfig(filename string) (*Config, error) {
	c := DefaultConfig()
	if _, err := toml.DecodeFile(os.ExpandEnv(filename), c); err != nil {
		return nil, fmt.Errorf("npzdutil: reading configuration file %s: %v", filename, err)
	}
	if c.Days <= 0 {
		return nil, fmt.Errorf("npzdutil: simulation duration is %g days but must be positive", c.Days)
	}
	if c.Grid.Depth <= 0 || c.Grid.Levels < 1 {
		return nil, fmt.Errorf("npzdutil: grid must have positive depth and at least one level; got %g m, %d levels",
			c.Grid.Depth, c.Grid.Levels)
	}
	return c, nil
}

// Set applies "name=value" parameter overrides, with values in per-day
// units, as given on the command line.
func (c *Config) Set(overrides []string) error {
	for _, o := range overrides {
		kv := strings.SplitN(o, "=", 2)
		if len(kv) != 2 {
			return fmt.Errorf("npzdutil: parameter override '%s' is not in name=value form", o)
		}
		v, err := cast.ToFloat64E(kv[1])
		if err != nil {
			return fmt.Errorf("npzdutil: parameter override '%s': %v", o, err)
		}
		if c.Parameters == nil {
			c.Parameters = make(map[string]float64)
		}
		c.Parameters[kv[0]] = v
	}
	return nil
}

// perDay converts a per-day rate constant to per-second.
func perDay(v float64) float64 {
	return unit.Div(unit.New(v, unit.Dimless), secPerDay).Value()
}

// metersPerDay converts a m/day speed to m/s.
func metersPerDay(v float64) float64 {
	return unit.Div(unit.New(v, unit.Meter), secPerDay).Value()
}

// parameters builds the model rate constants from the defaults and the
// configured per-day overrides.
func (c *Config) parameters() (npzd.Parameters, error) {
	p := npzd.DefaultParameters()
	for name, v := range c.Parameters {
		switch name {
		case "PhotosyntheticSlope":
			p.PhotosyntheticSlope = perDay(v)
		case "MaxGrowthRate":
			p.MaxGrowthRate = perDay(v)
		case "NutrientHalfSaturation":
			p.NutrientHalfSaturation = v
		case "PhytoMetabolicLoss":
			p.PhytoMetabolicLoss = perDay(v)
		case "PhytoMortality":
			p.PhytoMortality = perDay(v)
		case "MaxGrazingRate":
			p.MaxGrazingRate = perDay(v)
		case "GrazingHalfSaturation":
			p.GrazingHalfSaturation = v
		case "AssimilationEfficiency":
			p.AssimilationEfficiency = v
		case "ZooMetabolicLoss":
			p.ZooMetabolicLoss = perDay(v)
		case "ZooMortality":
			p.ZooMortality = perDay(v)
		case "Remineralization":
			p.Remineralization = perDay(v)
		default:
			return p, fmt.Errorf("npzdutil: '%s' is not a valid parameter name", name)
		}
	}
	return p, nil
}

// sinking converts the configured m/day sinking speeds to the SI
// configuration the model consumes.
func (c *Config) sinking() npzd.SinkingSpec {
	spec := npzd.SinkingSpec{
		Schemes:    c.Sinking.Schemes,
		OpenBottom: c.Sinking.OpenBottom,
	}
	if len(c.Sinking.Speeds) > 0 {
		spec.Speeds = make(map[string]float64, len(c.Sinking.Speeds))
		for name, v := range c.Sinking.Speeds {
			spec.Speeds[name] = metersPerDay(v)
		}
	}
	return spec
}

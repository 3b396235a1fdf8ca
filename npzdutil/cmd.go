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

// Package npzdutil wires the NPZD model into a command-line simulation
// driver.
package npzdutil

import (
	"encoding/csv"
	"fmt"
	"math"
	"os"
	"strconv"

	"github.com/GaryBoone/GoStats/stats"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/oceanmodel/npzd"
)

var logger = logrus.StandardLogger()

var (
	configFile string
	overrides  []string
	quiet      bool
)

// Root is the main command.
var Root = &cobra.Command{
	Use:   "npzd",
	Short: "NPZD is an ocean nutrient-phytoplankton-zooplankton-detritus ecosystem model.",
}

var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Run a water-column or box simulation.",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg := DefaultConfig()
		if configFile != "" {
			var err error
			cfg, err = LoadConfig(configFile)
			if err != nil {
				return err
			}
		}
		if err := cfg.Set(overrides); err != nil {
			return err
		}
		return Run(cfg)
	},
}

func init() {
	runCmd.PersistentFlags().StringVar(&configFile, "config", "",
		"Path to the TOML configuration file. If empty, default settings are used.")
	runCmd.PersistentFlags().StringArrayVar(&overrides, "set", nil,
		"Override a rate constant, e.g. --set MaxGrowthRate=0.6989 (per-day units).")
	runCmd.PersistentFlags().BoolVar(&quiet, "quiet", false,
		"Suppress per-step progress output.")
	Root.AddCommand(runCmd)
}

// Run executes the simulation described by cfg and writes the final
// tracer profiles to cfg.OutputFile.
func Run(cfg *Config) error {
	params, err := cfg.parameters()
	if err != nil {
		return err
	}

	grid := npzd.ColumnGrid{Depth: cfg.Grid.Depth, Levels: cfg.Grid.Levels}
	if cfg.Box {
		grid.Levels = 1
	}

	surfacePAR := func(t float64) float64 {
		if !cfg.Light.Diel {
			return cfg.Light.SurfacePAR
		}
		// Truncated sinusoid: 12 h of light followed by 12 h of dark.
		return cfg.Light.SurfacePAR * math.Max(0, math.Sin(2*math.Pi*t/86400.))
	}

	mcfg := npzd.Config{
		Parameters: params,
		Sinking:    cfg.sinking(),
		Grid:       grid,
		Sediment:   &npzd.MassSediment{},
	}
	if cfg.Box {
		mcfg.Light = npzd.NoLight{}
	} else {
		mcfg.Light = npzd.ExponentialLight{
			SurfacePAR: surfacePAR,
			KWater:     cfg.Light.KWater,
			KPhyto:     cfg.Light.KPhyto,
		}
	}
	m, err := npzd.New(mcfg)
	if err != nil {
		return err
	}

	timestep := npzd.SetTimestepCFL(m)
	if cfg.Dt > 0 {
		timestep = npzd.SetTimestep(cfg.Dt)
	}

	col := &npzd.Column{
		InitFuncs: []npzd.ColumnManipulator{
			npzd.BuildColumn(grid, func(z float64) npzd.LocalState {
				return npzd.LocalState{
					N: cfg.Initial.N, P: cfg.Initial.P,
					Z: cfg.Initial.Z, D: cfg.Initial.D,
					Temperature: cfg.Initial.Temperature,
				}
			}),
			npzd.SetDiffusivity(cfg.Kz),
			timestep,
		},
		RunFuncs: []npzd.ColumnManipulator{
			m.StateUpdate(),
			npzd.Calculations(m.Sources(), m.Sinking(), npzd.VerticalMixing()),
			npzd.TracerPositivity(),
			npzd.RunUntil(cfg.Days * 86400.),
		},
	}
	if cfg.Box {
		forcing := npzd.BoxForcing{
			PAR:         surfacePAR,
			Temperature: func(t float64) float64 { return cfg.Initial.Temperature },
		}
		col.RunFuncs = append([]npzd.ColumnManipulator{forcing.Apply()}, col.RunFuncs...)
	}
	if !quiet {
		col.RunFuncs = append(col.RunFuncs, npzd.Log(logger.Writer()))
	}

	logger.Info("Initializing column...")
	if err := col.Init(); err != nil {
		return err
	}
	massBefore := col.TotalMass()

	logger.WithFields(logrus.Fields{
		"days": cfg.Days, "dt": col.Dt, "levels": grid.Levels,
	}).Info("Running simulation...")
	if err := col.Run(); err != nil {
		return err
	}

	deposited := 0.
	if s, ok := mcfg.Sediment.(*npzd.MassSediment); ok {
		for _, d := range s.Deposited {
			deposited += d
		}
	}
	logger.WithFields(logrus.Fields{
		"initial":   massBefore,
		"final":     col.TotalMass(),
		"deposited": deposited,
	}).Info("Nitrogen budget [mmol N/m²]")

	printSummary(col, m)

	if err := writeProfiles(col, m, cfg.OutputFile); err != nil {
		return err
	}
	logger.WithField("file", cfg.OutputFile).Info("Wrote tracer profiles.")
	return nil
}

// printSummary logs per-tracer summary statistics over the column.
func printSummary(col *npzd.Column, m *npzd.Model) {
	for _, name := range m.Species() {
		vals := make([]float64, 0, len(col.Cells()))
		for _, c := range col.Cells() {
			v, err := m.Value(c, name)
			if err != nil {
				logger.Error(err)
				return
			}
			vals = append(vals, v)
		}
		units, _ := m.Units(name)
		logger.WithFields(logrus.Fields{
			"mean":  fmt.Sprintf("%.4g", stats.StatsMean(vals)),
			"min":   fmt.Sprintf("%.4g", stats.StatsMin(vals)),
			"max":   fmt.Sprintf("%.4g", stats.StatsMax(vals)),
			"units": units,
		}).Infof("Tracer %s", name)
	}
}

// writeProfiles writes the final tracer profiles to a CSV file, one row
// per cell from the surface downward.
func writeProfiles(col *npzd.Column, m *npzd.Model, filename string) error {
	f, err := os.Create(os.ExpandEnv(filename))
	if err != nil {
		return fmt.Errorf("npzdutil: creating output file: %v", err)
	}
	defer f.Close()

	w := csv.NewWriter(f)
	header := append([]string{"z", "Temperature", "PAR"}, m.Species()...)
	if err := w.Write(header); err != nil {
		return err
	}
	cells := col.Cells()
	for i := len(cells) - 1; i >= 0; i-- {
		c := cells[i]
		row := []string{
			strconv.FormatFloat(c.Z, 'g', -1, 64),
			strconv.FormatFloat(c.Temperature, 'g', -1, 64),
			strconv.FormatFloat(c.PAR, 'g', -1, 64),
		}
		for _, name := range m.Species() {
			v, err := m.Value(c, name)
			if err != nil {
				return err
			}
			row = append(row, strconv.FormatFloat(v, 'g', -1, 64))
		}
		if err := w.Write(row); err != nil {
			return err
		}
	}
	w.Flush()
	return w.Error()
}

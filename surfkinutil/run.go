/*
Copyright © 2018 the surfkin authors.
This file is part of surfkin.

surfkin is free software: you can redistribute it and/or modify
it under the terms of the GNU General Public License as published by
the Free Software Foundation, either version 3 of the License, or
(at your option) any later version.

surfkin is distributed in the hope that it will be useful,
but WITHOUT ANY WARRANTY; without even the implied warranty of
MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.  See the
GNU General Public License for more details.

You should have received a copy of the GNU General Public License
along with surfkin.  If not, see <http://www.gnu.org/licenses/>.
*/

package surfkinutil

import (
	"fmt"
	"io"
	"os"
	"sort"

	"github.com/gosuri/uitable"
	"github.com/lnashier/viper"
	"github.com/sirupsen/logrus"
	"github.com/spatialmodel/surfkin/mechanism"
	"github.com/spf13/cast"
)

// Load reads the mechanism file named in cfg, builds it and applies the
// state overrides in cfg: temperature, pressure, electric potentials,
// phase existence and stability, and integrator settings.
func Load(cfg *viper.Viper) (*mechanism.Mechanism, error) {
	path := os.ExpandEnv(cfg.GetString("mechanism"))
	if path == "" {
		return nil, fmt.Errorf("surfkin: a mechanism file must be specified")
	}
	f, err := mechanism.Open(path)
	if err != nil {
		return nil, err
	}
	log := logrus.WithField("mechanism", path)
	m, err := f.Build(log)
	if err != nil {
		return nil, err
	}
	m.Log = log

	if t := cfg.GetFloat64("Temperature"); t > 0 {
		if err := m.SetTemperature(t); err != nil {
			return nil, err
		}
	}
	if p := cfg.GetFloat64("Pressure"); p > 0 {
		if err := m.SetPressure(p); err != nil {
			return nil, err
		}
	}

	potentials, err := GetStringMapString("Potentials", cfg)
	if err != nil {
		return nil, err
	}
	for _, name := range sortedKeys(potentials) {
		v, err := cast.ToFloat64E(potentials[name])
		if err != nil {
			return nil, fmt.Errorf("surfkin: potential of phase %s: %v", name, err)
		}
		if err := m.SetPotential(name, v); err != nil {
			return nil, err
		}
	}

	if err := setPhaseFlags(m, cfg, "Existence", m.SetPhaseExistence); err != nil {
		return nil, err
	}
	if err := setPhaseFlags(m, cfg, "Stability", m.SetPhaseStability); err != nil {
		return nil, err
	}

	if cfg.IsSet("MaxSteps") {
		m.Integration.MaxStepCount = cfg.GetInt("MaxSteps")
	}
	if cfg.IsSet("RelativeTolerance") {
		m.Integration.RelativeTolerance = cfg.GetFloat64("RelativeTolerance")
	}
	if cfg.IsSet("AbsoluteTolerance") {
		m.Integration.AbsoluteTolerance = cfg.GetFloat64("AbsoluteTolerance")
	}
	return m, nil
}

func setPhaseFlags(m *mechanism.Mechanism, cfg *viper.Viper, varName string, set func(n int, v bool) error) error {
	flags, err := GetStringMapString(varName, cfg)
	if err != nil {
		return err
	}
	for _, name := range sortedKeys(flags) {
		v, err := cast.ToBoolE(flags[name])
		if err != nil {
			return fmt.Errorf("surfkin: %s of phase %s: %v", varName, name, err)
		}
		n := phaseIndex(m, name)
		if n < 0 {
			return fmt.Errorf("surfkin: %s: no phase named '%s'", varName, name)
		}
		if err := set(n, v); err != nil {
			return err
		}
	}
	return nil
}

func phaseIndex(m *mechanism.Mechanism, name string) int {
	for n := 0; n < m.NPhases(); n++ {
		if m.Phase(n).Name() == name {
			return n
		}
	}
	return -1
}

func sortedKeys(m map[string]string) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

func newTable(cols ...interface{}) *uitable.Table {
	table := uitable.New()
	table.MaxColWidth = 50
	table.Wrap = true
	for i := 1; i < len(cols); i++ {
		table.RightAlign(i)
	}
	table.AddRow(cols...)
	return table
}

func g(v float64) string { return fmt.Sprintf("%.6g", v) }

// Rates writes the rate constants and rates of progress of every reaction
// in m, followed by the production rates of every species, to w.
func Rates(w io.Writer, m *mechanism.Mechanism) error {
	nr := m.NReactions()
	kf := make([]float64, nr)
	kr := make([]float64, nr)
	ropf := make([]float64, nr)
	ropr := make([]float64, nr)
	ropnet := make([]float64, nr)
	if err := m.FwdRateConstants(kf); err != nil {
		return err
	}
	if err := m.RevRateConstants(kr, false); err != nil {
		return err
	}
	if err := m.FwdRatesOfProgress(ropf); err != nil {
		return err
	}
	if err := m.RevRatesOfProgress(ropr); err != nil {
		return err
	}
	if err := m.NetRatesOfProgress(ropnet); err != nil {
		return err
	}
	table := newTable("REACTION", "KF", "KR", "ROPF", "ROPR", "ROPNET")
	for i := 0; i < nr; i++ {
		table.AddRow(m.Reaction(i).Equation, g(kf[i]), g(kr[i]), g(ropf[i]), g(ropr[i]), g(ropnet[i]))
	}
	fmt.Fprintln(w, table)
	fmt.Fprintln(w)

	ns := m.NSpecies()
	cdot := make([]float64, ns)
	ddot := make([]float64, ns)
	wdot := make([]float64, ns)
	if err := m.CreationRates(cdot); err != nil {
		return err
	}
	if err := m.DestructionRates(ddot); err != nil {
		return err
	}
	if err := m.NetProductionRates(wdot); err != nil {
		return err
	}
	table = newTable("SPECIES", "PHASE", "CREATION", "DESTRUCTION", "NET")
	for k := 0; k < ns; k++ {
		phase := m.Phase(m.SpeciesPhaseIndex(k)).Name()
		table.AddRow(m.KineticsSpeciesName(k), phase, g(cdot[k]), g(ddot[k]), g(wdot[k]))
	}
	fmt.Fprintln(w, table)
	return nil
}

// Advance integrates the surface coverages of m over dt seconds and
// writes the new coverages to w.
func Advance(w io.Writer, m *mechanism.Mechanism, dt float64) error {
	if err := m.AdvanceCoverages(dt); err != nil {
		return err
	}
	fmt.Fprintf(w, "coverages after %g s\n", dt)
	return coverages(w, m)
}

// Steady finds the pseudo-steady-state surface coverages of m and
// writes them to w along with the integrator statistics.
func Steady(w io.Writer, m *mechanism.Mechanism, maxTime float64) error {
	stats, err := m.SolvePseudoSteadyState(maxTime)
	if err != nil {
		return err
	}
	fmt.Fprintf(w, "steady state reached at t = %g s after %d steps (%d rejected, %d Jacobians)\n",
		stats.CurrentTime, stats.StepCount, stats.RejectedCount, stats.JacobianCount)
	return coverages(w, m)
}

func coverages(w io.Writer, m *mechanism.Mechanism) error {
	theta := make([]float64, m.Surface.NSpecies())
	m.Surface.Coverages(theta)

	ns := m.NSpecies()
	wdot := make([]float64, ns)
	if err := m.NetProductionRates(wdot); err != nil {
		return err
	}
	start := m.PhaseStart(m.ReactionPhaseIndex())
	table := newTable("SPECIES", "COVERAGE", "NET")
	for k, th := range theta {
		table.AddRow(m.Surface.SpeciesName(k), g(th), g(wdot[start+k]))
	}
	fmt.Fprintln(w, table)
	return nil
}

// Equil writes the equilibrium constant, the standard-state Gibbs
// energy change and the distance from equilibrium of every reaction in
// m to w.
func Equil(w io.Writer, m *mechanism.Mechanism) error {
	nr := m.NReactions()
	kc := make([]float64, nr)
	dg0 := make([]float64, nr)
	dmuRT := make([]float64, nr)
	ropf := make([]float64, nr)
	ropnet := make([]float64, nr)
	if err := m.EquilibriumConstants(kc); err != nil {
		return err
	}
	if err := m.DeltaSSGibbs(dg0); err != nil {
		return err
	}
	if err := m.CheckPartialEquilibrium(dmuRT); err != nil {
		return err
	}
	if err := m.FwdRatesOfProgress(ropf); err != nil {
		return err
	}
	if err := m.NetRatesOfProgress(ropnet); err != nil {
		return err
	}
	table := newTable("REACTION", "KC", "DG0", "DMU/RT", "NET/FWD")
	for i := 0; i < nr; i++ {
		ratio := "-"
		if ropf[i] != 0 {
			ratio = g(ropnet[i] / ropf[i])
		}
		table.AddRow(m.Reaction(i).Equation, g(kc[i]), g(dg0[i]), g(dmuRT[i]), ratio)
	}
	fmt.Fprintln(w, table)
	return nil
}

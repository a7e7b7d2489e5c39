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

package mechanism

import (
	"fmt"
	"sort"
	"strings"

	"github.com/sirupsen/logrus"
	"github.com/spatialmodel/surfkin"
	"github.com/spatialmodel/surfkin/science/thermo"
	"github.com/spatialmodel/surfkin/science/thermo/idealphase"
)

// Mechanism holds the phases built from a File and the finalized kinetics
// that couples them.
type Mechanism struct {
	*surfkin.Kinetics

	// Phases are in file order.
	Phases []surfkin.Phase

	// Surface is the reaction phase.
	Surface *idealphase.Surface
}

// Build creates the phases and reactions described by f and finalizes
// the kinetics. Messages about skipped reactions go to log, which may be
// nil.
func (f *File) Build(log logrus.FieldLogger) (*Mechanism, error) {
	if log == nil {
		log = logrus.StandardLogger()
	}
	m := new(Mechanism)
	for i, ps := range f.Phase {
		p, err := ps.build()
		if err != nil {
			return nil, fmt.Errorf("mechanism: phase %d (%s): %v", i, ps.Name, err)
		}
		m.Phases = append(m.Phases, p)
	}

	var err error
	switch strings.ToLower(f.Kind) {
	case "", "interface":
		m.Kinetics, err = surfkin.NewInterface(m.Phases...)
	case "edge":
		m.Kinetics, err = surfkin.NewEdge(m.Phases...)
	default:
		return nil, fmt.Errorf("mechanism: invalid kinetics kind '%s'", f.Kind)
	}
	if err != nil {
		return nil, err
	}
	m.Log = log
	m.SkipUndeclaredSpecies = f.SkipUndeclaredSpecies

	seen := make(map[string]int)
	for i, rs := range f.Reaction {
		r, err := rs.reaction(m.Phases)
		if err != nil {
			return nil, fmt.Errorf("mechanism: reaction %d (%s): %v", i, rs.Equation, err)
		}
		key := stoichKey(r)
		if j, ok := seen[key]; ok && !(rs.Duplicate && f.Reaction[j].Duplicate) {
			return nil, fmt.Errorf("mechanism: reactions %d and %d are undeclared duplicates: %s", j, i, rs.Equation)
		}
		seen[key] = i
		added, err := m.AddReaction(r)
		if err != nil {
			return nil, err
		}
		if !added {
			log.WithField("reaction", rs.Equation).Info("mechanism: skipping reaction with undeclared species")
		}
	}
	if err := m.Finalize(); err != nil {
		return nil, err
	}
	m.Surface, _ = m.Phase(m.ReactionPhaseIndex()).(*idealphase.Surface)
	return m, nil
}

func (ps PhaseSpec) build() (surfkin.Phase, error) {
	t, p := ps.Temperature, ps.Pressure
	if t == 0 {
		t = 298.15
	}
	if p == 0 {
		p = thermo.OneAtm
	}
	var (
		out surfkin.Phase
		err error
	)
	switch strings.ToLower(ps.Model) {
	case "gas", "ideal-gas":
		var g *idealphase.Gas
		if g, err = idealphase.NewGas(ps.Name, ps.Species); err != nil {
			return nil, err
		}
		if err = g.SetState(t, p); err != nil {
			return nil, err
		}
		out = g
	case "surface", "edge":
		var s *idealphase.Surface
		if strings.ToLower(ps.Model) == "edge" {
			s, err = idealphase.NewEdge(ps.Name, ps.Species, ps.SiteDensity)
		} else {
			s, err = idealphase.NewSurface(ps.Name, ps.Species, ps.SiteDensity)
		}
		if err != nil {
			return nil, err
		}
		if err = s.SetTemperature(t); err != nil {
			return nil, err
		}
		out = s
	case "bulk", "metal":
		var b *idealphase.Bulk
		if b, err = idealphase.NewBulk(ps.Name, ps.Species, ps.MolarDensity); err != nil {
			return nil, err
		}
		if err = b.SetState(t, p); err != nil {
			return nil, err
		}
		out = b
	default:
		return nil, fmt.Errorf("invalid phase model '%s'", ps.Model)
	}
	if len(ps.Composition) > 0 {
		if err := out.(composer).SetComposition(ps.Composition); err != nil {
			return nil, err
		}
	}
	out.SetElectricPotential(ps.Potential)
	return out, nil
}

type composer interface {
	SetComposition(map[string]float64) error
}

// reaction converts rs into a reaction on the given phases.
func (rs ReactionSpec) reaction(phases []surfkin.Phase) (*surfkin.Reaction, error) {
	reac, prod, rev, err := parseEquation(rs.Equation)
	if err != nil {
		return nil, err
	}
	kind, err := surfkin.ParseKind(rs.Kind)
	if err != nil {
		return nil, err
	}
	ea, err := energy(rs.Ea)
	if err != nil {
		return nil, err
	}
	r := &surfkin.Reaction{
		Equation:        strings.Join(strings.Fields(rs.Equation), " "),
		Reactants:       reac,
		Products:        prod,
		Orders:          rs.Orders,
		Reversible:      rev,
		Kind:            kind,
		Rate:            surfkin.Arrhenius{A: rs.A, B: rs.B, Ea: ea},
		StickingSpecies: rs.StickingSpecies,
		MotzWise:        rs.MotzWise,
	}
	for _, c := range rs.CoverageDependence {
		e, err := energy(c.E)
		if err != nil {
			return nil, fmt.Errorf("coverage dependence on %s: %v", c.Species, err)
		}
		r.CoverageDeps = append(r.CoverageDeps, surfkin.CoverageDependency{
			Species: c.Species, A: c.A, M: c.M, E: e,
		})
	}
	if rs.Beta != 0 || rs.ExchangeCurrentDensity || rs.FilmResistivity != 0 || r.IsElectrochemical() ||
		chargeTransfer(r, phases) {
		beta := rs.Beta
		if beta == 0 {
			beta = surfkin.DefaultBeta
		}
		r.Electrochem = &surfkin.Electrochemistry{
			Beta:                   beta,
			ExchangeCurrentDensity: rs.ExchangeCurrentDensity,
			FilmResistivity:        rs.FilmResistivity,
		}
	}
	return r, nil
}

// chargeTransfer reports whether r moves charge from one phase to
// another. Species are looked up in the first phase that contains them;
// undeclared species are ignored.
func chargeTransfer(r *surfkin.Reaction, phases []surfkin.Phase) bool {
	transfer := make([]float64, len(phases))
	add := func(ps []surfkin.Participant, sign float64) {
		for _, p := range ps {
			for n, ph := range phases {
				if k := ph.SpeciesIndex(p.Species); k >= 0 {
					transfer[n] += sign * p.Coef * ph.Charge(k)
					break
				}
			}
		}
	}
	add(r.Products, 1)
	add(r.Reactants, -1)
	for _, q := range transfer {
		if q != 0 {
			return true
		}
	}
	return false
}

// stoichKey identifies reactions with the same reactants and products.
func stoichKey(r *surfkin.Reaction) string {
	side := func(ps []surfkin.Participant) string {
		merged := make(map[string]float64)
		for _, p := range ps {
			merged[p.Species] += p.Coef
		}
		terms := make([]string, 0, len(merged))
		for s, c := range merged {
			terms = append(terms, fmt.Sprintf("%g %s", c, s))
		}
		sort.Strings(terms)
		return strings.Join(terms, " + ")
	}
	return side(r.Reactants) + " => " + side(r.Products)
}

// PhaseByName returns the named phase, or nil.
func (m *Mechanism) PhaseByName(name string) surfkin.Phase {
	for _, p := range m.Phases {
		if p.Name() == name {
			return p
		}
	}
	return nil
}

// SetTemperature sets the temperature of every phase, keeping pressures
// unchanged.
func (m *Mechanism) SetTemperature(t float64) error {
	for _, p := range m.Phases {
		var err error
		switch p := p.(type) {
		case *idealphase.Gas:
			err = p.SetState(t, p.Pressure())
		case *idealphase.Bulk:
			err = p.SetState(t, p.Pressure())
		case *idealphase.Surface:
			err = p.SetTemperature(t)
		}
		if err != nil {
			return err
		}
	}
	return nil
}

// SetPressure sets the pressure of the gas and bulk phases. Standard
// chemical potentials depend on pressure, so the rate cache is cleared.
func (m *Mechanism) SetPressure(pres float64) error {
	for _, p := range m.Phases {
		var err error
		switch p := p.(type) {
		case *idealphase.Gas:
			err = p.SetState(p.Temperature(), pres)
		case *idealphase.Bulk:
			err = p.SetState(p.Temperature(), pres)
		}
		if err != nil {
			return err
		}
	}
	m.InvalidateCache()
	return nil
}

// SetPotential sets the electric potential of the named phase [V].
func (m *Mechanism) SetPotential(name string, v float64) error {
	p := m.PhaseByName(name)
	if p == nil {
		return fmt.Errorf("mechanism: no phase named '%s'", name)
	}
	p.SetElectricPotential(v)
	return nil
}

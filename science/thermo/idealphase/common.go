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

package idealphase

import (
	"fmt"

	"github.com/gonum/floats"
	"github.com/spatialmodel/surfkin/science/thermo"
)

// common holds the state shared by all ideal phases: the species list,
// temperature, pressure, electric potential, composition (mole
// fractions or coverages) and the standard-state enthalpies and entropies
// at the current temperature.
type common struct {
	name    string
	species []Species
	thermo  []thermoExpr
	index   map[string]int

	t, p, phi float64
	x         []float64

	h0, s0 []float64
}

func newCommon(name string, species []Species) (common, error) {
	if len(species) == 0 {
		return common{}, fmt.Errorf("idealphase: phase '%s' has no species", name)
	}
	c := common{
		name:    name,
		species: append([]Species(nil), species...),
		thermo:  make([]thermoExpr, len(species)),
		index:   make(map[string]int, len(species)),
		t:       298.15,
		p:       thermo.OneAtm,
		x:       make([]float64, len(species)),
		h0:      make([]float64, len(species)),
		s0:      make([]float64, len(species)),
	}
	for i, sp := range species {
		if sp.Name == "" {
			return common{}, fmt.Errorf("idealphase: species %d of phase '%s' has no name", i, name)
		}
		if _, ok := c.index[sp.Name]; ok {
			return common{}, fmt.Errorf("idealphase: duplicate species '%s' in phase '%s'", sp.Name, name)
		}
		if sp.MolecularWeight < 0 || sp.Size < 0 {
			return common{}, fmt.Errorf("idealphase: species '%s' has negative molecular weight or size", sp.Name)
		}
		c.index[sp.Name] = i
		te, err := compile(sp)
		if err != nil {
			return common{}, err
		}
		c.thermo[i] = te
	}
	c.x[0] = 1
	if err := c.setTemperature(c.t); err != nil {
		return common{}, err
	}
	return c, nil
}

// setTemperature evaluates the species thermo at t.
func (c *common) setTemperature(t float64) error {
	if !(t > 0) {
		return fmt.Errorf("idealphase: phase '%s': temperature must be positive, got %g", c.name, t)
	}
	for i, te := range c.thermo {
		h, s, err := te.eval(t)
		if err != nil {
			return fmt.Errorf("idealphase: species '%s': %v", c.species[i].Name, err)
		}
		c.h0[i], c.s0[i] = h, s
	}
	c.t = t
	return nil
}

func (c *common) setPressure(p float64) error {
	if !(p > 0) {
		return fmt.Errorf("idealphase: phase '%s': pressure must be positive, got %g", c.name, p)
	}
	c.p = p
	return nil
}

// setComposition copies x into the composition, normalizing it to sum to
// one when norm is true.
func (c *common) setComposition(x []float64, norm bool) error {
	if len(x) != len(c.x) {
		return fmt.Errorf("idealphase: phase '%s': composition has length %d, want %d", c.name, len(x), len(c.x))
	}
	if !norm {
		copy(c.x, x)
		return nil
	}
	for _, v := range x {
		if v < 0 {
			return fmt.Errorf("idealphase: phase '%s': negative composition value %g", c.name, v)
		}
	}
	sum := floats.Sum(x)
	if sum <= 0 {
		return fmt.Errorf("idealphase: phase '%s': composition sums to zero", c.name)
	}
	copy(c.x, x)
	floats.Scale(1/sum, c.x)
	return nil
}

// SetComposition sets the mole fractions (or coverages, for a surface) of
// the named species, normalized to sum to one. Species not named are set
// to zero.
func (c *common) SetComposition(comp map[string]float64) error {
	x := make([]float64, len(c.x))
	for name, v := range comp {
		i, ok := c.index[name]
		if !ok {
			return fmt.Errorf("idealphase: phase '%s' has no species '%s'", c.name, name)
		}
		x[i] = v
	}
	return c.setComposition(x, true)
}

// Name returns the phase name.
func (c *common) Name() string { return c.name }

// NSpecies returns the number of species.
func (c *common) NSpecies() int { return len(c.species) }

// SpeciesName returns the name of species k.
func (c *common) SpeciesName(k int) string { return c.species[k].Name }

// SpeciesIndex returns the index of the named species or -1.
func (c *common) SpeciesIndex(name string) int {
	if i, ok := c.index[name]; ok {
		return i
	}
	return -1
}

// Temperature returns the temperature [K].
func (c *common) Temperature() float64 { return c.t }

// Pressure returns the pressure [Pa].
func (c *common) Pressure() float64 { return c.p }

// ElectricPotential returns the electric potential [V].
func (c *common) ElectricPotential() float64 { return c.phi }

// SetElectricPotential sets the electric potential [V].
func (c *common) SetElectricPotential(v float64) { c.phi = v }

// Charge returns the charge number of species k.
func (c *common) Charge(k int) float64 { return c.species[k].Charge }

// MolecularWeight returns the molar mass of species k [kg/mol].
func (c *common) MolecularWeight(k int) float64 { return c.species[k].MolecularWeight }

// PartialMolarEnthalpies writes the species enthalpies [J/mol]; ideal
// phases have no enthalpy of mixing.
func (c *common) PartialMolarEnthalpies(out []float64) { copy(out, c.h0) }

// EnthalpiesRT writes the standard-state enthalpies divided by RT.
func (c *common) EnthalpiesRT(out []float64) {
	rt := thermo.GasConstant * c.t
	for i, h := range c.h0 {
		out[i] = h / rt
	}
}

// referenceChemPotentials writes h - T s.
func (c *common) referenceChemPotentials(out []float64) {
	for i := range c.h0 {
		out[i] = c.h0[i] - c.t*c.s0[i]
	}
}

// mixingChemPotentials writes mu0 + RT ln(x), with x floored at a small
// positive value.
func (c *common) mixingChemPotentials(mu0, out []float64) {
	rt := thermo.GasConstant * c.t
	for i, x := range c.x {
		out[i] = mu0[i] + rt*logFloor(x)
	}
}

// mixingEntropies writes s0 - R ln(x·scale).
func (c *common) mixingEntropies(scale float64, out []float64) {
	for i, x := range c.x {
		out[i] = c.s0[i] - thermo.GasConstant*logFloor(x*scale)
	}
}

// addElectric adds F z φ to the chemical potentials in out.
func (c *common) addElectric(out []float64) {
	for i, sp := range c.species {
		out[i] += thermo.Faraday * sp.Charge * c.phi
	}
}

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
	"math"

	"github.com/spatialmodel/surfkin/science/thermo"
)

// Gas is an ideal gas mixture.
type Gas struct {
	common
}

// NewGas returns an ideal gas at 298.15 K and one atmosphere, made up
// entirely of its first species.
func NewGas(name string, species []Species) (*Gas, error) {
	c, err := newCommon(name, species)
	if err != nil {
		return nil, err
	}
	return &Gas{common: c}, nil
}

// NDim returns 3.
func (g *Gas) NDim() int { return 3 }

// SetState sets the temperature [K] and pressure [Pa].
func (g *Gas) SetState(t, p float64) error {
	if err := g.setPressure(p); err != nil {
		return err
	}
	return g.setTemperature(t)
}

// SetMoleFractions sets the mole fractions, normalized to sum to one.
func (g *Gas) SetMoleFractions(x []float64) error { return g.setComposition(x, true) }

// MoleFractions writes the mole fractions.
func (g *Gas) MoleFractions(out []float64) { copy(out, g.x) }

// MolarDensity returns P/(RT) [mol/m³].
func (g *Gas) MolarDensity() float64 { return g.p / (thermo.GasConstant * g.t) }

// StandardConcentration returns the molar density.
func (g *Gas) StandardConcentration(k int) float64 { return g.MolarDensity() }

// LogStandardConcentration returns ln of the molar density.
func (g *Gas) LogStandardConcentration(k int) float64 { return math.Log(g.MolarDensity()) }

// ActivityConcentrations writes the species molar concentrations.
func (g *Gas) ActivityConcentrations(out []float64) { g.Concentrations(out) }

// Concentrations writes the species molar concentrations [mol/m³].
func (g *Gas) Concentrations(out []float64) {
	c := g.MolarDensity()
	for i, x := range g.x {
		out[i] = x * c
	}
}

// StandardChemPotentials writes h - T s + RT ln(P/P0).
func (g *Gas) StandardChemPotentials(out []float64) {
	g.referenceChemPotentials(out)
	d := thermo.GasConstant * g.t * math.Log(g.p/thermo.OneAtm)
	for i := range out[:len(g.x)] {
		out[i] += d
	}
}

// ChemPotentials writes the species chemical potentials [J/mol].
func (g *Gas) ChemPotentials(out []float64) {
	g.StandardChemPotentials(out)
	g.mixingChemPotentials(out, out)
}

// ElectrochemPotentials writes μ + F z φ [J/mol].
func (g *Gas) ElectrochemPotentials(out []float64) {
	g.ChemPotentials(out)
	g.addElectric(out)
}

// PartialMolarEntropies writes s0 - R ln(x P/P0) [J/mol/K].
func (g *Gas) PartialMolarEntropies(out []float64) {
	g.mixingEntropies(g.p/thermo.OneAtm, out)
}

// EntropiesR writes the standard-state entropies at the current
// pressure divided by R.
func (g *Gas) EntropiesR(out []float64) {
	d := math.Log(g.p / thermo.OneAtm)
	for i, s := range g.s0 {
		out[i] = s/thermo.GasConstant - d
	}
}

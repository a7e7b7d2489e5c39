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
	"math"

	"github.com/spatialmodel/surfkin/science/thermo"
)

// Bulk is a condensed phase. With a positive molar density it is an ideal
// solution whose activity concentrations are x·density. With zero molar
// density it is a metal (for example an electron conductor) whose
// species all have unit activity.
type Bulk struct {
	common
	density float64
}

// NewBulk returns a bulk phase with the given molar density [mol/m³].
func NewBulk(name string, species []Species, molarDensity float64) (*Bulk, error) {
	if molarDensity < 0 {
		return nil, fmt.Errorf("idealphase: phase '%s': negative molar density %g", name, molarDensity)
	}
	c, err := newCommon(name, species)
	if err != nil {
		return nil, err
	}
	return &Bulk{common: c, density: molarDensity}, nil
}

// NDim returns 3.
func (b *Bulk) NDim() int { return 3 }

// IsMetal reports whether the phase has unit activities.
func (b *Bulk) IsMetal() bool { return b.density == 0 }

// SetState sets the temperature [K] and pressure [Pa].
func (b *Bulk) SetState(t, p float64) error {
	if err := b.setPressure(p); err != nil {
		return err
	}
	return b.setTemperature(t)
}

// SetMoleFractions sets the mole fractions, normalized to sum to one.
func (b *Bulk) SetMoleFractions(x []float64) error { return b.setComposition(x, true) }

// MoleFractions writes the mole fractions.
func (b *Bulk) MoleFractions(out []float64) { copy(out, b.x) }

// StandardConcentration returns the molar density, or 1 for a metal.
func (b *Bulk) StandardConcentration(k int) float64 {
	if b.IsMetal() {
		return 1
	}
	return b.density
}

// LogStandardConcentration returns ln(StandardConcentration(k)).
func (b *Bulk) LogStandardConcentration(k int) float64 {
	return math.Log(b.StandardConcentration(k))
}

// ActivityConcentrations writes x·density, or 1 for every species of a
// metal.
func (b *Bulk) ActivityConcentrations(out []float64) {
	if b.IsMetal() {
		for i := range b.x {
			out[i] = 1
		}
		return
	}
	b.Concentrations(out)
}

// Concentrations writes x·density, or the mole fractions for a metal.
func (b *Bulk) Concentrations(out []float64) {
	d := b.density
	if b.IsMetal() {
		d = 1
	}
	for i, x := range b.x {
		out[i] = x * d
	}
}

// StandardChemPotentials writes h - T s.
func (b *Bulk) StandardChemPotentials(out []float64) { b.referenceChemPotentials(out) }

// ChemPotentials writes μ0 + RT ln x, or μ0 for a metal.
func (b *Bulk) ChemPotentials(out []float64) {
	b.referenceChemPotentials(out)
	if !b.IsMetal() {
		b.mixingChemPotentials(out, out)
	}
}

// ElectrochemPotentials writes μ + F z φ.
func (b *Bulk) ElectrochemPotentials(out []float64) {
	b.ChemPotentials(out)
	b.addElectric(out)
}

// PartialMolarEntropies writes s0 - R ln x, or s0 for a metal.
func (b *Bulk) PartialMolarEntropies(out []float64) {
	if b.IsMetal() {
		copy(out, b.s0)
		return
	}
	b.mixingEntropies(1, out)
}

// EntropiesR writes s0/R.
func (b *Bulk) EntropiesR(out []float64) {
	for i, v := range b.s0 {
		out[i] = v / thermo.GasConstant
	}
}

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

// Surface is an ideal surface (or edge) phase: species occupy sites
// and their composition is given as site fractions (coverages).
type Surface struct {
	common
	dim int
	n0  float64
}

// NewSurface returns a two-dimensional surface phase with site density
// n0 [mol/m²], fully covered by its first species.
func NewSurface(name string, species []Species, n0 float64) (*Surface, error) {
	return newSurface(name, species, n0, 2)
}

// NewEdge returns a one-dimensional edge phase with site density n0
// [mol/m].
func NewEdge(name string, species []Species, n0 float64) (*Surface, error) {
	return newSurface(name, species, n0, 1)
}

func newSurface(name string, species []Species, n0 float64, dim int) (*Surface, error) {
	c, err := newCommon(name, species)
	if err != nil {
		return nil, err
	}
	s := &Surface{common: c, dim: dim}
	if err := s.SetSiteDensity(n0); err != nil {
		return nil, err
	}
	return s, nil
}

// NDim returns 2 for a surface and 1 for an edge.
func (s *Surface) NDim() int { return s.dim }

// SetTemperature sets the temperature [K].
func (s *Surface) SetTemperature(t float64) error { return s.setTemperature(t) }

// SiteDensity returns the site density.
func (s *Surface) SiteDensity() float64 { return s.n0 }

// SetSiteDensity sets the site density, which must be positive.
func (s *Surface) SetSiteDensity(n0 float64) error {
	if !(n0 > 0) {
		return fmt.Errorf("idealphase: phase '%s': site density must be positive, got %g", s.name, n0)
	}
	s.n0 = n0
	return nil
}

// Size returns the number of sites occupied by species k.
func (s *Surface) Size(k int) float64 { return s.species[k].size() }

// Coverages writes the site fractions.
func (s *Surface) Coverages(out []float64) { copy(out, s.x) }

// SetCoverages sets the site fractions without normalizing them.
func (s *Surface) SetCoverages(theta []float64) error { return s.setComposition(theta, false) }

// SetNormalizedCoverages sets the site fractions, normalized to sum to
// one.
func (s *Surface) SetNormalizedCoverages(theta []float64) error {
	return s.setComposition(theta, true)
}

// StandardConcentration returns n0/size.
func (s *Surface) StandardConcentration(k int) float64 { return s.n0 / s.Size(k) }

// LogStandardConcentration returns ln(n0/size).
func (s *Surface) LogStandardConcentration(k int) float64 {
	return math.Log(s.StandardConcentration(k))
}

// ActivityConcentrations writes θ n0 / size.
func (s *Surface) ActivityConcentrations(out []float64) { s.Concentrations(out) }

// Concentrations writes θ n0 / size.
func (s *Surface) Concentrations(out []float64) {
	for i, x := range s.x {
		out[i] = x * s.n0 / s.Size(i)
	}
}

// StandardChemPotentials writes h - T s.
func (s *Surface) StandardChemPotentials(out []float64) { s.referenceChemPotentials(out) }

// ChemPotentials writes μ0 + RT ln θ.
func (s *Surface) ChemPotentials(out []float64) {
	s.referenceChemPotentials(out)
	s.mixingChemPotentials(out, out)
}

// ElectrochemPotentials writes μ + F z φ.
func (s *Surface) ElectrochemPotentials(out []float64) {
	s.ChemPotentials(out)
	s.addElectric(out)
}

// PartialMolarEntropies writes s0 - R ln θ.
func (s *Surface) PartialMolarEntropies(out []float64) { s.mixingEntropies(1, out) }

// EntropiesR writes s0/R.
func (s *Surface) EntropiesR(out []float64) {
	for i, v := range s.s0 {
		out[i] = v / thermo.GasConstant
	}
}

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

// Package stoich holds the stoichiometric coefficients and reaction orders
// for one side of a set of reactions, and maps per-species quantities to
// per-reaction sums and products (and back).
package stoich

import (
	"fmt"
	"math"
	"sort"

	"github.com/ctessum/sparse"
	"github.com/gonum/floats"
	"gonum.org/v1/gonum/mat"
)

// Term is one species participating on one side of a reaction.
type Term struct {
	// Species is the kinetics species index.
	Species int

	// Coef is the stoichiometric coefficient.
	Coef float64

	// Order is the exponent applied to the species concentration
	// in the mass-action product. It usually equals Coef.
	Order float64
}

// Manager holds one side (reactants, products, or reversible products)
// of a reaction set. Terms are added during setup; Finalize locks the
// dimensions and assembles the coefficient matrix.
type Manager struct {
	nSpecies int
	terms    [][]Term

	nReactions int
	coef       *mat.Dense // nReactions × nSpecies
	rows       [][]Term   // nonzero-order terms, by reaction, species ascending
	finalized  bool
}

// New returns a manager for reactions among nSpecies species.
func New(nSpecies int) *Manager {
	return &Manager{nSpecies: nSpecies}
}

// Add registers the terms of reaction rxn. Reactions may be added in any
// order but each reaction may only be added once. Reactions that are never
// added have no terms on this side.
func (m *Manager) Add(rxn int, terms []Term) error {
	if m.finalized {
		return fmt.Errorf("stoich: cannot add reaction %d after finalize", rxn)
	}
	if rxn < 0 {
		return fmt.Errorf("stoich: negative reaction index %d", rxn)
	}
	for _, t := range terms {
		if t.Species < 0 || t.Species >= m.nSpecies {
			return fmt.Errorf("stoich: species index %d out of range [0,%d) in reaction %d",
				t.Species, m.nSpecies, rxn)
		}
	}
	for len(m.terms) <= rxn {
		m.terms = append(m.terms, nil)
	}
	if m.terms[rxn] != nil {
		return fmt.Errorf("stoich: reaction %d added twice", rxn)
	}
	m.terms[rxn] = append([]Term{}, terms...)
	return nil
}

// Finalize assembles the coefficient and order arrays for nReactions
// reactions. Repeated species within a reaction are summed.
func (m *Manager) Finalize(nReactions int) error {
	if len(m.terms) > nReactions {
		return fmt.Errorf("stoich: %d reactions registered but finalize called with %d",
			len(m.terms), nReactions)
	}
	m.nReactions = nReactions
	m.rows = make([][]Term, nReactions)
	m.finalized = true
	if nReactions == 0 || m.nSpecies == 0 {
		m.coef = nil
		return nil
	}
	coef := sparse.ZerosSparse(nReactions, m.nSpecies)
	order := sparse.ZerosSparse(nReactions, m.nSpecies)
	for r, terms := range m.terms {
		for _, t := range terms {
			coef.AddVal(t.Coef, r, t.Species)
			order.AddVal(t.Order, r, t.Species)
		}
	}
	m.coef = mat.NewDense(nReactions, m.nSpecies, coef.ToDense())

	// Row-major 1-d indices sort by reaction, then species.
	nz := order.Nonzero()
	sort.Ints(nz)
	for _, i := range nz {
		o := order.Get1d(i)
		if o == 0 {
			continue
		}
		r, k := i/m.nSpecies, i%m.nSpecies
		m.rows[r] = append(m.rows[r], Term{
			Species: k,
			Coef:    coef.Get(r, k),
			Order:   o,
		})
	}
	return nil
}

// NReactions returns the number of reactions fixed at Finalize.
func (m *Manager) NReactions() int { return m.nReactions }

// Terms returns the terms registered for reaction rxn.
func (m *Manager) Terms(rxn int) []Term {
	if rxn < 0 || rxn >= len(m.terms) {
		return nil
	}
	return append([]Term{}, m.terms[rxn]...)
}

// Coefficient returns the net stoichiometric coefficient of species k
// in reaction rxn on this side.
func (m *Manager) Coefficient(rxn, k int) float64 {
	if m.coef == nil || rxn < 0 || rxn >= m.nReactions || k < 0 || k >= m.nSpecies {
		return 0
	}
	return m.coef.At(rxn, k)
}

// Multiply multiplies each rop[r] in place by the product over the
// reaction's species of conc[k] raised to the species order.
func (m *Manager) Multiply(conc, rop []float64) {
	for r, row := range m.rows {
		for _, t := range row {
			c := conc[t.Species]
			switch t.Order {
			case 1:
				rop[r] *= c
			case 2:
				rop[r] *= c * c
			default:
				rop[r] *= math.Pow(math.Max(c, 0), t.Order)
			}
		}
	}
}

// IncrementReactions adds Σ_k coef[r][k]·in[k] to out[r].
func (m *Manager) IncrementReactions(in, out []float64) {
	if m.coef == nil {
		return
	}
	floats.Add(out[:m.nReactions], m.reactionSums(in))
}

// DecrementReactions subtracts Σ_k coef[r][k]·in[k] from out[r].
func (m *Manager) DecrementReactions(in, out []float64) {
	if m.coef == nil {
		return
	}
	floats.Sub(out[:m.nReactions], m.reactionSums(in))
}

// IncrementSpecies adds Σ_r coef[r][k]·in[r] to out[k].
func (m *Manager) IncrementSpecies(in, out []float64) {
	if m.coef == nil {
		return
	}
	floats.Add(out[:m.nSpecies], m.speciesSums(in))
}

// DecrementSpecies subtracts Σ_r coef[r][k]·in[r] from out[k].
func (m *Manager) DecrementSpecies(in, out []float64) {
	if m.coef == nil {
		return
	}
	floats.Sub(out[:m.nSpecies], m.speciesSums(in))
}

func (m *Manager) reactionSums(in []float64) []float64 {
	var v mat.VecDense
	v.MulVec(m.coef, mat.NewVecDense(m.nSpecies, in[:m.nSpecies]))
	return v.RawVector().Data
}

func (m *Manager) speciesSums(in []float64) []float64 {
	var v mat.VecDense
	v.MulVec(m.coef.T(), mat.NewVecDense(m.nReactions, in[:m.nReactions]))
	return v.RawVector().Data
}

// Clone returns a deep copy of m.
func (m *Manager) Clone() *Manager {
	o := &Manager{
		nSpecies:   m.nSpecies,
		nReactions: m.nReactions,
		finalized:  m.finalized,
		terms:      make([][]Term, len(m.terms)),
		rows:       make([][]Term, len(m.rows)),
	}
	for i, t := range m.terms {
		if t != nil {
			o.terms[i] = append([]Term{}, t...)
		}
	}
	for i, t := range m.rows {
		o.rows[i] = append([]Term(nil), t...)
	}
	if m.coef != nil {
		o.coef = mat.DenseCopyOf(m.coef)
	}
	return o
}

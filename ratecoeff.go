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

package surfkin

import (
	"math"

	"github.com/spatialmodel/surfkin/science/thermo"
)

// coverageTerm is a CoverageDependency resolved to a reaction-phase
// species index.
type coverageTerm struct {
	k       int
	a, m, e float64
}

// SurfaceArrhenius is a modified Arrhenius rate expression whose
// pre-exponential factor and activation energy depend on the coverages of
// reaction-phase species.
type SurfaceArrhenius struct {
	A, B, Ea float64 // Ea in J/mol

	cov []coverageTerm

	// contributions of the current coverages
	acov, ecov, mcov float64
}

// NewSurfaceArrhenius returns a rate expression with no coverage
// dependence.
func NewSurfaceArrhenius(a, b, ea float64) SurfaceArrhenius {
	return SurfaceArrhenius{A: a, B: b, Ea: ea}
}

// AddCoverageDependence adds a dependence on the coverage of
// reaction-phase species k.
func (r *SurfaceArrhenius) AddCoverageDependence(k int, a, m, e float64) {
	r.cov = append(r.cov, coverageTerm{k: k, a: a, m: m, e: e})
}

// CoverageDependent reports whether the rate depends on coverages.
func (r *SurfaceArrhenius) CoverageDependent() bool { return len(r.cov) > 0 }

// UpdateCoverages recomputes the coverage contributions from the given
// reaction-phase site fractions.
func (r *SurfaceArrhenius) UpdateCoverages(theta []float64) {
	r.acov, r.ecov, r.mcov = 0, 0, 0
	for _, c := range r.cov {
		th := theta[c.k]
		r.acov += c.a * th
		r.ecov += c.e * th
		if c.m != 0 {
			r.mcov += c.m * math.Log(math.Max(th, thermo.SmallNumber))
		}
	}
}

// Eval returns the rate constant at the temperature given by its
// logarithm and 1/RT.
func (r *SurfaceArrhenius) Eval(logT, recipRT float64) float64 {
	if r.A == 0 {
		return 0
	}
	return r.A * math.Exp(math.Ln10*r.acov+r.B*logT-(r.Ea+r.ecov)*recipRT+r.mcov)
}

// ActivationEnergy returns the effective activation energy at the
// current coverages [J/mol].
func (r *SurfaceArrhenius) ActivationEnergy() float64 { return r.Ea + r.ecov }

func (r SurfaceArrhenius) clone() SurfaceArrhenius {
	r.cov = append([]coverageTerm(nil), r.cov...)
	return r
}

// rateStore holds one SurfaceArrhenius per reaction.
type rateStore struct {
	rates              []SurfaceArrhenius
	coverageDependence bool
}

// install attaches rate to reaction slot i, which must be the next slot.
func (s *rateStore) install(i int, rate SurfaceArrhenius) {
	for len(s.rates) <= i {
		s.rates = append(s.rates, SurfaceArrhenius{})
	}
	s.rates[i] = rate
	if rate.CoverageDependent() {
		s.coverageDependence = true
	}
}

// replace overwrites the rate in slot i.
func (s *rateStore) replace(i int, rate SurfaceArrhenius) {
	s.rates[i] = rate
	s.coverageDependence = false
	for j := range s.rates {
		if s.rates[j].CoverageDependent() {
			s.coverageDependence = true
		}
	}
}

// updateCoverages pushes reaction-phase site fractions into every
// coverage-dependent rate.
func (s *rateStore) updateCoverages(theta []float64) {
	for i := range s.rates {
		if s.rates[i].CoverageDependent() {
			s.rates[i].UpdateCoverages(theta)
		}
	}
}

// evaluate writes the forward rate constant of each reaction to out.
func (s *rateStore) evaluate(t, logT float64, out []float64) {
	recipRT := 1 / (thermo.GasConstant * t)
	for i := range s.rates {
		out[i] = s.rates[i].Eval(logT, recipRT)
	}
}

func (s *rateStore) clone() rateStore {
	o := rateStore{
		rates:              make([]SurfaceArrhenius, len(s.rates)),
		coverageDependence: s.coverageDependence,
	}
	for i, r := range s.rates {
		o.rates[i] = r.clone()
	}
	return o
}

// stickingOrder records the reaction-phase order of a sticking reaction.
type stickingOrder struct {
	rxn   int
	order float64
}

// stickingCorrection applies the site-density factor n0^(-order) to the
// rate constants of sticking reactions. The factors are cached for the
// last site density seen.
type stickingCorrection struct {
	orders      []stickingOrder
	siteDensity float64
	factors     []float64
}

func (c *stickingCorrection) apply(n0 float64, kf []float64) {
	if len(c.orders) == 0 {
		return
	}
	if n0 != c.siteDensity || c.factors == nil {
		c.factors = make([]float64, len(c.orders))
		for i, o := range c.orders {
			c.factors[i] = math.Pow(n0, -o.order)
		}
		c.siteDensity = n0
	}
	for i, o := range c.orders {
		kf[o.rxn] *= c.factors[i]
	}
}

func (c *stickingCorrection) clone() stickingCorrection {
	return stickingCorrection{
		orders:      append([]stickingOrder(nil), c.orders...),
		siteDensity: c.siteDensity,
		factors:     append([]float64(nil), c.factors...),
	}
}

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
	"fmt"
	"strconv"
	"strings"
)

// Kind identifies the rate law a reaction follows.
type Kind int

// Reaction kinds.
const (
	// Elementary is a mass-action reaction with an Arrhenius forward
	// rate constant and a reverse rate from the equilibrium constant.
	Elementary Kind = iota

	// Sticking is a reaction whose Arrhenius parameters give a
	// dimensionless sticking probability for a bulk-phase species.
	Sticking

	// ButlerVolmer is an electrochemical reaction written in
	// Butler-Volmer form using activities.
	ButlerVolmer

	// ButlerVolmerNoActivity is ButlerVolmer with concentrations in
	// place of activities.
	ButlerVolmerNoActivity

	// ExchangeCurrentDensity is an electrochemical reaction whose rate
	// constant is given as an exchange current density.
	ExchangeCurrentDensity

	// SurfaceAffinity is an electrochemical reaction with an
	// affinity-based rate law.
	SurfaceAffinity

	// Global is a lumped electrochemical reaction with arbitrary orders.
	Global
)

var kindNames = map[Kind]string{
	Elementary:             "elementary",
	Sticking:               "sticking",
	ButlerVolmer:           "butler-volmer",
	ButlerVolmerNoActivity: "butler-volmer-noactivity",
	ExchangeCurrentDensity: "exchange-current-density",
	SurfaceAffinity:        "surface-affinity",
	Global:                 "global",
}

func (k Kind) String() string {
	if s, ok := kindNames[k]; ok {
		return s
	}
	return "Kind(" + strconv.Itoa(int(k)) + ")"
}

// ParseKind returns the Kind with the given name. Matching ignores case
// and treats '_' and ' ' as '-'.
func ParseKind(s string) (Kind, error) {
	n := strings.ToLower(strings.TrimSpace(s))
	n = strings.NewReplacer("_", "-", " ", "-").Replace(n)
	if n == "" {
		return Elementary, nil
	}
	for k, name := range kindNames {
		if name == n {
			return k, nil
		}
	}
	return 0, fmt.Errorf("surfkin: invalid reaction kind %q", s)
}

// isBVForm reports whether rates of this kind are computed directly in
// Butler-Volmer form.
func (k Kind) isBVForm() bool {
	return k == ButlerVolmer || k == ButlerVolmerNoActivity
}

// allowsFilmResistivity reports whether a film resistivity may be
// attached to reactions of this kind.
func (k Kind) allowsFilmResistivity() bool {
	switch k {
	case ButlerVolmer, ButlerVolmerNoActivity, SurfaceAffinity, Global:
		return true
	}
	return false
}

// Participant is a species and its stoichiometric coefficient.
type Participant struct {
	Species string
	Coef    float64
}

// Arrhenius holds the parameters of k = A T^B exp(-Ea/RT).
type Arrhenius struct {
	A  float64
	B  float64
	Ea float64 // J/mol
}

// CoverageDependency modifies a rate constant by the coverage θ of a
// reaction-phase species through the factor 10^(Aθ) θ^M exp(-Eθ/RT).
type CoverageDependency struct {
	Species string
	A, M    float64
	E       float64 // J/mol
}

// Electrochemistry holds the attributes of a charge-transfer reaction.
type Electrochemistry struct {
	// Beta is the symmetry factor, in (0, 1).
	Beta float64

	// ExchangeCurrentDensity indicates that the rate parameters give an
	// exchange current density rather than a forward rate constant.
	ExchangeCurrentDensity bool

	// FilmResistivity is the resistivity of a surface film [Ω m²].
	FilmResistivity float64
}

// DefaultBeta is the symmetry factor used when an electrochemical
// reaction does not specify one.
const DefaultBeta = 0.5

// Reaction describes one reaction at an interface or edge.
type Reaction struct {
	// Equation is an optional label; String builds one if it is empty.
	Equation string

	Reactants []Participant
	Products  []Participant

	// Orders overrides the reaction order of the named species.
	// Species absent from the map use their stoichiometric coefficient.
	Orders map[string]float64

	Reversible bool
	Kind       Kind
	Rate       Arrhenius

	CoverageDeps []CoverageDependency

	// StickingSpecies names the bulk species whose collision rate the
	// sticking probability refers to. If empty it is detected from
	// the reactants.
	StickingSpecies string

	// MotzWise applies the Motz-Wise correction to a sticking probability.
	MotzWise bool

	// Electrochem is set for charge-transfer reactions. Reactions of
	// kind ButlerVolmer, ButlerVolmerNoActivity and ExchangeCurrentDensity
	// are electrochemical even when it is nil.
	Electrochem *Electrochemistry
}

// IsElectrochemical reports whether r is a charge-transfer reaction.
func (r *Reaction) IsElectrochemical() bool {
	if r.Electrochem != nil {
		return true
	}
	switch r.Kind {
	case ButlerVolmer, ButlerVolmerNoActivity, ExchangeCurrentDensity:
		return true
	}
	return false
}

// electrochem returns the electrochemical attributes of r with defaults
// filled in. It must only be called when IsElectrochemical is true.
func (r *Reaction) electrochem() Electrochemistry {
	e := Electrochemistry{Beta: DefaultBeta}
	if r.Electrochem != nil {
		e = *r.Electrochem
	}
	if r.Kind == ExchangeCurrentDensity {
		e.ExchangeCurrentDensity = true
	}
	return e
}

// order returns the reaction order of a reactant.
func (r *Reaction) order(p Participant) float64 {
	if o, ok := r.Orders[p.Species]; ok {
		return o
	}
	return p.Coef
}

func (r *Reaction) String() string {
	if r.Equation != "" {
		return r.Equation
	}
	side := func(ps []Participant) string {
		terms := make([]string, len(ps))
		for i, p := range ps {
			if p.Coef == 1 {
				terms[i] = p.Species
			} else {
				terms[i] = strconv.FormatFloat(p.Coef, 'g', -1, 64) + " " + p.Species
			}
		}
		return strings.Join(terms, " + ")
	}
	arrow := " => "
	if r.Reversible {
		arrow = " <=> "
	}
	return side(r.Reactants) + arrow + side(r.Products)
}

// clone returns a deep copy of r.
func (r *Reaction) clone() *Reaction {
	o := *r
	o.Reactants = append([]Participant(nil), r.Reactants...)
	o.Products = append([]Participant(nil), r.Products...)
	if r.Orders != nil {
		o.Orders = make(map[string]float64, len(r.Orders))
		for k, v := range r.Orders {
			o.Orders[k] = v
		}
	}
	o.CoverageDeps = append([]CoverageDependency(nil), r.CoverageDeps...)
	if r.Electrochem != nil {
		e := *r.Electrochem
		o.Electrochem = &e
	}
	return &o
}

// sameStoichiometry reports whether r and o have identical reactants,
// products, orders and reversibility.
func (r *Reaction) sameStoichiometry(o *Reaction) bool {
	if r.Reversible != o.Reversible || len(r.Reactants) != len(o.Reactants) ||
		len(r.Products) != len(o.Products) {
		return false
	}
	for i, p := range r.Reactants {
		if o.Reactants[i] != p {
			return false
		}
	}
	for i, p := range r.Products {
		if o.Products[i] != p {
			return false
		}
	}
	if len(r.Orders) != len(o.Orders) {
		return false
	}
	for s, v := range r.Orders {
		if ov, ok := o.Orders[s]; !ok || ov != v {
			return false
		}
	}
	return true
}

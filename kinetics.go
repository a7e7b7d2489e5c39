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

// Package surfkin computes rate constants, equilibrium constants and rates
// of progress for heterogeneous reactions at interfaces (2-D) and edges
// (1-D), including sticking reactions, coverage-dependent rates and
// electrochemical charge-transfer reactions.
//
// A Kinetics is assembled by adding phases, then reactions, and is then
// finalized. After Finalize only rate-affecting state may change:
// temperatures, potentials and compositions of the phases, phase
// existence and stability, and rate multipliers. A Kinetics is not safe
// for concurrent use.
package surfkin

import (
	"math"
	"sort"
	"strconv"

	"github.com/sirupsen/logrus"
	"github.com/spatialmodel/surfkin/science/surfchem"
	"github.com/spatialmodel/surfkin/science/thermo"
	"github.com/spatialmodel/surfkin/stoich"
)

// Physical constants in SI per-mole units.
const (
	GasConstant = thermo.GasConstant // J/mol/K
	Faraday     = thermo.Faraday     // C/mol
)

// electroRxn holds the electrochemical attributes of one reaction.
type electroRxn struct {
	rxn         int
	beta        float64
	ecd         bool // rate given as an exchange current density
	bvForm      bool // rate computed directly in Butler-Volmer form
	resistivity float64
}

// Kinetics is a reaction-rate engine for reactions occurring at an
// interface or edge shared by several phases.
type Kinetics struct {
	// Log receives diagnostic messages. It defaults to the standard
	// logrus logger.
	Log logrus.FieldLogger

	// SkipUndeclaredSpecies makes AddReaction skip, rather than reject,
	// reactions that name species absent from every phase.
	SkipUndeclaredSpecies bool

	// Integration holds the settings used by AdvanceCoverages and
	// SolvePseudoSteadyState.
	Integration surfchem.Config

	dim      int // required dimensionality of the reaction phase
	phases   []Phase
	start    []int
	nSpecies int
	rxnPhase int
	minDim   int

	reactions []*Reaction
	rates     rateStore
	sticking  stickingCorrection
	actE      []float64

	reactants, products, revProducts *stoich.Manager

	revIndex, irrev []int
	perturb         []float64

	electro                []electroRxn
	needsECDConversion     bool
	needsVoltageCorrection bool

	isReactantInPhase, isProductInPhase [][]bool
	phaseExists, phaseIsStable          []bool
	phaseExistsCheck                    int

	state     rateState
	finalized bool

	// species work arrays
	actConc, conc, mu0, mu, mu0Kc, pot, stdConc, grt []float64
	theta                                            []float64

	// reaction work arrays
	rfn, rkcn, ropf, ropr, ropnet     []float64
	deltaG0, deltaG, prodStdConcReac []float64
	deltaElectricEnergy, kc           []float64

	integrator *surfchem.Integrator
}

// NewInterface returns kinetics for reactions on a 2-D interface
// phase. Phases may also be added later with AddPhase.
func NewInterface(phases ...Phase) (*Kinetics, error) {
	return newKinetics(2, phases)
}

// NewEdge returns kinetics for reactions on a 1-D edge phase where
// several interfaces meet.
func NewEdge(phases ...Phase) (*Kinetics, error) {
	return newKinetics(1, phases)
}

func newKinetics(dim int, phases []Phase) (*Kinetics, error) {
	k := &Kinetics{
		Log:         logrus.StandardLogger(),
		Integration: surfchem.DefaultConfig(),
		dim:         dim,
		rxnPhase:    -1,
		minDim:      4,
	}
	for _, p := range phases {
		if err := k.AddPhase(p); err != nil {
			return nil, err
		}
	}
	return k, nil
}

// AddPhase adds a phase to the kinetics. All phases must be added before
// the first reaction. The phase of lowest dimensionality becomes the
// reaction phase. New phases exist and are stable.
func (k *Kinetics) AddPhase(p Phase) error {
	const op = "AddPhase"
	if k.finalized {
		return &UsageError{Op: op, Err: ErrFinalized}
	}
	if p == nil {
		return usageErrorf(op, "nil phase")
	}
	if len(k.reactions) > 0 {
		return usageErrorf(op, "phase %q added after reactions", p.Name())
	}
	if p.NDim() < k.minDim {
		k.minDim = p.NDim()
		k.rxnPhase = len(k.phases)
	}
	k.start = append(k.start, k.nSpecies)
	k.nSpecies += p.NSpecies()
	k.phases = append(k.phases, p)
	k.phaseExists = append(k.phaseExists, true)
	k.phaseIsStable = append(k.phaseIsStable, true)
	return nil
}

// NPhases returns the number of phases.
func (k *Kinetics) NPhases() int { return len(k.phases) }

// NReactions returns the number of reactions.
func (k *Kinetics) NReactions() int { return len(k.reactions) }

// NSpecies returns the total number of species over all phases.
func (k *Kinetics) NSpecies() int { return k.nSpecies }

// Phase returns phase n.
func (k *Kinetics) Phase(n int) Phase { return k.phases[n] }

// PhaseStart returns the kinetics index of the first species of phase n.
func (k *Kinetics) PhaseStart(n int) int { return k.start[n] }

// ReactionPhaseIndex returns the index of the interface or edge phase,
// or -1 if no phase has been added.
func (k *Kinetics) ReactionPhaseIndex() int { return k.rxnPhase }

// Reaction returns a copy of reaction i.
func (k *Kinetics) Reaction(i int) *Reaction { return k.reactions[i].clone() }

// KineticsSpeciesIndex returns the kinetics index of the named species,
// searching the phases in order, or -1 if no phase contains it.
func (k *Kinetics) KineticsSpeciesIndex(name string) int {
	for n, p := range k.phases {
		if i := p.SpeciesIndex(name); i >= 0 {
			return k.start[n] + i
		}
	}
	return -1
}

// SpeciesPhaseIndex returns the phase containing kinetics species ks.
func (k *Kinetics) SpeciesPhaseIndex(ks int) int {
	for n := len(k.start) - 1; n >= 0; n-- {
		if ks >= k.start[n] {
			return n
		}
	}
	return -1
}

// KineticsSpeciesName returns the name of kinetics species ks.
func (k *Kinetics) KineticsSpeciesName(ks int) string {
	n := k.SpeciesPhaseIndex(ks)
	if n < 0 {
		return ""
	}
	return k.phases[n].SpeciesName(ks - k.start[n])
}

// surface returns the reaction phase.
func (k *Kinetics) surface() SurfacePhase {
	return k.phases[k.rxnPhase].(SurfacePhase)
}

// rt returns RT evaluated at the temperature of the first phase.
func (k *Kinetics) rt() float64 {
	return GasConstant * k.phases[0].Temperature()
}

func (k *Kinetics) ensureStoich() {
	if k.reactants == nil {
		k.reactants = stoich.New(k.nSpecies)
		k.products = stoich.New(k.nSpecies)
		k.revProducts = stoich.New(k.nSpecies)
	}
}

// resolved is a reaction with its species mapped to kinetics indices.
type resolved struct {
	reactants, products []stoich.Term
}

// mergeParticipants combines repeated species, keeping first-seen order.
func mergeParticipants(ps []Participant) []Participant {
	var out []Participant
	idx := make(map[string]int)
	for _, p := range ps {
		if i, ok := idx[p.Species]; ok {
			out[i].Coef += p.Coef
			continue
		}
		idx[p.Species] = len(out)
		out = append(out, p)
	}
	return out
}

// resolve maps the species of r to kinetics indices. The boolean result
// is false if a species is not present in any phase.
func (k *Kinetics) resolve(op string, r *Reaction) (resolved, bool, error) {
	var res resolved
	inReactants := make(map[string]bool)
	for _, p := range r.Reactants {
		ks := k.KineticsSpeciesIndex(p.Species)
		if ks < 0 {
			return res, false, nil
		}
		if p.Coef <= 0 {
			return res, true, &UsageError{Op: op, Reaction: r.String(),
				Msg: "non-positive stoichiometric coefficient for " + p.Species}
		}
		inReactants[p.Species] = true
		res.reactants = append(res.reactants, stoich.Term{Species: ks, Coef: p.Coef, Order: r.order(p)})
	}
	for _, p := range r.Products {
		ks := k.KineticsSpeciesIndex(p.Species)
		if ks < 0 {
			return res, false, nil
		}
		if p.Coef <= 0 {
			return res, true, &UsageError{Op: op, Reaction: r.String(),
				Msg: "non-positive stoichiometric coefficient for " + p.Species}
		}
		res.products = append(res.products, stoich.Term{Species: ks, Coef: p.Coef, Order: p.Coef})
	}

	var extra []string
	for name := range r.Orders {
		if !inReactants[name] {
			extra = append(extra, name)
		}
	}
	sort.Strings(extra)
	for _, name := range extra {
		if r.Kind != Global {
			return res, true, &UsageError{Op: op, Reaction: r.String(),
				Msg: "reaction order specified for non-reactant species " + name}
		}
		ks := k.KineticsSpeciesIndex(name)
		if ks < 0 {
			return res, false, nil
		}
		res.reactants = append(res.reactants, stoich.Term{Species: ks, Order: r.Orders[name]})
	}
	return res, true, nil
}

// buildRate converts the rate parameterization of reaction i into a
// SurfaceArrhenius, folding sticking-probability conversions into the
// pre-exponential factor.
func (k *Kinetics) buildRate(op string, i int, r *Reaction) (SurfaceArrhenius, *stickingOrder, error) {
	a, b := r.Rate.A, r.Rate.B
	var stick *stickingOrder
	rp := k.phases[k.rxnPhase]

	if r.Kind == Sticking {
		surf, ok := rp.(SurfacePhase)
		if !ok {
			return SurfaceArrhenius{}, nil, &UsageError{Op: op, Reaction: r.String(),
				Msg: "sticking reaction requires a surface reaction phase"}
		}
		if r.MotzWise {
			a /= 1 - 0.5*r.Rate.A
		}
		b += 0.5

		name := r.StickingSpecies
		if name == "" {
			found := false
			for _, p := range r.Reactants {
				ks := k.KineticsSpeciesIndex(p.Species)
				if k.SpeciesPhaseIndex(ks) != k.rxnPhase {
					if found {
						return SurfaceArrhenius{}, nil, &UsageError{Op: op, Reaction: r.String(),
							Msg: "multiple non-interface species found in sticking reaction"}
					}
					found = true
					name = p.Species
				}
			}
			if !found {
				return SurfaceArrhenius{}, nil, &UsageError{Op: op, Reaction: r.String(),
					Msg: "no non-interface species found in sticking reaction"}
			}
		}

		surfaceOrder := 0.0
		stuck := false
		for _, p := range r.Reactants {
			ks := k.KineticsSpeciesIndex(p.Species)
			n := k.SpeciesPhaseIndex(ks)
			local := ks - k.start[n]
			if p.Species == name {
				a *= math.Sqrt(GasConstant / (2 * math.Pi * k.phases[n].MolecularWeight(local)))
				stuck = true
				continue
			}
			o := r.order(p)
			if n == k.rxnPhase {
				a *= math.Pow(surf.Size(local), o)
				surfaceOrder += o
			} else {
				a *= math.Pow(k.phases[n].StandardConcentration(local), -o)
			}
		}
		if !stuck {
			return SurfaceArrhenius{}, nil, &UsageError{Op: op, Reaction: r.String(),
				Msg: "sticking species " + name + " is not a reactant"}
		}
		stick = &stickingOrder{rxn: i, order: surfaceOrder}
	}

	rate := NewSurfaceArrhenius(a, b, r.Rate.Ea)
	for _, c := range r.CoverageDeps {
		ki := rp.SpeciesIndex(c.Species)
		if ki < 0 {
			return SurfaceArrhenius{}, nil, &UsageError{Op: op, Reaction: r.String(),
				Msg: "coverage-dependence species " + c.Species + " is not in the reaction phase"}
		}
		rate.AddCoverageDependence(ki, c.A, c.M, c.E)
	}
	return rate, stick, nil
}

// electroAttributes validates and returns the electrochemical attributes
// of reaction i.
func electroAttributes(op string, i int, r *Reaction) (electroRxn, error) {
	ec := r.electrochem()
	if ec.Beta < 0 || ec.Beta > 1 {
		return electroRxn{}, &UsageError{Op: op, Reaction: r.String(),
			Msg: "symmetry factor beta must be in [0, 1]"}
	}
	if ec.FilmResistivity > 0 && !r.Kind.allowsFilmResistivity() {
		return electroRxn{}, &UsageError{Op: op, Reaction: r.String(),
			Msg: "film resistivity set for elementary reaction"}
	}
	return electroRxn{
		rxn:         i,
		beta:        ec.Beta,
		ecd:         ec.ExchangeCurrentDensity,
		bvForm:      r.Kind.isBVForm(),
		resistivity: ec.FilmResistivity,
	}, nil
}

// AddReaction adds a reaction. It returns false, with a nil error, if the
// reaction names an undeclared species and SkipUndeclaredSpecies is set.
// The reaction is copied; later changes to r have no effect.
func (k *Kinetics) AddReaction(r *Reaction) (bool, error) {
	const op = "AddReaction"
	if k.finalized {
		return false, &UsageError{Op: op, Err: ErrFinalized}
	}
	if r == nil {
		return false, usageErrorf(op, "nil reaction")
	}
	if k.rxnPhase < 0 {
		return false, usageErrorf(op, "no phases have been added")
	}
	r = r.clone()
	r.Reactants = mergeParticipants(r.Reactants)
	r.Products = mergeParticipants(r.Products)
	if len(r.Reactants) == 0 && len(r.Products) == 0 {
		return false, &UsageError{Op: op, Reaction: r.String(), Msg: "reaction has no species"}
	}

	res, declared, err := k.resolve(op, r)
	if err != nil {
		return false, err
	}
	if !declared {
		if k.SkipUndeclaredSpecies {
			return false, nil
		}
		return false, &UsageError{Op: op, Reaction: r.String(), Msg: "reaction contains undeclared species"}
	}

	i := len(k.reactions)
	rate, stick, err := k.buildRate(op, i, r)
	if err != nil {
		return false, err
	}
	var er electroRxn
	ec := r.IsElectrochemical()
	if ec {
		if er, err = electroAttributes(op, i, r); err != nil {
			return false, err
		}
	}

	k.ensureStoich()
	if err := k.reactants.Add(i, res.reactants); err != nil {
		return false, &InternalError{Op: op, Msg: err.Error()}
	}
	if err := k.products.Add(i, res.products); err != nil {
		return false, &InternalError{Op: op, Msg: err.Error()}
	}
	if r.Reversible {
		if err := k.revProducts.Add(i, res.products); err != nil {
			return false, &InternalError{Op: op, Msg: err.Error()}
		}
		k.revIndex = append(k.revIndex, i)
	} else {
		k.irrev = append(k.irrev, i)
	}

	k.rates.install(i, rate)
	if stick != nil {
		k.sticking.orders = append(k.sticking.orders, *stick)
		k.sticking.factors = nil
	}
	k.actE = append(k.actE, r.Rate.Ea)
	if ec {
		k.electro = append(k.electro, er)
		k.updateElectroFlags()
	}

	isReactant := make([]bool, len(k.phases))
	isProduct := make([]bool, len(k.phases))
	for _, t := range res.reactants {
		if t.Coef != 0 {
			isReactant[k.SpeciesPhaseIndex(t.Species)] = true
		}
	}
	for _, t := range res.products {
		isProduct[k.SpeciesPhaseIndex(t.Species)] = true
	}
	k.isReactantInPhase = append(k.isReactantInPhase, isReactant)
	k.isProductInPhase = append(k.isProductInPhase, isProduct)

	k.reactions = append(k.reactions, r)
	k.state.invalidate()
	return true, nil
}

// ModifyReaction replaces the rate parameterization of reaction i. The
// replacement must have the same reactants, products, orders,
// reversibility and kind as the original.
func (k *Kinetics) ModifyReaction(i int, r *Reaction) error {
	const op = "ModifyReaction"
	if i < 0 || i >= len(k.reactions) {
		return usageErrorf(op, "reaction index %d out of range [0,%d)", i, len(k.reactions))
	}
	if r == nil {
		return usageErrorf(op, "nil reaction")
	}
	r = r.clone()
	r.Reactants = mergeParticipants(r.Reactants)
	r.Products = mergeParticipants(r.Products)
	old := k.reactions[i]
	if !old.sameStoichiometry(r) {
		return &UsageError{Op: op, Reaction: r.String(), Msg: "stoichiometry differs from reaction " + old.String()}
	}
	if old.Kind != r.Kind {
		return &UsageError{Op: op, Reaction: r.String(),
			Msg: "reaction kind " + r.Kind.String() + " differs from " + old.Kind.String()}
	}
	if old.IsElectrochemical() != r.IsElectrochemical() {
		return &UsageError{Op: op, Reaction: r.String(), Msg: "electrochemical attributes cannot be added or removed"}
	}
	rate, stick, err := k.buildRate(op, i, r)
	if err != nil {
		return err
	}
	if r.IsElectrochemical() {
		er, err := electroAttributes(op, i, r)
		if err != nil {
			return err
		}
		for j := range k.electro {
			if k.electro[j].rxn == i {
				k.electro[j] = er
			}
		}
		k.updateElectroFlags()
	}
	k.rates.replace(i, rate)
	if stick != nil {
		for j := range k.sticking.orders {
			if k.sticking.orders[j].rxn == i {
				k.sticking.orders[j] = *stick
			}
		}
		k.sticking.factors = nil
	}
	k.actE[i] = r.Rate.Ea
	k.reactions[i] = r
	k.state.invalidate()
	return nil
}

func (k *Kinetics) updateElectroFlags() {
	k.needsECDConversion, k.needsVoltageCorrection = false, false
	for _, e := range k.electro {
		if e.ecd != e.bvForm {
			k.needsECDConversion = true
		}
		if !e.bvForm {
			k.needsVoltageCorrection = true
		}
	}
}

// Finalize locks the phase and reaction sets and sizes the work arrays.
// It checks that the reaction phase is a surface phase of the expected
// dimensionality. Calling Finalize again has no effect.
func (k *Kinetics) Finalize() error {
	const op = "Finalize"
	if k.finalized {
		return nil
	}
	if len(k.phases) == 0 {
		return &ConfigurationError{Op: op, Msg: "no phases have been added"}
	}
	rp, ok := k.phases[k.rxnPhase].(SurfacePhase)
	if !ok || rp.NDim() > 2 {
		return &ConfigurationError{Op: op, Msg: "no surface phase is present"}
	}
	if rp.NDim() != k.dim {
		return &ConfigurationError{Op: op, Msg: "expected reaction phase dimension " +
			strconv.Itoa(k.dim) + ", but phase " + rp.Name() + " has dimension " + strconv.Itoa(rp.NDim())}
	}
	if len(k.phaseExists) != len(k.phases) || len(k.phaseIsStable) != len(k.phases) {
		return &ConfigurationError{Op: op, Msg: "phase existence arrays do not match the phase count"}
	}
	total := 0
	for n, p := range k.phases {
		if k.start[n] != total {
			return &ConfigurationError{Op: op, Msg: "species index ranges of phase " + p.Name() + " overlap"}
		}
		total += p.NSpecies()
	}
	if total != k.nSpecies {
		return &ConfigurationError{Op: op, Msg: "species count mismatch"}
	}

	nr := len(k.reactions)
	if len(k.isReactantInPhase) != nr || len(k.isProductInPhase) != nr || len(k.actE) != nr {
		return &InternalError{Op: op, Msg: "reaction bookkeeping arrays do not match the reaction count"}
	}
	for _, i := range append(append([]int{}, k.revIndex...), k.irrev...) {
		if i < 0 || i >= nr {
			return &InternalError{Op: op, Msg: "reversibility index " + strconv.Itoa(i) + " out of range"}
		}
	}
	for _, e := range k.electro {
		if e.rxn < 0 || e.rxn >= nr {
			return &InternalError{Op: op, Msg: "electrochemical reaction index " + strconv.Itoa(e.rxn) + " out of range"}
		}
	}

	k.ensureStoich()
	for _, m := range []*stoich.Manager{k.reactants, k.products, k.revProducts} {
		if err := m.Finalize(nr); err != nil {
			return &InternalError{Op: op, Msg: err.Error()}
		}
	}

	nk := k.nSpecies
	k.actConc = make([]float64, nk)
	k.conc = make([]float64, nk)
	k.mu0 = make([]float64, nk)
	k.mu = make([]float64, nk)
	k.mu0Kc = make([]float64, nk)
	k.pot = make([]float64, nk)
	k.stdConc = make([]float64, nk)
	k.grt = make([]float64, nk)
	k.theta = make([]float64, rp.NSpecies())

	n := nr
	if n == 0 {
		n = 1
	}
	k.rfn = make([]float64, n)
	k.rkcn = make([]float64, n)
	k.ropf = make([]float64, n)
	k.ropr = make([]float64, n)
	k.ropnet = make([]float64, n)
	k.deltaG0 = make([]float64, n)
	k.deltaG = make([]float64, n)
	k.prodStdConcReac = make([]float64, n)
	k.deltaElectricEnergy = make([]float64, n)
	k.kc = make([]float64, n)
	k.perturb = make([]float64, n)
	for i := range k.perturb {
		k.perturb[i] = 1
	}

	k.state = newRateState(len(k.phases))
	k.finalized = true

	k.Log.WithFields(logrus.Fields{
		"phases":        len(k.phases),
		"species":       nk,
		"reactions":     nr,
		"reactionPhase": rp.Name(),
		"dimension":     rp.NDim(),
	}).Debug("surfkin: finalized kinetics")
	return nil
}

// Ready reports whether Finalize has completed.
func (k *Kinetics) Ready() bool { return k.finalized }

// Clone returns a deep copy of k bound to phases, which must match the
// phases of k in number, order, species counts and dimensionality. The
// copy has its own caches and constructs its own coverage integrator when
// one is needed.
func (k *Kinetics) Clone(phases ...Phase) (*Kinetics, error) {
	const op = "Clone"
	if len(phases) != len(k.phases) {
		return nil, usageErrorf(op, "have %d phases, need %d", len(phases), len(k.phases))
	}
	for n, p := range phases {
		if p == nil || p.NSpecies() != k.phases[n].NSpecies() || p.NDim() != k.phases[n].NDim() {
			return nil, usageErrorf(op, "phase %d does not match phase %s", n, k.phases[n].Name())
		}
	}
	if k.finalized {
		if _, ok := phases[k.rxnPhase].(SurfacePhase); !ok {
			return nil, usageErrorf(op, "phase %d is not a surface phase", k.rxnPhase)
		}
	}

	c := *k
	c.phases = append([]Phase(nil), phases...)
	c.start = append([]int(nil), k.start...)
	c.reactions = make([]*Reaction, len(k.reactions))
	for i, r := range k.reactions {
		c.reactions[i] = r.clone()
	}
	c.rates = k.rates.clone()
	c.sticking = k.sticking.clone()
	if k.reactants != nil {
		c.reactants = k.reactants.Clone()
		c.products = k.products.Clone()
		c.revProducts = k.revProducts.Clone()
	}
	c.revIndex = append([]int(nil), k.revIndex...)
	c.irrev = append([]int(nil), k.irrev...)
	c.electro = append([]electroRxn(nil), k.electro...)
	c.isReactantInPhase = cloneBools(k.isReactantInPhase)
	c.isProductInPhase = cloneBools(k.isProductInPhase)
	c.phaseExists = append([]bool(nil), k.phaseExists...)
	c.phaseIsStable = append([]bool(nil), k.phaseIsStable...)
	c.state = k.state.clone()
	// The new phases may hold different state than the old ones.
	c.state.invalidate()

	for _, s := range []*[]float64{&c.actE, &c.perturb, &c.actConc, &c.conc, &c.mu0, &c.mu,
		&c.mu0Kc, &c.pot, &c.stdConc, &c.grt, &c.theta, &c.rfn, &c.rkcn, &c.ropf, &c.ropr,
		&c.ropnet, &c.deltaG0, &c.deltaG, &c.prodStdConcReac, &c.deltaElectricEnergy, &c.kc} {
		*s = append([]float64(nil), (*s)...)
	}
	c.integrator = nil
	return &c, nil
}

func cloneBools(b [][]bool) [][]bool {
	o := make([][]bool, len(b))
	for i, row := range b {
		o[i] = append([]bool(nil), row...)
	}
	return o
}

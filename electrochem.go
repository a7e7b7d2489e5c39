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

	"github.com/sirupsen/logrus"
)

// ExchangeCurrentToRateConstant converts a rate constant given as an
// exchange current density into a mass-action forward rate constant.
// dG0 is the standard Gibbs energy change of the reaction [J/mol],
// prodStdConc the product of the reactant standard concentrations raised
// to their orders, beta the symmetry factor, and rt the product RT.
func ExchangeCurrentToRateConstant(kECD, dG0, prodStdConc, beta, rt float64) float64 {
	return kECD * math.Exp(-beta*dG0/rt) / (prodStdConc * Faraday)
}

// RateConstantToExchangeCurrent is the inverse of
// ExchangeCurrentToRateConstant: kf·exp(+β·ΔG°/RT)·F·prodStdConc. The
// exponent divides by RT in both directions, so converting back and forth
// reproduces the original rate constant; a literal exp(+β·ΔG°·RT) would
// not.
func RateConstantToExchangeCurrent(kf, dG0, prodStdConc, beta, rt float64) float64 {
	return kf * math.Exp(beta*dG0/rt) * Faraday * prodStdConc
}

// updateExchangeCurrentQuantities computes the standard chemical
// potentials and standard concentrations of all species, the standard
// Gibbs energy change of each reaction, and the product of the reactant
// standard concentrations.
func (k *Kinetics) updateExchangeCurrentQuantities() {
	for n, p := range k.phases {
		s, ns := k.start[n], p.NSpecies()
		p.StandardChemPotentials(k.mu0[s : s+ns])
		for i := 0; i < ns; i++ {
			k.stdConc[s+i] = p.StandardConcentration(i)
		}
	}
	k.reactionDelta(k.mu0, k.deltaG0)
	for i := range k.prodStdConcReac {
		k.prodStdConcReac[i] = 1
	}
	k.reactants.Multiply(k.stdConc, k.prodStdConcReac)
}

// convertExchangeCurrentDensity puts the rate constant of each
// electrochemical reaction into the convention its rate law uses:
// mass-action constants for reactions given as exchange current densities
// and evaluated in forward/reverse form, and exchange current densities
// for Butler-Volmer reactions given as mass-action constants.
func (k *Kinetics) convertExchangeCurrentDensity(kf []float64) {
	k.updateExchangeCurrentQuantities()
	rt := k.rt()
	for _, e := range k.electro {
		i := e.rxn
		switch {
		case e.ecd && !e.bvForm:
			kf[i] = ExchangeCurrentToRateConstant(kf[i], k.deltaG0[i], k.prodStdConcReac[i], e.beta, rt)
		case !e.ecd && e.bvForm:
			kf[i] = RateConstantToExchangeCurrent(kf[i], k.deltaG0[i], k.prodStdConcReac[i], e.beta, rt)
		}
	}
}

// applyVoltageCorrection shifts the activation energy of electrochemical
// reactions that are not evaluated in Butler-Volmer form by β times the
// change in electrical potential energy across the reaction.
func (k *Kinetics) applyVoltageCorrection(kf []float64) {
	for n, p := range k.phases {
		s := k.start[n]
		for i := 0; i < p.NSpecies(); i++ {
			k.pot[s+i] = Faraday * p.Charge(i) * k.state.potentials[n]
		}
	}
	k.reactionDelta(k.pot, k.deltaElectricEnergy)

	rt := k.rt()
	for _, e := range k.electro {
		if e.bvForm {
			continue
		}
		eamod := e.beta * k.deltaElectricEnergy[e.rxn]
		if eamod == 0 {
			continue
		}
		kf[e.rxn] *= math.Exp(-eamod / rt)
		if ea := k.rates.rates[e.rxn].ActivationEnergy(); ea+eamod < 0 {
			k.Log.WithFields(logrus.Fields{
				"reaction":         k.reactions[e.rxn].String(),
				"activationEnergy": ea,
				"shift":            eamod,
			}).Debug("surfkin: electric potential lowers activation energy below zero")
		}
	}
}

// ElectrochemBeta returns the symmetry factor of reaction i, or 0 if
// reaction i is not electrochemical.
func (k *Kinetics) ElectrochemBeta(i int) float64 {
	for _, e := range k.electro {
		if e.rxn == i {
			return e.beta
		}
	}
	return 0
}

// ButlerVolmerOrders writes to out, for each kinetics species, the
// forward reaction order of electrochemical reaction i once the
// Butler-Volmer terms β·ν are removed from the explicit orders. Orders
// smaller in magnitude than 1e-5 are set to zero.
func (k *Kinetics) ButlerVolmerOrders(i int, out []float64) error {
	const op = "ButlerVolmerOrders"
	if i < 0 || i >= len(k.reactions) {
		return usageErrorf(op, "reaction index %d out of range [0,%d)", i, len(k.reactions))
	}
	if err := checkLen(op, "out", len(out), k.nSpecies); err != nil {
		return err
	}
	r := k.reactions[i]
	if !r.IsElectrochemical() {
		return &UsageError{Op: op, Reaction: r.String(), Msg: "reaction is not electrochemical"}
	}
	beta := k.ElectrochemBeta(i)
	for j := range out[:k.nSpecies] {
		out[j] = 0
	}
	for name, o := range r.Orders {
		out[k.KineticsSpeciesIndex(name)] = o
	}
	clean := func(j int) {
		if math.Abs(out[j]) < 1e-5 {
			out[j] = 0
		}
	}
	for _, p := range r.Reactants {
		j := k.KineticsSpeciesIndex(p.Species)
		out[j] += beta * p.Coef
		clean(j)
	}
	for _, p := range r.Products {
		j := k.KineticsSpeciesIndex(p.Species)
		out[j] -= beta * p.Coef
		clean(j)
	}
	return nil
}

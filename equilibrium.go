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
)

// reactionDelta writes Σ products − Σ reactants of the per-species
// quantity x to out, for every reaction.
func (k *Kinetics) reactionDelta(x, out []float64) {
	for i := range out[:len(k.reactions)] {
		out[i] = 0
	}
	k.products.IncrementReactions(x, out)
	k.reactants.DecrementReactions(x, out)
}

// revReactionDelta is reactionDelta restricted to reversible reactions;
// irreversible reactions get the negated reactant sum.
func (k *Kinetics) revReactionDelta(x, out []float64) {
	for i := range out[:len(k.reactions)] {
		out[i] = 0
	}
	k.revProducts.IncrementReactions(x, out)
	k.reactants.DecrementReactions(x, out)
}

// updateMu0 computes the standard chemical potentials and the
// electrochemical standard potentials used for equilibrium constants:
// μ°_k + F φ z_k − RT ln(c°_k).
func (k *Kinetics) updateMu0() {
	k.observePotentials()
	k.updateExchangeCurrentQuantities()
	rt := k.rt()
	for n, p := range k.phases {
		s := k.start[n]
		for i := 0; i < p.NSpecies(); i++ {
			k.mu0Kc[s+i] = k.mu0[s+i] + Faraday*k.state.potentials[n]*p.Charge(i) -
				rt*p.LogStandardConcentration(i)
		}
	}
}

// updateKc computes the reverse multiplier 1/Kc of each reversible
// reaction; irreversible reactions get exactly zero.
func (k *Kinetics) updateKc() error {
	for i := range k.rkcn {
		k.rkcn[i] = 0
	}
	if len(k.revIndex) == 0 {
		return nil
	}
	k.updateMu0()
	rrt := 1 / k.rt()
	k.revReactionDelta(k.mu0Kc, k.rkcn)
	nr := len(k.reactions)
	for _, i := range k.revIndex {
		if i < 0 || i >= nr {
			return &InternalError{Op: "updateKc", Msg: "illegal reversible reaction index"}
		}
		k.rkcn[i] = math.Exp(k.rkcn[i] * rrt)
	}
	for _, i := range k.irrev {
		k.rkcn[i] = 0
	}
	return nil
}

// EquilibriumConstants writes the concentration-based equilibrium
// constant of each reaction to kc, including the effect of phase
// electric potentials.
func (k *Kinetics) EquilibriumConstants(kc []float64) error {
	const op = "EquilibriumConstants"
	if !k.finalized {
		return notFinalized(op)
	}
	if err := checkLen(op, "kc", len(kc), len(k.reactions)); err != nil {
		return err
	}
	k.updateMu0()
	rrt := 1 / k.rt()
	k.reactionDelta(k.mu0Kc, kc)
	for i := range kc[:len(k.reactions)] {
		kc[i] = math.Exp(-kc[i] * rrt)
	}
	return nil
}

// speciesDelta fills the species work array phase by phase with get,
// scales it, and writes the reaction deltas to out.
func (k *Kinetics) speciesDelta(op string, out, work []float64, scale float64, get func(p Phase, dst []float64)) error {
	if !k.finalized {
		return notFinalized(op)
	}
	if err := checkLen(op, "out", len(out), len(k.reactions)); err != nil {
		return err
	}
	for n, p := range k.phases {
		s := k.start[n]
		get(p, work[s:s+p.NSpecies()])
	}
	if scale != 1 {
		for i := range work {
			work[i] *= scale
		}
	}
	k.reactionDelta(work, out)
	return nil
}

// DeltaGibbs writes the Gibbs energy change of each reaction [J/mol].
func (k *Kinetics) DeltaGibbs(out []float64) error {
	if err := k.speciesDelta("DeltaGibbs", k.deltaG, k.mu, 1, Phase.ChemPotentials); err != nil {
		return err
	}
	if err := checkLen("DeltaGibbs", "out", len(out), len(k.reactions)); err != nil {
		return err
	}
	copy(out, k.deltaG[:len(k.reactions)])
	return nil
}

// DeltaElectrochemPotentials writes the electrochemical potential change
// of each reaction [J/mol].
func (k *Kinetics) DeltaElectrochemPotentials(out []float64) error {
	return k.speciesDelta("DeltaElectrochemPotentials", out, k.grt, 1, Phase.ElectrochemPotentials)
}

// DeltaEnthalpy writes the enthalpy change of each reaction [J/mol].
func (k *Kinetics) DeltaEnthalpy(out []float64) error {
	return k.speciesDelta("DeltaEnthalpy", out, k.grt, 1, Phase.PartialMolarEnthalpies)
}

// DeltaEntropy writes the entropy change of each reaction [J/mol/K].
func (k *Kinetics) DeltaEntropy(out []float64) error {
	return k.speciesDelta("DeltaEntropy", out, k.grt, 1, Phase.PartialMolarEntropies)
}

// DeltaSSGibbs writes the standard-state Gibbs energy change of each
// reaction [J/mol].
func (k *Kinetics) DeltaSSGibbs(out []float64) error {
	return k.speciesDelta("DeltaSSGibbs", out, k.mu0, 1, Phase.StandardChemPotentials)
}

// DeltaSSEnthalpy writes the standard-state enthalpy change of each
// reaction [J/mol].
func (k *Kinetics) DeltaSSEnthalpy(out []float64) error {
	if !k.finalized {
		return notFinalized("DeltaSSEnthalpy")
	}
	return k.speciesDelta("DeltaSSEnthalpy", out, k.grt, k.rt(), Phase.EnthalpiesRT)
}

// DeltaSSEntropy writes the standard-state entropy change of each
// reaction [J/mol/K].
func (k *Kinetics) DeltaSSEntropy(out []float64) error {
	return k.speciesDelta("DeltaSSEntropy", out, k.grt, GasConstant, Phase.EntropiesR)
}

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
	"github.com/gonum/floats"
)

// ComputeRatesOfProgress brings the forward, reverse and net rates of
// progress up to date with the current state of the phases.
func (k *Kinetics) ComputeRatesOfProgress() error {
	if !k.finalized {
		return notFinalized("ComputeRatesOfProgress")
	}
	if err := k.refreshRateConstants(); err != nil {
		return err
	}
	k.refreshConcentrations()
	if k.state.ratesValid {
		return nil
	}

	floats.MulTo(k.ropf, k.rfn, k.perturb)
	floats.MulTo(k.ropr, k.ropf, k.rkcn)
	k.reactants.Multiply(k.actConc, k.ropf)
	k.revProducts.Multiply(k.actConc, k.ropr)
	floats.SubTo(k.ropnet, k.ropf, k.ropr)

	if k.gateActive() {
		k.applyPhaseGate()
	}
	k.state.ratesValid = true
	return nil
}

// reactionOutput computes the rates of progress and copies src into out.
func (k *Kinetics) reactionOutput(op string, out, src []float64) error {
	if !k.finalized {
		return notFinalized(op)
	}
	if err := checkLen(op, "out", len(out), len(k.reactions)); err != nil {
		return err
	}
	if err := k.ComputeRatesOfProgress(); err != nil {
		return err
	}
	copy(out, src[:len(k.reactions)])
	return nil
}

// FwdRatesOfProgress writes the forward rate of progress of each reaction.
func (k *Kinetics) FwdRatesOfProgress(out []float64) error {
	return k.reactionOutput("FwdRatesOfProgress", out, k.ropf)
}

// RevRatesOfProgress writes the reverse rate of progress of each reaction.
func (k *Kinetics) RevRatesOfProgress(out []float64) error {
	return k.reactionOutput("RevRatesOfProgress", out, k.ropr)
}

// NetRatesOfProgress writes the net rate of progress of each reaction.
func (k *Kinetics) NetRatesOfProgress(out []float64) error {
	return k.reactionOutput("NetRatesOfProgress", out, k.ropnet)
}

// FwdRateConstants writes the forward rate constant of each reaction,
// including the rate multiplier.
func (k *Kinetics) FwdRateConstants(kf []float64) error {
	const op = "FwdRateConstants"
	if err := k.reactionOutput(op, kf, k.rfn); err != nil {
		return err
	}
	n := len(k.reactions)
	floats.Mul(kf[:n], k.perturb[:n])
	return nil
}

// RevRateConstants writes the reverse rate constant of each reaction.
// When includeIrreversible is true the reverse rate constant of every
// reaction, reversible or not, is kf/Kc; otherwise irreversible reactions
// get zero.
func (k *Kinetics) RevRateConstants(krev []float64, includeIrreversible bool) error {
	if err := k.FwdRateConstants(krev); err != nil {
		return err
	}
	n := len(k.reactions)
	if includeIrreversible {
		if err := k.EquilibriumConstants(k.kc); err != nil {
			return err
		}
		floats.Div(krev[:n], k.kc[:n])
		return nil
	}
	floats.Mul(krev[:n], k.rkcn[:n])
	return nil
}

// speciesOutput computes the rates of progress and writes to out the
// per-species rates built by fill.
func (k *Kinetics) speciesOutput(op string, out []float64, fill func(out []float64)) error {
	if !k.finalized {
		return notFinalized(op)
	}
	if err := checkLen(op, "out", len(out), k.nSpecies); err != nil {
		return err
	}
	if err := k.ComputeRatesOfProgress(); err != nil {
		return err
	}
	for i := range out[:k.nSpecies] {
		out[i] = 0
	}
	fill(out)
	return nil
}

// CreationRates writes the creation rate of each kinetics species.
func (k *Kinetics) CreationRates(out []float64) error {
	return k.speciesOutput("CreationRates", out, func(out []float64) {
		k.products.IncrementSpecies(k.ropf, out)
		k.reactants.IncrementSpecies(k.ropr, out)
	})
}

// DestructionRates writes the destruction rate of each kinetics species.
func (k *Kinetics) DestructionRates(out []float64) error {
	return k.speciesOutput("DestructionRates", out, func(out []float64) {
		k.reactants.IncrementSpecies(k.ropf, out)
		k.products.IncrementSpecies(k.ropr, out)
	})
}

// NetProductionRates writes the net production rate of each kinetics
// species.
func (k *Kinetics) NetProductionRates(out []float64) error {
	return k.speciesOutput("NetProductionRates", out, func(out []float64) {
		k.products.IncrementSpecies(k.ropnet, out)
		k.reactants.DecrementSpecies(k.ropnet, out)
	})
}

// Multiplier returns the rate multiplier of reaction i.
func (k *Kinetics) Multiplier(i int) (float64, error) {
	if err := k.checkReaction("Multiplier", i); err != nil {
		return 0, err
	}
	return k.perturb[i], nil
}

// SetMultiplier sets the factor that multiplies the forward rate
// constant of reaction i.
func (k *Kinetics) SetMultiplier(i int, f float64) error {
	if err := k.checkReaction("SetMultiplier", i); err != nil {
		return err
	}
	k.perturb[i] = f
	k.state.ratesValid = false
	return nil
}

func (k *Kinetics) checkReaction(op string, i int) error {
	if !k.finalized {
		return notFinalized(op)
	}
	if i < 0 || i >= len(k.reactions) {
		return usageErrorf(op, "reaction index %d out of range [0,%d)", i, len(k.reactions))
	}
	return nil
}

// SetElectricPotential sets the electric potential of phase n [V].
func (k *Kinetics) SetElectricPotential(n int, v float64) error {
	if err := k.checkPhase("SetElectricPotential", n); err != nil {
		return err
	}
	k.phases[n].SetElectricPotential(v)
	return nil
}

// ActivationEnergies writes the activation energy of each reaction as
// registered [J/mol].
func (k *Kinetics) ActivationEnergies(out []float64) error {
	if err := checkLen("ActivationEnergies", "out", len(out), len(k.reactions)); err != nil {
		return err
	}
	copy(out, k.actE)
	return nil
}

// ActivityConcentrations writes the activity concentration of each
// kinetics species.
func (k *Kinetics) ActivityConcentrations(out []float64) error {
	return k.concentrationOutput("ActivityConcentrations", out, k.actConc)
}

// Concentrations writes the concentration of each kinetics species.
func (k *Kinetics) Concentrations(out []float64) error {
	return k.concentrationOutput("Concentrations", out, k.conc)
}

func (k *Kinetics) concentrationOutput(op string, out, src []float64) error {
	if !k.finalized {
		return notFinalized(op)
	}
	if err := checkLen(op, "out", len(out), k.nSpecies); err != nil {
		return err
	}
	k.refreshConcentrations()
	copy(out, src)
	return nil
}

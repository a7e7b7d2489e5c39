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

// SetPhaseExistence marks phase n as present or absent. A phase that
// does not exist is also unstable; a phase that exists is stable.
func (k *Kinetics) SetPhaseExistence(n int, exists bool) error {
	if err := k.checkPhase("SetPhaseExistence", n); err != nil {
		return err
	}
	if exists {
		if !k.phaseExists[n] {
			k.phaseExistsCheck--
			if k.phaseExistsCheck < 0 {
				k.phaseExistsCheck = 0
			}
			k.phaseExists[n] = true
		}
		k.phaseIsStable[n] = true
	} else {
		if k.phaseExists[n] {
			k.phaseExistsCheck++
			k.phaseExists[n] = false
		}
		k.phaseIsStable[n] = false
	}
	k.state.ratesValid = false
	return nil
}

// PhaseExistence reports whether phase n exists.
func (k *Kinetics) PhaseExistence(n int) (bool, error) {
	if err := k.checkPhase("PhaseExistence", n); err != nil {
		return false, err
	}
	return k.phaseExists[n], nil
}

// SetPhaseStability marks phase n as stable or unstable.
func (k *Kinetics) SetPhaseStability(n int, stable bool) error {
	if err := k.checkPhase("SetPhaseStability", n); err != nil {
		return err
	}
	k.phaseIsStable[n] = stable
	k.state.ratesValid = false
	return nil
}

// PhaseStability reports whether phase n is stable.
func (k *Kinetics) PhaseStability(n int) (bool, error) {
	if err := k.checkPhase("PhaseStability", n); err != nil {
		return false, err
	}
	return k.phaseIsStable[n], nil
}

func (k *Kinetics) checkPhase(op string, n int) error {
	if n < 0 || n >= len(k.phases) {
		return usageErrorf(op, "phase index %d out of range [0,%d)", n, len(k.phases))
	}
	return nil
}

// gateActive reports whether any phase is absent or unstable.
func (k *Kinetics) gateActive() bool {
	if k.phaseExistsCheck > 0 {
		return true
	}
	for _, s := range k.phaseIsStable {
		if !s {
			return true
		}
	}
	return false
}

// applyPhaseGate adjusts the rates of progress of reactions that would
// consume an absent phase or produce into a phase that cannot receive
// material. Afterwards ropnet == ropf − ropr still holds for every
// reaction.
func (k *Kinetics) applyPhaseGate() {
	np := len(k.phases)
	for j := range k.reactions {
		isR, isP := k.isReactantInPhase[j], k.isProductInPhase[j]
		if k.phaseExistsCheck > 0 {
			switch {
			case k.ropr[j] > k.ropf[j] && k.ropr[j] > 0:
				// Net reverse: products are consumed.
				for p := 0; p < np; p++ {
					if isP[p] && !k.phaseExists[p] {
						k.ropnet[j] = 0
						k.ropr[j] = k.ropf[j]
						if k.ropf[j] > 0 {
							for rp := 0; rp < np; rp++ {
								if isR[rp] && !k.phaseExists[rp] {
									k.ropnet[j] = 0
									k.ropr[j], k.ropf[j] = 0, 0
								}
							}
						}
					}
				}
			case k.ropf[j] > k.ropr[j] && k.ropf[j] > 0:
				// Net forward: reactants are consumed.
				for p := 0; p < np; p++ {
					if isR[p] && !k.phaseExists[p] {
						k.ropnet[j] = 0
						k.ropf[j] = k.ropr[j]
						if k.ropf[j] > 0 {
							for rp := 0; rp < np; rp++ {
								if isP[rp] && !k.phaseExists[rp] {
									k.ropnet[j] = 0
									k.ropf[j], k.ropr[j] = 0, 0
								}
							}
						}
					}
				}
			}
		}
		for p := 0; p < np; p++ {
			if isR[p] && !k.phaseIsStable[p] {
				k.ropnet[j] = 0
				k.ropr[j] = k.ropf[j]
			}
			if isP[p] && !k.phaseIsStable[p] {
				k.ropnet[j] = 0
				k.ropf[j] = k.ropr[j]
			}
		}
	}
}

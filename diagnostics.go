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

// CheckPartialEquilibrium writes to out, for each reaction, the change
// in electrochemical potential across the reaction divided by RT.
// Irreversible reactions get the negated reactant sum. For each
// reversible reaction it also logs the rates of progress and the ratio of
// net to forward rate, which is small for reactions near equilibrium.
func (k *Kinetics) CheckPartialEquilibrium(out []float64) error {
	const op = "CheckPartialEquilibrium"
	if !k.finalized {
		return notFinalized(op)
	}
	if err := checkLen(op, "out", len(out), len(k.reactions)); err != nil {
		return err
	}
	for n, p := range k.phases {
		s := k.start[n]
		p.ElectrochemPotentials(k.mu[s : s+p.NSpecies()])
	}
	k.revReactionDelta(k.mu, k.deltaG)
	if err := k.ComputeRatesOfProgress(); err != nil {
		return err
	}
	rrt := 1 / k.rt()
	for i := range k.reactions {
		out[i] = k.deltaG[i] * rrt
	}
	for _, i := range k.revIndex {
		ratio := math.NaN()
		if k.ropf[i] != 0 {
			ratio = k.ropnet[i] / k.ropf[i]
		}
		k.Log.WithFields(logrus.Fields{
			"reaction": k.reactions[i].String(),
			"dmuRT":    out[i],
			"ropf":     k.ropf[i],
			"ropr":     k.ropr[i],
			"ropnet":   k.ropnet[i],
			"ratio":    ratio,
		}).Info("surfkin: partial equilibrium")
	}
	return nil
}

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

	"github.com/gonum/floats"
	"github.com/sirupsen/logrus"
)

// rateState records the inputs from which the cached rate constants and
// rates of progress were computed.
type rateState struct {
	temp, logTemp float64
	rt            float64   // RT of the first phase
	potentials    []float64 // electric potential of each phase
	siteDensity   float64

	// constantsValid is true when the forward rate constants and
	// reverse multipliers match temp, potentials and coverages.
	constantsValid bool

	// ratesValid is true when the rates of progress match the rate
	// constants and the current concentrations.
	ratesValid bool

	lastActConc []float64
}

func newRateState(nPhases int) rateState {
	return rateState{potentials: make([]float64, nPhases)}
}

// invalidate marks all cached quantities stale.
func (s *rateState) invalidate() {
	s.constantsValid = false
	s.ratesValid = false
}

func (s rateState) clone() rateState {
	s.potentials = append([]float64(nil), s.potentials...)
	s.lastActConc = append([]float64(nil), s.lastActConc...)
	return s
}

// InvalidateCache forces rate constants and rates of progress to be
// recomputed on the next query. Changes to temperature, electric
// potential, site density and concentrations are detected automatically;
// other changes to phase state that affect standard-state properties,
// such as bulk pressure, are not.
func (k *Kinetics) InvalidateCache() {
	k.state.invalidate()
}

// observePotentials records the electric potential of each phase and
// marks the rate constants stale if any of them changed.
func (k *Kinetics) observePotentials() {
	for n, p := range k.phases {
		if v := p.ElectricPotential(); v != k.state.potentials[n] {
			k.state.potentials[n] = v
			k.state.constantsValid = false
		}
	}
}

// refreshRateConstants recomputes the forward rate constants and the
// reverse multipliers when the temperature of the reaction phase or of
// the first phase, a phase potential, the site density or (for
// coverage-dependent rates) the coverages have changed.
func (k *Kinetics) refreshRateConstants() error {
	k.observePotentials()
	surf := k.surface()
	if k.rates.coverageDependence {
		surf.Coverages(k.theta)
		k.rates.updateCoverages(k.theta)
		k.state.constantsValid = false
	}
	if n0 := surf.SiteDensity(); n0 != k.state.siteDensity {
		k.state.siteDensity = n0
		k.state.constantsValid = false
	}

	if rt := k.rt(); rt != k.state.rt {
		k.state.rt = rt
		k.state.constantsValid = false
	}

	t := surf.Temperature()
	if t == k.state.temp && k.state.constantsValid {
		return nil
	}
	k.state.temp = t
	k.state.logTemp = math.Log(t)

	k.rates.evaluate(t, k.state.logTemp, k.rfn)
	k.sticking.apply(k.state.siteDensity, k.rfn)
	if k.needsECDConversion {
		k.convertExchangeCurrentDensity(k.rfn)
	}
	if k.needsVoltageCorrection {
		k.applyVoltageCorrection(k.rfn)
	}
	if err := k.updateKc(); err != nil {
		return err
	}
	k.state.constantsValid = true
	k.state.ratesValid = false

	k.Log.WithFields(logrus.Fields{
		"T":          t,
		"potentials": k.state.potentials,
	}).Debug("surfkin: refreshed rate constants")
	return nil
}

// refreshConcentrations reads the activity concentrations and
// concentrations of every phase and marks the rates of progress stale if
// the activity concentrations changed.
func (k *Kinetics) refreshConcentrations() {
	for n, p := range k.phases {
		s, e := k.start[n], k.start[n]+p.NSpecies()
		p.ActivityConcentrations(k.actConc[s:e])
		p.Concentrations(k.conc[s:e])
	}
	if len(k.state.lastActConc) != len(k.actConc) || !floats.Equal(k.state.lastActConc, k.actConc) {
		k.state.lastActConc = append(k.state.lastActConc[:0], k.actConc...)
		k.state.ratesValid = false
	}
}

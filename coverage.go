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
	"github.com/spatialmodel/surfkin/science/surfchem"
)

// coverageSystem presents the site fractions of the reaction phase to
// the coverage integrator.
type coverageSystem struct {
	k     *Kinetics
	surf  SurfacePhase
	omega []float64
}

func (s *coverageSystem) NEq() int { return s.surf.NSpecies() }

func (s *coverageSystem) State(y []float64) { s.surf.Coverages(y) }

func (s *coverageSystem) SetState(y []float64) error { return s.surf.SetCoverages(y) }

// Derivatives converts the molar production rates of the surface
// species into rates of change of their site fractions.
func (s *coverageSystem) Derivatives(ydot []float64) error {
	if err := s.k.NetProductionRates(s.omega); err != nil {
		return err
	}
	n0 := s.surf.SiteDensity()
	start := s.k.start[s.k.rxnPhase]
	for i := range ydot {
		ydot[i] = s.omega[start+i] * s.surf.Size(i) / n0
	}
	return nil
}

func (k *Kinetics) newIntegrator() (*surfchem.Integrator, error) {
	sys := &coverageSystem{
		k:     k,
		surf:  k.surface(),
		omega: make([]float64, k.nSpecies),
	}
	it, err := surfchem.New(sys, k.Integration)
	if err != nil {
		return nil, err
	}
	it.Log = k.Log
	return it, nil
}

// AdvanceCoverages integrates the site fractions of the reaction phase
// over dt seconds at fixed bulk-phase state. The phase is left holding
// the new coverages.
func (k *Kinetics) AdvanceCoverages(dt float64) error {
	if !k.finalized {
		return notFinalized("AdvanceCoverages")
	}
	if dt < 0 {
		return usageErrorf("AdvanceCoverages", "negative time step %g", dt)
	}
	if k.integrator == nil {
		it, err := k.newIntegrator()
		if err != nil {
			return err
		}
		k.integrator = it
	}
	_, err := k.integrator.Integrate(0, dt)
	k.integrator = nil
	return err
}

// SolvePseudoSteadyState integrates the site fractions of the reaction
// phase until they stop changing, for at most maxTime seconds. The
// integrator is kept for later calls.
func (k *Kinetics) SolvePseudoSteadyState(maxTime float64) (surfchem.Statistics, error) {
	if !k.finalized {
		return surfchem.Statistics{}, notFinalized("SolvePseudoSteadyState")
	}
	if k.integrator == nil {
		it, err := k.newIntegrator()
		if err != nil {
			return surfchem.Statistics{}, err
		}
		k.integrator = it
	}
	return k.integrator.SolvePseudoSteadyState(maxTime)
}

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

package surfchem

import (
	"errors"
	"math"
	"testing"

	"github.com/gonum/floats"
)

// relaxation is a linear system that relaxes y toward target.
type relaxation struct {
	y, target []float64
	rate      float64
}

func (r *relaxation) NEq() int          { return len(r.y) }
func (r *relaxation) State(y []float64) { copy(y, r.y) }
func (r *relaxation) SetState(y []float64) error {
	copy(r.y, y)
	return nil
}
func (r *relaxation) Derivatives(ydot []float64) error {
	for i := range r.y {
		ydot[i] = -r.rate * (r.y[i] - r.target[i])
	}
	return nil
}

func TestIntegrate(t *testing.T) {
	sys := &relaxation{y: []float64{1, 0}, target: []float64{0.3, 0.7}, rate: 2}
	it, err := New(sys, DefaultConfig())
	if err != nil {
		t.Fatal(err)
	}
	stats, err := it.Integrate(0, 1)
	if err != nil {
		t.Fatal(err)
	}
	if stats.CurrentTime != 1 {
		t.Errorf("current time = %g, want 1", stats.CurrentTime)
	}
	if stats.StepCount == 0 || stats.EvaluationCount == 0 {
		t.Errorf("no work recorded: %+v", stats)
	}
	for i, target := range sys.target {
		want := target + ([]float64{1, 0}[i]-target)*math.Exp(-2)
		if !floats.EqualWithinAbsOrRel(sys.y[i], want, 1e-3, 1e-2) {
			t.Errorf("y[%d] = %g, want %g", i, sys.y[i], want)
		}
	}
}

func TestSolvePseudoSteadyState(t *testing.T) {
	sys := &relaxation{y: []float64{1, 0}, target: []float64{0.3, 0.7}, rate: 10}
	it, err := New(sys, DefaultConfig())
	if err != nil {
		t.Fatal(err)
	}
	if _, err := it.SolvePseudoSteadyState(1e4); err != nil {
		t.Fatal(err)
	}
	if !floats.EqualApprox(sys.y, sys.target, 1e-6) {
		t.Errorf("have %v, want %v", sys.y, sys.target)
	}
}

func TestMaxSteps(t *testing.T) {
	sys := &relaxation{y: []float64{1}, target: []float64{0}, rate: 1}
	cfg := DefaultConfig()
	cfg.MaxStepCount = 2
	cfg.MaxStepSize = 1e-3
	it, err := New(sys, cfg)
	if err != nil {
		t.Fatal(err)
	}
	if _, err := it.Integrate(0, 1); err != ErrMaxSteps {
		t.Errorf("err = %v, want %v", err, ErrMaxSteps)
	}
}

func TestNotConverged(t *testing.T) {
	sys := &relaxation{y: []float64{1}, target: []float64{0}, rate: 1}
	it, err := New(sys, DefaultConfig())
	if err != nil {
		t.Fatal(err)
	}
	if _, err := it.SolvePseudoSteadyState(1e-3); err != ErrNotConverged {
		t.Errorf("err = %v, want %v", err, ErrNotConverged)
	}
}

func TestConfigValidation(t *testing.T) {
	sys := &relaxation{y: []float64{1}, target: []float64{0}, rate: 1}
	cfg := DefaultConfig()
	cfg.RelativeTolerance = 0
	if _, err := New(sys, cfg); err == nil {
		t.Error("expected error for zero tolerance")
	}
	if _, err := New(&relaxation{}, DefaultConfig()); err == nil {
		t.Error("expected error for empty system")
	}
}

// A slow relaxation must not be reported as steady after the first short
// horizon.
func TestSteadyStateSlowRelaxation(t *testing.T) {
	sys := &relaxation{y: []float64{1}, target: []float64{0}, rate: 1}
	it, err := New(sys, DefaultConfig())
	if err != nil {
		t.Fatal(err)
	}
	stats, err := it.SolvePseudoSteadyState(1e4)
	if err != nil {
		t.Fatal(err)
	}
	if stats.CurrentTime < 10 {
		t.Errorf("declared steady at t = %g", stats.CurrentTime)
	}
	if math.Abs(sys.y[0]) > 1e-5 {
		t.Errorf("y = %g, want 0", sys.y[0])
	}
}

var errEval = errors.New("evaluation failed")

// failing evaluates a relaxation but fails after a number of calls.
type failing struct {
	relaxation
	calls, failAt int
}

func (f *failing) Derivatives(ydot []float64) error {
	f.calls++
	if f.calls >= f.failAt {
		return errEval
	}
	return f.relaxation.Derivatives(ydot)
}

func TestFailedEvaluationRestoresState(t *testing.T) {
	// Calls 1 and 2 are the step start and the Jacobian; the corrector's
	// trial iterates follow.
	sys := &failing{relaxation: relaxation{y: []float64{1}, target: []float64{0}, rate: 1}, failAt: 4}
	it, err := New(sys, DefaultConfig())
	if err != nil {
		t.Fatal(err)
	}
	if _, err := it.Integrate(0, 1); !errors.Is(err, errEval) {
		t.Fatalf("err = %v, want %v", err, errEval)
	}
	if sys.y[0] != 1 {
		t.Errorf("state after failure = %g, want 1", sys.y[0])
	}
}

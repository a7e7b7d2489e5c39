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

// Package surfchem integrates surface site fractions forward in time with
// an implicit (backward Euler) method, and finds pseudo-steady states in
// which the surface composition no longer changes.
package surfchem

import (
	"errors"
	"fmt"
	"math"

	"github.com/gonum/floats"
	"github.com/sirupsen/logrus"
	"gonum.org/v1/gonum/diff/fd"
	"gonum.org/v1/gonum/mat"
)

var (
	// ErrStepTooSmall indicates that the step size fell below
	// Config.MinStepSize.
	ErrStepTooSmall = errors.New("surfchem: step size below minimum")

	// ErrMaxSteps indicates that Config.MaxStepCount steps were taken
	// before the end time was reached.
	ErrMaxSteps = errors.New("surfchem: maximum step count reached")

	// ErrNotConverged indicates that no pseudo-steady state was found
	// within the allowed time.
	ErrNotConverged = errors.New("surfchem: pseudo-steady state not reached")
)

// System is a set of site fractions whose rates of change can be
// evaluated. Derivatives must reflect the most recent SetState call.
type System interface {
	// NEq returns the number of equations.
	NEq() int

	// State writes the current site fractions to y.
	State(y []float64)

	// SetState sets the site fractions.
	SetState(y []float64) error

	// Derivatives writes the time derivative of each site fraction.
	Derivatives(ydot []float64) error
}

// Config holds integration settings.
type Config struct {
	// InitialStepSize, if > 0, is the size of the first step [s].
	InitialStepSize float64

	// MinStepSize, if > 0, is the smallest step size allowed before
	// integration fails.
	MinStepSize float64

	// MaxStepSize, if > 0, limits the step size.
	MaxStepSize float64

	AbsoluteTolerance float64
	RelativeTolerance float64

	// MaxStepCount, if > 0, limits the number of steps in one call.
	MaxStepCount int

	// MaxNewtonIterations limits the corrector iterations in each step.
	MaxNewtonIterations int
}

// DefaultConfig returns the default integration settings.
func DefaultConfig() Config {
	return Config{
		InitialStepSize:     1.0e-9,
		MinStepSize:         1.0e-22,
		AbsoluteTolerance:   1.0e-10,
		RelativeTolerance:   1.0e-5,
		MaxStepCount:        20000,
		MaxNewtonIterations: 8,
	}
}

func (c Config) validate() error {
	if c.AbsoluteTolerance <= 0 || c.RelativeTolerance <= 0 {
		return fmt.Errorf("surfchem: tolerances must be positive (absolute %g, relative %g)",
			c.AbsoluteTolerance, c.RelativeTolerance)
	}
	if c.MaxNewtonIterations <= 0 {
		return fmt.Errorf("surfchem: MaxNewtonIterations must be positive")
	}
	if c.MaxStepSize > 0 && c.MinStepSize > c.MaxStepSize {
		return fmt.Errorf("surfchem: MinStepSize %g exceeds MaxStepSize %g", c.MinStepSize, c.MaxStepSize)
	}
	return nil
}

// Statistics summarizes an integration.
type Statistics struct {
	StepCount       int
	RejectedCount   int
	EvaluationCount int
	JacobianCount   int
	LastStepSize    float64
	NextStepSize    float64
	CurrentTime     float64
}

// Integrator advances a System with backward Euler steps. Step sizes are
// adapted from an estimate of the local truncation error.
type Integrator struct {
	// Log receives messages about rejected steps.
	Log logrus.FieldLogger

	sys System
	cfg Config
	n   int
	h   float64

	y, yNew, f0, f1, g, w []float64
	jac                   *mat.Dense
	stats                 Statistics
	evalErr               error
}

// New returns an integrator for sys.
func New(sys System, cfg Config) (*Integrator, error) {
	if err := cfg.validate(); err != nil {
		return nil, err
	}
	n := sys.NEq()
	if n <= 0 {
		return nil, fmt.Errorf("surfchem: system has %d equations", n)
	}
	return &Integrator{
		Log:  logrus.StandardLogger(),
		sys:  sys,
		cfg:  cfg,
		n:    n,
		h:    cfg.InitialStepSize,
		y:    make([]float64, n),
		yNew: make([]float64, n),
		f0:   make([]float64, n),
		f1:   make([]float64, n),
		g:    make([]float64, n),
		w:    make([]float64, n),
		jac:  mat.NewDense(n, n, nil),
	}, nil
}

// eval sets the system state to y and writes its derivatives to ydot.
func (it *Integrator) eval(ydot, y []float64) error {
	it.stats.EvaluationCount++
	if err := it.sys.SetState(y); err != nil {
		return err
	}
	return it.sys.Derivatives(ydot)
}

// Integrate advances the system from time t0 to t1 and leaves it in the
// state reached.
func (it *Integrator) Integrate(t0, t1 float64) (Statistics, error) {
	it.stats = Statistics{CurrentTime: t0}
	if t1 <= t0 {
		return it.stats, nil
	}
	it.sys.State(it.y)
	t := t0
	h := it.h
	if h <= 0 {
		h = (t1 - t0) / 100
	}
	for t < t1 {
		if it.cfg.MaxStepCount > 0 && it.stats.StepCount >= it.cfg.MaxStepCount {
			return it.stats, it.abort(ErrMaxSteps)
		}
		if it.cfg.MaxStepSize > 0 && h > it.cfg.MaxStepSize {
			h = it.cfg.MaxStepSize
		}
		last := false
		if t+h >= t1 {
			h = t1 - t
			last = true
		}
		if h <= 0 || (it.cfg.MinStepSize > 0 && h < it.cfg.MinStepSize && !last) {
			return it.stats, it.abort(ErrStepTooSmall)
		}

		if err := it.eval(it.f0, it.y); err != nil {
			return it.stats, it.abort(err)
		}
		ok, err := it.correct(h)
		if err != nil {
			return it.stats, it.abort(err)
		}
		if !ok {
			it.stats.RejectedCount++
			it.Log.WithFields(logrus.Fields{"t": t, "h": h}).Debug("surfchem: corrector failed; reducing step")
			h *= 0.25
			continue
		}

		// The difference between the backward Euler and trapezoidal
		// solutions estimates the local error.
		errNorm := 0.0
		for i := 0; i < it.n; i++ {
			e := 0.5 * h * (it.f1[i] - it.f0[i]) / it.weight(it.yNew[i])
			errNorm += e * e
		}
		errNorm = math.Sqrt(errNorm / float64(it.n))
		if errNorm > 1 {
			it.stats.RejectedCount++
			it.Log.WithFields(logrus.Fields{"t": t, "h": h, "error": errNorm}).Debug("surfchem: step rejected")
			h *= math.Max(0.2, 0.9/math.Sqrt(errNorm))
			continue
		}

		copy(it.y, it.yNew)
		t += h
		it.stats.StepCount++
		it.stats.LastStepSize = h
		if last {
			t = t1
		}
		h *= math.Min(5, 0.9/math.Sqrt(math.Max(errNorm, 1e-10)))
	}
	it.h = h
	it.stats.NextStepSize = h
	it.stats.CurrentTime = t
	return it.stats, it.sys.SetState(it.y)
}

// restore puts the system back in the last accepted state.
func (it *Integrator) restore() error {
	return it.sys.SetState(it.y)
}

// abort restores the last accepted state and returns err, noting any
// failure to restore.
func (it *Integrator) abort(err error) error {
	if rerr := it.restore(); rerr != nil {
		return fmt.Errorf("%w (restoring state: %v)", err, rerr)
	}
	return err
}

func (it *Integrator) weight(y float64) float64 {
	return it.cfg.AbsoluteTolerance + it.cfg.RelativeTolerance*math.Abs(y)
}

// correct solves yNew − y − h f(yNew) = 0 with a modified Newton
// iteration, leaving f(yNew) in f1. It reports false if the iteration
// does not converge.
func (it *Integrator) correct(h float64) (bool, error) {
	copy(it.yNew, it.y)
	if err := it.jacobian(h); err != nil {
		return false, err
	}
	for iter := 0; iter < it.cfg.MaxNewtonIterations; iter++ {
		if err := it.eval(it.f1, it.yNew); err != nil {
			return false, err
		}
		for i := 0; i < it.n; i++ {
			it.g[i] = -(it.yNew[i] - it.y[i] - h*it.f1[i])
		}
		var dx mat.VecDense
		if err := dx.SolveVec(it.jac, mat.NewVecDense(it.n, it.g)); err != nil {
			if _, ok := err.(mat.Condition); !ok {
				return false, nil
			}
		}
		step := dx.RawVector().Data
		floats.Add(it.yNew, step)
		for i, d := range step {
			it.w[i] = d / it.weight(it.yNew[i])
		}
		norm := floats.Norm(it.w, 2) / math.Sqrt(float64(it.n))
		if math.IsNaN(norm) {
			return false, nil
		}
		if norm < 0.1 {
			if err := it.eval(it.f1, it.yNew); err != nil {
				return false, err
			}
			return true, nil
		}
	}
	return false, nil
}

// diagonal writes the diagonal of ∂f/∂y at it.y to diag, given
// f(it.y) in ydot. The system is left in a perturbed state.
func (it *Integrator) diagonal(ydot, diag []float64) error {
	it.evalErr = nil
	it.stats.JacobianCount++
	jac := mat.NewDense(it.n, it.n, nil)
	fd.Jacobian(jac, func(f, y []float64) {
		if it.evalErr != nil {
			return
		}
		it.evalErr = it.eval(f, y)
	}, it.y, &fd.JacobianSettings{
		Formula:     fd.Forward,
		OriginValue: ydot,
	})
	if it.evalErr != nil {
		return it.evalErr
	}
	for i := range diag {
		diag[i] = jac.At(i, i)
	}
	return nil
}

// jacobian forms I − h ∂f/∂y at the current state.
func (it *Integrator) jacobian(h float64) error {
	it.evalErr = nil
	it.stats.JacobianCount++
	fd.Jacobian(it.jac, func(ydot, y []float64) {
		if it.evalErr != nil {
			return
		}
		it.evalErr = it.eval(ydot, y)
	}, it.y, &fd.JacobianSettings{
		Formula:     fd.Forward,
		OriginValue: it.f0,
	})
	if it.evalErr != nil {
		return it.evalErr
	}
	it.jac.Scale(-h, it.jac)
	for i := 0; i < it.n; i++ {
		it.jac.Set(i, i, it.jac.At(i, i)+1)
	}
	return nil
}

// SolvePseudoSteadyState integrates over growing time horizons until the
// system is at steady state. A component has settled when its time
// derivative is within the absolute tolerance, or when the distance to
// its steady value estimated from its own relaxation rate,
// |ydot[i] / (∂f[i]/∂y[i])|, is within the integration tolerances. It
// fails with ErrNotConverged if maxTime elapses first.
func (it *Integrator) SolvePseudoSteadyState(maxTime float64) (Statistics, error) {
	var total Statistics
	ydot := make([]float64, it.n)
	diag := make([]float64, it.n)
	converged := func() (bool, error) {
		it.sys.State(it.y)
		if err := it.eval(ydot, it.y); err != nil {
			return false, it.abort(err)
		}
		if floats.Max(ydot) <= it.cfg.AbsoluteTolerance && -floats.Min(ydot) <= it.cfg.AbsoluteTolerance {
			return true, nil
		}
		if err := it.diagonal(ydot, diag); err != nil {
			return false, it.abort(err)
		}
		if err := it.restore(); err != nil {
			return false, err
		}
		for i, d := range ydot {
			if math.Abs(d) <= it.cfg.AbsoluteTolerance {
				continue
			}
			if math.Abs(d) > it.weight(it.y[i])*math.Abs(diag[i]) {
				return false, nil
			}
		}
		return true, nil
	}

	t := 0.0
	horizon := math.Max(it.cfg.InitialStepSize, 1e-8) * 10
	for t < maxTime {
		end := math.Min(t+horizon, maxTime)
		s, err := it.Integrate(t, end)
		total.StepCount += s.StepCount
		total.RejectedCount += s.RejectedCount
		total.EvaluationCount += s.EvaluationCount
		total.JacobianCount += s.JacobianCount
		total.LastStepSize = s.LastStepSize
		total.NextStepSize = s.NextStepSize
		total.CurrentTime = s.CurrentTime
		if err != nil {
			return total, err
		}
		t = end
		ok, err := converged()
		if err != nil {
			return total, err
		}
		if ok {
			return total, nil
		}
		horizon *= 10
	}
	return total, ErrNotConverged
}

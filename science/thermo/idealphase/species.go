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

// Package idealphase provides ideal gas, ideal surface and edge, and bulk
// phases for use with a surfkin reaction-rate engine. Species
// standard-state enthalpies and entropies are given as expressions in the
// temperature T.
package idealphase

import (
	"fmt"
	"math"

	"github.com/Knetic/govaluate"
	"github.com/spatialmodel/surfkin/science/thermo"
)

// Species describes one species of an ideal phase.
type Species struct {
	Name string

	// MolecularWeight is the molar mass [kg/mol].
	MolecularWeight float64

	// Charge is the charge number of the species.
	Charge float64

	// Size is the number of surface sites the species occupies.
	// Zero is taken as one.
	Size float64

	// Enthalpy is an expression in T [K] for the standard-state molar
	// enthalpy [J/mol]. Entropy is the same for the standard-state
	// molar entropy [J/mol/K]. The functions log, exp, sqrt and pow are
	// available. An empty expression is zero.
	Enthalpy, Entropy string
}

func (s Species) size() float64 {
	if s.Size == 0 {
		return 1
	}
	return s.Size
}

// unary wraps a function of one argument for use in an expression.
func unary(name string, f func(float64) float64) govaluate.ExpressionFunction {
	return func(args ...interface{}) (interface{}, error) {
		if len(args) != 1 {
			return nil, fmt.Errorf("idealphase: got %d arguments for function '%s', but needs 1", len(args), name)
		}
		v, ok := args[0].(float64)
		if !ok {
			return nil, fmt.Errorf("idealphase: argument to '%s' is not a number", name)
		}
		return f(v), nil
	}
}

var thermoFuncs = map[string]govaluate.ExpressionFunction{
	"log":  unary("log", math.Log),
	"exp":  unary("exp", math.Exp),
	"sqrt": unary("sqrt", math.Sqrt),
	"pow": func(args ...interface{}) (interface{}, error) {
		if len(args) != 2 {
			return nil, fmt.Errorf("idealphase: got %d arguments for function 'pow', but needs 2", len(args))
		}
		x, ok1 := args[0].(float64)
		y, ok2 := args[1].(float64)
		if !ok1 || !ok2 {
			return nil, fmt.Errorf("idealphase: argument to 'pow' is not a number")
		}
		return math.Pow(x, y), nil
	},
}

// thermoExpr holds the compiled thermodynamic expressions of a species.
type thermoExpr struct {
	h, s *govaluate.EvaluableExpression
}

func parseExpr(expr string) (*govaluate.EvaluableExpression, error) {
	if expr == "" {
		expr = "0"
	}
	e, err := govaluate.NewEvaluableExpressionWithFunctions(expr, thermoFuncs)
	if err != nil {
		return nil, err
	}
	for _, v := range e.Vars() {
		if v != "T" {
			return nil, fmt.Errorf("unknown variable '%s'", v)
		}
	}
	return e, nil
}

func compile(sp Species) (thermoExpr, error) {
	h, err := parseExpr(sp.Enthalpy)
	if err != nil {
		return thermoExpr{}, fmt.Errorf("idealphase: enthalpy of species '%s': %v", sp.Name, err)
	}
	s, err := parseExpr(sp.Entropy)
	if err != nil {
		return thermoExpr{}, fmt.Errorf("idealphase: entropy of species '%s': %v", sp.Name, err)
	}
	return thermoExpr{h: h, s: s}, nil
}

func evalAt(e *govaluate.EvaluableExpression, t float64) (float64, error) {
	v, err := e.Evaluate(map[string]interface{}{"T": t})
	if err != nil {
		return 0, err
	}
	f, ok := v.(float64)
	if !ok {
		return 0, fmt.Errorf("expression '%s' does not evaluate to a number", e.String())
	}
	return f, nil
}

// eval returns the enthalpy and entropy of the species at temperature t.
func (te thermoExpr) eval(t float64) (h, s float64, err error) {
	if h, err = evalAt(te.h, t); err != nil {
		return 0, 0, err
	}
	if s, err = evalAt(te.s, t); err != nil {
		return 0, 0, err
	}
	return h, s, nil
}

func logFloor(x float64) float64 {
	return math.Log(math.Max(x, thermo.SmallNumber))
}

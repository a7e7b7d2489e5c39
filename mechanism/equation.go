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

package mechanism

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/spatialmodel/surfkin"
)

// parseEquation splits a reaction equation into its reactants and
// products.
func parseEquation(eq string) (reactants, products []surfkin.Participant, reversible bool, err error) {
	var sides []string
	switch {
	case strings.Contains(eq, "<=>"):
		sides, reversible = strings.SplitN(eq, "<=>", 2), true
	case strings.Contains(eq, "=>"):
		sides = strings.SplitN(eq, "=>", 2)
	case strings.Contains(eq, "="):
		sides, reversible = strings.SplitN(eq, "=", 2), true
	default:
		return nil, nil, false, fmt.Errorf("no '<=>', '=>' or '=' in equation '%s'", eq)
	}
	if reactants, err = parseSide(sides[0]); err != nil {
		return nil, nil, false, fmt.Errorf("reactants of '%s': %v", eq, err)
	}
	if products, err = parseSide(sides[1]); err != nil {
		return nil, nil, false, fmt.Errorf("products of '%s': %v", eq, err)
	}
	return reactants, products, reversible, nil
}

// parseSide parses terms like "2 A + B". Terms are separated by a '+'
// surrounded by spaces, so species names may contain '+'.
func parseSide(s string) ([]surfkin.Participant, error) {
	var out []surfkin.Participant
	needTerm := true
	coef := 0.0
	for _, tok := range strings.Fields(s) {
		if !needTerm {
			if tok != "+" {
				return nil, fmt.Errorf("expected '+' before '%s'", tok)
			}
			needTerm = true
			continue
		}
		if tok == "+" {
			return nil, fmt.Errorf("unexpected '+'")
		}
		if v, err := strconv.ParseFloat(tok, 64); err == nil && coef == 0 {
			if v <= 0 {
				return nil, fmt.Errorf("non-positive coefficient %s", tok)
			}
			coef = v
			continue
		}
		if coef == 0 {
			coef = 1
		}
		out = append(out, surfkin.Participant{Species: tok, Coef: coef})
		coef = 0
		needTerm = false
	}
	if needTerm {
		if len(out) == 0 && coef == 0 {
			return nil, fmt.Errorf("no species")
		}
		return nil, fmt.Errorf("incomplete term")
	}
	return out, nil
}

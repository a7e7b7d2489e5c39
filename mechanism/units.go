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

	"github.com/ctessum/unit"
	"github.com/spatialmodel/surfkin/science/thermo"
)

// gasConstant is R in J/K; energies are per mole throughout.
var gasConstant = unit.New(thermo.GasConstant, unit.Dimensions{
	unit.MassDim:        1,
	unit.LengthDim:      2,
	unit.TimeDim:        -2,
	unit.TemperatureDim: -1,
})

// addUnits creates a Unit from a value and a molar energy unit label.
func addUnits(val float64, units string) (*unit.Unit, error) {
	switch units {
	case "J/mol", "":
		return unit.New(val, unit.Joule), nil
	case "J/kmol":
		return unit.New(val/1000, unit.Joule), nil
	case "kJ/mol":
		return unit.New(val*1000, unit.Joule), nil
	case "cal/mol":
		return unit.New(val*4.184, unit.Joule), nil
	case "kcal/mol":
		return unit.New(val*4184, unit.Joule), nil
	case "eV":
		return unit.New(val*thermo.Faraday, unit.Joule), nil
	case "K":
		// An activation temperature Ea/R.
		return unit.New(val, unit.Kelvin), nil
	default:
		return nil, fmt.Errorf("unknown energy unit '%s'", units)
	}
}

// energy parses a string such as "75 kJ/mol" and returns the molar
// energy in J/mol. An empty string is zero.
func energy(s string) (float64, error) {
	f := strings.Fields(s)
	if len(f) == 0 {
		return 0, nil
	}
	if len(f) > 2 {
		return 0, fmt.Errorf("invalid energy '%s'", s)
	}
	v, err := strconv.ParseFloat(f[0], 64)
	if err != nil {
		return 0, fmt.Errorf("invalid energy '%s': %v", s, err)
	}
	var label string
	if len(f) == 2 {
		label = f[1]
	}
	u, err := addUnits(v, label)
	if err != nil {
		return 0, err
	}
	if u.Dimensions().Matches(unit.Kelvin) {
		u = unit.Mul(u, gasConstant)
	}
	if err := u.Check(unit.Joule); err != nil {
		return 0, fmt.Errorf("energy '%s': %v", s, err)
	}
	return u.Value(), nil
}

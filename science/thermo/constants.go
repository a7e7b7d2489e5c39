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

// Package thermo holds the physical constants shared by the kinetics
// engine and the reference phase models.
package thermo

const (
	// GasConstant is the universal gas constant [J/mol/K].
	GasConstant = 8.3144621

	// Faraday is the Faraday constant [C/mol].
	Faraday = 96485.3365

	// OneAtm is the standard reference pressure [Pa].
	OneAtm = 101325.0

	// SmallNumber is the floor applied to mole fractions and coverages
	// before taking logarithms.
	SmallNumber = 1.0e-300
)

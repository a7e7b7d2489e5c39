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

// Package mechanism reads reaction mechanisms for interfaces and edges
// from TOML files and builds the phases and kinetics they describe.
package mechanism

import (
	"fmt"
	"io"
	"os"
	"sort"
	"strings"

	"github.com/BurntSushi/toml"
	"github.com/spatialmodel/surfkin/science/thermo/idealphase"
)

// File is the contents of a mechanism file.
type File struct {
	// Kind is "interface" (the default) or "edge".
	Kind string

	// SkipUndeclaredSpecies causes reactions that name species not in
	// any phase to be skipped instead of rejected.
	SkipUndeclaredSpecies bool

	Phase    []PhaseSpec
	Reaction []ReactionSpec
}

// PhaseSpec describes one phase.
type PhaseSpec struct {
	Name string

	// Model is one of "gas", "surface", "edge" or "bulk". A bulk phase
	// with zero MolarDensity is a metal.
	Model string

	Temperature float64 // K; 298.15 if zero
	Pressure    float64 // Pa; one atmosphere if zero
	Potential   float64 // V

	SiteDensity  float64 // mol/m² for surfaces, mol/m for edges
	MolarDensity float64 // mol/m³ for bulk phases

	// Composition holds mole fractions, or coverages for surface and
	// edge phases. It is normalized.
	Composition map[string]float64

	Species []idealphase.Species
}

// ReactionSpec describes one reaction.
type ReactionSpec struct {
	// Equation is for example "A + 2 B <=> C". "<=>" and "=" mark
	// reversible reactions and "=>" irreversible ones.
	Equation string

	// Kind is a reaction kind name such as "elementary" (the default),
	// "sticking" or "butler-volmer".
	Kind string

	// A, B and Ea are the Arrhenius parameters. Ea is a number followed
	// by an energy unit: J/mol (the default), kJ/mol, cal/mol, kcal/mol,
	// eV or K.
	A, B float64
	Ea   string

	Orders             map[string]float64
	StickingSpecies    string
	MotzWise           bool
	CoverageDependence []CoverageSpec

	// Beta is the symmetry factor of a charge-transfer reaction;
	// zero means 0.5.
	Beta                   float64
	ExchangeCurrentDensity bool
	FilmResistivity        float64

	// Duplicate allows this reaction to share its equation with another
	// reaction that is also marked Duplicate.
	Duplicate bool
}

// CoverageSpec is a coverage dependency of a rate constant.
type CoverageSpec struct {
	Species string
	A, M    float64
	E       string
}

// Load reads a mechanism file. Keys that do not correspond to a field
// are an error.
func Load(r io.Reader) (*File, error) {
	f := new(File)
	md, err := toml.DecodeReader(r, f)
	if err != nil {
		return nil, fmt.Errorf("mechanism: %v", err)
	}
	if u := md.Undecoded(); len(u) > 0 {
		keys := make([]string, len(u))
		for i, k := range u {
			keys[i] = k.String()
		}
		sort.Strings(keys)
		return nil, fmt.Errorf("mechanism: unrecognized keys: %s", strings.Join(keys, ", "))
	}
	return f, nil
}

// Open reads the mechanism file at path.
func Open(path string) (*File, error) {
	r, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("mechanism: %v", err)
	}
	defer r.Close()
	return Load(r)
}

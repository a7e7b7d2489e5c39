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

// Phase is the thermodynamic view of a phase that the kinetics engine
// reads. Species indices passed to and returned from its methods are local
// to the phase. Output slices have length NSpecies.
type Phase interface {
	// Name returns the phase name.
	Name() string

	// NSpecies returns the number of species in the phase.
	NSpecies() int

	// NDim returns the geometric dimensionality of the phase:
	// 3 for bulk phases, 2 for interfaces and 1 for edges.
	NDim() int

	// SpeciesName returns the name of species k.
	SpeciesName(k int) string

	// SpeciesIndex returns the index of the named species, or -1
	// if the phase does not contain it.
	SpeciesIndex(name string) int

	// Temperature returns the phase temperature [K].
	Temperature() float64

	// ElectricPotential returns the phase electric potential [V].
	ElectricPotential() float64

	// SetElectricPotential sets the phase electric potential [V].
	SetElectricPotential(v float64)

	// Charge returns the charge number of species k.
	Charge(k int) float64

	// MolecularWeight returns the molecular weight of species k [kg/mol].
	MolecularWeight(k int) float64

	// StandardConcentration returns the standard concentration
	// of species k in the units of its activity concentration.
	StandardConcentration(k int) float64

	// LogStandardConcentration returns ln(StandardConcentration(k)).
	LogStandardConcentration(k int) float64

	ActivityConcentrations(out []float64)
	Concentrations(out []float64)

	// ChemPotentials returns the species chemical potentials [J/mol].
	ChemPotentials(out []float64)

	// StandardChemPotentials returns the standard-state chemical
	// potentials at the current temperature and pressure [J/mol].
	StandardChemPotentials(out []float64)

	// ElectrochemPotentials returns μ_k + F z_k φ [J/mol].
	ElectrochemPotentials(out []float64)

	PartialMolarEnthalpies(out []float64) // J/mol
	PartialMolarEntropies(out []float64)  // J/mol/K

	// EnthalpiesRT returns standard-state enthalpies divided by RT.
	EnthalpiesRT(out []float64)

	// EntropiesR returns standard-state entropies divided by R.
	EntropiesR(out []float64)
}

// SurfacePhase is a Phase whose species occupy surface (or edge) sites.
type SurfacePhase interface {
	Phase

	// SiteDensity returns the site density [mol/m² or mol/m].
	SiteDensity() float64

	// Size returns the number of sites occupied by species k.
	Size(k int) float64

	// Coverages returns the site fractions of the species.
	Coverages(out []float64)

	// SetCoverages sets the site fractions without normalizing them.
	SetCoverages(theta []float64) error
}

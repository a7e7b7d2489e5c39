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
	"errors"
	"math"
	"strings"
	"testing"

	"github.com/spatialmodel/surfkin/science/thermo"
	"github.com/spatialmodel/surfkin/science/thermo/idealphase"
)

func different(a, b, tolerance float64) bool {
	if 2*math.Abs(a-b)/math.Abs(a+b) > tolerance || math.IsNaN(a) || math.IsNaN(b) {
		return true
	}
	return false
}

const siteDensity = 2.7e-5

// testPhases returns a gas of A and N2 at 300 K and one atmosphere with
// 20% A, and a platinum surface at 300 K that is initially bare.
func testPhases(t *testing.T) (*idealphase.Gas, *idealphase.Surface) {
	gas, err := idealphase.NewGas("gas", []idealphase.Species{
		{Name: "A", MolecularWeight: 0.002},
		{Name: "N2", MolecularWeight: 0.028},
	})
	if err != nil {
		t.Fatal(err)
	}
	if err := gas.SetState(300, thermo.OneAtm); err != nil {
		t.Fatal(err)
	}
	if err := gas.SetMoleFractions([]float64{0.2, 0.8}); err != nil {
		t.Fatal(err)
	}
	surf, err := idealphase.NewSurface("surf", []idealphase.Species{
		{Name: "PT(S)"},
		{Name: "A(S)", Enthalpy: "-10000"},
		{Name: "B(S)", Enthalpy: "-5000"},
	}, siteDensity)
	if err != nil {
		t.Fatal(err)
	}
	if err := surf.SetTemperature(300); err != nil {
		t.Fatal(err)
	}
	return gas, surf
}

func newTestKinetics(t *testing.T, gas *idealphase.Gas, surf *idealphase.Surface, rxns ...*Reaction) *Kinetics {
	k, err := NewInterface(gas, surf)
	if err != nil {
		t.Fatal(err)
	}
	for _, r := range rxns {
		if _, err := k.AddReaction(r); err != nil {
			t.Fatal(err)
		}
	}
	if err := k.Finalize(); err != nil {
		t.Fatal(err)
	}
	return k
}

func adsorption(reversible bool) *Reaction {
	return &Reaction{
		Reactants:  []Participant{{"A", 1}, {"PT(S)", 1}},
		Products:   []Participant{{"A(S)", 1}},
		Reversible: reversible,
		Rate:       Arrhenius{A: 1},
	}
}

func conversion() *Reaction {
	return &Reaction{
		Reactants:  []Participant{{"A(S)", 1}},
		Products:   []Participant{{"B(S)", 1}},
		Reversible: true,
		Rate:       Arrhenius{A: 1e3, Ea: 2e4},
	}
}

type rops struct{ f, r, net []float64 }

func ratesOfProgress(t *testing.T, k *Kinetics) rops {
	n := k.NReactions()
	o := rops{make([]float64, n), make([]float64, n), make([]float64, n)}
	if err := k.FwdRatesOfProgress(o.f); err != nil {
		t.Fatal(err)
	}
	if err := k.RevRatesOfProgress(o.r); err != nil {
		t.Fatal(err)
	}
	if err := k.NetRatesOfProgress(o.net); err != nil {
		t.Fatal(err)
	}
	return o
}

func TestIrreversibleGasToSurface(t *testing.T) {
	gas, surf := testPhases(t)
	k := newTestKinetics(t, gas, surf, &Reaction{
		Reactants: []Participant{{"A", 1}},
		Products:  []Participant{{"A(S)", 1}},
		Rate:      Arrhenius{A: 10},
	})
	o := ratesOfProgress(t, k)
	cA := 0.2 * thermo.OneAtm / (thermo.GasConstant * 300)
	if different(o.f[0], 10*cA, 1e-12) {
		t.Errorf("forward rate of progress: have %g, want %g", o.f[0], 10*cA)
	}
	if o.r[0] != 0 || o.net[0] != o.f[0] {
		t.Errorf("reverse %g, net %g, forward %g", o.r[0], o.net[0], o.f[0])
	}

	krev := make([]float64, 1)
	if err := k.RevRateConstants(krev, false); err != nil {
		t.Fatal(err)
	}
	if krev[0] != 0 {
		t.Errorf("reverse rate constant of an irreversible reaction is %g", krev[0])
	}
	if err := k.RevRateConstants(krev, true); err != nil {
		t.Fatal(err)
	}
	if !(krev[0] > 0) || math.IsInf(krev[0], 0) {
		t.Errorf("reverse rate constant including irreversible reactions is %g", krev[0])
	}

	wdot := make([]float64, k.NSpecies())
	if err := k.NetProductionRates(wdot); err != nil {
		t.Fatal(err)
	}
	a, as := k.KineticsSpeciesIndex("A"), k.KineticsSpeciesIndex("A(S)")
	if wdot[a] != -o.f[0] || wdot[as] != o.f[0] {
		t.Errorf("production rates %v", wdot)
	}
}

func TestNetRateOfProgress(t *testing.T) {
	gas, surf := testPhases(t)
	r := conversion()
	r.CoverageDeps = []CoverageDependency{{Species: "A(S)", A: 0.5, M: 0.2, E: 3000}}
	k := newTestKinetics(t, gas, surf, adsorption(true), r, adsorption(false))
	if err := surf.SetCoverages([]float64{0.5, 0.3, 0.2}); err != nil {
		t.Fatal(err)
	}
	o := ratesOfProgress(t, k)
	for i := range o.net {
		if o.net[i] != o.f[i]-o.r[i] {
			t.Errorf("reaction %d: net %g != %g - %g", i, o.net[i], o.f[i], o.r[i])
		}
		if o.f[i] <= 0 {
			t.Errorf("reaction %d: forward rate of progress %g", i, o.f[i])
		}
	}
	if o.r[2] != 0 {
		t.Errorf("irreversible reverse rate %g", o.r[2])
	}
	krev := make([]float64, 3)
	if err := k.RevRateConstants(krev, false); err != nil {
		t.Fatal(err)
	}
	if krev[2] != 0 || krev[0] <= 0 {
		t.Errorf("reverse rate constants %v", krev)
	}
}

func TestSticking(t *testing.T) {
	gas, surf := testPhases(t)
	k := newTestKinetics(t, gas, surf,
		&Reaction{
			Reactants: []Participant{{"A", 1}},
			Products:  []Participant{{"A(S)", 1}},
			Kind:      Sticking,
			Rate:      Arrhenius{A: 1},
		},
		&Reaction{
			Reactants: []Participant{{"A", 1}, {"PT(S)", 1}},
			Products:  []Participant{{"A(S)", 1}},
			Kind:      Sticking,
			Rate:      Arrhenius{A: 1},
		},
	)
	kf := make([]float64, 2)
	if err := k.FwdRateConstants(kf); err != nil {
		t.Fatal(err)
	}
	want := math.Sqrt(thermo.GasConstant * 300 / (2 * math.Pi * 0.002))
	if different(kf[0], want, 1e-12) {
		t.Errorf("sticking rate constant: have %g, want %g", kf[0], want)
	}
	if different(kf[1], want/siteDensity, 1e-12) {
		t.Errorf("sticking rate constant with a site reactant: have %g, want %g", kf[1], want/siteDensity)
	}

	// The site-density correction follows the surface.
	if err := surf.SetSiteDensity(2 * siteDensity); err != nil {
		t.Fatal(err)
	}
	if err := k.FwdRateConstants(kf); err != nil {
		t.Fatal(err)
	}
	if different(kf[1], want/(2*siteDensity), 1e-12) {
		t.Errorf("after site density change: have %g, want %g", kf[1], want/(2*siteDensity))
	}
}

func TestMotzWise(t *testing.T) {
	gas, surf := testPhases(t)
	k := newTestKinetics(t, gas, surf, &Reaction{
		Reactants: []Participant{{"A", 1}},
		Products:  []Participant{{"A(S)", 1}},
		Kind:      Sticking,
		Rate:      Arrhenius{A: 0.5},
		MotzWise:  true,
	})
	kf := make([]float64, 1)
	if err := k.FwdRateConstants(kf); err != nil {
		t.Fatal(err)
	}
	want := 0.5 / (1 - 0.25) * math.Sqrt(thermo.GasConstant*300/(2*math.Pi*0.002))
	if different(kf[0], want, 1e-12) {
		t.Errorf("have %g, want %g", kf[0], want)
	}
}

func TestReactionErrors(t *testing.T) {
	gas, surf := testPhases(t)
	tests := []struct {
		name string
		r    *Reaction
		msg  string
	}{
		{
			name: "multiple",
			r: &Reaction{
				Reactants: []Participant{{"A", 1}, {"N2", 1}},
				Products:  []Participant{{"A(S)", 1}},
				Kind:      Sticking,
			},
			msg: "multiple non-interface species found in sticking reaction",
		},
		{
			name: "none",
			r: &Reaction{
				Reactants: []Participant{{"PT(S)", 1}},
				Products:  []Participant{{"A(S)", 1}},
				Kind:      Sticking,
			},
			msg: "no non-interface species found in sticking reaction",
		},
		{
			name: "not reactant",
			r: &Reaction{
				Reactants:       []Participant{{"A", 1}},
				Products:        []Participant{{"A(S)", 1}},
				Kind:            Sticking,
				StickingSpecies: "N2",
			},
			msg: "is not a reactant",
		},
		{
			name: "film resistivity",
			r: &Reaction{
				Reactants:   []Participant{{"A", 1}},
				Products:    []Participant{{"A(S)", 1}},
				Electrochem: &Electrochemistry{Beta: 0.5, FilmResistivity: 1},
			},
			msg: "film resistivity set for elementary reaction",
		},
		{
			name: "beta",
			r: &Reaction{
				Reactants:   []Participant{{"A", 1}},
				Products:    []Participant{{"A(S)", 1}},
				Electrochem: &Electrochemistry{Beta: 1.5},
			},
			msg: "beta",
		},
		{
			name: "order",
			r: &Reaction{
				Reactants: []Participant{{"A", 1}},
				Products:  []Participant{{"A(S)", 1}},
				Orders:    map[string]float64{"N2": 1},
			},
			msg: "reaction order specified for non-reactant species",
		},
		{
			name: "undeclared",
			r: &Reaction{
				Reactants: []Participant{{"Q", 1}},
				Products:  []Participant{{"A(S)", 1}},
			},
			msg: "undeclared species",
		},
	}
	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			k, err := NewInterface(gas, surf)
			if err != nil {
				t.Fatal(err)
			}
			_, err = k.AddReaction(test.r)
			if err == nil {
				t.Fatal("expected an error")
			}
			var ue *UsageError
			if !errors.As(err, &ue) {
				t.Fatalf("error %v is not a UsageError", err)
			}
			if !strings.Contains(err.Error(), test.msg) {
				t.Errorf("error %q does not contain %q", err, test.msg)
			}
		})
	}
}

func TestSkipUndeclaredSpecies(t *testing.T) {
	gas, surf := testPhases(t)
	k, err := NewInterface(gas, surf)
	if err != nil {
		t.Fatal(err)
	}
	k.SkipUndeclaredSpecies = true
	ok, err := k.AddReaction(&Reaction{
		Reactants: []Participant{{"Q", 1}},
		Products:  []Participant{{"A(S)", 1}},
	})
	if ok || err != nil {
		t.Errorf("have %v, %v; want false, nil", ok, err)
	}
	if k.NReactions() != 0 {
		t.Errorf("skipped reaction was added")
	}
}

func TestLifecycleErrors(t *testing.T) {
	gas, surf := testPhases(t)
	k, err := NewInterface(gas, surf)
	if err != nil {
		t.Fatal(err)
	}
	if _, err := k.AddReaction(adsorption(true)); err != nil {
		t.Fatal(err)
	}
	out := make([]float64, 1)
	if err := k.NetRatesOfProgress(out); !errors.Is(err, ErrNotFinalized) {
		t.Errorf("have %v, want ErrNotFinalized", err)
	}
	if err := k.Finalize(); err != nil {
		t.Fatal(err)
	}
	if err := k.Finalize(); err != nil {
		t.Errorf("second Finalize: %v", err)
	}
	if _, err := k.AddReaction(adsorption(false)); !errors.Is(err, ErrFinalized) {
		t.Errorf("have %v, want ErrFinalized", err)
	}
	if err := k.AddPhase(gas); !errors.Is(err, ErrFinalized) {
		t.Errorf("have %v, want ErrFinalized", err)
	}
	if err := k.NetRatesOfProgress(nil); err == nil {
		t.Error("expected an error for a short output slice")
	}
	if err := k.SetMultiplier(3, 1); err == nil {
		t.Error("expected an error for a bad reaction index")
	}
	if err := k.SetPhaseExistence(5, false); err == nil {
		t.Error("expected an error for a bad phase index")
	}
}

func TestFinalizeErrors(t *testing.T) {
	gas, surf := testPhases(t)
	edge, err := idealphase.NewEdge("edge", []idealphase.Species{{Name: "E(s)"}}, 1e-9)
	if err != nil {
		t.Fatal(err)
	}
	tests := []struct {
		name string
		mk   func(...Phase) (*Kinetics, error)
		p    []Phase
	}{
		{name: "empty", mk: NewInterface},
		{name: "no surface", mk: NewInterface, p: []Phase{gas}},
		{name: "edge in interface", mk: NewInterface, p: []Phase{gas, edge}},
		{name: "surface in edge", mk: NewEdge, p: []Phase{gas, surf}},
	}
	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			k, err := test.mk(test.p...)
			if err != nil {
				t.Fatal(err)
			}
			err = k.Finalize()
			var ce *ConfigurationError
			if !errors.As(err, &ce) {
				t.Errorf("have %v, want a ConfigurationError", err)
			}
		})
	}

	k, err := NewEdge(gas, surf, edge)
	if err != nil {
		t.Fatal(err)
	}
	if k.ReactionPhaseIndex() != 2 {
		t.Errorf("reaction phase %d", k.ReactionPhaseIndex())
	}
	if err := k.Finalize(); err != nil {
		t.Error(err)
	}
}

func TestExchangeCurrentRoundTrip(t *testing.T) {
	rt := thermo.GasConstant * 310
	for _, beta := range []float64{0.1, 0.5, 0.9} {
		for _, dG0 := range []float64{-5e4, 0, 3e4} {
			kf := 3.7e-2
			i0 := RateConstantToExchangeCurrent(kf, dG0, 12.5, beta, rt)
			back := ExchangeCurrentToRateConstant(i0, dG0, 12.5, beta, rt)
			if different(back, kf, 1e-12) {
				t.Errorf("beta %g, dG0 %g: have %g, want %g", beta, dG0, back, kf)
			}
		}
	}
}

// electrochemPhases returns an electrolyte, a metal and a surface at
// 298.15 K.
func electrochemPhases(t *testing.T) (*idealphase.Bulk, *idealphase.Bulk, *idealphase.Surface) {
	elyte, err := idealphase.NewBulk("electrolyte", []idealphase.Species{
		{Name: "H2O(l)"},
		{Name: "H+", Charge: 1},
	}, 5.5e4)
	if err != nil {
		t.Fatal(err)
	}
	if err := elyte.SetMoleFractions([]float64{0.9, 0.1}); err != nil {
		t.Fatal(err)
	}
	metal, err := idealphase.NewBulk("metal", []idealphase.Species{{Name: "electron", Charge: -1}}, 0)
	if err != nil {
		t.Fatal(err)
	}
	surf, err := idealphase.NewSurface("surf", []idealphase.Species{
		{Name: "PT(S)"},
		{Name: "H(S)", Enthalpy: "-20000"},
	}, siteDensity)
	if err != nil {
		t.Fatal(err)
	}
	if err := surf.SetNormalizedCoverages([]float64{0.7, 0.3}); err != nil {
		t.Fatal(err)
	}
	return elyte, metal, surf
}

func chargeTransfer(kind Kind, ec *Electrochemistry) *Reaction {
	return &Reaction{
		Reactants:   []Participant{{"H+", 1}, {"electron", 1}, {"PT(S)", 1}},
		Products:    []Participant{{"H(S)", 1}},
		Reversible:  true,
		Kind:        kind,
		Rate:        Arrhenius{A: 10, Ea: 1e4},
		Electrochem: ec,
	}
}

func TestElectricPotential(t *testing.T) {
	elyte, metal, surf := electrochemPhases(t)
	k, err := NewInterface(elyte, metal, surf)
	if err != nil {
		t.Fatal(err)
	}
	if _, err := k.AddReaction(chargeTransfer(Elementary, &Electrochemistry{Beta: 0.4})); err != nil {
		t.Fatal(err)
	}
	if err := k.Finalize(); err != nil {
		t.Fatal(err)
	}
	kf0, kc0 := make([]float64, 1), make([]float64, 1)
	if err := k.FwdRateConstants(kf0); err != nil {
		t.Fatal(err)
	}
	if err := k.EquilibriumConstants(kc0); err != nil {
		t.Fatal(err)
	}
	if k.ElectrochemBeta(0) != 0.4 {
		t.Errorf("beta %g", k.ElectrochemBeta(0))
	}

	if err := k.SetElectricPotential(1, 0.1); err != nil {
		t.Fatal(err)
	}
	kf1, kc1 := make([]float64, 1), make([]float64, 1)
	if err := k.FwdRateConstants(kf1); err != nil {
		t.Fatal(err)
	}
	if err := k.EquilibriumConstants(kc1); err != nil {
		t.Fatal(err)
	}
	rt := thermo.GasConstant * 298.15
	if want := math.Exp(-0.4 * thermo.Faraday * 0.1 / rt); different(kf1[0]/kf0[0], want, 1e-9) {
		t.Errorf("forward rate constant ratio: have %g, want %g", kf1[0]/kf0[0], want)
	}
	if want := math.Exp(-thermo.Faraday * 0.1 / rt); different(kc1[0]/kc0[0], want, 1e-9) {
		t.Errorf("equilibrium constant ratio: have %g, want %g", kc1[0]/kc0[0], want)
	}
}

func TestExchangeCurrentDensityReactions(t *testing.T) {
	for _, kind := range []Kind{ExchangeCurrentDensity, ButlerVolmer} {
		t.Run(kind.String(), func(t *testing.T) {
			elyte, metal, surf := electrochemPhases(t)
			k, err := NewInterface(elyte, metal, surf)
			if err != nil {
				t.Fatal(err)
			}
			r := chargeTransfer(kind, nil)
			r.Rate.Ea = 0
			if _, err := k.AddReaction(r); err != nil {
				t.Fatal(err)
			}
			if err := k.Finalize(); err != nil {
				t.Fatal(err)
			}
			dG0 := make([]float64, 1)
			if err := k.DeltaSSGibbs(dG0); err != nil {
				t.Fatal(err)
			}
			if different(dG0[0], -20000, 1e-12) {
				t.Errorf("standard Gibbs energy change %g", dG0[0])
			}
			prod := 5.5e4 * 1 * siteDensity
			rt := thermo.GasConstant * 298.15
			var want float64
			if kind == ButlerVolmer {
				want = RateConstantToExchangeCurrent(10, dG0[0], prod, DefaultBeta, rt)
			} else {
				want = ExchangeCurrentToRateConstant(10, dG0[0], prod, DefaultBeta, rt)
			}
			kf := make([]float64, 1)
			if err := k.FwdRateConstants(kf); err != nil {
				t.Fatal(err)
			}
			if different(kf[0], want, 1e-9) {
				t.Errorf("have %g, want %g", kf[0], want)
			}
		})
	}
}

func TestButlerVolmerOrders(t *testing.T) {
	elyte, metal, surf := electrochemPhases(t)
	k, err := NewInterface(elyte, metal, surf)
	if err != nil {
		t.Fatal(err)
	}
	r := chargeTransfer(ButlerVolmer, &Electrochemistry{Beta: 0.5})
	r.Orders = map[string]float64{"H+": 0.5, "PT(S)": 1}
	if _, err := k.AddReaction(r); err != nil {
		t.Fatal(err)
	}
	if err := k.Finalize(); err != nil {
		t.Fatal(err)
	}
	out := make([]float64, k.NSpecies())
	if err := k.ButlerVolmerOrders(0, out); err != nil {
		t.Fatal(err)
	}
	want := map[string]float64{"H+": 1, "electron": 0.5, "PT(S)": 1.5, "H(S)": -0.5, "H2O(l)": 0}
	for name, o := range want {
		if have := out[k.KineticsSpeciesIndex(name)]; math.Abs(have-o) > 1e-12 {
			t.Errorf("%s: order %g, want %g", name, have, o)
		}
	}
}

func TestGateNonexistentProductPhase(t *testing.T) {
	surf, err := idealphase.NewSurface("surf", []idealphase.Species{
		{Name: "PT(S)"},
		{Name: "A(S)"},
	}, siteDensity)
	if err != nil {
		t.Fatal(err)
	}
	metal, err := idealphase.NewBulk("metal", []idealphase.Species{{Name: "C"}}, 0)
	if err != nil {
		t.Fatal(err)
	}
	k, err := NewInterface(surf, metal)
	if err != nil {
		t.Fatal(err)
	}
	if _, err := k.AddReaction(&Reaction{
		Reactants:  []Participant{{"A(S)", 1}},
		Products:   []Participant{{"C", 1}},
		Reversible: true,
		Rate:       Arrhenius{A: 1},
	}); err != nil {
		t.Fatal(err)
	}
	if err := k.Finalize(); err != nil {
		t.Fatal(err)
	}
	o := ratesOfProgress(t, k)
	if o.f[0] != 0 || !(o.r[0] > 0) {
		t.Fatalf("forward %g, reverse %g", o.f[0], o.r[0])
	}
	if err := k.SetPhaseExistence(1, false); err != nil {
		t.Fatal(err)
	}
	o = ratesOfProgress(t, k)
	if o.f[0] != 0 || o.r[0] != 0 || o.net[0] != 0 {
		t.Errorf("forward %g, reverse %g, net %g; want zeros", o.f[0], o.r[0], o.net[0])
	}
	if ok, _ := k.PhaseStability(1); ok {
		t.Error("absent phase is stable")
	}
}

func TestGateUnstableReactantPhase(t *testing.T) {
	gas, surf := testPhases(t)
	k := newTestKinetics(t, gas, surf, adsorption(true), adsorption(false))
	if err := k.SetPhaseStability(0, false); err != nil {
		t.Fatal(err)
	}
	o := ratesOfProgress(t, k)
	for i := range o.net {
		if o.net[i] != 0 {
			t.Errorf("reaction %d: net %g, want 0", i, o.net[i])
		}
		if o.net[i] != o.f[i]-o.r[i] {
			t.Errorf("reaction %d: net %g != %g - %g", i, o.net[i], o.f[i], o.r[i])
		}
	}
}

func TestExistenceToggle(t *testing.T) {
	gas, surf := testPhases(t)
	if err := surf.SetCoverages([]float64{0.4, 0.4, 0.2}); err != nil {
		t.Fatal(err)
	}
	k := newTestKinetics(t, gas, surf, adsorption(true), conversion())
	before := ratesOfProgress(t, k)

	if err := k.SetPhaseExistence(0, false); err != nil {
		t.Fatal(err)
	}
	during := ratesOfProgress(t, k)
	if during.net[1] != before.net[1] {
		t.Errorf("surface reaction changed while gas was absent: %g != %g", during.net[1], before.net[1])
	}
	if during.net[0] != 0 {
		t.Errorf("adsorption from an absent gas: %g", during.net[0])
	}

	// Setting existence twice must not unbalance the counter.
	if err := k.SetPhaseExistence(0, true); err != nil {
		t.Fatal(err)
	}
	if err := k.SetPhaseExistence(0, true); err != nil {
		t.Fatal(err)
	}
	after := ratesOfProgress(t, k)
	for i := range before.net {
		if after.net[i] != before.net[i] {
			t.Errorf("reaction %d: net %g, want %g", i, after.net[i], before.net[i])
		}
	}
	if ok, err := k.PhaseExistence(0); !ok || err != nil {
		t.Errorf("have %v, %v", ok, err)
	}
}

func TestCoverageDependence(t *testing.T) {
	gas, surf := testPhases(t)
	r := conversion()
	r.CoverageDeps = []CoverageDependency{{Species: "A(S)", E: 1e4}}
	k := newTestKinetics(t, gas, surf, r)
	kf0 := make([]float64, 1)
	if err := k.FwdRateConstants(kf0); err != nil {
		t.Fatal(err)
	}
	if err := surf.SetCoverages([]float64{0.5, 0.5, 0}); err != nil {
		t.Fatal(err)
	}
	kf1 := make([]float64, 1)
	if err := k.FwdRateConstants(kf1); err != nil {
		t.Fatal(err)
	}
	want := math.Exp(-1e4 * 0.5 / (thermo.GasConstant * 300))
	if different(kf1[0]/kf0[0], want, 1e-12) {
		t.Errorf("have %g, want %g", kf1[0]/kf0[0], want)
	}
}

func TestTemperatureChange(t *testing.T) {
	gas, surf := testPhases(t)
	k := newTestKinetics(t, gas, surf, conversion())
	kf0 := make([]float64, 1)
	if err := k.FwdRateConstants(kf0); err != nil {
		t.Fatal(err)
	}
	if err := surf.SetTemperature(350); err != nil {
		t.Fatal(err)
	}
	if err := gas.SetState(350, thermo.OneAtm); err != nil {
		t.Fatal(err)
	}
	kf1 := make([]float64, 1)
	if err := k.FwdRateConstants(kf1); err != nil {
		t.Fatal(err)
	}
	want := math.Exp(-2e4/thermo.GasConstant*(1/350.-1/300.)) * kf0[0]
	if different(kf1[0], want, 1e-12) {
		t.Errorf("have %g, want %g", kf1[0], want)
	}
	ea := make([]float64, 1)
	if err := k.ActivationEnergies(ea); err != nil {
		t.Fatal(err)
	}
	if ea[0] != 2e4 {
		t.Errorf("activation energy %g", ea[0])
	}
}

func TestMultiplier(t *testing.T) {
	gas, surf := testPhases(t)
	k := newTestKinetics(t, gas, surf, adsorption(true))
	o0 := ratesOfProgress(t, k)
	if err := k.SetMultiplier(0, 2); err != nil {
		t.Fatal(err)
	}
	if m, _ := k.Multiplier(0); m != 2 {
		t.Errorf("multiplier %g", m)
	}
	o1 := ratesOfProgress(t, k)
	if different(o1.f[0], 2*o0.f[0], 1e-12) {
		t.Errorf("forward rate of progress %g, want %g", o1.f[0], 2*o0.f[0])
	}
}

func TestModifyReaction(t *testing.T) {
	gas, surf := testPhases(t)
	k := newTestKinetics(t, gas, surf, adsorption(true))
	kf0 := make([]float64, 1)
	if err := k.FwdRateConstants(kf0); err != nil {
		t.Fatal(err)
	}
	r := adsorption(true)
	r.Rate.A = 4
	if err := k.ModifyReaction(0, r); err != nil {
		t.Fatal(err)
	}
	kf1 := make([]float64, 1)
	if err := k.FwdRateConstants(kf1); err != nil {
		t.Fatal(err)
	}
	if different(kf1[0], 4*kf0[0], 1e-12) {
		t.Errorf("have %g, want %g", kf1[0], 4*kf0[0])
	}
	if err := k.ModifyReaction(0, conversion()); err == nil {
		t.Error("expected an error for different stoichiometry")
	}
	if err := k.ModifyReaction(0, adsorption(false)); err == nil {
		t.Error("expected an error for different reversibility")
	}
	if k.Reaction(0).Rate.A != 4 {
		t.Errorf("stored reaction was not replaced")
	}
}

func TestClone(t *testing.T) {
	gas, surf := testPhases(t)
	k := newTestKinetics(t, gas, surf, adsorption(true), conversion())
	before := ratesOfProgress(t, k)

	gas2, surf2 := testPhases(t)
	c, err := k.Clone(gas2, surf2)
	if err != nil {
		t.Fatal(err)
	}
	if err := gas2.SetMoleFractions([]float64{0.9, 0.1}); err != nil {
		t.Fatal(err)
	}
	if err := c.SetMultiplier(0, 3); err != nil {
		t.Fatal(err)
	}
	co := ratesOfProgress(t, c)
	after := ratesOfProgress(t, k)
	if after.net[0] != before.net[0] {
		t.Errorf("original changed: %g != %g", after.net[0], before.net[0])
	}
	if co.f[0] == before.f[0] {
		t.Errorf("clone did not follow its own phases")
	}
	if m, _ := k.Multiplier(0); m != 1 {
		t.Errorf("original multiplier %g", m)
	}
	if _, err := k.Clone(gas2); err == nil {
		t.Error("expected an error for the wrong number of phases")
	}
}

func TestDeltaQuantities(t *testing.T) {
	gas, surf := testPhases(t)
	k := newTestKinetics(t, gas, surf, conversion())
	dh, dg, ds := make([]float64, 1), make([]float64, 1), make([]float64, 1)
	if err := k.DeltaSSEnthalpy(dh); err != nil {
		t.Fatal(err)
	}
	if different(dh[0], 5000, 1e-12) {
		t.Errorf("standard enthalpy change %g", dh[0])
	}
	if err := k.DeltaSSEntropy(ds); err != nil {
		t.Fatal(err)
	}
	if ds[0] != 0 {
		t.Errorf("standard entropy change %g", ds[0])
	}
	if err := surf.SetCoverages([]float64{0, 0.5, 0.5}); err != nil {
		t.Fatal(err)
	}
	if err := k.DeltaGibbs(dg); err != nil {
		t.Fatal(err)
	}
	if different(dg[0], 5000, 1e-12) {
		t.Errorf("Gibbs energy change %g", dg[0])
	}
	if err := k.DeltaEnthalpy(dh); err != nil {
		t.Fatal(err)
	}
	if different(dh[0], 5000, 1e-12) {
		t.Errorf("enthalpy change %g", dh[0])
	}
}

func TestAdvanceCoverages(t *testing.T) {
	gas, surf := testPhases(t)
	k := newTestKinetics(t, gas, surf, adsorption(false))
	if err := k.AdvanceCoverages(10); err != nil {
		t.Fatal(err)
	}
	theta := make([]float64, 3)
	surf.Coverages(theta)
	if theta[1] < 0.99 {
		t.Errorf("A(S) coverage %g after 10 s", theta[1])
	}
	if sum := theta[0] + theta[1] + theta[2]; different(sum, 1, 1e-6) {
		t.Errorf("coverages sum to %g", sum)
	}
}

func TestPseudoSteadyState(t *testing.T) {
	gas, surf := testPhases(t)
	k := newTestKinetics(t, gas, surf, adsorption(true))
	if _, err := k.SolvePseudoSteadyState(1e3); err != nil {
		t.Fatal(err)
	}
	o := ratesOfProgress(t, k)
	if r := math.Abs(o.net[0] / o.f[0]); r > 1e-3 {
		t.Errorf("net/forward rate of progress %g at steady state", r)
	}
	dmu := make([]float64, 1)
	if err := k.CheckPartialEquilibrium(dmu); err != nil {
		t.Fatal(err)
	}
	if math.Abs(dmu[0]) > 1e-3 {
		t.Errorf("electrochemical potential change %g RT at steady state", dmu[0])
	}
}

// The mass-action product of the first reaction must use the reacting gas
// species even when it is not the first species of the gas.
func TestFirstReactionUsesItsOwnSpecies(t *testing.T) {
	gas, err := idealphase.NewGas("gas", []idealphase.Species{
		{Name: "N2", MolecularWeight: 0.028},
		{Name: "A", MolecularWeight: 0.002},
	})
	if err != nil {
		t.Fatal(err)
	}
	if err := gas.SetState(300, thermo.OneAtm); err != nil {
		t.Fatal(err)
	}
	if err := gas.SetMoleFractions([]float64{0.8, 0.2}); err != nil {
		t.Fatal(err)
	}
	_, surf := testPhases(t)
	if err := surf.SetCoverages([]float64{0.6, 0.3, 0.1}); err != nil {
		t.Fatal(err)
	}
	k := newTestKinetics(t, gas, surf, adsorption(false), conversion())
	kf := make([]float64, 2)
	if err := k.FwdRateConstants(kf); err != nil {
		t.Fatal(err)
	}
	o := ratesOfProgress(t, k)
	cA := 0.2 * thermo.OneAtm / (thermo.GasConstant * 300)
	want := kf[0] * cA * 0.6 * siteDensity
	if different(o.f[0], want, 1e-12) {
		t.Errorf("adsorption: have %g, want %g", o.f[0], want)
	}
	if want := kf[1] * 0.3 * siteDensity; different(o.f[1], want, 1e-12) {
		t.Errorf("conversion: have %g, want %g", o.f[1], want)
	}
}

// Reverse rate constants depend on the surface standard concentrations,
// so a site density change must be observed without sticking reactions.
func TestSiteDensityChange(t *testing.T) {
	gas, surf := testPhases(t)
	k := newTestKinetics(t, gas, surf, &Reaction{
		Reactants:  []Participant{{"A", 1}},
		Products:   []Participant{{"A(S)", 1}},
		Reversible: true,
		Rate:       Arrhenius{A: 1},
	})
	krev0 := make([]float64, 1)
	if err := k.RevRateConstants(krev0, false); err != nil {
		t.Fatal(err)
	}
	if err := surf.SetSiteDensity(2 * siteDensity); err != nil {
		t.Fatal(err)
	}
	krev1 := make([]float64, 1)
	if err := k.RevRateConstants(krev1, false); err != nil {
		t.Fatal(err)
	}
	if different(krev1[0], krev0[0]/2, 1e-12) {
		t.Errorf("have %g, want %g", krev1[0], krev0[0]/2)
	}
	kf := make([]float64, 1)
	kc := make([]float64, 1)
	if err := k.FwdRateConstants(kf); err != nil {
		t.Fatal(err)
	}
	if err := k.EquilibriumConstants(kc); err != nil {
		t.Fatal(err)
	}
	if different(krev1[0], kf[0]/kc[0], 1e-12) {
		t.Errorf("cached %g, recomputed %g", krev1[0], kf[0]/kc[0])
	}
}

func TestCoverageDependenceFactors(t *testing.T) {
	gas, surf := testPhases(t)
	r := conversion()
	const a, m, e = 0.5, 0.7, 1e4
	r.CoverageDeps = []CoverageDependency{{Species: "A(S)", A: a, M: m, E: e}}
	k := newTestKinetics(t, gas, surf, r)
	rate := func(theta float64) float64 {
		if err := surf.SetCoverages([]float64{1 - theta, theta, 0}); err != nil {
			t.Fatal(err)
		}
		kf := make([]float64, 1)
		if err := k.FwdRateConstants(kf); err != nil {
			t.Fatal(err)
		}
		return kf[0]
	}
	k1, k2 := rate(0.2), rate(0.5)
	want := math.Pow(10, a*0.3) * math.Pow(0.5/0.2, m) * math.Exp(-e*0.3/(thermo.GasConstant*300))
	if different(k2/k1, want, 1e-10) {
		t.Errorf("have %g, want %g", k2/k1, want)
	}
	ea := make([]float64, 1)
	if err := k.ActivationEnergies(ea); err != nil {
		t.Fatal(err)
	}
	if different(ea[0], 2e4, 1e-12) {
		t.Errorf("registered activation energy %g", ea[0])
	}
}

// A forward-running reaction whose reactant phase and product phase are
// both absent stops entirely.
func TestGateForwardBothPhasesAbsent(t *testing.T) {
	gas, surf := testPhases(t)
	metal, err := idealphase.NewBulk("metal", []idealphase.Species{{Name: "C", Enthalpy: "-50000"}}, 0)
	if err != nil {
		t.Fatal(err)
	}
	if err := metal.SetState(300, thermo.OneAtm); err != nil {
		t.Fatal(err)
	}
	k, err := NewInterface(gas, surf, metal)
	if err != nil {
		t.Fatal(err)
	}
	if _, err := k.AddReaction(&Reaction{
		Reactants:  []Participant{{"A", 1}},
		Products:   []Participant{{"C", 1}},
		Reversible: true,
		Rate:       Arrhenius{A: 1},
	}); err != nil {
		t.Fatal(err)
	}
	if err := k.Finalize(); err != nil {
		t.Fatal(err)
	}
	base := ratesOfProgress(t, k)
	if !(base.f[0] > base.r[0] && base.r[0] > 0) {
		t.Fatalf("forward %g, reverse %g", base.f[0], base.r[0])
	}

	// An absent product phase alone does not stop a forward reaction
	// when every phase is treated as stable.
	if err := k.SetPhaseExistence(2, false); err != nil {
		t.Fatal(err)
	}
	if err := k.SetPhaseStability(2, true); err != nil {
		t.Fatal(err)
	}
	o := ratesOfProgress(t, k)
	if o.f[0] != base.f[0] || o.r[0] != base.r[0] {
		t.Errorf("forward %g, reverse %g; want %g, %g", o.f[0], o.r[0], base.f[0], base.r[0])
	}

	if err := k.SetPhaseExistence(0, false); err != nil {
		t.Fatal(err)
	}
	if err := k.SetPhaseStability(0, true); err != nil {
		t.Fatal(err)
	}
	o = ratesOfProgress(t, k)
	if o.f[0] != 0 || o.r[0] != 0 || o.net[0] != 0 {
		t.Errorf("forward %g, reverse %g, net %g; want zeros", o.f[0], o.r[0], o.net[0])
	}

	// Restoring the gas leaves the unstable-product clamp.
	if err := k.SetPhaseExistence(0, true); err != nil {
		t.Fatal(err)
	}
	if err := k.SetPhaseStability(2, false); err != nil {
		t.Fatal(err)
	}
	o = ratesOfProgress(t, k)
	if o.net[0] != 0 || o.f[0] != o.r[0] {
		t.Errorf("forward %g, reverse %g, net %g", o.f[0], o.r[0], o.net[0])
	}
}

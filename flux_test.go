package darcyflow

import (
	"math"
	"testing"

	"github.com/spatialmodel/darcyflow/mesh"
	"github.com/spatialmodel/darcyflow/pvt"
)

func TestBoundaryFacePressureOffsets(t *testing.T) {
	if p := boundaryFacePressure(20e6, mesh.Shallow); p != 20e6-boundaryPressureOffsetPa {
		t.Errorf("shallow boundary should be 1 MPa below pore pressure, got %v", p)
	}
	if p := boundaryFacePressure(20e6, mesh.Deep); p != 20e6+boundaryPressureOffsetPa {
		t.Errorf("deep boundary should be 1 MPa above pore pressure, got %v", p)
	}
	if p := boundaryFacePressure(20e6, mesh.Left); p != 20e6 {
		t.Errorf("lateral boundary should mirror this element's pressure (no-flow), got %v", p)
	}
}

func TestSign2(t *testing.T) {
	if sign2(-3) != -1 {
		t.Error("sign2 of a negative value should be -1")
	}
	if sign2(3) != 1 {
		t.Error("sign2 of a positive value should be 1")
	}
	if sign2(0) != 1 {
		t.Error("sign2 of zero should default to 1 (matches the zero-valued dx guard upstream)")
	}
}

func TestFaceMolarFluxZeroWhenRelPermOrViscosityIsZero(t *testing.T) {
	f := newLineFormation("f", 2)
	sc := newFormationScratch(f)
	e := &f.Grid.Elements()[0]
	if flux := faceMolarFlux(DefaultConfig(), f, sc, e, mesh.Right, pvt.Liquid, 20e6, 19e6, 0, 800, 1e-3, 0); flux != 0 {
		t.Errorf("zero relative permeability should give zero flux, got %v", flux)
	}
	if flux := faceMolarFlux(DefaultConfig(), f, sc, e, mesh.Right, pvt.Liquid, 20e6, 19e6, 0.5, 800, 0, 0); flux != 0 {
		t.Errorf("zero viscosity should give zero flux, got %v", flux)
	}
}

func TestFaceMolarFluxDirectionMatchesPressureGradient(t *testing.T) {
	f := newLineFormation("f", 2)
	sc := newFormationScratch(f)
	for i := range sc.phase {
		sc.phase[i][pvt.Liquid][pvt.C1] = 10
	}
	e0 := &f.Grid.Elements()[0]

	// Neighbour at lower pressure than e0: e0 should be the emitter
	// (positive = outflow from e0, per the documented sign convention).
	outflow := faceMolarFlux(DefaultConfig(), f, sc, e0, mesh.Right, pvt.Liquid, 20e6, 15e6, 0.5, 800, 1e-3, 0)
	if outflow <= 0 {
		t.Errorf("expected positive (outward) flux when this element is at higher pressure, got %v", outflow)
	}

	// Neighbour at higher pressure: e0 should be the receiver.
	inflow := faceMolarFlux(DefaultConfig(), f, sc, e0, mesh.Right, pvt.Liquid, 20e6, 25e6, 0.5, 800, 1e-3, 0)
	if inflow >= 0 {
		t.Errorf("expected negative (inward) flux when the neighbour is at higher pressure, got %v", inflow)
	}
}

func TestElementCflTimeStepInfiniteWithNoOutflow(t *testing.T) {
	te := f_testElement()
	e := &te
	var gas, oil ElementFaceValues // all zero: no outflow anywhere
	dt := elementCflTimeStep(DefaultConfig(), e, hcComposition(), pvt.PhaseComposition{}, gas, oil)
	if !math.IsInf(dt, 1) {
		t.Errorf("expected +Inf when no face has positive outflow, got %v", dt)
	}
}

func f_testElement() mesh.Element {
	f := newLineFormation("f", 1)
	return f.Grid.Elements()[0]
}

func TestElementCflTimeStepShrinksWithLargerOutflow(t *testing.T) {
	e := f_testElement()
	c := hcComposition()
	pc := pvt.PhaseComposition{}
	pc[pvt.Liquid][pvt.C1] = 40
	pc[pvt.Liquid][pvt.C15PlusSat] = 20

	var small, big ElementFaceValues
	small[mesh.Right] = 1
	big[mesh.Right] = 100

	dtSmall := elementCflTimeStep(DefaultConfig(), &e, c, pc, ElementFaceValues{}, small)
	dtBig := elementCflTimeStep(DefaultConfig(), &e, c, pc, ElementFaceValues{}, big)
	if dtBig >= dtSmall {
		t.Errorf("a larger outflow should yield a smaller CFL-limited step: small=%v big=%v", dtSmall, dtBig)
	}
}

func TestAssembleFluxesSkipsInactiveElements(t *testing.T) {
	f := newLineFormation("f", 2)
	f.Grid.Elements()[1].Volume = 0 // deactivate the second element
	sc := newFormationScratch(f)
	for i := range f.PreviousComponent {
		f.PreviousComponent[i] = hcComposition()
	}
	assembleFluxes(DefaultConfig(), f, sc, 0)
	if sc.elementDt[1] != math.Inf(1) {
		t.Errorf("inactive elements should retain their initial +Inf elementDt, got %v", sc.elementDt[1])
	}
}

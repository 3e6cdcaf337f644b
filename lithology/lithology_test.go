package lithology

import (
	"testing"

	"github.com/spatialmodel/darcyflow/pvt"
)

func TestPorosityDecaysWithVES(t *testing.T) {
	l := Lithology{SurfacePorosity: 0.4, CompactionCoeff: 1e-8}
	p0 := l.Porosity(0)
	p1 := l.Porosity(50e6)
	if p0 != 0.4 {
		t.Errorf("porosity at VES=0 should equal surface porosity, got %v", p0)
	}
	if p1 >= p0 {
		t.Errorf("porosity should decrease with VES: %v -> %v", p0, p1)
	}
}

func TestBrooksCoreyRelPermBounds(t *testing.T) {
	m := BrooksCoreyRelPerm{SorLiquid: 0.1, SorVapour: 0.1, Swc: 0.2, Lambda: 2}
	s := pvt.Saturation{Liquid: 0.5, Vapour: 0.3, Water: 0.2}
	krl := m.RelPerm(pvt.Liquid, s)
	krv := m.RelPerm(pvt.Vapour, s)
	if krl < 0 || krl > 1 || krv < 0 || krv > 1 {
		t.Errorf("relative permeabilities must be in [0,1], got krl=%v krv=%v", krl, krv)
	}
}

func TestBrooksCoreyCapillarySignConvention(t *testing.T) {
	m := BrooksCoreyCapillary{EntryPressurePa: 1e5, ReferenceK: 1e-15, Lambda: 2, Swc: 0.1}
	s := pvt.Saturation{Liquid: 0.5, Vapour: 0.3, Water: 0.2}
	pcLiquid := m.CapillaryPressure(pvt.Liquid, s, 1e-15)
	pcVapour := m.CapillaryPressure(pvt.Vapour, s, 1e-15)
	if pcLiquid >= 0 {
		t.Error("liquid-phase capillary pressure should be negative relative to vapour")
	}
	if pcVapour <= 0 {
		t.Error("vapour-phase capillary pressure should be positive")
	}
}

func TestHarmonicMeanZeroWhenEitherZero(t *testing.T) {
	if HarmonicMean(0, 5) != 0 {
		t.Error("harmonic mean with a zero input should be zero")
	}
	if v := HarmonicMean(2, 2); v != 2 {
		t.Errorf("harmonic mean of equal values should equal the value, got %v", v)
	}
}

func TestClampMagnitude(t *testing.T) {
	if v := ClampMagnitude(10, 5); v != 5 {
		t.Errorf("expected clamp to 5, got %v", v)
	}
	if v := ClampMagnitude(-10, 5); v != -5 {
		t.Errorf("expected clamp to -5, got %v", v)
	}
	if v := ClampMagnitude(3, 5); v != 3 {
		t.Errorf("value within bound should be unchanged, got %v", v)
	}
}

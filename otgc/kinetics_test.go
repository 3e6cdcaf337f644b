package otgc

import (
	"math"
	"testing"

	"github.com/spatialmodel/darcyflow/pvt"
)

func TestApplyConservesMass(t *testing.T) {
	var c pvt.Composition
	c[pvt.C6To14Sat] = 100
	var massBefore float64
	for i, v := range c {
		massBefore += v * pvt.MolarMass[i]
	}
	Apply(&c, 150+273.15, 0, 5)
	var massAfter float64
	for i, v := range c {
		massAfter += v * pvt.MolarMass[i]
	}
	if diff := math.Abs(massAfter - massBefore); diff > 1e-6*massBefore {
		t.Errorf("OTGC should conserve mass: before=%v after=%v", massBefore, massAfter)
	}
}

func TestApplyCracksHeavyIntoLight(t *testing.T) {
	var c pvt.Composition
	c[pvt.C6To14Sat] = 100
	before := c[pvt.C6To14Sat]
	Apply(&c, 150+273.15, 0, 5)
	if c[pvt.C6To14Sat] >= before {
		t.Errorf("C6-14Sat should strictly decrease, got %v -> %v", before, c[pvt.C6To14Sat])
	}
	if c[pvt.C4]+c[pvt.C2]+c[pvt.C1]+c[pvt.C3] <= 0 {
		t.Error("lighter components should strictly increase")
	}
}

func TestApplyNoopOnZeroInterval(t *testing.T) {
	var c pvt.Composition
	c[pvt.C15PlusSat] = 10
	before := c
	Apply(&c, 400, 5, 5)
	if c != before {
		t.Error("zero-length interval should not mutate composition")
	}
}

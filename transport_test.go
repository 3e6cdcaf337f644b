package darcyflow

import (
	"testing"

	"github.com/spatialmodel/darcyflow/mesh"
	"github.com/spatialmodel/darcyflow/pvt"
)

func TestMoveComponentsConservesMoles(t *testing.T) {
	f := newLineFormation("f", 2)
	sc := newFormationScratch(f)
	sc.computed[0] = hcComposition()
	sc.computed[1] = pvt.Composition{}

	donor := &f.Grid.Elements()[0]
	neighbour := &f.Grid.Elements()[1]
	phaseComposition := sc.computed[0]
	phaseSum := phaseComposition.Sum()
	movedTotal := 5.0 // mol

	before := sc.computed[0][pvt.C1]*donor.Volume + sc.computed[1][pvt.C1]*neighbour.Volume
	moveComponents(sc, 0, neighbour, phaseComposition, phaseSum, movedTotal, donor.Volume)
	after := sc.computed[0][pvt.C1]*donor.Volume + sc.computed[1][pvt.C1]*neighbour.Volume

	if diff := after - before; diff > 1e-9 || diff < -1e-9 {
		t.Errorf("donor-cell transfer should conserve total moles of each component: before=%v after=%v", before, after)
	}
}

func TestMoveComponentsNilNeighbourLeavesTheSubdomain(t *testing.T) {
	f := newLineFormation("f", 1)
	sc := newFormationScratch(f)
	sc.computed[0] = hcComposition()
	phaseComposition := sc.computed[0]
	phaseSum := phaseComposition.Sum()

	before := sc.computed[0][pvt.C1]
	moveComponents(sc, 0, nil, phaseComposition, phaseSum, 1.0, f.Grid.Elements()[0].Volume)
	after := sc.computed[0][pvt.C1]

	if after >= before {
		t.Errorf("a boundary-crossing flux should still debit the donor even with no neighbour: before=%v after=%v", before, after)
	}
}

func TestTransportComponentsGatedByRemoveHcTransportAge(t *testing.T) {
	f := newLineFormation("f", 1)
	f.PreviousComponent[0] = hcComposition()
	sc := newFormationScratch(f)
	sc.elementContainsHc[0] = true
	sc.oilFlux[0][mesh.Right] = 10

	cfg := DefaultConfig()
	cfg.RemoveHcTransport = true
	cfg.RemoveHcTransportAge = 50

	transportComponents(cfg, f, sc, 20, 1) // ageMa(20) < RemoveHcTransportAge(50)
	if sc.computed[0] != f.PreviousComponent[0] {
		t.Error("transport should be a no-op (copy of previous) once gated off by age")
	}
}

func TestTransportComponentsSkipsHcFreeDonors(t *testing.T) {
	f := newLineFormation("f", 2)
	f.PreviousComponent[0] = hcComposition()
	sc := newFormationScratch(f)
	sc.elementContainsHc[0] = false // HC-free: estimator gate failed
	sc.phase[0][pvt.Liquid][pvt.C1] = 40
	sc.phase[0][pvt.Liquid][pvt.C15PlusSat] = 20
	sc.oilFlux[0][mesh.Right] = 10 // would be a large outflow if the gate were ignored

	transportComponents(DefaultConfig(), f, sc, 100, 1)

	if sc.computed[0] != f.PreviousComponent[0] {
		t.Error("an HC-free element should never act as a donor, regardless of its face flux values")
	}
}

package darcyflow

import (
	"github.com/spatialmodel/darcyflow/lithology"
	"github.com/spatialmodel/darcyflow/mesh"
	"github.com/spatialmodel/darcyflow/pvt"
)

// testLithology returns a simple, strictly-positive Brooks-Corey
// lithology usable by every test in this package.
func testLithology() lithology.Lithology {
	return lithology.Lithology{
		Name:            "test-sand",
		SurfacePorosity: 0.3,
		CompactionCoeff: 1e-9,
		Permeability: lithology.BrooksCoreyPermeability{
			K0Normal:        1e-13,
			K0Plane:         1e-13,
			Exponent:        3,
			SurfacePorosity: 0.3,
			CompactionCoeff: 1e-9,
		},
		RelPerm: lithology.BrooksCoreyRelPerm{
			SorLiquid: 0.1, SorVapour: 0.05, Swc: 0.2, Lambda: 2,
		},
		Capillary:      lithology.BrooksCoreyCapillary{EntryPressurePa: 1e4, ReferenceK: 1e-13, Lambda: 2, Swc: 0.2},
		SorBrooksCorey: 0.1,
	}
}

// newLineFormation builds a single-row (1 x 1 x n) formation along K,
// every element active with identical geometry, wired with Link2D so
// Shallow/Deep neighbours exist between adjacent elements.
func newLineFormation(name string, n int) *Formation {
	grid := mesh.NewGrid(mesh.Tile{IMin: 0, IMax: 0, JMin: 0, JMax: 0}, 0, n)
	elements := grid.Elements()
	for k := 0; k < n; k++ {
		e := &elements[k]
		e.Volume = 1000
		e.LithologyDefined = true
		top := float64(k) * 10
		e.NodeZ = [8]float64{top, top, top, top, top + 10, top + 10, top + 10, top + 10}
		e.CentreDepth = top + 5
		for f := 0; f < int(mesh.NumFaces); f++ {
			e.FaceArea[f] = 100
			e.GridSpacing[f] = 10
		}
	}
	grid.Link2D()

	f := NewFormation(name, grid, testLithology(), 100)
	f.Start = Snapshot{
		AgeMa:           100,
		PorePressureMPa: make([]float64, n),
		TemperatureC:    make([]float64, n),
		VESPa:           make([]float64, n),
		MaxVESPa:        make([]float64, n),
		DepthM:          make([]float64, n),
	}
	f.End = Snapshot{
		AgeMa:           90,
		PorePressureMPa: make([]float64, n),
		TemperatureC:    make([]float64, n),
		VESPa:           make([]float64, n),
		MaxVESPa:        make([]float64, n),
		DepthM:          make([]float64, n),
	}
	for i := 0; i < n; i++ {
		f.Start.PorePressureMPa[i] = 20
		f.End.PorePressureMPa[i] = 20
		f.Start.TemperatureC[i] = 80
		f.End.TemperatureC[i] = 80
		f.Start.VESPa[i] = 1e7
		f.End.VESPa[i] = 1e7
		f.Start.MaxVESPa[i] = 1e7
		f.End.MaxVESPa[i] = 1e7
	}
	return f
}

// hcComposition returns a small, strictly-positive HC composition well
// above the default HcConcentrationLowerLimit.
func hcComposition() pvt.Composition {
	var c pvt.Composition
	c[pvt.C1] = 40
	c[pvt.C15PlusSat] = 20
	return c
}

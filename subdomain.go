/*
Copyright © 2026 the darcyflow authors.
This file is part of darcyflow.

darcyflow is free software: you can redistribute it and/or modify
it under the terms of the GNU General Public License as published by
the Free Software Foundation, either version 3 of the License, or
(at your option) any later version.

darcyflow is distributed in the hope that it will be useful,
but WITHOUT ANY WARRANTY; without even the implied warranty of
MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.  See the
GNU General Public License for more details.

You should have received a copy of the GNU General Public License
along with darcyflow.  If not, see <http://www.gnu.org/licenses/>.
*/

package darcyflow

import (
	"math"

	"github.com/spatialmodel/darcyflow/field"
	"github.com/spatialmodel/darcyflow/lithology"
	"github.com/spatialmodel/darcyflow/mesh"
	"github.com/spatialmodel/darcyflow/pvt"
)

// Snapshot holds one endpoint's worth of primary fields for a
// formation's element grid, per spec.md §6: PorePressure (MPa),
// Temperature (degC), VES (Pa), MaxVES (Pa), Depth (m), and optionally
// ChemicalCompaction (strain). Index i is the element's FlatIndex.
type Snapshot struct {
	AgeMa              float64
	PorePressureMPa    []float64
	TemperatureC       []float64
	VESPa              []float64
	MaxVESPa           []float64
	DepthM             []float64
	ChemicalCompaction []float64 // optional; nil if unused
}

// Formation owns one element grid, its lithology/fluid model, the two
// endpoint Snapshots bracketing the current interval, and all
// per-element state the solver persists across time steps (spec.md
// §3's "Per-element state persisted across time steps").
type Formation struct {
	Name string
	Grid *mesh.Grid

	Lithology     lithology.Lithology
	LiquidFluid   lithology.Fluid
	VapourFluid   lithology.Fluid

	Start, End Snapshot

	// SourceRockRate is the per-element HC generation rate from an
	// external genex simulation, mol/(m^3.Ma); may be nil if the
	// formation never generates (e.g. a reservoir-only formation).
	SourceRockRate []float64

	// Persisted state, one entry per element (indexed by FlatIndex).
	PreviousComponent     []pvt.Composition
	PhaseSaturation       []pvt.Saturation
	TransportedMasses     []float64
	TimeOfElementInvasion []float64 // Ma; +Inf until HC first appears
	KValuesCache          []pvt.KValues

	// DepositionAgeMa is the geological age at which this formation was
	// deposited; used by the active-layer iterator to order formations.
	DepositionAgeMa float64

	// NodalSaturation is the per-node projection of PhaseSaturation
	// produced by projectSaturationToNodes at the Finalise phase of
	// Solve, per spec.md §4.9. Nil until a solve has run to completion.
	NodalSaturation *field.NodeField[pvt.Saturation]
}

// NewFormation allocates a Formation over grid with all persisted
// state initialised to zero/no-HC defaults.
func NewFormation(name string, grid *mesh.Grid, lith lithology.Lithology, depositionAgeMa float64) *Formation {
	n := len(grid.Elements())
	f := &Formation{
		Name:                  name,
		Grid:                  grid,
		Lithology:             lith,
		DepositionAgeMa:       depositionAgeMa,
		PreviousComponent:     make([]pvt.Composition, n),
		PhaseSaturation:       make([]pvt.Saturation, n),
		TransportedMasses:     make([]float64, n),
		TimeOfElementInvasion: make([]float64, n),
		KValuesCache:          make([]pvt.KValues, n),
	}
	for i := range f.KValuesCache {
		f.KValuesCache[i] = pvt.ColdStart()
		f.TimeOfElementInvasion[i] = math.Inf(1)
		f.PhaseSaturation[i] = pvt.Saturation{Water: 1}
	}
	return f
}

// NumElements returns the number of elements in the formation's grid.
func (f *Formation) NumElements() int { return len(f.Grid.Elements()) }

// Lambda returns the normalized progress variable λ∈[0,1] for ageMa
// within this formation's bracketing Start/End snapshots. Geological
// age decreases forward in time, so Start.AgeMa is expected to be the
// older (larger) endpoint and End.AgeMa the younger (smaller) one.
func (f *Formation) Lambda(ageMa float64) float64 {
	span := f.Start.AgeMa - f.End.AgeMa
	if span == 0 {
		return 0
	}
	return (f.Start.AgeMa - ageMa) / span
}

// Subdomain is the ordered sequence of active formations from top to
// bottom, per spec.md §3.
type Subdomain struct {
	// Formations is ordered top (shallowest, index 0) to bottom.
	Formations []*Formation
}

// ActiveLayers visits formations in deposition order (oldest/deepest
// first) at the current snapshot age, matching spec.md §3's "active
// layer iterator visits formations in deposition order". Only
// formations whose DepositionAgeMa is >= ageMa (already deposited by
// this point in geological time) are visited.
func (s *Subdomain) ActiveLayers(ageMa float64) []*Formation {
	var active []*Formation
	for i := len(s.Formations) - 1; i >= 0; i-- {
		f := s.Formations[i]
		if f.DepositionAgeMa >= ageMa {
			active = append(active, f)
		}
	}
	return active
}

// LinkFormations wires the vertical Shallow/Deep neighbour relationship
// between adjacent formations' grids, for every (i,j) map column where
// both formations have an active element. mesh.Grid.Link2D only wires
// neighbours within a single formation's own grid; crossing a
// formation boundary is a Subdomain-level concern because the two
// grids are independently allocated, per spec.md §3's "Subdomain owns
// formations; formations own their field containers and local element
// grids".
func (s *Subdomain) LinkFormations() {
	for fi := 0; fi < len(s.Formations)-1; fi++ {
		top := s.Formations[fi]
		bottom := s.Formations[fi+1]
		ni := top.Grid.NI
		nj := top.Grid.NJ
		if bottom.Grid.NI < ni {
			ni = bottom.Grid.NI
		}
		if bottom.Grid.NJ < nj {
			nj = bottom.Grid.NJ
		}
		for i := 0; i < ni; i++ {
			for j := 0; j < nj; j++ {
				var deepE, shallowE *mesh.Element
				for k := top.Grid.KMax - 1; k >= top.Grid.KMin; k-- {
					if e := top.Grid.At(i, j, k); e != nil && e.Active() {
						deepE = e
						break
					}
				}
				for k := bottom.Grid.KMin; k < bottom.Grid.KMax; k++ {
					if e := bottom.Grid.At(i, j, k); e != nil && e.Active() {
						shallowE = e
						break
					}
				}
				if deepE != nil && shallowE != nil {
					deepE.SetNeighbour(mesh.Deep, shallowE)
					shallowE.SetNeighbour(mesh.Shallow, deepE)
				}
			}
		}
	}
}

// TotalElements returns the total element count across all formations.
func (s *Subdomain) TotalElements() int {
	var n int
	for _, f := range s.Formations {
		n += f.NumElements()
	}
	return n
}

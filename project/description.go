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

package project

import (
	"fmt"
	"math"

	"github.com/BurntSushi/toml"

	"github.com/spatialmodel/darcyflow"
	"github.com/spatialmodel/darcyflow/lithology"
	"github.com/spatialmodel/darcyflow/mesh"
)

// PermeabilityDescription is the TOML shape of a Brooks-Corey
// permeability model, matching lithology.BrooksCoreyPermeability's
// fields other than the two it inherits from its owning Lithology.
type PermeabilityDescription struct {
	K0Normal, K0Plane, Exponent float64
}

// RelPermDescription is the TOML shape of a Brooks-Corey relative
// permeability model, matching lithology.BrooksCoreyRelPerm.
type RelPermDescription struct {
	SorLiquid, SorVapour, Swc, Lambda float64
}

// CapillaryDescription is the TOML shape of a Brooks-Corey capillary
// pressure model, matching lithology.BrooksCoreyCapillary.
type CapillaryDescription struct {
	EntryPressurePa, ReferenceK, Lambda, Swc float64
}

// LithologyDescription is the TOML shape of one formation's lithology,
// per spec.md §6's project-model claim.
type LithologyDescription struct {
	Name            string
	SurfacePorosity float64
	CompactionCoeff float64
	SorBrooksCorey  float64
	Permeability    PermeabilityDescription
	RelPerm         RelPermDescription
	Capillary       CapillaryDescription
}

// Build returns the lithology.Lithology this description specifies,
// wiring the two strategy fields a project file shares between the
// Lithology and its BrooksCoreyPermeability (SurfacePorosity,
// CompactionCoeff) from the single value the file gives once.
func (d LithologyDescription) Build() lithology.Lithology {
	return lithology.Lithology{
		Name:            d.Name,
		SurfacePorosity: d.SurfacePorosity,
		CompactionCoeff: d.CompactionCoeff,
		Permeability: lithology.BrooksCoreyPermeability{
			K0Normal:        d.Permeability.K0Normal,
			K0Plane:         d.Permeability.K0Plane,
			Exponent:        d.Permeability.Exponent,
			SurfacePorosity: d.SurfacePorosity,
			CompactionCoeff: d.CompactionCoeff,
		},
		RelPerm: lithology.BrooksCoreyRelPerm{
			SorLiquid: d.RelPerm.SorLiquid,
			SorVapour: d.RelPerm.SorVapour,
			Swc:       d.RelPerm.Swc,
			Lambda:    d.RelPerm.Lambda,
		},
		Capillary: lithology.BrooksCoreyCapillary{
			EntryPressurePa: d.Capillary.EntryPressurePa,
			ReferenceK:      d.Capillary.ReferenceK,
			Lambda:          d.Capillary.Lambda,
			Swc:             d.Capillary.Swc,
		},
		SorBrooksCorey: d.SorBrooksCorey,
	}
}

// FluidDescription is the TOML shape of one formation's liquid or
// vapour fluid, matching lithology.Fluid's constant-in-temperature /
// linear-in-temperature simplifications (lithology.ConstantHeatCapacity,
// lithology.LinearSeismicVelocity).
type FluidDescription struct {
	Name                string
	HeatCapacityJPerKgK float64
	SeismicVelocityBase float64 // m/s, at 288.15 K
	SeismicVelocityDVDT float64 // (m/s)/K
}

// Build returns the lithology.Fluid this description specifies.
func (d FluidDescription) Build() lithology.Fluid {
	return lithology.Fluid{
		Name:                d.Name,
		HeatCapacityJPerKgK: lithology.ConstantHeatCapacity(d.HeatCapacityJPerKgK),
		SeismicVelocity:     lithology.LinearSeismicVelocity(d.SeismicVelocityBase, d.SeismicVelocityDVDT),
	}
}

// FormationDescription is one formation's static geometry and
// material-model description: the part of a project that is fixed for
// the project's lifetime, as opposed to darcyflow.Snapshot (read by
// SnapshotReader), which varies with geological age, and the
// persistedState this package's SaveState/LoadState round-trip, which
// varies with solve progress.
//
// The grid this produces is a single flat-layered tile: every (i,j)
// map column shares the same top depth, layer thickness, and column
// area. A project whose geometry varies laterally builds its own
// *mesh.Grid directly rather than going through LoadProjectDescription.
type FormationDescription struct {
	Name            string
	DepositionAgeMa float64

	NI, NJ, NK int

	TopDepthM       float64
	LayerThicknessM float64
	ColumnAreaM2    float64

	Lithology   LithologyDescription
	LiquidFluid FluidDescription
	VapourFluid FluidDescription
}

// ProjectDescription is the static part of a darcyflow project: the
// ordered formation stack's geometry and lithology/fluid models, read
// once at startup via LoadProjectDescription. Formations are ordered
// top (shallowest, index 0) to bottom, matching darcyflow.Subdomain.
type ProjectDescription struct {
	Formations []FormationDescription
}

// LoadProjectDescription decodes path as TOML into a ProjectDescription,
// per spec.md §6's "formations/lithologies/fluids read from a TOML
// project file" requirement.
func LoadProjectDescription(path string) (*ProjectDescription, error) {
	var desc ProjectDescription
	if _, err := toml.DecodeFile(path, &desc); err != nil {
		return nil, fmt.Errorf("project: decoding project description %s: %w", path, err)
	}
	return &desc, nil
}

// buildGrid constructs the flat-layered mesh.Grid a FormationDescription
// describes: a single worker tile spanning the whole (NI,NJ) extent,
// every element active with uniform geometry, linked with Link2D.
func buildGrid(d FormationDescription) *mesh.Grid {
	tile := mesh.Tile{IMin: 0, IMax: d.NI - 1, JMin: 0, JMax: d.NJ - 1}
	g := mesh.NewGrid(tile, 0, d.NK)
	elements := g.Elements()

	sideM := 0.0
	if d.ColumnAreaM2 > 0 {
		sideM = math.Sqrt(d.ColumnAreaM2)
	}

	for idx := range elements {
		e := &elements[idx]
		k := idx % d.NK
		top := d.TopDepthM + float64(k)*d.LayerThicknessM
		bottom := top + d.LayerThicknessM

		e.NodeZ = [8]float64{top, top, top, top, bottom, bottom, bottom, bottom}
		e.CentreDepth = (top + bottom) / 2
		e.Volume = d.ColumnAreaM2 * d.LayerThicknessM
		e.LithologyDefined = true
		for f := 0; f < int(mesh.NumFaces); f++ {
			face := mesh.Face(f)
			if face == mesh.Shallow || face == mesh.Deep {
				e.FaceArea[f] = d.ColumnAreaM2
			} else {
				e.FaceArea[f] = sideM * d.LayerThicknessM
			}
			e.GridSpacing[f] = sideM
		}
	}
	g.Link2D()
	return g
}

// BuildSubdomain constructs a *darcyflow.Subdomain from a
// ProjectDescription, allocating one mesh.Grid and darcyflow.Formation
// per formation entry. Per-element Snapshot endpoints and persisted
// state are not populated here; load them afterward with
// SnapshotReader.ReadSnapshot / LoadState.
func BuildSubdomain(desc *ProjectDescription) (*darcyflow.Subdomain, error) {
	if len(desc.Formations) == 0 {
		return nil, fmt.Errorf("project: project description defines no formations")
	}
	s := &darcyflow.Subdomain{}
	for _, fd := range desc.Formations {
		if fd.NI <= 0 || fd.NJ <= 0 || fd.NK <= 0 {
			return nil, fmt.Errorf("project: formation %q has a non-positive grid dimension", fd.Name)
		}
		grid := buildGrid(fd)
		f := darcyflow.NewFormation(fd.Name, grid, fd.Lithology.Build(), fd.DepositionAgeMa)
		f.LiquidFluid = fd.LiquidFluid.Build()
		f.VapourFluid = fd.VapourFluid.Build()
		s.Formations = append(s.Formations, f)
	}
	return s, nil
}

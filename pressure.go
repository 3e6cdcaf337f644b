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
	"github.com/spatialmodel/darcyflow/interp"
	"github.com/spatialmodel/darcyflow/pvt"
)

// phasePressure holds the per-phase element-centre pressure (Pa)
// computed by computePressure, per spec.md §4.4.
type phasePressure struct {
	Vapour, Liquid float64
}

// computePressure implements spec.md §4.4's per-phase pressure
// decomposition for one active element:
//
//	P_pore  = interpolated pore pressure (scaled MPa -> Pa)
//	P_c(phase) = lithology.capillaryPressure(phase, saturation, k_normal)
//	P_phase = P_pore + P_c(phase)
//
// Inactive elements are left at the zero value by the caller, per
// spec.md §4.4 ("only active elements are written").
func computePressure(cfg Config, f *Formation, e elementContext, lambda float64) phasePressure {
	porePressurePa := interp.Linear(
		f.Start.PorePressureMPa[e.flatIndex],
		f.End.PorePressureMPa[e.flatIndex],
		lambda) * 1e6

	ves := interp.Linear(f.Start.VESPa[e.flatIndex], f.End.VESPa[e.flatIndex], lambda)
	maxVES := interp.Linear(f.Start.MaxVESPa[e.flatIndex], f.End.MaxVESPa[e.flatIndex], lambda)
	porosity := f.Lithology.Porosity(ves)
	kNormal, _ := f.Lithology.Permeability.Permeability(porosity, ves, maxVES)

	sat := f.PhaseSaturation[e.flatIndex]

	var pc phasePressure
	if cfg.IncludeCapillaryPressure && f.Lithology.Capillary != nil {
		pc.Vapour = f.Lithology.Capillary.CapillaryPressure(pvt.Vapour, sat, kNormal)
		pc.Liquid = f.Lithology.Capillary.CapillaryPressure(pvt.Liquid, sat, kNormal)
	}

	return phasePressure{
		Vapour: porePressurePa + pc.Vapour,
		Liquid: porePressurePa + pc.Liquid,
	}
}

// elementContext carries the per-element bookkeeping the hot-loop
// functions need beyond the mesh.Element itself: its flat index into
// the formation's parallel state slices.
type elementContext struct {
	flatIndex int
}

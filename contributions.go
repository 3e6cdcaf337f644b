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

	"github.com/spatialmodel/darcyflow/pvt"
)

// applySourceTerm adds source-rock-generated hydrocarbon mass to every
// element with a defined generation rate, per spec.md §4.7. Generation
// is switched off once cfg.RemoveSourceTerm is set and the current age
// has fallen below RemoveSourceTermAge, the source-rock "exhausted"
// policy a basin model applies once expulsion history says the kitchen
// has stopped generating.
func applySourceTerm(cfg Config, f *Formation, sc *formationScratch, ageMa, dtMa float64) {
	if f.SourceRockRate == nil {
		return
	}
	if cfg.RemoveSourceTerm && ageMa < cfg.RemoveSourceTermAge {
		return
	}
	elements := f.Grid.Elements()
	for i, rate := range f.SourceRockRate {
		if rate <= 0 || !elements[i].Active() {
			continue
		}
		// The aggregate generation rate this module receives from the
		// upstream kerogen-breakdown model is deposited as the heaviest
		// mobile product (C15+ aromatics); OTGC then cracks it down the
		// network over subsequent steps, matching how a genex-coupled
		// basin model hands newly expelled HC to the transport solver.
		sc.computed[i][pvt.C15PlusAro] += rate * dtMa
	}
}

// applyPreviousTerm clamps any component transport has driven negative
// back to zero and sets the sticky concentration-error flag when the
// overshoot is more than numerical noise, per spec.md §7.
func applyPreviousTerm(f *Formation, sc *formationScratch, errs *errorSticky) {
	const tol = -1e-9
	elements := f.Grid.Elements()
	for i := range sc.computed {
		if !elements[i].Active() {
			continue
		}
		for ci, v := range sc.computed[i] {
			if v >= 0 {
				continue
			}
			if v < tol {
				errs.set(ErrorCalculatingConcentration)
			}
			sc.computed[i][ci] = 0
		}
	}
}

// divideByMassMatrix applies the interval's rock-compression correction
// to the transported concentration, per spec.md §4.7. With a lumped
// (diagonal) mass matrix — one entry per element rather than a coupled
// linear system — the "divide" is a per-element scalar rescale rather
// than a solve: compaction shrinks pore volume across the interval, so
// the same molar content occupies less room and its concentration rises
// by the same factor pore volume fell.
func divideByMassMatrix(f *Formation, sc *formationScratch, lambda float64) {
	if sc.poreVolume == nil {
		return
	}
	elements := f.Grid.Elements()
	for i := range sc.computed {
		if !elements[i].Active() {
			continue
		}
		compaction := sc.poreVolume.RockCompression(i, lambda)
		scale := 1 + compaction
		if scale <= 0 {
			continue
		}
		for ci := range sc.computed[i] {
			sc.computed[i][ci] /= scale
		}
	}
}

// setConcentrations commits sc.computed into the formation's persisted
// PreviousComponent, updates TransportedMasses and TimeOfElementInvasion,
// and recomputes phase saturation for the next interval, per spec.md
// §4.7/§4.9. Any flash result that cannot be turned into an in-bounds
// saturation sets the sticky saturation-error flag but still commits the
// concentration update, matching spec.md §7's "errors are reported, not
// fatal" model.
func setConcentrations(cfg Config, f *Formation, sc *formationScratch, nextAgeMa float64, errs *errorSticky) {
	elements := f.Grid.Elements()
	for i := range sc.computed {
		if !elements[i].Active() {
			continue
		}
		f.PreviousComponent[i] = sc.computed[i]

		if sc.computed[i].Sum() > cfg.HcConcentrationLowerLimit && math.IsInf(f.TimeOfElementInvasion[i], 1) {
			f.TimeOfElementInvasion[i] = nextAgeMa
		}
		f.TransportedMasses[i] += sc.oilFlux[i].SumGt0() + sc.gasFlux[i].SumGt0()

		if !sc.elementContainsHc[i] {
			continue
		}
		sat, ok := pvt.SetSaturations(sc.phase[i], sc.density[i], cfg.SaturationBoundsEpsilon)
		if !ok {
			errs.set(ErrorCalculatingSaturation)
			continue
		}
		f.PhaseSaturation[i] = sat
	}
}

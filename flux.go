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
	"github.com/spatialmodel/darcyflow/interp"
	"github.com/spatialmodel/darcyflow/lithology"
	"github.com/spatialmodel/darcyflow/mesh"
	"github.com/spatialmodel/darcyflow/pvt"
)

// boundaryPressureOffsetPa is the ±1 MPa estimated-neighbour-pressure
// convention for top/bottom domain-boundary faces, per spec.md §3
// invariant 4 and §4.5.
const boundaryPressureOffsetPa = 1e6

// formationScratch holds every per-interval derived quantity a
// formation's flux/transport/contribution passes need: the three
// temporal interpolators, flashed phase data, element-centre pressures,
// and the face flux arrays. Allocated at Solve() entry, released at
// exit, per spec.md §3's ownership rule for DarcySolver scratch.
type formationScratch struct {
	poreVolume   *interp.PoreVolumeInterpolator
	faceArea     *interp.FaceAreaInterpolator
	facePerm     *interp.FacePermeabilityInterpolator

	phase     []pvt.PhaseComposition
	density   [][pvt.NumPhases]float64
	viscosity [][pvt.NumPhases]float64
	pressure  []phasePressure

	gasFlux []ElementFaceValues // per element, vapour-phase molar flux
	oilFlux []ElementFaceValues // per element, liquid-phase molar flux

	computed []pvt.Composition // computedConcentrations, pre-mass-matrix
	elementContainsHc []bool
	elementDt []float64 // per-element CFL-limited Δt, Ma
}

func newFormationScratch(f *Formation) *formationScratch {
	n := f.NumElements()
	sc := &formationScratch{
		phase:             make([]pvt.PhaseComposition, n),
		density:           make([][pvt.NumPhases]float64, n),
		viscosity:         make([][pvt.NumPhases]float64, n),
		pressure:          make([]phasePressure, n),
		gasFlux:           make([]ElementFaceValues, n),
		oilFlux:           make([]ElementFaceValues, n),
		computed:          make([]pvt.Composition, n),
		elementContainsHc: make([]bool, n),
		elementDt:         make([]float64, n),
	}
	for i := range sc.elementDt {
		sc.elementDt[i] = math.Inf(1)
	}
	return sc
}

// boundaryFacePressure implements the domain-boundary pressure estimate
// of spec.md §3 invariant 4 / §4.5: lateral faces enforce no-flow by
// mirroring this element's pressure; the top face is estimated 1 MPa
// below pore pressure, the bottom face 1 MPa above.
func boundaryFacePressure(thisP float64, f mesh.Face) float64 {
	switch f {
	case mesh.Shallow:
		return thisP - boundaryPressureOffsetPa
	case mesh.Deep:
		return thisP + boundaryPressureOffsetPa
	default:
		return thisP
	}
}

func faceDeltaX(e *mesh.Element, f mesh.Face, neighbour *mesh.Element) float64 {
	if f == mesh.Shallow || f == mesh.Deep {
		if neighbour != nil {
			return math.Abs(neighbour.CentreDepth - e.CentreDepth)
		}
		return e.GridSpacing[f]
	}
	return e.GridSpacing[f]
}

// faceMolarFlux computes the signed molar flux (mol/s, positive =
// outflow from e) of one phase across one face, per spec.md §4.5's
// six-step recipe.
func faceMolarFlux(cfg Config, f *Formation, sc *formationScratch, e *mesh.Element, face mesh.Face, phase pvt.Phase, thisP, neighbourP float64, relPerm, density, viscosity, lambda float64) float64 {
	if relPerm <= 0 || viscosity <= 0 {
		return 0 // structurally zero, never an error, per spec.md §7
	}
	idx := e.FlatIndex()
	neighbour := e.Neighbour(face)

	dx := faceDeltaX(e, face, neighbour)
	if dx <= 0 {
		return 0
	}

	var kFace float64
	if cfg.InterpolatePermeability && sc.facePerm != nil {
		if face == mesh.Shallow || face == mesh.Deep {
			kFace = sc.facePerm.Normal(idx, int(face), lambda)
		} else {
			kFace = sc.facePerm.Plane(idx, int(face), lambda)
		}
	} else {
		// The recompute branch (a harmonic mean of the two elements'
		// centre permeabilities) is the fallback path, not the hot path
		// (cfg.InterpolatePermeability defaults true); it still needs the
		// formation's current λ to evaluate the real VES/MaxVES rather
		// than a fixed guess.
		kFace = averagedFacePermeability(f, e, neighbour, face, idx, lambda)
	}
	if cfg.LimitFluxPermeability && kFace > cfg.FluxPermeabilityMaximum {
		kFace = cfg.FluxPermeabilityMaximum
	}
	if kFace <= 0 {
		return 0
	}

	gradP := (neighbourP - thisP) / dx
	if cfg.LimitGradPressure {
		gradP = lithology.ClampMagnitude(gradP, cfg.GradPressureMaximum*1e6)
	}
	if face == mesh.Shallow || face == mesh.Deep {
		gradP -= lithology.GravityCorrection(density) / dx * sign2(dx)
	}

	var area float64
	if cfg.InterpolateFaceArea && sc.faceArea != nil {
		area = sc.faceArea.FaceArea(idx, int(face), lambda)
	} else {
		area = e.FaceArea[face]
	}

	volumetricFlux := area * relPerm * kFace * gradP / viscosity
	// Positive volumetricFlux here means flow along +gradP, i.e. from
	// neighbour into e when neighbourP>thisP; the sign is flipped so
	// that the return value is positive when e is the emitter, matching
	// spec.md §4.5 ("positive = outflow from this element").
	outwardFlux := -volumetricFlux

	meanMolarMass := pvt.MeanMolarMass(sc.phase[idx][phase])
	if meanMolarMass <= 0 {
		return 0
	}
	return outwardFlux * density / meanMolarMass
}

func sign2(v float64) float64 {
	if v < 0 {
		return -1
	}
	return 1
}

// averagedFacePermeability is the non-interpolated fallback for face
// permeability: the harmonic mean of this element's and its
// neighbour's permeability in the face's direction, each evaluated at
// its own current VES/MaxVES (λ-interpolated between the formation's
// bracketing snapshots). At a domain boundary the neighbour is taken
// equal to this element's.
func averagedFacePermeability(f *Formation, e, neighbour *mesh.Element, face mesh.Face, idx int, lambda float64) float64 {
	k := elementFacePermeability(f, idx, lambda, face)
	if neighbour == nil {
		return k
	}
	nk := elementFacePermeability(f, neighbour.FlatIndex(), lambda, face)
	return lithology.HarmonicMean(k, nk)
}

// elementFacePermeability evaluates the formation's permeability model
// for element idx in the direction face points, at the current λ.
func elementFacePermeability(f *Formation, idx int, lambda float64, face mesh.Face) float64 {
	ves := interp.Linear(f.Start.VESPa[idx], f.End.VESPa[idx], lambda)
	maxVES := interp.Linear(f.Start.MaxVESPa[idx], f.End.MaxVESPa[idx], lambda)
	porosity := f.Lithology.Porosity(ves)
	kNormal, kPlane := f.Lithology.Permeability.Permeability(porosity, ves, maxVES)
	if face == mesh.Shallow || face == mesh.Deep {
		return kNormal
	}
	return kPlane
}

// assembleFluxes implements spec.md §4.5 for every active element of f,
// writing sc.gasFlux/sc.oilFlux and sc.elementDt (the per-element
// CFL-limited Δt; the subdomain-wide minimum is computed by the caller,
// per the Open Question decision to keep per-element and per-subdomain
// step sizes in separate variables).
func assembleFluxes(cfg Config, f *Formation, sc *formationScratch, lambda float64) {
	elements := f.Grid.Elements()
	field.Parallel(len(elements), func(n int) {
		e := &elements[n]
		if !e.Active() {
			return
		}
		idx := e.FlatIndex()
		sat := f.PhaseSaturation[idx]
		relPermLiquid := f.Lithology.RelPerm.RelPerm(pvt.Liquid, sat)
		relPermVapour := f.Lithology.RelPerm.RelPerm(pvt.Vapour, sat)

		thisP := sc.pressure[idx]

		var gas, oil ElementFaceValues
		for faceN := 0; faceN < int(mesh.NumFaces); faceN++ {
			face := mesh.Face(faceN)
			neighbour := e.Neighbour(face)
			var neighbourPLiquid, neighbourPVapour float64
			if neighbour == nil {
				neighbourPLiquid = boundaryFacePressure(thisP.Liquid, face)
				neighbourPVapour = boundaryFacePressure(thisP.Vapour, face)
			} else {
				np := sc.pressure[neighbour.FlatIndex()]
				neighbourPLiquid = np.Liquid
				neighbourPVapour = np.Vapour
			}

			oil[faceN] = faceMolarFlux(cfg, f, sc, e, face, pvt.Liquid,
				thisP.Liquid, neighbourPLiquid, relPermLiquid,
				sc.density[idx][pvt.Liquid], sc.viscosity[idx][pvt.Liquid], lambda)
			gas[faceN] = faceMolarFlux(cfg, f, sc, e, face, pvt.Vapour,
				thisP.Vapour, neighbourPVapour, relPermVapour,
				sc.density[idx][pvt.Vapour], sc.viscosity[idx][pvt.Vapour], lambda)
		}
		sc.gasFlux[idx] = gas
		sc.oilFlux[idx] = oil

		sc.elementDt[idx] = elementCflTimeStep(cfg, e, f.PreviousComponent[idx], sc.phase[idx], gas, oil)
	})
}

// elementCflTimeStep implements the per-element half of spec.md §4.5's
// time-step governor: the largest Δt (Ma) that keeps
// V·c_i ≥ Δt·Σ_phase frac_i·flux_out for every component.
func elementCflTimeStep(cfg Config, e *mesh.Element, c pvt.Composition, pc pvt.PhaseComposition, gas, oil ElementFaceValues) float64 {
	gasOut := gas.SumGt0()
	oilOut := oil.SumGt0()
	if gasOut <= 0 && oilOut <= 0 {
		return math.Inf(1)
	}
	minDtSeconds := math.Inf(1)
	liquidSum := pc.SumPhaseMolar(pvt.Liquid)
	vapourSum := pc.SumPhaseMolar(pvt.Vapour)
	for i, ci := range c {
		if ci <= 0 {
			continue
		}
		var outflow float64
		if liquidSum > 0 {
			fracLiquid := pc[pvt.Liquid][i] / liquidSum
			outflow += fracLiquid * oilOut
		}
		if vapourSum > 0 {
			fracVapour := pc[pvt.Vapour][i] / vapourSum
			outflow += fracVapour * gasOut
		}
		if outflow <= 0 {
			continue
		}
		dt := cfg.AdaptiveTimeStepFraction * e.Volume * ci / outflow
		if dt < minDtSeconds {
			minDtSeconds = dt
		}
	}
	return minDtSeconds / secondsPerMa
}

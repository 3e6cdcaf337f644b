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
	"context"
	"fmt"

	"github.com/sirupsen/logrus"
	"golang.org/x/sync/errgroup"

	"github.com/spatialmodel/darcyflow/field"
	"github.com/spatialmodel/darcyflow/interp"
	"github.com/spatialmodel/darcyflow/mesh"
	"github.com/spatialmodel/darcyflow/otgc"
	"github.com/spatialmodel/darcyflow/pvt"
	"github.com/spatialmodel/darcyflow/telemetry"
)

// DarcySolver runs the explicit multi-component Darcy transport
// integration over a Subdomain's geological history, composing the
// flash/flux/transport/OTGC/saturation phases in the fixed order of
// spec.md §4.10: Setup, an adaptive-Δt iteration loop until the
// interval end is reached, then Finalise. Grounded on the teacher's
// top-level InMAP value in framework.go, which likewise bundles
// configuration, a logger, and run-wide bookkeeping on one struct that
// every phase method hangs off of.
type DarcySolver struct {
	Config    Config
	Telemetry *telemetry.Telemetry
	Log       *logrus.Logger

	// Exchanger performs the cross-worker ghost exchange the Finalise
	// phase's nodal saturation projection needs. Nil is valid and
	// behaves as the single-process no-op (see field.Exchanger).
	Exchanger *field.Exchanger
}

// NewDarcySolver returns a solver configured with cfg, a fresh
// Telemetry accumulator, and a standard logrus logger.
func NewDarcySolver(cfg Config) *DarcySolver {
	return &DarcySolver{
		Config:    cfg,
		Telemetry: telemetry.New(),
		Log:       logrus.StandardLogger(),
		Exchanger: &field.Exchanger{},
	}
}

// Solve advances every active formation of s from tStartMa to tEndMa
// (geological age, Ma, decreasing forward in time), returning a
// *SolveError when the sticky error flag of spec.md §7 is ever set, and
// nil on normal completion.
func (d *DarcySolver) Solve(ctx context.Context, s *Subdomain, tStartMa, tEndMa float64) error {
	if tEndMa > tStartMa {
		return fmt.Errorf("darcyflow: interval end %.4f Ma must not exceed start %.4f Ma (age decreases forward in time)", tEndMa, tStartMa)
	}

	d.Log.WithFields(logrus.Fields{
		"intervalStartMa": tStartMa,
		"intervalEndMa":   tEndMa,
		"formations":      len(s.Formations),
	}).Info("darcyflow: starting solve")

	s.LinkFormations()

	scratches := make(map[*Formation]*formationScratch, len(s.Formations))
	for _, f := range s.Formations {
		sc := newFormationScratch(f)
		d.precomputeInterpolators(f, sc)
		scratches[f] = sc
	}

	var errs errorSticky
	governor := newTimeStepGovernor(d.Config)
	ageMa := tStartMa

	for ageMa > tEndMa {
		select {
		case <-ctx.Done():
			return ctx.Err()
		default:
		}

		active := s.ActiveLayers(ageMa)
		if len(active) == 0 {
			break
		}
		lambdas := make(map[*Formation]float64, len(active))
		for _, f := range active {
			lambdas[f] = f.Lambda(ageMa)
		}

		d.Telemetry.Time(telemetry.Flash, func() {
			d.runFlash(active, scratches, lambdas)
		})

		d.Telemetry.Time(telemetry.Flux, func() {
			var g errgroup.Group
			for _, f := range active {
				f := f
				lambda := lambdas[f]
				g.Go(func() error {
					assembleFluxes(d.Config, f, scratches[f], lambda)
					return nil
				})
			}
			g.Wait()
		})

		scList := make([]*formationScratch, 0, len(active))
		for _, f := range active {
			scList = append(scList, scratches[f])
		}
		dtMa := governor.next(scList, ageMa, tEndMa)
		if dtMa <= 0 {
			break
		}
		nextAgeMa := ageMa - dtMa

		d.Telemetry.Time(telemetry.Transport, func() {
			var g errgroup.Group
			for _, f := range active {
				f := f
				g.Go(func() error {
					transportComponents(d.Config, f, scratches[f], ageMa, dtMa)
					return nil
				})
			}
			g.Wait()
		})

		{
			var g errgroup.Group
			for _, f := range active {
				f := f
				sc := scratches[f]
				lambda := lambdas[f]
				g.Go(func() error {
					applySourceTerm(d.Config, f, sc, ageMa, dtMa)
					applyPreviousTerm(f, sc, &errs)
					divideByMassMatrix(f, sc, lambda)
					return nil
				})
			}
			g.Wait()
		}

		if d.Config.ApplyOtgc {
			d.Telemetry.Time(telemetry.OTGC, func() {
				d.runOtgc(active, scratches, lambdas, dtMa)
			})
		}

		d.Telemetry.Time(telemetry.Saturation, func() {
			var g errgroup.Group
			for _, f := range active {
				f := f
				g.Go(func() error {
					setConcentrations(d.Config, f, scratches[f], nextAgeMa, &errs)
					return nil
				})
			}
			g.Wait()
		})

		d.Telemetry.Add(telemetry.StepCount, 1)

		if errs.isSet() {
			solveErr := &SolveError{
				Kind:            errs.get(),
				AgeMa:           nextAgeMa,
				IntervalStartMa: tStartMa,
				IntervalEndMa:   tEndMa,
			}
			d.Log.WithFields(logrus.Fields{
				"ageMa": nextAgeMa,
				"kind":  errs.get().String(),
			}).Error(solveErr.Error())
			return solveErr
		}

		d.Log.WithFields(logrus.Fields{
			"ageMa":     ageMa,
			"dtMa":      dtMa,
			"nextAgeMa": nextAgeMa,
		}).Debug("darcyflow: stepped")

		ageMa = nextAgeMa
	}

	if err := projectSaturationToNodes(ctx, s, d.Exchanger); err != nil {
		d.Log.WithError(err).Error("darcyflow: saturation nodal projection failed")
		return err
	}

	wall, counters := d.Telemetry.Snapshot()
	d.Log.WithFields(logrus.Fields{
		"wall":     wall,
		"counters": counters,
	}).Info("darcyflow: solve complete")

	return nil
}

// runFlash estimates HC presence/mobility, computes per-phase pressure,
// and — for elements that pass the estimator gate — runs a warm-started
// PVT flash, writing results into each formation's scratch. Grounded on
// the teacher's Calculations worker-pool shape in run.go.
func (d *DarcySolver) runFlash(active []*Formation, scratches map[*Formation]*formationScratch, lambdas map[*Formation]float64) {
	var g errgroup.Group
	for _, f := range active {
		f := f
		sc := scratches[f]
		lambda := lambdas[f]
		g.Go(func() error {
			d.runFormationFlash(f, sc, lambda)
			return nil
		})
	}
	g.Wait()
}

// runFormationFlash is the per-formation body of runFlash, split out so
// it can be dispatched concurrently across formations by an errgroup
// while field.Parallel continues to stride elements within one
// formation — two independent levels of fan-out, matching the
// teacher's nested goroutine-pool shape in run.go.
func (d *DarcySolver) runFormationFlash(f *Formation, sc *formationScratch, lambda float64) {
	// assumedHcDensityKgM3 is the representative density the cheap
	// estimated-saturation gate uses before a real flash has run; the
	// flashed density supersedes it for every element that passes the
	// gate.
	const assumedHcDensityKgM3 = 700.0

	elements := f.Grid.Elements()
	field.Parallel(len(elements), func(i int) {
		e := &elements[i]
		if !e.Active() {
			return
		}
		idx := e.FlatIndex()
		comp := f.PreviousComponent[idx]

		est := estimateHcTransport(d.Config, comp, assumedHcDensityKgM3, f.Lithology.SorBrooksCorey)
		sc.elementContainsHc[idx] = est.Contains

		sc.pressure[idx] = computePressure(d.Config, f, elementContext{flatIndex: idx}, lambda)

		if !est.Contains || !est.Transports {
			sc.phase[idx] = pvt.PhaseComposition{}
			return
		}

		temperatureK := interp.Linear(f.Start.TemperatureC[idx], f.End.TemperatureC[idx], lambda) + 273.15
		meanPressure := (sc.pressure[idx].Liquid + sc.pressure[idx].Vapour) / 2

		result := pvt.Flash(comp, meanPressure, temperatureK, f.KValuesCache[idx])
		sc.phase[idx] = result.Phase
		sc.density[idx] = result.Density
		sc.viscosity[idx] = result.Viscosity
		f.KValuesCache[idx] = result.KValues

		d.Telemetry.Add(telemetry.FlashCount, 1)
	})
}

// runOtgc applies oil-to-gas cracking kinetics over the just-advanced
// Δt (Ma) for every element the HC-presence gate passed, per spec.md
// §4.8.
func (d *DarcySolver) runOtgc(active []*Formation, scratches map[*Formation]*formationScratch, lambdas map[*Formation]float64, dtMa float64) {
	for _, f := range active {
		sc := scratches[f]
		lambda := lambdas[f]
		elements := f.Grid.Elements()
		field.Parallel(len(elements), func(i int) {
			e := &elements[i]
			if !e.Active() || !sc.elementContainsHc[i] {
				return
			}
			temperatureK := interp.Linear(f.Start.TemperatureC[i], f.End.TemperatureC[i], lambda) + 273.15
			otgc.Apply(&sc.computed[i], temperatureK, 0, dtMa)
		})
	}
}

// precomputeInterpolators builds the three derived-quantity polynomial
// interpolators for a formation at Solve() entry, per spec.md §4.1.
func (d *DarcySolver) precomputeInterpolators(f *Formation, sc *formationScratch) {
	n := f.NumElements()
	elements := f.Grid.Elements()
	degree := d.Config.FaceQuadratureDegree
	if degree <= 0 {
		degree = 3
	}

	poreVolumeSampler := func(i int, lambda float64) []float64 {
		e := &elements[i]
		ves := interp.Linear(f.Start.VESPa[i], f.End.VESPa[i], lambda)
		porosity := f.Lithology.Porosity(ves)
		poreVolume := porosity * e.Volume
		rockCompression := -f.Lithology.CompactionCoeff * porosity
		return []float64{poreVolume, rockCompression}
	}
	sc.poreVolume = interp.NewPoreVolumeInterpolator(n, degree, poreVolumeSampler)

	faceAreaSampler := func(i int, lambda float64) []float64 {
		e := &elements[i]
		vals := make([]float64, mesh.NumFaces)
		for faceN := range vals {
			vals[faceN] = e.FaceArea[faceN]
		}
		return vals
	}
	sc.faceArea = interp.NewFaceAreaInterpolator(n, degree, faceAreaSampler)

	facePermSampler := func(i int, lambda float64) []float64 {
		ves := interp.Linear(f.Start.VESPa[i], f.End.VESPa[i], lambda)
		maxVES := interp.Linear(f.Start.MaxVESPa[i], f.End.MaxVESPa[i], lambda)
		porosity := f.Lithology.Porosity(ves)
		kNormal, kPlane := f.Lithology.Permeability.Permeability(porosity, ves, maxVES)
		vals := make([]float64, 12)
		for faceN := 0; faceN < int(mesh.NumFaces); faceN++ {
			vals[faceN*2] = kNormal
			vals[faceN*2+1] = kPlane
		}
		return vals
	}
	sc.facePerm = interp.NewFacePermeabilityInterpolator(n, degree, facePermSampler)
}

// GlobalSaturation returns the bulk-volume-weighted mean phase
// saturation across s, for end-of-solve diagnostics.
func (d *DarcySolver) GlobalSaturation(s *Subdomain) pvt.Saturation {
	return bulkVolumeWeightedSaturation(s)
}

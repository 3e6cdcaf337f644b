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

	"github.com/spatialmodel/darcyflow/field"
	"github.com/spatialmodel/darcyflow/pvt"
)

// formationSaturationSums returns the volume-weighted phase-saturation
// sums (and the volume they're weighted by) across every active
// element of f, the shared arithmetic behind both
// bulkVolumeWeightedSaturation and the per-node projection's fallback.
func formationSaturationSums(f *Formation) (volSum, liquid, vapour, water float64) {
	elements := f.Grid.Elements()
	for i := range elements {
		e := &elements[i]
		if !e.Active() {
			continue
		}
		v := e.Volume
		sat := f.PhaseSaturation[e.FlatIndex()]
		volSum += v
		liquid += v * sat.Liquid
		vapour += v * sat.Vapour
		water += v * sat.Water
	}
	return
}

// bulkVolumeWeightedSaturation computes the bulk-volume-weighted mean
// phase saturation across every active element of a subdomain,
// grounded on the volume-weighted aggregation the teacher's popgrid.go
// uses to roll fine-grid population values up to coarser reporting
// cells. Used for the end-of-solve diagnostic summary (GlobalSaturation)
// and as the per-node projection's fallback at nodes with no
// contributing volume.
func bulkVolumeWeightedSaturation(s *Subdomain) pvt.Saturation {
	var volSum, liquid, vapour, water float64
	for _, f := range s.Formations {
		v, l, va, w := formationSaturationSums(f)
		volSum += v
		liquid += l
		vapour += va
		water += w
	}
	if volSum <= 0 {
		return pvt.Saturation{Water: 1}
	}
	return pvt.Saturation{
		Liquid: liquid / volSum,
		Vapour: vapour / volSum,
		Water:  water / volSum,
	}
}

// bulkFormationSaturation is bulkVolumeWeightedSaturation restricted to
// one formation, used as the nodal projection's per-formation fallback.
func bulkFormationSaturation(f *Formation) pvt.Saturation {
	v, l, va, w := formationSaturationSums(f)
	if v <= 0 {
		return pvt.Saturation{Water: 1}
	}
	return pvt.Saturation{Liquid: l / v, Vapour: va / v, Water: w / v}
}

// projectSaturationToNodes implements spec.md §4.9's per-node
// saturation projection for every formation of s, populating each
// formation's NodalSaturation field. Grounded on popgrid.go's
// volume-weighted area-fraction aggregation, adapted here from
// population-weighted area averaging to volume-weighted nodal
// saturation averaging, with field.ExchangeNodeField standing in for
// the cross-worker reduction a distributed deployment would need.
func projectSaturationToNodes(ctx context.Context, s *Subdomain, exch *field.Exchanger) error {
	for _, f := range s.Formations {
		if err := projectFormationSaturationToNodes(ctx, f, exch); err != nil {
			return err
		}
	}
	return nil
}

// projectFormationSaturationToNodes accumulates every active element's
// volume-weighted phase saturation onto its eight incident corner
// nodes (mesh.Element.ElementNodes), ghost-exchanges the per-node
// accumulators, divides by the accumulated volume, and scatters the
// result into f.NodalSaturation. Nodes with no contributing active
// element (volume sum of 0, e.g. a node only touched by inactive
// elements) fall back to the formation's bulk average rather than
// dividing by zero.
func projectFormationSaturationToNodes(ctx context.Context, f *Formation, exch *field.Exchanger) error {
	numNodes := f.Grid.NumNodes()
	volumeSum := field.NewNodeField[float64](numNodes)
	accum := field.NewNodeField[pvt.Saturation](numNodes)

	elements := f.Grid.Elements()
	for i := range elements {
		e := &elements[i]
		if !e.Active() {
			continue
		}
		v := e.Volume
		sat := f.PhaseSaturation[e.FlatIndex()]
		for _, n := range e.ElementNodes() {
			acc := accum.Get(n)
			acc.Liquid += v * sat.Liquid
			acc.Vapour += v * sat.Vapour
			acc.Water += v * sat.Water
			accum.Set(n, acc)
			volumeSum.Set(n, volumeSum.Get(n)+v)
		}
	}

	if err := field.ExchangeNodeField(ctx, exch, accum); err != nil {
		return err
	}
	if err := field.ExchangeNodeField(ctx, exch, volumeSum); err != nil {
		return err
	}

	fallback := bulkFormationSaturation(f)
	nodal := field.NewNodeField[pvt.Saturation](numNodes)
	for n := 0; n < numNodes; n++ {
		v := volumeSum.Get(n)
		if v <= 0 {
			nodal.Set(n, fallback)
			continue
		}
		acc := accum.Get(n)
		nodal.Set(n, pvt.Saturation{
			Liquid: acc.Liquid / v,
			Vapour: acc.Vapour / v,
			Water:  acc.Water / v,
		})
	}

	f.NodalSaturation = nodal
	return nil
}

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

// Package otgc implements oil-to-gas cracking (OTGC) kinetics: a
// first-order thermal decomposition network converting heavy
// pseudo-components into lighter ones over a sub-interval, mutating an
// element's composition in place. Gated by an element bitmask so the
// integration is skipped for HC-empty elements, per spec.md §4.8.
package otgc

import (
	"math"

	"github.com/spatialmodel/darcyflow/pvt"
)

// reaction is one first-order cracking step: a fraction of Source
// converts into Target per unit time at a temperature-dependent rate
// given by an Arrhenius expression.
type reaction struct {
	Source, Target pvt.Component
	ActivationJ    float64 // J/mol
	PreExponential float64 // 1/s
}

// gasConstant, J/(mol.K).
const gasConstant = 8.314

// network is the fixed cracking scheme: asphaltenes and resins crack
// down into aromatics/saturates, which in turn crack into progressively
// lighter gas components, terminating at C1 and a solid coke residue
// (LSC), matching the standard OTGC reaction scheme used in basin
// modeling (heavy-to-light cascade, no back-reactions).
var network = []reaction{
	{pvt.Asphaltenes, pvt.LSC, 230e3, 5e11},
	{pvt.Asphaltenes, pvt.C15PlusAro, 210e3, 2e11},
	{pvt.Resins, pvt.C15PlusAro, 200e3, 2e11},
	{pvt.Resins, pvt.C15PlusSat, 205e3, 2e11},
	{pvt.C15PlusAro, pvt.C6To14Aro, 220e3, 8e12},
	{pvt.C15PlusSat, pvt.C6To14Sat, 215e3, 8e12},
	{pvt.C6To14Aro, pvt.C5, 225e3, 3e13},
	{pvt.C6To14Sat, pvt.C4, 222e3, 3e13},
	{pvt.C5, pvt.C3, 228e3, 1e13},
	{pvt.C4, pvt.C2, 230e3, 1e13},
	{pvt.C3, pvt.C1, 232e3, 1e13},
	{pvt.C2, pvt.C1, 234e3, 1e13},
}

func rateConstant(r reaction, temperatureK float64) float64 {
	return r.PreExponential * math.Exp(-r.ActivationJ/(gasConstant*temperatureK))
}

// Apply integrates the cracking network over [tStart, tEnd] (Ma,
// converted internally to seconds) at the given constant temperature,
// mutating composition in place via explicit sub-stepping fine enough
// that no single reaction consumes more than 10% of its source pool in
// one sub-step. elementContainsHc gates the call entirely: callers
// should not invoke Apply for elements where that bit is false, since
// the whole point of the gate is to skip the (relatively) expensive
// integration for empty elements, per spec.md §4.8.
func Apply(c *pvt.Composition, temperatureK, tStartMa, tEndMa float64) {
	const secondsPerMa = 1e6 * 365.25 * 24 * 3600
	totalSeconds := (tEndMa - tStartMa) * secondsPerMa
	if totalSeconds <= 0 {
		return
	}

	// Determine the fastest rate constant present to size sub-steps.
	var maxRate float64
	for _, r := range network {
		if k := rateConstant(r, temperatureK); k > maxRate {
			maxRate = k
		}
	}
	if maxRate <= 0 {
		return
	}
	dt := 0.1 / maxRate
	if dt > totalSeconds {
		dt = totalSeconds
	}
	steps := int(math.Ceil(totalSeconds / dt))
	dt = totalSeconds / float64(steps)

	for s := 0; s < steps; s++ {
		var delta pvt.Composition
		for _, r := range network {
			k := rateConstant(r, temperatureK)
			amount := c[r.Source] * k * dt
			if amount > c[r.Source] {
				amount = c[r.Source]
			}
			delta[r.Source] -= amount
			// Moles of product carry the same mass as the moles of
			// source consumed, so the network conserves mass.
			delta[r.Target] += amount * pvt.MolarMass[r.Source] / pvt.MolarMass[r.Target]
		}
		for i := range c {
			c[i] += delta[i]
			if c[i] < 0 {
				c[i] = 0
			}
		}
	}
}

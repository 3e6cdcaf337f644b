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

import "math"

// timeStepGovernor tracks the evolving interval time step across a
// Solve() iteration loop, per spec.md §4.5/§6. elementTimeStep (the
// per-element CFL estimate formationScratch.elementDt holds) and
// intervalTimeStep (the step this governor actually hands back to the
// caller) are kept as separate variables throughout, per the Open
// Question decision recorded in DESIGN.md: the subdomain-wide step is a
// reduction over element estimates, never the other way around.
type timeStepGovernor struct {
	cfg      Config
	previous float64 // Ma; 0 before the first step is taken
}

func newTimeStepGovernor(cfg Config) *timeStepGovernor {
	return &timeStepGovernor{cfg: cfg}
}

// next computes the interval time step (Ma) for the upcoming iteration,
// given ageMa (the current geological age, decreasing forward in time)
// and tEndMa (the age the interval must not step past). It reduces the
// per-element CFL estimates across every active formation's scratch to
// an interval-wide minimum, caps it at MaximumTimeStepSizeMa, smooths
// growth against the previous step, and snaps to land exactly on
// tEndMa when within reach rather than leaving a vanishing final step.
func (g *timeStepGovernor) next(scratches []*formationScratch, ageMa, tEndMa float64) float64 {
	remaining := ageMa - tEndMa
	if remaining <= 0 {
		return 0
	}

	dt := remaining
	if g.cfg.AdaptiveTimeStepping {
		elementTimeStep := math.Inf(1)
		for _, sc := range scratches {
			for _, e := range sc.elementDt {
				if e < elementTimeStep {
					elementTimeStep = e
				}
			}
		}
		if !math.IsInf(elementTimeStep, 1) && elementTimeStep > 0 {
			dt = elementTimeStep
		}
	}

	if g.cfg.MaximumTimeStepSizeMa > 0 && dt > g.cfg.MaximumTimeStepSizeMa {
		dt = g.cfg.MaximumTimeStepSizeMa
	}

	if g.cfg.ApplyTimeStepSmoothing && g.previous > 0 {
		maxGrowth := g.previous * g.cfg.TimeStepSmoothingFactor
		if dt > maxGrowth {
			dt = maxGrowth
		}
	}

	if dt >= remaining {
		dt = remaining
	} else if remaining-dt < 0.05*dt {
		// Snapping here avoids a trailing step so small it would do
		// nothing but add an extra flash/flux/transport pass.
		dt = remaining
	}

	intervalTimeStep := dt
	g.previous = intervalTimeStep
	return intervalTimeStep
}

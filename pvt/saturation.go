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

// Saturation is the 3-tuple (LIQUID, VAPOUR, WATER) with invariant
// Σ = 1 (water is residual), per spec.md §3.
type Saturation struct {
	Liquid, Vapour, Water float64
}

// Sum returns Liquid+Vapour+Water, which must equal 1 within the
// tolerance spec.md §8 testable property 1 specifies.
func (s Saturation) Sum() float64 { return s.Liquid + s.Vapour + s.Water }

// InBounds reports whether every component lies in [0, 1+eps], per
// spec.md §4.2.
func (s Saturation) InBounds(eps float64) bool {
	lo, hi := -eps, 1+eps
	return s.Liquid >= lo && s.Liquid <= hi &&
		s.Vapour >= lo && s.Vapour <= hi &&
		s.Water >= lo && s.Water <= hi
}

// SetSaturations converts a flashed phase composition and phase
// densities into a Saturation, per spec.md §4.2:
//
//	S_phase = (Σ_components phaseComposition(phase,c)·M_c) / ρ_phase
//	S_water = 1 - S_liquid - S_vapour
//
// ok is false when either phase density is zero but its composition is
// not (an ill-posed flash result) or when the resulting saturation
// falls outside [0,1+eps]; the caller is responsible for setting the
// sticky ErrorCalculatingSaturation flag when ok is false.
func SetSaturations(pc PhaseComposition, density [NumPhases]float64, eps float64) (Saturation, bool) {
	var s Saturation
	for _, phase := range []Phase{Liquid, Vapour} {
		mass := pc.SumPhase(phase)
		if mass <= 0 {
			continue
		}
		if density[phase] <= 0 {
			return s, false
		}
		sat := mass / density[phase]
		if phase == Liquid {
			s.Liquid = sat
		} else {
			s.Vapour = sat
		}
	}
	s.Water = 1 - s.Liquid - s.Vapour
	return s, s.InBounds(eps)
}

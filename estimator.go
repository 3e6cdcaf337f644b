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

import "github.com/spatialmodel/darcyflow/pvt"

// hcEstimate is the cheap per-element "does HC exist / does it
// transport" bit pair computed before flashing, per spec.md §4.3 —
// grounded on the teacher's pre-Chemistry gating checks in science.go,
// which likewise skip the expensive per-cell calculation entirely when
// a cheap precondition fails.
type hcEstimate struct {
	Contains  bool
	Transports bool
}

// estimateHcTransport implements both modes of spec.md §4.3.
//
// estimated-saturation mode (useSaturationEstimate=true):
//
//	S_est = (Σ c_i·M_i) / ρ_assumed
//	contains HC  := Σ c_i > HcConcentrationLowerLimit
//	transports   := S_est > Sor_scaling * Sor_Brooks_Corey
//
// strict mode: contains and transports are both Σ c_i > HcConcentrationLowerLimit.
func estimateHcTransport(cfg Config, c pvt.Composition, assumedDensity, sorBrooksCorey float64) hcEstimate {
	sum := c.Sum()
	contains := sum > cfg.HcConcentrationLowerLimit
	if !cfg.UseSaturationEstimate {
		return hcEstimate{Contains: contains, Transports: contains}
	}
	if !contains || assumedDensity <= 0 {
		return hcEstimate{Contains: contains, Transports: false}
	}
	var massWeighted float64
	for i, v := range c {
		massWeighted += v * pvt.MolarMass[i]
	}
	sEst := massWeighted / assumedDensity
	transports := sEst > cfg.ResidualHcSaturationScaling*sorBrooksCorey
	return hcEstimate{Contains: contains, Transports: transports}
}

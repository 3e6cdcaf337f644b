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

// Config holds every independent knob of spec.md §6. Each field is a
// standalone option: there is no cross-field validation beyond the
// bounds noted per field, matching the teacher's flat VarGridConfig
// style in vargrid.go.
type Config struct {
	AdaptiveTimeStepping    bool
	AdaptiveTimeStepFraction float64 // (0,1], CFL safety factor, default 0.5
	MaximumTimeStepSizeMa   float64

	ApplyTimeStepSmoothing  bool
	TimeStepSmoothingFactor float64 // > 1

	IncludeCapillaryPressure bool
	UseImmobileSaturation    bool

	UseSaturationEstimate       bool
	ResidualHcSaturationScaling float64 // > 0, a.k.a. Sor_scaling

	InterpolatePoreVolume   bool
	InterpolateFaceArea     bool
	InterpolatePermeability bool

	LimitGradPressure    bool
	GradPressureMaximum  float64 // MPa/m

	LimitFluxPermeability   bool
	FluxPermeabilityMaximum float64 // m^2

	FaceQuadratureDegree               int // [1,20]
	PreviousContributionsQuadratureDegree int // [1,20]
	MassMatrixQuadratureDegree         int // [1,20]

	RemoveSourceTerm    bool
	RemoveSourceTermAge float64 // Ma

	RemoveHcTransport    bool
	RemoveHcTransportAge float64 // Ma

	ApplyOtgc bool

	// IncludeWaterSaturationInOp is parsed and stored but never
	// consumed by this module: its only consumer is the external
	// pressure solver, out of scope here per spec.md §9.
	IncludeWaterSaturationInOp bool

	// HcConcentrationLowerLimit is the composition-sum threshold below
	// which an element is treated as HC-empty, per spec.md §4.2/§4.3.
	HcConcentrationLowerLimit float64

	// SaturationBoundsEpsilon is the ε of spec.md §4.2's [0,1+ε] check.
	SaturationBoundsEpsilon float64
}

// DefaultConfig returns a Config with the defaults spec.md §6 calls
// out explicitly; every other field defaults to Go's zero value
// (meaning the corresponding feature is off) until a project file sets
// it, matching the teacher's "every option is independent" philosophy.
func DefaultConfig() Config {
	return Config{
		AdaptiveTimeStepping:        true,
		AdaptiveTimeStepFraction:    0.5,
		MaximumTimeStepSizeMa:       1.0,
		ApplyTimeStepSmoothing:      true,
		TimeStepSmoothingFactor:     1.5,
		IncludeCapillaryPressure:    true,
		UseSaturationEstimate:       true,
		ResidualHcSaturationScaling: 1.0,
		InterpolatePoreVolume:       true,
		InterpolateFaceArea:         true,
		InterpolatePermeability:     true,
		FaceQuadratureDegree:        3,
		PreviousContributionsQuadratureDegree: 3,
		MassMatrixQuadratureDegree:  3,
		ApplyOtgc:                   true,
		HcConcentrationLowerLimit:   1e-6,
		SaturationBoundsEpsilon:     1e-6,
	}
}

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

// Package lithology implements porosity, permeability, relative
// permeability, and capillary-pressure models as small strategy values
// chosen once at project-load time, per the REDESIGN FLAG in spec.md
// §9: the hot loop only ever holds a Lithology by value and calls its
// methods, never switching on a type tag inside the flux-assembly loop.
package lithology

import (
	"math"

	"github.com/spatialmodel/darcyflow/pvt"
)

// PermeabilityModel computes the normal and plane permeability tensor
// components as a function of vertical effective stress.
type PermeabilityModel interface {
	// Permeability returns (kNormal, kPlane) in m^2 given the current
	// porosity, VES, and MaxVES (Pa).
	Permeability(porosity, ves, maxVES float64) (kNormal, kPlane float64)
}

// RelPermModel computes relative permeability for a phase given its
// saturation.
type RelPermModel interface {
	RelPerm(phase pvt.Phase, s pvt.Saturation) float64
}

// CapillaryModel computes capillary pressure for a phase.
type CapillaryModel interface {
	CapillaryPressure(phase pvt.Phase, s pvt.Saturation, kNormal float64) float64
}

// Lithology bundles the strategy values used by the flux/pressure hot
// loop for one formation. All fields are plain values (no further
// indirection beyond the one interface call per property), so a
// Lithology can be copied cheaply and held by value inside an Element's
// owning Formation.
type Lithology struct {
	Name string

	SurfacePorosity    float64 // porosity at VES=0
	CompactionCoeff    float64 // 1/Pa, exponential compaction decay

	Permeability PermeabilityModel
	RelPerm      RelPermModel
	Capillary    CapillaryModel

	// SorBrooksCorey is the Brooks-Corey residual oil saturation
	// threshold used as the HC mobility cutoff, per spec.md GLOSSARY.
	SorBrooksCorey float64
}

// Porosity evaluates Athy's law: φ = φ0 * exp(-c*VES), the standard
// compaction-porosity relationship basin models use, as a function of
// the lithology's surface porosity and compaction coefficient.
func (l Lithology) Porosity(ves float64) float64 {
	return l.SurfacePorosity * math.Exp(-l.CompactionCoeff*ves)
}

// BrooksCoreyPermeability is a PermeabilityModel implementing the
// common porosity-power-law permeability relationship, anisotropic
// between the bedding-normal and bedding-plane directions.
type BrooksCoreyPermeability struct {
	// K0Normal, K0Plane are reference permeabilities (m^2) at the
	// lithology's surface porosity.
	K0Normal, K0Plane float64
	// Exponent is the porosity-permeability power-law exponent.
	Exponent float64
	// SurfacePorosity anchors the power law; callers normally set this
	// to the owning Lithology's SurfacePorosity.
	SurfacePorosity float64
	CompactionCoeff float64
}

// Permeability implements PermeabilityModel.
func (m BrooksCoreyPermeability) Permeability(porosity, ves, maxVES float64) (kNormal, kPlane float64) {
	if m.SurfacePorosity <= 0 {
		return 0, 0
	}
	ratio := porosity / m.SurfacePorosity
	factor := math.Pow(ratio, m.Exponent)
	return m.K0Normal * factor, m.K0Plane * factor
}

// BrooksCoreyRelPerm is a RelPermModel implementing the classic
// Brooks-Corey power-law relative permeability curve.
type BrooksCoreyRelPerm struct {
	SorLiquid, SorVapour, Swc float64 // residual/connate saturations
	Lambda                   float64 // pore-size distribution index
}

// RelPerm implements RelPermModel.
func (m BrooksCoreyRelPerm) RelPerm(phase pvt.Phase, s pvt.Saturation) float64 {
	switch phase {
	case pvt.Liquid:
		mobile := 1 - m.Swc - m.SorVapour
		if mobile <= 0 {
			return 0
		}
		se := (s.Liquid - m.Swc) / mobile
		if se <= 0 {
			return 0
		}
		if se > 1 {
			se = 1
		}
		return math.Pow(se, (2+3*m.Lambda)/m.Lambda)
	case pvt.Vapour:
		mobile := 1 - m.Swc - m.SorLiquid
		if mobile <= 0 {
			return 0
		}
		se := (s.Vapour - 0) / mobile
		if se <= 0 {
			return 0
		}
		if se > 1 {
			se = 1
		}
		return se * se * (1 - math.Pow(1-se, (2+m.Lambda)/m.Lambda))
	}
	return 0
}

// BrooksCoreyCapillary is a CapillaryModel implementing a Leverett-J
// style scaling of a base entry pressure by the square root of
// permeability, the standard way basin models scale capillary pressure
// across lithologies of differing permeability.
type BrooksCoreyCapillary struct {
	EntryPressurePa float64 // at a reference permeability
	ReferenceK      float64 // m^2
	Lambda          float64
	Swc             float64
}

// CapillaryPressure implements CapillaryModel.
func (m BrooksCoreyCapillary) CapillaryPressure(phase pvt.Phase, s pvt.Saturation, kNormal float64) float64 {
	if kNormal <= 0 || m.ReferenceK <= 0 {
		return 0
	}
	scale := math.Sqrt(m.ReferenceK / kNormal)
	se := s.Water
	if se < m.Swc {
		se = m.Swc
	}
	seNorm := (se - m.Swc) / (1 - m.Swc)
	if seNorm <= 1e-6 {
		seNorm = 1e-6
	}
	pc := m.EntryPressurePa * scale * math.Pow(seNorm, -1/m.Lambda)
	if phase == pvt.Vapour {
		return pc
	}
	return -pc
}

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

package interp

// Indices into a PoreVolumeInterpolator element's two components, per
// spec.md §4.1.
const (
	PoreVolumeIndex      = 0
	RockCompressionIndex = 1
)

// Sampler evaluates nValues derived quantities for element i at a given
// λ. Implementations live in the mesh/lithology layer (quadrature over
// element geometry and porosity); interp only owns the precompute/evaluate
// machinery so it stays free of geometry dependencies.
type Sampler func(elementIndex int, lambda float64) []float64

// ElementInterpolator holds one Polynomial per (element, value) pair,
// precomputed once per solve() entry at the abscissae DefaultAbscissae(degree)
// returns.
type ElementInterpolator struct {
	nValues int
	polys   []Polynomial // len == nElements*nValues
}

// Precompute samples fn at the given degree's abscissae for every
// element and fits an interpolating Polynomial per (element, value).
func Precompute(nElements, nValues, degree int, fn Sampler) *ElementInterpolator {
	abscissae := DefaultAbscissae(degree)
	ei := &ElementInterpolator{
		nValues: nValues,
		polys:   make([]Polynomial, nElements*nValues),
	}
	samples := make([][]float64, nValues)
	for v := range samples {
		samples[v] = make([]float64, len(abscissae))
	}
	for e := 0; e < nElements; e++ {
		for a, lambda := range abscissae {
			vals := fn(e, lambda)
			for v := 0; v < nValues; v++ {
				samples[v][a] = vals[v]
			}
		}
		for v := 0; v < nValues; v++ {
			ei.polys[e*nValues+v] = Fit(abscissae, samples[v])
		}
	}
	return ei
}

// Eval evaluates the (element, value)'th polynomial at λ.
func (ei *ElementInterpolator) Eval(elementIndex, valueIndex int, lambda float64) float64 {
	return ei.polys[elementIndex*ei.nValues+valueIndex].Eval(lambda)
}

// PoreVolumeInterpolator precomputes, per element, PoreVolumeIndex
// (φ·|J| integrated by Gauss quadrature) and RockCompressionIndex
// (the φ-derivative term), per spec.md §4.1.
type PoreVolumeInterpolator struct{ *ElementInterpolator }

// NewPoreVolumeInterpolator precomputes the pore-volume interpolator
// for nElements elements using fn to sample the two components at a
// given λ.
func NewPoreVolumeInterpolator(nElements, degree int, fn Sampler) *PoreVolumeInterpolator {
	return &PoreVolumeInterpolator{Precompute(nElements, 2, degree, fn)}
}

// PoreVolume returns the interpolated pore volume for element i at λ.
func (p *PoreVolumeInterpolator) PoreVolume(i int, lambda float64) float64 {
	return p.Eval(i, PoreVolumeIndex, lambda)
}

// RockCompression returns the interpolated rock-compression derivative
// term for element i at λ.
func (p *PoreVolumeInterpolator) RockCompression(i int, lambda float64) float64 {
	return p.Eval(i, RockCompressionIndex, lambda)
}

// FaceAreaInterpolator precomputes, per element, the quadrature sum of
// |J|·ds/dt for each of the element's six faces, per spec.md §4.1.
type FaceAreaInterpolator struct{ *ElementInterpolator }

// NewFaceAreaInterpolator precomputes the face-area interpolator for
// nElements elements, sampling all six faces at once via fn.
func NewFaceAreaInterpolator(nElements, degree int, fn Sampler) *FaceAreaInterpolator {
	return &FaceAreaInterpolator{Precompute(nElements, 6, degree, fn)}
}

// FaceArea returns the interpolated area of face f for element i at λ.
func (p *FaceAreaInterpolator) FaceArea(i, f int, lambda float64) float64 {
	return p.Eval(i, f, lambda)
}

// FacePermeabilityInterpolator precomputes, per element, 12 values (6
// faces x normal/plane permeability), per spec.md §4.1.
type FacePermeabilityInterpolator struct{ *ElementInterpolator }

// NewFacePermeabilityInterpolator precomputes the face-permeability
// interpolator for nElements elements.
func NewFacePermeabilityInterpolator(nElements, degree int, fn Sampler) *FacePermeabilityInterpolator {
	return &FacePermeabilityInterpolator{Precompute(nElements, 12, degree, fn)}
}

// Normal returns the interpolated normal permeability of face f for
// element i at λ.
func (p *FacePermeabilityInterpolator) Normal(i, f int, lambda float64) float64 {
	return p.Eval(i, f*2, lambda)
}

// Plane returns the interpolated plane permeability of face f for
// element i at λ.
func (p *FacePermeabilityInterpolator) Plane(i, f int, lambda float64) float64 {
	return p.Eval(i, f*2+1, lambda)
}

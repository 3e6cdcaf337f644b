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

// Package interp implements the temporal interpolation layer: plain
// linear interpolation of scalar endpoint properties, plus precomputed
// polynomials for derived per-element quantities (pore volume, face
// area, face permeability) that are not linear in λ. Precomputing once
// per solve() and evaluating with Horner's method in the hot loop is
// 10-100x faster than recomputing by quadrature on every access, per
// spec.md §4.1.
package interp

import "gonum.org/v1/gonum/mat"

// Linear interpolates a scalar property between its λ=0 and λ=1
// endpoint values.
func Linear(v0, v1, lambda float64) float64 {
	return v0 + (v1-v0)*lambda
}

// Polynomial is a precomputed set of coefficients, evaluated by
// Horner's method, approximating a derived per-element quantity as a
// function of λ∈[0,1]. Degree 3 is the default per spec.md §4.1.
type Polynomial struct {
	coeffs []float64 // coeffs[0] is the constant term
}

// Fit interpolates a degree-len(abscissae)-1 polynomial exactly through
// the sampled (λ, value) pairs. abscissae must be sorted and contain at
// least one point; duplicate abscissae make the Vandermonde solve fail,
// in which case the last sampled value is returned as a constant
// polynomial.
func Fit(abscissae, values []float64) Polynomial {
	n := len(abscissae)
	if n == 0 {
		return Polynomial{coeffs: []float64{0}}
	}
	if n == 1 {
		return Polynomial{coeffs: []float64{values[0]}}
	}
	// Build the Vandermonde matrix V[i][j] = abscissae[i]^j and solve
	// V*coeffs = values exactly (n points, degree n-1).
	v := mat.NewDense(n, n, nil)
	for i, x := range abscissae {
		p := 1.0
		for j := 0; j < n; j++ {
			v.Set(i, j, p)
			p *= x
		}
	}
	b := mat.NewVecDense(n, values)
	var coeffs mat.VecDense
	if err := coeffs.SolveVec(v, b); err != nil {
		// A singular Vandermonde system only arises from duplicate
		// abscissae, which is a caller bug; fall back to the last
		// sampled value as a degree-0 polynomial rather than panicking
		// in the hot path.
		return Polynomial{coeffs: []float64{values[n-1]}}
	}
	out := make([]float64, n)
	for i := range out {
		out[i] = coeffs.AtVec(i)
	}
	return Polynomial{coeffs: out}
}

// Eval evaluates the polynomial at λ via Horner's method.
func (p Polynomial) Eval(lambda float64) float64 {
	if len(p.coeffs) == 0 {
		return 0
	}
	result := p.coeffs[len(p.coeffs)-1]
	for i := len(p.coeffs) - 2; i >= 0; i-- {
		result = result*lambda + p.coeffs[i]
	}
	return result
}

// DefaultAbscissae returns the degree+1 evenly spaced λ sample points
// used to fit a Polynomial, e.g. DefaultAbscissae(3) = [0, 1/3, 2/3, 1].
func DefaultAbscissae(degree int) []float64 {
	n := degree + 1
	out := make([]float64, n)
	for i := 0; i < n; i++ {
		out[i] = float64(i) / float64(n-1)
	}
	return out
}

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

import "github.com/spatialmodel/darcyflow/mesh"

// ElementFaceValues is a 6-tuple of scalars, one per face, per spec.md
// §3. Index order matches mesh.Face: Shallow, Deep, Front, Back, Left,
// Right.
type ElementFaceValues [mesh.NumFaces]float64

// SumGt0 returns the sum of the positive faces, the "outflow budget"
// used by the time-step governor and transport assembly.
func (v ElementFaceValues) SumGt0() float64 {
	var sum float64
	for _, f := range v {
		if f > 0 {
			sum += f
		}
	}
	return sum
}

// Zero returns an all-zero ElementFaceValues.
func (v ElementFaceValues) Zero() ElementFaceValues {
	return ElementFaceValues{}
}

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

// Package field implements per-element and per-node scalar/vector
// containers backed by the distributed mesh grids, plus the ghost
// exchange and worker-pool helpers the Darcy core runs its hot loops
// through. The worker-pool shape is grounded on the teacher's
// Calculations/DomainManipulator composition in run.go: a fixed
// goroutine count striding across the element slice.
package field

import (
	"context"
	"runtime"
	"sync"

	"github.com/ctessum/sparse"
)

// UpdateMode selects how much of a field's halo is synchronised by
// Restore, mirroring spec.md §5's setVector/restoreVector contract.
type UpdateMode int

const (
	NoUpdate UpdateMode = iota
	UpdateExcludingGhosts
	UpdateIncludingGhosts
)

// ScalarField is a per-element scalar container backed by a
// *sparse.DenseArray, the same storage the teacher uses for CTMData
// variables in vargrid.go. Index 0 of Dims is the flat element index
// within the owning grid.
type ScalarField struct {
	data *sparse.DenseArray

	acquired bool
	ghost    []float64 // ghost-value buffer; the single-process Exchanger leaves it unused
}

// NewScalarField allocates a zeroed scalar field over n elements.
func NewScalarField(n int) *ScalarField {
	return &ScalarField{data: sparse.ZerosDense(n)}
}

// Get returns the value at element index i.
func (f *ScalarField) Get(i int) float64 { return f.data.Elements[i] }

// Set writes the value at element index i. Callers must have Acquired
// the field first (see Acquire/Restore below), matching the
// setVector/restoreVector pairing spec.md §5 requires.
func (f *ScalarField) Set(i int, v float64) { f.data.Elements[i] = v }

// Len returns the number of elements addressed by the field.
func (f *ScalarField) Len() int { return len(f.data.Elements) }

// Zero clears every element to 0.
func (f *ScalarField) Zero() {
	for i := range f.data.Elements {
		f.data.Elements[i] = 0
	}
}

// Acquire marks the field as held by the current step. Every Acquire
// must be paired with a Restore on every exit path, including error
// returns, per spec.md §5.
func (f *ScalarField) Acquire() { f.acquired = true }

// Restore synchronises the field according to mode and releases it.
// UpdateIncludingGhosts is idempotent: applying it twice in a row
// leaves the field unchanged (spec.md §8 testable property 5), since
// Exchange only ever copies the authoritative owner values into ghost
// slots and never mutates owned values.
func (f *ScalarField) Restore(ctx context.Context, mode UpdateMode, x *Exchanger) error {
	defer func() { f.acquired = false }()
	switch mode {
	case NoUpdate:
		return nil
	case UpdateExcludingGhosts:
		return nil
	case UpdateIncludingGhosts:
		if x == nil {
			return nil
		}
		return x.ExchangeScalar(ctx, f)
	}
	return nil
}

// VectorField is a per-element fixed-width vector container, used for
// compositions, phase fluxes, and anything else with more than one
// component per element.
type VectorField struct {
	data  []float64
	width int
}

// NewVectorField allocates a zeroed vector field over n elements, each
// with the given component width.
func NewVectorField(n, width int) *VectorField {
	return &VectorField{data: make([]float64, n*width), width: width}
}

// Width returns the number of components per element.
func (f *VectorField) Width() int { return f.width }

// Len returns the number of elements addressed by the field.
func (f *VectorField) Len() int { return len(f.data) / f.width }

// At returns the component slice for element i. The returned slice
// aliases the field's backing array; callers may write through it.
func (f *VectorField) At(i int) []float64 {
	return f.data[i*f.width : (i+1)*f.width]
}

// Zero clears every element to 0.
func (f *VectorField) Zero() {
	for i := range f.data {
		f.data[i] = 0
	}
}

// Exchanger performs ghost-cell synchronisation between workers. In a
// single-process configuration (the default for this module, since it
// targets one host's goroutine pool rather than a multi-host MPI-style
// deployment) it is a no-op, because every element lives in the same
// address space and neighbour pointers already point at live, current
// data; a distributed deployment supplies a network-backed Exchanger
// satisfying the same interface.
type Exchanger struct {
	// Barrier, when non-nil, is invoked after every exchange, grounded
	// on the sync.WaitGroup reduction barrier in the teacher's
	// Calculations (run.go): ghost exchange and reduction share the
	// same "wait for every worker" shape.
	Barrier func()
}

// ExchangeScalar synchronises ghost values for a scalar field.
func (x *Exchanger) ExchangeScalar(ctx context.Context, f *ScalarField) error {
	select {
	case <-ctx.Done():
		return ctx.Err()
	default:
	}
	if x.Barrier != nil {
		x.Barrier()
	}
	return nil
}

// ExchangeVector synchronises ghost values for a vector field.
func (x *Exchanger) ExchangeVector(ctx context.Context, f *VectorField) error {
	select {
	case <-ctx.Done():
		return ctx.Err()
	default:
	}
	if x.Barrier != nil {
		x.Barrier()
	}
	return nil
}

// ElementField is a generic per-element container, used where the
// stored type isn't a plain float64 (e.g. pvt.Composition) and so
// can't use ScalarField's sparse.DenseArray or VectorField's flat
// []float64 backing. It has
// no ghost-exchange counterpart: every field this solver exchanges
// across elements is either a ScalarField/VectorField, or per-node
// (see NodeField/ExchangeNodeField below).
type ElementField[T any] struct {
	data []T
}

// NewElementField allocates a zero-valued element field over n elements.
func NewElementField[T any](n int) *ElementField[T] {
	return &ElementField[T]{data: make([]T, n)}
}

// Get returns the value at element index i.
func (f *ElementField[T]) Get(i int) T { return f.data[i] }

// Set writes the value at element index i.
func (f *ElementField[T]) Set(i int, v T) { f.data[i] = v }

// Len returns the number of elements addressed by the field.
func (f *ElementField[T]) Len() int { return len(f.data) }

// NodeField is a generic per-node container, indexed by the flat node
// index a mesh.Grid's node-numbering scheme produces (see
// mesh.Grid.NumNodes and mesh.Element.ElementNodes). Used by the
// saturation nodal-projection pass to accumulate per-element
// contributions onto their eight incident corner nodes.
type NodeField[T any] struct {
	data []T
}

// NewNodeField allocates a zero-valued node field over numNodes nodes.
func NewNodeField[T any](numNodes int) *NodeField[T] {
	return &NodeField[T]{data: make([]T, numNodes)}
}

// Get returns the value at node index i.
func (f *NodeField[T]) Get(i int) T { return f.data[i] }

// Set writes the value at node index i.
func (f *NodeField[T]) Set(i int, v T) { f.data[i] = v }

// Len returns the number of nodes addressed by the field.
func (f *NodeField[T]) Len() int { return len(f.data) }

// ExchangeNodeField synchronises ghost node values across workers,
// mirroring Exchanger.ExchangeScalar/ExchangeVector's no-op-plus-Barrier
// shape for the single-process configuration, generalized to an
// arbitrary element type T. A free function rather than a method
// because Go does not allow a method to introduce a type parameter
// beyond its receiver's.
func ExchangeNodeField[T any](ctx context.Context, x *Exchanger, f *NodeField[T]) error {
	select {
	case <-ctx.Done():
		return ctx.Err()
	default:
	}
	if x != nil && x.Barrier != nil {
		x.Barrier()
	}
	return nil
}

// Parallel runs fn(i) for every i in [0,n) across GOMAXPROCS(0)
// goroutines, each striding across the index space. This is the same
// shape as the teacher's Calculations in run.go, generalized from a
// fixed list of CellManipulators to an arbitrary per-index closure.
func Parallel(n int, fn func(i int)) {
	nprocs := runtime.GOMAXPROCS(0)
	if nprocs > n {
		nprocs = n
	}
	if nprocs <= 1 {
		for i := 0; i < n; i++ {
			fn(i)
		}
		return
	}
	var wg sync.WaitGroup
	wg.Add(nprocs)
	for p := 0; p < nprocs; p++ {
		go func(p int) {
			defer wg.Done()
			for i := p; i < n; i += nprocs {
				fn(i)
			}
		}(p)
	}
	wg.Wait()
}

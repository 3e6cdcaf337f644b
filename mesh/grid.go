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

// Package mesh implements the structured 3D element/node grids that
// formations are built from, including the (I,J) map-tile decomposition
// across workers and the six-face neighbour relationships elements use
// for flux assembly.
package mesh

import "math"

// Face identifies one of the six faces of a hexahedral element.
type Face int

// The six faces of an element, named the way the solver's flux loop
// walks them.
const (
	Shallow Face = iota // top, toward decreasing depth
	Deep                // bottom, toward increasing depth
	Front
	Back
	Left
	Right
	NumFaces
)

// Tile describes the (I,J) rectangular sub-range of the global
// map-decomposition that a single worker owns. Ownership is contiguous,
// matching the SPMD process-group model of spec.md §5.
type Tile struct {
	IMin, IMax int // inclusive global I range owned by this worker
	JMin, JMax int // inclusive global J range owned by this worker
}

// Contains reports whether the global (I,J) column lies inside the tile.
func (t Tile) Contains(I, J int) bool {
	return I >= t.IMin && I <= t.IMax && J >= t.JMin && J <= t.JMax
}

// Grid is a 3D structured grid of hexahedral elements for one formation,
// decomposed across workers by Tile and by a local vertical range
// [KMin,KMax). Elements are stored in one flat, arena-allocated slice
// indexed by local (i,j,k) to avoid per-element heap allocation (nodes
// are not stored, only numbered; see nodeIndex),
// grounded on the CTMData.Data contiguous-array convention in the
// teacher's vargrid.go.
type Grid struct {
	Tile       Tile
	KMin, KMax int // local vertical range [KMin,KMax)
	NI, NJ     int // local extent in I and J (== Tile size)

	elements []Element // length NI*NJ*(KMax-KMin)
}

// NewGrid allocates a grid for the given tile and vertical range, with
// every element initially inactive.
func NewGrid(tile Tile, kMin, kMax int) *Grid {
	ni := tile.IMax - tile.IMin + 1
	nj := tile.JMax - tile.JMin + 1
	nk := kMax - kMin
	g := &Grid{
		Tile: tile,
		KMin: kMin,
		KMax: kMax,
		NI:   ni,
		NJ:   nj,
	}
	g.elements = make([]Element, ni*nj*nk)
	for i := range g.elements {
		g.elements[i].grid = g
	}
	return g
}

// index converts local (i,j,k) into the flat element-slice offset.
func (g *Grid) index(i, j, k int) int {
	nk := g.KMax - g.KMin
	return (i*g.NJ+j)*nk + (k - g.KMin)
}

// InBounds reports whether local (i,j,k) addresses a real element of g.
func (g *Grid) InBounds(i, j, k int) bool {
	return i >= 0 && i < g.NI && j >= 0 && j < g.NJ && k >= g.KMin && k < g.KMax
}

// At returns a pointer to the element at local (i,j,k), or nil if out
// of bounds.
func (g *Grid) At(i, j, k int) *Element {
	if !g.InBounds(i, j, k) {
		return nil
	}
	return &g.elements[g.index(i, j, k)]
}

// Elements returns the grid's backing element storage for iteration.
// Callers must not retain slice headers across a resize (grids are
// never resized after NewGrid, so this is safe for the lifetime of g).
func (g *Grid) Elements() []Element {
	return g.elements
}

// Element is an axis-aligned hexahedron belonging to exactly one
// formation. Geometry (NodeZ, face areas) is filled in by the owning
// Formation at construction time from the lithology/top-surface model;
// the Darcy core only ever reads it.
type Element struct {
	grid *Grid

	I, J, K int // global indices
	i, j, k int // local indices within grid

	// NodeZ holds the depth (m, positive down) of the eight corner
	// nodes in the conventional hex ordering: four shallow corners
	// followed by four deep corners.
	NodeZ [8]float64

	// CentreDepth is the element-centre depth, m.
	CentreDepth float64

	// Volume is the element bulk volume, m^3. Zero means inactive.
	Volume float64

	// LithologyDefined is false when no lithology column exists at this
	// map position (e.g. above the basin floor or beyond the model
	// extent).
	LithologyDefined bool

	// neighbours holds, for each face, the active neighbour element or
	// nil at a domain/tile boundary.
	neighbours [NumFaces]*Element

	// FaceArea is the geometric area of each face at the current
	// snapshot, m^2; populated by the interpolator or recomputed per
	// spec.md §4.1.
	FaceArea [NumFaces]float64

	// GridSpacing is the lateral centre-to-centre spacing used for the
	// Front/Back/Left/Right pressure-gradient terms, m.
	GridSpacing [NumFaces]float64
}

// Indices returns the element's global (I,J,K) triple.
func (e *Element) Indices() (int, int, int) { return e.I, e.J, e.K }

// FlatIndex returns the element's offset within its owning grid's
// element storage, for use as an index into parallel per-element field
// slices (composition, saturation, k-values, ...) that a Formation
// keeps alongside the grid.
func (e *Element) FlatIndex() int { return e.grid.index(e.i, e.j, e.k) }

// Active reports whether the element participates in the solve: its
// lithology column is defined and its volume is non-degenerate, per
// spec.md §3.
func (e *Element) Active() bool {
	return e.LithologyDefined && e.Volume > 0 && !e.Degenerate()
}

// Degenerate detects a collapsed hexahedron: any of the four vertical
// edges has a shallow/deep depth difference below 1e-3 m, per spec.md §7.
func (e *Element) Degenerate() bool {
	const tol = 1e-3
	for edge := 0; edge < 4; edge++ {
		if math.Abs(e.NodeZ[edge+4]-e.NodeZ[edge]) < tol {
			return true
		}
	}
	return false
}

// Neighbour returns the active neighbour across the given face, or nil
// at a boundary.
func (e *Element) Neighbour(f Face) *Element { return e.neighbours[f] }

// SetNeighbour wires e's neighbour across face f. Called by Formation
// construction (and by FillFromBelow for the degenerate-top policy); it
// is not part of the per-step hot loop.
func (e *Element) SetNeighbour(f Face, n *Element) { e.neighbours[f] = n }

// Link2D wires, for every active element of g, the active neighbours
// inside g across all six faces (the four lateral ones plus Shallow/Deep
// at k-1/k+1), and records each active element's local (i,j,k).
// Shallow/Deep links that cross into another formation are left to the
// caller.
func (g *Grid) Link2D() {
	for i := 0; i < g.NI; i++ {
		for j := 0; j < g.NJ; j++ {
			for k := g.KMin; k < g.KMax; k++ {
				e := g.At(i, j, k)
				if e == nil || !e.Active() {
					continue
				}
				e.i, e.j, e.k = i, j, k
				if n := g.At(i-1, j, k); n != nil && n.Active() {
					e.SetNeighbour(Left, n)
				}
				if n := g.At(i+1, j, k); n != nil && n.Active() {
					e.SetNeighbour(Right, n)
				}
				if n := g.At(i, j-1, k); n != nil && n.Active() {
					e.SetNeighbour(Front, n)
				}
				if n := g.At(i, j+1, k); n != nil && n.Active() {
					e.SetNeighbour(Back, n)
				}
				if n := g.At(i, j, k+1); n != nil && n.Active() {
					e.SetNeighbour(Deep, n)
				}
				if n := g.At(i, j, k-1); n != nil && n.Active() {
					e.SetNeighbour(Shallow, n)
				}
			}
		}
	}
}

// FillFromBelow implements the degenerate-top-of-formation policy of
// spec.md §9: when the shallowest valid layer for a map column is below
// k=KMin (the true top elements are degenerate or undefined), the first
// valid layer's shallow face geometry is duplicated upward so that
// overlying, otherwise-inactive elements see a consistent face for flux
// purposes. validElementsOnSurface, when true, additionally marks those
// filled elements active so they participate in the transport loop; the
// original source never interpolates across more than one duplicated
// layer, and neither does this implementation.
func (g *Grid) FillFromBelow(validElementsOnSurface bool) {
	for i := 0; i < g.NI; i++ {
		for j := 0; j < g.NJ; j++ {
			var firstValid *Element
			for k := g.KMin; k < g.KMax; k++ {
				e := g.At(i, j, k)
				if e.LithologyDefined && e.Volume > 0 && !e.Degenerate() {
					firstValid = e
					break
				}
			}
			if firstValid == nil {
				continue
			}
			for k := g.KMin; k < firstValid.k; k++ {
				e := g.At(i, j, k)
				e.NodeZ = firstValid.NodeZ
				e.FaceArea = firstValid.FaceArea
				e.GridSpacing = firstValid.GridSpacing
				e.Volume = firstValid.Volume
				if validElementsOnSurface {
					e.LithologyDefined = true
				}
			}
		}
	}
}

// nodeIndex converts local corner-node coordinates (ni,nj,nk) — ni in
// [0,NI], nj in [0,NJ], nk in [0,KMax-KMin] — into a flat node index.
// Corner nodes are shared between adjacent elements, unlike Elements'
// per-element storage, so the node grid is one larger than the element
// grid along every axis.
func (g *Grid) nodeIndex(ni, nj, nk int) int {
	nkTotal := g.KMax - g.KMin
	return (ni*(g.NJ+1)+nj)*(nkTotal+1) + nk
}

// NumNodes returns the number of distinct corner nodes in the grid.
func (g *Grid) NumNodes() int {
	nkTotal := g.KMax - g.KMin
	return (g.NI + 1) * (g.NJ + 1) * (nkTotal + 1)
}

// ReverseNodeLayer returns the vertical node-layer index counted from
// the bottom of the grid upward rather than the top downward, matching
// the reverse-active-layer vertical dof numbering spec.md §4.9 uses
// when scattering a nodal projection back down through the formation:
// only the k-axis component of the node index is flipped, the (ni,nj)
// column is unchanged.
func (g *Grid) ReverseNodeLayer(nk int) int {
	nkTotal := g.KMax - g.KMin
	return nkTotal - nk
}

// ElementNodes returns the flat node indices of e's eight corner
// nodes, in the same shallow-then-deep corner order as NodeZ: the four
// shallow corners (in (i,j), (i+1,j), (i+1,j+1), (i,j+1) order) followed
// by the same four corners one layer deeper.
func (e *Element) ElementNodes() [8]int {
	g := e.grid
	nk := e.k - g.KMin
	corners := [4][2]int{{0, 0}, {1, 0}, {1, 1}, {0, 1}}
	var nodes [8]int
	for c, d := range corners {
		nodes[c] = g.nodeIndex(e.i+d[0], e.j+d[1], nk)
		nodes[c+4] = g.nodeIndex(e.i+d[0], e.j+d[1], nk+1)
	}
	return nodes
}

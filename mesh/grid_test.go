package mesh

import "testing"

func newTestGrid() *Grid {
	g := NewGrid(Tile{IMin: 0, IMax: 2, JMin: 0, JMax: 2}, 0, 3)
	for i := range g.elements {
		e := &g.elements[i]
		e.Volume = 1000
		e.LithologyDefined = true
		e.NodeZ = [8]float64{100, 100, 100, 100, 110, 110, 110, 110}
	}
	g.Link2D()
	return g
}

func TestGridLink2D(t *testing.T) {
	g := newTestGrid()
	centre := g.At(1, 1, 1)
	if centre == nil {
		t.Fatal("expected centre element to exist")
	}
	if centre.Neighbour(Left) != g.At(0, 1, 1) {
		t.Error("Left neighbour wired incorrectly")
	}
	if centre.Neighbour(Right) != g.At(2, 1, 1) {
		t.Error("Right neighbour wired incorrectly")
	}
	if centre.Neighbour(Deep) != g.At(1, 1, 2) {
		t.Error("Deep neighbour wired incorrectly")
	}
	corner := g.At(0, 0, 0)
	if corner.Neighbour(Left) != nil || corner.Neighbour(Front) != nil {
		t.Error("domain boundary should have nil neighbours")
	}
}

func TestElementDegenerate(t *testing.T) {
	g := newTestGrid()
	e := g.At(0, 0, 0)
	if e.Degenerate() {
		t.Fatal("well-formed element should not be degenerate")
	}
	e.NodeZ[4] = e.NodeZ[0] // collapse one vertical edge
	if !e.Degenerate() {
		t.Error("collapsed element should be degenerate")
	}
}

func TestGridNumNodesIsOneLargerPerAxis(t *testing.T) {
	g := newTestGrid() // 3x3x3 elements
	if got, want := g.NumNodes(), 4*4*4; got != want {
		t.Errorf("expected %d nodes (one more per axis than elements), got %d", want, got)
	}
}

func TestElementNodesShareCornersBetweenNeighbours(t *testing.T) {
	g := newTestGrid()
	e0 := g.At(0, 0, 0)
	e1 := g.At(0, 0, 1)

	shallowNodes := e0.ElementNodes()
	deepNodes := e1.ElementNodes()

	shared := map[int]bool{}
	for _, n := range shallowNodes[4:] { // e0's deep face
		shared[n] = true
	}
	for _, n := range deepNodes[:4] { // e1's shallow face
		if !shared[n] {
			t.Errorf("expected node %d to be shared between vertically adjacent elements", n)
		}
	}
}

func TestReverseNodeLayerFlipsOnlyK(t *testing.T) {
	g := newTestGrid()
	nkTotal := g.KMax - g.KMin
	if got := g.ReverseNodeLayer(0); got != nkTotal {
		t.Errorf("expected ReverseNodeLayer(0) == %d, got %d", nkTotal, got)
	}
	if got := g.ReverseNodeLayer(nkTotal); got != 0 {
		t.Errorf("expected ReverseNodeLayer(%d) == 0, got %d", nkTotal, got)
	}
}

func TestFillFromBelow(t *testing.T) {
	g := NewGrid(Tile{IMin: 0, IMax: 0, JMin: 0, JMax: 0}, 0, 3)
	// top layer degenerate, layers 1 and 2 valid
	g.elements[0].Volume = 0
	g.elements[1].Volume = 1000
	g.elements[1].LithologyDefined = true
	g.elements[1].NodeZ = [8]float64{10, 10, 10, 10, 20, 20, 20, 20}
	g.elements[2].Volume = 1000
	g.elements[2].LithologyDefined = true
	g.elements[2].NodeZ = [8]float64{20, 20, 20, 20, 30, 30, 30, 30}
	for k := 0; k < 3; k++ {
		g.elements[k].k = k
	}
	g.FillFromBelow(true)
	top := g.At(0, 0, 0)
	if !top.LithologyDefined || top.Volume != 1000 {
		t.Error("expected degenerate top element to be filled from below")
	}
	if top.NodeZ != g.At(0, 0, 1).NodeZ {
		t.Error("expected filled element to duplicate first valid layer's geometry")
	}
}

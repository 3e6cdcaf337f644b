package darcyflow

import (
	"testing"

	"github.com/spatialmodel/darcyflow/mesh"
)

func TestActiveLayersOrdersOldestFirst(t *testing.T) {
	shallow := newLineFormation("shallow", 1)
	shallow.DepositionAgeMa = 50
	deep := newLineFormation("deep", 1)
	deep.DepositionAgeMa = 100
	s := &Subdomain{Formations: []*Formation{shallow, deep}}

	active := s.ActiveLayers(60)
	if len(active) != 1 || active[0] != deep {
		t.Fatalf("expected only the already-deposited formation to be active, got %v", active)
	}

	active = s.ActiveLayers(10)
	if len(active) != 2 || active[0] != deep || active[1] != shallow {
		t.Fatalf("expected both formations active in oldest-first order, got %v", active)
	}
}

func TestLambdaInterpolatesBetweenEndpoints(t *testing.T) {
	f := newLineFormation("f", 1)
	if l := f.Lambda(f.Start.AgeMa); l != 0 {
		t.Errorf("expected lambda 0 at the start endpoint, got %v", l)
	}
	if l := f.Lambda(f.End.AgeMa); l != 1 {
		t.Errorf("expected lambda 1 at the end endpoint, got %v", l)
	}
	mid := (f.Start.AgeMa + f.End.AgeMa) / 2
	if l := f.Lambda(mid); l < 0.49 || l > 0.51 {
		t.Errorf("expected lambda ~0.5 at the midpoint, got %v", l)
	}
}

func TestLinkFormationsWiresVerticalNeighbours(t *testing.T) {
	top := newLineFormation("top", 1)
	bottom := newLineFormation("bottom", 1)
	s := &Subdomain{Formations: []*Formation{top, bottom}}
	s.LinkFormations()

	topElement := &top.Grid.Elements()[0]
	bottomElement := &bottom.Grid.Elements()[0]
	if topElement.Neighbour(mesh.Deep) != bottomElement {
		t.Error("expected the top formation's deepest element to link to the bottom formation's shallowest element")
	}
	if bottomElement.Neighbour(mesh.Shallow) != topElement {
		t.Error("expected the reciprocal Shallow link on the bottom formation")
	}
}

func TestTotalElementsSumsAcrossFormations(t *testing.T) {
	s := &Subdomain{Formations: []*Formation{newLineFormation("a", 2), newLineFormation("b", 3)}}
	if n := s.TotalElements(); n != 5 {
		t.Errorf("expected 5 total elements, got %v", n)
	}
}

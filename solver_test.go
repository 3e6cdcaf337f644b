package darcyflow

import (
	"context"
	"testing"

	"github.com/spatialmodel/darcyflow/pvt"
)

func TestSolveRejectsBackwardsInterval(t *testing.T) {
	d := NewDarcySolver(DefaultConfig())
	s := &Subdomain{Formations: []*Formation{newLineFormation("f", 1)}}
	if err := d.Solve(context.Background(), s, 10, 20); err == nil {
		t.Error("expected an error when the interval end exceeds the interval start")
	}
}

func TestSolveZeroCompositionIsIdempotent(t *testing.T) {
	cfg := DefaultConfig()
	d := NewDarcySolver(cfg)
	f := newLineFormation("f", 3)
	s := &Subdomain{Formations: []*Formation{f}}

	if err := d.Solve(context.Background(), s, 100, 90); err != nil {
		t.Fatalf("expected a zero-composition subdomain to solve cleanly, got %v", err)
	}
	for i, c := range f.PreviousComponent {
		if c != (pvt.Composition{}) {
			t.Errorf("element %d: expected composition to remain zero, got %+v", i, c)
		}
	}
	for i, sat := range f.PhaseSaturation {
		if sat != (pvt.Saturation{Water: 1}) {
			t.Errorf("element %d: expected all-water saturation to be undisturbed, got %+v", i, sat)
		}
	}
}

func TestSolveRespectsContextCancellation(t *testing.T) {
	d := NewDarcySolver(DefaultConfig())
	s := &Subdomain{Formations: []*Formation{newLineFormation("f", 1)}}
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if err := d.Solve(ctx, s, 100, 0); err == nil {
		t.Error("expected Solve to return an error once the context is already cancelled")
	}
}

func TestGlobalSaturationReflectsFormationState(t *testing.T) {
	d := NewDarcySolver(DefaultConfig())
	f := newLineFormation("f", 1)
	f.PhaseSaturation[0] = pvt.Saturation{Liquid: 1}
	s := &Subdomain{Formations: []*Formation{f}}
	if sat := d.GlobalSaturation(s); sat.Liquid != 1 {
		t.Errorf("expected GlobalSaturation to reflect the single element's state, got %+v", sat)
	}
}

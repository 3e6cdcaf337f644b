package field

import (
	"context"
	"sync/atomic"
	"testing"
)

func TestScalarFieldRestoreIdempotent(t *testing.T) {
	f := NewScalarField(4)
	f.Set(0, 1.5)
	x := &Exchanger{}
	f.Acquire()
	if err := f.Restore(context.Background(), UpdateIncludingGhosts, x); err != nil {
		t.Fatal(err)
	}
	before := append([]float64(nil), f.data.Elements...)
	f.Acquire()
	if err := f.Restore(context.Background(), UpdateIncludingGhosts, x); err != nil {
		t.Fatal(err)
	}
	for i, v := range before {
		if f.data.Elements[i] != v {
			t.Errorf("second restore changed element %d: %v != %v", i, v, f.data.Elements[i])
		}
	}
}

func TestVectorFieldAt(t *testing.T) {
	f := NewVectorField(3, 2)
	f.At(1)[0] = 7
	f.At(1)[1] = 8
	if f.At(1)[0] != 7 || f.At(1)[1] != 8 {
		t.Fatal("vector field element write did not stick")
	}
	if f.At(0)[0] != 0 {
		t.Fatal("vector field elements should not alias")
	}
}

func TestElementFieldGetSet(t *testing.T) {
	f := NewElementField[string](3)
	f.Set(1, "hello")
	if f.Len() != 3 {
		t.Fatalf("expected Len() == 3, got %d", f.Len())
	}
	if f.Get(1) != "hello" {
		t.Errorf("expected element 1 to stick, got %q", f.Get(1))
	}
	if f.Get(0) != "" {
		t.Errorf("expected unset elements to remain zero-valued, got %q", f.Get(0))
	}
}

func TestNodeFieldExchangeCallsBarrier(t *testing.T) {
	f := NewNodeField[float64](4)
	f.Set(2, 3.5)

	var barriered bool
	x := &Exchanger{Barrier: func() { barriered = true }}
	if err := ExchangeNodeField(context.Background(), x, f); err != nil {
		t.Fatal(err)
	}
	if !barriered {
		t.Error("expected ExchangeNodeField to invoke the Exchanger's Barrier")
	}
	if f.Get(2) != 3.5 {
		t.Errorf("expected exchange to leave owned values unchanged, got %v", f.Get(2))
	}
}

func TestNodeFieldExchangeRespectsCancellation(t *testing.T) {
	f := NewNodeField[float64](2)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if err := ExchangeNodeField(ctx, &Exchanger{}, f); err == nil {
		t.Error("expected ExchangeNodeField to report the cancelled context")
	}
}

func TestParallelVisitsEveryIndex(t *testing.T) {
	n := 97
	var seen [97]int32
	Parallel(n, func(i int) {
		atomic.AddInt32(&seen[i], 1)
	})
	for i, c := range seen {
		if c != 1 {
			t.Fatalf("index %d visited %d times, want 1", i, c)
		}
	}
}

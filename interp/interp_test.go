package interp

import "testing"

func TestLinear(t *testing.T) {
	if v := Linear(0, 10, 0.5); v != 5 {
		t.Errorf("Linear(0,10,0.5) = %v, want 5", v)
	}
	if v := Linear(2, 2, 0.75); v != 2 {
		t.Errorf("Linear with equal endpoints should be constant, got %v", v)
	}
}

func TestPolynomialFitExact(t *testing.T) {
	// f(x) = 1 + 2x + 3x^2
	abscissae := []float64{0, 0.5, 1}
	values := make([]float64, len(abscissae))
	f := func(x float64) float64 { return 1 + 2*x + 3*x*x }
	for i, x := range abscissae {
		values[i] = f(x)
	}
	p := Fit(abscissae, values)
	for _, x := range []float64{0, 0.25, 0.5, 0.75, 1} {
		got := p.Eval(x)
		want := f(x)
		if diff := got - want; diff > 1e-9 || diff < -1e-9 {
			t.Errorf("Eval(%v) = %v, want %v", x, got, want)
		}
	}
}

func TestPrecomputeAndEval(t *testing.T) {
	nElements := 3
	sampler := func(e int, lambda float64) []float64 {
		base := float64(e + 1)
		return []float64{base * lambda, base * (1 - lambda)}
	}
	ei := Precompute(nElements, 2, 3, sampler)
	for e := 0; e < nElements; e++ {
		got := ei.Eval(e, 0, 0.5)
		want := float64(e+1) * 0.5
		if diff := got - want; diff > 1e-6 || diff < -1e-6 {
			t.Errorf("element %d value 0 at 0.5 = %v, want %v", e, got, want)
		}
	}
}

func TestDefaultAbscissae(t *testing.T) {
	a := DefaultAbscissae(3)
	if len(a) != 4 {
		t.Fatalf("degree 3 should produce 4 abscissae, got %d", len(a))
	}
	if a[0] != 0 || a[len(a)-1] != 1 {
		t.Errorf("abscissae should span [0,1], got %v", a)
	}
}

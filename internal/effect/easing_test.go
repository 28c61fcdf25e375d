package effect

import (
	"math"
	"testing"
)

func TestEasingBoundaries(t *testing.T) {
	for _, e := range Easings {
		if got := e.Apply(0); math.Abs(got) > 1e-12 {
			t.Errorf("%s at tau=0: expected 0, got %v", e, got)
		}
		if got := e.Apply(1); math.Abs(got-1) > 1e-12 {
			t.Errorf("%s at tau=1: expected 1, got %v", e, got)
		}
	}
}

func TestEasingMidpoints(t *testing.T) {
	cases := []struct {
		easing Easing
		tau    float64
		want   float64
	}{
		{Linear, 0.5, 0.5},
		{EaseIn, 0.5, 0.25},
		{EaseOut, 0.5, 0.75},
		{EaseInOut, 0.25, 0.125},
		{EaseInOut, 0.5, 0.5},
		{EaseInOut, 0.75, 0.875},
	}
	for _, c := range cases {
		if got := c.easing.Apply(c.tau); math.Abs(got-c.want) > 1e-12 {
			t.Errorf("%s(%v): expected %v, got %v", c.easing, c.tau, c.want, got)
		}
	}
}

func TestEasingMonotonic(t *testing.T) {
	for _, e := range Easings {
		prev := -1.0
		for i := 0; i <= 100; i++ {
			tau := float64(i) / 100
			got := e.Apply(tau)
			if got < prev {
				t.Fatalf("%s not monotonic at tau=%v", e, tau)
			}
			prev = got
		}
	}
}

func TestEasingCSS(t *testing.T) {
	cases := map[Easing]string{
		Linear:    "linear",
		EaseIn:    "ease-in",
		EaseOut:   "ease-out",
		EaseInOut: "ease-in-out",
		Easing(""):        "linear",
		Easing("unknown"): "linear",
	}
	for e, want := range cases {
		if got := e.CSS(); got != want {
			t.Errorf("%s.CSS(): expected %q, got %q", e, want, got)
		}
	}
}

func TestUnknownEasingActsLinear(t *testing.T) {
	e := Easing("bounce")
	for _, tau := range []float64{0, 0.3, 1} {
		if got := e.Apply(tau); got != tau {
			t.Errorf("unknown easing at %v: expected %v, got %v", tau, tau, got)
		}
	}
}

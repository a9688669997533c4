package estimate

import (
	"errors"
	"math"
	"testing"
)

func ramp(n int) []float64 {
	out := make([]float64, n)
	for i := range out {
		out[i] = float64(i) / float64(n-1)
	}
	return out
}

func powerCurve(I []float64, g float64) []float64 {
	out := make([]float64, len(I))
	for i, x := range I {
		out[i] = math.Pow(x, g)
	}
	return out
}

func TestGammaFitRecoversExponent(t *testing.T) {
	h := DefaultHeuristics()
	I := ramp(21)

	for _, g := range []float64{0.5, 1.0, 2.2} {
		got, err := h.GammaFit(I, powerCurve(I, g), nil)
		if err != nil {
			t.Fatalf("GammaFit(g=%v) error: %v", g, err)
		}
		if math.Abs(got-g) > 1e-2 {
			t.Fatalf("GammaFit(g=%v): expected within 1e-2, got %v", g, got)
		}
	}
}

func TestGammaFitWeighted(t *testing.T) {
	h := DefaultHeuristics()
	I := ramp(21)
	O := powerCurve(I, 1.8)
	w := make([]float64, len(I))
	for i := range w {
		w[i] = 1 / (1 + 10*I[i])
	}

	got, err := h.GammaFit(I, O, w)
	if err != nil {
		t.Fatalf("GammaFit() error: %v", err)
	}
	// Exact power-law data fits exactly regardless of weighting.
	if math.Abs(got-1.8) > 1e-2 {
		t.Fatalf("weighted GammaFit: expected ~1.8, got %v", got)
	}
}

func TestGammaFitInsufficientData(t *testing.T) {
	h := DefaultHeuristics()
	// Only one sample survives the mask.
	I := []float64{0.0, 0.5, 1.0}
	O := []float64{0.0, 0.5, 1.0}
	if _, err := h.GammaFit(I, O, nil); !errors.Is(err, ErrInsufficientData) {
		t.Fatalf("expected ErrInsufficientData, got %v", err)
	}
}

func TestLinearSlopeExact(t *testing.T) {
	I := []float64{0.0, 0.25, 0.5, 1.0}
	O := make([]float64, len(I))
	for i, x := range I {
		O[i] = 2.5*x + 0.3
	}

	s, err := LinearSlope(I, O)
	if err != nil {
		t.Fatalf("LinearSlope() error: %v", err)
	}
	if math.Abs(s-2.5) > 1e-9 {
		t.Fatalf("expected slope 2.5, got %v", s)
	}

	if _, err := LinearSlope([]float64{0.5}, []float64{0.5}); !errors.Is(err, ErrInsufficientData) {
		t.Fatalf("expected ErrInsufficientData for single sample, got %v", err)
	}
}

func TestTransitionPointFindsKnee(t *testing.T) {
	// Piecewise linear with the slope rising from 0.2 to 0.9 at I=0.5: the
	// light-to-full ink handoff shape.
	I := ramp(11)
	O := make([]float64, len(I))
	for i, x := range I {
		if x <= 0.5 {
			O[i] = 0.2 * x
		} else {
			O[i] = 0.1 + 0.9*(x-0.5)
		}
	}

	T, err := TransitionPoint(I, O)
	if err != nil {
		t.Fatalf("TransitionPoint() error: %v", err)
	}
	if math.Abs(T-0.5) > 0.1000001 {
		t.Fatalf("expected knee within one sample spacing of 0.5, got %v", T)
	}

	if _, err := TransitionPoint(I[:2], O[:2]); !errors.Is(err, ErrInsufficientData) {
		t.Fatalf("expected ErrInsufficientData for 2 samples, got %v", err)
	}
}

func TestLightInkValue(t *testing.T) {
	h := DefaultHeuristics()
	I := []float64{0.0, 0.25, 0.5, 0.75, 1.0}
	O := []float64{0.0, 0.20, 0.35, 0.60, 1.0}

	v, err := h.LightInkValue(I, O, 0.5)
	if err != nil {
		t.Fatalf("LightInkValue() error: %v", err)
	}
	if math.Abs(v-0.7) > 1e-3 {
		t.Fatalf("expected ~0.7 at the transition sample, got %v", v)
	}
}

func TestLightInkScale(t *testing.T) {
	h := DefaultHeuristics()
	I := []float64{0.0, 0.25, 0.5, 0.75, 1.0}
	O := []float64{0.0, 0.20, 0.35, 0.60, 1.0}

	s, err := h.LightInkScale(I, O, 0.5)
	if err != nil {
		t.Fatalf("LightInkScale() error: %v", err)
	}
	// Only I=0.25 falls in (0.05, 0.5).
	if math.Abs(s-0.8) > 1e-3 {
		t.Fatalf("expected scale ~0.8, got %v", s)
	}

	if _, err := h.LightInkScale(I, O, 0.04); !errors.Is(err, ErrInsufficientData) {
		t.Fatalf("expected ErrInsufficientData for empty mask, got %v", err)
	}
}

func TestDensityCorrectionSaturation(t *testing.T) {
	h := DefaultHeuristics()
	I := ramp(21)

	// Plateaued DE tail: saturated.
	flat := make([]float64, len(I))
	for i, x := range I {
		if x <= 0.9 {
			flat[i] = 50 * x
		} else {
			flat[i] = 45
		}
	}
	factor, saturated := h.DensityCorrection(I, flat)
	if !saturated || factor != h.SaturatedDensity {
		t.Fatalf("expected saturation factor %v, got %v (saturated=%v)",
			h.SaturatedDensity, factor, saturated)
	}

	// Healthy steep tail: no change.
	steep := make([]float64, len(I))
	for i, x := range I {
		steep[i] = 50 * x
	}
	factor, saturated = h.DensityCorrection(I, steep)
	if saturated || factor != 1.0 {
		t.Fatalf("expected no correction, got %v (saturated=%v)", factor, saturated)
	}

	// Too few tail samples: no judgment.
	factor, saturated = h.DensityCorrection([]float64{0.0, 1.0}, []float64{0.0, 1.0})
	if saturated || factor != 1.0 {
		t.Fatalf("expected neutral result for short tail, got %v", factor)
	}
}

func TestHighlightCorrection(t *testing.T) {
	h := DefaultHeuristics()
	I := ramp(11)

	// Curve matching the input: no adjustment.
	if got := h.HighlightCorrection(I, I, 0.35); got != 0.35 {
		t.Fatalf("expected unchanged value, got %v", got)
	}

	// Curve boosting output: value comes down.
	boosted := make([]float64, len(I))
	for i, x := range I {
		boosted[i] = x + 0.1
	}
	got := h.HighlightCorrection(I, boosted, 0.35)
	want := 0.35 + 0.1*h.HighlightSensitivity
	if math.Abs(got-want) > 1e-9 {
		t.Fatalf("expected %v, got %v", want, got)
	}

	// Clamping at the bottom.
	big := make([]float64, len(I))
	for i, x := range I {
		big[i] = x + 0.5
	}
	if got := h.HighlightCorrection(I, big, 0.12); got != h.ValueMin {
		t.Fatalf("expected clamp to %v, got %v", h.ValueMin, got)
	}
}

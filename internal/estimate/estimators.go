// Package estimate fits parametric tone-response models to measured
// calibration curves. Every estimator is a pure function of one or two
// aligned sample arrays; none keeps state between calls.
package estimate

import (
	"errors"
	"math"

	"gonum.org/v1/gonum/stat"
)

// ErrInsufficientData is returned when a masked sample set is too small to
// fit. Callers substitute a neutral default (gamma 1.0, factor 1.0) so one
// bad channel never aborts a run.
var ErrInsufficientData = errors.New("insufficient data for fit")

// GammaFit fits O = I^g by least squares in log-log space over the samples
// with FitLow < I < FitHigh and returns g. weights may be nil; when given it
// must be aligned with I and O (typically derived from the DE response).
func (h Heuristics) GammaFit(I, O, weights []float64) (float64, error) {
	var x, y, w []float64
	for i := range I {
		if I[i] <= h.FitLow || I[i] >= h.FitHigh {
			continue
		}
		x = append(x, math.Log(I[i]+h.Eps))
		y = append(y, math.Log(O[i]+h.Eps))
		if weights != nil {
			w = append(w, weights[i])
		}
	}
	if len(x) < 2 {
		return 0, ErrInsufficientData
	}

	_, g := stat.LinearRegression(x, y, w, false)
	if math.IsNaN(g) || math.IsInf(g, 0) {
		return 0, ErrInsufficientData
	}
	return g, nil
}

// LinearSlope fits O = s*I + b over the given samples and returns s.
// The samples are expected to be pre-masked by the caller.
func LinearSlope(I, O []float64) (float64, error) {
	if len(I) < 2 || len(I) != len(O) {
		return 0, ErrInsufficientData
	}
	_, s := stat.LinearRegression(I, O, nil, false)
	if math.IsNaN(s) || math.IsInf(s, 0) {
		return 0, ErrInsufficientData
	}
	return s, nil
}

// TransitionPoint locates the ink-transition knee: the input level at the
// sample of maximum upward curvature, measured as the discrete second
// derivative of O with respect to sample index. The handoff from light to
// full-strength ink shows up as the curve suddenly rising faster, so the
// signed maximum is the right pick; taking the magnitude instead latches
// onto the steep power-law bend near zero input.
func TransitionPoint(I, O []float64) (float64, error) {
	if len(I) < 3 || len(I) != len(O) {
		return 0, ErrInsufficientData
	}
	d2 := gradient(gradient(O))

	best := 0
	for i, v := range d2 {
		if v > d2[best] {
			best = i
		}
	}
	return I[best], nil
}

// gradient computes the discrete derivative with respect to sample index:
// central differences in the interior, one-sided at the ends.
func gradient(v []float64) []float64 {
	n := len(v)
	out := make([]float64, n)
	if n < 2 {
		return out
	}
	out[0] = v[1] - v[0]
	out[n-1] = v[n-1] - v[n-2]
	for i := 1; i < n-1; i++ {
		out[i] = (v[i+1] - v[i-1]) / 2
	}
	return out
}

// LightInkValue estimates the light-ink mixing ratio as O/I at the sample
// whose input level is closest to the transition point T.
func (h Heuristics) LightInkValue(I, O []float64, T float64) (float64, error) {
	if len(I) == 0 || len(I) != len(O) {
		return 0, ErrInsufficientData
	}
	best, bestDist := 0, math.Inf(1)
	for i := range I {
		if d := math.Abs(I[i] - T); d < bestDist {
			best, bestDist = i, d
		}
	}
	return O[best] / (I[best] + h.Eps), nil
}

// LightInkScale estimates the light-ink scale as the mean output/input
// ratio over the highlight range FitLow < I < T.
func (h Heuristics) LightInkScale(I, O []float64, T float64) (float64, error) {
	sum, n := 0.0, 0
	for i := range I {
		if I[i] <= h.FitLow || I[i] >= T {
			continue
		}
		sum += O[i] / (I[i] + h.Eps)
		n++
	}
	if n == 0 {
		return 0, ErrInsufficientData
	}
	return sum / float64(n), nil
}

// DensityCorrection checks the DE response for saturation. If the slope of
// the error curve over the top tail of the input range is flatter than
// SaturationSlopeMin in magnitude, added ink is no longer changing the
// measured color and a density reduction is suggested. Returns the density
// factor (1.0 = no change) and whether the channel is saturated. Fewer than
// two tail samples means nothing can be said: no change.
func (h Heuristics) DensityCorrection(I, DE []float64) (factor float64, saturated bool) {
	if len(I) < 2 || len(I) != len(DE) {
		return 1.0, false
	}
	first := -1
	for i := range I {
		if I[i] > h.SaturationTail {
			first = i
			break
		}
	}
	last := len(I) - 1
	if first < 0 || first >= last {
		return 1.0, false
	}

	slope := (DE[last] - DE[first]) / (I[last] - I[first] + h.Eps)
	if math.Abs(slope) < h.SaturationSlopeMin {
		return h.SaturatedDensity, true
	}
	return 1.0, false
}

// HighlightCorrection adjusts a light-ink value from the shape of the
// correction curve in the highlight range. A curve bowing above the input
// means the printer prints too light and the value comes down; bowing below
// pushes it up. The result is clamped to [ValueMin, ValueMax].
func (h Heuristics) HighlightCorrection(I, O []float64, current float64) float64 {
	sum, n := 0.0, 0
	for i := range I {
		if I[i] > h.HighlightLimit {
			continue
		}
		sum += O[i] - I[i]
		n++
	}
	if n == 0 {
		return current
	}

	v := current + (sum/float64(n))*h.HighlightSensitivity
	return math.Min(h.ValueMax, math.Max(h.ValueMin, v))
}

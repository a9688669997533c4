package estimate

// Heuristics holds the tuned constants used by the channel estimators.
// These are empirical values carried over from manual Gutenprint tuning
// sessions, not derived from a color model.
type Heuristics struct {
	// Eps guards logs and divisions against zero samples. Curve endpoints
	// are exactly 0.0 in well-formed .cal files.
	Eps float64

	// FitLow/FitHigh bound the gamma-fit mask. Endpoint samples sit on the
	// clipped part of the response and drag the log-log fit off the true
	// exponent, so the bottom and top 5% are excluded.
	FitLow  float64
	FitHigh float64

	// DarkZoneFactor scales the transition point down to pick the sub-range
	// where only full-strength ink prints (I < factor*T). 0.6 leaves a
	// buffer below the handoff where the mix is still changing.
	DarkZoneFactor float64

	// LightZoneOffset is added to the transition point to pick the light-ink
	// only sub-range (I > T+offset). The handoff is not instantaneous; the
	// offset skips the blend region.
	LightZoneOffset float64

	// HighlightLimit bounds the input range inspected by the highlight
	// correction. Light ink dominates below ~60% input on every supported
	// printer.
	HighlightLimit float64

	// HighlightSensitivity converts the mean correction-curve deviation
	// into a light-ink value adjustment. Negative: a curve that boosts
	// (output above input) means the printer is too light, so the value
	// must go down. A deviation of 0.1 is already a large miss.
	HighlightSensitivity float64

	// ValueMin/ValueMax clamp the light-ink value. Outside this range
	// Gutenprint produces visible banding at the handoff.
	ValueMin float64
	ValueMax float64

	// SaturationTail is the input fraction above which the DE response is
	// checked for plateaus (top 10% of the range).
	SaturationTail float64

	// SaturationSlopeMin is the minimum healthy DE slope over the tail.
	// A flatter response means added ink no longer changes the measured
	// color: the channel is saturated.
	SaturationSlopeMin float64

	// SaturatedDensity is the density factor suggested for a saturated
	// channel. A mild 5% cut per run avoids overshooting; repeated runs
	// compound it.
	SaturatedDensity float64
}

// DefaultHeuristics returns the tuned estimator constants.
func DefaultHeuristics() Heuristics {
	return Heuristics{
		Eps:     1e-6,
		FitLow:  0.05,
		FitHigh: 0.95,

		DarkZoneFactor:  0.6,
		LightZoneOffset: 0.05,

		HighlightLimit:       0.6,
		HighlightSensitivity: -0.8,
		ValueMin:             0.1,
		ValueMax:             0.9,

		SaturationTail:     0.9,
		SaturationSlopeMin: 10.0,
		SaturatedDensity:   0.95,
	}
}

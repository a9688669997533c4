package estimate

// ZoneFit holds the samples and fitted model for one sub-range of a curve.
type ZoneFit struct {
	I, O  []float64
	Gamma float64 // power-law exponent; dark zone only
	Slope float64 // linear slope
}

// SplitFitResult is the two-zone fit of a light-ink channel around its
// transition point.
type SplitFitResult struct {
	Dark  ZoneFit
	Light ZoneFit
	// Value is the light-ink value estimated as the ratio of the light-zone
	// slope to the dark-zone slope.
	Value float64
}

// SplitFit fits a light-ink channel in two zones around the transition
// point T: a power-law fit on the dark zone (I < DarkZoneFactor*T, where
// only full-strength ink prints) and a linear fit on the light zone
// (I > T+LightZoneOffset, light ink only). The light-ink value estimate is
// the ratio of the two slopes.
func (h Heuristics) SplitFit(I, O []float64, T float64) (SplitFitResult, error) {
	var res SplitFitResult

	darkHigh := h.DarkZoneFactor * T
	lightLow := T + h.LightZoneOffset
	for i := range I {
		switch {
		case I[i] > h.FitLow && I[i] < darkHigh:
			res.Dark.I = append(res.Dark.I, I[i])
			res.Dark.O = append(res.Dark.O, O[i])
		case I[i] > lightLow && I[i] < h.FitHigh:
			res.Light.I = append(res.Light.I, I[i])
			res.Light.O = append(res.Light.O, O[i])
		}
	}

	g, err := h.GammaFit(res.Dark.I, res.Dark.O, nil)
	if err != nil {
		return res, err
	}
	sDark, err := LinearSlope(res.Dark.I, res.Dark.O)
	if err != nil {
		return res, err
	}
	sLight, err := LinearSlope(res.Light.I, res.Light.O)
	if err != nil {
		return res, err
	}

	res.Dark.Gamma = g
	res.Dark.Slope = sDark
	res.Light.Slope = sLight
	res.Value = sLight / (sDark + h.Eps)
	return res, nil
}

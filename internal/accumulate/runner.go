package accumulate

import (
	"fmt"
	"sync"

	"cal2gutenprint/internal/calfile"
	"cal2gutenprint/internal/estimate"
)

// channelParams maps each channel to its parameter names. Yellow and black
// have no light-ink entries.
var channelParams = map[calfile.Channel]struct {
	gamma, density, value, scale, trans string
}{
	calfile.Cyan:    {CyanGamma, CyanDensity, LightCyanValue, LightCyanScale, LightCyanTrans},
	calfile.Magenta: {MagentaGamma, MagentaDensity, LightMagentaValue, LightMagentaScale, LightMagentaTrans},
	calfile.Yellow:  {gamma: YellowGamma, density: YellowDensity},
	calfile.Black:   {gamma: BlackGamma, density: BlackDensity},
}

// ChannelEstimate holds the fit outputs for one channel of one file. It is
// transient: the runner folds it into the parameter set and keeps it only
// for reporting and plotting.
type ChannelEstimate struct {
	Channel calfile.Channel

	// Measured samples, kept for diagnostic plots.
	I, O []float64

	Gamma   float64
	GammaOK bool

	Transition   float64
	TransitionOK bool

	Value   float64
	ValueOK bool

	Scale   float64
	ScaleOK bool

	// Density is the suggested density factor from the DE response.
	Density   float64
	DensityOK bool
	Saturated bool

	// DEPresent reports whether an aligned DE response was found for the
	// channel.
	DEPresent bool

	// Split is the two-zone fit around the transition point, when it
	// succeeded.
	Split *estimate.SplitFitResult

	// Notes collects per-channel diagnostics (skipped fits and why).
	Notes []string
}

// FileReport is the outcome of processing one input file.
type FileReport struct {
	Path string
	// Err is set when the file could not be read or parsed at all; the
	// file contributes nothing to the parameter set in that case.
	Err error

	Estimates map[calfile.Channel]*ChannelEstimate

	// CompositeGamma is the mean of the chromatic gamma estimates that
	// succeeded for this file.
	CompositeGamma float64
	CompositeOK    bool

	SkippedRows int
}

// Runner folds an ordered list of .cal files into a parameter set.
type Runner struct {
	Heuristics estimate.Heuristics
	Updater    Updater
	Patterns   calfile.BlockPatterns
}

// NewRunner returns a runner with default heuristics and block patterns.
func NewRunner(u Updater) *Runner {
	return &Runner{
		Heuristics: estimate.DefaultHeuristics(),
		Updater:    u,
		Patterns:   calfile.DefaultBlockPatterns(),
	}
}

// Process parses every file and folds the channel estimates into a fresh
// parameter set starting from the defaults.
func (r *Runner) Process(paths []string) (*Params, []FileReport) {
	return r.ProcessFrom(DefaultParams(), paths)
}

// ProcessFrom folds the channel estimates of every file into the given
// starting parameter set. Parsing runs concurrently; the fold is strictly
// sequential in argument order because each file's update depends on the
// running state. A file that fails to parse is reported and skipped; it
// never aborts the run.
func (r *Runner) ProcessFrom(params *Params, paths []string) (*Params, []FileReport) {
	parsed := make([]*calfile.File, len(paths))
	errs := make([]error, len(paths))

	var wg sync.WaitGroup
	for i, path := range paths {
		wg.Add(1)
		go func(i int, path string) {
			defer wg.Done()
			parsed[i], errs[i] = calfile.ParseFile(path, r.Patterns)
		}(i, path)
	}
	wg.Wait()

	reports := make([]FileReport, 0, len(paths))
	for i, path := range paths {
		if errs[i] != nil {
			reports = append(reports, FileReport{Path: path, Err: errs[i]})
			continue
		}
		rep := r.analyze(parsed[i])
		rep.Path = path
		r.apply(params, rep)
		reports = append(reports, *rep)
	}
	return params, reports
}

// analyze computes the channel estimates for one parsed file.
func (r *Runner) analyze(f *calfile.File) *FileReport {
	h := r.Heuristics
	rep := &FileReport{
		Estimates:   make(map[calfile.Channel]*ChannelEstimate),
		SkippedRows: f.SkippedRows,
	}

	for _, ch := range calfile.Channels {
		I, O, ok := f.Curves.Curve(ch)
		if !ok {
			continue
		}
		est := &ChannelEstimate{Channel: ch, I: I, O: O, Density: 1.0}
		rep.Estimates[ch] = est

		// DE response, when present and aligned, weights the gamma fit and
		// drives the saturation check.
		var weights []float64
		if dI, dO, ok := f.DEResponse.Curve(ch); ok && len(dO) == len(O) {
			est.DEPresent = true
			weights = make([]float64, len(dO))
			for i, de := range dO {
				weights[i] = 1 / (1 + de)
			}
			est.Density, est.Saturated = h.DensityCorrection(dI, dO)
			est.DensityOK = true
		}

		if g, err := h.GammaFit(I, O, weights); err != nil {
			est.note("gamma fit skipped: %v", err)
		} else {
			est.Gamma, est.GammaOK = g, true
		}

		if !ch.HasLightInk() {
			continue
		}

		T, err := estimate.TransitionPoint(I, O)
		if err != nil {
			est.note("transition skipped: %v", err)
			continue
		}
		est.Transition, est.TransitionOK = T, true

		if s, err := h.LightInkScale(I, O, T); err != nil {
			est.note("light scale skipped: %v", err)
		} else {
			est.Scale, est.ScaleOK = s, true
		}
		if v, err := h.LightInkValue(I, O, T); err != nil {
			est.note("light value skipped: %v", err)
		} else {
			est.Value, est.ValueOK = v, true
		}
		if split, err := h.SplitFit(I, O, T); err != nil {
			est.note("split fit skipped: %v", err)
		} else {
			est.Split = &split
		}
	}

	// Composite gamma: mean of the chromatic estimates that succeeded.
	sum, n := 0.0, 0
	for _, ch := range []calfile.Channel{calfile.Cyan, calfile.Magenta, calfile.Yellow} {
		if est := rep.Estimates[ch]; est != nil && est.GammaOK {
			sum += est.Gamma
			n++
		}
	}
	if n > 0 {
		rep.CompositeGamma, rep.CompositeOK = sum/float64(n), true
	}

	return rep
}

// apply folds one file's estimates into the running parameter set. A
// parameter whose estimate failed is left untouched for this file.
func (r *Runner) apply(params *Params, rep *FileReport) {
	u := r.Updater

	for _, ch := range calfile.Channels {
		est := rep.Estimates[ch]
		if est == nil {
			continue
		}
		names := channelParams[ch]

		if est.GammaOK {
			params.Set(names.gamma, u.Factor(params.Get(names.gamma), est.Gamma))
		}
		if est.DensityOK {
			params.Set(names.density, u.Factor(params.Get(names.density), est.Density))
		}

		if !ch.HasLightInk() {
			continue
		}
		if est.TransitionOK {
			params.Set(names.trans, u.Value(params.Get(names.trans), est.Transition))
		}
		if est.ScaleOK {
			params.Set(names.scale, u.Value(params.Get(names.scale), est.Scale))
		}
		r.applyValue(params, names.value, est)
	}

	if rep.CompositeOK {
		params.Set(CompositeGamma, u.Factor(params.Get(CompositeGamma), rep.CompositeGamma))
	}
}

// applyValue updates a light-ink value. The two policies disagree here: the
// smoothing policy blends toward the transition-point estimator, while the
// correction-pass policy nudges the running value by the highlight deviation
// of the correction curve (and only trusts it when a DE response confirms
// the measurement).
func (r *Runner) applyValue(params *Params, name string, est *ChannelEstimate) {
	switch r.Updater.Policy {
	case PolicyMultiplicative:
		if !est.DEPresent {
			return
		}
		params.Set(name, r.Heuristics.HighlightCorrection(est.I, est.O, params.Get(name)))
	default:
		if est.ValueOK {
			params.Set(name, r.Updater.Value(params.Get(name), est.Value))
		}
	}
}

func (e *ChannelEstimate) note(format string, args ...any) {
	e.Notes = append(e.Notes, fmt.Sprintf(format, args...))
}

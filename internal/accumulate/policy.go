package accumulate

import "fmt"

// Policy selects how per-file estimates fold into the running parameters.
type Policy int

const (
	// PolicySmoothing blends every parameter toward the new estimate with
	// an exponential smoothing factor. Use when the input files are
	// repeated noisy measurements of one fixed target.
	PolicySmoothing Policy = iota

	// PolicyMultiplicative treats each file as an incremental correction
	// pass: gamma and density factors multiply into the running values,
	// ink-value parameters are replaced. Use for closed-loop
	// print-measure-adjust cycles.
	PolicyMultiplicative
)

func (p Policy) String() string {
	switch p {
	case PolicySmoothing:
		return "smoothing"
	case PolicyMultiplicative:
		return "multiplicative"
	}
	return "unknown"
}

// ParsePolicy resolves a policy name from configuration.
func ParsePolicy(s string) (Policy, error) {
	switch s {
	case "smoothing":
		return PolicySmoothing, nil
	case "multiplicative":
		return PolicyMultiplicative, nil
	}
	return 0, fmt.Errorf("unknown update policy %q (want smoothing or multiplicative)", s)
}

// paramKind distinguishes how a parameter folds under the multiplicative
// policy.
type paramKind int

const (
	// kindFactor parameters (gammas, densities) are per-run correction
	// factors: they compound multiplicatively across runs.
	kindFactor paramKind = iota
	// kindValue parameters (light-ink value/scale/trans) are absolute
	// settings: a new estimate replaces the old one.
	kindValue
)

// Updater applies the configured update policy to one parameter at a time.
type Updater struct {
	Policy Policy
	// Alpha is the smoothing factor in (0,1]; 1 means no memory.
	// Ignored under PolicyMultiplicative.
	Alpha float64
}

// fold combines the running value with a fresh estimate.
func (u Updater) fold(old, estimate float64, kind paramKind) float64 {
	switch u.Policy {
	case PolicyMultiplicative:
		if kind == kindFactor {
			return old * estimate
		}
		return estimate
	default:
		return u.Alpha*estimate + (1-u.Alpha)*old
	}
}

// Factor folds a multiplicative correction estimate (gamma, density).
func (u Updater) Factor(old, estimate float64) float64 {
	return u.fold(old, estimate, kindFactor)
}

// Value folds an absolute setting estimate (light-ink value/scale/trans).
func (u Updater) Value(old, estimate float64) float64 {
	return u.fold(old, estimate, kindValue)
}

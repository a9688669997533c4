// Package accumulate folds per-file channel estimates into a running
// Gutenprint parameter set.
package accumulate

import "encoding/json"

// Parameter names. The set is fixed: fifteen keys covering the four ink
// channels plus the composite gamma.
const (
	CyanGamma      = "CyanGamma"
	CyanDensity    = "CyanDensity"
	LightCyanValue = "LightCyanValue"
	LightCyanScale = "LightCyanScale"
	LightCyanTrans = "LightCyanTrans"

	MagentaGamma      = "MagentaGamma"
	MagentaDensity    = "MagentaDensity"
	LightMagentaValue = "LightMagentaValue"
	LightMagentaScale = "LightMagentaScale"
	LightMagentaTrans = "LightMagentaTrans"

	YellowGamma   = "YellowGamma"
	YellowDensity = "YellowDensity"

	BlackGamma   = "BlackGamma"
	BlackDensity = "BlackDensity"

	CompositeGamma = "CompositeGamma"
)

// paramOrder is the canonical reporting order.
var paramOrder = []string{
	CyanGamma, CyanDensity, LightCyanValue, LightCyanScale, LightCyanTrans,
	MagentaGamma, MagentaDensity, LightMagentaValue, LightMagentaScale, LightMagentaTrans,
	YellowGamma, YellowDensity,
	BlackGamma, BlackDensity,
	CompositeGamma,
}

// Params is the running Gutenprint parameter set. Keys are fixed at
// construction; values are mutated once per processed file.
type Params struct {
	values map[string]float64
}

// DefaultParams returns the standard Gutenprint starting points.
func DefaultParams() *Params {
	return &Params{values: map[string]float64{
		CyanGamma:      1.0,
		CyanDensity:    1.0,
		LightCyanValue: 0.35,
		LightCyanScale: 1.0,
		LightCyanTrans: 0.6,

		MagentaGamma:      1.0,
		MagentaDensity:    1.0,
		LightMagentaValue: 0.35,
		LightMagentaScale: 1.0,
		LightMagentaTrans: 0.6,

		YellowGamma:   1.0,
		YellowDensity: 1.0,

		BlackGamma:   1.0,
		BlackDensity: 1.0,

		CompositeGamma: 1.0,
	}}
}

// Get returns the value of a parameter. Unknown names return 0.
func (p *Params) Get(name string) float64 { return p.values[name] }

// Set overwrites the value of a known parameter; unknown names are ignored
// so the key set stays fixed.
func (p *Params) Set(name string, v float64) {
	if _, ok := p.values[name]; ok {
		p.values[name] = v
	}
}

// Names returns the parameter names in canonical reporting order.
func (p *Params) Names() []string {
	out := make([]string, len(paramOrder))
	copy(out, paramOrder)
	return out
}

// MarshalJSON encodes the parameter set as a flat name→value object.
func (p *Params) MarshalJSON() ([]byte, error) {
	return json.Marshal(p.values)
}

// UnmarshalJSON merges a flat name→value object over the current values.
// Unknown keys are dropped, keeping the fixed key set.
func (p *Params) UnmarshalJSON(data []byte) error {
	if p.values == nil {
		p.values = DefaultParams().values
	}
	var in map[string]float64
	if err := json.Unmarshal(data, &in); err != nil {
		return err
	}
	for k, v := range in {
		p.Set(k, v)
	}
	return nil
}

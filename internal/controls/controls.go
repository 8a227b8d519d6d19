// Package controls models the on-screen controls: a depth slider, three spin
// speed sliders and the "apply depth" trigger. Controls only produce values;
// what a change does is decided by the OnChange callbacks wired by the app.
package controls

import (
	"fmt"
	"math"

	"github.com/Faultbox/cubecarpet/internal/interaction"
)

// Slider is a bounded numeric control.
type Slider struct {
	Name string
	Min  float64
	Max  float64
	Step float64

	// OnChange is called with the new value after every change.
	OnChange func(v float64)

	value float64
}

// Value returns the current value.
func (s *Slider) Value() float64 {
	return s.value
}

// Set clamps v to [Min, Max], snaps it to Step and notifies OnChange.
// NaN is ignored. It reports whether the value changed.
func (s *Slider) Set(v float64) bool {
	if math.IsNaN(v) {
		return false
	}
	v = s.snap(math.Min(math.Max(v, s.Min), s.Max))
	if v == s.value {
		return false
	}
	s.value = v
	if s.OnChange != nil {
		s.OnChange(v)
	}
	return true
}

// Nudge moves the slider by n steps.
func (s *Slider) Nudge(n int) bool {
	return s.Set(s.value + float64(n)*s.Step)
}

func (s *Slider) snap(v float64) float64 {
	if s.Step <= 0 {
		return v
	}
	snapped := s.Min + math.Round((v-s.Min)/s.Step)*s.Step
	// round away float noise such as 0.30000000000000004
	snapped = math.Round(snapped*1e9) / 1e9
	return math.Min(snapped, s.Max)
}

// Panel groups the controls.
type Panel struct {
	Depth  *Slider
	Speeds [3]*Slider

	// OnApply is called by Apply with the current depth.
	OnApply func(depth int)
}

// Limits configures the slider ranges.
type Limits struct {
	MaxDepth   int
	SpeedLimit float64
	SpeedStep  float64
}

// NewPanel creates the panel. Speed sliders write straight into state
// through SetSpinSpeed.
func NewPanel(l Limits, state *interaction.State) *Panel {
	if l.MaxDepth < 1 {
		l.MaxDepth = 1
	}
	if l.SpeedStep <= 0 {
		l.SpeedStep = 0.1
	}

	p := &Panel{
		Depth: &Slider{Name: "depth", Min: 1, Max: float64(l.MaxDepth), Step: 1, value: 1},
	}
	for i := range p.Speeds {
		axis := interaction.Axis(i)
		p.Speeds[i] = &Slider{
			Name: axis.String(),
			Min:  -l.SpeedLimit,
			Max:  l.SpeedLimit,
			Step: l.SpeedStep,
			OnChange: func(v float64) {
				state.SetSpinSpeed(axis, float32(v))
			},
		}
	}
	return p
}

// DepthValue returns the depth slider as an integer depth.
func (p *Panel) DepthValue() int {
	return int(p.Depth.Value())
}

// Apply fires the "apply depth" trigger.
func (p *Panel) Apply() {
	if p.OnApply != nil {
		p.OnApply(p.DepthValue())
	}
}

// Readout mirrors the current values as text.
func (p *Panel) Readout(zoom float32) string {
	return fmt.Sprintf("depth %d | x %.2f y %.2f z %.2f | zoom %.2f",
		p.DepthValue(),
		p.Speeds[interaction.AxisX].Value(),
		p.Speeds[interaction.AxisY].Value(),
		p.Speeds[interaction.AxisZ].Value(),
		zoom,
	)
}

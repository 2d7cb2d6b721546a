// Package camhelper describes the fixed characteristics of supported camera
// sensors that the exposure and gain control loop relies on: the analogue gain
// register encoding, how many frames register writes take to land, and how
// many frames to hide or distrust after start-up and mode switches.
//
// Models are immutable and may be shared between goroutines.
package camhelper

import "math"

// Delays are the number of frames between writing a sensor control and the
// frame in which it takes effect.
type Delays struct {
	Exposure int `json:"exposure"`
	Gain     int `json:"gain"`
	VBlank   int `json:"vblank"`
	HBlank   int `json:"hblank"`
}

// FrameCounts are the numbers of initial frames to hide from output or
// exclude from control algorithm statistics.
type FrameCounts struct {
	HideStartup        uint `json:"hide_startup"`
	HideModeSwitch     uint `json:"hide_mode_switch"`
	MistrustStartup    uint `json:"mistrust_startup"`
	MistrustModeSwitch uint `json:"mistrust_mode_switch"`
}

// Model holds the static characteristics of one sensor module.
type Model struct {
	name        string
	description string
	gainScale   float64
	delays      Delays
	frames      FrameCounts
	embedded    bool
	// Smallest difference between frame length and integration time, in lines.
	frameIntegrationDiff uint
	blackLevel           *int16
}

// Name returns the identifier the model is looked up by.
func (m *Model) Name() string { return m.name }

// Description returns a human readable name of the sensor module.
func (m *Model) Description() string { return m.description }

// GainScale returns the number of gain code steps per unit of gain.
func (m *Model) GainScale() float64 { return m.gainScale }

// GainCode converts an analogue gain to the value written to the sensor's
// gain register. Gains below zero map to code 0.
func (m *Model) GainCode(gain float64) uint32 {
	code := math.Round(gain * m.gainScale)
	if code <= 0 {
		return 0
	}
	if code >= math.MaxUint32 {
		return math.MaxUint32
	}
	return uint32(code)
}

// Gain converts a gain register value back to an analogue gain.
func (m *Model) Gain(code uint32) float64 {
	return float64(code) / m.gainScale
}

// Delays returns the control application delays.
func (m *Model) Delays() Delays { return m.delays }

// SensorEmbeddedDataPresent reports whether the sensor sends per-frame
// embedded metadata that the pipeline can parse instead of tracking control
// values in software.
func (m *Model) SensorEmbeddedDataPresent() bool { return m.embedded }

// FrameCounts returns all four hide/mistrust counts.
func (m *Model) FrameCounts() FrameCounts { return m.frames }

// HideFramesStartup is the number of frames after start-up that are not shown.
func (m *Model) HideFramesStartup() uint { return m.frames.HideStartup }

// HideFramesModeSwitch is the number of frames after a mode switch that are
// not shown.
func (m *Model) HideFramesModeSwitch() uint { return m.frames.HideModeSwitch }

// MistrustFramesStartup is the number of frames after start-up whose
// statistics the control algorithms ignore.
func (m *Model) MistrustFramesStartup() uint { return m.frames.MistrustStartup }

// MistrustFramesModeSwitch is the number of frames after a mode switch whose
// statistics the control algorithms ignore.
func (m *Model) MistrustFramesModeSwitch() uint { return m.frames.MistrustModeSwitch }

// FrameIntegrationDiff is the smallest allowed difference, in lines, between
// the frame length and the integration time.
func (m *Model) FrameIntegrationDiff() uint { return m.frameIntegrationDiff }

// BlackLevel returns the sensor black level in the 16-bit sample domain, or
// nil when the model does not define one.
func (m *Model) BlackLevel() *int16 {
	if m.blackLevel == nil {
		return nil
	}
	v := *m.blackLevel
	return &v
}

// FrameDisposition reports how to treat a frame. frame counts from 0 at
// start-up, or at the last mode switch when modeSwitch is true.
func (m *Model) FrameDisposition(frame uint, modeSwitch bool) (hide, mistrust bool) {
	if modeSwitch {
		return frame < m.frames.HideModeSwitch, frame < m.frames.MistrustModeSwitch
	}
	return frame < m.frames.HideStartup, frame < m.frames.MistrustStartup
}

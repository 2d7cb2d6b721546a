package camhelper

import (
	"fmt"
	"sort"
)

// supportedModels is the table of sensor modules with a known timing model,
// keyed by the name the pipeline configuration uses.
var supportedModels = map[string]*Model{
	"evdmoom1": {
		name:        "evdmoom1",
		description: "Innodisk EVDM-OOM1 (AP1302 ISP, AR1335 sensor)",
		gainScale:   16.0,
		delays:      Delays{Exposure: 2, Gain: 2, VBlank: 2, HBlank: 2},
		// The first couple of frames after start-up or a mode switch are
		// under-exposed.
		frames: FrameCounts{
			HideStartup:        2,
			HideModeSwitch:     2,
			MistrustStartup:    2,
			MistrustModeSwitch: 2,
		},
		// TODO: parse embedded metadata once the AP1302 exposes it on the
		// CSI-2 stream.
		embedded:             false,
		frameIntegrationDiff: 22,
	},
}

// Lookup returns the model registered under name.
func Lookup(name string) (*Model, bool) {
	m, ok := supportedModels[name]
	return m, ok
}

// MustLookup is like Lookup but panics for unknown names. It is intended for
// tests and static configuration.
func MustLookup(name string) *Model {
	m, ok := Lookup(name)
	if !ok {
		panic(fmt.Sprintf("camhelper: unknown sensor model %q", name))
	}
	return m
}

// Names returns the names of all supported models, sorted.
func Names() []string {
	names := make([]string, 0, len(supportedModels))
	for name := range supportedModels {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

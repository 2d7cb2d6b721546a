package blc

import "github.com/banshee-data/ispcal/internal/monitoring"

// EventKind identifies which resolution branch produced an Event.
type EventKind string

const (
	// EventNoSensorLevel: the sensor model has no black level, so tuning
	// values (or FallbackLevel) are used per channel.
	EventNoSensorLevel EventKind = "no_sensor_level"
	// EventTuningOverride: a complete set of tuning values overrides the
	// sensor black level. Deprecated configuration.
	EventTuningOverride EventKind = "tuning_override"
	// EventResolved is emitted once the final levels are known.
	EventResolved EventKind = "resolved"
)

// Event is a diagnostic emitted while resolving black levels.
// Levels is only set on EventResolved.
type Event struct {
	Kind   EventKind
	Levels Levels
}

// Observer receives diagnostics from a Corrector. Events never influence the
// resolved levels.
type Observer interface {
	Observe(Event)
}

// ObserverFunc adapts a function to the Observer interface.
type ObserverFunc func(Event)

// Observe calls f(e).
func (f ObserverFunc) Observe(e Event) { f(e) }

// LogObserver writes events to the monitoring logger.
type LogObserver struct{}

// Observe logs e at warning or debug severity.
func (LogObserver) Observe(e Event) {
	switch e.Kind {
	case EventNoSensorLevel:
		monitoring.Warnf("blc: no black levels provided by camera sensor helper, please fix")
	case EventTuningOverride:
		monitoring.Warnf("blc: deprecated: black levels overwritten by tuning file")
	case EventResolved:
		monitoring.Debugf("blc: black levels: %s", e.Levels)
	}
}

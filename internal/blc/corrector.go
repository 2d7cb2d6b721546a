package blc

import "github.com/banshee-data/ispcal/internal/rkisp1"

// AlgorithmName names the tuning file section read by the Corrector.
const AlgorithmName = "BlackLevelCorrection"

// registerShift converts 16-bit sample domain levels to the 12-bit values
// programmed into the RkISP1 BLS block.
const registerShift = 4

// State is the lifecycle state of a Corrector.
type State string

const (
	StateUnresolved State = "unresolved" // No levels yet, Apply does nothing
	StateResolved   State = "resolved"   // Levels fixed for the session
)

// Corrector resolves the black levels of one camera session and programs
// them into the ISP on the first frame.
//
// A Corrector is not safe for concurrent use; the pipeline calls it from its
// per-frame processing step only.
type Corrector struct {
	state    State
	levels   Levels
	observer Observer
}

// Option configures a Corrector.
type Option func(*Corrector)

// WithObserver sends resolution diagnostics to o instead of the monitoring
// logger. A nil o discards them.
func WithObserver(o Observer) Option {
	return func(c *Corrector) {
		if o == nil {
			o = ObserverFunc(func(Event) {})
		}
		c.observer = o
	}
}

// New returns an unresolved Corrector.
func New(opts ...Option) *Corrector {
	c := &Corrector{
		state:    StateUnresolved,
		observer: LogObserver{},
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// State returns the current lifecycle state.
func (c *Corrector) State() State {
	return c.state
}

// Levels returns the resolved levels. The second result is false until
// Resolve has been called.
func (c *Corrector) Levels() (Levels, bool) {
	return c.levels, c.state == StateResolved
}

// Resolve picks the black levels for the session from the tuning file levels
// and the sensor's own black level (nil when the sensor model has none):
//
//   - no sensor level: each channel uses its tuning value, or FallbackLevel
//     when the tuning file lacks it;
//   - sensor level and all four tuning values: the tuning values win;
//   - otherwise: the sensor level on all four channels.
//
// Resolution happens once. Later calls return the levels chosen first.
func (c *Corrector) Resolve(t TuningLevels, sensorLevel *int16) Levels {
	if c.state == StateResolved {
		return c.levels
	}

	switch {
	case sensorLevel == nil:
		// Not every sensor model carries a black level yet; keep honouring
		// the tuning file for those.
		c.observer.Observe(Event{Kind: EventNoSensorLevel})
		c.levels = t.Or(FallbackLevel)
	case t.Complete():
		c.observer.Observe(Event{Kind: EventTuningOverride})
		c.levels = t.Or(0)
	default:
		c.levels = UniformLevels(*sensorLevel)
	}

	c.state = StateResolved
	c.observer.Observe(Event{Kind: EventResolved, Levels: c.levels})

	return c.levels
}

// Apply programs the resolved levels into params. Only frame 0 of a resolved
// session is touched; the BLS block keeps its configuration afterwards.
func (c *Corrector) Apply(frame uint32, params *rkisp1.Params) {
	if frame > 0 || c.state != StateResolved || params == nil {
		return
	}

	bls := &params.Others.BLSConfig
	bls.EnableAuto = false
	bls.FixedVal = rkisp1.BLSFixedVal{
		R:  c.levels.R >> registerShift,
		Gr: c.levels.Gr >> registerShift,
		Gb: c.levels.Gb >> registerShift,
		B:  c.levels.B >> registerShift,
	}

	params.EnableModule(rkisp1.ModuleBLS)
}

package blc

import (
	"fmt"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/banshee-data/ispcal/internal/monitoring"
	"github.com/banshee-data/ispcal/internal/rkisp1"
	"github.com/banshee-data/ispcal/internal/tuning"
)

// recorder collects events for assertions.
type recorder struct {
	events []Event
}

func (r *recorder) Observe(e Event) { r.events = append(r.events, e) }

func (r *recorder) kinds() []EventKind {
	kinds := make([]EventKind, 0, len(r.events))
	for _, e := range r.events {
		kinds = append(kinds, e.Kind)
	}
	return kinds
}

func i16(v int16) *int16 { return &v }

func TestResolve(t *testing.T) {
	full := TuningLevels{R: i16(100), Gr: i16(200), Gb: i16(300), B: i16(400)}
	partial := TuningLevels{R: i16(100), Gb: i16(300)}

	tests := []struct {
		name        string
		tuning      TuningLevels
		sensorLevel *int16
		want        Levels
		wantEvents  []EventKind
	}{
		{
			name:       "no sensor level, no tuning",
			want:       UniformLevels(4096),
			wantEvents: []EventKind{EventNoSensorLevel, EventResolved},
		},
		{
			name:       "no sensor level, partial tuning mixes per channel",
			tuning:     partial,
			want:       Levels{R: 100, Gr: 4096, Gb: 300, B: 4096},
			wantEvents: []EventKind{EventNoSensorLevel, EventResolved},
		},
		{
			name:       "no sensor level, full tuning",
			tuning:     full,
			want:       Levels{R: 100, Gr: 200, Gb: 300, B: 400},
			wantEvents: []EventKind{EventNoSensorLevel, EventResolved},
		},
		{
			name:        "sensor level overridden by full tuning",
			tuning:      full,
			sensorLevel: i16(256),
			want:        Levels{R: 100, Gr: 200, Gb: 300, B: 400},
			wantEvents:  []EventKind{EventTuningOverride, EventResolved},
		},
		{
			name:        "sensor level wins over partial tuning",
			tuning:      partial,
			sensorLevel: i16(256),
			want:        UniformLevels(256),
			wantEvents:  []EventKind{EventResolved},
		},
		{
			name:        "sensor level with no tuning",
			sensorLevel: i16(3200),
			want:        UniformLevels(3200),
			wantEvents:  []EventKind{EventResolved},
		},
		{
			name:        "zero is a valid tuning value",
			tuning:      TuningLevels{R: i16(0), Gr: i16(0), Gb: i16(0), B: i16(0)},
			sensorLevel: i16(256),
			want:        UniformLevels(0),
			wantEvents:  []EventKind{EventTuningOverride, EventResolved},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := &recorder{}
			c := New(WithObserver(rec))
			assert.Equal(t, StateUnresolved, c.State())

			got := c.Resolve(tt.tuning, tt.sensorLevel)

			assert.Equal(t, tt.want, got)
			assert.Equal(t, StateResolved, c.State())
			assert.Equal(t, tt.wantEvents, rec.kinds())

			levels, ok := c.Levels()
			assert.True(t, ok)
			assert.Equal(t, tt.want, levels)

			last := rec.events[len(rec.events)-1]
			assert.Equal(t, tt.want, last.Levels)
		})
	}
}

func TestResolveOnce(t *testing.T) {
	rec := &recorder{}
	c := New(WithObserver(rec))

	first := c.Resolve(TuningLevels{}, i16(256))
	second := c.Resolve(TuningLevels{}, i16(1024))

	assert.Equal(t, UniformLevels(256), first)
	assert.Equal(t, first, second)
	assert.Len(t, rec.events, 1, "second Resolve must not emit diagnostics")
}

func TestApply(t *testing.T) {
	t.Run("unresolved does nothing", func(t *testing.T) {
		c := New(WithObserver(nil))
		params := rkisp1.NewParams()

		c.Apply(0, params)

		assert.Equal(t, rkisp1.Params{}, *params)
		_, ok := c.Levels()
		assert.False(t, ok)
	})

	t.Run("later frames do nothing", func(t *testing.T) {
		c := New(WithObserver(nil))
		c.Resolve(TuningLevels{}, i16(256))

		for _, frame := range []uint32{1, 2, 100, ^uint32(0)} {
			params := rkisp1.NewParams()
			c.Apply(frame, params)
			assert.Equal(t, rkisp1.Params{}, *params, "frame %d", frame)
		}
	})

	t.Run("nil params", func(t *testing.T) {
		c := New(WithObserver(nil))
		c.Resolve(TuningLevels{}, i16(256))
		assert.NotPanics(t, func() { c.Apply(0, nil) })
	})

	t.Run("frame zero programs BLS", func(t *testing.T) {
		c := New(WithObserver(nil))
		c.Resolve(TuningLevels{R: i16(1040), Gr: i16(1056), Gb: i16(1071), B: i16(-32)}, i16(0))

		params := rkisp1.NewParams()
		params.Others.BLSConfig.EnableAuto = true
		params.ModuleEns = rkisp1.ModuleAWB
		c.Apply(0, params)

		want := rkisp1.Params{
			ModuleEnUpdate:  rkisp1.ModuleBLS,
			ModuleEns:       rkisp1.ModuleAWB | rkisp1.ModuleBLS,
			ModuleCfgUpdate: rkisp1.ModuleBLS,
			Others: rkisp1.OtherConfigs{
				BLSConfig: rkisp1.BLSConfig{
					EnableAuto: false,
					// Arithmetic shift: truncates toward negative infinity.
					FixedVal: rkisp1.BLSFixedVal{R: 65, Gr: 66, Gb: 66, B: -2},
				},
			},
		}
		if diff := cmp.Diff(want, *params); diff != "" {
			t.Errorf("params mismatch (-want +got):\n%s", diff)
		}
	})

	t.Run("repeated frame zero is idempotent", func(t *testing.T) {
		c := New(WithObserver(nil))
		c.Resolve(TuningLevels{}, i16(512))

		params := rkisp1.NewParams()
		c.Apply(0, params)
		once := *params
		c.Apply(0, params)

		assert.Equal(t, once, *params)
	})
}

func TestEndToEndFallback(t *testing.T) {
	section, err := tuning.NewSection([]byte("R:\nGr: foo\n"))
	require.NoError(t, err)

	c := New(WithObserver(nil))
	levels := c.Resolve(LevelsFromSection(section), nil)
	assert.Equal(t, Levels{R: 4096, Gr: 4096, Gb: 4096, B: 4096}, levels)

	params := rkisp1.NewParams()
	c.Apply(0, params)

	assert.Equal(t, rkisp1.BLSFixedVal{R: 256, Gr: 256, Gb: 256, B: 256}, params.Others.BLSConfig.FixedVal)
	assert.True(t, params.ModuleUpdated(rkisp1.ModuleBLS))
	assert.False(t, params.Others.BLSConfig.EnableAuto)
}

func TestEndToEndTuningOverridesSensor(t *testing.T) {
	section, err := tuning.NewSection([]byte("R: 4000\nGr: 4016\nGb: 4032\nB: 4048\n"))
	require.NoError(t, err)

	rec := &recorder{}
	c := New(WithObserver(rec))
	levels := c.Resolve(LevelsFromSection(section), i16(256))

	assert.Equal(t, Levels{R: 4000, Gr: 4016, Gb: 4032, B: 4048}, levels)
	assert.Contains(t, rec.kinds(), EventTuningOverride)

	params := rkisp1.NewParams()
	c.Apply(0, params)
	assert.Equal(t, rkisp1.BLSFixedVal{R: 250, Gr: 251, Gb: 252, B: 253}, params.Others.BLSConfig.FixedVal)
}

func TestLogObserver(t *testing.T) {
	original := monitoring.Logf
	defer monitoring.SetLogger(original)
	wasDebug := monitoring.DebugEnabled()
	defer monitoring.SetDebug(wasDebug)

	var lines []string
	monitoring.SetLogger(func(format string, v ...interface{}) {
		lines = append(lines, fmt.Sprintf(format, v...))
	})
	monitoring.SetDebug(true)

	c := New()
	c.Resolve(TuningLevels{R: i16(1), Gr: i16(2), Gb: i16(3), B: i16(4)}, i16(256))

	require.Len(t, lines, 2)
	assert.Equal(t, "WARNING: blc: deprecated: black levels overwritten by tuning file", lines[0])
	assert.Equal(t, "DEBUG: blc: black levels: red 1, green (red) 2, green (blue) 3, blue 4", lines[1])

	lines = nil
	New().Resolve(TuningLevels{}, nil)
	require.Len(t, lines, 2)
	assert.Contains(t, lines[0], "no black levels provided by camera sensor helper")
}

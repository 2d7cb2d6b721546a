package blc

import (
	"fmt"

	"github.com/banshee-data/ispcal/internal/tuning"
)

// FallbackLevel is used for channels with no black level from any source.
// It is expressed in the 16-bit sample domain.
const FallbackLevel int16 = 4096

// Levels holds one black level per Bayer channel, in the 16-bit sample domain.
type Levels struct {
	R  int16 `json:"r"`
	Gr int16 `json:"gr"`
	Gb int16 `json:"gb"`
	B  int16 `json:"b"`
}

// UniformLevels returns Levels with the same value on all four channels.
func UniformLevels(level int16) Levels {
	return Levels{R: level, Gr: level, Gb: level, B: level}
}

func (l Levels) String() string {
	return fmt.Sprintf("red %d, green (red) %d, green (blue) %d, blue %d", l.R, l.Gr, l.Gb, l.B)
}

// TuningLevels are the black levels found in a tuning file. Each channel is
// nil when the file does not provide it.
type TuningLevels struct {
	R  *int16
	Gr *int16
	Gb *int16
	B  *int16
}

// LevelsFromSection reads the R, Gr, Gb and B keys of a tuning section.
// Keys that are missing or do not hold an int16 are left nil.
func LevelsFromSection(s tuning.Section) TuningLevels {
	return TuningLevels{
		R:  s.Int16("R"),
		Gr: s.Int16("Gr"),
		Gb: s.Int16("Gb"),
		B:  s.Int16("B"),
	}
}

// Complete reports whether all four channels are present.
func (t TuningLevels) Complete() bool {
	return t.R != nil && t.Gr != nil && t.Gb != nil && t.B != nil
}

// Or returns the tuning levels with missing channels replaced by fallback.
func (t TuningLevels) Or(fallback int16) Levels {
	return Levels{
		R:  valueOr(t.R, fallback),
		Gr: valueOr(t.Gr, fallback),
		Gb: valueOr(t.Gb, fallback),
		B:  valueOr(t.B, fallback),
	}
}

func valueOr(v *int16, fallback int16) int16 {
	if v == nil {
		return fallback
	}
	return *v
}

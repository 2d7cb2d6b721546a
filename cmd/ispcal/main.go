// Command ispcal resolves the calibration of one camera session and prints
// the resulting ISP register values and sensor timing as JSON.
//
// It wires the pieces the way the camera pipeline does at start-up: load the
// tuning file, look up the sensor model, resolve black levels, and program
// the first frame's parameter buffer.
package main

import (
	"encoding/json"
	"errors"
	"flag"
	"fmt"
	"io"
	"log"
	"math"
	"os"
	"strconv"
	"strings"

	"github.com/banshee-data/ispcal/internal/blc"
	"github.com/banshee-data/ispcal/internal/camhelper"
	"github.com/banshee-data/ispcal/internal/monitoring"
	"github.com/banshee-data/ispcal/internal/rkisp1"
	"github.com/banshee-data/ispcal/internal/tuning"
	"github.com/banshee-data/ispcal/internal/version"
)

// noBlackLevel marks the -sensor-black-level flag as unset.
const noBlackLevel = -1 << 31

type options struct {
	tuningPath  string
	sensor      string
	blackLevel  int
	gains       []float64
	listSensors bool
	debug       bool
	showVersion bool
}

// Report is the JSON document written to stdout.
type Report struct {
	Sensor      string                `json:"sensor"`
	Description string                `json:"description"`
	TuningFile  string                `json:"tuning_file,omitempty"`
	BlackLevels blc.Levels            `json:"black_levels"`
	Params      rkisp1.Params         `json:"params"`
	Modules     ModuleReport          `json:"modules"`
	GainCodes   []GainCode            `json:"gain_codes"`
	Delays      camhelper.Delays      `json:"delays"`
	Frames      camhelper.FrameCounts `json:"frames"`
	Embedded    bool                  `json:"embedded_data"`
}

// ModuleReport renders the parameter buffer module masks by name.
type ModuleReport struct {
	EnUpdate  string `json:"en_update"`
	Ens       string `json:"ens"`
	CfgUpdate string `json:"cfg_update"`
}

// GainCode is one row of the gain conversion table.
type GainCode struct {
	Gain      float64 `json:"gain"`
	Code      uint32  `json:"code"`
	Effective float64 `json:"effective_gain"`
}

func main() {
	if err := run(os.Args[1:], os.Stdout); err != nil {
		if errors.Is(err, flag.ErrHelp) {
			os.Exit(0)
		}
		log.Fatalf("ispcal: %v", err)
	}
}

func run(args []string, stdout io.Writer) error {
	opts, err := parseFlags(args)
	if err != nil {
		return err
	}

	if opts.showVersion {
		fmt.Fprintf(stdout, "ispcal %s (%s, built %s)\n", version.Version, version.GitSHA, version.BuildTime)
		return nil
	}
	if opts.listSensors {
		for _, name := range camhelper.Names() {
			m := camhelper.MustLookup(name)
			fmt.Fprintf(stdout, "%s\t%s\n", name, m.Description())
		}
		return nil
	}

	monitoring.SetDebug(opts.debug)

	report, err := calibrate(opts)
	if err != nil {
		return err
	}

	enc := json.NewEncoder(stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(report)
}

func parseFlags(args []string) (options, error) {
	var opts options
	var gains string

	fs := flag.NewFlagSet("ispcal", flag.ContinueOnError)
	fs.StringVar(&opts.tuningPath, "tuning", "", "Camera tuning file (YAML); optional")
	fs.StringVar(&opts.sensor, "sensor", "evdmoom1", "Sensor model name")
	fs.IntVar(&opts.blackLevel, "sensor-black-level", noBlackLevel, "Override the sensor model black level (16-bit sample domain)")
	fs.StringVar(&gains, "gains", "1.0,2.5,16.0", "Comma-separated analogue gains to convert to gain codes")
	fs.BoolVar(&opts.listSensors, "list-sensors", false, "List supported sensor models and exit")
	fs.BoolVar(&opts.debug, "debug", false, "Enable debug logging")
	fs.BoolVar(&opts.showVersion, "version", false, "Print version and exit")

	if err := fs.Parse(args); err != nil {
		return opts, err
	}
	if fs.NArg() > 0 {
		return opts, fmt.Errorf("unexpected arguments: %s", strings.Join(fs.Args(), " "))
	}

	if opts.blackLevel != noBlackLevel && (opts.blackLevel < math.MinInt16 || opts.blackLevel > math.MaxInt16) {
		return opts, fmt.Errorf("sensor-black-level %d out of range [%d, %d]", opts.blackLevel, math.MinInt16, math.MaxInt16)
	}

	parsed, err := parseCSVFloatSlice(gains)
	if err != nil {
		return opts, fmt.Errorf("invalid -gains: %w", err)
	}
	opts.gains = parsed

	return opts, nil
}

// parseCSVFloatSlice parses a comma-separated list of floats
func parseCSVFloatSlice(s string) ([]float64, error) {
	if s == "" {
		return nil, nil
	}
	parts := strings.Split(s, ",")
	out := make([]float64, 0, len(parts))
	for _, p := range parts {
		p = strings.TrimSpace(p)
		v, err := strconv.ParseFloat(p, 64)
		if err != nil {
			return nil, fmt.Errorf("invalid float '%s': %w", p, err)
		}
		out = append(out, v)
	}
	return out, nil
}

func calibrate(opts options) (*Report, error) {
	model, ok := camhelper.Lookup(opts.sensor)
	if !ok {
		return nil, fmt.Errorf("unknown sensor %q (supported: %s)", opts.sensor, strings.Join(camhelper.Names(), ", "))
	}

	var section tuning.Section
	if opts.tuningPath != "" {
		f, err := tuning.Load(opts.tuningPath)
		if err != nil {
			return nil, err
		}
		s, ok := f.Algorithm(blc.AlgorithmName)
		if !ok {
			monitoring.Debugf("tuning file %s has no %s section", opts.tuningPath, blc.AlgorithmName)
		}
		section = s
	}

	sensorLevel := model.BlackLevel()
	if opts.blackLevel != noBlackLevel {
		v := int16(opts.blackLevel)
		sensorLevel = &v
	}

	corrector := blc.New()
	levels := corrector.Resolve(blc.LevelsFromSection(section), sensorLevel)

	params := rkisp1.NewParams()
	corrector.Apply(0, params)

	report := &Report{
		Sensor:      model.Name(),
		Description: model.Description(),
		TuningFile:  opts.tuningPath,
		BlackLevels: levels,
		Params:      *params,
		Modules: ModuleReport{
			EnUpdate:  params.ModuleEnUpdate.String(),
			Ens:       params.ModuleEns.String(),
			CfgUpdate: params.ModuleCfgUpdate.String(),
		},
		GainCodes: make([]GainCode, 0, len(opts.gains)),
		Delays:    model.Delays(),
		Frames:    model.FrameCounts(),
		Embedded:  model.SensorEmbeddedDataPresent(),
	}
	for _, g := range opts.gains {
		code := model.GainCode(g)
		report.GainCodes = append(report.GainCodes, GainCode{Gain: g, Code: code, Effective: model.Gain(code)})
	}

	return report, nil
}

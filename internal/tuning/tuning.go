// Package tuning reads camera tuning files.
//
// A tuning file is a YAML document carrying a format version and an ordered
// list of per-algorithm parameter blocks:
//
//	version: 1
//	algorithms:
//	  - BlackLevelCorrection:
//	      R: 256
//	      Gr: 256
//	      Gb: 256
//	      B: 256
//
// Algorithms query their block through a Section. Missing keys are never an
// error; callers decide what an absent value means.
package tuning

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// SupportedVersion is the only tuning file format version understood.
const SupportedVersion = 1

const maxFileSize = 1 * 1024 * 1024 // 1MB

// ErrUnsupportedVersion is returned for tuning files with a version other
// than SupportedVersion.
var ErrUnsupportedVersion = errors.New("unsupported tuning file version")

// File is a parsed tuning file.
type File struct {
	Version    int
	algorithms []algorithm
}

type algorithm struct {
	name    string
	section Section
}

// Load reads and parses the tuning file at path.
// The file must have a .yaml or .yml extension and be under 1MB.
func Load(path string) (*File, error) {
	cleanPath := filepath.Clean(path)
	if ext := filepath.Ext(cleanPath); ext != ".yaml" && ext != ".yml" {
		return nil, fmt.Errorf("tuning file must have .yaml or .yml extension, got %q", ext)
	}

	fileInfo, err := os.Stat(cleanPath)
	if err != nil {
		return nil, fmt.Errorf("failed to stat tuning file: %w", err)
	}
	if fileInfo.Size() > maxFileSize {
		return nil, fmt.Errorf("tuning file too large: %d bytes (max %d)", fileInfo.Size(), maxFileSize)
	}

	data, err := os.ReadFile(cleanPath)
	if err != nil {
		return nil, fmt.Errorf("failed to read tuning file: %w", err)
	}

	f, err := Parse(data)
	if err != nil {
		return nil, fmt.Errorf("failed to parse %s: %w", cleanPath, err)
	}
	return f, nil
}

// Parse parses a tuning document held in memory.
func Parse(data []byte) (*File, error) {
	var doc yaml.Node
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("invalid YAML: %w", err)
	}
	if doc.Kind != yaml.DocumentNode || len(doc.Content) == 0 {
		return nil, errors.New("empty tuning document")
	}

	root := doc.Content[0]
	if root.Kind != yaml.MappingNode {
		return nil, fmt.Errorf("tuning document root must be a mapping, got %s", kindName(root.Kind))
	}
	top := Section{node: root}

	version := top.Int("version")
	if version == nil {
		return nil, errors.New("tuning document has no integer 'version'")
	}
	f := &File{Version: *version}
	if err := f.Validate(); err != nil {
		return nil, err
	}

	algos := top.lookup("algorithms")
	if algos == nil {
		return nil, errors.New("tuning document has no 'algorithms' list")
	}
	if algos.Kind != yaml.SequenceNode {
		return nil, fmt.Errorf("'algorithms' must be a sequence, got %s", kindName(algos.Kind))
	}

	for i, item := range algos.Content {
		if item.Kind != yaml.MappingNode || len(item.Content) != 2 {
			return nil, fmt.Errorf("algorithm entry %d must be a mapping with a single key", i)
		}
		name := item.Content[0].Value
		params := item.Content[1]
		// An algorithm listed with no parameters ("- Agc:" or "- Agc: {}")
		// still gets an empty section.
		if params.Kind == yaml.ScalarNode && params.ShortTag() == "!!null" {
			params = nil
		} else if params.Kind != yaml.MappingNode {
			return nil, fmt.Errorf("parameters of algorithm %q must be a mapping, got %s", name, kindName(params.Kind))
		}
		f.algorithms = append(f.algorithms, algorithm{name: name, section: Section{node: params}})
	}

	return f, nil
}

// Validate checks the file header.
func (f *File) Validate() error {
	if f.Version != SupportedVersion {
		return fmt.Errorf("%w: %d (want %d)", ErrUnsupportedVersion, f.Version, SupportedVersion)
	}
	return nil
}

// Algorithm returns the parameter section of the first algorithm entry named
// name.
func (f *File) Algorithm(name string) (Section, bool) {
	for _, a := range f.algorithms {
		if a.name == name {
			return a.section, true
		}
	}
	return Section{}, false
}

// AlgorithmNames returns the algorithm names in file order.
func (f *File) AlgorithmNames() []string {
	names := make([]string, 0, len(f.algorithms))
	for _, a := range f.algorithms {
		names = append(names, a.name)
	}
	return names
}

func kindName(k yaml.Kind) string {
	switch k {
	case yaml.DocumentNode:
		return "document"
	case yaml.SequenceNode:
		return "sequence"
	case yaml.MappingNode:
		return "mapping"
	case yaml.ScalarNode:
		return "scalar"
	case yaml.AliasNode:
		return "alias"
	default:
		return "unknown"
	}
}

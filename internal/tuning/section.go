package tuning

import (
	"fmt"
	"math"

	"gopkg.in/yaml.v3"
)

// Section is a read-only view of one mapping in a tuning file. The zero
// Section is empty: every lookup reports the key as absent.
type Section struct {
	node *yaml.Node
}

// NewSection parses a YAML mapping into a standalone Section, for
// parameters that do not come from a tuning File. An empty document yields an
// empty Section.
func NewSection(data []byte) (Section, error) {
	var doc yaml.Node
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return Section{}, fmt.Errorf("invalid YAML: %w", err)
	}
	if len(doc.Content) == 0 {
		return Section{}, nil
	}
	root := doc.Content[0]
	if root.Kind != yaml.MappingNode {
		return Section{}, fmt.Errorf("section must be a mapping, got %s", kindName(root.Kind))
	}
	return Section{node: root}, nil
}

// Has reports whether key is present, whatever its value.
func (s Section) Has(key string) bool {
	return s.lookup(key) != nil
}

// Keys returns the keys of the section in document order.
func (s Section) Keys() []string {
	if s.node == nil {
		return nil
	}
	keys := make([]string, 0, len(s.node.Content)/2)
	for i := 0; i+1 < len(s.node.Content); i += 2 {
		keys = append(keys, s.node.Content[i].Value)
	}
	return keys
}

// Section returns the nested mapping stored under key.
func (s Section) Section(key string) (Section, bool) {
	v := s.lookup(key)
	if v == nil || v.Kind != yaml.MappingNode {
		return Section{}, false
	}
	return Section{node: v}, true
}

// Int16 returns the value of key as an int16, or nil when the key is absent,
// not an integer, or outside the int16 range.
func (s Section) Int16(key string) *int16 {
	v, ok := s.integer(key, math.MinInt16, math.MaxInt16)
	if !ok {
		return nil
	}
	n := int16(v)
	return &n
}

// Int returns the value of key as an int, or nil when absent or not an integer.
func (s Section) Int(key string) *int {
	v, ok := s.integer(key, math.MinInt, math.MaxInt)
	if !ok {
		return nil
	}
	n := int(v)
	return &n
}

// Float64 returns the value of key as a float64, or nil when absent or not a
// number.
func (s Section) Float64(key string) *float64 {
	v := s.scalar(key)
	if v == nil {
		return nil
	}
	var f float64
	if err := v.Decode(&f); err != nil {
		return nil
	}
	return &f
}

func (s Section) integer(key string, lo, hi int64) (int64, bool) {
	v := s.scalar(key)
	if v == nil || v.ShortTag() != "!!int" {
		return 0, false
	}
	var n int64
	if err := v.Decode(&n); err != nil {
		return 0, false
	}
	if n < lo || n > hi {
		return 0, false
	}
	return n, true
}

func (s Section) scalar(key string) *yaml.Node {
	v := s.lookup(key)
	if v == nil || v.Kind != yaml.ScalarNode {
		return nil
	}
	return v
}

func (s Section) lookup(key string) *yaml.Node {
	if s.node == nil {
		return nil
	}
	for i := 0; i+1 < len(s.node.Content); i += 2 {
		if s.node.Content[i].Value == key {
			v := s.node.Content[i+1]
			if v.Kind == yaml.AliasNode {
				v = v.Alias
			}
			return v
		}
	}
	return nil
}

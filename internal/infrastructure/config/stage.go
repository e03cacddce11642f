package config

import (
	"fmt"
	"strconv"

	"gopkg.in/yaml.v3"
)

// WorldConfig is the root of world.yaml
type WorldConfig struct {
	TileSize     int         `yaml:"tileSize"`
	TotalPickups int         `yaml:"totalPickups"`
	Start        StartConfig `yaml:"start"`
	MapFiles     []string    `yaml:"maps"`

	// Maps is filled by LoadWorld, in MapFiles order.
	Maps []*MapConfig `yaml:"-"`
}

// StartConfig names where a new game begins.
type StartConfig struct {
	Map        string `yaml:"map"`
	Checkpoint int32  `yaml:"checkpoint"`
}

// MapConfig is one map file. Rows are authored top-down; every layer of a
// map must have the same dimensions.
type MapConfig struct {
	ID          string                       `yaml:"id"`
	Name        string                       `yaml:"name"`
	Origin      PositionConfig               `yaml:"origin"`
	Background  string                       `yaml:"background"`
	EntityLayer int                          `yaml:"entityLayer"`
	Neighbors   []string                     `yaml:"neighbors"`
	TileMapping map[string]TileMappingConfig `yaml:"tileMapping"`
	Layers      []LayerConfig                `yaml:"layers"`
	Entities    []EntityConfig               `yaml:"entities"`
}

type PositionConfig struct {
	X float64 `yaml:"x"`
	Y float64 `yaml:"y"`
}

type TileMappingConfig struct {
	Type  string `yaml:"type"`
	Solid bool   `yaml:"solid"`
	Color string `yaml:"color"`
}

type LayerConfig struct {
	Name      string   `yaml:"name"`
	Collision bool     `yaml:"collision"`
	Rows      []string `yaml:"rows"`
}

// EntityConfig is an authored entity instance. X and Y are in the map's
// local frame (origin bottom-left, Y up).
type EntityConfig struct {
	Type   string       `yaml:"type"`
	X      float64      `yaml:"x"`
	Y      float64      `yaml:"y"`
	Fields FieldsConfig `yaml:"fields"`
}

// FieldConfig is one raw field value with its YAML tag.
type FieldConfig struct {
	Name  string
	Tag   string // "!!int", "!!bool", ...
	Value string
}

// Int returns the value as an int32.
func (f FieldConfig) Int() (int32, error) {
	v, err := strconv.ParseInt(f.Value, 0, 32)
	if err != nil {
		return 0, fmt.Errorf("field %s: %w", f.Name, err)
	}
	return int32(v), nil
}

// Bool returns the value as a bool.
func (f FieldConfig) Bool() (bool, error) {
	var v bool
	if err := yaml.Unmarshal([]byte(f.Value), &v); err != nil {
		return false, fmt.Errorf("field %s: %w", f.Name, err)
	}
	return v, nil
}

// FieldsConfig keeps entity fields in the order they were written.
type FieldsConfig []FieldConfig

// UnmarshalYAML implements yaml.Unmarshaler.
func (f *FieldsConfig) UnmarshalYAML(value *yaml.Node) error {
	if value.Kind != yaml.MappingNode {
		return fmt.Errorf("line %d: fields must be a mapping", value.Line)
	}
	out := make(FieldsConfig, 0, len(value.Content)/2)
	for i := 0; i+1 < len(value.Content); i += 2 {
		key, val := value.Content[i], value.Content[i+1]
		if val.Kind != yaml.ScalarNode {
			return fmt.Errorf("line %d: field %s must be a scalar", val.Line, key.Value)
		}
		out = append(out, FieldConfig{Name: key.Value, Tag: val.ShortTag(), Value: val.Value})
	}
	*f = out
	return nil
}

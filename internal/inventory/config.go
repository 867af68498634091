/*
Copyright © 2025 UnluckyForSome
*/
package inventory

import (
	"bytes"
	_ "embed"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/spf13/viper"
	"github.com/xeipuuv/gojsonschema"
	"gopkg.in/yaml.v3"
)

//go:embed layout.schema.json
var layoutSchema []byte

// LoadLayout parses raw YAML configuration into a Layout, validating it
// against the embedded schema first. Fields left unset fall back to the
// defaults from DefaultLayout's shape (pattern only; categories must be
// listed explicitly when a config file is supplied).
func LoadLayout(raw []byte) (Layout, error) {
	if err := validateLayoutConfig(raw); err != nil {
		return Layout{}, err
	}

	v := viper.New()
	v.SetConfigType("yaml")
	v.SetDefault("pattern", "*.png")
	if err := v.ReadConfig(bytes.NewReader(raw)); err != nil {
		return Layout{}, fmt.Errorf("read layout config: %w", err)
	}

	var layout Layout
	if err := v.Unmarshal(&layout); err != nil {
		return Layout{}, fmt.Errorf("decode layout config: %w", err)
	}
	if err := layout.Validate(); err != nil {
		return Layout{}, err
	}
	return layout, nil
}

// validateLayoutConfig checks the YAML document against the embedded JSON
// schema before decoding, so malformed configs fail with field-level
// messages instead of zero-valued structs.
func validateLayoutConfig(raw []byte) error {
	var doc interface{}
	if err := yaml.Unmarshal(raw, &doc); err != nil {
		return fmt.Errorf("layout config is not valid YAML: %w", err)
	}
	jsonDoc, err := json.Marshal(doc)
	if err != nil {
		return fmt.Errorf("layout config could not be converted for validation: %w", err)
	}

	result, err := gojsonschema.Validate(
		gojsonschema.NewBytesLoader(layoutSchema),
		gojsonschema.NewBytesLoader(jsonDoc),
	)
	if err != nil {
		return fmt.Errorf("layout schema validation error: %w", err)
	}
	if !result.Valid() {
		var errs []string
		for _, desc := range result.Errors() {
			errs = append(errs, desc.String())
		}
		return fmt.Errorf("layout config validation failed:\n%s", strings.Join(errs, "\n"))
	}
	return nil
}

// MarshalLayout renders a layout as YAML, used to write the starter config.
func MarshalLayout(layout Layout) ([]byte, error) {
	out, err := yaml.Marshal(layout)
	if err != nil {
		return nil, fmt.Errorf("marshal layout: %w", err)
	}
	return out, nil
}

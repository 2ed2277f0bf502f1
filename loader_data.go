package prefsink

import (
	"bytes"
	"encoding/json"
	"fmt"

	"github.com/pelletier/go-toml/v2"
	"gopkg.in/yaml.v3"
)

// LoadJSON reads a JSON object from path.
func LoadJSON(path string) (map[string]any, error) {
	data, err := osReadFile(path)
	if err != nil {
		return nil, err
	}
	if len(bytes.TrimSpace(data)) == 0 {
		return nil, nil
	}
	var values map[string]any
	if err := json.Unmarshal(data, &values); err != nil {
		return nil, fmt.Errorf("decode json: %w", err)
	}
	return values, nil
}

// LoadYAML reads a YAML mapping from path.
func LoadYAML(path string) (map[string]any, error) {
	data, err := osReadFile(path)
	if err != nil {
		return nil, err
	}
	var values map[string]any
	if err := yaml.Unmarshal(data, &values); err != nil {
		return nil, fmt.Errorf("decode yaml: %w", err)
	}
	return values, nil
}

// LoadTOML reads a TOML document from path.
func LoadTOML(path string) (map[string]any, error) {
	data, err := osReadFile(path)
	if err != nil {
		return nil, err
	}
	var values map[string]any
	if err := toml.Unmarshal(data, &values); err != nil {
		return nil, fmt.Errorf("decode toml: %w", err)
	}
	return values, nil
}

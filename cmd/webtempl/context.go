package main

import (
	"fmt"
	"os"
	"strings"

	"gopkg.in/yaml.v3"
)

// loadContext reads template data from a YAML document. JSON is accepted as
// it is valid YAML.
func loadContext(path string) (map[string]any, error) {
	data := map[string]any{}
	if strings.TrimSpace(path) == "" {
		return data, nil
	}

	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("context: read %s: %w", path, err)
	}
	if err := yaml.Unmarshal(raw, &data); err != nil {
		return nil, fmt.Errorf("context: parse %s: %w", path, err)
	}
	if data == nil {
		data = map[string]any{}
	}
	return data, nil
}

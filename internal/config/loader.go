package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"
)

func loadYAML(path string, out any) error {
	b, err := os.ReadFile(path)
	if err != nil {
		return err
	}
	return yaml.Unmarshal(b, out)
}

// LoadRules reads one rule-table file.
func LoadRules(path string) (*RulesConfig, error) {
	var rc RulesConfig
	if err := loadYAML(path, &rc); err != nil {
		return nil, fmt.Errorf("load rules: %w", err)
	}
	return &rc, nil
}

// LoadScenario reads one scenario file, YAML by default, JSON when the
// file ends in .json.
func LoadScenario(path string) (*ScenarioConfig, error) {
	var sc ScenarioConfig
	if strings.HasSuffix(path, ".json") {
		b, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("load scenario: %w", err)
		}
		if err := json.Unmarshal(b, &sc); err != nil {
			return nil, fmt.Errorf("load scenario: %w", err)
		}
		return &sc, nil
	}
	if err := loadYAML(path, &sc); err != nil {
		return nil, fmt.Errorf("load scenario: %w", err)
	}
	return &sc, nil
}

// LoadAll reads the default file pair from a config dir.
func LoadAll(dir string) (*RulesConfig, *ScenarioConfig, error) {
	rc, err := LoadRules(filepath.Join(dir, "rules.yaml"))
	if err != nil {
		return nil, nil, err
	}
	sc, err := LoadScenario(filepath.Join(dir, "scenario.yaml"))
	if err != nil {
		return nil, nil, err
	}
	return rc, sc, nil
}

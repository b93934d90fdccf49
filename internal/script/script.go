// Package script runs YAML-defined utterance sequences against a workbook.
// A script is a batch counterpart to the interactive session: each step sets
// an optional selection and submits one utterance through the engine.
package script

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// Script is a parsed script file.
type Script struct {
	Name     string `yaml:"name"`
	Workbook string `yaml:"workbook"`
	Sheet    string `yaml:"sheet,omitempty"`
	Steps    []Step `yaml:"steps"`
}

// Step is one scripted exchange. OnFailure controls what happens when the
// engine reports a failed operation: "skip" continues, anything else stops.
type Step struct {
	ID        string `yaml:"id,omitempty"`
	Range     string `yaml:"range,omitempty"`
	Utterance string `yaml:"say"`
	OnFailure string `yaml:"on_failure,omitempty"`
}

// Load reads and validates a script file.
func Load(path string) (*Script, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("could not read script %s: %w", path, err)
	}

	var s Script
	if err := yaml.Unmarshal(data, &s); err != nil {
		return nil, fmt.Errorf("invalid script %s: %w", path, err)
	}

	if s.Workbook == "" {
		return nil, fmt.Errorf("script %s: missing 'workbook'", path)
	}
	if len(s.Steps) == 0 {
		return nil, fmt.Errorf("script %s: no steps", path)
	}

	seen := map[string]bool{}
	for i := range s.Steps {
		if s.Steps[i].Utterance == "" {
			return nil, fmt.Errorf("script %s: step %d has no 'say'", path, i+1)
		}
		if s.Steps[i].ID == "" {
			s.Steps[i].ID = fmt.Sprintf("step%d", i+1)
		}
		if seen[s.Steps[i].ID] {
			return nil, fmt.Errorf("script %s: duplicate step id %q", path, s.Steps[i].ID)
		}
		seen[s.Steps[i].ID] = true
	}

	return &s, nil
}

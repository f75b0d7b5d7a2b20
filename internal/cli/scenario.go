package cli

import (
	"fmt"
	"os"
	"sort"

	"github.com/mitchellh/mapstructure"
	"gopkg.in/yaml.v3"
)

// Scenario is a replayable mutation script: an initial key/value state, a
// set of watched keys and an ordered list of writes.
type Scenario struct {
	Name    string         `mapstructure:"name"`
	Initial map[string]any `mapstructure:"initial"`
	Watch   []string       `mapstructure:"watch"`
	Steps   []Step         `mapstructure:"steps"`
}

// Step is one tracked write.
type Step struct {
	Key   string `mapstructure:"key"`
	Value any    `mapstructure:"value"`
}

// LoadScenario reads and validates a scenario file. YAML is decoded into a
// generic document first and then mapped onto the typed schema, so
// unknown fields fail loudly instead of being dropped.
func LoadScenario(path string) (*Scenario, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read scenario: %w", err)
	}

	var doc map[string]any
	if err := yaml.Unmarshal(raw, &doc); err != nil {
		return nil, fmt.Errorf("invalid scenario YAML: %w", err)
	}

	var sc Scenario
	decoder, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		Result:      &sc,
		ErrorUnused: true,
	})
	if err != nil {
		return nil, err
	}
	if err := decoder.Decode(doc); err != nil {
		return nil, fmt.Errorf("invalid scenario: %w", err)
	}

	if len(sc.Steps) == 0 {
		return nil, fmt.Errorf("scenario has no steps")
	}
	for i, step := range sc.Steps {
		if step.Key == "" {
			return nil, fmt.Errorf("step %d is missing a key", i+1)
		}
	}
	return &sc, nil
}

// WatchKeys returns the keys to observe: the explicit watch list, or every
// key touched by the scenario when none was given.
func (s *Scenario) WatchKeys() []string {
	if len(s.Watch) > 0 {
		return s.Watch
	}
	seen := make(map[string]bool)
	for k := range s.Initial {
		seen[k] = true
	}
	for _, step := range s.Steps {
		seen[step.Key] = true
	}
	keys := make([]string, 0, len(seen))
	for k := range seen {
		keys = append(keys, k)
	}
	sort.Strings(keys) // Deterministic order
	return keys
}

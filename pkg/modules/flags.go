package modules

import (
	"slices"
	"strings"

	"github.com/pkg/errors"
)

// All selects every known module in an enable or disable list.
const All = "all"

// State is the enable flag of a module in config.php.
type State struct {
	Name    string
	Enabled bool
}

// ParseList splits a comma separated list of module names. The value "all"
// selects every module in all; any other name must belong to all.
func ParseList(all []string, value string) ([]string, error) {
	value = strings.TrimSpace(value)
	if value == "" {
		return nil, nil
	}

	if value == All {
		return slices.Clone(all), nil
	}

	var names []string
	for _, name := range strings.Split(value, ",") {
		name = strings.TrimSpace(name)
		if !slices.Contains(all, name) {
			return nil, errors.Errorf("Unknown module in the requested list: '%s'", name)
		}

		names = append(names, name)
	}

	return names, nil
}

// Compute returns the flags to persist for all, in order. A module stays
// disabled when current explicitly disables it and is enabled otherwise;
// disable then enable override that.
func Compute(all []string, current map[string]bool, enable, disable string) ([]State, error) {
	toEnable, err := ParseList(all, enable)
	if err != nil {
		return nil, err
	}

	toDisable, err := ParseList(all, disable)
	if err != nil {
		return nil, err
	}

	states := make([]State, 0, len(all))
	for _, name := range all {
		enabled, known := current[name]
		state := State{Name: name, Enabled: !known || enabled}

		if slices.Contains(toDisable, name) {
			state.Enabled = false
		}
		if slices.Contains(toEnable, name) {
			state.Enabled = true
		}

		states = append(states, state)
	}

	return states, nil
}

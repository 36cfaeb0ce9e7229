package domain

import (
	"dario.cat/mergo"
)

// MergeParameters resolves the effective parameter map for a run:
// overrides win over defaults, untouched defaults survive. Neither
// input is mutated.
func MergeParameters(defaults, overrides map[string]interface{}) (map[string]interface{}, error) {
	merged := make(map[string]interface{}, len(defaults)+len(overrides))

	if err := mergo.Merge(&merged, defaults); err != nil {
		return nil, err
	}

	if err := mergo.Merge(&merged, overrides, mergo.WithOverride); err != nil {
		return nil, err
	}

	return merged, nil
}

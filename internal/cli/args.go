package cli

import (
	"fmt"
	"strings"
)

// parseArgOverrides turns repeated --arg name=value flags into a map keyed by
// lowercased argument name
func parseArgOverrides(pairs []string) (map[string]string, error) {
	if len(pairs) == 0 {
		return nil, nil
	}
	overrides := make(map[string]string, len(pairs))
	for _, pair := range pairs {
		name, value, ok := strings.Cut(pair, "=")
		name = strings.ToLower(strings.TrimSpace(name))
		if !ok || name == "" {
			return nil, fmt.Errorf("invalid --arg %q: expected name=value", pair)
		}
		overrides[name] = strings.TrimSpace(value)
	}
	return overrides, nil
}

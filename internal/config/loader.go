package config

import (
	"fmt"
	"os"
	"regexp"
	"strings"

	"gopkg.in/yaml.v3"
)

// envRefPattern matches ${NAME} and ${NAME:-fallback} references in the
// raw YAML text.
var envRefPattern = regexp.MustCompile(`\$\{([A-Za-z_][A-Za-z0-9_]*)(?::-((?:[^}\\]|\\.)*))?\}`)

// Load reads the YAML file at path, resolves environment references in it,
// and decodes the result. Structural validation is a separate step; see
// Validate.
func Load(path string) (*Config, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("config: reading %s: %w", path, err)
	}

	expanded, err := resolveEnvRefs(raw)
	if err != nil {
		return nil, fmt.Errorf("config: expanding variables in %s: %w", path, err)
	}

	var cfg Config
	if err := yaml.Unmarshal(expanded, &cfg); err != nil {
		return nil, fmt.Errorf("config: parsing %s: %w", path, err)
	}
	return &cfg, nil
}

// resolveEnvRefs substitutes every ${NAME} reference with the variable's
// value, falling back to the :- default when the variable is unset. A
// reference with neither a value nor a default fails the load, with all
// such names reported at once.
func resolveEnvRefs(raw []byte) ([]byte, error) {
	var missing []string

	out := envRefPattern.ReplaceAllFunc(raw, func(ref []byte) []byte {
		groups := envRefPattern.FindSubmatch(ref)
		name := string(groups[1])

		if value, ok := os.LookupEnv(name); ok {
			return []byte(value)
		}
		if groups[2] != nil {
			return groups[2]
		}
		missing = append(missing, name)
		return ref
	})

	if len(missing) > 0 {
		return nil, fmt.Errorf("unresolved variables: %s", strings.Join(missing, ", "))
	}
	return out, nil
}

package config

import (
	"fmt"
	"os"
	"regexp"
	"strings"

	domainconfig "github.com/felixgeelhaar/worksheet-go/domain/config"
)

// envPattern matches ${VAR}, ${VAR:-default} and ${VAR:?message}.
var envPattern = regexp.MustCompile(`\$\{([A-Za-z_][A-Za-z0-9_]*)(:-[^}]*|:\?[^}]*)?\}`)

// envExpander expands environment variables in configuration text.
type envExpander struct {
	// strict fails if a referenced variable is not set.
	strict bool
	// lookup replaces os.LookupEnv in tests.
	lookup func(string) (string, bool)
}

// Expand expands ${VAR} references in the input. Bare $VAR is left alone
// so template paths and typst markup pass through untouched.
func (e *envExpander) Expand(input string) (string, error) {
	lookup := e.lookup
	if lookup == nil {
		lookup = os.LookupEnv
	}

	var missing []string
	result := envPattern.ReplaceAllStringFunc(input, func(match string) string {
		sub := envPattern.FindStringSubmatch(match)
		name, modifier := sub[1], sub[2]
		value, exists := lookup(name)

		switch {
		case strings.HasPrefix(modifier, ":-"):
			if !exists || value == "" {
				return modifier[2:]
			}
		case strings.HasPrefix(modifier, ":?"):
			if !exists || value == "" {
				missing = append(missing, fmt.Sprintf("%s: %s", name, modifier[2:]))
				return match
			}
		case !exists:
			if e.strict {
				missing = append(missing, name)
			}
			return ""
		}
		return value
	})

	if len(missing) > 0 {
		return "", fmt.Errorf("%w: %s", domainconfig.ErrMissingEnvVar, strings.Join(missing, ", "))
	}
	return result, nil
}

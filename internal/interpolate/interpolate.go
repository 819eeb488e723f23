// Package interpolate expands `@(name)` / `@(name?)` tokens inside a script
// body (spec §4.3). Expand is a pure function: it never mutates its inputs
// and always returns a freshly allocated string, per the §9 design note
// ("no caller should need to think about freeing it").
package interpolate

import (
	"fmt"
	"strings"
)

// Variables is a case-insensitive lookup table of variable name to value.
type Variables map[string]string

// lookup matches name case-insensitively.
func (v Variables) lookup(name string) (string, bool) {
	for k, val := range v {
		if strings.EqualFold(k, name) {
			return val, true
		}
	}
	return "", false
}

// Expand scans input linearly for `@(name)` and `@(name?)` tokens, looking
// each name up first in reserved, then in user. A required token
// (`@(name)`) whose name is not found anywhere fails the whole expansion
// with the offending name. An optional token (`@(name?)`) whose name is
// not found is deleted (replaced with the empty string). A script with no
// `@(` is returned byte-identical (spec §8 interpolation idempotence).
func Expand(input string, reserved, user Variables) (string, error) {
	var b strings.Builder
	b.Grow(len(input))

	i := 0
	for i < len(input) {
		start := strings.Index(input[i:], "@(")
		if start == -1 {
			b.WriteString(input[i:])
			break
		}
		start += i
		b.WriteString(input[i:start])

		end := strings.IndexByte(input[start+2:], ')')
		if end == -1 {
			return "", fmt.Errorf("unterminated embed starting at offset %d", start)
		}
		end += start + 2

		token := input[start+2 : end]
		optional := strings.HasSuffix(token, "?")
		name := strings.TrimSuffix(token, "?")

		value, ok := reserved.lookup(name)
		if !ok {
			value, ok = user.lookup(name)
		}

		switch {
		case ok:
			b.WriteString(value)
		case optional:
			// token deleted
		default:
			return "", fmt.Errorf("unknown embed %q", name)
		}

		i = end + 1
	}

	return b.String(), nil
}

// ForbiddenUserNames are the reserved names the executor refuses to accept
// as user-supplied `key=value` variables (spec §4.3).
var ForbiddenUserNames = map[string]bool{
	"thread_count": true,
	"prefix":       true,
	"sysroot_dir":  true,
	"sources_dir":  true,
	"cache_dir":    true,
	"build_dir":    true,
	"install_dir":  true,
	"source_dir":   true,
}

// ValidateUserVariables returns an error naming the first forbidden
// reserved-name key found in user, or nil if none are present.
func ValidateUserVariables(user Variables) error {
	for name := range user {
		for forbidden := range ForbiddenUserNames {
			if strings.EqualFold(name, forbidden) {
				return fmt.Errorf("variable %q is reserved and cannot be set", name)
			}
		}
	}
	return nil
}

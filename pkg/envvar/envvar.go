// Package envvar applies environment variable overrides onto configuration fields.
// Each helper is a no-op when the variable name is empty, the variable is unset,
// or its value does not parse.
package envvar

import (
	"os"
	"strconv"
	"strings"
)

// String overwrites dst with the value of name.
func String(dst *string, name string) {
	if v := lookup(name); v != "" {
		*dst = v
	}
}

// Int overwrites dst with the integer value of name.
func Int(dst *int, name string) {
	if v := lookup(name); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			*dst = n
		}
	}
}

// Bool overwrites dst with the boolean value of name.
func Bool(dst *bool, name string) {
	if v := lookup(name); v != "" {
		if b, err := strconv.ParseBool(v); err == nil {
			*dst = b
		}
	}
}

// List overwrites dst with the comma-separated values of name, dropping blanks.
func List(dst *[]string, name string) {
	v := lookup(name)
	if v == "" {
		return
	}

	parts := strings.Split(v, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if trimmed := strings.TrimSpace(p); trimmed != "" {
			out = append(out, trimmed)
		}
	}
	*dst = out
}

func lookup(name string) string {
	if name == "" {
		return ""
	}
	return os.Getenv(name)
}

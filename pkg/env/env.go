// Package env reads process environment overrides that live outside the
// typed configuration struct, such as local logging knobs.
package env

import (
	"os"
	"strconv"
)

// Get returns the variable's value, or fallback when it is unset or empty.
func Get(key, fallback string) string {
	if val, ok := os.LookupEnv(key); ok && val != "" {
		return val
	}
	return fallback
}

// Bool parses the variable as a boolean. Unset, empty, or unparsable
// values keep the fallback.
func Bool(key string, fallback bool) bool {
	val, ok := os.LookupEnv(key)
	if !ok || val == "" {
		return fallback
	}
	parsed, err := strconv.ParseBool(val)
	if err != nil {
		return fallback
	}
	return parsed
}

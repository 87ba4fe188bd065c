package env

import "os"

// Get reads an environment variable, falling back when it is unset or blank.
// Blank counts as unset so a stray `FOO=` in a shell profile cannot blank out
// a default.
func Get(key, fallback string) string {
	val, ok := os.LookupEnv(key)
	if !ok || val == "" {
		return fallback
	}
	return val
}

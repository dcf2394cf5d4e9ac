package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
)

func getString(key, fallback string) string {
	if v, ok := os.LookupEnv(key); ok {
		return strings.TrimSpace(v)
	}
	return fallback
}

func getInt(key string, fallback int) (int, error) {
	v := getString(key, "")
	if v == "" {
		return fallback, nil
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return 0, fmt.Errorf("%s: invalid integer %q", key, v)
	}
	return n, nil
}

// getBool reports whether key was set alongside its parsed value
func getBool(key string) (bool, bool, error) {
	v := getString(key, "")
	if v == "" {
		return false, false, nil
	}
	b, err := strconv.ParseBool(v)
	if err != nil {
		return false, false, fmt.Errorf("%s: invalid boolean %q", key, v)
	}
	return b, true, nil
}

// getList splits a comma separated variable, returning nil when unset
func getList(key string) []string {
	v, ok := os.LookupEnv(key)
	if !ok {
		return nil
	}
	out := []string{}
	for _, part := range strings.Split(v, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}

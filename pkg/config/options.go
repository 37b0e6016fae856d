package config

import (
	"strconv"
	"strings"

	"github.com/magiconair/properties"

	"kvbind/pkg/common"
)

// String returns the trimmed value of key, or def when it is unset or blank.
func String(p *properties.Properties, key, def string) string {
	v, ok := p.Get(key)
	if !ok || strings.TrimSpace(v) == "" {
		return def
	}
	return strings.TrimSpace(v)
}

// Int parses key as a decimal integer.
func Int(p *properties.Properties, key string, def int) (int, error) {
	v := String(p, key, "")
	if v == "" {
		return def, nil
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return def, common.ConfigError(key, "%q is not an integer", v)
	}
	return n, nil
}

// Bool parses key with strconv.ParseBool rules.
func Bool(p *properties.Properties, key string, def bool) (bool, error) {
	v := String(p, key, "")
	if v == "" {
		return def, nil
	}
	b, err := strconv.ParseBool(v)
	if err != nil {
		return def, common.ConfigError(key, "%q is not a boolean", v)
	}
	return b, nil
}

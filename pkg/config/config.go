package config

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/magiconair/properties"
	"gopkg.in/yaml.v3"
)

// Load merges property files in order, later files winning, then applies
// key=value overrides. Files ending in .yaml or .yml are read as nested maps
// and flattened to dotted keys (redis: {host: x} becomes redis.host=x).
func Load(paths []string, overrides []string) (*properties.Properties, error) {
	p := properties.NewProperties()

	for _, path := range paths {
		next, err := loadFile(path)
		if err != nil {
			return nil, err
		}
		p.Merge(next)
	}

	for _, kv := range overrides {
		key, value, ok := strings.Cut(kv, "=")
		if !ok || strings.TrimSpace(key) == "" {
			return nil, fmt.Errorf("override %q: expected key=value", kv)
		}
		if _, _, err := p.Set(strings.TrimSpace(key), value); err != nil {
			return nil, fmt.Errorf("override %q: %w", kv, err)
		}
	}
	return p, nil
}

func loadFile(path string) (*properties.Properties, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, err
		}
		return parseYAML(data)
	default:
		return properties.LoadFile(path, properties.UTF8)
	}
}

func parseYAML(data []byte) (*properties.Properties, error) {
	var tree map[string]interface{}
	if err := yaml.Unmarshal(data, &tree); err != nil {
		return nil, err
	}

	flat := map[string]string{}
	flatten("", tree, flat)

	keys := make([]string, 0, len(flat))
	for k := range flat {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	p := properties.NewProperties()
	for _, k := range keys {
		if _, _, err := p.Set(k, flat[k]); err != nil {
			return nil, fmt.Errorf("yaml key %q: %w", k, err)
		}
	}
	return p, nil
}

func flatten(prefix string, node interface{}, out map[string]string) {
	switch v := node.(type) {
	case map[string]interface{}:
		for k, child := range v {
			flatten(join(prefix, k), child, out)
		}
	case []interface{}:
		parts := make([]string, 0, len(v))
		for _, item := range v {
			parts = append(parts, fmt.Sprint(item))
		}
		out[prefix] = strings.Join(parts, ",")
	case nil:
		out[prefix] = ""
	default:
		out[prefix] = fmt.Sprint(v)
	}
}

func join(prefix, key string) string {
	if prefix == "" {
		return key
	}
	return prefix + "." + key
}

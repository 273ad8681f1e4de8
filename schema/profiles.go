package schema

import (
	"fmt"
	"log/slog"

	koanfyaml "github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"
	"gopkg.in/yaml.v3"
)

// profileDoc is the YAML document shape for variant profiles:
//
//	profiles:
//	  strict-routing: [to, redirectto]
//	  order-family:
//	    require: [to]
//	    relax: [subject]
type profileDoc struct {
	Profiles map[string]*VariantConfig `yaml:"profiles"`
}

// ParseProfiles decodes named variant configurations from a YAML
// document. Both shorthand and long-form declarations are accepted.
func ParseProfiles(data []byte) (map[string]VariantConfig, error) {
	var doc profileDoc
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("parse variant profiles: %w", err)
	}

	profiles := make(map[string]VariantConfig, len(doc.Profiles))
	for name, cfg := range doc.Profiles {
		if cfg == nil {
			return nil, fmt.Errorf("parse variant profiles: profile %q is empty", name)
		}
		profiles[name] = *cfg
	}
	return profiles, nil
}

// LoadProfiles reads named variant configurations from a YAML file.
func LoadProfiles(path string) (map[string]VariantConfig, error) {
	k := koanf.New(".")
	if err := k.Load(file.Provider(path), koanfyaml.Parser()); err != nil {
		return nil, fmt.Errorf("load variant profiles: %w", err)
	}

	raw, ok := k.Get("profiles").(map[string]interface{})
	if !ok {
		return nil, fmt.Errorf("load variant profiles: %s has no 'profiles' mapping", path)
	}

	profiles := make(map[string]VariantConfig, len(raw))
	for name, entry := range raw {
		cfg, err := profileFromEntry(entry)
		if err != nil {
			return nil, fmt.Errorf("load variant profiles: profile %q: %w", name, err)
		}
		profiles[name] = cfg
		slog.Debug("Loaded variant profile",
			"name", name,
			"require", len(cfg.Require),
			"relax", len(cfg.Relax),
			"only", len(cfg.Only))
	}

	slog.Info("Loaded variant profiles", "path", path, "count", len(profiles))
	return profiles, nil
}

// profileFromEntry interprets one decoded profile entry. A bare sequence
// is shorthand for Require, mirroring the YAML declaration styles.
func profileFromEntry(entry interface{}) (VariantConfig, error) {
	switch v := entry.(type) {
	case []interface{}:
		require, err := stringSlice(v)
		if err != nil {
			return VariantConfig{}, err
		}
		return VariantConfig{Require: require}, nil
	case map[string]interface{}:
		var cfg VariantConfig
		var err error
		if cfg.Require, err = stringSliceKey(v, "require"); err != nil {
			return VariantConfig{}, err
		}
		if cfg.Relax, err = stringSliceKey(v, "relax"); err != nil {
			return VariantConfig{}, err
		}
		if cfg.Only, err = stringSliceKey(v, "only"); err != nil {
			return VariantConfig{}, err
		}
		return cfg, nil
	default:
		return VariantConfig{}, fmt.Errorf("expected sequence or mapping, got %T", entry)
	}
}

func stringSliceKey(m map[string]interface{}, key string) ([]string, error) {
	raw, present := m[key]
	if !present {
		return nil, nil
	}
	list, ok := raw.([]interface{})
	if !ok {
		return nil, fmt.Errorf("%s: expected sequence, got %T", key, raw)
	}
	out, err := stringSlice(list)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", key, err)
	}
	return out, nil
}

func stringSlice(list []interface{}) ([]string, error) {
	out := make([]string, 0, len(list))
	for _, item := range list {
		s, ok := item.(string)
		if !ok {
			return nil, fmt.Errorf("expected string, got %T", item)
		}
		out = append(out, s)
	}
	return out, nil
}

package schema

import (
	"fmt"

	"gopkg.in/yaml.v3"
)

// VariantConfig describes how a schema variant differs from its base.
//
// Configs support two YAML declaration styles:
//
//	Shorthand (sequence):  strict-routing: [to, redirectto]
//	Long form (mapping):   narrow:
//	                         require: [to]
//	                         only: [id, type, source, subject, data, time, to]
//
// A bare sequence is shorthand for Require.
type VariantConfig struct {
	// Require promotes optional fields to required (null rejected).
	Require []string `koanf:"require" yaml:"require"`

	// Relax demotes required fields to optional.
	Relax []string `koanf:"relax" yaml:"relax"`

	// Only narrows the table to the listed fields. Empty keeps all.
	Only []string `koanf:"only" yaml:"only"`
}

// UnmarshalYAML implements the shorthand/long-form split.
func (c *VariantConfig) UnmarshalYAML(value *yaml.Node) error {
	if value.Kind == yaml.SequenceNode {
		return value.Decode(&c.Require)
	}

	// Long form: decode via alias to avoid infinite recursion.
	type configAlias VariantConfig
	var alias configAlias
	if err := value.Decode(&alias); err != nil {
		return err
	}
	*c = VariantConfig(alias)
	return nil
}

// Variant derives a new spec from base according to cfg. The generator is
// pure: base is never mutated, and the same inputs always yield an
// equivalent spec. Referencing an undeclared field fails with
// ErrUnknownField.
func Variant(base *Spec, name string, cfg VariantConfig) (*Spec, error) {
	out := base.clone()
	if name != "" {
		out.Name = name
	}

	for _, field := range cfg.Require {
		f, ok := out.Fields[field]
		if !ok {
			return nil, fmt.Errorf("require %q: %w", field, ErrUnknownField)
		}
		f.Required = true
		f.Nullable = false
		out.Fields[field] = f
	}

	for _, field := range cfg.Relax {
		f, ok := out.Fields[field]
		if !ok {
			return nil, fmt.Errorf("relax %q: %w", field, ErrUnknownField)
		}
		f.Required = false
		out.Fields[field] = f
	}

	if len(cfg.Only) > 0 {
		keep := make(map[string]bool, len(cfg.Only))
		for _, field := range cfg.Only {
			if _, ok := out.Fields[field]; !ok {
				return nil, fmt.Errorf("only %q: %w", field, ErrUnknownField)
			}
			keep[field] = true
		}

		narrowed := make([]string, 0, len(cfg.Only))
		for _, field := range out.Order {
			if keep[field] {
				narrowed = append(narrowed, field)
				continue
			}
			delete(out.Fields, field)
		}
		out.Order = narrowed
	}

	return out, nil
}

package config

import (
	"fmt"

	"graphedit/domain/core/valueobjects"
	pkgerrors "graphedit/pkg/errors"
	"graphedit/pkg/utils"
)

// DefaultTrait describes one trait added to every interactively created node.
// Value is the text form of the value, parsed according to Kind
// ("Int", "Double" or "String").
type DefaultTrait struct {
	Label string `yaml:"label" toml:"label" validate:"required"`
	Kind  string `yaml:"kind" toml:"kind" validate:"required,oneof=Int Double String"`
	Value string `yaml:"value" toml:"value"`
}

// DomainConfig holds all configurable graph rules and defaults
type DomainConfig struct {
	// Node defaults
	LabelPrefix  string         `yaml:"label_prefix" toml:"label_prefix" validate:"required"`
	IndexTrait   string         `yaml:"index_trait" toml:"index_trait"`
	ClickTrait   string         `yaml:"click_trait" toml:"click_trait"`
	NodeTraits   []DefaultTrait `yaml:"node_traits" toml:"node_traits" validate:"dive"`
	MaxLabelSize int            `yaml:"max_label_size" toml:"max_label_size" validate:"gte=0"`

	// Interaction
	HitRadius float64 `yaml:"hit_radius" toml:"hit_radius" validate:"gt=0"`

	// Structural rules
	AllowSelfLoops  bool `yaml:"allow_self_loops" toml:"allow_self_loops"`
	AllowMultiEdges bool `yaml:"allow_multi_edges" toml:"allow_multi_edges"`
}

// DefaultDomainConfig returns the default domain configuration
func DefaultDomainConfig() *DomainConfig {
	return &DomainConfig{
		LabelPrefix: "Node",
		IndexTrait:  "node_id",
		ClickTrait:  "times_clicked",
		NodeTraits: []DefaultTrait{
			{Label: "times_clicked", Kind: "Int", Value: "0"},
			{Label: "value", Kind: "Double", Value: "0.5"},
			{Label: "type", Kind: "String", Value: "A Node"},
		},
		MaxLabelSize: 0, // unlimited

		// Unit circle regardless of camera zoom
		HitRadius: 1.0,

		AllowSelfLoops:  true,
		AllowMultiEdges: true,
	}
}

// BareDomainConfig returns a configuration that adds no default traits
func BareDomainConfig() *DomainConfig {
	cfg := DefaultDomainConfig()
	cfg.IndexTrait = ""
	cfg.NodeTraits = nil
	return cfg
}

// LoadDomainConfig loads domain configuration based on environment
func LoadDomainConfig(environment string) *DomainConfig {
	switch environment {
	case "bare":
		return BareDomainConfig()
	default:
		return DefaultDomainConfig()
	}
}

// Clone returns a deep copy so callers can tweak defaults without sharing slices
func (c *DomainConfig) Clone() *DomainConfig {
	out := *c
	out.NodeTraits = append([]DefaultTrait(nil), c.NodeTraits...)
	return &out
}

// Validate checks struct tags and that every default trait value parses as its kind
func (c *DomainConfig) Validate() error {
	if err := utils.ValidateStruct(c); err != nil {
		return err
	}
	seen := make(map[string]bool, len(c.NodeTraits)+1)
	if c.IndexTrait != "" {
		seen[c.IndexTrait] = true
	}
	for _, t := range c.NodeTraits {
		if seen[t.Label] {
			return pkgerrors.NewValidationError(fmt.Sprintf("default trait %q declared twice", t.Label))
		}
		seen[t.Label] = true
		kind, ok := valueobjects.ParseTraitKind(t.Kind)
		if !ok {
			return pkgerrors.NewValidationError(fmt.Sprintf("default trait %q has unknown kind %q", t.Label, t.Kind))
		}
		if _, err := valueobjects.ParseTraitValue(kind, t.Value); err != nil {
			return pkgerrors.Wrapf(err, "default trait %q", t.Label)
		}
	}
	return nil
}

package config

import (
	"testing"

	pkgerrors "graphedit/pkg/errors"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultDomainConfig_IsValid(t *testing.T) {
	require.NoError(t, DefaultDomainConfig().Validate())
	require.NoError(t, BareDomainConfig().Validate())
}

func TestDomainConfig_Validate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(c *DomainConfig)
	}{
		{"empty prefix", func(c *DomainConfig) { c.LabelPrefix = "" }},
		{"zero hit radius", func(c *DomainConfig) { c.HitRadius = 0 }},
		{"negative label size", func(c *DomainConfig) { c.MaxLabelSize = -1 }},
		{"unknown kind", func(c *DomainConfig) {
			c.NodeTraits = append(c.NodeTraits, DefaultTrait{Label: "x", Kind: "Bool", Value: "true"})
		}},
		{"unparsable value", func(c *DomainConfig) {
			c.NodeTraits = append(c.NodeTraits, DefaultTrait{Label: "x", Kind: "Int", Value: "seven"})
		}},
		{"duplicate label", func(c *DomainConfig) {
			c.NodeTraits = append(c.NodeTraits, DefaultTrait{Label: "value", Kind: "String", Value: "x"})
		}},
		{"label clashes with index trait", func(c *DomainConfig) {
			c.NodeTraits = append(c.NodeTraits, DefaultTrait{Label: "node_id", Kind: "Int", Value: "1"})
		}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := DefaultDomainConfig()
			tt.mutate(cfg)

			err := cfg.Validate()
			require.Error(t, err)
			assert.True(t, pkgerrors.IsValidation(err) || pkgerrors.IsFormat(err), err.Error())
		})
	}
}

func TestDomainConfig_Clone(t *testing.T) {
	cfg := DefaultDomainConfig()
	clone := cfg.Clone()
	clone.NodeTraits[0].Value = "9"
	clone.LabelPrefix = "Vertex"

	assert.Equal(t, "0", cfg.NodeTraits[0].Value)
	assert.Equal(t, "Node", cfg.LabelPrefix)
}

func TestLoadDomainConfig(t *testing.T) {
	assert.Empty(t, LoadDomainConfig("bare").NodeTraits)
	assert.Len(t, LoadDomainConfig("production").NodeTraits, 3)
}

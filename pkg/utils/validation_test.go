package utils

import (
	"testing"
	"time"

	pkgerrors "graphedit/pkg/errors"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type sample struct {
	Name  string  `validate:"required,singleline"`
	Kind  string  `validate:"oneof=Int Double String"`
	Ratio float64 `validate:"gt=0"`
}

func TestValidateStruct(t *testing.T) {
	tests := []struct {
		name    string
		input   sample
		wantErr string
	}{
		{name: "valid", input: sample{Name: "a", Kind: "Int", Ratio: 1}},
		{name: "missing name", input: sample{Kind: "Int", Ratio: 1}, wantErr: "name is required"},
		{name: "bad kind", input: sample{Name: "a", Kind: "Bool", Ratio: 1}, wantErr: "kind must be one of"},
		{name: "zero ratio", input: sample{Name: "a", Kind: "Int"}, wantErr: "ratio must be greater than 0"},
		{name: "multi-line name", input: sample{Name: "a\nb", Kind: "Int", Ratio: 1}, wantErr: "must fit on one line"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateStruct(tt.input)
			if tt.wantErr == "" {
				assert.NoError(t, err)
				return
			}
			require.Error(t, err)
			assert.True(t, pkgerrors.IsValidation(err))
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}

func TestValidateStructDetails(t *testing.T) {
	err := ValidateStruct(sample{Kind: "Bool"})
	appErr := pkgerrors.GetAppError(err)
	require.NotNil(t, appErr)
	assert.Equal(t, map[string]interface{}{"name": "required", "kind": "oneof", "ratio": "gt"}, appErr.Details)
}

func TestTimestamp(t *testing.T) {
	at := time.Date(2024, 3, 1, 12, 30, 0, 1500, time.FixedZone("CET", 3600))
	stamp := Timestamp(at)
	assert.Equal(t, "2024-03-01T11:30:00.000001Z", stamp)

	parsed, err := ParseTimestamp(stamp)
	require.NoError(t, err)
	assert.True(t, parsed.Equal(at.Truncate(time.Microsecond)))

	legacy, err := ParseTimestamp("2024-03-01T12:30:00+01:00")
	require.NoError(t, err)
	assert.True(t, legacy.Equal(time.Date(2024, 3, 1, 11, 30, 0, 0, time.UTC)))

	_, err = ParseTimestamp("yesterday")
	assert.Error(t, err)
}

package valueobjects

import (
	"math"
	"testing"

	pkgerrors "graphedit/pkg/errors"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseTraitKind(t *testing.T) {
	tests := []struct {
		keyword string
		want    TraitKind
		ok      bool
	}{
		{"Int", TraitInteger, true},
		{"Double", TraitReal, true},
		{"String", TraitText, true},
		{"integer", TraitInteger, true},
		{"real", TraitReal, true},
		{"text", TraitText, true},
		{"Node", 0, false},
		{"", 0, false},
	}

	for _, tt := range tests {
		t.Run(tt.keyword, func(t *testing.T) {
			got, ok := ParseTraitKind(tt.keyword)
			assert.Equal(t, tt.ok, ok)
			if tt.ok {
				assert.Equal(t, tt.want, got)
			}
		})
	}

	for _, k := range TraitKinds {
		back, ok := ParseTraitKind(k.String())
		require.True(t, ok)
		assert.Equal(t, k, back)
	}
}

func TestParseTraitValue(t *testing.T) {
	tests := []struct {
		name    string
		kind    TraitKind
		text    string
		want    TraitValue
		wantErr bool
	}{
		{name: "integer", kind: TraitInteger, text: "42", want: IntegerValue(42)},
		{name: "negative integer", kind: TraitInteger, text: "-7", want: IntegerValue(-7)},
		{name: "integer with spaces", kind: TraitInteger, text: " 12 ", want: IntegerValue(12)},
		{name: "integer with trailing garbage", kind: TraitInteger, text: "12abc", wantErr: true},
		{name: "real as integer", kind: TraitInteger, text: "1.5", wantErr: true},
		{name: "real", kind: TraitReal, text: "0.5", want: RealValue(0.5)},
		{name: "real exponent", kind: TraitReal, text: "1e-3", want: RealValue(0.001)},
		{name: "real garbage", kind: TraitReal, text: "half", wantErr: true},
		{name: "text kept verbatim", kind: TraitText, text: "  A Node ", want: TextValue("  A Node ")},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ParseTraitValue(tt.kind, tt.text)
			if tt.wantErr {
				require.Error(t, err)
				assert.True(t, pkgerrors.IsFormat(err))
				return
			}
			require.NoError(t, err)
			assert.True(t, tt.want.Equals(got), "want %v, got %v", tt.want, got)
		})
	}
}

func TestTraitValue_Setters(t *testing.T) {
	v := IntegerValue(1)

	require.NoError(t, v.SetInteger(5))
	got, ok := v.Integer()
	assert.True(t, ok)
	assert.Equal(t, int64(5), got)

	err := v.SetReal(2.0)
	require.Error(t, err)
	assert.True(t, pkgerrors.IsValidation(err))
	assert.Equal(t, TraitInteger, v.Kind())

	_, ok = v.Text()
	assert.False(t, ok)

	require.NoError(t, v.SetFromText("99"))
	got, _ = v.Integer()
	assert.Equal(t, int64(99), got)

	assert.Error(t, v.SetFromText("nope"))
	got, _ = v.Integer()
	assert.Equal(t, int64(99), got, "failed parse must not change the payload")
}

func TestTraitValue_FormatValue(t *testing.T) {
	tests := []struct {
		value TraitValue
		want  string
	}{
		{IntegerValue(0), "0"},
		{IntegerValue(math.MinInt64), "-9223372036854775808"},
		{RealValue(0.5), "0.5"},
		{RealValue(1), "1"},
		{RealValue(0.1), "0.1"},
		{RealValue(1e21), "1e+21"},
		{TextValue("Cat Hode"), "Cat Hode"},
	}

	for _, tt := range tests {
		t.Run(tt.want, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.value.FormatValue())

			back, err := ParseTraitValue(tt.value.Kind(), tt.value.FormatValue())
			require.NoError(t, err)
			assert.True(t, tt.value.Equals(back))
		})
	}
}

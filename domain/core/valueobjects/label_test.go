package valueobjects

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestValidateLabel(t *testing.T) {
	tests := []struct {
		name      string
		label     string
		maxLength int
		wantErr   bool
	}{
		{"plain", "First Node", 0, false},
		{"keyword is a valid label", "Edge", 0, false},
		{"empty", "", 0, true},
		{"newline", "a\nb", 0, true},
		{"carriage return", "a\r", 0, true},
		{"too long", "abcdef", 5, true},
		{"at limit", "abcde", 5, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateLabel(tt.label, tt.maxLength)
			if tt.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestIsLineSafe(t *testing.T) {
	assert.True(t, IsLineSafe(" "))
	assert.False(t, IsLineSafe(""))
	assert.False(t, IsLineSafe("two\nlines"))
}

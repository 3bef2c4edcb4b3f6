package valueobjects

import (
	"fmt"
	"strings"
	"unicode/utf8"

	pkgerrors "graphedit/pkg/errors"
)

// ValidateLabel checks that a node or trait label can be stored in a graph file.
// Labels occupy a full line of their own, so they must be non-empty and must not
// contain line breaks. maxLength <= 0 disables the length check.
func ValidateLabel(label string, maxLength int) error {
	if label == "" {
		return pkgerrors.NewValidationError("label cannot be empty")
	}
	if strings.ContainsAny(label, "\r\n") {
		return pkgerrors.NewValidationError(fmt.Sprintf("label %q contains a line break", label))
	}
	if maxLength > 0 && utf8.RuneCountInString(label) > maxLength {
		return pkgerrors.NewValidationError(
			fmt.Sprintf("label exceeds maximum length of %d characters", maxLength))
	}
	return nil
}

// IsLineSafe reports whether a text value fits on one non-blank line
func IsLineSafe(s string) bool {
	return s != "" && !strings.ContainsAny(s, "\r\n")
}

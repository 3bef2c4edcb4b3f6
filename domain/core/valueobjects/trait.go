package valueobjects

import (
	"fmt"
	"strconv"
	"strings"

	pkgerrors "graphedit/pkg/errors"
)

// TraitKind identifies which variant a TraitValue holds
type TraitKind int

const (
	TraitInteger TraitKind = iota
	TraitReal
	TraitText
)

// TraitKinds lists every kind in serialization order
var TraitKinds = []TraitKind{TraitInteger, TraitReal, TraitText}

// String returns the keyword used for the kind in graph files
func (k TraitKind) String() string {
	switch k {
	case TraitInteger:
		return "Int"
	case TraitReal:
		return "Double"
	case TraitText:
		return "String"
	default:
		return fmt.Sprintf("TraitKind(%d)", int(k))
	}
}

// ParseTraitKind maps a graph file keyword back to its kind.
// Lower-case names ("int", "integer", "real", "text", ...) are accepted for
// command-line use.
func ParseTraitKind(keyword string) (TraitKind, bool) {
	switch keyword {
	case "Int":
		return TraitInteger, true
	case "Double":
		return TraitReal, true
	case "String":
		return TraitText, true
	}
	switch strings.ToLower(keyword) {
	case "int", "integer":
		return TraitInteger, true
	case "double", "real", "float":
		return TraitReal, true
	case "string", "text":
		return TraitText, true
	}
	return 0, false
}

// TraitValue is a closed variant over Integer, Real and Text.
// The variant is fixed at construction; setters only change the payload.
type TraitValue struct {
	kind TraitKind
	i    int64
	f    float64
	s    string
}

// IntegerValue creates an Integer trait value
func IntegerValue(v int64) TraitValue {
	return TraitValue{kind: TraitInteger, i: v}
}

// RealValue creates a Real trait value
func RealValue(v float64) TraitValue {
	return TraitValue{kind: TraitReal, f: v}
}

// TextValue creates a Text trait value
func TextValue(v string) TraitValue {
	return TraitValue{kind: TraitText, s: v}
}

// ParseTraitValue parses value text as the given kind.
// Numbers are parsed strictly: surrounding spaces are tolerated, trailing
// garbage is not.
func ParseTraitValue(kind TraitKind, text string) (TraitValue, error) {
	switch kind {
	case TraitInteger:
		v, err := strconv.ParseInt(strings.TrimSpace(text), 10, 64)
		if err != nil {
			return TraitValue{}, pkgerrors.NewFormatError(fmt.Sprintf("invalid Int value %q", text)).WithCause(err)
		}
		return IntegerValue(v), nil
	case TraitReal:
		v, err := strconv.ParseFloat(strings.TrimSpace(text), 64)
		if err != nil {
			return TraitValue{}, pkgerrors.NewFormatError(fmt.Sprintf("invalid Double value %q", text)).WithCause(err)
		}
		return RealValue(v), nil
	case TraitText:
		return TextValue(text), nil
	default:
		return TraitValue{}, pkgerrors.NewValidationError(fmt.Sprintf("unknown trait kind %d", int(kind)))
	}
}

// Kind returns the variant tag
func (v *TraitValue) Kind() TraitKind {
	return v.kind
}

// Integer returns the payload if the value is an Integer
func (v *TraitValue) Integer() (int64, bool) {
	return v.i, v.kind == TraitInteger
}

// Real returns the payload if the value is a Real
func (v *TraitValue) Real() (float64, bool) {
	return v.f, v.kind == TraitReal
}

// Text returns the payload if the value is a Text
func (v *TraitValue) Text() (string, bool) {
	return v.s, v.kind == TraitText
}

// SetInteger updates an Integer payload in place
func (v *TraitValue) SetInteger(i int64) error {
	if v.kind != TraitInteger {
		return v.mismatch(TraitInteger)
	}
	v.i = i
	return nil
}

// SetReal updates a Real payload in place
func (v *TraitValue) SetReal(f float64) error {
	if v.kind != TraitReal {
		return v.mismatch(TraitReal)
	}
	v.f = f
	return nil
}

// SetText updates a Text payload in place
func (v *TraitValue) SetText(s string) error {
	if v.kind != TraitText {
		return v.mismatch(TraitText)
	}
	v.s = s
	return nil
}

// SetFromText parses text as the value's own kind and stores the result
func (v *TraitValue) SetFromText(text string) error {
	parsed, err := ParseTraitValue(v.kind, text)
	if err != nil {
		return err
	}
	*v = parsed
	return nil
}

// FormatValue renders the payload in the default decimal text form used by graph files
func (v *TraitValue) FormatValue() string {
	switch v.kind {
	case TraitInteger:
		return strconv.FormatInt(v.i, 10)
	case TraitReal:
		return strconv.FormatFloat(v.f, 'g', -1, 64)
	default:
		return v.s
	}
}

// String returns "Kind=value", used in logs
func (v TraitValue) String() string {
	return v.kind.String() + "=" + v.FormatValue()
}

// Equals compares kind and payload
func (v TraitValue) Equals(other TraitValue) bool {
	if v.kind != other.kind {
		return false
	}
	switch v.kind {
	case TraitInteger:
		return v.i == other.i
	case TraitReal:
		return v.f == other.f
	default:
		return v.s == other.s
	}
}

func (v *TraitValue) mismatch(want TraitKind) error {
	return pkgerrors.NewValidationError(
		fmt.Sprintf("trait holds %s, cannot store %s", v.kind, want))
}

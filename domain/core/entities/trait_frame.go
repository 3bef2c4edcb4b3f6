package entities

import (
	"sort"

	"graphedit/domain/core/valueobjects"
	pkgerrors "graphedit/pkg/errors"
)

// TraitFrame holds the typed, labelled traits attached to a node or edge.
// Labels are unique across all kinds: a label is stored under exactly one kind.
type TraitFrame struct {
	traits map[string]*valueobjects.TraitValue
}

// NewTraitFrame creates an empty frame
func NewTraitFrame() *TraitFrame {
	return &TraitFrame{traits: make(map[string]*valueobjects.TraitValue)}
}

// AddInteger inserts an Integer trait
func (f *TraitFrame) AddInteger(label string, value int64) error {
	return f.Add(label, valueobjects.IntegerValue(value))
}

// AddReal inserts a Real trait
func (f *TraitFrame) AddReal(label string, value float64) error {
	return f.Add(label, valueobjects.RealValue(value))
}

// AddText inserts a Text trait
func (f *TraitFrame) AddText(label string, value string) error {
	return f.Add(label, valueobjects.TextValue(value))
}

// Add inserts a trait of any kind. A label already used by any kind is
// rejected and the frame is left unchanged.
func (f *TraitFrame) Add(label string, value valueobjects.TraitValue) error {
	if label == "" {
		return pkgerrors.NewValidationError("trait label cannot be empty")
	}
	if _, exists := f.traits[label]; exists {
		return pkgerrors.NewDuplicateTraitError(label)
	}
	if f.traits == nil {
		f.traits = make(map[string]*valueobjects.TraitValue)
	}
	v := value
	f.traits[label] = &v
	return nil
}

// Lookup returns a handle to the stored value. Writes through the handle are
// visible to later lookups.
func (f *TraitFrame) Lookup(label string) (*valueobjects.TraitValue, bool) {
	v, ok := f.traits[label]
	return v, ok
}

// Remove deletes a trait, reporting whether it existed
func (f *TraitFrame) Remove(label string) bool {
	if _, ok := f.traits[label]; !ok {
		return false
	}
	delete(f.traits, label)
	return true
}

// Labels returns every label, sorted
func (f *TraitFrame) Labels() []string {
	labels := make([]string, 0, len(f.traits))
	for label := range f.traits {
		labels = append(labels, label)
	}
	sort.Strings(labels)
	return labels
}

// LabelsOf returns the labels holding the given kind, sorted
func (f *TraitFrame) LabelsOf(kind valueobjects.TraitKind) []string {
	var labels []string
	for label, v := range f.traits {
		if v.Kind() == kind {
			labels = append(labels, label)
		}
	}
	sort.Strings(labels)
	return labels
}

// Len returns the number of traits
func (f *TraitFrame) Len() int {
	return len(f.traits)
}

// Copy returns an independent frame with the same traits
func (f *TraitFrame) Copy() *TraitFrame {
	out := &TraitFrame{traits: make(map[string]*valueobjects.TraitValue, len(f.traits))}
	for label, v := range f.traits {
		dup := *v
		out.traits[label] = &dup
	}
	return out
}

// Equals reports whether both frames hold the same labels with equal values
func (f *TraitFrame) Equals(other *TraitFrame) bool {
	if f.Len() != other.Len() {
		return false
	}
	for label, v := range f.traits {
		o, ok := other.traits[label]
		if !ok || !v.Equals(*o) {
			return false
		}
	}
	return true
}

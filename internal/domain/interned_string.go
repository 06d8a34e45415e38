package domain

import "unique"

// InternedString wraps a unique.Handle[string]. Graph.GetOrCreateNode
// interns every canonical node path, a frequently-repeated short string,
// to keep graph memory flat as the manifest grows. Rule and pool names
// are stored as plain strings.
type InternedString struct {
	h unique.Handle[string]
}

// NewInternedString interns s.
func NewInternedString(s string) InternedString {
	return InternedString{h: unique.Make(s)}
}

// String returns the underlying string value.
func (is InternedString) String() string {
	var zero unique.Handle[string]
	if is.h == zero {
		return ""
	}
	return is.h.Value()
}

// IsZero reports whether is was never assigned via NewInternedString.
func (is InternedString) IsZero() bool {
	var zero unique.Handle[string]
	return is.h == zero
}

// Package repository holds the in-memory template set consulted by the
// classifier.
package repository

import "github.com/okian/sketchrec/internal/domain/model"

// Entry is one template handed to Load. When Sequence is non-nil it is stored
// as given; otherwise Stroke is normalized first.
type Entry struct {
	Label    string
	Stroke   model.Stroke
	Sequence model.Sequence
}

// RawEntry builds an Entry from a captured stroke.
func RawEntry(label string, stroke model.Stroke) Entry {
	return Entry{Label: label, Stroke: stroke}
}

// NormalizedEntry builds an Entry from an already normalized sequence.
func NormalizedEntry(label string, seq model.Sequence) Entry {
	return Entry{Label: label, Sequence: seq}
}

// Store provides read/write access to the template set.
type Store interface {
	// Load replaces the whole set. Duplicate labels fail with ErrDuplicateLabel
	// and leave the store unchanged.
	Load(entries []Entry) error

	// Upsert inserts or overwrites the template for label.
	Upsert(label string, seq model.Sequence) error

	// All returns a snapshot of every template in insertion order.
	All() []model.Template

	// Get returns the sequence stored for label.
	Get(label string) (model.Sequence, bool)

	// Remove deletes label and reports whether it was present.
	Remove(label string) bool

	// Len returns the number of templates.
	Len() int
}

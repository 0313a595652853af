package models

import (
	"time"

	"github.com/google/uuid"
)

// Entry is one directory entry held in the local mirror.
//
// The entryUUID is the only identity that survives a rename; the DN is a
// human-addressable name that can change at any time and must be treated
// as a secondary index. Presence of an Entry in the mirror means "this
// entry currently matches the subscribed search".
type Entry struct {
	// UUID is the server-assigned entryUUID, stable across renames.
	UUID uuid.UUID `json:"uuid"`

	// DN is the entry's current distinguished name.
	DN string `json:"dn"`

	// Attrs holds the entry's attributes in server order.
	Attrs Attributes `json:"attrs"`

	// Stale marks an entry that has not (yet) been re-announced during an
	// in-progress resynchronization. Stale entries still not announced or
	// explicitly deleted when the resync completes are purged.
	Stale bool `json:"stale"`

	// UpdatedAt records when the mirror last wrote this entry.
	UpdatedAt time.Time `json:"updated_at"`
}

// Attribute is a single named attribute with one or more values.
// Values are kept as strings; the directory schema (which the mirror does
// not interpret) decides how they should be read.
type Attribute struct {
	Name   string   `json:"name"`
	Values []string `json:"values"`
}

// Attributes is an ordered attribute list. Order is whatever the server
// sent; two lists with the same pairs in a different order are not equal.
type Attributes []Attribute

// Get returns the values of the named attribute, or nil if absent.
func (a Attributes) Get(name string) []string {
	for _, attr := range a {
		if attr.Name == name {
			return attr.Values
		}
	}
	return nil
}

// Equal reports whether two attribute lists carry identical names and
// values in identical order. Used to suppress spurious update callbacks
// when a resync re-announces unchanged content.
func (a Attributes) Equal(other Attributes) bool {
	if len(a) != len(other) {
		return false
	}
	for i := range a {
		if a[i].Name != other[i].Name {
			return false
		}
		if len(a[i].Values) != len(other[i].Values) {
			return false
		}
		for j := range a[i].Values {
			if a[i].Values[j] != other[i].Values[j] {
				return false
			}
		}
	}
	return true
}

// Clone returns a deep copy. Handlers receive entries by value but share
// the underlying attribute slices; cloning protects the mirror from
// handler mutation.
func (a Attributes) Clone() Attributes {
	if a == nil {
		return nil
	}
	out := make(Attributes, len(a))
	for i, attr := range a {
		values := make([]string, len(attr.Values))
		copy(values, attr.Values)
		out[i] = Attribute{Name: attr.Name, Values: values}
	}
	return out
}

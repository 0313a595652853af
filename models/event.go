package models

import "time"

// ChangeKind names the kind of change a mirror mutation represents.
type ChangeKind string

const (
	ChangeCreated ChangeKind = "created"
	ChangeUpdated ChangeKind = "updated"
	ChangeDeleted ChangeKind = "deleted"
	ChangeRenamed ChangeKind = "renamed"
)

// EntryEvent is the wire form of a single mirror change, as forwarded to
// downstream consumers (webhook notifier, status API). OldDN is set only
// for renames; OldAttrs only for updates.
type EntryEvent struct {
	Kind       ChangeKind `json:"kind"`
	UUID       string     `json:"uuid"`
	DN         string     `json:"dn"`
	OldDN      string     `json:"old_dn,omitempty"`
	Attrs      Attributes `json:"attrs,omitempty"`
	OldAttrs   Attributes `json:"old_attrs,omitempty"`
	ObservedAt time.Time  `json:"observed_at"`
}

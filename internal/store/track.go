package store

import "errors"

// Track is a named reference to a playable audio resource. Tracks are
// immutable once created; replacing the underlying resource means
// removing the track and adding a new one.
type Track struct {
	ID          string // opaque unique id
	DisplayName string // presentation only
	SourceURI   string // managed destination path
}

// Resource is what the external picker hands over: a display name and a
// transient location to copy from.
type Resource struct {
	Name         string
	TransientURI string
}

var (
	// ErrAlreadyExists signals that a resource resolving to the same
	// destination is already in the playlist. It is informational, not a
	// failure: nothing was mutated.
	ErrAlreadyExists = errors.New("track already in playlist")

	// ErrCopyFailed wraps failures copying the picked resource into the
	// managed media directory.
	ErrCopyFailed = errors.New("copy failed")

	// ErrDeleteFailed wraps failures deleting a backing resource for any
	// reason other than it already being absent.
	ErrDeleteFailed = errors.New("delete failed")

	// ErrSnapshotWrite signals that the in-memory playlist mutated but
	// the durable snapshot could not be written. The mutation stands.
	ErrSnapshotWrite = errors.New("playlist snapshot write failed")
)

// trackRecord is the serialized form of a Track. Older snapshots carry
// only name/uri pairs; ids are assigned on load when missing.
type trackRecord struct {
	ID   string `json:"id,omitempty"`
	Name string `json:"name"`
	URI  string `json:"uri"`
}

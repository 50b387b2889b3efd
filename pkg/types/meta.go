// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package types

import "time"

// DocumentMeta holds the listing metadata for one document, as returned by
// the Drive files listing and mirrored into the local cache.
// Per prd005-local-cache R1.2: id, title, modified time, and the revision
// observed at last pull.
type DocumentMeta struct {
	// ID is the document identifier.
	ID string `json:"id" yaml:"id"`

	// Title is the document title.
	Title string `json:"name" yaml:"title"`

	// ModifiedTime is the last modification time reported by Drive.
	ModifiedTime time.Time `json:"modifiedTime" yaml:"modified_time"`

	// Revision is the document revision observed at the last pull, empty if
	// the document has never been pulled.
	Revision string `json:"revision,omitempty" yaml:"revision,omitempty"`

	// LocalPath is the workspace file the document was last pulled to,
	// empty if never pulled.
	LocalPath string `json:"local_path,omitempty" yaml:"local_path,omitempty"`
}

// FileList is the subset of the Drive files.list reply the server reads.
type FileList struct {
	Files []DocumentMeta `json:"files"`
}

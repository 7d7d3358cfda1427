// Package types provides the data model shared by the scanner, extractor,
// reconciliation, filter and report stages.
//
//nolint:revive // types is a standard Go package name pattern
package types

import "path/filepath"

// WorkspaceFile is one input container read fully into memory.
type WorkspaceFile struct {
	Path string `json:"path"`
	Name string `json:"name"`
	Data []byte `json:"-"`
}

// NewWorkspaceFile builds a WorkspaceFile whose Name is the base name of path.
func NewWorkspaceFile(path string, data []byte) WorkspaceFile {
	return WorkspaceFile{
		Path: path,
		Name: filepath.Base(path),
		Data: data,
	}
}

// GzipMember is one decompressed fragment found inside a WorkspaceFile.
type GzipMember struct {
	Offset         int    `json:"offset"`          // Byte offset of the gzip header
	CompressedSize int    `json:"compressed_size"` // Bytes consumed from the container
	Payload        []byte `json:"-"`
}

// End returns the offset of the first byte after the member.
func (m GzipMember) End() int {
	return m.Offset + m.CompressedSize
}

package data

import (
	"time"
)

// NewFileInfo creates the metadata for a file that is about to be uploaded.
func NewFileInfo(id ID, filename string) *FileInfo {
	return &FileInfo{
		ID:         id,
		Filename:   filename,
		MimeType:   GetMIMEType(filename),
		UploadDate: time.Now().UTC(),
		Metadata:   Document{},
	}
}

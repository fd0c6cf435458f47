package data

import (
	"fmt"
	"regexp"
	"time"

	"github.com/goccy/go-json"
)

const (
	// FilesCollection holds one FileInfo document per stored file.
	FilesCollection = "_files"
	// ChunksCollection holds the chunk documents of all stored files.
	ChunksCollection = "_chunks"

	// MaxChunkSize is the payload size of every chunk except possibly the last.
	MaxChunkSize = 255 * 1024
	// MaxChunkIndex bounds the chunk index so it fits the 5-digit suffix of a chunk id.
	MaxChunkIndex = 99999
)

var fileIDPattern = regexp.MustCompile(`^[\w\-$@!+%;.]+(/[\w\-$@!+%;.]+)*$`)

// FileInfo describes a file stored in the database.
type FileInfo struct {
	ID         ID          `json:"_id"`
	Filename   string      `json:"filename"`
	MimeType   ContentType `json:"mimeType"`
	Length     int64       `json:"length"`
	Chunks     int         `json:"chunks"`
	UploadDate time.Time   `json:"uploadDate"`
	Metadata   Document    `json:"metadata"`
}

// Chunk is a contiguous slice of a stored file.
type Chunk struct {
	ID   ID     `json:"_id"`
	Data []byte `json:"data"`
}

// ValidateFileID checks that id may be used to store a file.
func ValidateFileID(id ID) error {
	if !id.Valid() || !fileIDPattern.MatchString(string(id)) {
		return fmt.Errorf("%w: '%s'", ErrInvalidFileID, id)
	}
	return nil
}

// ChunkID returns the id of chunk index of file fileID.
// Chunks of a file sort contiguously and in index order.
func ChunkID(fileID ID, index int) ID {
	return ID(fmt.Sprintf("%s\\%05d", fileID, index))
}

// ChunkRange returns the inclusive id range covering every chunk of fileID.
func ChunkRange(fileID ID) (ID, ID) {
	return ChunkID(fileID, 0), ChunkID(fileID, MaxChunkIndex)
}

// ToDocument converts the FileInfo into its stored form.
func (fi *FileInfo) ToDocument() (Document, error) {
	return ToDocument(fi)
}

// FileInfoFromDocument decodes a stored FileInfo document.
func FileInfoFromDocument(d Document) (*FileInfo, error) {
	var fi FileInfo
	if err := d.Decode(&fi); err != nil {
		return nil, err
	}
	if fi.Metadata == nil {
		fi.Metadata = Document{}
	}
	return &fi, nil
}

// EncodeChunk serializes a chunk into its stored form.
func EncodeChunk(c *Chunk) ([]byte, error) {
	return json.Marshal(c)
}

// DecodeChunk parses the stored form of a chunk.
func DecodeChunk(raw []byte) (*Chunk, error) {
	var c Chunk
	if err := json.Unmarshal(raw, &c); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrDeserialization, err)
	}
	return &c, nil
}

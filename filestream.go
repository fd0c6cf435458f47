package litedb

import (
	"context"
	"fmt"
	"io"
	"sync"

	"github.com/mwantia/litedb/data"
)

// ChunkSource looks up the payload of a chunk by its id.
// A missing chunk is reported as false, not as an error.
type ChunkSource interface {
	ReadChunk(ctx context.Context, id data.ID) ([]byte, bool, error)
}

// PageEvictor releases cached extension pages.
type PageEvictor interface {
	EvictExtensionPages() int
}

// FileStream reads a stored file as one continuous, forward-only byte stream.
// Chunks are fetched one at a time; only the current chunk is held in memory.
type FileStream struct {
	mu  sync.Mutex
	ctx context.Context

	source ChunkSource
	cache  PageEvictor
	info   *data.FileInfo

	index    int    // index of the chunk held in buffer
	buffer   []byte // nil once the stream is past the last chunk
	offset   int    // read position inside buffer
	position int64  // bytes handed out so far
	closed   bool
}

// NewFileStream opens info for reading and fetches its first chunk.
func NewFileStream(ctx context.Context, source ChunkSource, cache PageEvictor, info *data.FileInfo) (*FileStream, error) {
	if info == nil {
		return nil, fmt.Errorf("%w: file info cannot be nil", data.ErrInvalid)
	}
	if err := checkDeclaredLength(info); err != nil {
		return nil, err
	}

	fs := &FileStream{
		ctx:    ctx,
		source: source,
		cache:  cache,
		info:   info,
	}

	buffer, err := fs.fetch(0)
	if err != nil {
		return nil, err
	}
	fs.buffer = buffer

	return fs, nil
}

// checkDeclaredLength rejects files whose declared length is zero.
// An empty file is treated as an incomplete upload.
func checkDeclaredLength(info *data.FileInfo) error {
	if info.Length <= 0 {
		return fmt.Errorf("%w: file '%s' declares length %d", data.ErrCorruptedFile, info.ID, info.Length)
	}
	return nil
}

// Read copies up to len(p) bytes into p, crossing chunk boundaries as needed.
// Past the last chunk it returns 0, io.EOF on every call.
func (fs *FileStream) Read(p []byte) (int, error) {
	fs.mu.Lock()
	defer fs.mu.Unlock()

	if fs.closed {
		return 0, data.ErrClosed
	}

	n := 0
	for n < len(p) && fs.buffer != nil {
		copied := copy(p[n:], fs.buffer[fs.offset:])
		n += copied
		fs.offset += copied
		fs.position += int64(copied)

		if fs.offset == len(fs.buffer) {
			// The finished chunk was copied out; its pages are no longer needed.
			fs.cache.EvictExtensionPages()

			buffer, err := fs.fetch(fs.index + 1)
			if err != nil {
				return n, err
			}

			fs.index++
			fs.buffer = buffer
			fs.offset = 0
		}
	}

	if n == 0 && len(p) > 0 && fs.buffer == nil {
		return 0, io.EOF
	}
	return n, nil
}

// fetch returns the payload of chunk index, or nil if it does not exist.
func (fs *FileStream) fetch(index int) ([]byte, error) {
	if err := fs.ctx.Err(); err != nil {
		return nil, err
	}

	buffer, found, err := fs.source.ReadChunk(fs.ctx, data.ChunkID(fs.info.ID, index))
	if err != nil {
		return nil, err
	}
	if !found {
		return nil, nil
	}
	if buffer == nil {
		buffer = []byte{}
	}
	return buffer, nil
}

// FileInfo returns the metadata of the file being read.
func (fs *FileStream) FileInfo() *data.FileInfo {
	return fs.info
}

// Length returns the declared length of the file.
func (fs *FileStream) Length() int64 {
	return fs.info.Length
}

// Position returns the number of bytes read so far.
func (fs *FileStream) Position() int64 {
	fs.mu.Lock()
	defer fs.mu.Unlock()

	return fs.position
}

func (fs *FileStream) CanRead() bool {
	return true
}

func (fs *FileStream) CanWrite() bool {
	return false
}

func (fs *FileStream) CanSeek() bool {
	return false
}

// Write always fails; the stream is read-only.
func (fs *FileStream) Write(p []byte) (int, error) {
	return 0, fmt.Errorf("%w: write on file stream", data.ErrUnsupportedOperation)
}

// Seek always fails; chunks are not indexed by byte offset.
func (fs *FileStream) Seek(offset int64, whence int) (int64, error) {
	return 0, fmt.Errorf("%w: seek on file stream", data.ErrUnsupportedOperation)
}

// Flush always fails; the stream is read-only.
func (fs *FileStream) Flush() error {
	return fmt.Errorf("%w: flush on file stream", data.ErrUnsupportedOperation)
}

// Truncate always fails; the stream is read-only.
func (fs *FileStream) Truncate(size int64) error {
	return fmt.Errorf("%w: set length on file stream", data.ErrUnsupportedOperation)
}

// Close releases the current chunk.
func (fs *FileStream) Close() error {
	fs.mu.Lock()
	defer fs.mu.Unlock()

	if fs.closed {
		return data.ErrClosed
	}

	fs.closed = true
	fs.buffer = nil
	return nil
}

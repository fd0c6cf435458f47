package litedb_test

import (
	"context"
	"errors"
	"io"
	"testing"

	"github.com/mwantia/litedb"
	"github.com/mwantia/litedb/data"
)

type memoryChunks struct {
	chunks map[data.ID][]byte
	reads  int
	err    error
}

func newMemoryChunks(fileID data.ID, chunks ...string) *memoryChunks {
	mc := &memoryChunks{chunks: make(map[data.ID][]byte)}
	for i, chunk := range chunks {
		mc.chunks[data.ChunkID(fileID, i)] = []byte(chunk)
	}
	return mc
}

func (mc *memoryChunks) ReadChunk(ctx context.Context, id data.ID) ([]byte, bool, error) {
	mc.reads++
	if mc.err != nil {
		return nil, false, mc.err
	}
	chunk, ok := mc.chunks[id]
	return chunk, ok, nil
}

type countingEvictor struct {
	calls int
}

func (ce *countingEvictor) EvictExtensionPages() int {
	ce.calls++
	return 0
}

func testFileInfo(id data.ID, length int64) *data.FileInfo {
	info := data.NewFileInfo(id, string(id))
	info.Length = length
	return info
}

func TestFileStream_ReadAcrossChunks(t *testing.T) {
	ctx := t.Context()
	source := newMemoryChunks("f", "hello", " ", "wor", "ld")
	evictor := &countingEvictor{}

	stream, err := litedb.NewFileStream(ctx, source, evictor, testFileInfo("f", 11))
	if err != nil {
		t.Fatalf("NewFileStream failed: %v", err)
	}

	// A single read stitches every chunk together
	buf := make([]byte, 32)
	n, err := stream.Read(buf)
	if err != nil {
		t.Fatalf("Read failed: %v", err)
	}
	if string(buf[:n]) != "hello world" {
		t.Errorf("Expected 'hello world', got %q", buf[:n])
	}

	// End of stream is reported on every later call
	for range 3 {
		n, err = stream.Read(buf)
		if n != 0 || !errors.Is(err, io.EOF) {
			t.Errorf("Expected 0, io.EOF, got %d, %v", n, err)
		}
	}

	if evictor.calls != 4 {
		t.Errorf("Expected one eviction per finished chunk (4), got %d", evictor.calls)
	}
	if stream.Position() != 11 {
		t.Errorf("Expected position 11, got %d", stream.Position())
	}
}

func TestFileStream_SmallReads(t *testing.T) {
	ctx := t.Context()
	source := newMemoryChunks("f", "abc", "defg", "h")

	stream, err := litedb.NewFileStream(ctx, source, &countingEvictor{}, testFileInfo("f", 8))
	if err != nil {
		t.Fatalf("NewFileStream failed: %v", err)
	}

	var got []byte
	buf := make([]byte, 2)
	for {
		n, err := stream.Read(buf)
		got = append(got, buf[:n]...)
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			t.Fatalf("Read failed: %v", err)
		}
		if n == 0 {
			t.Fatal("Expected progress before end of stream")
		}
	}

	if string(got) != "abcdefgh" {
		t.Errorf("Expected 'abcdefgh', got %q", got)
	}

	// Only the chunks of the file plus one missing lookup
	if source.reads != 4 {
		t.Errorf("Expected 4 chunk lookups, got %d", source.reads)
	}
}

func TestFileStream_ZeroLength(t *testing.T) {
	source := newMemoryChunks("f", "data")

	_, err := litedb.NewFileStream(t.Context(), source, &countingEvictor{}, testFileInfo("f", 0))
	if !errors.Is(err, data.ErrCorruptedFile) {
		t.Errorf("Expected ErrCorruptedFile, got %v", err)
	}
	if source.reads != 0 {
		t.Errorf("Expected no chunk lookup, got %d", source.reads)
	}
}

func TestFileStream_UnsupportedOperations(t *testing.T) {
	stream, err := litedb.NewFileStream(t.Context(), newMemoryChunks("f", "x"), &countingEvictor{}, testFileInfo("f", 1))
	if err != nil {
		t.Fatalf("NewFileStream failed: %v", err)
	}

	if !stream.CanRead() || stream.CanWrite() || stream.CanSeek() {
		t.Error("Expected a read-only, non-seekable stream")
	}
	if stream.Length() != 1 {
		t.Errorf("Expected length 1, got %d", stream.Length())
	}

	if _, err := stream.Write([]byte("y")); !errors.Is(err, data.ErrUnsupportedOperation) {
		t.Errorf("Expected ErrUnsupportedOperation from Write, got %v", err)
	}
	if _, err := stream.Seek(0, io.SeekStart); !errors.Is(err, data.ErrUnsupportedOperation) {
		t.Errorf("Expected ErrUnsupportedOperation from Seek, got %v", err)
	}
	if err := stream.Flush(); !errors.Is(err, data.ErrUnsupportedOperation) {
		t.Errorf("Expected ErrUnsupportedOperation from Flush, got %v", err)
	}
	if err := stream.Truncate(0); !errors.Is(err, data.ErrUnsupportedOperation) {
		t.Errorf("Expected ErrUnsupportedOperation from Truncate, got %v", err)
	}

	if err := stream.Close(); err != nil {
		t.Fatalf("Close failed: %v", err)
	}
	if _, err := stream.Read(make([]byte, 1)); !errors.Is(err, data.ErrClosed) {
		t.Errorf("Expected ErrClosed after close, got %v", err)
	}
}

func TestFileStream_SourceErrors(t *testing.T) {
	failure := errors.New("disk on fire")
	source := newMemoryChunks("f", "ab", "cd")

	stream, err := litedb.NewFileStream(t.Context(), source, &countingEvictor{}, testFileInfo("f", 4))
	if err != nil {
		t.Fatalf("NewFileStream failed: %v", err)
	}

	source.err = failure
	buf := make([]byte, 4)
	n, err := stream.Read(buf)
	if n != 2 || !errors.Is(err, failure) {
		t.Errorf("Expected 2 bytes and the source error, got %d, %v", n, err)
	}

	ctx, cancel := context.WithCancel(t.Context())
	cancel()
	if _, err := litedb.NewFileStream(ctx, newMemoryChunks("f", "ab"), &countingEvictor{}, testFileInfo("f", 2)); !errors.Is(err, context.Canceled) {
		t.Errorf("Expected context.Canceled, got %v", err)
	}
}

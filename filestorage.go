package litedb

import (
	"context"
	"errors"
	"fmt"
	"io"

	"github.com/mwantia/litedb/data"
	"github.com/mwantia/litedb/log"
)

// FileStorage stores files as a FileInfo document plus a sequence of chunk documents.
type FileStorage struct {
	db     *Database
	files  *Collection
	chunks *Collection
	log    *log.Logger
}

func newFileStorage(db *Database) *FileStorage {
	return &FileStorage{
		db:     db,
		files:  db.GetCollection(data.FilesCollection),
		chunks: db.GetCollection(data.ChunksCollection),
		log:    db.log.Named("files"),
	}
}

// FindByID returns the file id, or false if it does not exist.
func (fs *FileStorage) FindByID(ctx context.Context, id data.ID) (*data.FileInfo, bool, error) {
	doc, found, err := fs.files.FindByID(ctx, id)
	if err != nil || !found {
		return nil, false, err
	}

	info, err := data.FileInfoFromDocument(doc)
	if err != nil {
		return nil, false, err
	}
	return info, true, nil
}

// Find returns every file whose id starts with prefix, in id order.
func (fs *FileStorage) Find(ctx context.Context, prefix string) ([]*data.FileInfo, error) {
	from, to := data.MinID, data.MaxID
	if prefix != "" {
		from, to = data.ID(prefix), data.ID(prefix)+data.MaxID
	}

	docs, err := fs.files.FindRange(ctx, from, to)
	if err != nil {
		return nil, err
	}

	infos := make([]*data.FileInfo, 0, len(docs))
	for _, doc := range docs {
		info, err := data.FileInfoFromDocument(doc)
		if err != nil {
			return nil, err
		}
		infos = append(infos, info)
	}
	return infos, nil
}

// Exists reports whether the file id exists.
func (fs *FileStorage) Exists(ctx context.Context, id data.ID) (bool, error) {
	return fs.files.Exists(ctx, id)
}

// Upload stores the content of r as file id, replacing any previous file with that id.
// A failed upload leaves the previous file unchanged.
func (fs *FileStorage) Upload(ctx context.Context, id data.ID, filename string, r io.Reader) (*data.FileInfo, error) {
	if err := data.ValidateFileID(id); err != nil {
		return nil, err
	}
	if filename == "" {
		filename = string(id)
	}

	fs.db.mu.Lock()
	defer fs.db.mu.Unlock()

	if fs.db.closed {
		return nil, data.ErrClosed
	}

	sp := fs.db.savepointUnsafe()
	info, err := fs.uploadUnsafe(ctx, id, filename, r)
	if err != nil {
		if undoErr := fs.db.rollbackToUnsafe(ctx, sp); undoErr != nil {
			err = errors.Join(err, undoErr)
		}
		fs.log.Warn("Upload of file '%s' failed, previous content restored: %v", id, err)
		return nil, err
	}
	fs.db.releaseUnsafe(sp)

	fs.log.Debug("Uploaded file '%s' with %d bytes in %d chunks", id, info.Length, info.Chunks)
	return info, nil
}

// uploadUnsafe MUST be called while holding the database lock inside a savepoint.
func (fs *FileStorage) uploadUnsafe(ctx context.Context, id data.ID, filename string, r io.Reader) (*data.FileInfo, error) {
	if err := fs.deleteChunksUnsafe(ctx, id); err != nil {
		return nil, err
	}

	info := data.NewFileInfo(id, filename)
	buffer := make([]byte, fs.db.options.ChunkSize)

	for {
		n, err := io.ReadFull(r, buffer)
		if n > 0 {
			if info.Chunks > data.MaxChunkIndex {
				return nil, fmt.Errorf("%w: file '%s' exceeds %d chunks", data.ErrInvalid, id, data.MaxChunkIndex+1)
			}
			if err := fs.writeChunkUnsafe(ctx, id, info.Chunks, buffer[:n]); err != nil {
				return nil, err
			}

			info.Chunks++
			info.Length += int64(n)
		}

		if errors.Is(err, io.EOF) || errors.Is(err, io.ErrUnexpectedEOF) {
			break
		}
		if err != nil {
			return nil, err
		}
	}

	if err := fs.writeInfoUnsafe(ctx, info); err != nil {
		return nil, err
	}
	return info, nil
}

// SetMetadata replaces the metadata of file id.
// It returns false, without error, if the file does not exist.
func (fs *FileStorage) SetMetadata(ctx context.Context, id data.ID, metadata data.Document) (*data.FileInfo, bool, error) {
	if !id.Valid() {
		return nil, false, nil
	}

	fs.db.mu.Lock()
	defer fs.db.mu.Unlock()

	raw, found, err := fs.db.readDocument(ctx, data.FilesCollection, id)
	if err != nil || !found {
		return nil, false, err
	}

	doc, err := data.DecodeDocument(raw)
	if err != nil {
		return nil, false, fmt.Errorf("%s/%s: %w", data.FilesCollection, id, err)
	}
	info, err := data.FileInfoFromDocument(doc)
	if err != nil {
		return nil, false, err
	}

	if metadata == nil {
		metadata = data.Document{}
	}
	info.Metadata = metadata

	if err := fs.writeInfoUnsafe(ctx, info); err != nil {
		return nil, false, err
	}
	return info, true, nil
}

// Delete removes file id with all its chunks. It returns false if the file does not exist.
func (fs *FileStorage) Delete(ctx context.Context, id data.ID) (bool, error) {
	if !id.Valid() {
		return false, nil
	}

	fs.db.mu.Lock()
	defer fs.db.mu.Unlock()

	if fs.db.closed {
		return false, data.ErrClosed
	}

	sp := fs.db.savepointUnsafe()
	deleted, err := fs.deleteUnsafe(ctx, id)
	if err != nil {
		if undoErr := fs.db.rollbackToUnsafe(ctx, sp); undoErr != nil {
			err = errors.Join(err, undoErr)
		}
		return false, err
	}
	fs.db.releaseUnsafe(sp)

	if deleted {
		fs.log.Debug("Deleted file '%s'", id)
	}
	return deleted, nil
}

// deleteUnsafe MUST be called while holding the database lock inside a savepoint.
func (fs *FileStorage) deleteUnsafe(ctx context.Context, id data.ID) (bool, error) {
	if err := fs.deleteChunksUnsafe(ctx, id); err != nil {
		return false, err
	}
	return fs.db.deleteDocumentUnsafe(ctx, data.FilesCollection, id)
}

// OpenRead opens file id for reading.
func (fs *FileStorage) OpenRead(ctx context.Context, id data.ID) (*FileStream, error) {
	info, found, err := fs.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if !found {
		return nil, fmt.Errorf("%w: file '%s'", data.ErrNotExist, id)
	}

	return NewFileStream(ctx, fs, fs.db.pages, info)
}

// Download copies the content of file id into w.
func (fs *FileStorage) Download(ctx context.Context, id data.ID, w io.Writer) (*data.FileInfo, error) {
	stream, err := fs.OpenRead(ctx, id)
	if err != nil {
		return nil, err
	}
	defer stream.Close()

	if _, err := io.Copy(w, stream); err != nil {
		return nil, err
	}
	return stream.FileInfo(), nil
}

// ReadChunk implements ChunkSource on top of the chunks collection.
func (fs *FileStorage) ReadChunk(ctx context.Context, id data.ID) ([]byte, bool, error) {
	raw, found, err := fs.db.readDocument(ctx, data.ChunksCollection, id)
	if err != nil || !found {
		return nil, false, err
	}

	chunk, err := data.DecodeChunk(raw)
	if err != nil {
		return nil, false, fmt.Errorf("%s/%s: %w", data.ChunksCollection, id, err)
	}
	return chunk.Data, true, nil
}

// writeChunkUnsafe MUST be called while holding the database lock.
func (fs *FileStorage) writeChunkUnsafe(ctx context.Context, id data.ID, index int, payload []byte) error {
	chunkID := data.ChunkID(id, index)
	raw, err := data.EncodeChunk(&data.Chunk{ID: chunkID, Data: payload})
	if err != nil {
		return err
	}
	return fs.db.writeDocumentUnsafe(ctx, data.ChunksCollection, chunkID, raw)
}

// writeInfoUnsafe MUST be called while holding the database lock.
func (fs *FileStorage) writeInfoUnsafe(ctx context.Context, info *data.FileInfo) error {
	doc, err := info.ToDocument()
	if err != nil {
		return err
	}

	raw, err := data.EncodeDocument(doc)
	if err != nil {
		return err
	}
	return fs.db.writeDocumentUnsafe(ctx, data.FilesCollection, info.ID, raw)
}

// deleteChunksUnsafe MUST be called while holding the database lock.
func (fs *FileStorage) deleteChunksUnsafe(ctx context.Context, id data.ID) error {
	from, to := data.ChunkRange(id)

	var ids []data.ID
	err := fs.db.storage.ScanDocuments(ctx, data.ChunksCollection, from, to, func(chunkID data.ID, _ []byte) bool {
		ids = append(ids, chunkID)
		return true
	})
	if err != nil {
		return err
	}

	for _, chunkID := range ids {
		if _, err := fs.db.deleteDocumentUnsafe(ctx, data.ChunksCollection, chunkID); err != nil {
			return err
		}
	}
	return nil
}

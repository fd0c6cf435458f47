package litedb

import (
	"fmt"

	"github.com/mwantia/litedb/data"
	"github.com/mwantia/litedb/log"
	"github.com/mwantia/litedb/pager"
)

type DatabaseOptions struct {
	LogLevel      log.LogLevel
	LogFile       string
	NoTerminalLog bool
	Logger        *log.Logger

	Cache      *pager.Cache
	CacheLimit int
	ChunkSize  int
}

type DatabaseOption func(*DatabaseOptions) error

func newDefaultDatabaseOptions() *DatabaseOptions {
	return &DatabaseOptions{
		LogLevel:   log.Info,
		CacheLimit: 4096,
		ChunkSize:  data.MaxChunkSize,
	}
}

func WithLogLevel(logLevel log.LogLevel) DatabaseOption {
	return func(opts *DatabaseOptions) error {
		opts.LogLevel = logLevel
		return nil
	}
}

func WithoutTerminalLog() DatabaseOption {
	return func(opts *DatabaseOptions) error {
		opts.NoTerminalLog = true
		return nil
	}
}

func WithLogFile(logFile string) DatabaseOption {
	return func(opts *DatabaseOptions) error {
		opts.LogFile = logFile
		return nil
	}
}

// WithLogger replaces the logger built from the other log options.
func WithLogger(logger *log.Logger) DatabaseOption {
	return func(opts *DatabaseOptions) error {
		if logger == nil {
			return fmt.Errorf("%w: logger cannot be nil", data.ErrInvalid)
		}
		opts.Logger = logger
		return nil
	}
}

// WithPageCache shares an existing page cache instead of creating one per database.
func WithPageCache(cache *pager.Cache) DatabaseOption {
	return func(opts *DatabaseOptions) error {
		if cache == nil {
			return fmt.Errorf("%w: page cache cannot be nil", data.ErrInvalid)
		}
		opts.Cache = cache
		return nil
	}
}

// WithCacheLimit sets the page count above which the cache evicts extension pages.
// A limit of 0 disables automatic eviction.
func WithCacheLimit(pages int) DatabaseOption {
	return func(opts *DatabaseOptions) error {
		if pages < 0 {
			return fmt.Errorf("%w: cache limit %d", data.ErrInvalid, pages)
		}
		opts.CacheLimit = pages
		return nil
	}
}

// WithChunkSize sets the chunk size used by uploads.
func WithChunkSize(size int) DatabaseOption {
	return func(opts *DatabaseOptions) error {
		if size <= 0 || size > data.MaxChunkSize {
			return fmt.Errorf("%w: chunk size %d not in 1..%d", data.ErrInvalid, size, data.MaxChunkSize)
		}
		opts.ChunkSize = size
		return nil
	}
}

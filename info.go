package litedb

import (
	"context"

	"github.com/mwantia/litedb/data"
	"github.com/mwantia/litedb/pager"
	"golang.org/x/sync/errgroup"
)

// Info returns diagnostics about the database.
func (db *Database) Info(ctx context.Context) (data.Document, error) {
	names, err := db.storage.ListCollections(ctx)
	if err != nil {
		return nil, err
	}

	counts := make([]int, len(names))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(4)
	for i, name := range names {
		g.Go(func() error {
			count, err := db.storage.CountDocuments(gctx, name)
			counts[i] = count
			return err
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	collections := data.Document{}
	for i, name := range names {
		collections[name] = counts[i]
	}

	stats := db.cache.Stats()
	info := data.Document{
		"backend":         db.storage.Name(),
		"capabilities":    db.storage.GetCapabilities().Strings(),
		"pageSize":        pager.PageSize,
		"pageAddressSize": data.PageAddressSize,
		"chunkSize":       db.options.ChunkSize,
		"collections":     collections,
		"cache": data.Document{
			"pages":          stats.Pages,
			"dataPages":      stats.DataPages,
			"extensionPages": stats.ExtensionPages,
			"records":        stats.Records,
			"hits":           stats.Hits,
			"misses":         stats.Misses,
			"evictions":      stats.Evictions,
		},
		"transaction": db.InTransaction(),
	}

	if p, ok := db.storage.(interface{ Path() string }); ok {
		info["path"] = p.Path()
	}

	return info, nil
}

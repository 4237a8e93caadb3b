package database

import (
	"context"
	"log/slog"
	"sync"

	"golang.org/x/sync/errgroup"
	"golang.org/x/sync/singleflight"

	"github.com/spanddl/spanddl/schema"
	"github.com/spanddl/spanddl/util"
)

// SchemaCache owns the table-name to descriptor mapping for the lifetime of
// one live connection. The fill runs at most once across concurrent first
// callers; Reset discards the mapping wholesale, never partially.
type SchemaCache struct {
	db    Database
	group singleflight.Group

	mu     sync.Mutex
	tables map[string]*schema.Table
}

func NewSchemaCache(db Database) *SchemaCache {
	return &SchemaCache{db: db}
}

// LoadTables returns descriptors for the named tables, lazily populating
// the cache on first call. Names with no matching table are omitted from
// the result; an empty names list returns every table in canonical order.
func (c *SchemaCache) LoadTables(ctx context.Context, names []string) ([]*schema.Table, error) {
	tables, err := c.fill(ctx)
	if err != nil {
		return nil, err
	}

	if len(names) == 0 {
		all := make([]*schema.Table, 0, len(tables))
		for _, table := range util.CanonicalMapIter(tables) {
			all = append(all, table)
		}
		return all, nil
	}

	result := make([]*schema.Table, 0, len(names))
	for _, name := range names {
		if table, ok := tables[name]; ok {
			result = append(result, table)
		}
	}
	return result, nil
}

// Tables returns the cached mapping, filling it if necessary.
func (c *SchemaCache) Tables(ctx context.Context) (map[string]*schema.Table, error) {
	return c.fill(ctx)
}

// Reset invalidates the cache. The next load re-fetches and re-parses.
func (c *SchemaCache) Reset() {
	c.mu.Lock()
	c.tables = nil
	c.mu.Unlock()
}

func (c *SchemaCache) fill(ctx context.Context) (map[string]*schema.Table, error) {
	if tables := c.snapshot(); tables != nil {
		return tables, nil
	}

	v, err, _ := c.group.Do("tables", func() (any, error) {
		if tables := c.snapshot(); tables != nil {
			return tables, nil
		}

		var ddls []string
		var extendSchemas map[string]map[string]schema.ExtendSchema
		eg, egctx := errgroup.WithContext(ctx)
		eg.Go(func() error {
			var err error
			ddls, err = c.db.DumpDDLs(egctx)
			return err
		})
		eg.Go(func() error {
			var err error
			extendSchemas, err = c.db.ExtendSchemas(egctx)
			return err
		})
		if err := eg.Wait(); err != nil {
			return nil, err
		}

		tables, err := schema.ParseTables(ddls)
		if err != nil {
			return nil, err
		}
		schema.MergeExtendSchemas(tables, extendSchemas)

		c.mu.Lock()
		c.tables = tables
		c.mu.Unlock()
		slog.Debug("schema cache filled", "tables", len(tables))
		return tables, nil
	})
	if err != nil {
		return nil, err
	}
	return v.(map[string]*schema.Table), nil
}

func (c *SchemaCache) snapshot() map[string]*schema.Table {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.tables
}

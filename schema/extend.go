package schema

import (
	"log/slog"
)

// MergeExtendSchemas overlays side-table metadata onto parsed table
// descriptors, in place. This is the only code that mutates a descriptor
// after parsing. Entries referencing a column absent from the parsed table
// are logged and skipped: extended metadata may reference columns dropped
// outside this subsystem's visibility.
func MergeExtendSchemas(tables map[string]*Table, extendSchemas map[string]map[string]ExtendSchema) {
	for tableName, entries := range extendSchemas {
		table, ok := tables[tableName]
		if !ok {
			slog.Warn("extended schema references unknown table", "table", tableName)
			continue
		}
		for columnName, extend := range entries {
			column := table.FindColumn(columnName)
			if column == nil {
				slog.Warn("extended schema references unknown column",
					"table", tableName, "column", columnName)
				continue
			}
			column.Generated = extend.Generator
			column.Default = extend.Default
			column.GenerationStrategy = extend.Strategy
		}
	}
}

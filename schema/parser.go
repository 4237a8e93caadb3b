package schema

import (
	"github.com/spanddl/spanddl/parser"
)

// ParseTables converts an ordered list of raw DDL statements into the
// table-descriptor mapping keyed by table name. Statements that are not
// CREATE TABLE shapes are skipped; a malformed column clause or an
// INTERLEAVE construct aborts parsing.
func ParseTables(ddls []string) (map[string]*Table, error) {
	tables := make(map[string]*Table)
	for _, ddl := range ddls {
		stmt, err := parser.ParseDDL(ddl)
		if err != nil {
			return nil, err
		}
		if stmt == nil {
			continue
		}
		table := newTable(stmt)
		tables[table.Name] = table
	}
	return tables, nil
}

func newTable(stmt *parser.CreateTable) *Table {
	table := &Table{Name: stmt.Name}

	for _, def := range stmt.Columns {
		table.Columns = append(table.Columns, &Column{
			Name:     def.Name,
			TypeName: def.Type.Name,
			Array:    def.Type.Array,
			Length:   def.Type.Length,
			Nullable: !def.NotNull,
		})
	}

	// Unknown column names in PRIMARY KEY are ignored; well-formed DDL
	// never produces them.
	for _, name := range stmt.PrimaryKeys {
		if column := table.FindColumn(name); column != nil {
			column.Primary = true
		}
	}

	for _, def := range stmt.Indexes {
		table.Indexes = append(table.Indexes, Index{
			Name:         def.Name,
			Columns:      def.Columns,
			Unique:       def.Unique,
			NullFiltered: def.NullFiltered,
		})
		if def.Unique {
			table.Uniques = append(table.Uniques, Unique{Name: def.Name, Columns: def.Columns})
			for _, name := range def.Columns {
				if column := table.FindColumn(name); column != nil {
					column.Unique = true
				}
			}
		}
	}

	return table
}

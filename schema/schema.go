// This package has the schema descriptor model, the DDL-to-descriptor
// conversion, and the column differ. Never touch a database.
package schema

// Table is the structured descriptor of one table as parsed from the
// database's own DDL text, with extended metadata merged in afterwards.
// Descriptors are rebuilt wholesale on re-parse; only MergeExtendSchemas
// mutates them field-by-field.
type Table struct {
	Name        string
	Columns     []*Column
	Indexes     []Index
	Uniques     []Unique
	ForeignKeys []ForeignKey
}

// FindColumn returns the column with the given database name, or nil.
func (t *Table) FindColumn(name string) *Column {
	for _, column := range t.Columns {
		if column.Name == name {
			return column
		}
	}
	return nil
}

// ColumnUnique reports whether the column is covered by a unique index.
// Uniqueness is derived from index definitions, never from an inline
// column flag; Spanner has no inline UNIQUE column syntax.
func (t *Table) ColumnUnique(name string) bool {
	for _, unique := range t.Uniques {
		for _, columnName := range unique.Columns {
			if columnName == name {
				return true
			}
		}
	}
	return false
}

// Column describes one live column. Primary and Unique are derived solely
// from index clauses. Generated, GenerationStrategy, and Default come from
// the extended-schema side table since the database cannot express them.
//
// Width, Precision, Scale, Zerofill, Unsigned, AsExpression, GeneratedType,
// and OnUpdate exist to satisfy the ORM's generic column contract; Spanner
// DDL never sets them, but the differ still compares them.
type Column struct {
	Name               string
	TypeName           string
	Array              bool
	Length             string
	Nullable           bool
	Primary            bool
	Unique             bool
	Generated          bool
	GenerationStrategy string
	Default            string

	Width         int
	Precision     int
	Scale         int
	Zerofill      bool
	Unsigned      bool
	AsExpression  string
	GeneratedType string
	OnUpdate      string
}

// Index is one secondary-index descriptor. NullFiltered marks Spanner's
// NULL_FILTERED indexes.
type Index struct {
	Name         string
	Columns      []string
	Unique       bool
	NullFiltered bool
}

type Unique struct {
	Name    string
	Columns []string
}

type ForeignKey struct {
	Name              string
	Columns           []string
	ReferencedTable   string
	ReferencedColumns []string
}

// ExtendSchema is one side-table row: out-of-band metadata for a single
// column that the database cannot express natively.
type ExtendSchema struct {
	Generator bool
	Default   string
	Strategy  string
}

// ColumnMeta is the ORM's desired definition of a column (the column
// metadata contract). Name is the database column name; Type is the
// logical type as declared by entity metadata.
type ColumnMeta struct {
	Name               string
	Type               string
	Array              bool
	Length             string
	Width              int
	Precision          int
	Scale              int
	Zerofill           bool
	Unsigned           bool
	AsExpression       string
	GeneratedType      string
	Default            any
	OnUpdate           string
	Primary            bool
	Nullable           bool
	Unique             bool
	Generated          bool
	GenerationStrategy string
}

// ColumnMetas converts a table descriptor into desired-column metadata.
// Used when the desired schema is itself given as DDL text (e.g. the CLI
// diff flow) rather than coming from entity metadata.
func ColumnMetas(table *Table) []ColumnMeta {
	metas := make([]ColumnMeta, 0, len(table.Columns))
	for _, column := range table.Columns {
		metas = append(metas, ColumnMeta{
			Name:               column.Name,
			Type:               column.TypeName,
			Array:              column.Array,
			Length:             column.Length,
			Default:            defaultMeta(column.Default),
			Primary:            column.Primary,
			Nullable:           column.Nullable,
			Unique:             table.ColumnUnique(column.Name),
			Generated:          column.Generated,
			GenerationStrategy: column.GenerationStrategy,
		})
	}
	return metas
}

func defaultMeta(value string) any {
	if value == "" {
		return nil
	}
	return value
}

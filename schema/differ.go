package schema

// FindChangedColumns returns the subsequence of desired columns whose live
// counterpart differs in any compared field, preserving desired order.
// Desired columns with no live counterpart are excluded: this differ
// answers "what changed", not "what's missing" — additions are handled by
// the schema builder.
func FindChangedColumns(table *Table, desired []ColumnMeta) ([]ColumnMeta, error) {
	var changed []ColumnMeta
	for _, meta := range desired {
		column := table.FindColumn(meta.Name)
		if column == nil {
			continue
		}
		storageType, err := StorageType(meta)
		if err != nil {
			return nil, err
		}
		if columnChanged(table, column, meta, storageType) {
			changed = append(changed, meta)
		}
	}
	return changed, nil
}

func columnChanged(table *Table, column *Column, meta ColumnMeta, storageType string) bool {
	return column.TypeName != storageType ||
		column.Length != desiredLength(meta, storageType) ||
		column.Width != meta.Width ||
		column.Precision != meta.Precision ||
		column.Scale != meta.Scale ||
		column.Zerofill != meta.Zerofill ||
		column.Unsigned != meta.Unsigned ||
		column.AsExpression != meta.AsExpression ||
		column.GeneratedType != meta.GeneratedType ||
		!CompareDefaultValues(column.Default, NormalizeDefault(meta)) ||
		column.OnUpdate != meta.OnUpdate ||
		column.Primary != meta.Primary ||
		column.Nullable != meta.Nullable ||
		table.ColumnUnique(column.Name) != meta.Unique ||
		// uuid generation is expressed differently on each side and would
		// otherwise always mismatch
		(meta.GenerationStrategy != "uuid" && column.Generated != meta.Generated)
}

func desiredLength(meta ColumnMeta, storageType string) string {
	if meta.Length != "" {
		return meta.Length
	}
	return DataTypeDefaults(storageType).Length
}

// CompareDefaultValues compares two default-value texts after stripping a
// single layer of surrounding quote characters from both sides. The live
// value surfaces quoted string literals while the desired value may or may
// not include quoting; the stripping is intentionally lossy and must stay
// that way for compatibility.
func CompareDefaultValues(live, desired string) bool {
	return stripQuotes(live) == stripQuotes(desired)
}

func stripQuotes(value string) string {
	if len(value) > 0 && (value[0] == '\'' || value[0] == '"') {
		value = value[1:]
	}
	if len(value) > 0 && (value[len(value)-1] == '\'' || value[len(value)-1] == '"') {
		value = value[:len(value)-1]
	}
	return value
}

package schema

import (
	"fmt"
	"strconv"
	"strings"
)

// UnsupportedTypeError is returned when a desired column's logical type has
// no native storage mapping.
type UnsupportedTypeError struct {
	Column string
	Type   string
}

func (e *UnsupportedTypeError) Error() string {
	return fmt.Sprintf("column %q: type %q is not supported by this database", e.Column, e.Type)
}

// nativeTypes is the closed set of Spanner storage types.
var nativeTypes = map[string]bool{
	"bool":      true,
	"int64":     true,
	"float64":   true,
	"numeric":   true,
	"string":    true,
	"bytes":     true,
	"date":      true,
	"timestamp": true,
	"json":      true,
}

// NormalizeType maps a logical column type onto its native storage type.
// Already-native names pass through, and so do unrecognized ones; use
// StorageType when an unknown type must be an error instead.
func NormalizeType(meta ColumnMeta) string {
	switch strings.ToLower(meta.Type) {
	case "int", "integer", "smallint", "mediumint", "bigint", "number":
		return "int64"
	case "float", "double", "real":
		return "float64"
	case "decimal", "dec":
		return "numeric"
	case "varchar", "nvarchar", "text", "uuid", "simple-array", "simple-json":
		return "string"
	case "datetime":
		return "timestamp"
	case "binary", "varbinary", "blob":
		return "bytes"
	case "boolean":
		return "bool"
	default:
		return meta.Type
	}
}

// StorageType resolves the native storage type a desired column would use,
// failing when the logical type has no native mapping.
func StorageType(meta ColumnMeta) (string, error) {
	name := NormalizeType(meta)
	if !nativeTypes[strings.ToLower(name)] {
		return "", &UnsupportedTypeError{Column: meta.Name, Type: meta.Type}
	}
	return strings.ToLower(name), nil
}

// TypeDefaults holds the default length/precision/scale constraints of one
// native type. The zero value means no default constraint applies.
type TypeDefaults struct {
	Length    string
	Precision int
	Scale     int
}

// Spanner's NUMERIC is fixed at precision 38, scale 9.
var dataTypeDefaults = map[string]TypeDefaults{
	"string":  {Length: "255"},
	"bytes":   {Length: "255"},
	"numeric": {Precision: 38, Scale: 9},
}

// DataTypeDefaults returns the static default constraints for a native type.
func DataTypeDefaults(typeName string) TypeDefaults {
	return dataTypeDefaults[strings.ToLower(typeName)]
}

// CreateFullType renders a column's complete native type text, e.g.
// STRING(255), BYTES(MAX), or ARRAY<STRING(36)>.
func CreateFullType(column Column) string {
	fullType := strings.ToUpper(column.TypeName)
	if column.Length != "" {
		fullType += "(" + strings.ToUpper(column.Length) + ")"
	}
	if column.Array {
		fullType = "ARRAY<" + fullType + ">"
	}
	return fullType
}

// NormalizeDefault renders a desired column's default value as comparable
// text: booleans become true/false, numbers decimal text, function values
// are invoked, strings pass through, nil is empty.
func NormalizeDefault(meta ColumnMeta) string {
	switch v := meta.Default.(type) {
	case nil:
		return ""
	case string:
		return v
	case bool:
		return strconv.FormatBool(v)
	case int:
		return strconv.Itoa(v)
	case int64:
		return strconv.FormatInt(v, 10)
	case float64:
		return strconv.FormatFloat(v, 'f', -1, 64)
	case func() string:
		return v()
	default:
		return fmt.Sprint(v)
	}
}

package schema

import (
	"testing"
)

func TestNormalizeType(t *testing.T) {
	testCases := []struct {
		logical  string
		expected string
	}{
		{"int", "int64"},
		{"integer", "int64"},
		{"bigint", "int64"},
		{"number", "int64"},
		{"float", "float64"},
		{"double", "float64"},
		{"decimal", "numeric"},
		{"varchar", "string"},
		{"nvarchar", "string"},
		{"text", "string"},
		{"uuid", "string"},
		{"simple-array", "string"},
		{"simple-json", "string"},
		{"datetime", "timestamp"},
		{"binary", "bytes"},
		{"boolean", "bool"},
		// already-native names pass through
		{"int64", "int64"},
		{"string", "string"},
		{"date", "date"},
		{"timestamp", "timestamp"},
		{"json", "json"},
		// unrecognized names pass through unchanged
		{"geometry", "geometry"},
	}

	for _, tc := range testCases {
		got := NormalizeType(ColumnMeta{Type: tc.logical})
		if got != tc.expected {
			t.Errorf("NormalizeType(%q) = %q, expected %q", tc.logical, got, tc.expected)
		}
	}
}

func TestStorageType(t *testing.T) {
	if _, err := StorageType(ColumnMeta{Name: "shape", Type: "geometry"}); err == nil {
		t.Errorf("expected an error for an unmapped logical type")
	}
	storageType, err := StorageType(ColumnMeta{Name: "name", Type: "varchar"})
	if err != nil || storageType != "string" {
		t.Errorf("StorageType(varchar) = %q, %v", storageType, err)
	}
}

func TestDataTypeDefaults(t *testing.T) {
	if d := DataTypeDefaults("string"); d.Length != "255" {
		t.Errorf("unexpected string defaults: %#v", d)
	}
	if d := DataTypeDefaults("numeric"); d.Precision != 38 || d.Scale != 9 {
		t.Errorf("unexpected numeric defaults: %#v", d)
	}
	if d := DataTypeDefaults("int64"); d != (TypeDefaults{}) {
		t.Errorf("expected no defaults for int64, got: %#v", d)
	}
}

func TestCreateFullType(t *testing.T) {
	testCases := []struct {
		column   Column
		expected string
	}{
		{Column{TypeName: "string", Length: "255"}, "STRING(255)"},
		{Column{TypeName: "string", Length: "max"}, "STRING(MAX)"},
		{Column{TypeName: "bytes", Length: "MAX"}, "BYTES(MAX)"},
		{Column{TypeName: "int64"}, "INT64"},
		{Column{TypeName: "string", Array: true, Length: "36"}, "ARRAY<STRING(36)>"},
	}

	for _, tc := range testCases {
		if got := CreateFullType(tc.column); got != tc.expected {
			t.Errorf("CreateFullType(%#v) = %q, expected %q", tc.column, got, tc.expected)
		}
	}
}

func TestNormalizeDefault(t *testing.T) {
	testCases := []struct {
		name     string
		value    any
		expected string
	}{
		{"nil", nil, ""},
		{"string", "x", "x"},
		{"bool", true, "true"},
		{"int", 3, "3"},
		{"float", 1.5, "1.5"},
		{"function", func() string { return "CURRENT_TIMESTAMP()" }, "CURRENT_TIMESTAMP()"},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			if got := NormalizeDefault(ColumnMeta{Default: tc.value}); got != tc.expected {
				t.Errorf("NormalizeDefault(%v) = %q, expected %q", tc.value, got, tc.expected)
			}
		})
	}
}

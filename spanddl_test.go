package spanddl

import (
	"reflect"
	"testing"

	"github.com/spanddl/spanddl/database"
	"github.com/spanddl/spanddl/schema"
)

func TestFilterTables(t *testing.T) {
	tables := map[string]*schema.Table{
		"users":      {Name: "users"},
		"posts":      {Name: "posts"},
		"migrations": {Name: "migrations"},
	}

	testCases := []struct {
		name     string
		config   database.GeneratorConfig
		expected []string
	}{
		{"no config", database.GeneratorConfig{}, []string{"migrations", "posts", "users"}},
		{"target tables", database.GeneratorConfig{TargetTables: []string{"users"}}, []string{"users"}},
		{"skip tables", database.GeneratorConfig{SkipTables: []string{"migrations"}}, []string{"posts", "users"}},
		{
			"target and skip",
			database.GeneratorConfig{TargetTables: []string{"users", "posts"}, SkipTables: []string{"posts"}},
			[]string{"users"},
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			filtered := FilterTables(tables, tc.config)
			var names []string
			for name := range filtered {
				names = append(names, name)
			}
			if len(names) != len(tc.expected) {
				t.Fatalf("expected %v, got %v", tc.expected, names)
			}
			for _, name := range tc.expected {
				if _, ok := filtered[name]; !ok {
					t.Errorf("expected %s to survive the filter, got %v", name, names)
				}
			}
		})
	}
}

func TestSplitDDLs(t *testing.T) {
	ddls := splitDDLs("CREATE TABLE a (x INT64,) PRIMARY KEY(x);\n\nCREATE TABLE b (y INT64,) PRIMARY KEY(y);\n")
	expected := []string{
		"CREATE TABLE a (x INT64,) PRIMARY KEY(x)",
		"CREATE TABLE b (y INT64,) PRIMARY KEY(y)",
	}
	if !reflect.DeepEqual(ddls, expected) {
		t.Errorf("expected %#v, got %#v", expected, ddls)
	}
}

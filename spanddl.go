package spanddl

import (
	"context"
	"fmt"
	"io"
	"log"
	"os"
	"strings"

	"github.com/k0kubun/pp/v3"
	"golang.org/x/term"

	"github.com/spanddl/spanddl/database"
	"github.com/spanddl/spanddl/schema"
	"github.com/spanddl/spanddl/util"
)

type Options struct {
	DesiredFile string
	Export      bool
	Debug       bool
	Config      database.GeneratorConfig
}

// Main function shared by all commands
func Run(ctx context.Context, db database.Database, options *Options) {
	if options.Export {
		ddls, err := db.DumpDDLs(ctx)
		if err != nil {
			log.Fatalf("Error on DumpDDLs: %s", err)
		}
		if len(ddls) == 0 {
			fmt.Printf("-- No table exists --\n")
			return
		}
		for i, ddl := range ddls {
			if i > 0 {
				fmt.Println()
			}
			fmt.Printf("%s;\n", ddl)
		}
		return
	}

	sql, err := ReadFile(options.DesiredFile)
	if err != nil {
		log.Fatalf("Failed to read '%s': %s", options.DesiredFile, err)
	}
	desired, err := schema.ParseTables(splitDDLs(sql))
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}

	cache := database.NewSchemaCache(db)
	live, err := cache.Tables(ctx)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}

	desired = FilterTables(desired, options.Config)
	live = FilterTables(live, options.Config)
	if options.Debug {
		pp.Fprintln(os.Stderr, live)
	}

	modified := false
	for name, desiredTable := range util.CanonicalMapIter(desired) {
		liveTable, ok := live[name]
		if !ok {
			modified = true
			fmt.Printf("-- Table %s is not created yet --\n", name)
			continue
		}
		changed, err := schema.FindChangedColumns(liveTable, schema.ColumnMetas(desiredTable))
		if err != nil {
			fmt.Fprintln(os.Stderr, err)
			os.Exit(1)
		}
		for _, meta := range changed {
			modified = true
			fmt.Printf("-- Changed: %s.%s --\n", name, meta.Name)
		}
	}
	if !modified {
		fmt.Println("-- Nothing is modified --")
	}
}

// FilterTables restricts the mapping to the generator config's target
// tables (when given) and drops its skip tables.
func FilterTables(tables map[string]*schema.Table, config database.GeneratorConfig) map[string]*schema.Table {
	if len(config.TargetTables) == 0 && len(config.SkipTables) == 0 {
		return tables
	}

	filtered := make(map[string]*schema.Table)
	for name, table := range tables {
		if len(config.TargetTables) > 0 && !containsString(config.TargetTables, name) {
			continue
		}
		if containsString(config.SkipTables, name) {
			continue
		}
		filtered[name] = table
	}
	return filtered
}

func ReadFile(filepath string) (string, error) {
	var err error
	var buf []byte

	if filepath == "-" {
		if term.IsTerminal(int(os.Stdin.Fd())) {
			return "", fmt.Errorf("stdin is not piped")
		}
		buf, err = io.ReadAll(os.Stdin)
	} else {
		buf, err = os.ReadFile(filepath)
	}

	if err != nil {
		return "", err
	}
	return string(buf), nil
}

// splitDDLs splits `;`-concatenated DDLs. The dump grammar never emits a
// semicolon inside a statement, so a plain split suffices.
func splitDDLs(sql string) []string {
	var ddls []string
	for _, ddl := range strings.Split(sql, ";") {
		ddl = strings.TrimSpace(ddl)
		if ddl != "" {
			ddls = append(ddls, ddl)
		}
	}
	return ddls
}

func containsString(strs []string, str string) bool {
	for _, s := range strs {
		if s == str {
			return true
		}
	}
	return false
}

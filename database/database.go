// This package has the database access layer. Never deal with DDL
// construction.
package database

import (
	"context"
	"log"
	"os"
	"strings"

	"gopkg.in/yaml.v2"

	"github.com/spanddl/spanddl/schema"
)

// Config holds the connection coordinates of one database.
type Config struct {
	Project         string
	Instance        string
	Database        string
	CredentialsFile string
}

type GeneratorConfig struct {
	TargetTables []string
	SkipTables   []string
}

// Abstraction layer over the native client. The handle is exclusively
// owned by one driver instance; reconnecting discards it wholesale.
type Database interface {
	DumpDDLs(ctx context.Context) ([]string, error)
	ExtendSchemas(ctx context.Context) (map[string]map[string]schema.ExtendSchema, error)
	ApplyDDLs(ctx context.Context, ddls []string) error
	Close() error
}

func ParseGeneratorConfig(configFile string) GeneratorConfig {
	if configFile == "" {
		return GeneratorConfig{}
	}

	buf, err := os.ReadFile(configFile)
	if err != nil {
		log.Fatal(err)
	}

	var config struct {
		TargetTables string `yaml:"target_tables"`
		SkipTables   string `yaml:"skip_tables"`
	}
	err = yaml.UnmarshalStrict(buf, &config)
	if err != nil {
		log.Fatal(err)
	}

	return GeneratorConfig{
		TargetTables: splitLines(config.TargetTables),
		SkipTables:   splitLines(config.SkipTables),
	}
}

func splitLines(str string) []string {
	if str == "" {
		return nil
	}
	return strings.Split(strings.Trim(str, "\n"), "\n")
}

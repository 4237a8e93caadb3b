package main

import (
	"context"
	"fmt"
	"log"
	"os"

	"github.com/jessevdk/go-flags"

	"github.com/spanddl/spanddl"
	"github.com/spanddl/spanddl/database"
	"github.com/spanddl/spanddl/database/spanner"
	"github.com/spanddl/spanddl/util"
)

// version and revision are set via -ldflags
var version = "dev"
var revision = "HEAD"

// Return parsed options and the connection config
func parseOptions(args []string) (database.Config, *spanddl.Options) {
	var opts struct {
		Project     string   `short:"p" long:"project" description:"GCP project ID" value-name:"project_id"`
		Instance    string   `short:"i" long:"instance" description:"Spanner instance ID" value-name:"instance_id"`
		Credentials string   `long:"credentials" description:"Service account key file, overridden by $SPANNER_CREDENTIALS" value-name:"key_file"`
		File        []string `long:"file" description:"Read desired DDL from the file, rather than stdin" value-name:"sql_file" default:"-"`
		Export      bool     `long:"export" description:"Just dump the current schema to stdout"`
		Config      string   `long:"config" description:"YAML file to specify: target_tables, skip_tables" value-name:"config_file"`
		Debug       bool     `long:"debug" description:"Pretty-print the parsed live schema to stderr"`
		Help        bool     `long:"help" description:"Show this help"`
		Version     bool     `long:"version" description:"Show this version"`
	}

	parser := flags.NewParser(&opts, flags.None)
	parser.Usage = "[OPTIONS] database < desired.sql"
	args, err := parser.ParseArgs(args)
	if err != nil {
		log.Fatal(err)
	}

	if opts.Help {
		parser.WriteHelp(os.Stdout)
		os.Exit(0)
	}

	if opts.Version {
		fmt.Printf("%s (%s)\n", version, revision)
		os.Exit(0)
	}

	if len(args) == 0 {
		fmt.Print("No database is specified!\n\n")
		parser.WriteHelp(os.Stdout)
		os.Exit(1)
	} else if len(args) > 1 {
		fmt.Printf("Multiple databases are given: %v\n\n", args)
		parser.WriteHelp(os.Stdout)
		os.Exit(1)
	}

	if len(opts.File) > 1 {
		fmt.Printf("Expected only one --file option, but got: %v\n\n", opts.File)
		os.Exit(1)
	}

	credentials, ok := os.LookupEnv("SPANNER_CREDENTIALS")
	if !ok {
		credentials = opts.Credentials
	}

	options := spanddl.Options{
		DesiredFile: opts.File[0],
		Export:      opts.Export,
		Debug:       opts.Debug,
		Config:      database.ParseGeneratorConfig(opts.Config),
	}

	config := database.Config{
		Project:         opts.Project,
		Instance:        opts.Instance,
		Database:        args[0],
		CredentialsFile: credentials,
	}
	return config, &options
}

func main() {
	util.InitSlog()
	config, options := parseOptions(os.Args[1:])
	ctx := context.Background()

	db, err := spanner.NewDatabase(ctx, config)
	if err != nil {
		log.Fatal(err)
	}
	defer db.Close()

	spanddl.Run(ctx, db, options)
}

package spanner

import (
	"context"
	"fmt"

	driver "cloud.google.com/go/spanner"
	adminapi "cloud.google.com/go/spanner/admin/database/apiv1"
	"cloud.google.com/go/spanner/admin/database/apiv1/databasepb"
	"google.golang.org/api/iterator"
	"google.golang.org/api/option"
	"google.golang.org/grpc/codes"

	"github.com/spanddl/spanddl/database"
	"github.com/spanddl/spanddl/schema"
)

// ExtendSchemaTable is the side table holding metadata the database cannot
// express natively (generation strategy, computed defaults).
const ExtendSchemaTable = "schema_extensions"

type SpannerDatabase struct {
	config database.Config
	client *driver.Client
	admin  *adminapi.DatabaseAdminClient
}

func NewDatabase(ctx context.Context, config database.Config) (database.Database, error) {
	var opts []option.ClientOption
	if config.CredentialsFile != "" {
		opts = append(opts, option.WithCredentialsFile(config.CredentialsFile))
	}

	client, err := driver.NewClient(ctx, databasePath(config), opts...)
	if err != nil {
		return nil, fmt.Errorf("spanner client unavailable: %w", err)
	}
	admin, err := adminapi.NewDatabaseAdminClient(ctx, opts...)
	if err != nil {
		client.Close()
		return nil, fmt.Errorf("spanner admin client unavailable: %w", err)
	}

	return &SpannerDatabase{
		config: config,
		client: client,
		admin:  admin,
	}, nil
}

// DumpDDLs returns the database's own DDL text, one statement per entry,
// in the order the admin API emits them.
func (d *SpannerDatabase) DumpDDLs(ctx context.Context) ([]string, error) {
	resp, err := d.admin.GetDatabaseDdl(ctx, &databasepb.GetDatabaseDdlRequest{
		Database: databasePath(d.config),
	})
	if err != nil {
		return nil, err
	}
	return resp.Statements, nil
}

// ExtendSchemas loads the side table into the per-table, per-column
// extended-metadata mapping. A missing side table means no extended
// metadata exists yet and yields an empty mapping.
func (d *SpannerDatabase) ExtendSchemas(ctx context.Context) (map[string]map[string]schema.ExtendSchema, error) {
	stmt := driver.Statement{SQL: fmt.Sprintf(
		"SELECT table_name, column_name, generator, default_value, strategy FROM %s",
		ExtendSchemaTable,
	)}

	extendSchemas := make(map[string]map[string]schema.ExtendSchema)
	iter := d.client.Single().Query(ctx, stmt)
	defer iter.Stop()
	for {
		row, err := iter.Next()
		if err == iterator.Done {
			break
		}
		if err != nil {
			if driver.ErrCode(err) == codes.NotFound {
				return extendSchemas, nil
			}
			return nil, err
		}

		var tableName, columnName string
		var generator, defaultValue, strategy driver.NullString
		if err := row.Columns(&tableName, &columnName, &generator, &defaultValue, &strategy); err != nil {
			return nil, err
		}

		if extendSchemas[tableName] == nil {
			extendSchemas[tableName] = make(map[string]schema.ExtendSchema)
		}
		extendSchemas[tableName][columnName] = schema.ExtendSchema{
			Generator: generator.Valid && generator.StringVal != "",
			Default:   defaultValue.StringVal,
			Strategy:  strategy.StringVal,
		}
	}
	return extendSchemas, nil
}

// ApplyDDLs hands migration DDL to the admin API and waits for the schema
// change to finish.
func (d *SpannerDatabase) ApplyDDLs(ctx context.Context, ddls []string) error {
	op, err := d.admin.UpdateDatabaseDdl(ctx, &databasepb.UpdateDatabaseDdlRequest{
		Database:   databasePath(d.config),
		Statements: ddls,
	})
	if err != nil {
		return err
	}
	return op.Wait(ctx)
}

// Query executes SQL written with :name / :...name placeholders after
// translating it to the native @name syntax.
func (d *SpannerDatabase) Query(ctx context.Context, sql string, named map[string]any, native map[string]any) *driver.RowIterator {
	rewritten, parameters := database.EscapeQueryWithParameters(sql, named, native)
	params := make(map[string]any, len(parameters))
	for _, parameter := range parameters {
		params[parameter.Name] = parameter.Value
	}
	return d.client.Single().Query(ctx, driver.Statement{SQL: rewritten, Params: params})
}

func (d *SpannerDatabase) Close() error {
	d.client.Close()
	return d.admin.Close()
}

func databasePath(config database.Config) string {
	return fmt.Sprintf("projects/%s/instances/%s/databases/%s",
		config.Project, config.Instance, config.Database)
}

package schema

import (
	"errors"
	"testing"

	"github.com/spanddl/spanddl/parser"
)

func TestParseTables(t *testing.T) {
	ddls := []string{
		"CREATE TABLE users (id INT64 NOT NULL, email STRING(255), profile STRING(MAX),) PRIMARY KEY(id), " +
			"CREATE UNIQUE INDEX users_email ON users(email)",
		"CREATE INDEX standalone ON users(profile)", // not modeled, skipped
		"CREATE TABLE posts (id STRING(36) NOT NULL, user_id INT64 NOT NULL, tags ARRAY<STRING(36)>,) PRIMARY KEY(id)",
	}

	tables, err := ParseTables(ddls)
	if err != nil {
		t.Fatalf("unexpected error: %s", err)
	}
	if len(tables) != 2 {
		t.Fatalf("expected 2 tables, got %d: %v", len(tables), tables)
	}

	users := tables["users"]
	if users == nil {
		t.Fatal("table users was not parsed")
	}
	if len(users.Columns) != 3 {
		t.Fatalf("expected 3 columns in users, got %d", len(users.Columns))
	}

	id := users.FindColumn("id")
	if id.TypeName != "int64" || id.Nullable || !id.Primary {
		t.Errorf("unexpected id column: %#v", id)
	}
	email := users.FindColumn("email")
	if email.TypeName != "string" || email.Length != "255" || !email.Nullable || email.Primary {
		t.Errorf("unexpected email column: %#v", email)
	}
	if !email.Unique {
		t.Errorf("email should be unique via the users_email index")
	}
	if !users.ColumnUnique("email") || users.ColumnUnique("profile") {
		t.Errorf("unexpected uniqueness predicate: %v", users.Uniques)
	}
	if len(users.Indexes) != 1 || users.Indexes[0].Name != "users_email" || !users.Indexes[0].Unique {
		t.Errorf("unexpected indexes: %#v", users.Indexes)
	}
	if len(users.Uniques) != 1 || users.Uniques[0].Name != "users_email" {
		t.Errorf("unexpected uniques: %#v", users.Uniques)
	}

	posts := tables["posts"]
	if posts == nil {
		t.Fatal("table posts was not parsed")
	}
	tags := posts.FindColumn("tags")
	if !tags.Array || tags.TypeName != "string" || tags.Length != "36" {
		t.Errorf("unexpected tags column: %#v", tags)
	}
}

func TestParseTablesUnknownPrimaryKeyColumnIgnored(t *testing.T) {
	tables, err := ParseTables([]string{
		"CREATE TABLE t (id INT64 NOT NULL,) PRIMARY KEY(id, missing)",
	})
	if err != nil {
		t.Fatalf("unexpected error: %s", err)
	}
	if !tables["t"].FindColumn("id").Primary {
		t.Errorf("id should be primary")
	}
}

func TestParseTablesInterleaveAborts(t *testing.T) {
	_, err := ParseTables([]string{
		"CREATE TABLE ok (id INT64 NOT NULL,) PRIMARY KEY(id)",
		"CREATE TABLE child (id INT64 NOT NULL,) PRIMARY KEY(id), INTERLEAVE IN PARENT ok(id)",
	})
	if !errors.Is(err, parser.ErrInterleaveNotSupported) {
		t.Errorf("expected ErrInterleaveNotSupported, got: %v", err)
	}
}

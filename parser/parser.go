// Package parser implements a recursive-descent parser for the DDL subset
// that Cloud Spanner emits when dumping a database schema. It never touches
// a database; input is raw statement text, output is a small AST.
package parser

import (
	"errors"
	"fmt"
	"strings"
)

// ErrInterleaveNotSupported is returned for any INTERLEAVE IN PARENT
// construct. Spanner's parent-child table storage has no relational
// equivalent in the modeled schema, so parsing aborts.
var ErrInterleaveNotSupported = errors.New("interleaved tables are not yet supported")

// MalformedColumnError is returned when a column clause does not match the
// `<name> <type> <rest>` shape. A column clause is mandatory structure:
// failing to read one means the DDL dialect doesn't match expectations,
// which must surface immediately rather than produce a partial table.
type MalformedColumnError struct {
	Table    string
	Fragment string
}

func (e *MalformedColumnError) Error() string {
	return fmt.Sprintf("failed to parse column clause %q of table %q", e.Fragment, e.Table)
}

// CreateTable is the parsed form of a single CREATE TABLE statement,
// including the index clauses Spanner dumps appended after the column list.
type CreateTable struct {
	Name        string
	Columns     []*ColumnDef
	PrimaryKeys []string
	Indexes     []*IndexDef
}

type ColumnDef struct {
	Name    string
	Type    ColumnType
	NotNull bool
}

// ColumnType is the resolved type token of one column clause. Length holds
// the literal length text ("255", "MAX") or "" when the type declares none.
type ColumnType struct {
	Name   string
	Array  bool
	Length string
}

type IndexDef struct {
	Name         string
	Table        string
	Columns      []string
	Unique       bool
	NullFiltered bool
}

// ParseDDL parses one DDL statement. Statements that do not match the
// `CREATE TABLE <name> ( ... ) <trailer>` shape are not modeled here
// (standalone CREATE INDEX, ALTER, ...) and yield (nil, nil): migrations
// may legitimately contain statements this subsystem does not model.
// Within a matched statement, a malformed column clause or an INTERLEAVE
// construct is a fatal error.
func ParseDDL(sql string) (*CreateTable, error) {
	p := &parser{sql: sql, tkn: NewTokenizer(sql)}
	p.next()

	if !p.acceptKeyword("CREATE") || !p.acceptKeyword("TABLE") {
		return nil, nil
	}
	if p.tok.Type != Ident {
		return nil, nil
	}
	name := p.tok.Value
	p.next()
	if p.tok.Type != LeftParen {
		return nil, nil
	}
	p.next()

	table := &CreateTable{Name: name}
	if err := p.parseColumns(table); err != nil {
		return nil, err
	}
	if err := p.parseTrailer(table); err != nil {
		return nil, err
	}
	return table, nil
}

type parser struct {
	sql string
	tkn *Tokenizer
	tok Token
}

func (p *parser) next() {
	p.tok = p.tkn.Scan()
}

func (p *parser) acceptKeyword(keyword string) bool {
	if !p.tok.IsKeyword(keyword) {
		return false
	}
	p.next()
	return true
}

// parseColumns reads the parenthesized column list up to and including the
// closing paren. The dump grammar puts a trailing comma before the close
// paren; both `col,)` and `col)` are accepted here since the tokenizer
// makes the distinction irrelevant.
func (p *parser) parseColumns(table *CreateTable) error {
	for {
		if p.tok.Type == RightParen {
			p.next()
			return nil
		}
		if p.tok.Type == EOF {
			return &MalformedColumnError{Table: table.Name, Fragment: p.fragmentFrom(p.tok.Pos)}
		}
		column, err := p.parseColumn(table.Name)
		if err != nil {
			return err
		}
		table.Columns = append(table.Columns, column)

		if p.tok.Type == Comma {
			p.next()
		}
	}
}

func (p *parser) parseColumn(tableName string) (*ColumnDef, error) {
	start := p.tok.Pos
	if p.tok.Type != Ident {
		p.skipClause()
		return nil, &MalformedColumnError{Table: tableName, Fragment: p.fragmentFrom(start)}
	}
	column := &ColumnDef{Name: p.tok.Value}
	p.next()

	columnType, ok := p.parseType()
	if !ok {
		p.skipClause()
		return nil, &MalformedColumnError{Table: tableName, Fragment: p.fragmentFrom(start)}
	}
	column.Type = columnType

	// The remainder of the clause (NOT NULL, options) is scanned but only
	// the NOT NULL marker is modeled; everything else is dropped.
	depth := 0
	for {
		switch {
		case p.tok.Type == EOF:
			return column, nil
		case depth == 0 && (p.tok.Type == Comma || p.tok.Type == RightParen):
			return column, nil
		case p.tok.Type == LeftParen:
			depth++
		case p.tok.Type == RightParen:
			depth--
		case p.tok.IsKeyword("NOT"):
			p.next()
			if p.tok.IsKeyword("NULL") {
				column.NotNull = true
			}
			continue
		}
		p.next()
	}
}

// parseType recognizes the three type shapes: `type(length)`, `type<element>`
// (an array of 1-length elements), and bare `type`. Type names are
// normalized to lower case.
func (p *parser) parseType() (ColumnType, bool) {
	if p.tok.Type != Ident {
		return ColumnType{}, false
	}
	name := strings.ToLower(p.tok.Value)
	p.next()

	switch p.tok.Type {
	case LeftParen:
		p.next()
		if p.tok.Type != Number && !p.tok.IsKeyword("MAX") {
			return ColumnType{}, false
		}
		length := strings.ToUpper(p.tok.Value)
		p.next()
		if p.tok.Type != RightParen {
			return ColumnType{}, false
		}
		p.next()
		return ColumnType{Name: name, Length: length}, true
	case LeftAngle:
		p.next()
		element, ok := p.parseType()
		if !ok {
			return ColumnType{}, false
		}
		if p.tok.Type != RightAngle {
			return ColumnType{}, false
		}
		p.next()
		if element.Length == "" {
			element.Length = "1"
		}
		return ColumnType{Name: element.Name, Array: true, Length: element.Length}, true
	default:
		return ColumnType{Name: name}, true
	}
}

// parseTrailer scans the text after the column list for index-like clauses,
// matched independently per comma-separated clause:
//
//	PRIMARY KEY(cols)                       -> primary key flags
//	<qualifiers> INDEX <name> ON <t>(cols)  -> secondary index
//	INTERLEAVE IN PARENT <t>(col)           -> fatal, unsupported
//
// Anything else is silently dropped.
func (p *parser) parseTrailer(table *CreateTable) error {
	for {
		for p.tok.Type == Comma {
			p.next()
		}
		if p.tok.Type == EOF {
			return nil
		}

		switch {
		case p.tok.IsKeyword("PRIMARY"):
			p.next()
			if !p.acceptKeyword("KEY") {
				p.skipClause()
				continue
			}
			columns, ok := p.parseColumnList()
			if !ok {
				p.skipClause()
				continue
			}
			table.PrimaryKeys = append(table.PrimaryKeys, columns...)
		case p.tok.IsKeyword("INTERLEAVE"):
			return fmt.Errorf("table %q: %w", table.Name, ErrInterleaveNotSupported)
		default:
			index, ok := p.parseIndex()
			if ok {
				table.Indexes = append(table.Indexes, index)
			} else {
				p.skipClause()
			}
		}
	}
}

// parseIndex reads a qualifier word-run followed by
// `INDEX <name> ON <table>(<cols>)`. UNIQUE and NULL_FILTERED qualifiers
// are modeled; other words are allowed but ignored.
func (p *parser) parseIndex() (*IndexDef, bool) {
	index := &IndexDef{}
	for {
		if p.tok.Type != Ident {
			return nil, false
		}
		if p.tok.IsKeyword("INDEX") {
			p.next()
			break
		}
		if p.tok.IsKeyword("UNIQUE") {
			index.Unique = true
		} else if p.tok.IsKeyword("NULL_FILTERED") {
			index.NullFiltered = true
		}
		p.next()
	}

	if p.tok.Type != Ident {
		return nil, false
	}
	index.Name = p.tok.Value
	p.next()
	if !p.acceptKeyword("ON") {
		return nil, false
	}
	if p.tok.Type != Ident {
		return nil, false
	}
	index.Table = p.tok.Value
	p.next()

	columns, ok := p.parseColumnList()
	if !ok {
		return nil, false
	}
	index.Columns = columns
	return index, true
}

func (p *parser) parseColumnList() ([]string, bool) {
	if p.tok.Type != LeftParen {
		return nil, false
	}
	p.next()

	var columns []string
	for p.tok.Type != RightParen {
		if p.tok.Type != Ident {
			return nil, false
		}
		columns = append(columns, p.tok.Value)
		p.next()
		// column ordering keywords (ASC, DESC) ride along in Spanner dumps
		if p.tok.IsKeyword("ASC") || p.tok.IsKeyword("DESC") {
			p.next()
		}
		if p.tok.Type == Comma {
			p.next()
		} else if p.tok.Type != RightParen {
			return nil, false
		}
	}
	p.next()
	return columns, true
}

// skipClause advances to the next comma at paren depth zero, or to EOF.
func (p *parser) skipClause() {
	depth := 0
	for {
		switch p.tok.Type {
		case EOF:
			return
		case Comma:
			if depth == 0 {
				return
			}
		case LeftParen:
			depth++
		case RightParen:
			depth--
		}
		p.next()
	}
}

func (p *parser) fragmentFrom(start int) string {
	if start < 0 || start >= len(p.sql) {
		return strings.TrimSpace(p.sql)
	}
	end := p.tok.Pos
	if end <= start || end > len(p.sql) {
		end = len(p.sql)
	}
	return strings.TrimSpace(p.sql[start:end])
}

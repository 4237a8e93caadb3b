package parser

import (
	"strings"
)

const eofChar = 0x100

// TokenType classifies a single lexical token of the Spanner DDL subset.
type TokenType int

const (
	EOF TokenType = iota
	Ident
	Number
	String
	LeftParen
	RightParen
	Comma
	LeftAngle
	RightAngle
	Symbol // any other punctuation, kept verbatim
)

type Token struct {
	Type  TokenType
	Value string
	Pos   int
}

// IsKeyword reports whether the token is an identifier matching the given
// keyword, case-insensitively. Spanner keywords are not reserved in this
// grammar subset, so keywords are plain identifiers until the parser asks.
func (t Token) IsKeyword(keyword string) bool {
	return t.Type == Ident && strings.EqualFold(t.Value, keyword)
}

// Tokenizer is the struct used to generate DDL tokens for the parser.
type Tokenizer struct {
	buf      []byte
	bufPos   int
	lastChar uint16
	Position int
}

// NewTokenizer creates a new Tokenizer for the DDL string.
func NewTokenizer(sql string) *Tokenizer {
	tkn := &Tokenizer{buf: []byte(sql)}
	tkn.next()
	return tkn
}

// Scan returns the next token. After the input is exhausted it keeps
// returning EOF tokens positioned at the end of the buffer.
func (tkn *Tokenizer) Scan() Token {
	tkn.skipBlank()

	pos := tkn.Position - 1
	ch := tkn.lastChar
	switch {
	case ch == eofChar:
		return Token{Type: EOF, Pos: pos}
	case isLetter(ch):
		return tkn.scanIdentifier(pos)
	case isDigit(ch):
		return tkn.scanNumber(pos)
	}

	tkn.next()
	switch ch {
	case '(':
		return Token{Type: LeftParen, Value: "(", Pos: pos}
	case ')':
		return Token{Type: RightParen, Value: ")", Pos: pos}
	case ',':
		return Token{Type: Comma, Value: ",", Pos: pos}
	case '<':
		return Token{Type: LeftAngle, Value: "<", Pos: pos}
	case '>':
		return Token{Type: RightAngle, Value: ">", Pos: pos}
	case '`':
		return tkn.scanQuotedIdentifier(pos)
	case '\'', '"':
		return tkn.scanString(ch, pos)
	case '-':
		if tkn.lastChar == '-' {
			tkn.skipLineComment()
			return tkn.Scan()
		}
		return Token{Type: Symbol, Value: "-", Pos: pos}
	case '/':
		if tkn.lastChar == '*' {
			tkn.next()
			tkn.skipBlockComment()
			return tkn.Scan()
		}
		return Token{Type: Symbol, Value: "/", Pos: pos}
	default:
		return Token{Type: Symbol, Value: string(rune(ch)), Pos: pos}
	}
}

func (tkn *Tokenizer) scanIdentifier(pos int) Token {
	start := tkn.bufPos - 1
	for isLetter(tkn.lastChar) || isDigit(tkn.lastChar) {
		tkn.next()
	}
	return Token{Type: Ident, Value: string(tkn.buf[start : tkn.bufPos-1]), Pos: pos}
}

func (tkn *Tokenizer) scanQuotedIdentifier(pos int) Token {
	var b strings.Builder
	for tkn.lastChar != '`' && tkn.lastChar != eofChar {
		b.WriteByte(byte(tkn.lastChar))
		tkn.next()
	}
	tkn.next() // closing backquote
	return Token{Type: Ident, Value: b.String(), Pos: pos}
}

func (tkn *Tokenizer) scanNumber(pos int) Token {
	start := tkn.bufPos - 1
	for isDigit(tkn.lastChar) {
		tkn.next()
	}
	return Token{Type: Number, Value: string(tkn.buf[start : tkn.bufPos-1]), Pos: pos}
}

func (tkn *Tokenizer) scanString(delim uint16, pos int) Token {
	var b strings.Builder
	for tkn.lastChar != delim && tkn.lastChar != eofChar {
		if tkn.lastChar == '\\' {
			tkn.next()
			if tkn.lastChar == eofChar {
				break
			}
		}
		b.WriteByte(byte(tkn.lastChar))
		tkn.next()
	}
	tkn.next() // closing quote
	return Token{Type: String, Value: b.String(), Pos: pos}
}

func (tkn *Tokenizer) skipBlank() {
	for tkn.lastChar == ' ' || tkn.lastChar == '\t' || tkn.lastChar == '\n' || tkn.lastChar == '\r' {
		tkn.next()
	}
}

func (tkn *Tokenizer) skipLineComment() {
	for tkn.lastChar != '\n' && tkn.lastChar != eofChar {
		tkn.next()
	}
}

func (tkn *Tokenizer) skipBlockComment() {
	for tkn.lastChar != eofChar {
		if tkn.lastChar == '*' {
			tkn.next()
			if tkn.lastChar == '/' {
				tkn.next()
				return
			}
			continue
		}
		tkn.next()
	}
}

func (tkn *Tokenizer) next() {
	if tkn.bufPos >= len(tkn.buf) {
		tkn.lastChar = eofChar
		tkn.bufPos++
	} else {
		tkn.lastChar = uint16(tkn.buf[tkn.bufPos])
		tkn.bufPos++
	}
	tkn.Position++
}

func isLetter(ch uint16) bool {
	return 'a' <= ch && ch <= 'z' || 'A' <= ch && ch <= 'Z' || ch == '_'
}

func isDigit(ch uint16) bool {
	return '0' <= ch && ch <= '9'
}

package ifc

import (
	"bufio"
	"bytes"
	"fmt"
	"io"
)

// TokenType represents the type of token
type TokenType int

const (
	TokenEOF       TokenType = iota
	TokenKeyword             // IFCBEAM, HEADER, ISO-10303-21
	TokenRef                 // #123
	TokenInteger             // 42
	TokenReal                // 1.E-3
	TokenString              // 'text'
	TokenEnum                // .T.
	TokenBinary              // "0A1F"
	TokenUnset               // $
	TokenDerived             // *
	TokenLParen              // (
	TokenRParen              // )
	TokenComma               // ,
	TokenEquals              // =
	TokenSemicolon           // ;
)

var tokenNames = map[TokenType]string{
	TokenEOF:       "EOF",
	TokenKeyword:   "Keyword",
	TokenRef:       "Ref",
	TokenInteger:   "Integer",
	TokenReal:      "Real",
	TokenString:    "String",
	TokenEnum:      "Enum",
	TokenBinary:    "Binary",
	TokenUnset:     "Unset",
	TokenDerived:   "Derived",
	TokenLParen:    "LParen",
	TokenRParen:    "RParen",
	TokenComma:     "Comma",
	TokenEquals:    "Equals",
	TokenSemicolon: "Semicolon",
}

func (t TokenType) String() string {
	if s, ok := tokenNames[t]; ok {
		return s
	}
	return fmt.Sprintf("TokenType(%d)", int(t))
}

// Token represents a lexical token. String values are kept raw;
// escape sequences are decoded by the parser.
type Token struct {
	Type  TokenType
	Value []byte
	Line  int
}

// Lexer performs lexical analysis of an ISO 10303-21 exchange file
type Lexer struct {
	reader *bufio.Reader
	line   int
}

// NewLexer creates a new lexer
func NewLexer(r io.Reader) *Lexer {
	return &Lexer{
		reader: bufio.NewReaderSize(r, 64*1024),
		line:   1,
	}
}

// Line returns the current line number
func (l *Lexer) Line() int {
	return l.line
}

// NextToken returns the next token from the input
func (l *Lexer) NextToken() (*Token, error) {
	if err := l.skipWhitespaceAndComments(); err != nil {
		return nil, err
	}

	b, err := l.peek()
	if err == io.EOF {
		return &Token{Type: TokenEOF, Line: l.line}, nil
	}
	if err != nil {
		return nil, err
	}

	switch b {
	case '(':
		return l.single(TokenLParen)
	case ')':
		return l.single(TokenRParen)
	case ',':
		return l.single(TokenComma)
	case '=':
		return l.single(TokenEquals)
	case ';':
		return l.single(TokenSemicolon)
	case '$':
		return l.single(TokenUnset)
	case '*':
		return l.single(TokenDerived)
	case '#':
		return l.readRef()
	case '\'':
		return l.readString()
	case '"':
		return l.readBinary()
	case '.':
		// .ENUM. or a real such as .5
		next, _ := l.reader.Peek(2)
		if len(next) == 2 && isDigit(next[1]) {
			return l.readNumber()
		}
		return l.readEnum()
	}

	if isDigit(b) || b == '-' || b == '+' {
		return l.readNumber()
	}

	if isAlpha(b) || b == '_' {
		return l.readKeyword()
	}

	return nil, fmt.Errorf("unexpected character '%c' at line %d", b, l.line)
}

func (l *Lexer) readByte() (byte, error) {
	b, err := l.reader.ReadByte()
	if err != nil {
		return 0, err
	}
	if b == '\n' {
		l.line++
	}
	return b, nil
}

func (l *Lexer) peek() (byte, error) {
	bytes, err := l.reader.Peek(1)
	if err != nil {
		return 0, err
	}
	return bytes[0], nil
}

func (l *Lexer) single(t TokenType) (*Token, error) {
	b, err := l.readByte()
	if err != nil {
		return nil, err
	}
	return &Token{Type: t, Value: []byte{b}, Line: l.line}, nil
}

// skipWhitespaceAndComments skips blanks and /* ... */ comments
func (l *Lexer) skipWhitespaceAndComments() error {
	for {
		b, err := l.peek()
		if err == io.EOF {
			return nil
		}
		if err != nil {
			return err
		}
		if isWhitespace(b) {
			l.readByte()
			continue
		}
		if b == '/' {
			next, _ := l.reader.Peek(2)
			if len(next) == 2 && next[1] == '*' {
				if err := l.skipComment(); err != nil {
					return err
				}
				continue
			}
		}
		return nil
	}
}

func (l *Lexer) skipComment() error {
	start := l.line
	l.readByte()
	l.readByte()
	var prev byte
	for {
		b, err := l.readByte()
		if err == io.EOF {
			return fmt.Errorf("unterminated comment starting at line %d", start)
		}
		if err != nil {
			return err
		}
		if prev == '*' && b == '/' {
			return nil
		}
		prev = b
	}
}

func (l *Lexer) readRef() (*Token, error) {
	line := l.line
	l.readByte()
	var buf bytes.Buffer
	for {
		b, err := l.peek()
		if err != nil || !isDigit(b) {
			break
		}
		l.readByte()
		buf.WriteByte(b)
	}
	if buf.Len() == 0 {
		return nil, fmt.Errorf("instance reference without number at line %d", line)
	}
	return &Token{Type: TokenRef, Value: buf.Bytes(), Line: line}, nil
}

// readString reads a quoted string. A doubled quote is an escaped quote.
func (l *Lexer) readString() (*Token, error) {
	line := l.line
	l.readByte()
	var buf bytes.Buffer
	for {
		b, err := l.readByte()
		if err == io.EOF {
			return nil, fmt.Errorf("unterminated string starting at line %d", line)
		}
		if err != nil {
			return nil, err
		}
		if b == '\'' {
			next, err := l.peek()
			if err == nil && next == '\'' {
				l.readByte()
				buf.WriteByte('\'')
				continue
			}
			return &Token{Type: TokenString, Value: buf.Bytes(), Line: line}, nil
		}
		if b == '\n' || b == '\r' {
			// line breaks inside strings are not significant
			continue
		}
		buf.WriteByte(b)
	}
}

func (l *Lexer) readBinary() (*Token, error) {
	line := l.line
	l.readByte()
	var buf bytes.Buffer
	for {
		b, err := l.readByte()
		if err == io.EOF {
			return nil, fmt.Errorf("unterminated binary starting at line %d", line)
		}
		if err != nil {
			return nil, err
		}
		if b == '"' {
			return &Token{Type: TokenBinary, Value: buf.Bytes(), Line: line}, nil
		}
		buf.WriteByte(b)
	}
}

func (l *Lexer) readEnum() (*Token, error) {
	line := l.line
	l.readByte()
	var buf bytes.Buffer
	for {
		b, err := l.readByte()
		if err == io.EOF {
			return nil, fmt.Errorf("unterminated enumeration at line %d", line)
		}
		if err != nil {
			return nil, err
		}
		if b == '.' {
			break
		}
		if !isAlpha(b) && !isDigit(b) && b != '_' {
			return nil, fmt.Errorf("invalid character '%c' in enumeration at line %d", b, line)
		}
		buf.WriteByte(b)
	}
	if buf.Len() == 0 {
		return nil, fmt.Errorf("empty enumeration at line %d", line)
	}
	return &Token{Type: TokenEnum, Value: bytes.ToUpper(buf.Bytes()), Line: line}, nil
}

// readNumber reads an integer or a real. Reals carry a decimal point
// or an exponent.
func (l *Lexer) readNumber() (*Token, error) {
	line := l.line
	var buf bytes.Buffer
	isReal := false

	b, _ := l.peek()
	if b == '-' || b == '+' {
		l.readByte()
		buf.WriteByte(b)
	}

loop:
	for {
		b, err := l.peek()
		if err != nil {
			break
		}
		switch {
		case isDigit(b):
			buf.WriteByte(b)
		case b == '.':
			isReal = true
			buf.WriteByte(b)
		case b == 'E' || b == 'e':
			isReal = true
			buf.WriteByte('E')
			l.readByte()
			if s, err := l.peek(); err == nil && (s == '-' || s == '+') {
				l.readByte()
				buf.WriteByte(s)
			}
			continue
		default:
			break loop
		}
		l.readByte()
	}

	digits := bytes.Trim(buf.Bytes(), "+-.E")
	if len(digits) == 0 {
		return nil, fmt.Errorf("malformed number %q at line %d", buf.String(), line)
	}
	if isReal {
		return &Token{Type: TokenReal, Value: buf.Bytes(), Line: line}, nil
	}
	return &Token{Type: TokenInteger, Value: buf.Bytes(), Line: line}, nil
}

// readKeyword reads an entity name or a section keyword. Hyphens are
// allowed for ISO-10303-21 and END-ISO-10303-21.
func (l *Lexer) readKeyword() (*Token, error) {
	line := l.line
	var buf bytes.Buffer
	for {
		b, err := l.peek()
		if err != nil {
			break
		}
		if !isAlpha(b) && !isDigit(b) && b != '_' && b != '-' {
			break
		}
		l.readByte()
		buf.WriteByte(b)
	}
	return &Token{Type: TokenKeyword, Value: bytes.ToUpper(buf.Bytes()), Line: line}, nil
}

func isWhitespace(b byte) bool {
	return b == ' ' || b == '\t' || b == '\n' || b == '\r' || b == '\f' || b == 0
}

func isDigit(b byte) bool {
	return b >= '0' && b <= '9'
}

func isAlpha(b byte) bool {
	return (b >= 'a' && b <= 'z') || (b >= 'A' && b <= 'Z')
}

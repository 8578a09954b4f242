package ifc

import (
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/alexiusacademia/ifcfem/internal/model"
)

// Parser reads an exchange file with two tokens of lookahead
type Parser struct {
	lexer        *Lexer
	currentToken *Token
	peekToken    *Token
	err          error
}

// NewParser creates a parser and loads the first two tokens
func NewParser(r io.Reader) *Parser {
	p := &Parser{lexer: NewLexer(r)}
	p.nextToken()
	p.nextToken()
	return p
}

func (p *Parser) nextToken() {
	p.currentToken = p.peekToken
	if p.err != nil {
		p.peekToken = &Token{Type: TokenEOF, Line: p.lexer.Line()}
		return
	}
	token, err := p.lexer.NextToken()
	if err != nil {
		p.err = err
		token = &Token{Type: TokenEOF, Line: p.lexer.Line()}
	}
	p.peekToken = token
}

// failf returns a FileFormatError at the current line
func (p *Parser) failf(format string, args ...any) error {
	line := p.lexer.Line()
	if p.currentToken != nil {
		line = p.currentToken.Line
	}
	if p.err != nil {
		return &model.FileFormatError{Line: line, Err: p.err}
	}
	return &model.FileFormatError{Line: line, Err: fmt.Errorf(format, args...)}
}

func (p *Parser) expect(t TokenType) error {
	if p.currentToken.Type != t {
		return p.failf("expected %s, got %s %q", t, p.currentToken.Type, p.currentToken.Value)
	}
	p.nextToken()
	return nil
}

func (p *Parser) expectKeyword(kw string) error {
	if p.currentToken.Type != TokenKeyword || string(p.currentToken.Value) != kw {
		return p.failf("expected %s, got %s %q", kw, p.currentToken.Type, p.currentToken.Value)
	}
	p.nextToken()
	return nil
}

func (p *Parser) isKeyword(kw string) bool {
	return p.currentToken.Type == TokenKeyword && string(p.currentToken.Value) == kw
}

// Parse reads a complete exchange file
func (p *Parser) Parse() (*File, error) {
	f := newFile()

	if err := p.expectKeyword("ISO-10303-21"); err != nil {
		return nil, err
	}
	if err := p.expect(TokenSemicolon); err != nil {
		return nil, err
	}

	if err := p.parseHeader(f); err != nil {
		return nil, err
	}

	sawData := false
	for p.isKeyword("DATA") {
		sawData = true
		if err := p.parseData(f); err != nil {
			return nil, err
		}
	}
	if !sawData {
		return nil, p.failf("missing DATA section")
	}

	if p.currentToken.Type != TokenEOF {
		if err := p.expectKeyword("END-ISO-10303-21"); err != nil {
			return nil, err
		}
	}
	if p.err != nil {
		return nil, p.failf("")
	}

	f.index()
	return f, nil
}

func (p *Parser) parseHeader(f *File) error {
	if err := p.expectKeyword("HEADER"); err != nil {
		return err
	}
	if err := p.expect(TokenSemicolon); err != nil {
		return err
	}
	for !p.isKeyword("ENDSEC") {
		if p.currentToken.Type != TokenKeyword {
			return p.failf("expected header entity, got %s", p.currentToken.Type)
		}
		name := string(p.currentToken.Value)
		p.nextToken()
		args, err := p.parseArgs()
		if err != nil {
			return err
		}
		if err := p.expect(TokenSemicolon); err != nil {
			return err
		}
		f.Header[name] = args
	}
	p.nextToken()
	return p.expect(TokenSemicolon)
}

func (p *Parser) parseData(f *File) error {
	p.nextToken()
	// DATA may carry a section name and schema in later editions
	if p.currentToken.Type == TokenLParen {
		if _, err := p.parseArgs(); err != nil {
			return err
		}
	}
	if err := p.expect(TokenSemicolon); err != nil {
		return err
	}

	for !p.isKeyword("ENDSEC") {
		inst, err := p.parseInstance()
		if err != nil {
			return err
		}
		if _, dup := f.byID[inst.ID]; dup {
			return p.failf("duplicate instance #%d", inst.ID)
		}
		f.add(inst)
	}
	p.nextToken()
	return p.expect(TokenSemicolon)
}

// parseInstance reads #id = TYPE(args); or a complex #id = (A(..)B(..));
func (p *Parser) parseInstance() (*Instance, error) {
	if p.currentToken.Type != TokenRef {
		return nil, p.failf("expected instance name, got %s %q", p.currentToken.Type, p.currentToken.Value)
	}
	id, err := strconv.Atoi(string(p.currentToken.Value))
	if err != nil {
		return nil, p.failf("invalid instance name #%s", p.currentToken.Value)
	}
	line := p.currentToken.Line
	p.nextToken()
	if err := p.expect(TokenEquals); err != nil {
		return nil, err
	}

	inst := &Instance{ID: id, Line: line}
	switch p.currentToken.Type {
	case TokenKeyword:
		inst.Type = string(p.currentToken.Value)
		p.nextToken()
		args, err := p.parseArgs()
		if err != nil {
			return nil, err
		}
		inst.Args = args
	case TokenLParen:
		p.nextToken()
		var names []string
		for p.currentToken.Type == TokenKeyword {
			names = append(names, string(p.currentToken.Value))
			p.nextToken()
			args, err := p.parseArgs()
			if err != nil {
				return nil, err
			}
			inst.Args = append(inst.Args, args...)
		}
		if len(names) == 0 {
			return nil, p.failf("empty complex instance #%d", id)
		}
		if err := p.expect(TokenRParen); err != nil {
			return nil, err
		}
		inst.Type = strings.Join(names, "+")
	default:
		return nil, p.failf("expected entity name for #%d, got %s", id, p.currentToken.Type)
	}

	if err := p.expect(TokenSemicolon); err != nil {
		return nil, err
	}
	return inst, nil
}

// parseArgs reads a parenthesised, comma separated parameter list
func (p *Parser) parseArgs() (List, error) {
	if err := p.expect(TokenLParen); err != nil {
		return nil, err
	}
	args := List{}
	if p.currentToken.Type == TokenRParen {
		p.nextToken()
		return args, nil
	}
	for {
		v, err := p.parseValue()
		if err != nil {
			return nil, err
		}
		args = append(args, v)

		switch p.currentToken.Type {
		case TokenComma:
			p.nextToken()
		case TokenRParen:
			p.nextToken()
			return args, nil
		default:
			return nil, p.failf("expected ',' or ')', got %s %q", p.currentToken.Type, p.currentToken.Value)
		}
	}
}

func (p *Parser) parseValue() (Value, error) {
	tok := p.currentToken
	switch tok.Type {
	case TokenRef:
		id, err := strconv.Atoi(string(tok.Value))
		if err != nil {
			return nil, p.failf("invalid reference #%s", tok.Value)
		}
		p.nextToken()
		return Ref(id), nil
	case TokenInteger:
		n, err := strconv.ParseInt(string(tok.Value), 10, 64)
		if err != nil {
			return nil, p.failf("invalid integer %q", tok.Value)
		}
		p.nextToken()
		return Integer(n), nil
	case TokenReal:
		f, err := parseReal(string(tok.Value))
		if err != nil {
			return nil, p.failf("invalid real %q", tok.Value)
		}
		p.nextToken()
		return Real(f), nil
	case TokenString:
		s, err := DecodeString(string(tok.Value))
		if err != nil {
			return nil, p.failf("invalid string: %v", err)
		}
		p.nextToken()
		return String(s), nil
	case TokenEnum:
		p.nextToken()
		return Enum(tok.Value), nil
	case TokenBinary:
		p.nextToken()
		return Binary(tok.Value), nil
	case TokenUnset:
		p.nextToken()
		return Unset{}, nil
	case TokenDerived:
		p.nextToken()
		return Derived{}, nil
	case TokenLParen:
		return p.parseArgs()
	case TokenKeyword:
		name := string(tok.Value)
		p.nextToken()
		args, err := p.parseArgs()
		if err != nil {
			return nil, err
		}
		if len(args) != 1 {
			return nil, p.failf("typed parameter %s expects one value, got %d", name, len(args))
		}
		return Typed{Type: name, Value: args[0]}, nil
	}
	return nil, p.failf("unexpected %s %q in parameter list", tok.Type, tok.Value)
}

// parseReal accepts the exchange file forms 1., 1.E-3 and .5
func parseReal(s string) (float64, error) {
	if strings.HasSuffix(s, ".") {
		s += "0"
	}
	s = strings.Replace(s, ".E", ".0E", 1)
	f, err := strconv.ParseFloat(s, 64)
	if err != nil {
		var numErr *strconv.NumError
		if errors.As(err, &numErr) && errors.Is(numErr.Err, strconv.ErrRange) {
			return f, nil
		}
		return 0, err
	}
	return f, nil
}

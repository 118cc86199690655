package itemtext

import "strconv"

// Parse parses one complete value out of the input. The result is one of:
// []interface{} (list), map[string]interface{} (object), string (quoted
// string or bare identifier) or float64 (number). Trailing content after
// the value is an error, as is an empty input.
func Parse(input string) (interface{}, error) {
	p := &parser{lex: newLexer(input)}
	if err := p.advance(); err != nil {
		return nil, err
	}

	value, err := p.parseValue()
	if err != nil {
		return nil, err
	}

	if p.tok.kind != tokenEOF {
		return nil, p.lex.errorf(p.tok.pos, "unexpected %s after value", p.tok.kind)
	}
	return value, nil
}

type parser struct {
	lex *lexer
	tok token
}

// advance moves to the next token
func (p *parser) advance() error {
	tok, err := p.lex.next()
	if err != nil {
		return err
	}
	p.tok = tok
	return nil
}

// expect consumes a token of the given kind
func (p *parser) expect(kind tokenKind) error {
	if p.tok.kind != kind {
		return p.lex.errorf(p.tok.pos, "expected %s, got %s", kind, p.tok.kind)
	}
	return p.advance()
}

func (p *parser) parseValue() (interface{}, error) {
	switch p.tok.kind {
	case tokenLBracket:
		return p.parseList()
	case tokenLBrace:
		return p.parseObject()
	case tokenString, tokenIdent:
		text := p.tok.text
		if err := p.advance(); err != nil {
			return nil, err
		}
		return text, nil
	case tokenNumber:
		n, err := strconv.ParseFloat(p.tok.text, 64)
		if err != nil {
			return nil, p.lex.errorf(p.tok.pos, "malformed number %q", p.tok.text)
		}
		if err := p.advance(); err != nil {
			return nil, err
		}
		return n, nil
	default:
		return nil, p.lex.errorf(p.tok.pos, "expected value, got %s", p.tok.kind)
	}
}

func (p *parser) parseList() (interface{}, error) {
	if err := p.expect(tokenLBracket); err != nil {
		return nil, err
	}

	list := []interface{}{}
	if p.tok.kind == tokenRBracket {
		return list, p.advance()
	}

	for {
		value, err := p.parseValue()
		if err != nil {
			return nil, err
		}
		list = append(list, value)

		if p.tok.kind != tokenComma {
			break
		}
		if err := p.advance(); err != nil {
			return nil, err
		}
	}

	if err := p.expect(tokenRBracket); err != nil {
		return nil, err
	}
	return list, nil
}

func (p *parser) parseObject() (interface{}, error) {
	if err := p.expect(tokenLBrace); err != nil {
		return nil, err
	}

	object := map[string]interface{}{}
	if p.tok.kind == tokenRBrace {
		return object, p.advance()
	}

	for {
		// Keys may be quoted strings or bare identifiers
		if p.tok.kind != tokenString && p.tok.kind != tokenIdent {
			return nil, p.lex.errorf(p.tok.pos, "expected object key, got %s", p.tok.kind)
		}
		key := p.tok.text
		if err := p.advance(); err != nil {
			return nil, err
		}

		if err := p.expect(tokenColon); err != nil {
			return nil, err
		}

		value, err := p.parseValue()
		if err != nil {
			return nil, err
		}
		object[key] = value

		if p.tok.kind != tokenComma {
			break
		}
		if err := p.advance(); err != nil {
			return nil, err
		}
	}

	if err := p.expect(tokenRBrace); err != nil {
		return nil, err
	}
	return object, nil
}

package queryfmt

import (
	"fmt"
	"strconv"
	"strings"
	"unicode/utf8"
)

// parseLiteral parses a single literal expression in the loose style many
// stored descriptors use: single- or double-quoted strings, unquoted
// True/False/None, ints, floats, lists, tuples and dicts, with optional
// trailing commas. It returns the decoded value or an error when the text
// is not a literal.
func parseLiteral(s string) (interface{}, error) {
	p := &literalParser{input: s}
	p.skipSpace()
	v, err := p.parseValue()
	if err != nil {
		return nil, err
	}
	p.skipSpace()
	if p.pos != len(p.input) {
		return nil, fmt.Errorf("trailing data at offset %d", p.pos)
	}
	return v, nil
}

type literalParser struct {
	input string
	pos   int
}

func (p *literalParser) skipSpace() {
	for p.pos < len(p.input) {
		switch p.input[p.pos] {
		case ' ', '\t', '\n', '\r':
			p.pos++
		default:
			return
		}
	}
}

func (p *literalParser) peek() (byte, bool) {
	if p.pos >= len(p.input) {
		return 0, false
	}
	return p.input[p.pos], true
}

func (p *literalParser) expect(c byte) error {
	b, ok := p.peek()
	if !ok {
		return fmt.Errorf("unexpected end of input, want %q", c)
	}
	if b != c {
		return fmt.Errorf("unexpected character %q at offset %d, want %q", b, p.pos, c)
	}
	p.pos++
	return nil
}

func (p *literalParser) parseValue() (interface{}, error) {
	b, ok := p.peek()
	if !ok {
		return nil, fmt.Errorf("unexpected end of input")
	}
	switch {
	case b == '{':
		return p.parseDict()
	case b == '[':
		return p.parseSeq('[', ']')
	case b == '(':
		return p.parseSeq('(', ')')
	case b == '\'' || b == '"':
		return p.parseString()
	case b == '-' || b == '+' || b == '.' || (b >= '0' && b <= '9'):
		return p.parseNumber()
	default:
		return p.parseKeyword()
	}
}

func (p *literalParser) parseDict() (interface{}, error) {
	if err := p.expect('{'); err != nil {
		return nil, err
	}
	result := make(map[string]interface{})
	for {
		p.skipSpace()
		if b, ok := p.peek(); ok && b == '}' {
			p.pos++
			return result, nil
		}
		key, err := p.parseValue()
		if err != nil {
			return nil, err
		}
		ks, ok := key.(string)
		if !ok {
			return nil, fmt.Errorf("unsupported dict key of type %T", key)
		}
		p.skipSpace()
		if err := p.expect(':'); err != nil {
			return nil, err
		}
		p.skipSpace()
		val, err := p.parseValue()
		if err != nil {
			return nil, err
		}
		result[ks] = val

		p.skipSpace()
		b, ok := p.peek()
		if !ok {
			return nil, fmt.Errorf("unterminated dict")
		}
		switch b {
		case ',':
			p.pos++
		case '}':
			// closed on next loop iteration
		default:
			return nil, fmt.Errorf("unexpected character %q at offset %d in dict", b, p.pos)
		}
	}
}

func (p *literalParser) parseSeq(open, close byte) (interface{}, error) {
	if err := p.expect(open); err != nil {
		return nil, err
	}
	result := []interface{}{}
	for {
		p.skipSpace()
		if b, ok := p.peek(); ok && b == close {
			p.pos++
			return result, nil
		}
		val, err := p.parseValue()
		if err != nil {
			return nil, err
		}
		result = append(result, val)

		p.skipSpace()
		b, ok := p.peek()
		if !ok {
			return nil, fmt.Errorf("unterminated sequence")
		}
		switch b {
		case ',':
			p.pos++
		case close:
			// closed on next loop iteration
		default:
			return nil, fmt.Errorf("unexpected character %q at offset %d in sequence", b, p.pos)
		}
	}
}

func (p *literalParser) parseString() (interface{}, error) {
	quote := p.input[p.pos]
	p.pos++
	var sb strings.Builder
	for {
		if p.pos >= len(p.input) {
			return nil, fmt.Errorf("unterminated string")
		}
		c := p.input[p.pos]
		switch c {
		case quote:
			p.pos++
			return sb.String(), nil
		case '\\':
			p.pos++
			if p.pos >= len(p.input) {
				return nil, fmt.Errorf("unterminated escape")
			}
			e := p.input[p.pos]
			p.pos++
			switch e {
			case '\\', '\'', '"':
				sb.WriteByte(e)
			case 'n':
				sb.WriteByte('\n')
			case 't':
				sb.WriteByte('\t')
			case 'r':
				sb.WriteByte('\r')
			case 'b':
				sb.WriteByte('\b')
			case 'f':
				sb.WriteByte('\f')
			case '0':
				sb.WriteByte(0)
			case 'x':
				if p.pos+2 > len(p.input) {
					return nil, fmt.Errorf("truncated \\x escape")
				}
				n, err := strconv.ParseUint(p.input[p.pos:p.pos+2], 16, 8)
				if err != nil {
					return nil, fmt.Errorf("invalid \\x escape: %w", err)
				}
				sb.WriteByte(byte(n))
				p.pos += 2
			case 'u':
				if p.pos+4 > len(p.input) {
					return nil, fmt.Errorf("truncated \\u escape")
				}
				n, err := strconv.ParseUint(p.input[p.pos:p.pos+4], 16, 32)
				if err != nil {
					return nil, fmt.Errorf("invalid \\u escape: %w", err)
				}
				sb.WriteRune(rune(n))
				p.pos += 4
			default:
				// unknown escape: keep the backslash verbatim
				sb.WriteByte('\\')
				sb.WriteByte(e)
			}
		default:
			r, size := utf8.DecodeRuneInString(p.input[p.pos:])
			sb.WriteRune(r)
			p.pos += size
		}
	}
}

func (p *literalParser) parseNumber() (interface{}, error) {
	start := p.pos
	if b, ok := p.peek(); ok && (b == '-' || b == '+') {
		p.pos++
	}
	for p.pos < len(p.input) {
		c := p.input[p.pos]
		if (c >= '0' && c <= '9') || c == '.' || c == 'e' || c == 'E' {
			p.pos++
			continue
		}
		// exponent sign
		if (c == '-' || c == '+') && p.pos > start &&
			(p.input[p.pos-1] == 'e' || p.input[p.pos-1] == 'E') {
			p.pos++
			continue
		}
		break
	}
	text := p.input[start:p.pos]
	if i, err := strconv.ParseInt(text, 10, 64); err == nil {
		return i, nil
	}
	f, err := strconv.ParseFloat(text, 64)
	if err != nil {
		return nil, fmt.Errorf("invalid number %q at offset %d", text, start)
	}
	return f, nil
}

func (p *literalParser) parseKeyword() (interface{}, error) {
	start := p.pos
	for p.pos < len(p.input) {
		c := p.input[p.pos]
		if (c >= 'a' && c <= 'z') || (c >= 'A' && c <= 'Z') {
			p.pos++
			continue
		}
		break
	}
	switch p.input[start:p.pos] {
	case "True":
		return true, nil
	case "False":
		return false, nil
	case "None":
		return nil, nil
	}
	return nil, fmt.Errorf("unexpected token at offset %d", start)
}

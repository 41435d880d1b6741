package reader

import "fmt"

type tokenKind int

const (
	tokenEOF tokenKind = iota
	tokenLParen
	tokenRParen
	tokenQuote
	tokenAtom
)

type token struct {
	kind tokenKind
	text string
}

type lexer struct {
	src    string
	pos    int
	buffer *token
}

func newLexer(src string) *lexer {
	return &lexer{src: src}
}

func (l *lexer) peek() (token, error) {
	if l.buffer == nil {
		tok, err := l.scan()
		if err != nil {
			return token{}, err
		}
		l.buffer = &tok
	}
	return *l.buffer, nil
}

func (l *lexer) next() (token, error) {
	if l.buffer != nil {
		tok := *l.buffer
		l.buffer = nil
		return tok, nil
	}
	return l.scan()
}

func (l *lexer) scan() (token, error) {
	l.skipBlank()
	if l.pos >= len(l.src) {
		return token{kind: tokenEOF}, nil
	}
	switch c := l.src[l.pos]; c {
	case '(':
		l.pos++
		return token{kind: tokenLParen, text: "("}, nil
	case ')':
		l.pos++
		return token{kind: tokenRParen, text: ")"}, nil
	case '\'':
		l.pos++
		return token{kind: tokenQuote, text: "'"}, nil
	default:
		start := l.pos
		for l.pos < len(l.src) && !isDelimiter(l.src[l.pos]) {
			l.pos++
		}
		if l.pos == start {
			return token{}, fmt.Errorf("unexpected character %q", c)
		}
		return token{kind: tokenAtom, text: l.src[start:l.pos]}, nil
	}
}

// skipBlank consumes whitespace and ; comments, which run to end of line.
func (l *lexer) skipBlank() {
	for l.pos < len(l.src) {
		c := l.src[l.pos]
		if c == ';' {
			for l.pos < len(l.src) && l.src[l.pos] != '\n' {
				l.pos++
			}
			continue
		}
		if c != ' ' && c != '\t' && c != '\r' && c != '\n' {
			return
		}
		l.pos++
	}
}

func isDelimiter(c byte) bool {
	switch c {
	case ' ', '\t', '\r', '\n', '(', ')', '\'', ';':
		return true
	}
	return false
}

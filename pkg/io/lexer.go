package io

import (
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/alecthomas/participle/v2/lexer"

	"github.com/placerlab/placer/pkg/errors"
)

// layoutLexer tokenizes layout files.
var layoutLexer = lexer.MustSimple([]lexer.SimpleRule{
	{Name: "Word", Pattern: `[A-Za-z_]+`},
	{Name: "Int", Pattern: `[-+]?\d+`},
	{Name: "Whitespace", Pattern: `\s+`},
})

var (
	tokWord       = layoutLexer.Symbols()["Word"]
	tokInt        = layoutLexer.Symbols()["Int"]
	tokWhitespace = layoutLexer.Symbols()["Whitespace"]
)

// scanner pulls significant tokens from a layout file.
type scanner struct {
	lex  lexer.Lexer
	peek *lexer.Token
	pos  lexer.Position
}

func newScanner(filename string, r io.Reader) (*scanner, error) {
	lex, err := layoutLexer.Lex(filename, r)
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidLayout, err, "tokenize %s", filename)
	}
	return &scanner{lex: lex, pos: lexer.Position{Filename: filename, Line: 1, Column: 1}}, nil
}

func (s *scanner) next() (lexer.Token, error) {
	if s.peek != nil {
		t := *s.peek
		s.peek = nil
		return t, nil
	}
	for {
		t, err := s.lex.Next()
		if err != nil {
			return t, errors.Wrap(errors.ErrCodeInvalidLayout, err, "%s", s.pos)
		}
		if t.Type == tokWhitespace {
			continue
		}
		if !t.EOF() {
			s.pos = t.Pos
		}
		return t, nil
	}
}

func (s *scanner) atEOF() (bool, error) {
	t, err := s.next()
	if err != nil {
		return false, err
	}
	s.peek = &t
	return t.EOF(), nil
}

// section consumes a section header such as "Devices".
func (s *scanner) section(name string) error {
	t, err := s.next()
	if err != nil {
		return err
	}
	if t.Type != tokWord || !strings.EqualFold(t.Value, name) {
		return s.unexpected(t, "section %q", name)
	}
	return nil
}

// int consumes an integer token; what names the field for error messages.
func (s *scanner) int(what string) (int, error) {
	t, err := s.next()
	if err != nil {
		return 0, err
	}
	if t.Type != tokInt {
		return 0, s.unexpected(t, "%s", what)
	}
	v, err := strconv.Atoi(t.Value)
	if err != nil {
		return 0, errors.Wrap(errors.ErrCodeInvalidLayout, err, "%s: %s", t.Pos, what)
	}
	return v, nil
}

func (s *scanner) ints(what ...string) ([]int, error) {
	out := make([]int, len(what))
	for i, w := range what {
		v, err := s.int(w)
		if err != nil {
			return nil, err
		}
		out[i] = v
	}
	return out, nil
}

func (s *scanner) unexpected(t lexer.Token, format string, args ...any) error {
	want := fmt.Sprintf(format, args...)
	if t.EOF() {
		return errors.New(errors.ErrCodeInvalidLayout, "%s: unexpected end of file, want %s", s.pos, want)
	}
	return errors.New(errors.ErrCodeInvalidLayout, "%s: unexpected %q, want %s", t.Pos, t.Value, want)
}

// failf reports a semantic error at the last token read.
func (s *scanner) failf(format string, args ...any) error {
	return errors.New(errors.ErrCodeInvalidLayout, "%s: %s", s.pos, fmt.Sprintf(format, args...))
}

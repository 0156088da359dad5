// Package directive parses vylint suppression comments out of Vyper source.
//
// The compiler's AST drops comments, so directives are recovered from the
// raw source text. A directive suppresses matching issues on its own line
// and on the line directly below; a directive on line 1 covers the whole
// file.
//
//	value: uint256 = self.rate  # vylint: disable=VY002
//	# vylint: disable=VY003,VY004
//	# vylint: disable
package directive

import (
	"bufio"
	"bytes"
	"strings"

	"github.com/alecthomas/participle/v2"
	"github.com/alecthomas/participle/v2/lexer"
)

// Directive is one parsed suppression comment.
type Directive struct {
	Line  int      // 1-based source line
	Codes []string // empty suppresses every rule
	used  bool
}

// Matches reports whether the directive covers the given rule code.
func (d *Directive) Matches(code string) bool {
	if len(d.Codes) == 0 {
		return true
	}
	for _, c := range d.Codes {
		if c == code {
			return true
		}
	}
	return false
}

var directiveLexer = lexer.MustStateful(lexer.Rules{
	"Root": {
		// Code before Ident: rule codes are uppercase, the keywords lowercase.
		{Name: "Code", Pattern: `VY[0-9]+`, Action: nil},
		{Name: "Ident", Pattern: `[a-z][a-z0-9_]*`, Action: nil},
		{Name: "Punct", Pattern: `[:=,]`, Action: nil},
		{Name: "Whitespace", Pattern: `[ \t]+`, Action: nil},
	},
})

// payload is the comment tail after '#'. The whole tail must parse as a
// directive; trailing prose disqualifies the comment.
type payload struct {
	Codes []string `parser:"\"vylint\" \":\" \"disable\" (\"=\" @Code (\",\" @Code)*)?"`
}

var directiveParser = participle.MustBuild[payload](
	participle.Lexer(directiveLexer),
	participle.Elide("Whitespace"),
)

// Set holds the suppression directives of one source file. It is meant for
// single-goroutine use; the lint runner builds one Set per file.
type Set struct {
	byLine   map[int]*Directive
	fileWide *Directive
	all      []*Directive
}

// Parse scans source for directives. Lines are numbered from 1.
func Parse(source []byte) *Set {
	s := &Set{byLine: make(map[int]*Directive)}
	scanner := bufio.NewScanner(bytes.NewReader(source))
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	line := 0
	for scanner.Scan() {
		line++
		d := parseLine(scanner.Text(), line)
		if d == nil {
			continue
		}
		s.all = append(s.all, d)
		s.byLine[line] = d
		if line == 1 {
			s.fileWide = d
			// A file-wide directive is deliberate; never report it unused.
			d.used = true
		}
	}
	return s
}

// parseLine tries every comment start in the line until one parses as a
// directive. A '#' inside a string literal fails to parse and is skipped.
func parseLine(text string, line int) *Directive {
	for at := 0; ; {
		idx := strings.IndexByte(text[at:], '#')
		if idx < 0 {
			return nil
		}
		at += idx + 1
		if p, err := directiveParser.ParseString("", text[at:]); err == nil {
			return &Directive{Line: line, Codes: p.Codes}
		}
	}
}

// Suppressed reports whether an issue with the given code on the given line
// is silenced. Consulted directives are marked used.
func (s *Set) Suppressed(line int, code string) bool {
	if s.fileWide != nil && s.fileWide.Matches(code) {
		return true
	}
	if d := s.byLine[line]; d != nil && d.Matches(code) {
		d.used = true
		return true
	}
	if d := s.byLine[line-1]; d != nil && d.Matches(code) {
		d.used = true
		return true
	}
	return false
}

// Unused returns the directives that never suppressed anything, in source
// order. The file-wide directive is exempt.
func (s *Set) Unused() []*Directive {
	var out []*Directive
	for _, d := range s.all {
		if !d.used {
			out = append(out, d)
		}
	}
	return out
}

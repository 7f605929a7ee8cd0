package parser

import (
	"fmt"
	"io"
	"strconv"

	"github.com/arcfire/phongtrace/internal/sceneerr"
	"github.com/arcfire/phongtrace/internal/vec"
)

// AttrKind distinguishes the four shapes an attribute value can take
// (section 6): a float, a three-float vector, a bareword, or a nested
// paragraph more deeply indented than its key.
type AttrKind int

const (
	AttrWord AttrKind = iota
	AttrFloat
	AttrVector
	AttrParagraph
)

// Attr is one resolved attribute value.
type Attr struct {
	Kind      AttrKind
	Word      string
	Float     float64
	Vector    vec.Vec3
	Paragraph *Paragraph
	Line      int
}

// Paragraph is one `kind class` block together with its attribute lines.
// Attributes are stored as slices because a key (e.g. "child" on a Compound
// material) may repeat.
type Paragraph struct {
	Kind  string
	Class string
	Attrs map[string][]Attr
	Line  int
}

// Get returns the first occurrence of key, or ok=false if absent.
func (p *Paragraph) Get(key string) (Attr, bool) {
	vs := p.Attrs[key]
	if len(vs) == 0 {
		return Attr{}, false
	}
	return vs[0], true
}

// All returns every occurrence of key in file order.
func (p *Paragraph) All(key string) []Attr { return p.Attrs[key] }

// Float returns the float attribute at key, or def if absent.
func (p *Paragraph) Float(key string, def float64) float64 {
	if a, ok := p.Get(key); ok && a.Kind == AttrFloat {
		return a.Float
	}
	return def
}

// Vector returns the vector attribute at key, or def if absent.
func (p *Paragraph) Vector(key string, def vec.Vec3) vec.Vec3 {
	if a, ok := p.Get(key); ok && a.Kind == AttrVector {
		return a.Vector
	}
	return def
}

// Word returns the bareword attribute at key, or def if absent.
func (p *Paragraph) Word(key, def string) string {
	if a, ok := p.Get(key); ok && a.Kind == AttrWord {
		return a.Word
	}
	return def
}

// Nested returns the nested-paragraph attribute at key.
func (p *Paragraph) Nested(key string) (*Paragraph, bool) {
	if a, ok := p.Get(key); ok && a.Kind == AttrParagraph {
		return a.Paragraph, true
	}
	return nil, false
}

// Parse tokenizes r and parses its sequence of top-level paragraphs.
func Parse(r io.Reader) ([]*Paragraph, error) {
	lines, err := tokenize(r)
	if err != nil {
		return nil, err
	}

	var paragraphs []*Paragraph
	pos := 0
	for pos < len(lines) {
		header := lines[pos]
		if len(header.tokens) != 2 {
			return nil, sceneerr.NewParseError(header.lineNo,
				fmt.Sprintf("paragraph header must have exactly two tokens (kind, class), got %q", header.tokens), nil)
		}
		var p *Paragraph
		p, pos, err = parseBody(header.tokens[0], header.tokens[1], header.lineNo, lines, pos+1, header.indent)
		if err != nil {
			return nil, err
		}
		paragraphs = append(paragraphs, p)
	}
	return paragraphs, nil
}

// parseBody consumes attribute lines strictly deeper than parentIndent,
// stopping at the first line at or above parentIndent (which belongs to an
// enclosing or sibling paragraph). A key line followed by an even more
// deeply indented line is itself a nested paragraph, whose kind is the key
// and whose class is that key line's single remaining token.
func parseBody(kind, class string, headerLine int, lines []line, pos, parentIndent int) (*Paragraph, int, error) {
	p := &Paragraph{Kind: kind, Class: class, Attrs: map[string][]Attr{}, Line: headerLine}
	if pos >= len(lines) || lines[pos].indent <= parentIndent {
		return p, pos, nil
	}
	childIndent := lines[pos].indent

	for pos < len(lines) && lines[pos].indent == childIndent {
		ln := lines[pos]
		if len(ln.tokens) == 0 {
			return nil, pos, sceneerr.NewParseError(ln.lineNo, "empty attribute line", nil)
		}
		key := ln.tokens[0]
		rest := ln.tokens[1:]
		pos++

		if pos < len(lines) && lines[pos].indent > childIndent {
			if len(rest) != 1 {
				return nil, pos, sceneerr.NewParseError(ln.lineNo,
					fmt.Sprintf("nested paragraph attribute %q must have exactly one class token", key), nil)
			}
			var nested *Paragraph
			var err error
			nested, pos, err = parseBody(key, rest[0], ln.lineNo, lines, pos, childIndent)
			if err != nil {
				return nil, pos, err
			}
			p.Attrs[key] = append(p.Attrs[key], Attr{Kind: AttrParagraph, Paragraph: nested, Line: ln.lineNo})
			continue
		}

		val, err := parseValue(rest, ln.lineNo)
		if err != nil {
			return nil, pos, err
		}
		p.Attrs[key] = append(p.Attrs[key], val)
	}
	return p, pos, nil
}

func parseValue(tokens []string, lineNo int) (Attr, error) {
	switch len(tokens) {
	case 0:
		return Attr{Kind: AttrWord, Word: "", Line: lineNo}, nil
	case 1:
		if f, err := strconv.ParseFloat(tokens[0], 64); err == nil {
			return Attr{Kind: AttrFloat, Float: f, Line: lineNo}, nil
		}
		return Attr{Kind: AttrWord, Word: tokens[0], Line: lineNo}, nil
	case 3:
		var v [3]float64
		for i, t := range tokens {
			f, err := strconv.ParseFloat(t, 64)
			if err != nil {
				return Attr{}, sceneerr.NewParseError(lineNo, fmt.Sprintf("bad vector component %q", t), err)
			}
			v[i] = f
		}
		return Attr{Kind: AttrVector, Vector: vec.New(v[0], v[1], v[2]), Line: lineNo}, nil
	default:
		return Attr{}, sceneerr.NewParseError(lineNo,
			fmt.Sprintf("attribute has %d values, expected 1 (float/word) or 3 (vector)", len(tokens)), nil)
	}
}

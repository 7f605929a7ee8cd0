// Package parser reads the indentation-significant scene text format
// (section 6): blank-line-separated paragraphs, each headed by a
// `kind class` line, with indented `key value` attribute lines underneath,
// grounded on the teacher's line-accumulating PBRT paragraph parser
// (pkg/loaders/pbrt.go) but adapted to a recursive nested-paragraph grammar
// instead of PBRT's flat statement/attribute-block model.
package parser

import (
	"bufio"
	"io"
	"strings"
)

// line is one non-blank, non-comment line of the scene file: its
// indentation depth (count of leading whitespace runes) and its
// whitespace-split tokens.
type line struct {
	indent int
	tokens []string
	lineNo int
}

// tokenize reads every line of r, discarding blank lines and lines whose
// first non-whitespace character is '#'.
func tokenize(r io.Reader) ([]line, error) {
	var lines []line
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)

	lineNo := 0
	for scanner.Scan() {
		lineNo++
		raw := scanner.Text()
		trimmed := strings.TrimLeft(raw, " \t")
		if trimmed == "" || strings.HasPrefix(trimmed, "#") {
			continue
		}
		indent := len(raw) - len(trimmed)
		lines = append(lines, line{
			indent: indent,
			tokens: strings.Fields(trimmed),
			lineNo: lineNo,
		})
	}
	if err := scanner.Err(); err != nil {
		return nil, err
	}
	return lines, nil
}

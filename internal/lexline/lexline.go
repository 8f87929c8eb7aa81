// Package lexline is the line-oriented lexer for BeanScript source: an
// external collaborator per spec.md §1/§6, treated by the interpreter core
// as a black box that, given one raw source line, yields a parse tree of
// tokens (header kind, id words, comma-separated parameter groups). The
// core never re-derives this from raw text; it only consumes *Line values.
package lexline

import "strings"

// ParamGroup is one comma-separated group after "with": its tokens, split
// on whitespace.
type ParamGroup struct {
	Tokens []string
}

// Line is the token tree produced from one source line.
type Line struct {
	Kind     string
	IDTokens []string
	Groups   []ParamGroup
	Indent   int
	LineNo   int
}

// Blank reports whether this line carries no instruction (blank, or
// whitespace-only) and should be ignored by the parse-tree builder.
func (l *Line) Blank() bool {
	return l.Kind == ""
}

// ID joins the id tokens with single spaces, per spec.md §4.E step 2.
func (l *Line) ID() string {
	return strings.Join(l.IDTokens, " ")
}

const tabWidth = 4

// Tokenize converts one raw source line into a Line. Blank or
// whitespace-only lines yield a blank Line with no error.
func Tokenize(raw string, lineNo int) *Line {
	indent := leadingIndent(raw)
	content := strings.TrimSpace(raw)
	if content == "" {
		return &Line{Indent: indent, LineNo: lineNo}
	}

	head, paramsPart := splitOnWith(content)

	fields := strings.Fields(head)
	if len(fields) == 0 {
		return &Line{Indent: indent, LineNo: lineNo}
	}

	line := &Line{
		Kind:     fields[0],
		IDTokens: append([]string(nil), fields[1:]...),
		Indent:   indent,
		LineNo:   lineNo,
	}

	if paramsPart != "" {
		for _, raw := range strings.Split(paramsPart, ",") {
			trimmed := strings.TrimSpace(raw)
			if trimmed == "" {
				continue
			}
			line.Groups = append(line.Groups, ParamGroup{Tokens: strings.Fields(trimmed)})
		}
	}

	return line
}

// splitOnWith splits content into the head (kind + id tokens) and the
// parameter-groups segment, on the first standalone " with " keyword.
func splitOnWith(content string) (head, params string) {
	fields := strings.Fields(content)
	for i, f := range fields {
		if f == "with" {
			return strings.Join(fields[:i], " "), strings.Join(fields[i+1:], " ")
		}
	}
	return content, ""
}

// leadingIndent counts the columns of leading whitespace, counting a tab
// as 4 columns per spec.md §3.
func leadingIndent(raw string) int {
	indent := 0
	for _, r := range raw {
		switch r {
		case '\t':
			indent += tabWidth
		case ' ':
			indent++
		default:
			return indent
		}
	}
	return indent
}

// Package compile drives one pass over a BeanScript source file: tokenize
// each line (lexline), build it into a registered instruction (parsetree),
// and wire it into the instruction graph (nesting) — producing a ready-to-run
// instruction table and execution list (spec.md §2's "data flow").
package compile

import (
	"bufio"
	"io"

	"github.com/aledsdavies/beanscript/internal/lexline"
	"github.com/aledsdavies/beanscript/internal/nesting"
	"github.com/aledsdavies/beanscript/internal/parsetree"
	"github.com/aledsdavies/beanscript/internal/table"
)

// Program is the output of compiling one source file: a populated
// instruction table plus the top-level execution list.
type Program struct {
	Table         *table.Table
	ExecutionList []string
}

// Source reads r line by line and compiles it into a Program. The first
// fatal error (lexical, semantic, or domain, per spec.md §7) aborts and is
// returned as-is so the caller can format it with beanerr's diagnostics.
func Source(r io.Reader) (*Program, error) {
	tbl := table.New()
	builder := parsetree.New(tbl)
	resolver := nesting.New(tbl)

	scanner := bufio.NewScanner(r)
	lineNo := 0
	for scanner.Scan() {
		lineNo++
		line := lexline.Tokenize(scanner.Text(), lineNo)

		id, ok, err := builder.Build(line)
		if err != nil {
			return nil, err
		}
		if !ok {
			continue
		}
		if err := resolver.Attach(id, lineNo); err != nil {
			return nil, err
		}
	}
	if err := scanner.Err(); err != nil {
		return nil, err
	}

	return &Program{Table: tbl, ExecutionList: resolver.ExecutionList()}, nil
}

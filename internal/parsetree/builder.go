// Package parsetree implements the parse-tree builder (component E):
// it consumes one tokenized source line (from lexline) and the
// already-computed indent, and produces an Instruction registered in the
// instruction table, synthesizing alias instructions for in-place
// press/hold/release definitions along the way (spec.md §4.E).
package parsetree

import (
	"fmt"
	"sort"
	"strconv"
	"strings"

	"github.com/lithammer/fuzzysearch/fuzzy"

	"github.com/aledsdavies/beanscript/internal/beanerr"
	"github.com/aledsdavies/beanscript/internal/instruction"
	"github.com/aledsdavies/beanscript/internal/keycatalogue"
	"github.com/aledsdavies/beanscript/internal/lexline"
	"github.com/aledsdavies/beanscript/internal/params"
	"github.com/aledsdavies/beanscript/internal/table"
)

// Builder turns tokenized lines into registered Instructions.
type Builder struct {
	tbl *table.Table
}

// New creates a Builder that registers instructions into tbl.
func New(tbl *table.Table) *Builder {
	return &Builder{tbl: tbl}
}

// Build consumes one tokenized line. It returns ok=false (no error) for
// blank lines and lines whose kind resolves to "none" (spec.md §4.E step
// 4), in which case the line contributes nothing to the program.
func (b *Builder) Build(line *lexline.Line) (id string, ok bool, err error) {
	if line.Blank() {
		return "", false, nil
	}

	kind, err := validateKind(line.Kind, line.LineNo)
	if err != nil {
		return "", false, err
	}
	if kind == "" {
		// kind resolved to "none": ignored per spec.md §4.E step 4.
		return "", false, nil
	}

	rawID := line.ID()
	inst := instruction.New("", kind, line.LineNo, line.Indent)
	touch := &touchSet{}
	var childRef string

	switch {
	case kind.IsInPlaceDefinable() && rawID != "":
		// The id field of an in-place-definable kind names an existing id
		// (table entry) or a raw key name, never a fresh definition: it is
		// itself the implicit "instruction reference" of step 3, and is
		// always aliased. See DESIGN.md for why this generalizes step 3's
		// literal wording (written for with-clause references) to the id
		// field as well, per scenario S5 and invariant #4.
		var aliasID string
		var bindErr error
		aliasID, childRef, bindErr = b.aliasReference(rawID, line.LineNo)
		if bindErr != nil {
			return "", false, bindErr
		}
		inst.ID = aliasID
		if childRef != "" {
			inst.AppendChild(childRef)
		} else {
			code, _ := keycatalogue.CodeOf(rawID)
			inst.WithButton(code)
			touch.button = true
		}

	case kind == instruction.Start || kind == instruction.Stop:
		// start/stop never define anything: their id field names the
		// scheduler/group they target. Give the statement its own
		// Start_NN(ref)/Stop_NN(ref) table entry (so it has a slot in the
		// execution list, per spec.md §3) with that target as its sole
		// child, rather than colliding with the target's own id.
		target, terr := b.tbl.Get(rawID)
		if terr != nil {
			return "", false, beanerr.Wrap(beanerr.Semantic, line.LineNo, "unresolved-reference", terr)
		}
		if !target.Kind.IsScheduler() && target.Kind != instruction.Group {
			return "", false, beanerr.New(beanerr.Semantic, line.LineNo, "kind-misuse",
				fmt.Sprintf("%s targets %q, which is a %s, not a scheduler or group", kind, rawID, target.Kind))
		}
		inst.ID = b.tbl.GenerateID(capitalize(string(kind)), rawID)
		inst.AppendChild(rawID)

	default:
		inst.ID = rawID
	}

	for _, g := range line.Groups {
		if len(g.Tokens) == 0 {
			continue
		}
		if err := b.applyGroup(inst, g, line.LineNo, touch); err != nil {
			return "", false, err
		}
	}

	// A leaf whose id field resolved to an existing instruction (rather
	// than a raw key name) inherits that definition's button and any
	// parameter not explicitly set on this line; overrides already applied
	// on this line take precedence (spec.md §4.K).
	if childRef != "" {
		if ref, rerr := b.tbl.Get(childRef); rerr == nil {
			inheritFrom(inst, ref, touch)
		}
	}

	if err := inst.Parameters.Validate(inst.Kind == instruction.Group); err != nil {
		return "", false, beanerr.Wrap(beanerr.Domain, line.LineNo, "parameter-range", err)
	}

	if err := b.tbl.Insert(inst); err != nil {
		return "", false, beanerr.Wrap(beanerr.Semantic, line.LineNo, "duplicate-id", err)
	}
	return inst.ID, true, nil
}

// touchSet records which fields were explicitly set by a parameter group on
// the current line, so that inheritFrom knows which fields are still free
// to take a referenced definition's value.
type touchSet struct {
	button           bool
	duration, before bool
	after, repeat    bool
	cooldown         bool
}

// inheritFrom copies ref's button and any untouched parameter onto inst.
// Called only when inst's id field named an existing instruction, per
// spec.md §4.K.
func inheritFrom(inst *instruction.Instruction, ref *instruction.Instruction, touch *touchSet) {
	if !touch.button && inst.Button == nil {
		inst.Button = ref.Button
	}
	if !touch.duration {
		inst.Parameters.Duration = ref.Parameters.Duration
	}
	if !touch.before {
		inst.Parameters.Before = ref.Parameters.Before
	}
	if !touch.after {
		inst.Parameters.After = ref.Parameters.After
	}
	if !touch.repeat {
		inst.Parameters.Repeat = ref.Parameters.Repeat
	}
	if !touch.cooldown {
		inst.Parameters.Cooldown = ref.Parameters.Cooldown
	}
}

// applyGroup processes one comma-separated parameter group against inst,
// per spec.md §4.E step 3.
func (b *Builder) applyGroup(inst *instruction.Instruction, g lexline.ParamGroup, lineNo int, touch *touchSet) error {
	head := g.Tokens[0]

	if pname, isParam := params.IsName(head); isParam {
		values, err := parseInts(pname, g.Tokens[1:], lineNo)
		if err != nil {
			return err
		}
		rng, err := params.ParseValues(values)
		if err != nil {
			return beanerr.Wrap(beanerr.Domain, lineNo, "parameter-count", err)
		}
		switch pname {
		case params.Duration:
			inst.Parameters.Duration = rng
			touch.duration = true
		case params.Before:
			inst.Parameters.Before = rng
			touch.before = true
		case params.After:
			inst.Parameters.After = rng
			touch.after = true
		case params.Repeat:
			inst.Parameters.Repeat = rng
			touch.repeat = true
		case params.Cooldown:
			inst.Parameters.Cooldown = rng
			touch.cooldown = true
		}
		return nil
	}

	if head == "button" {
		name := strings.Join(g.Tokens[1:], " ")
		code, err := keycatalogue.CodeOf(name)
		if err != nil {
			return beanerr.Wrap(beanerr.Domain, lineNo, "unknown-key-name", err)
		}
		inst.WithButton(code)
		touch.button = true
		return nil
	}

	if len(g.Tokens) != 1 {
		return beanerr.New(beanerr.Domain, lineNo, "unknown-parameter-name",
			fmt.Sprintf("unrecognized parameter group starting with %q", head))
	}

	ref := g.Tokens[0]
	if inst.Kind.IsInPlaceDefinable() {
		aliasID, _, err := b.aliasReference(ref, lineNo)
		if err != nil {
			return err
		}
		inst.AppendChild(aliasID)
		return nil
	}

	if !b.tbl.Has(ref) {
		return beanerr.Wrap(beanerr.Semantic, lineNo, "unresolved-reference", unresolvedRefError(ref))
	}
	inst.AppendChild(ref)
	return nil
}

// aliasReference resolves ref (from either the id field or a with-clause
// group) against the table, then the key catalogue, and synthesizes an
// Alias_NN(ref) instruction per spec.md §4.D/§4.E. childRef is the
// resolved table id to record as this alias's sole child, or "" if ref
// resolved to a raw key name instead (in which case the caller binds
// Button directly).
func (b *Builder) aliasReference(ref string, lineNo int) (aliasID, childRef string, err error) {
	if ref == "" {
		ref = "leaf"
	}
	if b.tbl.Has(ref) {
		return b.tbl.GenerateAlias(ref), ref, nil
	}
	if _, ferr := keycatalogue.CodeOf(ref); ferr == nil {
		return b.tbl.GenerateAlias(ref), "", nil
	}
	return "", "", beanerr.Wrap(beanerr.Semantic, lineNo, "unresolved-reference", unresolvedRefError(ref))
}

func unresolvedRefError(ref string) error {
	return fmt.Errorf("unresolved reference %q: not a known instruction id or key name", ref)
}

func capitalize(s string) string {
	if s == "" {
		return s
	}
	return strings.ToUpper(s[:1]) + s[1:]
}

func parseInts(pname params.Name, tokens []string, lineNo int) ([]int, error) {
	out := make([]int, 0, len(tokens))
	for _, tok := range tokens {
		v, err := strconv.Atoi(tok)
		if err != nil {
			return nil, beanerr.New(beanerr.Lexical, lineNo, "non-numeric-parameter",
				fmt.Sprintf("expected an integer, got %q", tok))
		}
		// repeat is the one parameter with a meaningful negative value:
		// -1 marks an unbounded group (spec.md §3). Every other
		// range is rejected here; params.Set.Validate is the sole gate for
		// repeat so -1 reaches it instead of being rejected up front.
		if v < 0 && pname != params.Repeat {
			return nil, beanerr.New(beanerr.Domain, lineNo, "negative-parameter-value",
				fmt.Sprintf("parameter values must be non-negative, got %d", v))
		}
		out = append(out, v)
	}
	return out, nil
}

func validateKind(raw string, lineNo int) (instruction.Kind, error) {
	for _, k := range instruction.ValidKinds {
		if string(k) == raw {
			return k, nil
		}
	}
	if raw == "none" {
		return "", nil
	}
	names := make([]string, len(instruction.ValidKinds))
	for i, k := range instruction.ValidKinds {
		names[i] = string(k)
	}
	sort.Strings(names)
	suggestions := fuzzy.RankFindFold(raw, names)
	sort.Sort(suggestions)
	var sugg []string
	for i := 0; i < len(suggestions) && i < 3; i++ {
		sugg = append(sugg, suggestions[i].Target)
	}
	return "", beanerr.New(beanerr.Lexical, lineNo, "unknown-kind",
		fmt.Sprintf("unknown instruction kind %q", raw), sugg...)
}

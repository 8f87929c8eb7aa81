// Package table implements the name-keyed instruction table (component D):
// uniqueness enforcement, alias generation, and lookup. Grounded on the
// teacher's decorators.Registry (runtime/decorators/registry.go), which
// holds the same shape of problem (mutex-guarded, name-keyed registration
// with typed lookup) for a different entity.
package table

import (
	"fmt"
	"sort"
	"sync"

	"github.com/fxamacker/cbor/v2"
	"github.com/lithammer/fuzzysearch/fuzzy"

	"github.com/aledsdavies/beanscript/internal/instruction"
)

// Table is the process-lifetime, name-keyed store of all instructions.
// Entries are destroyed as a group at shutdown (garbage collected with the
// Table value itself); there is no per-entry teardown.
type Table struct {
	mu      sync.RWMutex
	entries map[string]*instruction.Instruction
	order   []string // insertion order, for deterministic dumps/snapshots
	aliasN  int
}

// New returns an empty instruction table.
func New() *Table {
	return &Table{entries: make(map[string]*instruction.Instruction)}
}

// Insert registers i under i.ID. Fails fatally (per spec.md §7) on a
// duplicate id.
func (t *Table) Insert(i *instruction.Instruction) error {
	t.mu.Lock()
	defer t.mu.Unlock()
	if _, exists := t.entries[i.ID]; exists {
		return fmt.Errorf("table: duplicate instruction id %q (line %d)", i.ID, i.Line)
	}
	t.entries[i.ID] = i
	t.order = append(t.order, i.ID)
	return nil
}

// Get returns the instruction registered under id, or an "unknown id"
// error carrying fuzzy suggestions.
func (t *Table) Get(id string) (*instruction.Instruction, error) {
	t.mu.RLock()
	defer t.mu.RUnlock()
	i, ok := t.entries[id]
	if !ok {
		return nil, t.unknownIDError(id)
	}
	return i, nil
}

// Has reports whether id is registered, without the cost of building a
// suggestion list.
func (t *Table) Has(id string) bool {
	t.mu.RLock()
	defer t.mu.RUnlock()
	_, ok := t.entries[id]
	return ok
}

// GenerateAlias returns a fresh, monotonically numbered alias id of the
// form Alias_NN(<ref>), per spec.md §4.D/§4.E. NN is zero-padded to at
// least 2 digits. The shared counter keeps synthetic ids distinct from one
// another; the table is not consulted, and the lexer does not forbid '('
// in user ids, so a user id spelled exactly like a synthetic id is not
// prevented: Insert rejects whichever of the two is registered second as a
// duplicate.
func (t *Table) GenerateAlias(ref string) string {
	return t.GenerateID("Alias", ref)
}

// GenerateID returns a fresh, monotonically numbered synthetic id of the
// form <prefix>_NN(<ref>), sharing GenerateAlias's counter and collision
// guarantee. Used for Alias (press/hold/release) and for Start/Stop
// transactions, which need their own table entry (distinct from their
// target's id) to have somewhere to park the target reference as a child
// and to appear in the execution list as spec.md §3 describes.
func (t *Table) GenerateID(prefix, ref string) string {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.aliasN++
	return fmt.Sprintf("%s_%02d(%s)", prefix, t.aliasN, ref)
}

// Len returns the number of registered instructions.
func (t *Table) Len() int {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return len(t.entries)
}

// IDs returns every registered id in insertion order.
func (t *Table) IDs() []string {
	t.mu.RLock()
	defer t.mu.RUnlock()
	out := make([]string, len(t.order))
	copy(out, t.order)
	return out
}

func (t *Table) unknownIDError(id string) error {
	names := make([]string, 0, len(t.entries))
	for n := range t.entries {
		names = append(names, n)
	}
	sort.Strings(names)
	suggestions := fuzzy.RankFindFold(id, names)
	sort.Sort(suggestions)
	msg := fmt.Sprintf("table: unknown instruction id %q", id)
	if n := len(suggestions); n > 0 {
		limit := 3
		if n < limit {
			limit = n
		}
		msg += " (did you mean:"
		for i := 0; i < limit; i++ {
			msg += " " + suggestions[i].Target
		}
		msg += ")"
	}
	return fmt.Errorf("%s", msg)
}

// snapshot is the canonical, deterministically-ordered wire form used by
// Snapshot/RestoreSnapshot. Grounded on core/planfmt/canonical.go's
// canonical-CBOR-then-hash pattern: sort by id so two tables holding the
// same instructions always encode identically.
type snapshot struct {
	Instructions []*instruction.Instruction `cbor:"instructions"`
	AliasCounter int                        `cbor:"alias_counter"`
}

// Snapshot encodes the table to deterministic canonical CBOR. This backs
// testable property #10 ("parsing then serializing an instruction record
// is round-trip identical modulo default parameters"). The CLI does not
// call it.
func (t *Table) Snapshot() ([]byte, error) {
	t.mu.RLock()
	defer t.mu.RUnlock()

	ids := make([]string, len(t.order))
	copy(ids, t.order)
	sort.Strings(ids)

	snap := snapshot{AliasCounter: t.aliasN}
	for _, id := range ids {
		snap.Instructions = append(snap.Instructions, t.entries[id])
	}

	encMode, err := cbor.CanonicalEncOptions().EncMode()
	if err != nil {
		return nil, fmt.Errorf("table: building canonical encoder: %w", err)
	}
	return encMode.Marshal(snap)
}

// RestoreSnapshot decodes a Snapshot back into a fresh Table.
func RestoreSnapshot(data []byte) (*Table, error) {
	var snap snapshot
	if err := cbor.Unmarshal(data, &snap); err != nil {
		return nil, fmt.Errorf("table: decoding snapshot: %w", err)
	}
	t := New()
	t.aliasN = snap.AliasCounter
	for _, ins := range snap.Instructions {
		if err := t.Insert(ins); err != nil {
			return nil, err
		}
	}
	return t, nil
}

package input

// ModeCode identifies which mapping table a lookup should use: "n"
// (command/normal), "i" (insert), "v" (visual char/line), "x" (visual
// block), "o" (operator-pending), "s" (select), "l" (language
// mappings, :lmap), "c" (ex/cmdline).
type ModeCode string

// Mapping mode codes, mirroring :map's suffix letters.
const (
	ModeNormal   ModeCode = "n"
	ModeInsert   ModeCode = "i"
	ModeVisual   ModeCode = "v"
	ModeVisBlock ModeCode = "x"
	ModeOpPend   ModeCode = "o"
	ModeSelect   ModeCode = "s"
	ModeLangmap  ModeCode = "l"
	ModeCmdline  ModeCode = "c"
)

// entry is one row of a mapping table.
type entry struct {
	lhs       Inputs
	rhs       Inputs
	recursive bool // true for :map, false for :noremap
}

// Table holds, per ModeCode, the set of user-defined mappings. It
// implements both :map (recursive, re-expanded) and :noremap (literal)
// semantics, distinguished at insertion time by recursive.
type Table struct {
	entries map[ModeCode][]entry
}

// NewTable returns an empty mapping table.
func NewTable() *Table {
	return &Table{entries: make(map[ModeCode][]entry)}
}

// Set installs lhs -> rhs for the given mode. recursive selects :map
// (true) versus :noremap (false) semantics. Re-mapping an existing lhs
// replaces it.
func (t *Table) Set(mode ModeCode, lhs, rhs Inputs, recursive bool) {
	rows := t.entries[mode]
	for i, e := range rows {
		if e.lhs.Equal(lhs) {
			rows[i] = entry{lhs: lhs, rhs: rhs, recursive: recursive}
			t.entries[mode] = rows
			return
		}
	}
	t.entries[mode] = append(rows, entry{lhs: lhs, rhs: rhs, recursive: recursive})
}

// Unset removes a mapping for lhs in mode, if any.
func (t *Table) Unset(mode ModeCode, lhs Inputs) {
	rows := t.entries[mode]
	for i, e := range rows {
		if e.lhs.Equal(lhs) {
			t.entries[mode] = append(rows[:i], rows[i+1:]...)
			return
		}
	}
}

// Clear removes every mapping for mode.
func (t *Table) Clear(mode ModeCode) {
	delete(t.entries, mode)
}

// Status is the outcome of resolving a pending input sequence against a
// mapping table.
type Status int

const (
	// StatusPassthrough means pending neither equals nor is a prefix of
	// any entry's lhs; the first pending input should be emitted as-is.
	StatusPassthrough Status = iota
	// StatusResolved means pending equals exactly one entry's lhs and
	// has been substituted by its rhs (already expanded if recursive).
	StatusResolved
	// StatusUndecided means pending is a strict prefix of some entry's
	// lhs and more input could still complete the match; wait for more
	// input or a timeout.
	StatusUndecided
)

// maxRecursionDepth bounds the re-expansion of :map entries, so that a
// self-referential map (e.g. ":map x x") cannot grow the pending buffer
// without bound.
const maxRecursionDepth = 100

// Resolve attempts to resolve pending against the mode's mapping table.
//
//   - If pending neither equals nor is a prefix of any entry's lhs,
//     Status is StatusPassthrough and Result is nil: the caller should
//     emit pending[0] and reconsider the remainder.
//   - If exactly one entry equals pending, Status is StatusResolved and
//     Result is the (possibly recursively re-expanded) replacement.
//   - If pending is a strict prefix of some entry's lhs but does not
//     equal any entry, Status is StatusUndecided.
func Resolve(t *Table, mode ModeCode, pending Inputs) (Status, Inputs) {
	if len(pending) == 0 {
		return StatusPassthrough, nil
	}

	rows := t.entries[mode]

	var exact *entry
	prefixed := false

	for i := range rows {
		e := &rows[i]
		if e.lhs.Equal(pending) {
			exact = e
			continue
		}
		if len(pending) < len(e.lhs) && e.lhs.HasPrefix(pending) {
			prefixed = true
		}
	}

	if exact != nil {
		result := exact.rhs
		if exact.recursive {
			result = expand(t, mode, result, 0)
		}
		return StatusResolved, result
	}

	if prefixed {
		return StatusUndecided, nil
	}

	return StatusPassthrough, nil
}

// expand re-feeds a :map replacement through the table up to
// maxRecursionDepth times, matching "For map entries, the replacement is
// itself re-fed through the resolver". A replacement reached through a
// :noremap entry is not expanded further.
func expand(t *Table, mode ModeCode, rhs Inputs, depth int) Inputs {
	for ; depth < maxRecursionDepth; depth++ {
		var next *entry
		rows := t.entries[mode]
		for i := range rows {
			if rows[i].lhs.Equal(rhs) {
				next = &rows[i]
				break
			}
		}
		if next == nil {
			return rhs
		}
		rhs = next.rhs
		if !next.recursive {
			return rhs
		}
	}
	return rhs
}

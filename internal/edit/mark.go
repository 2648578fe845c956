package edit

import "errors"

// ErrMarkNotSet is returned when reading a mark that was never set, or
// whose referenced text has since been deleted.
var ErrMarkNotSet = errors.New("mark not set")

// Mark is a named position. It is implemented as a live reference: its
// Pos field is owned by the Marks store and is shifted in place by
// Adjust as the buffer mutates, so reading it always yields the
// current position of whatever text it was set on.
type Mark struct {
	Pos     int
	File    string
	invalid bool
}

// Marks owns the per-buffer mark set: a-z (local) plus the synthetic
// marks '<', '>' (visual selection bounds) and '.' (last change).
// '`' and '\'' are stored like any other local mark; jumps do not
// update them.
//
// Uppercase marks (A-Z) are global across buffers; callers share one
// *GlobalMarks across every Marks instance attached to the same
// EngineGlobals, per spec.md §3/§5.
type Marks struct {
	local  map[byte]*Mark
	global *GlobalMarks

	lastChange Mark
	visualLo   Mark
	visualHi   Mark
	hasVisual  bool
}

// GlobalMarks is the engine-global table of uppercase marks, shared by
// every buffer-scoped Marks attached to the same EngineGlobals.
type GlobalMarks struct {
	marks map[byte]*Mark
}

// NewGlobalMarks returns an empty global mark table.
func NewGlobalMarks() *GlobalMarks {
	return &GlobalMarks{marks: make(map[byte]*Mark)}
}

// NewMarks returns a per-buffer mark store backed by the given global
// table for uppercase marks.
func NewMarks(global *GlobalMarks) *Marks {
	return &Marks{local: make(map[byte]*Mark), global: global}
}

// Set stores a mark at pos. Lowercase letters and digits are local;
// uppercase letters are written into the shared global table.
func (m *Marks) Set(name byte, pos int) {
	if name >= 'A' && name <= 'Z' {
		m.global.marks[name] = &Mark{Pos: pos}
		return
	}
	m.local[name] = &Mark{Pos: pos}
}

// Get resolves name to its current position. Returns ErrMarkNotSet if
// the mark was never set or has been invalidated by a deletion of its
// referenced line.
func (m *Marks) Get(name byte) (Mark, error) {
	switch name {
	case '.':
		if m.lastChange.invalid && m.lastChange.Pos == 0 {
			return Mark{}, ErrMarkNotSet
		}
		return m.lastChange, nil
	case '<':
		if !m.hasVisual {
			return Mark{}, ErrMarkNotSet
		}
		return m.visualLo, nil
	case '>':
		if !m.hasVisual {
			return Mark{}, ErrMarkNotSet
		}
		return m.visualHi, nil
	}

	var mk *Mark
	if name >= 'A' && name <= 'Z' {
		mk = m.global.marks[name]
	} else {
		mk = m.local[name]
	}

	if mk == nil || mk.invalid {
		return Mark{}, ErrMarkNotSet
	}

	return *mk, nil
}

// SetLastChange records the position of the most recent change, read
// back through mark '.'.
func (m *Marks) SetLastChange(pos int) {
	m.lastChange = Mark{Pos: pos}
}

// SetVisual records the current/last visual selection's anchors, read
// back through marks '<' and '>'.
func (m *Marks) SetVisual(lo, hi int) {
	m.visualLo = Mark{Pos: lo}
	m.visualHi = Mark{Pos: hi}
	m.hasVisual = true
}

// Adjust shifts every live mark position after an edit to region
// [editPos, editPos+removed) that inserted insertedLen runes in its
// place. Marks inside a removed span (at or after editPos and before
// editPos+removed) become invalid; marks at or after editPos+removed
// are shifted by the net delta.
func (m *Marks) Adjust(editPos, removed, insertedLen int) {
	delta := insertedLen - removed

	adjust := func(mk *Mark) {
		if mk == nil || mk.invalid {
			return
		}
		switch {
		case mk.Pos >= editPos+removed:
			mk.Pos += delta
		case mk.Pos >= editPos && removed > 0:
			mk.invalid = true
		}
	}

	for _, mk := range m.local {
		adjust(mk)
	}
	for _, mk := range m.global.marks {
		adjust(mk)
	}
	adjust(&m.lastChange)
	adjust(&m.visualLo)
	adjust(&m.visualHi)
}

package edit

import "strings"

// Register is a named clipboard slot with an associated range mode,
// the unit that read/write operations against it are expressed in.
type Register struct {
	Contents string
	Mode     RangeMode
}

// ClipboardHost is the subset of the host bridge that Registers needs
// to delegate the system/selection clipboard registers ('+', '*') to;
// these must never be cached by the engine (spec.md §3, §5).
type ClipboardHost interface {
	ClipboardGet(name byte) (string, error)
	ClipboardSet(name byte, text string) error
}

// Registers is the engine-global (process-lifetime) register table:
// a-z / A-Z, 0-9, the unnamed register '"', and the clipboard registers
// '+' and '*' which delegate to the host. The root package constructs
// exactly one and shares it, via EngineGlobals, across every buffer's
// Engine, per spec.md's "mapping table and registers are process
// globals, not per-buffer state" redesign note.
type Registers struct {
	named  map[byte]Register
	host   ClipboardHost
	active byte // register selected by "x before the next operator; 0 means unnamed
}

// NewRegisters returns an empty register table delegating clipboard
// registers to host.
func NewRegisters(host ClipboardHost) *Registers {
	return &Registers{named: make(map[byte]Register), host: host, active: 0}
}

// SetActive selects the register named by "x for the following
// command; 0 resets to the unnamed register.
func (r *Registers) SetActive(name byte) {
	r.active = name
}

// Active returns the currently selected register name, or '"' if none
// was explicitly selected.
func (r *Registers) Active() byte {
	if r.active == 0 {
		return '"'
	}
	return r.active
}

// ResetActive clears the explicitly selected register back to unnamed.
func (r *Registers) ResetActive() {
	r.active = 0
}

// isClipboard reports whether name is one of the host-delegated
// registers.
func isClipboard(name byte) bool {
	return name == '+' || name == '*'
}

// Get returns the named register's current contents. Clipboard
// registers are read through the host on every call rather than
// cached, per spec.md's requirement that '+'/'*' never go stale
// against the system clipboard.
func (r *Registers) Get(name byte) Register {
	if name == 0 {
		name = '"'
	}
	if isClipboard(name) {
		if r.host == nil {
			return Register{}
		}
		text, err := r.host.ClipboardGet(name)
		if err != nil {
			return Register{}
		}
		mode := Char
		if strings.HasSuffix(text, "\n") {
			mode = Line
		}
		return Register{Contents: text, Mode: mode}
	}
	return r.named[name]
}

// Write stores text into register name. isYank distinguishes a yank
// (which also mirrors into '"' and '0', the resolved Open Question
// "unnamed register mirrors register 0") from an explicit named
// write from a delete (which mirrors into '"' only, leaving the
// numbered ring to WriteDelete).
func (r *Registers) Write(name byte, text string, mode RangeMode, isYank bool) {
	if name == 0 {
		name = '"'
	}
	if isClipboard(name) {
		if r.host != nil {
			_ = r.host.ClipboardSet(name, text)
		}
		return
	}

	reg := Register{Contents: text, Mode: mode}
	r.named[name] = reg
	r.named['"'] = reg
	if isYank {
		r.named['0'] = reg
	}
}

// WriteDelete files deleted text into the unnamed register, and, for a
// linewise or multi-line delete, shifts the numbered ring 1-9 down and
// stores the new text in '1' (a short single-line delete does not
// enter the ring, matching Vim's small-delete register carving that
// behavior out into '-' instead).
func (r *Registers) WriteDelete(text string, mode RangeMode) {
	reg := Register{Contents: text, Mode: mode}
	r.named['"'] = reg

	if mode != Line && !strings.Contains(text, "\n") {
		return
	}

	for n := byte('9'); n > '1'; n-- {
		if prev, ok := r.named[n-1]; ok {
			r.named[n] = prev
		} else {
			delete(r.named, n)
		}
	}
	r.named['1'] = reg
}

// All returns every populated named register, for `:registers`/
// `:display`. Clipboard registers are excluded since the host, not
// this table, owns their contents.
func (r *Registers) All() map[byte]Register {
	return r.named
}

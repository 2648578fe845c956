package edit

// Buffer is the subset of the host bridge (spec.md §4.8) that the
// EditModel mutates or queries directly. It is satisfied structurally
// by internal/host.Bridge; kept narrow here so internal/edit has no
// dependency on internal/host.
type Buffer interface {
	BufferRead(r Range) (string, error)
	BufferReplace(r Range, text string) error
	LineCount() int
	LineStart(line int) int
	LineEnd(line int) int
	UndoBeginBlock()
	UndoEndBlock()
	UndoRevision() int
}

// Model is the EditModel: it owns range math, transformations, and
// coordinates register/mark/undo bookkeeping around every mutation it
// performs on the host buffer. One Model is created per buffer.
type Model struct {
	Buf       Buffer
	Registers *Registers
	Marks     *Marks
	Jumps     *JumpList
	Dot       DotCommand

	// undoCursors maps a host undo revision number to the cursor
	// position recorded just before the edit that produced it, so `u`
	// can restore the cursor along with the text (spec.md §4.5).
	undoCursors map[int]int
}

// NewModel constructs an EditModel around buf, sharing regs/marks/jumps
// (regs and the uppercase mark table are engine-global; marks/jumps
// beyond that and Dot are buffer-local).
func NewModel(buf Buffer, regs *Registers, marks *Marks, jumps *JumpList) *Model {
	return &Model{
		Buf:         buf,
		Registers:   regs,
		Marks:       marks,
		Jumps:       jumps,
		undoCursors: make(map[int]int),
	}
}

// RecordUndoCursor stores cursorPos keyed by the buffer's current undo
// revision, to be consulted when `u` walks back past that revision.
func (m *Model) RecordUndoCursor(cursorPos int) {
	m.undoCursors[m.Buf.UndoRevision()] = cursorPos
}

// CursorForRevision returns the cursor position recorded for a given
// undo revision, if any.
func (m *Model) CursorForRevision(revision int) (int, bool) {
	pos, ok := m.undoCursors[revision]
	return pos, ok
}

// Apply reads r's text, transforms it with fn, writes the result back,
// and adjusts live marks for the resulting shift. It returns the text
// that was replaced (for yank-on-delete bookkeeping by the caller).
func (m *Model) Apply(r Range, fn Transform) (replaced string, err error) {
	text, err := m.Buf.BufferRead(r)
	if err != nil {
		return "", err
	}

	result := fn(text)

	if err := m.Buf.BufferReplace(r, result); err != nil {
		return "", err
	}

	m.Marks.Adjust(r.Begin, len([]rune(text)), len([]rune(result)))
	m.Marks.SetLastChange(r.Begin)

	return text, nil
}

// ApplyBlock performs a block-range transformation row by row, per
// spec.md §4.5: each row's columns are clamped to that line's length,
// and rows shorter than the block's left column are padded with spaces
// only for BlockAndTail ranges (preserving the source's asymmetry,
// where padding only happens when inserting after the cursor; see
// DESIGN.md).
func (m *Model) ApplyBlock(r Range, startCol, endCol int, fn Transform) error {
	startLine := lineIndexOf(m.Buf, r.Begin)
	endLine := lineIndexOf(m.Buf, r.End)

	for line := startLine; line <= endLine; line++ {
		lineStart := m.Buf.LineStart(line)
		lineEnd := m.Buf.LineEnd(line)
		lineLen := lineEnd - lineStart

		begin := lineStart + startCol
		end := lineStart + endCol

		switch {
		case startCol > lineLen:
			if r.Mode != BlockAndTail {
				continue
			}
			pad := startCol - lineLen
			if _, err := m.Apply(NewRange(lineEnd, lineEnd, Char), ReplaceByString(spaces(pad))); err != nil {
				return err
			}
			begin = lineEnd + pad
			end = begin
		case end > lineEnd:
			end = lineEnd
		}

		if _, err := m.Apply(NewRange(begin, end, Char), fn); err != nil {
			return err
		}
	}

	return nil
}

func spaces(n int) string {
	b := make([]byte, n)
	for i := range b {
		b[i] = ' '
	}
	return string(b)
}

func lineIndexOf(buf Buffer, pos int) int {
	count := buf.LineCount()
	for line := 1; line <= count; line++ {
		if pos >= buf.LineStart(line) && pos <= buf.LineEnd(line) {
			return line
		}
	}
	return count
}

// Yank writes text/mode into register name (defaulting to the unnamed
// register plus its mirror into '0', per spec.md's resolved Open
// Question) without mutating the buffer.
func (m *Model) Yank(name byte, text string, mode RangeMode) {
	if name == 0 {
		name = '"'
	}
	m.Registers.Write(name, text, mode, true)
}

// Delete removes r's text, transforming it away, and files the deleted
// text into the requested register (defaulting to the unnamed
// register and the numbered ring for linewise deletes).
func (m *Model) Delete(name byte, r Range) (deleted string, err error) {
	deleted, err = m.Apply(r, Remove)
	if err != nil {
		return "", err
	}

	if name != 0 && name != '"' {
		m.Registers.Write(name, deleted, r.Mode, false)
	} else {
		m.Registers.WriteDelete(deleted, r.Mode)
	}

	return deleted, nil
}

package edit

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
)

// fakeBuffer is a minimal in-memory implementation of Buffer for tests.
type fakeBuffer struct {
	text     []rune
	revision int
}

func newFakeBuffer(s string) *fakeBuffer {
	return &fakeBuffer{text: []rune(s)}
}

func (f *fakeBuffer) String() string { return string(f.text) }

func (f *fakeBuffer) BufferRead(r Range) (string, error) {
	return string(f.text[r.Begin:r.End]), nil
}

func (f *fakeBuffer) BufferReplace(r Range, text string) error {
	replacement := []rune(text)
	tail := append([]rune{}, f.text[r.End:]...)
	f.text = append(f.text[:r.Begin:r.Begin], replacement...)
	f.text = append(f.text, tail...)
	f.revision++
	return nil
}

func (f *fakeBuffer) LineCount() int {
	return strings.Count(string(f.text), "\n") + 1
}

func (f *fakeBuffer) LineStart(line int) int {
	if line <= 1 {
		return 0
	}
	count := 1
	for i, r := range f.text {
		if r == '\n' {
			count++
			if count == line {
				return i + 1
			}
		}
	}
	return len(f.text)
}

func (f *fakeBuffer) LineEnd(line int) int {
	start := f.LineStart(line)
	for i := start; i < len(f.text); i++ {
		if f.text[i] == '\n' {
			return i
		}
	}
	return len(f.text)
}

func (f *fakeBuffer) UndoBeginBlock() {}
func (f *fakeBuffer) UndoEndBlock()   {}
func (f *fakeBuffer) UndoRevision() int { return f.revision }

func newTestModel(s string) (*Model, *fakeBuffer) {
	buf := newFakeBuffer(s)
	regs := NewRegisters(nil)
	marks := NewMarks(NewGlobalMarks())
	jumps := NewJumpList()
	return NewModel(buf, regs, marks, jumps), buf
}

func TestRangeReorders(t *testing.T) {
	r := NewRange(5, 2, Char)
	require.Equal(t, 2, r.Begin)
	require.Equal(t, 5, r.End)
}

func TestModelDeleteLine(t *testing.T) {
	m, buf := newTestModel("abc\ndef\nghi")

	r := NewRange(0, 4, Line)
	deleted, err := m.Delete(0, r)
	require.NoError(t, err)
	require.Equal(t, "abc\n", deleted)
	require.Equal(t, "def\nghi", buf.String())

	reg := m.Registers.Get('"')
	require.Equal(t, "abc\n", reg.Contents)
	require.Equal(t, Line, reg.Mode)
}

func TestModelYankMirrorsUnnamedToRegisterZero(t *testing.T) {
	m, _ := newTestModel("123 456 789")

	text, err := m.Buf.BufferRead(NewRange(0, 3, Char))
	require.NoError(t, err)
	m.Yank(0, text, Char)

	require.Equal(t, "123", m.Registers.Get('"').Contents)
	require.Equal(t, "123", m.Registers.Get('0').Contents)
}

func TestModelApplyUpCase(t *testing.T) {
	m, buf := newTestModel("aBcDe")

	_, err := m.Apply(NewRange(0, 5, Char), UpCase)
	require.NoError(t, err)
	require.Equal(t, "ABCDE", buf.String())
}

func TestModelApplyInvertCase(t *testing.T) {
	m, buf := newTestModel("aBcDe")

	_, err := m.Apply(NewRange(0, 5, Char), InvertCase)
	require.NoError(t, err)
	require.Equal(t, "AbCdE", buf.String())
}

func TestMarksAdjustOnEditAfterMark(t *testing.T) {
	m, _ := newTestModel("abcdef")

	m.Marks.Set('a', 4)
	_, err := m.Apply(NewRange(0, 2, Char), Remove)
	require.NoError(t, err)

	mk, err := m.Marks.Get('a')
	require.NoError(t, err)
	require.Equal(t, 2, mk.Pos)
}

func TestMarksInvalidatedWhenTextDeleted(t *testing.T) {
	m, _ := newTestModel("abcdef")

	m.Marks.Set('a', 3)
	_, err := m.Apply(NewRange(0, 6, Char), Remove)
	require.NoError(t, err)

	_, err = m.Marks.Get('a')
	require.ErrorIs(t, err, ErrMarkNotSet)
}

func TestUndoRevisionCursorTracking(t *testing.T) {
	m, buf := newTestModel("abc")

	m.RecordUndoCursor(2)
	_, err := m.Apply(NewRange(0, 1, Char), Remove)
	require.NoError(t, err)

	pos, ok := m.CursorForRevision(buf.UndoRevision() - 1)
	require.True(t, ok)
	require.Equal(t, 2, pos)
}

func TestDotCommandRecordsAndReplaysCount(t *testing.T) {
	var dot DotCommand
	dot.Begin()
	dot.Record("iX")
	dot.Record("<Esc>")
	dot.Commit(1)

	require.Equal(t, "iX<Esc>", dot.Keys())

	keys, count := dot.WithCount(3)
	require.Equal(t, "iX<Esc>", keys)
	require.Equal(t, 3, count)
}

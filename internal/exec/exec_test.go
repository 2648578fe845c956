package exec

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/fakevim/fakevim/internal/edit"
	"github.com/fakevim/fakevim/internal/host"
	"github.com/fakevim/fakevim/internal/input"
	"github.com/fakevim/fakevim/internal/mode"
	"github.com/fakevim/fakevim/internal/search"
	"github.com/fakevim/fakevim/internal/settings"
)

// fakeHost is a minimal in-memory host.Bridge for exercising the
// Executor end to end, in the spirit of the scenario buffers from
// spec.md §8.
type fakeHost struct {
	text     []rune
	cursor   int
	revision int
	undoLog  [][]rune
	redoLog  [][]rune
	clip     map[byte]string
}

func newFakeHost(s string) *fakeHost {
	return &fakeHost{text: []rune(s), clip: make(map[byte]string)}
}

func (f *fakeHost) String() string { return string(f.text) }

func (f *fakeHost) snapshot() { f.undoLog = append(f.undoLog, append([]rune{}, f.text...)) }

func (f *fakeHost) BufferRead(r edit.Range) (string, error) {
	return string(f.text[r.Begin:r.End]), nil
}

func (f *fakeHost) BufferReplace(r edit.Range, text string) error {
	replacement := []rune(text)
	tail := append([]rune{}, f.text[r.End:]...)
	f.text = append(f.text[:r.Begin:r.Begin], replacement...)
	f.text = append(f.text, tail...)
	f.revision++
	return nil
}

func (f *fakeHost) LineCount() int { return strings.Count(string(f.text), "\n") + 1 }

func (f *fakeHost) LineStart(line int) int {
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

func (f *fakeHost) LineEnd(line int) int {
	start := f.LineStart(line)
	for i := start; i < len(f.text); i++ {
		if f.text[i] == '\n' {
			return i
		}
	}
	return len(f.text)
}

func (f *fakeHost) CursorGet() int     { return f.cursor }
func (f *fakeHost) CursorSet(pos int)  { f.cursor = pos }
func (f *fakeHost) SelectionSet([]edit.Range) {}

func (f *fakeHost) UndoBeginBlock() { f.snapshot() }
func (f *fakeHost) UndoEndBlock()   {}
func (f *fakeHost) Undo() error {
	if len(f.undoLog) == 0 {
		return nil
	}
	f.redoLog = append(f.redoLog, append([]rune{}, f.text...))
	f.text = f.undoLog[len(f.undoLog)-1]
	f.undoLog = f.undoLog[:len(f.undoLog)-1]
	f.revision--
	return nil
}
func (f *fakeHost) Redo() error {
	if len(f.redoLog) == 0 {
		return nil
	}
	f.text = f.redoLog[len(f.redoLog)-1]
	f.redoLog = f.redoLog[:len(f.redoLog)-1]
	f.revision++
	return nil
}
func (f *fakeHost) UndoRevision() int { return f.revision }

func (f *fakeHost) IndentRegion(int, int, rune) {}
func (f *fakeHost) IsElectricChar(rune) bool    { return false }

func (f *fakeHost) ClipboardGet(name byte) (string, error) { return f.clip[name], nil }
func (f *fakeHost) ClipboardSet(name byte, text string) error {
	f.clip[name] = text
	return nil
}

func (f *fakeHost) SpawnProcess(cmd string, stdin string) (string, error) { return stdin, nil }
func (f *fakeHost) MatchBracket(cursor int) host.BracketMatch             { return host.BracketMatch{} }

func (f *fakeHost) OpenFile(string) error           { return nil }
func (f *fakeHost) CurrentFileName() string         { return "" }
func (f *fakeHost) WriteFile(string, edit.Range) error { return nil }
func (f *fakeHost) ReadFile(string) (string, error) { return "", nil }

func (f *fakeHost) ShowMessage(host.Message)                                  {}
func (f *fakeHost) ShowCommandBuffer(string, int, int, host.MessageLevel)     {}
func (f *fakeHost) ExtraInformation(string)                                   {}
func (f *fakeHost) WindowCommand(rune)                                        {}
func (f *fakeHost) FindOpen(bool)                                             {}
func (f *fakeHost) FindNext(bool)                                             {}
func (f *fakeHost) SimpleCompletion(string, bool)                             {}

func newTestExecutor(text string) (*Executor, *fakeHost) {
	h := newFakeHost(text)
	regs := edit.NewRegisters(h)
	marks := edit.NewMarks(edit.NewGlobalMarks())
	jumps := edit.NewJumpList()
	model := edit.NewModel(h, regs, marks, jumps)
	mach := mode.NewMachine()
	se := search.New()
	st := settings.New()
	return NewExecutor(h, model, mach, se, st), h
}

func feedString(ex *Executor, h *fakeHost, s string) {
	seq, _ := input.ParseInputs(s)
	for _, in := range seq {
		ex.Dispatch(in)
	}
}

func TestDeleteWordMotion(t *testing.T) {
	ex, h := newTestExecutor("hello world")
	feedString(ex, h, "dw")
	require.Equal(t, "world", h.String())
}

func TestDoubledDeleteIsLinewise(t *testing.T) {
	ex, h := newTestExecutor("one\ntwo\nthree")
	feedString(ex, h, "dd")
	require.Equal(t, "two\nthree", h.String())
}

func TestChangeWordEntersInsertAndTypingReplaces(t *testing.T) {
	ex, h := newTestExecutor("hello world")
	feedString(ex, h, "cwbye<Esc>")
	require.Equal(t, "bye world", h.String())
	require.Equal(t, mode.Command, ex.Machine.State.Mode)
}

func TestYankAndPutBefore(t *testing.T) {
	ex, h := newTestExecutor("abc def")
	feedString(ex, h, "ywP")
	require.Equal(t, "abc abc def", h.String())
}

func TestDeleteCharAndUndo(t *testing.T) {
	ex, h := newTestExecutor("abc")
	feedString(ex, h, "x")
	require.Equal(t, "bc", h.String())
	feedString(ex, h, "u")
	require.Equal(t, "abc", h.String())
}

func TestOpenLineBelowEntersInsert(t *testing.T) {
	ex, h := newTestExecutor("abc")
	feedString(ex, h, "oXY<Esc>")
	require.Equal(t, "abc\nXY", h.String())
}

func TestDotRepeatsLastChange(t *testing.T) {
	ex, h := newTestExecutor("aaa")
	feedString(ex, h, "x")
	require.Equal(t, "aa", h.String())
	feedString(ex, h, ".")
	require.Equal(t, "a", h.String())
}

func TestVisualDeleteAppliesOperatorOverSelection(t *testing.T) {
	ex, h := newTestExecutor("hello world")
	feedString(ex, h, "vlld")
	require.Equal(t, "lo world", h.String())
	require.Equal(t, mode.VisualNone, ex.Machine.State.Visual)
}

func TestUpperCaseOperatorOverMotion(t *testing.T) {
	ex, h := newTestExecutor("hello world")
	feedString(ex, h, "gUw")
	require.Equal(t, "HELLO world", h.String())
}

func TestFindCharMotionAndSemicolonRepeat(t *testing.T) {
	ex, h := newTestExecutor("xaxbxcxb")
	feedString(ex, h, "fb")
	require.Equal(t, 3, ex.Host.CursorGet())

	feedString(ex, h, ";")
	require.Equal(t, 7, ex.Host.CursorGet())
}

func TestReplaceCharCommand(t *testing.T) {
	ex, h := newTestExecutor("abc")
	feedString(ex, h, "rx")
	require.Equal(t, "xbc", h.String())
}

func TestMarkSetAndGoto(t *testing.T) {
	ex, h := newTestExecutor("abc\ndef\nghi")
	ex.Host.CursorSet(4)
	feedString(ex, h, "ma")
	ex.Host.CursorSet(0)
	feedString(ex, h, "`a")
	require.Equal(t, 4, ex.Host.CursorGet())
}

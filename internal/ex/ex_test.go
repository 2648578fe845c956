package ex

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/fakevim/fakevim/internal/edit"
	"github.com/fakevim/fakevim/internal/exec"
	"github.com/fakevim/fakevim/internal/host"
	"github.com/fakevim/fakevim/internal/mode"
	"github.com/fakevim/fakevim/internal/search"
	"github.com/fakevim/fakevim/internal/settings"
)

// fakeHost is a minimal in-memory host.Bridge, mirroring the one in
// internal/exec's tests, sized for exercising the ex interpreter.
type fakeHost struct {
	text     []rune
	cursor   int
	revision int
	clip     map[byte]string
	files    map[string]string
	written  map[string]string
	spawnOut string
	spawnErr error

	lastMessage host.Message
}

func newFakeHost(s string) *fakeHost {
	return &fakeHost{
		text:    []rune(s),
		clip:    make(map[byte]string),
		files:   make(map[string]string),
		written: make(map[string]string),
	}
}

func (f *fakeHost) String() string { return string(f.text) }

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

func (f *fakeHost) CursorGet() int            { return f.cursor }
func (f *fakeHost) CursorSet(pos int)         { f.cursor = pos }
func (f *fakeHost) SelectionSet([]edit.Range) {}

func (f *fakeHost) UndoBeginBlock()   {}
func (f *fakeHost) UndoEndBlock()     {}
func (f *fakeHost) Undo() error       { return nil }
func (f *fakeHost) Redo() error       { return nil }
func (f *fakeHost) UndoRevision() int { return f.revision }

func (f *fakeHost) IndentRegion(int, int, rune) {}
func (f *fakeHost) IsElectricChar(rune) bool    { return false }

func (f *fakeHost) ClipboardGet(name byte) (string, error) { return f.clip[name], nil }
func (f *fakeHost) ClipboardSet(name byte, text string) error {
	f.clip[name] = text
	return nil
}

func (f *fakeHost) SpawnProcess(cmd string, stdin string) (string, error) {
	if f.spawnErr != nil {
		return "", f.spawnErr
	}
	if f.spawnOut != "" {
		return f.spawnOut, nil
	}
	return stdin, nil
}
func (f *fakeHost) MatchBracket(cursor int) host.BracketMatch { return host.BracketMatch{} }

func (f *fakeHost) OpenFile(string) error   { return nil }
func (f *fakeHost) CurrentFileName() string { return "" }
func (f *fakeHost) WriteFile(path string, r edit.Range) error {
	text, _ := f.BufferRead(r)
	f.written[path] = text
	return nil
}
func (f *fakeHost) ReadFile(path string) (string, error) { return f.files[path], nil }

func (f *fakeHost) ShowMessage(m host.Message)                              { f.lastMessage = m }
func (f *fakeHost) ShowCommandBuffer(string, int, int, host.MessageLevel)   {}
func (f *fakeHost) ExtraInformation(string)                                {}
func (f *fakeHost) WindowCommand(rune)                                     {}
func (f *fakeHost) FindOpen(bool)                                          {}
func (f *fakeHost) FindNext(bool)                                          {}
func (f *fakeHost) SimpleCompletion(string, bool)                          {}

func newTestInterpreter(text string) (*Interpreter, *fakeHost) {
	h := newFakeHost(text)
	regs := edit.NewRegisters(h)
	marks := edit.NewMarks(edit.NewGlobalMarks())
	jumps := edit.NewJumpList()
	model := edit.NewModel(h, regs, marks, jumps)
	mach := mode.NewMachine()
	se := search.New()
	st := settings.New()
	executor := exec.NewExecutor(h, model, mach, se, st)
	interp := New(executor)
	executor.Ex = interp
	return interp, h
}

func TestGotoLineRange(t *testing.T) {
	i, h := newTestInterpreter("one\ntwo\nthree")
	require.NoError(t, i.Execute("2"))
	require.Equal(t, h.LineStart(2), h.CursorGet())
}

func TestDeleteRange(t *testing.T) {
	i, h := newTestInterpreter("one\ntwo\nthree")
	require.NoError(t, i.Execute("1,2d"))
	require.Equal(t, "three", h.String())
}

func TestSubstituteBasic(t *testing.T) {
	i, h := newTestInterpreter("foo bar foo")
	require.NoError(t, i.Execute("s/foo/baz/"))
	require.Equal(t, "baz bar foo", h.String())
}

func TestSubstituteGlobalFlag(t *testing.T) {
	i, h := newTestInterpreter("foo bar foo")
	require.NoError(t, i.Execute("s/foo/baz/g"))
	require.Equal(t, "baz bar baz", h.String())
}

func TestSubstituteBackreference(t *testing.T) {
	i, h := newTestInterpreter("hello world")
	require.NoError(t, i.Execute(`s/(\w+) (\w+)/\2 \1/`))
	require.Equal(t, "world hello", h.String())
}

func TestSubstituteRepeatAmpersand(t *testing.T) {
	i, h := newTestInterpreter("foo foo\nfoo foo")
	require.NoError(t, i.Execute("s/foo/bar/g"))
	require.Equal(t, "bar bar\nfoo foo", h.String())
	require.NoError(t, i.Execute("2&&"))
	require.Equal(t, "bar bar\nbar bar", h.String())
}

func TestSetBoolToggle(t *testing.T) {
	i, _ := newTestInterpreter("text")
	require.False(t, i.Ex.Settings.Bool("ignorecase"))
	require.NoError(t, i.Execute("set ic"))
	require.True(t, i.Ex.Settings.Bool("ignorecase"))
	require.NoError(t, i.Execute("set noic"))
	require.False(t, i.Ex.Settings.Bool("ignorecase"))
}

func TestSetIntAssignment(t *testing.T) {
	i, _ := newTestInterpreter("text")
	require.NoError(t, i.Execute("set ts=4"))
	require.Equal(t, 4, i.Ex.Settings.Int("tabstop"))
}

func TestShiftRightRange(t *testing.T) {
	i, h := newTestInterpreter("one\ntwo")
	i.Ex.Settings.SetInt("shiftwidth", 2)
	require.NoError(t, i.Execute("1,2>"))
	require.Equal(t, "  one\n  two", h.String())
}

func TestNormalReplaysKeys(t *testing.T) {
	i, h := newTestInterpreter("hello world")
	require.NoError(t, i.Execute("normal dw"))
	require.Equal(t, "world", h.String())
}

func TestWriteUsesCurrentBufferWhenNoRange(t *testing.T) {
	i, h := newTestInterpreter("hello")
	require.NoError(t, i.Execute("write out.txt"))
	require.Equal(t, "hello", h.written["out.txt"])
}

func TestUnknownCommandReportsError(t *testing.T) {
	i, h := newTestInterpreter("text")
	require.NoError(t, i.Execute("bogus"))
	require.Equal(t, host.Error, h.lastMessage.Level)
}

func TestMapThenNormalExpandsMapping(t *testing.T) {
	i, h := newTestInterpreter("abc")
	require.NoError(t, i.Execute("nnoremap x dw"))
	require.NoError(t, i.Execute("normal x"))
	require.Equal(t, "", h.String())
}

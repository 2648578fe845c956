package fakevim

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/fakevim/fakevim/internal/edit"
	"github.com/fakevim/fakevim/internal/host"
)

// fakeHost is a minimal in-memory host.Bridge for exercising Engine
// end to end, in the spirit of the scenario buffers from spec.md §8.
type fakeHost struct {
	text     []rune
	cursor   int
	revision int
	undoLog  [][]rune
	redoLog  [][]rune
	clip     map[byte]string

	cmdBuf      string
	lastMessage host.Message
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

func (f *fakeHost) CursorGet() int            { return f.cursor }
func (f *fakeHost) CursorSet(pos int)         { f.cursor = pos }
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

func (f *fakeHost) OpenFile(string) error              { return nil }
func (f *fakeHost) CurrentFileName() string            { return "" }
func (f *fakeHost) WriteFile(string, edit.Range) error { return nil }
func (f *fakeHost) ReadFile(string) (string, error)    { return "", nil }

func (f *fakeHost) ShowMessage(m host.Message) { f.lastMessage = m }
func (f *fakeHost) ShowCommandBuffer(text string, _, _ int, _ host.MessageLevel) {
	f.cmdBuf = text
}
func (f *fakeHost) ExtraInformation(string)   {}
func (f *fakeHost) WindowCommand(rune)        {}
func (f *fakeHost) FindOpen(bool)             {}
func (f *fakeHost) FindNext(bool)             {}
func (f *fakeHost) SimpleCompletion(string, bool) {}

func newTestEngine(text string) (*Engine, *fakeHost) {
	h := newFakeHost(text)
	globals := NewEngineGlobals(h)
	return New(h, globals), h
}

func feed(t *testing.T, e *Engine, notation string) []Message {
	t.Helper()
	msgs, err := e.ParseKeys(notation)
	require.NoError(t, err)
	return msgs
}

func TestDeleteWordThroughEngine(t *testing.T) {
	e, h := newTestEngine("hello world")
	feed(t, e, "dw")
	require.Equal(t, "world", h.String())
	require.Equal(t, "NORMAL", e.Mode())
}

func TestInsertModeLabel(t *testing.T) {
	e, h := newTestEngine("abc")
	feed(t, e, "i")
	require.Equal(t, "INSERT", e.Mode())
	feed(t, e, "X")
	require.Equal(t, "Xabc", h.String())
	feed(t, e, "<Esc>")
	require.Equal(t, "NORMAL", e.Mode())
}

func TestVisualModeLabel(t *testing.T) {
	e, _ := newTestEngine("hello world")
	feed(t, e, "v")
	require.Equal(t, "VISUAL", e.Mode())
	feed(t, e, "<Esc>")
	require.Equal(t, "NORMAL", e.Mode())
}

func TestExCommandLineRoundTrips(t *testing.T) {
	e, h := newTestEngine("one\ntwo\nthree")
	feed(t, e, ":2<CR>")
	require.Equal(t, h.LineStart(2), h.CursorGet())
	require.Equal(t, "NORMAL", e.Mode())
}

func TestExCommandLineShowsTypedText(t *testing.T) {
	e, h := newTestEngine("abc")
	feed(t, e, ":se")
	require.Equal(t, ":se", h.cmdBuf)
	feed(t, e, "t ic<CR>")
	require.True(t, e.Settings.Bool("ignorecase"))
}

func TestExBackspacePastColonLeavesExMode(t *testing.T) {
	e, _ := newTestEngine("abc")
	feed(t, e, ":")
	require.Equal(t, "COMMAND", e.Mode())
	feed(t, e, "<BS>")
	require.Equal(t, "NORMAL", e.Mode())
}

func TestMappingExpandsAcrossHandleInputCalls(t *testing.T) {
	e, h := newTestEngine("abc")
	require.NoError(t, e.AddMapping(ModeNormal, "jj", "dw", false))
	feed(t, e, "jj")
	require.Equal(t, "", h.String())
}

func TestHighlightRangesReflectsHlsearch(t *testing.T) {
	e, _ := newTestEngine("foo bar foo")
	require.NoError(t, e.Settings.SetBool("hlsearch", true))
	_, err := e.Search.Find(e.Model.Buf, e.Settings, "foo", 0, true)
	require.NoError(t, err)
	ranges, ok := e.HighlightRanges()
	require.True(t, ok)
	require.Len(t, ranges, 2)
}

// TestDotRepeatsInsertCommand reproduces spec.md §8 scenario 3: typing
// "iX<Esc>" then "." inserts the same text a second time, which means
// the dot buffer must have recorded the opening "i" itself and not
// just the typed "X" and the closing <Esc>.
func TestDotRepeatsInsertCommand(t *testing.T) {
	e, h := newTestEngine("abc")
	feed(t, e, "iX<Esc>")
	require.Equal(t, "Xabc", h.String())
	feed(t, e, ".")
	require.Equal(t, "XXabc", h.String())
	require.Equal(t, "NORMAL", e.Mode())
}

// TestDotRepeatsOpenLineCommand covers the "o"/"O" family alongside "i",
// since they open Insert mode through a different one-shot path.
func TestDotRepeatsOpenLineCommand(t *testing.T) {
	e, h := newTestEngine("one")
	feed(t, e, "oX<Esc>")
	require.Equal(t, "one\nX", h.String())
	feed(t, e, ".")
	require.Equal(t, "one\nX\nX", h.String())
}

// TestDotRepeatsOperatorMotion covers an operator+motion command (no
// Insert mode involved at all), which needs its own dot recording at
// the point the operator is applied.
func TestDotRepeatsOperatorMotion(t *testing.T) {
	e, h := newTestEngine("one two three")
	feed(t, e, "dw")
	require.Equal(t, "two three", h.String())
	feed(t, e, ".")
	require.Equal(t, "three", h.String())
}

// TestDotRepeatsCountedOneShot guards against the count being dropped
// or clobbered when "." itself is typed without a digit prefix: the
// originally recorded count (3) must be replayed, not the bare "."'s
// own default count of 1.
func TestDotRepeatsCountedOneShot(t *testing.T) {
	e, h := newTestEngine("aaaaaaaa")
	feed(t, e, "3x")
	require.Equal(t, "aaaaa", h.String())
	feed(t, e, ".")
	require.Equal(t, "aa", h.String())
}

// TestYankIsNotDotRepeatable matches real Vim: "y" never mutates the
// buffer, so "." after a yank is a no-op rather than replaying it.
func TestYankIsNotDotRepeatable(t *testing.T) {
	e, h := newTestEngine("one two three")
	feed(t, e, "dw")
	require.Equal(t, "two three", h.String())
	feed(t, e, "yw")
	require.Equal(t, "two three", h.String())
	feed(t, e, ".")
	require.Equal(t, "three", h.String())
}

// TestSlashSearchMovesCursorToMatch drives the `/` command line end to
// end: entering Search mode, typing a pattern and confirming with
// <CR> must land the cursor on the match and leave Search mode.
func TestSlashSearchMovesCursorToMatch(t *testing.T) {
	e, h := newTestEngine("foo bar foo")
	feed(t, e, "/bar<CR>")
	require.Equal(t, 4, h.cursor)
	require.Equal(t, "NORMAL", e.Mode())
}

// TestQuestionSearchMovesCursorBackward covers the backward `?` form
// and that `n` repeats it in the same (backward) direction.
func TestQuestionSearchMovesCursorBackward(t *testing.T) {
	e, h := newTestEngine("foo bar foo")
	h.cursor = len(h.text)
	feed(t, e, "?foo<CR>")
	require.Equal(t, 8, h.cursor)
	feed(t, e, "n")
	require.Equal(t, 0, h.cursor)
}

// TestStarSearchesWordUnderCursor covers `*`: it builds a whole-word
// pattern from the keyword run under the cursor and jumps to the next
// occurrence, then `n` repeats that same search forward, wrapping back
// around to the first match.
func TestStarSearchesWordUnderCursor(t *testing.T) {
	e, h := newTestEngine("foo bar foo")
	feed(t, e, "*")
	require.Equal(t, 8, h.cursor)
	feed(t, e, "n")
	require.Equal(t, 0, h.cursor)
}

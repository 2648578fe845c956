// Command fakevim-demo is a minimal terminal harness for driving a
// fakevim.Engine end to end: an in-memory buffer implementing
// fakevim.HostBridge, and a raw-mode key-reading loop, in the spirit of
// the scenario buffers SPEC_FULL.md's examples are built against.
package main

import (
	"fmt"
	"os/exec"
	"strings"

	"github.com/fakevim/fakevim"
)

// memBuffer is the in-memory fakevim.HostBridge: buffer text, cursor,
// undo history and clipboard contents all live here rather than in the engine,
// per spec.md's "the engine owns no text storage" design.
type memBuffer struct {
	text   []rune
	cursor int
	rev    int

	undo []bufSnapshot
	redo []bufSnapshot

	clip map[byte]string

	statusLine string
	cmdLine    string
	quit       bool
	quitSave   bool
}

type bufSnapshot struct {
	text   []rune
	cursor int
}

func newMemBuffer(initial string) *memBuffer {
	return &memBuffer{text: []rune(initial), clip: make(map[byte]string)}
}

func (b *memBuffer) String() string { return string(b.text) }

func (b *memBuffer) BufferRead(r fakevim.Range) (string, error) {
	if r.Begin < 0 || r.End > len(b.text) || r.Begin > r.End {
		return "", fmt.Errorf("fakevim-demo: range %v out of bounds", r)
	}
	return string(b.text[r.Begin:r.End]), nil
}

func (b *memBuffer) BufferReplace(r fakevim.Range, newText string) error {
	if r.Begin < 0 || r.End > len(b.text) || r.Begin > r.End {
		return fmt.Errorf("fakevim-demo: range %v out of bounds", r)
	}
	repl := []rune(newText)
	tail := append([]rune{}, b.text[r.End:]...)
	b.text = append(b.text[:r.Begin:r.Begin], repl...)
	b.text = append(b.text, tail...)
	b.rev++
	return nil
}

func (b *memBuffer) LineCount() int { return strings.Count(string(b.text), "\n") + 1 }

func (b *memBuffer) LineStart(line int) int {
	if line <= 1 {
		return 0
	}
	found := 1
	for i, r := range b.text {
		if r == '\n' {
			found++
			if found == line {
				return i + 1
			}
		}
	}
	return len(b.text)
}

func (b *memBuffer) LineEnd(line int) int {
	start := b.LineStart(line)
	for i := start; i < len(b.text); i++ {
		if b.text[i] == '\n' {
			return i
		}
	}
	return len(b.text)
}

func (b *memBuffer) CursorGet() int  { return b.cursor }
func (b *memBuffer) CursorSet(p int) { b.cursor = p }

func (b *memBuffer) SelectionSet([]fakevim.Range) {}

func (b *memBuffer) UndoBeginBlock() {
	b.undo = append(b.undo, bufSnapshot{text: append([]rune{}, b.text...), cursor: b.cursor})
	b.redo = nil
}
func (b *memBuffer) UndoEndBlock() {}

func (b *memBuffer) Undo() error {
	if len(b.undo) == 0 {
		return nil
	}
	b.redo = append(b.redo, bufSnapshot{text: append([]rune{}, b.text...), cursor: b.cursor})
	last := b.undo[len(b.undo)-1]
	b.undo = b.undo[:len(b.undo)-1]
	b.text, b.cursor = last.text, last.cursor
	b.rev--
	return nil
}

func (b *memBuffer) Redo() error {
	if len(b.redo) == 0 {
		return nil
	}
	last := b.redo[len(b.redo)-1]
	b.redo = b.redo[:len(b.redo)-1]
	b.text, b.cursor = last.text, last.cursor
	b.rev++
	return nil
}

func (b *memBuffer) UndoRevision() int { return b.rev }

func (b *memBuffer) IndentRegion(int, int, rune) {}
func (b *memBuffer) IsElectricChar(rune) bool    { return false }

func (b *memBuffer) ClipboardGet(name byte) (string, error) { return b.clip[name], nil }
func (b *memBuffer) ClipboardSet(name byte, text string) error {
	b.clip[name] = text
	return nil
}

// SpawnProcess shells out through /bin/sh -c, feeding stdin and
// capturing stdout, for `:!` and the `!`/`:range!` filter operators.
func (b *memBuffer) SpawnProcess(cmd string, stdin string) (string, error) {
	c := exec.Command("/bin/sh", "-c", cmd)
	c.Stdin = strings.NewReader(stdin)
	out, err := c.Output()
	return string(out), err
}

func (b *memBuffer) MatchBracket(cursor int) fakevim.BracketMatch {
	const pairs = "()[]{}"
	if cursor < 0 || cursor >= len(b.text) {
		return fakevim.BracketMatch{}
	}
	ch := b.text[cursor]
	idx := strings.IndexRune(pairs, ch)
	if idx < 0 {
		return fakevim.BracketMatch{}
	}
	forward := idx%2 == 0
	open, close := pairs[idx-idx%2], pairs[idx-idx%2+1]
	depth := 0
	if forward {
		for i := cursor; i < len(b.text); i++ {
			switch b.text[i] {
			case rune(open):
				depth++
			case rune(close):
				depth--
				if depth == 0 {
					return fakevim.BracketMatch{Moved: true, Forward: true, NewCursor: i}
				}
			}
		}
	} else {
		for i := cursor; i >= 0; i-- {
			switch b.text[i] {
			case rune(close):
				depth++
			case rune(open):
				depth--
				if depth == 0 {
					return fakevim.BracketMatch{Moved: true, Forward: false, NewCursor: i}
				}
			}
		}
	}
	return fakevim.BracketMatch{}
}

func (b *memBuffer) OpenFile(string) error   { return nil }
func (b *memBuffer) CurrentFileName() string { return "demo" }
func (b *memBuffer) WriteFile(path string, r fakevim.Range) error {
	text, err := b.BufferRead(r)
	if err != nil {
		return err
	}
	b.statusLine = fmt.Sprintf("%q %d bytes written", path, len(text))
	return nil
}
func (b *memBuffer) ReadFile(string) (string, error) { return "", nil }

func (b *memBuffer) ShowMessage(m fakevim.Message) { b.statusLine = m.Text }
func (b *memBuffer) ShowCommandBuffer(text string, _, _ int, _ fakevim.MessageLevel) {
	b.cmdLine = text
}
func (b *memBuffer) ExtraInformation(text string) { b.statusLine = text }
func (b *memBuffer) WindowCommand(rune)           {}
func (b *memBuffer) FindOpen(bool)                {}
func (b *memBuffer) FindNext(bool)                {}
func (b *memBuffer) SimpleCompletion(string, bool) {}

// RequestQuit implements fakevim.OptionalQuitRequester so ZZ/ZQ reach
// the demo loop rather than being silently absorbed.
func (b *memBuffer) RequestQuit(save bool) {
	b.quit = true
	b.quitSave = save
}

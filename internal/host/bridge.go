// Package host declares the capability surface (HostBridge, spec.md
// §4.8) that every component of the engine calls out through. The
// engine owns no text storage, no regex engine, and no process
// spawning; all of that is provided synchronously by whatever embeds
// the engine.
package host

import "github.com/fakevim/fakevim/internal/edit"

// MessageLevel is the severity of a message reported to the host.
type MessageLevel int

// Message severities, per spec.md §6.
const (
	Info MessageLevel = iota
	Warning
	Error
)

// Message is a single line reported to the host's status area.
type Message struct {
	Level MessageLevel
	Text  string
}

// BracketMatch is the result of asking the host to find a matching
// bracket from the cursor.
type BracketMatch struct {
	Moved      bool
	Forward    bool
	NewCursor  int
}

// Bridge is the full HostBridge capability set from spec.md §4.8.
// Every method is a synchronous callback; the host must never re-enter
// the engine from inside one except via an explicit re-entry point.
type Bridge interface {
	// Buffer I/O. Lines are 1-based, positions are 0-based character
	// offsets, per spec.md §1.
	BufferRead(r edit.Range) (string, error)
	BufferReplace(r edit.Range, text string) error
	LineCount() int
	LineStart(line int) int
	LineEnd(line int) int

	// Cursor.
	CursorGet() int
	CursorSet(pos int)

	// Selection highlight painting (out of engine scope beyond
	// reporting which ranges are selected).
	SelectionSet(ranges []edit.Range)

	// Undo coordination: the engine only marks boundaries and queries
	// revision numbers; the undo stack itself is the host's (spec.md §1).
	UndoBeginBlock()
	UndoEndBlock()
	Undo() error
	Redo() error
	UndoRevision() int

	// Indentation and electric-character classification are
	// delegated, per spec.md §1.
	IndentRegion(beginLine, endLine int, typedChar rune)
	IsElectricChar(r rune) bool

	// Clipboard, for registers '+' and '*'.
	ClipboardGet(name byte) (string, error)
	ClipboardSet(name byte, text string) error

	// Process spawning for :! and the ex filter pipeline.
	SpawnProcess(cmd string, stdin string) (stdout string, err error)

	// Bracket matching for the `%` motion.
	MatchBracket(cursor int) BracketMatch

	// File/window glue.
	OpenFile(path string) error
	CurrentFileName() string
	WriteFile(path string, r edit.Range) error
	ReadFile(path string) (string, error)

	// Messaging.
	ShowMessage(m Message)
	ShowCommandBuffer(text string, cursorPos, anchorPos int, level MessageLevel)
	ExtraInformation(text string)

	// Misc host delegation.
	WindowCommand(key rune)
	FindOpen(reverse bool)
	FindNext(reverse bool)
	SimpleCompletion(prefix string, forward bool)
}

// OptionalQuitRequester is implemented by hosts that want ZZ/ZQ to
// reach them; it is checked with a type assertion since quitting the
// process is squarely a host decision and most embeddings have no use
// for it (see SPEC_FULL.md §C.4).
type OptionalQuitRequester interface {
	RequestQuit(save bool)
}

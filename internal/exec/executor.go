// Package exec implements the CommandExecutor: the component that
// turns a mode.Transition into an actual mutation of the host buffer,
// using internal/edit for range math/registers/marks/undo-cursor
// bookkeeping and internal/search for `/`, `?`, `n`, `N`, per spec.md
// §4.4.
package exec

import (
	"strings"

	"github.com/fakevim/fakevim/internal/edit"
	"github.com/fakevim/fakevim/internal/host"
	"github.com/fakevim/fakevim/internal/input"
	"github.com/fakevim/fakevim/internal/mode"
	"github.com/fakevim/fakevim/internal/search"
	"github.com/fakevim/fakevim/internal/settings"
)

// ExRunner is the narrow slice of the ExInterpreter the Executor calls
// out to: executing a parsed ex command line (`:`) and replaying one
// for `:normal`. Declared here, not imported from internal/ex, so this
// package has no dependency on it; internal/ex's Interpreter satisfies
// this structurally.
type ExRunner interface {
	Execute(line string) error
}

// Executor is the CommandExecutor.
type Executor struct {
	Host     host.Bridge
	Model    *edit.Model
	Machine  *mode.Machine
	Search   *search.Engine
	Settings *settings.Settings
	Ex       ExRunner

	visualAnchor     int
	pendingFilterCmd string
	replaying        bool

	// dotCount carries the count recorded by beginDot through to the
	// matching Commit in leaveSpecialMode, for commands that open
	// Insert/Replace mode (the typed text itself is recorded in
	// between by insertKey/replaceKey).
	dotCount int

	// searchForward remembers whether `/` or `?` opened the pending
	// search command-line, for the root package's applySearchKey.
	searchForward bool

	// lastCharSearch remembers the target/direction of the last f/F/t/T
	// for `;`/`,` repeat.
	lastCharSearch struct {
		ch      rune
		forward bool
		till    bool
		hasOne  bool
	}
}

// NewExecutor wires an Executor around its collaborators. Ex may be
// nil until internal/ex constructs its Interpreter around this same
// Executor (the two are wired together by the root package).
func NewExecutor(h host.Bridge, m *edit.Model, mach *mode.Machine, se *search.Engine, st *settings.Settings) *Executor {
	return &Executor{Host: h, Model: m, Machine: mach, Search: se, Settings: st}
}

// SetFilterCommand records the shell command a pending `!motion`
// filter pipes its range through (read by applyFilter). Nothing in this
// module calls it; `:range!cmd` runs its command in internal/ex
// without going through it.
func (ex *Executor) SetFilterCommand(cmd string) {
	ex.pendingFilterCmd = cmd
}

// Dispatch feeds one resolved Input through the mode machine and
// performs whatever semantic action the resulting Transition calls
// for. It returns the messages, if any, that should reach the host's
// status line.
func (ex *Executor) Dispatch(in input.Input) []host.Message {
	wasVisual := ex.Machine.State.Visual != mode.VisualNone
	tr := ex.Machine.Feed(in)

	if !ex.replaying {
		ex.Machine.State.AppendShowCmd(in.String())
	}

	switch tr.Kind {
	case mode.Digit, mode.OpenOperator, mode.OpenSubSub:
		return nil

	case mode.ToggleVisual:
		if !wasVisual {
			ex.visualAnchor = ex.Host.CursorGet()
		}
		return nil

	case mode.SelfMotion:
		return ex.dispatchSelfMotion(tr)

	case mode.VisualOperator:
		return ex.dispatchVisualOperator(tr)

	case mode.SubSubComplete:
		return ex.dispatchSubSubComplete(tr)

	case mode.EnterEx:
		ex.Machine.EnterMode(mode.Ex)
		ex.Host.ShowCommandBuffer(":", 1, 0, host.Info)
		return nil

	case mode.EnterSearch:
		ex.enterSearch(tr.Input.Text == "/")
		return nil

	case mode.LeaveSpecialMode:
		return ex.leaveSpecialMode()

	case mode.CancelPending:
		if ex.Machine.State.Visual == mode.VisualNone {
			ex.commitMarksIfVisualJustLeft()
		}
		return nil

	case mode.Command:
		return ex.dispatchCommand(tr)
	}

	return nil
}

func (ex *Executor) commitMarksIfVisualJustLeft() {}

// dispatchCommand handles the common case: a plain resolved key in
// Command, Insert, Replace or Ex mode.
func (ex *Executor) dispatchCommand(tr mode.Transition) []host.Message {
	switch ex.Machine.State.Mode {
	case mode.Insert:
		ex.insertKey(tr.Input)
		return nil
	case mode.Replace:
		ex.replaceKey(tr.Input)
		return nil
	case mode.Ex, mode.Search:
		// The root package owns the actual command-line buffer editing
		// (it is host/text-widget behavior, not engine state); by the
		// time Dispatch sees an Ex- or Search-mode Command it is CR or
		// Escape, both already handled as LeaveSpecialMode, so there is
		// nothing left to do here for ordinary typed characters beyond
		// letting the host's command-line widget show them
		// (ShowCommandBuffer is driven by the root package's Ex/Search
		// loop).
		return nil
	}

	if tr.SubMode != mode.NoSubMode {
		return ex.dispatchOperatorMotion(tr)
	}

	return ex.dispatchMotionOrOneShot(tr)
}

// dispatchOperatorMotion resolves tr.Input as a motion and applies the
// pending operator (tr.SubMode) over the resulting range.
func (ex *Executor) dispatchOperatorMotion(tr mode.Transition) []host.Message {
	cursor := ex.Host.CursorGet()

	var mr motionResult
	var ok bool
	if tr.SubMode == mode.OpChange && (tr.Input.Text == "w" || tr.Input.Text == "W") {
		mr, ok = ex.changeWordMotion(cursor, tr.Count, tr.Input.Text == "W")
	} else {
		mr, ok = ex.resolveMotion(tr.Input, cursor, tr.Count)
	}
	if !ok {
		ex.Machine.State.CloseSubMode()
		return nil
	}

	r := ex.rangeFromMotion(cursor, mr)
	newCursor, err := ex.applyOperator(tr.SubMode, r, ex.registerFor(tr))
	if err != nil {
		return []host.Message{{Level: host.Error, Text: err.Error()}}
	}

	ex.Host.CursorSet(newCursor)
	ex.Machine.State.CloseSubMode()
	ex.finishOperator(tr.SubMode, tr.SubMode.Letter()+tr.Input.String(), tr.Count)

	return nil
}

func (ex *Executor) dispatchSelfMotion(tr mode.Transition) []host.Message {
	cursor := ex.Host.CursorGet()
	line := ex.lineOf(cursor)
	endLine := line + tr.Count - 1
	if last := ex.Host.LineCount(); endLine > last {
		endLine = last
	}

	begin := ex.Host.LineStart(line)
	end := ex.Host.LineEnd(endLine)
	if endLine < ex.Host.LineCount() {
		end++
	}

	r := edit.NewRange(begin, end, edit.Line)
	newCursor, err := ex.applyOperator(tr.SubMode, r, ex.Model.Registers.Active())
	if err != nil {
		return []host.Message{{Level: host.Error, Text: err.Error()}}
	}

	ex.Host.CursorSet(newCursor)
	ex.finishOperator(tr.SubMode, tr.SubMode.Letter()+tr.SubMode.Letter(), tr.Count)
	return nil
}

func (ex *Executor) dispatchVisualOperator(tr mode.Transition) []host.Message {
	cursor := ex.Host.CursorGet()
	lo, hi := ex.visualAnchor, cursor
	if lo > hi {
		lo, hi = hi, lo
	}

	rangeMode := edit.Char
	visualKey, stepKey := "v", "l"
	var steps int
	switch ex.Machine.State.Visual {
	case mode.VisualLine:
		lineA, lineB := ex.lineOf(lo), ex.lineOf(hi)
		lo = ex.Host.LineStart(lineA)
		hi = ex.Host.LineEnd(lineB)
		if lineB < ex.Host.LineCount() {
			hi++
		}
		rangeMode = edit.Line
		visualKey, stepKey = "V", "j"
		steps = lineB - lineA
	case mode.VisualBlock:
		rangeMode = edit.Block
		visualKey, stepKey = "<C-v>", "j"
		steps = ex.lineOf(hi) - ex.lineOf(lo)
	default:
		hi++
		if bufEnd := ex.bufferEnd(); hi > bufEnd {
			hi = bufEnd
		}
		steps = hi - lo - 1
		if steps < 0 {
			steps = 0
		}
	}

	r := edit.NewRange(lo, hi, rangeMode)
	ex.Model.Marks.SetVisual(lo, hi)
	replay := visualKey + strings.Repeat(stepKey, steps) + tr.SubMode.Letter()

	newCursor, err := ex.applyOperator(tr.SubMode, r, ex.registerFor(tr))
	ex.Machine.ExitVisual()
	if err != nil {
		return []host.Message{{Level: host.Error, Text: err.Error()}}
	}

	ex.Host.CursorSet(newCursor)
	ex.finishOperator(tr.SubMode, replay, tr.Count)
	return nil
}

func (ex *Executor) registerFor(tr mode.Transition) byte {
	return ex.Model.Registers.Active()
}

// enterSearch opens the `/`/`?` command-line, remembering direction
// and anchoring the incremental search at the current cursor.
func (ex *Executor) enterSearch(forward bool) {
	ex.searchForward = forward
	ex.Search.IsearchStart(ex.Host.CursorGet())
	ex.Machine.EnterMode(mode.Search)
	prefix := "/"
	if !forward {
		prefix = "?"
	}
	ex.Host.ShowCommandBuffer(prefix, 1, 0, host.Info)
}

// SearchForward reports the direction of the search command-line
// currently open (or last opened), for the root package's
// applySearchKey to drive search.Engine with the right direction.
func (ex *Executor) SearchForward() bool {
	return ex.searchForward
}

// enterInsert switches to Insert mode for a command that has already
// called beginDot to record the key(s) that opened it.
func (ex *Executor) enterInsert() {
	ex.Host.UndoBeginBlock()
	ex.Machine.EnterMode(mode.Insert)
}

func (ex *Executor) leaveSpecialMode() []host.Message {
	switch ex.Machine.State.Mode {
	case mode.Insert, mode.Replace:
		ex.Host.UndoEndBlock()
		ex.Model.Dot.Record("<Esc>")
		ex.Model.Dot.Commit(ex.dotCount)
		pos := ex.Host.CursorGet()
		if pos > ex.Host.LineStart(ex.lineOf(pos)) {
			ex.Host.CursorSet(pos - 1)
		}
		ex.Machine.EnterMode(mode.Command)
	case mode.Ex, mode.Search:
		ex.Machine.EnterMode(mode.Command)
	}
	return nil
}

func (ex *Executor) insertKey(in input.Input) {
	ex.Model.Dot.Record(in.String())

	pos := ex.Host.CursorGet()
	switch in.Key {
	case input.KeyCR:
		ex.insertText(pos, "\n")
	case input.KeyBackspace:
		if pos > 0 {
			if _, err := ex.Model.Apply(edit.NewRange(pos-1, pos, edit.Char), edit.Remove); err == nil {
				ex.Host.CursorSet(pos - 1)
			}
		}
	case input.KeyTab:
		ex.insertText(pos, "\t")
	case input.KeyRune:
		ex.insertText(pos, in.Text)
	}
}

func (ex *Executor) replaceKey(in input.Input) {
	ex.Model.Dot.Record(in.String())
	pos := ex.Host.CursorGet()

	if in.Key != input.KeyRune {
		ex.insertKey(in)
		return
	}

	line := ex.lineOf(pos)
	hi := ex.Host.LineEnd(line)
	if pos < hi {
		if _, err := ex.Model.Apply(edit.NewRange(pos, pos+1, edit.Char), edit.ReplaceByString(in.Text)); err == nil {
			ex.Host.CursorSet(pos + 1)
		}
		return
	}
	ex.insertText(pos, in.Text)
}

func (ex *Executor) insertText(pos int, text string) {
	if _, err := ex.Model.Apply(edit.NewRange(pos, pos, edit.Char), edit.ReplaceByString(text)); err == nil {
		ex.Host.CursorSet(pos + len([]rune(text)))
	}
}

// Replay feeds a pre-parsed Inputs sequence through Dispatch without
// re-expanding user mappings, for `:normal!` and the dot command (both
// replay literal keys, per spec.md §4.7/§C.3).
func (ex *Executor) Replay(seq input.Inputs) {
	ex.replaying = true
	defer func() { ex.replaying = false }()
	for _, in := range seq {
		ex.Dispatch(in)
	}
}

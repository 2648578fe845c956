package fakevim

import (
	"github.com/fakevim/fakevim/internal/edit"
	"github.com/fakevim/fakevim/internal/ex"
	"github.com/fakevim/fakevim/internal/exec"
	"github.com/fakevim/fakevim/internal/host"
	"github.com/fakevim/fakevim/internal/input"
	"github.com/fakevim/fakevim/internal/mode"
	"github.com/fakevim/fakevim/internal/search"
	"github.com/fakevim/fakevim/internal/settings"
)

// Engine is the top-level handle an embedder constructs once per open
// buffer. It wires InputPipeline, ModeMachine, CommandExecutor,
// EditModel, SearchEngine, Settings and ExInterpreter around a single
// host.Bridge, the way the teacher's root readline package wires its
// internal/core, internal/keymap, internal/completion and
// internal/history packages behind one Shell type.
type Engine struct {
	Host     host.Bridge
	Model    *edit.Model
	Machine  *mode.Machine
	Search   *search.Engine
	Settings *settings.Settings
	Executor *exec.Executor
	Ex       *ex.Interpreter

	globals *EngineGlobals

	// pending buffers input awaiting mapping resolution (spec.md §4.2:
	// a sequence that is a strict prefix of some mapping's lhs must wait
	// for more input, or for the host-driven flush timeout, before it is
	// known to be unmapped).
	pending input.Inputs

	// cmdline is the ex command-line text being composed while
	// Machine.State.Mode is Ex; CommandExecutor.dispatchCommand
	// deliberately leaves this to the root package (see its doc
	// comment), since editing a text line is host/widget behavior, not
	// engine state.
	cmdline []rune

	// searchline is the incremental-search pattern text being composed
	// while Machine.State.Mode is Search, owned by the root package for
	// the same reason as cmdline.
	searchline []rune
}

// New wires a complete Engine around host, sharing the registers,
// uppercase marks and :map table held by globals with every other
// Engine constructed against the same EngineGlobals.
func New(h host.Bridge, globals *EngineGlobals) *Engine {
	marks := edit.NewMarks(globals.GlobalMarks)
	jumps := edit.NewJumpList()
	model := edit.NewModel(h, globals.Registers, marks, jumps)

	mach := mode.NewMachine()
	se := search.New()
	st := settings.New()

	executor := exec.NewExecutor(h, model, mach, se, st)
	interp := ex.New(executor)
	interp.Mappings = globals.Mappings
	executor.Ex = interp

	return &Engine{
		Host:     h,
		Model:    model,
		Machine:  mach,
		Search:   se,
		Settings: st,
		Executor: executor,
		Ex:       interp,
		globals:  globals,
	}
}

// Mappings returns the :map table shared across every Engine built
// against this one's EngineGlobals.
func (e *Engine) Mappings() *input.Table { return e.globals.Mappings }

// modeCode reports which mapping table HandleInput should resolve
// pending input against, mirroring :map's mode-letter convention.
func (e *Engine) modeCode() input.ModeCode {
	s := e.Machine.State
	switch {
	case s.Mode == mode.Insert || s.Mode == mode.Replace:
		return input.ModeInsert
	case s.Mode == mode.Ex:
		return input.ModeCmdline
	case s.Visual == mode.VisualBlock:
		return input.ModeVisBlock
	case s.Visual != mode.VisualNone:
		return input.ModeVisual
	default:
		return input.ModeNormal
	}
}

// HandleInput feeds one raw key event into the engine and returns any
// messages that should reach the host's status line. Mapping
// resolution happens here rather than in CommandExecutor, since it
// needs to buffer input across multiple HandleInput calls (spec.md
// §4.2) — CommandExecutor.Dispatch only ever sees one already-resolved
// Input at a time.
func (e *Engine) HandleInput(in input.Input) []host.Message {
	e.pending = append(e.pending, in)
	return e.resolvePending()
}

// FlushPending is called by the host once FlushTimeout (internal/input
// pipeline.go) has elapsed with no further key event: a pending
// sequence that is a strict prefix of some mapping, but ambiguous
// until a timeout confirms no more input is coming, is forced through
// as a literal, unmapped key.
func (e *Engine) FlushPending() []host.Message {
	if len(e.pending) == 0 {
		return nil
	}
	first := e.pending[0]
	e.pending = e.pending[1:]
	msgs := e.applyKey(first)
	return append(msgs, e.resolvePending()...)
}

func (e *Engine) resolvePending() []host.Message {
	var msgs []host.Message
	for len(e.pending) > 0 {
		status, result := input.Resolve(e.globals.Mappings, e.modeCode(), e.pending)
		switch status {
		case input.StatusUndecided:
			return msgs
		case input.StatusResolved:
			e.pending = nil
			for _, rin := range result {
				msgs = append(msgs, e.applyKey(rin)...)
			}
		default: // StatusPassthrough
			first := e.pending[0]
			e.pending = e.pending[1:]
			msgs = append(msgs, e.applyKey(first)...)
		}
	}
	return msgs
}

// applyKey routes one resolved Input to the ex command-line editor, the
// search command-line editor, or the CommandExecutor, depending on the
// current mode.
func (e *Engine) applyKey(in input.Input) []host.Message {
	switch e.Machine.State.Mode {
	case mode.Ex:
		return e.applyExKey(in)
	case mode.Search:
		return e.applySearchKey(in)
	}
	return e.Executor.Dispatch(in)
}

// applyExKey implements the small text-editing state machine for the
// command line while `:` is open: ordinary runes are appended, <BS>
// deletes backward (leaving Ex mode once the line is empty, matching
// Vim backspacing past the leading colon), <Esc> is handled by the
// CommandExecutor like any other mode exit, and <CR> commits the line
// to the ExInterpreter.
func (e *Engine) applyExKey(in input.Input) []host.Message {
	switch in.Key {
	case input.KeyEscape:
		e.cmdline = nil
		return e.Executor.Dispatch(in)

	case input.KeyCR:
		line := string(e.cmdline)
		e.cmdline = nil
		e.Machine.EnterMode(mode.Command)
		e.Host.ShowCommandBuffer("", 0, 0, host.Info)
		if err := e.Ex.Execute(line); err != nil {
			return []host.Message{{Level: host.Error, Text: err.Error()}}
		}
		return nil

	case input.KeyBackspace:
		if len(e.cmdline) == 0 {
			e.Machine.EnterMode(mode.Command)
			e.Host.ShowCommandBuffer("", 0, 0, host.Info)
			return nil
		}
		e.cmdline = e.cmdline[:len(e.cmdline)-1]

	case input.KeyRune:
		e.cmdline = append(e.cmdline, []rune(in.Text)...)
	case input.KeyTab:
		e.cmdline = append(e.cmdline, '\t')
	default:
		return nil
	}

	text := ":" + string(e.cmdline)
	e.Host.ShowCommandBuffer(text, len([]rune(text)), 0, host.Info)
	return nil
}

// applySearchKey implements the command-line for `/`/`?` incremental
// search: typed runes update the live preview (when 'incsearch' is on),
// painted as a one-character selection at the candidate match,
// without moving the real cursor, <Esc> restores the pre-search
// cursor (spec.md §4.6), and <CR> commits the pattern as the new last
// search and pushes the jump list like any other jump motion.
func (e *Engine) applySearchKey(in input.Input) []host.Message {
	forward := e.Executor.SearchForward()
	prefix := "/"
	if !forward {
		prefix = "?"
	}

	switch in.Key {
	case input.KeyEscape:
		e.searchline = nil
		e.Host.SelectionSet(nil)
		e.Host.CursorSet(e.Search.IsearchCancel())
		return e.Executor.Dispatch(in)

	case input.KeyCR:
		pattern := string(e.searchline)
		e.searchline = nil
		e.Host.SelectionSet(nil)
		cursor := e.Host.CursorGet()
		e.Machine.EnterMode(mode.Command)
		e.Host.ShowCommandBuffer("", 0, 0, host.Info)
		res, err := e.Search.Find(e.Host, e.Settings, pattern, cursor, forward)
		if err != nil {
			e.Host.CursorSet(e.Search.IsearchCancel())
			return []host.Message{{Level: host.Error, Text: err.Error()}}
		}
		e.Search.IsearchConfirm(pattern, forward)
		e.Model.Jumps.Push(edit.JumpPoint{Position: cursor})
		e.Host.CursorSet(res.Pos)
		if res.Wrapped {
			return []host.Message{{Level: host.Info, Text: searchWrapMessage(forward)}}
		}
		return nil

	case input.KeyBackspace:
		if len(e.searchline) == 0 {
			e.Machine.EnterMode(mode.Command)
			e.Host.CursorSet(e.Search.IsearchCancel())
			e.Host.ShowCommandBuffer("", 0, 0, host.Info)
			return nil
		}
		e.searchline = e.searchline[:len(e.searchline)-1]

	case input.KeyRune:
		e.searchline = append(e.searchline, []rune(in.Text)...)
	case input.KeyTab:
		e.searchline = append(e.searchline, '\t')
	default:
		return nil
	}

	pattern := string(e.searchline)
	if e.Settings.Bool("incsearch") {
		if res, ok := e.Search.IsearchUpdate(e.Host, e.Settings, pattern, forward); ok {
			e.Host.SelectionSet([]edit.Range{edit.NewRange(res.Pos, res.Pos+1, edit.Char)})
		}
	}
	text := prefix + pattern
	e.Host.ShowCommandBuffer(text, len([]rune(text)), 0, host.Info)
	return nil
}

func searchWrapMessage(forward bool) string {
	if forward {
		return "search hit BOTTOM, continuing at TOP"
	}
	return "search hit TOP, continuing at BOTTOM"
}

// ShowCmd returns the partially-typed command echo (spec.md §C.2),
// e.g. "2d" while a count+operator is pending.
func (e *Engine) ShowCmd() string {
	return e.Machine.State.ShowCmd()
}

// Mode reports the engine's current top-level mode and, when
// applicable, its visual flavor, as a short status-line label (e.g.
// "NORMAL", "INSERT", "VISUAL", "V-LINE", "V-BLOCK", "REPLACE").
func (e *Engine) Mode() string {
	s := e.Machine.State
	switch s.Mode {
	case mode.Insert:
		return "INSERT"
	case mode.Replace:
		return "REPLACE"
	case mode.Ex:
		return "COMMAND"
	}
	switch s.Visual {
	case mode.VisualChar:
		return "VISUAL"
	case mode.VisualLine:
		return "V-LINE"
	case mode.VisualBlock:
		return "V-BLOCK"
	}
	return "NORMAL"
}

// HighlightRanges reports the current search-highlight ranges, for a
// host render loop to paint (spec.md §4.5, 'hlsearch').
func (e *Engine) HighlightRanges() ([]edit.Range, bool) {
	return e.Search.HighlightRanges(e.Host, e.Settings)
}

// ParseKeys is a thin convenience wrapper around input.ParseInputs, for
// embedders that want to feed a whole notated key sequence (e.g. from
// a test or a host-level keybinding) through HandleInput in one call.
func (e *Engine) ParseKeys(notation string) ([]host.Message, error) {
	seq, err := input.ParseInputs(notation)
	if err != nil {
		return nil, err
	}
	var msgs []host.Message
	for _, in := range seq {
		msgs = append(msgs, e.HandleInput(in)...)
	}
	return msgs, nil
}

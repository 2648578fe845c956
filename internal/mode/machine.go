package mode

import "github.com/fakevim/fakevim/internal/input"

// Transition is what the Machine decided to do with one resolved Input.
// The Executor (internal/exec) inspects it to know which semantic
// action, if any, to perform; the Machine itself never touches buffer
// text.
type Transition struct {
	// Kind classifies the transition for the Executor's dispatch.
	Kind TransitionKind

	// Input is the triggering key, echoed back for commands that need
	// the literal character (f/F/t/T, r, m, ', `, ", register select).
	Input input.Input

	// Count is the effective count at the moment this transition fired
	// (mvcount*opcount, or just mvcount for a plain motion).
	Count int

	// SubMode/SubSubMode are the state's values *before* this input was
	// applied, so the Executor knows what operator/selector it is
	// completing.
	SubMode    SubMode
	SubSubMode SubSubMode
}

// TransitionKind enumerates what a resolved Input meant to the machine.
type TransitionKind int

const (
	// Digit was consumed into the count accumulator; nothing to execute.
	Digit TransitionKind = iota
	// OpenOperator opened a new operator SubMode (d, c, y, !, =, <, >);
	// nothing to execute yet. g~, gu and gU open their SubMode through
	// the Executor's g-prefix handling and produce no OpenOperator.
	OpenOperator
	// SelfMotion is a doubled operator key completing a linewise
	// self-motion (dd, yy, cc, !!, <<, >>, ==). The g-prefixed case
	// operators have no doubled form here.
	SelfMotion
	// OpenSubSub opened a sub-sub-mode awaiting one more character.
	OpenSubSub
	// SubSubComplete is the character argument completing a sub-sub-mode
	// (the 'x' in fx, the char in rx, the letter in ma, etc.).
	SubSubComplete
	// Command is a plain dispatchable command/motion input, to be looked
	// up by the Executor in its own tables. If a SubMode was open, the
	// Executor must apply it as the pending operator's range; otherwise
	// it is a bare motion or one-shot command.
	Command
	// EnterInsert/EnterReplace/EnterEx switch Mode, with the Executor
	// performing whatever side effect is associated with the entry
	// (for Ex, opening the command-line buffer; for Insert, seeding an
	// edit block).
	EnterInsert
	EnterReplace
	EnterEx
	// EnterSearch is `/` or `?`, opening the incremental-search
	// command-line (spec.md §4.3/§4.6); Input carries which of the two
	// triggered it.
	EnterSearch
	// LeaveSpecialMode is Escape/Ctrl-C from Insert, Replace or Ex back
	// to Command.
	LeaveSpecialMode
	// CancelPending is Escape from Command mode while a SubMode or
	// SubSubMode was open: the pending operator is abandoned.
	CancelPending
	// ToggleVisual is v/V/Ctrl-V.
	ToggleVisual
	// VisualOperator is an operator key pressed while a visual
	// selection is active: the Executor applies SubMode over the
	// current visual range immediately and then leaves visual mode.
	VisualOperator
	// Passthrough means the machine has nothing to say about this
	// input. Feed never returns it: ordinary Command-mode keys without
	// a pending sub-mode are reported as Command.
	Passthrough
)

// Machine owns a State and turns one resolved Input into a Transition.
// It never calls back into the Executor; Feed is a pure function of
// (state, input) as required by spec.md §4.3.
type Machine struct {
	State *State
}

// NewMachine returns a Machine in Command mode with fresh state.
func NewMachine() *Machine {
	return &Machine{State: NewState()}
}

// Feed advances the state machine by one resolved input and reports
// what happened. v/V/Ctrl-V toggle visual mode and report ToggleVisual;
// an operator key pressed while visual mode is active reports
// VisualOperator, since it applies to the visual range rather than
// opening a new SubMode.
func (mach *Machine) Feed(in input.Input) Transition {
	s := mach.State

	if in.Key == input.KeyEscape || (in.Key == input.KeyRune && in.Text == "c" && in.Mod == input.ModControl) {
		return mach.feedEscape(in)
	}

	switch s.Mode {
	case Insert, Replace:
		return Transition{Kind: Command, Input: in, Count: 1}
	case Ex, Search:
		return Transition{Kind: Command, Input: in, Count: 1}
	}

	if s.IsSubSubPending() {
		sub, subsub := s.Sub, s.SubSub
		s.CloseSubSubMode()
		if sub == NoSubMode {
			s.ResetSequence()
		}
		return Transition{Kind: SubSubComplete, Input: in, Count: s.Counts.Effective(), SubMode: sub, SubSubMode: subsub}
	}

	if r, ok := runeOf(in); ok && isDigit(r) && !(r == '0' && s.Counts.Empty()) {
		s.Counts.AddDigit(byte(r))
		return Transition{Kind: Digit, Input: in}
	}

	if name, ok := subSubModeFor(in); ok {
		sub := s.Sub
		s.OpenSubSubMode(name)
		return Transition{Kind: OpenSubSub, Input: in, SubMode: sub, SubSubMode: name}
	}

	if v, ok := visualFor(in); ok {
		s.ToggleVisual(v)
		return Transition{Kind: ToggleVisual, Input: in}
	}

	if opMode, ok := operatorFor(in); ok {
		if s.Visual != VisualNone {
			// In visual mode an operator key acts immediately on the
			// selection instead of opening a pending SubMode awaiting a
			// motion; the Executor reads tr.SubMode to know which
			// operator to apply over the visual anchor/cursor range.
			v := s.Visual
			count := s.Counts.Effective()
			s.ResetSequence()
			s.Visual = v
			return Transition{Kind: VisualOperator, Input: in, Count: count, SubMode: opMode}
		}
		if s.Sub == opMode {
			count := s.Counts.Effective()
			s.ResetSequence()
			return Transition{Kind: SelfMotion, Input: in, Count: count, SubMode: opMode}
		}
		if s.IsPending() {
			// A different operator key while one is already pending is
			// not valid Vim; treat it as abandoning the old one and
			// opening the new, mirroring Vim's forgiving behavior.
			s.CloseSubMode()
		}
		s.OpenSubMode(opMode)
		return Transition{Kind: OpenOperator, Input: in, SubMode: opMode}
	}

	if in.Key == input.KeyRune && in.Text == ":" {
		return Transition{Kind: EnterEx, Input: in}
	}

	if in.Key == input.KeyRune && (in.Text == "/" || in.Text == "?") {
		return Transition{Kind: EnterSearch, Input: in}
	}

	sub := s.Sub
	count := s.Counts.Effective()
	s.ResetSequence()
	return Transition{Kind: Command, Input: in, Count: count, SubMode: sub}
}

func (mach *Machine) feedEscape(in input.Input) Transition {
	s := mach.State
	switch s.Mode {
	case Insert, Replace, Ex, Search:
		return Transition{Kind: LeaveSpecialMode, Input: in}
	default:
		s.Escape()
		s.Visual = VisualNone
		return Transition{Kind: CancelPending, Input: in}
	}
}

// ExitVisual leaves visual mode, called by the Executor after applying
// a visual-mode operator or after Escape from visual mode.
func (mach *Machine) ExitVisual() {
	mach.State.Visual = VisualNone
}

// EnterMode is called by the Executor once it has performed whatever
// side effect accompanies a mode switch (e.g. after seeding an undo
// block for Insert).
func (mach *Machine) EnterMode(m Mode) {
	mach.State.Mode = m
	if m == Command {
		mach.State.ResetSequence()
	}
}

func isDigit(r rune) bool {
	return r >= '0' && r <= '9'
}

// runeOf returns the single rune an Input carries, if it is a printable
// KeyRune event with exactly one character of text.
func runeOf(in input.Input) (rune, bool) {
	if in.Key != input.KeyRune {
		return 0, false
	}
	runes := []rune(in.Text)
	if len(runes) != 1 {
		return 0, false
	}
	return runes[0], true
}

// operatorFor reports the SubMode a plain (non-prefixed) operator key
// opens.
func operatorFor(in input.Input) (SubMode, bool) {
	r, ok := runeOf(in)
	if !ok || in.Mod != input.ModNone {
		return NoSubMode, false
	}
	switch r {
	case 'd':
		return OpDelete, true
	case 'c':
		return OpChange, true
	case 'y':
		return OpYank, true
	case '!':
		return OpFilter, true
	case '=':
		return OpIndentEqual, true
	case '<':
		return OpShiftLeft, true
	case '>':
		return OpShiftRight, true
	}
	return NoSubMode, false
}

// subSubModeFor reports the sub-sub-mode a selector key opens.
func subSubModeFor(in input.Input) (SubSubMode, bool) {
	r, ok := runeOf(in)
	if !ok || in.Mod != input.ModNone {
		return NoSubSubMode, false
	}
	switch r {
	case 'f':
		return SSFindForward, true
	case 'F':
		return SSFindBackward, true
	case 't':
		return SSTillForward, true
	case 'T':
		return SSTillBackward, true
	case 'm':
		return SSSetMark, true
	case '\'':
		return SSGotoMarkLine, true
	case '`':
		return SSGotoMarkExact, true
	case 'r':
		return SSReplaceChar, true
	case '"':
		return SSRegister, true
	case 'g':
		return SSGPrefix, true
	case 'z':
		return SSZCommand, true
	case 'Z':
		return SSZUpperPrefix, true
	case '[':
		return SSBracketFwd, true
	case ']':
		return SSBracketBack, true
	}
	return NoSubSubMode, false
}

func visualFor(in input.Input) (VisualMode, bool) {
	r, ok := runeOf(in)
	if !ok {
		return VisualNone, false
	}
	if in.Mod == input.ModNone {
		switch r {
		case 'v':
			return VisualChar, true
		case 'V':
			return VisualLine, true
		}
	}
	if r == 'v' && in.Mod == input.ModControl {
		return VisualBlock, true
	}
	return VisualNone, false
}

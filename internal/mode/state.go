package mode

import "strconv"

// Counts holds the two unsigned integers that make up a command's
// effective count: mvcount (the motion's own count) and opcount (the
// operator's count). Per spec.md §3, the effective count is
// mvcount*opcount, each defaulting to 1 when empty.
type Counts struct {
	mv string
	op string
}

// AddDigit appends d to the motion count. The first digit of a count
// may not be '0' (that is the "start of line" motion instead); callers
// are expected to have already special-cased a lone '0'.
func (c *Counts) AddDigit(d byte) {
	c.mv += string(d)
}

// AddOpDigit appends d to the operator's own count (accumulated before
// an operator key is seen, e.g. the "3" in "3dw").
func (c *Counts) AddOpDigit(d byte) {
	c.op += string(d)
}

// PromoteToOp moves whatever has been accumulated in mv into op, used
// when an operator key arrives after digits were typed (those digits
// were the operator count, not a motion count).
func (c *Counts) PromoteToOp() {
	c.op = c.mv
	c.mv = ""
}

// MV returns the accumulated motion count, defaulting to 1.
func (c Counts) MV() int {
	return orOne(c.mv)
}

// OP returns the accumulated operator count, defaulting to 1.
func (c Counts) OP() int {
	return orOne(c.op)
}

// Effective returns mvcount*opcount.
func (c Counts) Effective() int {
	return c.MV() * c.OP()
}

// Empty reports whether no digits have been typed at all (used by
// Escape's "plain Command with pending count" rule and by the '0'
// tie-break).
func (c Counts) Empty() bool {
	return c.mv == "" && c.op == ""
}

// Reset clears both counts.
func (c *Counts) Reset() {
	c.mv = ""
	c.op = ""
}

func orOne(s string) int {
	if s == "" {
		return 1
	}
	n, err := strconv.Atoi(s)
	if err != nil || n == 0 {
		return 1
	}
	return n
}

// State is the full per-input-sequence state the mode machine owns:
// (Mode, SubMode, SubSubMode, VisualMode, counts). It resets when a
// top-level command sequence completes.
type State struct {
	Mode    Mode
	Sub     SubMode
	SubSub  SubSubMode
	Visual  VisualMode
	Counts  Counts

	// PendingRegister is the register selected by a preceding "x,
	// consumed by the next operator/one-shot command.
	PendingRegister byte

	// showCmd accumulates the raw keys of the command being typed, for
	// the 'showcmd' status-line echo (SPEC_FULL.md §C.2).
	showCmd string
}

// NewState returns a State starting in Command mode with no pending
// sub-mode, sub-sub-mode, visual overlay or counts.
func NewState() *State {
	return &State{Mode: Command}
}

// IsPending reports whether a sub-mode is open, awaiting a motion or a
// repeat of the same operator key (dd, yy, cc, ...).
func (s *State) IsPending() bool {
	return s.Sub != NoSubMode
}

// IsSubSubPending reports whether a sub-sub-mode is open, awaiting its
// single literal-character argument.
func (s *State) IsSubSubPending() bool {
	return s.SubSub != NoSubSubMode
}

// OpenSubMode opens sub-mode m, promoting any accumulated mv count into
// the operator count first (the digits typed before the operator key
// belong to the operator, not to the motion that follows).
func (s *State) OpenSubMode(m SubMode) {
	s.Counts.PromoteToOp()
	s.Sub = m
}

// CloseSubMode clears the pending operator sub-mode (on completion or
// on Escape).
func (s *State) CloseSubMode() {
	s.Sub = NoSubMode
}

// OpenSubSubMode opens sub-sub-mode m, to consume exactly one further
// input as its argument.
func (s *State) OpenSubSubMode(m SubSubMode) {
	s.SubSub = m
}

// CloseSubSubMode clears the pending single-character sub-sub-mode.
func (s *State) CloseSubSubMode() {
	s.SubSub = NoSubSubMode
}

// ToggleVisual enters v if not already in it, or leaves visual mode if
// v is the currently active flavor (pressing the same chord twice).
func (s *State) ToggleVisual(v VisualMode) {
	if s.Visual == v {
		s.Visual = VisualNone
		return
	}
	s.Visual = v
}

// ResetSequence clears sub-mode, sub-sub-mode and counts; called when a
// top-level command sequence completes (normally or via Escape), per
// spec.md §7's local-recovery rule. Visual mode is preserved if it was
// active, matching "the visual mode preserved if it was active".
func (s *State) ResetSequence() {
	s.Sub = NoSubMode
	s.SubSub = NoSubSubMode
	s.Counts.Reset()
	s.PendingRegister = 0
	s.showCmd = ""
}

// Escape implements the top of spec.md §4.3's Escape rule: if inside a
// sub-mode, clear it and report that the pending movement should be
// cancelled (no edit happens); otherwise, for a plain Command with a
// pending count, just clear the count. It never changes Mode itself;
// the caller (Executor) decides the Insert/Replace/Ex transitions,
// since those require side effects (finalizing the insertion, etc.)
// this package does not know how to perform.
func (s *State) Escape() (hadSubMode bool) {
	if s.IsSubSubPending() {
		s.CloseSubSubMode()
		s.CloseSubMode()
		return true
	}
	if s.IsPending() {
		s.CloseSubMode()
		return true
	}
	s.Counts.Reset()
	return false
}

// AppendShowCmd records a key's textual form for the showcmd echo.
func (s *State) AppendShowCmd(text string) {
	s.showCmd += text
}

// ShowCmd returns the partially-typed command for display when
// 'showcmd' is enabled.
func (s *State) ShowCmd() string {
	return s.showCmd
}

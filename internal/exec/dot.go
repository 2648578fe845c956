package exec

import "github.com/fakevim/fakevim/internal/mode"

// beginDot starts (or restarts) dot-command recording for a change
// that is about to happen, storing the literal key notation a `.`
// replay should feed back through Dispatch. count is carried to the
// eventual Commit: for one-shot commands that is right away (see
// commitDot), for commands that open Insert/Replace mode it is held in
// ex.dotCount until leaveSpecialMode commits once the typed text and
// the closing <Esc> have also been recorded.
func (ex *Executor) beginDot(replay string, count int) {
	ex.Model.Dot.Begin()
	ex.Model.Dot.Record(replay)
	ex.dotCount = count
}

// commitDot finalizes a dot recording that needs nothing further
// typed before it is complete (everything except commands that enter
// Insert/Replace mode).
func (ex *Executor) commitDot() {
	ex.Model.Dot.Commit(ex.dotCount)
}

// finishOperator records the dot command for an operator that has
// just been applied over a range and, for the change operator, opens
// Insert mode so the replacement text typed next becomes part of the
// same dot command. Yank never mutates the buffer, so real Vim's `.`
// does not repeat it and neither does this one.
func (ex *Executor) finishOperator(sub mode.SubMode, replay string, count int) {
	if sub == mode.OpYank {
		return
	}
	ex.beginDot(replay, count)
	if sub == mode.OpChange {
		ex.enterInsert()
		return
	}
	ex.commitDot()
}

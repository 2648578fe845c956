package edit

// JumpPoint is one entry of the jump list: a cursor position and the
// scroll position that was on screen when the jump was recorded (the
// host owns scroll; the engine only threads the value through).
type JumpPoint struct {
	Position   int
	ScrollLine int
}

// JumpList is the per-buffer undo/redo pair of jump stacks consulted
// by Ctrl-O/Ctrl-I and pushed by motions explicitly classified as
// "jumps" (/, ?, n, N, gg, G, %, mark-jumps, window switches).
type JumpList struct {
	undo []JumpPoint
	redo []JumpPoint
}

// NewJumpList returns an empty jump list.
func NewJumpList() *JumpList {
	return &JumpList{}
}

// Push records a new jump point, discarding any redo history (a fresh
// jump invalidates what Ctrl-I could previously replay).
func (j *JumpList) Push(p JumpPoint) {
	j.undo = append(j.undo, p)
	j.redo = nil
}

// Back moves one step back in the jump list (Ctrl-O), returning the
// previous jump point and true, or the zero value and false if the
// list is exhausted. current is the position to push onto redo so that
// a subsequent Forward can return to it.
func (j *JumpList) Back(current JumpPoint) (JumpPoint, bool) {
	if len(j.undo) == 0 {
		return JumpPoint{}, false
	}

	last := j.undo[len(j.undo)-1]
	j.undo = j.undo[:len(j.undo)-1]
	j.redo = append(j.redo, current)

	return last, true
}

// Forward moves one step forward in the jump list (Ctrl-I).
func (j *JumpList) Forward(current JumpPoint) (JumpPoint, bool) {
	if len(j.redo) == 0 {
		return JumpPoint{}, false
	}

	last := j.redo[len(j.redo)-1]
	j.redo = j.redo[:len(j.redo)-1]
	j.undo = append(j.undo, current)

	return last, true
}

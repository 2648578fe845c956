package mode

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/fakevim/fakevim/internal/input"
)

func rn(s string) input.Input {
	return input.Input{Key: input.KeyRune, Text: s}
}

func TestDigitsAccumulateIntoMotionCount(t *testing.T) {
	m := NewMachine()

	tr := m.Feed(rn("3"))
	require.Equal(t, Digit, tr.Kind)

	tr = m.Feed(rn("w"))
	require.Equal(t, Command, tr.Kind)
	require.Equal(t, 3, tr.Count)
}

func TestLeadingZeroIsNotACountDigit(t *testing.T) {
	m := NewMachine()

	tr := m.Feed(rn("0"))
	require.Equal(t, Command, tr.Kind, "a lone leading 0 is the start-of-line motion, not a count digit")
}

func TestOperatorOpensSubModeThenMotionCompletes(t *testing.T) {
	m := NewMachine()

	tr := m.Feed(rn("d"))
	require.Equal(t, OpenOperator, tr.Kind)
	require.True(t, m.State.IsPending())

	tr = m.Feed(rn("w"))
	require.Equal(t, Command, tr.Kind)
	require.Equal(t, OpDelete, tr.SubMode)
	require.False(t, m.State.IsPending(), "operator range should be consumed and Feed resets the sub-mode once the motion arrives")
}

func TestDoubledOperatorKeyIsSelfMotion(t *testing.T) {
	m := NewMachine()

	m.Feed(rn("d"))
	tr := m.Feed(rn("d"))
	require.Equal(t, SelfMotion, tr.Kind)
	require.Equal(t, OpDelete, tr.SubMode)
	require.False(t, m.State.IsPending())
}

func TestCountBeforeOperatorMultipliesWithMotionCount(t *testing.T) {
	m := NewMachine()

	m.Feed(rn("2"))
	m.Feed(rn("d"))
	tr := m.Feed(rn("3"))
	require.Equal(t, Digit, tr.Kind)
	tr = m.Feed(rn("w"))
	require.Equal(t, 6, tr.Count)
}

func TestFindForwardOpensSubSubModeThenConsumesChar(t *testing.T) {
	m := NewMachine()

	tr := m.Feed(rn("f"))
	require.Equal(t, OpenSubSub, tr.Kind)
	require.True(t, m.State.IsSubSubPending())

	tr = m.Feed(rn("x"))
	require.Equal(t, SubSubComplete, tr.Kind)
	require.Equal(t, SSFindForward, tr.SubSubMode)
	require.False(t, m.State.IsSubSubPending())
}

func TestVisualTogglesOnAndOff(t *testing.T) {
	m := NewMachine()

	m.Feed(rn("v"))
	require.Equal(t, VisualChar, m.State.Visual)

	m.Feed(rn("v"))
	require.Equal(t, VisualNone, m.State.Visual)
}

func TestEscapeCancelsPendingOperator(t *testing.T) {
	m := NewMachine()

	m.Feed(rn("d"))
	require.True(t, m.State.IsPending())

	tr := m.Feed(input.Input{Key: input.KeyEscape})
	require.Equal(t, CancelPending, tr.Kind)
	require.False(t, m.State.IsPending())
}

func TestEscapeFromInsertLeavesSpecialMode(t *testing.T) {
	m := NewMachine()
	m.EnterMode(Insert)

	tr := m.Feed(input.Input{Key: input.KeyEscape})
	require.Equal(t, LeaveSpecialMode, tr.Kind)
}

func TestColonEntersEx(t *testing.T) {
	m := NewMachine()

	tr := m.Feed(rn(":"))
	require.Equal(t, EnterEx, tr.Kind)
}

package search

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/fakevim/fakevim/internal/edit"
	"github.com/fakevim/fakevim/internal/settings"
)

type fakeBuffer struct {
	text []rune
}

func newFakeBuffer(s string) *fakeBuffer { return &fakeBuffer{text: []rune(s)} }

func (f *fakeBuffer) BufferRead(r edit.Range) (string, error) {
	return string(f.text[r.Begin:r.End]), nil
}
func (f *fakeBuffer) BufferReplace(edit.Range, string) error { return nil }
func (f *fakeBuffer) LineCount() int                         { return 1 }
func (f *fakeBuffer) LineStart(int) int                      { return 0 }
func (f *fakeBuffer) LineEnd(int) int                        { return len(f.text) }
func (f *fakeBuffer) UndoBeginBlock()                        {}
func (f *fakeBuffer) UndoEndBlock()                          {}
func (f *fakeBuffer) UndoRevision() int                      { return 0 }

func TestTranslateWordBoundary(t *testing.T) {
	out, flag := Translate(`\<foo\>`)
	require.Equal(t, `\bfoo\b`, out)
	require.Equal(t, CaseUnset, flag)
}

func TestTranslateExplicitCaseFlag(t *testing.T) {
	_, flag := Translate(`\cfoo`)
	require.Equal(t, CaseIgnore, flag)
}

func TestFindForwardWraps(t *testing.T) {
	buf := newFakeBuffer("one two one")
	s := settings.New()
	e := New()

	res, err := e.Find(buf, s, "one", 5, true)
	require.NoError(t, err)
	require.Equal(t, 8, res.Pos)

	res, err = e.Find(buf, s, "one", 8, true)
	require.NoError(t, err)
	require.True(t, res.Wrapped)
	require.Equal(t, 0, res.Pos)
}

func TestFindHonorsWrapscanDisabled(t *testing.T) {
	buf := newFakeBuffer("one two")
	s := settings.New()
	require.NoError(t, s.SetBool("wrapscan", false))
	e := New()

	_, err := e.Find(buf, s, "one", 0, true)
	require.ErrorIs(t, err, ErrPatternNotFound)
}

func TestSmartcaseSuppressesIgnorecaseOnUppercasePattern(t *testing.T) {
	buf := newFakeBuffer("Foo foo")
	s := settings.New()
	require.NoError(t, s.SetBool("ignorecase", true))
	require.NoError(t, s.SetBool("smartcase", true))
	e := New()

	res, err := e.Find(buf, s, "Foo", 0, true)
	require.NoError(t, err)
	require.Equal(t, 0, res.Pos)
}

package input

import (
	"testing"

	"github.com/stretchr/testify/require"
)

type recorder struct {
	got Inputs
}

func (r *recorder) Dispatch(in Input) {
	r.got = append(r.got, in)
}

func TestPipelinePassesThroughUnmappedKeys(t *testing.T) {
	table := NewTable()
	rec := &recorder{}
	p := NewPipeline(table, rec)

	in, _ := ParseInputs("j")
	p.Feed(in[0])

	require.Len(t, rec.got, 1)
	require.Equal(t, "j", rec.got[0].Text)
}

func TestPipelineHoldsAmbiguousPrefixUntilFlush(t *testing.T) {
	table := NewTable()
	lhs, _ := ParseInputs("jj")
	rhs, _ := ParseInputs("<Esc>")
	table.Set(ModeInsert, lhs, rhs, false)

	rec := &recorder{}
	p := NewPipeline(table, rec)
	p.ModeCode = func() ModeCode { return ModeInsert }

	in, _ := ParseInputs("j")
	p.Feed(in[0])
	require.Empty(t, rec.got, "must wait, j is a prefix of jj")

	p.Flush()
	require.Len(t, rec.got, 1)
	require.Equal(t, "j", rec.got[0].Text)
}

func TestPipelineResolvesExactMapWithoutWaiting(t *testing.T) {
	table := NewTable()
	lhs, _ := ParseInputs("jj")
	rhs, _ := ParseInputs("<Esc>")
	table.Set(ModeInsert, lhs, rhs, false)

	rec := &recorder{}
	p := NewPipeline(table, rec)
	p.ModeCode = func() ModeCode { return ModeInsert }

	in, _ := ParseInputs("jj")
	p.Feed(in[0])
	p.Feed(in[1])

	require.Len(t, rec.got, 1)
	require.Equal(t, KeyEscape, rec.got[0].Key)
}

func TestPipelinePassingForwardsOneKeyRaw(t *testing.T) {
	table := NewTable()
	lhs, _ := ParseInputs("a")
	rhs, _ := ParseInputs("b")
	table.Set(ModeNormal, lhs, rhs, false)

	rec := &recorder{}
	p := NewPipeline(table, rec)
	p.BeginPassing()

	in, _ := ParseInputs("a")
	p.Feed(in[0])

	require.Len(t, rec.got, 1)
	require.Equal(t, "a", rec.got[0].Text, "passing bypasses mapping resolution")

	// Passing self-cleared: next 'a' should resolve through the map.
	p.Feed(in[0])
	require.Len(t, rec.got, 2)
	require.Equal(t, "b", rec.got[1].Text)
}

func TestWantsOverrideControlKeys(t *testing.T) {
	table := NewTable()
	rec := &recorder{}
	p := NewPipeline(table, rec)

	ctrlA := Input{Key: KeyRune, Text: "a", Mod: ModControl}
	require.True(t, p.WantsOverride(ctrlA))

	ctrlK := Input{Key: KeyRune, Text: "k", Mod: ModControl}
	require.False(t, p.WantsOverride(ctrlK), "Ctrl-K is excluded")

	p.PassControlKey = true
	require.False(t, p.WantsOverride(ctrlA), "host claims it when passControlKey is set")
}

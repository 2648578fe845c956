package settings

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestDefaultsMatchVimCompiledDefaults(t *testing.T) {
	s := New()
	require.True(t, s.Bool("wrapscan"))
	require.False(t, s.Bool("hlsearch"))
	require.Equal(t, 8, s.Int("tabstop"))
}

func TestShortAndLongNamesAlias(t *testing.T) {
	s := New()
	require.NoError(t, s.SetBool("ic", true))
	require.True(t, s.Bool("ignorecase"))
}

func TestToggleFlipsBoolean(t *testing.T) {
	s := New()
	require.NoError(t, s.Toggle("hlsearch"))
	require.True(t, s.Bool("hlsearch"))
}

func TestSetIntRejectsNonPositiveTabstop(t *testing.T) {
	s := New()
	err := s.SetInt("tabstop", 0)
	require.Error(t, err)
}

func TestMarshalUnmarshalRoundTrip(t *testing.T) {
	s := New()
	require.NoError(t, s.SetInt("shiftwidth", 4))
	require.NoError(t, s.SetBool("hlsearch", true))

	data, err := s.MarshalYAML()
	require.NoError(t, err)

	restored := New()
	require.NoError(t, restored.UnmarshalYAML(data))
	require.Equal(t, 4, restored.Int("shiftwidth"))
	require.True(t, restored.Bool("hlsearch"))
}

func TestUnknownOptionNameErrors(t *testing.T) {
	s := New()
	err := s.SetBool("notarealoption", true)
	require.Error(t, err)
}

package pictures

import (
	"bytes"
	"os"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/avolkov/tapedeck/internal/errs"
)

func TestStore_SaveAndRemove(t *testing.T) {
	s, err := NewStore(t.TempDir())
	require.NoError(t, err)

	name, err := s.Save("me.png", "image/png", bytes.NewReader([]byte("pngdata")))
	require.NoError(t, err)
	require.True(t, strings.HasSuffix(name, ".png"))
	require.NotEqual(t, "me.png", name)

	data, err := os.ReadFile(s.Path(name))
	require.NoError(t, err)
	require.Equal(t, []byte("pngdata"), data)

	require.NoError(t, s.Remove(name))
	_, err = os.Stat(s.Path(name))
	require.True(t, os.IsNotExist(err))
}

func TestStore_RejectsBadType(t *testing.T) {
	s, err := NewStore(t.TempDir())
	require.NoError(t, err)

	_, err = s.Save("notes.txt", "text/plain", bytes.NewReader([]byte("x")))
	require.ErrorIs(t, err, errs.ErrValidation)

	// extension and content type must agree
	_, err = s.Save("me.png", "image/jpeg", bytes.NewReader([]byte("x")))
	require.ErrorIs(t, err, errs.ErrValidation)
}

func TestStore_RejectsOversized(t *testing.T) {
	dir := t.TempDir()
	s, err := NewStore(dir)
	require.NoError(t, err)

	big := bytes.NewReader(make([]byte, MaxSize+1))
	_, err = s.Save("big.jpg", "image/jpeg", big)
	require.ErrorIs(t, err, errs.ErrValidation)

	// nothing left behind
	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	require.Empty(t, entries)
}

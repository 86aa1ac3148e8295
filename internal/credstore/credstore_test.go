package credstore

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/require"
	"github.com/zalando/go-keyring"
)

func TestSaveGetClear(t *testing.T) {
	keyring.MockInit()
	s := New()

	require.NoError(t, s.Save("tok-123"))

	got, err := s.Get()
	require.NoError(t, err)
	require.Equal(t, "tok-123", got)

	require.NoError(t, s.Clear())

	got, err = s.Get()
	require.NoError(t, err)
	require.Equal(t, "", got)
}

func TestGetAbsentIsNotAnError(t *testing.T) {
	keyring.MockInit()
	s := New()

	got, err := s.Get()
	require.NoError(t, err)
	require.Empty(t, got)
}

func TestClearAbsentIsNoop(t *testing.T) {
	keyring.MockInit()
	s := New()
	require.NoError(t, s.Clear())
}

func TestSaveRejectsBlankToken(t *testing.T) {
	keyring.MockInit()
	s := New()
	require.Error(t, s.Save("   "))
}

func TestUnavailableBackend(t *testing.T) {
	keyring.MockInitWithError(errors.New("keychain locked"))
	s := New()

	require.ErrorIs(t, s.Save("tok"), ErrUnavailable)

	_, err := s.Get()
	require.ErrorIs(t, err, ErrUnavailable)

	require.ErrorIs(t, s.Clear(), ErrUnavailable)
}

func TestOverwriteReplacesToken(t *testing.T) {
	keyring.MockInit()
	s := New()

	require.NoError(t, s.Save("first"))
	require.NoError(t, s.Save("second"))

	got, err := s.Get()
	require.NoError(t, err)
	require.Equal(t, "second", got)
}

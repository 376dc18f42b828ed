package sync

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewEvent_Valid(t *testing.T) {
	ev, err := NewEvent("owner1", "f1", "notes.md", EventCreated)
	require.NoError(t, err)
	assert.NotEmpty(t, ev.ID)
	assert.Equal(t, "owner1", ev.OwnerID)
	assert.Equal(t, "f1", ev.FileID)
	assert.Equal(t, EventCreated, ev.Kind)
	assert.False(t, ev.Timestamp.IsZero())
}

func TestNewEvent_RejectsUnknownKind(t *testing.T) {
	_, err := NewEvent("owner1", "f1", "notes.md", EventKind("renamed"))
	assert.ErrorIs(t, err, ErrInvalidKind)

	_, err = NewEvent("owner1", "f1", "notes.md", "")
	assert.ErrorIs(t, err, ErrInvalidKind)
}

func TestNewEvent_RejectsEmptyOwner(t *testing.T) {
	_, err := NewEvent("", "f1", "notes.md", EventModified)
	assert.ErrorIs(t, err, ErrEmptyOwnerID)
}

func TestEvent_Synthetic(t *testing.T) {
	ev, err := NewEvent("owner1", FileIDChatUpload, "a.py", EventCreated)
	require.NoError(t, err)
	assert.True(t, ev.Synthetic())

	ev, err = NewEvent("owner1", FileIDChatIntent, "a.py", EventCreated)
	require.NoError(t, err)
	assert.True(t, ev.Synthetic())

	ev, err = NewEvent("owner1", "real-id", "a.py", EventCreated)
	require.NoError(t, err)
	assert.False(t, ev.Synthetic())
}

func TestEventKind_Valid(t *testing.T) {
	for _, k := range []EventKind{EventCreated, EventModified, EventDeleted, EventMoved} {
		assert.True(t, k.Valid(), k)
	}
	assert.False(t, EventKind("unknown").Valid())
}

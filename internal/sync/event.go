package sync

import (
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
)

// EventKind is the closed set of change kinds admitted to the pipeline.
type EventKind string

const (
	EventCreated  EventKind = "created"
	EventModified EventKind = "modified"
	EventDeleted  EventKind = "deleted"
	EventMoved    EventKind = "moved"
)

// Valid reports whether the kind is one of the four enumerated values.
func (k EventKind) Valid() bool {
	switch k {
	case EventCreated, EventModified, EventDeleted, EventMoved:
		return true
	}
	return false
}

// Sentinel file IDs for synthetic events that carry no real remote file.
const (
	// FileIDChatUpload marks an event synthesized from a chat file attachment.
	FileIDChatUpload = "chat-upload"

	// FileIDChatIntent marks an event synthesized from a chat text intent.
	FileIDChatIntent = "chat-intent"
)

// Sentinel file names.
const (
	// FileNameDeleted is used when the file vanished between the push
	// notification and the metadata lookup.
	FileNameDeleted = "<deleted>"

	// FileNameForcedSync is used for single-file forced sync events where no
	// metadata lookup is performed.
	FileNameForcedSync = "forced-sync"
)

var (
	ErrInvalidKind  = errors.New("sync: invalid event kind")
	ErrEmptyOwnerID = errors.New("sync: empty owner id")
)

// Event is a detected file change. Events are immutable once admitted to the
// queue; the ContentHash is filled in by the conflict filter at admission.
type Event struct {
	ID        string
	FileID    string
	FileName  string
	Kind      EventKind
	OwnerID   string
	Timestamp time.Time

	// populated only for Moved events
	OldPath string
	NewPath string

	// metadata fingerprint, computed lazily at admission
	ContentHash string
}

// NewEvent constructs a validated event. The kind must be one of the four
// enumerated values and ownerID must not be empty. FileID may be empty or a
// sentinel for synthetic events.
func NewEvent(ownerID, fileID, fileName string, kind EventKind) (*Event, error) {
	if !kind.Valid() {
		return nil, fmt.Errorf("%w: %q", ErrInvalidKind, kind)
	}
	if ownerID == "" {
		return nil, ErrEmptyOwnerID
	}

	return &Event{
		ID:        uuid.NewString(),
		FileID:    fileID,
		FileName:  fileName,
		Kind:      kind,
		OwnerID:   ownerID,
		Timestamp: time.Now(),
	}, nil
}

// String identifies the event for logging by (owner, file, timestamp).
func (e *Event) String() string {
	return fmt.Sprintf("%s/%s@%s", e.OwnerID, e.FileID, e.Timestamp.Format(time.RFC3339Nano))
}

// Synthetic reports whether the event carries no resolvable remote file id.
func (e *Event) Synthetic() bool {
	return e.FileID == "" || e.FileID == FileIDChatUpload || e.FileID == FileIDChatIntent
}

package sync

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/drivelinehq/driveline/internal/drive"
)

// ErrBadNotification marks payload-shape errors the caller can usefully
// retry after fixing; everything else on the ingest path is swallowed so
// the notifier does not storm us with redeliveries.
var ErrBadNotification = errors.New("sync: malformed storage notification")

// resourceStateKinds maps provider notification states to event kinds.
// Unknown states default to Modified.
var resourceStateKinds = map[string]EventKind{
	"update": EventModified,
	"add":    EventCreated,
	"remove": EventDeleted,
	"trash":  EventDeleted,
}

// Ingestor translates external stimuli into admitted events. Every event it
// produces goes through Engine.Admit (conflict filter + enqueue), except
// forced resync which enqueues directly.
type Ingestor struct {
	engine   *Engine
	storage  RemoteStorage
	classify IntentClassifier
}

// NewIngestor creates the ingestion front of the pipeline.
func NewIngestor(engine *Engine, storage RemoteStorage, classifier IntentClassifier) *Ingestor {
	if classifier == nil {
		classifier = NewKeywordClassifier()
	}
	return &Ingestor{
		engine:   engine,
		storage:  storage,
		classify: classifier,
	}
}

// IngestStorageNotification handles a remote-storage push callback.
// Returns the admitted event, or nil when the notification was suppressed
// or produced no event. ErrBadNotification flags payload-shape errors.
func (i *Ingestor) IngestStorageNotification(ctx context.Context, ownerID string, n *drive.Notification) (*Event, error) {
	if n == nil || n.ResourceID == "" {
		return nil, ErrBadNotification
	}

	kind, ok := resourceStateKinds[n.ResourceState]
	if !ok {
		kind = EventModified
	}

	fileName := ""
	file, err := i.storage.GetFile(ctx, ownerID, n.ResourceID)
	switch {
	case err == nil:
		fileName = file.Name
	case errors.Is(err, drive.ErrNotFound):
		// vanished between notification and lookup
		fileName = FileNameDeleted
		kind = EventDeleted
	default:
		// transient lookup failure: drop the event, full resync reconciles
		slog.Warn("metadata lookup failed, dropping event", "owner", ownerID, "resource", n.ResourceID, "error", err)
		return nil, nil
	}

	ev, err := NewEvent(ownerID, n.ResourceID, fileName, kind)
	if err != nil {
		return nil, err
	}

	if reason := i.engine.Admit(ev); reason != SuppressNone {
		return nil, nil
	}
	return ev, nil
}

// IngestChatMessage scans a chat message for a file intent and, on match,
// admits a Created event with a source-specific sentinel file id.
// Returns nil when the message carries no file intent.
func (i *Ingestor) IngestChatMessage(msg *ChatMessage) (*Event, error) {
	if msg.OwnerID == "" {
		return nil, ErrEmptyOwnerID
	}

	intent, ok := i.classify.Classify(msg)
	if !ok {
		return nil, nil
	}

	fileID := FileIDChatIntent
	if intent.Upload {
		fileID = FileIDChatUpload
	}

	fileName := intent.FileName
	if fileName == "" {
		// matched the vocabulary but no extractable name
		return nil, nil
	}

	ev, err := NewEvent(msg.OwnerID, fileID, fileName, EventCreated)
	if err != nil {
		return nil, err
	}

	if reason := i.engine.Admit(ev); reason != SuppressNone {
		return nil, nil
	}
	slog.Info("chat file intent", "owner", msg.OwnerID, "file", fileName, "upload", intent.Upload)
	return ev, nil
}

// ForceResync enqueues a Modified event for one file, or for every file in
// the owner's workspace when fileID is empty. Bypasses the conflict filter:
// the user explicitly asked for this work, and repeating it is safe because
// handlers are idempotent. Returns the number of events enqueued.
func (i *Ingestor) ForceResync(ctx context.Context, ownerID, fileID, workspaceFolder string) (int, error) {
	if fileID != "" {
		ev, err := NewEvent(ownerID, fileID, FileNameForcedSync, EventModified)
		if err != nil {
			return 0, err
		}
		i.engine.Enqueue(ev)
		return 1, nil
	}

	folder, err := i.storage.FindFolder(ctx, ownerID, workspaceFolder)
	if err != nil {
		return 0, fmt.Errorf("locate workspace folder: %w", err)
	}

	files, err := i.storage.ListChildren(ctx, ownerID, folder.ID)
	if err != nil {
		return 0, fmt.Errorf("list workspace files: %w", err)
	}

	for _, f := range files {
		ev, err := NewEvent(ownerID, f.ID, f.Name, EventModified)
		if err != nil {
			return 0, err
		}
		i.engine.Enqueue(ev)
	}

	slog.Info("forced resync queued", "owner", ownerID, "files", len(files))
	return len(files), nil
}

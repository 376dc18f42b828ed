package sync

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/drivelinehq/driveline/internal/drive"
)

// dispatch routes an event to its kind handler. The switch is exhaustive
// over the closed kind enum; the validating constructor makes the default
// arm unreachable for admitted events.
func (e *Engine) dispatch(ctx context.Context, ev *Event) error {
	switch ev.Kind {
	case EventCreated:
		return e.handleCreated(ctx, ev)
	case EventModified:
		return e.handleModified(ctx, ev)
	case EventDeleted:
		return e.handleDeleted(ctx, ev)
	case EventMoved:
		return e.handleMoved(ctx, ev)
	default:
		return fmt.Errorf("%w: %q", ErrInvalidKind, ev.Kind)
	}
}

// handleCreated reconciles bookkeeping for a newly created file.
func (e *Engine) handleCreated(ctx context.Context, ev *Event) error {
	return e.upsertFromRemote(ctx, ev)
}

// handleModified reconciles bookkeeping for a modified file.
func (e *Engine) handleModified(ctx context.Context, ev *Event) error {
	return e.upsertFromRemote(ctx, ev)
}

// handleDeleted drops all bookkeeping for the file. Idempotent.
func (e *Engine) handleDeleted(ctx context.Context, ev *Event) error {
	e.state.DropFingerprint(ev.OwnerID, ev.FileID)
	e.state.DropWatched(ev.OwnerID, ev.FileID)
	slog.Debug("file removed from watch set", "owner", ev.OwnerID, "file", ev.FileID)
	return nil
}

// handleMoved re-registers the file under its new path and refreshes its
// metadata from the remote.
func (e *Engine) handleMoved(ctx context.Context, ev *Event) error {
	if err := e.upsertFromRemote(ctx, ev); err != nil {
		return err
	}
	slog.Debug("file moved", "owner", ev.OwnerID, "file", ev.FileID, "from", ev.OldPath, "to", ev.NewPath)
	return nil
}

// upsertFromRemote fetches authoritative metadata and upserts the watched
// file entry. Synthetic events (chat sentinels) have no remote file to
// fetch; they are bookkept from the event itself. A file deleted between
// notification and lookup degrades to a delete.
func (e *Engine) upsertFromRemote(ctx context.Context, ev *Event) error {
	if ev.Synthetic() {
		e.state.UpsertWatched(ev.OwnerID, &WatchedFile{
			FileID:       ev.FileID,
			Name:         ev.FileName,
			ModifiedTime: ev.Timestamp,
		})
		return nil
	}

	file, err := e.storage.GetFile(ctx, ev.OwnerID, ev.FileID)
	if err != nil {
		if errors.Is(err, drive.ErrNotFound) {
			return e.handleDeleted(ctx, ev)
		}
		return fmt.Errorf("fetch remote metadata: %w", err)
	}

	e.state.UpsertWatched(ev.OwnerID, &WatchedFile{
		FileID:       file.ID,
		Name:         file.Name,
		Size:         file.Size,
		ModifiedTime: file.ModifiedTime,
	})
	return nil
}

package sync

import (
	"context"

	"github.com/drivelinehq/driveline/internal/drive"
)

// RemoteStorage is the boundary to the remote storage provider. The drive
// client implements it; tests substitute fakes.
type RemoteStorage interface {
	GetFile(ctx context.Context, ownerID, fileID string) (*drive.File, error)
	ListChildren(ctx context.Context, ownerID, folderID string) ([]*drive.File, error)
	FindFolder(ctx context.Context, ownerID, name string) (*drive.File, error)
	CreatePushChannel(ctx context.Context, ownerID string, params *drive.PushChannelParams) (*drive.PushChannel, error)
}

var _ RemoteStorage = (*drive.Client)(nil)

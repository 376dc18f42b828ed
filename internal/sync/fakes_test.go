package sync

import (
	"context"
	"fmt"
	stdsync "sync"

	"github.com/drivelinehq/driveline/internal/creds"
	"github.com/drivelinehq/driveline/internal/drive"
)

// fakeStorage is an in-memory RemoteStorage with optional hooks.
type fakeStorage struct {
	mu      stdsync.Mutex
	files   map[string]*drive.File // fileID -> metadata
	folders map[string]*drive.File // name -> folder

	getFileFn func(ctx context.Context, ownerID, fileID string) (*drive.File, error)

	channels []*drive.PushChannelParams
	watchErr error
}

func newFakeStorage() *fakeStorage {
	return &fakeStorage{
		files:   make(map[string]*drive.File),
		folders: make(map[string]*drive.File),
	}
}

func (f *fakeStorage) addFile(id, name string, parents ...string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.files[id] = &drive.File{ID: id, Name: name, Parents: parents}
}

func (f *fakeStorage) addFolder(id, name string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.folders[name] = &drive.File{ID: id, Name: name, MimeType: drive.FolderMimeType}
}

func (f *fakeStorage) GetFile(ctx context.Context, ownerID, fileID string) (*drive.File, error) {
	if f.getFileFn != nil {
		return f.getFileFn(ctx, ownerID, fileID)
	}

	f.mu.Lock()
	defer f.mu.Unlock()
	file, ok := f.files[fileID]
	if !ok {
		return nil, drive.ErrNotFound
	}
	return file, nil
}

func (f *fakeStorage) ListChildren(ctx context.Context, ownerID, folderID string) ([]*drive.File, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	var children []*drive.File
	for _, file := range f.files {
		for _, p := range file.Parents {
			if p == folderID {
				children = append(children, file)
			}
		}
	}
	return children, nil
}

func (f *fakeStorage) FindFolder(ctx context.Context, ownerID, name string) (*drive.File, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	folder, ok := f.folders[name]
	if !ok {
		return nil, drive.ErrNotFound
	}
	return folder, nil
}

func (f *fakeStorage) CreatePushChannel(ctx context.Context, ownerID string, params *drive.PushChannelParams) (*drive.PushChannel, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	if f.watchErr != nil {
		return nil, f.watchErr
	}
	f.channels = append(f.channels, params)
	return &drive.PushChannel{ID: params.ChannelID, ResourceID: "res-" + params.FolderID}, nil
}

// recordingNotifier captures notifications on a channel.
type recordingNotifier struct {
	notes chan *Notification
}

func newRecordingNotifier() *recordingNotifier {
	return &recordingNotifier{notes: make(chan *Notification, 64)}
}

func (r *recordingNotifier) Notify(ctx context.Context, n *Notification) error {
	r.notes <- n
	return nil
}

// memCredStore is an in-memory CredentialStore.
type memCredStore struct {
	mu    stdsync.Mutex
	store map[string]*creds.Credentials
}

func newMemCredStore() *memCredStore {
	return &memCredStore{store: make(map[string]*creds.Credentials)}
}

func (m *memCredStore) Set(ctx context.Context, c *creds.Credentials) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.store[c.OwnerID] = c
	return nil
}

func (m *memCredStore) Get(ctx context.Context, ownerID string) (*creds.Credentials, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	c, ok := m.store[ownerID]
	if !ok {
		return nil, fmt.Errorf("no credentials for %s", ownerID)
	}
	return c, nil
}

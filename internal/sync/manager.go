package sync

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/drivelinehq/driveline/internal/creds"
	"github.com/drivelinehq/driveline/internal/drive"
)

// ErrNotRegistered is returned for status queries on unknown owners.
var ErrNotRegistered = errors.New("sync: owner not registered")

// CredentialStore is the boundary to credential persistence.
type CredentialStore interface {
	Set(ctx context.Context, c *creds.Credentials) error
	Get(ctx context.Context, ownerID string) (*creds.Credentials, error)
}

// ManagerConfig for registration and resync behavior.
type ManagerConfig struct {
	// WorkspaceFolder is the display name of the per-user workspace folder
	// on the remote storage.
	WorkspaceFolder string `mapstructure:"workspace_folder"`

	// WebhookBaseURL is the externally reachable base for push callbacks,
	// e.g. https://driveline.example.com
	WebhookBaseURL string `mapstructure:"webhook_base_url"`
}

// watcherState tracks a registered owner.
type watcherState struct {
	Active    bool
	ChannelID string
	Since     time.Time
}

// Status is the per-owner view returned by the status endpoint.
type Status struct {
	OwnerID       string
	Active        bool
	LastSync      time.Time
	HasSynced     bool
	WatchedFiles  int
	PendingEvents int
}

// Manager onboards users and orchestrates forced resyncs over the engine.
type Manager struct {
	cfg     ManagerConfig
	engine  *Engine
	ingest  *Ingestor
	creds   CredentialStore
	storage RemoteStorage
	state   UserStateStore

	mu       sync.RWMutex
	watchers map[string]*watcherState

	now func() time.Time
}

// NewManager wires the registration and status surface.
func NewManager(cfg ManagerConfig, engine *Engine, ingest *Ingestor, credStore CredentialStore, storage RemoteStorage, state UserStateStore) *Manager {
	return &Manager{
		cfg:      cfg,
		engine:   engine,
		ingest:   ingest,
		creds:    credStore,
		storage:  storage,
		state:    state,
		watchers: make(map[string]*watcherState),
		now:      time.Now,
	}
}

// RegisterUser stores credentials, creates watcher state and attempts to
// register a push channel on the user's workspace folder. A missing
// workspace folder or an unavailable push endpoint degrades the user to
// forced-resync-only operation; neither is fatal.
func (m *Manager) RegisterUser(ctx context.Context, c *creds.Credentials) error {
	if err := m.creds.Set(ctx, c); err != nil {
		return fmt.Errorf("store credentials: %w", err)
	}

	ws := &watcherState{Active: true, Since: m.now()}

	channelID, err := m.setupPushChannel(ctx, c.OwnerID)
	if err != nil {
		slog.Warn("push channel setup skipped, degraded to forced resync", "owner", c.OwnerID, "error", err)
	} else {
		ws.ChannelID = channelID
	}

	m.mu.Lock()
	m.watchers[c.OwnerID] = ws
	m.mu.Unlock()

	slog.Info("user registered", "owner", c.OwnerID, "pushChannel", ws.ChannelID != "")
	return nil
}

func (m *Manager) setupPushChannel(ctx context.Context, ownerID string) (string, error) {
	folder, err := m.storage.FindFolder(ctx, ownerID, m.cfg.WorkspaceFolder)
	if err != nil {
		return "", fmt.Errorf("workspace folder %q: %w", m.cfg.WorkspaceFolder, err)
	}

	channelID := fmt.Sprintf("channel_%s_%d", ownerID, m.now().Unix())
	address := fmt.Sprintf("%s/webhook/storage/%s", m.cfg.WebhookBaseURL, ownerID)

	if _, err := m.storage.CreatePushChannel(ctx, ownerID, &drive.PushChannelParams{
		ChannelID: channelID,
		FolderID:  folder.ID,
		Address:   address,
	}); err != nil {
		return "", err
	}

	slog.Info("push channel registered", "owner", ownerID, "channel", channelID, "address", address)
	return channelID, nil
}

// Registered reports whether the owner has been onboarded.
func (m *Manager) Registered(ownerID string) bool {
	m.mu.RLock()
	defer m.mu.RUnlock()
	_, ok := m.watchers[ownerID]
	return ok
}

// Status returns the owner's sync status, or ErrNotRegistered.
func (m *Manager) Status(ownerID string) (*Status, error) {
	m.mu.RLock()
	ws, ok := m.watchers[ownerID]
	m.mu.RUnlock()
	if !ok {
		return nil, ErrNotRegistered
	}

	lastSync, hasSynced := m.state.LastSync(ownerID)
	return &Status{
		OwnerID:       ownerID,
		Active:        ws.Active,
		LastSync:      lastSync,
		HasSynced:     hasSynced,
		WatchedFiles:  m.state.WatchedCount(ownerID),
		PendingEvents: m.engine.Pending(),
	}, nil
}

// ForceSync triggers a forced resync for one file or the whole workspace.
func (m *Manager) ForceSync(ctx context.Context, ownerID, fileID string) (int, error) {
	return m.ingest.ForceResync(ctx, ownerID, fileID, m.cfg.WorkspaceFolder)
}

package server

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"

	"github.com/drivelinehq/driveline/internal/chat"
	"github.com/drivelinehq/driveline/internal/creds"
	"github.com/drivelinehq/driveline/internal/db"
	"github.com/drivelinehq/driveline/internal/drive"
	"github.com/drivelinehq/driveline/internal/server/handlers/feed"
	"github.com/drivelinehq/driveline/internal/sync"
)

type Services struct {
	DB      *sqlx.DB
	Creds   *creds.Store
	Drive   *drive.Client
	Chat    *chat.Client
	State   sync.UserStateStore
	Engine  *sync.Engine
	Ingest  *sync.Ingestor
	Manager *sync.Manager
	Feed    *feed.Hub
}

func NewServices(config *Config) (*Services, error) {
	sqliteDB, err := db.NewSqliteDb(db.WithPath(config.DBPath))
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}

	credStore, err := creds.NewStore(sqliteDB)
	if err != nil {
		return nil, fmt.Errorf("init credential store: %w", err)
	}

	driveClient := drive.New(&config.Drive, credStore)
	chatClient := chat.New(&config.Chat)

	state := sync.NewMemoryStateStore()
	feedHub := feed.NewHub()

	// completion notices go to the owner's chat and the live event feed
	notifier := sync.MultiNotifier{chat.NewNotifier(chatClient), feedHub}

	engine := sync.NewEngine(&config.Sync, state, driveClient, notifier)
	ingest := sync.NewIngestor(engine, driveClient, nil)
	manager := sync.NewManager(sync.ManagerConfig{
		WorkspaceFolder: config.WorkspaceFolder,
		WebhookBaseURL:  config.PublicURL,
	}, engine, ingest, credStore, driveClient, state)

	return &Services{
		DB:      sqliteDB,
		Creds:   credStore,
		Drive:   driveClient,
		Chat:    chatClient,
		State:   state,
		Engine:  engine,
		Ingest:  ingest,
		Manager: manager,
		Feed:    feedHub,
	}, nil
}

func (s *Services) Start(ctx context.Context) error {
	if err := s.Engine.Start(ctx); err != nil {
		return fmt.Errorf("start sync engine: %w", err)
	}
	return nil
}

func (s *Services) Shutdown(ctx context.Context) error {
	if err := s.Engine.Stop(); err != nil {
		return fmt.Errorf("stop sync engine: %w", err)
	}

	s.Feed.Shutdown(ctx)

	if err := s.DB.Close(); err != nil {
		return fmt.Errorf("close database: %w", err)
	}
	return nil
}

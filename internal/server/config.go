package server

import (
	"fmt"

	"github.com/drivelinehq/driveline/internal/chat"
	"github.com/drivelinehq/driveline/internal/drive"
	"github.com/drivelinehq/driveline/internal/sync"
)

const (
	DefaultAddr   = ":8080"
	DefaultDBPath = "driveline.db"

	// DefaultWorkspaceFolder is the display name of the per-user folder the
	// service watches on the remote storage.
	DefaultWorkspaceFolder = "Workspace"
)

type Config struct {
	HTTP HTTPConfig `mapstructure:"http"`

	// PublicURL is the externally reachable base URL used as the push
	// channel callback address, e.g. https://driveline.example.com
	PublicURL string `mapstructure:"public_url"`

	DBPath          string `mapstructure:"db_path"`
	WorkspaceFolder string `mapstructure:"workspace_folder"`

	Drive drive.Config `mapstructure:"drive"`
	Chat  chat.Config  `mapstructure:"chat"`
	Sync  sync.Config  `mapstructure:"sync"`
}

type HTTPConfig struct {
	Addr     string `mapstructure:"addr"`
	CertFile string `mapstructure:"cert_file"`
	KeyFile  string `mapstructure:"key_file"`
}

func (c *Config) Validate() error {
	if c.HTTP.Addr == "" {
		c.HTTP.Addr = DefaultAddr
	}
	if c.DBPath == "" {
		c.DBPath = DefaultDBPath
	}
	if c.WorkspaceFolder == "" {
		c.WorkspaceFolder = DefaultWorkspaceFolder
	}
	if c.PublicURL == "" {
		return fmt.Errorf("public_url is required for push channel callbacks")
	}
	if c.Drive.BaseURL == "" {
		return fmt.Errorf("drive.base_url is required")
	}
	return nil
}

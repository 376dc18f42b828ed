package chat

import (
	"context"
	"fmt"
	"time"

	"github.com/drivelinehq/driveline/internal/version"
	"github.com/imroc/req/v3"
)

// Config for the chat bot API client.
type Config struct {
	// APIBaseURL of the chat platform, e.g. https://api.telegram.org
	APIBaseURL string `mapstructure:"api_base_url"`

	// BotToken authenticates the bot with the platform.
	BotToken string `mapstructure:"bot_token"`
}

// Client talks to the chat platform's bot API.
type Client struct {
	client *req.Client
}

// New creates a chat client.
func New(cfg *Config) *Client {
	client := req.C().
		SetBaseURL(fmt.Sprintf("%s/bot%s", cfg.APIBaseURL, cfg.BotToken)).
		SetTimeout(15 * time.Second).
		SetUserAgent(version.AppName + "/" + version.Version).
		SetCommonRetryCount(2)

	return &Client{client: client}
}

// SendMessage delivers a text message to the chat identified by ownerID.
// Chat IDs and owner IDs are the same namespace by construction.
func (c *Client) SendMessage(ctx context.Context, ownerID, text string) error {
	var result sendMessageResponse
	res, err := c.client.R().
		SetContext(ctx).
		SetBody(&sendMessageRequest{ChatID: ownerID, Text: text}).
		SetSuccessResult(&result).
		Post("/sendMessage")

	if err != nil {
		return fmt.Errorf("send message: %w", err)
	}
	if res.IsErrorState() || !result.OK {
		return fmt.Errorf("send message: chat api refused: %s %s", res.Status, result.Description)
	}
	return nil
}

package drive

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/drivelinehq/driveline/internal/version"
	"github.com/imroc/req/v3"
)

const (
	v3Files = "/drive/v3/files"
	v3File  = "/drive/v3/files/{fileId}"
	v3Watch = "/drive/v3/files/{fileId}/watch"

	fileFields = "id,name,mimeType,parents,modifiedTime,size,trashed"
)

// TokenSource provides the per-owner access token used on every call.
type TokenSource interface {
	Token(ctx context.Context, ownerID string) (string, error)
}

// Config for the remote storage client.
type Config struct {
	// BaseURL of the storage provider API.
	BaseURL string `mapstructure:"base_url"`

	// Timeout for a single API call.
	Timeout time.Duration `mapstructure:"timeout"`
}

// Client is the remote storage API client. All calls are scoped to an owner
// whose token is resolved through the TokenSource.
type Client struct {
	client *req.Client
	tokens TokenSource
}

// New creates a remote storage client.
func New(cfg *Config, tokens TokenSource) *Client {
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 30 * time.Second
	}

	client := req.C().
		SetBaseURL(cfg.BaseURL).
		SetTimeout(timeout).
		SetUserAgent(version.AppName+"/"+version.Version).
		SetCommonRetryCount(3).
		SetCommonRetryBackoffInterval(1*time.Second, 5*time.Second).
		SetJsonMarshal(jsonMarshal).
		SetJsonUnmarshal(jsonUnmarshal)

	return &Client{
		client: client,
		tokens: tokens,
	}
}

// GetFile fetches metadata for a single file. Returns ErrNotFound if the
// file does not exist (or was deleted between notification and lookup).
func (c *Client) GetFile(ctx context.Context, ownerID, fileID string) (*File, error) {
	token, err := c.tokens.Token(ctx, ownerID)
	if err != nil {
		return nil, fmt.Errorf("resolve token: %w", err)
	}

	var file File
	var apiErr APIError
	res, err := c.client.R().
		SetContext(ctx).
		SetBearerAuthToken(token).
		SetPathParam("fileId", fileID).
		SetQueryParam("fields", fileFields).
		SetSuccessResult(&file).
		SetErrorResult(&apiErr).
		Get(v3File)

	if err := handleAPIError(res, err, "get file"); err != nil {
		return nil, err
	}
	return &file, nil
}

// ListChildren lists the direct, non-trashed children of a folder.
func (c *Client) ListChildren(ctx context.Context, ownerID, folderID string) ([]*File, error) {
	query := fmt.Sprintf("'%s' in parents and trashed=false", folderID)
	return c.listFiles(ctx, ownerID, query)
}

// FindFolder locates a folder by its display name. Returns ErrNotFound when
// no such folder exists.
func (c *Client) FindFolder(ctx context.Context, ownerID, name string) (*File, error) {
	query := fmt.Sprintf("name='%s' and mimeType='%s' and trashed=false", name, FolderMimeType)
	folders, err := c.listFiles(ctx, ownerID, query)
	if err != nil {
		return nil, err
	}
	if len(folders) == 0 {
		return nil, fmt.Errorf("find folder %q: %w", name, ErrNotFound)
	}
	return folders[0], nil
}

// CreatePushChannel registers a webhook channel on a folder so the provider
// calls back on changes. Returns ErrUnavailable when the provider refuses
// the registration (e.g. unverified callback domain).
func (c *Client) CreatePushChannel(ctx context.Context, ownerID string, params *PushChannelParams) (*PushChannel, error) {
	token, err := c.tokens.Token(ctx, ownerID)
	if err != nil {
		return nil, fmt.Errorf("resolve token: %w", err)
	}

	var channel PushChannel
	var apiErr APIError
	res, err := c.client.R().
		SetContext(ctx).
		SetBearerAuthToken(token).
		SetPathParam("fileId", params.FolderID).
		SetBody(&watchRequest{
			ID:      params.ChannelID,
			Type:    "web_hook",
			Address: params.Address,
			Payload: true,
		}).
		SetSuccessResult(&channel).
		SetErrorResult(&apiErr).
		Post(v3Watch)

	if err := handleAPIError(res, err, "create push channel"); err != nil {
		if errors.Is(err, ErrNotFound) {
			return nil, err
		}
		return nil, fmt.Errorf("%w: %w", ErrUnavailable, err)
	}
	return &channel, nil
}

func (c *Client) listFiles(ctx context.Context, ownerID, query string) ([]*File, error) {
	token, err := c.tokens.Token(ctx, ownerID)
	if err != nil {
		return nil, fmt.Errorf("resolve token: %w", err)
	}

	var list fileList
	var apiErr APIError
	res, err := c.client.R().
		SetContext(ctx).
		SetBearerAuthToken(token).
		SetQueryParams(map[string]string{
			"q":      query,
			"fields": "files(" + fileFields + "),nextPageToken",
		}).
		SetSuccessResult(&list).
		SetErrorResult(&apiErr).
		Get(v3Files)

	if err := handleAPIError(res, err, "list files"); err != nil {
		return nil, err
	}
	return list.Files, nil
}

package sync

// StorageWebhookResponse acknowledges a storage push notification. Queued is
// false when the notification was suppressed or dropped.
type StorageWebhookResponse struct {
	Status  string `json:"status"`
	Queued  bool   `json:"queued"`
	EventID string `json:"eventId,omitempty"`
}

// ChatWebhookResponse acknowledges a chat update. Chat providers retry on
// non-2xx, so this is returned even when no file intent was found.
type ChatWebhookResponse struct {
	OK     bool   `json:"ok"`
	Queued bool   `json:"queued"`
	FileID string `json:"fileId,omitempty"`
}

// StatusResponse is the per-owner sync status.
type StatusResponse struct {
	OwnerID       string `json:"ownerId"`
	Active        bool   `json:"active"`
	LastSync      string `json:"lastSync"`
	WatchedFiles  int    `json:"watchedFiles"`
	PendingEvents int    `json:"pendingEvents"`
}

// ForceSyncResponse reports how many events a forced resync queued.
type ForceSyncResponse struct {
	Status  string `json:"status"`
	OwnerID string `json:"ownerId"`
	Queued  int    `json:"queued"`
}

// RegisterRequest carries the owner's storage tokens.
type RegisterRequest struct {
	AccessToken  string `json:"accessToken" binding:"required"`
	RefreshToken string `json:"refreshToken"`
	TokenExpiry  string `json:"tokenExpiry"`
}

// RegisterResponse confirms onboarding.
type RegisterResponse struct {
	OwnerID string `json:"ownerId"`
	Active  bool   `json:"active"`
}

package chat

// Update is the provider-native webhook payload for an incoming chat update.
// Only the fields the sync pipeline cares about are modeled.
type Update struct {
	UpdateID int64    `json:"update_id"`
	Message  *Message `json:"message,omitempty"`
}

// Message is a single chat message.
type Message struct {
	MessageID int64     `json:"message_id"`
	From      *User     `json:"from,omitempty"`
	Text      string    `json:"text,omitempty"`
	Document  *Document `json:"document,omitempty"`
}

// User is the sender of a message.
type User struct {
	ID        int64  `json:"id"`
	Username  string `json:"username,omitempty"`
	FirstName string `json:"first_name,omitempty"`
}

// Document is a file attachment on a message.
type Document struct {
	FileID   string `json:"file_id"`
	FileName string `json:"file_name"`
	MimeType string `json:"mime_type,omitempty"`
}

type sendMessageRequest struct {
	ChatID string `json:"chat_id"`
	Text   string `json:"text"`
}

type sendMessageResponse struct {
	OK          bool   `json:"ok"`
	Description string `json:"description,omitempty"`
}

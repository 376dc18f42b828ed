package drive

import "time"

// FolderMimeType is the provider mime type marking a folder.
const FolderMimeType = "application/vnd.google-apps.folder"

// File is the metadata record for a remote file or folder.
type File struct {
	ID           string    `json:"id"`
	Name         string    `json:"name"`
	MimeType     string    `json:"mimeType"`
	Parents      []string  `json:"parents,omitempty"`
	Size         int64     `json:"size,string,omitempty"`
	ModifiedTime time.Time `json:"modifiedTime,omitempty"`
	Trashed      bool      `json:"trashed,omitempty"`
}

// IsFolder reports whether the file is a folder.
func (f *File) IsFolder() bool {
	return f.MimeType == FolderMimeType
}

type fileList struct {
	Files         []*File `json:"files"`
	NextPageToken string  `json:"nextPageToken,omitempty"`
}

// PushChannelParams describes a push channel registration request.
type PushChannelParams struct {
	ChannelID string
	FolderID  string
	Address   string
}

type watchRequest struct {
	ID      string `json:"id"`
	Type    string `json:"type"`
	Address string `json:"address"`
	Payload bool   `json:"payload"`
}

// PushChannel is the provider's view of a registered channel.
type PushChannel struct {
	ID         string `json:"id"`
	ResourceID string `json:"resourceId"`
	Expiration int64  `json:"expiration,string,omitempty"`
}

// Notification is the payload of a storage push callback.
type Notification struct {
	ResourceID    string `json:"resourceId"`
	ResourceState string `json:"resourceState"`
	ChannelID     string `json:"channelId,omitempty"`
}

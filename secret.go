package hushbox

import (
	"time"

	"github.com/hushbox/hushbox/internal/envelope"
)

// Attachment limits enforced before anything is encrypted or uploaded. The
// server re-validates both on submission.
const (
	// MaxFiles is the maximum number of attachments per secret.
	MaxFiles = envelope.MaxFiles
	// MaxTotalFileBytes is the aggregate plaintext size limit across all
	// attachments of one secret.
	MaxTotalFileBytes = envelope.MaxTotalFileBytes
)

// Secret is a plaintext payload to share: text, attachments, or both.
type Secret struct {
	Text  string
	Files []File
}

// File is a named attachment.
type File struct {
	Name string
	Type string // MIME type, optional
	Data []byte
}

// totalFileBytes returns the aggregate plaintext size of all attachments.
func (s *Secret) totalFileBytes() int64 {
	var total int64
	for _, f := range s.Files {
		total += int64(len(f.Data))
	}
	return total
}

// ShareResult describes a freshly created secret. Key is the hex encryption
// key; it is embedded in Link as a URL fragment and never reaches the
// server. Whoever holds Link can read the secret, so treat it like the
// plaintext itself.
type ShareResult struct {
	ID   string
	Key  string
	Link string
}

// Status reports whether a secret is still viewable. A Terminal status is
// final: expired, consumed, and never-created secrets all look the same.
type Status struct {
	Exists      bool
	RequiresPin bool
	Terminal    bool
}

// OpenedSecret is a decrypted secret as retrieved by Open.
type OpenedSecret struct {
	Text        string
	Files       []File
	OneTimeView bool
	CreatedAt   time.Time
	ExpiresAt   time.Time
}

// ShareLink is a parsed share link.
type ShareLink struct {
	ID  string
	Key string
}

// ParseShareLink extracts the secret ID and hex encryption key from a share
// link. It accepts a full URL ("https://host/view/{id}#{key}") or the bare
// "id#key" form.
func ParseShareLink(link string) (*ShareLink, error) {
	id, key, err := envelope.ParseShareLink(link)
	if err != nil {
		return nil, ErrInvalidShareLink
	}
	return &ShareLink{ID: id, Key: key}, nil
}

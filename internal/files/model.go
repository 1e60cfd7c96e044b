// Package files implements user file attachments. Metadata lives in
// MariaDB, blobs on local disk under the configured media path. Files
// follow the same ownership rule as every other resource.
package files

import (
	"time"
)

// StoredFile is the metadata record for an uploaded attachment. DiskName
// is the server-generated name under the media path; OriginalName is
// what the user uploaded and what the download hands back.
type StoredFile struct {
	ID           string    `json:"id"`
	OriginalName string    `json:"original_name"`
	DiskName     string    `json:"-"`
	MimeType     string    `json:"mime_type"`
	Size         int64     `json:"size"`
	AssigneeID   string    `json:"-"`
	CreatedAt    time.Time `json:"created_at"`
}

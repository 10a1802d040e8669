package resumes

import (
	"strings"
	"time"

	"jobtracker-backend/internal/shared/storage/object"
)

// Resume is the single stored resume a user keeps for one job role.
type Resume struct {
	ID        string    `json:"id"`
	UserID    string    `json:"userId"`
	JobRole   string    `json:"jobRole"`
	FileName  string    `json:"fileName"`
	FileURL   string    `json:"fileUrl"`
	PublicID  string    `json:"publicId"`
	MimeType  string    `json:"mimeType"`
	SizeBytes int64     `json:"sizeBytes"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// CreateInput describes a file that has already been uploaded to the store.
type CreateInput struct {
	UserID   string
	JobRole  string
	FileName string
	File     object.Object
}

// UpdateInput merges into an existing resume. File is nil when no new file was uploaded.
type UpdateInput struct {
	UserID   string
	ID       string
	JobRole  *string
	FileName *string
	File     *object.Object
}

// NormalizeRole trims, upper-cases and joins inner whitespace with underscores,
// so "  backend   engineer " becomes "BACKEND_ENGINEER".
func NormalizeRole(role string) string {
	return strings.Join(strings.Fields(strings.ToUpper(role)), "_")
}

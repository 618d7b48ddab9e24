// Package storage puts captured selfies into the public selfies bucket.
package storage

import (
	"context"
	"encoding/base64"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/gabriel-vasile/mimetype"
	"github.com/google/uuid"
)

// Provider represents a storage provider type
type Provider string

const (
	ProviderS3         Provider = "s3"
	ProviderCloudinary Provider = "cloudinary"
)

// UploadResult contains the result of an upload operation
type UploadResult struct {
	Key        string    `json:"key"`
	URL        string    `json:"url"`
	Size       int64     `json:"size"`
	MimeType   string    `json:"mime_type"`
	UploadedAt time.Time `json:"uploaded_at"`
}

// Storage is the selfies bucket
type Storage interface {
	// Upload stores the object at key and returns its public URL
	Upload(ctx context.Context, key string, reader io.Reader, size int64, contentType string) (*UploadResult, error)

	// Delete removes the object at key
	Delete(ctx context.Context, key string) error

	// GetURL returns the public URL for key
	GetURL(key string) string
}

// AllowedImageTypes lists the capture formats accepted for upload
var AllowedImageTypes = []string{"image/jpeg", "image/png", "image/webp"}

// GenerateSelfieKey returns selfies/<yyyymmdd>/<uuid><ext> for the given instant
func GenerateSelfieKey(at time.Time, ext string) string {
	if ext != "" && !strings.HasPrefix(ext, ".") {
		ext = "." + ext
	}
	return fmt.Sprintf("selfies/%s/%s%s", at.Format("20060102"), uuid.New().String(), strings.ToLower(ext))
}

// DetectImage sniffs the content type of a captured image.
// It returns the mime type and its canonical extension, or an error when the
// bytes are not one of AllowedImageTypes.
func DetectImage(data []byte) (string, string, error) {
	if len(data) == 0 {
		return "", "", fmt.Errorf("empty image")
	}
	mt := mimetype.Detect(data)
	if !ValidateMimeType(mt.String(), AllowedImageTypes) {
		return "", "", fmt.Errorf("unsupported image type %s", mt.String())
	}
	return mt.String(), mt.Extension(), nil
}

// DataURI embeds data inline as data:<mime>;base64,<payload>
func DataURI(contentType string, data []byte) string {
	return "data:" + contentType + ";base64," + base64.StdEncoding.EncodeToString(data)
}

// ValidateMimeType checks if the mime type is allowed
func ValidateMimeType(mimeType string, allowedTypes []string) bool {
	if len(allowedTypes) == 0 {
		return true
	}

	mimeType = strings.ToLower(mimeType)
	for _, allowed := range allowedTypes {
		if strings.ToLower(allowed) == mimeType {
			return true
		}
		// Support wildcards like "image/*"
		if strings.HasSuffix(allowed, "/*") {
			prefix := strings.TrimSuffix(allowed, "*")
			if strings.HasPrefix(mimeType, prefix) {
				return true
			}
		}
	}
	return false
}

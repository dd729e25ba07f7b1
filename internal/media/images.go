// Package media stores product images uploaded through the admin editor.
package media

import (
	"context"
	"encoding/base64"
	"errors"
	"fmt"
	"regexp"
	"time"

	"cloud.google.com/go/storage"
	"github.com/google/uuid"
)

var (
	ErrInvalidDataURL = errors.New("image must be a base64 data URL")
	ErrNotConfigured  = errors.New("image storage is not configured")

	dataURLPattern = regexp.MustCompile(`^data:(image/([a-zA-Z0-9.+-]+));base64,(.+)$`)
)

// Image is a decoded data URL.
type Image struct {
	ContentType string
	Ext         string
	Data        []byte
}

func ParseDataURL(s string) (Image, error) {
	m := dataURLPattern.FindStringSubmatch(s)
	if m == nil {
		return Image{}, ErrInvalidDataURL
	}
	data, err := base64.StdEncoding.DecodeString(m[3])
	if err != nil {
		return Image{}, fmt.Errorf("%w: %v", ErrInvalidDataURL, err)
	}
	ext := m[2]
	if ext == "jpeg" {
		ext = "jpg"
	}
	return Image{ContentType: m[1], Ext: ext, Data: data}, nil
}

// ObjectName places images under products/ with a unique, time-ordered name.
func ObjectName(img Image, now time.Time) string {
	return fmt.Sprintf("products/%d-%s.%s", now.UnixMilli(), uuid.NewString()[:8], img.Ext)
}

// GCSUploader writes images to a Cloud Storage bucket and returns their public URL.
type GCSUploader struct {
	client *storage.Client
	bucket string
	now    func() time.Time
}

func NewGCSUploader(client *storage.Client, bucket string) *GCSUploader {
	return &GCSUploader{client: client, bucket: bucket, now: time.Now}
}

func (u *GCSUploader) UploadDataURL(ctx context.Context, dataURL string) (string, error) {
	if u == nil || u.client == nil || u.bucket == "" {
		return "", ErrNotConfigured
	}
	img, err := ParseDataURL(dataURL)
	if err != nil {
		return "", err
	}

	name := ObjectName(img, u.now())
	w := u.client.Bucket(u.bucket).Object(name).NewWriter(ctx)
	w.ContentType = img.ContentType
	w.CacheControl = "public, max-age=31536000"

	if _, err := w.Write(img.Data); err != nil {
		_ = w.Close()
		return "", fmt.Errorf("write gs://%s/%s: %w", u.bucket, name, err)
	}
	if err := w.Close(); err != nil {
		return "", fmt.Errorf("close gs://%s/%s: %w", u.bucket, name, err)
	}

	return PublicURL(u.bucket, name), nil
}

func PublicURL(bucket, object string) string {
	return fmt.Sprintf("https://storage.googleapis.com/%s/%s", bucket, object)
}

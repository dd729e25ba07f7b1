package media

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseDataURL(t *testing.T) {
	tests := map[string]struct {
		in      string
		want    Image
		wantErr bool
	}{
		"png": {
			in:   "data:image/png;base64,aGVsbG8=",
			want: Image{ContentType: "image/png", Ext: "png", Data: []byte("hello")},
		},
		"jpeg maps to jpg": {
			in:   "data:image/jpeg;base64,aGk=",
			want: Image{ContentType: "image/jpeg", Ext: "jpg", Data: []byte("hi")},
		},
		"not an image":   {in: "data:text/plain;base64,aGk=", wantErr: true},
		"not base64":     {in: "data:image/png;base64,@@@", wantErr: true},
		"plain url":      {in: "https://example.com/a.png", wantErr: true},
		"missing prefix": {in: "aGVsbG8=", wantErr: true},
	}

	for name, tc := range tests {
		t.Run(name, func(t *testing.T) {
			got, err := ParseDataURL(tc.in)
			if tc.wantErr {
				require.ErrorIs(t, err, ErrInvalidDataURL)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tc.want, got)
		})
	}
}

func TestObjectName(t *testing.T) {
	now := time.UnixMilli(1735689600000)
	name := ObjectName(Image{Ext: "webp"}, now)
	assert.Regexp(t, `^products/1735689600000-[0-9a-f]{8}\.webp$`, name)
}

func TestPublicURL(t *testing.T) {
	assert.Equal(t, "https://storage.googleapis.com/shop-images/products/a.png", PublicURL("shop-images", "products/a.png"))
}

func TestGCSUploader_NotConfigured(t *testing.T) {
	var u *GCSUploader
	_, err := u.UploadDataURL(context.Background(), "data:image/png;base64,aGk=")
	require.ErrorIs(t, err, ErrNotConfigured)

	_, err = NewGCSUploader(nil, "bucket").UploadDataURL(context.Background(), "data:image/png;base64,aGk=")
	require.ErrorIs(t, err, ErrNotConfigured)
}

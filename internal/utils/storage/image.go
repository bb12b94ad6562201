package storage

import (
	"bytes"
	"context"
	"encoding/base64"
	"fmt"
	"slices"
	"strings"

	"foodgram/domain"

	"github.com/disintegration/imaging"
	"github.com/google/uuid"
)

const MaxImageWidth = 1280

var AllowImage = []string{"image/jpeg", "image/jpg", "image/png", "image/gif", "image/webp"}

// MediaStore keeps uploaded images and hands back a URL to store on the row.
type MediaStore interface {
	SaveImage(ctx context.Context, folder string, dataURI string) (string, error)
	DeleteImage(ctx context.Context, link string) error
}

type imageStore struct {
	s3 AwsS3
}

func NewMediaStore(s3 AwsS3) MediaStore {
	return &imageStore{s3: s3}
}

func (m *imageStore) SaveImage(ctx context.Context, folder string, dataURI string) (string, error) {
	data, contentType, err := DecodeImage(dataURI)
	if err != nil {
		return "", err
	}
	key := fmt.Sprintf("%s/%s.jpg", folder, uuid.NewString())
	objectKey, err := m.s3.UploadFile(ctx, key, data, contentType)
	if err != nil {
		return "", err
	}
	return m.s3.GetPublicLinkKey(objectKey), nil
}

func (m *imageStore) DeleteImage(ctx context.Context, link string) error {
	key := m.s3.GetObjectKeyFromLink(link)
	if key == "" {
		return nil
	}
	return m.s3.DeleteFile(ctx, key)
}

// DecodeImage accepts a base64 data URI ("data:image/png;base64,...") or a
// bare base64 payload, checks that it is a real image, scales it down to
// MaxImageWidth and re-encodes it as JPEG.
func DecodeImage(dataURI string) ([]byte, string, error) {
	payload := strings.TrimSpace(dataURI)
	if payload == "" {
		return nil, "", domain.NewFieldError("image", "this field is required")
	}

	if strings.HasPrefix(payload, "data:") {
		header, body, ok := strings.Cut(payload, ",")
		if !ok || !strings.HasSuffix(header, ";base64") {
			return nil, "", domain.NewFieldError("image", "must be a base64 data URI")
		}
		mime := strings.TrimSuffix(strings.TrimPrefix(header, "data:"), ";base64")
		if !slices.Contains(AllowImage, mime) {
			return nil, "", domain.NewFieldError("image", "unsupported image type "+mime)
		}
		payload = body
	}

	raw, err := base64.StdEncoding.DecodeString(payload)
	if err != nil {
		return nil, "", domain.NewFieldError("image", "invalid base64 payload")
	}

	img, err := imaging.Decode(bytes.NewReader(raw), imaging.AutoOrientation(true))
	if err != nil {
		return nil, "", domain.NewFieldError("image", "file is not a valid image")
	}
	if img.Bounds().Dx() > MaxImageWidth {
		img = imaging.Resize(img, MaxImageWidth, 0, imaging.Lanczos)
	}

	var buf bytes.Buffer
	if err := imaging.Encode(&buf, img, imaging.JPEG, imaging.JPEGQuality(85)); err != nil {
		return nil, "", fmt.Errorf("encode image: %w", err)
	}
	return buf.Bytes(), "image/jpeg", nil
}

package storage

import (
	"bytes"
	"encoding/base64"
	"errors"
	"image"
	"image/png"
	"testing"

	"foodgram/domain"

	"github.com/disintegration/imaging"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func pngBase64(t *testing.T, w, h int) string {
	t.Helper()
	var buf bytes.Buffer
	require.NoError(t, png.Encode(&buf, image.NewRGBA(image.Rect(0, 0, w, h))))
	return base64.StdEncoding.EncodeToString(buf.Bytes())
}

func TestDecodeImage_DataURI(t *testing.T) {
	data, contentType, err := DecodeImage("data:image/png;base64," + pngBase64(t, 20, 10))
	require.NoError(t, err)
	assert.Equal(t, "image/jpeg", contentType)

	img, err := imaging.Decode(bytes.NewReader(data))
	require.NoError(t, err)
	assert.Equal(t, 20, img.Bounds().Dx())
	assert.Equal(t, 10, img.Bounds().Dy())
}

func TestDecodeImage_BarePayload(t *testing.T) {
	_, _, err := DecodeImage(pngBase64(t, 4, 4))
	assert.NoError(t, err)
}

func TestDecodeImage_ScalesDownWideImages(t *testing.T) {
	data, _, err := DecodeImage("data:image/png;base64," + pngBase64(t, 2*MaxImageWidth, 100))
	require.NoError(t, err)

	img, err := imaging.Decode(bytes.NewReader(data))
	require.NoError(t, err)
	assert.Equal(t, MaxImageWidth, img.Bounds().Dx())
	assert.Equal(t, 50, img.Bounds().Dy())
}

func TestDecodeImage_Rejects(t *testing.T) {
	cases := map[string]string{
		"empty":        "",
		"not base64":   "data:image/png;base64,@@@",
		"not an image": "data:image/png;base64," + base64.StdEncoding.EncodeToString([]byte("hello")),
		"wrong type":   "data:text/plain;base64,aGVsbG8=",
		"no base64":    "data:image/png,abc",
	}
	for name, in := range cases {
		t.Run(name, func(t *testing.T) {
			_, _, err := DecodeImage(in)
			require.Error(t, err)
			assert.True(t, errors.Is(err, domain.ErrValidation))
		})
	}
}

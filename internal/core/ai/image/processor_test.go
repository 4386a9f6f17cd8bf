package image

import (
	"bytes"
	"encoding/base64"
	"errors"
	stdimage "image"
	"image/color"
	"image/png"
	"testing"

	"foodsnap-api/internal/pkg/common"

	"github.com/disintegration/imaging"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func pngBytes(t *testing.T, w, h int) []byte {
	t.Helper()
	img := stdimage.NewRGBA(stdimage.Rect(0, 0, w, h))
	for x := 0; x < w; x++ {
		for y := 0; y < h; y++ {
			img.Set(x, y, color.RGBA{R: uint8(x), G: uint8(y), B: 128, A: 255})
		}
	}
	var buf bytes.Buffer
	require.NoError(t, png.Encode(&buf, img))
	return buf.Bytes()
}

func TestDecode(t *testing.T) {
	small := pngBytes(t, 20, 10)
	encoded := base64.StdEncoding.EncodeToString(small)

	tests := []struct {
		name         string
		input        string
		expectedMime string
		expectedData []byte
		expectedErr  error
	}{
		{
			name:         "data_uri_keeps_declared_mime",
			input:        "data:image/webp;base64," + encoded,
			expectedMime: "image/webp",
			expectedData: small,
		},
		{
			name:         "raw_base64_is_sniffed",
			input:        encoded,
			expectedMime: "image/png",
			expectedData: small,
		},
		{
			name:         "unknown_content_defaults_to_jpeg",
			input:        base64.StdEncoding.EncodeToString([]byte("not an image at all")),
			expectedMime: "image/jpeg",
			expectedData: []byte("not an image at all"),
		},
		{
			name:        "empty",
			input:       "   ",
			expectedErr: common.ErrNoImage,
		},
		{
			name:        "bad_base64",
			input:       "data:image/png;base64,@@@",
			expectedErr: common.ErrInvalidImageFormat,
		},
		{
			name:        "bad_data_uri_header",
			input:       "data:image/png," + encoded,
			expectedErr: common.ErrInvalidImageFormat,
		},
	}

	processor := NewProcessor(1<<20, 100)
	for _, testCase := range tests {
		t.Run(testCase.name, func(t *testing.T) {
			img, err := processor.Decode(testCase.input)
			if testCase.expectedErr != nil {
				require.Error(t, err)
				var custom *common.CustomError
				require.True(t, errors.As(err, &custom))
				assert.Equal(t, testCase.expectedErr.(*common.CustomError).Code, custom.Code)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, testCase.expectedMime, img.MimeType)
			assert.Equal(t, testCase.expectedData, img.Data)
		})
	}
}

func TestDecode_TooLarge(t *testing.T) {
	processor := NewProcessor(10, 0)
	_, err := processor.Decode(base64.StdEncoding.EncodeToString(make([]byte, 11)))
	assert.Equal(t, common.ErrInvalidImageSize, err)
}

func TestDecode_ResizesLargeImage(t *testing.T) {
	processor := NewProcessor(1<<22, 64)
	img, err := processor.Decode(base64.StdEncoding.EncodeToString(pngBytes(t, 256, 128)))
	require.NoError(t, err)
	assert.Equal(t, "image/jpeg", img.MimeType)

	decoded, err := imaging.Decode(bytes.NewReader(img.Data))
	require.NoError(t, err)
	assert.Equal(t, 64, decoded.Bounds().Dx())
	assert.Equal(t, 32, decoded.Bounds().Dy())
}

func TestToJPEGOrPNG(t *testing.T) {
	src := pngBytes(t, 4, 4)
	data, mime, err := ToJPEGOrPNG(src, "image/png")
	require.NoError(t, err)
	assert.Equal(t, "image/png", mime)
	assert.Equal(t, src, data)

	_, _, err = ToJPEGOrPNG([]byte("junk"), "image/heic")
	assert.Error(t, err)
}

package service

import (
	"bytes"
	"context"
	"image"
	"image/color"
	"image/png"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"artfolio/internal/config"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testPNG(t *testing.T, w, h int) []byte {
	t.Helper()
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			img.Set(x, y, color.RGBA{R: uint8(x % 256), G: uint8(y % 256), B: 120, A: 255})
		}
	}
	var buf bytes.Buffer
	require.NoError(t, png.Encode(&buf, img))
	return buf.Bytes()
}

func testImageService(t *testing.T) *ImageService {
	t.Helper()
	return NewImageService(&config.Config{
		ImageUploadDir:       t.TempDir(),
		ImageMaxUploadSizeMB: 1,
	})
}

func TestImageService_Upload(t *testing.T) {
	ctx := context.Background()

	t.Run("stores webp and returns media ref", func(t *testing.T) {
		svc := testImageService(t)
		ref, err := svc.Upload(ctx, UploadImageInput{
			UserID:      1,
			Filename:    "work.png",
			ContentType: "image/png",
			Content:     testPNG(t, 64, 48),
		})
		require.NoError(t, err)
		assert.True(t, strings.HasPrefix(ref, "/media/"))
		assert.True(t, strings.HasSuffix(ref, ".webp"))

		stored := filepath.Join(svc.UploadDir(), strings.TrimPrefix(ref, "/media/"))
		info, err := os.Stat(stored)
		require.NoError(t, err)
		assert.Greater(t, info.Size(), int64(0))
	})

	t.Run("rejects empty upload", func(t *testing.T) {
		svc := testImageService(t)
		_, err := svc.Upload(ctx, UploadImageInput{UserID: 1})
		require.Error(t, err)
	})

	t.Run("rejects non-image payload", func(t *testing.T) {
		svc := testImageService(t)
		_, err := svc.Upload(ctx, UploadImageInput{
			UserID:  1,
			Content: []byte("definitely not an image, just text padding to pass size checks"),
		})
		require.Error(t, err)
	})

	t.Run("rejects oversized upload", func(t *testing.T) {
		svc := testImageService(t)
		_, err := svc.Upload(ctx, UploadImageInput{
			UserID:  1,
			Content: make([]byte, 2*1024*1024),
		})
		require.Error(t, err)
	})

	t.Run("rejects mismatched declared content type", func(t *testing.T) {
		svc := testImageService(t)
		_, err := svc.Upload(ctx, UploadImageInput{
			UserID:      1,
			ContentType: "image/gif",
			Content:     testPNG(t, 8, 8),
		})
		require.Error(t, err)
	})
}

func TestImageService_Remove(t *testing.T) {
	svc := testImageService(t)
	ref, err := svc.Upload(context.Background(), UploadImageInput{
		UserID:  1,
		Content: testPNG(t, 16, 16),
	})
	require.NoError(t, err)

	stored := filepath.Join(svc.UploadDir(), strings.TrimPrefix(ref, "/media/"))
	svc.Remove(context.Background(), ref)
	_, statErr := os.Stat(stored)
	assert.True(t, os.IsNotExist(statErr))

	// Path traversal refs are ignored.
	svc.Remove(context.Background(), "/media/../etc/passwd")
}

func TestResizeToFit(t *testing.T) {
	src := image.NewRGBA(image.Rect(0, 0, 4096, 1024))
	dst := resizeToFit(src, MasterMaxSize, MasterMaxSize)
	assert.Equal(t, 2048, dst.Bounds().Dx())
	assert.Equal(t, 512, dst.Bounds().Dy())

	small := image.NewRGBA(image.Rect(0, 0, 100, 80))
	assert.Equal(t, small.Bounds(), resizeToFit(small, MasterMaxSize, MasterMaxSize).Bounds())
}

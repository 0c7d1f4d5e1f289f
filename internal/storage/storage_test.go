package storage

import (
	"bytes"
	"context"
	"encoding/binary"
	"hash/crc32"
	"image"
	"image/color"
	"image/png"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLocalStore_SaveAndDelete(t *testing.T) {
	root := t.TempDir()
	store, err := NewLocalStore(root, "/media/")
	require.NoError(t, err)
	ctx := context.Background()

	require.NoError(t, store.Save(ctx, "avatars/42/a.jpg", strings.NewReader("data"), 4, AvatarContentType))

	content, err := os.ReadFile(filepath.Join(root, "avatars", "42", "a.jpg"))
	require.NoError(t, err)
	assert.Equal(t, "data", string(content))
	assert.Equal(t, "/media/avatars/42/a.jpg", store.URL("avatars/42/a.jpg"))

	require.NoError(t, store.Delete(ctx, "avatars/42/a.jpg"))
	_, err = os.Stat(filepath.Join(root, "avatars", "42", "a.jpg"))
	assert.True(t, os.IsNotExist(err))

	// deleting twice is fine
	assert.NoError(t, store.Delete(ctx, "avatars/42/a.jpg"))
}

func TestLocalStore_RejectsEscapingKeys(t *testing.T) {
	store, err := NewLocalStore(t.TempDir(), "/media")
	require.NoError(t, err)

	err = store.Save(context.Background(), "../outside.jpg", strings.NewReader("x"), 1, AvatarContentType)
	assert.ErrorIs(t, err, ErrInvalidKey)
	assert.ErrorIs(t, store.Delete(context.Background(), ""), ErrInvalidKey)
}

func TestMinioStore_URL(t *testing.T) {
	store, err := NewMinioStore("files.example.com", "key", "secret", "media", true)
	require.NoError(t, err)
	assert.Equal(t, "https://files.example.com/media/avatars/1.jpg", store.URL("avatars/1.jpg"))
}

func encodePNG(t *testing.T, w, h int) []byte {
	t.Helper()
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	for x := 0; x < w; x++ {
		for y := 0; y < h; y++ {
			img.Set(x, y, color.RGBA{R: 200, G: 10, B: 10, A: 255})
		}
	}
	var buf bytes.Buffer
	require.NoError(t, png.Encode(&buf, img))
	return buf.Bytes()
}

func TestNormalizeAvatar(t *testing.T) {
	out, err := NormalizeAvatar(bytes.NewReader(encodePNG(t, 1024, 256)))
	require.NoError(t, err)

	img, format, err := image.Decode(bytes.NewReader(out))
	require.NoError(t, err)
	assert.Equal(t, "jpeg", format)
	assert.Equal(t, AvatarDimension, img.Bounds().Dx())
	assert.Equal(t, AvatarDimension/4, img.Bounds().Dy())

	small, err := NormalizeAvatar(bytes.NewReader(encodePNG(t, 40, 30)))
	require.NoError(t, err)
	img, _, err = image.Decode(bytes.NewReader(small))
	require.NoError(t, err)
	assert.Equal(t, 40, img.Bounds().Dx())
}

func TestNormalizeAvatar_RejectsNonImages(t *testing.T) {
	_, err := NormalizeAvatar(strings.NewReader("definitely not a picture"))
	assert.ErrorIs(t, err, ErrInvalidImage)
}

// pngHeaderOnly returns a PNG that declares w x h RGBA pixels but carries no pixel data.
func pngHeaderOnly(w, h uint32) []byte {
	var buf bytes.Buffer
	buf.WriteString("\x89PNG\r\n\x1a\n")
	chunk := func(typ string, data []byte) {
		_ = binary.Write(&buf, binary.BigEndian, uint32(len(data)))
		body := append([]byte(typ), data...)
		buf.Write(body)
		_ = binary.Write(&buf, binary.BigEndian, crc32.ChecksumIEEE(body))
	}
	ihdr := make([]byte, 13)
	binary.BigEndian.PutUint32(ihdr[0:4], w)
	binary.BigEndian.PutUint32(ihdr[4:8], h)
	ihdr[8] = 8 // bit depth
	ihdr[9] = 6 // RGBA
	chunk("IHDR", ihdr)
	chunk("IDAT", nil)
	chunk("IEND", nil)
	return buf.Bytes()
}

func TestNormalizeAvatar_RejectsOversizedDimensions(t *testing.T) {
	tests := []struct {
		name string
		w, h uint32
	}{
		{name: "huge square", w: 20000, h: 20000},
		{name: "one side too long", w: MaxAvatarSide + 1, h: 1},
		{name: "too many pixels", w: 8000, h: 8000},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := NormalizeAvatar(bytes.NewReader(pngHeaderOnly(tt.w, tt.h)))
			assert.ErrorIs(t, err, ErrImageTooLarge)
		})
	}
}

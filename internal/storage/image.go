package storage

import (
	"bytes"
	"errors"
	"fmt"
	"image"
	_ "image/gif" // register decoders
	_ "image/jpeg"
	_ "image/png"
	"io"

	"github.com/disintegration/imaging"
)

// AvatarDimension bounds the width and height of stored avatars.
const AvatarDimension = 512

// AvatarContentType is the content type of normalised avatars.
const AvatarContentType = "image/jpeg"

// Decoded bitmaps larger than this are refused before any pixel is allocated.
const (
	MaxAvatarSide   = 8192
	MaxAvatarPixels = 40_000_000
)

var (
	ErrInvalidImage  = errors.New("invalid image")
	ErrImageTooLarge = errors.New("image dimensions too large")
)

// NormalizeAvatar decodes an uploaded image, fits it within AvatarDimension
// and re-encodes it as JPEG. EXIF orientation is applied.
func NormalizeAvatar(r io.Reader) ([]byte, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, err
	}

	cfg, _, err := image.DecodeConfig(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidImage, err)
	}
	if cfg.Width > MaxAvatarSide || cfg.Height > MaxAvatarSide ||
		int64(cfg.Width)*int64(cfg.Height) > MaxAvatarPixels {
		return nil, fmt.Errorf("%w: %dx%d", ErrImageTooLarge, cfg.Width, cfg.Height)
	}

	img, err := imaging.Decode(bytes.NewReader(data), imaging.AutoOrientation(true))
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidImage, err)
	}
	b := img.Bounds()
	if b.Dx() > AvatarDimension || b.Dy() > AvatarDimension {
		img = imaging.Fit(img, AvatarDimension, AvatarDimension, imaging.Lanczos)
	}
	var buf bytes.Buffer
	if err := imaging.Encode(&buf, img, imaging.JPEG, imaging.JPEGQuality(85)); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// Package imagedata decodes captured camera frames sent by the browser.
package imagedata

import (
	"bytes"
	"encoding/base64"
	"errors"
	"fmt"
	"image"
	"os"
	"strings"

	// Decoders registered with the image package
	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"

	_ "golang.org/x/image/bmp"
	_ "golang.org/x/image/webp"
)

var (
	// ErrEmpty is returned when no image payload was supplied
	ErrEmpty = errors.New("no image received")
	// ErrBase64 is returned when the payload is not valid base64
	ErrBase64 = errors.New("image is not valid base64")
	// ErrUnsupported is returned when the bytes are not a known image format
	ErrUnsupported = errors.New("unsupported image format")
)

// Image is a decoded capture together with its original encoded bytes
type Image struct {
	Data   []byte
	Format string
	Width  int
	Height int
	Pixels image.Image
}

// MIMEType returns the content type matching the decoded format
func (i *Image) MIMEType() string {
	switch i.Format {
	case "jpeg":
		return "image/jpeg"
	case "png":
		return "image/png"
	case "gif":
		return "image/gif"
	case "webp":
		return "image/webp"
	case "bmp":
		return "image/bmp"
	default:
		return "application/octet-stream"
	}
}

// DecodeDataURL decodes a "data:image/...;base64," URL or a bare base64 string
func DecodeDataURL(s string) (*Image, error) {
	s = strings.TrimSpace(s)
	if strings.HasPrefix(s, "data:image") {
		_, payload, ok := strings.Cut(s, ",")
		if !ok {
			return nil, fmt.Errorf("%w: data URL has no payload", ErrBase64)
		}
		s = payload
	}
	if s == "" {
		return nil, ErrEmpty
	}

	raw, err := decodeBase64(s)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrBase64, err)
	}
	return Decode(raw)
}

// Decode parses encoded image bytes
func Decode(data []byte) (*Image, error) {
	if len(data) == 0 {
		return nil, ErrEmpty
	}
	cfg, format, err := image.DecodeConfig(bytes.NewReader(data))
	if err != nil {
		return nil, unsupported(err)
	}
	if cfg.Width <= 0 || cfg.Height <= 0 {
		return nil, fmt.Errorf("%w: %dx%d image", ErrUnsupported, cfg.Width, cfg.Height)
	}
	pixels, _, err := image.Decode(bytes.NewReader(data))
	if err != nil {
		return nil, unsupported(err)
	}
	return &Image{
		Data:   data,
		Format: format,
		Width:  cfg.Width,
		Height: cfg.Height,
		Pixels: pixels,
	}, nil
}

func unsupported(err error) error {
	if errors.Is(err, image.ErrFormat) {
		return ErrUnsupported
	}
	return fmt.Errorf("%w: %v", ErrUnsupported, err)
}

// Load reads and decodes an image file
func Load(path string) (*Image, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read image: %w", err)
	}
	return Decode(data)
}

// decodeBase64 accepts padded and unpadded standard encoding, and the URL-safe
// alphabet some mobile browsers emit.
func decodeBase64(s string) ([]byte, error) {
	s = strings.Map(func(r rune) rune {
		if r == '\n' || r == '\r' || r == ' ' || r == '\t' {
			return -1
		}
		return r
	}, s)

	if strings.ContainsAny(s, "-_") {
		return base64.RawURLEncoding.DecodeString(strings.TrimRight(s, "="))
	}
	return base64.RawStdEncoding.DecodeString(strings.TrimRight(s, "="))
}

package storage

import (
	"bytes"
	"errors"
	"fmt"
	"image"
	_ "image/jpeg"
	_ "image/png"
	"io"
	"net/http"
	"path/filepath"
	"strings"

	"github.com/chai2010/webp"
	"github.com/google/uuid"
	"golang.org/x/image/draw"
)

const (
	MaxUploadBytes = 10 << 20
	MaxImageWidth  = 1600
	webpQuality    = 80
)

var ErrUnsupportedType = errors.New("storage: unsupported file type")

var documentTypes = map[string]string{
	"application/pdf": ".pdf",
}

type Prepared struct {
	Name        string
	ContentType string
	Data        []byte
}

// Prepare sniffs the upload. Images are resized to MaxImageWidth and
// re-encoded as WebP; documents pass through unchanged.
func Prepare(r io.Reader) (*Prepared, error) {
	raw, err := io.ReadAll(io.LimitReader(r, MaxUploadBytes+1))
	if err != nil {
		return nil, err
	}
	if len(raw) > MaxUploadBytes {
		return nil, fmt.Errorf("storage: file larger than %d bytes", MaxUploadBytes)
	}

	ctype := http.DetectContentType(raw)
	if ext, ok := documentTypes[ctype]; ok {
		return &Prepared{Name: uuid.NewString() + ext, ContentType: ctype, Data: raw}, nil
	}

	if !strings.HasPrefix(ctype, "image/") {
		return nil, ErrUnsupportedType
	}

	img, _, err := image.Decode(bytes.NewReader(raw))
	if err != nil {
		return nil, ErrUnsupportedType
	}

	var buf bytes.Buffer
	if err := webp.Encode(&buf, resize(img, MaxImageWidth), &webp.Options{Quality: webpQuality}); err != nil {
		return nil, fmt.Errorf("encode webp: %w", err)
	}

	return &Prepared{Name: uuid.NewString() + ".webp", ContentType: "image/webp", Data: buf.Bytes()}, nil
}

func resize(img image.Image, maxWidth int) image.Image {
	b := img.Bounds()
	if b.Dx() <= maxWidth {
		return img
	}
	h := b.Dy() * maxWidth / b.Dx()
	if h < 1 {
		h = 1
	}
	dst := image.NewRGBA(image.Rect(0, 0, maxWidth, h))
	draw.CatmullRom.Scale(dst, dst.Bounds(), img, b, draw.Over, nil)
	return dst
}

// IsImageName reports whether name was produced for an image upload.
func IsImageName(name string) bool {
	return filepath.Ext(name) == ".webp"
}

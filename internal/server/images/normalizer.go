// Package images normalizes uploaded avatar bytes into a fixed shape:
// at most 1 MiB in, 250x250 PNG out. Only PNG and JPEG uploads are accepted.
package images

import (
	"bytes"
	"image"
	"image/png"

	_ "image/jpeg"

	"github.com/annagruz/taskvault/internal/common"
)

// MaxUploadBytes caps the raw upload size.
const MaxUploadBytes = 1 << 20

// Side is the edge length of the normalized square image.
const Side = 250

// Normalizer converts raw uploaded bytes into the canonical avatar encoding.
type Normalizer interface {
	Normalize(raw []byte) ([]byte, error)
}

// PNGNormalizer decodes, scales to Side x Side and re-encodes as PNG.
type PNGNormalizer struct{}

func NewPNGNormalizer() *PNGNormalizer {
	return &PNGNormalizer{}
}

func (n *PNGNormalizer) Normalize(raw []byte) ([]byte, error) {
	if len(raw) == 0 {
		return nil, common.NewValidationError("avatar", "empty upload")
	}
	if len(raw) > MaxUploadBytes {
		return nil, common.NewValidationError("avatar", "upload exceeds 1 MiB")
	}

	src, format, err := image.Decode(bytes.NewReader(raw))
	if err != nil {
		return nil, common.NewValidationError("avatar", "please upload a .jpg, .jpeg or .png file")
	}
	switch format {
	case "png", "jpeg":
	default:
		return nil, common.NewValidationError("avatar", "please upload a .jpg, .jpeg or .png file")
	}

	var buf bytes.Buffer
	if err := png.Encode(&buf, scale(src)); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// scale resamples src to Side x Side with nearest-neighbor. Avatars are tiny
// thumbnails; resampling quality is not worth an extra dependency here.
func scale(src image.Image) image.Image {
	bounds := src.Bounds()
	dst := image.NewRGBA(image.Rect(0, 0, Side, Side))
	for y := 0; y < Side; y++ {
		srcY := bounds.Min.Y + y*bounds.Dy()/Side
		for x := 0; x < Side; x++ {
			srcX := bounds.Min.X + x*bounds.Dx()/Side
			dst.Set(x, y, src.At(srcX, srcY))
		}
	}
	return dst
}

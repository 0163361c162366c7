package utils

import (
	"bytes"
	"image/jpeg"

	"github.com/disintegration/imaging"
)

// Thumbnail downscales image data to fit within maxWidth, re-encoding as
// JPEG. Input larger than maxWidth is resized preserving aspect ratio;
// smaller input is re-encoded as-is.
func Thumbnail(data []byte, maxWidth int) ([]byte, error) {
	img, err := imaging.Decode(bytes.NewReader(data), imaging.AutoOrientation(true))
	if err != nil {
		return nil, err
	}
	if img.Bounds().Dx() > maxWidth {
		img = imaging.Resize(img, maxWidth, 0, imaging.Lanczos)
	}
	var buf bytes.Buffer
	if err := jpeg.Encode(&buf, img, &jpeg.Options{Quality: 82}); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

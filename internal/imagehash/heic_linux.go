//go:build linux

package imagehash

import (
	"image"
	"io"

	"github.com/jdeng/goheif"
)

// decodeHEIC decodes a HEIC/HEIF image file
func decodeHEIC(r io.Reader) (image.Image, error) {
	return goheif.Decode(r)
}

func heicSupported() bool {
	return true
}

//go:build !linux

package imagehash

import (
	"errors"
	"image"
	"io"
)

func decodeHEIC(r io.Reader) (image.Image, error) {
	return nil, errors.New("HEIC decoding not supported")
}

func heicSupported() bool {
	return false
}

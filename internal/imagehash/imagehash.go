// Package imagehash computes a difference hash (dHash) of an image: the
// image is scaled to 9x8 grey pixels and each bit records whether a pixel is
// brighter than its right neighbour.
package imagehash

import (
	"fmt"
	"image"
	"image/color"
	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"
	"math/bits"
	"os"
	"path/filepath"
	"strings"

	"golang.org/x/image/draw"
	_ "golang.org/x/image/bmp"
	_ "golang.org/x/image/tiff"
	_ "golang.org/x/image/webp"

	"github.com/justyntemme/renamer/internal/debug"
)

const (
	width  = 9
	height = 8
)

// Hash is a 64-bit perceptual hash.
type Hash uint64

// String returns the hash as 16 lowercase hex digits.
func (h Hash) String() string {
	return fmt.Sprintf("%016x", uint64(h))
}

// Distance returns the Hamming distance between two hashes.
func (h Hash) Distance(other Hash) int {
	return bits.OnesCount64(uint64(h ^ other))
}

// File decodes the image at path and hashes it.
func File(path string) (Hash, error) {
	f, err := os.Open(path)
	if err != nil {
		return 0, err
	}
	defer f.Close()

	var img image.Image
	ext := strings.ToLower(strings.TrimPrefix(filepath.Ext(path), "."))
	if ext == "heic" || ext == "heif" {
		if !heicSupported() {
			return 0, fmt.Errorf("decode %s: HEIC not supported on this platform", path)
		}
		img, err = decodeHEIC(f)
	} else {
		img, _, err = image.Decode(f)
	}
	if err != nil {
		return 0, fmt.Errorf("decode %s: %w", path, err)
	}

	h := Image(img)
	debug.Log(debug.BUILD, "imagehash: %s = %s", path, h)
	return h, nil
}

// Image hashes an already decoded image.
func Image(src image.Image) Hash {
	grey := image.NewGray(image.Rect(0, 0, width, height))
	draw.BiLinear.Scale(grey, grey.Bounds(), src, src.Bounds(), draw.Src, nil)

	var h Hash
	for y := 0; y < height; y++ {
		for x := 0; x < width-1; x++ {
			h <<= 1
			if luma(grey, x, y) > luma(grey, x+1, y) {
				h |= 1
			}
		}
	}
	return h
}

func luma(img *image.Gray, x, y int) uint8 {
	return color.GrayModel.Convert(img.At(x, y)).(color.Gray).Y
}

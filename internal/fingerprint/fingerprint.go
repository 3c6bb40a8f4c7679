// Package fingerprint computes difference hashes used to spot the same
// picture uploaded twice under different names.
package fingerprint

import (
	"fmt"
	"image"
	"math/bits"

	"github.com/kozaktomas/card-generator/internal/imageio"
	"golang.org/x/image/draw"
)

// Compute decodes image data and returns its 64-bit difference hash.
func Compute(data []byte) (uint64, error) {
	img, err := imageio.Decode(data)
	if err != nil {
		return 0, fmt.Errorf("failed to hash image: %w", err)
	}
	return DHash(img), nil
}

// DHash computes a 64-bit difference hash: the image is reduced to 9x8 gray
// pixels and each bit records whether a pixel is brighter than its right
// neighbour.
func DHash(img image.Image) uint64 {
	gray := toGrayscale(resizeImage(img, 9, 8))

	var hash uint64
	bit := 0
	for y := range 8 {
		for x := range 8 {
			if gray[y][x] > gray[y][x+1] {
				hash |= 1 << bit
			}
			bit++
		}
	}
	return hash
}

// HammingDistance counts the bits that differ between two hashes.
func HammingDistance(hash1, hash2 uint64) int {
	return bits.OnesCount64(hash1 ^ hash2)
}

// Similar reports whether two hashes are within threshold bits of each other.
func Similar(hash1, hash2 uint64, threshold int) bool {
	return HammingDistance(hash1, hash2) <= threshold
}

func resizeImage(img image.Image, width, height int) image.Image {
	dst := image.NewRGBA(image.Rect(0, 0, width, height))
	draw.BiLinear.Scale(dst, dst.Bounds(), img, img.Bounds(), draw.Over, nil)
	return dst
}

// toGrayscale returns luminance rows using ITU-R BT.601 weights.
func toGrayscale(img image.Image) [][]float64 {
	b := img.Bounds()
	gray := make([][]float64, b.Dy())
	for y := range b.Dy() {
		gray[y] = make([]float64, b.Dx())
		for x := range b.Dx() {
			r, g, bl, _ := img.At(b.Min.X+x, b.Min.Y+y).RGBA()
			gray[y][x] = 0.299*float64(r>>8) + 0.587*float64(g>>8) + 0.114*float64(bl>>8)
		}
	}
	return gray
}

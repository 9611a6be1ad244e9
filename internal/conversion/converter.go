package conversion

import (
	"fmt"
	"image"
	"image/png"
	"os"

	json "github.com/goccy/go-json"
	"github.com/nfnt/resize"
)

// SidecarMeta is the optional companion document a capture client writes next
// to each raw dump, carrying the true frame dimensions.
type SidecarMeta struct {
	Width  int `json:"width"`
	Height int `json:"height"`
}

// ParseSidecar decodes sidecar metadata and rejects non-positive dimensions.
func ParseSidecar(data []byte) (int, int, error) {
	var meta SidecarMeta
	if err := json.Unmarshal(data, &meta); err != nil {
		return 0, 0, fmt.Errorf("failed to parse sidecar metadata: %w", err)
	}
	if meta.Width <= 0 || meta.Height <= 0 {
		return 0, 0, fmt.Errorf("sidecar dimensions must be positive, got %dx%d", meta.Width, meta.Height)
	}
	return meta.Width, meta.Height, nil
}

// DecodeRGB reconstructs an image from a raw dump: packed 3-byte-per-pixel
// RGB rows, width×height. A buffer longer than needed is truncated; a shorter
// one cannot be decoded.
func DecodeRGB(raw []byte, width, height int) (*image.RGBA, error) {
	need := width * height * 3
	if len(raw) < need {
		return nil, fmt.Errorf("pixel buffer too short for %dx%d: need %d bytes, got %d", width, height, need, len(raw))
	}

	img := image.NewRGBA(image.Rect(0, 0, width, height))
	src := 0
	for y := 0; y < height; y++ {
		dst := img.PixOffset(0, y)
		for x := 0; x < width; x++ {
			img.Pix[dst] = raw[src]
			img.Pix[dst+1] = raw[src+1]
			img.Pix[dst+2] = raw[src+2]
			img.Pix[dst+3] = 0xff
			src += 3
			dst += 4
		}
	}
	return img, nil
}

// WritePNG encodes the image to a temp file and renames it into place, so a
// crash mid-write never leaves a truncated PNG in the converted tree.
func WritePNG(path string, img image.Image) error {
	tmpFile := path + ".tmp"
	file, err := os.Create(tmpFile)
	if err != nil {
		return fmt.Errorf("failed to create %s: %w", tmpFile, err)
	}

	if err := png.Encode(file, img); err != nil {
		file.Close()
		os.Remove(tmpFile)
		return fmt.Errorf("failed to encode PNG: %w", err)
	}
	if err := file.Close(); err != nil {
		os.Remove(tmpFile)
		return err
	}
	return os.Rename(tmpFile, path)
}

// WriteThumbnail writes a width-capped copy of the image. Images already
// narrower than maxWidth are written as-is.
func WriteThumbnail(path string, img image.Image, maxWidth int) error {
	if maxWidth > 0 && img.Bounds().Dx() > maxWidth {
		img = resize.Resize(uint(maxWidth), 0, img, resize.Lanczos3)
	}
	return WritePNG(path, img)
}

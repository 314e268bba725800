package escpos

import (
	"fmt"
	"image"
)

// Raster density modes for GS v 0.
const (
	rasterNormal     = 0 // 203dpi both axes
	rasterLowDensity = 3 // half density both axes
)

// maxRasterWidth is the widest raster row GS v 0 can address (xL xH are
// byte counts, so the practical cap is far higher, but 2040 dots covers
// every known thermal head).
const maxRasterWidth = 2040

// luminance threshold below which a pixel prints black.
// Matches the midpoint cut used for 16-bit channel values.
const blackThreshold = 0x8000

// Raster appends a raster bit image (GS v 0).
//
// The image is converted to 1-bit monochrome with a fixed 50% luminance
// threshold, one bit per dot, MSB first. Rows are padded to a whole
// number of bytes. highDensity false prints at half density on both
// axes, doubling the physical size.
//
// Callers should resize the image to the printer's dot width first; see
// the printer package's image pipeline.
func (d *Document) Raster(img image.Image, highDensity bool) error {
	bounds := img.Bounds()
	width := bounds.Dx()
	height := bounds.Dy()

	if width == 0 || height == 0 {
		return ErrEmptyData
	}
	if width > maxRasterWidth {
		return fmt.Errorf("%w: image width %d exceeds %d dots", ErrDataTooLong, width, maxRasterWidth)
	}
	if height > 0xFFFF {
		return fmt.Errorf("%w: image height %d exceeds %d dots", ErrDataTooLong, height, 0xFFFF)
	}

	rowBytes := (width + 7) / 8

	mode := byte(rasterNormal)
	if !highDensity {
		mode = rasterLowDensity
	}

	d.buf.Write([]byte{
		gs, 'v', '0', mode,
		byte(rowBytes & 0xFF), byte(rowBytes >> 8),
		byte(height & 0xFF), byte(height >> 8),
	})

	row := make([]byte, rowBytes)
	for y := bounds.Min.Y; y < bounds.Max.Y; y++ {
		for i := range row {
			row[i] = 0
		}
		for x := bounds.Min.X; x < bounds.Max.X; x++ {
			if pixelIsBlack(img, x, y) {
				col := x - bounds.Min.X
				row[col/8] |= 0x80 >> uint(col%8)
			}
		}
		d.buf.Write(row)
	}

	return nil
}

// pixelIsBlack applies the luminance threshold to a single pixel.
// Transparent pixels print white.
func pixelIsBlack(img image.Image, x, y int) bool {
	r, g, b, a := img.At(x, y).RGBA()
	if a < blackThreshold {
		return false
	}
	lum := (r + g + b) / 3
	return lum < blackThreshold
}

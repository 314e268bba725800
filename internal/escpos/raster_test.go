package escpos

import (
	"bytes"
	"errors"
	"image"
	"image/color"
	"testing"
)

// checkerboard returns a w x h image with black pixels where (x+y) is even.
func checkerboard(w, h int) image.Image {
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			if (x+y)%2 == 0 {
				img.Set(x, y, color.Black)
			} else {
				img.Set(x, y, color.White)
			}
		}
	}
	return img
}

func TestRaster_Header(t *testing.T) {
	img := checkerboard(16, 4)

	doc := NewDocument()
	if err := doc.Raster(img, true); err != nil {
		t.Fatalf("Raster() error = %v", err)
	}

	// 16 dots wide = 2 row bytes, 4 rows
	header := []byte{0x1D, 'v', '0', 0, 2, 0, 4, 0}
	if !bytes.HasPrefix(doc.Bytes(), header) {
		t.Errorf("Raster() header = %v, want %v", doc.Bytes()[:8], header)
	}

	wantLen := len(header) + 2*4
	if doc.Len() != wantLen {
		t.Errorf("Raster() length = %d, want %d", doc.Len(), wantLen)
	}
}

func TestRaster_BitPacking(t *testing.T) {
	// Single row: black pixel at x=0 only
	img := image.NewRGBA(image.Rect(0, 0, 8, 1))
	for x := 0; x < 8; x++ {
		img.Set(x, 0, color.White)
	}
	img.Set(0, 0, color.Black)

	doc := NewDocument()
	if err := doc.Raster(img, true); err != nil {
		t.Fatalf("Raster() error = %v", err)
	}

	data := doc.Bytes()
	rowByte := data[len(data)-1]
	if rowByte != 0x80 {
		t.Errorf("row byte = %#02x, want 0x80 (MSB first)", rowByte)
	}
}

func TestRaster_RowPadding(t *testing.T) {
	// 10 dots wide needs 2 row bytes with 6 pad bits
	img := checkerboard(10, 1)

	doc := NewDocument()
	if err := doc.Raster(img, true); err != nil {
		t.Fatalf("Raster() error = %v", err)
	}

	header := []byte{0x1D, 'v', '0', 0, 2, 0, 1, 0}
	if !bytes.HasPrefix(doc.Bytes(), header) {
		t.Errorf("Raster() header = %v, want %v", doc.Bytes()[:8], header)
	}
}

func TestRaster_LowDensity(t *testing.T) {
	img := checkerboard(8, 1)

	doc := NewDocument()
	if err := doc.Raster(img, false); err != nil {
		t.Fatalf("Raster() error = %v", err)
	}

	if doc.Bytes()[3] != 3 {
		t.Errorf("density mode = %d, want 3", doc.Bytes()[3])
	}
}

func TestRaster_TransparentIsWhite(t *testing.T) {
	img := image.NewRGBA(image.Rect(0, 0, 8, 1))
	// All pixels fully transparent

	doc := NewDocument()
	if err := doc.Raster(img, true); err != nil {
		t.Fatalf("Raster() error = %v", err)
	}

	data := doc.Bytes()
	if data[len(data)-1] != 0 {
		t.Errorf("transparent row byte = %#02x, want 0x00", data[len(data)-1])
	}
}

func TestRaster_EmptyImage(t *testing.T) {
	img := image.NewRGBA(image.Rect(0, 0, 0, 0))

	doc := NewDocument()
	if err := doc.Raster(img, true); !errors.Is(err, ErrEmptyData) {
		t.Errorf("Raster() error = %v, want ErrEmptyData", err)
	}
}

func TestRaster_TooWide(t *testing.T) {
	img := image.NewRGBA(image.Rect(0, 0, maxRasterWidth+8, 1))

	doc := NewDocument()
	if err := doc.Raster(img, true); !errors.Is(err, ErrDataTooLong) {
		t.Errorf("Raster() error = %v, want ErrDataTooLong", err)
	}
}

package printer

import (
	"bytes"
	"context"
	"errors"
	"image"
	"image/png"
	"os"
	"path/filepath"
	"testing"

	"github.com/cognitivegears/ha-escpos-thermal-printer/internal/escpos"
)

func TestPrintText_CommandStream(t *testing.T) {
	a, ft := testAdapter(t, nil)

	if _, err := a.PrintText(context.Background(), TextOptions{Text: "hello"}); err != nil {
		t.Fatalf("PrintText() error = %v", err)
	}

	want := []byte{
		0x1B, '@', // initialize
		0x1B, 't', 0, // CP437 table on the default profile
		0x1B, 'a', 0, // align left
		0x1B, 'E', 0, // bold off
		0x1B, '-', 0, // underline off
		0x1D, '!', 0, // normal size
	}
	want = append(want, []byte("hello\n")...)
	if !bytes.Equal(ft.payload(), want) {
		t.Errorf("payload = % X, want % X", ft.payload(), want)
	}
}

func TestPrintText_StyleCutAndFeed(t *testing.T) {
	a, ft := testAdapter(t, nil)

	_, err := a.PrintText(context.Background(), TextOptions{
		Text:      "hi",
		Align:     "center",
		Bold:      true,
		Underline: "single",
		Width:     "double",
		Height:    "double",
		Cut:       "partial",
		Feed:      2,
	})
	if err != nil {
		t.Fatalf("PrintText() error = %v", err)
	}

	payload := ft.payload()
	if !bytes.Contains(payload, []byte{0x1B, 'a', 1}) {
		t.Error("payload missing center alignment")
	}
	if !bytes.Contains(payload, []byte{0x1B, 'E', 1}) {
		t.Error("payload missing bold on")
	}
	if !bytes.Contains(payload, []byte{0x1D, '!', 0x11}) {
		t.Error("payload missing double size")
	}

	feedIdx := bytes.Index(payload, []byte{0x1B, 'd', 2})
	cutIdx := bytes.Index(payload, []byte{0x1D, 'V', 1})
	if feedIdx < 0 || cutIdx < 0 {
		t.Fatalf("payload missing feed or cut: % X", payload)
	}
	if feedIdx > cutIdx {
		t.Error("feed must precede cut")
	}
}

func TestPrintText_WrapsToLineWidth(t *testing.T) {
	a, ft := testAdapter(t, func(p *Printer) { p.LineWidth = 5 })

	if _, err := a.PrintText(context.Background(), TextOptions{Text: "aa bb cc"}); err != nil {
		t.Fatalf("PrintText() error = %v", err)
	}
	if !bytes.Contains(ft.payload(), []byte("aa bb\ncc\n")) {
		t.Errorf("payload does not contain wrapped text: %q", ft.payload())
	}
}

func TestPrintText_EmptyText(t *testing.T) {
	a, _ := testAdapter(t, nil)
	if _, err := a.PrintText(context.Background(), TextOptions{Text: "  "}); !errors.Is(err, ErrEmptyText) {
		t.Errorf("PrintText(blank) = %v, want ErrEmptyText", err)
	}
}

func TestPrintTextUTF8_IgnoresEncodingOverride(t *testing.T) {
	a, ft := testAdapter(t, func(p *Printer) { p.LineWidth = 0 })

	_, err := a.PrintTextUTF8(context.Background(), TextOptions{Text: "café", Encoding: "CP1252"})
	if err != nil {
		t.Fatalf("PrintTextUTF8() error = %v", err)
	}
	// CP437 renders é as 0x82; a CP1252 override would have produced 0xE9.
	if !bytes.Contains(ft.payload(), []byte{'c', 'a', 'f', 0x82}) {
		t.Errorf("payload = % X, want CP437-encoded text", ft.payload())
	}
}

func TestPrintQR_Defaults(t *testing.T) {
	a, ft := testAdapter(t, nil)

	if _, err := a.PrintQR(context.Background(), QROptions{Data: "https://example.com"}); err != nil {
		t.Fatalf("PrintQR() error = %v", err)
	}

	payload := ft.payload()
	// Model 2 select, default module size 3, EC level M.
	if !bytes.Contains(payload, []byte{0x1D, '(', 'k', 4, 0, '1', 'A', '2', 0}) {
		t.Error("payload missing QR model select")
	}
	if !bytes.Contains(payload, []byte{0x1D, '(', 'k', 3, 0, '1', 'C', 3}) {
		t.Error("payload missing default module size")
	}
	if !bytes.Contains(payload, []byte{0x1D, '(', 'k', 3, 0, '1', 'E', '1'}) {
		t.Error("payload missing EC level M")
	}
	if !bytes.Contains(payload, []byte("https://example.com")) {
		t.Error("payload missing QR data")
	}
}

func TestPrintQR_EmptyData(t *testing.T) {
	a, _ := testAdapter(t, nil)
	if _, err := a.PrintQR(context.Background(), QROptions{}); !errors.Is(err, ErrEmptyText) {
		t.Errorf("PrintQR(empty) = %v, want ErrEmptyText", err)
	}
}

func TestPrintBarcode(t *testing.T) {
	a, ft := testAdapter(t, nil)

	_, err := a.PrintBarcode(context.Background(), BarcodeOptions{
		Code: "4006381333931",
		Type: "EAN13",
	})
	if err != nil {
		t.Fatalf("PrintBarcode() error = %v", err)
	}

	payload := ft.payload()
	if !bytes.Contains(payload, []byte{0x1D, 'H', 2}) {
		t.Error("payload missing HRI below position")
	}
	if !bytes.Contains(payload, []byte{0x1D, 'h', 64}) {
		t.Error("payload missing default height")
	}
	if !bytes.Contains(payload, []byte{0x1D, 'w', 3}) {
		t.Error("payload missing default width")
	}
	if !bytes.Contains(payload, append([]byte{0x1D, 'k', 67, 13}, []byte("4006381333931")...)) {
		t.Error("payload missing EAN13 symbol")
	}
}

func TestPrintBarcode_UnknownSymbology(t *testing.T) {
	a, _ := testAdapter(t, nil)
	_, err := a.PrintBarcode(context.Background(), BarcodeOptions{Code: "123", Type: "AZTEC"})
	if !errors.Is(err, escpos.ErrUnknownSymbology) {
		t.Errorf("PrintBarcode(AZTEC) = %v, want ErrUnknownSymbology", err)
	}
}

func TestPrintImage(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "logo.png")
	writeTestPNG(t, path, 8, 4)

	a, ft := testAdapter(t, nil)
	fetcher := NewImageFetcher([]string{dir}, 0)

	if _, err := a.PrintImage(context.Background(), fetcher, ImageOptions{Image: path}); err != nil {
		t.Fatalf("PrintImage() error = %v", err)
	}
	// GS v 0 high density raster header: 1 byte per 8 pixels, 4 rows.
	if !bytes.Contains(ft.payload(), []byte{0x1D, 'v', '0', 0, 1, 0, 4, 0}) {
		t.Errorf("payload missing raster header: % X", ft.payload())
	}
}

func TestFeed(t *testing.T) {
	a, ft := testAdapter(t, nil)

	if _, err := a.Feed(context.Background(), 3); err != nil {
		t.Fatalf("Feed() error = %v", err)
	}
	if !bytes.Equal(ft.payload(), []byte{0x1B, 'd', 3}) {
		t.Errorf("payload = % X, want ESC d 3", ft.payload())
	}

	ft.writes = nil
	if _, err := a.Feed(context.Background(), 0); err != nil {
		t.Fatalf("Feed(0) error = %v", err)
	}
	if !bytes.Equal(ft.payload(), []byte{0x1B, 'd', 1}) {
		t.Errorf("payload = % X, want minimum one line", ft.payload())
	}
}

func TestCut(t *testing.T) {
	tests := []struct {
		name string
		mode string
		want []byte
	}{
		{"full", "full", []byte{0x1D, 'V', 0}},
		{"partial", "partial", []byte{0x1D, 'V', 1}},
		{"empty defaults to full", "", []byte{0x1D, 'V', 0}},
		{"invalid defaults to full", "tear", []byte{0x1D, 'V', 0}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			a, ft := testAdapter(t, nil)
			if _, err := a.Cut(context.Background(), tt.mode); err != nil {
				t.Fatalf("Cut() error = %v", err)
			}
			if !bytes.Equal(ft.payload(), tt.want) {
				t.Errorf("payload = % X, want % X", ft.payload(), tt.want)
			}
		})
	}
}

func TestCut_ProfileWithoutCutter(t *testing.T) {
	a, ft := testAdapter(t, func(p *Printer) { p.Profile = "POS-5890" })

	_, err := a.PrintText(context.Background(), TextOptions{Text: "hi", Cut: "full"})
	if err != nil {
		t.Fatalf("PrintText() error = %v", err)
	}
	if bytes.Contains(ft.payload(), []byte{0x1D, 'V'}) {
		t.Error("cut bytes sent to a profile without a cutter")
	}
}

func TestBeep(t *testing.T) {
	a, ft := testAdapter(t, nil)

	if _, err := a.Beep(context.Background(), 99, 0); err != nil {
		t.Fatalf("Beep() error = %v", err)
	}
	if !bytes.Equal(ft.payload(), []byte{0x1B, 'B', 9, 1}) {
		t.Errorf("payload = % X, want clamped ESC B 9 1", ft.payload())
	}
}

// writeTestPNG creates a black PNG of the given dimensions.
func writeTestPNG(t *testing.T, path string, w, h int) {
	t.Helper()
	img := image.NewGray(image.Rect(0, 0, w, h))
	f, err := os.Create(path)
	if err != nil {
		t.Fatalf("creating test image: %v", err)
	}
	defer f.Close()
	if err := png.Encode(f, img); err != nil {
		t.Fatalf("encoding test image: %v", err)
	}
}

package escpos

import (
	"bytes"
	"fmt"
)

// Control bytes.
const (
	esc = 0x1B
	gs  = 0x1D
)

// Operation limits. Values outside these ranges are clamped rather than
// rejected so a bad automation payload degrades instead of failing.
const (
	// MaxFeedLines caps a single feed operation.
	MaxFeedLines = 255

	// MaxBeepTimes caps buzzer repetitions and duration units.
	MaxBeepTimes = 9

	// MinQRSize and MaxQRSize bound the QR module size.
	MinQRSize = 1
	MaxQRSize = 16

	// MinBarcodeHeight and MaxBarcodeHeight bound barcode height in dots.
	MinBarcodeHeight = 1
	MaxBarcodeHeight = 255

	// MinBarcodeWidth and MaxBarcodeWidth bound barcode module width.
	MinBarcodeWidth = 2
	MaxBarcodeWidth = 6

	// maxBarcodeData is the longest payload GS k function B accepts.
	maxBarcodeData = 255

	// maxSizeMultiplier is the largest character size multiplier.
	maxSizeMultiplier = 8
)

// Document accumulates ESC/POS commands for a single print job.
//
// A Document is built command by command and then sent to a printer
// transport as one write. Builder methods return the Document so calls
// can be chained:
//
//	doc := escpos.NewDocument()
//	doc.Initialize().Align(escpos.AlignCenter).Text(encoded)
//	doc.Feed(2)
//	doc.Cut(escpos.CutPartial)
//
// Document is not safe for concurrent use.
type Document struct {
	buf bytes.Buffer
}

// NewDocument returns an empty document.
func NewDocument() *Document {
	return &Document{}
}

// Initialize resets the printer to its power-on state (ESC @).
// Clears styles, alignment, and user-defined characters.
func (d *Document) Initialize() *Document {
	d.buf.Write([]byte{esc, '@'})
	return d
}

// Align sets text alignment (ESC a).
func (d *Document) Align(a Alignment) *Document {
	d.buf.Write([]byte{esc, 'a', byte(a)})
	return d
}

// Style applies bold, underline, and character size in one call.
//
// Width and height are size multipliers from 1 to 8; zero values are
// treated as 1. The size is encoded in a single GS ! byte with the
// width multiplier in the high nibble.
func (d *Document) Style(s Style) *Document {
	boldByte := byte(0)
	if s.Bold {
		boldByte = 1
	}
	d.buf.Write([]byte{esc, 'E', boldByte})
	d.buf.Write([]byte{esc, '-', byte(s.Underline)})

	w := clamp(s.WidthMultiplier, 1, maxSizeMultiplier)
	h := clamp(s.HeightMultiplier, 1, maxSizeMultiplier)
	size := byte((w-1)<<4 | (h - 1))
	d.buf.Write([]byte{gs, '!', size})
	return d
}

// Style describes character formatting for a text block.
type Style struct {
	Bold             bool
	Underline        Underline
	WidthMultiplier  int
	HeightMultiplier int
}

// Charcode selects the printer's character code table (ESC t).
//
// The value is printer-specific; the capabilities package maps codepage
// names to table numbers for a given profile.
func (d *Document) Charcode(table byte) *Document {
	d.buf.Write([]byte{esc, 't', table})
	return d
}

// Text appends pre-encoded text bytes.
//
// The caller is responsible for transcoding to the printer's active
// codepage (see the textenc package). Raw UTF-8 written here will print
// garbage on most printers.
func (d *Document) Text(encoded []byte) *Document {
	d.buf.Write(encoded)
	return d
}

// Raw appends arbitrary bytes without interpretation.
func (d *Document) Raw(b []byte) *Document {
	d.buf.Write(b)
	return d
}

// Feed advances the paper by n lines (ESC d).
// Values are clamped to 1..MaxFeedLines; zero or negative is a no-op.
func (d *Document) Feed(lines int) *Document {
	if lines <= 0 {
		return d
	}
	if lines > MaxFeedLines {
		lines = MaxFeedLines
	}
	d.buf.Write([]byte{esc, 'd', byte(lines)})
	return d
}

// Cut cuts the paper (GS V). CutNone is a no-op.
//
// Callers wanting clearance between the print head and the cutter
// should Feed before calling Cut.
func (d *Document) Cut(mode CutMode) *Document {
	switch mode {
	case CutFull:
		d.buf.Write([]byte{gs, 'V', 0})
	case CutPartial:
		d.buf.Write([]byte{gs, 'V', 1})
	}
	return d
}

// Beep sounds the buzzer (ESC B).
//
// times is the repeat count and duration the length of each beep in
// 100ms units. Both are clamped to 1..MaxBeepTimes. Not all printers
// have a buzzer; those ignore the command.
func (d *Document) Beep(times, duration int) *Document {
	t := clamp(times, 1, MaxBeepTimes)
	dur := clamp(duration, 1, MaxBeepTimes)
	d.buf.Write([]byte{esc, 'B', byte(t), byte(dur)})
	return d
}

// QR prints a QR code using the GS ( k function group.
//
// size is the module size in dots (clamped to 1..16). The command
// sequence selects model 2, sets size and error correction, stores the
// data, and prints the symbol.
func (d *Document) QR(data string, size int, ec QRLevel) error {
	if data == "" {
		return ErrEmptyData
	}
	// Store command length field is 16-bit
	if len(data)+3 > 0xFFFF {
		return fmt.Errorf("%w: %d bytes", ErrDataTooLong, len(data))
	}

	size = clamp(size, MinQRSize, MaxQRSize)

	// Model 2
	d.buf.Write([]byte{gs, '(', 'k', 4, 0, '1', 'A', '2', 0})
	// Module size
	d.buf.Write([]byte{gs, '(', 'k', 3, 0, '1', 'C', byte(size)})
	// Error correction level
	d.buf.Write([]byte{gs, '(', 'k', 3, 0, '1', 'E', byte('0') + byte(ec)})
	// Store data
	n := len(data) + 3
	d.buf.Write([]byte{gs, '(', 'k', byte(n & 0xFF), byte(n >> 8), '1', 'P', '0'})
	d.buf.WriteString(data)
	// Print symbol
	d.buf.Write([]byte{gs, '(', 'k', 3, 0, '1', 'Q', '0'})
	return nil
}

// BarcodeOptions controls barcode rendering.
type BarcodeOptions struct {
	// Height in dots, clamped to 1..255. Zero means the default of 64.
	Height int

	// Width is the module width, clamped to 2..6. Zero means the default of 3.
	Width int

	// Position controls where the human readable text prints.
	Position BarcodePosition

	// Font selects the HRI font.
	Font BarcodeFont
}

// Barcode prints a one-dimensional barcode using GS k function B.
//
// HRI position, font, height, and module width are set before the
// symbol itself. CODE128 payloads get the {B code set prefix when the
// caller has not already supplied one.
func (d *Document) Barcode(data string, sym Symbology, opts BarcodeOptions) error {
	if data == "" {
		return ErrEmptyData
	}

	payload := data
	if sym == SymbologyCode128 && !bytes.HasPrefix([]byte(payload), []byte{'{'}) {
		payload = "{B" + payload
	}
	if len(payload) > maxBarcodeData {
		return fmt.Errorf("%w: %d bytes", ErrDataTooLong, len(payload))
	}

	height := opts.Height
	if height == 0 {
		height = DefaultBarcodeHeight
	}
	width := opts.Width
	if width == 0 {
		width = DefaultBarcodeWidth
	}
	height = clamp(height, MinBarcodeHeight, MaxBarcodeHeight)
	width = clamp(width, MinBarcodeWidth, MaxBarcodeWidth)

	// HRI position (GS H) and font (GS f)
	d.buf.Write([]byte{gs, 'H', byte(opts.Position)})
	d.buf.Write([]byte{gs, 'f', byte(opts.Font)})
	// Height (GS h) and module width (GS w)
	d.buf.Write([]byte{gs, 'h', byte(height)})
	d.buf.Write([]byte{gs, 'w', byte(width)})
	// Symbol (GS k function B: symbology, length, data)
	d.buf.Write([]byte{gs, 'k', byte(sym), byte(len(payload))})
	d.buf.WriteString(payload)
	return nil
}

// Bytes returns the accumulated command stream.
// The returned slice is valid until the next builder call.
func (d *Document) Bytes() []byte {
	return d.buf.Bytes()
}

// Len returns the current command stream length in bytes.
func (d *Document) Len() int {
	return d.buf.Len()
}

// Reset discards the accumulated commands.
func (d *Document) Reset() {
	d.buf.Reset()
}

func clamp(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

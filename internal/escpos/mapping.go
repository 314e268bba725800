package escpos

import (
	"errors"
	"strings"
)

// Sentinel errors for document building.
var (
	// ErrEmptyData is returned when a barcode or QR payload is empty.
	ErrEmptyData = errors.New("escpos: data cannot be empty")

	// ErrDataTooLong is returned when a payload exceeds the command's length field.
	ErrDataTooLong = errors.New("escpos: data too long")

	// ErrUnknownSymbology is returned for unrecognised barcode type names.
	ErrUnknownSymbology = errors.New("escpos: unknown barcode symbology")
)

// Alignment values for ESC a.
type Alignment byte

const (
	AlignLeft   Alignment = 0
	AlignCenter Alignment = 1
	AlignRight  Alignment = 2
)

// Underline values for ESC -.
type Underline byte

const (
	UnderlineNone   Underline = 0
	UnderlineSingle Underline = 1
	UnderlineDouble Underline = 2
)

// CutMode selects the GS V cut variant.
type CutMode int

const (
	CutNone CutMode = iota
	CutPartial
	CutFull
)

// QRLevel is the QR error correction level (offset added to '0' in GS ( k).
type QRLevel byte

const (
	QRLevelL QRLevel = 0
	QRLevelM QRLevel = 1
	QRLevelQ QRLevel = 2
	QRLevelH QRLevel = 3
)

// BarcodePosition controls HRI text placement (GS H).
type BarcodePosition byte

const (
	BarcodePosOff   BarcodePosition = 0
	BarcodePosAbove BarcodePosition = 1
	BarcodePosBelow BarcodePosition = 2
	BarcodePosBoth  BarcodePosition = 3
)

// BarcodeFont selects the HRI font (GS f).
type BarcodeFont byte

const (
	BarcodeFontA BarcodeFont = 0
	BarcodeFontB BarcodeFont = 1
)

// Symbology is the GS k function B barcode type code.
type Symbology byte

const (
	SymbologyUPCA    Symbology = 65
	SymbologyUPCE    Symbology = 66
	SymbologyEAN13   Symbology = 67
	SymbologyEAN8    Symbology = 68
	SymbologyCode39  Symbology = 69
	SymbologyITF     Symbology = 70
	SymbologyCodabar Symbology = 71
	SymbologyCode93  Symbology = 72
	SymbologyCode128 Symbology = 73
)

// Barcode defaults.
const (
	DefaultBarcodeHeight = 64
	DefaultBarcodeWidth  = 3
)

// DefaultQRSize is the default QR module size in dots.
const DefaultQRSize = 3

// MapAlign converts an alignment name to its ESC a value.
// Empty or unrecognised names map to left.
func MapAlign(s string) Alignment {
	switch strings.ToLower(s) {
	case "center":
		return AlignCenter
	case "right":
		return AlignRight
	default:
		return AlignLeft
	}
}

// MapUnderline converts an underline name to its ESC - value.
// Empty or unrecognised names map to none.
func MapUnderline(s string) Underline {
	switch strings.ToLower(s) {
	case "single":
		return UnderlineSingle
	case "double":
		return UnderlineDouble
	default:
		return UnderlineNone
	}
}

// MapMultiplier converts a size name to its multiplier value.
// Empty or unrecognised names map to 1 (normal).
func MapMultiplier(s string) int {
	switch strings.ToLower(s) {
	case "double":
		return 2
	case "triple":
		return 3
	default:
		return 1
	}
}

// MapCut converts a cut mode name to its CutMode.
// Empty or unrecognised names map to none (no cut).
func MapCut(s string) CutMode {
	switch strings.ToLower(s) {
	case "partial":
		return CutPartial
	case "full":
		return CutFull
	default:
		return CutNone
	}
}

// MapQRLevel converts an error correction letter to its QRLevel.
// Empty or unrecognised values map to M.
func MapQRLevel(s string) QRLevel {
	switch strings.ToUpper(s) {
	case "L":
		return QRLevelL
	case "Q":
		return QRLevelQ
	case "H":
		return QRLevelH
	default:
		return QRLevelM
	}
}

// MapBarcodePosition converts an HRI position name to its GS H value.
// Empty or unrecognised values map to below.
func MapBarcodePosition(s string) BarcodePosition {
	switch strings.ToUpper(s) {
	case "OFF":
		return BarcodePosOff
	case "ABOVE":
		return BarcodePosAbove
	case "BOTH":
		return BarcodePosBoth
	default:
		return BarcodePosBelow
	}
}

// MapBarcodeFont converts an HRI font name to its GS f value.
// Empty or unrecognised values map to font A.
func MapBarcodeFont(s string) BarcodeFont {
	if strings.ToUpper(s) == "B" {
		return BarcodeFontB
	}
	return BarcodeFontA
}

// symbologyNames maps service-level barcode type names to GS k codes.
// Aliases cover the spellings python-escpos and common documentation use.
var symbologyNames = map[string]Symbology{
	"UPC-A":   SymbologyUPCA,
	"UPCA":    SymbologyUPCA,
	"UPC-E":   SymbologyUPCE,
	"UPCE":    SymbologyUPCE,
	"EAN13":   SymbologyEAN13,
	"EAN-13":  SymbologyEAN13,
	"JAN13":   SymbologyEAN13,
	"EAN8":    SymbologyEAN8,
	"EAN-8":   SymbologyEAN8,
	"JAN8":    SymbologyEAN8,
	"CODE39":  SymbologyCode39,
	"ITF":     SymbologyITF,
	"NW7":     SymbologyCodabar,
	"CODABAR": SymbologyCodabar,
	"CODE93":  SymbologyCode93,
	"CODE128": SymbologyCode128,
}

// MapSymbology converts a barcode type name to its GS k code.
func MapSymbology(s string) (Symbology, error) {
	sym, ok := symbologyNames[strings.ToUpper(strings.TrimSpace(s))]
	if !ok {
		return 0, ErrUnknownSymbology
	}
	return sym, nil
}

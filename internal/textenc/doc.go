// Package textenc converts UTF-8 text into legacy printer codepages.
//
// Thermal printers speak single-byte codepages (CP437, CP858, CP1252
// and friends), so arbitrary UTF-8 input has to be reduced before it
// hits the wire. The pipeline normalizes with NFKC, encodes each
// character directly when the codepage supports it, then falls back to
// ASCII look-alikes (curly quotes to straight quotes, the euro sign to
// "EUR"), then to accent-stripped base letters, and finally to '?'.
//
// The package also provides word wrapping sized to the printer's
// column width.
package textenc

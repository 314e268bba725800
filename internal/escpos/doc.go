// Package escpos builds ESC/POS command streams for thermal printers.
//
// The Document type accumulates commands (text styling, paper feed,
// cuts, QR codes, barcodes, raster images) into a single byte buffer
// that a transport writes to the printer in one shot. Text must be
// transcoded to the printer's codepage before it reaches Text; the
// textenc package handles that.
//
// Mapping helpers convert the string values used by service calls
// ("center", "double", "partial", "BELOW") into their wire byte values,
// defaulting rather than erroring on unrecognised input.
package escpos

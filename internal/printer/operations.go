package printer

import (
	"context"
	"fmt"

	"github.com/cognitivegears/ha-escpos-thermal-printer/internal/capabilities"
	"github.com/cognitivegears/ha-escpos-thermal-printer/internal/escpos"
	"github.com/cognitivegears/ha-escpos-thermal-printer/internal/textenc"
)

// TextOptions are the parameters for text printing.
//
// Align and Cut fall back to the printer's defaults when empty. Feed
// lines, when positive, are applied before the cut.
type TextOptions struct {
	Text      string `json:"text"`
	Align     string `json:"align,omitempty"`
	Bold      bool   `json:"bold,omitempty"`
	Underline string `json:"underline,omitempty"`
	Width     string `json:"width,omitempty"`
	Height    string `json:"height,omitempty"`
	Encoding  string `json:"encoding,omitempty"`
	Cut       string `json:"cut,omitempty"`
	Feed      int    `json:"feed,omitempty"`
}

// QROptions are the parameters for QR code printing.
type QROptions struct {
	Data  string `json:"data"`
	Size  int    `json:"size,omitempty"`
	EC    string `json:"ec,omitempty"`
	Align string `json:"align,omitempty"`
	Cut   string `json:"cut,omitempty"`
	Feed  int    `json:"feed,omitempty"`
}

// BarcodeOptions are the parameters for 1D barcode printing.
type BarcodeOptions struct {
	Code   string `json:"code"`
	Type   string `json:"bc"`
	Height int    `json:"height,omitempty"`
	Width  int    `json:"width,omitempty"`
	Pos    string `json:"pos,omitempty"`
	Font   string `json:"font,omitempty"`
	Align  string `json:"align,omitempty"`
	Cut    string `json:"cut,omitempty"`
	Feed   int    `json:"feed,omitempty"`
}

// ImageOptions are the parameters for image printing. Image is an
// http(s) URL or a local path under the configured roots.
type ImageOptions struct {
	Image       string `json:"image"`
	HighDensity *bool  `json:"high_density,omitempty"`
	Align       string `json:"align,omitempty"`
	Cut         string `json:"cut,omitempty"`
	Feed        int    `json:"feed,omitempty"`
}

// profile returns the capability profile for this printer, falling
// back to the default profile for unknown keys.
func (a *Adapter) profile() *capabilities.Profile {
	return capabilities.Get(a.printer.Profile)
}

func (a *Adapter) codepage() string {
	if a.printer.Codepage != "" {
		return a.printer.Codepage
	}
	return "CP437"
}

// align resolves the effective alignment name for an operation.
func (a *Adapter) align(requested string) escpos.Alignment {
	if requested == "" {
		requested = a.printer.DefaultAlign
	}
	return escpos.MapAlign(requested)
}

// cut resolves the effective cut mode for a print operation.
func (a *Adapter) cut(requested string) escpos.CutMode {
	if requested == "" {
		requested = a.printer.DefaultCut
	}
	mode := escpos.MapCut(requested)
	profile := a.profile()
	switch mode {
	case escpos.CutPartial:
		if !profile.SupportsFeature(capabilities.FeaturePartCut) {
			return escpos.CutNone
		}
	case escpos.CutFull:
		if !profile.SupportsFeature(capabilities.FeatureFullCut) {
			return escpos.CutNone
		}
	}
	return mode
}

// finish appends the trailing feed and cut. Feed always happens before
// the cut so the printed content clears the cutter blade.
func (a *Adapter) finish(doc *escpos.Document, cutName string, feed int) {
	if feed > 0 {
		doc.Feed(feed)
	}
	doc.Cut(a.cut(cutName))
}

// start begins a document with initialization and, when the profile
// maps the configured codepage, the matching character table select.
func (a *Adapter) start(doc *escpos.Document) {
	doc.Initialize()
	if table, ok := a.profile().CharcodeTable(a.codepage()); ok {
		doc.Charcode(table)
	}
}

// PrintText prints styled text. The text is wrapped to the printer's
// line width and transcoded to the effective codepage; Encoding
// overrides the printer's configured codepage for this call only.
func (a *Adapter) PrintText(ctx context.Context, opts TextOptions) (int, error) {
	if err := ValidateText(opts.Text); err != nil {
		return 0, err
	}
	codepage := opts.Encoding
	if codepage == "" {
		codepage = a.codepage()
	}

	wrapped := textenc.Wrap(opts.Text, a.printer.LineWidth)
	encoded, err := textenc.Encode(wrapped, codepage)
	if err != nil {
		return 0, fmt.Errorf("encoding text: %w", err)
	}

	doc := escpos.NewDocument()
	a.start(doc)
	doc.Align(a.align(opts.Align))
	doc.Style(escpos.Style{
		Bold:             opts.Bold,
		Underline:        escpos.MapUnderline(opts.Underline),
		WidthMultiplier:  escpos.MapMultiplier(opts.Width),
		HeightMultiplier: escpos.MapMultiplier(opts.Height),
	})
	doc.Text(encoded)
	if len(encoded) > 0 && encoded[len(encoded)-1] != '\n' {
		doc.Text([]byte{'\n'})
	}
	a.finish(doc, opts.Cut, opts.Feed)

	return a.send(ctx, doc.Bytes())
}

// PrintTextUTF8 prints text transcoded with the printer's configured
// codepage. Unlike PrintText there is no per-call encoding override;
// callers hand over arbitrary UTF-8 and the pipeline degrades
// characters the codepage cannot express.
func (a *Adapter) PrintTextUTF8(ctx context.Context, opts TextOptions) (int, error) {
	opts.Encoding = ""
	return a.PrintText(ctx, opts)
}

// PrintQR prints a QR code. Size defaults to 3, error correction to M.
func (a *Adapter) PrintQR(ctx context.Context, opts QROptions) (int, error) {
	if err := ValidateQRData(opts.Data); err != nil {
		return 0, err
	}

	size := opts.Size
	if size == 0 {
		size = escpos.DefaultQRSize
	}

	doc := escpos.NewDocument()
	a.start(doc)
	doc.Align(a.align(opts.Align))
	if err := doc.QR(opts.Data, size, escpos.MapQRLevel(opts.EC)); err != nil {
		return 0, err
	}
	a.finish(doc, opts.Cut, opts.Feed)

	return a.send(ctx, doc.Bytes())
}

// PrintBarcode prints a 1D barcode. Height defaults to 64 dots, module
// width to 3, human readable text below the symbol in font A.
func (a *Adapter) PrintBarcode(ctx context.Context, opts BarcodeOptions) (int, error) {
	sym, err := escpos.MapSymbology(opts.Type)
	if err != nil {
		return 0, fmt.Errorf("%w: %q", err, opts.Type)
	}

	doc := escpos.NewDocument()
	a.start(doc)
	doc.Align(a.align(opts.Align))
	err = doc.Barcode(opts.Code, sym, escpos.BarcodeOptions{
		Height:   opts.Height,
		Width:    opts.Width,
		Position: escpos.MapBarcodePosition(opts.Pos),
		Font:     escpos.MapBarcodeFont(opts.Font),
	})
	if err != nil {
		return 0, err
	}
	a.finish(doc, opts.Cut, opts.Feed)

	return a.send(ctx, doc.Bytes())
}

// PrintImage prints a raster image fetched from a URL or read from an
// allowed local path. Images wider than the raster limit are scaled
// down; high density is the default.
func (a *Adapter) PrintImage(ctx context.Context, fetcher *ImageFetcher, opts ImageOptions) (int, error) {
	img, err := fetcher.Load(ctx, opts.Image)
	if err != nil {
		return 0, err
	}

	highDensity := true
	if opts.HighDensity != nil {
		highDensity = *opts.HighDensity
	}

	doc := escpos.NewDocument()
	a.start(doc)
	doc.Align(a.align(opts.Align))
	if err := doc.Raster(img, highDensity); err != nil {
		return 0, err
	}
	a.finish(doc, opts.Cut, opts.Feed)

	return a.send(ctx, doc.Bytes())
}

// Feed advances the paper. Lines below 1 feed one line; the upper
// clamp matches the document builder's limit.
func (a *Adapter) Feed(ctx context.Context, lines int) (int, error) {
	if lines < 1 {
		lines = 1
	}

	doc := escpos.NewDocument()
	doc.Feed(lines)
	return a.send(ctx, doc.Bytes())
}

// Cut cuts the paper. Unrecognised or empty modes cut full, matching
// the dedicated cut operation's contract rather than the print
// operations' default of none.
func (a *Adapter) Cut(ctx context.Context, mode string) (int, error) {
	cutMode := escpos.MapCut(mode)
	if cutMode == escpos.CutNone {
		cutMode = escpos.CutFull
	}
	if cutMode == escpos.CutPartial && !a.profile().SupportsFeature(capabilities.FeaturePartCut) {
		cutMode = escpos.CutFull
	}

	doc := escpos.NewDocument()
	doc.Cut(cutMode)
	return a.send(ctx, doc.Bytes())
}

// Beep sounds the buzzer. Both values clamp to 1..9.
func (a *Adapter) Beep(ctx context.Context, times, duration int) (int, error) {
	doc := escpos.NewDocument()
	doc.Beep(times, duration)
	return a.send(ctx, doc.Bytes())
}

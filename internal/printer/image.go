package printer

import (
	"bytes"
	"context"
	"fmt"
	"image"
	"io"
	"net/http"
	"net/url"
	"os"
	"path/filepath"
	"strings"
	"time"

	// Register the decoders image.Decode dispatches to.
	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"
)

const (
	// maxPrintImageWidth is the width images are scaled down to.
	// Matches a 576-dot 80mm head with margin to spare.
	maxPrintImageWidth = 512

	// defaultMaxImageBytes caps URL downloads.
	defaultMaxImageBytes = 10 << 20

	defaultFetchTimeout = 15 * time.Second
)

// ImageFetcher loads images for printing from http(s) URLs or local
// files restricted to an allow-list of directory roots.
type ImageFetcher struct {
	client       *http.Client
	allowedRoots []string
	maxBytes     int64
}

// NewImageFetcher builds a fetcher. With no allowed roots every local
// path is rejected; URLs are always permitted.
func NewImageFetcher(allowedRoots []string, maxBytes int64) *ImageFetcher {
	if maxBytes <= 0 {
		maxBytes = defaultMaxImageBytes
	}
	roots := make([]string, 0, len(allowedRoots))
	for _, root := range allowedRoots {
		if abs, err := filepath.Abs(root); err == nil {
			roots = append(roots, abs)
		}
	}
	return &ImageFetcher{
		client:       &http.Client{Timeout: defaultFetchTimeout},
		allowedRoots: roots,
		maxBytes:     maxBytes,
	}
}

// Load resolves source as a URL or local path, decodes the image, and
// scales it down when wider than the print head.
func (f *ImageFetcher) Load(ctx context.Context, source string) (image.Image, error) {
	if source == "" {
		return nil, fmt.Errorf("%w: empty source", ErrImageSource)
	}

	var (
		img image.Image
		err error
	)
	lower := strings.ToLower(source)
	if strings.HasPrefix(lower, "http://") || strings.HasPrefix(lower, "https://") {
		img, err = f.fetchURL(ctx, source)
	} else {
		img, err = f.readLocal(source)
	}
	if err != nil {
		return nil, err
	}
	return scaleToWidth(img, maxPrintImageWidth), nil
}

func (f *ImageFetcher) fetchURL(ctx context.Context, source string) (image.Image, error) {
	u, err := url.Parse(source)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrImageSource, err)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return nil, fmt.Errorf("%w: scheme %q not allowed", ErrImageSource, u.Scheme)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u.String(), nil)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrImageSource, err)
	}
	resp, err := f.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("fetching image: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("%w: status %d from %s", ErrImageSource, resp.StatusCode, u.Host)
	}

	// Read one byte past the limit to distinguish at-limit from over.
	data, err := io.ReadAll(io.LimitReader(resp.Body, f.maxBytes+1))
	if err != nil {
		return nil, fmt.Errorf("reading image: %w", err)
	}
	if int64(len(data)) > f.maxBytes {
		return nil, ErrImageTooLarge
	}

	img, _, err := image.Decode(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("%w: decoding: %v", ErrImageSource, err)
	}
	return img, nil
}

func (f *ImageFetcher) readLocal(path string) (image.Image, error) {
	abs, err := filepath.Abs(path)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrImageSource, err)
	}
	if !f.pathAllowed(abs) {
		return nil, fmt.Errorf("%w: path %s is outside the allowed directories", ErrImageSource, abs)
	}

	file, err := os.Open(abs)
	if err != nil {
		return nil, fmt.Errorf("opening image: %w", err)
	}
	defer file.Close()

	img, _, err := image.Decode(file)
	if err != nil {
		return nil, fmt.Errorf("%w: decoding: %v", ErrImageSource, err)
	}
	return img, nil
}

func (f *ImageFetcher) pathAllowed(abs string) bool {
	for _, root := range f.allowedRoots {
		if abs == root || strings.HasPrefix(abs, root+string(filepath.Separator)) {
			return true
		}
	}
	return false
}

// scaleToWidth downsamples an image wider than maxWidth using nearest
// neighbour sampling, preserving aspect ratio. Thermal heads are 1-bit
// so sampling quality is immaterial after thresholding.
func scaleToWidth(img image.Image, maxWidth int) image.Image {
	bounds := img.Bounds()
	w := bounds.Dx()
	h := bounds.Dy()
	if w <= maxWidth || w == 0 {
		return img
	}

	newW := maxWidth
	newH := h * maxWidth / w
	if newH < 1 {
		newH = 1
	}

	dst := image.NewRGBA(image.Rect(0, 0, newW, newH))
	for y := 0; y < newH; y++ {
		srcY := bounds.Min.Y + y*h/newH
		for x := 0; x < newW; x++ {
			srcX := bounds.Min.X + x*w/newW
			dst.Set(x, y, img.At(srcX, srcY))
		}
	}
	return dst
}

package textenc

import (
	"errors"
	"sort"
	"strings"

	"golang.org/x/text/encoding"
	"golang.org/x/text/encoding/charmap"
	"golang.org/x/text/encoding/japanese"
)

// ErrUnknownCodepage is returned when a codepage name cannot be resolved
// to an encoder.
var ErrUnknownCodepage = errors.New("textenc: unknown codepage")

// codepageUTF8 marks the pass-through pseudo-codepage.
const codepageUTF8 = "UTF-8"

// encodings maps normalised codepage names to their encoders.
var encodings = map[string]encoding.Encoding{
	"CP437":       charmap.CodePage437,
	"CP850":       charmap.CodePage850,
	"CP852":       charmap.CodePage852,
	"CP858":       charmap.CodePage858,
	"CP860":       charmap.CodePage860,
	"CP863":       charmap.CodePage863,
	"CP865":       charmap.CodePage865,
	"CP866":       charmap.CodePage866,
	"CP932":       japanese.ShiftJIS,
	"CP1250":      charmap.Windows1250,
	"CP1251":      charmap.Windows1251,
	"CP1252":      charmap.Windows1252,
	"CP1253":      charmap.Windows1253,
	"CP1254":      charmap.Windows1254,
	"CP1255":      charmap.Windows1255,
	"CP1256":      charmap.Windows1256,
	"CP1257":      charmap.Windows1257,
	"CP1258":      charmap.Windows1258,
	"ISO_8859_1":  charmap.ISO8859_1,
	"ISO_8859_2":  charmap.ISO8859_2,
	"ISO_8859_7":  charmap.ISO8859_7,
	"ISO_8859_15": charmap.ISO8859_15,
	"LATIN1":      charmap.ISO8859_1,
}

// normalizeName canonicalises a codepage name for table lookup.
// "iso-8859-15", "ISO_8859-15", and "ISO8859_15" all resolve the same way.
func normalizeName(name string) string {
	n := strings.ToUpper(strings.TrimSpace(name))
	n = strings.ReplaceAll(n, "-", "_")
	n = strings.ReplaceAll(n, " ", "")
	n = strings.Replace(n, "ISO8859", "ISO_8859", 1)
	return n
}

// Resolve returns the encoder for a codepage name.
//
// The boolean utf8 result is true for the UTF-8 pseudo-codepage, where
// no transcoding applies and the enc result is nil.
func Resolve(name string) (enc encoding.Encoding, utf8 bool, err error) {
	n := normalizeName(name)
	if n == "UTF_8" || n == "UTF8" {
		return nil, true, nil
	}
	e, ok := encodings[n]
	if !ok {
		return nil, false, ErrUnknownCodepage
	}
	return e, false, nil
}

// Supported reports whether a codepage name resolves to an encoder.
func Supported(name string) bool {
	_, _, err := Resolve(name)
	return err == nil
}

// Codepages returns the supported codepage names in table form, for
// config validation messages and API listings.
func Codepages() []string {
	names := make([]string, 0, len(encodings)+1)
	for name := range encodings {
		names = append(names, strings.ReplaceAll(name, "ISO_8859_", "ISO_8859-"))
	}
	names = append(names, codepageUTF8)
	sort.Strings(names)
	return names
}

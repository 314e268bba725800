package textenc

import (
	"strings"
	"unicode"

	"golang.org/x/text/unicode/norm"
)

// accentMap covers letters that carry no canonical decomposition, so
// stripping combining marks alone cannot reduce them to ASCII.
var accentMap = map[rune]string{
	'ß': "ss",
	'ẞ': "SS",
	'æ': "ae",
	'Æ': "AE",
	'œ': "oe",
	'Œ': "OE",
	'ø': "o",
	'Ø': "O",
	'ł': "l",
	'Ł': "L",
	'đ': "d",
	'Đ': "D",
	'ð': "d",
	'Ð': "D",
	'þ': "th",
	'Þ': "Th",
	'ı': "i",
	'İ': "I",
	'ħ': "h",
	'Ħ': "H",
	'ŋ': "n",
	'Ŋ': "N",
	'ŧ': "t",
	'Ŧ': "T",
	'ĸ': "k",
}

// accentFallback strips diacritics from a letter, reducing it to its
// ASCII base form. The second return is false when the rune has no
// ASCII reduction.
func accentFallback(r rune) (string, bool) {
	if s, ok := accentMap[r]; ok {
		return s, true
	}
	decomposed := norm.NFKD.String(string(r))
	var b strings.Builder
	for _, d := range decomposed {
		if unicode.Is(unicode.Mn, d) {
			continue
		}
		if d > unicode.MaxASCII {
			return "", false
		}
		b.WriteRune(d)
	}
	if b.Len() == 0 {
		return "", false
	}
	return b.String(), true
}

package textenc

import (
	"bytes"
	"strings"

	"golang.org/x/text/encoding"
	"golang.org/x/text/unicode/norm"
)

const replacementByte = '?'

// Normalize applies NFKC normalization, folding compatibility forms
// (fullwidth digits, ligatures, composed sequences) into their
// canonical composed equivalents before encoding.
func Normalize(text string) string {
	return norm.NFKC.String(text)
}

// Encode converts UTF-8 text to the byte representation of the given
// codepage. Characters outside the codepage fall back in order to a
// look-alike ASCII substitution, then an accent-stripped base letter,
// then '?'. For UTF-8 the normalized bytes pass through unchanged.
func Encode(text, codepage string) ([]byte, error) {
	enc, isUTF8, err := Resolve(codepage)
	if err != nil {
		return nil, err
	}
	normalized := Normalize(text)
	if isUTF8 {
		return []byte(normalized), nil
	}

	encoder := enc.NewEncoder()
	var out bytes.Buffer
	for _, r := range normalized {
		if b, ok := encodeDirect(encoder, string(r)); ok {
			out.Write(b)
			continue
		}
		if s, ok := lookalikeMap[r]; ok {
			if b, ok := encodeDirect(encoder, s); ok {
				out.Write(b)
				continue
			}
		}
		if s, ok := accentFallback(r); ok {
			if b, ok := encodeDirect(encoder, s); ok {
				out.Write(b)
				continue
			}
		}
		out.WriteByte(replacementByte)
	}
	return out.Bytes(), nil
}

// encodeDirect attempts a strict conversion. The encoder reports an
// error for any rune outside the target repertoire, which is how
// unmappable characters are detected here.
func encodeDirect(encoder *encoding.Encoder, s string) ([]byte, bool) {
	b, err := encoder.Bytes([]byte(s))
	if err != nil {
		return nil, false
	}
	return b, true
}

// UnmappableChars reports the distinct runes in text that would print
// as '?' under the given codepage after all fallbacks are exhausted.
// Useful for surfacing encoding problems before a job reaches paper.
func UnmappableChars(text, codepage string) ([]rune, error) {
	enc, isUTF8, err := Resolve(codepage)
	if err != nil {
		return nil, err
	}
	if isUTF8 {
		return nil, nil
	}

	encoder := enc.NewEncoder()
	seen := make(map[rune]struct{})
	var unmappable []rune
	for _, r := range Normalize(text) {
		if _, dup := seen[r]; dup {
			continue
		}
		seen[r] = struct{}{}
		if _, ok := encodeDirect(encoder, string(r)); ok {
			continue
		}
		if s, ok := lookalikeMap[r]; ok {
			if _, ok := encodeDirect(encoder, s); ok {
				continue
			}
		}
		if s, ok := accentFallback(r); ok {
			if _, ok := encodeDirect(encoder, s); ok {
				continue
			}
		}
		unmappable = append(unmappable, r)
	}
	return unmappable, nil
}

// Wrap breaks each line of text at word boundaries so no line exceeds
// width characters. Empty lines are preserved and words longer than
// the width are split mid-word. A width of zero or less disables
// wrapping.
func Wrap(text string, width int) string {
	if width <= 0 {
		return text
	}
	lines := strings.Split(text, "\n")
	wrapped := make([]string, 0, len(lines))
	for _, line := range lines {
		if strings.TrimSpace(line) == "" {
			wrapped = append(wrapped, "")
			continue
		}
		wrapped = append(wrapped, wrapLine(line, width)...)
	}
	return strings.Join(wrapped, "\n")
}

func wrapLine(line string, width int) []string {
	var out []string
	var current strings.Builder
	currentLen := 0

	flush := func() {
		out = append(out, current.String())
		current.Reset()
		currentLen = 0
	}

	for _, word := range strings.Fields(line) {
		wordLen := len([]rune(word))
		for wordLen > width {
			if currentLen > 0 {
				flush()
			}
			runes := []rune(word)
			out = append(out, string(runes[:width]))
			word = string(runes[width:])
			wordLen -= width
		}
		switch {
		case currentLen == 0:
			current.WriteString(word)
			currentLen = wordLen
		case currentLen+1+wordLen <= width:
			current.WriteByte(' ')
			current.WriteString(word)
			currentLen += 1 + wordLen
		default:
			flush()
			current.WriteString(word)
			currentLen = wordLen
		}
	}
	if currentLen > 0 {
		flush()
	}
	if len(out) == 0 {
		out = append(out, "")
	}
	return out
}

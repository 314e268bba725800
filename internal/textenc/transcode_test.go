package textenc

import (
	"bytes"
	"errors"
	"testing"
)

func TestEncode_DirectMapping(t *testing.T) {
	tests := []struct {
		name     string
		text     string
		codepage string
		want     []byte
	}{
		{"ascii", "hello", "CP437", []byte("hello")},
		{"accented latin", "café", "CP437", []byte{'c', 'a', 'f', 0x82}},
		{"box drawing native", "─│┌", "CP437", []byte{0xC4, 0xB3, 0xDA}},
		{"euro native cp1252", "€", "CP1252", []byte{0x80}},
		{"euro native cp858", "€", "CP858", []byte{0xD5}},
		{"nordic native cp865", "ø", "CP865", []byte{0x9B}},
		{"shift jis kanji", "日本", "CP932", []byte{0x93, 0xFA, 0x96, 0x7B}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Encode(tt.text, tt.codepage)
			if err != nil {
				t.Fatalf("Encode() error = %v", err)
			}
			if !bytes.Equal(got, tt.want) {
				t.Errorf("Encode() = % X, want % X", got, tt.want)
			}
		})
	}
}

func TestEncode_LookalikeFallback(t *testing.T) {
	tests := []struct {
		name     string
		text     string
		codepage string
		want     string
	}{
		{"curly quotes", "“hi” and ‘bye’", "CP437", `"hi" and 'bye'`},
		{"em dash", "a—b", "CP437", "a--b"},
		{"ellipsis", "wait…", "CP437", "wait..."},
		{"euro fallback", "€10", "CP437", "EUR10"},
		{"not equal", "a≠b", "CP437", "a!=b"},
		{"arrow", "a→b", "CP437", "a->b"},
		// NFKC folds the trademark sign to "TM" before the lookalike
		// map is consulted.
		{"trademark", "Acme™", "CP437", "AcmeTM"},
		{"bullet", "• item", "CP437", "* item"},
		{"zero width space dropped", "a​b", "CP437", "ab"},
		{"byte order mark dropped", "a\uFEFFb", "CP437", "ab"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Encode(tt.text, tt.codepage)
			if err != nil {
				t.Fatalf("Encode() error = %v", err)
			}
			if string(got) != tt.want {
				t.Errorf("Encode() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestEncode_AccentFallback(t *testing.T) {
	tests := []struct {
		name     string
		text     string
		codepage string
		want     string
	}{
		{"slashed o", "smørrebrød", "CP1251", "smorrebrod"},
		{"sharp s", "straße", "CP866", "strasse"},
		{"polish l", "Łódź", "CP866", "Lodz"},
		{"thorn", "Þór", "CP866", "Thor"},
		{"ligature ae", "Ægir", "CP866", "AEgir"},
		{"macron vowel", "rōmaji", "CP437", "romaji"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Encode(tt.text, tt.codepage)
			if err != nil {
				t.Fatalf("Encode() error = %v", err)
			}
			if string(got) != tt.want {
				t.Errorf("Encode() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestEncode_ReplacementChar(t *testing.T) {
	got, err := Encode("漢字 ok", "CP437")
	if err != nil {
		t.Fatalf("Encode() error = %v", err)
	}
	if string(got) != "?? ok" {
		t.Errorf("Encode() = %q, want %q", got, "?? ok")
	}
}

func TestEncode_NFKCNormalization(t *testing.T) {
	// Ligature fi and fullwidth digits fold to plain ASCII.
	got, err := Encode("ﬁle １２３", "CP437")
	if err != nil {
		t.Fatalf("Encode() error = %v", err)
	}
	if string(got) != "file 123" {
		t.Errorf("Encode() = %q, want %q", got, "file 123")
	}
}

func TestEncode_UTF8Passthrough(t *testing.T) {
	text := "héllo € 日本"
	got, err := Encode(text, "UTF-8")
	if err != nil {
		t.Fatalf("Encode() error = %v", err)
	}
	if string(got) != text {
		t.Errorf("Encode() = %q, want %q", got, text)
	}
}

func TestEncode_UnknownCodepage(t *testing.T) {
	_, err := Encode("text", "CP9999")
	if !errors.Is(err, ErrUnknownCodepage) {
		t.Errorf("Encode() error = %v, want ErrUnknownCodepage", err)
	}
}

func TestUnmappableChars(t *testing.T) {
	got, err := UnmappableChars("café → 漢字 漢", "CP437")
	if err != nil {
		t.Fatalf("UnmappableChars() error = %v", err)
	}
	want := []rune{'漢', '字'}
	if len(got) != len(want) {
		t.Fatalf("UnmappableChars() = %q, want %q", string(got), string(want))
	}
	for i, r := range want {
		if got[i] != r {
			t.Errorf("UnmappableChars()[%d] = %q, want %q", i, got[i], r)
		}
	}
}

func TestUnmappableChars_UTF8(t *testing.T) {
	got, err := UnmappableChars("漢字", "UTF-8")
	if err != nil {
		t.Fatalf("UnmappableChars() error = %v", err)
	}
	if got != nil {
		t.Errorf("UnmappableChars() = %q, want nil", string(got))
	}
}

func TestNormalize(t *testing.T) {
	if got := Normalize("ﬁ１２３"); got != "fi123" {
		t.Errorf("Normalize() = %q, want %q", got, "fi123")
	}
}

func TestWrap(t *testing.T) {
	tests := []struct {
		name  string
		text  string
		width int
		want  string
	}{
		{"fits", "hello world", 20, "hello world"},
		{"simple wrap", "hello world foo", 11, "hello world\nfoo"},
		{"exact boundary", "ab cd", 5, "ab cd"},
		{"one past boundary", "ab cde", 5, "ab\ncde"},
		{"empty line preserved", "a\n\nb", 10, "a\n\nb"},
		{"multiple lines wrapped", "aa bb cc\ndd ee", 5, "aa bb\ncc\ndd ee"},
		{"long word split", "abcdefghij", 4, "abcd\nefgh\nij"},
		{"long word mid line", "x abcdefgh y", 4, "x\nabcd\nefgh\ny"},
		{"whitespace collapsed", "a    b", 10, "a b"},
		{"zero width disables", "hello world foo", 0, "hello world foo"},
		{"negative width disables", "hello", -1, "hello"},
		{"empty string", "", 10, ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Wrap(tt.text, tt.width); got != tt.want {
				t.Errorf("Wrap() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestAccentFallback(t *testing.T) {
	tests := []struct {
		r      rune
		want   string
		wantOK bool
	}{
		{'é', "e", true},
		{'ü', "u", true},
		{'ñ', "n", true},
		{'ß', "ss", true},
		{'Ø', "O", true},
		{'ı', "i", true},
		{'漢', "", false},
		{'→', "", false},
	}
	for _, tt := range tests {
		got, ok := accentFallback(tt.r)
		if got != tt.want || ok != tt.wantOK {
			t.Errorf("accentFallback(%q) = (%q, %v), want (%q, %v)", tt.r, got, ok, tt.want, tt.wantOK)
		}
	}
}

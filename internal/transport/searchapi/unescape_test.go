package searchapi

import "testing"

func TestUnescapeUnicode(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{"plain text untouched", "no escapes here", "no escapes here"},
		{"single escape", `caf\u00e9`, "caf\u00e9"},
		{"multiple escapes", `\u05d0\u05d1 ok`, "\u05d0\u05d1 ok"},
		{"escape mid-string", `Cannot parse 'caf\u00e9': oops`, "Cannot parse 'caf\u00e9': oops"},
		{"short escape untouched", `bad \u00e`, `bad \u00e`},
		{"non-hex untouched", `bad \u00zz`, `bad \u00zz`},
		{"uppercase hex", `\u00C9`, "\u00C9"},
		{"empty", "", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := UnescapeUnicode(tt.in); got != tt.want {
				t.Errorf("UnescapeUnicode(%q) = %q, want %q", tt.in, got, tt.want)
			}
		})
	}
}

func TestUnescapeUnicode_AppliedExactlyOnce(t *testing.T) {
	// The upstream double-escapes this one field: the wire carries a
	// literal backslash-u sequence, not a JSON escape.
	in := `caf\u00e9`
	got := UnescapeUnicode(in)
	if got != "caf\u00e9" {
		t.Fatalf("got %q, want %q", got, "caf\u00e9")
	}
	// Idempotent once fully unescaped.
	if again := UnescapeUnicode(got); again != got {
		t.Errorf("second pass changed the string: %q -> %q", got, again)
	}
}

func TestUnescapeUnicode_LoneSurrogate(t *testing.T) {
	// A lone surrogate half cannot be represented in a Go string; it
	// decodes to the replacement character rather than erroring.
	got := UnescapeUnicode(`\ud83d`)
	if got != "\ufffd" {
		t.Errorf("got %q, want replacement character", got)
	}
}

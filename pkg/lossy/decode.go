package lossy

import (
	"strings"
	"unicode/utf8"
)

// Replacement is the rune substituted for each ill-formed subsequence.
const Replacement = utf8.RuneError

// String decodes b as UTF-8, replacing every maximal ill-formed subpart with
// U+FFFD. Valid input is returned unchanged.
//
// A byte that can never start a sequence is a subpart of its own. A lead byte
// followed by too few valid continuation bytes forms a single subpart
// together with those continuations, so a truncated multi-byte character is
// replaced once rather than once per byte.
func String(b []byte) string {
	s, _ := decode(b)
	return s
}

// Count returns how many replacement characters String would insert for b.
func Count(b []byte) int {
	if utf8.Valid(b) {
		return 0
	}
	n := 0
	for i := 0; i < len(b); {
		size, ok := next(b[i:])
		if !ok {
			n++
		}
		i += size
	}
	return n
}

func decode(b []byte) (string, int) {
	if utf8.Valid(b) {
		return string(b), 0
	}

	var sb strings.Builder
	sb.Grow(len(b) + 2)
	repl := 0
	for i := 0; i < len(b); {
		size, ok := next(b[i:])
		if ok {
			sb.Write(b[i : i+size])
		} else {
			sb.WriteRune(Replacement)
			repl++
		}
		i += size
	}
	return sb.String(), repl
}

// next reports the length of the sequence at the start of p and whether it
// is well formed. p must not be empty.
func next(p []byte) (int, bool) {
	if p[0] < utf8.RuneSelf {
		return 1, true
	}
	if r, size := utf8.DecodeRune(p); r != utf8.RuneError || size > 1 {
		return size, true
	}
	return subpartLen(p), false
}

// subpartLen returns the length of the maximal ill-formed subpart at the
// start of p. Ranges follow the well-formed byte sequence table of the
// Unicode standard, chapter 3.
func subpartLen(p []byte) int {
	lo, hi := byte(0x80), byte(0xBF)
	var need int
	switch lead := p[0]; {
	case lead >= 0xC2 && lead <= 0xDF:
		need = 1
	case lead == 0xE0:
		need, lo = 2, 0xA0
	case lead == 0xED:
		need, hi = 2, 0x9F
	case lead >= 0xE1 && lead <= 0xEF:
		need = 2
	case lead == 0xF0:
		need, lo = 3, 0x90
	case lead >= 0xF1 && lead <= 0xF3:
		need = 3
	case lead == 0xF4:
		need, hi = 3, 0x8F
	default:
		return 1
	}

	n := 1
	for n <= need && n < len(p) {
		if c := p[n]; c < lo || c > hi {
			break
		}
		lo, hi = 0x80, 0xBF
		n++
	}
	return n
}

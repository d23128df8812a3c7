package lexicon

import "unicode/utf8"

// Sentences splits text after '.', '!' or '?' whenever the terminator is
// followed by whitespace. The terminator stays with its sentence and the
// whitespace run is dropped. Text without a boundary is returned whole, and
// a trailing boundary yields a final empty sentence.
func Sentences(text string) []string {
	var out []string
	start := 0
	for i := 0; i < len(text); i++ {
		switch text[i] {
		case '.', '!', '?':
		default:
			continue
		}

		j := i + 1
		for j < len(text) {
			r, size := utf8.DecodeRuneInString(text[j:])
			if !isSpace(r) {
				break
			}
			j += size
		}
		if j == i+1 {
			continue
		}

		out = append(out, text[start:i+1])
		start = j
		i = j - 1
	}
	return append(out, text[start:])
}

func isSpace(r rune) bool {
	switch r {
	case ' ', '\t', '\n', '\v', '\f', '\r', 0x85, 0xA0:
		return true
	}
	return r >= 0x2000 && r <= 0x200A || r == 0x2028 || r == 0x2029 || r == 0x202F || r == 0x205F || r == 0x3000
}

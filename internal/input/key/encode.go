package key

import "strings"

// Encode converts a key-down into the editor's key notation.
//
// It returns false when the key has no representation, and also when the
// key is a plain character (literal, or the <LT> token) pressed without
// Ctrl, Alt or GUI: such a key arrives again as composed text, which is
// encoded by EncodeText instead.
func Encode(k Key, m Mod) (string, bool) {
	rep, ok := representation(k)
	if !ok {
		return "", false
	}

	literal := !strings.HasPrefix(rep, "<")
	nonShift := m.GUI() || m.Ctrl() || m.Alt()
	if literal && !nonShift {
		return "", false
	}
	// <LT> stands for a plain '<' and is suppressed like a literal.
	if rep == "<LT>" && !nonShift {
		return "", false
	}

	inner := strings.TrimSuffix(strings.TrimPrefix(rep, "<"), ">")
	if literal {
		inner = rep
	}

	var b strings.Builder
	b.Grow(len(inner) + 10)
	b.WriteByte('<')
	if m.Alt() {
		b.WriteString("A-")
	}
	if m.Ctrl() {
		b.WriteString("C-")
	}
	if m.GUI() {
		b.WriteString("D-")
	}
	if m.Shift() {
		b.WriteString("S-")
	}
	b.WriteString(inner)
	b.WriteByte('>')
	return b.String(), true
}

// CharRepresentation returns the mandatory token for characters that
// collide with notation syntax.
func CharRepresentation(r rune) (string, bool) {
	switch r {
	case '<':
		return "<LT>", true
	case ' ':
		return "<Space>", true
	}
	return "", false
}

// EncodeText converts composed text into notation. Spaces are dropped:
// they are reported through Encode, which can tell <Space> from <S-Space>.
func EncodeText(text string) string {
	var b strings.Builder
	for _, r := range text {
		if r == ' ' {
			continue
		}
		if tok, ok := CharRepresentation(r); ok {
			b.WriteString(tok)
			continue
		}
		b.WriteRune(r)
	}
	return b.String()
}

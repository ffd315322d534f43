package key

import (
	"testing"
)

func TestKeyString(t *testing.T) {
	tests := []struct {
		key  Key
		want string
	}{
		{KeyNone, "None"},
		{KeyA, "a"},
		{KeyZ, "z"},
		{Key7, "7"},
		{KeyEscape, "<Esc>"},
		{KeyReturn, "<CR>"},
		{KeyF1, "<F1>"},
		{KeyF10, "<F10>"},
		{KeyF24, "<F24>"},
		{KeyKP3, "<k3>"},
		{KeyLess, "<LT>"},
		{KeySlash, "/"},
		{KeyLShift, "LShift"},
	}

	for _, tt := range tests {
		t.Run(tt.want, func(t *testing.T) {
			if got := tt.key.String(); got != tt.want {
				t.Errorf("Key.String() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestKeyClasses(t *testing.T) {
	if !KeyF12.IsFunctionKey() || KeyEscape.IsFunctionKey() {
		t.Error("IsFunctionKey misclassified")
	}
	if !KeyKPEnter.IsKeypadKey() || KeyReturn.IsKeypadKey() {
		t.Error("IsKeypadKey misclassified")
	}
	if !KeyRAlt.IsModifierKey() || KeyA.IsModifierKey() {
		t.Error("IsModifierKey misclassified")
	}
	if !KeyQ.IsLetter() || !Key0.IsDigit() || KeyQ.IsDigit() {
		t.Error("letter/digit misclassified")
	}
}

func TestFromRune(t *testing.T) {
	tests := []struct {
		r    rune
		want Key
		ok   bool
	}{
		{'a', KeyA, true},
		{'Q', KeyQ, true},
		{'5', Key5, true},
		{'<', KeyLess, true},
		{' ', KeySpace, true},
		{':', KeyColon, true},
		{'_', KeyUnderscore, true},
		{'λ', KeyNone, false},
	}

	for _, tt := range tests {
		got, ok := FromRune(tt.r)
		if ok != tt.ok || got != tt.want {
			t.Errorf("FromRune(%q) = (%v, %v), want (%v, %v)", tt.r, got, ok, tt.want, tt.ok)
		}
	}
}

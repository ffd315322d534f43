package key

import (
	"testing"
)

func TestModHas(t *testing.T) {
	tests := []struct {
		mod    Mod
		check  Mod
		expect bool
	}{
		{ModNone, ModCtrl, false},
		{ModLCtrl, ModCtrl, true},
		{ModRCtrl, ModCtrl, true},
		{ModLCtrl | ModLAlt, ModAlt, true},
		{ModLCtrl | ModLAlt, ModShift, false},
		{ModRGUI, ModGUI, true},
	}

	for _, tt := range tests {
		if got := tt.mod.Has(tt.check); got != tt.expect {
			t.Errorf("Mod(%s).Has(%s) = %v, want %v", tt.mod, tt.check, got, tt.expect)
		}
	}
}

func TestModWithWithout(t *testing.T) {
	mod := ModNone.With(ModLCtrl).With(ModLAlt)
	if !mod.Ctrl() || !mod.Alt() {
		t.Error("With should add Ctrl and Alt")
	}
	mod = mod.Without(ModLAlt)
	if mod.Alt() || !mod.Ctrl() {
		t.Error("Without(ModLAlt) should remove Alt and keep Ctrl")
	}
}

func TestModAltIsLeftOnly(t *testing.T) {
	if !ModLAlt.Alt() {
		t.Error("left Alt should count as Alt")
	}
	if ModRAlt.Alt() {
		t.Error("right Alt must not count as Alt")
	}
}

func TestModShiftCapsLock(t *testing.T) {
	tests := []struct {
		mod  Mod
		want bool
	}{
		{ModNone, false},
		{ModLShift, true},
		{ModRShift, true},
		{ModCaps, true},
		{ModLShift | ModCaps, false},
		{ModRShift | ModCaps, false},
	}

	for _, tt := range tests {
		if got := tt.mod.Shift(); got != tt.want {
			t.Errorf("Mod(%s).Shift() = %v, want %v", tt.mod, got, tt.want)
		}
	}
}

func TestModString(t *testing.T) {
	tests := []struct {
		mod  Mod
		want string
	}{
		{ModNone, ""},
		{ModLCtrl, "LCtrl"},
		{ModLCtrl | ModRAlt, "LCtrl+RAlt"},
		{ModLShift | ModCaps, "LShift+Caps"},
	}

	for _, tt := range tests {
		if got := tt.mod.String(); got != tt.want {
			t.Errorf("Mod.String() = %q, want %q", got, tt.want)
		}
	}
}

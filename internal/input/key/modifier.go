package key

import "strings"

// Mod is the modifier bitmask reported alongside a key-down. Left and
// right variants are distinct bits because the encoder treats them
// differently (right Alt is AltGr on many layouts).
type Mod uint16

const (
	// ModNone indicates no modifiers.
	ModNone Mod = 0

	ModLShift Mod = 1 << iota
	ModRShift
	ModLCtrl
	ModRCtrl
	ModLAlt
	ModRAlt
	ModLGUI
	ModRGUI
	ModNum
	ModCaps
	ModMode
)

// Combined masks for either side.
const (
	ModShift = ModLShift | ModRShift
	ModCtrl  = ModLCtrl | ModRCtrl
	ModAlt   = ModLAlt | ModRAlt
	ModGUI   = ModLGUI | ModRGUI
)

// Has returns true if m contains any bit of mod.
func (m Mod) Has(mod Mod) bool {
	return m&mod != 0
}

// With returns a new Mod with the specified bits added.
func (m Mod) With(mod Mod) Mod {
	return m | mod
}

// Without returns a new Mod with the specified bits removed.
func (m Mod) Without(mod Mod) Mod {
	return m &^ mod
}

// GUI reports whether either super/command key is held.
func (m Mod) GUI() bool {
	return m.Has(ModGUI)
}

// Ctrl reports whether either Control key is held.
func (m Mod) Ctrl() bool {
	return m.Has(ModCtrl)
}

// Alt reports whether left Alt is held. Right Alt is AltGr on many layouts
// and produces composed characters, so it is never reported.
func (m Mod) Alt() bool {
	return m.Has(ModLAlt)
}

// Shift reports the effective shift state: Caps Lock inverts Shift.
func (m Mod) Shift() bool {
	return m.Has(ModShift) != m.Has(ModCaps)
}

// String returns a human-readable representation like "LCtrl+RAlt".
func (m Mod) String() string {
	if m == ModNone {
		return ""
	}
	names := []struct {
		mod  Mod
		name string
	}{
		{ModLCtrl, "LCtrl"},
		{ModRCtrl, "RCtrl"},
		{ModLAlt, "LAlt"},
		{ModRAlt, "RAlt"},
		{ModLShift, "LShift"},
		{ModRShift, "RShift"},
		{ModLGUI, "LGUI"},
		{ModRGUI, "RGUI"},
		{ModCaps, "Caps"},
		{ModNum, "Num"},
		{ModMode, "Mode"},
	}
	var parts []string
	for _, n := range names {
		if m.Has(n.mod) {
			parts = append(parts, n.name)
		}
	}
	return strings.Join(parts, "+")
}

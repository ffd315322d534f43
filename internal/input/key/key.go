package key

import "fmt"

// Key identifies a physical or virtual key as reported by the windowing
// backend on key-down. It carries no modifier state; see Mod.
type Key uint16

const (
	// KeyNone represents no key.
	KeyNone Key = iota

	// Letters
	KeyA
	KeyB
	KeyC
	KeyD
	KeyE
	KeyF
	KeyG
	KeyH
	KeyI
	KeyJ
	KeyK
	KeyL
	KeyM
	KeyN
	KeyO
	KeyP
	KeyQ
	KeyR
	KeyS
	KeyT
	KeyU
	KeyV
	KeyW
	KeyX
	KeyY
	KeyZ

	// Digits
	Key0
	Key1
	Key2
	Key3
	Key4
	Key5
	Key6
	Key7
	Key8
	Key9

	// Punctuation with a literal representation
	KeyAmpersand
	KeyAsterisk
	KeyAt
	KeyBackquote
	KeyBackslash
	KeyCaret
	KeyColon
	KeyComma
	KeyDollar
	KeyEquals
	KeyExclaim
	KeyGreater
	KeyHash
	KeyLeftBracket
	KeyLeftParen
	KeyMinus
	KeyPercent
	KeyPeriod
	KeyPlus
	KeyQuestion
	KeyQuote
	KeyQuotedbl
	KeyRightBracket
	KeyRightParen
	KeySemicolon
	KeySlash
	KeyUnderscore

	// Less-than has a symbolic token because '<' opens notation.
	KeyLess

	// Editing and navigation keys
	KeyEscape
	KeyReturn
	KeyTab
	KeySpace
	KeyBackspace
	KeyDelete
	KeyInsert
	KeyHome
	KeyEnd
	KeyPageUp
	KeyPageDown
	KeyUp
	KeyDown
	KeyLeft
	KeyRight
	KeyHelp
	KeyUndo
	KeyACHome

	// Function keys
	KeyF1
	KeyF2
	KeyF3
	KeyF4
	KeyF5
	KeyF6
	KeyF7
	KeyF8
	KeyF9
	KeyF10
	KeyF11
	KeyF12
	KeyF13
	KeyF14
	KeyF15
	KeyF16
	KeyF17
	KeyF18
	KeyF19
	KeyF20
	KeyF21
	KeyF22
	KeyF23
	KeyF24

	// Keypad
	KeyKP0
	KeyKP1
	KeyKP2
	KeyKP3
	KeyKP4
	KeyKP5
	KeyKP6
	KeyKP7
	KeyKP8
	KeyKP9
	KeyKP00
	KeyKP000
	KeyKPBackspace
	KeyKPComma
	KeyKPDivide
	KeyKPEnter
	KeyKPEquals
	KeyKPLess
	KeyKPMinus
	KeyKPMultiply
	KeyKPPlus
	KeyKPPeriod
	KeyKPDecimal
	KeyKPAmpersand
	KeyKPColon
	KeyKPExclam
	KeyKPGreater
	KeyKPHash
	KeyKPLeftBrace
	KeyKPRightBrace
	KeyKPLeftParen
	KeyKPRightParen
	KeyKPPercent
	KeyKPVerticalBar

	// Keys that never produce notation on their own.
	KeyLShift
	KeyRShift
	KeyLCtrl
	KeyRCtrl
	KeyLAlt
	KeyRAlt
	KeyLGUI
	KeyRGUI
	KeyCapsLock
	KeyNumLock
	KeyScrollLock
	KeyPrintScreen
	KeyPause
)

// IsLetter reports whether k is one of KeyA..KeyZ.
func (k Key) IsLetter() bool {
	return k >= KeyA && k <= KeyZ
}

// IsDigit reports whether k is one of Key0..Key9.
func (k Key) IsDigit() bool {
	return k >= Key0 && k <= Key9
}

// IsFunctionKey returns true if this is a function key (F1-F24).
func (k Key) IsFunctionKey() bool {
	return k >= KeyF1 && k <= KeyF24
}

// IsKeypadKey returns true if this is a keypad key.
func (k Key) IsKeypadKey() bool {
	return k >= KeyKP0 && k <= KeyKPVerticalBar
}

// IsModifierKey returns true for keys that only change modifier state.
func (k Key) IsModifierKey() bool {
	return k >= KeyLShift && k <= KeyNumLock
}

// String returns the representation used by the encoder, or a debug name
// for keys without one.
func (k Key) String() string {
	if rep, ok := representation(k); ok {
		return rep
	}
	if name, ok := silentKeyNames[k]; ok {
		return name
	}
	if k == KeyNone {
		return "None"
	}
	return fmt.Sprintf("Key(%d)", k)
}

var silentKeyNames = map[Key]string{
	KeyLShift:      "LShift",
	KeyRShift:      "RShift",
	KeyLCtrl:       "LCtrl",
	KeyRCtrl:       "RCtrl",
	KeyLAlt:        "LAlt",
	KeyRAlt:        "RAlt",
	KeyLGUI:        "LGUI",
	KeyRGUI:        "RGUI",
	KeyCapsLock:    "CapsLock",
	KeyNumLock:     "NumLock",
	KeyScrollLock:  "ScrollLock",
	KeyPrintScreen: "PrintScreen",
	KeyPause:       "Pause",
}

// punctuation maps literal punctuation keys to the character they carry.
var punctuation = map[Key]rune{
	KeyAmpersand:    '&',
	KeyAsterisk:     '*',
	KeyAt:           '@',
	KeyBackquote:    '`',
	KeyBackslash:    '\\',
	KeyCaret:        '^',
	KeyColon:        ':',
	KeyComma:        ',',
	KeyDollar:       '$',
	KeyEquals:       '=',
	KeyExclaim:      '!',
	KeyGreater:      '>',
	KeyHash:         '#',
	KeyLeftBracket:  '[',
	KeyLeftParen:    '(',
	KeyMinus:        '-',
	KeyPercent:      '%',
	KeyPeriod:       '.',
	KeyPlus:         '+',
	KeyQuestion:     '?',
	KeyQuote:        '\'',
	KeyQuotedbl:     '"',
	KeyRightBracket: ']',
	KeyRightParen:   ')',
	KeySemicolon:    ';',
	KeySlash:        '/',
	KeyUnderscore:   '_',

	KeyKPAmpersand:   '&',
	KeyKPColon:       ':',
	KeyKPExclam:      '!',
	KeyKPGreater:     '>',
	KeyKPHash:        '#',
	KeyKPLeftBrace:   '{',
	KeyKPRightBrace:  '}',
	KeyKPLeftParen:   '(',
	KeyKPRightParen:  ')',
	KeyKPPercent:     '%',
	KeyKPVerticalBar: '|',
	KeyKPPeriod:      '.',
	KeyKPDecimal:     '.',
}

// symbolic maps keys to their bracketed notation token.
var symbolic = map[Key]string{
	KeyLess:        "<LT>",
	KeyKPLess:      "<LT>",
	KeyEscape:      "<Esc>",
	KeyReturn:      "<CR>",
	KeyTab:         "<Tab>",
	KeySpace:       "<Space>",
	KeyBackspace:   "<BS>",
	KeyKPBackspace: "<BS>",
	KeyDelete:      "<Del>",
	KeyInsert:      "<Insert>",
	KeyHome:        "<Home>",
	KeyACHome:      "<kHome>",
	KeyEnd:         "<End>",
	KeyPageUp:      "<PageUp>",
	KeyPageDown:    "<PageDown>",
	KeyUp:          "<Up>",
	KeyDown:        "<Down>",
	KeyLeft:        "<Left>",
	KeyRight:       "<Right>",
	KeyHelp:        "<Help>",
	KeyUndo:        "<Undo>",
	KeyKP00:        "<k00>",
	KeyKP000:       "<k000>",
	KeyKPComma:     "<kComma>",
	KeyKPDivide:    "<kDivide>",
	KeyKPEnter:     "<kEnter>",
	KeyKPEquals:    "<kEquals>",
	KeyKPMinus:     "<kMinus>",
	KeyKPMultiply:  "<kMultiply>",
	KeyKPPlus:      "<kPlus>",
}

// representation returns either a one-character literal or a bracketed
// symbolic token for k.
func representation(k Key) (string, bool) {
	switch {
	case k.IsLetter():
		return string(rune('a' + k - KeyA)), true
	case k.IsDigit():
		return string(rune('0' + k - Key0)), true
	case k.IsFunctionKey():
		return fmt.Sprintf("<F%d>", k-KeyF1+1), true
	case k >= KeyKP0 && k <= KeyKP9:
		return fmt.Sprintf("<k%d>", k-KeyKP0), true
	}
	if r, ok := punctuation[k]; ok {
		return string(r), true
	}
	if tok, ok := symbolic[k]; ok {
		return tok, true
	}
	return "", false
}

// runeKeys maps characters to the key that produces them unshifted.
var runeKeys = func() map[rune]Key {
	m := make(map[rune]Key, 64)
	for k := KeyAmpersand; k <= KeyUnderscore; k++ {
		m[punctuation[k]] = k
	}
	m['<'] = KeyLess
	m[' '] = KeySpace
	return m
}()

// FromRune returns the key that carries r, for backends that report
// characters instead of keycodes. Upper-case letters map to their letter
// key; the caller supplies Shift if it knows about it.
func FromRune(r rune) (Key, bool) {
	switch {
	case r >= 'a' && r <= 'z':
		return KeyA + Key(r-'a'), true
	case r >= 'A' && r <= 'Z':
		return KeyA + Key(r-'A'), true
	case r >= '0' && r <= '9':
		return Key0 + Key(r-'0'), true
	}
	k, ok := runeKeys[r]
	return k, ok
}

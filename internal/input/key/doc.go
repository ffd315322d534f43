// Package key encodes keyboard input into the editor's key notation.
//
// Two paths exist because desktop toolkits report a printable key twice:
//
//   - Encode handles key-down events (Key plus Mod bitmask). Special keys
//     always produce a token such as "<Esc>" or "<C-S-Esc>"; printable
//     keys only produce one when Ctrl, Alt or GUI is held.
//   - EncodeText handles composed text, the characters the OS resolved
//     from a key press (layout, dead keys, AltGr). Characters that clash
//     with notation syntax use their token ("<" becomes "<LT>").
//
// Modifier prefixes are written in the fixed order A-, C-, D-, S-.
// Only left Alt counts as Alt, and Caps Lock inverts Shift.
//
// Known gaps: "/" typed as Shift+":" and ">" typed as Shift+"<" on some
// layouts are not disambiguated.
package key

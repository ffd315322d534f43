package grid

import (
	"strings"
	"time"
)

// CursorState is the visibility phase of the cursor overlay.
type CursorState uint8

const (
	CursorVisible   CursorState = iota // drawn on the cursor grid
	CursorSuspended                    // editor is busy
)

// String returns the name of the state.
func (c CursorState) String() string {
	if c == CursorSuspended {
		return "suspended"
	}
	return "visible"
}

// Chunk is a run of text in one highlight.
type Chunk struct {
	HL   int
	Text string
}

// Message is one status message, drawn at the bottom of the cursor
// grid's window.
type Message struct {
	Kind   string
	Chunks []Chunk
}

// Text returns the message's concatenated text.
func (m Message) Text() string {
	return joinChunks(m.Chunks)
}

// Cmdline is an active command-line prompt.
type Cmdline struct {
	Content []Chunk
	Pos     int
	FirstC  string
	Prompt  string
	Indent  int
	Level   int
}

// Text returns the line as displayed: first character, prompt,
// indentation and content.
func (c Cmdline) Text() string {
	return c.FirstC + c.Prompt + strings.Repeat(" ", max(c.Indent, 0)) + joinChunks(c.Content)
}

func joinChunks(chunks []Chunk) string {
	var b strings.Builder
	for _, c := range chunks {
		b.WriteString(c.Text)
	}
	return b.String()
}

type overlayState struct {
	messages  []Message
	lastShown time.Time
	moved     bool

	// cmdlines is indexed by level-1; nil entries are hidden levels.
	cmdlines []*Cmdline

	cursor CursorState
	dirty  map[int]bool
}

func (s *Store) markOverlay() {
	if s.hasCursor {
		s.overlay.dirty[s.cursorGrid] = true
	}
}

// OverlayDirty reports whether grid id must be presented again because
// an overlay drawn over it changed.
func (s *Store) OverlayDirty(id int) bool {
	return s.overlay.dirty[id]
}

// ClearOverlayDirty resets the overlay-dirty marks.
func (s *Store) ClearOverlayDirty() {
	clear(s.overlay.dirty)
}

// MsgShow appends a message, or replaces the last one when replaceLast
// is set. The expiry timer restarts.
func (s *Store) MsgShow(kind string, chunks []Chunk, replaceLast bool) {
	m := Message{Kind: kind, Chunks: chunks}
	if replaceLast && len(s.overlay.messages) > 0 {
		s.overlay.messages[len(s.overlay.messages)-1] = m
	} else {
		s.overlay.messages = append(s.overlay.messages, m)
	}
	s.overlay.lastShown = s.now()
	s.overlay.moved = false
	s.markOverlay()
}

// MsgClear removes every message.
func (s *Store) MsgClear() {
	if len(s.overlay.messages) == 0 {
		return
	}
	s.overlay.messages = nil
	s.markOverlay()
}

// Messages returns the pending messages, oldest first.
func (s *Store) Messages() []Message {
	return s.overlay.messages
}

// ExpireMessages clears the messages once timeout has passed since the
// last one was shown, provided the cursor moved in the meantime.
// It reports whether anything was cleared.
func (s *Store) ExpireMessages(timeout time.Duration) bool {
	o := &s.overlay
	if len(o.messages) == 0 || !o.moved {
		return false
	}
	if s.now().Sub(o.lastShown) < timeout {
		return false
	}
	o.messages = nil
	s.markOverlay()
	return true
}

// CmdlineShow shows or replaces the command line at c.Level.
func (s *Store) CmdlineShow(c Cmdline) {
	if c.Level < 1 {
		c.Level = 1
	}
	for len(s.overlay.cmdlines) < c.Level {
		s.overlay.cmdlines = append(s.overlay.cmdlines, nil)
	}
	s.overlay.cmdlines[c.Level-1] = &c
	s.markOverlay()
}

// CmdlinePos moves the command-line cursor at level.
func (s *Store) CmdlinePos(pos, level int) {
	if level < 1 || level > len(s.overlay.cmdlines) || s.overlay.cmdlines[level-1] == nil {
		return
	}
	s.overlay.cmdlines[level-1].Pos = pos
	s.markOverlay()
}

// CmdlineHide hides the command line at level.
func (s *Store) CmdlineHide(level int) {
	if level < 1 {
		level = 1
	}
	if level > len(s.overlay.cmdlines) {
		return
	}
	s.overlay.cmdlines[level-1] = nil
	for n := len(s.overlay.cmdlines); n > 0 && s.overlay.cmdlines[n-1] == nil; n-- {
		s.overlay.cmdlines = s.overlay.cmdlines[:n-1]
	}
	s.markOverlay()
}

// Cmdline returns the innermost visible command line.
func (s *Store) Cmdline() (Cmdline, bool) {
	for i := len(s.overlay.cmdlines) - 1; i >= 0; i-- {
		if c := s.overlay.cmdlines[i]; c != nil {
			return *c, true
		}
	}
	return Cmdline{}, false
}

// BusyStart suspends the cursor overlay.
func (s *Store) BusyStart() {
	s.setCursorState(CursorSuspended)
}

// BusyStop makes the cursor overlay visible again.
func (s *Store) BusyStop() {
	s.setCursorState(CursorVisible)
}

func (s *Store) setCursorState(state CursorState) {
	if s.overlay.cursor == state {
		return
	}
	s.overlay.cursor = state
	s.markOverlay()
}

// CursorState returns the cursor visibility phase.
func (s *Store) CursorState() CursorState {
	return s.overlay.cursor
}

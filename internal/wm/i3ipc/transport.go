package i3ipc

import (
	"bytes"
	"encoding/binary"
	"fmt"
	"io"
)

// MessageType is an i3 IPC message or reply type.
type MessageType uint32

// Message types used by this package.
const (
	RunCommand MessageType = 0
	GetTree    MessageType = 4
)

const magic = "i3-ipc"

const headerSize = len(magic) + 8

// maxPayload bounds a single reply so a corrupt length cannot exhaust
// memory.
const maxPayload = 64 << 20

// writeMessage frames payload and writes it in a single call.
func writeMessage(w io.Writer, typ MessageType, payload []byte) error {
	buf := make([]byte, headerSize+len(payload))
	copy(buf, magic)
	binary.NativeEndian.PutUint32(buf[len(magic):], uint32(len(payload)))
	binary.NativeEndian.PutUint32(buf[len(magic)+4:], uint32(typ))
	copy(buf[headerSize:], payload)

	if _, err := w.Write(buf); err != nil {
		return fmt.Errorf("write %d message: %w", typ, err)
	}
	return nil
}

// readMessage reads one framed message.
func readMessage(r io.Reader) (MessageType, []byte, error) {
	var header [headerSize]byte
	if _, err := io.ReadFull(r, header[:]); err != nil {
		return 0, nil, fmt.Errorf("read header: %w", err)
	}
	if !bytes.Equal(header[:len(magic)], []byte(magic)) {
		return 0, nil, ErrBadMagic
	}
	n := binary.NativeEndian.Uint32(header[len(magic):])
	typ := MessageType(binary.NativeEndian.Uint32(header[len(magic)+4:]))
	if n > maxPayload {
		return 0, nil, fmt.Errorf("read payload: length %d exceeds limit", n)
	}

	payload := make([]byte, n)
	if _, err := io.ReadFull(r, payload); err != nil {
		return 0, nil, fmt.Errorf("read payload: %w", err)
	}
	return typ, payload, nil
}

// Package i3ipc is a minimal client for the i3 IPC protocol, also spoken
// by sway. It implements only what layout reconciliation needs: reading
// the container tree and running commands.
//
// Messages are framed as the magic string "i3-ipc", a payload length and
// a message type (both uint32 in native byte order), then the payload.
// Replies use the same framing. The tree reply is kept as raw JSON and
// queried with gjson paths, so nodes are never fully unmarshalled.
package i3ipc

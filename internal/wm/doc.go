// Package wm keeps the tiling window manager's layout in step with the
// editor's window splits.
//
// Every grid window is titled GridTitle(id). The title is the only link
// between a grid and its container in the window manager's tree, so the
// tree is fetched again for every layout instruction and the container
// ids found are recorded in a side table. Renaming a grid window from
// outside breaks the correlation, and the next instruction for it fails
// with ErrNoMatch.
package wm

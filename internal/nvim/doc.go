// Package nvim connects to an embedded editor process over msgpack-rpc.
//
// The editor runs as a child process started with --embed. Redraw
// notifications arrive on the rpc goroutine and are handed to the frame
// loop through a buffered channel; the loop receives from it without
// blocking. Everything sent back to the editor (attach, grid resizes,
// input, window close and focus, quit) goes through Client methods.
package nvim

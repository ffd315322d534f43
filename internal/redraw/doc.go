// Package redraw decodes the editor's "redraw" notifications.
//
// A notification carries a list of updates. Each update is an array whose
// first element is an event name and whose remaining elements are argument
// tuples, one per occurrence of that event:
//
//	["grid_line", [1, 0, 0, [["a", 3], ["b"]]], [1, 1, 0, [[" ", 0, 80]]]]
//
// Batcher buffers updates until a "flush" arrives so that a partially
// transmitted screen update is never applied. Decode turns one argument
// tuple into a typed Event.
package redraw

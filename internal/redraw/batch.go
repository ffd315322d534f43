package redraw

// Batcher queues raw updates and releases them one atomic screen update
// at a time. It is used from a single goroutine.
type Batcher struct {
	pending [][]any
}

// Push appends the updates of one redraw notification.
func (b *Batcher) Push(updates [][]any) {
	b.pending = append(b.pending, updates...)
}

// Ready returns every update up to and including the most recent flush
// and removes them from the queue. Updates after the last flush stay
// buffered. It returns nil when no flush is queued.
func (b *Batcher) Ready() [][]any {
	last := -1
	for i, u := range b.pending {
		if isFlush(u) {
			last = i
		}
	}
	if last < 0 {
		return nil
	}
	ready := b.pending[:last+1:last+1]
	rest := b.pending[last+1:]
	b.pending = append([][]any(nil), rest...)
	return ready
}

// Pending returns the number of buffered updates.
func (b *Batcher) Pending() int {
	return len(b.pending)
}

func isFlush(update []any) bool {
	if len(update) == 0 {
		return false
	}
	name, _ := AsString(update[0])
	return name == "flush"
}

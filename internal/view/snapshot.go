package view

// CardState is what one rendered conversation card shows.
type CardState struct {
	ID        string
	Title     string
	Timestamp string
}

// BubbleState is what one rendered message bubble shows.
type BubbleState struct {
	Role string
	Text string
}

// Snapshot is a read-only capture of a view after one reconciliation pass.
type Snapshot[T any] struct {
	generation uint64
	items      []T
}

func newSnapshot[T any](generation uint64, items []T) Snapshot[T] {
	return Snapshot[T]{generation: generation, items: append([]T(nil), items...)}
}

func (s Snapshot[T]) Generation() uint64 { return s.generation }

// Items returns a copy of the captured items in render order.
func (s Snapshot[T]) Items() []T {
	return append([]T(nil), s.items...)
}

func (s Snapshot[T]) Len() int { return len(s.items) }

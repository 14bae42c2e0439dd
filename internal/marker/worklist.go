package marker

import (
	"fmt"

	"linkmark/internal/markset"
	"linkmark/internal/metadata"
)

// Order selects how the worklist is drained. The final mark set does not
// depend on it; the order in which hooks fire does.
type Order int

const (
	FIFO Order = iota
	LIFO
)

func (o Order) String() string {
	switch o {
	case FIFO:
		return "fifo"
	case LIFO:
		return "lifo"
	default:
		return fmt.Sprintf("order-invalid(%d)", int(o))
	}
}

// ParseOrder parses "fifo" or "lifo".
func ParseOrder(s string) (Order, error) {
	switch s {
	case "", "fifo":
		return FIFO, nil
	case "lifo":
		return LIFO, nil
	default:
		return FIFO, fmt.Errorf("unknown worklist order %q", s)
	}
}

type item struct {
	node   metadata.Node
	reason markset.Reason
}

type worklist struct {
	order Order
	items []item
	head  int
}

func (w *worklist) push(it item) {
	w.items = append(w.items, it)
}

func (w *worklist) empty() bool {
	return w.head == len(w.items)
}

func (w *worklist) pop() item {
	if w.order == LIFO {
		last := len(w.items) - 1
		it := w.items[last]
		w.items = w.items[:last]
		return it
	}
	it := w.items[w.head]
	w.items[w.head] = item{}
	w.head++
	if w.head == len(w.items) {
		w.items = w.items[:0]
		w.head = 0
	}
	return it
}

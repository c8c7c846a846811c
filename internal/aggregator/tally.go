package aggregator

// Tally counts string keys and remembers the order in which each key was
// first added. Mode breaks ties in favor of the earliest key, so results do
// not depend on map iteration order.
type Tally struct {
	keys   []string
	counts map[string]int
}

// Add increments k by one.
func (t *Tally) Add(k string) {
	if t.counts == nil {
		t.counts = make(map[string]int)
	}
	if _, ok := t.counts[k]; !ok {
		t.keys = append(t.keys, k)
	}
	t.counts[k]++
}

// Count returns the tally for k.
func (t *Tally) Count(k string) int { return t.counts[k] }

// Keys returns keys in first-added order.
func (t *Tally) Keys() []string { return append([]string(nil), t.keys...) }

// Len returns the number of distinct keys.
func (t *Tally) Len() int { return len(t.keys) }

// Total returns the sum of all counts.
func (t *Tally) Total() int {
	n := 0
	for _, c := range t.counts {
		n += c
	}
	return n
}

// Mode returns the most frequent key. Empty tallies return ("", 0).
func (t *Tally) Mode() (string, int) {
	best, bestN := "", 0
	for _, k := range t.keys {
		if n := t.counts[k]; n > bestN {
			best, bestN = k, n
		}
	}
	return best, bestN
}

// window keeps the last size values pushed, oldest first.
type window[T int | float64] struct {
	size  int
	items []T
}

func newWindow[T int | float64](size int) window[T] {
	return window[T]{size: size}
}

func (w *window[T]) push(v T) {
	w.items = append(w.items, v)
	if len(w.items) > w.size {
		w.items = w.items[len(w.items)-w.size:]
	}
}

func (w *window[T]) values() []T { return append([]T(nil), w.items...) }

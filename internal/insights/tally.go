package insights

// tally is a counter that remembers the first-insertion order of its keys.
// Max reductions break ties toward the earliest-seen key, so results are
// deterministic for a given event order.
type tally struct {
	keys   []string
	counts map[string]int64
}

func (t *tally) Add(key string, n int64) {
	if t.counts == nil {
		t.counts = make(map[string]int64)
	}
	if _, seen := t.counts[key]; !seen {
		t.keys = append(t.keys, key)
	}
	t.counts[key] += n
}

func (t *tally) Get(key string) int64 {
	return t.counts[key]
}

// Keys returns the keys in first-seen order.
func (t *tally) Keys() []string {
	return t.keys
}

// Max returns the earliest-seen key holding the largest value. ok is false
// when the tally is empty.
func (t *tally) Max() (key string, value int64, ok bool) {
	if len(t.keys) == 0 {
		return "", 0, false
	}
	key = t.keys[0]
	for _, k := range t.keys[1:] {
		if t.counts[k] > t.counts[key] {
			key = k
		}
	}
	return key, t.counts[key], true
}

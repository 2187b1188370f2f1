package client

import "sync/atomic"

// sequence generates the monotonically increasing row identifiers handed
// out by Insert. The counter is owned exclusively by one Database handle
// and is never exposed raw; next is the only operation. Increments are
// atomic so concurrent inserts never observe a duplicate identifier.
type sequence struct {
	n atomic.Int64
}

// newSequence seeds the counter. The first call to next returns start+1:
// identifiers are pre-incremented on use.
func newSequence(start int64) *sequence {
	s := &sequence{}
	s.n.Store(start)
	return s
}

func (s *sequence) next() int64 {
	return s.n.Add(1)
}

package cart

import "sync/atomic"

// Sequencer hands out monotonically increasing change sequence numbers.
type Sequencer struct{ n atomic.Uint64 }

// Next returns the next sequence number.
func (s *Sequencer) Next() uint64 { return s.n.Add(1) }

// Current returns the last issued sequence number.
func (s *Sequencer) Current() uint64 { return s.n.Load() }

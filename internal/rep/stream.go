package rep

// Stream is a single-pass cursor over an ordered event sequence with
// one-event lookahead. Reconstruction and tracker-prefix scanning both need
// to classify the next event without consuming it.
type Stream struct {
	events []Event
	pos    int
}

// NewStream wraps an already-ordered event slice. The slice is not copied;
// callers must not mutate it afterward.
func NewStream(events []Event) *Stream {
	return &Stream{events: events}
}

// Peek returns the next event without consuming it.
// Returns false when the stream is exhausted.
func (s *Stream) Peek() (Event, bool) {
	if s.pos >= len(s.events) {
		return nil, false
	}
	return s.events[s.pos], true
}

// Next consumes and returns the next event.
// Returns false when the stream is exhausted.
func (s *Stream) Next() (Event, bool) {
	if s.pos >= len(s.events) {
		return nil, false
	}
	ev := s.events[s.pos]
	s.pos++
	return ev, true
}

// Len returns the number of events not yet consumed.
func (s *Stream) Len() int {
	return len(s.events) - s.pos
}

package realtime

import "github.com/google/uuid"

const DefaultQueueSize = 64

// Session is one connected viewer. Its room set and closed flag belong to the hub's run loop.
type Session struct {
	id     string
	send   chan []byte
	rooms  map[string]struct{}
	closed bool
}

func NewSession(queueSize int) *Session {
	if queueSize <= 0 {
		queueSize = DefaultQueueSize
	}
	return &Session{
		id:    uuid.NewString(),
		send:  make(chan []byte, queueSize),
		rooms: make(map[string]struct{}),
	}
}

func (s *Session) ID() string {
	return s.id
}

// Outbound yields encoded messages in delivery order. It is closed once the session is
// disconnected.
func (s *Session) Outbound() <-chan []byte {
	return s.send
}

package realtime

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"sync/atomic"
	"time"

	"github.com/cenkalti/backoff/v5"
)

var (
	ErrHubNotRunning = errors.New("hub is not running")
	ErrHubClosed     = errors.New("hub is closed")
)

const (
	hubIdle int32 = iota
	hubRunning
	hubClosed
)

// Broker carries encoded messages between hub instances.
// Every message published through it is handed back to deliver on every instance, the
// publishing one included. Listen calls ready once its subscription is live and blocks
// until the subscription ends.
type Broker interface {
	Publish(ctx context.Context, room string, data []byte) error
	Listen(ctx context.Context, ready func(), deliver func(room string, data []byte)) error
}

const (
	relayRetryInitial = 100 * time.Millisecond
	relayRetryMax     = 10 * time.Second
)

type HubOptions struct {
	// QueueSize is the outbound buffer of each session created through the hub.
	QueueSize int
	// Broker, when set, relays every publish through it instead of delivering locally.
	Broker Broker
}

type membership struct {
	session *Session
	room    string
}

type delivery struct {
	room string
	data []byte
}

// Hub keeps the room registry and fans messages out to joined sessions.
// Room membership is mutated only by Run.
type Hub struct {
	logger    *slog.Logger
	queueSize int
	broker    Broker

	join       chan membership
	leave      chan membership
	disconnect chan *Session
	broadcast  chan delivery

	rooms    map[string]map[string]*Session
	sessions map[string]*Session
	mu       sync.RWMutex

	state     atomic.Int32
	relayLive atomic.Bool
	done      chan struct{}
}

func NewHub(logger *slog.Logger, opts HubOptions) *Hub {
	if opts.QueueSize <= 0 {
		opts.QueueSize = DefaultQueueSize
	}
	return &Hub{
		logger:     logger,
		queueSize:  opts.QueueSize,
		broker:     opts.Broker,
		join:       make(chan membership),
		leave:      make(chan membership),
		disconnect: make(chan *Session),
		broadcast:  make(chan delivery),
		rooms:      make(map[string]map[string]*Session),
		sessions:   make(map[string]*Session),
		done:       make(chan struct{}),
	}
}

// NewSession creates a session sized for this hub and tracks it until it is disconnected,
// so shutdown closes it even if it never joined a room. A session created after shutdown
// comes back already closed.
func (h *Hub) NewSession() *Session {
	s := NewSession(h.queueSize)
	h.mu.Lock()
	defer h.mu.Unlock()
	if h.state.Load() == hubClosed {
		s.closed = true
		close(s.send)
		return s
	}
	h.sessions[s.id] = s
	return s
}

// Running reports whether Run is processing commands.
func (h *Hub) Running() bool {
	return h.state.Load() == hubRunning
}

// Run processes membership changes and broadcasts until ctx is cancelled. On return every
// session is disconnected. A hub runs at most once.
func (h *Hub) Run(ctx context.Context) error {
	if !h.state.CompareAndSwap(hubIdle, hubRunning) {
		return ErrHubClosed
	}
	defer func() {
		h.state.Store(hubClosed)
		close(h.done)
		h.closeAll()
		h.logger.Info("websocket hub stopped")
	}()

	if h.broker != nil {
		go h.listenRelay(ctx)
	}
	h.logger.Info("websocket hub started")

	for {
		select {
		case <-ctx.Done():
			return nil

		case m := <-h.join:
			h.addToRoom(m.session, m.room)

		case m := <-h.leave:
			h.removeFromRoom(m.session, m.room)

		case s := <-h.disconnect:
			h.drop(s)

		case d := <-h.broadcast:
			h.fanOut(d)
		}
	}
}

// RelayLive reports whether the broker subscription is delivering messages. While it is
// not, Publish delivers to local sessions directly.
func (h *Hub) RelayLive() bool {
	return h.relayLive.Load()
}

// listenRelay keeps the broker subscription alive until ctx is cancelled, re-subscribing
// with exponential backoff whenever it ends.
func (h *Hub) listenRelay(ctx context.Context) {
	b := backoff.NewExponentialBackOff()
	b.InitialInterval = relayRetryInitial
	b.MaxInterval = relayRetryMax

	deliver := h.deliverLocal(ctx)
	ready := func() {
		h.relayLive.Store(true)
		b.Reset()
		h.logger.Info("relay listener subscribed")
	}
	for {
		err := h.broker.Listen(ctx, ready, deliver)
		h.relayLive.Store(false)
		if ctx.Err() != nil {
			return
		}

		wait := b.NextBackOff()
		h.logger.Error("relay listener stopped, delivering locally until it recovers",
			slog.Duration("retry_in", wait),
			slog.Any("error", err))
		timer := time.NewTimer(wait)
		select {
		case <-ctx.Done():
			timer.Stop()
			return
		case <-timer.C:
		}
	}
}

func (h *Hub) addToRoom(s *Session, room string) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if s.closed {
		return
	}
	members, ok := h.rooms[room]
	if !ok {
		members = make(map[string]*Session)
		h.rooms[room] = members
	}
	members[s.id] = s
	h.sessions[s.id] = s
	s.rooms[room] = struct{}{}
	h.logger.Debug("session joined room", slog.String("session_id", s.id), slog.String("room", room), slog.Int("members", len(members)))
}

func (h *Hub) removeFromRoom(s *Session, room string) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.removeLocked(s, room)
}

func (h *Hub) removeLocked(s *Session, room string) {
	delete(s.rooms, room)
	members, ok := h.rooms[room]
	if !ok {
		return
	}
	delete(members, s.id)
	if len(members) == 0 {
		delete(h.rooms, room)
	}
}

func (h *Hub) drop(s *Session) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.dropLocked(s)
}

func (h *Hub) dropLocked(s *Session) {
	if s.closed {
		return
	}
	for room := range s.rooms {
		h.removeLocked(s, room)
	}
	delete(h.sessions, s.id)
	s.closed = true
	close(s.send)
	h.logger.Debug("session disconnected", slog.String("session_id", s.id))
}

func (h *Hub) fanOut(d delivery) {
	h.mu.Lock()
	defer h.mu.Unlock()
	for _, s := range h.rooms[d.room] {
		select {
		case s.send <- d.data:
		default:
			h.logger.Warn("session queue full, disconnecting", slog.String("session_id", s.id), slog.String("room", d.room))
			h.dropLocked(s)
		}
	}
}

func (h *Hub) closeAll() {
	h.mu.Lock()
	defer h.mu.Unlock()
	for _, s := range h.sessions {
		h.dropLocked(s)
	}
}

func (h *Hub) checkRunning() error {
	switch h.state.Load() {
	case hubIdle:
		return ErrHubNotRunning
	case hubClosed:
		return ErrHubClosed
	}
	return nil
}

func enqueue[T any](ctx context.Context, h *Hub, ch chan<- T, v T) error {
	if err := h.checkRunning(); err != nil {
		return err
	}
	select {
	case ch <- v:
		return nil
	case <-h.done:
		return ErrHubClosed
	case <-ctx.Done():
		return ctx.Err()
	}
}

// Join adds the session to the save game's room. Joining twice is a no-op.
func (h *Hub) Join(ctx context.Context, s *Session, saveGameID int) error {
	return enqueue(ctx, h, h.join, membership{session: s, room: SaveGameRoom(saveGameID)})
}

// Leave removes the session from the save game's room. Leaving a room the session is not in is a no-op.
func (h *Hub) Leave(ctx context.Context, s *Session, saveGameID int) error {
	return enqueue(ctx, h, h.leave, membership{session: s, room: SaveGameRoom(saveGameID)})
}

// Disconnect removes the session from every room and closes its outbound queue.
func (h *Hub) Disconnect(ctx context.Context, s *Session) error {
	return enqueue(ctx, h, h.disconnect, s)
}

// Publish sends msg to every session currently joined to room, in publish order. With a
// broker the message goes through the relay while its subscription is live and straight to
// local sessions otherwise.
func (h *Hub) Publish(ctx context.Context, room string, msg Message) error {
	if err := h.checkRunning(); err != nil {
		return err
	}
	msg.RoomID = room
	data, err := json.Marshal(msg)
	if err != nil {
		return fmt.Errorf("encode %s message for room %s: %w", msg.Type, room, err)
	}
	if h.broker != nil && h.relayLive.Load() {
		return h.broker.Publish(ctx, room, data)
	}
	return enqueue(ctx, h, h.broadcast, delivery{room: room, data: data})
}

func (h *Hub) deliverLocal(ctx context.Context) func(room string, data []byte) {
	return func(room string, data []byte) {
		if err := enqueue(ctx, h, h.broadcast, delivery{room: room, data: data}); err != nil {
			h.logger.Debug("dropped relayed message", slog.String("room", room), slog.Any("error", err))
		}
	}
}

// RoomSize returns the number of sessions joined to room.
func (h *Hub) RoomSize(room string) int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.rooms[room])
}

// SessionRooms returns the rooms the session is joined to.
func (h *Hub) SessionRooms(s *Session) []string {
	h.mu.RLock()
	defer h.mu.RUnlock()
	rooms := make([]string, 0, len(s.rooms))
	for room := range s.rooms {
		rooms = append(rooms, room)
	}
	return rooms
}

package session

import (
	"errors"
	"sync"

	"github.com/NooraWael/maze-wars/internal/proto"
)

// ErrNotJoined is returned by Guard for any message other than JoinGame while
// the session has not joined yet. The send is aborted; nothing goes on the wire.
var ErrNotJoined = errors.New("session: not joined; send JoinGame first")

// State is the per-client join flag. It starts not-joined, flips to joined
// exactly once, and never flips back.
//
// The transition is optimistic: MarkJoined fires once a JoinGame datagram has
// been handed to the transport, not when the server confirms it. The wire
// protocol has no join acknowledgment, so a dropped JoinGame leaves the client
// believing it is joined while the server never heard of it. Known limitation,
// kept as-is to match the protocol.
type State struct {
	mu     sync.RWMutex
	joined bool
}

func New() *State { return &State{} }

// Guard decides whether msg may be transmitted right now. JoinGame is always
// allowed; everything else requires a joined session.
func (s *State) Guard(msg proto.ClientMessage) error {
	if msg == nil {
		return errors.New("session: nil message")
	}
	if _, ok := msg.(proto.JoinGame); ok {
		return nil
	}
	s.mu.RLock()
	defer s.mu.RUnlock()
	if !s.joined {
		return ErrNotJoined
	}
	return nil
}

// MarkJoined records a locally successful JoinGame transmission. Idempotent.
func (s *State) MarkJoined() {
	s.mu.Lock()
	s.joined = true
	s.mu.Unlock()
}

func (s *State) Joined() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.joined
}

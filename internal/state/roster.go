package state

import (
	"sort"
	"sync"
	"time"

	"github.com/NooraWael/maze-wars/internal/proto"
)

// RemotePlayer is the last known state of one other player, assembled from
// whatever server traffic happened to arrive. Datagrams drop and reorder, so
// every field is best-effort.
type RemotePlayer struct {
	ID       uint32
	Position proto.Position
	Health   float64
	Alive    bool
	LastSeen time.Time
}

// Roster tracks the remote players observed in server traffic plus the most
// recent lobby listing. It is fed by the receive path and read by the status
// endpoint, so everything is mutex-guarded.
type Roster struct {
	mu      sync.RWMutex
	players map[uint32]RemotePlayer
	lobby   []string
}

func NewRoster() *Roster {
	return &Roster{players: map[uint32]RemotePlayer{}}
}

// Apply folds one decoded server message into the roster. Messages that carry
// no player state (GameStart, Unknown) are ignored.
func (r *Roster) Apply(now time.Time, msg proto.ServerMessage) {
	if now.IsZero() {
		now = time.Now().UTC()
	}
	r.mu.Lock()
	defer r.mu.Unlock()

	switch m := msg.(type) {
	case proto.PlayersInLobby:
		r.lobby = append([]string(nil), m.Players...)
	case proto.PlayerMove:
		p := r.touch(m.PlayerID, now)
		p.Position = m.Position
		p.Alive = true
		r.players[m.PlayerID] = p
	case proto.PlayerShoot:
		p := r.touch(m.PlayerID, now)
		p.Position = m.Position
		p.Alive = true
		r.players[m.PlayerID] = p
	case proto.PlayerSpawn:
		p := r.touch(m.PlayerID, now)
		p.Position = m.Position
		p.Alive = true
		p.Health = 100
		r.players[m.PlayerID] = p
	case proto.PlayerDeath:
		p := r.touch(m.PlayerID, now)
		p.Alive = false
		p.Health = 0
		r.players[m.PlayerID] = p
	case proto.HealthUpdate:
		p := r.touch(m.PlayerID, now)
		p.Health = m.Health
		r.players[m.PlayerID] = p
	}
}

// touch must be called with the lock held.
func (r *Roster) touch(id uint32, now time.Time) RemotePlayer {
	p, ok := r.players[id]
	if !ok {
		p = RemotePlayer{ID: id}
	}
	p.LastSeen = now
	return p
}

// Count reports players currently believed alive.
func (r *Roster) Count() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	n := 0
	for _, p := range r.players {
		if p.Alive {
			n++
		}
	}
	return n
}

// Lobby returns the most recent lobby listing in server order.
func (r *Roster) Lobby() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return append([]string(nil), r.lobby...)
}

// Snapshot returns all tracked players sorted by id.
func (r *Roster) Snapshot() []RemotePlayer {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]RemotePlayer, 0, len(r.players))
	for _, p := range r.players {
		out = append(out, p)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}

// SweepStale drops players with no traffic for maxAge. The server does not
// announce disconnects, so this is the only way dead entries leave the map.
// Returns the ids removed in this sweep.
func (r *Roster) SweepStale(now time.Time, maxAge time.Duration) []uint32 {
	if maxAge <= 0 {
		return nil
	}
	if now.IsZero() {
		now = time.Now().UTC()
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	var removed []uint32
	for id, p := range r.players {
		if p.LastSeen.IsZero() || now.Sub(p.LastSeen) >= maxAge {
			delete(r.players, id)
			removed = append(removed, id)
		}
	}
	return removed
}

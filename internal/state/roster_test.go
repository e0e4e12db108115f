package state

import (
	"testing"
	"time"

	"github.com/NooraWael/maze-wars/internal/proto"
)

func TestRoster_ApplyLifecycle(t *testing.T) {
	r := NewRoster()
	now := time.Unix(1700000000, 0).UTC()

	r.Apply(now, proto.PlayerSpawn{PlayerID: 7, Position: proto.Position{X: 1, Y: 2, Z: 3}})
	if got := r.Count(); got != 1 {
		t.Fatalf("after spawn Count=%d", got)
	}

	r.Apply(now, proto.PlayerMove{PlayerID: 7, Position: proto.Position{X: 4, Y: 5, Z: 6}})
	r.Apply(now, proto.HealthUpdate{PlayerID: 7, Health: 40})

	snap := r.Snapshot()
	if len(snap) != 1 {
		t.Fatalf("snapshot=%v", snap)
	}
	p := snap[0]
	if p.Position != (proto.Position{X: 4, Y: 5, Z: 6}) {
		t.Fatalf("position=%+v", p.Position)
	}
	if p.Health != 40 || !p.Alive {
		t.Fatalf("health=%v alive=%v", p.Health, p.Alive)
	}

	killer := uint32(2)
	r.Apply(now, proto.PlayerDeath{PlayerID: 7, KillerID: &killer})
	if got := r.Count(); got != 0 {
		t.Fatalf("after death Count=%d", got)
	}
	if snap = r.Snapshot(); snap[0].Alive {
		t.Fatal("dead player still alive")
	}
}

func TestRoster_LobbyReplacedNotMerged(t *testing.T) {
	r := NewRoster()
	r.Apply(time.Time{}, proto.PlayersInLobby{PlayerCount: 2, Players: []string{"ada", "bob"}})
	r.Apply(time.Time{}, proto.PlayersInLobby{PlayerCount: 1, Players: []string{"cyd"}})
	lobby := r.Lobby()
	if len(lobby) != 1 || lobby[0] != "cyd" {
		t.Fatalf("lobby=%v", lobby)
	}
}

func TestRoster_IgnoresNonPlayerMessages(t *testing.T) {
	r := NewRoster()
	r.Apply(time.Time{}, proto.GameStart{})
	r.Apply(time.Time{}, proto.Unknown{RawTag: "Teleport"})
	if got := len(r.Snapshot()); got != 0 {
		t.Fatalf("snapshot len=%d", got)
	}
}

func TestRoster_SweepStale(t *testing.T) {
	r := NewRoster()
	base := time.Unix(1700000000, 0).UTC()
	r.Apply(base, proto.PlayerSpawn{PlayerID: 1, Position: proto.Position{}})
	r.Apply(base.Add(4*time.Minute), proto.PlayerMove{PlayerID: 2, Position: proto.Position{}})

	removed := r.SweepStale(base.Add(5*time.Minute), 5*time.Minute)
	if len(removed) != 1 || removed[0] != 1 {
		t.Fatalf("removed=%v", removed)
	}
	if got := len(r.Snapshot()); got != 1 {
		t.Fatalf("remaining=%d", got)
	}

	if got := r.SweepStale(base, 0); got != nil {
		t.Fatalf("maxAge=0 removed=%v", got)
	}
}

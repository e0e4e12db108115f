// Package dispatch turns decoded server messages into presentation-ready
// events for whatever front end is consuming the client. It holds no state
// and cannot fail.
package dispatch

import (
	"fmt"
	"strings"

	"github.com/NooraWael/maze-wars/internal/proto"
)

// Event is the consumer-facing form of one inbound datagram: either a decoded
// server message or a decode failure, never both.
type Event struct {
	// Kind is the variant name, or "DecodeError" for bad inbound data.
	Kind string
	// Summary is one human-readable line.
	Summary string

	Message proto.ServerMessage // nil when Err is set
	Err     error               // nil when Message is set
}

func (e Event) String() string { return e.Summary }

// Describe maps one server message to its event.
func Describe(msg proto.ServerMessage) Event {
	switch m := msg.(type) {
	case proto.GameStart:
		return event(m, "game started")
	case proto.PlayersInLobby:
		return event(m, fmt.Sprintf("%d player(s) in lobby: %s",
			m.PlayerCount, strings.Join(m.Players, ", ")))
	case proto.PlayerMove:
		return event(m, fmt.Sprintf("player %d moved to (%.2f, %.2f, %.2f)",
			m.PlayerID, m.Position.X, m.Position.Y, m.Position.Z))
	case proto.PlayerShoot:
		return event(m, fmt.Sprintf("player %d fired %s", m.PlayerID, m.WeaponType))
	case proto.PlayerDeath:
		if m.KillerID != nil {
			return event(m, fmt.Sprintf("player %d was killed by player %d", m.PlayerID, *m.KillerID))
		}
		return event(m, fmt.Sprintf("player %d died", m.PlayerID))
	case proto.PlayerSpawn:
		return event(m, fmt.Sprintf("player %d spawned at (%.2f, %.2f, %.2f)",
			m.PlayerID, m.Position.X, m.Position.Y, m.Position.Z))
	case proto.HealthUpdate:
		return event(m, fmt.Sprintf("player %d health is now %.0f", m.PlayerID, m.Health))
	case proto.Unknown:
		return Event{
			Kind:    "Unknown",
			Summary: fmt.Sprintf("server sent unrecognized message %q", m.RawTag),
			Message: m,
		}
	default:
		// New variants added to the union show up here until given a summary.
		return Event{
			Kind:    msg.Tag(),
			Summary: fmt.Sprintf("server message %s", msg.Tag()),
			Message: msg,
		}
	}
}

// DecodeFailure wraps a codec error as an event so the consumer sees bad
// inbound data in the same stream as good messages.
func DecodeFailure(err error) Event {
	return Event{
		Kind:    "DecodeError",
		Summary: fmt.Sprintf("undecodable datagram: %v", err),
		Err:     err,
	}
}

func event(m proto.ServerMessage, summary string) Event {
	return Event{Kind: m.Tag(), Summary: summary, Message: m}
}

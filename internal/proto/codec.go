package proto

import (
	"encoding/json"
	"errors"
	"fmt"
)

// envelope is the wire shape: one JSON object per datagram, with the variant
// name in "type" and the variant payload in "data".
type envelope struct {
	Type string          `json:"type"`
	Data json.RawMessage `json:"data,omitempty"`
}

// Encode serializes one client message into its datagram payload. It fails
// only for a nil message; every well-formed variant encodes cleanly.
func Encode(msg ClientMessage) ([]byte, error) {
	if msg == nil {
		return nil, errors.New("proto: encode nil message")
	}
	data, err := json.Marshal(msg)
	if err != nil {
		return nil, fmt.Errorf("proto: encode %s payload: %w", msg.Tag(), err)
	}
	return json.Marshal(envelope{Type: msg.Tag(), Data: data})
}

// Decode parses one inbound datagram into a server message.
//
// An unrecognized "type" tag is not an error: it decodes to Unknown so the
// receive path can report it and continue. Errors are always *DecodeError,
// either Malformed (not valid JSON, or no tag) or MissingField (a known
// variant with a required payload field absent).
func Decode(b []byte) (ServerMessage, error) {
	var env envelope
	if err := json.Unmarshal(b, &env); err != nil {
		return nil, &DecodeError{Kind: KindMalformed, cause: err}
	}
	if env.Type == "" {
		return nil, &DecodeError{Kind: KindMalformed, cause: errors.New("missing type tag")}
	}

	switch env.Type {
	case "GameStart":
		return GameStart{}, nil

	case "PlayersInLobby":
		var w struct {
			PlayerCount *uint32  `json:"player_count"`
			Players     []string `json:"players"`
		}
		if err := unmarshalPayload(env.Type, env.Data, &w); err != nil {
			return nil, err
		}
		if w.PlayerCount == nil {
			return nil, missingField(env.Type, "player_count")
		}
		players := w.Players
		if players == nil {
			players = []string{}
		}
		return PlayersInLobby{PlayerCount: *w.PlayerCount, Players: players}, nil

	case "PlayerMove":
		var w struct {
			PlayerID     *uint32      `json:"player_id"`
			Position     *Position    `json:"position"`
			Orientation  *Orientation `json:"orientation"`
			YieldControl bool         `json:"yield_control"`
		}
		if err := unmarshalPayload(env.Type, env.Data, &w); err != nil {
			return nil, err
		}
		if w.PlayerID == nil {
			return nil, missingField(env.Type, "player_id")
		}
		if w.Position == nil {
			return nil, missingField(env.Type, "position")
		}
		if w.Orientation == nil {
			return nil, missingField(env.Type, "orientation")
		}
		return PlayerMove{
			PlayerID:     *w.PlayerID,
			Position:     *w.Position,
			Orientation:  *w.Orientation,
			YieldControl: w.YieldControl,
		}, nil

	case "PlayerShoot":
		var w struct {
			PlayerID   *uint32      `json:"player_id"`
			Position   *Position    `json:"position"`
			Direction  *Orientation `json:"direction"`
			WeaponType *string      `json:"weapon_type"`
		}
		if err := unmarshalPayload(env.Type, env.Data, &w); err != nil {
			return nil, err
		}
		if w.PlayerID == nil {
			return nil, missingField(env.Type, "player_id")
		}
		if w.Position == nil {
			return nil, missingField(env.Type, "position")
		}
		if w.Direction == nil {
			return nil, missingField(env.Type, "direction")
		}
		if w.WeaponType == nil {
			return nil, missingField(env.Type, "weapon_type")
		}
		return PlayerShoot{
			PlayerID:   *w.PlayerID,
			Position:   *w.Position,
			Direction:  *w.Direction,
			WeaponType: *w.WeaponType,
		}, nil

	case "PlayerDeath":
		var w struct {
			PlayerID *uint32 `json:"player_id"`
			KillerID *uint32 `json:"killer_id"`
		}
		if err := unmarshalPayload(env.Type, env.Data, &w); err != nil {
			return nil, err
		}
		if w.PlayerID == nil {
			return nil, missingField(env.Type, "player_id")
		}
		// killer_id is genuinely optional (environmental deaths have none).
		return PlayerDeath{PlayerID: *w.PlayerID, KillerID: w.KillerID}, nil

	case "PlayerSpawn":
		var w struct {
			PlayerID *uint32   `json:"player_id"`
			Position *Position `json:"position"`
		}
		if err := unmarshalPayload(env.Type, env.Data, &w); err != nil {
			return nil, err
		}
		if w.PlayerID == nil {
			return nil, missingField(env.Type, "player_id")
		}
		if w.Position == nil {
			return nil, missingField(env.Type, "position")
		}
		return PlayerSpawn{PlayerID: *w.PlayerID, Position: *w.Position}, nil

	case "HealthUpdate":
		var w struct {
			PlayerID *uint32  `json:"player_id"`
			Health   *float64 `json:"health"`
		}
		if err := unmarshalPayload(env.Type, env.Data, &w); err != nil {
			return nil, err
		}
		if w.PlayerID == nil {
			return nil, missingField(env.Type, "player_id")
		}
		if w.Health == nil {
			return nil, missingField(env.Type, "health")
		}
		return HealthUpdate{PlayerID: *w.PlayerID, Health: *w.Health}, nil

	default:
		return Unknown{RawTag: env.Type}, nil
	}
}

func unmarshalPayload(tag string, data json.RawMessage, v any) error {
	if len(data) == 0 {
		// Absent payload object: leave v zeroed, the caller reports which
		// required field is missing.
		return nil
	}
	if err := json.Unmarshal(data, v); err != nil {
		return &DecodeError{Kind: KindMalformed, MsgTag: tag, cause: err}
	}
	return nil
}

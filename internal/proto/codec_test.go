package proto

import (
	"encoding/json"
	"errors"
	"strings"
	"testing"
)

func TestEncode_JoinGameEnvelope(t *testing.T) {
	b, err := Encode(JoinGame{Username: "Ada"})
	if err != nil {
		t.Fatalf("Encode: %v", err)
	}
	var env struct {
		Type string         `json:"type"`
		Data map[string]any `json:"data"`
	}
	if err := json.Unmarshal(b, &env); err != nil {
		t.Fatalf("unmarshal envelope: %v", err)
	}
	if env.Type != "JoinGame" {
		t.Fatalf("type=%q", env.Type)
	}
	if env.Data["username"] != "Ada" {
		t.Fatalf("username=%v", env.Data["username"])
	}
	if len(env.Data) != 1 {
		t.Fatalf("unexpected extra payload fields: %v", env.Data)
	}
}

func TestEncode_OmitsUnrelatedVariantFields(t *testing.T) {
	b, err := Encode(Move{
		Position:     Position{X: 1, Y: 2, Z: 3},
		Orientation:  Orientation{Yaw: 90},
		YieldControl: true,
	})
	if err != nil {
		t.Fatalf("Encode: %v", err)
	}
	s := string(b)
	for _, forbidden := range []string{"username", "weapon_type", "direction", "null"} {
		if strings.Contains(s, forbidden) {
			t.Fatalf("Move payload leaked %q: %s", forbidden, s)
		}
	}
	if !strings.Contains(s, `"yield_control":true`) {
		t.Fatalf("payload=%s", s)
	}
}

func TestDecode_PlayerSpawn(t *testing.T) {
	in := []byte(`{"type":"PlayerSpawn","data":{"player_id":7,"position":{"x":1,"y":2,"z":3}}}`)
	msg, err := Decode(in)
	if err != nil {
		t.Fatalf("Decode: %v", err)
	}
	spawn, ok := msg.(PlayerSpawn)
	if !ok {
		t.Fatalf("msg=%T", msg)
	}
	if spawn.PlayerID != 7 {
		t.Fatalf("player_id=%d", spawn.PlayerID)
	}
	if spawn.Position != (Position{X: 1, Y: 2, Z: 3}) {
		t.Fatalf("position=%+v", spawn.Position)
	}
}

func TestDecode_UnknownTagIsNotAnError(t *testing.T) {
	msg, err := Decode([]byte(`{"type":"Teleport","data":{"player_id":4}}`))
	if err != nil {
		t.Fatalf("Decode: %v", err)
	}
	u, ok := msg.(Unknown)
	if !ok {
		t.Fatalf("msg=%T", msg)
	}
	if u.RawTag != "Teleport" || u.Tag() != "Teleport" {
		t.Fatalf("tag=%q", u.RawTag)
	}
}

func TestDecode_Malformed(t *testing.T) {
	for _, in := range []string{
		`{"type":"PlayerSpawn","data":`,
		`not json at all`,
		``,
		`{"data":{"player_id":7}}`, // no tag
	} {
		_, err := Decode([]byte(in))
		var de *DecodeError
		if !errors.As(err, &de) {
			t.Fatalf("in=%q err=%v", in, err)
		}
		if de.Kind != KindMalformed {
			t.Fatalf("in=%q kind=%d", in, de.Kind)
		}
	}
}

func TestDecode_MissingField(t *testing.T) {
	cases := []struct {
		in    string
		field string
	}{
		{`{"type":"PlayerMove","data":{"player_id":1,"orientation":{"pitch":0,"yaw":0,"roll":0}}}`, "position"},
		{`{"type":"PlayerSpawn","data":{"position":{"x":0,"y":0,"z":0}}}`, "player_id"},
		{`{"type":"HealthUpdate","data":{"player_id":3}}`, "health"},
		{`{"type":"PlayerShoot","data":{"player_id":3,"position":{"x":0,"y":0,"z":0},"direction":{"pitch":0,"yaw":0,"roll":0}}}`, "weapon_type"},
		{`{"type":"PlayersInLobby"}`, "player_count"},
	}
	for _, tc := range cases {
		_, err := Decode([]byte(tc.in))
		var de *DecodeError
		if !errors.As(err, &de) {
			t.Fatalf("in=%q err=%v", tc.in, err)
		}
		if de.Kind != KindMissingField || de.Field != tc.field {
			t.Fatalf("in=%q kind=%d field=%q", tc.in, de.Kind, de.Field)
		}
	}
}

func TestDecode_PlayerDeathOptionalKiller(t *testing.T) {
	msg, err := Decode([]byte(`{"type":"PlayerDeath","data":{"player_id":2,"killer_id":9}}`))
	if err != nil {
		t.Fatalf("Decode: %v", err)
	}
	death := msg.(PlayerDeath)
	if death.KillerID == nil || *death.KillerID != 9 {
		t.Fatalf("killer_id=%v", death.KillerID)
	}

	msg, err = Decode([]byte(`{"type":"PlayerDeath","data":{"player_id":2}}`))
	if err != nil {
		t.Fatalf("Decode: %v", err)
	}
	death = msg.(PlayerDeath)
	if death.KillerID != nil {
		t.Fatalf("killer_id=%v, want nil", *death.KillerID)
	}
}

func TestDecode_GameStartWithoutPayload(t *testing.T) {
	msg, err := Decode([]byte(`{"type":"GameStart"}`))
	if err != nil {
		t.Fatalf("Decode: %v", err)
	}
	if _, ok := msg.(GameStart); !ok {
		t.Fatalf("msg=%T", msg)
	}
}

func TestDecode_PlayersInLobbyOrderPreserved(t *testing.T) {
	msg, err := Decode([]byte(`{"type":"PlayersInLobby","data":{"player_count":3,"players":["ada","bob","cyd"]}}`))
	if err != nil {
		t.Fatalf("Decode: %v", err)
	}
	lobby := msg.(PlayersInLobby)
	if lobby.PlayerCount != 3 {
		t.Fatalf("player_count=%d", lobby.PlayerCount)
	}
	want := []string{"ada", "bob", "cyd"}
	for i, name := range want {
		if lobby.Players[i] != name {
			t.Fatalf("players=%v", lobby.Players)
		}
	}
}

// The server echoes client Move/Shoot payloads back out as PlayerMove and
// PlayerShoot with a player_id attached. Re-tagging an encoded client message
// the same way must round-trip every shared field untouched.
func TestRoundTrip_MoveEchoedAsPlayerMove(t *testing.T) {
	orig := Move{
		Position:     Position{X: 1.5, Y: -2.25, Z: 3},
		Orientation:  Orientation{Pitch: 10, Yaw: 90.5, Roll: -180},
		YieldControl: true,
	}
	msg, err := Decode(echoAsServer(t, orig, "PlayerMove", 12))
	if err != nil {
		t.Fatalf("Decode: %v", err)
	}
	mv := msg.(PlayerMove)
	if mv.PlayerID != 12 {
		t.Fatalf("player_id=%d", mv.PlayerID)
	}
	if mv.Position != orig.Position || mv.Orientation != orig.Orientation || mv.YieldControl != orig.YieldControl {
		t.Fatalf("round-trip mismatch: %+v vs %+v", mv, orig)
	}
}

func TestRoundTrip_ShootEchoedAsPlayerShoot(t *testing.T) {
	orig := Shoot{
		Direction:  Orientation{Pitch: -5, Yaw: 45, Roll: 0},
		WeaponType: "pistol",
	}
	raw := echoAsServer(t, orig, "PlayerShoot", 4)
	// PlayerShoot additionally carries the shooter position.
	raw = injectPayloadField(t, raw, "position", Position{X: 7})
	msg, err := Decode(raw)
	if err != nil {
		t.Fatalf("Decode: %v", err)
	}
	sh := msg.(PlayerShoot)
	if sh.Direction != orig.Direction || sh.WeaponType != orig.WeaponType {
		t.Fatalf("round-trip mismatch: %+v vs %+v", sh, orig)
	}
}

// echoAsServer encodes a client message, then rewrites the envelope the way
// the server would rebroadcast it: new tag, player_id added to the payload.
func echoAsServer(t *testing.T, msg ClientMessage, serverTag string, playerID uint32) []byte {
	t.Helper()
	b, err := Encode(msg)
	if err != nil {
		t.Fatalf("Encode: %v", err)
	}
	var env struct {
		Type string         `json:"type"`
		Data map[string]any `json:"data"`
	}
	if err := json.Unmarshal(b, &env); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	env.Type = serverTag
	env.Data["player_id"] = playerID
	out, err := json.Marshal(env)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	return out
}

func injectPayloadField(t *testing.T, raw []byte, key string, val any) []byte {
	t.Helper()
	var env struct {
		Type string         `json:"type"`
		Data map[string]any `json:"data"`
	}
	if err := json.Unmarshal(raw, &env); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	env.Data[key] = val
	out, err := json.Marshal(env)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	return out
}

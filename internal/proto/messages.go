package proto

// Position is a point in world coordinates. Values are copied into messages;
// nothing in the protocol mutates a Position in place.
type Position struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
	Z float64 `json:"z"`
}

// Orientation is a set of Euler angles. Whether the values are degrees or
// radians is a contract between client and server; the codec carries them
// through untouched.
type Orientation struct {
	Pitch float64 `json:"pitch"`
	Yaw   float64 `json:"yaw"`
	Roll  float64 `json:"roll"`
}

// ClientMessage is one message the client can put on the wire. Exactly one
// concrete variant is active per value; fields of other variants do not exist
// on it, so they can never leak into the encoded payload.
type ClientMessage interface {
	Tag() string
	clientMessage()
}

type JoinGame struct {
	Username string `json:"username"`
}

type Move struct {
	Position     Position    `json:"position"`
	Orientation  Orientation `json:"orientation"`
	YieldControl bool        `json:"yield_control"`
}

type Shoot struct {
	Direction  Orientation `json:"direction"`
	WeaponType string      `json:"weapon_type"`
}

func (JoinGame) Tag() string { return "JoinGame" }
func (Move) Tag() string     { return "Move" }
func (Shoot) Tag() string    { return "Shoot" }

func (JoinGame) clientMessage() {}
func (Move) clientMessage()     {}
func (Shoot) clientMessage()    {}

// ServerMessage is one decoded message pushed by the server.
//
// Unknown is a deliberate member of the union: a datagram whose tag we do not
// recognize is still a valid datagram, and the receive path must keep moving.
type ServerMessage interface {
	Tag() string
	serverMessage()
}

type GameStart struct{}

type PlayersInLobby struct {
	PlayerCount uint32   `json:"player_count"`
	Players     []string `json:"players"`
}

type PlayerMove struct {
	PlayerID     uint32      `json:"player_id"`
	Position     Position    `json:"position"`
	Orientation  Orientation `json:"orientation"`
	YieldControl bool        `json:"yield_control"`
}

type PlayerShoot struct {
	PlayerID   uint32      `json:"player_id"`
	Position   Position    `json:"position"`
	Direction  Orientation `json:"direction"`
	WeaponType string      `json:"weapon_type"`
}

type PlayerDeath struct {
	PlayerID uint32  `json:"player_id"`
	KillerID *uint32 `json:"killer_id,omitempty"`
}

type PlayerSpawn struct {
	PlayerID uint32   `json:"player_id"`
	Position Position `json:"position"`
}

type HealthUpdate struct {
	PlayerID uint32  `json:"player_id"`
	Health   float64 `json:"health"`
}

// Unknown carries the unrecognized tag so the consumer can log it.
type Unknown struct {
	RawTag string
}

func (GameStart) Tag() string      { return "GameStart" }
func (PlayersInLobby) Tag() string { return "PlayersInLobby" }
func (PlayerMove) Tag() string     { return "PlayerMove" }
func (PlayerShoot) Tag() string    { return "PlayerShoot" }
func (PlayerDeath) Tag() string    { return "PlayerDeath" }
func (PlayerSpawn) Tag() string    { return "PlayerSpawn" }
func (HealthUpdate) Tag() string   { return "HealthUpdate" }
func (u Unknown) Tag() string      { return u.RawTag }

func (GameStart) serverMessage()      {}
func (PlayersInLobby) serverMessage() {}
func (PlayerMove) serverMessage()     {}
func (PlayerShoot) serverMessage()    {}
func (PlayerDeath) serverMessage()    {}
func (PlayerSpawn) serverMessage()    {}
func (HealthUpdate) serverMessage()   {}
func (Unknown) serverMessage()        {}

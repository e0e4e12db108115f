package status

// Data is the template model for the status page.
// Keep it plain text: it is meant for curl and humans, not machines.
type Data struct {
	RunID    string
	Server   string
	Username string
	Joined   bool

	PlayersOnline int
	Lobby         string // comma-joined lobby names, may be empty

	Sent     uint64
	Received uint64

	ServerTime string
}

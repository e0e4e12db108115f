// Package menu is the interactive text front end: it parses typed commands
// into client messages and prints send results. All protocol decisions live
// below it; the menu only constructs values and relays errors.
package menu

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/NooraWael/maze-wars/internal/proto"
)

// Sender is the slice of the client the menu needs.
type Sender interface {
	Send(proto.ClientMessage) error
}

const usage = `commands:
  join [username]                       join the game
  move <x> <y> <z> <pitch> <yaw> <roll> [yield]
                                        send a position update
  shoot <weapon> [pitch yaw roll]       fire a weapon
  help                                  show this text
  quit                                  leave`

// Run reads commands from r until EOF, "quit", or ctx cancellation, sending
// each resulting message through s. defaultName backs "join" with no argument.
func Run(ctx context.Context, r io.Reader, w io.Writer, s Sender, defaultName string) error {
	fmt.Fprintln(w, usage)

	sc := bufio.NewScanner(r)
	for {
		fmt.Fprint(w, "> ")
		if !sc.Scan() {
			return sc.Err()
		}
		select {
		case <-ctx.Done():
			return ctx.Err()
		default:
		}

		line := strings.TrimSpace(sc.Text())
		if line == "" {
			continue
		}
		if line == "quit" || line == "exit" {
			return nil
		}
		if line == "help" {
			fmt.Fprintln(w, usage)
			continue
		}

		msg, err := parseCommand(line, defaultName)
		if err != nil {
			fmt.Fprintf(w, "error: %v\n", err)
			continue
		}
		if err := s.Send(msg); err != nil {
			fmt.Fprintf(w, "error: %v\n", err)
			continue
		}
		fmt.Fprintf(w, "sent %s\n", msg.Tag())
	}
}

func parseCommand(line, defaultName string) (proto.ClientMessage, error) {
	fields := strings.Fields(line)
	switch fields[0] {
	case "join":
		name := defaultName
		if len(fields) > 1 {
			name = fields[1]
		}
		if name == "" {
			return nil, fmt.Errorf("join needs a username")
		}
		return proto.JoinGame{Username: name}, nil

	case "move":
		args := fields[1:]
		if len(args) < 6 {
			return nil, fmt.Errorf("move needs x y z pitch yaw roll")
		}
		vals := make([]float64, 6)
		for i := 0; i < 6; i++ {
			v, err := strconv.ParseFloat(args[i], 64)
			if err != nil {
				return nil, fmt.Errorf("move: bad number %q", args[i])
			}
			vals[i] = v
		}
		yield := false
		if len(args) > 6 {
			if args[6] != "yield" {
				return nil, fmt.Errorf("move: unexpected %q", args[6])
			}
			yield = true
		}
		return proto.Move{
			Position:     proto.Position{X: vals[0], Y: vals[1], Z: vals[2]},
			Orientation:  proto.Orientation{Pitch: vals[3], Yaw: vals[4], Roll: vals[5]},
			YieldControl: yield,
		}, nil

	case "shoot":
		args := fields[1:]
		if len(args) == 0 {
			return nil, fmt.Errorf("shoot needs a weapon type")
		}
		msg := proto.Shoot{WeaponType: args[0]}
		if len(args) > 1 {
			if len(args) != 4 {
				return nil, fmt.Errorf("shoot direction needs pitch yaw roll")
			}
			vals := make([]float64, 3)
			for i := 0; i < 3; i++ {
				v, err := strconv.ParseFloat(args[i+1], 64)
				if err != nil {
					return nil, fmt.Errorf("shoot: bad number %q", args[i+1])
				}
				vals[i] = v
			}
			msg.Direction = proto.Orientation{Pitch: vals[0], Yaw: vals[1], Roll: vals[2]}
		}
		return msg, nil

	default:
		return nil, fmt.Errorf("unknown command %q (try help)", fields[0])
	}
}

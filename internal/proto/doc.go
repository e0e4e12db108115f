// Package proto implements the JSON datagram protocol spoken with the game
// server.
//
// Each datagram carries exactly one message in a tagged envelope
// `{"type": <variant>, "data": <payload>}`. Client and server message sets
// are modeled as closed unions so a value can never carry fields from two
// variants at once.
package proto

package proto

import (
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
)

func NowTS() string { return time.Now().UTC().Format(time.RFC3339Nano) }

func MakeRunID() string {
	// Avoid embedding timestamps in identifiers. Use a random UUID.
	id, err := uuid.NewRandom()
	if err != nil {
		// Extremely rare; keep it unique-ish without leaking wall-clock date formatting.
		return fmt.Sprintf("run-%d", time.Now().UTC().UnixNano())
	}
	return "run-" + id.String()
}

// ToHex renders bytes for telemetry of undecodable datagrams.
func ToHex(b []byte) string {
	if len(b) == 0 {
		return ""
	}
	var sb strings.Builder
	sb.Grow(len(b) * 3)
	for i, v := range b {
		if i > 0 {
			sb.WriteByte(' ')
		}
		sb.WriteString(fmt.Sprintf("%02X", v))
	}
	return sb.String()
}

// Package packetlog writes optional NDJSON telemetry: one record per line,
// one line per datagram or lifecycle event. Disabled unless a path is
// configured; every call site must tolerate a nil *Logger.
package packetlog

import (
	"bufio"
	"encoding/json"
	"os"
	"sync"
)

type Record struct {
	RunID     string `json:"run_id"`
	Timestamp string `json:"ts"`
	Type      string `json:"type"`                // startup, udp, event
	Direction string `json:"direction,omitempty"` // in / out
	Remote    string `json:"remote,omitempty"`    // server host:port
	Length    int    `json:"len,omitempty"`
	Tag       string `json:"tag,omitempty"` // message variant when decoded
	Message   string `json:"message,omitempty"`
}

type Logger struct {
	mu sync.Mutex
	f  *os.File
	w  *bufio.Writer
}

func New(path string) (*Logger, error) {
	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		return nil, err
	}
	return &Logger{
		f: f,
		w: bufio.NewWriterSize(f, 64*1024),
	}, nil
}

func (l *Logger) Close() error {
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.w != nil {
		_ = l.w.Flush()
	}
	if l.f != nil {
		return l.f.Close()
	}
	return nil
}

// Log appends one record. Telemetry is advisory: marshal or write failures
// are swallowed rather than surfaced into the session paths.
func (l *Logger) Log(rec Record) {
	if l == nil {
		return
	}
	l.mu.Lock()
	defer l.mu.Unlock()

	if l.w == nil {
		return
	}
	line, err := json.Marshal(rec)
	if err != nil {
		return
	}
	_, _ = l.w.Write(append(line, '\n'))
	_ = l.w.Flush()
}

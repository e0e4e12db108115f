// Package client runs one game session: user actions go out through the
// join-gated send path while a background loop ingests server traffic,
// decodes it, and fans decoded events out to the consumer.
package client

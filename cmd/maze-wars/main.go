// Command maze-wars runs the interactive UDP game client.
//
// It starts:
// - the duplex UDP channel against the configured server,
// - the background receive loop that feeds decoded server events, and
// - an optional plain-text status endpoint.
package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/NooraWael/maze-wars/internal/client"
	"github.com/NooraWael/maze-wars/internal/config"
	"github.com/NooraWael/maze-wars/internal/dispatch"
	"github.com/NooraWael/maze-wars/internal/logger"
	"github.com/NooraWael/maze-wars/internal/menu"
	"github.com/NooraWael/maze-wars/internal/packetlog"
	"github.com/NooraWael/maze-wars/internal/proto"
	"github.com/NooraWael/maze-wars/internal/state"
	"github.com/NooraWael/maze-wars/internal/status"
	"github.com/NooraWael/maze-wars/internal/transport"
)

func main() {
	runID := proto.MakeRunID()

	cfg, err := config.Load()
	if err != nil {
		logger.Init(logger.DefaultConfig(), runID)
		log := logger.New("main")
		log.Fatal().Err(err).Msg("config load failed")
	}
	logger.Init(cfg.Log, runID)
	log := logger.New("main")

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// Shutdown watch: once a shutdown signal is received, allow a bounded
	// window for the receive loop to exit cleanly before forcing termination.
	go func() {
		<-ctx.Done()
		t := time.NewTimer(10 * time.Second)
		defer t.Stop()
		<-t.C
		log.Error().Msg("shutdown timed out after 10s, forcing exit")
		os.Exit(2)
	}()

	log.Info().
		Str("server", cfg.ServerAddr()).
		Dur("send_timeout", cfg.SendTimeout).
		Dur("idle_retry", cfg.IdleRetry).
		Int("status_port", cfg.StatusPort).
		Msg("starting maze-wars client")

	var pl *packetlog.Logger
	if cfg.UDPLogPath != "" {
		pl, err = packetlog.New(cfg.UDPLogPath)
		if err != nil {
			log.Fatal().Err(err).Str("path", cfg.UDPLogPath).Msg("open ndjson telemetry file failed")
		}
		defer func() { _ = pl.Close() }()
		log.Info().Str("path", cfg.UDPLogPath).Msg("ndjson telemetry enabled")
	} else {
		log.Info().Msg("ndjson telemetry disabled (default); set MW_TELEMETRY_UDP_NDJSON_PATH to enable")
	}

	ch, err := transport.Dial(transport.Config{
		RemoteAddr:  cfg.ServerAddr(),
		SendTimeout: cfg.SendTimeout,
		IdleRetry:   cfg.IdleRetry,
	})
	if err != nil {
		log.Fatal().Err(err).Str("server", cfg.ServerAddr()).Msg("udp dial failed")
	}
	log.Info().Str("local", ch.LocalAddr().String()).Msg("udp endpoint bound")

	roster := state.NewRoster()

	// Server events share stdout with the prompt; one line each.
	onEvent := func(ev dispatch.Event) {
		fmt.Printf("\n<< %s\n> ", ev.Summary)
	}

	cl, err := client.New(client.Config{ServerAddr: cfg.ServerAddr()}, runID, ch, pl, roster, onEvent)
	if err != nil {
		log.Fatal().Err(err).Msg("client init failed")
	}

	if cfg.StatusPort != 0 {
		_, err := status.Start(ctx, fmt.Sprintf(":%d", cfg.StatusPort), func() status.Data {
			st := cl.Stats()
			return status.Data{
				RunID:         runID,
				Server:        cfg.ServerAddr(),
				Username:      cfg.Username,
				Joined:        st.Joined,
				PlayersOnline: st.PlayersOnline,
				Lobby:         strings.Join(roster.Lobby(), ", "),
				Sent:          st.Sent,
				Received:      st.Received,
				ServerTime:    time.Now().UTC().Format(time.RFC3339),
			}
		})
		if err != nil {
			log.Warn().Err(err).Int("port", cfg.StatusPort).Msg("status endpoint disabled (listen failed)")
		}
	}

	runErr := make(chan error, 1)
	go func() { runErr <- cl.Run(ctx) }()

	go func() {
		// Menu exit (quit or EOF) ends the session.
		if err := menu.Run(ctx, os.Stdin, os.Stdout, cl, cfg.Username); err != nil && !errors.Is(err, context.Canceled) {
			log.Warn().Err(err).Msg("menu stopped")
		}
		stop()
	}()

	err = <-runErr
	if err != nil && !errors.Is(err, context.Canceled) {
		log.Error().Err(err).Msg("receive path failed; session requires restart")
	}

	// Sequenced shutdown: the loop above has exited, so the socket can go.
	if cerr := ch.Close(); cerr != nil {
		log.Warn().Err(cerr).Msg("udp close failed")
	}
	log.Info().Msg("shutdown complete")
}

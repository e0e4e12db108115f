// Package status serves a small plain-text page describing the live session,
// for poking at a running client with curl while the menu owns stdout.
package status

import (
	"bytes"
	"context"
	"fmt"
	"net/http"
	"time"
)

type Server struct {
	srv *http.Server
}

// Handler builds the status page handler around a snapshot provider. The
// provider is called per request; it must be cheap and safe for concurrent use.
func Handler(provider func() Data) (http.Handler, error) {
	tmpl, err := loadTemplate()
	if err != nil {
		return nil, err
	}

	mux := http.NewServeMux()
	mux.HandleFunc("/", func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/" {
			http.NotFound(w, r)
			return
		}
		if r.Method != http.MethodGet && r.Method != http.MethodHead {
			w.Header().Set("Allow", "GET, HEAD")
			http.Error(w, "Method Not Allowed", http.StatusMethodNotAllowed)
			return
		}

		var data Data
		if provider != nil {
			data = provider()
		}

		var buf bytes.Buffer
		if err := tmpl.Execute(&buf, data); err != nil {
			http.Error(w, "Status Template Error", http.StatusInternalServerError)
			return
		}
		w.Header().Set("Content-Type", "text/plain; charset=utf-8")
		_, _ = w.Write(buf.Bytes())
	})
	return mux, nil
}

func Start(ctx context.Context, addr string, provider func() Data) (*Server, error) {
	if addr == "" {
		return nil, fmt.Errorf("status addr is empty")
	}
	h, err := Handler(provider)
	if err != nil {
		return nil, err
	}

	s := &http.Server{
		Addr:              addr,
		Handler:           h,
		ReadHeaderTimeout: 10 * time.Second,
	}

	ss := &Server{srv: s}
	go func() {
		<-ctx.Done()
		ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
		defer cancel()
		_ = s.Shutdown(ctx)
	}()

	go func() { _ = s.ListenAndServe() }()
	return ss, nil
}

// Package server is the report viewer: a small HTTP server over a results
// directory so audit reports can be browsed without copying files around.
package server

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"os"
	"path/filepath"
	"sort"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
)

// Options configures the report viewer.
type Options struct {
	Port       int
	ResultsDir string // parent holding timestamped run directories
	Quiet      bool
}

// Serve blocks serving the results directory until ctx is cancelled.
func Serve(ctx context.Context, opts Options) error {
	if opts.Port == 0 {
		opts.Port = 8700
	}
	info, err := os.Stat(opts.ResultsDir)
	if err != nil || !info.IsDir() {
		return fmt.Errorf("results directory %s is not readable", opts.ResultsDir)
	}
	logger := slog.Default().With("component", "server")

	r := chi.NewRouter()
	if !opts.Quiet {
		r.Use(chimw.Logger)
	}
	r.Use(chimw.Recoverer)
	r.Use(chimw.RealIP)

	r.Get("/api/health", healthHandler)
	r.Get("/api/runs", runsHandler(opts.ResultsDir))
	r.Handle("/*", http.FileServer(http.Dir(opts.ResultsDir)))

	addr := net.JoinHostPort("localhost", fmt.Sprintf("%d", opts.Port))
	srv := &http.Server{
		Addr:              addr,
		Handler:           r,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = srv.Shutdown(shutdownCtx)
	}()

	logger.Info("report viewer started", "addr", "http://"+addr, "results", opts.ResultsDir)
	if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		return fmt.Errorf("report viewer failed: %w", err)
	}
	return nil
}

func healthHandler(w http.ResponseWriter, _ *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(map[string]string{"status": "ok"})
}

// runsHandler lists run directories, newest first, with a flag for whether
// each produced a report. Run names are timestamps, so lexical order is
// chronological.
func runsHandler(resultsDir string) http.HandlerFunc {
	type run struct {
		Name      string `json:"name"`
		HasReport bool   `json:"hasReport"`
	}
	return func(w http.ResponseWriter, _ *http.Request) {
		entries, err := os.ReadDir(resultsDir)
		if err != nil {
			http.Error(w, "results directory unreadable", http.StatusInternalServerError)
			return
		}
		runs := make([]run, 0, len(entries))
		for _, e := range entries {
			if !e.IsDir() {
				continue
			}
			_, statErr := os.Stat(filepath.Join(resultsDir, e.Name(), "index.html"))
			runs = append(runs, run{Name: e.Name(), HasReport: statErr == nil})
		}
		sort.Slice(runs, func(i, j int) bool { return runs[i].Name > runs[j].Name })

		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(runs)
	}
}

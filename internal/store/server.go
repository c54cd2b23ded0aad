package store

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"syscall"
	"time"

	"github.com/PoojaB26/tweet-tool-finder/internal/types"
)

// Server is the loopback HTTP sync API the scanner pushes to.
type Server struct {
	store *Store
	log   *slog.Logger
}

// NewServer creates the sync server over the given store.
func NewServer(store *Store, log *slog.Logger) *Server {
	if log == nil {
		log = slog.Default()
	}
	return &Server{store: store, log: log}
}

// Handler returns the routed handler, CORS included. The caller is a
// browser-extension-style client, so any origin is allowed.
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("/tweets", s.handleTweets)
	return withCORS(mux)
}

// Run serves on loopback only until the context is cancelled.
func (s *Server) Run(ctx context.Context, port int) error {
	addr := fmt.Sprintf("127.0.0.1:%d", port)

	ln, err := net.Listen("tcp", addr)
	if err != nil {
		if errors.Is(err, syscall.EADDRINUSE) {
			return fmt.Errorf("port %d already in use — another instance may be running", port)
		}
		return fmt.Errorf("failed to listen on %s: %w", addr, err)
	}

	srv := &http.Server{
		Handler:           s.Handler(),
		ReadHeaderTimeout: 5 * time.Second,
	}

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
		defer cancel()
		_ = srv.Shutdown(shutdownCtx)
	}()

	s.log.Info("sync server running", "addr", "http://"+addr)

	if err := srv.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

func (s *Server) handleTweets(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodOptions:
		w.WriteHeader(http.StatusNoContent)
	case http.MethodGet:
		s.handleList(w)
	case http.MethodPost:
		s.handleAppend(w, r)
	case http.MethodDelete:
		s.handleClear(w)
	default:
		http.NotFound(w, r)
	}
}

func (s *Server) handleList(w http.ResponseWriter) {
	tweets, err := s.store.List()
	if err != nil {
		s.serverError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"count":  len(tweets),
		"tweets": tweets,
	})
}

// handleAppend accepts one tweet or an array. A malformed body returns
// 400 before anything touches the document; inside an array, records
// that fail to decode are skipped so one bad element cannot sink a
// whole sync batch.
func (s *Server) handleAppend(w http.ResponseWriter, r *http.Request) {
	var raw json.RawMessage
	if err := json.NewDecoder(r.Body).Decode(&raw); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]any{"error": "invalid JSON"})
		return
	}

	var incoming []types.SavedTweet
	var elems []json.RawMessage
	if err := json.Unmarshal(raw, &elems); err == nil {
		for i, elem := range elems {
			var tweet types.SavedTweet
			if err := json.Unmarshal(elem, &tweet); err != nil {
				s.log.Debug("skipping malformed record", "index", i, "error", err)
				continue
			}
			incoming = append(incoming, tweet)
		}
	} else {
		var single types.SavedTweet
		if err := json.Unmarshal(raw, &single); err != nil {
			writeJSON(w, http.StatusBadRequest, map[string]any{"error": "invalid JSON"})
			return
		}
		incoming = []types.SavedTweet{single}
	}

	added, total, err := s.store.Append(incoming)
	if err != nil {
		s.serverError(w, err)
		return
	}

	s.log.Debug("append", "received", len(incoming), "added", added, "total", total)
	writeJSON(w, http.StatusOK, map[string]any{
		"success": true,
		"added":   added,
		"total":   total,
	})
}

func (s *Server) handleClear(w http.ResponseWriter) {
	if err := s.store.Clear(); err != nil {
		s.serverError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"success": true})
}

func (s *Server) serverError(w http.ResponseWriter, err error) {
	s.log.Error("store operation failed", "error", err)
	writeJSON(w, http.StatusInternalServerError, map[string]any{"error": "internal error"})
}

func writeJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(body)
}

func withCORS(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Methods", "GET, POST, DELETE, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type")
		next.ServeHTTP(w, r)
	})
}

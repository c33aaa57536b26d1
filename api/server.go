package api

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/rs/zerolog"
)

// A Controller is the playback surface the Api exposes.
type Controller interface {
	Scrub(progress uint16) error
	Resume()
	Restart()
	SetReverse(reverse bool)
	Reverse() bool
	Playtime() uint32
}

type Api struct {
	ctrl   Controller
	static string
	log    zerolog.Logger
}

type statusResponse struct {
	Playtime uint32 `json:"playtime"`
	Reverse  bool   `json:"reverse"`
}

func NewApi(ctrl Controller, static string, logger zerolog.Logger) *Api {
	a := new(Api)
	a.ctrl = ctrl
	a.static = static
	a.log = logger
	return a
}

// Handler routes the control endpoints and serves the client pages.
func (a *Api) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("/api/playtime", a.handlePlaytime)
	mux.HandleFunc("/api/progress", a.post(a.handleProgress))
	mux.HandleFunc("/api/reverse", a.post(a.handleReverse))
	mux.HandleFunc("/api/resume", a.post(func(w http.ResponseWriter, r *http.Request) {
		a.ctrl.Resume()
		a.writeStatus(w)
	}))
	mux.HandleFunc("/api/restart", a.post(func(w http.ResponseWriter, r *http.Request) {
		a.ctrl.Restart()
		a.writeStatus(w)
	}))
	if a.static != "" {
		mux.Handle("/", http.FileServer(http.Dir(a.static)))
	}
	return mux
}

func (a *Api) post(h http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost {
			w.Header().Set("Allow", http.MethodPost)
			http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
			return
		}
		h(w, r)
	}
}

func (a *Api) writeStatus(w http.ResponseWriter) {
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(statusResponse{
		Playtime: a.ctrl.Playtime(),
		Reverse:  a.ctrl.Reverse(),
	})
}

func (a *Api) handlePlaytime(w http.ResponseWriter, r *http.Request) {
	a.writeStatus(w)
}

func (a *Api) handleProgress(w http.ResponseWriter, r *http.Request) {
	v, err := strconv.ParseUint(r.URL.Query().Get("value"), 10, 16)
	if err != nil {
		http.Error(w, "value must be between 0 and 65535", http.StatusBadRequest)
		return
	}
	if err := a.ctrl.Scrub(uint16(v)); err != nil {
		a.log.Warn().Err(err).Uint64("progress", v).Msg("Scrub failed")
		http.Error(w, err.Error(), http.StatusBadGateway)
		return
	}
	a.writeStatus(w)
}

func (a *Api) handleReverse(w http.ResponseWriter, r *http.Request) {
	reverse, err := strconv.ParseBool(r.URL.Query().Get("value"))
	if err != nil {
		http.Error(w, "value must be true or false", http.StatusBadRequest)
		return
	}
	a.ctrl.SetReverse(reverse)
	a.writeStatus(w)
}

// Serve listens on addr until ctx is cancelled.
func (a *Api) Serve(ctx context.Context, addr string) error {
	srv := &http.Server{Addr: addr, Handler: a.Handler()}
	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		srv.Shutdown(shutdownCtx)
	}()

	a.log.Info().Str("addr", addr).Msg("Listening...")
	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

package main

import (
	"context"
	"encoding/json"
	"errors"
	"log"
	"net/http"
	"strconv"
	"sync/atomic"
	"time"

	"github.com/spf13/cobra"

	"github.com/xtding233/capturesim/internal/capture"
	"github.com/xtding233/capturesim/internal/catalog"
	"github.com/xtding233/capturesim/internal/config"
	"github.com/xtding233/capturesim/internal/experiment"
)

const (
	maxAttemptsPerRequest = 1000
	// upper bound on batches x attempts x configurations per experiment request
	maxExperimentWork = 50_000_000
)

func newServeCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve capture probabilities and experiments over HTTP",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runServe(cmd.Context(), a)
		},
	}
	def := config.Defaults()
	cmd.Flags().StringVar(&a.flags.Addr, "addr", def.Addr, "listen address")
	cmd.Flags().DurationVar(&a.flags.Reload, "reload", def.Reload, "catalog poll interval; 0 disables hot reload")
	return cmd
}

type server struct {
	cat      atomic.Pointer[catalog.Catalog]
	noise    float64
	seed     uint64
	workers  int
	batches  int
	attempts int
}

func newServer(a *app) *server {
	s := &server{
		noise:    a.settings.Noise,
		seed:     a.settings.Seed,
		workers:  a.settings.Workers,
		batches:  a.settings.Batches,
		attempts: a.settings.Attempts,
	}
	s.cat.Store(a.cat)
	return s
}

func (s *server) routes() *http.ServeMux {
	mux := http.NewServeMux()
	mux.HandleFunc("GET /catalog", s.handleCatalog)
	mux.HandleFunc("GET /probability", s.handleProbability)
	mux.HandleFunc("GET /attempt", s.handleAttempt)
	mux.HandleFunc("POST /experiment", s.handleExperiment)
	return mux
}

// reload rebuilds the catalog from disk. A catalog that fails to load or
// validate leaves the current one in place.
func (s *server) reload(loader *catalog.Loader, overlay string) error {
	loader.Invalidate()
	c, err := loader.Load(overlay)
	if err != nil {
		return err
	}
	s.cat.Store(c)
	return nil
}

func runServe(ctx context.Context, a *app) error {
	s := newServer(a)

	if a.loader != nil && a.settings.Reload > 0 {
		overlay := a.settings.Overlay
		w := catalog.NewWatcher(a.loader.Paths().Files(overlay), a.settings.Reload, func(path string) {
			if err := s.reload(a.loader, overlay); err != nil {
				log.Printf("reload after %s changed failed, keeping previous catalog: %v", path, err)
				return
			}
			log.Printf("catalog reloaded (%s changed)", path)
		})
		w.Start()
		defer w.Stop()
	}

	srv := &http.Server{
		Addr:              a.settings.Addr,
		Handler:           s.routes(),
		ReadHeaderTimeout: 10 * time.Second,
	}
	errCh := make(chan error, 1)
	go func() {
		log.Printf("listening on %s ...", a.settings.Addr)
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return err
	}
	if err := <-errCh; !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

type errResp struct {
	Err string `json:"err"`
}

type probabilityResp struct {
	Species     string         `json:"species"`
	Device      string         `json:"device"`
	Level       int            `json:"level"`
	Status      capture.Status `json:"status"`
	MaxHP       int            `json:"max_hp"`
	CurrentHP   int            `json:"current_hp"`
	Probability float64        `json:"probability"`
}

type attemptResp struct {
	Hits        []bool  `json:"hits"`
	Count       int     `json:"count"` // successful attempts
	Probability float64 `json:"probability"`
}

type experimentReq struct {
	Configs  []experiment.Config `json:"configs"`
	Batches  int                 `json:"batches"`
	Attempts int                 `json:"attempts"`
	Seed     uint64              `json:"seed"`
}

type experimentResp struct {
	Seed    uint64              `json:"seed"`
	Results []experiment.Result `json:"results"`
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeErr(w http.ResponseWriter, err error) {
	status := http.StatusInternalServerError
	switch {
	case errors.Is(err, capture.ErrNotFound):
		status = http.StatusNotFound
	case errors.Is(err, capture.ErrInvalidArgument), errors.Is(err, capture.ErrInvalidProb):
		status = http.StatusBadRequest
	}
	writeJSON(w, status, errResp{Err: err.Error()})
}

func badRequest(w http.ResponseWriter, msg string) {
	writeJSON(w, http.StatusBadRequest, errResp{Err: msg})
}

func parseFloat(r *http.Request, key string) (float64, bool, string) {
	s := r.URL.Query().Get(key)
	if s == "" {
		return 0, false, ""
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, false, "invalid " + key
	}
	return v, true, ""
}

func parseInt(r *http.Request, key string) (int, bool, string) {
	s := r.URL.Query().Get(key)
	if s == "" {
		return 0, false, ""
	}
	v, err := strconv.Atoi(s)
	if err != nil {
		return 0, false, "invalid " + key
	}
	return v, true, ""
}

// parseTarget reads species, device, level, status and health from the query.
// level defaults to 100, status to none and health to 1.
func parseTarget(r *http.Request) (experiment.Config, string) {
	q := r.URL.Query()
	cfg := experiment.Config{
		Species: q.Get("species"),
		Device:  q.Get("device"),
		Level:   capture.MaxLevel,
		Health:  1,
	}
	if cfg.Species == "" {
		return cfg, "missing param species"
	}
	if cfg.Device == "" {
		return cfg, "missing param device"
	}
	if v, ok, msg := parseInt(r, "level"); msg != "" {
		return cfg, msg
	} else if ok {
		cfg.Level = v
	}
	if v, ok, msg := parseFloat(r, "health"); msg != "" {
		return cfg, msg
	} else if ok {
		cfg.Health = v
	}
	if name := q.Get("status"); name != "" {
		st, err := capture.ParseStatus(name)
		if err != nil {
			return cfg, "invalid status"
		}
		cfg.Status = st
	}
	return cfg, ""
}

func (s *server) handleCatalog(w http.ResponseWriter, _ *http.Request) {
	c := s.cat.Load()
	writeJSON(w, http.StatusOK, map[string][]string{
		"species": c.SpeciesIDs(),
		"devices": c.DeviceIDs(),
	})
}

func (s *server) handleProbability(w http.ResponseWriter, r *http.Request) {
	cfg, msg := parseTarget(r)
	if msg != "" {
		badRequest(w, msg)
		return
	}
	c := s.cat.Load()
	cr, err := capture.NewFactory(c).Create(cfg.Species, cfg.Level, cfg.Status, cfg.Health)
	if err != nil {
		writeErr(w, err)
		return
	}
	p, err := capture.NewEngine(c).Probability(cr, cfg.Device)
	if err != nil {
		writeErr(w, err)
		return
	}
	writeJSON(w, http.StatusOK, probabilityResp{
		Species:     cfg.Species,
		Device:      cfg.Device,
		Level:       cfg.Level,
		Status:      cfg.Status,
		MaxHP:       cr.MaxHP(),
		CurrentHP:   cr.CurrentHP(),
		Probability: p,
	})
}

// handleAttempt throws n devices (default 1) with the non-reproducible source.
func (s *server) handleAttempt(w http.ResponseWriter, r *http.Request) {
	cfg, msg := parseTarget(r)
	if msg != "" {
		badRequest(w, msg)
		return
	}
	n, ok, msg := parseInt(r, "n")
	if msg != "" {
		badRequest(w, msg)
		return
	}
	if !ok {
		n = 1
	}
	if n < 1 || n > maxAttemptsPerRequest {
		badRequest(w, "n must be between 1 and "+strconv.Itoa(maxAttemptsPerRequest))
		return
	}

	c := s.cat.Load()
	cr, err := capture.NewFactory(c).Create(cfg.Species, cfg.Level, cfg.Status, cfg.Health)
	if err != nil {
		writeErr(w, err)
		return
	}
	engine, err := capture.NewEngine(c).WithNoise(s.noise)
	if err != nil {
		writeErr(w, err)
		return
	}
	p, err := engine.Probability(cr, cfg.Device)
	if err != nil {
		writeErr(w, err)
		return
	}
	resp := attemptResp{Hits: make([]bool, n), Probability: p}
	for i := range resp.Hits {
		out, err := engine.Attempt(cr, cfg.Device, nil)
		if err != nil {
			writeErr(w, err)
			return
		}
		resp.Hits[i] = out.Success
		if out.Success {
			resp.Count++
		}
	}
	writeJSON(w, http.StatusOK, resp)
}

func (s *server) handleExperiment(w http.ResponseWriter, r *http.Request) {
	var req experimentReq
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, 1<<20))
	dec.DisallowUnknownFields()
	if err := dec.Decode(&req); err != nil {
		badRequest(w, "invalid body: "+err.Error())
		return
	}
	if len(req.Configs) == 0 {
		badRequest(w, "configs must not be empty")
		return
	}
	if req.Batches == 0 {
		req.Batches = s.batches
	}
	if req.Attempts == 0 {
		req.Attempts = s.attempts
	}
	if req.Seed == 0 {
		req.Seed = s.seed
	}
	if req.Batches > 0 && req.Attempts > 0 &&
		float64(req.Batches)*float64(req.Attempts)*float64(len(req.Configs)) > maxExperimentWork {
		badRequest(w, "experiment too large")
		return
	}

	c := s.cat.Load()
	engine, err := capture.NewEngine(c).WithNoise(s.noise)
	if err != nil {
		writeErr(w, err)
		return
	}
	h := experiment.NewHarness(capture.NewFactory(c), engine)
	h.Seed = req.Seed
	h.Workers = s.workers
	results, err := h.Run(r.Context(), req.Configs, req.Batches, req.Attempts)
	if err != nil {
		writeErr(w, err)
		return
	}
	writeJSON(w, http.StatusOK, experimentResp{Seed: req.Seed, Results: results})
}

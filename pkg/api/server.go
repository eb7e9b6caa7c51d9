// Package api exposes the jukebox over HTTP and websockets: the API proxy
// routes used by the browser UI and the rotation sessions it drives.
package api

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/dixieflatline76/jukebox/config"
	"github.com/dixieflatline76/jukebox/pkg/music"
	"github.com/dixieflatline76/jukebox/pkg/provider"
	"github.com/dixieflatline76/jukebox/pkg/settings"
	"github.com/dixieflatline76/jukebox/pkg/wallpaper"
	"github.com/dixieflatline76/jukebox/pkg/weather"
	"github.com/dixieflatline76/jukebox/util/log"
	"github.com/gorilla/mux"
	"github.com/gorilla/websocket"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Recognizer is what the server needs from the music service.
type Recognizer interface {
	Recognize(ctx context.Context, req music.Request) (*music.Response, error)
	Usage() music.Status
}

// Config wires the server to the rest of the application.
type Config struct {
	Addr      string
	Providers []provider.ImageProvider
	Weather   weather.Source
	Music     Recognizer
	Settings  settings.Store
	Sessions  *wallpaper.Manager
	Hub       *Hub
	// Registerer receives the HTTP metrics and Gatherer serves /metrics.
	// Either may be nil.
	Registerer prometheus.Registerer
	Gatherer   prometheus.Gatherer
	// RecognitionLimit caps music recognitions per client IP per day.
	RecognitionLimit int
}

// Server is the REST and websocket server.
type Server struct {
	cfg        Config
	router     *mux.Router
	handler    http.Handler
	httpServer *http.Server
	upgrader   websocket.Upgrader
	hub        *Hub
	limiter    *dailyLimiter
	providers  map[provider.ID]provider.ImageProvider
}

// NewServer creates a new API server.
func NewServer(cfg Config) *Server {
	if cfg.Addr == "" {
		cfg.Addr = config.DefaultListen
	}
	if cfg.RecognitionLimit <= 0 {
		cfg.RecognitionLimit = config.DefaultRecognitionDailyLimit
	}
	if cfg.Hub == nil {
		cfg.Hub = NewHub()
	}
	if cfg.Settings == nil {
		cfg.Settings = &settings.MemoryStore{}
	}
	s := &Server{
		cfg:    cfg,
		router: mux.NewRouter(),
		upgrader: websocket.Upgrader{
			CheckOrigin: func(r *http.Request) bool {
				return true
			},
		},
		hub:       cfg.Hub,
		limiter:   newDailyLimiter(cfg.RecognitionLimit),
		providers: make(map[provider.ID]provider.ImageProvider),
	}
	for _, p := range cfg.Providers {
		s.providers[p.ID()] = p
	}
	s.setupRoutes()

	reg := cfg.Registerer
	if reg == nil {
		reg = prometheus.NewRegistry()
	}
	s.router.Use(newHTTPMetrics(reg).instrument)
	s.handler = recovery(withCORS(s.router))
	s.httpServer = &http.Server{
		Addr:              cfg.Addr,
		Handler:           s.handler,
		ReadHeaderTimeout: 10 * time.Second,
	}
	return s
}

func (s *Server) setupRoutes() {
	r := s.router
	r.HandleFunc("/health", s.handleHealth).Methods("GET")
	if s.cfg.Gatherer != nil {
		r.Handle("/metrics", promhttp.HandlerFor(s.cfg.Gatherer, promhttp.HandlerOpts{})).Methods("GET")
	}
	r.HandleFunc("/ws", s.handleWebSocket).Methods("GET")

	apiRouter := r.PathPrefix("/api").Subrouter()
	apiRouter.HandleFunc("/images/{provider}", s.handleImages).Methods("GET")

	apiRouter.HandleFunc("/weather/current", s.handleWeatherCurrent).Methods("GET")
	apiRouter.HandleFunc("/weather/location", s.handleWeatherLocation).Methods("GET")
	apiRouter.HandleFunc("/weather/auto", s.handleWeatherAuto).Methods("GET")

	apiRouter.HandleFunc("/music/recognize", s.handleMusicRecognize).Methods("POST")
	apiRouter.HandleFunc("/music/usage", s.handleMusicUsage).Methods("GET")

	apiRouter.HandleFunc("/settings", s.handleGetSettings).Methods("GET")
	apiRouter.HandleFunc("/settings", s.handlePutSettings).Methods("PUT")

	apiRouter.HandleFunc("/sessions", s.handleCreateSession).Methods("POST")
	apiRouter.HandleFunc("/sessions/{id}", s.handleGetSession).Methods("GET")
	apiRouter.HandleFunc("/sessions/{id}", s.handleDeleteSession).Methods("DELETE")
	apiRouter.HandleFunc("/sessions/{id}/settings", s.handleSessionSettings).Methods("PUT")
	apiRouter.HandleFunc("/sessions/{id}/weather", s.handleSessionWeather).Methods("PUT")
	apiRouter.HandleFunc("/sessions/{id}/music", s.handleSessionMusic).Methods("PUT")
	apiRouter.HandleFunc("/sessions/{id}/next", s.handleSessionNext).Methods("POST")
}

// Handler returns the HTTP handler for the server.
func (s *Server) Handler() http.Handler {
	return s.handler
}

// Hub returns the websocket hub.
func (s *Server) Hub() *Hub {
	return s.hub
}

// Start serves until Stop is called. It returns nil after a clean shutdown.
func (s *Server) Start() error {
	log.Printf("[API] Listening on http://%s", s.cfg.Addr)
	err := s.httpServer.ListenAndServe()
	if errors.Is(err, http.ErrServerClosed) {
		return nil
	}
	return err
}

// Stop gracefully shuts the server down.
func (s *Server) Stop(ctx context.Context) error {
	return s.httpServer.Shutdown(ctx)
}

package api

import (
	"context"
	"log"
	"net/http"
	"time"

	"github.com/gorilla/mux"
	"github.com/gorilla/websocket"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/status-im/cards-loader/cards_data"
)

type Server struct {
	port         string
	cardsService *cards_data.Service
	upgrader     websocket.Upgrader
	server       *http.Server
}

func New(port string, cardsService *cards_data.Service) *Server {
	return &Server{
		port:         port,
		cardsService: cardsService,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			CheckOrigin: func(r *http.Request) bool {
				return true
			},
		},
	}
}

// Router returns the HTTP handler with all routes registered
func (s *Server) Router() http.Handler {
	router := mux.NewRouter()

	router.HandleFunc("/api/v1/data", s.handleData).Methods(http.MethodGet)
	router.HandleFunc("/api/v1/config", s.handleConfig).Methods(http.MethodGet)
	router.HandleFunc("/api/v1/themes", s.handleThemes).Methods(http.MethodGet)
	router.HandleFunc("/api/v1/themes/{themeId:[A-Za-z0-9_-]+}/cards", s.handleThemeCards).Methods(http.MethodGet)
	router.HandleFunc("/api/v1/stats", s.handleStats).Methods(http.MethodGet)
	router.HandleFunc("/api/v1/cache/clear", s.handleClearCache).Methods(http.MethodPost)
	router.HandleFunc("/api/v1/reload", s.handleReload).Methods(http.MethodPost)

	router.HandleFunc("/ws/updates", s.handleUpdates)

	router.HandleFunc("/health", s.handleHealth)
	router.Handle("/metrics", promhttp.Handler())

	return router
}

func (s *Server) Start(ctx context.Context) error {
	s.server = &http.Server{
		Addr:    ":" + s.port,
		Handler: s.Router(),
	}

	log.Printf("Server starting at http://localhost:%s", s.port)
	log.Println("Prometheus metrics available at /metrics endpoint")

	go func() {
		if err := s.server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Printf("Server error: %v", err)
		}
	}()

	return nil
}

// Stop gracefully shuts down the server
func (s *Server) Stop() {
	if s.server != nil {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := s.server.Shutdown(ctx); err != nil {
			log.Printf("Error shutting down server: %v", err)
		}
	}
}

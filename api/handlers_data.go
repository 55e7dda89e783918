package api

import (
	"net/http"

	"github.com/gorilla/mux"
)

// handleData returns whatever is loaded, without triggering a load
func (s *Server) handleData(w http.ResponseWriter, r *http.Request) {
	s.sendJSONResponse(w, s.cardsService.Loader().GetData())
}

func (s *Server) handleConfig(w http.ResponseWriter, r *http.Request) {
	config, err := s.cardsService.Loader().LoadConfig(r.Context())
	if err != nil {
		s.sendLoaderError(w, err)
		return
	}
	s.sendJSONResponse(w, config)
}

func (s *Server) handleThemes(w http.ResponseWriter, r *http.Request) {
	themes, err := s.cardsService.Loader().LoadThemes(r.Context())
	if err != nil {
		s.sendLoaderError(w, err)
		return
	}
	s.sendJSONResponse(w, themes)
}

func (s *Server) handleThemeCards(w http.ResponseWriter, r *http.Request) {
	themeID := mux.Vars(r)["themeId"]

	cards, err := s.cardsService.Loader().LoadThemeCards(r.Context(), themeID)
	if err != nil {
		s.sendLoaderError(w, err)
		return
	}
	s.sendJSONResponse(w, cards)
}

func (s *Server) handleStats(w http.ResponseWriter, r *http.Request) {
	s.sendJSONResponse(w, s.cardsService.Loader().GetStats())
}

func (s *Server) handleClearCache(w http.ResponseWriter, r *http.Request) {
	s.cardsService.ClearCache(r.Context())
	s.sendJSONResponse(w, s.cardsService.Loader().GetStats())
}

func (s *Server) handleReload(w http.ResponseWriter, r *http.Request) {
	if err := s.cardsService.Reload(r.Context()); err != nil {
		s.sendLoaderError(w, err)
		return
	}
	s.sendJSONResponse(w, s.cardsService.Loader().GetStats())
}

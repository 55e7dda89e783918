package e2etest

import (
	"fmt"
	"log"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
)

// MockServer serves a card data set below /cards-data/ the way a static
// file host would
type MockServer struct {
	server *httptest.Server

	mu        sync.RWMutex
	files     map[string]string
	failures  map[string]int
	hits      map[string]int
	lastToken string
}

// NewMockServer creates and returns a new mock server with the default data set
func NewMockServer() *MockServer {
	ms := &MockServer{
		files:    defaultCardsData(),
		failures: make(map[string]int),
		hits:     make(map[string]int),
	}

	mux := http.NewServeMux()
	mux.HandleFunc("/cards-data/", ms.handleRequest)

	// httptest.Server automatically selects a free port
	ms.server = httptest.NewServer(mux)

	return ms
}

// GetURL returns the base path the loader should be configured with
func (ms *MockServer) GetURL() string {
	return ms.server.URL + "/cards-data/"
}

func (ms *MockServer) Close() {
	if ms.server != nil {
		ms.server.Close()
	}
}

// SetFile replaces or adds a resource, e.g. "cards/mario.json"
func (ms *MockServer) SetFile(name, body string) {
	ms.mu.Lock()
	defer ms.mu.Unlock()
	ms.files[name] = body
}

// RemoveFile makes a resource answer 404
func (ms *MockServer) RemoveFile(name string) {
	ms.mu.Lock()
	defer ms.mu.Unlock()
	delete(ms.files, name)
}

// FailWith makes a resource answer with the given status
func (ms *MockServer) FailWith(name string, status int) {
	ms.mu.Lock()
	defer ms.mu.Unlock()
	ms.failures[name] = status
}

// Hits returns how many requests a resource received
func (ms *MockServer) Hits(name string) int {
	ms.mu.RLock()
	defer ms.mu.RUnlock()
	return ms.hits[name]
}

// LastToken returns the cache-busting token of the last request
func (ms *MockServer) LastToken() string {
	ms.mu.RLock()
	defer ms.mu.RUnlock()
	return ms.lastToken
}

func (ms *MockServer) handleRequest(w http.ResponseWriter, r *http.Request) {
	name := strings.TrimPrefix(r.URL.Path, "/cards-data/")

	ms.mu.Lock()
	ms.hits[name]++
	ms.lastToken = r.URL.Query().Get("v")
	status, failing := ms.failures[name]
	body, ok := ms.files[name]
	ms.mu.Unlock()

	if failing {
		log.Printf("MockServer: failing %s with %d", name, status)
		http.Error(w, http.StatusText(status), status)
		return
	}
	if !ok {
		log.Printf("MockServer: Path not found: %s", r.URL.Path)
		http.NotFound(w, r)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	fmt.Fprint(w, body)
}

func defaultCardsData() map[string]string {
	return map[string]string{
		"config.json": `{
			"title": "Game Vocabulary",
			"defaultTheme": "mario",
			"languages": ["en", "es"]
		}`,
		"themes.json": `{
			"themes": {
				"mario": {"name": "Super Mario", "color": "#e52521"},
				"zelda": {"name": "The Legend of Zelda", "color": "#2e8b57"},
				"pokemon": {"name": "Pokemon", "color": "#ffcb05"}
			}
		}`,
		"cards/mario.json": `{
			"cards": [
				{"id": "mushroom", "en": "mushroom", "es": "champiñón"},
				{"id": "star", "en": "star", "es": "estrella"},
				{"id": "pipe", "en": "pipe", "es": "tubería"}
			]
		}`,
		"cards/zelda.json": `{
			"cards": [
				{"id": "sword", "en": "sword", "es": "espada"},
				{"id": "shield", "en": "shield", "es": "escudo"}
			]
		}`,
		"cards/pokemon.json": `{"cards": []}`,
	}
}

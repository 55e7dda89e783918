package e2etest

import (
	"encoding/json"
	"net/http"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWarmUpLoadsEverything(t *testing.T) {
	env := SetupTest(t)
	defer env.TearDown()

	var stats statsResponse
	status := getJSON(t, env.ServerBaseURL+"/api/v1/stats", &stats)
	require.Equal(t, http.StatusOK, status)

	assert.Equal(t, 3, stats.Themes)
	assert.Equal(t, 5, stats.TotalCards)
	assert.Equal(t, map[string]int{"mario": 3, "zelda": 2, "pokemon": 0}, stats.CardsByTheme)
	assert.Equal(t, 5, stats.CacheSize, "config, themes and three card collections")

	// Each resource was fetched exactly once
	for _, name := range []string{"config.json", "themes.json", "cards/mario.json", "cards/zelda.json", "cards/pokemon.json"} {
		assert.Equal(t, 1, env.MockServer.Hits(name), name)
	}
	assert.NotEmpty(t, env.MockServer.LastToken())
}

func TestDataEndpoints(t *testing.T) {
	env := SetupTest(t)
	defer env.TearDown()

	var config map[string]interface{}
	require.Equal(t, http.StatusOK, getJSON(t, env.ServerBaseURL+"/api/v1/config", &config))
	assert.Equal(t, "Game Vocabulary", config["title"])

	var themes map[string]map[string]string
	require.Equal(t, http.StatusOK, getJSON(t, env.ServerBaseURL+"/api/v1/themes", &themes))
	assert.Equal(t, "Super Mario", themes["mario"]["name"])

	var cards []map[string]string
	require.Equal(t, http.StatusOK, getJSON(t, env.ServerBaseURL+"/api/v1/themes/zelda/cards", &cards))
	require.Len(t, cards, 2)
	assert.Equal(t, "espada", cards[0]["es"])

	var data struct {
		Themes map[string]json.RawMessage   `json:"themes"`
		Cards  map[string][]json.RawMessage `json:"cards"`
	}
	require.Equal(t, http.StatusOK, getJSON(t, env.ServerBaseURL+"/api/v1/data", &data))
	assert.Len(t, data.Themes, 3)
	assert.Len(t, data.Cards, 3)

	// Served from cache, no further upstream requests
	assert.Equal(t, 1, env.MockServer.Hits("cards/zelda.json"))
}

func TestUnknownTheme(t *testing.T) {
	env := SetupTest(t)
	defer env.TearDown()

	var body map[string]string
	status := getJSON(t, env.ServerBaseURL+"/api/v1/themes/luigi/cards", &body)
	assert.Equal(t, http.StatusNotFound, status)
	assert.Contains(t, body["error"], "cards/luigi")

	// Failures are not cached
	getJSON(t, env.ServerBaseURL+"/api/v1/themes/luigi/cards", nil)
	assert.Equal(t, 2, env.MockServer.Hits("cards/luigi.json"))
}

func TestClearCacheRefetches(t *testing.T) {
	env := SetupTest(t)
	defer env.TearDown()

	tokenBefore := env.MockServer.LastToken()

	var stats statsResponse
	require.Equal(t, http.StatusOK, postJSON(t, env.ServerBaseURL+"/api/v1/cache/clear", &stats))
	assert.Equal(t, 0, stats.CacheSize)

	env.MockServer.SetFile("cards/pokemon.json", `{"cards":[{"id":"pikachu"}]}`)

	var cards []map[string]string
	require.Equal(t, http.StatusOK, getJSON(t, env.ServerBaseURL+"/api/v1/themes/pokemon/cards", &cards))
	assert.Len(t, cards, 1)
	assert.Equal(t, 2, env.MockServer.Hits("cards/pokemon.json"))
	assert.Equal(t, tokenBefore, env.MockServer.LastToken(), "clearing keeps the cache-busting token")
}

func TestReload(t *testing.T) {
	env := SetupTest(t)
	defer env.TearDown()

	tokenBefore := env.MockServer.LastToken()
	env.MockServer.SetFile("cards/pokemon.json", `{"cards":[{"id":"pikachu"},{"id":"eevee"}]}`)

	var stats statsResponse
	require.Equal(t, http.StatusOK, postJSON(t, env.ServerBaseURL+"/api/v1/reload", &stats))
	assert.Equal(t, 7, stats.TotalCards)
	assert.NotEqual(t, tokenBefore, env.MockServer.LastToken(), "reload uses a new cache-busting token")

	// A failing reload keeps the data served so far
	env.MockServer.FailWith("cards/zelda.json", http.StatusInternalServerError)

	var body map[string]string
	status := postJSON(t, env.ServerBaseURL+"/api/v1/reload", &body)
	assert.Equal(t, http.StatusBadGateway, status)
	assert.Contains(t, body["error"], "cards/zelda")

	require.Equal(t, http.StatusOK, getJSON(t, env.ServerBaseURL+"/api/v1/stats", &stats))
	assert.Equal(t, 7, stats.TotalCards)
}

func TestUpdatesWebSocket(t *testing.T) {
	env := SetupTest(t)
	defer env.TearDown()

	wsURL := "ws" + strings.TrimPrefix(env.ServerBaseURL, "http") + "/ws/updates"
	conn, _, err := websocket.DefaultDialer.Dial(wsURL, nil)
	require.NoError(t, err)
	defer conn.Close()

	require.Equal(t, http.StatusOK, postJSON(t, env.ServerBaseURL+"/api/v1/reload", nil))

	require.NoError(t, conn.SetReadDeadline(time.Now().Add(3*time.Second)))

	var event map[string]interface{}
	require.NoError(t, conn.ReadJSON(&event))
	assert.Equal(t, "reloaded", event["kind"])
	assert.Equal(t, float64(3), event["themes"])
	assert.Equal(t, float64(5), event["totalCards"])
}

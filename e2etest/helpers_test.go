package e2etest

import (
	"encoding/json"
	"io"
	"net/http"
	"testing"

	"github.com/stretchr/testify/require"
)

// getJSON performs a GET and decodes the body into target
func getJSON(t *testing.T, url string, target interface{}) int {
	t.Helper()

	resp, err := http.Get(url)
	require.NoError(t, err, "Should be able to make a request to %s", url)
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err, "Should be able to read response body")

	if target != nil {
		require.NoError(t, json.Unmarshal(body, target), "Response should be valid JSON: %s", body)
	}
	return resp.StatusCode
}

// postJSON performs an empty POST and decodes the body into target
func postJSON(t *testing.T, url string, target interface{}) int {
	t.Helper()

	resp, err := http.Post(url, "application/json", nil)
	require.NoError(t, err, "Should be able to make a request to %s", url)
	defer resp.Body.Close()

	if target != nil {
		require.NoError(t, json.NewDecoder(resp.Body).Decode(target))
	}
	return resp.StatusCode
}

type statsResponse struct {
	Themes       int            `json:"themes"`
	TotalCards   int            `json:"totalCards"`
	CardsByTheme map[string]int `json:"cardsByTheme"`
	CacheSize    int            `json:"cacheSize"`
}

package server_test

import (
	"encoding/json"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"pawfeed/feeds"
	"pawfeed/server"
)

func testApp() *server.ServerConfig {
	return &server.ServerConfig{
		Broadcaster: server.NewBroadcaster(),
		Feeds:       map[string]feeds.Feed{},
	}
}

func TestDiffEndpoint(t *testing.T) {
	app := server.Server(testApp())

	body := `{"oldText": "A\nB\nC\n", "newText": "A\nX\nC\n"}`
	req := httptest.NewRequest("POST", "/diff", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")

	resp, err := app.Test(req)
	require.NoError(t, err)
	assert.Equal(t, 200, resp.StatusCode)

	var result struct {
		Blocks []struct {
			Id   string `json:"id"`
			Type string `json:"type"`
		} `json:"blocks"`
		Summary struct {
			Modified    int    `json:"modified"`
			Description string `json:"description"`
		} `json:"summary"`
	}
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&result))

	require.Len(t, result.Blocks, 3)
	assert.Equal(t, "modified", result.Blocks[1].Type)
	assert.Equal(t, "b2-b3", result.Blocks[1].Id)
	assert.Equal(t, 1, result.Summary.Modified)
	assert.Equal(t, "1 block modified.", result.Summary.Description)
}

func TestDiffEndpointInvalidBody(t *testing.T) {
	app := server.Server(testApp())

	req := httptest.NewRequest("POST", "/diff", strings.NewReader("not json"))
	req.Header.Set("Content-Type", "application/json")

	resp, err := app.Test(req)
	require.NoError(t, err)
	assert.Equal(t, 400, resp.StatusCode)
}

func TestUnknownFeedReturns400(t *testing.T) {
	app := server.Server(testApp())

	req := httptest.NewRequest("GET", "/feeds/nope", nil)
	resp, err := app.Test(req)
	require.NoError(t, err)
	assert.Equal(t, 400, resp.StatusCode)
}

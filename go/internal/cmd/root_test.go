package main

import (
	"bytes"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/octofit/dashboard/go/internal/config"
)

func newUpstream(t *testing.T) *httptest.Server {
	t.Helper()
	mux := http.NewServeMux()
	mux.HandleFunc("GET /api/teams/", func(w http.ResponseWriter, r *http.Request) {
		io.WriteString(w, `{"results":[{"id":1,"name":"Team Marvel","description":"Heroes\nof Earth","member_count":3,"created_at":"2024-03-05T10:00:00Z"},{"id":2,"name":"Team DC"}]}`)
	})
	mux.HandleFunc("GET /api/leaderboard/", func(w http.ResponseWriter, r *http.Request) {
		io.WriteString(w, `[{"user":{"username":"batman"},"total_points":300},{"user":{"username":"ironman"},"team":{"name":"Team Marvel"},"total_points":100}]`)
	})
	mux.HandleFunc("GET /api/workouts/", func(w http.ResponseWriter, r *http.Request) {
		io.WriteString(w, `[]`)
	})
	mux.HandleFunc("GET /api/users/", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	})
	server := httptest.NewServer(mux)
	t.Cleanup(server.Close)
	return server
}

func execute(t *testing.T, args ...string) (string, error) {
	t.Helper()
	buf := &bytes.Buffer{}
	rootCmd.SetOut(buf)
	rootCmd.SetErr(buf)
	rootCmd.SetArgs(args)
	err := rootCmd.Execute()
	return buf.String(), err
}

func TestRootHelp(t *testing.T) {
	out, err := execute(t, "--help")
	require.NoError(t, err)
	assert.Contains(t, out, "list")
	assert.Contains(t, out, "serve")
}

func TestListTeams(t *testing.T) {
	upstream := newUpstream(t)
	out, err := execute(t, "--api-url", upstream.URL, "list", "teams")
	require.NoError(t, err)

	lines := strings.Split(strings.TrimSpace(out), "\n")
	require.Len(t, lines, 4)
	assert.Equal(t, "2 Teams", lines[0])
	assert.True(t, strings.HasPrefix(lines[1], "NAME"))
	assert.Contains(t, lines[2], "Mar 5, 2024")
	assert.Contains(t, lines[2], "Heroes of Earth")
	assert.Contains(t, lines[3], "No date")
	assert.Contains(t, lines[3], "No description")
}

func TestListLeaderboardRanksByPosition(t *testing.T) {
	upstream := newUpstream(t)
	out, err := execute(t, "--api-url", upstream.URL, "list", "leaderboard")
	require.NoError(t, err)

	assert.Contains(t, out, "2 Competitors")
	assert.Contains(t, out, "🥇 #1")
	assert.Less(t, strings.Index(out, "batman"), strings.Index(out, "ironman"))
	assert.Contains(t, out, "No Team")
}

func TestListEmptyCollection(t *testing.T) {
	upstream := newUpstream(t)
	out, err := execute(t, "--api-url", upstream.URL, "list", "workouts")
	require.NoError(t, err)
	assert.Equal(t, "0 Workouts\n", out)
}

func TestListFailure(t *testing.T) {
	upstream := newUpstream(t)
	_, err := execute(t, "--api-url", upstream.URL, "list", "users")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "HTTP error! status: 500")
}

func TestListRejectsUnknownCollection(t *testing.T) {
	_, err := execute(t, "list", "settings")
	assert.Error(t, err)
}

func TestServerRoutes(t *testing.T) {
	upstream := newUpstream(t)
	cfg := config.NewConfigFromEnv()
	cfg.APIBaseURL = upstream.URL
	cfg.Dashboard = config.DefaultDashboard()

	services, err := setupServices(cfg)
	require.NoError(t, err)
	defer services.Close()

	server := httptest.NewServer(newHandler(cfg, services))
	defer server.Close()

	resp, err := http.Get(server.URL + "/health")
	require.NoError(t, err)
	body, _ := io.ReadAll(resp.Body)
	resp.Body.Close()
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "OK", string(body))

	// populate the upstream metrics before scraping
	resp, err = http.Get(server.URL + "/fragments/teams")
	require.NoError(t, err)
	resp.Body.Close()

	resp, err = http.Get(server.URL + "/metrics")
	require.NoError(t, err)
	body, _ = io.ReadAll(resp.Body)
	resp.Body.Close()
	assert.Contains(t, string(body), "octofit_dashboard_upstream_requests_total")

	resp, err = http.Get(server.URL + "/live/stats")
	require.NoError(t, err)
	body, _ = io.ReadAll(resp.Body)
	resp.Body.Close()
	assert.JSONEq(t, `{"total_connections":0,"active_views":0,"view_connections":{}}`, string(body))
}

func TestLiveRequiresSameOriginWhenCSRFEnabled(t *testing.T) {
	upstream := newUpstream(t)
	cfg := config.NewConfigFromEnv()
	cfg.APIBaseURL = upstream.URL
	cfg.Dashboard = config.DefaultDashboard()
	cfg.CSRFKey = "0123456789abcdef0123456789abcdef"
	cfg.CORSAllowedOrigins = []string{"*"}

	services, err := setupServices(cfg)
	require.NoError(t, err)
	defer services.Close()

	server := httptest.NewServer(newHandler(cfg, services))
	defer server.Close()
	url := "ws" + strings.TrimPrefix(server.URL, "http") + "/live?view=users"

	_, resp, err := websocket.DefaultDialer.Dial(url, http.Header{"Origin": []string{"http://evil.example"}})
	require.Error(t, err)
	require.NotNil(t, resp)
	assert.Equal(t, http.StatusForbidden, resp.StatusCode)

	conn, _, err := websocket.DefaultDialer.Dial(url, http.Header{"Origin": []string{server.URL}})
	require.NoError(t, err)
	conn.Close()
}

package octofit_client

import (
	"fmt"
	"net/url"
)

const (
	// Base URL used when nothing else is configured
	DefaultBaseURL = "http://localhost:8000"

	// Codespaces forward the API port under this host pattern
	CodespaceURLFormat = "https://%s-8000.app.github.dev"

	// API Endpoints
	UsersEndpoint       = "/api/users/"
	TeamsEndpoint       = "/api/teams/"
	ActivitiesEndpoint  = "/api/activities/"
	LeaderboardEndpoint = "/api/leaderboard/"
	WorkoutsEndpoint    = "/api/workouts/"
)

// UserEndpoint is the resource path of a single user.
func UserEndpoint(id string) string {
	return fmt.Sprintf("%s%s/", UsersEndpoint, url.PathEscape(id))
}

// ResolveBaseURL picks the API origin: an explicit URL wins, then the
// Codespace forwarding host, then the local default.
func ResolveBaseURL(explicit, codespaceName string) string {
	if explicit != "" {
		return explicit
	}
	if codespaceName != "" {
		return fmt.Sprintf(CodespaceURLFormat, codespaceName)
	}
	return DefaultBaseURL
}
